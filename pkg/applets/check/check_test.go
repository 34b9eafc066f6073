package check_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcarmo/go-templateurls/pkg/applets/check"
	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/testutil"
)

func TestCheck(t *testing.T) {
	tests := []testutil.CommandTestCase{
		{
			Name:       "all_ok",
			Args:       []string{"-b", "{dir}", "{dir}/app.js"},
			Files:      map[string]string{"app.js": "templateUrl: 'a.html'", "a.html": ""},
			WantCode:   core.ExitSuccess,
			WantOutSub: "ok\t",
		},
		{
			Name:       "missing",
			Args:       []string{"-b", "{dir}", "{dir}/app.js"},
			Files:      map[string]string{"app.js": "templateUrl: 'gone.html'"},
			WantCode:   core.ExitFailure,
			WantOutSub: "missing\t",
		},
		{
			Name:       "skip_templates",
			Args:       []string{"-b", "{dir}", "-T", `\.tpl\.html$`, "{dir}/app.js"},
			Files:      map[string]string{"app.js": "templateUrl: 'x.tpl.html'"},
			WantCode:   core.ExitSuccess,
			WantOutSub: "skipped\t",
		},
		{
			Name:       "remote",
			Args:       []string{"-b", "{dir}", "--skip-remote", "{dir}/app.js"},
			Files:      map[string]string{"app.js": "templateUrl: 'https://cdn.example.com/a.html'"},
			WantCode:   core.ExitSuccess,
			WantOutSub: "\tremote\n",
		},
		{
			Name:       "remote_without_skip_is_missing",
			Args:       []string{"-b", "{dir}", "{dir}/app.js"},
			Files:      map[string]string{"app.js": "templateUrl: 'data:foo.html'"},
			WantCode:   core.ExitFailure,
			WantOutSub: "missing\t",
		},
		{
			Name:     "bad_pattern",
			Args:     []string{"-b", "{dir}", "-T", "(", "{dir}/app.js"},
			Files:    map[string]string{"app.js": ""},
			WantCode: core.ExitUsage,
		},
	}
	testutil.RunCommandTests(t, check.Run, tests)
}

func TestCheckDoesNotModifyFiles(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, map[string]string{
		"app.js": "templateUrl: 'a.html'",
		"a.html": "",
	})
	out, _, code := testutil.CaptureAndRun(t, check.Run, []string{"-b", dir, filepath.Join(dir, "app.js")}, "")
	testutil.AssertExitCode(t, code, core.ExitSuccess)
	testutil.AssertFileContent(t, filepath.Join(dir, "app.js"), "templateUrl: 'a.html'")

	line := strings.TrimSuffix(out.String(), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		t.Fatalf("line %q: want 4 fields, got %d", line, len(fields))
	}
	if fields[0] != check.StatusOK || fields[2] != "a.html" || fields[3] != "/a.html" {
		t.Errorf("unexpected line %q", line)
	}
}

func TestCheckListsEveryDirective(t *testing.T) {
	dir := testutil.TempDirWithFiles(t, map[string]string{
		"app.js": "templateUrl: 'a.html', templateUrl: 'b.html', templateUrl: 'a.html'",
		"a.html": "",
	})
	out, _, code := testutil.CaptureAndRun(t, check.Run, []string{"-b", dir, dir}, "")
	testutil.AssertExitCode(t, code, core.ExitFailure)

	var ok, missing int
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		switch {
		case strings.HasPrefix(line, check.StatusOK+"\t"):
			ok++
		case strings.HasPrefix(line, check.StatusMissing+"\t"):
			missing++
			if !strings.HasSuffix(line, filepath.Join(dir, "b.html")) {
				t.Errorf("missing line should name the template path: %q", line)
			}
		}
	}
	if ok != 2 || missing != 1 {
		t.Errorf("ok=%d missing=%d, want 2 and 1\n%s", ok, missing, out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "dist")); err == nil {
		t.Error("check must not write output")
	}
}
