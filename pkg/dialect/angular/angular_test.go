package angular_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcarmo/go-templateurls/pkg/core"
	"github.com/rcarmo/go-templateurls/pkg/dialect/angular"
	"github.com/rcarmo/go-templateurls/pkg/engine"
	"github.com/rcarmo/go-templateurls/pkg/testutil"
)

func fixture(t *testing.T) string {
	t.Helper()
	return testutil.TempDirWithFiles(t, map[string]string{
		"cases/hello-world/template.html":         "<h1>hello</h1>",
		"cases/skip-template/template.html":       "<p>small</p>",
		"cases/skip-template/template-large.html": "<p>large</p>",
		"cases/nested/views/item.html":            "<li></li>",
	})
}

func run(t *testing.T, opts engine.Options, path, content string) (string, error) {
	t.Helper()
	cfg, err := engine.NewConfig(opts)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	e, err := engine.New(cfg, angular.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	u := &engine.Unit{Path: path, Contents: []byte(content)}
	_, err = e.Process(context.Background(), u)
	return string(u.Contents), err
}

func TestQuoteAndWhitespaceNormalisation(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	want := "templateUrl:'/cases/hello-world/template.html'"

	tests := []struct {
		name  string
		input string
	}{
		{"single_quoted_value", `templateUrl: 'template.html'`},
		{"double_quoted_value", `templateUrl: "template.html"`},
		{"backtick_value", "templateUrl: `template.html`"},
		{"single_quoted_key", `'templateUrl': 'template.html'`},
		{"double_quoted_key", `"templateUrl": 'template.html'`},
		{"no_whitespace", `templateUrl:'template.html'`},
		{"mixed_whitespace", "\"templateUrl\" \t\r\n:\r\n\t  'template.html'"},
		{"dot_relative", `templateUrl: './template.html'`},
		{"vertical_tab", "templateUrl:\v'template.html'"},
		{"nbsp", "templateUrl\u00a0:\u00a0'template.html'"},
		{"bom", "templateUrl:\ufeff'template.html'"},
		{"line_separator", "templateUrl\u2028:\u2029'template.html'"},
		{"em_space", "templateUrl:\u2003'template.html'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, engine.Options{BasePath: root}, fake, tt.input)
			testutil.AssertNoError(t, err)
			testutil.AssertOutput(t, got, want)
		})
	}
}

func TestResolvesAgainstBasePath(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	got, err := run(t, engine.Options{BasePath: filepath.Join(root, "cases") + string(filepath.Separator)}, fake, `templateUrl: 'template.html'`)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, "templateUrl:'/hello-world/template.html'")
}

func TestParentRelativePath(t *testing.T) {
	root := fixture(t)
	src := filepath.Join(root, "cases", "nested", "js", "list.js")
	got, err := run(t, engine.Options{BasePath: root}, src, `templateUrl: '../views/item.html'`)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, "templateUrl:'/cases/nested/views/item.html'")
}

func TestPreservesSurroundingBytes(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	input := "// header\nangular.directive('x', () => ({\n  restrict: 'E',\n  templateUrl: 'template.html',\n  scope: {}\n}));\n"
	want := "// header\nangular.directive('x', () => ({\n  restrict: 'E',\n  templateUrl:'/cases/hello-world/template.html',\n  scope: {}\n}));\n"
	got, err := run(t, engine.Options{BasePath: root}, fake, input)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, want)
}

func TestMissingTemplateIsFatal(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	input := `templateUrl: 'template.html'; templateUrl: 'not-existing-template.html'`
	got, err := run(t, engine.Options{BasePath: root}, fake, input)

	var perr *engine.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *engine.Error, got %v", err)
	}
	if perr.Plugin != "templateurls" {
		t.Errorf("plugin = %q", perr.Plugin)
	}
	if !strings.HasPrefix(err.Error(), "Can't access template file or it doesn't exist") {
		t.Errorf("message = %q", err.Error())
	}
	testutil.AssertOutputContains(t, err.Error(), filepath.Join(root, "cases", "hello-world", "not-existing-template.html"))
	testutil.AssertOutput(t, got, input)
}

func TestSkipErrorsLeavesMissingMatch(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	stdio, _, errBuf := testutil.CaptureStdioNoInput()
	input := "a: templateUrl: 'template.html',\nb: templateUrl: 'not-existing-template.html',\nc: templateUrl: \"template.html\""
	want := "a: templateUrl:'/cases/hello-world/template.html',\nb: templateUrl: 'not-existing-template.html',\nc: templateUrl:'/cases/hello-world/template.html'"

	got, err := run(t, engine.Options{
		BasePath:   root,
		SkipErrors: true,
		Logger:     core.NewLogger(stdio, "templateurls", false),
	}, fake, input)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, want)
	testutil.AssertOutputContains(t, errBuf.String(), "[Warning] Can't access template file or it doesn't exist")
}

func TestSkipTemplates(t *testing.T) {
	root := fixture(t)
	src := filepath.Join(root, "cases", "skip-template", "directive.js")
	input := "templateUrl: 'template.html'\ntemplateUrl: 'template-large.html'"
	want := "templateUrl:'/cases/skip-template/template.html'\ntemplateUrl: 'template-large.html'"

	tests := []struct {
		name string
		skip engine.TemplateSkip
	}{
		{"pattern", engine.TemplateSkip{Pattern: `\-large\.html$`}},
		{"func", engine.TemplateSkip{Func: func(path string, u *engine.Unit) bool {
			return strings.HasSuffix(path, "-large.html") && strings.Contains(u.Path, "skip-template")
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checked []string
			got, err := run(t, engine.Options{
				BasePath:      root,
				SkipTemplates: tt.skip,
				Access: func(path string) error {
					checked = append(checked, filepath.Base(path))
					return nil
				},
			}, src, input)
			testutil.AssertNoError(t, err)
			testutil.AssertOutput(t, got, want)
			if len(checked) != 1 || checked[0] != "template.html" {
				t.Errorf("filesystem consulted for %v, want only template.html", checked)
			}
		})
	}
}

func TestIgnoreMarker(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	input := "templateUrl: /*!*/'template.html',\ntemplateUrl: 'template.html'"
	want := "templateUrl: /*!*/'template.html',\ntemplateUrl:'/cases/hello-world/template.html'"
	got, err := run(t, engine.Options{BasePath: root}, fake, input)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, want)
}

func TestIdempotent(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	first, err := run(t, engine.Options{BasePath: root}, fake, `templateUrl: "template.html"`)
	testutil.AssertNoError(t, err)
	second, err := run(t, engine.Options{BasePath: root}, fake, first)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, second, first)
}

func TestTransformURL(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	got, err := run(t, engine.Options{
		BasePath:     root,
		TransformURL: func(url string) (string, error) { return "/static" + url + "?v=1", nil },
	}, fake, `templateUrl: 'template.html'`)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, "templateUrl:'/static/cases/hello-world/template.html?v=1'")

	_, err = run(t, engine.Options{
		BasePath:     root,
		TransformURL: func(string) (string, error) { return "", errors.New("bad transform") },
	}, fake, `templateUrl: 'template.html'`)
	testutil.AssertError(t, err)
}

func TestRemoteURLsAreResolvedByDefault(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	for _, input := range []string{
		`templateUrl: 'data:foo.html'`,
		`templateUrl: 'https://cdn.example.com/t.html'`,
		`templateUrl: '//cdn/t.html'`,
	} {
		got, err := run(t, engine.Options{BasePath: root}, fake, input)
		if err == nil || !strings.HasPrefix(err.Error(), "Can't access template file or it doesn't exist") {
			t.Errorf("%s: err = %v, want missing template error", input, err)
		}
		testutil.AssertOutput(t, got, input)
	}
}

func TestSkipRemoteLeavesRemoteURLsAlone(t *testing.T) {
	root := fixture(t)
	fake := filepath.Join(root, "cases", "hello-world", "fake.js")
	input := `templateUrl: 'https://cdn.example.com/t.html', templateUrl: '//cdn/t.html', templateUrl: 'data:foo.html', templateUrl: 'template.html'`
	var accessed []string
	got, err := run(t, engine.Options{
		BasePath:   root,
		SkipRemote: true,
		Access: func(path string) error {
			accessed = append(accessed, path)
			return nil
		},
	}, fake, input)
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, `templateUrl: 'https://cdn.example.com/t.html', templateUrl: '//cdn/t.html', templateUrl: 'data:foo.html', templateUrl:'/cases/hello-world/template.html'`)
	if len(accessed) != 1 {
		t.Errorf("accessed = %v, want only the local template", accessed)
	}
}

func TestCancelledContext(t *testing.T) {
	root := fixture(t)
	cfg, err := engine.NewConfig(engine.Options{BasePath: root})
	testutil.AssertNoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := angular.New().Resolve(ctx, &engine.Unit{Path: filepath.Join(root, "a.js")}, engine.Match{Groups: []string{"x.html"}}, cfg)
	if out.Kind != engine.Fatal || !errors.Is(out.Err, context.Canceled) {
		t.Errorf("outcome = %+v", out)
	}
}

func TestSiteURL(t *testing.T) {
	base := filepath.FromSlash("/srv/site")
	got, err := angular.SiteURL(base, filepath.Join(base, "a", "b.html"))
	testutil.AssertNoError(t, err)
	testutil.AssertOutput(t, got, "/a/b.html")
}

func TestTemplatePath(t *testing.T) {
	base := filepath.FromSlash("/srv/site")
	unit := filepath.FromSlash("/srv/site/app/x.js")
	testutil.AssertOutput(t, angular.TemplatePath(unit, "t.html", base), filepath.FromSlash("/srv/site/app/t.html"))
	testutil.AssertOutput(t, angular.TemplatePath(unit, "/app/t.html", base), filepath.FromSlash("/srv/site/app/t.html"))
}
