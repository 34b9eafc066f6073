package urltransform_test

import (
	"errors"
	"testing"

	"github.com/rcarmo/go-templateurls/pkg/testutil"
	"github.com/rcarmo/go-templateurls/pkg/urltransform"
)

func TestAWK(t *testing.T) {
	tests := []struct {
		name    string
		program string
		in      string
		want    string
	}{
		{"empty_is_identity", "", "/a/b.html", "/a/b.html"},
		{"prefix", `{ print "/static" $0 }`, "/a/b.html", "/static/a/b.html"},
		{"strip_prefix", `{ sub(/^\/app/, ""); print }`, "/app/views/x.html", "/views/x.html"},
		{"url_variable", `BEGIN { print url "?v=2" }`, "/x.html", "/x.html?v=2"},
		{"first_line_only", `{ print; print "ignored" }`, "/x.html", "/x.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := urltransform.AWK(tt.program)
			if err != nil {
				t.Fatalf("AWK: %v", err)
			}
			got, err := fn(tt.in)
			testutil.AssertNoError(t, err)
			testutil.AssertOutput(t, got, tt.want)
		})
	}
}

func TestAWKParseError(t *testing.T) {
	if _, err := urltransform.AWK(`{ print ( }`); err == nil {
		t.Error("expected parse error")
	}
}

func TestAWKNoOutput(t *testing.T) {
	fn, err := urltransform.AWK(`{ }`)
	if err != nil {
		t.Fatal(err)
	}
	_, err = fn("/x.html")
	if !errors.Is(err, urltransform.ErrNoOutput) {
		t.Errorf("expected ErrNoOutput, got %v", err)
	}
}

func TestAWKExitStatus(t *testing.T) {
	fn, err := urltransform.AWK(`{ exit 3 }`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fn("/x.html"); err == nil {
		t.Error("expected error for non-zero exit status")
	}
}
