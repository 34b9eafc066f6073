// Package fs provides filesystem operations that respect sandbox boundaries.
// Commands should use this package instead of direct os calls.
package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcarmo/go-templateurls/pkg/sandbox"
)

// ReadFile reads an entire file.
func ReadFile(path string) ([]byte, error) {
	return sandbox.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories as needed.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return sandbox.WriteFile(path, data, perm)
}

// Stat returns file info.
func Stat(path string) (os.FileInfo, error) {
	return sandbox.Stat(path)
}

// MkdirAll creates a directory and parents.
func MkdirAll(path string, perm os.FileMode) error {
	return sandbox.MkdirAll(path, perm)
}

// Access reports whether path exists and is reachable. It never reads the
// file's contents.
func Access(path string) error {
	if err := sandbox.Check(path, sandbox.PermRead); err != nil {
		return &iofs.PathError{Op: "access", Path: path, Err: err}
	}
	return access(path)
}

// WalkFiles walks root and calls fn for every regular file whose extension
// is in exts (case-insensitive). An empty exts accepts every file. Hidden
// directories and node_modules are skipped.
func WalkFiles(root string, exts []string, fn func(path string) error) error {
	info, err := Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fn(root)
	}
	return filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && IgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !HasExt(path, exts) {
			return nil
		}
		if err := sandbox.Check(path, sandbox.PermRead); err != nil {
			return nil
		}
		return fn(path)
	})
}

// HasExt reports whether path ends with one of exts.
func HasExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// IgnoredDir reports whether a directory is never walked or watched.
func IgnoredDir(name string) bool {
	return name == "node_modules" || (len(name) > 1 && name[0] == '.')
}
