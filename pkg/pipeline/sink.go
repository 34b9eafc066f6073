package pipeline

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rcarmo/go-templateurls/pkg/core/fs"
	"github.com/rcarmo/go-templateurls/pkg/engine"
)

// Sink receives every unit that was processed successfully.
// rel is the unit's path relative to the root it was found under.
type Sink interface {
	Write(u *engine.Unit, rel string) error
}

// WriterSink writes unit contents, back to back, to W.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Write(u *engine.Unit, _ string) error {
	_, err := s.W.Write(u.Contents)
	return err
}

// DirSink mirrors units into Root, keeping their relative layout.
type DirSink struct {
	Root string
}

func (s DirSink) Write(u *engine.Unit, rel string) error {
	return fs.WriteFile(filepath.Join(s.Root, rel), u.Contents, fileMode(u.Path))
}

// InPlaceSink overwrites each unit's own file.
type InPlaceSink struct{}

func (InPlaceSink) Write(u *engine.Unit, _ string) error {
	return fs.WriteFile(u.Path, u.Contents, fileMode(u.Path))
}

// DiscardSink drops every unit.
type DiscardSink struct{}

func (DiscardSink) Write(*engine.Unit, string) error { return nil }

func fileMode(path string) os.FileMode {
	if info, err := fs.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}
