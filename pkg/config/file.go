package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rcarmo/go-templateurls/pkg/core/fs"
)

// DiscoverNames are the config files looked up in the working directory
// when none is given explicitly, in order.
var DiscoverNames = []string{".templateurls.toml", ".templateurls.yaml", ".templateurls.yml"}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadFile reads a TOML or YAML config file, chosen by extension. A
// relative base_path or out_dir is resolved against the file's directory.
func LoadFile(path string) (*Options, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var opts Options
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = parseTOML(path, data, &opts)
	case ".yaml", ".yml":
		err = parseYAML(path, data, &opts)
	default:
		return nil, fmt.Errorf("config file %s: unsupported format %q (want .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if opts.BasePath != "" && !filepath.IsAbs(opts.BasePath) {
		opts.BasePath = filepath.Join(dir, opts.BasePath)
	}
	if opts.OutDir != "" && !filepath.IsAbs(opts.OutDir) {
		opts.OutDir = filepath.Join(dir, opts.OutDir)
	}
	return &opts, nil
}

// Discover returns the first DiscoverNames entry present in dir, or "".
func Discover(dir string) string {
	for _, name := range DiscoverNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func parseTOML(path string, data []byte, opts *Options) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(opts); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		var sme *toml.StrictMissingError
		if errors.As(err, &sme) {
			pe.Message = sme.String()
		}
		return pe
	}
	return nil
}

func parseYAML(path string, data []byte, opts *Options) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}
