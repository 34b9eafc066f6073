// Package sandbox confines template lookups and output writes to
// pre-authorised directory trees. It is disabled by default.
package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Common sandbox errors.
var (
	ErrAccessDenied = errors.New("access denied: path not in sandbox")
	ErrReadOnly     = errors.New("write access denied: path is read-only in sandbox")
)

// Permission represents file access permissions.
type Permission uint8

const (
	PermNone  Permission = 0
	PermRead  Permission = 1 << iota // Can read or stat files
	PermWrite                        // Can write/create files
)

// PathRule defines access rules for a path prefix.
type PathRule struct {
	Path       string     // Path prefix (resolved to absolute)
	Permission Permission // Allowed operations
}

// Config holds sandbox configuration.
type Config struct {
	// Trees that may be read, typically the base path.
	ReadPaths []string
	// Trees that may be written, typically the output directory.
	// Write implies read.
	WritePaths []string
}

type sandbox struct {
	mu      sync.RWMutex
	rules   []PathRule
	enabled bool
}

var global = &sandbox{}

// Init enables the global sandbox with the given configuration,
// replacing any previous rules.
func Init(cfg Config) error {
	rules := make([]PathRule, 0, len(cfg.ReadPaths)+len(cfg.WritePaths))
	for _, p := range cfg.ReadPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		rules = append(rules, PathRule{Path: filepath.Clean(abs), Permission: PermRead})
	}
	for _, p := range cfg.WritePaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		rules = append(rules, PathRule{Path: filepath.Clean(abs), Permission: PermRead | PermWrite})
	}

	global.mu.Lock()
	defer global.mu.Unlock()
	global.rules = rules
	global.enabled = true
	return nil
}

// Disable disables the sandbox (allows all operations) and drops its rules.
func Disable() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.enabled = false
	global.rules = nil
}

// IsEnabled returns whether the sandbox is enabled.
func IsEnabled() bool {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.enabled
}

// Check verifies that path may be accessed with the requested permission.
func Check(path string, perm Permission) error {
	global.mu.RLock()
	defer global.mu.RUnlock()

	if !global.enabled {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return ErrAccessDenied
	}
	absPath = filepath.Clean(absPath)

	denied := ErrAccessDenied
	for _, rule := range global.rules {
		if !within(absPath, rule.Path) {
			continue
		}
		if rule.Permission&perm == perm {
			return nil
		}
		if perm&PermWrite != 0 && rule.Permission&PermWrite == 0 {
			denied = ErrReadOnly
		}
	}
	return denied
}

func within(path, root string) bool {
	if path == root {
		return true
	}
	if !strings.HasPrefix(path, root) {
		return false
	}
	return strings.HasPrefix(path[len(root):], string(filepath.Separator)) || strings.HasSuffix(root, string(filepath.Separator))
}

// ReadFile reads a file within the sandbox.
func ReadFile(path string) ([]byte, error) {
	if err := Check(path, PermRead); err != nil {
		return nil, err
	}
	return os.ReadFile(path) // #nosec G304 -- sandbox Check enforces allowed paths
}

// WriteFile writes data to a file within the sandbox.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := Check(path, PermWrite); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// Stat returns file info within the sandbox.
func Stat(path string) (os.FileInfo, error) {
	if err := Check(path, PermRead); err != nil {
		return nil, err
	}
	return os.Stat(path)
}

// MkdirAll creates a directory and parents within the sandbox.
func MkdirAll(path string, perm os.FileMode) error {
	if err := Check(path, PermWrite); err != nil {
		return err
	}
	return os.MkdirAll(path, perm)
}
