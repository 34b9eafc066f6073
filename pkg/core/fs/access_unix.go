//go:build unix

package fs

import (
	iofs "io/fs"

	"golang.org/x/sys/unix"
)

func access(path string) error {
	if err := unix.Access(path, unix.F_OK); err != nil {
		return &iofs.PathError{Op: "access", Path: path, Err: err}
	}
	return nil
}
