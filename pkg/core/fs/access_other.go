//go:build !unix

package fs

import "os"

func access(path string) error {
	_, err := os.Stat(path)
	return err
}
