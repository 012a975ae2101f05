//go:build linux || darwin || freebsd
// +build linux darwin freebsd

package main

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// writeFileAtomic writes data to a temp file in the same directory as
// path, fsyncs the file, renames it into place, then fsyncs the parent
// directory, so a crash between write and rename never leaves a partial
// container at the destination path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".ebin-*.tmp")
	if err != nil {
		return &IoError{Op: "create temp output", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IoError{Op: "write temp output", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &IoError{Op: "fsync temp output", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IoError{Op: "close temp output", Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return &IoError{Op: "rename into place", Err: err}
	}

	if dirFd, err := os.Open(dir); err == nil {
		unix.Fsync(int(dirFd.Fd()))
		dirFd.Close()
	}

	return nil
}
