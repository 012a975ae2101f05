//go:build !linux && !darwin && !freebsd
// +build !linux,!darwin,!freebsd

package main

import (
	"os"
	"path/filepath"
)

// writeFileAtomic is the portable fallback: write-then-rename without
// an explicit fsync, since golang.org/x/sys/unix has no equivalent on
// this platform.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".ebin-*.tmp")
	if err != nil {
		return &IoError{Op: "create temp output", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &IoError{Op: "write temp output", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IoError{Op: "close temp output", Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return &IoError{Op: "rename into place", Err: err}
	}

	return nil
}
