package main

import (
	"os"
)

// workspace is the scoped temp directory holding every intermediate
// artifact of one build: object files, the linker script, and the
// linked ELF. It is released on every exit path unless the caller
// asked to keep it for debugging.
type workspace struct {
	Dir  string
	keep bool
}

// newWorkspace creates a fresh scoped temp directory.
func newWorkspace(keep bool) (*workspace, error) {
	dir, err := os.MkdirTemp("", "ebinc-*")
	if err != nil {
		return nil, &ConfigError{Reason: "failed to create workspace: " + err.Error()}
	}
	return &workspace{Dir: dir, keep: keep}, nil
}

// Close destroys the workspace unless it was asked to be kept, in
// which case the directory is left on disk for the caller to inspect.
func (w *workspace) Close() error {
	if w.keep {
		return nil
	}
	return os.RemoveAll(w.Dir)
}
