package main

import "fmt"

// All seven failure kinds are fatal and terminate the pipeline
// immediately; none are retried. main maps each to a diagnostic on
// stderr and a nonzero exit status.

// ToolchainMissingError is raised by the toolchain probe when no
// candidate prefix yields a working {prefix}gcc.
type ToolchainMissingError struct {
	Tried []string
}

func (e *ToolchainMissingError) Error() string {
	return fmt.Sprintf("no working rv32imafc toolchain found (tried %d prefix(es): %v)", len(e.Tried), e.Tried)
}

// ConfigError is raised by CLI parsing and workspace setup: bad flags,
// missing required arguments, or colliding object-file names.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Reason
}

// CompileFailedError is raised by the compiler driver. Stderr is
// surfaced verbatim.
type CompileFailedError struct {
	Source string
	Stderr string
}

func (e *CompileFailedError) Error() string {
	return fmt.Sprintf("compile failed for %s:\n%s", e.Source, e.Stderr)
}

// LinkFailedError is raised by the linker driver. Stderr is surfaced
// verbatim.
type LinkFailedError struct {
	Stderr string
}

func (e *LinkFailedError) Error() string {
	return fmt.Sprintf("link failed:\n%s", e.Stderr)
}

// MalformedElfError is raised by the section extractor or relocation
// extractor when the linked ELF doesn't have the shape the pipeline
// relies on.
type MalformedElfError struct {
	Reason string
}

func (e *MalformedElfError) Error() string {
	return "malformed ELF: " + e.Reason
}

// EntryNotFoundError is raised by the entry resolver when the entry
// symbol is absent from the ELF symbol table. Suggestion is populated
// from internal/layout.NearestSymbol when a close match exists.
type EntryNotFoundError struct {
	Symbol     string
	Suggestion string
}

func (e *EntryNotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("entry symbol %q not found (did you mean %q?)", e.Symbol, e.Suggestion)
	}
	return fmt.Sprintf("entry symbol %q not found", e.Symbol)
}

// IoError is raised by the container serializer when the output file
// cannot be written.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
