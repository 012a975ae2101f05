package main

import (
	"fmt"
	"os"
)

// VerboseMode gates the diagnostic prints threaded through the
// pipeline stages: a package-level bool set once at the start of Build
// from cfg.Verbose and read everywhere else, rather than a logger instance passed down
// the call stack.
var VerboseMode bool

// Build runs the full pipeline: probe toolchain, compile, link,
// extract sections, resolve entry, extract relocations, serialize,
// write. It either produces cfg.Output or returns one of the typed
// errors in errors.go; on any error, no output file is left behind.
func Build(cfg *BuildConfig) error {
	VerboseMode = cfg.Verbose

	if len(cfg.Sources) == 0 {
		return &ConfigError{Reason: "no source files given"}
	}

	var candidates []string
	if cfg.ToolchainPrefix != "" {
		candidates = []string{cfg.ToolchainPrefix}
	}
	prefix, err := probeToolchain(candidates)
	if err != nil {
		return err
	}
	cfg.ToolchainPrefix = prefix
	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "using toolchain: %s\n", prefix)
	}

	ws, err := newWorkspace(cfg.KeepWorkspace)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil && cfg.Verbose {
			fmt.Fprintf(os.Stderr, "warning: failed to clean up workspace %s: %v\n", ws.Dir, cerr)
		}
		if cfg.KeepWorkspace {
			fmt.Fprintf(os.Stderr, "workspace kept at: %s\n", ws.Dir)
		}
	}()

	scriptPath, err := writeLinkerScript(ws)
	if err != nil {
		return err
	}

	objFiles, err := compileAll(cfg, ws)
	if err != nil {
		return err
	}

	elfPath, err := linkObjects(cfg, ws, scriptPath, objFiles)
	if err != nil {
		return err
	}

	parsed, err := parseELFFile(elfPath)
	if err != nil {
		return err
	}

	code, data, bssSize, err := extractBlobs(parsed)
	if err != nil {
		return err
	}

	entryOffset, err := resolveEntry(parsed, cfg.EntrySymbol)
	if err != nil {
		return err
	}

	relocs, synthCount, err := extractRelocations(parsed)
	if err != nil {
		return err
	}

	container, err := BuildContainer(cfg, code, data, bssSize, entryOffset, relocs)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(cfg.Output, container); err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "code size: %d bytes\n", len(code))
		fmt.Fprintf(os.Stderr, "data size: %d bytes\n", len(data))
		fmt.Fprintf(os.Stderr, "bss size: %d bytes\n", bssSize)
		fmt.Fprintf(os.Stderr, "entry offset: %d\n", entryOffset)
		fmt.Fprintf(os.Stderr, "relocations: %d (%d synthesized from GOT)\n", len(relocs), synthCount)
	}
	fmt.Fprintf(os.Stderr, "wrote %s: %d bytes\n", cfg.Output, len(container))

	return nil
}
