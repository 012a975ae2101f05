package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// mandatoryCompileFlags are applied to every compiler invocation,
// unconditionally: they pin the target ABI, strip anything that would
// assume a host runtime, and keep each translation unit relocatable
// and section-splittable for the linker's --gc-sections pass.
var mandatoryCompileFlags = []string{
	"-c",
	"-fPIC",
	"-fno-common",
	"-ffunction-sections",
	"-fdata-sections",
	"-march=rv32imafc",
	"-mabi=ilp32f",
	"-mno-relax",
	"-O2",
	"-nostdlib",
	"-ffreestanding",
	"-Wall",
	"-Wextra",
}

// compileResult is one source file's compile outcome, threaded through
// the worker pool back to the caller in input order.
type compileResult struct {
	objFile string
	err     error
}

// compileAll invokes {prefix}gcc once per source file, in a worker
// pool bounded by cfg.Jobs, and returns the resulting object files in
// the same order as cfg.Sources — independent of which goroutine
// finished first — so the link step stays deterministic regardless of
// compile scheduling.
func compileAll(cfg *BuildConfig, ws *workspace) ([]string, error) {
	seen := make(map[string]string, len(cfg.Sources))
	for _, src := range cfg.Sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		if prior, ok := seen[base]; ok {
			return nil, &ConfigError{Reason: fmt.Sprintf(
				"object file name collision: %q and %q both produce %s.o", prior, src, base)}
		}
		seen[base] = src
	}

	results := make([]compileResult, len(cfg.Sources))

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, src := range cfg.Sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, src string) {
			defer wg.Done()
			defer func() { <-sem }()
			obj, err := compileOne(cfg, ws, src)
			results[i] = compileResult{objFile: obj, err: err}
		}(i, src)
	}
	wg.Wait()

	objFiles := make([]string, len(results))
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		objFiles[i] = r.objFile
	}
	return objFiles, nil
}

// compileOne compiles a single source file to an object file named
// after its basename inside the workspace.
func compileOne(cfg *BuildConfig, ws *workspace, src string) (string, error) {
	gcc := cfg.ToolchainPrefix + "gcc"
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	objFile := filepath.Join(ws.Dir, base+".o")

	args := append([]string{}, mandatoryCompileFlags...)
	if cfg.Debug {
		args = append(args, "-g")
	}
	for _, inc := range cfg.IncludeDirs {
		args = append(args, "-I", inc)
	}
	for _, def := range cfg.Defines {
		args = append(args, "-D", def)
	}
	args = append(args, "-o", objFile, src)

	cmd := exec.Command(gcc, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "compiling: %s %s\n", gcc, strings.Join(args, " "))
	}

	if err := cmd.Run(); err != nil {
		return "", &CompileFailedError{Source: src, Stderr: stderr.String()}
	}
	return objFile, nil
}

// parseIntArg parses a CLI integer argument accepting either decimal
// or 0x-prefixed hex, matching --interface-version's contract.
func parseIntArg(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
