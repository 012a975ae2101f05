package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// linkerScriptTemplate is the fixed script regenerated into the
// workspace for every build. The ENTRY() directive names a fixed
// token; --entry on the command line is authoritative when the user
// supplies a different entry symbol.
const linkerScriptTemplate = `ENTRY(component_entry)
SECTIONS {
  . = 0;
  .text    : { *(.text.component_entry) *(.text .text.*) }
  . = ALIGN(4);
  .rodata  : { *(.rodata .rodata.*) }
  . = ALIGN(4);
  .data    : { *(.data .data.*) *(.sdata .sdata.*) }
  . = ALIGN(4);
  .got     : { *(.got) *(.got.plt) }
  . = ALIGN(4);
  .bss     : { *(.bss .bss.*) *(.sbss .sbss.*) *(COMMON) }
  /DISCARD/ : { *(.comment) *(.note.*) *(.eh_frame*) *(.debug*) }
}
`

// writeLinkerScript emits the fixed script into the workspace.
func writeLinkerScript(ws *workspace) (string, error) {
	path := filepath.Join(ws.Dir, "component.ld")
	if err := os.WriteFile(path, []byte(linkerScriptTemplate), 0o644); err != nil {
		return "", &ConfigError{Reason: "failed to write linker script: " + err.Error()}
	}
	return path, nil
}

// linkObjects invokes {prefix}ld once over every object file, in
// input order, producing the linked ELF. -q is load-bearing: it keeps
// per-section relocation records in the ELF for the relocation
// extractor to mine.
func linkObjects(cfg *BuildConfig, ws *workspace, scriptPath string, objFiles []string) (string, error) {
	elfPath := filepath.Join(ws.Dir, "component.elf")
	ld := cfg.ToolchainPrefix + "ld"

	args := []string{
		"-T", scriptPath,
		"-o", elfPath,
		"--entry", cfg.EntrySymbol,
		"-nostdlib",
		"--no-relax",
		"--gc-sections",
		"-q",
	}
	args = append(args, objFiles...)

	cmd := exec.Command(ld, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "linking: %s %s\n", ld, strings.Join(args, " "))
	}

	if err := cmd.Run(); err != nil {
		return "", &LinkFailedError{Stderr: stderr.String()}
	}
	return elfPath, nil
}
