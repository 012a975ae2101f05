package main

import (
	"os"
	"os/exec"
	"path/filepath"
)

// defaultToolchainPrefixes is the small hard-coded fallback list
// consulted after any caller-supplied prefix (e.g. from
// EBINC_TOOLCHAIN_PREFIX), or alone when none is given. Mirrors the ESP-IDF install layout the loader's toolchain
// ships under.
func defaultToolchainPrefixes() []string {
	var prefixes []string

	home, err := os.UserHomeDir()
	if err == nil {
		prefixes = append(prefixes, filepath.Join(home,
			".espressif", "tools", "riscv32-esp-elf",
			"esp-14.2.0_20241119", "riscv32-esp-elf", "bin", "riscv32-esp-elf-"))
	}

	prefixes = append(prefixes, "riscv32-esp-elf-", "riscv32-unknown-elf-")
	return prefixes
}

// probeToolchain returns the first prefix for which "{prefix}gcc
// --version" exits zero. candidates, if non-empty, is tried before the
// built-in fallback list.
func probeToolchain(candidates []string) (string, error) {
	tried := append([]string{}, candidates...)
	tried = append(tried, defaultToolchainPrefixes()...)

	for _, prefix := range tried {
		if prefix == "" {
			continue
		}
		cmd := exec.Command(prefix+"gcc", "--version")
		if err := cmd.Run(); err == nil {
			return prefix, nil
		}
	}

	return "", &ToolchainMissingError{Tried: tried}
}
