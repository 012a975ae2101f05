package main

import (
	"runtime"

	"github.com/xyproto/env/v2"

	"github.com/esptari/ebinc/internal/layout"
)

// BuildConfig is the merged result of CLI flags, environment variable
// overrides, and built-in defaults: the single value every pipeline
// stage reads from.
type BuildConfig struct {
	Sources []string
	Output  string
	Type    layout.ComponentType

	EntrySymbol string
	IncludeDirs []string
	Defines     []string

	InterfaceVersion uint32
	MinRAM           uint32
	Debug            bool

	ToolchainPrefix string // tried first by the probe; empty means only the built-in fallback list
	Jobs            int
	KeepWorkspace   bool
	Verbose         bool
}

// defaultEntrySymbol is the fallback entry symbol name.
const defaultEntrySymbol = "component_entry"

// defaultInterfaceVersion is the fallback --interface-version value.
const defaultInterfaceVersion = 0x00010000

// applyEnvDefaults fills in fields the CLI left at their zero value
// from environment variables.
func applyEnvDefaults(cfg *BuildConfig) {
	if cfg.ToolchainPrefix == "" {
		cfg.ToolchainPrefix = env.Str("EBINC_TOOLCHAIN_PREFIX")
	}
	if !cfg.Verbose {
		cfg.Verbose = env.Bool("EBINC_VERBOSE")
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
}

// EbinFlagDebug is the header's "flags" bit set on a debug build.
const EbinFlagDebug uint32 = 1 << 1

// flags computes the header's flags bitfield from the config.
func (c *BuildConfig) flags() uint32 {
	var f uint32
	if c.Debug {
		f |= EbinFlagDebug
	}
	return f
}
