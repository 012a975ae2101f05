package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/esptari/ebinc/internal/layout"
)

// A build tool that compiles C source into the EBIN container format
// for the espTari rv32imafc/ilp32f dynamic loader.

const versionString = "ebinc 1.0.0"

// stringList implements flag.Value for repeatable flags (-I, -D).
type stringList []string

func (s *stringList) String() string {
	if s == nil {
		return ""
	}
	return fmt.Sprint([]string(*s))
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ebinc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("ebinc", flag.ContinueOnError)

	output := fs.String("o", "", "output EBIN path (required)")
	typeStr := fs.String("t", "", "component type: cpu, video, audio, io (required)")
	entry := fs.String("e", defaultEntrySymbol, "entry symbol name")
	var includes stringList
	fs.Var(&includes, "I", "include directory (repeatable)")
	var defines stringList
	fs.Var(&defines, "D", "preprocessor define (repeatable)")
	interfaceVersion := fs.String("interface-version", "0x00010000", "interface version, hex or decimal")
	minRAM := fs.Uint("min-ram", 0, "minimum RAM required at load time")
	debug := fs.Bool("debug", false, "debug build (-g, sets header debug flag)")
	jobs := fs.Int("j", 0, "max concurrent compiler invocations (default: NumCPU)")
	keepWorkspace := fs.Bool("keep-workspace", false, "do not delete the scoped temp workspace on exit")
	verbose := fs.Bool("v", false, "verbose output")
	verboseLong := fs.Bool("verbose", false, "verbose output")
	showVersion := fs.Bool("version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ebinc -o OUTPUT -t TYPE [flags] source.c [source2.c ...]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Println(versionString)
		return nil
	}

	sources := fs.Args()
	if len(sources) == 0 {
		fs.Usage()
		return &ConfigError{Reason: "at least one source file is required"}
	}
	if *output == "" {
		return &ConfigError{Reason: "-o OUTPUT is required"}
	}
	if *typeStr == "" {
		return &ConfigError{Reason: "-t TYPE is required"}
	}

	componentType, err := layout.ParseComponentType(*typeStr)
	if err != nil {
		return &ConfigError{Reason: err.Error()}
	}

	ifaceVer, err := parseIntArg(*interfaceVersion)
	if err != nil {
		return &ConfigError{Reason: fmt.Sprintf("invalid --interface-version %q: %v", *interfaceVersion, err)}
	}

	cfg := &BuildConfig{
		Sources:          sources,
		Output:           *output,
		Type:             componentType,
		EntrySymbol:      *entry,
		IncludeDirs:      includes,
		Defines:          defines,
		InterfaceVersion: uint32(ifaceVer),
		MinRAM:           uint32(*minRAM),
		Debug:            *debug,
		Jobs:             *jobs,
		KeepWorkspace:    *keepWorkspace,
		Verbose:          *verbose || *verboseLong,
	}
	applyEnvDefaults(cfg)

	return Build(cfg)
}
