package main

import "github.com/esptari/ebinc/internal/layout"

// resolveEntry looks up the entry symbol in the ELF symbol table and
// computes its offset from the start of the code blob. If .text's
// base address can't be resolved, default to
// zero — the linker script places .text at virtual address 0, so this
// is the expected common case, not a fallback for a genuinely broken
// link.
func resolveEntry(p *parsedELF, symbol string) (uint32, error) {
	var entryAddr *uint64
	names := make([]string, 0, len(p.Symbols))
	for _, s := range p.Symbols {
		names = append(names, s.Name)
		if s.Name == symbol {
			v := s.Value
			entryAddr = &v
		}
	}

	if entryAddr == nil {
		return 0, &EntryNotFoundError{
			Symbol:     symbol,
			Suggestion: layout.NearestSymbol(symbol, names),
		}
	}

	var textBase uint64
	if text := p.section(".text"); text != nil {
		textBase = text.Addr
	}

	return uint32(*entryAddr - textBase), nil
}
