package main

import "testing"

func TestResolveEntry_Found(t *testing.T) {
	p := &parsedELF{
		Sections: map[string]*elfSection{".text": {Addr: 0x1000, Size: 64}},
		Symbols: []elfSymbol{
			{Name: "component_entry", Value: 0x1000},
			{Name: "helper", Value: 0x1010},
		},
	}

	off, err := resolveEntry(p, "component_entry")
	if err != nil {
		t.Fatalf("resolveEntry: %v", err)
	}
	if off != 0 {
		t.Errorf("offset = %d, want 0", off)
	}
}

func TestResolveEntry_NonZeroTextBase(t *testing.T) {
	p := &parsedELF{
		Sections: map[string]*elfSection{".text": {Addr: 0x1000, Size: 64}},
		Symbols:  []elfSymbol{{Name: "component_entry", Value: 0x1020}},
	}

	off, err := resolveEntry(p, "component_entry")
	if err != nil {
		t.Fatalf("resolveEntry: %v", err)
	}
	if off != 0x20 {
		t.Errorf("offset = 0x%x, want 0x20", off)
	}
}

func TestResolveEntry_MissingTextDefaultsToZero(t *testing.T) {
	p := &parsedELF{
		Sections: map[string]*elfSection{},
		Symbols:  []elfSymbol{{Name: "component_entry", Value: 0x40}},
	}

	off, err := resolveEntry(p, "component_entry")
	if err != nil {
		t.Fatalf("resolveEntry: %v", err)
	}
	if off != 0x40 {
		t.Errorf("offset = 0x%x, want 0x40 (text base defaults to 0)", off)
	}
}

// TestResolveEntry_NotFoundSuggestsClosest covers an unresolved entry plus the
// did-you-mean diagnostic.
func TestResolveEntry_NotFoundSuggestsClosest(t *testing.T) {
	p := &parsedELF{
		Sections: map[string]*elfSection{".text": {Addr: 0, Size: 16}},
		Symbols:  []elfSymbol{{Name: "component_entry", Value: 0}},
	}

	_, err := resolveEntry(p, "component_entr")
	if err == nil {
		t.Fatal("expected EntryNotFoundError")
	}
	entErr, ok := err.(*EntryNotFoundError)
	if !ok {
		t.Fatalf("got %T, want *EntryNotFoundError", err)
	}
	if entErr.Suggestion != "component_entry" {
		t.Errorf("suggestion = %q, want %q", entErr.Suggestion, "component_entry")
	}
}

func TestResolveEntry_NotFoundNoSuggestionWhenNothingClose(t *testing.T) {
	p := &parsedELF{
		Sections: map[string]*elfSection{".text": {Addr: 0, Size: 16}},
		Symbols:  []elfSymbol{{Name: "totally_unrelated_name", Value: 0}},
	}

	_, err := resolveEntry(p, "nonexistent_symbol")
	entErr, ok := err.(*EntryNotFoundError)
	if !ok {
		t.Fatalf("got %T, want *EntryNotFoundError", err)
	}
	if entErr.Suggestion != "" {
		t.Errorf("suggestion = %q, want empty", entErr.Suggestion)
	}
}
