package main

import (
	"testing"

	"github.com/esptari/ebinc/internal/layout"
)

func baseConfig() *BuildConfig {
	return &BuildConfig{
		Type:             layout.ComponentCPU,
		InterfaceVersion: 0x00010000,
		MinRAM:           4096,
	}
}

// TestHeaderSizeAndMagic checks that the header is 60 bytes with a correct magic/version.
func TestHeaderSizeAndMagic(t *testing.T) {
	cfg := baseConfig()
	out, err := BuildContainer(cfg, []byte{1, 2, 3, 4}, nil, 0, 0, nil)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}

	h, _, _, _, err := ParseContainer(out)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	if h.Magic != ebinMagic {
		t.Errorf("magic = 0x%x, want 0x%x", h.Magic, ebinMagic)
	}
	if h.Version != 1 {
		t.Errorf("version = %d, want 1", h.Version)
	}
	if headerSize != 60 {
		t.Errorf("headerSize = %d, want 60", headerSize)
	}
}

// TestOffsetMonotonicity checks that header offsets only increase.
func TestOffsetMonotonicity(t *testing.T) {
	cfg := baseConfig()
	code := []byte{1, 2, 3} // odd length, forces padding
	data := []byte{9, 9, 9, 9}
	relocs := []Relocation{{Offset: 0, Type: layout.RelocAbsolute, Section: layout.SectionData}}

	out, err := BuildContainer(cfg, code, data, 16, 0, relocs)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}

	h, gotRelocs, gotCode, gotData, err := ParseContainer(out)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}

	if h.RelocOffset != 60 {
		t.Errorf("reloc_offset = %d, want 60", h.RelocOffset)
	}
	wantCodeOffset := 60 + 8*h.RelocCount
	if h.CodeOffset != wantCodeOffset {
		t.Errorf("code_offset = %d, want %d", h.CodeOffset, wantCodeOffset)
	}
	if h.DataOffset != h.CodeOffset+h.CodeSize {
		t.Errorf("data_offset = %d, want %d", h.DataOffset, h.CodeOffset+h.CodeSize)
	}
	if h.CodeSize%4 != 0 {
		t.Errorf("code_size = %d not 4-byte aligned", h.CodeSize)
	}
	if int(h.CodeSize) != len(gotCode) {
		t.Errorf("code blob length mismatch: header says %d, got %d", h.CodeSize, len(gotCode))
	}
	if int(h.DataSize) != len(gotData) {
		t.Errorf("data blob length mismatch: header says %d, got %d", h.DataSize, len(gotData))
	}
	if int(h.DataOffset)+len(gotData) != len(out) {
		t.Errorf("file_size = %d, want %d", len(out), int(h.DataOffset)+len(gotData))
	}
	if len(gotRelocs) != len(relocs) {
		t.Errorf("reloc count = %d, want %d", len(gotRelocs), len(relocs))
	}
}

// TestRelocationBounds checks that every relocation offset stays within its blob.
func TestRelocationBounds(t *testing.T) {
	cfg := baseConfig()
	code := make([]byte, 8)
	data := make([]byte, 8)
	relocs := []Relocation{
		{Offset: 0, Type: layout.RelocAbsolute, Section: layout.SectionData},
		{Offset: 4, Type: layout.RelocAbsolute, Section: layout.SectionData},
	}

	out, err := BuildContainer(cfg, code, data, 0, 0, relocs)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}

	h, gotRelocs, _, _, err := ParseContainer(out)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}

	for _, r := range gotRelocs {
		if r.Type != layout.RelocAbsolute {
			t.Errorf("reloc_type = %d, want ABSOLUTE", r.Type)
		}
		if r.Section != layout.SectionCode && r.Section != layout.SectionData {
			t.Errorf("section = %d, not in {0,1}", r.Section)
		}
		if r.Offset%4 != 0 {
			t.Errorf("offset %d not 4-byte aligned", r.Offset)
		}
		limit := h.DataSize
		if r.Section == layout.SectionCode {
			limit = h.CodeSize
		}
		if r.Offset+4 > limit {
			t.Errorf("offset %d + 4 exceeds blob size %d", r.Offset, limit)
		}
	}
}

// TestEntryInRange checks that the entry offset falls within the code blob.
func TestEntryInRange(t *testing.T) {
	cfg := baseConfig()
	code := make([]byte, 16)
	out, err := BuildContainer(cfg, code, nil, 0, 12, nil)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}
	h, _, _, _, err := ParseContainer(out)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	if h.EntryOffset >= h.CodeSize {
		t.Errorf("entry_offset %d >= code_size %d", h.EntryOffset, h.CodeSize)
	}
}

// TestDeterminism checks that identical inputs produce byte-identical output.
func TestDeterminism(t *testing.T) {
	cfg := baseConfig()
	code := []byte{1, 2, 3, 4, 5}
	data := []byte{6, 7, 8, 9}
	relocs := []Relocation{{Offset: 0, Type: layout.RelocAbsolute, Section: layout.SectionData}}

	a, err := BuildContainer(cfg, append([]byte{}, code...), append([]byte{}, data...), 32, 4, append([]Relocation{}, relocs...))
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}
	b, err := BuildContainer(cfg, append([]byte{}, code...), append([]byte{}, data...), 32, 4, append([]Relocation{}, relocs...))
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("two builds with identical inputs produced different output")
	}
}

// TestRoundtripConsumesWholeFile checks that decoding a built container consumes every byte.
func TestRoundtripConsumesWholeFile(t *testing.T) {
	cfg := baseConfig()
	code := []byte{1, 2, 3, 4}
	data := []byte{5, 6, 7, 8, 9, 10, 11, 12}
	relocs := []Relocation{
		{Offset: 0, Type: layout.RelocAbsolute, Section: layout.SectionData},
		{Offset: 4, Type: layout.RelocAbsolute, Section: layout.SectionData},
	}

	out, err := BuildContainer(cfg, code, data, 0, 0, relocs)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}

	h, gotRelocs, gotCode, gotData, err := ParseContainer(out)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}

	consumed := headerSize + len(gotRelocs)*relocEntrySize + len(gotCode) + len(gotData)
	if consumed != len(out) {
		t.Errorf("roundtrip consumed %d bytes, file is %d bytes", consumed, len(out))
	}
	_ = h
}

// TestAlignmentPadding checks that odd-length code gets padded, and
// data_offset accounts for the padded length.
func TestAlignmentPadding(t *testing.T) {
	cfg := baseConfig()
	code := []byte{1, 2, 3} // 3 bytes, needs 1 byte of padding

	out, err := BuildContainer(cfg, code, []byte{0xAA}, 0, 0, nil)
	if err != nil {
		t.Fatalf("BuildContainer: %v", err)
	}
	h, _, gotCode, _, err := ParseContainer(out)
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	if h.CodeSize != 4 {
		t.Errorf("code_size = %d, want 4 (padded)", h.CodeSize)
	}
	if len(gotCode) != 4 || gotCode[3] != 0 {
		t.Errorf("padded code blob = %v, want [1 2 3 0]", gotCode)
	}
	if h.DataOffset != h.CodeOffset+4 {
		t.Errorf("data_offset = %d, want code_offset(%d)+4", h.DataOffset, h.CodeOffset)
	}
}

func TestParseContainerRejectsBadMagic(t *testing.T) {
	bad := make([]byte, 60)
	if _, _, _, _, err := ParseContainer(bad); err == nil {
		t.Error("expected error for zeroed header with bad magic")
	}
}

func TestParseContainerRejectsTruncated(t *testing.T) {
	if _, _, _, _, err := ParseContainer([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated header")
	}
}
