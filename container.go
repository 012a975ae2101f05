package main

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/esptari/ebinc/internal/layout"
)

// ebinMagic is "EBIN" read as a little-endian uint32.
const ebinMagic uint32 = 0x4E494245
const ebinVersion uint16 = 1
const headerSize = 60
const relocEntrySize = 8

// Header is the 60-byte EBIN header, in its on-disk field order and
// widths.
type Header struct {
	Magic            uint32
	Version          uint16
	Type             uint16
	Flags            uint32
	CodeSize         uint32
	DataSize         uint32
	BssSize          uint32
	EntryOffset      uint32
	InterfaceVersion uint32
	MinRAM           uint32
	RelocCount       uint32
	RelocOffset      uint32
	CodeOffset       uint32
	DataOffset       uint32
	SymbolOffset     uint32
	SymbolCount      uint32
}

// BuildContainer packs header + relocation table + code + data into
// one little-endian byte stream. code is zero-padded to a 4-byte
// boundary before data_offset is computed, so the pad lives inside the
// code blob and data always starts aligned.
func BuildContainer(cfg *BuildConfig, code, data []byte, bssSize uint32, entryOffset uint32, relocs []Relocation) ([]byte, error) {
	code = layout.PadTo4(code)

	relocSize := relocEntrySize * len(relocs)
	codeOffset := headerSize + relocSize
	dataOffset := codeOffset + len(code)

	h := Header{
		Magic:            ebinMagic,
		Version:          ebinVersion,
		Type:             uint16(cfg.Type),
		Flags:            cfg.flags(),
		CodeSize:         uint32(len(code)),
		DataSize:         uint32(len(data)),
		BssSize:          bssSize,
		EntryOffset:      entryOffset,
		InterfaceVersion: cfg.InterfaceVersion,
		MinRAM:           cfg.MinRAM,
		RelocCount:       uint32(len(relocs)),
		RelocOffset:      headerSize,
		CodeOffset:       uint32(codeOffset),
		DataOffset:       uint32(dataOffset),
		SymbolOffset:     0,
		SymbolCount:      0,
	}

	var buf bytes.Buffer
	buf.Grow(dataOffset + len(data))

	if err := writeHeader(&buf, h); err != nil {
		return nil, &IoError{Op: "serialize header", Err: err}
	}
	for _, r := range relocs {
		if err := writeReloc(&buf, r); err != nil {
			return nil, &IoError{Op: "serialize relocation", Err: err}
		}
	}
	buf.Write(code)
	buf.Write(data)

	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, h Header) error {
	fields := []any{
		h.Magic, h.Version, h.Type, h.Flags,
		h.CodeSize, h.DataSize, h.BssSize, h.EntryOffset,
		h.InterfaceVersion, h.MinRAM, h.RelocCount, h.RelocOffset,
		h.CodeOffset, h.DataOffset, h.SymbolOffset, h.SymbolCount,
	}
	for _, f := range fields {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func writeReloc(buf *bytes.Buffer, r Relocation) error {
	var entry [relocEntrySize]byte
	binary.LittleEndian.PutUint32(entry[0:4], r.Offset)
	entry[4] = byte(r.Type)
	entry[5] = byte(r.Section)
	// entry[6:8] left zero: padding
	_, err := buf.Write(entry[:])
	return err
}

// ParseContainer decodes a serialized EBIN byte stream back into its
// header, relocation table, code blob, and data blob — the inverse of
// BuildContainer. Used by the test suite and by any future tooling
// that needs to inspect a built container.
func ParseContainer(b []byte) (Header, []Relocation, []byte, []byte, error) {
	var h Header
	if len(b) < headerSize {
		return h, nil, nil, nil, fmt.Errorf("container too short for header: %d bytes", len(b))
	}

	r := bytes.NewReader(b)
	fields := []any{
		&h.Magic, &h.Version, &h.Type, &h.Flags,
		&h.CodeSize, &h.DataSize, &h.BssSize, &h.EntryOffset,
		&h.InterfaceVersion, &h.MinRAM, &h.RelocCount, &h.RelocOffset,
		&h.CodeOffset, &h.DataOffset, &h.SymbolOffset, &h.SymbolCount,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return h, nil, nil, nil, fmt.Errorf("decode header: %w", err)
		}
	}

	if h.Magic != ebinMagic {
		return h, nil, nil, nil, fmt.Errorf("bad magic: 0x%x", h.Magic)
	}

	relocTableEnd := int(h.RelocOffset) + int(h.RelocCount)*relocEntrySize
	if relocTableEnd > len(b) {
		return h, nil, nil, nil, fmt.Errorf("relocation table runs past end of file")
	}

	relocs := make([]Relocation, h.RelocCount)
	for i := range relocs {
		off := int(h.RelocOffset) + i*relocEntrySize
		entry := b[off : off+relocEntrySize]
		relocs[i] = Relocation{
			Offset:  binary.LittleEndian.Uint32(entry[0:4]),
			Type:    layout.RelocType(entry[4]),
			Section: layout.Section(entry[5]),
		}
	}

	codeEnd := int(h.CodeOffset) + int(h.CodeSize)
	dataEnd := int(h.DataOffset) + int(h.DataSize)
	if codeEnd > len(b) || dataEnd > len(b) {
		return h, nil, nil, nil, fmt.Errorf("code/data blob runs past end of file")
	}
	if dataEnd != len(b) {
		return h, nil, nil, nil, fmt.Errorf("trailing bytes after data blob: file is %d bytes, data ends at %d", len(b), dataEnd)
	}

	code := b[h.CodeOffset:codeEnd]
	data := b[h.DataOffset:dataEnd]

	return h, relocs, code, data, nil
}
