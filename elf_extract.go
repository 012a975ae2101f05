package main

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
)

// This file parses the linked ELF directly via the standard library's
// debug/elf rather than shelling out to readelf or nm; only gcc and ld
// are still invoked as external processes, since compiling and linking
// have no in-process substitute.

// rRISCV32 is the RISC-V absolute 32-bit relocation type (psABI value
// 1). debug/elf does not expose RISC-V relocation constants across all
// supported Go versions, so it's defined locally rather than imported.
const rRISCV32 = 1

// elfSection is the subset of section-header fields the pipeline
// needs: name, virtual address, file offset, size, and raw content
// (nil for SHT_NOBITS, i.e. .bss).
type elfSection struct {
	Name   string
	Addr   uint64
	Offset uint64
	Size   uint64
	Data   []byte
}

// elfSymbol is a resolved symbol-table entry.
type elfSymbol struct {
	Name  string
	Value uint64
}

// elfReloc is one ELF-reported relocation entry, still expressed in
// the target's virtual-address space exactly as the -q linker emitted
// it; blob-relative offsets are computed by the relocation extractor.
type elfReloc struct {
	TargetSection string // e.g. ".data", ".rodata" — the section the relocation table applies to
	Offset        uint64 // VMA-based offset (per the -q linker's convention)
	Type          uint32 // ELF32_R_TYPE(r_info)
}

// parsedELF is the pipeline-internal view of the linked ELF: plain
// data, independent of how it was obtained, so the section extractor,
// entry resolver, and relocation extractor can be exercised against
// hand-built fixtures in tests without a real compiled ELF file.
type parsedELF struct {
	Sections map[string]*elfSection
	Symbols  []elfSymbol
	Relocs   []elfReloc
}

// parseELFFile reads the linked ELF at path using debug/elf and
// reduces it to a parsedELF.
func parseELFFile(path string) (*parsedELF, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, &MalformedElfError{Reason: "failed to open ELF: " + err.Error()}
	}
	defer f.Close()

	p := &parsedELF{Sections: make(map[string]*elfSection)}

	for _, sec := range f.Sections {
		if sec.Type == elf.SHT_NULL {
			continue
		}

		es := &elfSection{
			Name:   sec.Name,
			Addr:   sec.Addr,
			Offset: sec.Offset,
			Size:   sec.Size,
		}

		if sec.Type != elf.SHT_NOBITS && sec.Flags&elf.SHF_ALLOC != 0 {
			data, err := sec.Data()
			if err != nil {
				return nil, &MalformedElfError{Reason: fmt.Sprintf("failed to read section %s: %v", sec.Name, err)}
			}
			es.Data = data
		}
		p.Sections[sec.Name] = es

		if sec.Type == elf.SHT_RELA {
			target := relocTargetName(sec.Name)
			relocs, err := decodeRela32(sec)
			if err != nil {
				return nil, &MalformedElfError{Reason: fmt.Sprintf("failed to parse relocations in %s: %v", sec.Name, err)}
			}
			for _, r := range relocs {
				p.Relocs = append(p.Relocs, elfReloc{
					TargetSection: target,
					Offset:        uint64(r.Off),
					Type:          r.Info & 0xff,
				})
			}
		}
	}

	syms, err := f.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, &MalformedElfError{Reason: "failed to read symbol table: " + err.Error()}
	}
	for _, s := range syms {
		p.Symbols = append(p.Symbols, elfSymbol{Name: s.Name, Value: s.Value})
	}

	return p, nil
}

// relocTargetName derives the target section name from a SHT_RELA
// section's own name, e.g. ".rela.data" -> ".data".
func relocTargetName(relaName string) string {
	const prefix = ".rela"
	if len(relaName) > len(prefix) && relaName[:len(prefix)] == prefix {
		return relaName[len(prefix):]
	}
	return relaName
}

// decodeRela32 decodes a 32-bit SHT_RELA section's raw bytes into
// elf.Rela32 entries.
func decodeRela32(sec *elf.Section) ([]elf.Rela32, error) {
	data, err := sec.Data()
	if err != nil {
		return nil, err
	}

	const entSize = 12 // Rela32: Off(4) + Info(4) + Addend(4)
	if len(data)%entSize != 0 {
		return nil, fmt.Errorf("relocation section size %d not a multiple of %d", len(data), entSize)
	}

	n := len(data) / entSize
	out := make([]elf.Rela32, n)
	for i := 0; i < n; i++ {
		off := i * entSize
		out[i].Off = binary.LittleEndian.Uint32(data[off:])
		out[i].Info = binary.LittleEndian.Uint32(data[off+4:])
		out[i].Addend = int32(binary.LittleEndian.Uint32(data[off+8:]))
	}
	return out, nil
}

// section looks up a section by name, returning nil if absent.
func (p *parsedELF) section(name string) *elfSection {
	return p.Sections[name]
}

// imageEnd returns the end virtual address of the component's
// addressable image: the highest (Addr+Size) among .text, .rodata,
// .data, .got, .bss that are present. Under the fixed linker script
// these sections are laid out contiguously from address 0, so this
// equals code_size+data_size+bss_size exactly — but computing it from
// addresses keeps the relocation extractor independent of whether
// every section is present.
func (p *parsedELF) imageEnd() uint64 {
	var end uint64
	for _, name := range []string{".text", ".rodata", ".data", ".got", ".bss"} {
		if sec := p.section(name); sec != nil {
			if e := sec.Addr + sec.Size; e > end {
				end = e
			}
		}
	}
	return end
}
