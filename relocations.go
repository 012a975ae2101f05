package main

import (
	"encoding/binary"
	"fmt"

	"github.com/esptari/ebinc/internal/layout"
)

// Relocation is one entry of the EBIN relocation table.
type Relocation struct {
	Offset  uint32
	Type    layout.RelocType
	Section layout.Section
}

// extractRelocations mines ELF-reported absolute relocations against
// the writable sections, then synthesizes relocations for GOT entries
// the linker resolved statically but the loader must still rewrite at
// load time. Returns the merged table and the count of synthesized
// entries (for -v diagnostics).
//
// PC-relative relocations in .text are never emitted — they are
// self-relative and survive load-time relocation untouched; only
// R_RISCV_32 (absolute 32-bit) entries against .data are considered.
//
// Relocations ELF reports against .rodata are refused with
// MalformedElf rather than silently folded into the data blob: .rodata
// is laid out inside the code blob in the final container, so a
// .rodata R_RISCV_32 would need its offset recomputed relative to the
// code blob, not the data blob, and -fPIC code under the mandated
// flags is not expected to ever produce one.
func extractRelocations(p *parsedELF) ([]Relocation, int, error) {
	dataBase := dataBlobBase(p)

	var relocs []Relocation
	for _, r := range p.Relocs {
		if r.Type != rRISCV32 {
			continue
		}
		switch r.TargetSection {
		case ".data":
			relocs = append(relocs, Relocation{
				Offset:  uint32(r.Offset - dataBase),
				Type:    layout.RelocAbsolute,
				Section: layout.SectionData,
			})
		case ".rodata":
			return nil, 0, &MalformedElfError{Reason: fmt.Sprintf(
				"R_RISCV_32 relocation at 0x%x targets .rodata, which is laid out inside the code blob; refusing rather than emitting a wrong-blob offset", r.Offset)}
		default:
			// .text and any other section: PC-relative, not mined here.
		}
	}

	synthCount, err := synthesizeGOTRelocations(p, dataBase, &relocs)
	if err != nil {
		return nil, 0, err
	}

	return relocs, synthCount, nil
}

// dataBlobBase returns the virtual address the data blob starts at:
// .data's address if present, else .got's, else zero. Every blob
// offset computed below is relative to this address.
func dataBlobBase(p *parsedELF) uint64 {
	if data := p.section(".data"); data != nil {
		return data.Addr
	}
	if got := p.section(".got"); got != nil {
		return got.Addr
	}
	return 0
}

// synthesizeGOTRelocations handles the case where the GOT is
// folded into .data by the linker script, and the linker resolves its
// entries statically, so it emits no R_RISCV_32 relocations for them —
// but the loader must still rewrite those words when it moves the
// component. Each 4-byte GOT word whose value looks like a
// component-internal address (0 < value <= load_span) gets a
// synthesized data-blob relocation, unless ELF already reported one at
// that offset.
//
// The 0 < value <= load_span test is a heuristic: it assumes every
// legitimate GOT entry points within the component's own image. If a
// future toolchain config emitted a GOT entry referring to a fixed
// external address (e.g. a peripheral register), this would rewrite it
// incorrectly. The embedded loader does not expose such entries, so
// the heuristic is preserved as specified rather than made more
// conservative.
func synthesizeGOTRelocations(p *parsedELF, dataBase uint64, relocs *[]Relocation) (int, error) {
	got := p.section(".got")
	if got == nil || got.Size == 0 {
		return 0, nil
	}
	if len(got.Data) < int(got.Size) {
		return 0, &MalformedElfError{Reason: "short .got section data"}
	}

	loadSpan := p.imageEnd()

	existing := make(map[uint32]bool, len(*relocs))
	for _, r := range *relocs {
		if r.Section == layout.SectionData {
			existing[r.Offset] = true
		}
	}

	count := 0
	for i := uint64(0); i+4 <= got.Size; i += 4 {
		entryAddr := got.Addr + i
		value := binary.LittleEndian.Uint32(got.Data[i : i+4])
		dataOff := uint32(entryAddr - dataBase)

		if existing[dataOff] {
			continue
		}
		if value > 0 && uint64(value) <= loadSpan {
			*relocs = append(*relocs, Relocation{
				Offset:  dataOff,
				Type:    layout.RelocAbsolute,
				Section: layout.SectionData,
			})
			existing[dataOff] = true
			count++
		}
	}

	return count, nil
}
