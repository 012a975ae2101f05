package main

// extractBlobs reads the parsed ELF and returns the unified code blob
// (.text ++ .rodata), the unified data blob (.data ++ .got), and the
// BSS size.
//
// .text and .rodata must be contiguous in the linked ELF because
// PC-relative references in .text reach .rodata via a signed 32-bit
// offset fixed at compile time; building the blob by address, zero-
// filling the ALIGN(4) gap the linker script inserts between them,
// preserves that invariant exactly as the linker laid them out. The
// same reasoning binds .data and .got together.
func extractBlobs(p *parsedELF) (code []byte, data []byte, bssSize uint32, err error) {
	text := p.section(".text")
	if text == nil {
		return nil, nil, 0, &MalformedElfError{Reason: "missing .text section"}
	}

	code = concatInAddrOrder(p, ".text", ".rodata")
	data = concatInAddrOrder(p, ".data", ".got")

	if bss := p.section(".bss"); bss != nil {
		bssSize = uint32(bss.Size)
	}

	return code, data, bssSize, nil
}

// concatInAddrOrder builds one byte slice spanning the named sections
// that are present, in ascending virtual-address order, zero-filling
// any gap between one section's end and the next section's start. The
// linker script's "ALIGN(4)" directives routinely leave such a gap —
// e.g. .text compiled with the "c" extension often ends on a 2-byte
// boundary, so .rodata starts up to 2 bytes later than .text's raw
// length would suggest. This mirrors what "objcopy -O binary" produces
// when asked to extract the same set of sections: a single contiguous,
// address-respecting image, not a raw concatenation of section
// contents. A missing section contributes nothing.
func concatInAddrOrder(p *parsedELF, names ...string) []byte {
	type present struct {
		addr uint64
		data []byte
	}
	var secs []present
	for _, n := range names {
		if sec := p.section(n); sec != nil {
			secs = append(secs, present{sec.Addr, sec.Data})
		}
	}
	for i := 1; i < len(secs); i++ {
		for j := i; j > 0 && secs[j].addr < secs[j-1].addr; j-- {
			secs[j], secs[j-1] = secs[j-1], secs[j]
		}
	}
	if len(secs) == 0 {
		return nil
	}

	base := secs[0].addr
	var out []byte
	for _, s := range secs {
		if gap := int(s.addr-base) - len(out); gap > 0 {
			out = append(out, make([]byte, gap)...)
		}
		out = append(out, s.data...)
	}
	return out
}
