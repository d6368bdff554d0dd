package skua

import (
	"testing"

	"github.com/endeav0r/skua/elf"
)

// region is one contiguous, base-relative byte range a multiImageOracle
// serves reads from.
type region struct {
	base uint64
	data []byte
}

// multiImageOracle composes several independently-built memory regions
// (one per loaded image, plus whatever scratch space holds link_map nodes
// and name strings) into a single elf.Oracle, as a real process's address
// space would present itself to a byte-level reader.
type multiImageOracle struct {
	regions []region
	endian  elf.Endian
}

func (m *multiImageOracle) ReadByte(addr uint64) (byte, error) {
	for _, r := range m.regions {
		if addr >= r.base && addr-r.base < uint64(len(r.data)) {
			return r.data[addr-r.base], nil
		}
	}
	return 0, unmappedAddr{addr}
}

func (m *multiImageOracle) Endian() elf.Endian { return m.endian }

type unmappedAddr struct{ addr uint64 }

func (e unmappedAddr) Error() string { return "address not backed by any test region" }

func putLE16(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

func putLE32(b []byte, off int, v uint32) {
	for i := 0; i < 4; i++ {
		b[off+i] = byte(v >> (8 * i))
	}
}

func putLE64(b []byte, off int, v uint64) {
	for i := 0; i < 8; i++ {
		b[off+i] = byte(v >> (8 * i))
	}
}

var elfMagic = [4]byte{0x7f, 'E', 'L', 'F'}

// buildImage lays out a minimal ET_DYN ELF64 image at base: a header, one
// PT_DYNAMIC program header, a dynamic table exposing DT_HASH, DT_SYMTAB,
// DT_SYMENT, DT_STRTAB (and, for the seed image only, DT_DEBUG), a SysV
// hash table, a dynamic symbol table, and a string table holding the
// entries in syms (name -> value). The image's own name is written as a
// NUL-terminated string just past the symbol table, not in the string table.
func buildImage(base uint64, name string, rDebugAddr uint64, syms map[string]uint64) []byte {
	buf := make([]byte, 0x700)

	copy(buf[0:4], elfMagic[:])
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // little-endian
	putLE16(buf, 16, 3)    // e_type = ET_DYN
	putLE64(buf, 32, 0x40) // e_phoff
	putLE16(buf, 54, 56)   // e_phentsize
	putLE16(buf, 56, 1)    // e_phnum

	putLE32(buf, 0x40+0, 2)      // p_type = PT_DYNAMIC
	putLE64(buf, 0x40+16, 0x200) // p_vaddr
	numDyn := 4
	if rDebugAddr != 0 {
		numDyn = 5
	}
	memsz := uint64(numDyn * 16)
	putLE64(buf, 0x40+32, memsz) // p_filesz
	putLE64(buf, 0x40+40, memsz) // p_memsz

	dyn := func(i int, tag int64, val uint64) {
		off := 0x200 + i*16
		putLE64(buf, off, uint64(tag))
		putLE64(buf, off+8, val)
	}
	dyn(0, elf.DT_HASH, base+0x300)
	dyn(1, elf.DT_SYMTAB, base+0x400)
	dyn(2, elf.DT_SYMENT, 24)
	dyn(3, elf.DT_STRTAB, base+0x500)
	if rDebugAddr != 0 {
		dyn(4, elf.DT_DEBUG, rDebugAddr)
	}

	names := make([]string, 0, len(syms)+1)
	names = append(names, "") // null symbol entry, index 0
	for n := range syms {
		names = append(names, n)
	}

	// string table: "\0" + each name joined by "\0", trailing NUL
	strtab := []byte{0}
	offsets := make(map[string]uint32)
	offsets[""] = 0
	for _, n := range names[1:] {
		offsets[n] = uint32(len(strtab))
		strtab = append(strtab, []byte(n)...)
		strtab = append(strtab, 0)
	}
	copy(buf[0x500:], strtab)

	putLE32(buf, 0x300, 1)                  // nbucket
	putLE32(buf, 0x304, uint32(len(names))) // nchain == symbol count

	for i, n := range names {
		off := 0x400 + i*24
		putLE32(buf, off, offsets[n])
		buf[off+4] = 0x12
		putLE16(buf, off+6, 1)
		var val uint64
		if n != "" {
			val = syms[n]
		}
		putLE64(buf, off+8, val)
	}

	// name string for this image's own link_map entry, placed past the
	// symbol table region.
	nameOff := 0x400 + len(names)*24
	copy(buf[nameOff:], name)
	buf[nameOff+len(name)] = 0

	return buf
}

// buildTwoImageProcess assembles a two-image synthetic process -- a main
// executable at 0x400000 and a libc.so.6 at 0x7f0000000000, linked by a
// two-node link_map -- and returns an oracle over it plus the two load
// bases. startAtTail selects which node r_debug's r_map points at: the
// list head (the usual case) or the tail, forcing Open's l_prev walk to
// find the head on its own.
func buildTwoImageProcess(startAtTail bool) (*multiImageOracle, uint64, uint64) {
	mainBase := uint64(0x400000)
	libcBase := uint64(0x7f0000000000)

	mainBuf := buildImage(mainBase, "", mainBase+0x680, map[string]uint64{"main_sym": 0x10})
	libcBuf := buildImage(libcBase, "libc.so.6", 0, map[string]uint64{"system": 0x1234, "puts": 0x5678})

	// link_map nodes, 40 bytes each: l_addr@0, l_name@8, l_ld@16, l_next@24, l_prev@32
	linkMapHead := mainBase + 0x600
	mainNameAddr := mainBase + uint64(0x400+2*24) // past 2 symbol entries (null + main_sym)
	libcNode := libcBase + 0x600
	libcNameAddr := libcBase + uint64(0x400+3*24) // past 3 symbol entries (null + system + puts)

	// r_debug at mainBase+0x680: { r_version int32; r_map uintptr @+8 }
	if startAtTail {
		putLE64(mainBuf, 0x680+8, libcNode)
	} else {
		putLE64(mainBuf, 0x680+8, linkMapHead)
	}

	putLE64(mainBuf, 0x600+0, mainBase)     // l_addr
	putLE64(mainBuf, 0x600+8, mainNameAddr) // l_name
	putLE64(mainBuf, 0x600+24, libcNode)    // l_next
	putLE64(mainBuf, 0x600+32, 0)           // l_prev

	putLE64(libcBuf, 0x600+0, libcBase)     // l_addr
	putLE64(libcBuf, 0x600+8, libcNameAddr) // l_name
	putLE64(libcBuf, 0x600+24, 0)           // l_next
	putLE64(libcBuf, 0x600+32, linkMapHead) // l_prev

	o := &multiImageOracle{
		endian: elf.EndianLittle,
		regions: []region{
			{base: mainBase, data: mainBuf},
			{base: libcBase, data: libcBuf},
		},
	}
	return o, mainBase, libcBase
}

func TestProgram_Open_WalksLinkMapAndResolves(t *testing.T) {
	o, mainBase, libcBase := buildTwoImageProcess(false)

	prog, err := Open(mainBase+0x10, o)
	if err != nil {
		t.Fatal(err)
	}

	images := prog.Images()
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	if _, ok := images[""]; !ok {
		t.Fatal("expected the main executable under the empty name")
	}
	if _, ok := images["libc.so.6"]; !ok {
		t.Fatal("expected libc.so.6 among the loaded images")
	}

	addr, ok, err := prog.Resolve("libc", "system")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected to resolve system in libc.so.6")
	}
	if want := libcBase + 0x1234; addr != want {
		t.Fatalf("got address 0x%x, want 0x%x", addr, want)
	}

	if _, ok, err := prog.Resolve("libc", "nonexistent"); err != nil {
		t.Fatal(err)
	} else if ok {
		t.Fatal("expected ok=false for a symbol that is not exported")
	}

	if _, ok, err := prog.Resolve("nonexistent-lib", "system"); err != nil {
		t.Fatal(err)
	} else if ok {
		t.Fatal("expected ok=false when no image matches the substring")
	}
}

// TestProgram_Open_StartsFromListTail points r_debug's r_map at the tail of
// the link_map list rather than its head: the dynamic linker makes no
// guarantee about which node the pointer lands on, so Open must first walk
// l_prev back to the head before enumerating forward.
func TestProgram_Open_StartsFromListTail(t *testing.T) {
	o, mainBase, libcBase := buildTwoImageProcess(true)

	prog, err := Open(mainBase+0x10, o)
	if err != nil {
		t.Fatal(err)
	}

	images := prog.Images()
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	if _, ok := images[""]; !ok {
		t.Fatal("expected the main executable under the empty name")
	}
	if img, ok := images["libc.so.6"]; !ok {
		t.Fatal("expected libc.so.6 among the loaded images")
	} else if img.BaseAddress() != libcBase {
		t.Fatalf("got libc base 0x%x, want 0x%x", img.BaseAddress(), libcBase)
	}

	addr, ok, err := prog.Resolve("libc", "system")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected to resolve system in libc.so.6")
	}
	if want := libcBase + 0x1234; addr != want {
		t.Fatalf("got address 0x%x, want 0x%x", addr, want)
	}
}
