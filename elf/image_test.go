package elf

import "testing"

// buildSyntheticImage64 lays out a minimal but complete ET_DYN ELF64 image
// in a flat buffer based at base: a header, one PT_DYNAMIC program header,
// a dynamic table (DT_HASH, DT_SYMTAB, DT_SYMENT, DT_STRTAB, DT_DEBUG), a
// SysV hash table, a 3-entry dynamic symbol table, and a string table. All
// addresses recorded in the dynamic table are absolute (base plus offset),
// the convention Dynsyms expects.
//
// Layout (offsets from base):
//
//	0x000 ehdr            (64 bytes)
//	0x040 phdr[0]          (56 bytes, PT_DYNAMIC)
//	0x200 dynamic table    (5 * 16 bytes)
//	0x300 hash table       (nbucket, nchain)
//	0x400 dynamic symtab   (3 * 24 bytes)
//	0x500 string table
//	0x600 r_debug          (only r_map, set to rDebugMapVal)
//	0x700 unused, zeroed
func buildSyntheticImage64(base uint64, rDebugMapVal uint64) []byte {
	buf := make([]byte, 0x800)

	// ehdr
	copy(buf[0:4], elfMagic[:])
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // little-endian
	putLE16(buf, 16, 3)    // e_type = ET_DYN
	putLE64(buf, 32, 0x40) // e_phoff
	putLE16(buf, 54, 56)   // e_phentsize
	putLE16(buf, 56, 1)    // e_phnum

	// phdr[0]: PT_DYNAMIC
	putLE32(buf, 0x40+0, 2)      // p_type = PT_DYNAMIC
	putLE32(buf, 0x40+4, 0)      // p_flags
	putLE64(buf, 0x40+16, 0x200) // p_vaddr
	putLE64(buf, 0x40+32, 0x50)  // p_filesz
	putLE64(buf, 0x40+40, 0x50)  // p_memsz

	// dynamic table: 5 entries of (d_tag, d_val), 16 bytes each
	dyn := func(i int, tag int64, val uint64) {
		off := 0x200 + i*16
		putLE64(buf, off, uint64(tag))
		putLE64(buf, off+8, val)
	}
	dyn(0, DT_HASH, base+0x300)
	dyn(1, DT_SYMTAB, base+0x400)
	dyn(2, DT_SYMENT, 24)
	dyn(3, DT_STRTAB, base+0x500)
	dyn(4, DT_DEBUG, base+0x600)

	// hash table: nbucket, nchain
	putLE32(buf, 0x300, 1) // nbucket
	putLE32(buf, 0x304, 3) // nchain == symbol count

	// string table at 0x500: "\0system\0other\0"
	strtab := "\x00system\x00other\x00"
	copy(buf[0x500:], strtab)

	// dynamic symtab at 0x400, 3 Sym64 entries (24 bytes each)
	sym := func(i int, name uint64, value uint64) {
		off := 0x400 + i*24
		putLE32(buf, off, uint32(name)) // st_name
		buf[off+4] = 0x12               // st_info
		buf[off+5] = 0                  // st_other
		putLE16(buf, off+6, 1)          // st_shndx
		putLE64(buf, off+8, value)      // st_value
		putLE64(buf, off+16, 0)         // st_size
	}
	sym(0, 0, 0)      // null symbol entry
	sym(1, 1, 0x1234) // "system" @ strtab offset 1
	sym(2, 8, 0x5678) // "other" @ strtab offset 8

	// r_debug at 0x600: { r_version int32; r_map uintptr (@8); ... }
	putLE64(buf, 0x600+8, rDebugMapVal)

	return buf
}

func TestImage_Open_FindsMagicAtSeed(t *testing.T) {
	base := uint64(0x400000)
	buf := buildSyntheticImage64(base, 0)
	o := newFakeOracle(base, buf, EndianLittle)

	img, err := Open(base+0x123, o) // seed somewhere mid-page, not at the magic itself
	if err != nil {
		t.Fatal(err)
	}
	if img.BaseAddress() != base {
		t.Fatalf("got base 0x%x, want 0x%x", img.BaseAddress(), base)
	}
}

func TestImage_Open_ScansBackwardAcrossPages(t *testing.T) {
	base := uint64(0x400000)
	buf := buildSyntheticImage64(base, 0)
	// Pad out to cover the pages the backward scan steps through before
	// reaching base, so those intermediate reads see zeroed memory rather
	// than an out-of-range fakeOracle error.
	padded := make([]byte, 3*pageSize+len(buf))
	copy(padded, buf)
	o := newFakeOracle(base, padded, EndianLittle)

	seed := base + 3*pageSize + 0x10
	img, err := Open(seed, o)
	if err != nil {
		t.Fatal(err)
	}
	if img.BaseAddress() != base {
		t.Fatalf("got base 0x%x, want 0x%x", img.BaseAddress(), base)
	}
}

// zeroOracle answers every address with a successful zero byte; used to
// exercise the bounded magic scan without allocating a 64 MiB test buffer.
type zeroOracle struct{}

func (zeroOracle) ReadByte(addr uint64) (byte, error) { return 0, nil }
func (zeroOracle) Endian() Endian                     { return EndianLittle }

func TestImage_Open_NoMagicFound(t *testing.T) {
	if _, err := Open(1<<40, zeroOracle{}); err == nil {
		t.Fatal("expected InvalidElf for an image with no magic")
	} else if _, ok := err.(*InvalidElf); !ok {
		t.Fatalf("got error of type %T, want *InvalidElf", err)
	}
}

func TestImage_Dynamics(t *testing.T) {
	base := uint64(0x400000)
	buf := buildSyntheticImage64(base, 0)
	o := newFakeOracle(base, buf, EndianLittle)

	img, err := Open(base, o)
	if err != nil {
		t.Fatal(err)
	}
	dyns, err := img.Dynamics()
	if err != nil {
		t.Fatal(err)
	}
	if len(dyns) != 5 {
		t.Fatalf("got %d dynamic entries, want 5", len(dyns))
	}

	d, err := img.FindDynamic(DT_SYMENT)
	if err != nil {
		t.Fatal(err)
	}
	if d == nil {
		t.Fatal("DT_SYMENT not found")
	}
	v, err := d.DVal()
	if err != nil {
		t.Fatal(err)
	}
	if v != 24 {
		t.Fatalf("got DT_SYMENT %d, want 24", v)
	}

	if d, err := img.FindDynamic(99); err != nil {
		t.Fatal(err)
	} else if d != nil {
		t.Fatal("expected nil for an absent tag")
	}
}

func TestImage_Dynsyms_ResolvesNames(t *testing.T) {
	base := uint64(0x400000)
	buf := buildSyntheticImage64(base, 0)
	o := newFakeOracle(base, buf, EndianLittle)

	img, err := Open(base, o)
	if err != nil {
		t.Fatal(err)
	}
	syms, err := img.Dynsyms()
	if err != nil {
		t.Fatal(err)
	}
	if len(syms) != 3 {
		t.Fatalf("got %d dynamic symbols, want 3", len(syms))
	}

	dtStrtab, err := img.FindDynamic(DT_STRTAB)
	if err != nil {
		t.Fatal(err)
	}
	strtabBase, err := dtStrtab.DVal()
	if err != nil {
		t.Fatal(err)
	}

	name, err := syms[1].Name(strtabBase)
	if err != nil {
		t.Fatal(err)
	}
	if name != "system" {
		t.Fatalf("got name %q, want %q", name, "system")
	}
	value, err := syms[1].StValue()
	if err != nil {
		t.Fatal(err)
	}
	if value != 0x1234 {
		t.Fatalf("got st_value 0x%x, want 0x1234", value)
	}

	name2, err := syms[2].Name(strtabBase)
	if err != nil {
		t.Fatal(err)
	}
	if name2 != "other" {
		t.Fatalf("got name %q, want %q", name2, "other")
	}
}

func TestImage_Dynamics_NoDynamicPhdr(t *testing.T) {
	base := uint64(0x500000)
	buf := make([]byte, 0x80)
	copy(buf[0:4], elfMagic[:])
	buf[4] = 2
	buf[5] = 1
	putLE16(buf, 16, 2) // e_type = ET_EXEC
	putLE64(buf, 32, 0x40)
	putLE16(buf, 54, 56)
	putLE16(buf, 56, 0) // no program headers at all

	o := newFakeOracle(base, buf, EndianLittle)
	img, err := Open(base, o)
	if err != nil {
		t.Fatal(err)
	}
	dyns, err := img.Dynamics()
	if err != nil {
		t.Fatal(err)
	}
	if len(dyns) != 0 {
		t.Fatalf("got %d dynamic entries, want 0", len(dyns))
	}
}

func TestImage_Shdrs_FindShdr(t *testing.T) {
	base := uint64(0x600000)
	buf := make([]byte, 0x200)
	copy(buf[0:4], elfMagic[:])
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // little-endian
	putLE16(buf, 16, 3)    // e_type = ET_DYN
	putLE64(buf, 40, 0x80) // e_shoff
	putLE16(buf, 58, 64)   // e_shentsize
	putLE16(buf, 60, 3)    // e_shnum

	// sh_type sits at +4 in both classes. Two sections share type 2 so the
	// first-match contract is observable.
	putLE32(buf, 0x80+4, 1)     // shdr[0]: SHT_PROGBITS
	putLE32(buf, 0x80+64+4, 2)  // shdr[1]: SHT_SYMTAB
	putLE32(buf, 0x80+128+4, 2) // shdr[2]: SHT_SYMTAB again

	o := newFakeOracle(base, buf, EndianLittle)
	img, err := Open(base, o)
	if err != nil {
		t.Fatal(err)
	}

	shdrs, err := img.Shdrs()
	if err != nil {
		t.Fatal(err)
	}
	if len(shdrs) != 3 {
		t.Fatalf("got %d section headers, want 3", len(shdrs))
	}
	for i, s := range shdrs {
		want := base + 0x80 + uint64(i)*64
		if s.BaseAddress() != want {
			t.Fatalf("shdr[%d] at 0x%x, want 0x%x", i, s.BaseAddress(), want)
		}
	}

	s, err := img.FindShdr(2)
	if err != nil {
		t.Fatal(err)
	}
	if s == nil {
		t.Fatal("expected a section of type 2")
	}
	if want := base + 0x80 + 64; s.BaseAddress() != want {
		t.Fatalf("got the section at 0x%x, want the first match at 0x%x", s.BaseAddress(), want)
	}

	if s, err := img.FindShdr(9); err != nil {
		t.Fatal(err)
	} else if s != nil {
		t.Fatal("expected nil for an absent section type")
	}
}

func TestImage_FindShdr_NoSections(t *testing.T) {
	base := uint64(0x600000)
	buf := make([]byte, 0x80)
	copy(buf[0:4], elfMagic[:])
	buf[4] = 2
	buf[5] = 1
	putLE16(buf, 16, 3)
	putLE64(buf, 40, 0x40) // e_shoff
	putLE16(buf, 58, 64)   // e_shentsize
	putLE16(buf, 60, 0)    // e_shnum: stripped, no section headers

	o := newFakeOracle(base, buf, EndianLittle)
	img, err := Open(base, o)
	if err != nil {
		t.Fatal(err)
	}
	shdrs, err := img.Shdrs()
	if err != nil {
		t.Fatal(err)
	}
	if len(shdrs) != 0 {
		t.Fatalf("got %d section headers, want 0", len(shdrs))
	}
	if s, err := img.FindShdr(2); err != nil {
		t.Fatal(err)
	} else if s != nil {
		t.Fatal("expected nil from FindShdr over an empty section table")
	}
}
