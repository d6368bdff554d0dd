// Copyright 2017 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package elf

// Image bootstraps from an address known only to lie somewhere inside a
// loaded ELF image and lazily materializes its program headers, section
// headers, dynamic table, and dynamic symbol table. Each sequence is
// materialized once and cached for the lifetime of the Image.
type Image struct {
	reader      *ByteReader
	baseAddress uint64
	ehdr        *Ehdr
	phdrs       []*Phdr
	shdrs       []*Shdr
	dynamics    []*Dyn
	dynsyms     []*Sym
}

// Open scans backward from the page containing seed for the ELF magic (7F
// 45 4C 46) and constructs an Image rooted there.
//
// seed is rounded down to a 4 KiB page boundary, then the scan steps back
// one page at a time until the magic is found or magicScanBound pages have
// been examined, at which point it fails with *InvalidElf rather than
// scanning forever against a corrupted leak.
func Open(seed uint64, o Oracle) (*Image, error) {
	r := NewByteReader(o)
	addr := seed &^ (pageSize - 1)
	for i := 0; i < magicScanBound; i++ {
		buf, err := r.ReadBytes(addr, 4)
		if err != nil {
			return nil, err
		}
		if buf[0] == elfMagic[0] && buf[1] == elfMagic[1] && buf[2] == elfMagic[2] && buf[3] == elfMagic[3] {
			return &Image{reader: r, baseAddress: addr, ehdr: NewEhdr(addr, r)}, nil
		}
		addr -= pageSize
	}
	return nil, &InvalidElf{Seed: seed}
}

// BaseAddress returns the absolute virtual address of the ELF magic for
// this image.
func (img *Image) BaseAddress() uint64 { return img.baseAddress }

// Ehdr returns this image's header view.
func (img *Image) Ehdr() *Ehdr { return img.ehdr }

// Class returns this image's ELF class, as read from its header.
func (img *Image) Class() (Class, error) { return img.ehdr.Class() }

// Endian returns this image's byte order, as read from its header.
func (img *Image) Endian() (Endian, error) { return img.ehdr.Endian() }

// AddressBase returns the value added to intra-image virtual addresses to
// obtain runtime addresses: BaseAddress() for position-independent images
// (ET_REL, ET_DYN), or 0 for ET_EXEC (which uses absolute virtual
// addresses). Any other e_type fails with *InvalidElfType.
func (img *Image) AddressBase() (uint64, error) {
	t, err := img.ehdr.EType()
	if err != nil {
		return 0, err
	}
	switch t {
	case ET_REL, ET_DYN:
		return img.BaseAddress(), nil
	case ET_EXEC:
		return 0, nil
	default:
		return 0, &InvalidElfType{Value: t}
	}
}

// Phdrs returns this image's program header table, materializing it on
// first call.
func (img *Image) Phdrs() ([]*Phdr, error) {
	if img.phdrs != nil {
		return img.phdrs, nil
	}
	off, err := img.ehdr.EPhoff()
	if err != nil {
		return nil, err
	}
	entsize, err := img.ehdr.EPhentsize()
	if err != nil {
		return nil, err
	}
	num, err := img.ehdr.EPhnum()
	if err != nil {
		return nil, err
	}
	class, err := img.ehdr.Class()
	if err != nil {
		return nil, err
	}
	phdrs := make([]*Phdr, 0, num)
	for i := uint64(0); i < num; i++ {
		addr := img.BaseAddress() + off + i*entsize
		phdrs = append(phdrs, NewPhdr(addr, class, img.reader))
	}
	img.phdrs = phdrs
	return img.phdrs, nil
}

// Shdrs returns this image's section header table, materializing it on
// first call.
func (img *Image) Shdrs() ([]*Shdr, error) {
	if img.shdrs != nil {
		return img.shdrs, nil
	}
	off, err := img.ehdr.EShoff()
	if err != nil {
		return nil, err
	}
	entsize, err := img.ehdr.EShentsize()
	if err != nil {
		return nil, err
	}
	num, err := img.ehdr.EShnum()
	if err != nil {
		return nil, err
	}
	class, err := img.ehdr.Class()
	if err != nil {
		return nil, err
	}
	shdrs := make([]*Shdr, 0, num)
	for i := uint64(0); i < num; i++ {
		addr := img.BaseAddress() + off + i*entsize
		shdrs = append(shdrs, NewShdr(addr, class, img.reader))
	}
	img.shdrs = shdrs
	return img.shdrs, nil
}

// Dynamics returns this image's dynamic table, materializing it on first
// call by locating the first PT_DYNAMIC program header and walking its
// memory range. If there is no PT_DYNAMIC header, Dynamics returns an empty
// (non-nil after the first successful call) slice, not an error.
func (img *Image) Dynamics() ([]*Dyn, error) {
	if img.dynamics != nil {
		return img.dynamics, nil
	}
	phdrs, err := img.Phdrs()
	if err != nil {
		return nil, err
	}
	class, err := img.ehdr.Class()
	if err != nil {
		return nil, err
	}
	addressBase, err := img.AddressBase()
	if err != nil {
		return nil, err
	}
	var dynamics []*Dyn
	for _, p := range phdrs {
		typ, err := p.PType()
		if err != nil {
			return nil, err
		}
		if typ != PT_DYNAMIC {
			continue
		}
		vaddr, err := p.PVaddr()
		if err != nil {
			return nil, err
		}
		memsz, err := p.PMemsz()
		if err != nil {
			return nil, err
		}
		entsize := dynEntrySize(class)
		n := memsz / entsize
		dynamics = make([]*Dyn, 0, n)
		for i := uint64(0); i < n; i++ {
			addr := addressBase + vaddr + i*entsize
			dynamics = append(dynamics, NewDyn(addr, class, img.reader))
		}
		break
	}
	if dynamics == nil {
		dynamics = []*Dyn{}
	}
	img.dynamics = dynamics
	return img.dynamics, nil
}

// FindDynamic scans Dynamics() in order and returns the first entry whose
// d_tag matches tag, or nil if none does.
func (img *Image) FindDynamic(tag int64) (*Dyn, error) {
	dynamics, err := img.Dynamics()
	if err != nil {
		return nil, err
	}
	for _, d := range dynamics {
		t, err := d.DTag()
		if err != nil {
			return nil, err
		}
		if t == tag {
			return d, nil
		}
	}
	return nil, nil
}

// FindShdr scans Shdrs() in order and returns the first entry whose
// sh_type matches typ, or nil if none does. It is retained for API
// completeness; the symbol resolution path uses Dynsyms, not section
// headers, since the latter may be stripped from a dynamically-linked
// binary while its dynamic entries remain.
func (img *Image) FindShdr(typ uint64) (*Shdr, error) {
	shdrs, err := img.Shdrs()
	if err != nil {
		return nil, err
	}
	for _, s := range shdrs {
		t, err := s.ShType()
		if err != nil {
			return nil, err
		}
		if t == typ {
			return s, nil
		}
	}
	return nil, nil
}

// Dynsyms returns this image's dynamic symbol table, materializing it on
// first call by deriving the symbol count from DT_HASH's nchain field
// (SysV hash table) and walking DT_SYMTAB in DT_SYMENT-sized strides.
// Missing DT_HASH, DT_SYMTAB, or DT_SYMENT fails with
// *MissingDynamicTag.
func (img *Image) Dynsyms() ([]*Sym, error) {
	if img.dynsyms != nil {
		return img.dynsyms, nil
	}
	dtHash, err := img.FindDynamic(DT_HASH)
	if err != nil {
		return nil, err
	}
	if dtHash == nil {
		return nil, &MissingDynamicTag{Tag: DT_HASH}
	}
	hashAddr, err := dtHash.DVal()
	if err != nil {
		return nil, err
	}
	// DT_HASH points at { nbucket uint32; nchain uint32; ... }. nchain, the
	// second word, equals the number of dynamic symbols.
	nchain, err := img.reader.ReadU32(hashAddr + 4)
	if err != nil {
		return nil, err
	}

	dtSymtab, err := img.FindDynamic(DT_SYMTAB)
	if err != nil {
		return nil, err
	}
	if dtSymtab == nil {
		return nil, &MissingDynamicTag{Tag: DT_SYMTAB}
	}
	symtabBase, err := dtSymtab.DVal()
	if err != nil {
		return nil, err
	}

	dtSyment, err := img.FindDynamic(DT_SYMENT)
	if err != nil {
		return nil, err
	}
	if dtSyment == nil {
		return nil, &MissingDynamicTag{Tag: DT_SYMENT}
	}
	syment, err := dtSyment.DVal()
	if err != nil {
		return nil, err
	}

	class, err := img.ehdr.Class()
	if err != nil {
		return nil, err
	}

	dynsyms := make([]*Sym, 0, nchain)
	for i := uint64(0); i < uint64(nchain); i++ {
		addr := symtabBase + syment*i
		dynsyms = append(dynsyms, NewSym(addr, class, img.reader))
	}
	img.dynsyms = dynsyms
	return img.dynsyms, nil
}
