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

type phdrLayout struct {
	pType   FieldDescriptor
	pOffset FieldDescriptor
	pVaddr  FieldDescriptor
	pPaddr  FieldDescriptor
	pFilesz FieldDescriptor
	pMemsz  FieldDescriptor
	pFlags  FieldDescriptor
	pAlign  FieldDescriptor
}

// 64-bit Phdr reorders p_type/p_flags relative to 32-bit: p_flags moves from
// offset 24 to offset 4.
var phdr32Layout = phdrLayout{
	pType:   FieldDescriptor{0, 4},
	pOffset: FieldDescriptor{4, 4},
	pVaddr:  FieldDescriptor{8, 4},
	pPaddr:  FieldDescriptor{12, 4},
	pFilesz: FieldDescriptor{16, 4},
	pMemsz:  FieldDescriptor{20, 4},
	pFlags:  FieldDescriptor{24, 4},
	pAlign:  FieldDescriptor{28, 4},
}

var phdr64Layout = phdrLayout{
	pType:   FieldDescriptor{0, 4},
	pFlags:  FieldDescriptor{4, 4},
	pOffset: FieldDescriptor{8, 8},
	pVaddr:  FieldDescriptor{16, 8},
	pPaddr:  FieldDescriptor{24, 8},
	pFilesz: FieldDescriptor{32, 8},
	pMemsz:  FieldDescriptor{40, 8},
	pAlign:  FieldDescriptor{48, 8},
}

// Phdr is a view of one ELF program header entry.
type Phdr struct {
	view
	class Class
}

// NewPhdr constructs a Phdr view at base for the given class.
func NewPhdr(base uint64, class Class, r *ByteReader) *Phdr {
	return &Phdr{view: newView(base, r), class: class}
}

// Class returns the class this Phdr was constructed with.
func (p *Phdr) Class() Class { return p.class }

func (p *Phdr) layout() phdrLayout {
	if p.class == Class32 {
		return phdr32Layout
	}
	return phdr64Layout
}

// PType returns p_type.
func (p *Phdr) PType() (uint64, error) { return p.field("p_type", p.layout().pType) }

// POffset returns p_offset.
func (p *Phdr) POffset() (uint64, error) { return p.field("p_offset", p.layout().pOffset) }

// PVaddr returns p_vaddr.
func (p *Phdr) PVaddr() (uint64, error) { return p.field("p_vaddr", p.layout().pVaddr) }

// PPaddr returns p_paddr.
func (p *Phdr) PPaddr() (uint64, error) { return p.field("p_paddr", p.layout().pPaddr) }

// PFilesz returns p_filesz.
func (p *Phdr) PFilesz() (uint64, error) { return p.field("p_filesz", p.layout().pFilesz) }

// PMemsz returns p_memsz.
func (p *Phdr) PMemsz() (uint64, error) { return p.field("p_memsz", p.layout().pMemsz) }

// PFlags returns p_flags.
func (p *Phdr) PFlags() (uint64, error) { return p.field("p_flags", p.layout().pFlags) }

// PAlign returns p_align.
func (p *Phdr) PAlign() (uint64, error) { return p.field("p_align", p.layout().pAlign) }
