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

// ehdrLayout is the offset/width table for one ELF class's header fields
// past ei_class/ei_data (which are always at fixed offsets 4 and 5).
type ehdrLayout struct {
	eType      FieldDescriptor
	eEntry     FieldDescriptor
	ePhoff     FieldDescriptor
	ePhentsize FieldDescriptor
	ePhnum     FieldDescriptor
	eShoff     FieldDescriptor
	eShentsize FieldDescriptor
	eShnum     FieldDescriptor
	eShstrndx  FieldDescriptor
}

var ehdr32Layout = ehdrLayout{
	eType:      FieldDescriptor{16, 2},
	eEntry:     FieldDescriptor{24, 4},
	ePhoff:     FieldDescriptor{28, 4},
	eShoff:     FieldDescriptor{32, 4},
	ePhentsize: FieldDescriptor{42, 2},
	ePhnum:     FieldDescriptor{44, 2},
	eShentsize: FieldDescriptor{46, 2},
	eShnum:     FieldDescriptor{48, 2},
	eShstrndx:  FieldDescriptor{50, 2},
}

var ehdr64Layout = ehdrLayout{
	eType:      FieldDescriptor{16, 2},
	eEntry:     FieldDescriptor{24, 8},
	ePhoff:     FieldDescriptor{32, 8},
	eShoff:     FieldDescriptor{40, 8},
	ePhentsize: FieldDescriptor{54, 2},
	ePhnum:     FieldDescriptor{56, 2},
	eShentsize: FieldDescriptor{58, 2},
	eShnum:     FieldDescriptor{60, 2},
	eShstrndx:  FieldDescriptor{62, 2},
}

// Ehdr is a view of an ELF header at a known base address. Its class and
// endianness are read lazily from the fixed ei_class/ei_data bytes (offsets
// 4 and 5); every other field is read through the class-appropriate layout
// table.
type Ehdr struct {
	view
}

// NewEhdr constructs an Ehdr view at base. No remote I/O occurs until a
// field accessor is called.
func NewEhdr(base uint64, r *ByteReader) *Ehdr {
	return &Ehdr{view: newView(base, r)}
}

func (e *Ehdr) layout() (ehdrLayout, error) {
	switch c, err := e.Class(); {
	case err != nil:
		return ehdrLayout{}, err
	case c == Class32:
		return ehdr32Layout, nil
	default:
		return ehdr64Layout, nil
	}
}

// Class reads ei_class (offset 4): 1 -> Class32, 2 -> Class64. Any other
// value fails with InvalidElf.
func (e *Ehdr) Class() (Class, error) {
	v, err := e.field("ei_class", FieldDescriptor{4, 1})
	if err != nil {
		return ClassNone, err
	}
	switch v {
	case 1:
		return Class32, nil
	case 2:
		return Class64, nil
	default:
		return ClassNone, &InvalidElf{Seed: e.BaseAddress()}
	}
}

// Endian reads ei_data (offset 5): 1 -> EndianLittle, 2 -> EndianBig. Any
// other value fails with InvalidElf.
func (e *Ehdr) Endian() (Endian, error) {
	v, err := e.field("ei_data", FieldDescriptor{5, 1})
	if err != nil {
		return EndianNone, err
	}
	switch v {
	case 1:
		return EndianLittle, nil
	case 2:
		return EndianBig, nil
	default:
		return EndianNone, &InvalidElf{Seed: e.BaseAddress()}
	}
}

// EType returns e_type.
func (e *Ehdr) EType() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_type", l.eType)
}

// EEntry returns e_entry.
func (e *Ehdr) EEntry() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_entry", l.eEntry)
}

// EPhoff returns e_phoff.
func (e *Ehdr) EPhoff() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_phoff", l.ePhoff)
}

// EPhentsize returns e_phentsize.
func (e *Ehdr) EPhentsize() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_phentsize", l.ePhentsize)
}

// EPhnum returns e_phnum.
func (e *Ehdr) EPhnum() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_phnum", l.ePhnum)
}

// EShoff returns e_shoff.
func (e *Ehdr) EShoff() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_shoff", l.eShoff)
}

// EShentsize returns e_shentsize.
func (e *Ehdr) EShentsize() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_shentsize", l.eShentsize)
}

// EShnum returns e_shnum.
func (e *Ehdr) EShnum() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_shnum", l.eShnum)
}

// EShstrndx returns e_shstrndx.
func (e *Ehdr) EShstrndx() (uint64, error) {
	l, err := e.layout()
	if err != nil {
		return 0, err
	}
	return e.field("e_shstrndx", l.eShstrndx)
}
