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

type symLayout struct {
	stName  FieldDescriptor
	stValue FieldDescriptor
	stSize  FieldDescriptor
	stInfo  FieldDescriptor
	stOther FieldDescriptor
	stShndx FieldDescriptor
}

// 64-bit Sym fully reorders fields relative to 32-bit.
var sym32Layout = symLayout{
	stName:  FieldDescriptor{0, 4},
	stValue: FieldDescriptor{4, 4},
	stSize:  FieldDescriptor{8, 4},
	stInfo:  FieldDescriptor{12, 1},
	stOther: FieldDescriptor{13, 1},
	stShndx: FieldDescriptor{14, 2},
}

var sym64Layout = symLayout{
	stName:  FieldDescriptor{0, 4},
	stInfo:  FieldDescriptor{4, 1},
	stOther: FieldDescriptor{5, 1},
	stShndx: FieldDescriptor{6, 2},
	stValue: FieldDescriptor{8, 8},
	stSize:  FieldDescriptor{16, 8},
}

// Sym is a view of one ELF symbol table entry (Elf*_Sym).
//
// Sym.Name is special: the string table base is not part of a symbol's
// identity (the same Sym could in principle be resolved against different
// string tables), so its cache is keyed by the strtab address passed in,
// not fixed at construction.
type Sym struct {
	view
	class    Class
	nameBase map[uint64]string
}

// NewSym constructs a Sym view at base for the given class.
func NewSym(base uint64, class Class, r *ByteReader) *Sym {
	return &Sym{view: newView(base, r), class: class, nameBase: make(map[uint64]string)}
}

// Class returns the class this Sym was constructed with.
func (s *Sym) Class() Class { return s.class }

func (s *Sym) layout() symLayout {
	if s.class == Class32 {
		return sym32Layout
	}
	return sym64Layout
}

// StName returns st_name (the byte offset into the associated string
// table). Use Name to resolve it to a string.
func (s *Sym) StName() (uint64, error) { return s.field("st_name", s.layout().stName) }

// StValue returns st_value.
func (s *Sym) StValue() (uint64, error) { return s.field("st_value", s.layout().stValue) }

// StSize returns st_size.
func (s *Sym) StSize() (uint64, error) { return s.field("st_size", s.layout().stSize) }

// StInfo returns st_info.
func (s *Sym) StInfo() (uint64, error) { return s.field("st_info", s.layout().stInfo) }

// StOther returns st_other.
func (s *Sym) StOther() (uint64, error) { return s.field("st_other", s.layout().stOther) }

// StShndx returns st_shndx.
func (s *Sym) StShndx() (uint64, error) { return s.field("st_shndx", s.layout().stShndx) }

// Name resolves this symbol's name against the string table based at
// strtabBase: it reads st_name then the NUL-terminated string at
// strtabBase+st_name, caching the result per strtabBase.
func (s *Sym) Name(strtabBase uint64) (string, error) {
	if name, ok := s.nameBase[strtabBase]; ok {
		return name, nil
	}
	stName, err := s.StName()
	if err != nil {
		return "", err
	}
	name, err := s.view.reader.ReadCString(strtabBase + stName)
	if err != nil {
		return "", err
	}
	s.nameBase[strtabBase] = name
	return name, nil
}
