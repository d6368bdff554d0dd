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

type shdrLayout struct {
	shName      FieldDescriptor
	shType      FieldDescriptor
	shFlags     FieldDescriptor
	shAddr      FieldDescriptor
	shOffset    FieldDescriptor
	shSize      FieldDescriptor
	shLink      FieldDescriptor
	shInfo      FieldDescriptor
	shAddralign FieldDescriptor
	shEntsize   FieldDescriptor
}

var shdr32Layout = shdrLayout{
	shName:      FieldDescriptor{0, 4},
	shType:      FieldDescriptor{4, 4},
	shFlags:     FieldDescriptor{8, 4},
	shAddr:      FieldDescriptor{12, 4},
	shOffset:    FieldDescriptor{16, 4},
	shSize:      FieldDescriptor{20, 4},
	shLink:      FieldDescriptor{24, 4},
	shInfo:      FieldDescriptor{28, 4},
	shAddralign: FieldDescriptor{32, 4},
	shEntsize:   FieldDescriptor{36, 4},
}

var shdr64Layout = shdrLayout{
	shName:      FieldDescriptor{0, 4},
	shType:      FieldDescriptor{4, 4},
	shFlags:     FieldDescriptor{8, 8},
	shAddr:      FieldDescriptor{16, 8},
	shOffset:    FieldDescriptor{24, 8},
	shSize:      FieldDescriptor{32, 8},
	shLink:      FieldDescriptor{40, 4},
	shInfo:      FieldDescriptor{44, 4},
	shAddralign: FieldDescriptor{48, 8},
	shEntsize:   FieldDescriptor{56, 8},
}

// Shdr is a view of one ELF section header entry.
type Shdr struct {
	view
	class Class
}

// NewShdr constructs a Shdr view at base for the given class.
func NewShdr(base uint64, class Class, r *ByteReader) *Shdr {
	return &Shdr{view: newView(base, r), class: class}
}

// Class returns the class this Shdr was constructed with.
func (s *Shdr) Class() Class { return s.class }

func (s *Shdr) layout() shdrLayout {
	if s.class == Class32 {
		return shdr32Layout
	}
	return shdr64Layout
}

// ShName returns sh_name.
func (s *Shdr) ShName() (uint64, error) { return s.field("sh_name", s.layout().shName) }

// ShType returns sh_type.
func (s *Shdr) ShType() (uint64, error) { return s.field("sh_type", s.layout().shType) }

// ShFlags returns sh_flags.
func (s *Shdr) ShFlags() (uint64, error) { return s.field("sh_flags", s.layout().shFlags) }

// ShAddr returns sh_addr.
func (s *Shdr) ShAddr() (uint64, error) { return s.field("sh_addr", s.layout().shAddr) }

// ShOffset returns sh_offset.
func (s *Shdr) ShOffset() (uint64, error) { return s.field("sh_offset", s.layout().shOffset) }

// ShSize returns sh_size.
func (s *Shdr) ShSize() (uint64, error) { return s.field("sh_size", s.layout().shSize) }

// ShLink returns sh_link.
func (s *Shdr) ShLink() (uint64, error) { return s.field("sh_link", s.layout().shLink) }

// ShInfo returns sh_info.
func (s *Shdr) ShInfo() (uint64, error) { return s.field("sh_info", s.layout().shInfo) }

// ShAddralign returns sh_addralign.
func (s *Shdr) ShAddralign() (uint64, error) {
	return s.field("sh_addralign", s.layout().shAddralign)
}

// ShEntsize returns sh_entsize.
func (s *Shdr) ShEntsize() (uint64, error) { return s.field("sh_entsize", s.layout().shEntsize) }
