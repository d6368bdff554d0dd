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

type dynLayout struct {
	dTag FieldDescriptor
	dVal FieldDescriptor
}

var dyn32Layout = dynLayout{
	dTag: FieldDescriptor{0, 4},
	dVal: FieldDescriptor{4, 4},
}

var dyn64Layout = dynLayout{
	dTag: FieldDescriptor{0, 8},
	dVal: FieldDescriptor{8, 8},
}

// Dyn is a view of one entry in the ELF dynamic table (Elf*_Dyn).
type Dyn struct {
	view
	class Class
}

// NewDyn constructs a Dyn view at base for the given class.
func NewDyn(base uint64, class Class, r *ByteReader) *Dyn {
	return &Dyn{view: newView(base, r), class: class}
}

// Class returns the class this Dyn was constructed with.
func (d *Dyn) Class() Class { return d.class }

func (d *Dyn) layout() dynLayout {
	if d.class == Class32 {
		return dyn32Layout
	}
	return dyn64Layout
}

// DTag returns d_tag.
func (d *Dyn) DTag() (int64, error) {
	v, err := d.field("d_tag", d.layout().dTag)
	return int64(v), err
}

// DVal returns d_val (the union member; for the tags this package cares
// about it is always a plain value or address, never a d_ptr needing
// relocation).
func (d *Dyn) DVal() (uint64, error) {
	return d.field("d_val", d.layout().dVal)
}

// dynEntrySize returns sizeof(Elf*_Dyn) for class: 8 bytes for 32-bit, 16
// for 64-bit.
func dynEntrySize(class Class) uint64 {
	if class == Class32 {
		return 8
	}
	return 16
}
