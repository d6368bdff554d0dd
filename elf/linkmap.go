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

type linkMapLayout struct {
	lAddr FieldDescriptor
	lName FieldDescriptor
	lLd   FieldDescriptor
	lNext FieldDescriptor
	lPrev FieldDescriptor
}

var linkMap32Layout = linkMapLayout{
	lAddr: FieldDescriptor{0, 4},
	lName: FieldDescriptor{4, 4},
	lLd:   FieldDescriptor{8, 4},
	lNext: FieldDescriptor{12, 4},
	lPrev: FieldDescriptor{16, 4},
}

var linkMap64Layout = linkMapLayout{
	lAddr: FieldDescriptor{0, 8},
	lName: FieldDescriptor{8, 8},
	lLd:   FieldDescriptor{16, 8},
	lNext: FieldDescriptor{24, 8},
	lPrev: FieldDescriptor{32, 8},
}

// LinkMap is a view of one node of the dynamic linker's doubly-linked
// link_map list (glibc's public struct link_map layout). There are no local
// node objects: walking l_next/l_prev means constructing a fresh LinkMap at
// the address just read, never holding a local copy of the list.
type LinkMap struct {
	view
	class Class
}

// NewLinkMap constructs a LinkMap view at base for the given class.
func NewLinkMap(base uint64, class Class, r *ByteReader) *LinkMap {
	return &LinkMap{view: newView(base, r), class: class}
}

// Class returns the class this LinkMap was constructed with.
func (l *LinkMap) Class() Class { return l.class }

func (l *LinkMap) layout() linkMapLayout {
	if l.class == Class32 {
		return linkMap32Layout
	}
	return linkMap64Layout
}

// LAddr returns l_addr, the load base of this object.
func (l *LinkMap) LAddr() (uint64, error) { return l.field("l_addr", l.layout().lAddr) }

// LName returns l_name, the address of this object's NUL-terminated path.
func (l *LinkMap) LName() (uint64, error) { return l.field("l_name", l.layout().lName) }

// LLd returns l_ld, the address of this object's dynamic section.
func (l *LinkMap) LLd() (uint64, error) { return l.field("l_ld", l.layout().lLd) }

// LNext returns l_next, the address of the next link_map node, or 0 if
// this is the tail of the list.
func (l *LinkMap) LNext() (uint64, error) { return l.field("l_next", l.layout().lNext) }

// LPrev returns l_prev, the address of the previous link_map node, or 0 if
// this is the head of the list.
func (l *LinkMap) LPrev() (uint64, error) { return l.field("l_prev", l.layout().lPrev) }
