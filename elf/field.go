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

// FieldDescriptor is an immutable (offset, width) pair describing one field
// of an ELF structure. Width 1/2/4 fields zero-extend to uint64 on read.
type FieldDescriptor struct {
	Offset uint64
	Width  int
}

// Read loads the field at base+Offset through r and zero-extends it to
// uint64. It issues exactly one oracle-backed read (by way of r's ReadBytes
// for width 1 or one of r's ReadU* methods otherwise, all built on
// single-byte oracle calls); callers
// that want at-most-one-read-per-field semantics across repeated calls must
// cache the result themselves -- FieldDescriptor.Read does not cache.
func (f FieldDescriptor) Read(base uint64, r *ByteReader) (uint64, error) {
	addr := base + f.Offset
	switch f.Width {
	case 1:
		b, err := r.ReadBytes(addr, 1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case 2:
		v, err := r.ReadU16(addr)
		return uint64(v), err
	case 4:
		v, err := r.ReadU32(addr)
		return uint64(v), err
	case 8:
		return r.ReadU64(addr)
	default:
		return 0, &InvalidFieldWidth{Width: f.Width}
	}
}
