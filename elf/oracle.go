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

// Endian selects the byte order an Oracle's multi-byte reads are composed
// in. It corresponds to ELF's EI_DATA field.
type Endian byte

// Endian values.
const (
	EndianNone   Endian = iota // Unknown byte order.
	EndianLittle               // 2's complement little-endian.
	EndianBig                  // 2's complement big-endian.
)

func (e Endian) String() string {
	switch e {
	case EndianLittle:
		return "little-endian"
	case EndianBig:
		return "big-endian"
	default:
		return "unknown-endian"
	}
}

// Oracle is the only external contract this package depends on: given an
// address, return the single byte stored there in the target process, or an
// error if the read failed. Endian reports the byte order to use when
// composing multi-byte reads and must be constant for the session.
//
// An Oracle is assumed pure within a session: reading the same address
// twice must return the same byte. It MAY be slow and MAY fail transiently;
// ByteReader and every structure view built on top of it never retries an
// Oracle call on their own -- a failed field is simply not cached, so a
// caller-driven retry works.
type Oracle interface {
	ReadByte(addr uint64) (byte, error)
	Endian() Endian
}
