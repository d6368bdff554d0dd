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

import "unicode/utf8"

// ByteReader wraps an Oracle and composes its single-byte reads into
// multi-byte integers, byte ranges, and NUL-terminated strings, honoring the
// Oracle's reported Endian.
//
// ByteReader has no state of its own beyond the Oracle reference: it caches
// nothing. Callers that need at-most-one-read-per-field semantics get that
// from the structure views in package elf, not from ByteReader itself.
type ByteReader struct {
	Oracle Oracle
}

// NewByteReader wraps o in a ByteReader.
func NewByteReader(o Oracle) *ByteReader {
	return &ByteReader{Oracle: o}
}

// Endian reports the wrapped Oracle's byte order.
func (r *ByteReader) Endian() Endian { return r.Oracle.Endian() }

// ReadBytes reads n bytes starting at addr, in ascending address order.
func (r *ByteReader) ReadBytes(addr uint64, n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := r.Oracle.ReadByte(addr + uint64(i))
		if err != nil {
			return nil, &OracleFail{Address: addr + uint64(i), Err: err}
		}
		buf[i] = b
	}
	return buf, nil
}

// ReadU16 reads a uint16 at addr, honoring the Oracle's endianness.
func (r *ByteReader) ReadU16(addr uint64) (uint16, error) {
	buf, err := r.ReadBytes(addr, 2)
	if err != nil {
		return 0, err
	}
	return decode16(buf, r.Endian()), nil
}

// ReadU32 reads a uint32 at addr, honoring the Oracle's endianness.
func (r *ByteReader) ReadU32(addr uint64) (uint32, error) {
	buf, err := r.ReadBytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return decode32(buf, r.Endian()), nil
}

// ReadU64 reads a uint64 at addr, honoring the Oracle's endianness.
func (r *ByteReader) ReadU64(addr uint64) (uint64, error) {
	buf, err := r.ReadBytes(addr, 8)
	if err != nil {
		return 0, err
	}
	return decode64(buf, r.Endian()), nil
}

// ReadCString reads bytes starting at addr, in ascending order, until a NUL
// (exclusive), and decodes them as UTF-8.
func (r *ByteReader) ReadCString(addr uint64) (string, error) {
	var buf []byte
	for offset := uint64(0); ; offset++ {
		b, err := r.Oracle.ReadByte(addr + offset)
		if err != nil {
			return "", &OracleFail{Address: addr + offset, Err: err}
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	if !utf8.Valid(buf) {
		return "", &InvalidUTF8{Address: addr}
	}
	return string(buf), nil
}

func decode16(b []byte, e Endian) uint16 {
	if e == EndianBig {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func decode32(b []byte, e Endian) uint32 {
	if e == EndianBig {
		var v uint32
		for i := 0; i < 4; i++ {
			v |= uint32(b[i]) << uint(8*(3-i))
		}
		return v
	}
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(b[i]) << uint(8*i)
	}
	return v
}

func decode64(b []byte, e Endian) uint64 {
	if e == EndianBig {
		var v uint64
		for i := 0; i < 8; i++ {
			v |= uint64(b[i]) << uint(8*(7-i))
		}
		return v
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << uint(8*i)
	}
	return v
}
