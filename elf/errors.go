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

import "fmt"

// OracleFail wraps an address whose Oracle read failed.
//
// Err is the underlying failure reported by the Oracle (e.g. a network
// error from a transport implementation); it may be nil if the Oracle
// returned no further detail.
type OracleFail struct {
	Address uint64
	Err     error
}

func (e *OracleFail) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle read failed @ 0x%x: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("oracle read failed @ 0x%x", e.Address)
}

func (e *OracleFail) Unwrap() error { return e.Err }

// InvalidElf indicates that no ELF magic was found within the bounded
// downward scan from a seed address, or that ei_class/ei_data held a value
// outside the defined range.
type InvalidElf struct {
	Seed uint64
}

func (e *InvalidElf) Error() string {
	return fmt.Sprintf("no valid ELF image found scanning back from 0x%x", e.Seed)
}

// InvalidElfType indicates Ehdr.e_type held a value other than ET_REL,
// ET_EXEC or ET_DYN.
type InvalidElfType struct {
	Value uint64
}

func (e *InvalidElfType) Error() string {
	return fmt.Sprintf("invalid e_type %d", e.Value)
}

// MissingDynamicTag indicates a required tag (DT_HASH, DT_SYMTAB,
// DT_SYMENT, DT_DEBUG or DT_STRTAB) was not present in an image's dynamic
// table.
type MissingDynamicTag struct {
	Tag int64
}

func (e *MissingDynamicTag) Error() string {
	return fmt.Sprintf("missing dynamic tag %d", e.Tag)
}

// InvalidUTF8 indicates a NUL-terminated string field contained bytes that
// do not decode as UTF-8.
type InvalidUTF8 struct {
	Address uint64
}

func (e *InvalidUTF8) Error() string {
	return fmt.Sprintf("invalid UTF-8 in C string @ 0x%x", e.Address)
}

// InvalidFieldWidth indicates an internal bug: a FieldDescriptor was
// constructed with a width outside {1, 2, 4, 8}.
type InvalidFieldWidth struct {
	Width int
}

func (e *InvalidFieldWidth) Error() string {
	return fmt.Sprintf("invalid field width %d", e.Width)
}
