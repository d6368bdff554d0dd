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

// Package elf reconstructs ELF structures -- header, program/section
// headers, dynamic table, symbol table, hash table, string table -- lazily,
// one oracle read at a time, from a remote process's memory.
//
// Every structure view (Ehdr, Phdr, Shdr, Dyn, Sym, LinkMap) holds only a
// base address and a class; no remote I/O happens at construction. Field
// accessors populate a per-field cache on first call and never re-read
// afterwards. Image ties these together: it bootstraps from an
// address known only to lie inside some page of the loaded ELF, and
// lazily materializes the phdr/shdr/dynamic/dynsym sequences on demand.
package elf

// e_type values.
const (
	ET_REL  = 1
	ET_EXEC = 2
	ET_DYN  = 3
)

// Program header types.
const (
	PT_DYNAMIC = 2
)

// Dynamic table tags.
const (
	DT_HASH   = 4
	DT_STRTAB = 5
	DT_SYMTAB = 6
	DT_SYMENT = 11
	DT_DEBUG  = 21
)

// elfMagic is the 4-byte ELF magic, ei_mag0..ei_mag3.
var elfMagic = [4]byte{0x7f, 'E', 'L', 'F'}

// pageSize is the alignment Open assumes ELF images are loaded at.
const pageSize = 0x1000

// magicScanBound is the maximum number of pages Open scans backward looking
// for the ELF magic before giving up with InvalidElf. 64 MiB / 4 KiB pages.
const magicScanBound = (64 << 20) / pageSize
