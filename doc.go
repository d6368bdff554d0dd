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

// Package skua drives a remote single-byte memory read primitive (an
// "oracle") to reconstruct enough of a running process's ELF image and
// dynamic-linker state to resolve the runtime address of an exported symbol
// in any loaded shared object.
//
// A session starts from one address known to lie somewhere inside a loaded
// ELF image -- typically a leaked return address or function pointer -- and
// an Oracle able to read single bytes at arbitrary virtual addresses of that
// process. From there:
//
//	img, err := elf.Open(seedAddr, oracle)
//	prog, err := skua.Open(seedAddr, oracle)
//	addr, ok, err := prog.Resolve("libc", "system")
//
// Every field read is issued at most once per view and cached for the
// lifetime of the view: the oracle is assumed to be an expensive, possibly
// fragile, network round-trip, so a view never re-reads a field it already
// has. Reads outside the view caches are not deduplicated: the magic scan
// in elf.Open, C strings read through ByteReader, and a second Image opened
// at the same address all go back to the oracle.
//
// The Oracle contract, the byte-composing reader built on top of it, the
// per-field error kinds, the ELF structure views (Ehdr, Phdr, Shdr, Dyn,
// Sym, LinkMap), and the per-image bootstrap logic all live in the elf
// subpackage, which has no dependency on this one. Package skua itself holds
// only Program, which depends on elf to walk the dynamic linker's link-map
// and resolve symbols across the loaded images it finds.
package skua
