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

// view is embedded by every structure view (Ehdr, Phdr, Shdr, Dyn, Sym,
// LinkMap). It holds the oracle-backed reader, the view's base address, and
// a lazily-populated per-field cache keyed by field name -- collapsing what
// would otherwise be one RefCell-shaped accessor per field (as in the
// reference implementation) into a single cached-read helper.
//
// At most one oracle-backed read happens per field per view: a cache miss
// reads and stores the value; a cache hit returns it without touching the
// reader. A failed read never populates the cache, so a retry after a
// transient oracle failure re-issues the read and can succeed.
type view struct {
	reader *ByteReader
	base   uint64
	cache  map[string]uint64
}

func newView(base uint64, r *ByteReader) view {
	return view{reader: r, base: base, cache: make(map[string]uint64)}
}

// BaseAddress returns the absolute virtual address of this structure in the
// remote process.
func (v *view) BaseAddress() uint64 { return v.base }

// field returns the cached value for name if present; otherwise it reads
// fd at v.base through v.reader, caches the result, and returns it.
func (v *view) field(name string, fd FieldDescriptor) (uint64, error) {
	if val, ok := v.cache[name]; ok {
		return val, nil
	}
	val, err := fd.Read(v.base, v.reader)
	if err != nil {
		return 0, err
	}
	v.cache[name] = val
	return val, nil
}
