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

package skua

import (
	"strings"

	"github.com/endeav0r/skua/elf"
)

// Program represents a running process's loaded-object set, as walked from
// the dynamic linker's link-map. It is built once, at construction, from a
// seed address believed to lie inside the main executable (or any other
// loaded image reachable from the same link-map).
type Program struct {
	oracle elf.Oracle
	images map[string]*elf.Image
}

// r_debug's r_map field -- the link-map head pointer -- sits at a different
// offset depending on ELF class: 8 bytes in for the 64-bit layout, 4 for
// 32-bit.
const (
	rDebugMapOffset32 = 4
	rDebugMapOffset64 = 8

	// linkMapVisitLimit bounds the link-map walk against cycles in a
	// corrupted or adversarial loader state.
	linkMapVisitLimit = 4096
)

// Open builds a Program from a seed address, typically one known to lie
// inside the main executable:
//
//  1. An elf.Image is opened at seed.
//  2. Its dynamic table is searched for DT_DEBUG, whose d_val is the
//     address of an r_debug structure; the link-map head pointer is read
//     from the class-appropriate offset inside it.
//  3. That pointer, dereferenced, yields the address of *some* link_map
//     node (the dynamic linker does not guarantee which). Open walks
//     l_prev until it reaches the head of the list.
//  4. Open then walks l_next from the head, building a name -> *elf.Image
//     map from each node's l_name/l_addr, until l_next is 0.
//
// An empty l_name (the main executable's own entry) is a valid map key;
// duplicate names overwrite earlier entries. The walk is bounded to guard
// against a cyclic or corrupted link-map.
func Open(seed uint64, o elf.Oracle) (*Program, error) {
	reader := elf.NewByteReader(o)

	seedImage, err := elf.Open(seed, o)
	if err != nil {
		return nil, err
	}

	class, err := seedImage.Class()
	if err != nil {
		return nil, err
	}

	dtDebug, err := seedImage.FindDynamic(elf.DT_DEBUG)
	if err != nil {
		return nil, err
	}
	if dtDebug == nil {
		return nil, &elf.MissingDynamicTag{Tag: elf.DT_DEBUG}
	}
	rDebugAddr, err := dtDebug.DVal()
	if err != nil {
		return nil, err
	}

	var linkMapAddr uint64
	if class == elf.Class32 {
		v, err := reader.ReadU32(rDebugAddr + rDebugMapOffset32)
		if err != nil {
			return nil, err
		}
		linkMapAddr = uint64(v)
	} else {
		linkMapAddr, err = reader.ReadU64(rDebugAddr + rDebugMapOffset64)
		if err != nil {
			return nil, err
		}
	}

	node := elf.NewLinkMap(linkMapAddr, class, reader)
	visited := make(map[uint64]bool)
	for {
		prev, err := node.LPrev()
		if err != nil {
			return nil, err
		}
		if prev == 0 {
			break
		}
		if visited[prev] || len(visited) >= linkMapVisitLimit {
			break
		}
		visited[prev] = true
		node = elf.NewLinkMap(prev, class, reader)
	}

	images := make(map[string]*elf.Image)
	visited = make(map[uint64]bool)
	for {
		name, err := node.LName()
		if err != nil {
			return nil, err
		}
		nameStr, err := reader.ReadCString(name)
		if err != nil {
			return nil, err
		}
		addr, err := node.LAddr()
		if err != nil {
			return nil, err
		}
		img, err := elf.Open(addr, o)
		if err != nil {
			return nil, err
		}
		images[nameStr] = img

		next, err := node.LNext()
		if err != nil {
			return nil, err
		}
		if next == 0 {
			break
		}
		if visited[next] || len(visited) >= linkMapVisitLimit {
			break
		}
		visited[next] = true
		node = elf.NewLinkMap(next, class, reader)
	}

	return &Program{oracle: o, images: images}, nil
}

// Images returns the name -> loaded-image map built at construction. Keys
// are the paths the dynamic linker recorded for each object (empty for the
// main executable).
func (p *Program) Images() map[string]*elf.Image { return p.images }

// Resolve searches every loaded image whose name contains libSubstring (a
// plain, case-sensitive substring match; iteration order -- and therefore
// which image wins when more than one matches -- is unspecified) for a
// dynamic symbol named exactly symbol, and returns its runtime address.
//
// The returned address is st_value + image.BaseAddress(). This is correct
// for position-independent images (ET_DYN, the overwhelmingly common case
// for shared libraries) but over-adds for an ET_EXEC main program, whose
// st_value fields are already absolute. Callers resolving symbols out of a
// non-PIE main executable should use the matching Image's AddressBase
// instead.
//
// ok is false, with a nil error, if no image matched libSubstring or no
// matching image exported symbol; this is a normal outcome, not a failure.
func (p *Program) Resolve(libSubstring, symbol string) (uint64, bool, error) {
	for name, img := range p.images {
		if !strings.Contains(name, libSubstring) {
			continue
		}

		dtStrtab, err := img.FindDynamic(elf.DT_STRTAB)
		if err != nil {
			return 0, false, err
		}
		if dtStrtab == nil {
			return 0, false, &elf.MissingDynamicTag{Tag: elf.DT_STRTAB}
		}
		strtabBase, err := dtStrtab.DVal()
		if err != nil {
			return 0, false, err
		}

		syms, err := img.Dynsyms()
		if err != nil {
			return 0, false, err
		}
		for _, sym := range syms {
			name, err := sym.Name(strtabBase)
			if err != nil {
				return 0, false, err
			}
			if name != symbol {
				continue
			}
			value, err := sym.StValue()
			if err != nil {
				return 0, false, err
			}
			return value + img.BaseAddress(), true, nil
		}
	}
	return 0, false, nil
}
