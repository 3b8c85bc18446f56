// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

import "cogentcore.org/navmesh"

// Filter is a set of area types that may be traversed, one bit per type
// index of the mesh [navmesh.Types]. Types beyond 63 are never included.
type Filter uint64

const (
	// FilterNone includes no type.
	FilterNone Filter = 0

	// FilterAll includes every type.
	FilterAll Filter = ^Filter(0)
)

// FilterOf returns a filter of the named types, registering any name
// that is not yet known.
func FilterOf(types *navmesh.Types, names ...string) Filter {
	var f Filter
	for _, name := range names {
		f.AddType(types.ID(name))
	}
	return f
}

func typeBit(typ int) Filter {
	if typ < 0 || typ >= 64 {
		return 0
	}
	return 1 << uint(typ)
}

// Has returns whether the type with the given index is included.
func (f Filter) Has(typ int) bool { return f&typeBit(typ) != 0 }

// AddType includes the type with the given index.
func (f *Filter) AddType(typ int) { *f |= typeBit(typ) }

// RemoveType excludes the type with the given index.
func (f *Filter) RemoveType(typ int) { *f &^= typeBit(typ) }

// HasType returns whether the named type is included. Unknown names are
// never included.
func (f Filter) HasType(types *navmesh.Types, name string) bool {
	id, ok := types.Lookup(name)
	return ok && f.Has(id)
}
