// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import "cogentcore.org/core/base/keylist"

// Types is the registry of navigation area types. Each type has a stable
// index (its position in the registry) and a carve precedence: a brush never
// overwrites area of a type with a higher precedence than its own.
type Types struct {
	list keylist.List[string, int]
}

// NewTypes returns a registry holding the given type names, each with
// precedence 0, in order.
func NewTypes(names ...string) *Types {
	t := &Types{}
	for _, n := range names {
		t.ID(n)
	}
	return t
}

// Set sets the precedence of the named type, adding it if it is not yet
// registered, and returns its index.
func (t *Types) Set(name string, precedence int) int {
	t.list.Set(name, precedence)
	return t.list.IndexByKey(name)
}

// ID returns the index of the named type, adding it with precedence 0 if
// it is missing.
func (t *Types) ID(name string) int {
	if i := t.list.IndexByKey(name); i >= 0 {
		return i
	}
	return t.Set(name, 0)
}

// Lookup returns the index of the named type without adding it.
func (t *Types) Lookup(name string) (int, bool) {
	i := t.list.IndexByKey(name)
	return i, i >= 0
}

// Name returns the name of the type with the given index, or "" if none.
func (t *Types) Name(id int) string {
	if id < 0 || id >= t.list.Len() {
		return ""
	}
	return t.list.Keys[id]
}

// Precedence returns the carve precedence of the given type index, or 0
// for indexes outside the registry.
func (t *Types) Precedence(id int) int {
	if id < 0 || id >= t.list.Len() {
		return 0
	}
	return t.list.Values[id]
}

// Len returns the number of registered types.
func (t *Types) Len() int { return t.list.Len() }

// Names returns the registered type names in index order.
func (t *Types) Names() []string {
	return append([]string(nil), t.list.Keys...)
}

// Clone returns an independent copy of the registry.
func (t *Types) Clone() *Types {
	c := &Types{}
	for i, k := range t.list.Keys {
		c.list.Set(k, t.list.Values[i])
	}
	return c
}
