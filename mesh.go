// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh/diag"
)

// polyRef is the arena slot of a polygon. 0 is never used.
type polyRef int32

// linkRef is the arena slot of a link. 0 means no link.
type linkRef int32

// DebugFlags select diagnostic behaviour of the carve engine.
type DebugFlags int64

const (
	// DebugMergeOnly stops a carve after collecting and merging, putting
	// the merged polygons back unchanged.
	DebugMergeOnly DebugFlags = 1 << iota

	// DebugNoConvex skips convex decomposition of carve output.
	DebugNoConvex

	// DebugNoClean skips removal of redundant points from constructed polygons.
	DebugNoClean

	// DebugValidate runs a full link validation after every edit and logs
	// any broken link.
	DebugValidate
)

// Has returns whether all of the given flags are set.
func (f DebugFlags) Has(flag DebugFlags) bool { return f&flag == flag }

// Mesh is an editable navigation mesh. Polygons and links live in an arena
// owned by the mesh and refer to each other by slot index; slots freed
// during an edit are only recycled once the edit has completed.
//
// A Mesh is not safe for concurrent use. A carve in progress temporarily
// removes polygons from the mesh, so carves must not overlap queries.
type Mesh struct {

	// Types is the area type registry.
	Types *Types

	// Logger receives diagnostics. nil means [diag.Logger].
	Logger *slog.Logger

	// Debug selects diagnostic behaviour of the carve engine.
	Debug DebugFlags

	// OnCarve, if set, is called with every brush passed to a carve,
	// before the mesh is modified.
	OnCarve func(brush *Poly, precedence int, add bool)

	// OnUnlink, if set, is called whenever a link is removed. Either side
	// may be nil when the link was hanging.
	OnUnlink func(l Link)

	polys []*Poly
	links []link

	freePolys, retiredPolys []polyRef
	freeLinks, retiredLinks []linkRef

	mesh  []*Poly
	byID  map[uint32]*Poly
	newID uint32
}

// New returns an empty mesh with an empty type registry.
func New() *Mesh {
	return &Mesh{Types: NewTypes()}
}

func (m *Mesh) log() *slog.Logger { return diag.Or(m.Logger) }

// Clear removes all polygons and resets the id counter.
func (m *Mesh) Clear() {
	m.polys = nil
	m.links = nil
	m.freePolys, m.retiredPolys = nil, nil
	m.freeLinks, m.retiredLinks = nil, nil
	m.mesh = nil
	m.byID = nil
	m.newID = 0
}

// Len returns the number of polygons in the mesh.
func (m *Mesh) Len() int { return len(m.mesh) }

// Empty returns whether the mesh has no polygons.
func (m *Mesh) Empty() bool { return len(m.mesh) == 0 }

// Polygons iterates over the polygons of the mesh in insertion order.
// The mesh must not be edited during the iteration.
func (m *Mesh) Polygons() iter.Seq[*Poly] {
	return func(yield func(*Poly) bool) {
		for _, p := range m.mesh {
			if !yield(p) {
				return
			}
		}
	}
}

// Polygon returns the polygon with the given id, or nil.
func (m *Mesh) Polygon(id uint32) *Poly {
	return m.byID[id]
}

// AddPolygon adds a copy of p to the mesh without any carving or linking,
// assigns it a fresh id and returns the copy.
func (m *Mesh) AddPolygon(p *Poly) *Poly {
	np := m.copyPoly(p)
	UpdateCentre(np)
	m.addPolygon(np, 0)
	return np
}

// AddPolygonID is like [Mesh.AddPolygon] but keeps the given id.
func (m *Mesh) AddPolygonID(p *Poly, id uint32) (*Poly, error) {
	if id == 0 || id == InvalidID {
		return nil, fmt.Errorf("navmesh: polygon id %d is reserved", id)
	}
	if m.byID[id] != nil {
		return nil, fmt.Errorf("navmesh: polygon id %d: %w", id, ErrDuplicateID)
	}
	np := m.copyPoly(p)
	UpdateCentre(np)
	m.addPolygon(np, id)
	return np, nil
}

// Connect links edge aEdge of polygon aID with edge bEdge of polygon bID,
// replacing any links those edges already had.
func (m *Mesh) Connect(aID uint32, aEdge int, bID uint32, bEdge int) error {
	a, b := m.Polygon(aID), m.Polygon(bID)
	if a == nil || b == nil {
		return fmt.Errorf("navmesh: connect %d-%d: %w", aID, bID, ErrNotFound)
	}
	if aEdge < 0 || aEdge >= a.Len() || bEdge < 0 || bEdge >= b.Len() {
		return fmt.Errorf("navmesh: connect %d:%d-%d:%d: edge out of range", aID, aEdge, bID, bEdge)
	}
	m.deleteLink(a.links[aEdge])
	m.deleteLink(b.links[bEdge])
	m.createLink(a, aEdge, b, bEdge)
	m.release()
	return nil
}

// Disconnect removes the link on the given edge of polygon id, if any.
func (m *Mesh) Disconnect(id uint32, edge int) error {
	p := m.Polygon(id)
	if p == nil {
		return fmt.Errorf("navmesh: disconnect %d: %w", id, ErrNotFound)
	}
	if edge < 0 || edge >= p.Len() {
		return fmt.Errorf("navmesh: disconnect %d:%d: edge out of range", id, edge)
	}
	m.deleteLink(p.links[edge])
	m.release()
	return nil
}

// Clone returns a deep copy of the mesh with identical ids and links.
// The copy shares nothing with m except the Logger and hooks.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Types: m.Types.Clone(), Logger: m.Logger, Debug: m.Debug, OnCarve: m.OnCarve, OnUnlink: m.OnUnlink}
	c.polys = make([]*Poly, len(m.polys))
	for i, p := range m.polys {
		if p == nil {
			continue
		}
		np := &Poly{ID: p.ID, Type: p.Type, Tag: p.Tag, Centre: p.Centre, Extents: p.Extents, ref: p.ref, inMesh: p.inMesh}
		np.Points = slices.Clone(p.Points)
		np.links = slices.Clone(p.links)
		c.polys[i] = np
	}
	c.links = slices.Clone(m.links)
	c.freePolys = slices.Clone(m.freePolys)
	c.freeLinks = slices.Clone(m.freeLinks)
	c.retiredPolys = slices.Clone(m.retiredPolys)
	c.retiredLinks = slices.Clone(m.retiredLinks)
	c.mesh = make([]*Poly, len(m.mesh))
	c.byID = make(map[uint32]*Poly, len(m.mesh))
	for i, p := range m.mesh {
		np := c.polys[p.ref]
		c.mesh[i] = np
		c.byID[np.ID] = np
	}
	c.newID = m.newID
	return c
}

// Validate checks every link slot of every polygon in the mesh, logging
// each broken one, and returns whether all are consistent.
func (m *Mesh) Validate() bool {
	valid := true
	for _, p := range m.mesh {
		if !m.validateLinks(p, false) {
			valid = false
		}
	}
	return valid
}

// addPolygon makes p a member of the mesh. An id of 0 assigns a fresh one.
func (m *Mesh) addPolygon(p *Poly, id uint32) {
	if id == 0 {
		m.newID++
		id = m.newID
	} else if id > m.newID {
		m.newID = id
	}
	p.ID = id
	p.inMesh = true
	m.mesh = append(m.mesh, p)
	if m.byID == nil {
		m.byID = make(map[uint32]*Poly)
	}
	m.byID[id] = p
}

// removePolygon takes p out of the mesh list. Its links are untouched.
func (m *Mesh) removePolygon(p *Poly) {
	if i := slices.Index(m.mesh, p); i >= 0 {
		m.mesh = slices.Delete(m.mesh, i, i+1)
	}
	if m.byID[p.ID] == p {
		delete(m.byID, p.ID)
	}
	p.inMesh = false
}

// newPoly allocates an arena polygon with n points and no links.
func (m *Mesh) newPoly(typ int, tag int16, n int) *Poly {
	p := &Poly{Type: typ, Tag: tag, Points: make([]math32.Vector3, n), links: make([]linkRef, n)}
	if k := len(m.freePolys); k > 0 {
		p.ref = m.freePolys[k-1]
		m.freePolys = m.freePolys[:k-1]
		m.polys[p.ref] = p
		return p
	}
	if len(m.polys) == 0 {
		m.polys = append(m.polys, nil)
	}
	p.ref = polyRef(len(m.polys))
	m.polys = append(m.polys, p)
	return p
}

// create allocates an arena polygon with the type and tag of o.
func (m *Mesh) create(o *Poly, n int) *Poly {
	return m.newPoly(o.Type, o.Tag, n)
}

// copyPoly allocates an arena copy of the points of p, without links.
func (m *Mesh) copyPoly(p *Poly) *Poly {
	np := m.create(p, p.Len())
	copy(np.Points, p.Points)
	np.Centre = p.Centre
	np.Extents = p.Extents
	return np
}

// poly returns the live polygon in slot r, or nil.
func (m *Mesh) poly(r polyRef) *Poly {
	if r <= 0 || int(r) >= len(m.polys) {
		return nil
	}
	return m.polys[r]
}

// deletePoly frees p and every link in its slots.
func (m *Mesh) deletePoly(p *Poly) {
	if p == nil || p.ref == 0 {
		return
	}
	m.validateLinks(p, true)
	for i := range p.links {
		m.deleteLink(p.links[i])
	}
	m.polys[p.ref] = nil
	m.retiredPolys = append(m.retiredPolys, p.ref)
	p.ref = 0
}

// release recycles the slots freed by the edit that has just completed.
func (m *Mesh) release() {
	m.freePolys = append(m.freePolys, m.retiredPolys...)
	m.freeLinks = append(m.freeLinks, m.retiredLinks...)
	m.retiredPolys = m.retiredPolys[:0]
	m.retiredLinks = m.retiredLinks[:0]
}
