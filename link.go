// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"iter"

	"cogentcore.org/core/math32"
)

// link connects edge[0] of poly[0] with edge[1] of poly[1].
// Either side may be 0 while a carve is in progress.
type link struct {
	poly [2]polyRef
	edge [2]int

	// width is the X/Z length of the shared edge.
	width float32

	// step is the height difference between the polygon centres.
	step float32

	// distance is the distance between the polygon centres.
	distance float32

	updated bool
	live    bool
}

// Link describes a removed link for [Mesh.OnUnlink].
type Link struct {
	A, B         *Poly
	EdgeA, EdgeB int
}

// newLink allocates a link slot. It may grow the arena, so pointers into
// m.links must not be held across calls.
func (m *Mesh) newLink() linkRef {
	if k := len(m.freeLinks); k > 0 {
		l := m.freeLinks[k-1]
		m.freeLinks = m.freeLinks[:k-1]
		m.links[l] = link{live: true}
		return l
	}
	if len(m.links) == 0 {
		m.links = append(m.links, link{})
	}
	m.links = append(m.links, link{live: true})
	return linkRef(len(m.links) - 1)
}

// createLink links edge u of a with edge v of b, overwriting whatever the
// slots held. Either polygon may be nil for a hanging link.
func (m *Mesh) createLink(a *Poly, u int, b *Poly, v int) linkRef {
	l := m.newLink()
	lk := &m.links[l]
	lk.poly = [2]polyRef{refOf(a), refOf(b)}
	lk.edge = [2]int{u, v}
	if a != nil {
		a.links[u] = l
	}
	if b != nil {
		b.links[v] = l
	}
	return l
}

// deleteLink frees l, clearing each polygon slot that still holds it.
func (m *Mesh) deleteLink(l linkRef) {
	if l <= 0 || int(l) >= len(m.links) || !m.links[l].live {
		return
	}
	lk := m.links[l]
	var sides [2]*Poly
	for k := range 2 {
		p := m.poly(lk.poly[k])
		if p != nil && lk.edge[k] < len(p.links) && p.links[lk.edge[k]] == l {
			p.links[lk.edge[k]] = 0
		}
		sides[k] = p
	}
	m.links[l] = link{}
	m.retiredLinks = append(m.retiredLinks, l)
	if m.OnUnlink != nil {
		m.OnUnlink(Link{A: sides[0], B: sides[1], EdgeA: lk.edge[0], EdgeB: lk.edge[1]})
	}
}

// changeLink moves the side of l that is on edge fe of from (any edge when
// fe < 0) to edge e of to. A different link already in that slot is
// deleted. It returns false if l does not reference from.
func (m *Mesh) changeLink(l linkRef, from *Poly, fe int, to *Poly, e int) bool {
	if l == 0 {
		return true
	}
	lk := &m.links[l]
	fr := refOf(from)
	k := 2
	if lk.poly[0] == fr && (fe < 0 || lk.edge[0] == fe) {
		k = 0
	}
	if lk.poly[1] == fr && (fe < 0 || lk.edge[1] == fe) {
		k = 1
	}
	if k == 2 {
		m.log().Warn("link corruption", "link", int(l), "from", fr, "edge", fe)
		return false
	}
	old, oe := m.poly(lk.poly[k]), lk.edge[k]
	if to != nil {
		if to.links[e] != l {
			m.deleteLink(to.links[e])
		}
		to.links[e] = l
	}
	// a link moved onto its other side keeps that single slot
	if old != nil && (old != to || oe != e) && oe < len(old.links) && old.links[oe] == l {
		old.links[oe] = 0
	}
	lk.poly[k] = refOf(to)
	lk.edge[k] = e
	lk.updated = false
	return true
}

// updateLink computes the cached width, step and distance of l.
func (m *Mesh) updateLink(l linkRef) {
	lk := &m.links[l]
	a, b := m.poly(lk.poly[0]), m.poly(lk.poly[1])
	if a == nil || b == nil {
		return
	}
	lk.distance = a.Centre.DistanceTo(b.Centre)
	lk.step = math32.Abs(a.Centre.Y - b.Centre.Y)
	pa, pb := a.EdgePoints(lk.edge[0])
	lk.width = xz(pa).DistanceTo(xz(pb))
	lk.updated = true
}

// cachedLink returns the link on edge e of p with its cached values current.
func (m *Mesh) cachedLink(p *Poly, e int) *link {
	l := p.links[e]
	if l == 0 {
		return nil
	}
	if !m.links[l].updated {
		m.updateLink(l)
	}
	return &m.links[l]
}

// LinkWidth returns the width of the link on edge e of p, or 0 if the edge
// is not linked.
func (m *Mesh) LinkWidth(p *Poly, e int) float32 {
	if lk := m.cachedLink(p, e); lk != nil {
		return lk.width
	}
	return 0
}

// LinkDistance returns the distance between the centres of the polygons
// joined on edge e of p, or 0 if the edge is not linked.
func (m *Mesh) LinkDistance(p *Poly, e int) float32 {
	if lk := m.cachedLink(p, e); lk != nil {
		return lk.distance
	}
	return 0
}

// LinkStep returns the height difference between the centres of the
// polygons joined on edge e of p, or 0 if the edge is not linked.
func (m *Mesh) LinkStep(p *Poly, e int) float32 {
	if lk := m.cachedLink(p, e); lk != nil {
		return lk.step
	}
	return 0
}

// linked returns the polygon and edge on the other side of edge e of p.
func (m *Mesh) linked(p *Poly, e int) (*Poly, int) {
	if p == nil || e < 0 || e >= len(p.links) || p.links[e] == 0 {
		return nil, -1
	}
	lk := &m.links[p.links[e]]
	k := 1
	switch {
	case lk.poly[0] == p.ref && lk.edge[0] == e:
		k = 0
	case lk.poly[1] == p.ref && lk.edge[1] == e:
		k = 1
	case lk.poly[0] == p.ref:
		k = 0
	}
	return m.poly(lk.poly[k^1]), lk.edge[k^1]
}

// LinkedPolygon returns the polygon connected to edge e of p, or nil.
func (m *Mesh) LinkedPolygon(p *Poly, e int) *Poly {
	o, _ := m.linked(p, e)
	return o
}

// LinkedEdge returns the edge of the connected polygon that edge e of p is
// linked to, or -1.
func (m *Mesh) LinkedEdge(p *Poly, e int) int {
	_, oe := m.linked(p, e)
	return oe
}

// LinkedID returns the id of the polygon connected to edge e of p, or
// [InvalidID].
func (m *Mesh) LinkedID(p *Poly, e int) uint32 {
	if o := m.LinkedPolygon(p, e); o != nil {
		return o.ID
	}
	return InvalidID
}

// linkCentre returns the mid point of the edge l sits on.
func (m *Mesh) linkCentre(l linkRef) math32.Vector3 {
	lk := &m.links[l]
	k := 0
	if m.poly(lk.poly[0]) == nil {
		k = 1
	}
	return m.poly(lk.poly[k]).EdgeCentre(lk.edge[k])
}

// isConnected returns whether a and b share a link.
func (m *Mesh) isConnected(a, b *Poly) bool {
	if a.Len() < b.Len() {
		a, b = b, a
	}
	for _, l := range a.links {
		if l != 0 && (m.links[l].poly[0] == b.ref || m.links[l].poly[1] == b.ref) {
			return true
		}
	}
	return false
}

// validateLinks checks that every link in the slots of p points back at
// that slot and that its other side holds it too. Broken slots are
// cleared when removeInvalid is set.
func (m *Mesh) validateLinks(p *Poly, removeInvalid bool) bool {
	if p == nil {
		return true
	}
	valid := true
	for i, l := range p.links {
		if l == 0 {
			continue
		}
		ok := int(l) < len(m.links) && m.links[l].live
		if ok {
			lk := &m.links[l]
			k := -1
			if lk.poly[0] == p.ref && lk.edge[0] == i {
				k = 0
			} else if lk.poly[1] == p.ref && lk.edge[1] == i {
				k = 1
			}
			switch {
			case k < 0:
				ok = false
			default:
				o := m.poly(lk.poly[k^1])
				ok = o != nil && lk.edge[k^1] < len(o.links) && o.links[lk.edge[k^1]] == l
			}
		}
		if ok {
			continue
		}
		valid = false
		c := p.EdgeCentre(i)
		m.log().Warn("invalid link", "poly", p.ID, "edge", i, "x", c.X, "z", c.Z)
		if removeInvalid {
			p.links[i] = 0
			if int(l) < len(m.links) && m.links[l].live && !m.referenced(l) {
				m.links[l] = link{}
				m.retiredLinks = append(m.retiredLinks, l)
			}
		}
	}
	return valid
}

// referenced returns whether any live polygon slot named by l holds it.
func (m *Mesh) referenced(l linkRef) bool {
	lk := &m.links[l]
	for k := range 2 {
		if p := m.poly(lk.poly[k]); p != nil && lk.edge[k] < len(p.links) && p.links[lk.edge[k]] == l {
			return true
		}
	}
	return false
}

// validateAll runs validateLinks over a working list.
func (m *Mesh) validateAll(list []*Poly, removeInvalid bool) bool {
	valid := true
	for _, p := range list {
		if p != nil && !m.validateLinks(p, removeInvalid) {
			valid = false
		}
	}
	return valid
}

// Edge is one edge of a polygon, from Points[A] to Points[B].
type Edge struct {
	Poly *Poly
	A, B int
	mesh *Mesh
}

// PointA returns the start point of the edge.
func (e Edge) PointA() math32.Vector3 { return e.Poly.Points[e.A] }

// PointB returns the end point of the edge.
func (e Edge) PointB() math32.Vector3 { return e.Poly.Points[e.B] }

// Direction returns PointB - PointA.
func (e Edge) Direction() math32.Vector3 { return e.PointB().Sub(e.PointA()) }

// Normal returns the outward X/Z normal of the edge, not normalized.
func (e Edge) Normal() math32.Vector3 {
	a, b := e.PointA(), e.PointB()
	return math32.Vec3(b.Z-a.Z, 0, a.X-b.X)
}

// Linked returns whether the edge is connected.
func (e Edge) Linked() bool { return e.Poly.Linked(e.A) }

// Connected returns the polygon on the other side of the edge, or nil.
func (e Edge) Connected() *Poly { return e.mesh.LinkedPolygon(e.Poly, e.A) }

// OppositeEdge returns the edge index on the connected polygon, or -1.
func (e Edge) OppositeEdge() int { return e.mesh.LinkedEdge(e.Poly, e.A) }

// Edges iterates over the edges of p, starting with the closing edge
// from the last point to the first.
func (m *Mesh) Edges(p *Poly) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		n := p.Len()
		for a, b := n-1, 0; b < n; a, b = b, b+1 {
			if !yield(Edge{Poly: p, A: a, B: b, mesh: m}) {
				return
			}
		}
	}
}
