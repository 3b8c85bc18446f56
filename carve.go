// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"cmp"
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
)

// Carve adds the area of brush to the mesh (add) or removes it, using the
// precedence registered for the brush type. See [Mesh.CarvePrecedence].
func (m *Mesh) Carve(brush *Poly, add bool) error {
	if brush == nil {
		return ErrInvalidBrush
	}
	return m.CarvePrecedence(brush, m.Types.Precedence(brush.Type), add)
}

// CarvePrecedence adds the area of brush to the mesh with the type of the
// brush, or removes it when add is false. Existing area of a type with a
// higher precedence than the given one is never overwritten or removed.
// The brush itself is not modified and never becomes part of the mesh.
//
// Polygons touched by the carve are rebuilt with new ids; the result is
// made of linked convex polygons. It returns [ErrInvalidBrush] for a brush
// with fewer than three points and [ErrConstruct] if the edit could not be
// completed.
func (m *Mesh) CarvePrecedence(brush *Poly, precedence int, add bool) error {
	if brush == nil || brush.Len() < 3 {
		return ErrInvalidBrush
	}
	if m.OnCarve != nil {
		m.OnCarve(brush, precedence, add)
	}
	err := m.carve(brush, precedence, add)
	m.release()
	return err
}

func (m *Mesh) carve(brush *Poly, precedence int, add bool) error {
	sb := m.copyPoly(brush)
	if Inverted(sb) {
		m.invert(sb)
	}
	UpdateCentre(sb)
	brushType := brush.Type
	if !add {
		brushType = -1
		sb.Type = -1
	}
	m.log().Debug("carve", "add", add, "type", m.Types.Name(brush.Type), "precedence", precedence, "points", sb.Len())

	in := m.collect(sb)
	for _, p := range in {
		m.removePolygon(p)
	}
	in = m.mergeList(in)

	var sects []sect
	for _, p := range in {
		if p == nil {
			continue
		}
		// a polygon only sharing boundary with the brush is left alone
		// when removing, or when the brush fills a hole in it
		if !overlaps(p, sb) && (!add || within(sb, p)) {
			continue
		}
		sects = m.getIntersections(sb, p, sects)
	}
	sortSects(sects)
	m.log().Debug("intersections", "count", len(sects))

	var out []*Poly
	placed := false
	switch {
	case m.Debug.Has(DebugMergeOnly):
		for i, p := range in {
			if p != nil {
				out = append(out, p)
				in[i] = nil
			}
		}
	case len(sects) <= 1:
		out, placed = m.place(sb, in, brush.Type, precedence, add)
	default:
		var err error
		out, err = m.construct(sects, out, brushType, precedence)
		if err != nil {
			var back []*Poly
			for _, p := range in {
				if p != nil && p.ref != 0 {
					back = append(back, p)
				}
			}
			if !m.Debug.Has(DebugNoConvex) {
				back = m.absorbSlivers(m.makeConvex(back))
			}
			m.deletePoly(sb)
			m.commit(back)
			return err
		}
		out = m.keepUntouched(sb, in, sects, out, brush.Type, precedence)
	}

	for _, p := range in {
		m.deletePoly(p)
	}
	if !placed {
		m.deletePoly(sb)
	}
	for i, p := range out {
		if p != nil && p.ref != 0 && (p.Len() < 3 || math32.Abs(p.Area()) < Epsilon) {
			m.log().Debug("degenerate", "points", p.Len())
			m.deletePoly(p)
			out[i] = nil
		}
	}
	m.stitch(out)
	if !m.Debug.Has(DebugNoConvex) {
		out = m.absorbSlivers(m.makeConvex(out))
	}
	m.commit(out)
	return nil
}

// place handles a brush that crosses no polygon boundary: it is either
// absorbed by the polygon containing it, drilled into that polygon, or
// placed on its own. Polygons covered by the brush are replaced unless
// they have a higher precedence. It reports whether sb became part of the
// result.
func (m *Mesh) place(sb *Poly, in []*Poly, brushType, precedence int, add bool) ([]*Poly, bool) {
	var out []*Poly
	placed := false
	container := -1
	for i, p := range in {
		if p != nil && within(sb, p) && overlaps(p, sb) {
			container = i
			break
		}
	}
	if container >= 0 {
		c := in[container]
		in[container] = nil
		same := within(c, sb)
		switch {
		case m.Types.Precedence(c.Type) > precedence || (add && c.Type == brushType):
			out = append(out, c)
		case same && add:
			c.Type = brushType
			out = append(out, c)
		case same:
			m.deletePoly(c)
		default:
			out = append(out, m.drill(c, sb, add))
			m.deletePoly(c)
			if add {
				out = append(out, sb)
				placed = true
			}
		}
	} else if add {
		out = append(out, sb)
		placed = true
	}

	for i, p := range in {
		if p == nil {
			continue
		}
		in[i] = nil
		switch {
		case !within(p, sb):
			out = append(out, p)
		case p.Type != brushType && m.Types.Precedence(p.Type) > precedence:
			out = m.redrill(out, p)
		default:
			m.deletePoly(p)
		}
	}
	return out, placed
}

// stitch links unlinked edges of the polygons in list that run between
// the same points in opposite directions.
func (m *Mesh) stitch(list []*Poly) {
	for i, p := range list {
		if p == nil || p.ref == 0 {
			continue
		}
		for e := range p.links {
			if p.links[e] != 0 {
				continue
			}
			a, b := p.EdgePoints(e)
		search:
			for _, q := range list[i+1:] {
				if q == nil || q.ref == 0 {
					continue
				}
				for f := range q.links {
					if q.links[f] != 0 {
						continue
					}
					if c, d := q.EdgePoints(f); eq(a, d) && eq(b, c) {
						m.createLink(p, e, q, f)
						break search
					}
				}
			}
		}
	}
}

// keepUntouched sorts the collected polygons that no intersection refers
// to: those outside the brush stay as they are, those under it are
// dropped, except that a polygon with a higher precedence is cut back
// out of the result.
func (m *Mesh) keepUntouched(sb *Poly, in []*Poly, sects []sect, out []*Poly, brushType, precedence int) []*Poly {
	for i, p := range in {
		if p == nil {
			continue
		}
		used := false
		for k := range sects {
			if sects[k].p[1] == p {
				used = true
				break
			}
		}
		if used {
			continue
		}
		switch {
		case !within(p, sb):
			in[i] = nil
			out = append(out, p)
		case p.Type != brushType && m.Types.Precedence(p.Type) > precedence:
			in[i] = nil
			m.log().Debug("redrill", "poly", p.ID)
			out = m.redrill(out, p)
		}
	}
	return out
}

// redrill cuts p out of the result polygon that contains it and adds both
// to out. Without such a polygon p is kept on its own.
func (m *Mesh) redrill(out []*Poly, p *Poly) []*Poly {
	for i, o := range out {
		if o == nil || o == p || !within(p, o) {
			continue
		}
		n := m.drill(o, p, true)
		m.deletePoly(o)
		out[i] = nil
		return append(out, n, p)
	}
	return append(out, p)
}

// commit adds the carve results to the mesh. Polygons that kept their id
// keep it; new ones get fresh ids.
func (m *Mesh) commit(out []*Poly) {
	for _, p := range out {
		if p == nil || p.ref == 0 {
			continue
		}
		UpdateCentre(p)
		p.traversalDone = false
		for e := range p.links {
			if o := m.LinkedPolygon(p, e); o != nil {
				o.traversalDone = false
			}
		}
		m.addPolygon(p, p.ID)
	}
	if m.Debug.Has(DebugValidate) {
		m.Validate()
	}
}

// absorbSlivers removes the polygons of list that the convex split left
// without area. The points of a sliver are inserted into the edges across
// it, and those edges are linked to each other. A neighbour that would not
// stay convex is only unlinked.
func (m *Mesh) absorbSlivers(list []*Poly) []*Poly {
	for i, p := range list {
		if p == nil || p.ref == 0 || (p.Len() >= 3 && math32.Abs(p.Area()) >= Epsilon) {
			continue
		}
		var around []*Poly
		for e := range p.Len() {
			q, f := m.linked(p, e)
			if q == nil || q == p {
				continue
			}
			if !slices.Contains(around, q) {
				around = append(around, q)
			}
			if !m.splitEdge(q, f, p.Points) {
				m.log().Debug("sliver unlinked", "poly", q.ID, "edge", f)
			}
		}
		m.log().Debug("sliver", "points", p.Len(), "neighbours", len(around))
		m.deletePoly(p)
		list[i] = nil
		m.stitch(around)
		for _, q := range around {
			UpdateCentre(q)
			q.traversalDone = false
			for e := range q.links {
				if o := m.LinkedPolygon(q, e); o != nil {
					o.traversalDone = false
				}
			}
		}
	}
	return list
}

// splitEdge inserts the points of pts that lie on edge e of q into that
// edge, in order along it. If q would not stay convex the points are taken
// out again and it returns false.
func (m *Mesh) splitEdge(q *Poly, e int, pts []math32.Vector3) bool {
	a, b := q.EdgePoints(e)
	d := b.Sub(a)
	var on []math32.Vector3
	for _, pt := range pts {
		if onEdge(a, b, pt) {
			on = append(on, pt)
		}
	}
	along := func(pt math32.Vector3) float32 { return (pt.X-a.X)*d.X + (pt.Z-a.Z)*d.Z }
	slices.SortFunc(on, func(u, v math32.Vector3) int { return cmp.Compare(along(u), along(v)) })
	ok := true
	for k, pt := range on {
		m.insertPoint(q, e+k, pt)
		if !fitPoint(q, e+k+1) {
			ok = false
		}
	}
	if !ok {
		for range on {
			m.removePoint(q, e+1)
		}
	}
	return ok
}

// fitPoint keeps point j of q convex together with its neighbours by
// trying it where it is, projected onto the chord of its neighbours, and
// mirrored across that chord. It restores the point and returns false if
// none of these fit.
func fitPoint(q *Poly, j int) bool {
	pt := q.Points[j]
	a, b := q.Points[q.prev(j)], q.Points[q.next(j)]
	d := b.Sub(a)
	l2 := d.X*d.X + d.Z*d.Z
	if l2 < Epsilon {
		return convexAround(q, j)
	}
	t := ((pt.X-a.X)*d.X + (pt.Z-a.Z)*d.Z) / l2
	on := math32.Vec3(a.X+d.X*t, pt.Y, a.Z+d.Z*t)
	mirror := math32.Vec3(2*on.X-pt.X, pt.Y, 2*on.Z-pt.Z)
	for _, c := range []math32.Vector3{pt, on, mirror} {
		q.Points[j] = c
		if convexAround(q, j) {
			return true
		}
	}
	q.Points[j] = pt
	return false
}

// convexAround returns whether point j of p and the points next to it are
// convex or straight.
func convexAround(p *Poly, j int) bool {
	for _, k := range [3]int{p.prev(j), j, p.next(j)} {
		if Side(p.Points[p.prev(k)], p.Points[p.next(k)], p.Points[k]) < 0 {
			return false
		}
	}
	return true
}

// overlaps returns whether the interiors of p and q overlap, as opposed
// to the polygons only sharing edges or points.
func overlaps(p, q *Poly) bool {
	switch Intersect(p, q) {
	case Crossing, BInsideA, AInsideB:
		return true
	}
	return sharesInterior(p, q)
}

// sharesInterior returns whether a vertex or edge centre of either polygon
// is strictly inside the other.
func sharesInterior(p, q *Poly) bool {
	for _, v := range [2][2]*Poly{{p, q}, {q, p}} {
		a, b := v[0], v[1]
		for i := range a.Points {
			if Inside(b, xz(a.Points[i])) == 1 || Inside(b, xz(a.EdgeCentre(i))) == 1 {
				return true
			}
		}
	}
	return false
}

// within returns whether every point of p is inside q or on its boundary.
func within(p, q *Poly) bool {
	for _, pt := range p.Points {
		if Inside(q, xz(pt)) == 0 {
			return false
		}
	}
	return true
}

// ChangeType sets the type of p, a polygon of the mesh, and merges it with
// its linked neighbours of the same type. The merged area is split into
// convex polygons again.
func (m *Mesh) ChangeType(p *Poly, typ int) error {
	if p == nil || !p.inMesh || m.byID[p.ID] != p {
		return fmt.Errorf("navmesh: change type: %w", ErrNotFound)
	}
	p.Type = typ
	list := m.expand([]*Poly{p}, typ)
	for _, q := range list {
		m.removePolygon(q)
	}
	if len(list) > 1 {
		list = m.mergeList(list)
		if !m.Debug.Has(DebugNoConvex) {
			list = m.makeConvex(list)
		}
	}
	m.commit(list)
	m.release()
	return nil
}
