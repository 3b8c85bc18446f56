// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"fmt"
	"slices"

	"cogentcore.org/core/math32"
)

// followMode is the move taken from an intersection while construct walks
// the boundary of a result polygon.
type followMode int32

const (
	// forwardPolygon continues along the mesh polygon in its winding.
	forwardPolygon followMode = iota

	// reversePolygon continues along the mesh polygon against its winding,
	// around the outside of a polygon that must be kept.
	reversePolygon

	// forwardBrush continues along the brush in its winding.
	forwardBrush

	// reverseBrush continues along the brush against its winding.
	reverseBrush
)

var followModeNames = [...]string{"forward polygon", "reverse polygon", "forward brush", "reverse brush"}

func (f followMode) String() string {
	if f < 0 || int(f) >= len(followModeNames) {
		return fmt.Sprintf("followMode(%d)", int(f))
	}
	return followModeNames[f]
}

// walkLimit bounds the number of intersections visited while closing
// one result polygon.
const walkLimit = 32

// nextMode returns the move to take from intersection c while building a
// polygon of type typ, started from side side of its first intersection.
// brushType is -1 when the brush removes area. A mesh polygon with a
// higher precedence than the brush is walked around, never through.
func (m *Mesh) nextMode(c *sect, side, typ, brushType, precedence int) followMode {
	var op followMode
	poly := c.p[1].Type
	switch {
	case side == 0 && poly != typ:
		op = forwardBrush
	case typ == brushType:
		op = forwardBrush
		if poly == typ && c.s&1 != 0 {
			op = forwardPolygon
		}
	case c.s&1 != 0:
		op = forwardPolygon
	default:
		op = reverseBrush
	}

	if m.Types.Precedence(poly) > precedence {
		if op == forwardBrush {
			if c.s&1 != 0 {
				op = reversePolygon
			}
		} else {
			op = forwardPolygon
		}
	}
	return op
}

// seam records the ends of the new polygons on each side of an
// intersection, so their shared edges can be linked afterwards.
type seam struct {
	p     [2]*Poly
	index [2]int
}

// partial is a link copied from an input polygon onto an edge of a result
// polygon that the link does not reference yet.
type partial struct {
	poly *Poly
	edge int
	link linkRef
}

// construct builds the result polygons of a carve from the sorted
// intersection list, appending them to out. Inverted results are holes and
// are joined into the polygon that contains them.
func (m *Mesh) construct(list []sect, out []*Poly, brushType, precedence int) ([]*Poly, error) {
	var holes []*Poly
	seams := make([]seam, len(list))
	first := len(out)
	limit := max(walkLimit, 2*len(list)+2)

	ni := 0
	for {
		ci := 0
		for ci < len(list) && list[ci].s&(sectPolygonUsed|sectBrushUsed) == sectPolygonUsed|sectBrushUsed {
			ci++
		}
		if ci == len(list) {
			break
		}

		start := ci
		side := 1
		if list[ci].s&sectPolygonUsed != 0 {
			side = 0
		}
		typ := list[ci].p[side].Type
		np := m.create(list[ci].p[1], 0)
		np.Type = typ

		steps := 0
		for {
			steps++
			if steps > limit {
				m.log().Error("construct failed", "steps", steps, "intersections", len(list))
				m.freeBuilt(np)
				m.freeBuilt(out[first:]...)
				m.freeBuilt(holes...)
				return out[:first], ErrConstruct
			}
			cur := &list[ci]

			if np.Len() == 0 || cur.point.DistanceToSquared(np.Points[np.Len()-1]) > Epsilon {
				np.Points = append(np.Points, cur.point)
				np.links = append(np.links, 0)
			}

			if cur.p[1].Type == typ {
				cur.s |= sectPolygonUsed
			}
			if cur.p[0].Type == typ || cur.p[0].Type < 0 {
				cur.s |= sectBrushUsed
			}

			op := m.nextMode(cur, side, typ, brushType, precedence)
			m.log().Debug("follow", "from", ci, "op", op)
			last := np.Len() - 1
			switch op {
			case forwardPolygon, reversePolygon:
				if op == forwardPolygon {
					seams[ci].p[1], seams[ci].index[1] = np, last
				} else {
					seams[ci].p[0], seams[ci].index[0] = np, last
				}
				sv, ev := cur.key(1), float32(-1)
				// prefer unused intersections, but a walk around a kept
				// polygon may have to pass through used ones
				for _, anyUsed := range [2]bool{false, true} {
					for i := range list {
						o := &list[i]
						if i == ci || o.p[1] != cur.p[1] || (!anyUsed && i != start && o.s&sectPolygonUsed != 0) {
							continue
						}
						t := o.key(1)
						var better bool
						if op == forwardPolygon {
							better = ev < 0 || (ev < sv && (t < ev || t > sv)) || (ev > sv && t >= sv && t < ev)
						} else {
							better = ev < 0 || (ev < sv && t > ev && t <= sv) || (ev > sv && (t > ev || t < sv))
						}
						if better {
							ev, ni = t, i
						}
					}
					if ev >= 0 {
						break
					}
				}
				m.follow(cur.p[1], sv, ev, op == forwardPolygon, np, false)
				ci = ni
			case forwardBrush:
				seams[ci].p[0], seams[ci].index[0] = np, last
				ci = (ci + 1) % len(list)
				m.follow(cur.p[0], cur.key(0), list[ci].key(0), true, np, true)
			case reverseBrush:
				seams[ci].p[1], seams[ci].index[1] = np, last
				if ci > 0 {
					ci--
				} else {
					ci = len(list) - 1
				}
				m.follow(cur.p[0], cur.key(0), list[ci].key(0), false, np, true)
			}
			if ci == start {
				break
			}
		}

		switch {
		case np.Len() == 0:
			m.deletePoly(np)
		case np.Len() <= 2:
			m.log().Debug("construct", "reason", "degenerate polygon", "points", np.Len())
			m.freeBuilt(np)
		case Inverted(np):
			holes = append(holes, np)
		default:
			out = append(out, np)
		}
	}

	unresolved := m.resolvePartials(append(out[first:len(out):len(out)], holes...))

	// zip up the seams between brush and polygon walks
	for _, k := range seams {
		a, b := k.p[0], k.p[1]
		if a == nil || b == nil || a.ref == 0 || b.ref == 0 || k.index[0] >= a.Len() || k.index[1] >= b.Len() {
			continue
		}
		if a.links[k.index[0]] != 0 {
			continue
		}
		ia, ib := k.index[0], k.index[1]
		for range a.Len() {
			na, nb := a.next(ia), b.prev(ib)
			if a.Points[na] != b.Points[nb] || a.links[ia] != 0 || b.links[nb] != 0 {
				break
			}
			m.createLink(a, ia, b, nb)
			ia, ib = na, nb
		}
	}

	unresolved = m.splitPartials(unresolved, append(out[first:len(out):len(out)], holes...))
	for _, pt := range unresolved {
		if pt.poly.ref != 0 && pt.poly.links[pt.edge] == 0 {
			c := pt.poly.EdgeCentre(pt.edge)
			m.log().Warn("partial link unresolved", "x", c.X, "z", c.Z)
		}
	}

	if !m.Debug.Has(DebugNoClean) {
		for _, p := range out[first:] {
			m.cleanPolygon(p)
		}
	}

	if len(holes) > 0 {
		parent := -1
		for i := first; i < len(out); i++ {
			if Inside(out[i], xz(holes[0].Points[0])) != 0 {
				parent = i
				break
			}
		}
		if parent < 0 {
			m.log().Warn("hole parent not found", "holes", len(holes))
			m.freeBuilt(holes...)
		} else {
			rest, joined := m.joinHoles(append(holes, out[parent]))
			if joined == nil {
				out[parent] = nil
				for _, p := range rest {
					switch {
					case p == nil:
					case out[parent] == nil && !Inverted(p):
						out[parent] = p
					default:
						m.freeBuilt(p)
					}
				}
			} else {
				out[parent] = joined
			}
		}
	}

	m.validateAll(out[first:], true)
	return out, nil
}

// follow appends the boundary of p from parameter s to parameter e to np,
// going forwards or backwards. Links of the followed edges are moved onto
// np. An edge of np entered from an intersection gets the link of the
// crossed edge as a partial link, resolved once all polygons are built.
func (m *Mesh) follow(p *Poly, s, e float32, forward bool, np *Poly, isBrush bool) int {
	fs, fe := math32.Floor(s), math32.Floor(e)
	if fs == fe && ((forward && e >= s) || (!forward && e <= s)) {
		return 0
	}
	l := p.Len()
	at := func(i int) int { return ((i % l) + l) % l }

	// the previous point may be the first one followed
	resolve := func(first, edge int) {
		n := np.Len()
		if n == 0 {
			return
		}
		if eq(np.Points[n-1], p.Points[at(first)]) {
			np.Points = np.Points[:n-1]
			np.links = np.links[:n-1]
		} else if np.links[n-1] == 0 {
			np.links[n-1] = p.links[at(edge)]
		}
	}

	if forward {
		se, ee := int(math32.Ceil(s)), int(fe)
		if se > ee {
			ee += l
		}
		resolve(se, int(fs))
		for i := se; i <= ee; i++ {
			link := p.links[at(i)]
			np.Points = append(np.Points, p.Points[at(i)])
			np.links = append(np.links, link)
			if i != ee {
				m.changeLink(link, p, at(i), np, np.Len()-1)
			}
		}
		return ee - se + 1
	}

	se, ee := int(fs), int(math32.Ceil(e))
	if ee > se {
		se += l
	}
	resolve(se, se)
	for i := se; i >= ee; i-- {
		edge := at(i - 1)
		link := p.links[edge]
		np.Points = append(np.Points, p.Points[at(i)])
		np.links = append(np.links, link)
		if i == ee {
			continue
		}
		idx := np.Len() - 1
		switch {
		case link != 0:
			lk := &m.links[link]
			k := 0
			if lk.poly[0] == p.ref {
				k = 1
			}
			m.changeLink(link, m.poly(lk.poly[k]), lk.edge[k], np, idx)
		case !isBrush:
			m.createLink(p, edge, np, idx)
		}
	}
	return se - ee + 1
}

// resolvePartials links the edges of list that carry a link they are not
// part of with the edge carrying the same link in the opposite direction.
// It returns the partial links left without a partner.
func (m *Mesh) resolvePartials(list []*Poly) []partial {
	var parts []partial
	for _, p := range list {
		for j, l := range p.links {
			if l == 0 {
				continue
			}
			lk := &m.links[l]
			if !lk.live || (lk.poly[0] != p.ref && lk.poly[1] != p.ref) {
				parts = append(parts, partial{poly: p, edge: j, link: l})
				p.links[j] = 0
			}
		}
	}
	m.matchPartials(parts)
	return slices.DeleteFunc(parts, func(pt partial) bool { return pt.link == 0 })
}

// matchPartials links pairs of partial edges that carry the same link and
// have the same end points in opposite directions.
func (m *Mesh) matchPartials(parts []partial) {
	for i := range parts {
		if parts[i].link == 0 {
			continue
		}
		a, b := parts[i].poly.EdgePoints(parts[i].edge)
		for j := i + 1; j < len(parts); j++ {
			if parts[j].link != parts[i].link {
				continue
			}
			c, d := parts[j].poly.EdgePoints(parts[j].edge)
			if eq(a, d) && eq(b, c) {
				m.createLink(parts[i].poly, parts[i].edge, parts[j].poly, parts[j].edge)
				parts[i].link, parts[j].link = 0, 0
				break
			}
		}
	}
}

// splitPartials repairs partial links whose edges only overlap, as when a
// brush vertex lies on a shared edge and splits only one side of it. The
// longer edge is split at the end point of the shorter one and the pieces
// are linked. A live link carried by the partials that joins result
// polygons only is broken up into partials first. It returns the partial
// links still without a partner.
func (m *Mesh) splitPartials(parts []partial, list []*Poly) []partial {
	seen := map[linkRef]bool{}
	for i := range parts {
		l := parts[i].link
		if l == 0 || seen[l] || !m.links[l].live {
			continue
		}
		seen[l] = true
		lk := m.links[l]
		outside := false
		for k := range 2 {
			if q := m.poly(lk.poly[k]); q != nil && q.inMesh {
				outside = true
			}
		}
		if outside {
			continue
		}
		for k := range 2 {
			q, f := m.poly(lk.poly[k]), lk.edge[k]
			if q != nil && slices.Contains(list, q) && q.links[f] == l {
				parts = append(parts, partial{poly: q, edge: f, link: l})
			}
		}
		m.deleteLink(l)
	}
	for i := range parts {
		if pt := parts[i]; pt.poly.ref == 0 || pt.poly.links[pt.edge] != 0 {
			parts[i].link = 0
		}
	}

	for range parts {
		if !m.splitPartial(parts) {
			break
		}
		m.matchPartials(parts)
	}
	return slices.DeleteFunc(parts, func(pt partial) bool { return pt.link == 0 })
}

// splitPartial splits the first partial edge that has the edge of another
// partial with the same link running back along part of it from one of
// its ends, and links the overlapping piece.
func (m *Mesh) splitPartial(parts []partial) bool {
	for i := range parts {
		if parts[i].link == 0 {
			continue
		}
		p, e := parts[i].poly, parts[i].edge
		a, b := p.EdgePoints(e)
		for j := range parts {
			if j == i || parts[j].link != parts[i].link {
				continue
			}
			c, d := parts[j].poly.EdgePoints(parts[j].edge)
			var pt math32.Vector3
			var tail bool
			switch {
			case eq(b, c) && onEdge(a, b, d):
				pt, tail = d, true
			case eq(a, d) && onEdge(a, b, c):
				pt = c
			default:
				continue
			}
			m.insertPoint(p, e, pt)
			for k := range parts {
				if parts[k].poly == p && parts[k].edge > e {
					parts[k].edge++
				}
			}
			if tail {
				m.createLink(p, e+1, parts[j].poly, parts[j].edge)
			} else {
				m.createLink(p, e, parts[j].poly, parts[j].edge)
				parts[i].edge = e + 1
			}
			parts[j].link = 0
			return true
		}
	}
	return false
}

// onEdge returns whether pt lies on segment ab in the xz plane, away from
// its ends.
func onEdge(a, b, pt math32.Vector3) bool {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Z*d.Z
	if l2 < Epsilon {
		return false
	}
	t := ((pt.X-a.X)*d.X + (pt.Z-a.Z)*d.Z) / l2
	if t <= snapEpsilon || t >= 1-snapEpsilon {
		return false
	}
	q := a.Add(d.MulScalar(t))
	return xz(q).DistanceToSquared(xz(pt)) < Epsilon
}

// freeBuilt frees polygons created during a construct, first dropping the
// partial links they may carry.
func (m *Mesh) freeBuilt(list ...*Poly) {
	for _, p := range list {
		if p == nil || p.ref == 0 {
			continue
		}
		for j, l := range p.links {
			if l == 0 {
				continue
			}
			lk := &m.links[l]
			if !lk.live || !((lk.poly[0] == p.ref && lk.edge[0] == j) || (lk.poly[1] == p.ref && lk.edge[1] == j)) {
				p.links[j] = 0
			}
		}
		m.deletePoly(p)
	}
}
