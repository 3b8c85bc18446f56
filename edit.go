// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"slices"

	"cogentcore.org/core/math32"
)

// removePoint deletes point e of p and the link on edge e, renumbering
// the links of the following edges.
func (m *Mesh) removePoint(p *Poly, e int) {
	m.deleteLink(p.links[e])
	n := p.Len()
	for i := e; i < n-1; i++ {
		p.Points[i] = p.Points[i+1]
		p.links[i] = p.links[i+1]
		if l := p.links[i]; l != 0 {
			lk := &m.links[l]
			if lk.poly[0] == p.ref && lk.edge[0] == i+1 {
				lk.edge[0]--
			}
			if lk.poly[1] == p.ref && lk.edge[1] == i+1 {
				lk.edge[1]--
			}
		}
	}
	p.Points = p.Points[:n-1]
	p.links = p.links[:n-1]
}

// insertPoint inserts pt after point e of p, splitting edge e. The new
// edge e+1 is unlinked.
func (m *Mesh) insertPoint(p *Poly, e int, pt math32.Vector3) {
	n := p.Len()
	p.Points = slices.Insert(p.Points, e+1, pt)
	p.links = slices.Insert(p.links, e+1, 0)
	for i := n; i > e+1; i-- {
		if l := p.links[i]; l != 0 {
			m.moveSide(l, p, i-1, i)
		}
	}
}

// pinchPoints inserts a point into every unlinked edge of p that another
// vertex of p lies on, so the polygon can be split at the pinch.
func (m *Mesh) pinchPoints(p *Poly) int {
	added := 0
	for range p.Len() {
		if !m.pinchPoint(p) {
			break
		}
		added++
	}
	return added
}

func (m *Mesh) pinchPoint(p *Poly) bool {
	n := p.Len()
	for i, pt := range p.Points {
		for j := range n {
			k := p.next(j)
			if j == i || k == i || p.links[j] != 0 {
				continue
			}
			a, b := p.Points[j], p.Points[k]
			d := b.Sub(a)
			l2 := d.X*d.X + d.Z*d.Z
			if l2 < Epsilon {
				continue
			}
			t := ((pt.X-a.X)*d.X + (pt.Z-a.Z)*d.Z) / l2
			if t <= snapEpsilon || t >= 1-snapEpsilon {
				continue
			}
			q := a.Add(d.MulScalar(t))
			if xz(q).DistanceToSquared(xz(pt)) > Epsilon {
				continue
			}
			m.insertPoint(p, j, math32.Vec3(pt.X, q.Y, pt.Z))
			m.log().Debug("pinch", "poly", p.ID, "edge", j)
			return true
		}
	}
	return false
}

// moveSide renumbers the side of l that sits on edge from of p to edge to.
func (m *Mesh) moveSide(l linkRef, p *Poly, from, to int) {
	lk := &m.links[l]
	for k := range 2 {
		if lk.poly[k] == p.ref && lk.edge[k] == from {
			lk.edge[k] = to
			return
		}
	}
}

func (m *Mesh) isSelfLink(l linkRef) bool {
	return m.links[l].poly[0] == m.links[l].poly[1]
}

// cleanPolygon removes linked and unlinked spikes, internal points left by
// seams, straight points and near duplicate points from p. It returns the
// number of points removed.
func (m *Mesh) cleanPolygon(p *Poly) int {
	start := p.Len()
	if p.Len() > 1 && p.Points[0].DistanceToSquared(p.Points[p.Len()-1]) < Epsilon {
		m.removePoint(p, p.Len()-1)
	}
	i, j := p.Len()-1, 0
	for j < p.Len() {
		if p.Len() < 3 {
			break
		}
		if j == 0 {
			i = p.Len() - 1
		} else if i >= p.Len() {
			break
		}
		k := (j + 1) % p.Len()

		la, lb := p.links[i], p.links[j]
		if la != 0 && lb != 0 {
			if la == lb {
				if !eq(p.Points[i], p.Points[k]) {
					m.log().Warn("link corruption", "poly", p.ID, "x", p.Points[j].X, "z", p.Points[j].Z)
					break
				}
				m.removePoint(p, max(i, j))
				m.removePoint(p, min(i, j))
				if j > p.Len() {
					break
				}
				continue
			}
			if m.isSelfLink(la) && m.isSelfLink(lb) {
				other := j + 1
				for other < p.Len() && p.Points[j] != p.Points[other] {
					other++
				}
				if other < p.Len() {
					p.links[i], p.links[j] = lb, la
					m.moveSide(lb, p, j, i)
					m.moveSide(la, p, i, j)
					m.removePoint(p, other)
					m.removePoint(p, j)
					if j > p.Len() {
						break
					}
					continue
				}
			}
		}

		if la == 0 && lb == 0 && p.Points[i] == p.Points[k] {
			m.removePoint(p, j)
			continue
		}

		n := math32.Vec2(p.Points[k].Z-p.Points[i].Z, p.Points[i].X-p.Points[k].X)
		if math32.Abs(dotXZ(p.Points[j].Sub(p.Points[i]), n)) < straightEpsilon {
			if (la != 0 || lb != 0) && dot2d(p.Points[j].Sub(p.Points[i]), p.Points[k].Sub(p.Points[j])) < 0 {
				// linked spike with no area
				m.deleteLink(la)
				m.removePoint(p, j)
				continue
			}
			if la != 0 && lb != 0 && m.samePolys(la, lb) {
				lk := m.links[la]
				o := 0
				if lk.poly[0] == p.ref {
					o = 1
				}
				op, oe := m.poly(lk.poly[o]), lk.edge[o]
				if op != nil && op != p && op.Len() > 3 {
					m.removePoint(p, j)
					m.removePoint(op, oe)
					m.createLink(p, (j+p.Len()-1)%p.Len(), op, (oe+op.Len()-1)%op.Len())
					m.validateLinks(p, false)
					m.validateLinks(op, false)
					continue
				}
			} else if la == 0 && lb == 0 {
				m.removePoint(p, j)
				continue
			}
		}

		if p.Points[i].DistanceToSquared(p.Points[j]) < Epsilon {
			if p.links[j] == 0 {
				m.removePoint(p, j)
			} else {
				m.removePoint(p, i)
			}
			continue
		}

		i = j
		j++
	}
	return start - p.Len()
}

// samePolys returns whether links a and b join the same pair of polygons.
func (m *Mesh) samePolys(a, b linkRef) bool {
	la, lb := &m.links[a], &m.links[b]
	return (la.poly[0] == lb.poly[0] && la.poly[1] == lb.poly[1]) ||
		(la.poly[0] == lb.poly[1] && la.poly[1] == lb.poly[0])
}

// invert reverses the winding of p, keeping links on the same edges.
func (m *Mesh) invert(p *Poly) {
	s := p.Len()
	pts := append([]math32.Vector3(nil), p.Points...)
	lks := append([]linkRef(nil), p.links...)
	orig := make(map[linkRef][2]int)
	for _, l := range lks {
		if l != 0 {
			orig[l] = m.links[l].edge
		}
	}
	for i := range s {
		p.Points[(s-i)%s] = pts[i]
		p.links[s-i-1] = lks[i]
		l := lks[i]
		if l == 0 {
			continue
		}
		lk := &m.links[l]
		e := orig[l]
		if lk.poly[0] == p.ref && e[0] == i {
			lk.edge[0] = s - i - 1
		} else if lk.poly[1] == p.ref && e[1] == i {
			lk.edge[1] = s - i - 1
		}
	}
}

// merge joins a and b across the link on edge sa of a and edge sb of b.
// The links of both are moved to the new polygon; a and b are left with
// only their shared link.
func (m *Mesh) merge(a, b *Poly, sa, sb int) *Poly {
	n := m.create(a, a.Len()+b.Len()-2)
	for i := 0; i < a.Len()-1; i++ {
		k := (sa + i + 1) % a.Len()
		n.Points[i] = a.Points[k]
		m.changeLink(a.links[k], a, k, n, i)
	}
	for i := 0; i < b.Len()-1; i++ {
		k := (sb + i + 1) % b.Len()
		pi := i + a.Len() - 1
		n.Points[pi] = b.Points[k]
		m.changeLink(b.links[k], b, k, n, pi)
	}
	m.cleanPolygon(n)
	return n
}

// mergeList merges linked polygons of the same type in list. Merged
// polygons are freed and their entries set to nil; results are appended.
func (m *Mesh) mergeList(list []*Poly) []*Poly {
	merges := 0
	for i := 0; i < len(list); i++ {
		if list[i] == nil {
			continue
		}
		for j := i + 1; j < len(list); j++ {
			a, b := list[i], list[j]
			if b == nil || a.Type != b.Type {
				continue
			}
			ea, eb := -1, -1
			for _, l := range a.links {
				if l == 0 {
					continue
				}
				lk := &m.links[l]
				if lk.poly[0] == b.ref && lk.poly[1] == a.ref {
					ea, eb = lk.edge[1], lk.edge[0]
				} else if lk.poly[1] == b.ref && lk.poly[0] == a.ref {
					ea, eb = lk.edge[0], lk.edge[1]
				}
				if ea >= 0 {
					break
				}
			}
			if ea < 0 {
				continue
			}
			merged := m.merge(a, b, ea, eb)
			m.deletePoly(a)
			m.deletePoly(b)
			list[i], list[j] = nil, nil
			list = append(list, merged)
			merges++
			break
		}
	}
	if merges > 0 {
		m.log().Debug("merge", "merges", merges)
	}
	return list
}

// expand appends to list every polygon linked to a polygon of list that
// is not already in it. A mask >= 0 only adds polygons of that type.
func (m *Mesh) expand(list []*Poly, mask int) []*Poly {
	s := len(list)
	for i := range s {
		for e := range list[i].links {
			p := m.LinkedPolygon(list[i], e)
			if p == nil || (mask >= 0 && p.Type != mask) {
				continue
			}
			found := false
			for _, q := range list {
				if q == p {
					found = true
					break
				}
			}
			if !found {
				list = append(list, p)
			}
		}
	}
	return list
}
