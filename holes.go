// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import "cogentcore.org/core/math32"

// drill cuts b out of a as a keyhole: the result runs around a, crosses to
// b along the shortest chord that stays inside a and outside b, runs around
// b backwards and returns along the same chord. The two chord edges are
// linked to each other. When connect is set the edges of b are linked to
// the hole edges of the result. The links of a move to the result.
func (m *Mesh) drill(a, b *Poly, connect bool) *Poly {
	as, bs := 0, 0
	best := float32(math32.Infinity)
	for i := range a.Points {
		for j := range b.Points {
			d := a.Points[i].DistanceToSquared(b.Points[j])
			if d < best && testLine(a, a.Points[i], b.Points[j]) == lineInside &&
				testLine(b, b.Points[j], a.Points[i]) == lineOutside {
				best = d
				as, bs = i, j
			}
		}
	}
	if best == math32.Infinity {
		m.log().Warn("drill", "poly", a.ID, "reason", "no clear chord")
	}

	an, bn := a.Len(), b.Len()
	n := m.create(a, an+bn+2)
	for i := 0; i <= an; i++ {
		k := (as + i) % an
		n.Points[i] = a.Points[k]
		if i < an {
			m.changeLink(a.links[k], a, k, n, i)
		}
	}
	p := an + 1
	for i := 0; i <= bn; i++ {
		k := (bs - i + bn) % bn
		n.Points[i+p] = b.Points[k]
		if connect && i < bn {
			bi := (k + bn - 1) % bn
			m.deleteLink(b.links[bi])
			m.createLink(n, i+p, b, bi)
		}
	}
	m.createLink(n, an, n, n.Len()-1)
	m.cleanPolygon(n)
	m.log().Debug("drill", "poly", a.ID, "points", n.Len())
	return n
}

// joinHoles merges the inverted hole polygons of list into the parent
// polygon that is the last entry, bridging each pair with a linked seam.
// Consumed polygons are freed and set to nil in list. It returns the
// joined polygon, or nil if some hole could not be bridged.
func (m *Mesh) joinHoles(list []*Poly) ([]*Poly, *Poly) {
	for count := len(list) - 1; count > 0; count-- {
		pa, pb, ea, eb := -1, -1, 0, 0
		best := float32(math32.Infinity)
		for i := range list {
			if list[i] == nil {
				continue
			}
			for j := i + 1; j < len(list); j++ {
				if list[j] == nil {
					continue
				}
				for a, va := range list[i].Points {
					for b, vb := range list[j].Points {
						d := va.DistanceToSquared(vb)
						if d < best && testLine(list[i], va, vb) == lineInside && testLine(list[j], vb, va) == lineInside {
							pa, pb, ea, eb = i, j, a, b
							best = d
						}
					}
				}
			}
		}
		if pa < 0 {
			m.log().Warn("hole join failed", "holes", count)
			return list, nil
		}

		a, b := list[pa], list[pb]
		an, bn := a.Len(), b.Len()
		n := m.create(a, an+bn+2)
		for i := 0; i <= an; i++ {
			k := (ea + i) % an
			n.Points[i] = a.Points[k]
			if i < an {
				m.changeLink(a.links[k], a, k, n, i)
			}
		}
		s := an + 1
		for i := 0; i <= bn; i++ {
			k := (eb + i) % bn
			n.Points[i+s] = b.Points[k]
			if i < bn {
				m.changeLink(b.links[k], b, k, n, i+s)
			}
		}
		m.createLink(n, an, n, n.Len()-1)

		list = append(list, n)
		m.validateAll(list, true)
		m.deletePoly(a)
		m.deletePoly(b)
		list[pa], list[pb] = nil, nil
	}
	return list, list[len(list)-1]
}
