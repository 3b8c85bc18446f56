// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"cmp"
	"slices"

	"cogentcore.org/core/math32"
)

// sect is a crossing of the brush boundary p[0] with the boundary of the
// mesh polygon p[1], at parameter u[k] along edge e[k] of p[k].
type sect struct {

	// s holds the side in bit 0: 1 when the walk continues along the
	// polygon, 0 when it continues along the brush. Bits 2 and 3 mark the
	// record as used by the polygon and brush walks of construct.
	s int

	p     [2]*Poly
	e     [2]int
	u     [2]float32
	point math32.Vector3
}

const (
	sectPolygonUsed = 4
	sectBrushUsed   = 8
)

// key returns the position of the crossing along the boundary of p[k].
func (s *sect) key(k int) float32 { return float32(s.e[k]) + s.u[k] }

// getIntersections appends every crossing of brush a with polygon b to list.
func (m *Mesh) getIntersections(a, b *Poly, list []sect) []sect {
	start := len(list)
	list = m.crossings(a, b, list)
	return m.dropBoundaryRuns(a, b, list, start)
}

// dropBoundaryRuns removes the second of two crossings on the same side
// when the brush runs along the boundary of b between them. Of two exits
// the first is kept, of two entries the last.
func (m *Mesh) dropBoundaryRuns(a, b *Poly, list []sect, start int) []sect {
	n := len(list) - start
	if n < 3 {
		return list
	}
	own := make([]int, n)
	for i := range own {
		own[i] = start + i
	}
	slices.SortStableFunc(own, func(i, j int) int {
		return cmp.Compare(list[i].key(0), list[j].key(0))
	})
	drop := make(map[int]bool)
	for k := range n {
		i1, i2 := own[k], own[(k+1)%n]
		s1, s2 := &list[i1], &list[i2]
		if s1.s&1 != s2.s&1 || drop[i1] || drop[i2] {
			continue
		}
		pts := []math32.Vector3{s1.point}
		if e := s1.e[0]; s2.key(0) < s1.key(0) || s2.e[0] != e {
			for e = a.next(e); ; e = a.next(e) {
				pts = append(pts, a.Points[e])
				if e == s2.e[0] {
					break
				}
			}
		}
		pts = append(pts, s2.point)
		onBoundary, moved := true, false
		for q := range len(pts) - 1 {
			if eq(pts[q], pts[q+1]) {
				continue
			}
			moved = true
			if Inside(b, xz(pts[q].Add(pts[q+1]).MulScalar(0.5))) != 2 {
				onBoundary = false
				break
			}
		}
		if !onBoundary || !moved {
			continue
		}
		if s1.s&1 == 0 {
			drop[i2] = true
		} else {
			drop[i1] = true
		}
	}
	if len(drop) == 0 {
		return list
	}
	m.log().Debug("sect boundary run", "poly", b.ID, "dropped", len(drop))
	kept := list[:start]
	for i := start; i < len(list); i++ {
		if !drop[i] {
			kept = append(kept, list[i])
		}
	}
	return kept
}

// crossings appends the raw crossings of a with b to list.
func (m *Mesh) crossings(a, b *Poly, list []sect) []sect {
	an, bn := a.Len(), b.Len()
	ap, bp := a.Points, b.Points
	sc := sect{p: [2]*Poly{a, b}}
	for i, j := an-1, 0; j < an; i, j = j, j+1 {
		for u, v := bn-1, 0; v < bn; u, v = v, v+1 {
			iu, iv := eq(ap[i], bp[u]), eq(ap[i], bp[v])
			ju, jv := eq(ap[j], bp[u]), eq(ap[j], bp[v])

			if iu || iv || ju || jv {
				k, w := (j+1)%an, (v+1)%bn
				ku, iw, kw := eq(ap[k], bp[u]), eq(ap[i], bp[w]), eq(ap[k], bp[w])

				switch {
				case jv && (ku != iw || iu != kw):
					// shared edge, the free edges decide the side
					matched, free := k, i
					if iw || iu {
						matched, free = i, k
					}
					other := w
					if iw || kw {
						other = u
					}
					s0 := xz(ap[matched].Sub(ap[j]))
					s1 := xz(ap[free].Sub(ap[j]))
					s2 := xz(bp[other].Sub(ap[j]))
					v1, v2 := approximateArc(s0, s1), approximateArc(s0, s2)
					if math32.Abs(v1-v2) <= arcEpsilon {
						continue
					}
					sc.e = [2]int{j, v}
					sc.u = [2]float32{}
					sc.point = ap[j]
					sc.s = 0
					if (v1 < v2) != (iu != kw) {
						sc.s = 1
					}
					list = append(list, sc)
					m.log().Debug("sect touch", "brush", j, "poly", v, "side", sc.s)

				case jv && !ku && !iw && !iu && !kw:
					// passing through a shared vertex
					di := xz(ap[i].Sub(ap[j]))
					arck := approximateArc(di, xz(ap[k].Sub(ap[j])))
					arcu := approximateArc(di, xz(bp[u].Sub(ap[j])))
					arcw := approximateArc(di, xz(bp[w].Sub(ap[j])))

					if eqf(arck, arcw) && eqf(arcu, 0) {
						continue
					}
					if eqf(arck, arcu) && eqf(arcw, 0) {
						continue
					}

					switch {
					case math32.Abs(arcw) < arcEpsilon && math32.Abs(arck-arcu) < arcEpsilon:
					case (arck > arcu) != (arck > arcw) || math32.Abs(arck-arcu) < arcEpsilon ||
						math32.Abs(arcw) < arcEpsilon || math32.Abs(arcu) < arcEpsilon:
						sc.e = [2]int{j, v}
						sc.u = [2]float32{}
						sc.point = ap[j]
						if arcu < arcEpsilon {
							sc.s = 1
							if arck < arcw {
								sc.s = 0
							}
						} else {
							sc.s = 0
							if arck <= arcu+arcEpsilon {
								sc.s = 1
							}
						}
						list = append(list, sc)
						m.log().Debug("sect through", "brush", j, "poly", v, "side", sc.s)
					case (arck > arcu && arck > arcw) || (arck < arcu && arck < arcw):
						if isVectorInsidePoint(b, v, ap[i]) {
							sc.point = ap[j]
							sc.e = [2]int{j, v}
							sc.u = [2]float32{}
							sc.s = 0
							list = append(list, sc)
							sc.s = 1
							sc.u = [2]float32{doubleOffset, doubleOffset}
							list = append(list, sc)
							m.log().Debug("sect double", "brush", j, "poly", v)
						}
					}
				}
				continue
			}

			u0, u1, ok := intersectLines(ap[i], ap[j], bp[u], bp[v])
			if !ok {
				continue
			}
			if u0 > 1-snapEpsilon {
				u0 = 1
			}
			if u1 > 1-snapEpsilon {
				u1 = 1
			}
			if u0 < snapEpsilon {
				u0 = 0
			}
			if u1 < snapEpsilon {
				u1 = 0
			}

			// edges on the same line do not cross
			nrm := math32.Vec3(ap[i].Z-ap[j].Z, 0, ap[j].X-ap[i].X).Normal()
			if math32.Abs(nrm.Dot(bp[u].Sub(ap[i]))) < coincidentEpsilon &&
				math32.Abs(nrm.Dot(bp[v].Sub(ap[i]))) < coincidentEpsilon {
				continue
			}

			bd := bp[v].Sub(bp[u])
			sc.point = bp[u].Add(bd.MulScalar(u1))
			sc.e = [2]int{i, u}

			ae := ap[j]
			if u0 >= 1 {
				ae = ap[(j+1)%an]
			}
			be := bp[v]
			if u1 >= 1 {
				be = bp[(v+1)%bn]
				bd = be.Sub(bp[v])
			}
			bn2 := math32.Vec2(bd.Z, -bd.X)
			sc.s = 0
			if dotXZ(ae.Sub(be), bn2) <= 0 {
				sc.s = 1
			}

			d := ae.Sub(be)
			d.Y = 0
			if dot := dotXZ(d.Normal(), bn2.Normal()); eqf(dot, 0) {
				// parallel continuation, take the side from the other edge
				var dd float32
				if u0 == 1 {
					dd = dotXZ(ap[j].Sub(ap[i]), bn2)
				} else {
					if u1 != 1 {
						m.log().Debug("sect coincident", "brush", i, "poly", u)
					}
					dd = dot2d(nrm, bd)
				}
				sc.s = 0
				if dd < 0 {
					sc.s = 1
				}
			}

			if u1 == 1 && math32.Abs(nrm.Dot(be.Sub(bp[v]))) < coincidentEpsilon && nrm.Dot(bp[u].Sub(bp[v])) > 0 {
				continue
			}
			if u1 == 0 && math32.Abs(nrm.Dot(bp[u].Sub(bp[b.prev(u)]))) < coincidentEpsilon && nrm.Dot(bp[v].Sub(bp[u])) > 0 {
				continue
			}

			if u0 == 1 {
				u0 = 0
				sc.e[0] = j
			}
			if u1 == 1 {
				u1 = 0
				sc.e[1] = v
			}

			// keep all crossings of one brush edge numerically consistent
			for k := range list {
				if list[k].e[0] == sc.e[0] && math32.Abs(list[k].u[0]-u0) < reuseEpsilon {
					u0 = list[k].u[0]
				}
			}
			sc.u = [2]float32{u0, u1}

			// a vertex touching the other boundary without crossing it
			if u1 == 0 && u0 > 0 {
				w := sc.e[1]
				s1 := fsign(nrm.Dot(bp[b.prev(w)].Sub(ap[i])), coincidentEpsilon)
				s2 := fsign(nrm.Dot(bp[b.next(w)].Sub(ap[i])), coincidentEpsilon)
				if s1 != 0 && s1 == s2 {
					continue
				}
			}
			if u0 == 0 && u1 > 0 {
				w := sc.e[0]
				n := math32.Vec3(bd.Z, 0, -bd.X)
				if n.Dot(ap[a.prev(w)].Sub(bp[u])) > 0 && n.Dot(ap[a.next(w)].Sub(bp[u])) > 0 {
					continue
				}
			}
			// a brush edge crosses a corner once, whichever edge it hits
			dup := false
			for k := range list {
				o := &list[k]
				if o.p[1] != sc.p[1] || o.s != sc.s {
					continue
				}
				if (u0 == 0 && o.u[0] == 0 && o.e[0] == sc.e[0]) || (u1 == 0 && o.u[1] == 0 && o.e[1] == sc.e[1]) ||
					(o.e[0] == sc.e[0] && o.u[0] == u0 && eq(o.point, sc.point)) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}

			// a brush vertex poking through the edge needs an exit as well
			if u0 == 0 && sc.s == 1 {
				n := math32.Vec3(bd.Z, 0, -bd.X)
				e := sc.e[0]
				if n.Dot(ap[a.prev(e)].Sub(be)) < 0 && n.Dot(ap[a.next(e)].Sub(be)) < 0 {
					spike := sc
					spike.s = 0
					spike.e[0] = a.prev(e)
					spike.u[0] = 1 - doubleOffset
					spike.u[1] -= doubleOffset
					list = append(list, spike)
					m.log().Debug("sect double", "brush", i, "poly", u)
				}
			}

			list = append(list, sc)
			m.log().Debug("sect edge", "brush", i, "poly", u, "side", sc.s)
		}
	}
	return list
}

// sortSects orders crossings by their position along the brush, with
// brush side crossings first at equal positions.
func sortSects(list []sect) {
	slices.SortStableFunc(list, func(a, b sect) int {
		fa, fb := a.key(0), b.key(0)
		switch {
		case fa < fb-Epsilon:
			return -1
		case fa > fb+Epsilon:
			return 1
		}
		return cmp.Compare(a.s, b.s)
	})
}

// collect returns the mesh polygons affected by the brush: those crossing,
// containing or contained by it, plus polygons that only touch it and are
// linked to a collected polygon.
func (m *Mesh) collect(brush *Poly) []*Poly {
	bb := brush.Bounds()
	c := bb.Center()
	ext := c.Sub(bb.Min).AddScalar(collectMargin)
	var list, touching []*Poly
	for _, p := range m.mesh {
		d := p.Centre.Sub(c)
		if math32.Abs(d.X) > ext.X+p.Extents.X || math32.Abs(d.Y) > ext.Y+p.Extents.Y || math32.Abs(d.Z) > ext.Z+p.Extents.Z {
			continue
		}
		switch Intersect(p, brush) {
		case Disjoint:
		case TouchesOnly:
			// vertices of both may lie on a diagonal of the other
			if sharesInterior(p, brush) {
				list = append(list, p)
				break
			}
			touching = append(touching, p)
		default:
			list = append(list, p)
		}
	}

	for added := true; added && len(touching) > 0; {
		added = false
		for i, t := range touching {
			if t == nil {
				continue
			}
			for _, p := range list {
				if m.isConnected(t, p) {
					list = append(list, t)
					touching[i] = nil
					added = true
					break
				}
			}
		}
	}
	m.log().Debug("collect", "polys", len(list))
	return list
}
