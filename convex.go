// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"slices"

	"cogentcore.org/core/math32"
)

// split is a candidate chord between vertices a and b of a polygon.
// Larger f means the chord fixes more concave vertices; f == 0 rejects it.
type split struct {
	a, b int
	f    int
	d    float32
}

// splitSide encodes a chord walked from a to b (splitA) or b to a (splitB)
// in the vertex stream of the face walk.
const (
	splitMask = 0xfffff
	splitA    = 1 << 20
	splitB    = 2 << 20
)

// splitLink records the polygons built on each side of a chord.
type splitLink struct {
	poly [2]*Poly
	edge [2]int
	done [2]bool
}

// makeConvexPoly splits the concave polygon p into linked convex polygons
// appended to out. The links of p are moved onto the new polygons.
func (m *Mesh) makeConvexPoly(p *Poly, out []*Poly) []*Poly {
	n := p.Len()
	concave := make([]bool, n)
	concaveCount := 0
	for i := range n {
		concave[i] = !isConvexPoint(p, i)
		if concave[i] {
			concaveCount++
		}
	}

	// same maps each vertex to a coincident vertex, or -2
	same := make([]int, n)
	for i := range same {
		same[i] = -2
	}
	for i := range n {
		for j := i + 2; j < n; j++ {
			if eq(p.Points[i], p.Points[j]) {
				same[i], same[j] = j, i
			}
		}
	}

	weigh := func(i, j int) split {
		s := split{a: i, b: j}
		for _, v := range [2][2]int{{i, j}, {j, i}} {
			if !concave[v[0]] {
				continue
			}
			sa := Side(p.Points[p.prev(v[0])], p.Points[v[0]], p.Points[v[1]])
			sb := Side(p.Points[p.next(v[0])], p.Points[v[0]], p.Points[v[1]])
			if sa < 0 && sb > 0 {
				s.f += 3
			} else {
				s.f += 2
			}
		}
		s.d = p.Points[i].DistanceToSquared(p.Points[j])
		return s
	}

	abs := func(x int) int {
		if x < 0 {
			return -x
		}
		return x
	}
	var splits []split
	for i := range n {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			switch {
			case eq(p.Points[i], p.Points[j]):
				if !concave[i] && !concave[j] {
					continue
				}
				if !isVectorInsidePoint(p, i, p.Points[p.next(j)]) || !isVectorInsidePoint(p, j, p.Points[p.next(i)]) {
					continue
				}
				splits = append(splits, split{a: i, b: j, f: 5})
			case abs(i-same[j]) == 1 || abs(same[i]-j) == 1 || abs(same[i]-same[j]) == 1:
				// would leave a two point polygon
			case (concave[i] || concave[j]) && testSplit(p, i, j) == lineInside:
				splits = append(splits, weigh(i, j))
			}
		}
	}
	slices.SortStableFunc(splits, func(a, b split) int {
		switch {
		case a.f > b.f || (a.f == b.f && a.d < b.d):
			return -1
		case a.f == b.f && a.d == b.d:
			return 0
		}
		return 1
	})

	// accept chords greedily until no concave vertex is left
	truncate := len(splits)
	for i := 0; i < truncate; i++ {
		sp := &splits[i]
		if !concave[sp.a] && !concave[sp.b] {
			sp.f = 0
			continue
		}

		if sp.d == 0 {
			for k := range splits {
				if splits[k].d > 0 && (splits[k].a == sp.b || splits[k].b == sp.b) {
					splits[k].f = 0
				}
			}
			c := p.Points[sp.a]
			if Side(p.Points[p.prev(sp.a)], p.Points[p.next(sp.b)], c) > 0 &&
				Side(p.Points[p.prev(sp.b)], p.Points[p.next(sp.a)], c) > 0 {
				concave[sp.a], concave[sp.b] = false, false
			}
			continue
		}

		for j := 0; j < i; j++ {
			if splits[j].f == 0 {
				continue
			}
			s, t, ok := intersectLines(p.Points[sp.a], p.Points[sp.b], p.Points[splits[j].a], p.Points[splits[j].b])
			if ok && ((s > 0 && s < 1) || (t > 0 && t < 1)) {
				sp.f = 0
				break
			}
		}
		if sp.f == 0 {
			continue
		}

		// a vertex becomes convex once the chords at it cover both
		// boundary half planes
		for _, ix := range [2]int{sp.a, sp.b} {
			if !concave[ix] {
				continue
			}
			c := p.Points[ix]
			pa, pb := p.Points[p.prev(ix)], p.Points[p.next(ix)]
			na := math32.Vec3(pa.Z-c.Z, 0, c.X-pa.X)
			nb := math32.Vec3(c.Z-pb.Z, 0, pb.X-c.X)
			for j := 0; j <= i; j++ {
				sj := splits[j]
				if sj.f == 0 || (sj.a != ix && sj.b != ix) {
					continue
				}
				o := sj.a
				if sj.a == ix {
					o = sj.b
				}
				d := p.Points[o].Sub(c)
				good := 0
				if d.Dot(na) > 0 {
					good |= 1
				}
				if d.Dot(nb) > 0 {
					good |= 2
				}
				switch good {
				case 1:
					na = math32.Vec3(d.Z, 0, -d.X)
				case 2:
					nb = math32.Vec3(-d.Z, 0, d.X)
				case 3:
					concave[ix] = false
					concaveCount--
					if concaveCount == 0 {
						truncate = i + 1
					}
					j = i
				}
			}
		}
	}

	// walk the faces of the planar graph made by the boundary and chords
	links := make([]splitLink, truncate)
	var tmp []int
	built := 0
	for i := 0; i < truncate; i++ {
		if splits[i].f == 0 {
			continue
		}
		for _, start := range [2]int{i | splitA, i | splitB} {
			if links[start&splitMask].done[start>>21] {
				continue
			}
			tmp = append(tmp[:0], start)
			end := splits[i].b
			if start&splitA != 0 {
				end = splits[i].a
			}
			for {
				e := tmp[len(tmp)-1]
				var k int
				ignore := -1
				switch {
				case e&splitA != 0:
					k = splits[e&splitMask].b
					ignore = e & splitMask
				case e&splitB != 0:
					k = splits[e&splitMask].a
					ignore = e & splitMask
				default:
					k = (e + 1) % n
				}
				if k == end {
					break
				}
				next, nextIndex := k, k
				for j := range truncate {
					s := splits[j]
					if j == ignore || s.f == 0 || (s.a != k && s.b != k) {
						continue
					}
					o, dir := s.a, splitB
					if s.a == k {
						o, dir = s.b, splitA
					}
					if (nextIndex < end && o > nextIndex && o <= end) || (nextIndex > end && (o > nextIndex || o <= end)) {
						next = j | dir
						nextIndex = o
					}
				}
				if next >= splitA && links[next&splitMask].done[next>>21] {
					break
				}
				if len(tmp) >= n {
					m.log().Error("non-convex split", "poly", p.ID, "reason", "face walk did not close")
					break
				}
				tmp = append(tmp, next)
			}

			skip := 0
			for _, e := range tmp {
				if e >= splitA && splits[e&splitMask].d == 0 {
					skip++
				}
			}
			if len(tmp)-skip < 3 {
				continue
			}

			np := m.create(p, len(tmp)-skip)
			ix := 0
			for _, e := range tmp {
				if e < splitA {
					np.Points[ix] = p.Points[e]
					if l := p.links[e]; l != 0 {
						m.changeLink(l, p, e, np, ix)
					}
					ix++
					continue
				}
				side := e >> 21
				s := e & splitMask
				links[s].done[side] = true
				if splits[s].d == 0 {
					continue
				}
				if e&splitA != 0 {
					np.Points[ix] = p.Points[splits[s].a]
				} else {
					np.Points[ix] = p.Points[splits[s].b]
				}
				links[s].poly[side] = np
				links[s].edge[side] = ix
				if o := links[s].poly[side^1]; o != nil {
					m.createLink(np, ix, o, links[s].edge[side^1])
				}
				ix++
			}
			if !IsConvex(np) {
				m.log().Error("non-convex split", "poly", p.ID, "points", np.Len())
			}
			out = append(out, np)
			built++
		}
	}
	if built == 0 {
		m.log().Warn("non-convex split", "poly", p.ID, "reason", "no valid chord")
	}
	return out
}

// makeConvex replaces every concave polygon in list by its convex pieces.
// A polygon for which no chord can be found is kept as it is.
func (m *Mesh) makeConvex(list []*Poly) []*Poly {
	s := len(list)
	for i := range s {
		p := list[i]
		if p == nil || p.Len() < 4 || IsConvex(p) {
			continue
		}
		m.pinchPoints(p)
		before := len(list)
		list = m.makeConvexPoly(p, list)
		if len(list) == before {
			continue
		}
		m.deletePoly(p)
		list[i] = nil
		// a ring pinched against itself leaves the two sides of the
		// seam on different pieces
		m.stitch(list[before:])
	}
	return list
}
