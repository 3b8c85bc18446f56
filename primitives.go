// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh/collide"
)

// Results of testLine and testSplit.
const (
	lineInside = 1 + iota
	lineOutside
	lineIntersects
)

// Relationship of two polygons, as returned by [Intersect].
const (
	Disjoint    = 0 // no contact
	Crossing    = 1 // edges cross
	BInsideA    = 2 // b is inside a
	AInsideB    = 3 // a is inside b
	SharedEdge  = 4 // an edge is shared, the polygons are already joined
	TouchesOnly = 5 // contact at a spike or vertex only
)

func xz(v math32.Vector3) math32.Vector2 { return math32.Vec2(v.X, v.Z) }

func dot2d(a, b math32.Vector3) float32 { return a.X*b.X + a.Z*b.Z }

// dotXZ is the dot product of the X/Z part of a with the 2-D vector b.
func dotXZ(a math32.Vector3, b math32.Vector2) float32 { return a.X*b.X + a.Z*b.Y }

func eqf(a, b float32) bool { return math32.Abs(a-b) < Epsilon }

// eq reports whether two points are the same within [Epsilon].
func eq(a, b math32.Vector3) bool { return a.DistanceToSquared(b) < Epsilon }

// eqStacked is eq in X/Z with a separate vertical tolerance h.
func eqStacked(a, b math32.Vector3, h float32) bool {
	return math32.Abs(a.X-b.X) < Epsilon && math32.Abs(a.Z-b.Z) < Epsilon && math32.Abs(a.Y-b.Y) < h
}

// fsign returns the sign of x, or 0 when |x| < eps.
func fsign(x, eps float32) int {
	switch {
	case x < -eps:
		return -1
	case x > eps:
		return 1
	}
	return 0
}

// Side returns which side of the line a->b the point p is on, in the X/Z
// plane: -1, 1, or 0 when exactly on the line.
func Side(a, b, p math32.Vector3) int {
	n := math32.Vec2(b.Z-a.Z, a.X-b.X)
	d := dotXZ(p.Sub(a), n)
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// IsConvex returns whether every vertex of p is convex or straight.
func IsConvex(p *Poly) bool {
	n := p.Len()
	for i, j, k := n-2, n-1, 0; k < n; i, j, k = j, k, k+1 {
		if Side(p.Points[i], p.Points[k], p.Points[j]) < 0 {
			return false
		}
	}
	return true
}

// isConvexPoint returns whether vertex e of p is strictly convex.
func isConvexPoint(p *Poly, e int) bool {
	return Side(p.Points[p.prev(e)], p.Points[p.next(e)], p.Points[e]) > 0
}

// Inverted returns whether p is wound as a hole.
func Inverted(p *Poly) bool {
	var sum float32
	shift := p.Points[0].Z * 2
	n := p.Len()
	for j, i := n-1, 0; i < n; j, i = i, i+1 {
		sum += (p.Points[i].X - p.Points[j].X) * (p.Points[i].Z + p.Points[j].Z - shift)
	}
	return sum > 0
}

// Inside tests the X/Z point against p, which may be concave. It returns
// 0 outside, 1 inside and 2 when the point is on the boundary.
func Inside(p *Poly, point math32.Vector2) int {
	dir := math32.Vec2(3, 5)
	q := point.Add(dir)
	// a vertex on the ray belongs to the side right of it
	right := func(a math32.Vector2) bool {
		a = a.Sub(point)
		return dir.X*a.Y-dir.Y*a.X > 0
	}
	count := 0
	n := p.Len()
	for i, j := n-1, 0; j < n; i, j = j, j+1 {
		a, b := xz(p.Points[i]), xz(p.Points[j])
		u, v, ok := collide.LineParams(point, q, a, b)
		if !ok {
			continue
		}
		if v >= 0 && v <= 1 && math32.Abs(u) < Epsilon {
			return 2
		}
		if u > 0 && right(a) != right(b) {
			count++
		}
	}
	return count & 1
}

// InsideConvex tests the X/Z point against the convex polygon p with a
// binary search over the fan from the first vertex.
func InsideConvex(p *Poly, point math32.Vector2) bool {
	vx := p.Points
	a, b := 1, p.Len()-1
	rel := point.Sub(xz(vx[0]))
	for a+1 < b {
		c := (a + b) / 2
		n := math32.Vec2(vx[c].Z-vx[0].Z, vx[0].X-vx[c].X)
		if n.Dot(rel) < 0 {
			a = c
		} else {
			b = c
		}
	}
	n := math32.Vec2(vx[a].Z-vx[b].Z, vx[b].X-vx[a].X)
	if n.Dot(point.Sub(xz(vx[a]))) < 0 {
		return false
	}
	if a == 1 {
		n = math32.Vec2(vx[0].Z-vx[a].Z, vx[a].X-vx[0].X)
		if n.Dot(point.Sub(xz(vx[a]))) < 0 {
			return false
		}
	}
	if b == p.Len()-1 {
		n = math32.Vec2(vx[b].Z-vx[0].Z, vx[0].X-vx[b].X)
		if n.Dot(point.Sub(xz(vx[0]))) < 0 {
			return false
		}
	}
	return true
}

// Intersect classifies how polygons a and b relate. See [Crossing] and
// the other relationship constants.
func Intersect(a, b *Poly) int {
	bn := b.Len()
	checkSpike := func(t float32, i, j, u, v int) bool {
		if t >= spikeLow && t <= spikeHigh {
			return false
		}
		var tu, tv, tw int
		if t > 0.5 {
			tu, tv, tw = u, v, (v+1)%bn
		} else {
			tu, tv, tw = (u-1+bn)%bn, u, v
		}
		n := math32.Vec2(a.Points[j].Z-a.Points[i].Z, a.Points[i].X-a.Points[j].X)
		su := fsign(dotXZ(b.Points[tu].Sub(b.Points[tv]), n), spikeSign)
		sw := fsign(dotXZ(b.Points[tw].Sub(b.Points[tv]), n), spikeSign)
		return su == sw
	}

	touch := false
	an := a.Len()
	for i, j := an-1, 0; j < an; i, j = j, j+1 {
		for u, v := bn-1, 0; v < bn; u, v = v, v+1 {
			eiv := eqStacked(a.Points[i], b.Points[v], stackHeight)
			eju := eqStacked(a.Points[j], b.Points[u], stackHeight)
			if eiv && eju {
				return SharedEdge
			}
			if eiv || eju {
				touch = true
			}
			s, t, ok := intersectLines(a.Points[i], a.Points[j], b.Points[u], b.Points[v])
			if !ok {
				continue
			}
			if s > 0 && s < 1 && t > 0 && t < 1 {
				if !checkSpike(t, i, j, u, v) {
					return Crossing
				}
				touch = true
			}
			if (s <= 0 || s >= 1) && t > spikeLow && t < spikeHigh {
				if !checkSpike(s, i, j, u, v) {
					return Crossing
				}
				touch = true
			}
			if (t <= 0 || t >= 1) && s > spikeLow && s < spikeHigh {
				if !checkSpike(t, i, j, u, v) {
					return Crossing
				}
				touch = true
			}
		}
	}
	if Inside(a, xz(b.Points[0].Add(b.Points[1])).MulScalar(0.5)) != 0 {
		return BInsideA
	}
	if Inside(b, xz(a.Points[0].Add(a.Points[1])).MulScalar(0.5)) != 0 {
		return AInsideB
	}
	if touch {
		return TouchesOnly
	}
	return Disjoint
}

// UpdateCentre computes the area centroid of p in X/Z, the mean height of
// its points, and the half extents of its bounds around that centre.
func UpdateCentre(p *Poly) {
	n := p.Len()
	if n == 0 {
		p.Centre, p.Extents = math32.Vector3{}, math32.Vector3{}
		return
	}
	var c, mean math32.Vector3
	var det float32
	for i, j := n-1, 0; j < n; i, j = j, j+1 {
		a, b := p.Points[i], p.Points[j]
		w := a.X*b.Z - a.Z*b.X
		c.X += (a.X + b.X) * w
		c.Z += (a.Z + b.Z) * w
		det += w
		mean = mean.Add(b)
	}
	mean = mean.DivScalar(float32(n))
	if math32.Abs(det) > Epsilon {
		p.Centre = math32.Vec3(c.X/(3*det), mean.Y, c.Z/(3*det))
	} else {
		p.Centre = mean
	}
	p.Extents = math32.Vector3{}
	for _, pt := range p.Points {
		e := pt.Sub(p.Centre)
		p.Extents.X = math32.Max(p.Extents.X, math32.Abs(e.X))
		p.Extents.Y = math32.Max(p.Extents.Y, math32.Abs(e.Y))
		p.Extents.Z = math32.Max(p.Extents.Z, math32.Abs(e.Z))
	}
}

// intersectLines intersects segments a0-a1 and b0-b1 in X/Z, returning the
// parameters along each. Shared end points give exact 0/1 parameters and
// coincident segments do not intersect.
func intersectLines(a0, a1, b0, b1 math32.Vector3) (u, v float32, ok bool) {
	switch {
	case (a0 == b0 && a1 == b1) || (a0 == b1 && a1 == b0):
		return 0, 0, false
	case a0 == b0:
		return 0, 0, true
	case a1 == b1:
		return 1, 1, true
	case a0 == b1:
		return 0, 1, true
	case a1 == b0:
		return 1, 0, true
	}
	ad := math32.Vec2(a1.X-a0.X, a1.Z-a0.Z)
	bd := math32.Vec2(b1.X-b0.X, b1.Z-b0.Z)
	d := ad.X*bd.Y - ad.Y*bd.X
	if math32.Abs(d) < parallelEpsilon {
		return 0, 0, false
	}
	u = (bd.Y*(a0.X-b0.X) - bd.X*(a0.Z-b0.Z)) / -d
	v = (ad.Y*(b0.X-a0.X) - ad.X*(b0.Z-a0.Z)) / d
	ok = u >= -rangeEpsilon && u <= 1+rangeEpsilon && v >= -rangeEpsilon && v <= 1+rangeEpsilon
	return u, v, ok
}

// approximateArc returns the angle from d1 to d2 in [0, 2π), with values
// just below zero folded to zero.
func approximateArc(d1, d2 math32.Vector2) float32 {
	a := d1.Dot(d2)
	b := d1.X*d2.Y - d1.Y*d2.X
	v := math32.Atan2(b, a)
	if v < -arcEpsilon {
		v += 2 * math32.Pi
	}
	return v
}

// testLine classifies a candidate edge a-b against p, where a is a vertex
// of p: it crosses an edge of p, or leaves vertex a inside or outside p.
func testLine(p *Poly, a, b math32.Vector3) int {
	r := 0
	n := p.Len()
	for i, j := n-1, 0; j < n; i, j = j, j+1 {
		u, v, ok := intersectLines(p.Points[i], p.Points[j], a, b)
		if !ok {
			continue
		}
		if v > Epsilon && v < 1-Epsilon {
			return lineIntersects
		}
		if v < Epsilon && u > 1-Epsilon {
			k := (j + 1) % n
			convex := Side(p.Points[i], p.Points[k], p.Points[j]) >= 0
			sa := Side(p.Points[i], p.Points[j], b) > 0
			sb := Side(p.Points[j], p.Points[k], b) > 0
			if (convex && (sa || sb)) || (!convex && sa && sb) {
				r = lineOutside
			} else {
				r = lineInside
			}
		}
	}
	return r
}

// isVectorInsidePoint returns whether the direction from vertex b of p
// towards target points into the interior angle at b.
func isVectorInsidePoint(p *Poly, b int, target math32.Vector3) bool {
	a, c := p.prev(b), p.next(b)
	convex := Side(p.Points[a], p.Points[c], p.Points[b]) > 0
	sa := Side(p.Points[a], p.Points[b], target) < 0
	sb := Side(p.Points[b], p.Points[c], target) < 0
	return (convex && sa && sb) || (!convex && (sa || sb))
}

// testSplit classifies the chord between vertices a and b of p.
func testSplit(p *Poly, a, b int) int {
	if !isVectorInsidePoint(p, a, p.Points[b]) || !isVectorInsidePoint(p, b, p.Points[a]) {
		return lineOutside
	}
	if IsConvex(p) {
		return lineInside
	}
	n := p.Len()
	for i, j := n-1, 0; j < n; i, j = j, j+1 {
		if i == a || i == b || j == a || j == b {
			continue
		}
		if u, v, ok := intersectLines(p.Points[i], p.Points[j], p.Points[a], p.Points[b]); ok && u > 0 && u < 1 && v > 0 && v < 1 {
			return lineIntersects
		}
	}
	// a chord between touching rings can pass through a hole without
	// crossing an edge
	if Inside(p, xz(p.Points[a].Add(p.Points[b]).MulScalar(0.5))) == 0 {
		return lineOutside
	}
	return lineInside
}
