// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/lab/base/randx"
	"cogentcore.org/navmesh/collide"
)

// IsInsidePolygon returns whether point is inside p or on its boundary in
// the X/Z plane. A nil polygon contains nothing.
func IsInsidePolygon(point math32.Vector3, p *Poly) bool {
	if p == nil {
		return false
	}
	return Inside(p, xz(point)) != 0
}

// PolygonAt returns the polygon containing point. When polygons on several
// levels contain it, the one whose centre is closest in height wins.
func (m *Mesh) PolygonAt(point math32.Vector3) *Poly {
	vertical := float32(math32.Infinity)
	var result *Poly
	for _, p := range m.mesh {
		if !IsInsidePolygon(point, p) {
			continue
		}
		if p.Centre.Y == point.Y {
			return p
		}
		if d := math32.Abs(p.Centre.Y - point.Y); d < vertical {
			result, vertical = p, d
		}
	}
	return result
}

// PolygonIDAt returns the id of the polygon containing point, or [InvalidID].
func (m *Mesh) PolygonIDAt(point math32.Vector3) uint32 {
	if p := m.PolygonAt(point); p != nil {
		return p.ID
	}
	return InvalidID
}

// ClosestPolygon returns the polygon closest to point within distance maxDist,
// and the closest point on it. A polygon containing point in X/Z wins as
// soon as point is within its height range. maxDist <= 0 means no limit.
func (m *Mesh) ClosestPolygon(point math32.Vector3, maxDist float32) (*Poly, math32.Vector3) {
	limit := float32(math32.Infinity)
	if maxDist > 0 {
		limit = maxDist * maxDist
	}
	var result *Poly
	closest := point
	for _, p := range m.mesh {
		if IsInsidePolygon(point, p) {
			d := math32.Abs(point.Y-p.Centre.Y) - p.Extents.Y
			if d <= 0 {
				return p, point
			}
			if d *= d; d < limit {
				result, closest, limit = p, point, d
			}
			continue
		}
		// only boundary edges can be closest for a point outside
		for e := range m.Edges(p) {
			if e.Linked() {
				continue
			}
			c := collide.ClosestPointOnSegment(point, e.PointA(), e.PointB())
			if d := point.DistanceToSquared(c); d < limit {
				result, closest, limit = p, c, d
			}
		}
	}
	return result, closest
}

// Boundary is a point on an unlinked edge of the mesh.
type Boundary struct {
	Point  math32.Vector3
	PolyID uint32
	Edge   int
}

// ClosestBoundary returns the closest point to point on a mesh boundary
// within radius, searching outwards through linked polygons from polygon
// id, or from the polygon containing point when id is [InvalidID].
// Distances are measured in the X/Z plane.
func (m *Mesh) ClosestBoundary(point math32.Vector3, id uint32, radius float32) (Boundary, bool) {
	var p *Poly
	if id == InvalidID {
		p = m.PolygonAt(point)
	} else {
		p = m.Polygon(id)
	}
	if p == nil {
		return Boundary{}, false
	}

	var result Boundary
	found := false
	limit := radius * radius
	queue := []*Poly{p}
	seen := map[*Poly]bool{p: true}
	for i := 0; i < len(queue); i++ {
		p = queue[i]
		for e := range m.Edges(p) {
			a, b := e.PointA(), e.PointB()
			a.Y, b.Y = point.Y, point.Y
			c := collide.ClosestPointOnSegment(point, a, b)
			d := point.DistanceToSquared(c)
			if d >= limit {
				continue
			}
			if o := e.Connected(); o != nil {
				if !seen[o] {
					seen[o] = true
					queue = append(queue, o)
				}
				continue
			}
			t := float32(0)
			if dir := b.Sub(a); dir.Dot(dir) > 0 {
				t = dir.Dot(c.Sub(a)) / dir.Dot(dir)
			}
			result = Boundary{Point: e.PointA().Add(e.Direction().MulScalar(t)), PolyID: p.ID, Edge: e.A}
			found = true
			limit = d
		}
	}
	return result, found
}

// RandomPolygon returns a random polygon of the mesh, with a probability
// proportional to its area times weight(p). A nil weight weighs every
// polygon 1; polygons weighted 0 are never returned. It returns nil when
// no polygon has any weight.
func (m *Mesh) RandomPolygon(rnd randx.Rand, weight func(p *Poly) float32) *Poly {
	ps := make([]float32, len(m.mesh))
	var total float32
	for i, p := range m.mesh {
		w := p.Area()
		if weight != nil {
			w *= weight(p)
		}
		if w > 0 {
			ps[i] = w
			total += w
		}
	}
	if total <= 0 {
		return nil
	}
	for i := range ps {
		ps[i] /= total
	}
	i := randx.PChoose32(ps, rnd)
	for ps[i] == 0 {
		i--
	}
	return m.mesh[i]
}

// RandomPoint returns a point uniformly distributed over the area of the
// convex polygon p.
func RandomPoint(rnd randx.Rand, p *Poly) math32.Vector3 {
	n := p.Len()
	if n < 3 {
		if n == 0 {
			return p.Centre
		}
		return p.Points[0]
	}
	ps := make([]float32, n-2)
	var total float32
	for i := range ps {
		ps[i] = collide.Area(p.Points[0], p.Points[i+1], p.Points[i+2])
		total += ps[i]
	}
	if total <= 0 {
		return p.Points[0]
	}
	for i := range ps {
		ps[i] /= total
	}
	t := randx.PChoose32(ps, rnd)
	a, b, c := p.Points[0], p.Points[t+1], p.Points[t+2]

	u, v := rnd.Float32(), rnd.Float32()
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	return a.Add(b.Sub(a).MulScalar(u)).Add(c.Sub(a).MulScalar(v))
}

// Pick returns the polygon first hit by the ray from origin along dir and
// the distance to the hit.
func (m *Mesh) Pick(origin, dir math32.Vector3) (*Poly, float32, bool) {
	dir = dir.Normal()
	var result *Poly
	best := float32(math32.Infinity)
	for _, p := range m.mesh {
		if p.Len() < 3 {
			continue
		}
		if t, hit := collide.RaySphere(origin, dir, p.Centre, p.Extents.Length()+Epsilon); !hit || t > best {
			continue
		}
		for i := 1; i+1 < p.Len(); i++ {
			t, hit := collide.RayTriangle(origin, dir, p.Points[0], p.Points[i], p.Points[i+1])
			if hit && t >= 0 && t < best {
				result, best = p, t
			}
		}
	}
	return result, best, result != nil
}
