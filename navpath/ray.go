// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh"
	"cogentcore.org/navmesh/collide"
)

// startPolygon returns polygon id if it contains point, and otherwise the
// polygon containing point.
func (pf *Pathfinder) startPolygon(point math32.Vector3, id uint32) *navmesh.Poly {
	if id != navmesh.InvalidID {
		if p := pf.mesh.Polygon(id); navmesh.IsInsidePolygon(point, p) {
			return p
		}
	}
	return pf.mesh.PolygonAt(point)
}

// walk follows the segment start-end through the mesh from polygon p. It
// returns the polygon containing end, or the last polygon reached and the
// edge that blocked the segment, which is unlinked or leads to a polygon
// excluded by the filter.
func (pf *Pathfinder) walk(p *navmesh.Poly, start, end math32.Vector3, f Filter) (*navmesh.Poly, int) {
	d := end.Sub(start)
	n := math32.Vec3(-d.Z, 0, d.X)
	last := -1
	for range pf.mesh.Len() + 1 {
		if navmesh.IsInsidePolygon(end, p) {
			return p, -1
		}
		exit := -1
		for i, j := p.Len()-1, 0; j < p.Len(); i, j = j, j+1 {
			if i != last && n.Dot(p.Points[i].Sub(start)) <= 0 && n.Dot(p.Points[j].Sub(start)) >= 0 {
				exit = i
				break
			}
		}
		if exit < 0 {
			return p, last
		}
		next := pf.mesh.LinkedPolygon(p, exit)
		if next == nil || !f.Has(next.Type) {
			return p, exit
		}
		last = pf.mesh.LinkedEdge(p, exit)
		p = next
	}
	return p, last
}

// Ray returns whether the straight line from start to end stays on the
// mesh, crossing only polygons of types in f. The walk starts in polygon
// id, or in the polygon containing start if id does not contain it.
func (pf *Pathfinder) Ray(start, end math32.Vector3, id uint32, f Filter) bool {
	p := pf.startPolygon(start, id)
	if p == nil {
		return false
	}
	_, blocked := pf.walk(p, start, end, f)
	return blocked < 0
}

// RayDistance returns how far along origin + dir*t the ray travels over
// the mesh before it is blocked, up to limit. The result is in units of
// dir. It is 0 when origin is not on the mesh.
func (pf *Pathfinder) RayDistance(origin, dir math32.Vector3, limit float32, id uint32, f Filter) float32 {
	p := pf.startPolygon(origin, id)
	if p == nil {
		return 0
	}
	end := origin.Add(dir.MulScalar(limit))
	last, blocked := pf.walk(p, origin, end, f)
	if blocked < 0 {
		return limit
	}
	a, b := last.EdgePoints(blocked)
	t, _, ok := collide.LineParams(xz(origin), xz(end), xz(a), xz(b))
	if !ok {
		return 0
	}
	return math32.Clamp(t, 0, 1) * limit
}
