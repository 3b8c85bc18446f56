// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh"
)

// ResolvePoint moves pt onto the mesh and at least radius away from its
// boundary, and returns the moved point with the polygon containing it.
// A point off the mesh is first moved to the closest polygon within
// search. Boundary pushes are repeated up to iterations times. The
// returned polygon is nil if the point could not be resolved.
func (pf *Pathfinder) ResolvePoint(pt math32.Vector3, radius, search float32, iterations int) (math32.Vector3, *navmesh.Poly) {
	p := pf.mesh.PolygonAt(pt)
	if p == nil {
		var close math32.Vector3
		p, close = pf.mesh.ClosestPolygon(pt, search)
		if p == nil {
			return pt, nil
		}
		pt = close
	}
	if radius == 0 {
		if !navmesh.IsInsidePolygon(pt, p) {
			return pt, nil
		}
		return pt, p
	}

	for range iterations {
		b, ok := pf.mesh.ClosestBoundary(pt, p.ID, radius)
		if !ok {
			return pt, p
		}
		close := b.Point
		close.Y = pt.Y
		resolve := pt.Sub(close)
		bp := pf.mesh.Polygon(b.PolyID)
		a, c := bp.EdgePoints(b.Edge)
		d := c.Sub(a)
		inward := math32.Vec3(-d.Z, 0, d.X)
		if resolve.LengthSquared() < 1e-3 {
			resolve = inward
		}
		resolve = resolve.Normal()
		penetration := radius - pt.DistanceTo(close)
		if resolve.Dot(inward) < 0 {
			// outside the boundary
			penetration -= 2 * radius
		}
		pt = pt.Add(resolve.MulScalar(penetration))
		if q := pf.mesh.PolygonAt(pt); q != nil {
			p = q
		}
	}
	return pt, pf.mesh.PolygonAt(pt)
}
