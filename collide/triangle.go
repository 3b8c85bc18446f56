// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import "cogentcore.org/core/math32"

// Region identifies the feature of a triangle that a closest point lies on.
type Region int32

const (
	// Face is the interior of the triangle.
	Face Region = iota
	VertexA
	VertexB
	VertexC
	EdgeAB
	EdgeBC
	EdgeCA
)

// ClosestPointOnTriangle returns the point on triangle abc closest to p,
// and the region of the triangle it lies in.
func ClosestPointOnTriangle(p, a, b, c math32.Vector3) (math32.Vector3, Region) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, VertexA
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, VertexB
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.MulScalar(v)), EdgeAB
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, VertexC
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.MulScalar(w)), EdgeCA
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).MulScalar(w)), EdgeBC
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w)), Face
}

// Area returns the area of triangle abc.
func Area(a, b, c math32.Vector3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Length() * 0.5
}
