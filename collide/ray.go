// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import "cogentcore.org/core/math32"

// RaySphere intersects the ray p + d*t with a sphere. d must be unit length.
// A ray starting inside the sphere hits at t = 0.
func RaySphere(p, d, centre math32.Vector3, radius float32) (t float32, hit bool) {
	m := p.Sub(centre)
	b := m.Dot(d)
	c := m.Dot(m) - radius*radius
	if c > 0 && b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t = -b - math32.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	return t, true
}

// RayCircle intersects the 2D ray origin + dir*t with a circle, where dir is
// unit length. It reports a miss when the discriminant is below minDisc, so
// grazing contacts can be ignored. Unlike [RaySphere] the returned t is not
// clamped, so a negative t means the origin is already inside the circle.
func RayCircle(origin, dir, centre math32.Vector2, radius, minDisc float32) (t float32, hit bool) {
	m := origin.Sub(centre)
	b := m.Dot(dir)
	c := m.Dot(m) - radius*radius
	disc := b*b - c
	if disc < minDisc {
		return 0, false
	}
	return -b - math32.Sqrt(disc), true
}

// RayTriangle intersects the ray p + d*t with triangle abc using scalar
// triple products. It reports hits in front of p only.
func RayTriangle(p, d, a, b, c math32.Vector3) (t float32, hit bool) {
	m := d.Cross(p)
	u := d.Dot(c.Cross(b)) + m.Dot(c.Sub(b))
	v := d.Dot(a.Cross(c)) + m.Dot(a.Sub(c))
	w := d.Dot(b.Cross(a)) + m.Dot(b.Sub(a))
	if u+v+w == 0 {
		return 0, false
	}
	if (u < 0 && v > 0) || (v < 0 && u > 0) || (u < 0 && w > 0) || (w < 0 && u > 0) || (v < 0 && w > 0) || (w < 0 && v > 0) {
		return 0, false
	}
	denom := 1 / (u + v + w)
	hitp := a.MulScalar(u * denom).Add(b.MulScalar(v * denom)).Add(c.MulScalar(w * denom))
	t = d.Dot(hitp.Sub(p)) / d.Dot(d)
	return t, t >= 0
}
