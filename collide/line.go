// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collide

import "cogentcore.org/core/math32"

// degenerate is the squared length below which a segment is treated as a point.
const degenerate = 0.001

// LineParams returns the parametric positions t1 along as-ae and t2 along
// bs-be at which the two infinite lines cross. ok is false when the lines
// are exactly parallel, in which case t1 and t2 are zero.
func LineParams(as, ae, bs, be math32.Vector2) (t1, t2 float32, ok bool) {
	ad := ae.Sub(as)
	bd := be.Sub(bs)
	d := ad.X*bd.Y - ad.Y*bd.X
	if d == 0 {
		return 0, 0, false
	}
	t1 = (bd.Y*(as.X-bs.X) - bd.X*(as.Y-bs.Y)) / -d
	t2 = (ad.Y*(bs.X-as.X) - ad.X*(bs.Y-as.Y)) / d
	return t1, t2, true
}

// IntersectSegments returns the parametric positions at which segments
// as-ae and bs-be cross, and whether both lie within [0,1].
func IntersectSegments(as, ae, bs, be math32.Vector2) (t1, t2 float32, hit bool) {
	t1, t2, ok := LineParams(as, ae, bs, be)
	if !ok {
		return t1, t2, false
	}
	return t1, t2, t1 >= 0 && t1 <= 1 && t2 >= 0 && t2 <= 1
}

// ClosestPointOnSegment returns the point on segment a-b closest to point.
func ClosestPointOnSegment(point, a, b math32.Vector3) math32.Vector3 {
	d := b.Sub(a)
	ds := d.Dot(d)
	if ds == 0 {
		return a
	}
	t := d.Dot(point.Sub(a)) / ds
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	default:
		return a.Add(d.MulScalar(t))
	}
}

// ClosestPointsBetweenSegments returns the parametric positions s along
// a1-b1 and t along a2-b2 of the closest pair of points on two segments,
// and the squared distance between them.
func ClosestPointsBetweenSegments(a1, b1, a2, b2 math32.Vector3) (s, t, distSq float32) {
	d1 := b1.Sub(a1)
	d2 := b2.Sub(a2)
	r := a1.Sub(a2)
	l1 := d1.Dot(d1)
	l2 := d2.Dot(d2)
	f := d2.Dot(r)
	switch {
	case l1 < degenerate && l2 < degenerate:
		return 0, 0, r.Dot(r)
	case l1 < degenerate:
		s, t = 0, clamp01(f/l2)
	default:
		c := d1.Dot(r)
		if l2 < degenerate {
			t, s = 0, clamp01(-c/l1)
			break
		}
		b := d1.Dot(d2)
		denom := l1*l2 - b*b
		if denom != 0 {
			s = clamp01((b*f - c*l2) / denom)
		}
		t = (b*s + f) / l2
		if t < 0 {
			t, s = 0, clamp01(-c/l1)
		} else if t > 1 {
			t, s = 1, clamp01((b-c)/l1)
		}
	}
	p1 := a1.Add(d1.MulScalar(s))
	p2 := a2.Add(d2.MulScalar(t))
	return s, t, p1.DistanceToSquared(p2)
}

func clamp01(v float32) float32 {
	return math32.Clamp(v, 0, 1)
}
