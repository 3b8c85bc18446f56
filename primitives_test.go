// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func v3(x, z float32) math32.Vector3 { return math32.Vec3(x, 0, z) }

func TestSide(t *testing.T) {
	a, b := v3(0, 0), v3(1, 0)
	assert.Equal(t, 0, Side(a, b, v3(2, 0)))
	assert.Equal(t, -1*Side(a, b, v3(0.5, -1)), Side(a, b, v3(0.5, 1)))
	assert.NotEqual(t, 0, Side(a, b, v3(0.5, 1)))
}

func TestIsConvex(t *testing.T) {
	assert.True(t, IsConvex(Rect(0, 0, 0, 0, 1, 1)))
	l := NewPoly(0, v3(0, 0), v3(2, 0), v3(2, 1), v3(1, 1), v3(1, 2), v3(0, 2))
	assert.False(t, IsConvex(l))
	assert.True(t, isConvexPoint(l, 0))
	assert.False(t, isConvexPoint(l, 3))
}

func TestInverted(t *testing.T) {
	r := Rect(0, 0, 0, 0, 1, 1)
	assert.False(t, Inverted(r))
	tolassert.EqualTol(t, 1, r.Area(), 1e-6)

	h := NewPoly(0, r.Points[3], r.Points[2], r.Points[1], r.Points[0])
	assert.True(t, Inverted(h))
	tolassert.EqualTol(t, -1, h.Area(), 1e-6)

	m := New()
	p := m.copyPoly(h)
	m.invert(p)
	assert.False(t, Inverted(p))
}

func TestInside(t *testing.T) {
	r := Rect(0, 0, 0, 0, 2, 2)
	assert.Equal(t, 1, Inside(r, math32.Vec2(1, 1)))
	assert.Equal(t, 0, Inside(r, math32.Vec2(3, 1)))
	assert.Equal(t, 0, Inside(r, math32.Vec2(-1, -1)))
	assert.Equal(t, 2, Inside(r, math32.Vec2(2, 1)))

	l := NewPoly(0, v3(0, 0), v3(2, 0), v3(2, 1), v3(1, 1), v3(1, 2), v3(0, 2))
	assert.Equal(t, 1, Inside(l, math32.Vec2(0.5, 1.5)))
	assert.Equal(t, 0, Inside(l, math32.Vec2(1.5, 1.5)))

	assert.True(t, IsInsidePolygon(math32.Vec3(1, 7, 1), r))
	assert.False(t, IsInsidePolygon(math32.Vec3(1, 0, 1), nil))
}

func TestInsideConvex(t *testing.T) {
	hex := NewPoly2(0, 0,
		math32.Vec2(1, 0), math32.Vec2(3, 0), math32.Vec2(4, 2),
		math32.Vec2(3, 4), math32.Vec2(1, 4), math32.Vec2(0, 2))
	assert.True(t, IsConvex(hex))
	for _, pt := range []math32.Vector2{{2, 2}, {1, 1}, {3.5, 2}, {2, 3.9}} {
		assert.True(t, InsideConvex(hex, pt), "%v", pt)
		assert.Equal(t, 1, Inside(hex, pt), "%v", pt)
	}
	for _, pt := range []math32.Vector2{{0, 0}, {4, 4}, {-1, 2}, {2, 5}} {
		assert.False(t, InsideConvex(hex, pt), "%v", pt)
	}
}

func TestIntersect(t *testing.T) {
	a := Rect(0, 0, 0, 0, 1, 1)
	assert.Equal(t, Disjoint, Intersect(a, Rect(0, 0, 5, 5, 6, 6)))
	assert.Equal(t, Crossing, Intersect(Rect(0, 0, 0, 0, 2, 2), Rect(0, 0, 1, 1, 3, 3)))
	assert.Equal(t, SharedEdge, Intersect(a, Rect(0, 0, 1, 0, 2, 1)))
	assert.Equal(t, TouchesOnly, Intersect(a, Rect(0, 0, 1, 1, 2, 2)))

	big, small := Rect(0, 0, 0, 0, 10, 10), Rect(0, 0, 2, 2, 4, 4)
	assert.Equal(t, BInsideA, Intersect(big, small))
	assert.Equal(t, AInsideB, Intersect(small, big))
}

func TestUpdateCentre(t *testing.T) {
	r := Rect(0, 1, 0, 0, 2, 4)
	tolassert.EqualTol(t, 1, r.Centre.X, 1e-5)
	tolassert.EqualTol(t, 1, r.Centre.Y, 1e-5)
	tolassert.EqualTol(t, 2, r.Centre.Z, 1e-5)
	tolassert.EqualTol(t, 1, r.Extents.X, 1e-5)
	tolassert.EqualTol(t, 0, r.Extents.Y, 1e-5)
	tolassert.EqualTol(t, 2, r.Extents.Z, 1e-5)

	// away from the origin
	r = Rect(0, 0, 10, 20, 12, 21)
	tolassert.EqualTol(t, 11, r.Centre.X, 1e-4)
	tolassert.EqualTol(t, 20.5, r.Centre.Z, 1e-4)

	tri := NewPoly(0, v3(0, 0), v3(3, 0), v3(0, 3))
	tolassert.EqualTol(t, 1, tri.Centre.X, 1e-5)
	tolassert.EqualTol(t, 1, tri.Centre.Z, 1e-5)
}

func TestIntersectLines(t *testing.T) {
	u, v, ok := intersectLines(v3(0, 0), v3(2, 0), v3(1, -1), v3(1, 1))
	assert.True(t, ok)
	tolassert.EqualTol(t, 0.5, u, 1e-6)
	tolassert.EqualTol(t, 0.5, v, 1e-6)

	_, _, ok = intersectLines(v3(0, 0), v3(1, 0), v3(0, 1), v3(1, 1))
	assert.False(t, ok)

	// coincident segments do not intersect
	_, _, ok = intersectLines(v3(0, 0), v3(1, 0), v3(1, 0), v3(0, 0))
	assert.False(t, ok)

	u, v, ok = intersectLines(v3(0, 0), v3(1, 0), v3(1, 0), v3(1, 1))
	assert.True(t, ok)
	assert.Equal(t, float32(1), u)
	assert.Equal(t, float32(0), v)

	_, _, ok = intersectLines(v3(0, 0), v3(1, 0), v3(3, -1), v3(3, 1))
	assert.False(t, ok)
}

func TestApproximateArc(t *testing.T) {
	x := math32.Vec2(1, 0)
	tolassert.EqualTol(t, 0, approximateArc(x, x), 1e-6)
	tolassert.EqualTol(t, math32.Pi/2, approximateArc(x, math32.Vec2(0, 1)), 1e-5)
	tolassert.EqualTol(t, 3*math32.Pi/2, approximateArc(x, math32.Vec2(0, -1)), 1e-5)
}

func TestTestSplit(t *testing.T) {
	l := NewPoly(0, v3(0, 0), v3(2, 0), v3(2, 1), v3(1, 1), v3(1, 2), v3(0, 2))
	// from the reflex corner to the opposite corner
	assert.Equal(t, lineInside, testSplit(l, 3, 0))
	// across the notch
	assert.Equal(t, lineOutside, testSplit(l, 2, 4))

	assert.Equal(t, lineInside, testLine(l, l.Points[3], l.Points[0]))
	assert.Equal(t, lineOutside, testLine(l, l.Points[2], l.Points[4]))
}
