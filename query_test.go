// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"cogentcore.org/lab/base/randx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonAt(t *testing.T) {
	m := New()
	low := m.AddPolygon(Rect(0, 0, 0, 0, 4, 4))
	high := m.AddPolygon(Rect(0, 5, 0, 0, 4, 4))
	side := m.AddPolygon(Rect(0, 0, 4, 0, 8, 4))

	assert.Same(t, low, m.PolygonAt(math32.Vec3(1, 0, 1)))
	assert.Same(t, high, m.PolygonAt(math32.Vec3(1, 4, 1)))
	assert.Same(t, low, m.PolygonAt(math32.Vec3(1, 2, 1)))
	assert.Same(t, side, m.PolygonAt(math32.Vec3(6, 3, 1)))
	assert.Nil(t, m.PolygonAt(math32.Vec3(9, 0, 1)))
	assert.Equal(t, high.ID, m.PolygonIDAt(math32.Vec3(2, 6, 2)))
	assert.Equal(t, InvalidID, m.PolygonIDAt(math32.Vec3(-1, 0, 0)))
}

func TestClosestPolygon(t *testing.T) {
	m, a, b := twoRects(t, 0, 0)

	p, pt := m.ClosestPolygon(math32.Vec3(0.5, 0, 0.5), 0)
	assert.Same(t, a, p)
	assert.Equal(t, math32.Vec3(0.5, 0, 0.5), pt)

	p, pt = m.ClosestPolygon(math32.Vec3(-1, 0, 0.5), 0)
	assert.Same(t, a, p)
	tolassert.EqualTol(t, 0, pt.X, 1e-6)
	tolassert.EqualTol(t, 0.5, pt.Z, 1e-6)

	p, pt = m.ClosestPolygon(math32.Vec3(1.5, 0, 3), 5)
	assert.Same(t, b, p)
	tolassert.EqualTol(t, 1.5, pt.X, 1e-6)
	tolassert.EqualTol(t, 1, pt.Z, 1e-6)

	p, _ = m.ClosestPolygon(math32.Vec3(1.5, 0, 3), 1)
	assert.Nil(t, p)

	// above the polygon but outside its height range
	p, pt = m.ClosestPolygon(math32.Vec3(0.5, 2, 0.5), 3)
	assert.Same(t, a, p)
	assert.Equal(t, float32(2), pt.Y)
}

func TestClosestBoundary(t *testing.T) {
	m, a, _ := twoRects(t, 0, 0)
	pt := math32.Vec3(0.9, 0, 0.5)

	_, ok := m.ClosestBoundary(pt, InvalidID, 0.5)
	assert.False(t, ok)

	bd, ok := m.ClosestBoundary(pt, InvalidID, 0.6)
	require.True(t, ok)
	assert.Equal(t, a.ID, bd.PolyID)
	assert.Equal(t, 0, bd.Edge)
	tolassert.EqualTol(t, 0.9, bd.Point.X, 1e-5)
	tolassert.EqualTol(t, 0, bd.Point.Z, 1e-5)

	// the right hand wall is found through the link
	bd, ok = m.ClosestBoundary(math32.Vec3(1.8, 0, 0.5), a.ID, 0.9)
	require.True(t, ok)
	assert.NotEqual(t, a.ID, bd.PolyID)
	tolassert.EqualTol(t, 2, bd.Point.X, 1e-5)
	tolassert.EqualTol(t, 0.5, bd.Point.Z, 1e-5)

	_, ok = m.ClosestBoundary(math32.Vec3(5, 0, 5), InvalidID, 10)
	assert.False(t, ok)
}

func TestRandomPoint(t *testing.T) {
	rnd := randx.NewSysRand(1)
	p := NewPoly(0, v3(0, 0), v3(4, 0), v3(4, 2), v3(2, 3), v3(0, 2))
	for range 200 {
		pt := RandomPoint(rnd, p)
		assert.NotEqual(t, 0, Inside(p, xz(pt)), "%v", pt)
	}
}

func TestRandomPolygon(t *testing.T) {
	m := New()
	small := m.AddPolygon(Rect(0, 0, 0, 0, 1, 1))
	big := m.AddPolygon(Rect(1, 0, 2, 0, 12, 10))
	rnd := randx.NewSysRand(7)

	counts := map[*Poly]int{}
	for range 500 {
		counts[m.RandomPolygon(rnd, nil)]++
	}
	assert.Greater(t, counts[big], counts[small])

	for range 50 {
		p := m.RandomPolygon(rnd, func(p *Poly) float32 {
			if p.Type == 1 {
				return 0
			}
			return 1
		})
		assert.Same(t, small, p)
	}
	assert.Nil(t, m.RandomPolygon(rnd, func(*Poly) float32 { return 0 }))
}

func TestPick(t *testing.T) {
	m := New()
	low := m.AddPolygon(Rect(0, 0, 0, 0, 2, 2))
	high := m.AddPolygon(Rect(0, 3, 0, 0, 2, 2))

	p, dist, ok := m.Pick(math32.Vec3(1.5, 10, 0.5), math32.Vec3(0, -2, 0))
	require.True(t, ok)
	assert.Same(t, high, p)
	tolassert.EqualTol(t, 7, dist, 1e-4)

	p, dist, ok = m.Pick(math32.Vec3(1.5, 1, 0.5), math32.Vec3(0, -1, 0))
	require.True(t, ok)
	assert.Same(t, low, p)
	tolassert.EqualTol(t, 1, dist, 1e-4)

	_, _, ok = m.Pick(math32.Vec3(5, 10, 5), math32.Vec3(0, -1, 0))
	assert.False(t, ok)
}

func TestTraversal(t *testing.T) {
	m := New()
	a := m.AddPolygon(NewPoly(0, v3(0, 0), v3(3, 0), v3(3, 2), v3(0, 1)))
	b := m.AddPolygon(Rect(0, 0, 3, 0, 4, 2))
	require.NoError(t, m.Connect(a.ID, 1, b.ID, 3))

	th := m.Traversal(a, 1)
	require.Len(t, th, 1)
	tolassert.EqualTol(t, math32.Sqrt(3.6), th[0].Width, 1e-4)
	assert.Equal(t, math32.Vec2(3, 0), th[0].From)
	tolassert.EqualTol(t, 2.4, th[0].To.X, 1e-4)
	tolassert.EqualTol(t, 1.8, th[0].To.Y, 1e-4)

	assert.True(t, th[0].Blocks(math32.Vec2(2, 0.5), math32.Vec2(3, 1.5), 1))
	assert.False(t, th[0].Blocks(math32.Vec2(2, 0.5), math32.Vec2(3, 1.5), 0.5))
	assert.False(t, th[0].Blocks(math32.Vec2(0.5, 0.5), math32.Vec2(1, 0.5), 1))

	assert.Empty(t, m.Traversal(a, 0.5))
}
