// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh"
	"cogentcore.org/navmesh/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row returns a mesh of unit squares along X, one per type, each linked
// to the next.
func row(t *testing.T, types ...int) (*navmesh.Mesh, []*navmesh.Poly) {
	t.Helper()
	m := navmesh.New()
	m.Types = navmesh.NewTypes("grass", "water")
	m.Logger = diag.Discard()
	var ps []*navmesh.Poly
	for i, ty := range types {
		x := float32(i)
		ps = append(ps, m.AddPolygon(navmesh.Rect(ty, 0, x, 0, x+1, 1)))
		if i > 0 {
			require.NoError(t, m.Connect(ps[i-1].ID, 1, ps[i].ID, 3))
		}
	}
	return m, ps
}

func newPathfinder(m *navmesh.Mesh) *Pathfinder {
	pf := New(m)
	pf.Logger = diag.Discard()
	return pf
}

func TestSearchTwoPolygons(t *testing.T) {
	m, ps := row(t, 0, 0)
	pf := newPathfinder(m)

	assert.Equal(t, Success, pf.SearchPoints(math32.Vec3(0.5, 0, 0.5), math32.Vec3(1.5, 0, 0.5)))
	assert.Equal(t, []Node{{Poly: ps[0].ID, Edge: 1}}, pf.Path())
	tolassert.EqualTol(t, 1, pf.Length(), 1e-5)

	assert.Equal(t, Success, pf.SearchPolygons(ps[1].ID, ps[0].ID))
	assert.Equal(t, []Node{{Poly: ps[1].ID, Edge: 3}}, pf.Path())
}

func TestSearchSamePolygon(t *testing.T) {
	m, _ := row(t, 0)
	pf := newPathfinder(m)
	assert.Equal(t, Success, pf.SearchPoints(math32.Vec3(0.1, 0, 0.1), math32.Vec3(0.9, 0, 0.1)))
	assert.Empty(t, pf.Path())
	tolassert.EqualTol(t, 0.8, pf.Length(), 1e-5)
}

func TestSearchInvalid(t *testing.T) {
	m, ps := row(t, 0, 0)
	pf := newPathfinder(m)
	assert.Equal(t, Invalid, pf.SearchPoints(math32.Vec3(-1, 0, 0.5), math32.Vec3(1.5, 0, 0.5)))
	assert.Equal(t, Invalid, pf.SearchPoints(math32.Vec3(0.5, 0, 0.5), math32.Vec3(5, 0, 0.5)))
	assert.Equal(t, Invalid, pf.SearchPolygons(ps[0].ID, 999))
	assert.False(t, pf.State().Found())
	assert.Empty(t, pf.Path())
}

func TestSearchChain(t *testing.T) {
	m, ps := row(t, 0, 0, 0, 0)
	pf := newPathfinder(m)
	require.Equal(t, Success, pf.SearchPoints(math32.Vec3(0.5, 0, 0.5), math32.Vec3(3.5, 0, 0.5)))
	want := []Node{{ps[0].ID, 1}, {ps[1].ID, 1}, {ps[2].ID, 1}}
	assert.Equal(t, want, pf.Path())
	tolassert.EqualTol(t, 3, pf.Length(), 1e-5)

	pf.Clear()
	assert.Equal(t, None, pf.State())
	assert.Empty(t, pf.Path())
}

func TestSearchRadius(t *testing.T) {
	m := navmesh.New()
	m.Logger = diag.Discard()
	a := m.AddPolygon(navmesh.NewPoly2(0, 0,
		math32.Vec2(0, 0), math32.Vec2(1, 0), math32.Vec2(1, 0.3),
		math32.Vec2(1, 0.7), math32.Vec2(1, 1), math32.Vec2(0, 1)))
	b := m.AddPolygon(navmesh.Rect(0, 0, 1, 0.3, 2, 0.7))
	require.NoError(t, m.Connect(a.ID, 2, b.ID, 3))
	tolassert.EqualTol(t, 0.4, m.LinkWidth(a, 2), 1e-5)

	pf := newPathfinder(m)
	from, to := math32.Vec3(0.5, 0, 0.5), math32.Vec3(1.5, 0, 0.5)

	pf.SetRadius(0.1)
	assert.Equal(t, Success, pf.SearchPoints(from, to))
	assert.Equal(t, []Node{{a.ID, 2}}, pf.Path())

	pf.SetRadius(0.3)
	assert.Equal(t, Fail, pf.SearchPoints(from, to))
	assert.Empty(t, pf.Path())
}

func TestSearchFilter(t *testing.T) {
	m, _ := row(t, 0, 1, 0)
	pf := newPathfinder(m)
	from, to := math32.Vec3(0.5, 0, 0.5), math32.Vec3(2.5, 0, 0.5)

	assert.Equal(t, Success, pf.SearchPoints(from, to))
	assert.Len(t, pf.Path(), 2)

	pf.SetFilter(FilterOf(m.Types, "grass"))
	assert.Equal(t, None, pf.State())
	assert.Equal(t, Fail, pf.SearchPoints(from, to))
}

func TestSearchPartial(t *testing.T) {
	m, ps := row(t, 0, 0)
	far := m.AddPolygon(navmesh.Rect(0, 0, 3, 0, 4, 1))
	pf := newPathfinder(m)
	from := Location{math32.Vec3(0.5, 0, 0.5), ps[0].ID}
	to := Location{math32.Vec3(3.5, 0, 0.5), far.ID}

	assert.Equal(t, Fail, pf.Search(from, to))
	assert.Empty(t, pf.Path())

	pf.Settings.Partial = true
	assert.Equal(t, Partial, pf.Search(from, to))
	assert.True(t, pf.State().Found())
	assert.Equal(t, []Node{{ps[0].ID, 1}}, pf.Path())
	tolassert.EqualTol(t, 0.5, pf.Length(), 1e-5)
}

func TestSearchMulti(t *testing.T) {
	m, ps := row(t, 0, 0, 0, 0)
	pf := newPathfinder(m)
	start := Location{math32.Vec3(0.5, 0, 0.5), ps[0].ID}
	goals := []Location{
		{math32.Vec3(3.5, 0, 0.5), ps[3].ID},
		{math32.Vec3(9, 0, 9), navmesh.InvalidID},
		{math32.Vec3(1.5, 0, 0.5), ps[1].ID},
	}
	state, i := pf.SearchMulti(start, goals)
	assert.Equal(t, Success, state)
	assert.Equal(t, 2, i)
	assert.Equal(t, []Node{{ps[0].ID, 1}}, pf.Path())

	state, i = pf.SearchMulti(start, goals[1:2])
	assert.Equal(t, Invalid, state)
	assert.Equal(t, -1, i)
}

func TestSearchDisconnected(t *testing.T) {
	m, ps := row(t, 0, 0)
	require.NoError(t, m.Disconnect(ps[0].ID, 1))
	pf := newPathfinder(m)
	assert.Equal(t, Fail, pf.SearchPolygons(ps[0].ID, ps[1].ID))
}

func TestRay(t *testing.T) {
	m, ps := row(t, 0, 0, 1)
	pf := newPathfinder(m)
	start := math32.Vec3(0.5, 0, 0.5)

	assert.True(t, pf.Ray(start, math32.Vec3(0.8, 0, 0.2), ps[0].ID, FilterAll))
	assert.True(t, pf.Ray(start, math32.Vec3(1.5, 0, 0.5), ps[0].ID, FilterAll))
	assert.True(t, pf.Ray(start, math32.Vec3(2.5, 0, 0.9), navmesh.InvalidID, FilterAll))
	assert.False(t, pf.Ray(start, math32.Vec3(2.5, 0, 0.5), ps[0].ID, FilterOf(m.Types, "grass")))
	assert.False(t, pf.Ray(start, math32.Vec3(1.5, 0, 1.5), ps[0].ID, FilterAll))
	assert.False(t, pf.Ray(math32.Vec3(-1, 0, 0), start, navmesh.InvalidID, FilterAll))

	// the polygon id is ignored when it does not contain the start
	assert.True(t, pf.Ray(start, math32.Vec3(1.5, 0, 0.5), ps[2].ID, FilterAll))
}

func TestRayDistance(t *testing.T) {
	m, ps := row(t, 0, 0)
	pf := newPathfinder(m)
	origin := math32.Vec3(0.5, 0, 0.5)

	tolassert.EqualTol(t, 1.5, pf.RayDistance(origin, math32.Vec3(1, 0, 0), 10, ps[0].ID, FilterAll), 1e-4)
	tolassert.EqualTol(t, 0.5, pf.RayDistance(origin, math32.Vec3(0, 0, 1), 10, ps[0].ID, FilterAll), 1e-4)
	tolassert.EqualTol(t, 1, pf.RayDistance(origin, math32.Vec3(1, 0, 0), 1, ps[0].ID, FilterAll), 1e-6)
	assert.Zero(t, pf.RayDistance(math32.Vec3(5, 0, 5), math32.Vec3(1, 0, 0), 1, navmesh.InvalidID, FilterAll))
}

func TestResolvePoint(t *testing.T) {
	m := navmesh.New()
	m.Logger = diag.Discard()
	p := m.AddPolygon(navmesh.Rect(0, 0, 0, 0, 4, 4))
	pf := newPathfinder(m)

	pt, q := pf.ResolvePoint(math32.Vec3(0.1, 0, 2), 0.5, 1, 4)
	assert.Same(t, p, q)
	tolassert.EqualTol(t, 0.5, pt.X, 1e-3)
	tolassert.EqualTol(t, 2, pt.Z, 1e-5)

	pt, q = pf.ResolvePoint(math32.Vec3(-0.5, 0, 2), 0, 1, 4)
	assert.Same(t, p, q)
	assert.Equal(t, math32.Vec3(0, 0, 2), pt)

	pt, q = pf.ResolvePoint(math32.Vec3(-0.5, 0, 2), 0.5, 1, 4)
	assert.Same(t, p, q)
	tolassert.EqualTol(t, 0.5, pt.X, 1e-3)

	pt, q = pf.ResolvePoint(math32.Vec3(2, 0, 2), 0.5, 1, 4)
	assert.Same(t, p, q)
	assert.Equal(t, math32.Vec3(2, 0, 2), pt)

	_, q = pf.ResolvePoint(math32.Vec3(-5, 0, 2), 0.5, 1, 4)
	assert.Nil(t, q)
}
