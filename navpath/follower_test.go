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

// corner returns an L shaped corridor: two squares along X, then a tall
// room turning up Z from the second.
func corner(t *testing.T) (*navmesh.Mesh, []*navmesh.Poly) {
	t.Helper()
	m := navmesh.New()
	m.Types = navmesh.NewTypes("grass", "water")
	m.Logger = diag.Discard()
	a := m.AddPolygon(navmesh.Rect(0, 0, 0, 0, 2, 2))
	b := m.AddPolygon(navmesh.Rect(1, 0, 2, 0, 4, 2))
	c := m.AddPolygon(navmesh.Rect(1, 0, 2, 2, 4, 6))
	require.NoError(t, m.Connect(a.ID, 1, b.ID, 3))
	require.NoError(t, m.Connect(b.ID, 2, c.ID, 0))
	return m, []*navmesh.Poly{a, b, c}
}

func newFollower(m *navmesh.Mesh, radius float32) *Follower {
	f := NewFollower(m)
	f.Pathfinder().Logger = diag.Discard()
	f.SetRadius(radius)
	return f
}

// walk steps f towards its next point until it is at the goal, and
// returns the number of steps taken, or -1.
func walk(t *testing.T, f *Follower, step float32, limit int) int {
	t.Helper()
	for i := range limit {
		if f.AtGoal(0.1) {
			return i
		}
		pos := f.Position()
		d := f.NextPoint().Point.Sub(pos)
		if l := d.Length(); l > step {
			d = d.MulScalar(step / l)
		}
		f.SetPosition(pos.Add(d))
		require.NotNil(t, f.Mesh().PolygonAt(f.Position()), "step %d left the mesh at %v", i, f.Position())
	}
	return -1
}

func TestFollowerStraight(t *testing.T) {
	m := navmesh.New()
	m.Logger = diag.Discard()
	a := m.AddPolygon(navmesh.Rect(0, 0, 0, 0, 4, 4))
	b := m.AddPolygon(navmesh.Rect(0, 0, 4, 0, 8, 4))
	require.NoError(t, m.Connect(a.ID, 1, b.ID, 3))

	f := newFollower(m, 0.25)
	f.SetPosition(math32.Vec3(1, 0, 2))
	assert.Equal(t, a.ID, f.PolygonID())
	require.True(t, f.SetGoal(math32.Vec3(7, 0, 2)))
	assert.Equal(t, Success, f.State())

	s := f.NextPoint()
	assert.Equal(t, math32.Vec3(7, 0, 2), s.Point)
	assert.Equal(t, s.Point, s.Next)

	assert.Positive(t, walk(t, f, 0.2, 100))
	assert.Equal(t, b.ID, f.PolygonID())
	assert.True(t, f.AtGoal(0.1))
}

func TestFollowerCorner(t *testing.T) {
	m, ps := corner(t)
	f := newFollower(m, 0.25)
	f.SetPosition(math32.Vec3(1, 0, 1))
	require.True(t, f.SetGoal(math32.Vec3(3, 0, 5)))
	assert.Equal(t, []Node{{ps[0].ID, 1}, {ps[1].ID, 2}}, f.Pathfinder().Path())

	// the first target passes the inner corner at the agent radius
	s := f.NextPoint()
	tolassert.EqualTol(t, 2.161, s.Point.X, 1e-3)
	tolassert.EqualTol(t, 1.807, s.Point.Z, 1e-3)
	assert.Equal(t, math32.Vec3(3, 0, 5), s.Next)

	n := walk(t, f, 0.2, 100)
	assert.Positive(t, n)
	assert.Equal(t, ps[2].ID, f.PolygonID())
}

func TestFollowerGoal(t *testing.T) {
	m, ps := corner(t)
	f := newFollower(m, 0.5)
	f.SetPosition(math32.Vec3(1, 0, 1))

	// a goal against the wall is pushed away from it by the radius
	require.True(t, f.SetGoal(math32.Vec3(3.9, 0, 5)))
	tolassert.EqualTol(t, 3.5, f.Goal().X, 1e-3)
	assert.False(t, f.AtGoal(1))

	assert.False(t, f.SetGoal(math32.Vec3(20, 0, 20)))
	assert.Equal(t, None, f.State())
	assert.Equal(t, f.Position(), f.Goal())
	assert.True(t, f.AtGoal(0.01))

	f.SetPosition(math32.Vec3(3, 0, 1))
	assert.Equal(t, ps[1].ID, f.PolygonID())
	f.SetPosition(math32.Vec3(30, 0, 1))
	assert.Equal(t, navmesh.InvalidID, f.PolygonID())
}

func TestFollowerSetGoals(t *testing.T) {
	m, ps := corner(t)
	f := newFollower(m, 0.25)
	f.SetPosition(math32.Vec3(1, 0, 1))
	i := f.SetGoals([]math32.Vector3{
		math32.Vec3(3, 0, 5),
		math32.Vec3(50, 0, 50),
		math32.Vec3(3, 0, 1),
	})
	assert.Equal(t, 2, i)
	assert.Equal(t, math32.Vec3(3, 0, 1), f.Goal())
	assert.Equal(t, []Node{{ps[0].ID, 1}}, f.Pathfinder().Path())

	assert.Equal(t, -1, f.SetGoals([]math32.Vector3{math32.Vec3(50, 0, 50)}))
}

func TestFollowerPathScan(t *testing.T) {
	m, ps := corner(t)
	f := newFollower(m, 0.25)
	f.SetPosition(math32.Vec3(1, 0, 1))
	require.True(t, f.SetGoal(math32.Vec3(3, 0, 5)))

	// jumping into the goal polygon keeps the path
	f.SetPosition(math32.Vec3(3, 0, 4))
	assert.Equal(t, ps[2].ID, f.PolygonID())
	assert.Equal(t, Success, f.State())
	assert.Len(t, f.Pathfinder().Path(), 2)

	f.Stop()
	assert.True(t, f.AtGoal(0.01))
	assert.Equal(t, None, f.State())
}

func TestFollowerScanDepth(t *testing.T) {
	m, ps := row(t, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	start, goal := math32.Vec3(0.5, 0, 0.5), math32.Vec3(9.5, 0, 0.5)
	at := func(i int) math32.Vector3 { return math32.Vec3(float32(i)+0.5, 0, 0.5) }

	f := newFollower(m, 0.25)
	depth := f.Pathfinder().Settings.ScanDepth
	require.Equal(t, 6, depth)
	f.SetPosition(start)
	require.True(t, f.SetGoal(goal))
	require.Len(t, f.Pathfinder().Path(), 9)

	// a jump of exactly depth steps is found along the path
	f.SetPosition(at(depth))
	assert.Equal(t, ps[depth].ID, f.PolygonID())
	assert.Equal(t, ps[0].ID, f.Pathfinder().Path()[0].Poly)
	assert.Len(t, f.Pathfinder().Path(), 9)

	// the scan continues from the new step
	f.SetPosition(at(depth + 2))
	assert.Equal(t, ps[depth+2].ID, f.PolygonID())
	assert.Equal(t, ps[0].ID, f.Pathfinder().Path()[0].Poly)

	// one step further than depth repaths from the new polygon
	f = newFollower(m, 0.25)
	f.SetPosition(start)
	require.True(t, f.SetGoal(goal))
	f.SetPosition(at(depth + 1))
	assert.Equal(t, ps[depth+1].ID, f.PolygonID())
	assert.Equal(t, Success, f.State())
	assert.Equal(t, ps[depth+1].ID, f.Pathfinder().Path()[0].Poly)
}

func TestFindNextPolygon(t *testing.T) {
	m, ps := corner(t)
	f := newFollower(m, 0.25)
	f.SetPosition(math32.Vec3(1, 0, 1))
	require.True(t, f.SetGoal(math32.Vec3(3, 0, 5)))

	assert.Equal(t, ps[1].ID, f.FindNextPolygon(1, 0))
	assert.Equal(t, ps[1].ID, f.FindNextPolygon(1, 0))
	assert.Equal(t, ps[0].ID, f.FindNextPolygon(0, 0))
	assert.Equal(t, navmesh.InvalidID, f.FindNextPolygon(0, 1))
	assert.Equal(t, navmesh.InvalidID, f.FindNextPolygon(5, 0))
	assert.Equal(t, navmesh.InvalidID, f.FindNextPolygon(-1, 0))
}

func TestMoveCollide(t *testing.T) {
	m := navmesh.New()
	m.Logger = diag.Discard()
	m.AddPolygon(navmesh.Rect(0, 0, 0, 0, 4, 4))
	f := newFollower(m, 0.5)
	pos := math32.Vec3(1, 0, 2)

	moved, tangent := f.MoveCollide(pos, math32.Vec3(-2, 0, 0), 0.5, math32.Vector3{})
	tolassert.EqualTol(t, 0.25, moved, 1e-5)
	assert.Zero(t, tangent.X)
	assert.NotZero(t, tangent.Z)

	moved, _ = f.MoveCollide(pos, math32.Vec3(1, 0, 0), 0.5, math32.Vector3{})
	assert.Equal(t, float32(1), moved)

	moved, _ = f.MoveCollide(math32.Vec3(9, 0, 9), math32.Vec3(1, 0, 0), 0.5, math32.Vector3{})
	assert.Equal(t, float32(1), moved)
}

func TestFollowerRay(t *testing.T) {
	m, _ := corner(t)
	f := newFollower(m, 0.25)
	f.SetPosition(math32.Vec3(1, 0, 1))
	assert.True(t, f.Ray(math32.Vec3(3, 0, 1), FilterAll))
	assert.False(t, f.Ray(math32.Vec3(3, 0, 1), FilterOf(m.Types, "grass")))
	assert.False(t, f.Ray(math32.Vec3(3, 0, 5), FilterAll))

	pt, ok := f.ResolvePoint(math32.Vec3(-1, 0, 1), 0.25, 2)
	assert.True(t, ok)
	tolassert.EqualTol(t, 0.25, pt.X, 1e-3)

	assert.True(t, f.SetPositionAndResolve(math32.Vec3(3, 0, -0.5), 1))
	tolassert.EqualTol(t, 0.25, f.Position().Z, 1e-3)
	assert.False(t, f.SetPositionAndResolve(math32.Vec3(30, 0, 30), 1))
}
