// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

import (
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh"
	"cogentcore.org/navmesh/collide"
)

// Steer is the result of [Follower.NextPoint]: the point to head for, and
// the point after it. Next equals Point when there is nothing beyond it.
type Steer struct {
	Point math32.Vector3
	Next  math32.Vector3
}

// Follower moves an agent of some radius along a path through the mesh,
// repathing as needed. The agent position is set from outside with
// [Follower.SetPosition]; [Follower.NextPoint] tells where to go next.
type Follower struct {

	// Logger receives diagnostics. nil means the logger of the pathfinder.
	Logger *slog.Logger

	path      *Pathfinder
	index     int
	polygon   uint32
	goalPoly  uint32
	position  math32.Vector3
	goal      math32.Vector3
	radius    float32
	findCache []int
}

// NewFollower returns a follower on the given mesh.
func NewFollower(mesh *navmesh.Mesh) *Follower {
	return &Follower{path: New(mesh), polygon: navmesh.InvalidID, goalPoly: navmesh.InvalidID}
}

func (f *Follower) log() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return f.path.log()
}

// Pathfinder returns the pathfinder used, whose settings and filter apply
// to the follower.
func (f *Follower) Pathfinder() *Pathfinder { return f.path }

// Mesh returns the mesh followed.
func (f *Follower) Mesh() *navmesh.Mesh { return f.path.mesh }

// SetMesh sets the mesh to follow. The current path is discarded.
func (f *Follower) SetMesh(m *navmesh.Mesh) {
	f.path.SetMesh(m)
	f.polygon = navmesh.InvalidID
	f.goalPoly = navmesh.InvalidID
	f.index = 0
	f.findCache = f.findCache[:0]
}

// SetRadius sets the agent radius.
func (f *Follower) SetRadius(r float32) {
	f.radius = r
	f.path.SetRadius(r)
}

// Radius returns the agent radius.
func (f *Follower) Radius() float32 { return f.radius }

// Position returns the agent position.
func (f *Follower) Position() math32.Vector3 { return f.position }

// Goal returns the goal position.
func (f *Follower) Goal() math32.Vector3 { return f.goal }

// PolygonID returns the id of the polygon the agent is in.
func (f *Follower) PolygonID() uint32 { return f.polygon }

// State returns the state of the current path.
func (f *Follower) State() State { return f.path.state }

// SetPosition updates the agent position. The polygon containing it is
// looked up along the path first, then in the goal polygon and the
// neighbours of the current polygon, and finally in the whole mesh, which
// repaths.
func (f *Follower) SetPosition(pos math32.Vector3) {
	f.position = pos
	mesh := f.path.mesh
	poly := mesh.Polygon(f.polygon)
	if poly != nil && navmesh.IsInsidePolygon(pos, poly) {
		return
	}

	if poly != nil && f.path.state.Found() && f.index < len(f.path.path) {
		next := mesh.LinkedPolygon(poly, f.path.path[f.index].Edge)
		end := min(len(f.path.path), f.index+f.path.Settings.ScanDepth+1)
		for i := f.index + 1; next != nil && i < end; i++ {
			if next.ID != f.path.path[i].Poly {
				break
			}
			if navmesh.IsInsidePolygon(pos, next) {
				f.index = i
				f.polygon = next.ID
				return
			}
			next = mesh.LinkedPolygon(next, f.path.path[i].Edge)
		}
		if goal := mesh.Polygon(f.goalPoly); goal != nil && navmesh.IsInsidePolygon(pos, goal) {
			f.index = len(f.path.path)
			f.polygon = f.goalPoly
			return
		}
	}

	if poly != nil {
		for e := range mesh.Edges(poly) {
			if c := e.Connected(); c != nil && navmesh.IsInsidePolygon(pos, c) {
				f.polygon = c.ID
				f.log().Debug("position off path", "x", pos.X, "z", pos.Z, "poly", c.ID)
				if f.path.state.Found() {
					f.Repath()
				}
				return
			}
		}
		if f.path.state.Found() {
			f.log().Warn("position off path", "x", pos.X, "z", pos.Z)
		}
	}

	f.polygon = mesh.PolygonIDAt(pos)
	if f.polygon == navmesh.InvalidID {
		f.log().Warn("position off mesh", "x", pos.X, "z", pos.Z)
	} else if f.path.state.Found() {
		f.Repath()
	}
}

// SetGoal moves the goal onto the mesh at least the agent radius away from
// its boundary, and paths to it. It returns whether a full or partial
// path was found.
func (f *Follower) SetGoal(goal math32.Vector3) bool {
	s := &f.path.Settings
	resolved, p := f.path.ResolvePoint(goal, f.radius, s.ResolveSearch, s.ResolveIterations)
	if p == nil {
		f.log().Warn("goal unresolved", "x", goal.X, "z", goal.Z)
		f.goal = goal
		f.Stop()
		return false
	}
	f.goal = resolved
	if f.AtGoal(1e-6) {
		return true
	}
	f.goalPoly = p.ID
	return f.Repath().Found()
}

// SetGoals paths to the closest reachable of several goals, and returns
// its index, or -1. Goals that cannot be moved onto the mesh are skipped.
func (f *Follower) SetGoals(goals []math32.Vector3) int {
	s := &f.path.Settings
	locs := make([]Location, len(goals))
	for i, g := range goals {
		pt, p := f.path.ResolvePoint(g, f.radius, s.ResolveSearch, s.ResolveIterations)
		locs[i] = Location{Position: pt, Polygon: navmesh.InvalidID}
		if p != nil {
			locs[i].Polygon = p.ID
		}
	}
	f.index = 0
	f.findCache = f.findCache[:0]
	state, i := f.path.SearchMulti(Location{f.position, f.polygon}, locs)
	if i < 0 || !state.Found() {
		f.Stop()
		return -1
	}
	f.goal = locs[i].Position
	f.goalPoly = locs[i].Polygon
	return i
}

// Repath searches a new path from the agent position to the goal.
func (f *Follower) Repath() State {
	f.index = 0
	f.goalPoly = f.path.mesh.PolygonIDAt(f.goal)
	f.findCache = f.findCache[:0]
	return f.path.Search(Location{f.position, f.polygon}, Location{f.goal, f.goalPoly})
}

// Stop makes the current position the goal and discards the path.
func (f *Follower) Stop() {
	f.goal = f.position
	f.goalPoly = f.polygon
	f.path.Clear()
	f.findCache = f.findCache[:0]
}

// AtGoal returns whether the agent is in the goal polygon within distance
// d of the goal in X/Z.
func (f *Follower) AtGoal(d float32) bool {
	return f.polygon == f.goalPoly && xz(f.position).DistanceToSquared(xz(f.goal)) < d*d
}

// FindNextPolygon returns the id of the next polygon of type typ on the
// path, at least skip steps ahead, or [navmesh.InvalidID].
func (f *Follower) FindNextPolygon(typ, skip int) uint32 {
	if typ < 0 {
		return navmesh.InvalidID
	}
	start := f.index + skip
	for len(f.findCache) <= typ {
		f.findCache = append(f.findCache, -1)
	}
	switch c := f.findCache[typ]; {
	case c == -2:
		return navmesh.InvalidID
	case c >= start:
		return f.path.path[c].Poly
	}
	for i := start; i < len(f.path.path); i++ {
		p := f.path.mesh.Polygon(f.path.path[i].Poly)
		if p == nil {
			break
		}
		if p.Type == typ {
			f.findCache[typ] = i
			return p.ID
		}
	}
	f.findCache[typ] = -2
	return navmesh.InvalidID
}

// insetPoint returns the point at the distance of point from start on the
// line from start tangent to the circle of radius |inset| around point,
// passing it on the left for a positive inset.
func insetPoint(start, point math32.Vector3, inset float32) math32.Vector3 {
	if inset == 0 {
		return point
	}
	n := math32.Vec3(start.Z-point.Z, 0, point.X-start.X).Normal()
	dx, dz := start.X-point.X, start.Z-point.Z
	vv := dx*dx + dz*dz
	rr := inset * inset
	if vv < rr+1e-8 {
		// stuck on a corner
		return point.Add(start.Sub(point).Normal().MulScalar(math32.Abs(inset)))
	}
	x := math32.Sqrt(vv * rr / (vv - rr))
	sign := float32(1)
	if inset < 0 {
		sign = -1
	}
	target := point.Add(n.MulScalar(x * sign))
	return start.Add(target.Sub(start).MulScalar(math32.Abs(inset) / x))
}

// NextPoint returns the point the agent should head for. Corners of the
// path are passed at the agent radius, and boundary corners near the
// agent are avoided. It may repath when the agent has left the path.
func (f *Follower) NextPoint() Steer {
	pos := f.position
	if pos.DistanceToSquared(f.goal) < f.radius*f.radius {
		return Steer{f.goal, f.goal}
	}
	path := f.path.path
	end := len(path)
	if f.index < end && path[f.index].Poly != f.polygon {
		f.Repath()
		return Steer{pos, pos}
	}
	mesh := f.path.mesh
	p := mesh.Polygon(f.polygon)
	if p == nil {
		f.Repath()
		return Steer{pos, pos}
	}

	// the wedge of directions that reach the goal around every corner
	var target, normal [2]math32.Vector3
	mult := [2]float32{1, -1}
	edge := -1
	if f.index < end {
		edge = path[f.index].Edge
		a, b := p.EdgePoints(edge)
		target[0] = insetPoint(pos, a, f.radius)
		target[1] = insetPoint(pos, b, -f.radius)
	} else {
		target[0], target[1] = f.goal, f.goal
	}
	setNormal := func(side int) {
		t := target[side]
		normal[side] = math32.Vec3(t.Z-pos.Z, 0, pos.X-t.X)
		if side == 1 {
			normal[side] = normal[side].Negate()
		}
	}
	setNormal(0)
	setNormal(1)

	process := func(pt math32.Vector3, side int) {
		inset := insetPoint(pos, pt, f.radius*mult[side])
		if normal[side].Dot(inset.Sub(pos)) < 0 || normal[side].Dot(pt.Sub(pos)) < 0 {
			target[side] = inset
			setNormal(side)
		}
	}

	// boundary corners within reach before the first link
	type entry struct {
		poly *navmesh.Poly
		from int
	}
	stack := []entry{{p, edge}}
	seen := map[*navmesh.Poly]bool{p: true}
	rr := f.radius * f.radius
	for i := 0; i < len(stack); i++ {
		for e := range mesh.Edges(stack[i].poly) {
			if e.A == stack[i].from {
				continue
			}
			a, b := e.PointA(), e.PointB()
			if collide.ClosestPointOnSegment(pos, a, b).DistanceToSquared(pos) >= rr {
				continue
			}
			for _, pt := range [2]math32.Vector3{a, b} {
				m := pt.Sub(pos)
				if m.Dot(normal[0]) > 0 {
					process(pt, 0)
				}
				if m.Dot(normal[1]) > 0 {
					process(pt, 1)
				}
			}
			if c := e.Connected(); c != nil && !seen[c] {
				seen[c] = true
				stack = append(stack, entry{c, e.OppositeEdge()})
			}
		}
	}

	collapsed := normal[0].Dot(target[1].Sub(pos)) > 0
	for i := f.index + 1; i < end && !collapsed; i++ {
		p = mesh.LinkedPolygon(p, edge)
		edge = path[i].Edge
		if p == nil || p.ID != path[i].Poly {
			f.log().Debug("path broken", "step", i)
			f.Repath()
			return Steer{pos, pos}
		}
		a, b := p.EdgePoints(edge)
		process(a, 0)
		process(b, 1)
		collapsed = normal[0].Dot(target[1].Sub(pos)) > 0
	}

	if !collapsed {
		m := f.goal.Sub(pos)
		switch {
		case m.Dot(normal[0]) > 0:
			return Steer{target[0], f.goal}
		case m.Dot(normal[1]) > 0:
			return Steer{target[1], f.goal}
		}
		return Steer{f.goal, f.goal}
	}
	if target[0].DistanceToSquared(pos) < target[1].DistanceToSquared(pos) {
		return Steer{target[0], target[1]}
	}
	return Steer{target[1], target[0]}
}

// MoveCollide sweeps a circle of the given radius from pos by move against
// the mesh boundary. It returns the fraction of move that can be made
// before the first contact, and the direction along the boundary at that
// contact. The tangent passed in is kept when no contact is found.
func (f *Follower) MoveCollide(pos, move math32.Vector3, radius float32, tangent math32.Vector3) (float32, math32.Vector3) {
	if move.X == 0 && move.Z == 0 {
		return 1, tangent
	}
	mesh := f.path.mesh
	poly := mesh.PolygonAt(pos)
	if poly == nil {
		return 1, tangent
	}

	moved := float32(1)
	dir := xz(move)
	dist := dir.Length()
	dir = dir.DivScalar(dist)
	p2 := xz(pos)
	polys := []*navmesh.Poly{poly}
	for k := 0; k < len(polys); k++ {
		for e := range mesh.Edges(polys[k]) {
			a, b := xz(e.PointA()), xz(e.PointB())
			if next := e.Connected(); next != nil {
				if !containsPoly(polys, next) {
					a3 := math32.Vec3(a.X, pos.Y, a.Y)
					b3 := math32.Vec3(b.X, pos.Y, b.Y)
					if _, _, d := collide.ClosestPointsBetweenSegments(a3, b3, pos, pos.Add(move)); d < radius*radius {
						polys = append(polys, next)
					}
				}
				continue
			}

			normal := math32.Vec2(a.Y-b.Y, b.X-a.X)
			if normal.Dot(dir) > -1e-3 {
				continue
			}
			mod := radius / a.DistanceTo(b)
			// the point of the circle that reaches the edge line first
			c := p2.Sub(normal.MulScalar(mod))
			s, t, ok := collide.LineParams(c, c.Add(xz(move)), a, b)
			if !ok || s >= 1 || t <= -mod*2 || t >= 1+mod*2 {
				continue
			}
			onEdge := t >= 0 && t <= 1
			var hit math32.Vector2
			if onEdge {
				hit = a.Add(b.Sub(a).MulScalar(t))
			} else {
				hit = a
				if t > 0 {
					hit = b
				}
				m := hit.Sub(p2)
				vb := -m.Dot(dir)
				vc := m.Dot(m) - radius*radius
				disc := vb*vb - vc
				if disc < 1e-4 {
					continue
				}
				s = (-vb - math32.Sqrt(disc)) / dist
				if s < -1e-4 {
					continue
				}
			}
			if s <= -1 || s > moved {
				continue
			}
			var ht math32.Vector3
			if onEdge {
				ht = math32.Vec3(normal.Y, 0, -normal.X)
			} else {
				ht = math32.Vec3(pos.Z-hit.Y, 0, hit.X-pos.X)
			}
			if ht.Dot(move) < 0 {
				ht = ht.Negate()
			}
			if moved < 1e-4 {
				test := pos.Sub(math32.Vec3(hit.X, pos.Y, hit.Y))
				ht = ht.Normal()
				tangent = tangent.Normal()
				if test.Dot(ht) > test.Dot(tangent) {
					tangent = ht
				}
			} else {
				tangent = ht
			}
			moved = max(0, s)
		}
	}
	return moved, tangent
}

func containsPoly(list []*navmesh.Poly, p *navmesh.Poly) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

// Ray returns whether the straight line from the agent to target stays on
// polygons of types in filter.
func (f *Follower) Ray(target math32.Vector3, filter Filter) bool {
	return f.path.Ray(f.position, target, f.polygon, filter)
}

// ResolvePoint moves target onto the mesh at least radius away from its
// boundary, searching up to search for a polygon when target is off the
// mesh. It returns the moved point and whether it could be resolved.
func (f *Follower) ResolvePoint(target math32.Vector3, radius, search float32) (math32.Vector3, bool) {
	pt, p := f.path.ResolvePoint(target, radius, search, f.path.Settings.ResolveIterations)
	return pt, p != nil
}

// SetPositionAndResolve moves pos onto the mesh, searching up to search
// for a polygon, and sets it as the agent position. It returns false, and
// leaves the position unchanged, when no polygon is within reach.
func (f *Follower) SetPositionAndResolve(pos math32.Vector3, search float32) bool {
	pt, ok := f.ResolvePoint(pos, f.radius, search)
	if !ok {
		return false
	}
	f.SetPosition(pt)
	return true
}
