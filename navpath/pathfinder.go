// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

import (
	"container/heap"
	"log/slog"
	"slices"

	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh"
	"cogentcore.org/navmesh/diag"
)

// Location is a position on the mesh and the id of the polygon containing
// it.
type Location struct {
	Position math32.Vector3
	Polygon  uint32
}

// Node is one step of a path: the polygon and the edge through which the
// path leaves it.
type Node struct {
	Poly uint32
	Edge int
}

// Pathfinder searches paths across the links of a navigation mesh. The
// result of the last search is kept until the next one.
//
// A Pathfinder only reads the mesh, except for the lazily computed link
// widths and traversal gaps it caches there; it must not be used while
// the mesh is being carved.
type Pathfinder struct {

	// Settings are the agent and search parameters.
	Settings Settings

	// Logger receives diagnostics. nil means [diag.Logger].
	Logger *slog.Logger

	mesh   *navmesh.Mesh
	filter Filter
	state  State
	path   []Node
	length float32
}

// New returns a pathfinder for the given mesh with default settings that
// may traverse every area type.
func New(mesh *navmesh.Mesh) *Pathfinder {
	return &Pathfinder{mesh: mesh, filter: FilterAll, Settings: DefaultSettings()}
}

func (pf *Pathfinder) log() *slog.Logger { return diag.Or(pf.Logger) }

// Mesh returns the mesh searched.
func (pf *Pathfinder) Mesh() *navmesh.Mesh { return pf.mesh }

// SetMesh sets the mesh to search and clears the last result.
func (pf *Pathfinder) SetMesh(m *navmesh.Mesh) {
	pf.mesh = m
	pf.Clear()
}

// Filter returns the types that may be traversed.
func (pf *Pathfinder) Filter() Filter { return pf.filter }

// SetFilter sets the types that may be traversed and clears the last
// result.
func (pf *Pathfinder) SetFilter(f Filter) {
	pf.filter = f
	pf.Clear()
}

// SetRadius sets the agent radius.
func (pf *Pathfinder) SetRadius(r float32) { pf.Settings.Radius = r }

// Clear discards the last result.
func (pf *Pathfinder) Clear() {
	pf.path = pf.path[:0]
	pf.length = 0
	pf.state = None
}

// State returns the outcome of the last search.
func (pf *Pathfinder) State() State { return pf.state }

// Path returns the steps of the last path found. The slice is owned by the
// pathfinder and valid until the next search.
func (pf *Pathfinder) Path() []Node { return pf.path }

// Length returns the length of the last path found, measured through the
// link midpoints.
func (pf *Pathfinder) Length() float32 { return pf.length }

// SearchPoints searches a path between two points, locating the polygons
// that contain them.
func (pf *Pathfinder) SearchPoints(a, b math32.Vector3) State {
	return pf.Search(Location{a, pf.mesh.PolygonIDAt(a)}, Location{b, pf.mesh.PolygonIDAt(b)})
}

// SearchPolygons searches a path between the vertex averages of two
// polygons.
func (pf *Pathfinder) SearchPolygons(a, b uint32) State {
	pa, pb := pf.mesh.Polygon(a), pf.mesh.Polygon(b)
	if pa == nil || pb == nil {
		pf.Clear()
		pf.state = Invalid
		return pf.state
	}
	return pf.Search(Location{vertexAverage(pa), a}, Location{vertexAverage(pb), b})
}

func vertexAverage(p *navmesh.Poly) math32.Vector3 {
	var c math32.Vector3
	for _, pt := range p.Points {
		c = c.Add(pt)
	}
	return c.DivScalar(float32(p.Len()))
}

// Search searches a path from start to goal.
func (pf *Pathfinder) Search(start, goal Location) State {
	state, _ := pf.SearchMulti(start, []Location{goal})
	return state
}

// SearchMulti searches a path from start to the closest reachable of
// several goals, and returns the index of the goal reached, or -1.
// Goals that are not on the mesh are ignored.
func (pf *Pathfinder) SearchMulti(start Location, goals []Location) (State, int) {
	pf.Clear()
	sp := pf.mesh.Polygon(start.Polygon)
	if sp == nil {
		pf.state = Invalid
		return pf.state, -1
	}
	targets := map[uint32]int{}
	for i, g := range goals {
		if pf.mesh.Polygon(g.Polygon) == nil {
			continue
		}
		if _, ok := targets[g.Polygon]; !ok {
			targets[g.Polygon] = i
		}
	}
	if len(targets) == 0 {
		pf.state = Invalid
		return pf.state, -1
	}
	if i, ok := targets[sp.ID]; ok {
		pf.length = start.Position.DistanceTo(goals[i].Position)
		pf.state = Success
		return pf.state, i
	}
	return pf.search(sp, start.Position, goals, targets)
}

// searchNode is a traversed link in the open or closed set.
type searchNode struct {
	poly   *navmesh.Poly // polygon entered
	from   *navmesh.Poly // polygon left
	edge   int           // edge of from crossed
	point  math32.Vector3
	cost   float32
	value  float32
	parent *searchNode
	index  int
	closed bool
}

// openList is a priority queue of search nodes by value.
type openList []*searchNode

func (o openList) Len() int           { return len(o) }
func (o openList) Less(i, j int) bool { return o[i].value < o[j].value }
func (o openList) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openList) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*o)
	*o = append(*o, n)
}

func (o *openList) Pop() any {
	old := *o
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*o = old[:len(old)-1]
	n.index = -1
	return n
}

// linkKey identifies a link independent of the direction it is crossed.
type linkKey struct {
	a, b   uint32
	ea, eb int
}

func keyOf(p *navmesh.Poly, e int, q *navmesh.Poly, f int) linkKey {
	if p.ID < q.ID {
		return linkKey{p.ID, q.ID, e, f}
	}
	return linkKey{q.ID, p.ID, f, e}
}

// search runs A* from polygon sp over link midpoints. The heuristic is the
// straight distance to the closest goal.
func (pf *Pathfinder) search(sp *navmesh.Poly, from math32.Vector3, goals []Location, targets map[uint32]int) (State, int) {
	heuristic := func(p math32.Vector3) float32 {
		h := float32(math32.Infinity)
		for _, g := range goals {
			if _, ok := targets[g.Polygon]; ok {
				h = min(h, p.DistanceTo(g.Position))
			}
		}
		return h
	}
	radius := pf.Settings.Radius
	checkGaps := radius > 0 && radius <= pf.Settings.MaxRadius

	root := &searchNode{poly: sp, point: from, value: heuristic(from)}
	best := root
	var open openList
	nodes := map[linkKey]*searchNode{}
	node := root
	for {
		if _, ok := targets[node.poly.ID]; ok {
			break
		}
		for e := range pf.mesh.Edges(node.poly) {
			if !e.Linked() {
				continue
			}
			next := e.Connected()
			if next == nil {
				pf.log().Warn("path link broken", "poly", node.poly.ID, "edge", e.A)
				continue
			}
			if !pf.filter.Has(next.Type) {
				continue
			}
			key := keyOf(node.poly, e.A, next, e.OppositeEdge())
			n := nodes[key]
			if n != nil && n.closed {
				continue
			}
			if pf.mesh.LinkWidth(node.poly, e.A) < 2*radius {
				continue
			}
			p := node.poly.EdgeCentre(e.A)
			if checkGaps && pf.blocked(node.poly, node.point, p, radius) {
				continue
			}
			cost := node.cost + node.point.DistanceTo(p)
			value := cost + heuristic(p)
			switch {
			case n == nil:
				n = &searchNode{poly: next, from: node.poly, edge: e.A, point: p}
				nodes[key] = n
				n.cost, n.value, n.parent = cost, value, node
				heap.Push(&open, n)
			case value < n.value:
				n.poly, n.from, n.edge = next, node.poly, e.A
				n.cost, n.value, n.parent = cost, value, node
				heap.Fix(&open, n.index)
			}
		}
		if open.Len() == 0 {
			node = nil
			break
		}
		node = heap.Pop(&open).(*searchNode)
		node.closed = true
		if node.value-node.cost < best.value-best.cost {
			best = node
		}
	}

	state, goal := Success, -1
	if node == nil {
		if !pf.Settings.Partial || best == root {
			pf.state = Fail
			return pf.state, -1
		}
		node, state = best, Partial
	} else {
		goal = targets[node.poly.ID]
		pf.length = node.cost + node.point.DistanceTo(goals[goal].Position)
	}
	if state == Partial {
		pf.length = node.cost
	}
	for n := node; n.parent != nil; n = n.parent {
		pf.path = append(pf.path, Node{Poly: n.from.ID, Edge: n.edge})
	}
	slices.Reverse(pf.path)
	pf.state = state
	return pf.state, goal
}

// blocked returns whether moving from a to b inside p squeezes through a
// gap too narrow for the radius.
func (pf *Pathfinder) blocked(p *navmesh.Poly, a, b math32.Vector3, radius float32) bool {
	for _, t := range pf.mesh.Traversal(p, pf.Settings.MaxRadius) {
		if t.Blocks(xz(a), xz(b), radius) {
			return true
		}
	}
	return false
}

func xz(v math32.Vector3) math32.Vector2 { return math32.Vec2(v.X, v.Z) }
