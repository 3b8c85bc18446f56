// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import "cogentcore.org/core/math32"

// InvalidID is the polygon id returned when no polygon matches.
const InvalidID = ^uint32(0)

// Poly is a navigation polygon: an ordered ring of points in the X/Z plane
// (Y is up) with one adjacency slot per edge. Edge i runs from Points[i] to
// Points[(i+1)%Len()]. Valid polygons are wound so that [Side] of every
// consecutive vertex triple is non-negative.
//
// A Poly that is not owned by a [Mesh] is a plain value, and is used as
// the brush argument of [Mesh.Carve].
type Poly struct {

	// ID is the unique id of the polygon in its mesh.
	ID uint32

	// Points are the polygon vertices.
	Points []math32.Vector3

	// Type is the index of the area type in the mesh [Types].
	Type int

	// Tag is additional user data copied to every polygon derived from this one.
	Tag int16

	// Centre is the area centroid, updated when the polygon enters a mesh.
	Centre math32.Vector3

	// Extents are the half extents of the polygon bounds around Centre.
	Extents math32.Vector3

	// ref is the arena slot of the polygon, 0 when detached.
	ref polyRef

	// links holds the link in each edge slot, 0 for a boundary edge.
	links []linkRef

	// inMesh is set while the polygon is a member of the mesh list.
	inMesh bool

	traversal       []Threshold
	traversalDone   bool
	traversalRadius float32
}

// NewPoly returns a detached polygon of the given type.
func NewPoly(typ int, points ...math32.Vector3) *Poly {
	p := &Poly{Type: typ, Points: append([]math32.Vector3(nil), points...)}
	p.links = make([]linkRef, len(p.Points))
	UpdateCentre(p)
	return p
}

// NewPoly2 returns a detached polygon of the given type from X/Z points
// at height y.
func NewPoly2(typ int, y float32, points ...math32.Vector2) *Poly {
	pts := make([]math32.Vector3, len(points))
	for i, pt := range points {
		pts[i] = math32.Vec3(pt.X, y, pt.Y)
	}
	return NewPoly(typ, pts...)
}

// Rect returns a detached axis aligned rectangle polygon at height y,
// wound the valid way.
func Rect(typ int, y, x0, z0, x1, z1 float32) *Poly {
	return NewPoly2(typ, y, math32.Vec2(x0, z0), math32.Vec2(x1, z0), math32.Vec2(x1, z1), math32.Vec2(x0, z1))
}

// Len returns the number of points, which is also the number of edges.
func (p *Poly) Len() int { return len(p.Points) }

// Linked returns whether edge e is connected to another polygon.
func (p *Poly) Linked(e int) bool {
	return e >= 0 && e < len(p.links) && p.links[e] != 0
}

// Area returns the area of the polygon in the X/Z plane. It is positive
// for validly wound polygons and negative for holes.
func (p *Poly) Area() float32 {
	var sum float32
	n := len(p.Points)
	for j, i := n-1, 0; i < n; j, i = i, i+1 {
		a, b := p.Points[j], p.Points[i]
		sum += (a.X - b.X) * (a.Z + b.Z)
	}
	return sum * 0.5
}

// EdgePoints returns the end points of edge e.
func (p *Poly) EdgePoints(e int) (a, b math32.Vector3) {
	n := len(p.Points)
	return p.Points[e%n], p.Points[(e+1)%n]
}

// EdgeCentre returns the mid point of edge e.
func (p *Poly) EdgeCentre(e int) math32.Vector3 {
	a, b := p.EdgePoints(e)
	return a.Add(b).MulScalar(0.5)
}

// Bounds returns the bounding box of the points.
func (p *Poly) Bounds() math32.Box3 {
	bb := math32.B3Empty()
	for _, pt := range p.Points {
		bb.ExpandByPoint(pt)
	}
	return bb
}

// Clone returns a detached copy of the polygon without links.
func (p *Poly) Clone() *Poly {
	c := &Poly{ID: p.ID, Type: p.Type, Tag: p.Tag, Centre: p.Centre, Extents: p.Extents}
	c.Points = append([]math32.Vector3(nil), p.Points...)
	c.links = make([]linkRef, len(p.Points))
	return c
}

func (p *Poly) next(i int) int { return (i + 1) % len(p.Points) }

func (p *Poly) prev(i int) int { return (i - 1 + len(p.Points)) % len(p.Points) }

func refOf(p *Poly) polyRef {
	if p == nil {
		return 0
	}
	return p.ref
}
