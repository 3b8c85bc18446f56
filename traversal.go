// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh/collide"
)

// Threshold is a narrow gap next to a linked edge of a polygon: the
// segment From-To runs from a vertex of the linked edge to the closest
// point on a nearby boundary wall.
type Threshold struct {

	// Width is the length of the gap.
	Width float32

	// Normal is the X/Z normal of the gap line, not normalized.
	Normal math32.Vector2

	// D is the plane offset of the gap line along Normal.
	D float32

	// From and To are the ends of the gap in X/Z.
	From, To math32.Vector2
}

// Blocks returns whether an agent of the given radius moving along a-b
// would have to squeeze through the gap.
func (t Threshold) Blocks(a, b math32.Vector2, radius float32) bool {
	if t.Width >= 2*radius {
		return false
	}
	_, _, hit := collide.IntersectSegments(a, b, t.From, t.To)
	return hit
}

// Traversal returns the gaps narrower than 2*maxRadius around the linked
// edges of p, computing and caching them on first use.
func (m *Mesh) Traversal(p *Poly, maxRadius float32) []Threshold {
	if !p.traversalDone || p.traversalRadius != maxRadius {
		m.calculateTraversal(p, maxRadius)
	}
	return p.traversal
}

// calculateTraversal finds, for both ends of every linked edge of p, the
// boundary walls closer than the edge is wide, following links into
// neighbouring polygons.
func (m *Mesh) calculateTraversal(p *Poly, maxRadius float32) {
	p.traversal = p.traversal[:0]
	maxGap := 4 * maxRadius * maxRadius
	for edge := range m.Edges(p) {
		if !edge.Linked() {
			continue
		}
		a, b := xz(edge.PointA()), xz(edge.PointB())
		width2 := a.DistanceToSquared(b)
		m.findGaps(p, bit(edge.A)|bit(p.prev(edge.A)), a, width2, maxGap)
		m.findGaps(p, bit(edge.A)|bit(edge.B), b, width2, maxGap)
	}
	p.traversalDone = true
	p.traversalRadius = maxRadius
}

func bit(i int) uint64 {
	if i < 0 || i >= 64 {
		return 0
	}
	return 1 << uint(i)
}

// findGaps walks outwards from the point from, starting in p.
func (m *Mesh) findGaps(p *Poly, skip uint64, from math32.Vector2, limit, maxGap float32) {
	type visit struct {
		poly *Poly
		skip uint64
	}
	seen := map[*Poly]bool{p: true}
	stack := []visit{{p, skip}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for e := range m.Edges(cur.poly) {
			if cur.skip&bit(e.A) != 0 {
				continue
			}
			ea := xz(e.PointA())
			ed := xz(e.PointB()).Sub(ea)
			dd := ed.Dot(ed)
			if dd == 0 {
				continue
			}
			t := ed.Dot(from.Sub(ea)) / dd
			if t <= 0 || t >= 1 {
				continue
			}
			pt := ea.Add(ed.MulScalar(t))
			dist := pt.DistanceToSquared(from)
			if dist >= limit {
				continue
			}
			if c := e.Connected(); c != nil {
				if !seen[c] {
					seen[c] = true
					stack = append(stack, visit{c, bit(e.OppositeEdge())})
				}
				continue
			}
			if dist >= maxGap {
				continue
			}
			normal := math32.Vec2(pt.Y-from.Y, from.X-pt.X)
			p.traversal = append(p.traversal, Threshold{Width: math32.Sqrt(dist), Normal: normal, D: normal.Dot(from), From: from, To: pt})
		}
	}
}
