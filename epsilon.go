// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

// Tolerances used by the geometry predicates and the carve engine.
// They are tuned against each other: loosening one without the others
// tends to produce spurious intersections or missed joins.
const (
	// Epsilon is the general float tolerance, and the squared distance
	// below which two points are considered equal.
	Epsilon = 1e-6

	// parallelEpsilon is the cross product magnitude below which two
	// edges are treated as parallel by intersectLines.
	parallelEpsilon = 1e-4

	// rangeEpsilon widens the [0,1] parametric range of intersectLines.
	rangeEpsilon = 1e-4

	// spikeLow and spikeHigh bound the parametric window inside which an
	// edge contact counts as a crossing rather than a spike touch.
	spikeLow  = 1e-4
	spikeHigh = 1 - 1e-4

	// spikeSign is the dot product tolerance for the spike side test.
	spikeSign = 1e-3

	// stackHeight is the vertical tolerance when matching vertices of
	// polygons on different levels.
	stackHeight = 0.1

	// snapEpsilon snaps intersection parameters to the edge ends.
	snapEpsilon = 1e-5

	// reuseEpsilon is how close two parameters on the same brush edge must
	// be for the earlier value to be reused.
	reuseEpsilon = 1e-4

	// arcEpsilon is the angular tie breaker for vertex intersections.
	arcEpsilon = 1e-4

	// coincidentEpsilon is the normal distance below which two edges are
	// treated as lying on the same line.
	coincidentEpsilon = 1e-2

	// straightEpsilon is the normal distance below which a vertex is on
	// the line between its neighbours.
	straightEpsilon = 1e-4

	// collectMargin pads the brush bounds when collecting polygons.
	collectMargin = 1e-4

	// doubleOffset separates the two records of a doubled intersection.
	doubleOffset = 1e-4
)
