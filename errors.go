// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navmesh

import "cogentcore.org/core/base/errors"

var (
	// ErrInvalidBrush is returned for a brush with fewer than three points.
	ErrInvalidBrush = errors.New("navmesh: brush needs at least 3 points")

	// ErrConstruct is returned when the construct walk of a carve does not
	// close within its step bound. The collected polygons are put back,
	// possibly without some of their links, and the mesh may need rebuilding.
	ErrConstruct = errors.New("navmesh: construct did not converge")

	// ErrNotFound is returned for an unknown polygon id.
	ErrNotFound = errors.New("navmesh: polygon not found")

	// ErrDuplicateID is returned when adding a polygon with an id already in use.
	ErrDuplicateID = errors.New("navmesh: duplicate polygon id")
)
