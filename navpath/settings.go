// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

import (
	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/core/base/reflectx"
)

// Settings are the agent and search parameters of a [Pathfinder] and the
// [Follower] using it.
type Settings struct {

	// Radius is the agent radius. Links narrower than twice the radius are
	// not traversed.
	Radius float32 `default:"0"`

	// MaxRadius is the largest radius for which narrow gaps next to links
	// are recorded. Gaps are only checked for agents with a radius of at
	// most this value.
	MaxRadius float32 `default:"2"`

	// Partial makes a failed search return the path to the reachable
	// polygon closest to the goal, with state [Partial].
	Partial bool

	// ResolveSearch is the distance within which goals off the mesh are
	// moved onto it.
	ResolveSearch float32 `default:"1"`

	// ResolveIterations is the number of passes used to push a point
	// away from mesh boundaries.
	ResolveIterations int `default:"4"`

	// ScanDepth is the number of path steps a follower looks ahead for its
	// new position before searching the whole mesh.
	ScanDepth int `default:"6"`
}

// DefaultSettings returns the settings with all defaults applied.
func DefaultSettings() Settings {
	var s Settings
	errors.Log(reflectx.SetFromDefaultTags(&s))
	return s
}

// OpenSettings reads settings from a TOML file. Fields missing from the
// file keep their defaults.
func OpenSettings(filename string) (Settings, error) {
	s := DefaultSettings()
	err := tomlx.Open(&s, filename)
	return s, err
}
