// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navpath

// State is the outcome of the last search of a [Pathfinder].
type State int32

const (
	// None means no search has been run since the last clear.
	None State = iota

	// Success means a path to the goal was found.
	Success

	// Fail means no path to the goal exists.
	Fail

	// Partial means the goal could not be reached and the path leads to
	// the reachable polygon closest to it. See [Settings.Partial].
	Partial

	// Invalid means the start or goal is not on the mesh.
	Invalid
)

var stateNames = [...]string{"None", "Success", "Fail", "Partial", "Invalid"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

// Found returns whether the state has a usable path.
func (s State) Found() bool { return s == Success || s == Partial }
