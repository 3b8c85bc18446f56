// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collide provides the segment, ray and triangle queries used by
// navigation mesh editing and path following. Topology tests work in the
// X/Z plane and take [math32.Vector2] values made from X and Z.
package collide
