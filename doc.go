// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package navmesh provides an editable navigation mesh: a set of convex
// polygons on the xz plane, each with an area type, joined by links along
// shared edges.
//
// The mesh is edited by carving brushes into it with [Mesh.Carve]. Adding
// a brush replaces the area under it with the brush type, unless that
// area has a type of higher precedence; removing a brush cuts its area
// out. Every carve leaves the mesh made of linked convex polygons.
//
// Path searches and path following over a mesh are in package navpath,
// and persistence in package navio.
package navmesh
