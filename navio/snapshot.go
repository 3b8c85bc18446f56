// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package navio reads and writes navigation meshes and the carve scripts
// that build them.
package navio

import (
	"fmt"

	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh"
)

// Version is the snapshot format version written by this package.
const Version = 1

// Snapshot is the serializable form of a [navmesh.Mesh]: its types, its
// polygons with their ids, and the links between them.
type Snapshot struct {
	Version  int        `json:"version" msgpack:"version"`
	Types    []TypeDecl `json:"types" msgpack:"types"`
	Polygons []Polygon  `json:"polygons" msgpack:"polygons"`
	Links    []Link     `json:"links" msgpack:"links"`
}

// TypeDecl declares an area type and its carve precedence.
type TypeDecl struct {
	Name       string `json:"name" msgpack:"name" yaml:"name" toml:"name"`
	Precedence int    `json:"precedence,omitempty" msgpack:"precedence" yaml:"precedence,omitempty" toml:"precedence,omitempty"`
}

// Polygon is a polygon of a snapshot.
type Polygon struct {
	ID     uint32       `json:"id" msgpack:"id"`
	Type   int          `json:"type" msgpack:"type"`
	Tag    int16        `json:"tag,omitempty" msgpack:"tag"`
	Points [][3]float32 `json:"points" msgpack:"points"`
}

// Link joins edge EdgeA of polygon A with edge EdgeB of polygon B.
type Link struct {
	A     uint32 `json:"a" msgpack:"a"`
	EdgeA int    `json:"ea" msgpack:"ea"`
	B     uint32 `json:"b" msgpack:"b"`
	EdgeB int    `json:"eb" msgpack:"eb"`
}

// FromMesh returns a snapshot of m. Each link is recorded once.
func FromMesh(m *navmesh.Mesh) *Snapshot {
	s := &Snapshot{Version: Version}
	for i, name := range m.Types.Names() {
		s.Types = append(s.Types, TypeDecl{Name: name, Precedence: m.Types.Precedence(i)})
	}
	for p := range m.Polygons() {
		sp := Polygon{ID: p.ID, Type: p.Type, Tag: p.Tag, Points: make([][3]float32, p.Len())}
		for i, pt := range p.Points {
			sp.Points[i] = [3]float32{pt.X, pt.Y, pt.Z}
		}
		s.Polygons = append(s.Polygons, sp)
		for e := range m.Edges(p) {
			q, f := e.Connected(), e.OppositeEdge()
			if q == nil || q.ID < p.ID || (q == p && f < e.A) {
				continue
			}
			s.Links = append(s.Links, Link{A: p.ID, EdgeA: e.A, B: q.ID, EdgeB: f})
		}
	}
	return s
}

// Mesh builds a new mesh from the snapshot.
func (s *Snapshot) Mesh() (*navmesh.Mesh, error) {
	if s.Version != Version {
		return nil, fmt.Errorf("navio: unsupported snapshot version %d", s.Version)
	}
	m := navmesh.New()
	for _, t := range s.Types {
		m.Types.Set(t.Name, t.Precedence)
	}
	for _, sp := range s.Polygons {
		if len(sp.Points) < 3 {
			return nil, fmt.Errorf("navio: polygon %d has %d points", sp.ID, len(sp.Points))
		}
		p := navmesh.NewPoly(sp.Type, vectors(sp.Points)...)
		p.Tag = sp.Tag
		if _, err := m.AddPolygonID(p, sp.ID); err != nil {
			return nil, err
		}
	}
	for _, l := range s.Links {
		if err := m.Connect(l.A, l.EdgeA, l.B, l.EdgeB); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func vectors(pts [][3]float32) []math32.Vector3 {
	v := make([]math32.Vector3, len(pts))
	for i, pt := range pts {
		v[i] = math32.Vec3(pt[0], pt[1], pt[2])
	}
	return v
}
