// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navio

import "cogentcore.org/navmesh"

// CarveLog records every carve made on a mesh as a [Script] that
// rebuilds the mesh when applied to an empty one.
type CarveLog struct {
	Script Script

	mesh *navmesh.Mesh
}

// NewCarveLog starts recording the carves of m. A carve hook already set
// on m keeps being called.
func NewCarveLog(m *navmesh.Mesh) *CarveLog {
	l := &CarveLog{mesh: m}
	prev := m.OnCarve
	m.OnCarve = func(brush *navmesh.Poly, precedence int, add bool) {
		l.record(brush, precedence, add)
		if prev != nil {
			prev(brush, precedence, add)
		}
	}
	return l
}

func (l *CarveLog) record(brush *navmesh.Poly, precedence int, add bool) {
	op := Op{Action: Remove, Points: make([][3]float32, brush.Len())}
	if add {
		op.Action = Add
	}
	op.Type = l.mesh.Types.Name(brush.Type)
	if op.Type == "" || precedence != l.mesh.Types.Precedence(brush.Type) {
		op.Precedence = &precedence
	}
	for i, pt := range brush.Points {
		op.Points[i] = [3]float32{pt.X, pt.Y, pt.Z}
	}
	l.Script.Ops = append(l.Script.Ops, op)
}

// Len returns the number of carves recorded.
func (l *CarveLog) Len() int { return len(l.Script.Ops) }

// Reset discards the recorded carves.
func (l *CarveLog) Reset() { l.Script.Ops = nil }

// Save writes the recorded script, with the current types of the mesh,
// to a YAML or TOML file.
func (l *CarveLog) Save(filename string) error {
	s := l.Script
	s.Types = nil
	for i, name := range l.mesh.Types.Names() {
		s.Types = append(s.Types, TypeDecl{Name: name, Precedence: l.mesh.Types.Precedence(i)})
	}
	return SaveScript(&s, filename)
}
