// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/navmesh"
	"cogentcore.org/navmesh/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pond returns a mesh built from testdata/pond.yaml.
func pond(t *testing.T) *navmesh.Mesh {
	t.Helper()
	s, err := OpenScript(filepath.Join("testdata", "pond.yaml"))
	require.NoError(t, err)
	m := navmesh.New()
	m.Logger = diag.Discard()
	require.NoError(t, s.Apply(m))
	return m
}

func typeAreas(m *navmesh.Mesh) map[string]float32 {
	areas := map[string]float32{}
	for p := range m.Polygons() {
		areas[m.Types.Name(p.Type)] += p.Area()
	}
	return areas
}

func assertPondAreas(t *testing.T, m *navmesh.Mesh) {
	t.Helper()
	areas := typeAreas(m)
	tolassert.EqualTol(t, 89, areas["grass"], 1e-3)
	tolassert.EqualTol(t, 8, areas["water"], 1e-3)
	tolassert.EqualTol(t, 3, areas["road"], 1e-3)
}

// assertSameMesh asserts that b has the polygons, ids and links of a.
func assertSameMesh(t *testing.T, a, b *navmesh.Mesh) {
	t.Helper()
	assert.Equal(t, a.Types.Names(), b.Types.Names())
	require.Equal(t, a.Len(), b.Len())
	for p := range a.Polygons() {
		q := b.Polygon(p.ID)
		require.NotNil(t, q, "polygon %d", p.ID)
		assert.Equal(t, p.Points, q.Points)
		assert.Equal(t, p.Type, q.Type)
		assert.Equal(t, p.Tag, q.Tag)
		for e := range p.Len() {
			assert.Equal(t, a.LinkedID(p, e), b.LinkedID(q, e), "polygon %d edge %d", p.ID, e)
			assert.Equal(t, a.LinkedEdge(p, e), b.LinkedEdge(q, e), "polygon %d edge %d", p.ID, e)
		}
	}
	assert.True(t, b.Validate())
}

func TestOpenScript(t *testing.T) {
	m := pond(t)
	assertPondAreas(t, m)
	assert.Equal(t, []string{"grass", "water", "road"}, m.Types.Names())

	s, err := OpenScript(filepath.Join("testdata", "pond.toml"))
	require.NoError(t, err)
	require.Len(t, s.Ops, 3)
	assert.Equal(t, Add, s.Ops[1].Action)
	assert.Equal(t, "water", s.Ops[1].Type)
	assert.Nil(t, s.Ops[1].Precedence)
	assert.Equal(t, [3]float32{6, 0, 3}, s.Ops[1].Points[1])

	mt := navmesh.New()
	mt.Logger = diag.Discard()
	require.NoError(t, s.Apply(mt))
	assertPondAreas(t, mt)

	_, err = OpenScript(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestScriptApplyErrors(t *testing.T) {
	m := navmesh.New()
	m.Logger = diag.Discard()
	s := &Script{Ops: []Op{
		{Action: Add, Type: "grass", Points: [][3]float32{{0, 0, 0}, {1, 0, 0}}},
		{Action: "paint", Type: "grass"},
		{Action: Add, Points: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}}},
		{Action: Add, Type: "grass", Points: [][3]float32{{0, 0, 0}, {4, 0, 0}, {4, 0, 4}, {0, 0, 4}}},
	}}
	err := s.Apply(m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, navmesh.ErrInvalidBrush))
	assert.Contains(t, err.Error(), "op 1")
	assert.Contains(t, err.Error(), "op 2")
	assert.NotContains(t, err.Error(), "op 3")

	// the valid operation still applied
	assert.Equal(t, 1, m.Len())
}

func TestScriptPrecedence(t *testing.T) {
	m := navmesh.New()
	m.Logger = diag.Discard()
	high := 5
	s := &Script{Ops: []Op{
		{Action: Add, Type: "road", Precedence: &high, Points: [][3]float32{{0, 0, 0}, {2, 0, 0}, {2, 0, 2}, {0, 0, 2}}},
		{Action: Remove, Points: [][3]float32{{-1, 0, -1}, {3, 0, -1}, {3, 0, 3}, {-1, 0, 3}}},
	}}
	require.NoError(t, s.Apply(m))
	// road was carved at precedence 5 but its type keeps precedence 0
	assert.Equal(t, 0, m.Len())
}

func TestSaveScript(t *testing.T) {
	s, err := OpenScript(filepath.Join("testdata", "pond.yaml"))
	require.NoError(t, err)
	p := 2
	s.Ops[2].Precedence = &p

	for _, name := range []string{"pond.yaml", "pond.toml"} {
		t.Run(name, func(t *testing.T) {
			fn := filepath.Join(t.TempDir(), name)
			require.NoError(t, SaveScript(s, fn))
			back, err := OpenScript(fn)
			require.NoError(t, err)
			assert.Equal(t, s, back)
		})
	}

	var buf bytes.Buffer
	require.NoError(t, WriteScriptTOML(&buf, s))
	assert.Contains(t, buf.String(), "[[ops]]")
	assert.Equal(t, 1, strings.Count(buf.String(), "precedence"))
}

func TestBinary(t *testing.T) {
	m := pond(t)
	var buf bytes.Buffer
	require.NoError(t, WriteBinary(&buf, m))
	back, err := ReadBinary(&buf)
	require.NoError(t, err)
	assertSameMesh(t, m, back)
	assertPondAreas(t, back)

	fn := filepath.Join(t.TempDir(), "pond.nav")
	require.NoError(t, Save(m, fn, ""))
	back, err = Open(fn)
	require.NoError(t, err)
	assertSameMesh(t, m, back)

	_, err = ReadBinary(strings.NewReader("not a mesh"))
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	m := pond(t)
	fn := filepath.Join(t.TempDir(), "pond.json")
	require.NoError(t, Save(m, fn, ""))
	back, err := OpenJSON(fn)
	require.NoError(t, err)
	assertSameMesh(t, m, back)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, m))
	assert.Contains(t, buf.String(), `"polygons"`)
	back, err = ReadJSON(&buf)
	require.NoError(t, err)
	assertSameMesh(t, m, back)
}

func TestSnapshot(t *testing.T) {
	m := pond(t)
	a := m.AddPolygon(navmesh.Rect(0, 0, 20, 0, 21, 1))
	a.Tag = 7
	s := FromMesh(m)
	assert.Equal(t, Version, s.Version)
	assert.Len(t, s.Polygons, m.Len())

	links := 0
	for p := range m.Polygons() {
		for e := range p.Len() {
			if p.Linked(e) {
				links++
			}
		}
	}
	assert.Equal(t, links/2, len(s.Links))

	back, err := s.Mesh()
	require.NoError(t, err)
	assertSameMesh(t, m, back)
	assert.Equal(t, int16(7), back.Polygon(a.ID).Tag)

	// new polygons never reuse restored ids
	n := back.AddPolygon(navmesh.Rect(0, 0, 30, 0, 31, 1))
	assert.Nil(t, m.Polygon(n.ID))

	s.Version = 99
	_, err = s.Mesh()
	assert.Error(t, err)

	s.Version = Version
	s.Polygons = append(s.Polygons, s.Polygons[0])
	_, err = s.Mesh()
	assert.ErrorIs(t, err, navmesh.ErrDuplicateID)
}

func TestCarveLog(t *testing.T) {
	m := navmesh.New()
	m.Logger = diag.Discard()
	m.Types = navmesh.NewTypes("grass", "water")
	m.Types.Set("road", 5)
	calls := 0
	m.OnCarve = func(*navmesh.Poly, int, bool) { calls++ }
	l := NewCarveLog(m)

	require.NoError(t, m.Carve(navmesh.Rect(0, 0, 0, 0, 10, 10), true))
	require.NoError(t, m.Carve(navmesh.Rect(1, 0, 3, 3, 6, 6), true))
	require.NoError(t, m.CarvePrecedence(navmesh.Rect(2, 0, 5, 4, 8, 5), 1, true))
	require.NoError(t, m.Carve(navmesh.Rect(0, 0, 8, 8, 12, 12), false))
	assert.Equal(t, 4, calls)
	require.Equal(t, 4, l.Len())
	assert.Equal(t, Remove, l.Script.Ops[3].Action)
	assert.Nil(t, l.Script.Ops[1].Precedence)
	require.NotNil(t, l.Script.Ops[2].Precedence)
	assert.Equal(t, 1, *l.Script.Ops[2].Precedence)

	fn := filepath.Join(t.TempDir(), "log.yaml")
	require.NoError(t, l.Save(fn))
	s, err := OpenScript(fn)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Types[2].Precedence)

	replay := navmesh.New()
	replay.Logger = diag.Discard()
	require.NoError(t, s.Apply(replay))
	want, got := typeAreas(m), typeAreas(replay)
	for name, area := range want {
		tolassert.EqualTol(t, area, got[name], 1e-3)
	}
	assert.Equal(t, m.Len(), replay.Len())

	l.Reset()
	assert.Zero(t, l.Len())
}
