// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/navmesh"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Action is what a carve operation does with its brush.
type Action string

const (
	// Add carves the brush area into the mesh with the brush type.
	Add Action = "add"

	// Remove cuts the brush area out of the mesh.
	Remove Action = "remove"
)

// Script is a list of carve operations, with the area types they use.
// Scripts are stored as YAML or TOML.
type Script struct {

	// Types are registered in order before any operation is applied.
	Types []TypeDecl `yaml:"types,omitempty" toml:"types,omitempty"`

	// Ops are applied in order.
	Ops []Op `yaml:"ops" toml:"ops"`
}

// Op is one carve of a script.
type Op struct {

	// Action is add or remove.
	Action Action `yaml:"action" toml:"action"`

	// Type is the name of the brush area type. Optional for remove.
	Type string `yaml:"type,omitempty" toml:"type,omitempty"`

	// Precedence overrides the precedence of Type for this carve.
	Precedence *int `yaml:"precedence,omitempty" toml:"precedence,omitempty"`

	// Points are the brush vertices as x, y, z.
	Points [][3]float32 `yaml:"points,flow" toml:"points"`
}

// Apply carves the operation into m.
func (op *Op) Apply(m *navmesh.Mesh) error {
	var add bool
	switch op.Action {
	case Add:
		add = true
		if op.Type == "" {
			return errors.New("navio: add without a type")
		}
	case Remove:
	default:
		return fmt.Errorf("navio: unknown action %q", op.Action)
	}
	typ := 0
	if op.Type != "" {
		typ = m.Types.ID(op.Type)
	}
	brush := navmesh.NewPoly(typ, vectors(op.Points)...)
	if op.Precedence != nil {
		return m.CarvePrecedence(brush, *op.Precedence, add)
	}
	return m.Carve(brush, add)
}

// Apply registers the script types in m and applies every operation.
// A failing operation does not stop the ones after it; the errors of all
// failed operations are returned together.
func (s *Script) Apply(m *navmesh.Mesh) error {
	for _, t := range s.Types {
		m.Types.Set(t.Name, t.Precedence)
	}
	var errs []error
	for i := range s.Ops {
		if err := s.Ops[i].Apply(m); err != nil {
			errs = append(errs, fmt.Errorf("op %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// isTOML returns whether filename has a .toml extension; every other
// script is YAML.
func isTOML(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".toml")
}

// OpenScript reads a script from a YAML or TOML file, chosen by the file
// extension.
func OpenScript(filename string) (*Script, error) {
	s := &Script{}
	if isTOML(filename) {
		return s, tomlx.Open(s, filename)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s, ReadScriptYAML(f, s)
}

// ReadScriptYAML decodes a YAML script from r into s.
func ReadScriptYAML(r io.Reader, s *Script) error {
	err := yaml.NewDecoder(r).Decode(s)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// WriteScriptYAML writes s to w as YAML.
func WriteScriptYAML(w io.Writer, s *Script) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// WriteScriptTOML writes s to w as TOML.
func WriteScriptTOML(w io.Writer, s *Script) error {
	return toml.NewEncoder(w).SetArraysMultiline(false).Encode(s)
}

// SaveScript writes s to a YAML or TOML file, chosen by the file
// extension.
func SaveScript(s *Script, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	if isTOML(filename) {
		return WriteScriptTOML(f, s)
	}
	return WriteScriptYAML(f, s)
}
