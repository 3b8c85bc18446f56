// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package navio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/iox/jsonx"
	"cogentcore.org/navmesh"
	"github.com/vmihailenco/msgpack/v5"
)

// WriteBinary writes a snapshot of m to w in MessagePack.
func WriteBinary(w io.Writer, m *navmesh.Mesh) error {
	return msgpack.NewEncoder(w).Encode(FromMesh(m))
}

// ReadBinary reads a mesh written by [WriteBinary].
func ReadBinary(r io.Reader) (*navmesh.Mesh, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("navio: %w", err)
	}
	return s.Mesh()
}

// SaveBinary writes m to the named file in MessagePack.
func SaveBinary(m *navmesh.Mesh, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	bw := bufio.NewWriter(f)
	if err := WriteBinary(bw, m); err != nil {
		return err
	}
	return bw.Flush()
}

// OpenBinary reads a mesh from the named MessagePack file.
func OpenBinary(filename string) (*navmesh.Mesh, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBinary(bufio.NewReader(f))
}

// WriteJSON writes a snapshot of m to w in indented JSON.
func WriteJSON(w io.Writer, m *navmesh.Mesh) error {
	return jsonx.WriteIndent(FromMesh(m), w)
}

// ReadJSON reads a mesh written by [WriteJSON].
func ReadJSON(r io.Reader) (*navmesh.Mesh, error) {
	var s Snapshot
	if err := jsonx.Read(&s, r); err != nil {
		return nil, fmt.Errorf("navio: %w", err)
	}
	return s.Mesh()
}

// SaveJSON writes m to the named file in JSON.
func SaveJSON(m *navmesh.Mesh, filename string) error {
	return jsonx.Save(FromMesh(m), filename)
}

// OpenJSON reads a mesh from the named JSON file.
func OpenJSON(filename string) (*navmesh.Mesh, error) {
	var s Snapshot
	if err := jsonx.Open(&s, filename); err != nil {
		return nil, err
	}
	return s.Mesh()
}

// Format is a mesh file format.
type Format string

const (
	// Binary is MessagePack.
	Binary Format = "msgpack"

	// JSON is indented JSON.
	JSON Format = "json"
)

// FormatOf returns the format for the extension of filename: .json is
// [JSON], anything else [Binary].
func FormatOf(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return JSON
	}
	return Binary
}

// Save writes m to the named file in the given format. An empty format
// picks one from the file extension.
func Save(m *navmesh.Mesh, filename string, format Format) error {
	if format == "" {
		format = FormatOf(filename)
	}
	switch format {
	case JSON:
		return SaveJSON(m, filename)
	case Binary:
		return SaveBinary(m, filename)
	}
	return fmt.Errorf("navio: unknown format %q", format)
}

// Open reads a mesh from the named file, in the format given by its
// extension.
func Open(filename string) (*navmesh.Mesh, error) {
	if FormatOf(filename) == JSON {
		return OpenJSON(filename)
	}
	return OpenBinary(filename)
}
