// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command navmesh carves navigation meshes from brush scripts and
// searches paths across them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"cogentcore.org/core/math32"
	"cogentcore.org/navmesh"
	"cogentcore.org/navmesh/diag"
	"cogentcore.org/navmesh/navio"
	"cogentcore.org/navmesh/navpath"
	"github.com/fsnotify/fsnotify"
)

//go:generate core generate -add-types -add-funcs

// Config is the configuration information for the navmesh cli.
type Config struct {

	// Script is the carve script, in YAML or TOML, applied by carve and
	// watch.
	Script string `posarg:"0" required:"-"`

	// Mesh is the mesh file to start from. Carving with no mesh starts
	// from an empty one.
	Mesh string `flag:"m,mesh"`

	// Out is the file the carved mesh is saved to.
	Out string `flag:"o,out" default:"navmesh.nav"`

	// Format is the format of Out: msgpack or json. It is chosen from the
	// extension of Out if empty.
	Format string `flag:"f,format"`

	// From is the start of the path, as x,y,z.
	From string `cmd:"path"`

	// To is the goal of the path, as x,y,z.
	To string `cmd:"path"`

	// Radius is the agent radius used for the path.
	Radius float32 `cmd:"path"`

	// Verbose reports carve traces.
	Verbose bool `flag:"v,verbose"`
}

// stdout receives the command reports.
var stdout io.Writer = os.Stdout

func main() { //types:skip
	opts := cli.DefaultOptions("navmesh", "Carve navigation meshes from brush scripts and search paths across them.")
	cli.Run(opts, &Config{}, Carve, Path, Info, Watch)
}

func (c *Config) logger() *slog.Logger {
	if c.Verbose {
		diag.SetLevel(slog.LevelDebug)
	}
	return diag.Logger()
}

// open returns the mesh in c.Mesh, or an empty mesh if c.Mesh is empty.
func (c *Config) open() (*navmesh.Mesh, error) {
	if c.Mesh == "" {
		m := navmesh.New()
		m.Logger = c.logger()
		return m, nil
	}
	m, err := navio.Open(c.Mesh)
	if err != nil {
		return nil, err
	}
	m.Logger = c.logger()
	return m, nil
}

// Carve applies the script to the mesh and saves the result.
// Operations that fail are reported without stopping the others.
func Carve(c *Config) error { //cli:cmd -root
	if c.Script == "" {
		return errors.New("navmesh: no script given")
	}
	s, err := navio.OpenScript(c.Script)
	if err != nil {
		return err
	}
	m, err := c.open()
	if err != nil {
		return err
	}
	applyErr := s.Apply(m)
	if !m.Validate() {
		return errors.Join(applyErr, fmt.Errorf("navmesh: %s produced an invalid mesh", c.Script))
	}
	if err := navio.Save(m, c.Out, navio.Format(c.Format)); err != nil {
		return errors.Join(applyErr, err)
	}
	fmt.Fprintf(stdout, "%s: %d ops, %d polygons -> %s\n", c.Script, len(s.Ops), m.Len(), c.Out)
	return applyErr
}

// Path searches a path across the mesh between From and To and prints
// the polygons it goes through.
func Path(c *Config) error {
	if c.Mesh == "" {
		return errors.New("navmesh: no mesh given")
	}
	from, err := parseVector(c.From)
	if err != nil {
		return fmt.Errorf("navmesh: from: %w", err)
	}
	to, err := parseVector(c.To)
	if err != nil {
		return fmt.Errorf("navmesh: to: %w", err)
	}
	m, err := c.open()
	if err != nil {
		return err
	}
	pf := navpath.New(m)
	pf.Logger = m.Logger
	pf.SetRadius(c.Radius)
	state := pf.SearchPoints(from, to)
	fmt.Fprintf(stdout, "%s length %g\n", state, pf.Length())
	for _, n := range pf.Path() {
		p := m.Polygon(n.Poly)
		fmt.Fprintf(stdout, "  %d %s edge %d\n", n.Poly, m.Types.Name(p.Type), n.Edge)
	}
	if !state.Found() {
		return fmt.Errorf("navmesh: no path from %v to %v", from, to)
	}
	return nil
}

// Info prints the polygon and link counts of the mesh, the area of each
// type, and whether the mesh is valid.
func Info(c *Config) error {
	if c.Mesh == "" {
		return errors.New("navmesh: no mesh given")
	}
	m, err := c.open()
	if err != nil {
		return err
	}
	links := 0
	areas := make([]float32, m.Types.Len())
	for p := range m.Polygons() {
		for e := range p.Len() {
			if p.Linked(e) {
				links++
			}
		}
		if p.Type >= 0 && p.Type < len(areas) {
			areas[p.Type] += p.Area()
		}
	}
	fmt.Fprintf(stdout, "polygons %d\nlinks %d\n", m.Len(), links/2)
	for i, name := range m.Types.Names() {
		fmt.Fprintf(stdout, "%s %.2f (precedence %d)\n", name, areas[i], m.Types.Precedence(i))
	}
	fmt.Fprintf(stdout, "valid %t\n", m.Validate())
	return nil
}

// Watch carves the script, then carves it again every time it is
// written, until interrupted.
func Watch(c *Config) error {
	if c.Script == "" {
		return errors.New("navmesh: no script given")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watch(ctx, c, nil)
}

// watch runs [Carve] on every change of the script until ctx is done.
// Each carve result is sent to done if it is not nil.
func watch(ctx context.Context, c *Config, done chan<- error) error { //types:skip
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	// editors often replace the file, so the directory is watched
	script := filepath.Clean(c.Script)
	if err := w.Add(filepath.Dir(script)); err != nil {
		return err
	}
	log := c.logger()
	run := func() {
		err := Carve(c)
		errors.Log(err)
		if done != nil {
			done <- err
		}
	}
	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != script || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("script changed", "file", event.Name, "op", event.Op.String())
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch", "err", err)
		}
	}
}

// parseVector parses a point written as x,y,z.
func parseVector(s string) (math32.Vector3, error) { //types:skip
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return math32.Vector3{}, fmt.Errorf("%q is not x,y,z", s)
	}
	var v [3]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return math32.Vector3{}, err
		}
		v[i] = float32(x)
	}
	return math32.Vec3(v[0], v[1], v[2]), nil
}
