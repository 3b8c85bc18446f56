// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diag

import (
	"context"
	"log/slog"
	"sync"
)

// Event is one recorded diagnostic.
type Event struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// Recorder is a [slog.Handler] that keeps every record it receives,
// so tests can assert on the events an operation emitted.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	attrs  []slog.Attr
	parent *Recorder
}

// NewRecorder returns a new [Recorder] and a logger writing to it.
func NewRecorder() (*Recorder, *slog.Logger) {
	r := &Recorder{}
	return r, slog.New(r)
}

func (r *Recorder) root() *Recorder {
	if r.parent != nil {
		return r.parent.root()
	}
	return r
}

func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	ev := Event{Level: rec.Level, Message: rec.Message, Attrs: map[string]any{}}
	for _, a := range r.attrs {
		ev.Attrs[a.Key] = a.Value.Any()
	}
	rec.Attrs(func(a slog.Attr) bool {
		ev.Attrs[a.Key] = a.Value.Any()
		return true
	})
	root := r.root()
	root.mu.Lock()
	root.events = append(root.events, ev)
	root.mu.Unlock()
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Recorder{parent: r, attrs: append(append([]slog.Attr{}, r.attrs...), attrs...)}
}

// WithGroup is not supported; attributes stay flat.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	root := r.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	return append([]Event(nil), root.events...)
}

// Count returns how many events had the given message.
func (r *Recorder) Count(msg string) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Message == msg {
			n++
		}
	}
	return n
}

// CountLevel returns how many events were at or above the given level.
func (r *Recorder) CountLevel(l slog.Level) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Level >= l {
			n++
		}
	}
	return n
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	root := r.root()
	root.mu.Lock()
	root.events = nil
	root.mu.Unlock()
}
