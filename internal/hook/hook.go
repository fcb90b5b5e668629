// Copyright 2026 The Parley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hook is the hook registry: named callbacks that core and plugins
// register and that are torn down in bulk on shutdown.
//
// The registry is confined to the main thread; it is never touched from
// signal handler context.
package hook

import (
	"errors"
	"fmt"
)

// Kind classifies a hook.
type Kind string

const (
	// KindInfo answers synchronous informational queries (version, uptime).
	KindInfo Kind = "info"
	// KindSignal reacts to internal application signals.
	KindSignal Kind = "signal"
	// KindCompletion supplies completion candidates for a command argument.
	KindCompletion Kind = "completion"
)

// ErrNotFound is returned when no hook matches a lookup.
var ErrNotFound = errors.New("hook not found")

// Callback is invoked when a hook fires. The returned string is the hook's
// answer for info/completion kinds and ignored for signal kinds.
type Callback func(args string) (string, error)

// Hook is one registered callback.
type Hook struct {
	ID       int64
	Kind     Kind
	Name     string
	Callback Callback
}

// Registry owns all hooks of the process.
type Registry struct {
	nextID int64
	hooks  []*Hook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a callback and returns its handle.
func (r *Registry) Add(kind Kind, name string, cb Callback) *Hook {
	r.nextID++
	h := &Hook{ID: r.nextID, Kind: kind, Name: name, Callback: cb}
	r.hooks = append(r.hooks, h)
	return h
}

// Remove unregisters a single hook. Unknown handles are ignored.
func (r *Registry) Remove(h *Hook) {
	if h == nil {
		return
	}
	for i, cur := range r.hooks {
		if cur.ID == h.ID {
			r.hooks = append(r.hooks[:i], r.hooks[i+1:]...)
			return
		}
	}
}

// Call fires the first hook matching kind and name.
func (r *Registry) Call(kind Kind, name, args string) (string, error) {
	for _, h := range r.hooks {
		if h.Kind == kind && h.Name == name {
			return h.Callback(args)
		}
	}
	return "", fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
}

// Send fires every signal hook with the given name.
func (r *Registry) Send(name, args string) {
	for _, h := range r.hooks {
		if h.Kind == KindSignal && h.Name == name {
			_, _ = h.Callback(args)
		}
	}
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int { return len(r.hooks) }

// RemoveAll drops every hook. Called once during ordered teardown; safe to
// call on an empty registry.
func (r *Registry) RemoveAll() {
	r.hooks = nil
}
