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

// Package keybind maps key chords to command lines. The (external) input
// layer resolves key presses through this table.
package keybind

import "github.com/parleychat/parley/internal/strutil"

// Binding associates one key chord with a command line.
type Binding struct {
	Key     string
	Command string
}

// Table holds all active key bindings.
type Table struct {
	binds map[string]string
}

// NewTable creates an empty binding table.
func NewTable() *Table {
	return &Table{binds: make(map[string]string)}
}

// InitDefaults installs the default core bindings.
func (t *Table) InitDefaults() {
	t.Bind("ctrl-q", "/quit")
	t.Bind("meta-u", "/upgrade")
	t.Bind("ctrl-l", "/redraw")
}

// Bind installs or replaces a binding.
func (t *Table) Bind(key, cmd string) {
	if t.binds == nil {
		t.binds = make(map[string]string)
	}
	t.binds[strutil.Shared(key)] = cmd
}

// Unbind removes a binding, reporting whether it existed.
func (t *Table) Unbind(key string) bool {
	_, ok := t.binds[key]
	delete(t.binds, key)
	return ok
}

// Lookup returns the command line bound to key, or "".
func (t *Table) Lookup(key string) string {
	return t.binds[key]
}

// Count returns the number of bindings.
func (t *Table) Count() int { return len(t.binds) }

// End releases all bindings. Safe on an empty table.
func (t *Table) End() {
	t.binds = nil
}
