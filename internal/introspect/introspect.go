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

// Package introspect is the introspection registry: runtime-queryable
// descriptions of core data structures, used by plugins and remote tooling
// to discover fields without compile-time coupling.
package introspect

import "sort"

// Descriptor describes one exposed structure.
type Descriptor struct {
	Name   string
	Fields map[string]string // field name -> type label
}

// Registry holds all registered descriptors.
type Registry struct {
	byName map[string]*Descriptor
}

// NewRegistry creates an empty introspection registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register installs or replaces a descriptor.
func (r *Registry) Register(d *Descriptor) {
	if r.byName == nil {
		r.byName = make(map[string]*Descriptor)
	}
	r.byName[d.Name] = d
}

// Get returns the descriptor for name, or nil.
func (r *Registry) Get(name string) *Descriptor {
	return r.byName[name]
}

// Names returns the registered descriptor names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of descriptors.
func (r *Registry) Count() int { return len(r.byName) }

// End releases all descriptors. Safe on an empty registry.
func (r *Registry) End() {
	r.byName = nil
}
