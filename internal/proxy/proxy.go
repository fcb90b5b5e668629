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

// Package proxy holds proxy/route definitions loaded from configuration.
// The network layer consults them when opening connections; this core only
// owns their lifetime.
package proxy

import "fmt"

// Proxy is one route definition.
type Proxy struct {
	Name    string
	Type    string // "http", "socks4", "socks5"
	Address string
	Port    int
}

// Addr returns the dial address of the proxy.
func (p *Proxy) Addr() string {
	return fmt.Sprintf("%s:%d", p.Address, p.Port)
}

// Manager owns all proxy definitions.
type Manager struct {
	proxies []*Proxy
}

// NewManager creates an empty proxy manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add registers a proxy definition.
func (m *Manager) Add(p *Proxy) {
	m.proxies = append(m.proxies, p)
}

// Get returns the proxy with the given name, or nil.
func (m *Manager) Get(name string) *Proxy {
	for _, p := range m.proxies {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// List returns all definitions in registration order.
func (m *Manager) List() []*Proxy {
	return m.proxies
}

// Count returns the number of definitions.
func (m *Manager) Count() int { return len(m.proxies) }

// FreeAll drops every definition. Safe on an empty manager.
func (m *Manager) FreeAll() {
	m.proxies = nil
}
