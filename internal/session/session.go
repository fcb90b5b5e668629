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

// Package session holds the live session entities. Their full protocol
// state belongs to external subsystems; this core tracks identity and the
// minimal fields the upgrade handoff serializes and restores.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is one open session (typically a server connection with its
// buffers).
type Session struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Server    string    `yaml:"server"`
	Buffers   []string  `yaml:"buffers,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Manager owns all open sessions. Main thread only.
type Manager struct {
	sessions []*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{}
}

// Open creates and registers a new session.
func (m *Manager) Open(name, server string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Server:    server,
		CreatedAt: time.Now(),
	}
	m.sessions = append(m.sessions, s)
	return s
}

// Close removes the session with the given ID, reporting whether it
// existed.
func (m *Manager) Close(id string) bool {
	for i, s := range m.sessions {
		if s.ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the session with the given ID, or nil.
func (m *Manager) Get(id string) *Session {
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// List returns the open sessions in creation order.
func (m *Manager) List() []*Session {
	return m.sessions
}

// Count returns the number of open sessions.
func (m *Manager) Count() int { return len(m.sessions) }

// Snapshot returns value copies of every session, for the upgrade capture.
func (m *Manager) Snapshot() []Session {
	out := make([]Session, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = *s
		out[i].Buffers = append([]string(nil), s.Buffers...)
	}
	return out
}

// Install replaces the open set with restored sessions. Used by the
// upgrade restore path; never merges.
func (m *Manager) Install(restored []Session) {
	m.sessions = make([]*Session, len(restored))
	for i := range restored {
		s := restored[i]
		m.sessions[i] = &s
	}
}

// Reset drops all sessions. Safe on an empty manager.
func (m *Manager) Reset() {
	m.sessions = nil
}
