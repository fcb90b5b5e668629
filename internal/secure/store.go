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

package secure

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	// ServiceName is the keyring service name for parley credentials.
	ServiceName = "parley"

	// EnvPassphrase supplies the file-backend passphrase.
	EnvPassphrase = "PARLEY_PASSPHRASE"
)

// InitCrypto primes the cryptographic subsystem: it verifies the system
// entropy source before anything derives keys. Must run before the secure
// store initializes. Skipped entirely under --no-crypto.
func InitCrypto() error {
	var probe [1]byte
	if _, err := rand.Read(probe[:]); err != nil {
		return fmt.Errorf("system entropy source unavailable: %w", err)
	}
	return nil
}

// Store is the in-memory view of the secure-credential store, backed by
// the keyring or an encrypted file.
type Store struct {
	backend Backend
	values  map[string]string
	loaded  bool
	dirty   bool
}

// NewStore creates a store over an explicit backend. Tests use this.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// Init selects a backend and prepares the store. The OS keyring is
// preferred; when unreachable the encrypted file under homeDir is used
// with the passphrase from $PARLEY_PASSPHRASE.
func Init(homeDir string) (*Store, error) {
	kr := NewKeyringBackend(ServiceName)
	if kr.Available() {
		return NewStore(kr), nil
	}
	path := filepath.Join(homeDir, FileName)
	return NewStore(NewFileBackend(path, os.Getenv(EnvPassphrase))), nil
}

// BackendName returns the active backend's name.
func (s *Store) BackendName() string {
	if s.backend == nil {
		return "none"
	}
	return s.backend.Name()
}

// Read loads all credentials from the backend. Runs after crypto init and
// before the configuration read (configuration values may reference
// credentials).
func (s *Store) Read() error {
	values, err := s.backend.Load()
	if err != nil {
		return err
	}
	s.values = values
	s.loaded = true
	s.dirty = false
	return nil
}

// Get returns a credential and whether it exists.
func (s *Store) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set stores a credential in memory; Write persists it.
func (s *Store) Set(name, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[name] = value
	s.dirty = true
}

// Delete removes a credential, reporting whether it existed.
func (s *Store) Delete(name string) bool {
	_, ok := s.values[name]
	if ok {
		delete(s.values, name)
		s.dirty = true
	}
	return ok
}

// Keys returns the stored credential names, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Write persists the credential map if anything changed since Read.
func (s *Store) Write() error {
	if s == nil || s.backend == nil || !s.dirty {
		return nil
	}
	if err := s.backend.Store(s.values); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Free zeroes and releases the in-memory credentials. Safe to call twice.
func (s *Store) Free() {
	if s == nil {
		return
	}
	for k := range s.values {
		s.values[k] = ""
		delete(s.values, k)
	}
	s.values = nil
	s.loaded = false
}
