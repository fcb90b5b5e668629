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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store owns the configuration file lifecycle: Init (defaults on first
// start), Read, Write, Free.
type Store struct {
	path       string
	opts       *Options
	firstStart bool
	loaded     bool
}

// NewStore creates a store for the configuration file under homeDir.
func NewStore(homeDir string) *Store {
	return &Store{path: filepath.Join(homeDir, FileName)}
}

// Path returns the configuration file path.
func (s *Store) Path() string { return s.path }

// Init prepares the store. When the file does not exist this is the first
// start: defaults are written out. Failure here is fatal for the process.
func (s *Store) Init() error {
	s.opts = Defaults()
	if _, err := os.Stat(s.path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot stat config file %q: %w", s.path, err)
		}
		s.firstStart = true
		if err := s.Write(); err != nil {
			return fmt.Errorf("cannot create config file: %w", err)
		}
	}
	return nil
}

// Read loads the file over the defaults. Runs after the secure store read.
func (s *Store) Read() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("cannot read config file %q: %w", s.path, err)
	}
	opts := Defaults()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("cannot parse config file %q: %w", s.path, err)
	}
	s.opts = opts
	s.loaded = true
	return nil
}

// Write persists the current options atomically (temp file + rename).
func (s *Store) Write() error {
	if s.opts == nil {
		return nil
	}
	data, err := yaml.Marshal(s.opts)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write config: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot sync config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot close config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot replace config: %w", err)
	}
	return nil
}

// Options returns the current option tree, or defaults when the store was
// freed (teardown paths still reading options get stable values).
func (s *Store) Options() *Options {
	if s.opts == nil {
		return Defaults()
	}
	return s.opts
}

// FirstStart reports whether Init created the file.
func (s *Store) FirstStart() bool { return s.firstStart }

// Loaded reports whether Read succeeded. Until then the store only holds
// defaults, and a save-on-exit would clobber the file with them.
func (s *Store) Loaded() bool { return s.loaded }

// Free releases the in-memory options. Safe to call twice.
func (s *Store) Free() {
	s.opts = nil
	s.loaded = false
}
