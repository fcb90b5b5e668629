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

// Package layout persists the window/layout arrangement across runs in a
// SQLite database under the home directory. The arrangement is stored on
// exit and applied on a non-upgrade start; an upgrade restore keeps the
// live arrangement instead.
package layout

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// FileName is the layout database under the home directory.
const FileName = "layout.db"

// Window is one saved window slot.
type Window struct {
	Slot   int
	Buffer string
	Width  int
	Height int
}

// Store is the open layout database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the layout database under homeDir.
func Open(homeDir string) (*Store, error) {
	path := filepath.Join(homeDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open layout db %q: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS windows (
			slot   INTEGER PRIMARY KEY,
			buffer TEXT NOT NULL,
			width  INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create layout schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the stored arrangement with the given windows.
func (s *Store) Save(windows []Window) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("layout save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM windows`); err != nil {
		return fmt.Errorf("layout save: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO windows (slot, buffer, width, height) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("layout save: %w", err)
	}
	defer stmt.Close()
	for _, w := range windows {
		if _, err := stmt.Exec(w.Slot, w.Buffer, w.Width, w.Height); err != nil {
			return fmt.Errorf("layout save slot %d: %w", w.Slot, err)
		}
	}
	return tx.Commit()
}

// Load returns the stored arrangement ordered by slot.
func (s *Store) Load() ([]Window, error) {
	rows, err := s.db.Query(`SELECT slot, buffer, width, height FROM windows ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("layout load: %w", err)
	}
	defer rows.Close()

	var out []Window
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.Slot, &w.Buffer, &w.Width, &w.Height); err != nil {
			return nil, fmt.Errorf("layout load: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Close closes the database. Safe on nil and safe to call twice.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
