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

// Package upgrade drives the live-upgrade protocol: capture live state to
// handoff files under the home directory, replace the process image with
// the same binary plus an upgrade marker, restore the state in the new
// image, then clean the handoff up.
//
// The handoff files exist if and only if a capture has occurred and has
// not yet been consumed by a successful restore and finalize. A restore
// never runs twice for the same capture, and finalize never runs before a
// successful restore.
package upgrade

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/parleychat/parley/internal/lifecycle"
	"github.com/parleychat/parley/internal/session"
)

const (
	// DirName is the handoff directory under home.
	DirName = "handoff"

	// ManifestName is the handoff manifest file.
	ManifestName = "manifest.yaml"

	// ManifestVersion is the current handoff format version. A mismatch
	// preserves the files and fails the restore.
	ManifestVersion = 1
)

var (
	// ErrNoHandoff is returned when restore finds no captured state.
	ErrNoHandoff = errors.New("no upgrade handoff present")

	// ErrVersionMismatch is returned when the handoff was written by an
	// incompatible format version.
	ErrVersionMismatch = errors.New("upgrade handoff version mismatch")
)

// Manifest is the persisted handoff state.
type Manifest struct {
	Version      int               `yaml:"version"`
	CapturedAt   time.Time         `yaml:"captured_at"`
	UpgradeCount int               `yaml:"upgrade_count"`
	Sessions     []session.Session `yaml:"sessions"`
}

// Controller drives both halves of the upgrade protocol.
type Controller struct {
	home string
	log  *slog.Logger
}

// New creates an upgrade controller rooted at the home directory.
func New(home string, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{home: home, log: logger}
}

func (c *Controller) dir() string          { return filepath.Join(c.home, DirName) }
func (c *Controller) manifestPath() string { return filepath.Join(c.dir(), ManifestName) }

// Pending reports whether a captured handoff awaits restore.
func (c *Controller) Pending() bool {
	_, err := os.Stat(c.manifestPath())
	return err == nil
}

// Capture serializes the live state into the handoff directory and flushes
// it durably. It must complete before the process image replaces itself:
// the old image never exits without a fully captured state on disk.
func (c *Controller) Capture(state *lifecycle.State, sessions []session.Session) error {
	if err := os.MkdirAll(c.dir(), 0700); err != nil {
		return fmt.Errorf("cannot create handoff directory: %w", err)
	}

	m := Manifest{
		Version:      ManifestVersion,
		CapturedAt:   time.Now(),
		UpgradeCount: state.UpgradeCount(),
		Sessions:     sessions,
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("cannot encode handoff manifest: %w", err)
	}

	// Write-temp, fsync, rename, fsync-dir: the manifest is either fully
	// present or absent, never truncated.
	tmp := c.manifestPath() + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot write handoff manifest: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write handoff manifest: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot flush handoff manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot close handoff manifest: %w", err)
	}
	if err := os.Rename(tmp, c.manifestPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot commit handoff manifest: %w", err)
	}
	if d, err := os.Open(c.dir()); err == nil {
		_ = d.Sync()
		d.Close()
	}

	c.log.Info("upgrade state captured",
		"sessions", len(m.Sessions),
		"path", c.manifestPath())
	return nil
}

// Restore loads the captured state into the new process image. Runs
// strictly after the secure-store and configuration reads and strictly
// before the startup banner. On success the upgrade counter carried in the
// manifest is installed and incremented; the handoff files stay on disk
// until Finalize. On failure the files are preserved for retry or manual
// recovery.
func (c *Controller) Restore(state *lifecycle.State, sessions *session.Manager) error {
	data, err := os.ReadFile(c.manifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoHandoff
		}
		return fmt.Errorf("cannot read handoff manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("corrupt handoff manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, m.Version, ManifestVersion)
	}

	sessions.Install(m.Sessions)
	state.SetUpgradeCount(m.UpgradeCount)
	state.IncrementUpgradeCount()

	c.log.Info("upgrade state restored",
		"sessions", len(m.Sessions),
		"upgrade_count", state.UpgradeCount())
	return nil
}

// Finalize removes the handoff files. Called only after every later init
// step of the restored image succeeded; never before a successful restore.
func (c *Controller) Finalize() error {
	if err := os.RemoveAll(c.dir()); err != nil {
		return fmt.Errorf("cannot remove handoff files: %w", err)
	}
	c.log.Info("upgrade finalized")
	return nil
}
