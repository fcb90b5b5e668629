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

// Package lifecycle holds the process-wide lifecycle state and the bridge
// that turns asynchronous OS signals into cooperative quit requests.
//
// All subsystem logic runs on a single cooperative main thread. The only
// concurrent writer into State is the signal bridge, and it is restricted
// to one atomic store per delivery.
package lifecycle

import (
	"syscall"
	"time"
)

// State is the single process-wide lifecycle context. It is created at
// process start, passed by reference to every component, and never copied.
type State struct {
	startTime time.Time
	argv0     string
	args      []string

	// pendingSignal is written only by the signal bridge and read/reset
	// only by the main loop.
	pendingSignal atomicSignal

	quit         bool
	upgrading    bool
	firstStart   bool
	upgradeCount int
}

// NewState creates the lifecycle state from the original argument vector.
func NewState(args []string) *State {
	s := &State{
		startTime: time.Now(),
		args:      args,
	}
	if len(args) > 0 {
		s.argv0 = args[0]
	}
	return s
}

// StartTime returns the process start timestamp.
func (s *State) StartTime() time.Time { return s.startTime }

// Argv0 returns the binary path as invoked, kept for the upgrade re-exec.
func (s *State) Argv0() string { return s.argv0 }

// Args returns the original argument vector including Argv0.
func (s *State) Args() []string { return s.args }

// RequestQuit marks a cooperative quit request. Main loop only; there is no
// way to un-request a quit.
func (s *State) RequestQuit() { s.quit = true }

// QuitRequested reports whether a quit has been requested.
func (s *State) QuitRequested() bool { return s.quit }

// SetUpgrading marks this process image as the restore half of an upgrade.
func (s *State) SetUpgrading(v bool) { s.upgrading = v }

// Upgrading reports whether this launch restores an upgrade handoff.
func (s *State) Upgrading() bool { return s.upgrading }

// MarkFirstStart records that no configuration existed before this run.
func (s *State) MarkFirstStart() { s.firstStart = true }

// FirstStart reports whether this is the first run.
func (s *State) FirstStart() bool { return s.firstStart }

// UpgradeCount returns the number of completed live upgrades.
func (s *State) UpgradeCount() int { return s.upgradeCount }

// SetUpgradeCount installs the counter carried over through an upgrade
// handoff.
func (s *State) SetUpgradeCount(n int) {
	if n >= 0 {
		s.upgradeCount = n
	}
}

// IncrementUpgradeCount bumps the upgrade counter after a successful
// restore.
func (s *State) IncrementUpgradeCount() { s.upgradeCount++ }

// PostSignal records a delivered quit signal. Called only from the signal
// bridge; a later signal overwrites an unconsumed earlier one, the store is
// atomic and never torn.
func (s *State) PostSignal(sig syscall.Signal) {
	s.pendingSignal.store(sig)
}

// PendingSignal returns the pending signal without consuming it, or zero.
func (s *State) PendingSignal() syscall.Signal {
	return s.pendingSignal.load()
}

// ConsumeSignal returns the pending signal and resets it. The main loop is
// the only caller; a handler never clears the flag.
func (s *State) ConsumeSignal() syscall.Signal {
	return s.pendingSignal.swap(0)
}
