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

package lifecycle

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// atomicSignal is the lock-free cell holding the pending quit signal.
type atomicSignal struct {
	v atomic.Int32
}

func (a *atomicSignal) store(sig syscall.Signal) { a.v.Store(int32(sig)) }
func (a *atomicSignal) load() syscall.Signal     { return syscall.Signal(a.v.Load()) }
func (a *atomicSignal) swap(sig syscall.Signal) syscall.Signal {
	return syscall.Signal(a.v.Swap(int32(sig)))
}

// Bridge installs the OS signal handlers. SIGINT and SIGPIPE are ignored.
// SIGHUP, SIGQUIT and SIGTERM each set the pending-signal flag to their own
// identity; that single atomic store is the only effect of a delivery — no
// allocation, no I/O, no subsystem call. The main loop observes the flag at
// safe points and turns it into an orderly shutdown.
type Bridge struct {
	state     *State
	ch        chan os.Signal
	done      chan struct{}
	installed bool
}

// NewBridge creates a signal bridge for the given lifecycle state.
func NewBridge(state *State) *Bridge {
	return &Bridge{state: state}
}

// Install arms the bridge. Must run before any operation that could
// legitimately raise a handled signal.
func (b *Bridge) Install() {
	if b.installed {
		return
	}
	signal.Ignore(syscall.SIGINT, syscall.SIGPIPE)

	b.ch = make(chan os.Signal, 8)
	b.done = make(chan struct{})
	signal.Notify(b.ch, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)

	go b.forward()
	b.installed = true
}

// forward drains deliveries into the atomic flag. This goroutine is the
// sole writer of State.pendingSignal.
func (b *Bridge) forward() {
	defer close(b.done)
	for sig := range b.ch {
		if s, ok := sig.(syscall.Signal); ok {
			b.state.PostSignal(s)
		}
	}
}

// Uninstall disarms the bridge and restores default signal disposition.
// No-op if the bridge was never installed; safe to call twice.
func (b *Bridge) Uninstall() {
	if !b.installed {
		return
	}
	signal.Stop(b.ch)
	signal.Reset(syscall.SIGINT, syscall.SIGPIPE)
	close(b.ch)
	<-b.done
	b.installed = false
}

// Installed reports whether the bridge is armed.
func (b *Bridge) Installed() bool { return b.installed }
