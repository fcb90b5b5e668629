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
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePostAndConsumeSignal(t *testing.T) {
	s := NewState([]string{"parley"})

	assert.Equal(t, syscall.Signal(0), s.PendingSignal())

	s.PostSignal(syscall.SIGTERM)
	assert.Equal(t, syscall.SIGTERM, s.PendingSignal())

	// A later delivery overwrites an unconsumed earlier one.
	s.PostSignal(syscall.SIGHUP)
	assert.Equal(t, syscall.SIGHUP, s.PendingSignal())

	got := s.ConsumeSignal()
	assert.Equal(t, syscall.SIGHUP, got)
	assert.Equal(t, syscall.Signal(0), s.PendingSignal())
}

func TestStateSignalNoTornWrites(t *testing.T) {
	s := NewState(nil)
	signals := []syscall.Signal{syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(sig syscall.Signal) {
			defer wg.Done()
			s.PostSignal(sig)
		}(signals[i%len(signals)])
	}
	wg.Wait()

	got := s.ConsumeSignal()
	assert.Contains(t, signals, got, "flag must always hold a delivered signal identity")
	assert.Equal(t, syscall.Signal(0), s.ConsumeSignal())
}

func TestStateUpgradeCounter(t *testing.T) {
	s := NewState(nil)
	assert.Equal(t, 0, s.UpgradeCount())

	s.SetUpgradeCount(3)
	s.IncrementUpgradeCount()
	assert.Equal(t, 4, s.UpgradeCount())

	s.SetUpgradeCount(-1) // ignored
	assert.Equal(t, 4, s.UpgradeCount())
}

func TestStateQuitIsSticky(t *testing.T) {
	s := NewState(nil)
	assert.False(t, s.QuitRequested())
	s.RequestQuit()
	assert.True(t, s.QuitRequested())
}

func TestBridgeDeliversRealSignal(t *testing.T) {
	s := NewState(nil)
	b := NewBridge(s)
	b.Install()
	defer b.Uninstall()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGHUP))

	deadline := time.Now().Add(2 * time.Second)
	for s.PendingSignal() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, syscall.SIGHUP, s.ConsumeSignal())
}

func TestBridgeInstallUninstallIdempotent(t *testing.T) {
	b := NewBridge(NewState(nil))

	b.Uninstall() // never installed: no-op
	b.Install()
	b.Install()
	assert.True(t, b.Installed())
	b.Uninstall()
	b.Uninstall()
	assert.False(t, b.Installed())
}

func TestStateArgvImage(t *testing.T) {
	args := []string{"/usr/bin/parley", "-p"}
	s := NewState(args)
	assert.Equal(t, "/usr/bin/parley", s.Argv0())
	assert.Equal(t, args, s.Args())
	assert.WithinDuration(t, time.Now(), s.StartTime(), time.Minute)
}
