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

package upgrade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleychat/parley/internal/lifecycle"
	"github.com/parleychat/parley/internal/session"
)

func TestCaptureRestoreFinalizeRoundTrip(t *testing.T) {
	home := t.TempDir()

	// Old image: three open sessions.
	oldState := lifecycle.NewState([]string{"parley"})
	oldSessions := session.NewManager()
	oldSessions.Open("libera", "irc.libera.chat")
	oldSessions.Open("oftc", "irc.oftc.net")
	oldSessions.Open("work", "irc.example.com")

	c := New(home, nil)
	assert.False(t, c.Pending())
	require.NoError(t, c.Capture(oldState, oldSessions.Snapshot()))
	assert.True(t, c.Pending())

	// New image after re-exec.
	newState := lifecycle.NewState([]string{"parley", "--upgrade"})
	newSessions := session.NewManager()
	require.NoError(t, c.Restore(newState, newSessions))

	assert.Equal(t, 3, newSessions.Count())
	assert.Equal(t, oldState.UpgradeCount()+1, newState.UpgradeCount())

	// Handoff survives until finalize, then disappears.
	assert.True(t, c.Pending())
	require.NoError(t, c.Finalize())
	assert.False(t, c.Pending())
	assert.NoDirExists(t, filepath.Join(home, DirName))
}

func TestUpgradeCountIncrementsByExactlyOnePerCycle(t *testing.T) {
	home := t.TempDir()
	c := New(home, nil)

	state := lifecycle.NewState(nil)
	sessions := session.NewManager()
	sessions.Open("a", "srv")

	for want := 1; want <= 3; want++ {
		require.NoError(t, c.Capture(state, sessions.Snapshot()))

		state = lifecycle.NewState(nil)
		sessions = session.NewManager()
		require.NoError(t, c.Restore(state, sessions))
		require.NoError(t, c.Finalize())

		assert.Equal(t, want, state.UpgradeCount())
		assert.Equal(t, 1, sessions.Count())
	}
}

func TestRestoreWithoutCapture(t *testing.T) {
	c := New(t.TempDir(), nil)
	err := c.Restore(lifecycle.NewState(nil), session.NewManager())
	assert.ErrorIs(t, err, ErrNoHandoff)
}

func TestRestoreCannotRunTwiceForSameCapture(t *testing.T) {
	home := t.TempDir()
	c := New(home, nil)

	state := lifecycle.NewState(nil)
	sessions := session.NewManager()
	sessions.Open("a", "srv")
	require.NoError(t, c.Capture(state, sessions.Snapshot()))

	require.NoError(t, c.Restore(lifecycle.NewState(nil), session.NewManager()))
	require.NoError(t, c.Finalize())

	err := c.Restore(lifecycle.NewState(nil), session.NewManager())
	assert.ErrorIs(t, err, ErrNoHandoff)
}

func TestFailedRestorePreservesHandoff(t *testing.T) {
	home := t.TempDir()
	c := New(home, nil)

	require.NoError(t, os.MkdirAll(filepath.Join(home, DirName), 0700))
	manifest := filepath.Join(home, DirName, ManifestName)

	t.Run("corrupt manifest", func(t *testing.T) {
		require.NoError(t, os.WriteFile(manifest, []byte("{не yaml: ["), 0600))
		err := c.Restore(lifecycle.NewState(nil), session.NewManager())
		require.Error(t, err)
		assert.FileExists(t, manifest, "failed restore must preserve handoff files")
	})

	t.Run("version mismatch", func(t *testing.T) {
		require.NoError(t, os.WriteFile(manifest, []byte("version: 99\n"), 0600))
		err := c.Restore(lifecycle.NewState(nil), session.NewManager())
		assert.ErrorIs(t, err, ErrVersionMismatch)
		assert.FileExists(t, manifest)
	})
}

func TestCaptureReplacesPreviousCapture(t *testing.T) {
	home := t.TempDir()
	c := New(home, nil)
	state := lifecycle.NewState(nil)

	first := session.NewManager()
	first.Open("one", "srv")
	require.NoError(t, c.Capture(state, first.Snapshot()))

	second := session.NewManager()
	second.Open("one", "srv")
	second.Open("two", "srv")
	require.NoError(t, c.Capture(state, second.Snapshot()))

	restored := session.NewManager()
	require.NoError(t, c.Restore(lifecycle.NewState(nil), restored))
	assert.Equal(t, 2, restored.Count())
}

func TestRestartArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			"appends marker",
			[]string{"parley", "-p"},
			[]string{"parley", "-p", "--upgrade"},
		},
		{
			"never duplicates marker",
			[]string{"parley", "--upgrade", "-p"},
			[]string{"parley", "--upgrade", "-p"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RestartArgs(tt.in))
		})
	}
}
