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

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	home := t.TempDir()

	s, err := Open(home)
	require.NoError(t, err)
	windows := []Window{
		{Slot: 1, Buffer: "core", Width: 120, Height: 30},
		{Slot: 2, Buffer: "irc.libera.#go", Width: 60, Height: 30},
	}
	require.NoError(t, s.Save(windows))
	require.NoError(t, s.Close())

	s, err = Open(home)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, windows, got)
}

func TestStoreSaveReplacesArrangement(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save([]Window{{Slot: 1, Buffer: "a"}, {Slot: 2, Buffer: "b"}}))
	require.NoError(t, s.Save([]Window{{Slot: 1, Buffer: "c"}}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Buffer)
}

func TestStoreEmptyLoad(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreCloseIdempotent(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	var nilStore *Store
	require.NoError(t, nilStore.Close())
}
