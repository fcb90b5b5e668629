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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCrypto(t *testing.T) {
	require.NoError(t, InitCrypto())
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	b := NewFileBackend(path, "hunter2")

	require.NoError(t, b.Store(map[string]string{
		"irc.password":   "sekrit",
		"relay.password": "other",
	}))

	got, err := b.Load()
	require.NoError(t, err)
	assert.Equal(t, "sekrit", got["irc.password"])
	assert.Equal(t, "other", got["relay.password"])
}

func TestFileBackendMissingFileIsEmpty(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), FileName), "x")
	got, err := b.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileBackendWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, NewFileBackend(path, "right").Store(map[string]string{"k": "v"}))

	_, err := NewFileBackend(path, "wrong").Load()
	assert.Error(t, err)
}

func TestFileBackendCiphertextHidesPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, NewFileBackend(path, "p").Store(map[string]string{"k": "supersecretvalue"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "supersecretvalue")
}

func TestStoreReadModifyWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s := NewStore(NewFileBackend(path, "p"))

	require.NoError(t, s.Read())
	_, ok := s.Get("token")
	assert.False(t, ok)

	s.Set("token", "abc")
	s.Set("other", "def")
	assert.True(t, s.Delete("other"))
	assert.False(t, s.Delete("other"))
	require.NoError(t, s.Write())

	reread := NewStore(NewFileBackend(path, "p"))
	require.NoError(t, reread.Read())
	v, ok := reread.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	assert.Equal(t, []string{"token"}, reread.Keys())
}

func TestStoreWriteWithoutChangesIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s := NewStore(NewFileBackend(path, "p"))
	require.NoError(t, s.Read())
	require.NoError(t, s.Write())
	assert.NoFileExists(t, path)
}

func TestStoreFreeIsIdempotent(t *testing.T) {
	s := NewStore(NewFileBackend(filepath.Join(t.TempDir(), FileName), "p"))
	require.NoError(t, s.Read())
	s.Set("a", "b")
	s.Free()
	s.Free()
	_, ok := s.Get("a")
	assert.False(t, ok)
}
