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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInitFirstStartWritesDefaults(t *testing.T) {
	home := t.TempDir()
	s := NewStore(home)

	require.NoError(t, s.Init())
	assert.True(t, s.FirstStart())
	assert.FileExists(t, s.Path())

	// Defaults are in effect without an explicit Read.
	assert.True(t, s.Options().Startup.DisplayLogo)
	assert.True(t, s.Options().Look.SaveConfigOnExit)
	assert.True(t, s.Options().Plugins.AutoLoad)
}

func TestStoreInitExistingFileIsNotFirstStart(t *testing.T) {
	home := t.TempDir()
	first := NewStore(home)
	require.NoError(t, first.Init())

	second := NewStore(home)
	require.NoError(t, second.Init())
	assert.False(t, second.FirstStart())
}

func TestStoreReadRoundTrip(t *testing.T) {
	home := t.TempDir()
	s := NewStore(home)
	require.NoError(t, s.Init())

	s.Options().Startup.CommandBeforePlugins = "/set foo"
	s.Options().Look.SaveConfigOnExit = false
	s.Options().Proxies = []ProxyOptions{
		{Name: "local", Type: "socks5", Address: "127.0.0.1", Port: 1080},
	}
	require.NoError(t, s.Write())

	reread := NewStore(home)
	require.NoError(t, reread.Init())
	require.NoError(t, reread.Read())

	assert.Equal(t, "/set foo", reread.Options().Startup.CommandBeforePlugins)
	assert.False(t, reread.Options().Look.SaveConfigOnExit)
	require.Len(t, reread.Options().Proxies, 1)
	assert.Equal(t, 1080, reread.Options().Proxies[0].Port)
}

func TestStoreReadKeepsDefaultsForMissingKeys(t *testing.T) {
	home := t.TempDir()
	s := NewStore(home)
	require.NoError(t, s.Init())
	require.NoError(t, os.WriteFile(s.Path(), []byte("startup:\n  display_logo: false\n"), 0600))

	require.NoError(t, s.Read())
	assert.False(t, s.Options().Startup.DisplayLogo)
	// Untouched subtree keeps its default.
	assert.True(t, s.Options().Plugins.AutoLoad)
}

func TestStoreReadRejectsGarbage(t *testing.T) {
	home := t.TempDir()
	s := NewStore(home)
	require.NoError(t, s.Init())
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not yaml: ["), 0600))

	assert.Error(t, s.Read())
	assert.False(t, s.Loaded())
}

func TestStoreLoadedOnlyAfterSuccessfulRead(t *testing.T) {
	home := t.TempDir()
	s := NewStore(home)

	require.NoError(t, s.Init())
	assert.False(t, s.Loaded(), "Init alone must not mark the file contents as loaded")

	require.NoError(t, s.Read())
	assert.True(t, s.Loaded())

	s.Free()
	assert.False(t, s.Loaded())
}

func TestStoreFreeIsIdempotent(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Init())

	s.Free()
	s.Free()
	assert.False(t, s.Loaded())
	// Options still answers with defaults after Free.
	assert.True(t, s.Options().Plugins.AutoLoad)
}
