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

package home

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExplicitOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	got, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode()&os.ModePerm)
}

func TestResolveEnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "from-env")
	t.Setenv(EnvHome, dir)

	got, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, got)
}

func TestResolveExplicitBeatsEnv(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvHome, filepath.Join(tmp, "env"))

	want := filepath.Join(tmp, "explicit")
	got, err := Resolve(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoDirExists(t, filepath.Join(tmp, "env"))
}

func TestResolveTildeExpansion(t *testing.T) {
	userHome := t.TempDir()
	t.Setenv(EnvUserHome, userHome)

	got, err := Resolve("~/.x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(userHome, ".x"), got)
}

func TestResolveTildeWithoutUserHome(t *testing.T) {
	t.Setenv(EnvUserHome, "")
	_, err := Resolve("~/.x")
	assert.ErrorIs(t, err, ErrNoUserHome)
}

func TestResolveExistingFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(path, []byte("not a dir"), 0600))

	_, err := Resolve(path)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestResolveEmptyDefaultIsFatal(t *testing.T) {
	t.Setenv(EnvHome, "")
	orig := DefaultHome
	DefaultHome = ""
	defer func() { DefaultHome = orig }()

	_, err := Resolve("")
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestResolveExistingDirIsReused(t *testing.T) {
	dir := t.TempDir()
	got, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestLockExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()

	l1, err := Lock(dir)
	require.NoError(t, err)
	defer Unlock(l1)

	_, err = Lock(dir)
	assert.ErrorIs(t, err, ErrLocked)

	Unlock(l1)
	l2, err := Lock(dir)
	require.NoError(t, err)
	Unlock(l2)
}
