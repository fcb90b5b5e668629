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

// Package home resolves and guarantees the parley home directory, the
// single writable root under which all persisted state lives (config,
// logs, secure store, layout, upgrade handoff).
//
// Resolution failures are fatal for the process: the caller prints the
// error and terminates with a failure code before any file-based subsystem
// initializes.
package home

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvHome is the environment variable holding a home directory
	// override, consulted when -d/--dir is not given.
	EnvHome = "PARLEY_HOME"

	// EnvUserHome is the variable used to expand a leading "~".
	EnvUserHome = "HOME"
)

// DefaultHome is the compiled-in default home path. Overridable at build
// time via -ldflags "-X .../internal/home.DefaultHome=...".
var DefaultHome = "~/.parley"

var (
	// ErrNoDefault indicates an empty compiled-in default (build
	// misconfiguration).
	ErrNoDefault = errors.New("default home directory is undefined, check build options")

	// ErrNoUserHome indicates "~" was used while HOME is unset.
	ErrNoUserHome = errors.New("unable to get HOME directory")

	// ErrNotDirectory indicates the resolved path exists but is not a
	// directory.
	ErrNotDirectory = errors.New("home path is not a directory")
)

// Resolve determines the home directory and guarantees it exists.
//
// Priority: the explicit override (from -d/--dir), then $PARLEY_HOME, then
// the compiled-in default. A leading "~" is replaced by $HOME. A missing
// directory is created with owner-only permissions.
func Resolve(override string) (string, error) {
	path := override
	if path == "" {
		path = os.Getenv(EnvHome)
	}
	if path == "" {
		if DefaultHome == "" {
			return "", ErrNoDefault
		}
		path = DefaultHome
	}

	path, err := Expand(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrNotDirectory, path)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, 0700); err != nil {
			return "", fmt.Errorf("cannot create directory %q: %w", path, err)
		}
	default:
		return "", fmt.Errorf("cannot stat %q: %w", path, err)
	}

	return path, nil
}

// Expand replaces a leading "~" with the user home directory read from the
// environment.
func Expand(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	userHome := os.Getenv(EnvUserHome)
	if userHome == "" {
		return "", ErrNoUserHome
	}
	return filepath.Join(userHome, strings.TrimPrefix(path, "~")), nil
}
