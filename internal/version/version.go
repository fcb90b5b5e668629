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

// Package version holds build-time version metadata for parley.
package version

import "fmt"

// Version information (injected via ldflags at build time).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Set overrides the build metadata. Called once from main before anything
// else reads it.
func Set(v, c, b string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if b != "" {
		buildDate = b
	}
}

// Version returns the semantic version string.
func Version() string {
	return version
}

// Commit returns the VCS commit the binary was built from.
func Commit() string {
	return commit
}

// BuildDate returns the build timestamp string.
func BuildDate() string {
	return buildDate
}

// Full returns a single human-readable version line.
func Full() string {
	return fmt.Sprintf("parley %s (commit %s, built %s)", version, commit, buildDate)
}
