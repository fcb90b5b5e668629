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

// Package secure is the secure-credential store. Values live either in the
// OS keyring (preferred) or in an encrypted file under the home directory.
// A failure to initialize this store is fatal for the whole process.
package secure

// Backend persists the credential map.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Load reads all stored credentials. A missing store yields an empty
	// map, not an error.
	Load() (map[string]string, error)

	// Store persists the full credential map.
	Store(values map[string]string) error
}
