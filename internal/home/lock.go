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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock file guarding exclusive ownership of
// the home directory.
const LockFileName = "parley.lock"

// ErrLocked indicates another live process owns the home directory.
var ErrLocked = errors.New("home directory is locked by another process")

// Lock acquires exclusive ownership of the home directory.
//
// The file descriptor is opened close-on-exec, so the lock is released at
// the exec boundary of an upgrade: the replacement image re-acquires it
// before touching any state, and there is never a window where two live
// images both own the directory.
func Lock(dir string) (*flock.Flock, error) {
	l := flock.New(filepath.Join(dir, LockFileName))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cannot lock home directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return l, nil
}

// Unlock releases a held lock. Safe on nil.
func Unlock(l *flock.Flock) {
	if l != nil {
		_ = l.Unlock()
	}
}
