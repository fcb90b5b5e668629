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
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/parleychat/parley/internal/lifecycle"
)

// UpgradeFlag is the marker appended to the argument vector of the
// replacement image.
const UpgradeFlag = "--upgrade"

// ExecSelf replaces the current process image with the same binary and
// the original arguments plus the upgrade marker. It only returns on
// failure. The exec boundary is the atomic ownership transfer: descriptors
// opened close-on-exec (including the home directory lock) are released
// exactly here, and the process ID never changes, so no window exists
// where two images both own the home directory.
func ExecSelf(state *lifecycle.State) error {
	argv0 := state.Argv0()
	binary, err := exec.LookPath(argv0)
	if err != nil {
		// Fall back to the running executable when argv[0] is not
		// resolvable (e.g. launched via a relative path and cwd changed).
		binary, err = os.Executable()
		if err != nil {
			return fmt.Errorf("cannot locate binary for re-exec: %w", err)
		}
	}

	argv := RestartArgs(state.Args())
	if err := syscall.Exec(binary, argv, os.Environ()); err != nil {
		return fmt.Errorf("re-exec of %q failed: %w", binary, err)
	}
	return nil // unreachable
}

// RestartArgs builds the replacement image's argument vector: the original
// one with the upgrade marker appended once.
func RestartArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	seen := false
	for _, a := range args {
		if a == UpgradeFlag {
			seen = true
		}
		out = append(out, a)
	}
	if !seen {
		out = append(out, UpgradeFlag)
	}
	return out
}
