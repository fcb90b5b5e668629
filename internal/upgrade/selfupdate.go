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
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
)

// repoSlug is the GitHub repository checked for newer releases.
const repoSlug = "parleychat/parley"

// RefreshBinary replaces the on-disk executable with the latest release
// before the re-exec, so /upgrade both restarts and updates. Development
// builds never self-update. Returns the version the binary was updated to,
// or "" when already current.
func (c *Controller) RefreshBinary(ctx context.Context, currentVersion string) (string, error) {
	if currentVersion == "" || currentVersion == "dev" {
		return "", fmt.Errorf("cannot self-update a development version")
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return "", fmt.Errorf("cannot create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return "", fmt.Errorf("cannot detect latest release: %w", err)
	}
	if !found {
		return "", fmt.Errorf("no release found for %s", repoSlug)
	}
	if !latest.GreaterThan(currentVersion) {
		return "", nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return "", fmt.Errorf("cannot locate executable: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return "", fmt.Errorf("update to %s failed: %w", latest.Version(), err)
	}

	c.log.Info("binary updated", "version", latest.Version())
	return latest.Version(), nil
}
