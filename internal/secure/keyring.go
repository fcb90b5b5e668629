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
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// indexKey holds the newline-joined list of stored key names, since the OS
// keyring has no native enumeration.
const indexKey = "__parley_index__"

// KeyringBackend stores credentials in the system keyring (Keychain on
// macOS, Secret Service on Linux, Credential Manager on Windows).
type KeyringBackend struct {
	service string
}

// NewKeyringBackend creates a keyring backend under the given service
// name.
func NewKeyringBackend(service string) *KeyringBackend {
	return &KeyringBackend{service: service}
}

// Available probes whether the system keyring can be used at all.
func (k *KeyringBackend) Available() bool {
	_, err := keyring.Get(k.service, "__parley_availability_probe__")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Name implements Backend.
func (k *KeyringBackend) Name() string { return "keyring" }

// Load implements Backend.
func (k *KeyringBackend) Load() (map[string]string, error) {
	values := make(map[string]string)
	index, err := keyring.Get(k.service, indexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return values, nil
		}
		return nil, fmt.Errorf("keyring read failed: %w", err)
	}
	for _, name := range strings.Split(index, "\n") {
		if name == "" {
			continue
		}
		v, err := keyring.Get(k.service, name)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("keyring read of %q failed: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

// Store implements Backend.
func (k *KeyringBackend) Store(values map[string]string) error {
	old, err := k.Load()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(values))
	for name, v := range values {
		if err := keyring.Set(k.service, name, v); err != nil {
			return fmt.Errorf("keyring write of %q failed: %w", name, err)
		}
		names = append(names, name)
	}
	for name := range old {
		if _, keep := values[name]; !keep {
			_ = keyring.Delete(k.service, name)
		}
	}
	if err := keyring.Set(k.service, indexKey, strings.Join(names, "\n")); err != nil {
		return fmt.Errorf("keyring index write failed: %w", err)
	}
	return nil
}
