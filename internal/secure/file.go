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
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"gopkg.in/yaml.v3"
)

// FileName is the encrypted credential file under the home directory.
const FileName = "secure.yaml"

// argon2id parameters for the file key derivation.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = chacha20poly1305.KeySize
)

// fileEnvelope is the on-disk form: everything but the salt and nonce is
// inside the sealed payload.
type fileEnvelope struct {
	Version int    `yaml:"version"`
	Salt    string `yaml:"salt"`
	Nonce   string `yaml:"nonce"`
	Data    string `yaml:"data"`
}

// FileBackend stores credentials in a passphrase-encrypted file. Used when
// no OS keyring is reachable (headless hosts, containers).
type FileBackend struct {
	path       string
	passphrase string
}

// NewFileBackend creates a file backend at path. An empty passphrase still
// encrypts, with a key derived from the empty string; that protects against
// casual reads only.
func NewFileBackend(path, passphrase string) *FileBackend {
	return &FileBackend{path: path, passphrase: passphrase}
}

// Name implements Backend.
func (f *FileBackend) Name() string { return "file" }

// Load implements Backend.
func (f *FileBackend) Load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot read secure file %q: %w", f.path, err)
	}

	var env fileEnvelope
	if err := yaml.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("cannot parse secure file %q: %w", f.path, err)
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("corrupt secure file: bad salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("corrupt secure file: bad nonce: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("corrupt secure file: bad payload: %w", err)
	}

	aead, err := chacha20poly1305.NewX(f.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot decrypt secure file (wrong passphrase?): %w", err)
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(plain, &values); err != nil {
		return nil, fmt.Errorf("corrupt secure payload: %w", err)
	}
	return values, nil
}

// Store implements Backend.
func (f *FileBackend) Store(values map[string]string) error {
	plain, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("cannot encode credentials: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("cannot generate salt: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("cannot generate nonce: %w", err)
	}

	aead, err := chacha20poly1305.NewX(f.deriveKey(salt))
	if err != nil {
		return err
	}
	env := fileEnvelope{
		Version: 1,
		Salt:    base64.StdEncoding.EncodeToString(salt),
		Nonce:   base64.StdEncoding.EncodeToString(nonce),
		Data:    base64.StdEncoding.EncodeToString(aead.Seal(nil, nonce, plain, nil)),
	}
	raw, err := yaml.Marshal(&env)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("cannot write secure file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot replace secure file: %w", err)
	}
	return nil
}

func (f *FileBackend) deriveKey(salt []byte) []byte {
	return argon2.IDKey([]byte(f.passphrase), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}
