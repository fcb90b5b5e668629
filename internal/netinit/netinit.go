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

// Package netinit prepares the secure transport layer shared by network
// subsystems: the process-wide TLS configuration and trust roots. The
// connection machinery itself is external; this core only owns the
// init/teardown ordering.
package netinit

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// Transport is the shared secure transport state.
type Transport struct {
	tlsConfig *tls.Config
}

// Init loads the system trust roots and builds the baseline TLS
// configuration. Skipped entirely under --no-crypto.
func Init() (*Transport, error) {
	roots, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("cannot load system trust roots: %w", err)
	}
	return &Transport{
		tlsConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			RootCAs:    roots,
		},
	}, nil
}

// TLSConfig returns a clone of the baseline TLS configuration, or nil when
// the transport is not initialized.
func (t *Transport) TLSConfig() *tls.Config {
	if t == nil || t.tlsConfig == nil {
		return nil
	}
	return t.tlsConfig.Clone()
}

// End releases the transport state. Safe on nil and safe to call twice.
func (t *Transport) End() {
	if t != nil {
		t.tlsConfig = nil
	}
}
