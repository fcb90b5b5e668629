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

// Package strutil provides shared string utilities used across subsystems.
// The package keeps an intern table for strings that are held for the whole
// process lifetime; End releases it during ordered teardown.
package strutil

import "strings"

var shared map[string]string

// Shared returns an interned copy of s. Repeated calls with equal content
// return the same backing string, so long-lived holders (hooks, key binds,
// session names) do not duplicate storage.
func Shared(s string) string {
	if shared == nil {
		shared = make(map[string]string)
	}
	if v, ok := shared[s]; ok {
		return v
	}
	shared[s] = s
	return s
}

// SharedCount returns the number of interned strings.
func SharedCount() int {
	return len(shared)
}

// End releases the intern table. Safe to call when nothing was interned,
// and safe to call more than once.
func End() {
	shared = nil
}

// SplitCommands splits a semicolon-separated command string into individual
// commands. A semicolon escaped with a backslash ("\;") is kept literal.
// Empty fragments are dropped and surrounding whitespace is trimmed.
func SplitCommands(s string) []string {
	var out []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			if r != ';' {
				cur.WriteByte('\\')
			}
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ';':
			if c := strings.TrimSpace(cur.String()); c != "" {
				out = append(out, c)
			}
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	if c := strings.TrimSpace(cur.String()); c != "" {
		out = append(out, c)
	}
	return out
}
