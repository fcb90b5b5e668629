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

package ui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/encoding/ianaindex"
)

// DetectCharset resolves the charset implied by the locale environment
// ($LC_ALL, $LC_CTYPE, $LANG). ok is false when the locale names a charset
// this build cannot resolve; the caller warns and proceeds with UTF-8.
func DetectCharset() (charset string, ok bool) {
	locale := firstNonEmpty(os.Getenv("LC_ALL"), os.Getenv("LC_CTYPE"), os.Getenv("LANG"))
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return "US-ASCII", true
	}
	_, name, found := strings.Cut(locale, ".")
	if !found {
		return "UTF-8", true
	}
	name = strings.TrimSuffix(name, "@euro")
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return "UTF-8", false
	}
	if canonical, err := ianaindex.IANA.Name(enc); err == nil {
		return canonical, true
	}
	return name, true
}

// TermWarnings returns warnings about a $TERM value that will cause
// display bugs under screen or tmux.
func TermWarnings() []string {
	termEnv := os.Getenv("TERM")
	isScreen := os.Getenv("STY") != ""
	isTmux := os.Getenv("TMUX") != ""
	if !isScreen && !isTmux {
		return nil
	}

	var ok bool
	var wanted, muxer string
	if isTmux {
		ok = strings.HasPrefix(termEnv, "screen") || strings.HasPrefix(termEnv, "tmux")
		wanted = "tmux-256color, tmux, screen-256color, screen"
		muxer = "tmux"
	} else {
		ok = strings.HasPrefix(termEnv, "screen")
		wanted = "screen-256color, screen"
		muxer = "screen"
	}
	if ok {
		return nil
	}
	return []string{
		fmt.Sprintf("warning: parley is running under %s and $TERM is %q, "+
			"which can cause display bugs; $TERM should be one of: %s",
			muxer, termEnv, wanted),
	}
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
