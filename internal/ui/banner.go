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
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/parleychat/parley/internal/version"
)

var logoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)

const logo = `
  ___  __ _ _ __| | ___ _   _
 / _ \/ _` + "`" + ` | '__| |/ _ \ | | |
| (_) | (_| | |  | |  __/ |_| |
 \___/ \__,_|_|  |_|\___|\__, |
 |_|                     |___/
`

// Banner writes the startup banner. Shown only after an upgrade restore
// has already installed its sessions, so the user sees restored state
// first.
func Banner(w io.Writer, displayLogo, displayVersion bool) {
	if displayLogo {
		fmt.Fprintln(w, logoStyle.Render(strings.TrimRight(logo, "\n")))
	}
	if displayVersion {
		fmt.Fprintln(w, version.Full())
	}
	if displayLogo || displayVersion {
		fmt.Fprintln(w, strings.Repeat("- ", 32))
	}
}

// Welcome writes the first-start message, shown only when the
// configuration file was just created.
func Welcome(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Welcome to parley!

If you are discovering parley, start with /help to list commands (use the
Tab key to complete names). You can add and connect to a server with the
/server and /connect commands.`)
	fmt.Fprintln(w)
}
