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
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// PrintTerminalColors writes the default terminal color table, the output
// of the -c/--colors flag.
func PrintTerminalColors(w io.Writer) {
	fmt.Fprintln(w, "Terminal colors:")
	fmt.Fprintln(w)

	// 16 base colors, then the 6x6x6 cube and the grayscale ramp.
	for i := 0; i < 256; i++ {
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(strconv.Itoa(i))).
			Render(fmt.Sprintf(" %3d ", i))
		fmt.Fprint(w, swatch)
		switch {
		case i == 15, i == 231:
			fmt.Fprint(w, "\n\n")
		case (i+1)%8 == 0:
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
}
