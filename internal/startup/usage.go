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

package startup

import (
	"fmt"
	"io"

	"github.com/parleychat/parley/internal/version"
)

// LicenseText is printed by the -l/--license flag.
const LicenseText = `Parley is free software, distributed under the terms of the
Apache License, Version 2.0. You may obtain a copy of the License at:

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
`

// PrintCopyright writes the one-line copyright/version banner.
func PrintCopyright(w io.Writer) {
	fmt.Fprintf(w, "\n%s - extensible terminal chat client\n", version.Full())
}

// PrintUsage writes the command line help.
func PrintUsage(w io.Writer, execName string) {
	PrintCopyright(w)
	fmt.Fprintf(w, "\nUsage: %s [option...] [plugin:option...]\n\n", execName)
	fmt.Fprint(w, `  -a, --no-connect         disable auto-connect to servers at startup
  -c, --colors             display default colors in terminal
  -d, --dir <path>         set parley home directory (default: ~/.parley)
                           (environment variable PARLEY_HOME is read if this
                           option is not given)
  -h, --help               display this help
  -l, --license            display parley license
  -p, --no-plugin          don't load any plugin at startup
  -r, --run-command <cmd>  run command(s) after startup (commands can be
                           separated by semicolons)
  -s, --no-script          don't load any script at startup
      --upgrade            upgrade parley using session files (see /help upgrade)
  -v, --version            display parley version
  plugin:option            option for a plugin

Debug-only options, unsafe for normal use:
      --no-plugin-unload   skip plugin teardown on exit (leak debugging)
      --no-crypto          skip crypto subsystem init/deinit (leak debugging)
`)
	fmt.Fprintln(w)
}

// PrintLicense writes the copyright banner followed by the license text.
func PrintLicense(w io.Writer) {
	PrintCopyright(w)
	fmt.Fprintln(w)
	fmt.Fprint(w, LicenseText)
}

// PrintVersion writes the bare version string.
func PrintVersion(w io.Writer) {
	fmt.Fprintln(w, version.Version())
}
