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

package main

import (
	"fmt"
	"os"

	"github.com/parleychat/parley/internal/app"
	"github.com/parleychat/parley/internal/home"
	"github.com/parleychat/parley/internal/startup"
	"github.com/parleychat/parley/internal/ui"
	"github.com/parleychat/parley/internal/version"
)

// Version information (injected via ldflags at build time)
var (
	buildVersion = ""
	buildCommit  = ""
	buildDate    = ""
)

func main() {
	version.Set(buildVersion, buildCommit, buildDate)

	cfg, action, err := startup.Parse(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintf(os.Stderr, "try '%s --help' for more information\n", os.Args[0])
		os.Exit(1)
	}

	// Informational flags print and terminate successfully before any
	// subsystem initializes.
	switch action {
	case startup.ActionShowHelp:
		startup.PrintUsage(os.Stdout, cfg.Argv0)
		os.Exit(0)
	case startup.ActionShowVersion:
		startup.PrintVersion(os.Stdout)
		os.Exit(0)
	case startup.ActionShowLicense:
		startup.PrintLicense(os.Stdout)
		os.Exit(0)
	case startup.ActionShowColors:
		ui.PrintTerminalColors(os.Stdout)
		os.Exit(0)
	}

	homeDir, err := home.Resolve(cfg.HomePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}

	a := app.New(cfg, homeDir, app.Options{})
	if err := a.Init(); err != nil {
		fmt.Fprintln(os.Stderr, app.FatalStartupError(err))
		a.Shutdown(1, false)
	}

	a.Run()
	a.Shutdown(0, false)
}
