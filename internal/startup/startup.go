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

// Package startup turns raw process arguments into an immutable startup
// configuration.
//
// Informational flags (-h, -v, -l, -c) do not print or exit here; Parse
// reports them as an Action and the caller produces the output and
// terminates with a success code. Missing arguments for value flags are
// usage errors and the caller terminates with a failure code. Unrecognized
// flags are ignored; positional "plugin:option" tokens are forwarded to the
// plugin layer untouched.
package startup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ErrUsage is the class of all command line usage errors.
var ErrUsage = errors.New("usage error")

// UsageError reports a malformed command line, typically a value flag with
// no trailing argument.
type UsageError struct {
	Detail string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("error: %s", e.Detail)
}

func (e *UsageError) Unwrap() error {
	return ErrUsage
}

// Action tells the caller what to do after parsing.
type Action int

const (
	// ActionRun continues normal startup.
	ActionRun Action = iota
	// ActionShowHelp prints usage and terminates successfully.
	ActionShowHelp
	// ActionShowVersion prints the version string and terminates successfully.
	ActionShowVersion
	// ActionShowLicense prints the license text and terminates successfully.
	ActionShowLicense
	// ActionShowColors prints the terminal color table and terminates
	// successfully.
	ActionShowColors
)

// Config is the startup configuration. It is constructed once by Parse and
// read-only afterwards.
type Config struct {
	// Argv0 is the binary path as invoked, kept for the upgrade re-exec.
	Argv0 string

	// Args is the full original argument vector, including Argv0.
	Args []string

	// HomePath is the -d/--dir home directory override, empty if not given.
	HomePath string

	// Upgrading marks this launch as the restore half of an upgrade cycle.
	Upgrading bool

	// NoConnect disables auto-connect at startup. The connection layer owns
	// the behavior; this layer only records the flag.
	NoConnect bool

	// AutoLoadPlugins is false when -p/--no-plugin was given.
	AutoLoadPlugins bool

	// AutoLoadScripts is false when -s/--no-script was given. Forwarded to
	// the script-hosting plugin.
	AutoLoadScripts bool

	// RunCommands is the semicolon-separated -r command string, empty if
	// not given.
	RunCommands string

	// PluginArgs holds positional "plugin:option" tokens for the plugin
	// option layer.
	PluginArgs []string

	// NoPluginUnload skips plugin teardown calls on shutdown. Memory
	// debugging only; must NOT be used otherwise.
	NoPluginUnload bool

	// NoCrypto skips init/deinit of the crypto subsystem. Memory debugging
	// only; must NOT be used otherwise.
	NoCrypto bool
}

// Parse parses the argument vector (args[0] is the binary name).
//
// Repeated value flags keep the last occurrence. When several informational
// flags are present the returned Action follows a fixed precedence:
// help, version, license, colors.
func Parse(args []string) (*Config, Action, error) {
	cfg := &Config{
		Argv0:           firstArg(args),
		Args:            args,
		AutoLoadPlugins: true,
		AutoLoadScripts: true,
	}

	fs := pflag.NewFlagSet("parley", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)

	help := fs.BoolP("help", "h", false, "display this help")
	showVersion := fs.BoolP("version", "v", false, "display parley version")
	license := fs.BoolP("license", "l", false, "display parley license")
	colors := fs.BoolP("colors", "c", false, "display default colors in terminal")
	fs.StringVarP(&cfg.HomePath, "dir", "d", "", "set parley home directory")
	fs.BoolVarP(&cfg.NoConnect, "no-connect", "a", false, "disable auto-connect at startup")
	noPlugin := fs.BoolP("no-plugin", "p", false, "don't load any plugin at startup")
	noScript := fs.BoolP("no-script", "s", false, "don't load any script at startup")
	fs.StringVarP(&cfg.RunCommands, "run-command", "r", "", "run command(s) after startup")
	fs.BoolVar(&cfg.Upgrading, "upgrade", false, "restore a session captured by /upgrade")
	fs.BoolVar(&cfg.NoPluginUnload, "no-plugin-unload", false, "skip plugin teardown (memory debugging only)")
	fs.BoolVar(&cfg.NoCrypto, "no-crypto", false, "skip crypto subsystem init/deinit (memory debugging only)")

	var argv []string
	if len(args) > 1 {
		argv = args[1:]
	}
	if err := fs.Parse(argv); err != nil {
		return nil, ActionRun, &UsageError{Detail: err.Error()}
	}

	cfg.AutoLoadPlugins = !*noPlugin
	cfg.AutoLoadScripts = !*noScript
	cfg.PluginArgs = append(pluginTokens(fs.Args()), unknownFlags(fs, argv)...)

	switch {
	case *help:
		return cfg, ActionShowHelp, nil
	case *showVersion:
		return cfg, ActionShowVersion, nil
	case *license:
		return cfg, ActionShowLicense, nil
	case *colors:
		return cfg, ActionShowColors, nil
	}
	return cfg, ActionRun, nil
}

// pluginTokens keeps positional tokens destined for the plugin option
// layer. Everything that is not a flag is forwarded verbatim.
func pluginTokens(rest []string) []string {
	var out []string
	for _, tok := range rest {
		if tok == "" || strings.HasPrefix(tok, "-") {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// unknownFlags returns the argv tokens that name flags this core does not
// define. The parse whitelist skips them; they are still forwarded to the
// plugin layer, which defines flags of its own (e.g. --irc-debug).
func unknownFlags(fs *pflag.FlagSet, argv []string) []string {
	var out []string
	for _, tok := range argv {
		if len(tok) < 2 || tok[0] != '-' || tok == "--" {
			continue
		}
		if strings.HasPrefix(tok, "--") {
			name, _, _ := strings.Cut(tok[2:], "=")
			if fs.Lookup(name) == nil {
				out = append(out, tok)
			}
			continue
		}
		for _, c := range tok[1:] {
			f := fs.ShorthandLookup(string(c))
			if f == nil {
				out = append(out, tok)
				break
			}
			if f.Value.Type() != "bool" {
				// The rest of the token is this flag's value.
				break
			}
		}
	}
	return out
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "parley"
}
