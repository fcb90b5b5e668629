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

// Package command is the command registry and the executor for startup
// command strings ("/cmd args; /other" lines from configuration or the
// -r/--run-command flag).
package command

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parleychat/parley/internal/strutil"
)

// ErrUnknownCommand is returned when no handler matches a command name.
var ErrUnknownCommand = errors.New("unknown command")

// Handler executes one command with its raw argument string.
type Handler func(args string) error

// Command is one registered command.
type Command struct {
	Name        string
	Description string
	Handler     Handler
}

// Registry owns all registered commands.
type Registry struct {
	byName map[string]*Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Command)}
}

// Register installs a command handler. A later registration with the same
// name replaces the earlier one.
func (r *Registry) Register(name, description string, h Handler) {
	if r.byName == nil {
		r.byName = make(map[string]*Command)
	}
	r.byName[strings.ToLower(name)] = &Command{
		Name:        strutil.Shared(strings.ToLower(name)),
		Description: description,
		Handler:     h,
	}
}

// Lookup returns the command registered under name, or nil.
func (r *Registry) Lookup(name string) *Command {
	return r.byName[strings.ToLower(name)]
}

// Names returns all registered command names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	return names
}

// Execute runs a single command line. A leading "/" is optional; the first
// word selects the handler, the rest is passed through verbatim.
func (r *Registry) Execute(line string) error {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	if line == "" {
		return nil
	}
	name, args, _ := strings.Cut(line, " ")
	cmd := r.Lookup(name)
	if cmd == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return cmd.Handler(strings.TrimSpace(args))
}

// RunBatch executes a semicolon-separated command string. Individual
// failures are logged and do not stop the remaining commands.
func (r *Registry) RunBatch(commands string, logger *slog.Logger) {
	for _, line := range strutil.SplitCommands(commands) {
		if err := r.Execute(line); err != nil && logger != nil {
			logger.Warn("startup command failed", "command", line, "error", err)
		}
	}
}

// End drops all registered commands. Safe on an empty registry.
func (r *Registry) End() {
	r.byName = nil
}
