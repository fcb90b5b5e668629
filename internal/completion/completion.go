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

// Package completion supplies command-name completion, registered as a
// completion hook so the (external) input layer can query it uniformly.
package completion

import (
	"sort"
	"strings"

	"github.com/parleychat/parley/internal/command"
	"github.com/parleychat/parley/internal/hook"
)

// Engine completes command names against the command registry.
type Engine struct {
	commands *command.Registry
	h        *hook.Hook
}

// NewEngine creates a completion engine over the command registry.
func NewEngine(commands *command.Registry) *Engine {
	return &Engine{commands: commands}
}

// Init registers the core completion hook.
func (e *Engine) Init(hooks *hook.Registry) {
	e.h = hooks.Add(hook.KindCompletion, "commands", func(prefix string) (string, error) {
		return strings.Join(e.Complete(prefix), " "), nil
	})
}

// Complete returns the sorted command names matching prefix.
func (e *Engine) Complete(prefix string) []string {
	prefix = strings.ToLower(strings.TrimPrefix(prefix, "/"))
	var out []string
	for _, name := range e.commands.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// End detaches the completion hook. Safe if Init never ran.
func (e *Engine) End(hooks *hook.Registry) {
	if e.h != nil && hooks != nil {
		hooks.Remove(e.h)
		e.h = nil
	}
}
