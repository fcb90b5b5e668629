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

// Package plugin hosts compiled-in plugins. Plugins register a factory
// from an init() function; the host instantiates them after configuration
// is loaded and the UI is ready, and tears them down first on shutdown.
//
// The plugin execution model (what a plugin does once initialized) is
// external to this core; the host only owns ordering and the API surface
// handed to plugins.
package plugin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/parleychat/parley/internal/command"
	"github.com/parleychat/parley/internal/hook"
	"github.com/parleychat/parley/internal/session"
)

// API is the surface a plugin receives at init. Plugins never gain
// ownership of lifecycle state, only invocation.
type API struct {
	Hooks    *hook.Registry
	Commands *command.Registry
	Sessions *session.Manager
	Log      *slog.Logger

	// Options holds "plugin:option" command line tokens addressed to this
	// plugin, without the "plugin:" prefix.
	Options []string
}

// Plugin is one loadable extension.
type Plugin interface {
	Name() string
	Init(api *API) error
	End() error
}

// Factory creates a plugin instance.
type Factory func() Plugin

var factories []Factory

// Register adds a plugin factory. Called from init() in plugin packages.
func Register(f Factory) {
	factories = append(factories, f)
}

// Host instantiates and owns the active plugins.
type Host struct {
	base    API
	active  []Plugin
	skipEnd bool
}

// NewHost creates a plugin host. skipEnd skips plugin teardown calls on
// shutdown (the --no-plugin-unload leak-debugging flag).
func NewHost(base API, skipEnd bool) *Host {
	return &Host{base: base, skipEnd: skipEnd}
}

// Init loads plugins. With autoload false nothing is loaded and the
// pluginArgs are ignored (matching -p/--no-plugin). Runs after the
// configuration read and the UI init.
func (h *Host) Init(autoload bool, pluginArgs []string) error {
	if !autoload {
		return nil
	}
	opts := splitPluginArgs(pluginArgs)
	for _, f := range factories {
		p := f()
		api := h.base
		api.Options = opts[p.Name()]
		if api.Log != nil {
			api.Log = api.Log.With("plugin", p.Name())
		}
		if err := p.Init(&api); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		h.active = append(h.active, p)
	}
	return nil
}

// Active returns the names of loaded plugins.
func (h *Host) Active() []string {
	names := make([]string, len(h.active))
	for i, p := range h.active {
		names[i] = p.Name()
	}
	return names
}

// End tears active plugins down in reverse load order. Safe when nothing
// loaded; safe to call twice.
func (h *Host) End() {
	if !h.skipEnd {
		for i := len(h.active) - 1; i >= 0; i-- {
			_ = h.active[i].End()
		}
	}
	h.active = nil
}

// splitPluginArgs groups "plugin:option" tokens by plugin name.
func splitPluginArgs(args []string) map[string][]string {
	out := make(map[string][]string)
	for _, a := range args {
		name, opt, ok := strings.Cut(a, ":")
		if !ok || name == "" {
			continue
		}
		out[name] = append(out[name], opt)
	}
	return out
}

// resetForTest clears registered factories between tests.
func resetForTest() {
	factories = nil
}
