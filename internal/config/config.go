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

// Package config is the primary configuration store: a YAML file under the
// home directory, created with defaults on first start.
package config

// FileName is the configuration file under the home directory.
const FileName = "parley.yaml"

// Options is the full option tree.
type Options struct {
	Startup StartupOptions `yaml:"startup"`
	Look    LookOptions    `yaml:"look"`
	Plugins PluginOptions  `yaml:"plugins"`
	Proxies []ProxyOptions `yaml:"proxies,omitempty"`
}

// StartupOptions control what happens right after init.
type StartupOptions struct {
	DisplayLogo          bool   `yaml:"display_logo"`
	DisplayVersion       bool   `yaml:"display_version"`
	CommandBeforePlugins string `yaml:"command_before_plugins,omitempty"`
	CommandAfterPlugins  string `yaml:"command_after_plugins,omitempty"`
}

// LookOptions control persistence behavior on exit.
type LookOptions struct {
	SaveConfigOnExit bool `yaml:"save_config_on_exit"`
	SaveLayoutOnExit bool `yaml:"save_layout_on_exit"`
}

// PluginOptions control the plugin subsystem.
type PluginOptions struct {
	AutoLoad bool `yaml:"autoload"`
}

// ProxyOptions describes one configured proxy route.
type ProxyOptions struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// Defaults returns the option tree written on first start.
func Defaults() *Options {
	return &Options{
		Startup: StartupOptions{
			DisplayLogo:    true,
			DisplayVersion: true,
		},
		Look: LookOptions{
			SaveConfigOnExit: true,
			SaveLayoutOnExit: true,
		},
		Plugins: PluginOptions{
			AutoLoad: true,
		},
	}
}
