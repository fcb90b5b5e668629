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

// Package ui is the seam between the lifecycle core and the terminal
// interface. The rendering and input model are external; the core invokes
// the interface only through the callback types here, plus a few helpers
// for startup output (color demo, banner, environment warnings).
package ui

// InitFunc brings the terminal interface up. Invoked once, synchronously,
// by the subsystem initializer.
type InitFunc func() error

// EndFunc shuts the terminal interface down. clean is false on the crash
// path.
type EndFunc func(clean bool)
