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

// Package boot sequences subsystem initialization and teardown.
//
// Steps run in registration order; teardown replays only the completed
// steps, in reverse. The structure makes the invariant "teardown order is
// the reverse of init order" hold by construction instead of by
// convention.
package boot

import "fmt"

// Step is one subsystem in the init sequence.
type Step struct {
	// Name identifies the step in errors and logs.
	Name string

	// Init brings the subsystem up. A nil Init marks a step that only
	// exists for its teardown position.
	Init func() error

	// Shutdown tears the subsystem down. Runs only if Init completed, so
	// every Shutdown may assume its own subsystem started. May be nil.
	Shutdown func()
}

// StepError reports which step failed during Run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner executes an ordered list of steps.
type Runner struct {
	steps     []Step
	completed []Step
}

// NewRunner creates a runner over the given steps.
func NewRunner(steps ...Step) *Runner {
	return &Runner{steps: steps}
}

// Add appends steps to the sequence. Only valid before Run.
func (r *Runner) Add(steps ...Step) {
	r.steps = append(r.steps, steps...)
}

// Run executes every step in order. On the first failure it stops and
// returns a StepError; steps after the failing one are never entered. The
// failing step itself is not recorded as completed, so Teardown will not
// touch it.
func (r *Runner) Run() error {
	for _, step := range r.steps {
		if step.Init != nil {
			if err := step.Init(); err != nil {
				return &StepError{Step: step.Name, Err: err}
			}
		}
		r.completed = append(r.completed, step)
	}
	return nil
}

// Teardown shuts completed steps down in reverse init order. Idempotent: a
// second call is a no-op, and steps that never initialized are never
// entered.
func (r *Runner) Teardown() {
	for i := len(r.completed) - 1; i >= 0; i-- {
		if r.completed[i].Shutdown != nil {
			r.completed[i].Shutdown()
		}
	}
	r.completed = nil
}

// Completed returns the names of the steps that initialized, in order.
func (r *Runner) Completed() []string {
	names := make([]string, len(r.completed))
	for i, s := range r.completed {
		names[i] = s.Name
	}
	return names
}
