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

package boot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(name string, trace *[]string, fail bool) Step {
	return Step{
		Name: name,
		Init: func() error {
			if fail {
				return errors.New("boom")
			}
			*trace = append(*trace, "init:"+name)
			return nil
		},
		Shutdown: func() {
			*trace = append(*trace, "down:"+name)
		},
	}
}

func TestRunnerRunsInOrder(t *testing.T) {
	var trace []string
	r := NewRunner(
		step("a", &trace, false),
		step("b", &trace, false),
		step("c", &trace, false),
	)
	require.NoError(t, r.Run())
	assert.Equal(t, []string{"init:a", "init:b", "init:c"}, trace)
	assert.Equal(t, []string{"a", "b", "c"}, r.Completed())
}

func TestRunnerTeardownIsReverse(t *testing.T) {
	var trace []string
	r := NewRunner(
		step("a", &trace, false),
		step("b", &trace, false),
		step("c", &trace, false),
	)
	require.NoError(t, r.Run())

	trace = nil
	r.Teardown()
	assert.Equal(t, []string{"down:c", "down:b", "down:a"}, trace)
}

func TestRunnerStopsAtFailingStep(t *testing.T) {
	var trace []string
	r := NewRunner(
		step("a", &trace, false),
		step("bad", &trace, true),
		step("never", &trace, false),
	)

	err := r.Run()
	require.Error(t, err)

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad", se.Step)

	// Steps after the failing one were never entered.
	assert.Equal(t, []string{"init:a"}, trace)

	// Teardown touches only what completed.
	trace = nil
	r.Teardown()
	assert.Equal(t, []string{"down:a"}, trace)
}

func TestRunnerTeardownIdempotent(t *testing.T) {
	var trace []string
	r := NewRunner(step("a", &trace, false))
	require.NoError(t, r.Run())

	r.Teardown()
	r.Teardown()

	var downs int
	for _, e := range trace {
		if e == "down:a" {
			downs++
		}
	}
	assert.Equal(t, 1, downs, "double teardown must not double-free")
}

func TestRunnerTeardownBeforeRunIsNoop(t *testing.T) {
	var trace []string
	r := NewRunner(step("a", &trace, false))
	r.Teardown()
	assert.Empty(t, trace)
}

func TestRunnerNilFuncs(t *testing.T) {
	r := NewRunner(Step{Name: "marker"})
	require.NoError(t, r.Run())
	r.Teardown()
}
