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

package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	name    string
	initErr error
	inited  bool
	ended   bool
	opts    []string
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Init(api *API) error {
	if p.initErr != nil {
		return p.initErr
	}
	p.inited = true
	p.opts = api.Options
	return nil
}

func (p *fakePlugin) End() error {
	p.ended = true
	return nil
}

func TestHostAutoload(t *testing.T) {
	resetForTest()
	a := &fakePlugin{name: "irc"}
	b := &fakePlugin{name: "relay"}
	Register(func() Plugin { return a })
	Register(func() Plugin { return b })

	h := NewHost(API{}, false)
	require.NoError(t, h.Init(true, []string{"irc:server=libera", "relay:port=9000", "garbage"}))

	assert.Equal(t, []string{"irc", "relay"}, h.Active())
	assert.Equal(t, []string{"server=libera"}, a.opts)
	assert.Equal(t, []string{"port=9000"}, b.opts)

	h.End()
	assert.True(t, a.ended)
	assert.True(t, b.ended)
	assert.Empty(t, h.Active())
}

func TestHostNoAutoloadLoadsNothing(t *testing.T) {
	resetForTest()
	p := &fakePlugin{name: "irc"}
	Register(func() Plugin { return p })

	h := NewHost(API{}, false)
	require.NoError(t, h.Init(false, nil))
	assert.Empty(t, h.Active())
	assert.False(t, p.inited)
}

func TestHostInitErrorPropagates(t *testing.T) {
	resetForTest()
	Register(func() Plugin { return &fakePlugin{name: "bad", initErr: errors.New("nope")} })

	h := NewHost(API{}, false)
	err := h.Init(true, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestHostSkipEndLeavesPluginsUntouched(t *testing.T) {
	resetForTest()
	p := &fakePlugin{name: "irc"}
	Register(func() Plugin { return p })

	h := NewHost(API{}, true)
	require.NoError(t, h.Init(true, nil))
	h.End()
	assert.False(t, p.ended, "skipEnd must not call plugin End")
	assert.Empty(t, h.Active())
}

func TestHostEndIdempotent(t *testing.T) {
	resetForTest()
	p := &fakePlugin{name: "irc"}
	Register(func() Plugin { return p })

	h := NewHost(API{}, false)
	require.NoError(t, h.Init(true, nil))
	h.End()
	h.End()
	assert.True(t, p.ended)
}
