// Copyright 2026 The PacketForge Project Contributors.
// SPDX-License-Identifier: Apache-2.0
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

package rfm12

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hal     HAL
		opts    []Option
		wantErr error
	}{
		{
			name:    "nil HAL",
			hal:     nil,
			wantErr: ErrNoHAL,
		},
		{
			name:    "nil config",
			hal:     NewMockHAL(),
			opts:    []Option{WithConfig(nil)},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "payload capacity zero",
			hal:     NewMockHAL(),
			opts:    []Option{WithConfig(&Config{PayloadCapacity: 0})},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "payload capacity over wire limit",
			hal:     NewMockHAL(),
			opts:    []Option{WithConfig(&Config{PayloadCapacity: 256})},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "defaults",
			hal:  NewMockHAL(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := New(tt.hal, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, d)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.True(t, cfg.ReceiveEnabled)
	assert.False(t, cfg.UsePolling)
	assert.True(t, cfg.VerifyHeaderChecksum)
	assert.True(t, cfg.CollisionAvoidance)
	assert.Equal(t, uint8(16), cfg.ChannelFreeThreshold)
	assert.Equal(t, 30, cfg.PayloadCapacity)
}

func TestInitReceiveMode(t *testing.T) {
	t.Parallel()

	hal := NewMockHAL()
	d, err := New(hal)
	require.NoError(t, err)
	require.NoError(t, d.Init())

	assert.Equal(t, ModeReceive, hal.Mode())
	assert.Equal(t, 1, hal.StatusReads(), "power-up event flag cleared")
	assert.Equal(t, 1, hal.FramingResets(), "sync detection armed")
	assert.True(t, hal.EventsEnabled())
	assert.Equal(t, SlotFree, d.ReceiveStatus())
}

func TestInitTransmitOnly(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ReceiveEnabled = false
	hal := NewMockHAL()
	d, err := New(hal, WithConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, d.Init())

	assert.Equal(t, ModeIdle, hal.Mode())
}

func TestInitPollingLeavesEventsMasked(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UsePolling = true
	hal := NewMockHAL()
	d, err := New(hal, WithConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, d.Init())

	assert.False(t, hal.EventsEnabled())
}

func TestEnqueueBeforeInit(t *testing.T) {
	t.Parallel()

	d, err := New(NewMockHAL())
	require.NoError(t, err)

	require.ErrorIs(t, d.Enqueue(0x01, []byte("hi")), ErrNotInitialized)
}

func TestReceiveReleaseOnFreeSlotIsNoOp(t *testing.T) {
	t.Parallel()

	d, err := New(NewMockHAL())
	require.NoError(t, err)
	require.NoError(t, d.Init())

	// Releasing with nothing received must not advance the consumer
	// target; the next completed frame is still read from slot zero.
	d.ReceiveRelease()
	d.ReceiveRelease()
	assert.Equal(t, SlotFree, d.ReceiveStatus())
	assert.Equal(t, 0, d.rxOut)
}

func TestReceivePayloadNilUnlessComplete(t *testing.T) {
	t.Parallel()

	d, err := New(NewMockHAL())
	require.NoError(t, err)
	require.NoError(t, d.Init())

	assert.Nil(t, d.ReceivePayload())
}

func TestStatsZeroedOnInit(t *testing.T) {
	t.Parallel()

	d, err := New(NewMockHAL())
	require.NoError(t, err)
	d.stats.FramesSent = 7
	require.NoError(t, d.Init())

	assert.Equal(t, Stats{}, d.Stats())
}

// hookRecorder records front-end switching calls in order.
type hookRecorder struct {
	calls []string
}

func (h *hookRecorder) EnterTransmit() { h.calls = append(h.calls, "enterTx") }
func (h *hookRecorder) LeaveTransmit() { h.calls = append(h.calls, "leaveTx") }
func (h *hookRecorder) EnterReceive()  { h.calls = append(h.calls, "enterRx") }
func (h *hookRecorder) LeaveReceive()  { h.calls = append(h.calls, "leaveRx") }

func TestModeHooksOptionOverridesHAL(t *testing.T) {
	t.Parallel()

	hooks := &hookRecorder{}
	d, err := New(NewMockHAL(), WithModeHooks(hooks))
	require.NoError(t, err)
	require.NoError(t, d.Init())

	assert.Equal(t, []string{"enterRx"}, hooks.calls)
}
