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

package rfm12_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetforge/go-rfm12"
	"github.com/packetforge/go-rfm12/internal/sim"
)

// newLinkedDriver wires a driver to a virtual chip and brings it up.
func newLinkedDriver(t *testing.T, cfg *rfm12.Config) (*rfm12.Driver, *sim.VirtualRFM12) {
	t.Helper()
	chip := sim.New()
	opts := []rfm12.Option{}
	if cfg != nil {
		opts = append(opts, rfm12.WithConfig(cfg))
	}
	d, err := rfm12.New(chip, opts...)
	require.NoError(t, err)
	require.NoError(t, d.Init())
	return d, chip
}

func TestReceiveFrame(t *testing.T) {
	t.Parallel()

	d, chip := newLinkedDriver(t, nil)
	payload := []byte("hello radio")
	chip.InjectFrame(0x42, payload)

	d.Interrupt()

	require.Equal(t, rfm12.SlotComplete, d.ReceiveStatus())
	assert.Equal(t, byte(len(payload)), d.ReceiveLen())
	assert.Equal(t, byte(0x42), d.ReceiveType())
	assert.Equal(t, payload, d.ReceivePayload())
	assert.Equal(t, uint64(1), d.Stats().FramesReceived)

	d.ReceiveRelease()
	assert.Equal(t, rfm12.SlotFree, d.ReceiveStatus())
}

func TestReceiveEmptyPayload(t *testing.T) {
	t.Parallel()

	d, chip := newLinkedDriver(t, nil)
	chip.InjectFrame(0x07, nil)

	d.Interrupt()

	require.Equal(t, rfm12.SlotComplete, d.ReceiveStatus())
	assert.Equal(t, byte(0), d.ReceiveLen())
	assert.Empty(t, d.ReceivePayload())
}

func TestReceiveHeaderChecksumMismatch(t *testing.T) {
	t.Parallel()

	d, chip := newLinkedDriver(t, nil)
	// Length 3, type 0x42, checksum off by one; the frame dies at the
	// third header byte and the FIFO is flushed.
	chip.InjectBytes(0x03, 0x42, 0x03^0x42, 0x01, 0x02, 0x03, 0xAA)

	d.Interrupt()

	assert.Equal(t, rfm12.SlotFree, d.ReceiveStatus())
	assert.Zero(t, chip.PendingRx(), "framing reset flushes the rest of the frame")
	stats := d.Stats()
	assert.Equal(t, uint64(1), stats.FramesCorrupted)
	assert.Zero(t, stats.FramesReceived)
}

func TestReceiveChecksumBypass(t *testing.T) {
	t.Parallel()

	cfg := rfm12.DefaultConfig()
	cfg.VerifyHeaderChecksum = false
	d, chip := newLinkedDriver(t, cfg)
	chip.InjectBytes(0x02, 0x42, 0x00, 0xDE, 0xAD, 0xAA)

	d.Interrupt()

	require.Equal(t, rfm12.SlotComplete, d.ReceiveStatus())
	assert.Equal(t, []byte{0xDE, 0xAD}, d.ReceivePayload())
	assert.Zero(t, d.Stats().FramesCorrupted)
}

func TestReceiveTruncatedToCapacity(t *testing.T) {
	t.Parallel()

	cfg := rfm12.DefaultConfig()
	cfg.PayloadCapacity = 4
	d, chip := newLinkedDriver(t, cfg)
	chip.InjectFrame(0x01, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	d.Interrupt()

	// The frame completes with the excess drained off the wire; the
	// declared length survives, the stored payload is clipped.
	require.Equal(t, rfm12.SlotComplete, d.ReceiveStatus())
	assert.Equal(t, byte(8), d.ReceiveLen())
	assert.Equal(t, []byte{1, 2, 3, 4}, d.ReceivePayload())
	assert.Equal(t, uint64(1), d.Stats().FramesTruncated)
}

func TestReceivePingPong(t *testing.T) {
	t.Parallel()

	d, chip := newLinkedDriver(t, nil)
	chip.InjectFrame(0x01, []byte("first"))
	chip.InjectFrame(0x02, []byte("second"))

	d.Interrupt()

	// Both slots filled; frames come out in arrival order across
	// releases.
	require.Equal(t, rfm12.SlotComplete, d.ReceiveStatus())
	assert.Equal(t, []byte("first"), d.ReceivePayload())
	d.ReceiveRelease()

	require.Equal(t, rfm12.SlotComplete, d.ReceiveStatus())
	assert.Equal(t, []byte("second"), d.ReceivePayload())
	d.ReceiveRelease()

	assert.Equal(t, rfm12.SlotFree, d.ReceiveStatus())

	// The released slots take a third frame without trouble.
	chip.InjectFrame(0x03, []byte("third"))
	d.Interrupt()
	require.Equal(t, rfm12.SlotComplete, d.ReceiveStatus())
	assert.Equal(t, []byte("third"), d.ReceivePayload())
}

func TestReceiveDropWhenBothSlotsBusy(t *testing.T) {
	t.Parallel()

	d, chip := newLinkedDriver(t, nil)
	chip.InjectFrame(0x01, []byte("one"))
	chip.InjectFrame(0x02, []byte("two"))
	chip.InjectFrame(0x03, []byte("three"))

	d.Interrupt()

	stats := d.Stats()
	assert.Equal(t, uint64(2), stats.FramesReceived)
	assert.Equal(t, uint64(1), stats.FramesDropped)
	assert.Zero(t, chip.PendingRx(), "dropped frame flushed from the FIFO")

	// The two delivered frames are intact.
	assert.Equal(t, []byte("one"), d.ReceivePayload())
	d.ReceiveRelease()
	assert.Equal(t, []byte("two"), d.ReceivePayload())
}
