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

// Package sim provides a wire-level virtual RFM12 chip for tests.
//
// VirtualRFM12 implements rfm12.HAL and models the parts of the chip
// the driver interacts with: the receive FIFO behind sync-pattern
// framing, the two-stage TX register, the carrier-sense flag and the
// data-ready event flag. Tests inject inbound frames as the bytes the
// hardware would deliver past the sync match (header and payload; the
// chip consumes preamble and sync itself) and observe outbound
// transmissions byte for byte.
package sim

import (
	"github.com/packetforge/go-rfm12"
	"github.com/packetforge/go-rfm12/internal/frame"
	"github.com/packetforge/go-rfm12/internal/syncutil"
)

// txLatchDepth models the chip's two-stage TX register: bytes written
// while the transmitter is off are held (newest two) and go on the air
// when the transmitter switches on.
const txLatchDepth = 2

var _ rfm12.HAL = (*VirtualRFM12)(nil)

// VirtualRFM12 is an in-memory RFM12 chip.
type VirtualRFM12 struct {
	mu            syncutil.Mutex
	mode          rfm12.Mode
	carrier       bool
	eventsEnabled bool
	rxQueue       []byte
	latch         []byte
	wire          []byte
	statusReads   int
	framingResets int
}

// New creates a virtual chip in receive mode with nothing pending.
func New() *VirtualRFM12 {
	return &VirtualRFM12{
		mode:          rfm12.ModeReceive,
		eventsEnabled: true,
	}
}

// InjectFrame queues a well-formed inbound frame: header with a valid
// checksum, the payload, and the trailing flush byte every transmitter
// sends (the receive engine needs that one extra event to complete the
// frame).
func (v *VirtualRFM12) InjectFrame(frameType byte, payload []byte) {
	length := byte(len(payload))
	v.mu.Lock()
	v.rxQueue = append(v.rxQueue, length, frameType, frame.Checksum(length, frameType))
	v.rxQueue = append(v.rxQueue, payload...)
	v.rxQueue = append(v.rxQueue, frame.FlushByte)
	v.mu.Unlock()
}

// InjectBytes queues raw inbound bytes, for malformed-frame tests.
func (v *VirtualRFM12) InjectBytes(data ...byte) {
	v.mu.Lock()
	v.rxQueue = append(v.rxQueue, data...)
	v.mu.Unlock()
}

// SetCarrier sets the carrier-sense flag returned in the status word.
func (v *VirtualRFM12) SetCarrier(present bool) {
	v.mu.Lock()
	v.carrier = present
	v.mu.Unlock()
}

// Transmitted returns a copy of every byte that actually went on the
// air, in order.
func (v *VirtualRFM12) Transmitted() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]byte, len(v.wire))
	copy(out, v.wire)
	return out
}

// PendingRx returns how many inbound bytes are still queued.
func (v *VirtualRFM12) PendingRx() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.rxQueue)
}

// EventsEnabled returns the current event mask state.
func (v *VirtualRFM12) EventsEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.eventsEnabled
}

// StatusReads returns how many times the status word was read.
func (v *VirtualRFM12) StatusReads() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statusReads
}

// FramingResets returns how many framing reset sequences were issued.
func (v *VirtualRFM12) FramingResets() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.framingResets
}

// ReadStatus implements rfm12.HAL. In transmit mode the TX register is
// always hungry for the next byte; in receive mode data is ready while
// FIFO bytes are queued.
func (v *VirtualRFM12) ReadStatus() rfm12.Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statusReads++
	ready := false
	switch v.mode {
	case rfm12.ModeTransmit:
		ready = true
	case rfm12.ModeReceive:
		ready = len(v.rxQueue) > 0
	case rfm12.ModeIdle:
	}
	return rfm12.Status{DataReady: ready, Carrier: v.carrier}
}

// ReadData implements rfm12.HAL.
func (v *VirtualRFM12) ReadData() byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.rxQueue) == 0 {
		return 0
	}
	b := v.rxQueue[0]
	v.rxQueue = v.rxQueue[1:]
	return b
}

// WriteData implements rfm12.HAL. Writes while the transmitter is off
// land in the two-stage latch; once it is on they go straight to the
// air.
func (v *VirtualRFM12) WriteData(b byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mode == rfm12.ModeTransmit {
		v.drainLatch()
		v.wire = append(v.wire, b)
		return
	}
	v.latch = append(v.latch, b)
	if len(v.latch) > txLatchDepth {
		v.latch = v.latch[len(v.latch)-txLatchDepth:]
	}
}

// ResetFraming implements rfm12.HAL. Dropping the sync match discards
// whatever the current frame still had in flight.
func (v *VirtualRFM12) ResetFraming() {
	v.mu.Lock()
	v.framingResets++
	v.rxQueue = nil
	v.mu.Unlock()
}

// SetMode implements rfm12.HAL.
func (v *VirtualRFM12) SetMode(mode rfm12.Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if mode == rfm12.ModeTransmit {
		v.drainLatch()
	} else {
		v.latch = nil
	}
	v.mode = mode
}

// SetEventsEnabled implements rfm12.HAL.
func (v *VirtualRFM12) SetEventsEnabled(enabled bool) {
	v.mu.Lock()
	v.eventsEnabled = enabled
	v.mu.Unlock()
}

// drainLatch moves latched bytes onto the wire; callers hold the lock.
func (v *VirtualRFM12) drainLatch() {
	v.wire = append(v.wire, v.latch...)
	v.latch = nil
}
