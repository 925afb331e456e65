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

import "sync"

// Status carries the chip event flags returned by HAL.ReadStatus.
// Reading the status clears the event flags on the chip, so a Status
// value is a snapshot that can only be observed once.
type Status struct {
	// DataReady is set when the receive FIFO holds a byte (receive
	// mode) or the TX register can accept the next byte (transmit mode).
	DataReady bool
	// Carrier is set while the chip detects signal energy above its
	// RSSI threshold on the channel.
	Carrier bool
}

// Mode selects the chip's RF chain state.
type Mode int

const (
	// ModeReceive enables the receiver chain.
	ModeReceive Mode = iota
	// ModeTransmit enables the transmitter.
	ModeTransmit
	// ModeIdle disables both chains; used after a transmission when the
	// driver is configured transmit-only.
	ModeIdle
)

// HAL abstracts the register-level access to the transceiver. The
// driver core issues only these operations; register encodings and bus
// transactions belong to the implementations under hal/.
//
// None of the methods return errors: they model register accesses that
// cannot fail individually. Bus-level implementations record a
// persistent error instead (see hal/spi).
type HAL interface {
	// ReadStatus reads and clears the chip event flags.
	ReadStatus() Status

	// ReadData pulls one byte from the receive FIFO.
	ReadData() byte

	// WriteData pushes one byte toward the transmitter.
	WriteData(b byte)

	// ResetFraming drops any partially received frame and re-arms the
	// hardware sync-pattern detection.
	ResetFraming()

	// SetMode switches the RF chain state.
	SetMode(m Mode)

	// SetEventsEnabled masks (false) or unmasks (true) delivery of
	// chip events to the event context.
	SetEventsEnabled(enabled bool)
}

// ModeHooks is an optional interface a HAL (or the application, via
// WithModeHooks) can implement to drive external RF front-end switching
// around mode transitions, as high-power modules like the RFM12BP
// require. Hooks run in the context performing the transition and must
// not block.
type ModeHooks interface {
	EnterTransmit()
	LeaveTransmit()
	EnterReceive()
	LeaveReceive()
}

var _ HAL = (*MockHAL)(nil)

// MockHAL is a scripted HAL for unit tests. Status reads and data reads
// pop from queues primed by the test; every write, mode change and
// framing reset is recorded. The zero value is not usable; create one
// with NewMockHAL.
type MockHAL struct {
	mu            sync.Mutex
	statuses      []Status
	data          []byte
	written       []byte
	modeChanges   []Mode
	mode          Mode
	eventsEnabled bool
	statusReads   int
	dataReads     int
	framingResets int
}

// NewMockHAL creates a mock HAL with empty queues, receive mode and
// events enabled.
func NewMockHAL() *MockHAL {
	return &MockHAL{
		mode:          ModeReceive,
		eventsEnabled: true,
	}
}

// PushStatus queues status words to be returned by successive
// ReadStatus calls. Once the queue drains, ReadStatus returns the zero
// Status (no events pending, no carrier).
func (m *MockHAL) PushStatus(statuses ...Status) {
	m.mu.Lock()
	m.statuses = append(m.statuses, statuses...)
	m.mu.Unlock()
}

// PushData queues bytes to be returned by successive ReadData calls.
func (m *MockHAL) PushData(data ...byte) {
	m.mu.Lock()
	m.data = append(m.data, data...)
	m.mu.Unlock()
}

// ReadStatus implements HAL.
func (m *MockHAL) ReadStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusReads++
	if len(m.statuses) == 0 {
		return Status{}
	}
	s := m.statuses[0]
	m.statuses = m.statuses[1:]
	return s
}

// ReadData implements HAL.
func (m *MockHAL) ReadData() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dataReads++
	if len(m.data) == 0 {
		return 0
	}
	b := m.data[0]
	m.data = m.data[1:]
	return b
}

// WriteData implements HAL.
func (m *MockHAL) WriteData(b byte) {
	m.mu.Lock()
	m.written = append(m.written, b)
	m.mu.Unlock()
}

// ResetFraming implements HAL.
func (m *MockHAL) ResetFraming() {
	m.mu.Lock()
	m.framingResets++
	m.mu.Unlock()
}

// SetMode implements HAL.
func (m *MockHAL) SetMode(mode Mode) {
	m.mu.Lock()
	m.mode = mode
	m.modeChanges = append(m.modeChanges, mode)
	m.mu.Unlock()
}

// SetEventsEnabled implements HAL.
func (m *MockHAL) SetEventsEnabled(enabled bool) {
	m.mu.Lock()
	m.eventsEnabled = enabled
	m.mu.Unlock()
}

// Test helper accessors

// Written returns a copy of all bytes written so far.
func (m *MockHAL) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.written))
	copy(out, m.written)
	return out
}

// Mode returns the current mode.
func (m *MockHAL) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// ModeChanges returns the sequence of SetMode calls.
func (m *MockHAL) ModeChanges() []Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Mode, len(m.modeChanges))
	copy(out, m.modeChanges)
	return out
}

// EventsEnabled returns the current event mask state.
func (m *MockHAL) EventsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsEnabled
}

// StatusReads returns how many times ReadStatus was called.
func (m *MockHAL) StatusReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusReads
}

// DataReads returns how many times ReadData was called.
func (m *MockHAL) DataReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dataReads
}

// FramingResets returns how many times ResetFraming was called.
func (m *MockHAL) FramingResets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.framingResets
}
