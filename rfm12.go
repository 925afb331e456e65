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

// Package rfm12 implements a link-layer driver for the HopeRF RFM12
// half-duplex packet radio transceiver.
//
// The driver coordinates two execution contexts over shared state: the
// event context, which services chip events through Interrupt (or Poll
// when configured for polling), and the cooperatively polled context,
// which runs Tick, Enqueue and the receive accessors. The chip's byte
// queue is only two stages deep, so the event context must be
// re-entered promptly; a late dispatch shows up as silent byte loss on
// the air, never as an error.
//
// Frames are broadcast on a flat shared channel: no addressing, no
// acknowledgments, one frame in flight at a time.
package rfm12

import (
	"fmt"

	"github.com/packetforge/go-rfm12/internal/frame"
	"github.com/packetforge/go-rfm12/internal/syncutil"
)

// SlotStatus describes the state of a receive slot or the transmit
// slot.
type SlotStatus int

const (
	// SlotFree means the slot holds no frame and may be written by its
	// producer.
	SlotFree SlotStatus = iota
	// SlotComplete means the slot holds a fully received frame and is
	// owned by the consumer until ReceiveRelease.
	SlotComplete
	// SlotOccupied means the transmit slot holds a frame pending or on
	// the air.
	SlotOccupied
)

// protocol state, mutated only inside the event dispatcher (and by
// startTransmit, which runs with events masked).
type state int

const (
	stateReceiveIdle state = iota
	stateReceiveActive
	stateTransmitting
)

// Config holds the construction-time options of a Driver. All buffers
// are sized from it once in New and never resized.
type Config struct {
	// ReceiveEnabled keeps the receiver chain running between
	// transmissions. Disable for transmit-only nodes.
	ReceiveEnabled bool
	// UsePolling leaves chip events masked permanently; the application
	// drives the dispatcher by calling Poll periodically instead of
	// wiring an interrupt source to Interrupt.
	UsePolling bool
	// VerifyHeaderChecksum drops frames whose header checksum does not
	// match. Disabling it delivers frames with corrupt headers.
	VerifyHeaderChecksum bool
	// CollisionAvoidance gates transmission start on the channel having
	// been clear of carrier for ChannelFreeThreshold consecutive ticks.
	CollisionAvoidance bool
	// ChannelFreeThreshold is the number of consecutive carrier-free
	// ticks required before a pending transmission may start.
	ChannelFreeThreshold uint8
	// PayloadCapacity is the largest payload, in bytes, either
	// direction can carry. 1..255.
	PayloadCapacity int
}

// DefaultConfig returns the default driver configuration: receiving
// enabled, event-driven dispatch, header verification and collision
// avoidance on.
func DefaultConfig() *Config {
	return &Config{
		ReceiveEnabled:       true,
		UsePolling:           false,
		VerifyHeaderChecksum: true,
		CollisionAvoidance:   true,
		ChannelFreeThreshold: 16,
		PayloadCapacity:      30,
	}
}

// rxSlot is one receive buffer. data holds the frame image as it
// appears on the wire: length, type, checksum, then payload, so the
// assembly engine can store incoming bytes by wire offset.
type rxSlot struct {
	data   []byte
	status SlotStatus
}

// txSlot is the single transmit buffer. image holds the bytes the
// transmit engine clocks out in order: both sync bytes, the header,
// then the payload.
type txSlot struct {
	image  []byte
	length byte
	status SlotStatus
}

// Driver is the link-layer driver for one RFM12 chip.
//
// Interrupt (or Poll) may be called from a dedicated goroutine; all
// other methods belong to the application's polled context. The
// internal mutex plus HAL event masking make the two contexts safe
// against each other, but the polled-context methods themselves are not
// reentrant: call Tick, Enqueue and the receive accessors from one
// goroutine.
type Driver struct {
	hal   HAL
	hooks ModeHooks
	cfg   *Config

	mu syncutil.Mutex

	state       state
	bytesDone   int
	bytesTotal  int
	checksum    byte
	rx          [2]rxSlot
	rxIn        int // producer target
	rxOut       int // consumer target
	tx          txSlot
	channelFree uint8
	stats       Stats
	initialized bool
}

// Option configures a Driver at construction time.
type Option func(*Driver) error

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(d *Driver) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		d.cfg = cfg
		return nil
	}
}

// WithModeHooks installs RF front-end switching hooks. Overrides hooks
// the HAL itself may implement.
func WithModeHooks(hooks ModeHooks) Option {
	return func(d *Driver) error {
		d.hooks = hooks
		return nil
	}
}

// New creates a Driver for the given HAL. The driver is unusable until
// Init has run.
func New(hal HAL, opts ...Option) (*Driver, error) {
	if hal == nil {
		return nil, ErrNoHAL
	}
	d := &Driver{
		hal: hal,
		cfg: DefaultConfig(),
	}
	// A HAL that switches external front ends exposes that through
	// ModeHooks; an explicit WithModeHooks option takes precedence.
	if hooks, ok := hal.(ModeHooks); ok {
		d.hooks = hooks
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.cfg.PayloadCapacity < 1 || d.cfg.PayloadCapacity > frame.MaxPayload {
		return nil, fmt.Errorf("%w: payload capacity %d out of range 1..%d",
			ErrInvalidConfig, d.cfg.PayloadCapacity, frame.MaxPayload)
	}
	d.rx[0].data = make([]byte, d.cfg.PayloadCapacity+frame.RxOverhead)
	d.rx[1].data = make([]byte, d.cfg.PayloadCapacity+frame.RxOverhead)
	d.tx.image = make([]byte, d.cfg.PayloadCapacity+frame.ImagePrefixLen)
	return d, nil
}

// Init performs the one-time driver setup: buffer state, sync pattern,
// chip receive mode and framing, and event unmasking. It must precede
// every other call and leaves the driver in the receive-idle state.
func (d *Driver) Init() error {
	d.mu.Lock()
	d.tx.image[0] = frame.SyncHigh
	d.tx.image[1] = frame.SyncLow
	d.tx.status = SlotFree
	d.rx[0].status = SlotFree
	d.rx[1].status = SlotFree
	d.rxIn, d.rxOut = 0, 0
	d.state = stateReceiveIdle
	d.channelFree = d.cfg.ChannelFreeThreshold
	d.stats = Stats{}
	d.initialized = true
	d.mu.Unlock()

	if d.cfg.ReceiveEnabled {
		d.hal.SetMode(ModeReceive)
		d.enterReceive()
	} else {
		d.hal.SetMode(ModeIdle)
	}
	// Clear any event flag left over from power-up, then arm the sync
	// detection so reception can begin.
	d.hal.ReadStatus()
	d.hal.ResetFraming()
	d.hal.SetEventsEnabled(!d.cfg.UsePolling)
	debugf("initialized (receive=%v polling=%v)", d.cfg.ReceiveEnabled, d.cfg.UsePolling)
	return nil
}

// ReceiveStatus reports the state of the consumer-target slot.
func (d *Driver) ReceiveStatus() SlotStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rx[d.rxOut].status
}

// ReceiveLen returns the declared payload length of the completed
// frame in the consumer-target slot. Valid only while ReceiveStatus
// reports SlotComplete. For truncated frames this is the declared
// length, which may exceed len(ReceivePayload()).
func (d *Driver) ReceiveLen() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rx[d.rxOut].data[0]
}

// ReceiveType returns the type byte of the completed frame in the
// consumer-target slot. Valid only while ReceiveStatus reports
// SlotComplete.
func (d *Driver) ReceiveType() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rx[d.rxOut].data[1]
}

// ReceivePayload returns the payload of the completed frame in the
// consumer-target slot, truncated to the slot capacity if the sender
// declared more. The returned slice aliases the slot and is valid only
// until ReceiveRelease; it returns nil unless ReceiveStatus reports
// SlotComplete.
func (d *Driver) ReceivePayload() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	slot := &d.rx[d.rxOut]
	if slot.status != SlotComplete {
		return nil
	}
	n := int(slot.data[0])
	if maxN := len(slot.data) - frame.RxOverhead; n > maxN {
		n = maxN
	}
	return slot.data[frame.RxOverhead : frame.RxOverhead+n]
}

// ReceiveRelease returns the consumer-target slot to the assembly
// engine and advances the consumer target to the other slot. Calling it
// while the slot is not Complete is a no-op: the consumer target
// advances exactly once per observed Complete.
//
// Release transfers ownership through the slot status alone; it never
// masks chip events, because the assembly engine does not touch a
// Complete slot.
func (d *Driver) ReceiveRelease() {
	d.mu.Lock()
	defer d.mu.Unlock()
	slot := &d.rx[d.rxOut]
	if slot.status != SlotComplete {
		return
	}
	slot.status = SlotFree
	d.rxOut ^= 1
}

func (d *Driver) enterTransmit() {
	if d.hooks != nil {
		d.hooks.EnterTransmit()
	}
}

func (d *Driver) leaveTransmit() {
	if d.hooks != nil {
		d.hooks.LeaveTransmit()
	}
}

func (d *Driver) enterReceive() {
	if d.hooks != nil {
		d.hooks.EnterReceive()
	}
}

func (d *Driver) leaveReceive() {
	if d.hooks != nil {
		d.hooks.LeaveReceive()
	}
}
