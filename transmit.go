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

import "github.com/packetforge/go-rfm12/internal/frame"

// Enqueue stages one frame for transmission. It is purely a queuing
// operation: the frame goes on the air only after Tick has observed a
// clear channel. Returns ErrFrameTooLarge if the payload exceeds the
// configured capacity (checked before anything is copied) and
// ErrTransmitBusy while a previous frame is pending or on the air.
func (d *Driver) Enqueue(frameType byte, payload []byte) error {
	if len(payload) > d.cfg.PayloadCapacity {
		return ErrFrameTooLarge
	}

	// The transmit engine flips the slot back to Free from the event
	// context, so the whole test-and-fill runs as a critical section.
	d.hal.SetEventsEnabled(false)
	d.mu.Lock()
	defer func() {
		d.mu.Unlock()
		d.hal.SetEventsEnabled(!d.cfg.UsePolling)
	}()

	if !d.initialized {
		return ErrNotInitialized
	}
	if d.tx.status != SlotFree {
		return ErrTransmitBusy
	}

	length := byte(len(payload))
	d.tx.image[2] = length
	d.tx.image[3] = frameType
	d.tx.image[4] = frame.Checksum(length, frameType)
	copy(d.tx.image[frame.ImagePrefixLen:], payload)
	d.tx.length = length
	d.tx.status = SlotOccupied
	debugf("tx enqueued: len=%d type=%#02x", length, frameType)
	return nil
}

// startTransmit switches the chip to transmit mode and primes the
// two-stage TX register with the preamble pair; the transmit engine
// clocks out the rest per event. Called by Tick with the driver lock
// held, events masked, in the receive-idle state with the slot
// occupied.
func (d *Driver) startTransmit() {
	d.leaveReceive()

	d.bytesTotal = int(d.tx.length) + frame.TxOverhead
	d.bytesDone = 0
	d.state = stateTransmitting

	d.enterTransmit()

	// The TX register is two stages deep, so both preamble bytes fit
	// before the transmitter is even on. Transmission starts with the
	// mode switch.
	d.hal.WriteData(frame.Preamble)
	d.hal.WriteData(frame.Preamble)
	d.hal.SetMode(ModeTransmit)
	debugf("tx start: len=%d", d.tx.length)
}

// txByte feeds the transmitter one byte per event: sync pair, header,
// payload, then the counted flush byte that pushes the last payload
// byte out of the TX register. The event after that completes the
// transmission. Called with the driver lock held, in the transmitting
// state.
func (d *Driver) txByte() action {
	if d.bytesDone < d.bytesTotal {
		b := byte(frame.FlushByte)
		if prefix := int(d.tx.length) + frame.ImagePrefixLen; d.bytesDone < prefix {
			b = d.tx.image[d.bytesDone]
		}
		d.hal.WriteData(b)
		d.bytesDone++
		return actContinue
	}

	// All bytes clocked out: back to listening.
	d.leaveTransmit()
	d.tx.status = SlotFree
	if d.cfg.ReceiveEnabled {
		d.hal.SetMode(ModeReceive)
	} else {
		d.hal.SetMode(ModeIdle)
	}
	d.enterReceive()
	// Dummy write to release the data-ready latch; the transmitter is
	// already off, so it never reaches the air.
	d.hal.WriteData(frame.FlushByte)
	d.stats.FramesSent++
	debugf("tx complete: len=%d", d.tx.length)
	return actReset
}
