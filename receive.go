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

// rxStart handles the first byte of a frame: the hardware matched the
// sync pattern and the FIFO delivered the declared length. Called with
// the driver lock held, in the receive-idle state.
func (d *Driver) rxStart() action {
	if !d.cfg.ReceiveEnabled {
		return actReset
	}
	length := d.hal.ReadData()

	// The length byte is part of the checksummed header and counts as
	// the first of length+overhead bytes.
	d.checksum = length
	d.bytesDone = 1
	d.bytesTotal = int(length) + frame.RxOverhead

	slot := &d.rx[d.rxIn]
	if slot.status != SlotFree {
		// Both the application and the other slot are behind; drop the
		// frame on the floor.
		d.stats.FramesDropped++
		debugf("rx drop: producer slot busy (len=%d)", length)
		return actReset
	}
	slot.data[0] = length
	d.state = stateReceiveActive
	return actContinue
}

// rxByte handles every subsequent byte of the frame, and the one event
// after the last counted byte, which completes it. Called with the
// driver lock held, in the receive-active state.
func (d *Driver) rxByte() action {
	data := d.hal.ReadData()
	slot := &d.rx[d.rxIn]

	if d.bytesDone < d.bytesTotal {
		d.checksum ^= data

		// Bytes past the slot capacity are drained but not stored, so
		// the byte count stays in step with the wire.
		if d.bytesDone < len(slot.data) {
			slot.data[d.bytesDone] = data
		}

		if d.cfg.VerifyHeaderChecksum &&
			d.bytesDone == frame.ChecksumOffset &&
			d.checksum != frame.ChecksumValid {
			d.stats.FramesCorrupted++
			debugf("rx drop: header checksum mismatch")
			return actReset
		}

		d.bytesDone++
		return actContinue
	}

	// One more byte arrived past the counted total: the frame is fully
	// in the slot. Hand it to the consumer and flip the producer target.
	slot.status = SlotComplete
	d.stats.FramesReceived++
	if int(slot.data[0])+frame.RxOverhead > len(slot.data) {
		d.stats.FramesTruncated++
	}
	d.rxIn ^= 1
	debugf("rx complete: len=%d type=%#02x", slot.data[0], slot.data[1])
	return actReset
}
