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

// Tick runs the collision-avoidance schedule and starts a pending
// transmission once the channel has been clear long enough. The
// application must call it periodically; without Tick no enqueued frame
// ever goes on the air. Tick is not safe to re-enter concurrently with
// itself.
//
// The scheme is a fixed quiet-period carrier-sense debounce: the
// channel must be observed carrier-free for ChannelFreeThreshold
// consecutive ticks before a start. There is no jitter and no backoff;
// collisions are only avoided beforehand, never detected once
// transmitting.
func (d *Driver) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Never disturb an active receive or transmit.
	if d.state != stateReceiveIdle {
		return
	}

	if d.cfg.CollisionAvoidance {
		// Reading the status register clears the event flags, so the
		// read runs with events masked. A data-ready byte surfacing in
		// this window is picked up by the next dispatch.
		d.hal.SetEventsEnabled(false)
		status := d.hal.ReadStatus()
		d.hal.SetEventsEnabled(!d.cfg.UsePolling)

		if status.Carrier {
			d.channelFree = d.cfg.ChannelFreeThreshold
			return
		}
		if d.channelFree > 0 {
			d.channelFree--
			return
		}
	}

	if d.tx.status == SlotOccupied {
		// Starting a transmission touches the chip directly; masked
		// like every other polled-context chip access. This can clip a
		// reception that began within the last few cycles, but the
		// pending frame must go out at some point.
		d.hal.SetEventsEnabled(false)
		d.startTransmit()
		d.hal.SetEventsEnabled(!d.cfg.UsePolling)
	}
}
