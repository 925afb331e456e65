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

// action is the two-valued result every per-state handler returns to
// the dispatcher.
type action int

const (
	// actContinue leaves the hardware framing untouched; the current
	// operation goes on with the next event.
	actContinue action = iota
	// actReset has the dispatcher reset the hardware framing and force
	// the state back to receive-idle. It ends aborted frames and
	// completed ones alike.
	actReset
)

// Interrupt is the event-context entry point, to be invoked whenever
// the chip signals an event (falling nIRQ edge, or the HAL's watcher).
//
// Event delivery is masked for the whole dispatch. The status is
// re-read after each handled event: if another byte became ready while
// the first was handled, it is serviced within the same entry, which
// bounds latency and loses no event as long as Interrupt is re-entered
// before the chip's two-stage byte queue overruns.
func (d *Driver) Interrupt() {
	d.hal.SetEventsEnabled(false)
	d.mu.Lock()
	for {
		status := d.hal.ReadStatus()
		if !status.DataReady {
			break
		}
		var act action
		switch d.state {
		case stateReceiveIdle:
			act = d.rxStart()
		case stateReceiveActive:
			act = d.rxByte()
		case stateTransmitting:
			act = d.txByte()
		}
		if act == actContinue {
			continue
		}
		d.state = stateReceiveIdle
		d.hal.ResetFraming()
	}
	d.mu.Unlock()
	d.hal.SetEventsEnabled(!d.cfg.UsePolling)
}

// Poll services pending chip events from the polled context. It is the
// dispatch entry for configurations with UsePolling set, where no
// interrupt source is wired up.
func (d *Driver) Poll() {
	d.Interrupt()
}
