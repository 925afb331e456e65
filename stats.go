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

// Stats counts frame-level outcomes since Init. Receive-side failures
// remain silent at the API level; these counters are the only way to
// observe them. They are passive: nothing in the driver changes
// behavior based on them.
type Stats struct {
	// FramesReceived counts frames delivered Complete to a receive slot.
	FramesReceived uint64
	// FramesSent counts transmissions run to completion.
	FramesSent uint64
	// FramesDropped counts frames discarded because the producer-target
	// slot was still Complete when the frame started.
	FramesDropped uint64
	// FramesCorrupted counts frames discarded on a header checksum
	// mismatch.
	FramesCorrupted uint64
	// FramesTruncated counts delivered frames whose declared length
	// exceeded the slot capacity; the overflow bytes were drained off
	// the wire but not stored.
	FramesTruncated uint64
}

// Stats returns a snapshot of the frame counters.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}
