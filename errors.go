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

import "errors"

// Driver errors. Only enqueue-time conditions are surfaced to the
// caller; receive-side failures are silent by design and visible only
// through the Stats counters.
var (
	// ErrTransmitBusy is returned by Enqueue while a previous frame is
	// still pending or on the air.
	ErrTransmitBusy = errors.New("transmit slot occupied")

	// ErrFrameTooLarge is returned by Enqueue when the payload exceeds
	// the configured capacity. The transmit slot is left untouched.
	ErrFrameTooLarge = errors.New("payload exceeds transmit capacity")

	// ErrNoHAL is returned by New when no hardware access layer is
	// provided.
	ErrNoHAL = errors.New("no HAL provided")

	// ErrNotInitialized is returned by Enqueue before Init has run.
	ErrNotInitialized = errors.New("driver not initialized")

	// ErrInvalidConfig is returned by New for out-of-range
	// configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)
