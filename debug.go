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

import (
	"fmt"
	"os"
)

// debugEnabled controls whether debug logging is active. Debug output
// is never produced on the per-byte event path; only state transitions
// and frame boundaries are logged.
var debugEnabled = false

func init() {
	if os.Getenv("RFM12_DEBUG") != "" || os.Getenv("DEBUG") != "" {
		debugEnabled = true
	}
}

// SetDebugEnabled allows programmatic control of debug logging.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

func debugf(format string, args ...any) {
	if debugEnabled {
		_, _ = fmt.Fprintf(os.Stderr, "rfm12: "+format+"\n", args...)
	}
}
