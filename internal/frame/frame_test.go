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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		length    byte
		frameType byte
		want      byte
	}{
		{name: "zero header", length: 0x00, frameType: 0x00, want: 0xFF},
		{name: "small frame", length: 0x05, frameType: 0x42, want: 0x05 ^ 0x42 ^ 0xFF},
		{name: "max length", length: 0xFF, frameType: 0x01, want: 0xFF ^ 0x01 ^ 0xFF},
		{name: "equal bytes cancel", length: 0x7A, frameType: 0x7A, want: 0xFF},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Checksum(tt.length, tt.frameType))
		})
	}
}

func TestVerifyHeader(t *testing.T) {
	t.Parallel()

	assert.True(t, VerifyHeader(0x05, 0x42, Checksum(0x05, 0x42)))
	assert.False(t, VerifyHeader(0x05, 0x42, Checksum(0x05, 0x42)^0x01))
	// A header of all zeroes never verifies; silence on the air cannot
	// look like a frame.
	assert.False(t, VerifyHeader(0x00, 0x00, 0x00))
}

func FuzzVerifyHeader(f *testing.F) {
	f.Add(byte(0x00), byte(0x00))
	f.Add(byte(0x42), byte(0x05))
	f.Add(byte(0xFF), byte(0xFF))
	f.Fuzz(func(t *testing.T, length, frameType byte) {
		sum := Checksum(length, frameType)
		if !VerifyHeader(length, frameType, sum) {
			t.Errorf("header (%#02x, %#02x, %#02x) does not verify", length, frameType, sum)
		}
		if VerifyHeader(length, frameType, sum^0x01) {
			t.Errorf("corrupt checksum %#02x verified for (%#02x, %#02x)", sum^0x01, length, frameType)
		}
	})
}

func TestChecksumRoundTrip(t *testing.T) {
	t.Parallel()

	// XOR folding of the three header bytes must land on the sentinel
	// for every length/type pair.
	for _, length := range []byte{0x00, 0x01, 0x42, 0x80, 0xFF} {
		for _, frameType := range []byte{0x00, 0x07, 0x99, 0xFF} {
			sum := Checksum(length, frameType)
			assert.Equal(t, byte(ChecksumValid), length^frameType^sum)
			assert.True(t, VerifyHeader(length, frameType, sum))
		}
	}
}
