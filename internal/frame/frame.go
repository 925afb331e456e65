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

// Package frame defines the on-air frame layout shared by the transmit
// and receive engines.
//
// A frame is a 3-byte header followed by an opaque payload:
//
//	length | type | checksum | payload[0..length-1]
//
// where checksum = length ^ type ^ 0xFF. The chip itself handles the
// preamble and the 2-byte sync pattern on receive, so the receive side
// only ever sees header and payload bytes. On transmit the driver must
// clock out the sync pattern itself, plus one trailing flush byte to
// push the last payload byte out of the chip's two-stage TX register.
package frame

const (
	// Preamble is the carrier training byte sent twice before the sync
	// pattern so the receiver's AFC can lock onto the frequency.
	Preamble = 0xAA

	// SyncHigh and SyncLow form the sync pattern the receiving chip
	// matches in hardware before it starts filling its FIFO.
	SyncHigh = 0x2D
	SyncLow  = 0xD4

	// FlushByte trails every transmission to clock the final payload
	// byte through the TX register. Its value is never interpreted.
	FlushByte = 0xAA

	// HeaderLen is the number of header bytes: length, type, checksum.
	HeaderLen = 3

	// ChecksumOffset is the header offset of the checksum byte.
	ChecksumOffset = 2

	// RxOverhead is the per-frame byte count beyond the payload as seen
	// by the receiver: the three header bytes.
	RxOverhead = HeaderLen

	// TxOverhead is the per-frame byte count beyond the payload that the
	// transmit engine clocks out: 2 sync bytes, 3 header bytes and the
	// trailing flush byte. The preamble pair is written before the
	// engine starts counting and is not included.
	TxOverhead = 2 + HeaderLen + 1

	// ImagePrefixLen is the number of bytes in the transmit frame image
	// that precede the payload: 2 sync bytes plus the header.
	ImagePrefixLen = 2 + HeaderLen

	// ChecksumValid is the value the running receive checksum must hold
	// after folding in all three header bytes of an intact header.
	ChecksumValid = 0xFF

	// MaxPayload is the largest payload a length byte can describe.
	MaxPayload = 0xFF
)

// Checksum computes the header checksum for the given length and type.
func Checksum(length, frameType byte) byte {
	return length ^ frameType ^ 0xFF
}

// VerifyHeader reports whether a received header is internally
// consistent, i.e. its checksum matches its length and type bytes.
func VerifyHeader(length, frameType, checksum byte) bool {
	return length^frameType^checksum == ChecksumValid
}
