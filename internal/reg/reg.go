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

// Package reg holds the RFM12 command words and status bits shared by
// the hardware backends. Every transaction with the chip is one 16-bit
// word on the bus; the upper bits select the register, the lower bits
// carry the value.
//
// Reference: HopeRF RFM12B programming guide. The driver core never
// touches these; they belong to the hal/ packages.
package reg

// Command words.
const (
	// CmdStatus reads the 16-bit status word. Reading it also clears
	// the interrupt event flags.
	CmdStatus uint16 = 0x0000

	// CmdFIFORead reads one byte from the receive FIFO.
	CmdFIFORead uint16 = 0xB000

	// CmdTXWrite loads one byte into the TX register; OR the data byte
	// into the low bits.
	CmdTXWrite uint16 = 0xB800

	// CmdFIFODisable and CmdFIFOAccept form the FIFO reset sequence:
	// disabling the sync-pattern fill drops any partial frame, and
	// re-enabling it re-arms sync detection for the next frame.
	// FIFO fill level 8 bits, two-byte sync pattern.
	CmdFIFODisable uint16 = 0xCA81
	CmdFIFOAccept  uint16 = 0xCA83

	// Power management: receiver chain on, transmitter on, or both off
	// (crystal and baseband kept running so mode switches stay fast).
	CmdPowerReceive  uint16 = 0x82D9
	CmdPowerTransmit uint16 = 0x8239
	CmdPowerIdle     uint16 = 0x8209
)

// Status word bits.
const (
	// StatusDataReady is set when the receive FIFO has a byte (receive
	// mode) or the TX register can accept the next byte (transmit mode).
	StatusDataReady uint16 = 1 << 15

	// StatusRSSI is set while the received signal strength is above the
	// programmed threshold, i.e. a carrier is present.
	StatusRSSI uint16 = 1 << 8
)

// Band select values for the configuration command.
const (
	Band433 uint16 = 0x0010
	Band868 uint16 = 0x0020
	Band915 uint16 = 0x0030
)

// InitCmds builds the one-time configuration sequence for the given
// band/frequency/rate register values. The sequence mirrors the
// canonical RFM12B bring-up order: configuration and band select first,
// power management, tuning, then filters and FIFO arming. The chip is
// left idle; the driver selects the operating mode afterwards.
func InitCmds(bandSelect, frequency, dataRate uint16) []uint16 {
	return []uint16{
		0x80C7 | bandSelect, // EL, EF, 12.0pF, band select
		CmdPowerIdle,
		0xA000 | frequency, // center frequency
		0xC600 | dataRate,  // data rate divider
		0x94A2,             // VDI fast, 134kHz BW, 0dB LNA, -91dBm RSSI
		0xC2AC,             // AL, digital filter, DQD4
		CmdFIFOAccept,      // FIFO8, two-byte sync, sync fill armed
		0xCED4,             // sync group 0xD4
		0xC483,             // AFC @PWR, +4/-3, fine, OE, EN
		0x9850,             // 90kHz shift, max output power
		0xCC77,             // PLL defaults
		0xE000,             // wake-up timer off
		0xC800,             // low duty cycle off
		0xC049,             // clock output 1.66MHz, LBD 3.1V
	}
}
