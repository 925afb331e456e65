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

// Package serial provides a hardware access layer that reaches an RFM12
// through a serial register bridge: a small firmware on the far side
// that forwards 16-bit register transfers to the chip's SPI bus.
//
// The bridge protocol is one transaction per transfer: the host sends
// [opXfer, hi, lo] and the bridge answers with the two bytes the chip
// shifted back. There is no interrupt line over serial, so this backend
// is meant for polled operation (Config.UsePolling on the driver).
package serial

import (
	"errors"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/packetforge/go-rfm12"
	"github.com/packetforge/go-rfm12/internal/reg"
)

// Band selection for Config.
const (
	Band433 = reg.Band433
	Band868 = reg.Band868
	Band915 = reg.Band915
)

// opXfer asks the bridge to run one 16-bit transfer and echo the reply.
const opXfer byte = 0x01

const defaultBaudRate = 115200

// ErrBridgeTimeout is wrapped into the persistent error when the bridge
// stops answering.
var ErrBridgeTimeout = errors.New("register bridge timeout")

// Config describes the bridge connection and RF parameters.
type Config struct {
	// PortName is the serial device path, e.g. "/dev/ttyUSB0".
	PortName string
	// BaudRate defaults to 115200.
	BaudRate int
	// ReadTimeout bounds each bridge reply. Defaults to 100ms.
	ReadTimeout time.Duration
	// Band selects the frequency band (Band433, Band868, Band915).
	Band uint16
	// Frequency is the 12-bit channel tuning word.
	Frequency uint16
	// DataRate is the data rate divider register value.
	DataRate uint16
}

// DefaultConfig returns bridge defaults for an 868MHz module.
func DefaultConfig() *Config {
	return &Config{
		BaudRate:    defaultBaudRate,
		ReadTimeout: 100 * time.Millisecond,
		Band:        Band868,
		Frequency:   0x0640,
		DataRate:    0x0006,
	}
}

var _ rfm12.HAL = (*HAL)(nil)

// HAL implements rfm12.HAL over a serial register bridge.
type HAL struct {
	port serial.Port
	err  error
}

// Open connects to the bridge and writes the chip's one-time
// configuration sequence through it.
func Open(cfg *Config) (*HAL, error) {
	if cfg == nil || cfg.PortName == "" {
		return nil, errors.New("serial: port name required")
	}
	baud := cfg.BaudRate
	if baud == 0 {
		baud = defaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.PortName, err)
	}
	timeout := cfg.ReadTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	h := NewFromPort(port)
	for _, cmd := range reg.InitCmds(cfg.Band, cfg.Frequency, cfg.DataRate) {
		h.xfer(cmd)
	}
	if h.err != nil {
		_ = port.Close()
		return nil, h.err
	}
	return h, nil
}

// NewFromPort wraps an already-open port. The caller is responsible for
// port modes and chip configuration. Mostly useful for tests.
func NewFromPort(port serial.Port) *HAL {
	return &HAL{port: port}
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// xfer runs one bridge transaction. The first I/O error sticks; later
// transfers are no-ops returning zero.
func (h *HAL) xfer(cmd uint16) uint16 {
	if h.err != nil {
		return 0
	}
	req := [3]byte{opXfer, byte(cmd >> 8), byte(cmd)}
	if _, err := h.port.Write(req[:]); err != nil {
		h.err = fmt.Errorf("bridge write %#04x: %w", cmd, err)
		return 0
	}
	// The port read timeout surfaces as a zero-byte read, not an error.
	var resp [2]byte
	for got := 0; got < len(resp); {
		n, err := h.port.Read(resp[got:])
		if err != nil {
			h.err = fmt.Errorf("bridge read %#04x: %w", cmd, err)
			return 0
		}
		if n == 0 {
			h.err = fmt.Errorf("bridge read %#04x: %w", cmd, ErrBridgeTimeout)
			return 0
		}
		got += n
	}
	return uint16(resp[0])<<8 | uint16(resp[1])
}

// ReadStatus implements rfm12.HAL.
func (h *HAL) ReadStatus() rfm12.Status {
	s := h.xfer(reg.CmdStatus)
	return rfm12.Status{
		DataReady: s&reg.StatusDataReady != 0,
		Carrier:   s&reg.StatusRSSI != 0,
	}
}

// ReadData implements rfm12.HAL.
func (h *HAL) ReadData() byte {
	return byte(h.xfer(reg.CmdFIFORead))
}

// WriteData implements rfm12.HAL.
func (h *HAL) WriteData(b byte) {
	h.xfer(reg.CmdTXWrite | uint16(b))
}

// ResetFraming implements rfm12.HAL.
func (h *HAL) ResetFraming() {
	h.xfer(reg.CmdFIFODisable)
	h.xfer(reg.CmdFIFOAccept)
}

// SetMode implements rfm12.HAL.
func (h *HAL) SetMode(m rfm12.Mode) {
	switch m {
	case rfm12.ModeReceive:
		h.xfer(reg.CmdPowerReceive)
	case rfm12.ModeTransmit:
		h.xfer(reg.CmdPowerTransmit)
	case rfm12.ModeIdle:
		h.xfer(reg.CmdPowerIdle)
	}
}

// SetEventsEnabled implements rfm12.HAL. The bridge carries no
// interrupt line, so with polled operation there is nothing to mask.
func (*HAL) SetEventsEnabled(_ bool) {}

// Err returns the persistent bridge error, if any.
func (h *HAL) Err() error {
	return h.err
}

// Close releases the serial port.
func (h *HAL) Close() error {
	return h.port.Close()
}
