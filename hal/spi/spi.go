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

// Package spi provides the SPI hardware access layer for an RFM12
// wired to a host SPI bus, with the chip's nIRQ line on an
// interrupt-capable GPIO pin.
//
// Every chip access is one 16-bit SPI transfer. Individual transfers
// cannot fail meaningfully once the bus is open; bus-level errors are
// recorded as a persistent error retrievable with Err, after which the
// HAL should be closed and reopened.
package spi

import (
	"fmt"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/packetforge/go-rfm12"
	"github.com/packetforge/go-rfm12/internal/reg"
)

// Band selection for Config.
const (
	Band433 = reg.Band433
	Band868 = reg.Band868
	Band915 = reg.Band915
)

// Config describes the bus wiring and RF parameters.
type Config struct {
	// PortName is the SPI port registry name ("" selects the first
	// available port).
	PortName string
	// IRQPin is the GPIO registry name of the pin wired to nIRQ.
	IRQPin string
	// SPIFrequency is the bus clock. The RFM12 FIFO read path tops out
	// at 2.5MHz; the default is 2MHz.
	SPIFrequency physic.Frequency
	// Band selects the frequency band (Band433, Band868, Band915).
	Band uint16
	// Frequency is the 12-bit channel tuning word.
	Frequency uint16
	// DataRate is the data rate divider register value.
	DataRate uint16
}

// DefaultConfig returns wiring defaults for an 868MHz module at
// roughly 49.2kbps.
func DefaultConfig() *Config {
	return &Config{
		PortName:     "",
		IRQPin:       "GPIO25",
		SPIFrequency: 2 * physic.MegaHertz,
		Band:         Band868,
		Frequency:    0x0640,
		DataRate:     0x0006,
	}
}

var _ rfm12.HAL = (*HAL)(nil)

// HAL implements rfm12.HAL over an SPI bus and an interrupt GPIO.
type HAL struct {
	port   spi.PortCloser
	conn   spi.Conn
	irq    gpio.PinIn
	events atomic.Bool
	stop   chan struct{}
	done   chan struct{}
	err    error
}

// Open initializes the host, opens the SPI port and the nIRQ pin, and
// writes the chip's one-time configuration sequence.
func Open(cfg *Config) (*HAL, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	port, err := spireg.Open(cfg.PortName)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", cfg.PortName, err)
	}
	freq := cfg.SPIFrequency
	if freq == 0 {
		freq = 2 * physic.MegaHertz
	}
	conn, err := port.Connect(freq, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect SPI port %q: %w", cfg.PortName, err)
	}

	irq := gpioreg.ByName(cfg.IRQPin)
	if irq == nil {
		_ = port.Close()
		return nil, fmt.Errorf("IRQ pin %q not found", cfg.IRQPin)
	}
	// nIRQ is active low.
	if err := irq.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("configure IRQ pin %q: %w", cfg.IRQPin, err)
	}

	h := &HAL{
		port: port,
		conn: conn,
		irq:  irq,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	h.events.Store(true)

	for _, cmd := range reg.InitCmds(cfg.Band, cfg.Frequency, cfg.DataRate) {
		h.xfer(cmd)
	}
	if h.err != nil {
		_ = port.Close()
		return nil, h.err
	}
	return h, nil
}

// xfer performs one 16-bit transfer and returns the 16 bits the chip
// shifted back. The first bus error sticks.
func (h *HAL) xfer(cmd uint16) uint16 {
	w := [2]byte{byte(cmd >> 8), byte(cmd)}
	var r [2]byte
	if err := h.conn.Tx(w[:], r[:]); err != nil && h.err == nil {
		h.err = fmt.Errorf("SPI transfer %#04x: %w", cmd, err)
	}
	return uint16(r[0])<<8 | uint16(r[1])
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

// SetEventsEnabled implements rfm12.HAL. The chip keeps asserting nIRQ
// regardless; masking happens host-side by gating the watcher.
func (h *HAL) SetEventsEnabled(enabled bool) {
	h.events.Store(enabled)
}

// Err returns the persistent bus error, if any.
func (h *HAL) Err() error {
	return h.err
}

// Watch runs handler on every nIRQ assertion until Close. The handler
// is typically (*rfm12.Driver).Interrupt. Watch returns immediately;
// the watcher runs in its own goroutine, which is the driver's event
// context.
func (h *HAL) Watch(handler func()) {
	go func() {
		defer close(h.done)
		for {
			select {
			case <-h.stop:
				return
			default:
			}
			// WaitForEdge with a timeout so Close is honored; a level
			// check catches edges that fired while the handler ran.
			if h.irq.WaitForEdge(time.Second) || h.irq.Read() == gpio.Low {
				if h.events.Load() {
					handler()
				}
			}
		}
	}()
}

// Close stops the watcher and releases the bus and pin.
func (h *HAL) Close() error {
	close(h.stop)
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
	}
	pinErr := h.irq.In(gpio.PullNoChange, gpio.NoEdge)
	portErr := h.port.Close()
	if portErr != nil {
		return fmt.Errorf("close SPI port: %w", portErr)
	}
	if pinErr != nil {
		return fmt.Errorf("release IRQ pin: %w", pinErr)
	}
	return nil
}
