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

// Command rfm12link is a small packet terminal for an RFM12 link. It
// listens for frames and prints them; with -send it also transmits the
// given text once the channel clears.
//
// The radio can sit behind either backend:
//
//	rfm12link -spi -irq GPIO25
//	rfm12link -port /dev/ttyUSB0
//
// The serial backend has no interrupt line, so it always runs polled.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/packetforge/go-rfm12"
	halserial "github.com/packetforge/go-rfm12/hal/serial"
	halspi "github.com/packetforge/go-rfm12/hal/spi"
)

var (
	flagSPI      bool
	flagSPIPort  string
	flagIRQPin   string
	flagPort     string
	flagList     bool
	flagBand     uint
	flagSend     string
	flagSendType uint
	flagTick     time.Duration
	flagDebug    bool
)

func init() {
	flag.BoolVar(&flagSPI, "spi", false, "Use the SPI backend (interrupt driven)")
	flag.StringVar(&flagSPIPort, "spi-port", "", "SPI port registry name (first available if empty)")
	flag.StringVar(&flagIRQPin, "irq", "GPIO25", "GPIO registry name of the nIRQ pin (SPI backend)")
	flag.StringVar(&flagPort, "port", "", "Serial device of the register bridge, e.g. /dev/ttyUSB0")
	flag.BoolVar(&flagList, "list", false, "List serial ports and exit")
	flag.UintVar(&flagBand, "band", 868, "Frequency band: 433, 868 or 915")
	flag.StringVar(&flagSend, "send", "", "Text to transmit (listens only if empty)")
	flag.UintVar(&flagSendType, "send-type", 1, "Frame type byte for -send")
	flag.DurationVar(&flagTick, "tick", 5*time.Millisecond, "Channel tick interval")
	flag.BoolVar(&flagDebug, "debug", false, "Enable debug output")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rfm12link: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if flagDebug {
		rfm12.SetDebugEnabled(true)
	}
	if flagList {
		return listPorts()
	}

	band, err := bandSelect(flagBand)
	if err != nil {
		return err
	}

	type closer interface{ Close() error }
	var (
		hal     rfm12.HAL
		cleanup closer
		polled  bool
	)
	switch {
	case flagSPI:
		cfg := halspi.DefaultConfig()
		cfg.PortName = flagSPIPort
		cfg.IRQPin = flagIRQPin
		cfg.Band = band
		h, err := halspi.Open(cfg)
		if err != nil {
			return err
		}
		hal, cleanup = h, h
	case flagPort != "":
		cfg := halserial.DefaultConfig()
		cfg.PortName = flagPort
		cfg.Band = band
		h, err := halserial.Open(cfg)
		if err != nil {
			return err
		}
		hal, cleanup, polled = h, h, true
	default:
		return errors.New("pick a backend: -spi or -port <device>")
	}
	defer func() {
		if err := cleanup.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "rfm12link: close: %v\n", err)
		}
	}()

	cfg := rfm12.DefaultConfig()
	cfg.UsePolling = polled
	driver, err := rfm12.New(hal, rfm12.WithConfig(cfg))
	if err != nil {
		return err
	}
	if err := driver.Init(); err != nil {
		return err
	}
	if h, ok := hal.(*halspi.HAL); ok {
		h.Watch(driver.Interrupt)
	}

	if flagSend != "" {
		if err := driver.Enqueue(byte(flagSendType), []byte(flagSend)); err != nil {
			return fmt.Errorf("enqueue: %w", err)
		}
		fmt.Printf("queued %d bytes, type %#02x\n", len(flagSend), flagSendType)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(flagTick)
	defer ticker.Stop()

	fmt.Println("listening (Ctrl-C to quit)...")
	for {
		select {
		case <-sig:
			fmt.Println()
			printStats(driver)
			return nil
		case <-ticker.C:
			if polled {
				driver.Poll()
			}
			driver.Tick()
			drainReceived(driver)
		}
	}
}

func drainReceived(d *rfm12.Driver) {
	for d.ReceiveStatus() == rfm12.SlotComplete {
		frameType := d.ReceiveType()
		payload := d.ReceivePayload()
		fmt.Printf("[%s] type=%#02x len=%d\n", time.Now().Format("15:04:05.000"), frameType, len(payload))
		fmt.Print(hex.Dump(payload))
		d.ReceiveRelease()
	}
}

func printStats(d *rfm12.Driver) {
	s := d.Stats()
	fmt.Printf("received=%d sent=%d dropped=%d corrupted=%d truncated=%d\n",
		s.FramesReceived, s.FramesSent, s.FramesDropped, s.FramesCorrupted, s.FramesTruncated)
}

func listPorts() error {
	ports, err := halserial.ListPorts()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func bandSelect(mhz uint) (uint16, error) {
	switch mhz {
	case 433:
		return halspi.Band433, nil
	case 868:
		return halspi.Band868, nil
	case 915:
		return halspi.Band915, nil
	default:
		return 0, fmt.Errorf("unsupported band %d (use 433, 868 or 915)", mhz)
	}
}
