// go-nfclock
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-nfclock.
//
// go-nfclock is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-nfclock is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-nfclock; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package uart provides the serial link to the NFC reader module
package uart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"go.bug.st/serial"
)

// DefaultBaudRate is the reader module's factory line speed
const DefaultBaudRate = 9600

// ErrNotConnected is returned when the port is not open
var ErrNotConnected = errors.New("serial port not connected")

// Transport is a serial port to the NFC reader. It satisfies nfc.SerialPort.
type Transport struct {
	port     serial.Port
	portName string
	mode     *serial.Mode
	timeout  time.Duration
	mu       sync.Mutex
}

// New opens portName at baud, 8N1. A zero baud selects DefaultBaudRate.
func New(portName string, baud int) (*Transport, error) {
	mode := modeFor(baud)
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port %s: %w", portName, err)
	}
	nfclock.Debugf("uart: opened %s at %d baud", portName, mode.BaudRate)
	return &Transport{
		port:     port,
		portName: portName,
		mode:     mode,
		timeout:  serial.NoTimeout,
	}, nil
}

func modeFor(baud int) *serial.Mode {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Write sends p to the reader
func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return 0, ErrNotConnected
	}
	n, err := t.port.Write(p)
	if err != nil {
		return n, t.wrap("write", err)
	}
	return n, nil
}

// Read reads whatever has arrived, waiting up to the read timeout. It
// returns 0, nil when the timeout expires with nothing received.
func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return 0, ErrNotConnected
	}
	n, err := t.port.Read(p)
	if err != nil {
		return n, t.wrap("read", err)
	}
	return n, nil
}

// SetReadTimeout bounds each Read
func (t *Transport) SetReadTimeout(timeout time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return ErrNotConnected
	}
	if timeout == t.timeout {
		return nil
	}
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return t.wrap("set read timeout", err)
	}
	t.timeout = timeout
	return nil
}

// ResetInputBuffer discards unread input
func (t *Transport) ResetInputBuffer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return ErrNotConnected
	}
	if err := t.port.ResetInputBuffer(); err != nil {
		return t.wrap("reset input", err)
	}
	return nil
}

// Close closes the port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	if err != nil {
		return t.wrap("close", err)
	}
	return nil
}

// IsConnected reports whether the port is open
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// PortName returns the device path the transport was opened on
func (t *Transport) PortName() string {
	return t.portName
}

func (t *Transport) wrap(op string, err error) error {
	var portErr *serial.PortError
	if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
		return fmt.Errorf("uart %s on %s: %w: %w", op, t.portName, ErrNotConnected, err)
	}
	return fmt.Errorf("uart %s on %s: %w", op, t.portName, err)
}
