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

// Package nfc talks to the serial NFC reader module that reports the UID
// of the tag in its field.
package nfc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/ZaparooProject/go-nfclock/internal/frame"
)

// SerialPort is the subset of a serial port the reader needs. A
// go.bug.st/serial Port and transport/uart.Transport both satisfy it.
type SerialPort interface {
	io.ReadWriter
	SetReadTimeout(timeout time.Duration) error
	ResetInputBuffer() error
}

// Config holds reader timing
type Config struct {
	// ResponseTimeout bounds the wait for the first response byte
	ResponseTimeout time.Duration
	// SettleDelay lets the rest of the frame arrive after the first byte
	SettleDelay time.Duration
	// InterByteTimeout is the per-read timeout while collecting the frame
	InterByteTimeout time.Duration
	// VerifyChecksum requires a trailing XOR checksum on every frame
	VerifyChecksum bool
}

// DefaultConfig returns the reader timing used by the lock
func DefaultConfig() Config {
	return Config{
		ResponseTimeout:  500 * time.Millisecond,
		SettleDelay:      50 * time.Millisecond,
		InterByteTimeout: 10 * time.Millisecond,
	}
}

// Reader sends poll commands and decodes the answers
type Reader struct {
	port   SerialPort
	config Config
}

// NewReader creates a reader on port. Zero durations in config take the
// defaults; a negative SettleDelay disables settling.
func NewReader(port SerialPort, config Config) *Reader {
	def := DefaultConfig()
	if config.ResponseTimeout <= 0 {
		config.ResponseTimeout = def.ResponseTimeout
	}
	switch {
	case config.SettleDelay == 0:
		config.SettleDelay = def.SettleDelay
	case config.SettleDelay < 0:
		config.SettleDelay = 0
	}
	if config.InterByteTimeout <= 0 {
		config.InterByteTimeout = def.InterByteTimeout
	}
	return &Reader{port: port, config: config}
}

// ReadTag sends one poll command and returns the identifier of the tag in
// the field. The input buffer is drained afterwards whatever the outcome.
func (r *Reader) ReadTag(ctx context.Context) (string, error) {
	if _, err := r.port.Write(frame.PollCommand); err != nil {
		return "", fmt.Errorf("failed to send poll command: %w", err)
	}
	defer func() {
		if err := r.port.ResetInputBuffer(); err != nil {
			nfclock.Debugf("nfc: failed to drain input: %v", err)
		}
	}()

	resp, err := r.readResponse(ctx)
	if err != nil {
		return "", err
	}
	nfclock.Debugf("nfc: response % X", resp)

	return Decode(resp, r.config.VerifyChecksum)
}

// readResponse waits for the first byte, lets the frame settle and then
// collects whatever else arrived, up to frame.MaxResponseLength bytes
func (r *Reader) readResponse(ctx context.Context) ([]byte, error) {
	if err := r.port.SetReadTimeout(r.config.InterByteTimeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	buf := make([]byte, frame.MaxResponseLength)
	deadline := time.Now().Add(r.config.ResponseTimeout)
	n := 0
	for n == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, ErrResponseTimeout
		}
		got, err := r.port.Read(buf[:1])
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		n += got
	}

	if err := sleepCtx(ctx, r.config.SettleDelay); err != nil {
		return nil, err
	}

	for n < len(buf) {
		got, err := r.port.Read(buf[n:])
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if got == 0 {
			break
		}
		n += got
	}
	return buf[:n], nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
