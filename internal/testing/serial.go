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

package testing

import (
	"errors"
	"sync"
	"time"
)

// ErrPortClosed is returned by MockSerialPort after Close.
var ErrPortClosed = errors.New("mock serial port closed")

// MockSerialPort is a scripted serial port. Every write queues the next
// scripted response into the input buffer; reads drain that buffer and
// return zero bytes once it is empty, like a serial port whose read
// timeout expired.
type MockSerialPort struct {
	WriteErr    error
	ReadErr     error
	responses   [][]byte
	input       []byte
	writes      [][]byte
	readTimeout time.Duration
	resets      int
	mu          sync.Mutex
	closed      bool
}

// NewMockSerialPort creates a port that answers successive writes with the
// given responses. A nil entry means the reader stays silent.
func NewMockSerialPort(responses ...[]byte) *MockSerialPort {
	return &MockSerialPort{responses: responses}
}

// QueueResponse appends a response for a future write
func (m *MockSerialPort) QueueResponse(response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, response)
}

// InjectInput places stray bytes in the input buffer
func (m *MockSerialPort) InjectInput(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input = append(m.input, data...)
}

// Write records p and queues the next scripted response
func (m *MockSerialPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrPortClosed
	}
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	m.writes = append(m.writes, append([]byte(nil), p...))
	if len(m.responses) > 0 {
		m.input = append(m.input, m.responses[0]...)
		m.responses = m.responses[1:]
	}
	return len(p), nil
}

// Read copies buffered input into p. With nothing buffered it waits for a
// fraction of the read timeout and returns 0, nil.
func (m *MockSerialPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, ErrPortClosed
	}
	if m.ReadErr != nil {
		err := m.ReadErr
		m.mu.Unlock()
		return 0, err
	}
	if len(m.input) == 0 {
		wait := m.readTimeout
		m.mu.Unlock()
		if wait > time.Millisecond {
			wait = time.Millisecond
		}
		time.Sleep(wait)
		return 0, nil
	}
	n := copy(p, m.input)
	m.input = m.input[n:]
	m.mu.Unlock()
	return n, nil
}

// SetReadTimeout records the timeout used for empty reads
func (m *MockSerialPort) SetReadTimeout(timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readTimeout = timeout
	return nil
}

// ResetInputBuffer discards buffered input
func (m *MockSerialPort) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.input = nil
	return nil
}

// Close marks the port closed
func (m *MockSerialPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Writes returns a copy of every frame written so far
func (m *MockSerialPort) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// Resets returns how many times the input buffer was flushed
func (m *MockSerialPort) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// Buffered returns how many unread bytes remain in the input buffer
func (m *MockSerialPort) Buffered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.input)
}
