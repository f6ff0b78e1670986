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

package store

import (
	"errors"
	"fmt"
	"sync"
)

// Erased is the value of a never-written region cell
const Erased byte = 0xFF

// ErrAddressOutOfRange is returned for reads and writes past the region end
var ErrAddressOutOfRange = errors.New("address out of range")

// Region is a small byte-addressable non-volatile area, such as an EEPROM
// or a flash page emulating one. Writes may be buffered until Commit.
type Region interface {
	// Size returns the capacity in bytes
	Size() int
	// Read returns the byte at addr
	Read(addr int) (byte, error)
	// Write stores b at addr
	Write(addr int, b byte) error
	// Commit makes all prior writes durable
	Commit() error
}

// MemoryRegion is a volatile Region for tests and development. A new
// region reads as erased.
type MemoryRegion struct {
	writeFaults map[int]error
	commitErr   error
	data        []byte
	commits     int
	mu          sync.Mutex
}

// NewMemoryRegion creates an erased region of size bytes
func NewMemoryRegion(size int) *MemoryRegion {
	data := make([]byte, size)
	for i := range data {
		data[i] = Erased
	}
	return &MemoryRegion{data: data}
}

// Size returns the capacity in bytes
func (m *MemoryRegion) Size() int {
	return len(m.data)
}

// Read returns the byte at addr
func (m *MemoryRegion) Read(addr int) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if addr < 0 || addr >= len(m.data) {
		return 0, fmt.Errorf("%w: %d", ErrAddressOutOfRange, addr)
	}
	return m.data[addr], nil
}

// Write stores b at addr unless a fault was injected for addr
func (m *MemoryRegion) Write(addr int, b byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if addr < 0 || addr >= len(m.data) {
		return fmt.Errorf("%w: %d", ErrAddressOutOfRange, addr)
	}
	if err := m.writeFaults[addr]; err != nil {
		return err
	}
	m.data[addr] = b
	return nil
}

// Commit counts the commit unless a commit fault was injected
func (m *MemoryRegion) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitErr != nil {
		return m.commitErr
	}
	m.commits++
	return nil
}

// Preset copies data into the region starting at addr, bypassing faults
func (m *MemoryRegion) Preset(addr int, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.data[addr:], data)
}

// Bytes returns a copy of the region contents
func (m *MemoryRegion) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Commits returns the number of successful commits
func (m *MemoryRegion) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

// InjectWriteFault makes every write to addr fail with err. A nil err
// clears the fault.
func (m *MemoryRegion) InjectWriteFault(addr int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.writeFaults, addr)
		return
	}
	if m.writeFaults == nil {
		m.writeFaults = make(map[int]error)
	}
	m.writeFaults[addr] = err
}

// InjectCommitFault makes Commit fail with err. A nil err clears the fault.
func (m *MemoryRegion) InjectCommitFault(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitErr = err
}
