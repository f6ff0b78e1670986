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

//go:build unix

package store

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// FileRegion is a Region backed by a memory-mapped file, emulating the
// EEPROM of the board. Writes land in the mapping and Commit flushes it.
type FileRegion struct {
	file *os.File
	data []byte
	mu   sync.Mutex
}

// OpenFileRegion maps the first size bytes of path, creating the file in
// the erased state if needed
func OpenFileRegion(path string, size int) (*FileRegion, error) {
	f, err := prepareFile(path, size)
	if err != nil {
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to map region file: %w", err)
	}
	return &FileRegion{file: f, data: data}, nil
}

// Size returns the capacity in bytes
func (r *FileRegion) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// Read returns the byte at addr
func (r *FileRegion) Read(addr int) (byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return 0, ErrRegionClosed
	}
	if err := checkAddr(addr, len(r.data)); err != nil {
		return 0, err
	}
	return r.data[addr], nil
}

// Write stores b at addr in the mapping
func (r *FileRegion) Write(addr int, b byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return ErrRegionClosed
	}
	if err := checkAddr(addr, len(r.data)); err != nil {
		return err
	}
	r.data[addr] = b
	return nil
}

// Commit synchronously flushes the mapping to the file
func (r *FileRegion) Commit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return ErrRegionClosed
	}
	if err := unix.Msync(r.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync: %w", err)
	}
	return nil
}

// Close unmaps the region and closes the file. Uncommitted writes may
// still reach the file.
func (r *FileRegion) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}
