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

// Package store persists the device configuration as a NUL-terminated
// JSON record at the start of a small byte region.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-nfclock"
)

// DefaultCapacity is the size of the configuration region in bytes
const DefaultCapacity = 512

const (
	recordMarker     byte = '{'
	recordTerminator byte = 0
)

// Load failures. Each one wraps nfclock.ErrNoConfig.
var (
	ErrMarkerNotFound = fmt.Errorf("%w: record marker not found", nfclock.ErrNoConfig)
	ErrUnterminated   = fmt.Errorf("%w: record not terminated", nfclock.ErrNoConfig)
	ErrRecordDecode   = fmt.Errorf("%w: record is not valid JSON", nfclock.ErrNoConfig)
)

// Store reads and writes the configuration record in a Region
type Store struct {
	region Region
}

// New creates a store over region
func New(region Region) *Store {
	return &Store{region: region}
}

// Load scans for the first '{', reads up to the NUL terminator and decodes
// the record. Any byte before the marker is skipped.
func (s *Store) Load() (nfclock.DeviceConfig, error) {
	size := s.region.Size()

	start := -1
	for addr := 0; addr < size; addr++ {
		b, err := s.region.Read(addr)
		if err != nil {
			return nfclock.DeviceConfig{}, &nfclock.StoreError{Op: "read", Addr: addr, Err: err}
		}
		if b == recordMarker {
			start = addr
			break
		}
	}
	if start < 0 {
		return nfclock.DeviceConfig{}, ErrMarkerNotFound
	}

	record := make([]byte, 0, size-start)
	terminated := false
	for addr := start; addr < size; addr++ {
		b, err := s.region.Read(addr)
		if err != nil {
			return nfclock.DeviceConfig{}, &nfclock.StoreError{Op: "read", Addr: addr, Err: err}
		}
		if b == recordTerminator {
			terminated = true
			break
		}
		record = append(record, b)
	}
	if !terminated {
		return nfclock.DeviceConfig{}, ErrUnterminated
	}

	var cfg nfclock.DeviceConfig
	if err := json.Unmarshal(record, &cfg); err != nil {
		return nfclock.DeviceConfig{}, fmt.Errorf("%w: %w", ErrRecordDecode, err)
	}
	nfclock.Debugf("store: loaded %d byte record at %d", len(record), start)
	return cfg, nil
}

// Save encodes cfg, writes it from address 0 followed by a terminator and
// commits. A record that does not fit is rejected before any byte is
// written. Bytes after the terminator are left as they were.
func (s *Store) Save(cfg nfclock.DeviceConfig) error {
	record, err := Encode(cfg)
	if err != nil {
		return err
	}

	if need := len(record) + 1; need > s.region.Size() {
		return fmt.Errorf("%w: need %d bytes, have %d", nfclock.ErrCapacityExceeded, need, s.region.Size())
	}

	for addr, b := range record {
		if err := s.region.Write(addr, b); err != nil {
			return &nfclock.StoreError{Op: "write", Addr: addr, Err: err}
		}
	}
	if err := s.region.Write(len(record), recordTerminator); err != nil {
		return &nfclock.StoreError{Op: "write", Addr: len(record), Err: err}
	}
	if err := s.region.Commit(); err != nil {
		return &nfclock.StoreError{Op: "commit", Addr: 0, Err: err}
	}

	nfclock.Debugf("store: saved %d byte record", len(record))
	return nil
}

// Encode renders cfg the way it is stored: indented JSON with fields in
// wire order. The result never contains a NUL byte.
func Encode(cfg nfclock.DeviceConfig) ([]byte, error) {
	record, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return record, nil
}

// IsNoConfig reports whether err means the region holds no usable record
func IsNoConfig(err error) bool {
	return errors.Is(err, nfclock.ErrNoConfig)
}
