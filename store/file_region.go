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
	"bytes"
	"errors"
	"fmt"
	"os"
)

// ErrRegionClosed is returned by FileRegion after Close
var ErrRegionClosed = errors.New("region closed")

// prepareFile opens path and makes sure it holds at least size bytes.
// Bytes added to a short or new file are set to the erased value.
func prepareFile(path string, size int) (*os.File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open region file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat region file: %w", err)
	}

	if current := int(info.Size()); current < size {
		fill := bytes.Repeat([]byte{Erased}, size-current)
		if _, err := f.WriteAt(fill, int64(current)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to initialize region file: %w", err)
		}
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to sync region file: %w", err)
		}
	}
	return f, nil
}

func checkAddr(addr, size int) error {
	if addr < 0 || addr >= size {
		return fmt.Errorf("%w: %d", ErrAddressOutOfRange, addr)
	}
	return nil
}
