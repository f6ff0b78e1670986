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

// Package frame provides frame layout constants and integrity helpers for
// the serial NFC reader protocol
package frame

// PollCommand asks the reader for the serial number of the tag in its field.
var PollCommand = []byte{0xAB, 0xBA, 0x00, 0x10}

// Response frame layout
const (
	EchoIndex    = 0 // Echo/header byte, ignored
	LengthIndex  = 1 // Declared frame length
	StatusIndex  = 3 // Reader status byte
	PayloadStart = 4 // First tag identifier byte
	PayloadLimit = 7 // Last index a tag identifier byte may occupy
)

// Status codes
const (
	StatusOK = 0x00 // Tag read without fault
)

// Frame size limits
const (
	MinResponseLength = StatusIndex + 1 // Shortest frame that still carries a status
	MaxResponseLength = 32              // Largest response we buffer from the reader
)
