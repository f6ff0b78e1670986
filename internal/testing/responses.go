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

// Package testing provides reader response builders and a scripted serial
// port for exercising the NFC decoder without hardware
package testing

import "github.com/ZaparooProject/go-nfclock/internal/frame"

// responseHeader is the echo byte the reader puts in front of every answer.
const responseHeader = 0xCD

// readCommand is echoed back by the reader at index 2.
const readCommand = 0x10

// BuildTagResponse creates a successful read response carrying uid,
// terminated by an XOR checksum.
func BuildTagResponse(uid []byte) []byte {
	// Header, declared length, command echo, status. The declared length is
	// the index of the last identifier byte.
	response := []byte{responseHeader, byte(frame.StatusIndex + len(uid)), readCommand, frame.StatusOK}
	response = append(response, uid...)
	return frame.AppendXORChecksum(response)
}

// BuildStatusErrorResponse creates a response whose status byte reports a
// reader-side fault. The UID bytes are still present so decoders that skip
// the status check would produce an identifier.
func BuildStatusErrorResponse(status byte, uid []byte) []byte {
	response := []byte{responseHeader, byte(frame.StatusIndex + len(uid)), readCommand, status}
	response = append(response, uid...)
	return frame.AppendXORChecksum(response)
}

// BuildNoTagResponse creates the answer the reader gives when the field is empty
func BuildNoTagResponse() []byte {
	return frame.AppendXORChecksum([]byte{responseHeader, frame.StatusIndex, readCommand, StatusNoTag})
}

// CorruptChecksum returns a copy of response with its trailing checksum flipped
func CorruptChecksum(response []byte) []byte {
	out := append([]byte(nil), response...)
	if len(out) > 0 {
		out[len(out)-1] ^= 0xFF
	}
	return out
}

// StatusNoTag is the status the reader reports when no tag answered.
const StatusNoTag = 0x01

// Common UIDs for testing
var (
	// TestUID4 is a 4-byte MIFARE Classic style UID
	TestUID4 = []byte{0x29, 0xF4, 0xAD, 0x71}

	// TestUID4Hex is TestUID4 as the decoder renders it
	TestUID4Hex = "29F4AD71"

	// TestUID7 is a 7-byte NTAG style UID; only its first four bytes fit
	// the reader's identifier window
	TestUID7 = []byte{0x04, 0xAB, 0xCD, 0xEF, 0x12, 0x34, 0x56}
)
