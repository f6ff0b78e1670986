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

package frame

// XORChecksum returns the XOR of every byte in data.
func XORChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// ValidateXORChecksum reports whether the trailing byte of frm equals the
// XOR of all bytes before it. Frames shorter than two bytes never validate.
func ValidateXORChecksum(frm []byte) bool {
	if len(frm) < 2 {
		return false
	}
	last := len(frm) - 1
	return XORChecksum(frm[:last]) == frm[last]
}

// AppendXORChecksum returns frm with its XOR checksum appended.
func AppendXORChecksum(frm []byte) []byte {
	out := make([]byte, 0, len(frm)+1)
	out = append(out, frm...)
	return append(out, XORChecksum(frm))
}
