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

import "testing"

func TestXORChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{
			name: "empty data",
			data: []byte{},
			want: 0,
		},
		{
			name: "single byte",
			data: []byte{0x42},
			want: 0x42,
		},
		{
			name: "two bytes",
			data: []byte{0x10, 0x20},
			want: 0x30,
		},
		{
			name: "self cancelling",
			data: []byte{0xFF, 0xFF},
			want: 0x00,
		},
		{
			name: "poll command",
			data: PollCommand,
			want: 0xAB ^ 0xBA ^ 0x10,
		},
		{
			name: "real tag frame",
			data: []byte{0xCD, 0x08, 0x10, 0x00, 0x29, 0xF4, 0xAD, 0x71},
			want: 0xCD ^ 0x08 ^ 0x10 ^ 0x29 ^ 0xF4 ^ 0xAD ^ 0x71,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := XORChecksum(tt.data); got != tt.want {
				t.Errorf("XORChecksum() = %#02x, want %#02x", got, tt.want)
			}
		})
	}
}

func TestValidateXORChecksum(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		frame []byte
		want  bool
	}{
		{
			name:  "empty frame",
			frame: []byte{},
			want:  false,
		},
		{
			name:  "single byte",
			frame: []byte{0x00},
			want:  false,
		},
		{
			name:  "valid checksum",
			frame: []byte{0x10, 0x20, 0x30},
			want:  true,
		},
		{
			name:  "invalid checksum",
			frame: []byte{0x10, 0x20, 0x31},
			want:  false,
		},
		{
			name:  "appended checksum",
			frame: AppendXORChecksum([]byte{0xCD, 0x08, 0x10, 0x00, 0x29, 0xF4, 0xAD, 0x71}),
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidateXORChecksum(tt.frame); got != tt.want {
				t.Errorf("ValidateXORChecksum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppendXORChecksumDoesNotAlias(t *testing.T) {
	t.Parallel()
	src := make([]byte, 2, 8)
	src[0], src[1] = 0x01, 0x02

	out := AppendXORChecksum(src)

	if len(out) != 3 || out[2] != 0x03 {
		t.Fatalf("AppendXORChecksum() = % X, want 01 02 03", out)
	}
	out[0] = 0xFF
	if src[0] != 0x01 {
		t.Error("AppendXORChecksum() modified the source slice")
	}
}
