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

// Package detection finds serial ports that may host the NFC reader
package detection

import (
	"path/filepath"
	"strings"
)

// KnownBridges lists USB-serial bridge chips the reader module ships with,
// as VID:PID in uppercase hexadecimal. Ports on these chips are tried first.
var KnownBridges = []string{
	"1A86:7523", // WCH CH340
	"10C4:EA60", // Silicon Labs CP210x
	"0403:6001", // FTDI FT232R
}

// Filter decides which ports are skipped during detection
type Filter struct {
	// Blocklist holds VID:PID pairs in any format ParseVIDPID accepts
	Blocklist []string
	// IgnorePaths holds device paths that are never probed
	IgnorePaths []string
}

// Allows reports whether a port may be probed
func (f Filter) Allows(port PortInfo) bool {
	if IsPathIgnored(port.Path, f.IgnorePaths) {
		return false
	}
	return port.VIDPID == "" || !IsBlocked(port.VIDPID, f.Blocklist)
}

// IsBlocked checks if a VID:PID pair is in the blocklist. Entries are
// normalized with ParseVIDPID so "vid=1a86 pid=7523" matches "1A86:7523".
func IsBlocked(vidpid string, blocklist []string) bool {
	want := ParseVIDPID(vidpid)
	if want == "" {
		return false
	}
	for _, entry := range blocklist {
		if ParseVIDPID(entry) == want {
			return true
		}
	}
	return false
}

// ParseVIDPID normalizes a USB id descriptor to "VVVV:PPPP" in uppercase.
// It accepts "1a86:7523", "VID:1A86 PID:7523" and
// "vendor=1a86 product=7523"; anything else yields "".
func ParseVIDPID(descriptor string) string {
	descriptor = strings.ToUpper(strings.TrimSpace(descriptor))

	vid := valueAfter(descriptor, "VID:", "VID=", "VENDOR=")
	pid := valueAfter(descriptor, "PID:", "PID=", "PRODUCT=")
	if vid != "" && pid != "" {
		return vid + ":" + pid
	}

	left, right, ok := strings.Cut(descriptor, ":")
	if ok && isHex(left) && isHex(right) {
		return left + ":" + right
	}
	return ""
}

// valueAfter returns the hex run following the first key found
func valueAfter(s string, keys ...string) string {
	for _, key := range keys {
		if idx := strings.Index(s, key); idx >= 0 {
			return leadingHex(s[idx+len(key):])
		}
	}
	return ""
}

func leadingHex(s string) string {
	end := 0
	for end < len(s) && isHexDigit(rune(s[end])) {
		end++
	}
	return s[:end]
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return false
		}
	}
	return true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

// IsPathIgnored checks if a device path is in ignorePaths. Paths are
// cleaned and compared case-insensitively so "COM3" matches "com3".
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := normalizedPath(devicePath)
	for _, ignore := range ignorePaths {
		if ignore != "" && normalizedPath(ignore) == device {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
