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

package nfclock

import (
	"fmt"
	"strconv"
)

// DefaultNamePrefix is prepended to the hardware identifier to form the
// advertised device name.
const DefaultNamePrefix = "LOCK"

// DeviceConfig is the persisted device configuration record.
//
// Field order is the stored and wire order. The JSON names are part of the
// wire contract and must not change.
type DeviceConfig struct {
	// SSID is the network the device joins in station mode
	SSID string `json:"ssid"`
	// Password is the network passphrase
	Password string `json:"pass"`
	// Secret identifies the device and authenticates every command
	Secret string `json:"llave"`
	// TagID is the hex identifier of the one authorized NFC tag
	TagID string `json:"nfc"`
}

// HasTag reports whether an authorized tag has been provisioned
func (c DeviceConfig) HasTag() bool {
	return c.TagID != ""
}

// Redacted returns a printable form with the password and secret masked
func (c DeviceConfig) Redacted() string {
	return fmt.Sprintf("ssid=%q pass=%s llave=%s nfc=%q", c.SSID, mask(c.Password), mask(c.Secret), c.TagID)
}

func mask(s string) string {
	if s == "" {
		return `""`
	}
	return "***"
}

// HardwareID is the immutable chip identifier of the device
type HardwareID uint32

// Secret returns the default shared secret derived from the identifier:
// its decimal representation.
func (h HardwareID) Secret() string {
	return strconv.FormatUint(uint64(h), 10)
}

// DeviceName returns the advertised name, "<prefix>_<decimal id>"
func (h HardwareID) DeviceName(prefix string) string {
	if prefix == "" {
		prefix = DefaultNamePrefix
	}
	return fmt.Sprintf("%s_%d", prefix, uint32(h))
}
