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

import "crypto/subtle"

// Authenticator decides whether a presented credential may run commands
// against the device holding cfg.
type Authenticator interface {
	// Authenticate returns nil when presented is accepted, otherwise an
	// error wrapping ErrUnauthorized
	Authenticate(presented string, cfg DeviceConfig) error
}

// AuthenticatorFunc adapts a function to the Authenticator interface
type AuthenticatorFunc func(presented string, cfg DeviceConfig) error

// Authenticate calls f
func (f AuthenticatorFunc) Authenticate(presented string, cfg DeviceConfig) error {
	return f(presented, cfg)
}

// SharedSecret accepts a request if and only if the presented secret
// exactly equals the stored secret. The secret doubles as device identity.
type SharedSecret struct{}

// Authenticate compares presented with cfg.Secret in constant time
func (SharedSecret) Authenticate(presented string, cfg DeviceConfig) error {
	if subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.Secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
