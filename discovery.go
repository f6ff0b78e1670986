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

import "bytes"

// DefaultDiscoveryToken is the literal that marks a discovery probe
const DefaultDiscoveryToken = "COPACETIC"

// DiscoveryResponder answers discovery probes with the advertised device
// name. Probes bypass parsing and authentication entirely.
type DiscoveryResponder struct {
	token []byte
	name  []byte
}

// NewDiscoveryResponder creates a responder that answers datagrams
// containing token with name
func NewDiscoveryResponder(token, name string) *DiscoveryResponder {
	if token == "" {
		token = DefaultDiscoveryToken
	}
	return &DiscoveryResponder{
		token: []byte(token),
		name:  []byte(name),
	}
}

// Respond returns the reply for payload and true when payload is a probe
func (r *DiscoveryResponder) Respond(payload []byte) ([]byte, bool) {
	if !bytes.Contains(payload, r.token) {
		return nil, false
	}
	return append([]byte(nil), r.name...), true
}

// Name returns the advertised device name
func (r *DiscoveryResponder) Name() string {
	return string(r.name)
}
