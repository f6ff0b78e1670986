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
	"context"
	"net"
	"time"
)

// Datagram is one inbound packet and the peer that sent it
type Datagram struct {
	Addr    net.Addr
	Payload []byte
}

// DatagramTransport delivers command datagrams and carries replies back.
// The UDP backend lives in transport/udp.
type DatagramTransport interface {
	// Receive returns the next pending datagram without blocking the
	// control loop. It returns nil, nil when nothing is pending.
	Receive(ctx context.Context) (*Datagram, error)

	// Reply sends payload to the peer that sent d
	Reply(d *Datagram, payload []byte) error

	// Close releases the transport
	Close() error
}

// ConfigStore persists the device configuration record.
// The byte-region implementation lives in store.
type ConfigStore interface {
	// Load returns the stored record, or an error wrapping ErrNoConfig
	// when no valid record exists
	Load() (DeviceConfig, error)

	// Save durably rewrites the whole record
	Save(cfg DeviceConfig) error
}

// Actuator drives the lock-release output
type Actuator interface {
	// RequestUnlock asks for one pulse. It returns false when a pulse is
	// already pending or active and the request was absorbed.
	RequestUnlock() bool

	// Tick advances the pulse state machine to now
	Tick(now time.Time) error

	// Active reports whether the output is currently asserted
	Active() bool
}

// TagPresence is the outcome of one tag poll cycle
type TagPresence struct {
	// Err is set when a tag was present but could not be decoded
	Err error
	// ID is the decoded tag identifier
	ID string
	// Present is false when nothing was in the field or the poll was skipped
	Present bool
}

// Usable reports whether the poll produced an identifier that may be
// compared against the authorized tag
func (p TagPresence) Usable() bool {
	return p.Present && p.Err == nil && p.ID != ""
}

// TagPoller runs one NFC poll cycle
type TagPoller interface {
	Poll(ctx context.Context) TagPresence
}

// Indicator drives the visible status output
type Indicator interface {
	Tick(now time.Time, linked, unlocking bool) error
}

// LinkMonitor samples network link status
type LinkMonitor interface {
	Linked() bool
}

// LinkMonitorFunc adapts a function to the LinkMonitor interface
type LinkMonitorFunc func() bool

// Linked calls f
func (f LinkMonitorFunc) Linked() bool {
	return f()
}

// nopActuator absorbs unlock requests when no output is wired
type nopActuator struct{}

func (nopActuator) RequestUnlock() bool  { return false }
func (nopActuator) Tick(time.Time) error { return nil }
func (nopActuator) Active() bool         { return false }
