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
	"time"
)

// EventSource says which path produced an access decision
type EventSource string

const (
	// SourceRemote marks decisions made for a network command
	SourceRemote EventSource = "remote"
	// SourceTag marks decisions made for a presented NFC tag
	SourceTag EventSource = "tag"
)

// AccessEvent records a single access decision
type AccessEvent struct {
	At      time.Time   `json:"at"`
	ID      string      `json:"id"`
	Device  string      `json:"device"`
	Source  EventSource `json:"source"`
	Command string      `json:"command,omitempty"`
	TagID   string      `json:"tag_id,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Granted bool        `json:"granted"`
}

// EventSink receives access events. Implementations live in audit.
// Record errors are logged by the caller and never change a response.
type EventSink interface {
	Record(ctx context.Context, ev AccessEvent) error
}

// EventSinkFunc adapts a function to the EventSink interface
type EventSinkFunc func(ctx context.Context, ev AccessEvent) error

// Record calls f
func (f EventSinkFunc) Record(ctx context.Context, ev AccessEvent) error {
	return f(ctx, ev)
}

// Reasons attached to access events
const (
	ReasonRemoteUnlock = "remote unlock"
	ReasonTagMatch     = "authorized tag"
	ReasonTagMismatch  = "unknown tag"
	ReasonNoTag        = "no authorized tag provisioned"
	ReasonAuthFailed   = "authentication failed"
)
