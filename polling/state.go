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

package polling

import "time"

// TagDetectionState represents the finite state machine for tag detection
type TagDetectionState int

const (
	// StateIdle means nothing is in the field
	StateIdle TagDetectionState = iota
	// StateReading means a read is in progress for the current presentation
	StateReading
	// StateAwaitingRemoval means the current presentation has been read and
	// no further read happens until the presence input reports absence
	StateAwaitingRemoval
)

func (s TagDetectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateAwaitingRemoval:
		return "awaiting removal"
	default:
		return "unknown"
	}
}

// TagState tracks the current presentation on the reader
type TagState struct {
	ReadStartTime  time.Time
	ReadDoneTime   time.Time
	LastErr        error
	LastID         string
	DetectionState TagDetectionState
}

// TransitionToReading marks the start of a read
func (ts *TagState) TransitionToReading(now time.Time) {
	ts.DetectionState = StateReading
	ts.ReadStartTime = now
	ts.ReadDoneTime = time.Time{}
	ts.LastID = ""
	ts.LastErr = nil
}

// TransitionToAwaitingRemoval latches the outcome of the read
func (ts *TagState) TransitionToAwaitingRemoval(now time.Time, id string, err error) {
	ts.DetectionState = StateAwaitingRemoval
	ts.ReadDoneTime = now
	ts.LastID = id
	ts.LastErr = err
}

// TransitionToIdle resets to idle state
func (ts *TagState) TransitionToIdle() {
	*ts = TagState{}
}

// CanRead returns true if the state allows a new read
func (ts *TagState) CanRead() bool {
	return ts.DetectionState == StateIdle
}
