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
	"errors"
	"fmt"
)

// Lock errors
var (
	// ErrMalformed covers unparseable requests, missing or mistyped fields
	// and unknown commands
	ErrMalformed = errors.New("malformed request")

	// ErrUnauthorized means the presented secret does not match the device secret
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCapacityExceeded means an encoded configuration record does not fit
	// in the persistent region
	ErrCapacityExceeded = errors.New("configuration exceeds storage capacity")

	// ErrPersistFailed wraps any failure to durably rewrite the configuration
	ErrPersistFailed = errors.New("failed to persist configuration")

	// ErrNoConfig means the persistent region holds no valid configuration
	// record. It is not a fault: a never-configured device boots from defaults.
	ErrNoConfig = errors.New("no stored configuration")

	// ErrDecodeFailure means the NFC reader response failed status or format checks
	ErrDecodeFailure = errors.New("tag decode failure")

	// ErrNotBooted is returned by a Lock that was not created with New
	ErrNotBooted = errors.New("lock not booted")
)

// CommandError records the command a dispatcher failure belongs to.
// Command is empty when the request could not be parsed far enough to
// name one.
type CommandError struct {
	Err     error
	Command string
}

func (e *CommandError) Error() string {
	if e.Command == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// StoreError describes a persistent region failure at a given address
type StoreError struct {
	Err  error
	Op   string
	Addr int
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s at address %d: %v", e.Op, e.Addr, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// malformedf builds an ErrMalformed carrying context for debug output
func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
