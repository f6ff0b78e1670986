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
	"time"
)

// Option configures a Lock
type Option func(*Lock) error

// WithTransport sets the datagram transport commands arrive on
func WithTransport(transport DatagramTransport) Option {
	return func(l *Lock) error {
		l.transport = transport
		return nil
	}
}

// WithActuator sets the lock-release pulse controller
func WithActuator(actuator Actuator) Option {
	return func(l *Lock) error {
		if actuator == nil {
			return errors.New("nil actuator")
		}
		l.actuator = actuator
		return nil
	}
}

// WithTagPoller sets the NFC poll cycle
func WithTagPoller(poller TagPoller) Option {
	return func(l *Lock) error {
		l.tags = poller
		return nil
	}
}

// WithIndicator sets the status LED driver
func WithIndicator(indicator Indicator) Option {
	return func(l *Lock) error {
		l.indicator = indicator
		return nil
	}
}

// WithLinkMonitor sets the link-status sampler
func WithLinkMonitor(link LinkMonitor) Option {
	return func(l *Lock) error {
		l.link = link
		return nil
	}
}

// WithAuthenticator replaces the shared-secret authenticator
func WithAuthenticator(auth Authenticator) Option {
	return func(l *Lock) error {
		if auth == nil {
			return errors.New("nil authenticator")
		}
		l.auth = auth
		return nil
	}
}

// WithClock sets the time source sampled at the start of every tick
func WithClock(clock func() time.Time) Option {
	return func(l *Lock) error {
		if clock == nil {
			return errors.New("nil clock")
		}
		l.clock = clock
		return nil
	}
}

// WithEventSink sets where access decisions are recorded
func WithEventSink(sink EventSink) Option {
	return func(l *Lock) error {
		l.sink = sink
		return nil
	}
}

// WithNamePrefix sets the prefix of the advertised device name
func WithNamePrefix(prefix string) Option {
	return func(l *Lock) error {
		if prefix == "" {
			return errors.New("empty name prefix")
		}
		l.namePrefix = prefix
		return nil
	}
}

// WithDiscoveryToken sets the literal that marks a discovery probe
func WithDiscoveryToken(token string) Option {
	return func(l *Lock) error {
		if token == "" {
			return errors.New("empty discovery token")
		}
		l.discoveryToken = token
		return nil
	}
}
