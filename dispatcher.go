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
	"errors"
	"fmt"
)

// Dispatcher owns the in-memory configuration and executes authenticated
// commands against it.
//
// Thread Safety: Dispatcher is NOT thread-safe. It is driven from the single
// control loop, which is the only writer of the configuration.
type Dispatcher struct {
	store    ConfigStore
	auth     Authenticator
	actuator Actuator
	events   func(ctx context.Context, ev AccessEvent)
	config   DeviceConfig
}

// NewDispatcher creates a dispatcher over an already booted configuration.
// A nil authenticator selects SharedSecret; a nil actuator absorbs unlocks.
func NewDispatcher(cfg DeviceConfig, store ConfigStore, actuator Actuator, auth Authenticator) *Dispatcher {
	if auth == nil {
		auth = SharedSecret{}
	}
	if actuator == nil {
		actuator = nopActuator{}
	}
	return &Dispatcher{
		config:   cfg,
		store:    store,
		auth:     auth,
		actuator: actuator,
	}
}

// Config returns a copy of the current in-memory configuration
func (d *Dispatcher) Config() DeviceConfig {
	return d.config
}

// setEventHook installs the callback that receives access decisions
func (d *Dispatcher) setEventHook(fn func(ctx context.Context, ev AccessEvent)) {
	d.events = fn
}

// Handle runs one request and always produces a response. Failures are
// mapped to error responses; none are fatal.
func (d *Dispatcher) Handle(ctx context.Context, payload []byte) Response {
	resp, err := d.Dispatch(ctx, payload)
	if err != nil {
		debugf("request rejected: %v", err)
		return errorResponse(err)
	}
	return resp
}

// Dispatch runs one request and returns the success response or the error
// that stopped it. The order of checks is fixed: parse, authenticate,
// validate the command, execute.
func (d *Dispatcher) Dispatch(ctx context.Context, payload []byte) (Response, error) {
	env, err := ParseEnvelope(payload)
	if err != nil {
		return Response{}, &CommandError{Err: err}
	}

	if err := d.auth.Authenticate(env.Secret, d.config); err != nil {
		d.emit(ctx, AccessEvent{
			Source:  SourceRemote,
			Command: env.Key(),
			Reason:  ReasonAuthFailed,
		})
		if !errors.Is(err, ErrUnauthorized) {
			err = fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return Response{}, &CommandError{Command: env.Key(), Err: err}
	}

	cmd, err := env.Command()
	if err != nil {
		return Response{}, &CommandError{Command: env.Key(), Err: err}
	}

	return d.execute(ctx, cmd)
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command) (Response, error) {
	switch c := cmd.(type) {
	case UnlockCommand:
		if !d.actuator.RequestUnlock() {
			debugln("unlock absorbed: pulse already pending")
		}
		d.emit(ctx, AccessEvent{
			Source:  SourceRemote,
			Command: c.Name(),
			Granted: true,
			Reason:  ReasonRemoteUnlock,
		})
		return okMessage(MessageUnlock), nil

	case EraseCommand:
		// Acknowledged only; the intended reset semantics are undecided.
		debugln("erase acknowledged without state change")
		return okMessage(MessageErase), nil

	case GetConfigCommand:
		return okData(d.config), nil

	case mutation:
		return d.mutate(c)

	default:
		return Response{}, &CommandError{Command: cmd.Name(), Err: malformedf("unhandled command")}
	}
}

// mutate stages the new record, persists it, and only then replaces the
// in-memory copy. A failed save leaves the running configuration as it was.
func (d *Dispatcher) mutate(m mutation) (Response, error) {
	staged := m.apply(d.config)

	if err := d.store.Save(staged); err != nil {
		return Response{}, &CommandError{
			Command: m.Name(),
			Err:     fmt.Errorf("%w: %w", ErrPersistFailed, err),
		}
	}

	d.config = staged
	debugf("configuration updated by %s: %s", m.Name(), staged.Redacted())
	return okMessage(m.message()), nil
}

func (d *Dispatcher) emit(ctx context.Context, ev AccessEvent) {
	if d.events != nil {
		d.events(ctx, ev)
	}
}
