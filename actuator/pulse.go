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

// Package actuator drives the lock-release output and the status LED from
// the control loop. Nothing in this package blocks: every transition
// happens on Tick.
package actuator

import (
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"periph.io/x/conn/v3/gpio"
)

// DefaultHold is how long the lock-release output stays asserted
const DefaultHold = 2 * time.Second

// ErrNilOutput is returned by constructors given no output
var ErrNilOutput = errors.New("output cannot be nil")

// Output is a digital output. Any gpio.PinOut satisfies it.
type Output interface {
	Out(l gpio.Level) error
}

// Config holds pulse options
type Config struct {
	// Hold is the minimum time the output stays asserted
	Hold time.Duration
	// ActiveLevel is the level that releases the lock
	ActiveLevel gpio.Level
}

// DefaultConfig returns the default pulse configuration
func DefaultConfig() *Config {
	return &Config{Hold: DefaultHold, ActiveLevel: gpio.High}
}

// Pulse is a one-shot timed output. A request made while a pulse is
// pending or active is absorbed, so there is at most one pulse at a time.
//
// Thread Safety: Pulse is NOT thread-safe; it is driven from the control loop.
type Pulse struct {
	activatedAt time.Time
	out         Output
	config      *Config
	pulses      int
	pending     bool
	active      bool
}

// NewPulse creates a pulse controller on out. A nil config selects
// DefaultConfig.
func NewPulse(out Output, config *Config) (*Pulse, error) {
	if out == nil {
		return nil, ErrNilOutput
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Hold <= 0 {
		config.Hold = DefaultHold
	}
	return &Pulse{out: out, config: config}, nil
}

// Reset drives the output to its inactive level and drops any pending
// request. Call it once at startup.
func (p *Pulse) Reset() error {
	p.pending = false
	p.active = false
	if err := p.out.Out(!p.config.ActiveLevel); err != nil {
		return fmt.Errorf("failed to release output: %w", err)
	}
	return nil
}

// RequestUnlock asks for one pulse. It returns false when the request was
// absorbed by a pulse already pending or active.
func (p *Pulse) RequestUnlock() bool {
	if p.pending || p.active {
		return false
	}
	p.pending = true
	return true
}

// Tick asserts the output for a pending request and releases it once the
// hold time has strictly elapsed. A failed write is retried on the next tick.
func (p *Pulse) Tick(now time.Time) error {
	switch {
	case p.pending && !p.active:
		if err := p.out.Out(p.config.ActiveLevel); err != nil {
			return fmt.Errorf("failed to assert output: %w", err)
		}
		p.active = true
		p.activatedAt = now
		p.pulses++
		nfclock.Debugln("actuator: lock released")

	case p.active && now.Sub(p.activatedAt) > p.config.Hold:
		if err := p.out.Out(!p.config.ActiveLevel); err != nil {
			return fmt.Errorf("failed to release output: %w", err)
		}
		p.active = false
		p.pending = false
		nfclock.Debugln("actuator: lock engaged")
	}
	return nil
}

// Active reports whether the output is asserted
func (p *Pulse) Active() bool {
	return p.active
}

// Pending reports whether a pulse was requested and has not finished
func (p *Pulse) Pending() bool {
	return p.pending
}

// Pulses returns how many pulses have started
func (p *Pulse) Pulses() int {
	return p.pulses
}
