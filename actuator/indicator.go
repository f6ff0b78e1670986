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

package actuator

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Blink periods of the status LED
const (
	DefaultUnlinkedPeriod = 250 * time.Millisecond
	DefaultLinkedPeriod   = time.Second
)

// IndicatorConfig holds status LED options
type IndicatorConfig struct {
	UnlinkedPeriod time.Duration
	LinkedPeriod   time.Duration
	// OnLevel is the level that lights the LED
	OnLevel gpio.Level
}

// DefaultIndicatorConfig returns the default LED configuration
func DefaultIndicatorConfig() *IndicatorConfig {
	return &IndicatorConfig{
		UnlinkedPeriod: DefaultUnlinkedPeriod,
		LinkedPeriod:   DefaultLinkedPeriod,
		OnLevel:        gpio.High,
	}
}

// Indicator blinks the status LED fast while the network link is down,
// slowly while it is up, and holds it lit during a lock-release pulse.
type Indicator struct {
	lastToggle time.Time
	out        Output
	config     *IndicatorConfig
	lit        bool
	started    bool
}

// NewIndicator creates an LED driver on out. A nil config selects
// DefaultIndicatorConfig.
func NewIndicator(out Output, config *IndicatorConfig) (*Indicator, error) {
	if out == nil {
		return nil, ErrNilOutput
	}
	if config == nil {
		config = DefaultIndicatorConfig()
	}
	def := DefaultIndicatorConfig()
	if config.UnlinkedPeriod <= 0 {
		config.UnlinkedPeriod = def.UnlinkedPeriod
	}
	if config.LinkedPeriod <= 0 {
		config.LinkedPeriod = def.LinkedPeriod
	}
	return &Indicator{out: out, config: config}, nil
}

// Tick updates the LED for the current link and pulse state
func (ind *Indicator) Tick(now time.Time, linked, unlocking bool) error {
	if !ind.started {
		ind.started = true
		ind.lastToggle = now
	}

	if unlocking {
		ind.lastToggle = now
		return ind.set(true)
	}

	period := ind.config.UnlinkedPeriod
	if linked {
		period = ind.config.LinkedPeriod
	}
	if now.Sub(ind.lastToggle) <= period {
		return nil
	}
	ind.lastToggle = now
	return ind.set(!ind.lit)
}

// Lit reports whether the LED is on
func (ind *Indicator) Lit() bool {
	return ind.lit
}

func (ind *Indicator) set(lit bool) error {
	if lit == ind.lit {
		return nil
	}
	level := ind.config.OnLevel
	if !lit {
		level = !level
	}
	if err := ind.out.Out(level); err != nil {
		return fmt.Errorf("failed to drive indicator: %w", err)
	}
	ind.lit = lit
	return nil
}
