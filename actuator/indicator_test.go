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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// countToggles ticks every step for span and returns the number of changes
func countToggles(t *testing.T, ind *Indicator, start time.Time, span, step time.Duration, linked bool) int {
	t.Helper()
	toggles := 0
	last := ind.Lit()
	for d := time.Duration(0); d <= span; d += step {
		require.NoError(t, ind.Tick(start.Add(d), linked, false))
		if ind.Lit() != last {
			toggles++
			last = ind.Lit()
		}
	}
	return toggles
}

func TestIndicator_BlinkRates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		linked  bool
		minimum int
		maximum int
	}{
		{name: "unlinked blinks fast", linked: false, minimum: 7, maximum: 8},
		{name: "linked blinks slowly", linked: true, minimum: 1, maximum: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ind, err := NewIndicator(&gpiotest.Pin{N: "LED"}, nil)
			require.NoError(t, err)

			toggles := countToggles(t, ind, epoch, 2*time.Second, 10*time.Millisecond, tt.linked)
			assert.GreaterOrEqual(t, toggles, tt.minimum)
			assert.LessOrEqual(t, toggles, tt.maximum)
		})
	}
}

func TestIndicator_SolidWhileUnlocking(t *testing.T) {
	t.Parallel()
	pin := &gpiotest.Pin{N: "LED"}
	ind, err := NewIndicator(pin, nil)
	require.NoError(t, err)

	for i := range 300 {
		require.NoError(t, ind.Tick(epoch.Add(time.Duration(i)*10*time.Millisecond), false, true))
		require.True(t, ind.Lit())
		require.Equal(t, gpio.High, pin.Read())
	}
}

func TestIndicator_ActiveLowLED(t *testing.T) {
	t.Parallel()
	pin := &gpiotest.Pin{N: "LED", L: gpio.High}
	ind, err := NewIndicator(pin, &IndicatorConfig{OnLevel: gpio.Low})
	require.NoError(t, err)
	assert.Equal(t, DefaultUnlinkedPeriod, ind.config.UnlinkedPeriod)

	require.NoError(t, ind.Tick(epoch, true, true))
	assert.Equal(t, gpio.Low, pin.Read())
}

func TestNewIndicator_NilOutput(t *testing.T) {
	t.Parallel()
	_, err := NewIndicator(nil, nil)
	require.ErrorIs(t, err, ErrNilOutput)
}
