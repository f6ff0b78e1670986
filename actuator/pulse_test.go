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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type failingOutput struct {
	err   error
	calls int
}

func (f *failingOutput) Out(gpio.Level) error {
	f.calls++
	return f.err
}

func newTestPulse(t *testing.T) (*Pulse, *gpiotest.Pin) {
	t.Helper()
	pin := &gpiotest.Pin{N: "LOCK"}
	p, err := NewPulse(pin, nil)
	require.NoError(t, err)
	require.NoError(t, p.Reset())
	return p, pin
}

func TestPulse_Lifecycle(t *testing.T) {
	t.Parallel()
	p, pin := newTestPulse(t)
	assert.Equal(t, gpio.Low, pin.Read())

	require.True(t, p.RequestUnlock())
	assert.True(t, p.Pending())
	assert.False(t, p.Active())
	assert.Equal(t, gpio.Low, pin.Read())

	require.NoError(t, p.Tick(epoch))
	assert.True(t, p.Active())
	assert.Equal(t, gpio.High, pin.Read())

	// Exactly the hold time is not enough
	require.NoError(t, p.Tick(epoch.Add(DefaultHold)))
	assert.True(t, p.Active())

	require.NoError(t, p.Tick(epoch.Add(DefaultHold+time.Millisecond)))
	assert.False(t, p.Active())
	assert.False(t, p.Pending())
	assert.Equal(t, gpio.Low, pin.Read())
	assert.Equal(t, 1, p.Pulses())
}

func TestPulse_RequestsAbsorbed(t *testing.T) {
	t.Parallel()
	p, _ := newTestPulse(t)

	require.True(t, p.RequestUnlock())
	assert.False(t, p.RequestUnlock(), "pending")

	require.NoError(t, p.Tick(epoch))
	assert.False(t, p.RequestUnlock(), "active")

	require.NoError(t, p.Tick(epoch.Add(time.Second)))
	require.NoError(t, p.Tick(epoch.Add(3*time.Second)))
	assert.Equal(t, 1, p.Pulses())

	// A new request after release starts a new pulse
	require.True(t, p.RequestUnlock())
	require.NoError(t, p.Tick(epoch.Add(4*time.Second)))
	assert.Equal(t, 2, p.Pulses())
}

func TestPulse_IdleTickDoesNothing(t *testing.T) {
	t.Parallel()
	out := &failingOutput{}
	p, err := NewPulse(out, nil)
	require.NoError(t, err)

	for i := range 10 {
		require.NoError(t, p.Tick(epoch.Add(time.Duration(i)*time.Second)))
	}
	assert.Zero(t, out.calls)
}

func TestPulse_ActiveLow(t *testing.T) {
	t.Parallel()
	pin := &gpiotest.Pin{N: "LOCK"}
	p, err := NewPulse(pin, &Config{Hold: 100 * time.Millisecond, ActiveLevel: gpio.Low})
	require.NoError(t, err)
	require.NoError(t, p.Reset())
	assert.Equal(t, gpio.High, pin.Read())

	p.RequestUnlock()
	require.NoError(t, p.Tick(epoch))
	assert.Equal(t, gpio.Low, pin.Read())

	require.NoError(t, p.Tick(epoch.Add(101*time.Millisecond)))
	assert.Equal(t, gpio.High, pin.Read())
}

func TestPulse_OutputFailureRetries(t *testing.T) {
	t.Parallel()
	out := &failingOutput{err: errors.New("pin busy")}
	p, err := NewPulse(out, nil)
	require.NoError(t, err)

	p.RequestUnlock()
	require.ErrorIs(t, p.Tick(epoch), out.err)
	assert.False(t, p.Active())
	assert.True(t, p.Pending())

	out.err = nil
	require.NoError(t, p.Tick(epoch.Add(time.Second)))
	assert.True(t, p.Active())
}

func TestNewPulse_Validation(t *testing.T) {
	t.Parallel()
	_, err := NewPulse(nil, nil)
	require.ErrorIs(t, err, ErrNilOutput)

	p, err := NewPulse(&gpiotest.Pin{}, &Config{ActiveLevel: gpio.High})
	require.NoError(t, err)
	assert.Equal(t, DefaultHold, p.config.Hold)
}
