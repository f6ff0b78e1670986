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

package main

import (
	"context"
	"testing"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/ZaparooProject/go-nfclock/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestHardwareID_Configured(t *testing.T) {
	t.Parallel()
	assert.Equal(t, nfclock.HardwareID(2803269), hardwareID(2803269))
}

func TestHardwareID_Derived(t *testing.T) {
	t.Parallel()

	// Derived identifiers are stable across calls on the same host
	assert.Equal(t, hardwareID(0), hardwareID(0))
}

func TestHashID(t *testing.T) {
	t.Parallel()

	// FNV-32a test vectors
	assert.Equal(t, nfclock.HardwareID(0x811c9dc5), hashID(nil))
	assert.Equal(t, nfclock.HardwareID(0xe40c292c), hashID([]byte("a")))
	assert.NotEqual(t, hashID([]byte("lock-a")), hashID([]byte("lock-b")))
}

func TestSettleDelay(t *testing.T) {
	t.Parallel()

	assert.Negative(t, settleDelay(0))
	assert.Equal(t, 20*time.Millisecond, settleDelay(20*time.Millisecond))
}

func TestOpenHardware_MissingPins(t *testing.T) {
	t.Parallel()

	lockPin := &gpiotest.Pin{N: "LOCKD_TEST_LOCK", L: gpio.High}
	require.NoError(t, gpioreg.Register(lockPin))

	tests := []struct {
		mutate  func(*config.Config)
		name    string
		wantPin string
	}{
		{
			name:    "unknown lock pin",
			mutate:  func(c *config.Config) { c.Actuator.Pin = "NO_SUCH_PIN" },
			wantPin: "NO_SUCH_PIN",
		},
		{
			name: "unknown indicator pin after the lock output is claimed",
			mutate: func(c *config.Config) {
				c.Actuator.Pin = lockPin.N
				c.Indicator.Pin = "NO_SUCH_LED"
			},
			wantPin: "NO_SUCH_LED",
		},
	}

	for _, tt := range tests {
		// Sequential: the pin level is checked after the loop
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(nil)
			require.NoError(t, err)
			tt.mutate(cfg)

			var hw *hardware
			assert.NotPanics(t, func() {
				hw, err = openHardware(context.Background(), cfg)
			})
			require.ErrorIs(t, err, errPinNotFound)
			assert.Contains(t, err.Error(), tt.wantPin)
			assert.Nil(t, hw)
		})
	}

	// The claimed lock output is left released
	assert.Equal(t, gpio.Low, lockPin.Read())
}
