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
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/ZaparooProject/go-nfclock/actuator"
	"github.com/ZaparooProject/go-nfclock/detection"
	"github.com/ZaparooProject/go-nfclock/internal/config"
	"github.com/ZaparooProject/go-nfclock/internal/transport"
	"github.com/ZaparooProject/go-nfclock/nfc"
	"github.com/ZaparooProject/go-nfclock/polling"
	"github.com/ZaparooProject/go-nfclock/transport/uart"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const machineIDPath = "/etc/machine-id"

// hardwareID returns the configured identifier, otherwise a hash of the
// machine id, otherwise a hash of the hostname
func hardwareID(configured uint32) nfclock.HardwareID {
	if configured != 0 {
		return nfclock.HardwareID(configured)
	}
	if id, err := os.ReadFile(machineIDPath); err == nil {
		if id = bytes.TrimSpace(id); len(id) > 0 {
			return hashID(id)
		}
	}
	host, _ := os.Hostname()
	return hashID([]byte(host))
}

func hashID(b []byte) nfclock.HardwareID {
	h := fnv.New32a()
	_, _ = h.Write(b)
	return nfclock.HardwareID(h.Sum32())
}

type hardware struct {
	serial    *uart.Transport
	pulse     *actuator.Pulse
	indicator *actuator.Indicator
	monitor   *polling.Monitor
	portName  string
}

func (h *hardware) Close() {
	if h.pulse != nil {
		_ = h.pulse.Reset()
	}
	if h.serial != nil {
		_ = h.serial.Close()
	}
}

func openHardware(ctx context.Context, cfg *config.Config) (_ *hardware, err error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize host drivers: %w", err)
	}

	// Partially opened resources are released on any later failure
	hw := &hardware{}
	defer func() {
		if err != nil {
			hw.Close()
		}
	}()

	lockPin, err := pinByName(cfg.Actuator.Pin)
	if err != nil {
		return nil, err
	}
	activeLevel, _ := config.ParseLevel(cfg.Actuator.ActiveLevel)
	hw.pulse, err = actuator.NewPulse(lockPin, &actuator.Config{Hold: cfg.Actuator.Hold, ActiveLevel: activeLevel})
	if err != nil {
		return nil, err
	}
	if err = hw.pulse.Reset(); err != nil {
		return nil, fmt.Errorf("release lock output: %w", err)
	}

	if cfg.Indicator.Pin != "" {
		ledPin, pinErr := pinByName(cfg.Indicator.Pin)
		if pinErr != nil {
			return nil, pinErr
		}
		indCfg := actuator.DefaultIndicatorConfig()
		indCfg.OnLevel, _ = config.ParseLevel(cfg.Indicator.OnLevel)
		if hw.indicator, err = actuator.NewIndicator(ledPin, indCfg); err != nil {
			return nil, err
		}
	}

	hw.serial, err = openReader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	hw.portName = hw.serial.PortName()

	reader := nfc.NewReader(hw.serial, nfc.Config{
		ResponseTimeout: cfg.NFC.ResponseTimeout,
		SettleDelay:     settleDelay(cfg.NFC.SettleDelay),
		VerifyChecksum:  cfg.NFC.VerifyChecksum,
	})

	sensePin, err := pinByName(cfg.NFC.PresencePin)
	if err != nil {
		return nil, err
	}
	presentLevel, _ := config.ParseLevel(cfg.NFC.PresentLevel)
	pull := gpio.PullDown
	if presentLevel == gpio.Low {
		pull = gpio.PullUp
	}
	if err = sensePin.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as input: %w", cfg.NFC.PresencePin, err)
	}

	hw.monitor, err = polling.NewMonitor(reader, sensePin, &polling.Config{PresentLevel: presentLevel})
	if err != nil {
		return nil, err
	}
	return hw, nil
}

// settleDelay maps a configured zero to "no settle", which nfc.Config
// spells as a negative duration
func settleDelay(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}

// Reader enumeration can lag the daemon at boot
const (
	readerOpenRetries = 10
	readerOpenDelay   = 2 * time.Second
)

// openReader opens the configured port, or the first detected one,
// retrying while the reader is absent
func openReader(ctx context.Context, cfg *config.Config) (*uart.Transport, error) {
	return transport.WithRetry(ctx, transport.RetryConfig{
		Description: "open NFC reader",
		MaxRetries:  readerOpenRetries,
		RetryDelay:  readerOpenDelay,
		OnRetry: func(attempt int, cause error) {
			nfclock.Debugf("lockd: reader not ready (attempt %d): %v", attempt, cause)
		},
	}, func(context.Context) (*uart.Transport, bool, error) {
		portName := cfg.NFC.Port
		if portName == "" {
			var err error
			portName, err = detection.FirstReaderPort(detection.Options{
				Filter: detection.Filter{Blocklist: cfg.NFC.Blocklist, IgnorePaths: cfg.NFC.IgnorePaths},
			})
			if err != nil {
				return nil, errors.Is(err, detection.ErrNoPorts), err
			}
		}
		t, err := uart.New(portName, cfg.NFC.Baud)
		if err != nil {
			return nil, true, err
		}
		return t, false, nil
	})
}

var errPinNotFound = errors.New("gpio pin not found")

func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", errPinNotFound, name)
	}
	return p, nil
}
