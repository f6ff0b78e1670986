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

package detection

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ZaparooProject/go-nfclock"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes a candidate serial port
type PortInfo struct {
	Path         string
	VIDPID       string
	Product      string
	SerialNumber string
	IsUSB        bool
}

// KnownBridge reports whether the port sits on a chip in KnownBridges
func (p PortInfo) KnownBridge() bool {
	return p.VIDPID != "" && slices.Contains(KnownBridges, p.VIDPID)
}

// Lister enumerates serial ports. enumerator.GetDetailedPortsList is the
// default.
type Lister func() ([]*enumerator.PortDetails, error)

// Options configures FindReaderPorts
type Options struct {
	Lister Lister
	Filter Filter
	// USBOnly drops ports that are not USB devices
	USBOnly bool
}

// FindReaderPorts lists serial ports that may host the reader, known
// bridge chips first, then other USB ports, then everything else. Ports
// within a group keep the enumerator order.
func FindReaderPorts(opts Options) ([]PortInfo, error) {
	list := opts.Lister
	if list == nil {
		list = enumerator.GetDetailedPortsList
	}

	details, err := list()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil || d.Name == "" {
			continue
		}
		port := PortInfo{
			Path:         d.Name,
			Product:      d.Product,
			SerialNumber: d.SerialNumber,
			IsUSB:        d.IsUSB,
		}
		if d.IsUSB {
			port.VIDPID = ParseVIDPID(d.VID + ":" + d.PID)
		}

		if opts.USBOnly && !port.IsUSB {
			continue
		}
		if !opts.Filter.Allows(port) {
			nfclock.Debugf("detection: skipping %s (%s)", port.Path, port.VIDPID)
			continue
		}
		ports = append(ports, port)
	}

	slices.SortStableFunc(ports, func(a, b PortInfo) int {
		return rank(a) - rank(b)
	})
	return ports, nil
}

func rank(p PortInfo) int {
	switch {
	case p.KnownBridge():
		return 0
	case p.IsUSB:
		return 1
	default:
		return 2
	}
}

// FirstReaderPort returns the best candidate port path
func FirstReaderPort(opts Options) (string, error) {
	ports, err := FindReaderPorts(opts)
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", ErrNoPorts
	}
	return ports[0].Path, nil
}

// ErrNoPorts is returned when no candidate port was found
var ErrNoPorts = errors.New("no serial ports found")

// String renders the port for logs
func (p PortInfo) String() string {
	parts := []string{p.Path}
	if p.VIDPID != "" {
		parts = append(parts, p.VIDPID)
	}
	if p.Product != "" {
		parts = append(parts, p.Product)
	}
	return strings.Join(parts, " ")
}
