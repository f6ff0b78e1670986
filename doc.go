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

/*
Package nfclock provides the core of a WiFi/NFC-controlled electric lock:
a datagram command dispatcher with shared-secret authentication, a
persisted device configuration, a timed lock-release pulse, and NFC tag
matching, all driven from one cooperative control loop.

Hardware is consumed through small interfaces so the core runs and tests
without a board:

  - DatagramTransport: command datagrams in, replies out (transport/udp)
  - ConfigStore: the persisted configuration record (store)
  - Actuator: the lock-release pulse (actuator)
  - TagPoller: presence-gated NFC reads (polling, nfc, transport/uart)
  - Indicator and LinkMonitor: status LED and link sampling

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-nfclock"
	    "github.com/ZaparooProject/go-nfclock/actuator"
	    "github.com/ZaparooProject/go-nfclock/store"
	    "github.com/ZaparooProject/go-nfclock/transport/udp"
	)

	region, err := store.OpenFileRegion("/var/lib/nfclock/eeprom", store.DefaultCapacity)
	if err != nil {
	    log.Fatal(err)
	}
	defer region.Close()

	conn, err := udp.Listen(":2401")
	if err != nil {
	    log.Fatal(err)
	}
	defer conn.Close()

	pulse, err := actuator.NewPulse(lockPin, nil)
	if err != nil {
	    log.Fatal(err)
	}

	lock, err := nfclock.New(nfclock.HardwareID(2803269), store.New(region),
	    nfclock.WithTransport(conn),
	    nfclock.WithActuator(pulse),
	)
	if err != nil {
	    log.Fatal(err)
	}

	// Blocks until ctx is cancelled
	_ = lock.Run(ctx, 5*time.Millisecond)

Wire Protocol:

A datagram containing the discovery token ("COPACETIC") is answered with
the raw device name, e.g. "LOCK_2803269". Any other datagram is a JSON
command:

	{"key":"config_wifi","llave":"2803269","data":{"ssid":"AP","pass":"secret"}}

and is answered with {"response":"ok","message":"..."},
{"response":"ok","data":{...}} or {"response":"error","message":"..."}.

Error Handling:

Dispatcher failures are reported to the peer, never raised:

	if errors.Is(err, nfclock.ErrUnauthorized) {
	    // Secret mismatch
	}

Thread Safety:

Lock and Dispatcher are not thread-safe. Drive them from one goroutine.
*/
package nfclock
