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

// Package udp carries command datagrams over a UDP socket
package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/ZaparooProject/go-nfclock"
)

const (
	// DefaultPort is the command port the lock listens on
	DefaultPort = 2401
	// MaxDatagramSize is the largest inbound payload; longer datagrams are
	// truncated
	MaxDatagramSize = 255
	// pollDeadline bounds how long Receive waits for a pending datagram
	pollDeadline = time.Millisecond
)

// ErrClosed is returned after Close
var ErrClosed = errors.New("udp transport closed")

// Transport is a non-blocking nfclock.DatagramTransport over a packet
// connection
type Transport struct {
	conn   net.PacketConn
	buf    []byte
	mu     sync.Mutex
	closed bool
}

// Listen opens a UDP socket on addr, e.g. ":2401"
func Listen(addr string) (*Transport, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	nfclock.Debugf("udp: listening on %s", conn.LocalAddr())
	return New(conn), nil
}

// New wraps an existing packet connection
func New(conn net.PacketConn) *Transport {
	return &Transport{
		conn: conn,
		buf:  make([]byte, MaxDatagramSize),
	}
}

// LocalAddr returns the bound address
func (t *Transport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Receive returns the next pending datagram, or nil when none arrives
// within a very short deadline
func (t *Transport) Receive(ctx context.Context) (*nfclock.Datagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(pollDeadline)); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}
	n, addr, err := t.conn.ReadFrom(t.buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read datagram: %w", err)
	}

	nfclock.Debugf("udp: %d bytes from %s", n, addr)
	return &nfclock.Datagram{
		Addr:    addr,
		Payload: append([]byte(nil), t.buf[:n]...),
	}, nil
}

// Reply sends payload back to the sender of d
func (t *Transport) Reply(d *nfclock.Datagram, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if d == nil || d.Addr == nil {
		return errors.New("reply without a peer address")
	}
	if _, err := t.conn.WriteTo(payload, d.Addr); err != nil {
		return fmt.Errorf("failed to reply to %s: %w", d.Addr, err)
	}
	return nil
}

// Close closes the socket
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.conn.Close(); err != nil {
		return fmt.Errorf("failed to close socket: %w", err)
	}
	return nil
}
