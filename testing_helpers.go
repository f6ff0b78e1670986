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
	"net"
	"sync"
	"time"
)

// ErrMockClosed is returned by mocks after Close
var ErrMockClosed = errors.New("mock closed")

// MockDatagramTransport is an in-memory DatagramTransport for tests.
// Queued datagrams are returned one per Receive; replies are recorded.
type MockDatagramTransport struct {
	ReceiveErr error
	ReplyErr   error
	inbound    []*Datagram
	replies    []MockReply
	mu         sync.Mutex
	closed     bool
}

// MockReply is one reply captured by MockDatagramTransport
type MockReply struct {
	To      net.Addr
	Payload []byte
}

// NewMockDatagramTransport creates an empty mock transport
func NewMockDatagramTransport() *MockDatagramTransport {
	return &MockDatagramTransport{}
}

// mockAddr is the peer address used by Push
var mockAddr = &net.UDPAddr{IP: net.IPv4(192, 168, 4, 2), Port: 50000}

// Push queues an inbound payload from a fixed peer
func (m *MockDatagramTransport) Push(payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbound = append(m.inbound, &Datagram{Addr: mockAddr, Payload: []byte(payload)})
}

// Receive pops the next queued datagram, or returns nil when none is queued
func (m *MockDatagramTransport) Receive(ctx context.Context) (*Datagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrMockClosed
	}
	if m.ReceiveErr != nil {
		return nil, m.ReceiveErr
	}
	if len(m.inbound) == 0 {
		return nil, nil
	}
	d := m.inbound[0]
	m.inbound = m.inbound[1:]
	return d, nil
}

// Reply records payload
func (m *MockDatagramTransport) Reply(d *Datagram, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplyErr != nil {
		return m.ReplyErr
	}
	m.replies = append(m.replies, MockReply{To: d.Addr, Payload: append([]byte(nil), payload...)})
	return nil
}

// Close marks the transport closed
func (m *MockDatagramTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Replies returns the replies sent so far
func (m *MockDatagramTransport) Replies() []MockReply {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockReply, len(m.replies))
	copy(out, m.replies)
	return out
}

// Pending returns how many datagrams are still queued
func (m *MockDatagramTransport) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inbound)
}

// MockConfigStore is an in-memory ConfigStore that counts saves
type MockConfigStore struct {
	LoadErr error
	SaveErr error
	config  *DeviceConfig
	saves   int
	mu      sync.Mutex
}

// NewMockConfigStore creates a store holding cfg, or nothing when cfg is nil
func NewMockConfigStore(cfg *DeviceConfig) *MockConfigStore {
	m := &MockConfigStore{}
	if cfg != nil {
		c := *cfg
		m.config = &c
	}
	return m
}

// Load returns the held record or ErrNoConfig
func (m *MockConfigStore) Load() (DeviceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return DeviceConfig{}, m.LoadErr
	}
	if m.config == nil {
		return DeviceConfig{}, ErrNoConfig
	}
	return *m.config, nil
}

// Save replaces the held record unless SaveErr is set
func (m *MockConfigStore) Save(cfg DeviceConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.config = &cfg
	m.saves++
	return nil
}

// Saves returns the number of successful saves
func (m *MockConfigStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Stored returns the held record and whether one exists
func (m *MockConfigStore) Stored() (DeviceConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.config == nil {
		return DeviceConfig{}, false
	}
	return *m.config, true
}

// MockActuator counts unlock requests and mimics the absorb-while-pending rule
type MockActuator struct {
	TickErr  error
	requests int
	granted  int
	pending  bool
}

// RequestUnlock records the request and reports whether it started a pulse
func (m *MockActuator) RequestUnlock() bool {
	m.requests++
	if m.pending {
		return false
	}
	m.pending = true
	m.granted++
	return true
}

// Tick returns TickErr
func (m *MockActuator) Tick(time.Time) error {
	return m.TickErr
}

// Active reports whether a pulse was granted and not yet released
func (m *MockActuator) Active() bool {
	return m.pending
}

// Release ends the current pulse
func (m *MockActuator) Release() {
	m.pending = false
}

// Requests returns how many unlocks were requested
func (m *MockActuator) Requests() int {
	return m.requests
}

// Granted returns how many requests started a pulse
func (m *MockActuator) Granted() int {
	return m.granted
}

// MockTagPoller returns queued presences, then absence
type MockTagPoller struct {
	queue []TagPresence
	polls int
}

// NewMockTagPoller creates a poller returning presences in order
func NewMockTagPoller(presences ...TagPresence) *MockTagPoller {
	return &MockTagPoller{queue: presences}
}

// Poll pops the next presence
func (m *MockTagPoller) Poll(context.Context) TagPresence {
	m.polls++
	if len(m.queue) == 0 {
		return TagPresence{}
	}
	p := m.queue[0]
	m.queue = m.queue[1:]
	return p
}

// Polls returns how many poll cycles ran
func (m *MockTagPoller) Polls() int {
	return m.polls
}

// MockEventSink collects access events in memory
type MockEventSink struct {
	events []AccessEvent
	mu     sync.Mutex
}

// Record appends ev
func (s *MockEventSink) Record(_ context.Context, ev AccessEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of the recorded events
func (s *MockEventSink) Events() []AccessEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AccessEvent, len(s.events))
	copy(out, s.events)
	return out
}
