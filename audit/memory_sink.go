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

package audit

import (
	"context"
	"sync"

	"github.com/ZaparooProject/go-nfclock"
)

// DefaultMemoryCapacity is how many events a MemorySink keeps by default
const DefaultMemoryCapacity = 256

// MemorySink keeps the most recent events in memory
type MemorySink struct {
	events   []nfclock.AccessEvent
	capacity int
	dropped  int
	mu       sync.Mutex
}

// NewMemorySink creates a sink holding at most capacity events. Older
// events are dropped first. A non-positive capacity selects
// DefaultMemoryCapacity.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemorySink{capacity: capacity}
}

// Record appends ev, evicting the oldest event when full
func (s *MemorySink) Record(_ context.Context, ev nfclock.AccessEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == s.capacity {
		copy(s.events, s.events[1:])
		s.events = s.events[:len(s.events)-1]
		s.dropped++
	}
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of the stored events, oldest first
func (s *MemorySink) Events() []nfclock.AccessEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]nfclock.AccessEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Count returns the number of stored events
func (s *MemorySink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Dropped returns how many events were evicted
func (s *MemorySink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
