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

// Package polling gates NFC reads on a tag presence input so that each
// physical presentation is read exactly once.
package polling

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	"periph.io/x/conn/v3/gpio"
)

// TagReader performs one read of the tag in the field
type TagReader interface {
	ReadTag(ctx context.Context) (string, error)
}

// PresenceSensor is the digital input asserted while a tag is in the
// field. Any gpio.PinIn satisfies it.
type PresenceSensor interface {
	Read() gpio.Level
}

// Config holds monitor options
type Config struct {
	// PresentLevel is the sensor level that means a tag is present
	PresentLevel gpio.Level
}

// DefaultConfig returns the default monitor configuration
func DefaultConfig() *Config {
	return &Config{PresentLevel: gpio.High}
}

// Metrics tracks operational counters for a Monitor
type Metrics struct {
	PollCycles      int64         // Total number of Poll calls
	TagsRead        int64         // Reads that produced an identifier
	ReadErrors      int64         // Reads that failed
	Removals        int64         // Presentations that ended
	LastReadLatency time.Duration // Duration of the last read
}

// Monitor runs presence-gated reads. Poll never blocks waiting for the
// tag to leave; the latch is released on the first poll that sees the
// sensor report absence.
//
// Thread Safety: Poll must be called from a single goroutine. GetMetrics
// may be called from any goroutine.
type Monitor struct {
	reader       TagReader
	sensor       PresenceSensor
	config       *Config
	clock        func() time.Time
	OnTagRead    func(nfclock.TagPresence)
	OnTagRemoved func()
	state        TagState

	pollCycles      atomic.Int64
	tagsRead        atomic.Int64
	readErrors      atomic.Int64
	removals        atomic.Int64
	lastReadLatency atomic.Int64
}

// NewMonitor creates a monitor reading through reader whenever sensor
// reports a tag
func NewMonitor(reader TagReader, sensor PresenceSensor, config *Config) (*Monitor, error) {
	if reader == nil {
		return nil, errors.New("reader cannot be nil")
	}
	if sensor == nil {
		return nil, errors.New("presence sensor cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{
		reader: reader,
		sensor: sensor,
		config: config,
		clock:  time.Now,
	}, nil
}

// Poll runs one cycle. It reports Present only for the cycle that
// performed the read of a new presentation.
func (m *Monitor) Poll(ctx context.Context) nfclock.TagPresence {
	m.pollCycles.Add(1)

	if m.sensor.Read() != m.config.PresentLevel {
		m.handleRemoval()
		return nfclock.TagPresence{}
	}
	if !m.state.CanRead() {
		return nfclock.TagPresence{}
	}

	start := m.clock()
	m.state.TransitionToReading(start)
	id, err := m.reader.ReadTag(ctx)
	done := m.clock()
	m.lastReadLatency.Store(int64(done.Sub(start)))

	if ctx.Err() != nil {
		// Shutting down: retry the presentation on the next run
		m.state.TransitionToIdle()
		return nfclock.TagPresence{}
	}

	if err != nil {
		m.readErrors.Add(1)
		nfclock.Debugf("polling: read failed: %v", err)
	} else {
		m.tagsRead.Add(1)
		nfclock.Debugf("polling: read tag %s", id)
	}
	m.state.TransitionToAwaitingRemoval(done, id, err)

	presence := nfclock.TagPresence{Present: true, ID: id, Err: err}
	if m.OnTagRead != nil {
		m.OnTagRead(presence)
	}
	return presence
}

// handleRemoval releases the latch once the sensor reports absence
func (m *Monitor) handleRemoval() {
	if m.state.DetectionState == StateIdle {
		return
	}
	m.removals.Add(1)
	m.state.TransitionToIdle()
	nfclock.Debugln("polling: tag removed")
	if m.OnTagRemoved != nil {
		m.OnTagRemoved()
	}
}

// GetState returns the current tag state
func (m *Monitor) GetState() TagState {
	return m.state
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() Metrics {
	return Metrics{
		PollCycles:      m.pollCycles.Load(),
		TagsRead:        m.tagsRead.Load(),
		ReadErrors:      m.readErrors.Load(),
		Removals:        m.removals.Load(),
		LastReadLatency: time.Duration(m.lastReadLatency.Load()),
	}
}
