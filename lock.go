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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lock is the device core. One Tick runs the fixed-order poll cycle:
// sample the clock, service at most one datagram, sample the link and
// drive the indicator, advance the actuator, then poll the NFC reader.
//
// Thread Safety: Lock is NOT thread-safe. Tick and Run must be called from
// a single goroutine; all state is owned by that loop.
type Lock struct {
	transport      DatagramTransport
	actuator       Actuator
	tags           TagPoller
	indicator      Indicator
	link           LinkMonitor
	auth           Authenticator
	sink           EventSink
	store          ConfigStore
	dispatcher     *Dispatcher
	discovery      *DiscoveryResponder
	clock          func() time.Time
	namePrefix     string
	discoveryToken string
	hardwareID     HardwareID
}

// New creates a Lock and boots its configuration from store. The
// configuration is synchronized before New returns, so no command can be
// handled against a stale copy.
func New(hw HardwareID, store ConfigStore, opts ...Option) (*Lock, error) {
	if store == nil {
		return nil, errors.New("nil config store")
	}

	l := &Lock{
		hardwareID:     hw,
		store:          store,
		actuator:       nopActuator{},
		auth:           SharedSecret{},
		clock:          time.Now,
		namePrefix:     DefaultNamePrefix,
		discoveryToken: DefaultDiscoveryToken,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	cfg, err := l.boot()
	if err != nil {
		return nil, err
	}

	l.discovery = NewDiscoveryResponder(l.discoveryToken, hw.DeviceName(l.namePrefix))
	l.dispatcher = NewDispatcher(cfg, store, l.actuator, l.auth)
	l.dispatcher.setEventHook(l.record)
	return l, nil
}

// boot reads the stored record once. A missing or invalid record is not a
// fault; an unset secret falls back to the hardware-derived one.
func (l *Lock) boot() (DeviceConfig, error) {
	cfg, err := l.store.Load()
	switch {
	case err == nil:
		debugf("loaded configuration: %s", cfg.Redacted())
	case errors.Is(err, ErrNoConfig):
		debugf("starting unconfigured: %v", err)
		cfg = DeviceConfig{}
	default:
		return DeviceConfig{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Secret == "" {
		cfg.Secret = l.hardwareID.Secret()
		debugln("secret unset, using hardware identifier")
	}
	return cfg, nil
}

// Name returns the advertised device name
func (l *Lock) Name() string {
	return l.discovery.Name()
}

// Config returns a copy of the running configuration
func (l *Lock) Config() DeviceConfig {
	return l.dispatcher.Config()
}

// Dispatcher returns the command dispatcher
func (l *Lock) Dispatcher() *Dispatcher {
	return l.dispatcher
}

// Run calls Tick until ctx is done, yielding interval between iterations.
// Tick errors are logged and never stop the loop.
func (l *Lock) Run(ctx context.Context, interval time.Duration) error {
	// One timer for the whole loop, re-armed after each tick
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := l.Tick(ctx); err != nil {
			debugf("tick failed: %v", err)
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Tick runs one iteration of the control loop
func (l *Lock) Tick(ctx context.Context) error {
	if l.dispatcher == nil {
		return ErrNotBooted
	}
	now := l.clock()
	var errs []error

	if err := l.serviceTransport(ctx); err != nil {
		errs = append(errs, err)
	}

	linked := l.link != nil && l.link.Linked()
	if l.indicator != nil {
		if err := l.indicator.Tick(now, linked, l.actuator.Active()); err != nil {
			errs = append(errs, fmt.Errorf("indicator: %w", err))
		}
	}

	if err := l.actuator.Tick(now); err != nil {
		errs = append(errs, fmt.Errorf("actuator: %w", err))
	}

	l.pollTag(ctx)

	return errors.Join(errs...)
}

// serviceTransport handles at most one pending datagram
func (l *Lock) serviceTransport(ctx context.Context) error {
	if l.transport == nil {
		return nil
	}

	dg, err := l.transport.Receive(ctx)
	if err != nil {
		return fmt.Errorf("failed to receive datagram: %w", err)
	}
	if dg == nil {
		return nil
	}

	reply, ok := l.HandleDatagram(ctx, dg.Payload)
	if !ok {
		return nil
	}
	if err := l.transport.Reply(dg, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// HandleDatagram produces the reply for one inbound payload. Discovery
// probes are answered before any parsing. It returns false for an empty
// payload, which gets no reply.
func (l *Lock) HandleDatagram(ctx context.Context, payload []byte) ([]byte, bool) {
	// Payloads are treated as C strings: anything after a NUL is ignored.
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	if len(payload) == 0 {
		return nil, false
	}

	if reply, ok := l.discovery.Respond(payload); ok {
		debugln("answering discovery probe")
		return reply, true
	}

	resp := l.dispatcher.Handle(ctx, payload)
	out, err := json.Marshal(resp)
	if err != nil {
		// Response only holds strings; this cannot happen in practice.
		debugf("failed to encode response: %v", err)
		return []byte(`{"response":"error","message":"` + MessageProcessingError + `"}`), true
	}
	return out, true
}

// pollTag runs one NFC poll cycle and grants a pulse for the authorized tag.
// Unreadable tags and absence are silent.
func (l *Lock) pollTag(ctx context.Context) {
	if l.tags == nil {
		return
	}

	presence := l.tags.Poll(ctx)
	if !presence.Present {
		return
	}
	if !presence.Usable() {
		debugf("tag present but unreadable: %v", presence.Err)
		return
	}

	cfg := l.dispatcher.Config()
	ev := AccessEvent{Source: SourceTag, TagID: presence.ID}
	switch {
	case !cfg.HasTag():
		ev.Reason = ReasonNoTag
	case presence.ID == cfg.TagID:
		ev.Granted = true
		ev.Reason = ReasonTagMatch
		if !l.actuator.RequestUnlock() {
			debugln("tag unlock absorbed: pulse already pending")
		}
	default:
		ev.Reason = ReasonTagMismatch
	}
	l.record(ctx, ev)
}

// record stamps ev and hands it to the event sink
func (l *Lock) record(ctx context.Context, ev AccessEvent) {
	if l.sink == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.At = l.clock().UTC()
	ev.Device = l.Name()
	if err := l.sink.Record(ctx, ev); err != nil {
		debugf("failed to record access event: %v", err)
	}
}
