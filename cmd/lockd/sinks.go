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
	"fmt"

	"github.com/ZaparooProject/go-nfclock"
	"github.com/ZaparooProject/go-nfclock/audit"
	"github.com/ZaparooProject/go-nfclock/internal/config"
	"github.com/ZaparooProject/go-nfclock/internal/logger"
)

const mqttDisconnectQuiesceMs = 250

// openSinks builds the event sink chain: a bounded memory ring, the log,
// and the optional SQLite and MQTT sinks
func openSinks(cfg *config.Config, device string, log *logger.Logger) (nfclock.EventSink, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	sinks := []nfclock.EventSink{
		audit.NewMemorySink(cfg.Audit.MemoryCapacity),
		nfclock.EventSinkFunc(func(_ context.Context, ev nfclock.AccessEvent) error {
			log.Infow("access",
				"source", ev.Source,
				"granted", ev.Granted,
				"reason", ev.Reason,
				"command", ev.Command,
				"tag", ev.TagID)
			return nil
		}),
	}

	if cfg.Audit.SQLitePath != "" {
		db, err := audit.OpenSQLite(cfg.Audit.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		sinks = append(sinks, audit.NewSQLiteSink(db))
	}

	if cfg.Audit.MQTT.Broker != "" {
		clientID := cfg.Audit.MQTT.ClientID
		if clientID == "" {
			clientID = device
		}
		topics := audit.Topics{Prefix: cfg.Audit.MQTT.TopicPrefix}
		client, err := audit.Connect(audit.BrokerConfig{
			URL:      cfg.Audit.MQTT.Broker,
			ClientID: clientID,
			Username: cfg.Audit.MQTT.Username,
			Password: cfg.Audit.MQTT.Password,
			Device:   device,
			Topics:   topics,
		})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { client.Disconnect(mqttDisconnectQuiesceMs) })

		sink, err := audit.NewMQTTSink(client, topics, byte(cfg.Audit.MQTT.QoS))
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("mqtt sink: %w", err)
		}
		sinks = append(sinks, sink)
	}

	return audit.Multi(sinks...), closeAll, nil
}
