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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-nfclock"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTT defaults
const (
	DefaultTopicPrefix    = "nfclock"
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 5 * time.Second
	defaultKeepAlive      = 60 * time.Second
	maxQoS                = 2
)

// MQTT errors
var (
	ErrPublishFailed     = errors.New("mqtt publish failed")
	ErrConnectionFailed  = errors.New("mqtt connection failed")
	ErrInvalidQoS        = errors.New("invalid QoS level")
	ErrBrokerNotProvided = errors.New("mqtt broker not configured")
)

// Publisher is the part of a paho client the sink uses
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// Topics builds the lock's MQTT topics
type Topics struct {
	Prefix string
}

// Events returns the topic access events for device are published on
//
// Example: nfclock/events/LOCK_2803269
func (t Topics) Events(device string) string {
	return fmt.Sprintf("%s/events/%s", t.prefix(), device)
}

// Status returns the retained online/offline status topic for device
//
// Example: nfclock/status/LOCK_2803269
func (t Topics) Status(device string) string {
	return fmt.Sprintf("%s/status/%s", t.prefix(), device)
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// MQTTSink publishes every event as JSON on the device's events topic
type MQTTSink struct {
	client  Publisher
	topics  Topics
	timeout time.Duration
	qos     byte
}

// NewMQTTSink creates a sink publishing through client
func NewMQTTSink(client Publisher, topics Topics, qos byte) (*MQTTSink, error) {
	if qos > maxQoS {
		return nil, ErrInvalidQoS
	}
	return &MQTTSink{
		client:  client,
		topics:  topics,
		qos:     qos,
		timeout: defaultPublishTimeout,
	}, nil
}

// Record publishes ev and waits for the broker acknowledgement
func (s *MQTTSink) Record(ctx context.Context, ev nfclock.AccessEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%w: encode event: %w", ErrPublishFailed, err)
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	token := s.client.Publish(s.topics.Events(ev.Device), s.qos, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// BrokerConfig holds MQTT connection settings
type BrokerConfig struct {
	URL      string
	ClientID string
	Username string
	Password string
	Device   string
	Topics   Topics
}

// Connect dials the broker with auto-reconnect and a retained
// last-will "offline" status for the device
func Connect(cfg BrokerConfig) (pahomqtt.Client, error) {
	if cfg.URL == "" {
		return nil, ErrBrokerNotProvided
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.URL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	statusTopic := cfg.Topics.Status(cfg.Device)
	opts.SetWill(statusTopic, statusPayload("offline"), 1, true)
	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		c.Publish(statusTopic, 1, true, statusPayload("online"))
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return client, nil
}

func statusPayload(status string) string {
	return fmt.Sprintf(`{"status":%q,"timestamp":%q}`, status, time.Now().UTC().Format(time.RFC3339))
}
