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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lockd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("lockd", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	// An explicit empty file keeps the search paths out of the test
	cfg, err := Load(newFlags(t, "--config", writeConfig(t, "")))
	require.NoError(t, err)

	assert.Equal(t, "LOCK", cfg.Device.NamePrefix)
	assert.Equal(t, "COPACETIC", cfg.Device.DiscoveryToken)
	assert.Zero(t, cfg.Device.HardwareID)
	assert.Equal(t, ":2401", cfg.Network.Listen)
	assert.Equal(t, 512, cfg.Storage.Size)
	assert.Equal(t, 9600, cfg.NFC.Baud)
	assert.Equal(t, 500*time.Millisecond, cfg.NFC.ResponseTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.NFC.SettleDelay)
	assert.Equal(t, 2*time.Second, cfg.Actuator.Hold)
	assert.Equal(t, "high", cfg.Actuator.ActiveLevel)
	assert.Equal(t, 256, cfg.Audit.MemoryCapacity)
	assert.Equal(t, 1, cfg.Audit.MQTT.QoS)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10*time.Millisecond, cfg.Loop.Interval)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
device:
  name_prefix: PUERTA
  hardware_id: 2803269
network:
  listen: "0.0.0.0:4000"
  interface: wlan0
nfc:
  port: /dev/ttyUSB1
  response_timeout: 750ms
  verify_checksum: true
  present_level: low
  blocklist:
    - "2341:0043"
actuator:
  pin: GPIO22
  hold: 3s
audit:
  sqlite_path: /var/lib/nfclock/events.db
  mqtt:
    broker: tcp://broker.local:1883
    qos: 2
log:
  format: json
`)

	cfg, err := Load(newFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "PUERTA", cfg.Device.NamePrefix)
	assert.Equal(t, uint32(2803269), cfg.Device.HardwareID)
	assert.Equal(t, "0.0.0.0:4000", cfg.Network.Listen)
	assert.Equal(t, "wlan0", cfg.Network.Interface)
	assert.Equal(t, "/dev/ttyUSB1", cfg.NFC.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.NFC.ResponseTimeout)
	assert.True(t, cfg.NFC.VerifyChecksum)
	assert.Equal(t, "low", cfg.NFC.PresentLevel)
	assert.Equal(t, []string{"2341:0043"}, cfg.NFC.Blocklist)
	assert.Equal(t, "GPIO22", cfg.Actuator.Pin)
	assert.Equal(t, 3*time.Second, cfg.Actuator.Hold)
	assert.Equal(t, "/var/lib/nfclock/events.db", cfg.Audit.SQLitePath)
	assert.Equal(t, "tcp://broker.local:1883", cfg.Audit.MQTT.Broker)
	assert.Equal(t, 2, cfg.Audit.MQTT.QoS)
	assert.Equal(t, "json", cfg.Log.Format)

	// untouched keys keep their defaults
	assert.Equal(t, 9600, cfg.NFC.Baud)
	assert.Equal(t, "nfclock", cfg.Audit.MQTT.TopicPrefix)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
network:
  listen: ":3000"
nfc:
  port: /dev/ttyUSB1
`)

	cfg, err := Load(newFlags(t,
		"--config", path,
		"--listen", ":5000",
		"--serial-port", "/dev/ttyACM0",
		"--hardware-id", "42",
		"--debug",
	))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Network.Listen)
	assert.Equal(t, "/dev/ttyACM0", cfg.NFC.Port)
	assert.Equal(t, uint32(42), cfg.Device.HardwareID)
	assert.True(t, cfg.Log.Debug)
}

func TestLoad_EnvOverride(t *testing.T) {
	// t.Setenv forbids t.Parallel
	t.Setenv("LOCKD_NFC_PORT", "/dev/ttyS3")
	t.Setenv("LOCKD_ACTUATOR_HOLD", "1500ms")

	cfg, err := Load(newFlags(t, "--config", writeConfig(t, "nfc:\n  port: /dev/ttyUSB1\n")))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyS3", cfg.NFC.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.Actuator.Hold)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		wantErr string
	}{
		{name: "missing explicit file", path: "/nonexistent/lockd.yaml", wantErr: "reading config file"},
		{name: "invalid yaml", content: "nfc: [", wantErr: "reading config file"},
		{name: "bad duration", content: "actuator:\n  hold: soon\n", wantErr: "parsing config"},
		{name: "invalid values", content: "actuator:\n  hold: 0s\n", wantErr: "actuator.hold must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := tt.path
			if path == "" {
				path = writeConfig(t, tt.content)
			}
			_, err := Load(newFlags(t, "--config", path))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(newFlags(t, "--config", writeConfig(t, "")))
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mutate  func(*Config)
		name    string
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty prefix", mutate: func(c *Config) { c.Device.NamePrefix = "" }, wantErr: "device.name_prefix"},
		{name: "empty token", mutate: func(c *Config) { c.Device.DiscoveryToken = "" }, wantErr: "device.discovery_token"},
		{name: "empty listen", mutate: func(c *Config) { c.Network.Listen = "" }, wantErr: "network.listen"},
		{name: "tiny region", mutate: func(c *Config) { c.Storage.Size = 2 }, wantErr: "storage.size"},
		{name: "zero baud", mutate: func(c *Config) { c.NFC.Baud = 0 }, wantErr: "nfc.baud"},
		{name: "zero timeout", mutate: func(c *Config) { c.NFC.ResponseTimeout = 0 }, wantErr: "nfc.response_timeout"},
		{name: "negative settle", mutate: func(c *Config) { c.NFC.SettleDelay = -time.Millisecond }, wantErr: "nfc.settle_delay"},
		{name: "no presence pin", mutate: func(c *Config) { c.NFC.PresencePin = "" }, wantErr: "nfc.presence_pin"},
		{name: "bad present level", mutate: func(c *Config) { c.NFC.PresentLevel = "floating" }, wantErr: "nfc.present_level"},
		{name: "bad active level", mutate: func(c *Config) { c.Actuator.ActiveLevel = "on" }, wantErr: "actuator.active_level"},
		{name: "bad qos", mutate: func(c *Config) { c.Audit.MQTT.QoS = 3 }, wantErr: "audit.mqtt.qos"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "log.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "negative interval", mutate: func(c *Config) { c.Loop.Interval = -time.Second }, wantErr: "loop.interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t)
	cfg.Storage.Path = ""
	cfg.Actuator.Pin = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.path is required")
	assert.Contains(t, err.Error(), "actuator.pin is required")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    gpio.Level
		wantErr bool
	}{
		{in: "high", want: gpio.High},
		{in: "HIGH", want: gpio.High},
		{in: " low ", want: gpio.Low},
		{in: "1", want: gpio.High},
		{in: "0", want: gpio.Low},
		{in: "", wantErr: true},
		{in: "floating", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogConfig_EffectiveLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  LogConfig
		want string
	}{
		{name: "configured level", cfg: LogConfig{Level: "warn"}, want: "warn"},
		{name: "debug output forces debug level", cfg: LogConfig{Level: "info", Debug: true}, want: "debug"},
		{name: "already debug", cfg: LogConfig{Level: "debug", Debug: true}, want: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.EffectiveLevel())
		})
	}
}

func TestLoad_DebugFlagRaisesLevel(t *testing.T) {
	t.Parallel()

	cfg, err := Load(newFlags(t, "--config", writeConfig(t, "log:\n  level: error\n"), "--debug"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "debug", cfg.Log.EffectiveLevel())
}
