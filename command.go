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

// Command names on the wire
const (
	CommandUnlock     = "unlock"
	CommandErase      = "erase"
	CommandGetConfig  = "get_config"
	CommandConfigWiFi = "config_wifi"
	CommandSetConfig  = "set_config"
	CommandSetSecret  = "set_llave"
	CommandSetTag     = "set_nfc"
)

// Command is one validated request. The set of variants is closed: every
// implementation lives in this file.
type Command interface {
	// Name returns the wire name of the command
	Name() string
	command()
}

// mutation is a command that rewrites the persisted configuration
type mutation interface {
	Command
	apply(cfg DeviceConfig) DeviceConfig
	message() string
}

// UnlockCommand requests one lock-release pulse
type UnlockCommand struct{}

// EraseCommand is accepted and acknowledged without changing any state
type EraseCommand struct{}

// GetConfigCommand returns the full configuration, secrets included
type GetConfigCommand struct{}

// ConfigWiFiCommand replaces the network credentials
type ConfigWiFiCommand struct {
	SSID     string
	Password string
}

// SetConfigCommand replaces every configuration field, including the
// secret used to authenticate the request itself.
type SetConfigCommand struct {
	Config DeviceConfig
}

// SetSecretCommand replaces the shared secret
type SetSecretCommand struct {
	Secret string
}

// SetTagCommand replaces the authorized tag identifier
type SetTagCommand struct {
	TagID string
}

func (UnlockCommand) Name() string     { return CommandUnlock }
func (EraseCommand) Name() string      { return CommandErase }
func (GetConfigCommand) Name() string  { return CommandGetConfig }
func (ConfigWiFiCommand) Name() string { return CommandConfigWiFi }
func (SetConfigCommand) Name() string  { return CommandSetConfig }
func (SetSecretCommand) Name() string  { return CommandSetSecret }
func (SetTagCommand) Name() string     { return CommandSetTag }

func (UnlockCommand) command()     {}
func (EraseCommand) command()      {}
func (GetConfigCommand) command()  {}
func (ConfigWiFiCommand) command() {}
func (SetConfigCommand) command()  {}
func (SetSecretCommand) command()  {}
func (SetTagCommand) command()     {}

func (c ConfigWiFiCommand) apply(cfg DeviceConfig) DeviceConfig {
	cfg.SSID = c.SSID
	cfg.Password = c.Password
	return cfg
}

func (c SetConfigCommand) apply(DeviceConfig) DeviceConfig {
	return c.Config
}

func (c SetSecretCommand) apply(cfg DeviceConfig) DeviceConfig {
	cfg.Secret = c.Secret
	return cfg
}

func (c SetTagCommand) apply(cfg DeviceConfig) DeviceConfig {
	cfg.TagID = c.TagID
	return cfg
}

func (ConfigWiFiCommand) message() string { return MessageWiFiSaved }
func (SetConfigCommand) message() string  { return MessageConfigSaved }
func (SetSecretCommand) message() string  { return MessageSecretSaved }
func (SetTagCommand) message() string     { return MessageTagSaved }

var commandBuilders = map[string]func(*Envelope) (Command, error){
	CommandUnlock:    func(*Envelope) (Command, error) { return UnlockCommand{}, nil },
	CommandErase:     func(*Envelope) (Command, error) { return EraseCommand{}, nil },
	CommandGetConfig: func(*Envelope) (Command, error) { return GetConfigCommand{}, nil },
	CommandConfigWiFi: func(e *Envelope) (Command, error) {
		data, err := e.dataFields("ssid", "pass")
		if err != nil {
			return nil, err
		}
		return ConfigWiFiCommand{SSID: data["ssid"], Password: data["pass"]}, nil
	},
	CommandSetConfig: func(e *Envelope) (Command, error) {
		data, err := e.dataFields("ssid", "pass", "nfc", "llave")
		if err != nil {
			return nil, err
		}
		if err := requireSecret(data); err != nil {
			return nil, err
		}
		return SetConfigCommand{Config: DeviceConfig{
			SSID:     data["ssid"],
			Password: data["pass"],
			Secret:   data["llave"],
			TagID:    data["nfc"],
		}}, nil
	},
	CommandSetSecret: func(e *Envelope) (Command, error) {
		data, err := e.dataFields("llave")
		if err != nil {
			return nil, err
		}
		if err := requireSecret(data); err != nil {
			return nil, err
		}
		return SetSecretCommand{Secret: data["llave"]}, nil
	},
	CommandSetTag: func(e *Envelope) (Command, error) {
		data, err := e.dataFields("nfc")
		if err != nil {
			return nil, err
		}
		return SetTagCommand{TagID: data["nfc"]}, nil
	},
}

// requireSecret rejects an empty replacement secret. An empty secret would
// authenticate every request that omits llave.
func requireSecret(data map[string]string) error {
	if data["llave"] == "" {
		return malformedf("empty %s.llave", fieldData)
	}
	return nil
}
