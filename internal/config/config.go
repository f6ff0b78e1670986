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

// Package config loads the lock daemon configuration.
//
// Values are resolved in this order, later sources winning:
//  1. Defaults
//  2. lockd.yaml (searched in the working directory and /etc/nfclock, or
//     the file named by --config)
//  3. LOCKD_ environment variables, e.g. LOCKD_NFC_PORT
//  4. Command line flags
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ZaparooProject/go-nfclock/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"periph.io/x/conn/v3/gpio"
)

// EnvPrefix is prepended to environment overrides
const EnvPrefix = "LOCKD"

// Config is the daemon configuration
type Config struct {
	Device    DeviceConfig    `mapstructure:"device"`
	Network   NetworkConfig   `mapstructure:"network"`
	Storage   StorageConfig   `mapstructure:"storage"`
	NFC       NFCConfig       `mapstructure:"nfc"`
	Actuator  ActuatorConfig  `mapstructure:"actuator"`
	Indicator IndicatorConfig `mapstructure:"indicator"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Log       LogConfig       `mapstructure:"log"`
	Loop      LoopConfig      `mapstructure:"loop"`
}

// DeviceConfig identifies the device
type DeviceConfig struct {
	// NamePrefix forms the advertised name "<prefix>_<id>"
	NamePrefix string `mapstructure:"name_prefix"`
	// DiscoveryToken is the datagram substring answered with the name
	DiscoveryToken string `mapstructure:"discovery_token"`
	// HardwareID overrides the derived identifier when non-zero
	HardwareID uint32 `mapstructure:"hardware_id"`
}

// NetworkConfig holds the command socket settings
type NetworkConfig struct {
	// Listen is the UDP address commands arrive on
	Listen string `mapstructure:"listen"`
	// Interface is sampled for link status. Empty means always linked.
	Interface string `mapstructure:"interface"`
}

// StorageConfig locates the emulated configuration region
type StorageConfig struct {
	Path string `mapstructure:"path"`
	Size int    `mapstructure:"size"`
}

// NFCConfig holds reader link and presence sense settings
type NFCConfig struct {
	// Port is the serial device. Empty means auto-detect.
	Port            string        `mapstructure:"port"`
	PresencePin     string        `mapstructure:"presence_pin"`
	PresentLevel    string        `mapstructure:"present_level"`
	Blocklist       []string      `mapstructure:"blocklist"`
	IgnorePaths     []string      `mapstructure:"ignore_paths"`
	Baud            int           `mapstructure:"baud"`
	ResponseTimeout time.Duration `mapstructure:"response_timeout"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	VerifyChecksum  bool          `mapstructure:"verify_checksum"`
}

// ActuatorConfig drives the lock release output
type ActuatorConfig struct {
	Pin         string        `mapstructure:"pin"`
	ActiveLevel string        `mapstructure:"active_level"`
	Hold        time.Duration `mapstructure:"hold"`
}

// IndicatorConfig drives the status LED. An empty pin disables it.
type IndicatorConfig struct {
	Pin     string `mapstructure:"pin"`
	OnLevel string `mapstructure:"on_level"`
}

// AuditConfig selects where access events are recorded
type AuditConfig struct {
	// SQLitePath enables the event database when set
	SQLitePath string     `mapstructure:"sqlite_path"`
	MQTT       MQTTConfig `mapstructure:"mqtt"`
	// MemoryCapacity bounds the in-memory event ring
	MemoryCapacity int `mapstructure:"memory_capacity"`
}

// MQTTConfig enables event publishing when Broker is set
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         int    `mapstructure:"qos"`
}

// LogConfig configures daemon logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Debug turns on library debug output
	Debug bool `mapstructure:"debug"`
}

// EffectiveLevel is the level the daemon logger is built at. Library
// debug output is logged at debug level, so Debug forces it.
func (c LogConfig) EffectiveLevel() string {
	if c.Debug {
		return logger.DebugLevel
	}
	return c.Level
}

// LoopConfig paces the control loop
type LoopConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

var defaults = map[string]any{
	"device.name_prefix":      "LOCK",
	"device.discovery_token":  "COPACETIC",
	"device.hardware_id":      0,
	"network.listen":          ":2401",
	"network.interface":       "",
	"storage.path":            "/var/lib/nfclock/config.bin",
	"storage.size":            512,
	"nfc.port":                "",
	"nfc.baud":                9600,
	"nfc.response_timeout":    500 * time.Millisecond,
	"nfc.settle_delay":        50 * time.Millisecond,
	"nfc.verify_checksum":     false,
	"nfc.presence_pin":        "GPIO17",
	"nfc.present_level":       "high",
	"nfc.blocklist":           []string{},
	"nfc.ignore_paths":        []string{},
	"actuator.pin":            "GPIO27",
	"actuator.hold":           2 * time.Second,
	"actuator.active_level":   "high",
	"indicator.pin":           "",
	"indicator.on_level":      "high",
	"audit.sqlite_path":       "",
	"audit.memory_capacity":   256,
	"audit.mqtt.broker":       "",
	"audit.mqtt.client_id":    "",
	"audit.mqtt.username":     "",
	"audit.mqtt.password":     "",
	"audit.mqtt.topic_prefix": "nfclock",
	"audit.mqtt.qos":          1,
	"log.level":               "info",
	"log.format":              "console",
	"log.debug":               false,
	"loop.interval":           10 * time.Millisecond,
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"listen":      "network.listen",
	"interface":   "network.interface",
	"storage":     "storage.path",
	"serial-port": "nfc.port",
	"baud":        "nfc.baud",
	"hardware-id": "device.hardware_id",
	"log-level":   "log.level",
	"debug":       "log.debug",
}

// RegisterFlags defines the daemon flags on fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to lockd.yaml")
	fs.String("listen", defaults["network.listen"].(string), "UDP address to receive commands on")
	fs.String("interface", "", "network interface sampled for link status")
	fs.String("storage", defaults["storage.path"].(string), "file backing the configuration region")
	fs.String("serial-port", "", "NFC reader serial port (auto-detect when empty)")
	fs.Int("baud", defaults["nfc.baud"].(int), "NFC reader baud rate")
	fs.Uint32("hardware-id", 0, "hardware identifier (derived when zero)")
	fs.String("log-level", defaults["log.level"].(string), "log level: debug, info, warn, error")
	fs.Bool("debug", false, "enable library debug output")
}

// Load resolves the configuration. fs may be nil; when it is not,
// flags registered with RegisterFlags override every other source.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("lockd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/nfclock")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %q: %w", name, err)
				}
			}
		}
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var errs []string

	if c.Device.NamePrefix == "" {
		errs = append(errs, "device.name_prefix is required")
	}
	if c.Device.DiscoveryToken == "" {
		errs = append(errs, "device.discovery_token is required")
	}
	if c.Network.Listen == "" {
		errs = append(errs, "network.listen is required")
	}
	if c.Storage.Path == "" {
		errs = append(errs, "storage.path is required")
	}
	// room for at least "{}" and the terminator
	if c.Storage.Size < 3 {
		errs = append(errs, "storage.size must be at least 3 bytes")
	}
	if c.NFC.Baud <= 0 {
		errs = append(errs, "nfc.baud must be positive")
	}
	if c.NFC.ResponseTimeout <= 0 {
		errs = append(errs, "nfc.response_timeout must be positive")
	}
	if c.NFC.SettleDelay < 0 {
		errs = append(errs, "nfc.settle_delay must not be negative")
	}
	if c.NFC.PresencePin == "" {
		errs = append(errs, "nfc.presence_pin is required")
	}
	if c.Actuator.Pin == "" {
		errs = append(errs, "actuator.pin is required")
	}
	if c.Actuator.Hold <= 0 {
		errs = append(errs, "actuator.hold must be positive")
	}
	for key, level := range map[string]string{
		"nfc.present_level":     c.NFC.PresentLevel,
		"actuator.active_level": c.Actuator.ActiveLevel,
		"indicator.on_level":    c.Indicator.OnLevel,
	} {
		if _, err := ParseLevel(level); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if c.Audit.MQTT.QoS < 0 || c.Audit.MQTT.QoS > 2 {
		errs = append(errs, "audit.mqtt.qos must be 0, 1, or 2")
	}
	if !logger.ValidLevel(c.Log.Level) {
		errs = append(errs, "log.level must be debug, info, warn, or error")
	}
	if !logger.ValidFormat(c.Log.Format) {
		errs = append(errs, "log.format must be console or json")
	}
	if c.Loop.Interval < 0 {
		errs = append(errs, "loop.interval must not be negative")
	}

	if len(errs) > 0 {
		// map iteration above is unordered
		slices.Sort(errs)
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ParseLevel converts "high" or "low" to a GPIO level
func ParseLevel(s string) (gpio.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "1":
		return gpio.High, nil
	case "low", "0":
		return gpio.Low, nil
	default:
		return gpio.Low, fmt.Errorf("unknown level %q, want high or low", s)
	}
}
