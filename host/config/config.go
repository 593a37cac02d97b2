// Package config loads the nexstar-host configuration file
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"nexstar/host/mount"
	"nexstar/host/serial"
	"nexstar/protocol"
)

// Config is the host tool configuration
type Config struct {
	Device         string        `yaml:"device"`
	Driver         string        `yaml:"driver"`
	Baud           int           `yaml:"baud"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	Simulate       bool          `yaml:"simulate"`

	Goto GotoConfig  `yaml:"goto"`
	Site *SiteConfig `yaml:"site,omitempty"`
}

// GotoConfig tunes goto completion. Tolerance is in arcseconds; leaving it
// at zero demands an exact match. A zero Timeout waits until the mount
// stops.
type GotoConfig struct {
	Tolerance    float64       `yaml:"tolerance"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Timeout      time.Duration `yaml:"timeout"`
}

// SiteConfig is the observing location sent on connect
type SiteConfig struct {
	Longitude float64 `yaml:"longitude"`
	Latitude  float64 `yaml:"latitude"`
}

// LoadConfig parses YAML configuration data and applies defaults
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(data)
}

// Default returns the configuration for device with all defaults applied
func Default(device string) *Config {
	cfg := &Config{Device: device}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.Device == "" {
		cfg.Device = "/dev/ttyUSB0"
	}
	if cfg.Driver == "" {
		cfg.Driver = string(serial.DriverTarm)
	}
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 500 * time.Millisecond
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = protocol.CommandTimeout
	}
	if cfg.Goto.PollInterval == 0 {
		cfg.Goto.PollInterval = time.Millisecond
	}
}

// Validate checks values that have no sensible default
func (c *Config) Validate() error {
	switch serial.Driver(c.Driver) {
	case serial.DriverTarm, serial.DriverBugst:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.Goto.Tolerance < 0 {
		return fmt.Errorf("goto tolerance %v is negative", c.Goto.Tolerance)
	}
	if c.Site != nil && (c.Site.Latitude < -90 || c.Site.Latitude > 90) {
		return fmt.Errorf("latitude %v out of range", c.Site.Latitude)
	}
	return nil
}

// Serial returns the serial port configuration
func (c *Config) Serial() *serial.Config {
	return &serial.Config{
		Device:      c.Device,
		Driver:      serial.Driver(c.Driver),
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
	}
}

// MountOptions returns the session options
func (c *Config) MountOptions() mount.Options {
	opts := mount.DefaultOptions()
	opts.CommandTimeout = c.CommandTimeout
	opts.PollInterval = c.Goto.PollInterval
	opts.Tolerance = c.Goto.Tolerance * mount.ArcSecond
	return opts
}
