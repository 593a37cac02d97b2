package serial

import (
	"fmt"
	"io"
	"time"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (github.com/tarm/serial or go.bug.st/serial)
// - Simulated mount (host/sim)
// - Scripted ports (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush discards any received but unread data
	Flush() error
}

// TimeoutSetter is implemented by ports whose per-read timeout can be
// changed after the port is opened.
type TimeoutSetter interface {
	SetReadTimeout(d time.Duration) error
}

// Driver selects the native serial backend
type Driver string

const (
	DriverTarm  Driver = "tarm"
	DriverBugst Driver = "bugst"
)

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Driver selects the backend used by Open
	Driver Driver

	// Baud rate (the hand controller only speaks 9600)
	Baud int

	// Per-read timeout (0 = blocking)
	ReadTimeout time.Duration
}

// DefaultConfig returns the 9600-8-N-1 configuration of a NexStar hand controller
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Driver:      DriverTarm,
		Baud:        9600,
		ReadTimeout: 500 * time.Millisecond, // VTIME=5
	}
}

// Open opens a native serial port using the configured driver
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	switch cfg.Driver {
	case DriverTarm, "":
		return openTarm(cfg)
	case DriverBugst:
		return openBugst(cfg)
	default:
		return nil, fmt.Errorf("unknown serial driver %q", cfg.Driver)
	}
}
