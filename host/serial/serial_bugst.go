package serial

import (
	"fmt"
	"time"

	bugst "go.bug.st/serial"
)

// BugstPort wraps the go.bug.st/serial implementation, which allows the
// read timeout to be changed per exchange.
type BugstPort struct {
	port bugst.Port
	cfg  *Config
}

func openBugst(cfg *Config) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}

	port, err := bugst.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set read timeout on %s: %w", cfg.Device, err)
		}
	}

	return &BugstPort{
		port: port,
		cfg:  cfg,
	}, nil
}

// Read reads data from the serial port; it returns 0, nil on timeout
func (p *BugstPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port
func (p *BugstPort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *BugstPort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards received but unread data
func (p *BugstPort) Flush() error {
	return p.port.ResetInputBuffer()
}

// SetReadTimeout implements TimeoutSetter
func (p *BugstPort) SetReadTimeout(d time.Duration) error {
	return p.port.SetReadTimeout(d)
}
