// Package mount drives a NexStar hand controller: connection checks,
// identification, gotos, manual motion, tracking and pulse guiding.
package mount

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"nexstar/host/serial"
	"nexstar/protocol"
)

// State is the connection state of a Mount
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options tune a Mount
type Options struct {
	// CommandTimeout bounds the wait for each response
	CommandTimeout time.Duration

	// PollInterval is the pause between slew status polls during a goto
	PollInterval time.Duration

	// Tolerance is the largest distance, in degrees, between a goto target
	// and the position read back afterwards. Zero, the default, demands an
	// exact match.
	Tolerance float64

	// EchoAttempts and EchoBackoff control the connection check
	EchoAttempts int
	EchoBackoff  time.Duration
}

// ArcSecond is one second of arc in degrees
const ArcSecond = 1.0 / 3600

// DefaultOptions returns the standard timings
func DefaultOptions() Options {
	return Options{
		CommandTimeout: protocol.CommandTimeout,
		PollInterval:   time.Millisecond,
		EchoAttempts:   2,
		EchoBackoff:    50 * time.Millisecond,
	}
}

// Mount is a session with one hand controller. It owns the serial port
// from Connect until Disconnect.
type Mount struct {
	opts Options

	mu      sync.Mutex
	state   State
	attempt uint64 // bumped by each Connect
	device  string
	port    serial.Port
	link    *protocol.Link
}

// NewMount creates a disconnected Mount
func NewMount(opts Options) *Mount {
	return &Mount{opts: opts, state: Disconnected}
}

// Connect opens device at 9600-8-N-1 and checks that the hand controller
// answers
func (m *Mount) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects with a custom serial config
func (m *Mount) ConnectWithConfig(cfg *serial.Config) error {
	attempt, err := m.begin(cfg.Device)
	if err != nil {
		return err
	}

	port, err := serial.Open(cfg)
	if err != nil {
		m.reset(attempt)
		return &ConnectionError{Device: cfg.Device, Err: err}
	}

	return m.attach(attempt, cfg.Device, port)
}

// ConnectPort runs the connection check over an already open port and
// takes ownership of it
func (m *Mount) ConnectPort(name string, port serial.Port) error {
	attempt, err := m.begin(name)
	if err != nil {
		return err
	}
	return m.attach(attempt, name, port)
}

func (m *Mount) begin(device string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Disconnected {
		return 0, &ConnectionError{Device: device, Err: ErrAlreadyConnected}
	}
	m.attempt++
	m.state = Connecting
	m.device = device
	return m.attempt, nil
}

// connecting reports whether attempt is still the connect in progress.
// Callers hold m.mu.
func (m *Mount) connecting(attempt uint64) bool {
	return m.state == Connecting && m.attempt == attempt
}

func (m *Mount) reset(attempt uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connecting(attempt) {
		return
	}
	m.state = Disconnected
	m.port = nil
	m.link = nil
}

func (m *Mount) attach(attempt uint64, device string, port serial.Port) error {
	link := protocol.NewLink(port)
	if m.opts.CommandTimeout > 0 {
		link.Timeout = m.opts.CommandTimeout
	}

	m.mu.Lock()
	if !m.connecting(attempt) {
		m.mu.Unlock()
		port.Close()
		return &ConnectionError{Device: device, Err: ErrConnectAborted}
	}
	m.port = port
	m.link = link
	m.mu.Unlock()

	glog.Infof("connecting to %s", device)
	err := m.checkConnection()

	m.mu.Lock()
	if !m.connecting(attempt) {
		// Disconnect already closed the port
		m.mu.Unlock()
		return &ConnectionError{Device: device, Err: ErrConnectAborted}
	}
	if err != nil {
		m.state = Disconnected
		m.port = nil
		m.link = nil
		m.mu.Unlock()
		port.Close()
		return &ConnectionError{Device: device, Err: err}
	}
	m.state = Connected
	m.mu.Unlock()
	glog.Infof("connected to %s", device)
	return nil
}

// checkConnection echoes up to EchoAttempts times
func (m *Mount) checkConnection() error {
	attempts := m.opts.EchoAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = m.Echo('x'); err == nil {
			return nil
		}
		glog.Warningf("echo attempt %d/%d failed: %v", i+1, attempts, err)
		if i+1 < attempts {
			time.Sleep(m.opts.EchoBackoff)
		}
	}
	return err
}

// Disconnect closes the port. It is safe to call on a disconnected mount.
// Closing interrupts a goto in progress on another goroutine. During a
// connect it aborts the connection check, and Connect fails with
// ErrConnectAborted.
func (m *Mount) Disconnect() error {
	m.mu.Lock()
	if m.state == Disconnected {
		m.mu.Unlock()
		return nil
	}
	port, device := m.port, m.device
	m.state = Disconnected
	m.port = nil
	m.link = nil
	m.mu.Unlock()

	glog.Infof("disconnected from %s", device)
	if port == nil {
		return nil
	}
	return port.Close()
}

// State returns the connection state
func (m *Mount) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsConnected returns whether the mount is connected
func (m *Mount) IsConnected() bool {
	return m.State() == Connected
}

// Options returns the options the mount was created with
func (m *Mount) Options() Options {
	return m.opts
}

func (m *Mount) currentLink() (*protocol.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Disconnected || m.link == nil {
		return nil, ErrNotConnected
	}
	return m.link, nil
}

// send issues a direct command and returns exactly want response bytes
func (m *Mount) send(cmd []byte, want int) ([]byte, error) {
	link, err := m.currentLink()
	if err != nil {
		return nil, err
	}
	return link.SendCommand(cmd, want)
}

// sendPassthrough issues a motor controller command
func (m *Mount) sendPassthrough(axis protocol.Axis, cmdID byte, payload []byte, want int) ([]byte, error) {
	link, err := m.currentLink()
	if err != nil {
		return nil, err
	}
	return link.SendPassthrough(axis, cmdID, payload, want)
}

// command builds a direct command from a mnemonic and its arguments
func command(op byte, args ...byte) ([]byte, error) {
	out := protocol.NewScratchOutput()
	if err := out.Output(op); err != nil {
		return nil, err
	}
	if err := out.Output(args...); err != nil {
		return nil, err
	}
	return out.Result(), nil
}

// Echo sends c and expects it back followed by '#'
func (m *Mount) Echo(c byte) error {
	resp, err := m.send([]byte{'K', c}, 2)
	if err != nil {
		return err
	}
	if resp[0] != c || resp[1] != '#' {
		return fmt.Errorf("%w: sent %q, got %q", ErrEchoFailed, c, resp)
	}
	return nil
}
