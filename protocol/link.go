package protocol

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

// Link runs command/response exchanges with a hand controller. One
// exchange is in flight at a time.
type Link struct {
	transport *Transport

	// Timeout bounds the wait for response bytes
	Timeout time.Duration

	mu sync.Mutex
}

// NewLink creates a Link over port with the default CommandTimeout
func NewLink(port Port) *Link {
	return &Link{
		transport: NewTransport(port),
		Timeout:   CommandTimeout,
	}
}

// SendCommand writes cmd and reads exactly want response bytes. Any other
// byte count is a *FramingError. A zero want succeeds once cmd is written.
func (l *Link) SendCommand(cmd []byte, want int) ([]byte, error) {
	return l.exchange(cmd, want, true)
}

// SendPassthrough sends a passthrough frame addressed to dest and reads
// want+1 bytes; the trailing byte is the hand controller's '#' terminator.
func (l *Link) SendPassthrough(dest Axis, cmdID byte, payload []byte, want int) ([]byte, error) {
	cmd, err := passthroughBytes(dest, cmdID, payload, want)
	if err != nil {
		return nil, err
	}
	return l.exchange(cmd, want+1, true)
}

// SendPassthroughUpTo is SendPassthrough for replies of variable length:
// it returns whatever arrived within the timeout, up to want+1 bytes, and
// fails only when nothing arrived at all.
func (l *Link) SendPassthroughUpTo(dest Axis, cmdID byte, payload []byte, want int) ([]byte, error) {
	cmd, err := passthroughBytes(dest, cmdID, payload, want)
	if err != nil {
		return nil, err
	}
	return l.exchange(cmd, want+1, false)
}

func passthroughBytes(dest Axis, cmdID byte, payload []byte, want int) ([]byte, error) {
	if want+1 > MaxResponseLen || want < 0 {
		return nil, ErrResponseTooLong
	}
	f := Frame{
		Dest:        dest,
		Command:     cmdID,
		Payload:     payload,
		ResponseLen: byte(want),
	}
	return f.Bytes()
}

func (l *Link) exchange(cmd []byte, want int, exact bool) ([]byte, error) {
	if len(cmd) > MaxCommandLen {
		return nil, ErrCommandTooLong
	}
	if want > MaxResponseLen || want < 0 {
		return nil, ErrResponseTooLong
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.transport.Flush(); err != nil {
		return nil, &FramingError{Op: "flush", Want: want, Err: err}
	}

	glog.V(2).Infof("TX % X", cmd)
	n, err := l.transport.WriteAll(cmd)
	if err != nil || n != len(cmd) {
		return nil, &FramingError{Op: "write", Want: len(cmd), Got: n, Err: err}
	}

	resp, err := l.transport.ReadWithTimeout(want, l.Timeout)
	glog.V(2).Infof("RX % X (want %d)", resp, want)
	if err != nil {
		return nil, &FramingError{Op: "read", Want: want, Got: len(resp), Err: err}
	}
	if len(resp) != want && (exact || len(resp) == 0) {
		return nil, &FramingError{Op: "read", Want: want, Got: len(resp)}
	}
	return resp, nil
}
