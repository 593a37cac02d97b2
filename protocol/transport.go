package protocol

import (
	"errors"
	"io"
	"os"
	"time"
)

// Port is the byte channel a Transport drives. host/serial.Port satisfies it.
type Port interface {
	io.ReadWriter

	// Flush discards received but unread data
	Flush() error
}

type readTimeoutSetter interface {
	SetReadTimeout(d time.Duration) error
}

// idlePoll is the pause between empty reads while waiting for data
const idlePoll = time.Millisecond

// Transport provides write-all and bounded read primitives over a Port
type Transport struct {
	port Port
}

// NewTransport creates a Transport over port
func NewTransport(port Port) *Transport {
	return &Transport{port: port}
}

// Flush discards stale input so the next response starts on a frame boundary
func (t *Transport) Flush() error {
	return t.port.Flush()
}

// WriteAll writes b until it is fully sent or a write fails. It returns the
// number of bytes written; partial writes are not retried.
func (t *Transport) WriteAll(b []byte) (int, error) {
	written := 0
	for written < len(b) {
		n, err := t.port.Write(b[written:])
		if n > 0 {
			written += n
		}
		if err != nil {
			return written, err
		}
		if n <= 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// ReadWithTimeout reads up to max bytes. Each attempt waits at most timeout
// for data; when no data arrives within that window the read ends and the
// bytes received so far are returned. It never blocks past the window.
func (t *Transport) ReadWithTimeout(max int, timeout time.Duration) ([]byte, error) {
	if max < 0 {
		return nil, ErrInvalidLength
	}
	buf := make([]byte, max)
	if max == 0 {
		return buf, nil
	}

	if s, ok := t.port.(readTimeoutSetter); ok {
		if err := s.SetReadTimeout(timeout); err != nil {
			return buf[:0], err
		}
	}

	got := 0
	deadline := time.Now().Add(timeout)
	for got < max {
		n, err := t.port.Read(buf[got:])
		if n > 0 {
			got += n
			deadline = time.Now().Add(timeout)
		}
		if err != nil && !isReadTimeout(err) {
			return buf[:got], err
		}
		if n <= 0 {
			if !time.Now().Before(deadline) {
				break
			}
			time.Sleep(idlePoll)
		}
	}
	return buf[:got], nil
}

// isReadTimeout reports errors that only mean "no data this attempt".
// os.File reads return io.EOF when VTIME expires with nothing received.
func isReadTimeout(err error) bool {
	return errors.Is(err, io.EOF) || os.IsTimeout(err)
}
