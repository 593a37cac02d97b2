package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLong indicates a passthrough payload over MaxPayloadLen bytes.
	ErrPayloadTooLong = errors.New("passthrough payload too long")
	// ErrCommandTooLong indicates a command that does not fit MaxCommandLen.
	ErrCommandTooLong = errors.New("command too long")
	// ErrResponseTooLong indicates an expected response over MaxResponseLen.
	ErrResponseTooLong = errors.New("expected response too long")
	// ErrInvalidLength indicates a negative read length.
	ErrInvalidLength = errors.New("invalid read length")
)

// FramingError reports a byte count mismatch on the wire. It covers both
// truncation caused by a read timeout and malformed frames from the device.
type FramingError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

// Error implements error.
func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: got %d of %d bytes: %v", e.Op, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("%s: got %d of %d bytes", e.Op, e.Got, e.Want)
}

// Unwrap returns the underlying I/O error, if any.
func (e *FramingError) Unwrap() error {
	return e.Err
}

// UnsupportedResponseError reports a response whose length the caller
// cannot interpret.
type UnsupportedResponseError struct {
	Op  string
	Len int
}

// Error implements error.
func (e *UnsupportedResponseError) Error() string {
	return fmt.Sprintf("%s: unsupported response length %d", e.Op, e.Len)
}

// IsFramingError reports whether err is or wraps a *FramingError.
func IsFramingError(err error) bool {
	var fe *FramingError
	return errors.As(err, &fe)
}
