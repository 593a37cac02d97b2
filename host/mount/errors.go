package mount

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyConnected is returned by Connect on a connected mount.
	ErrAlreadyConnected = errors.New("already connected")
	// ErrNotConnected is returned by operations on a disconnected mount.
	ErrNotConnected = errors.New("not connected")
	// ErrEchoFailed indicates the hand controller did not echo back.
	ErrEchoFailed = errors.New("echo mismatch")
	// ErrConnectAborted is returned by Connect when Disconnect interrupts it.
	ErrConnectAborted = errors.New("connect aborted")
	// ErrInvalidRate indicates a slew rate above RateMax.
	ErrInvalidRate = errors.New("invalid slew rate")
)

// ConnectionError reports a failure to open or verify the serial link.
type ConnectionError struct {
	Device string
	Err    error
}

// Error implements error.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Device, e.Err)
}

// Unwrap returns the cause.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TargetMismatchError reports a goto that ended away from its target.
type TargetMismatchError struct {
	Want [2]float64
	Got  [2]float64
}

// Error implements error.
func (e *TargetMismatchError) Error() string {
	return fmt.Sprintf("goto ended at (%.6f, %.6f), want (%.6f, %.6f)",
		e.Got[0], e.Got[1], e.Want[0], e.Want[1])
}
