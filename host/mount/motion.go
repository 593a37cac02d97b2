package mount

import (
	"fmt"

	"nexstar/protocol"
)

// Move drives the mount in dir at rate until Stop is called
func (m *Mount) Move(dir Direction, rate SlewRate) error {
	if rate > RateMax {
		return fmt.Errorf("%w: %d", ErrInvalidRate, rate)
	}
	cmdID := byte(protocol.MCMoveNegative)
	if dir.Positive() {
		cmdID = protocol.MCMovePositive
	}
	if _, err := m.sendPassthrough(dir.Axis(), cmdID, []byte{byte(rate)}, 0); err != nil {
		return fmt.Errorf("move %s: %w", dir, err)
	}
	return nil
}

// Stop halts manual motion on the axis that moves in dir
func (m *Mount) Stop(dir Direction) error {
	if _, err := m.sendPassthrough(dir.Axis(), protocol.MCMovePositive, []byte{0}, 0); err != nil {
		return fmt.Errorf("stop %s: %w", dir, err)
	}
	return nil
}

// Abort cancels a goto in progress
func (m *Mount) Abort() error {
	if _, err := m.send([]byte{'M'}, 1); err != nil {
		return fmt.Errorf("cancel goto: %w", err)
	}
	return nil
}

// TrackMode reads the tracking mode
func (m *Mount) TrackMode() (TrackMode, error) {
	resp, err := m.send([]byte{'t'}, 2)
	if err != nil {
		return 0, fmt.Errorf("get tracking mode: %w", err)
	}
	return TrackMode(resp[0]), nil
}

// SetTrackMode sets the tracking mode
func (m *Mount) SetTrackMode(mode TrackMode) error {
	cmd, err := command('T', byte(mode))
	if err != nil {
		return err
	}
	if _, err := m.send(cmd, 1); err != nil {
		return fmt.Errorf("set tracking mode %s: %w", mode, err)
	}
	return nil
}

// SendPulse starts a guiding pulse in dir. rate is the pulse velocity in
// percent of sidereal (-100..100) and durationCsec its length in 1/100 s,
// at most 2.55 s. The rate sign is flipped for South and East.
func (m *Mount) SendPulse(dir Direction, rate int8, durationCsec uint8) error {
	if !dir.Positive() {
		rate = -rate
	}
	payload := []byte{byte(rate), durationCsec}
	if _, err := m.sendPassthrough(dir.Axis(), protocol.MCPulseGuide, payload, 0); err != nil {
		return fmt.Errorf("pulse %s: %w", dir, err)
	}
	return nil
}

// PulseStatus reports whether a guiding pulse is still running on the
// motor responsible for dir
func (m *Mount) PulseStatus(dir Direction) (bool, error) {
	resp, err := m.sendPassthrough(dir.Axis(), protocol.MCPulseStatus, []byte{0, 0}, 1)
	if err != nil {
		return false, fmt.Errorf("pulse status %s: %w", dir, err)
	}
	return resp[0] != 0, nil
}
