package mount

import (
	"fmt"
	"time"

	"nexstar/angle"
)

func signByte(v angle.DMS) byte {
	if v.Negative {
		return 1
	}
	return 0
}

// SetLocation stores the observing site. Longitude is east-positive and
// may be given as 0..360; latitude is north-positive.
func (m *Mount) SetLocation(longitude, latitude float64) error {
	lat := angle.ToDMS(latitude)
	lon := angle.ToDMS(angle.Wrap180(longitude))

	cmd, err := command('W',
		byte(lat.Deg), byte(lat.Min), byte(lat.Sec), signByte(lat),
		byte(lon.Deg), byte(lon.Min), byte(lon.Sec), signByte(lon))
	if err != nil {
		return err
	}
	if _, err := m.send(cmd, 1); err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	return nil
}

// SetTime stores the local time of t, its UTC offset in whole hours and
// the daylight saving flag
func (m *Mount) SetTime(t time.Time) error {
	_, offset := t.Zone()
	dst := byte(0)
	if t.IsDST() {
		dst = 1
		offset -= 3600
	}
	zone := int8(offset / 3600)

	cmd, err := command('H',
		byte(t.Hour()), byte(t.Minute()), byte(t.Second()),
		byte(t.Month()), byte(t.Day()), byte(t.Year()-2000),
		byte(zone), dst)
	if err != nil {
		return err
	}
	if _, err := m.send(cmd, 1); err != nil {
		return fmt.Errorf("set time: %w", err)
	}
	return nil
}

// IsAligned reports whether the hand controller has completed alignment
func (m *Mount) IsAligned() (bool, error) {
	resp, err := m.send([]byte{'J'}, 2)
	if err != nil {
		return false, fmt.Errorf("is aligned: %w", err)
	}
	return resp[0] == 1, nil
}

// Hibernate puts the hand controller into hibernation
func (m *Mount) Hibernate() error {
	if _, err := m.send([]byte("x#"), 1); err != nil {
		return fmt.Errorf("hibernate: %w", err)
	}
	return nil
}

// Wakeup wakes a hibernating hand controller
func (m *Mount) Wakeup() error {
	if _, err := m.send([]byte("y#"), 1); err != nil {
		return fmt.Errorf("wake up: %w", err)
	}
	return nil
}
