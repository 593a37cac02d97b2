package mount

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"

	"nexstar/angle"
)

// coordinateCommand builds "<op>XXXXXXXX,YYYYYYYY" from two angles in degrees
func coordinateCommand(op byte, a, b float64) ([]byte, error) {
	return command(op, []byte(angle.FormatPair(angle.ToRaw(a), angle.ToRaw(b)))...)
}

func (m *Mount) sendCoordinates(name string, op byte, a, b float64) error {
	cmd, err := coordinateCommand(op, a, b)
	if err != nil {
		return err
	}
	if _, err := m.send(cmd, 1); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// SlewEquatorial starts a slew to ra (hours) and dec (degrees). It returns
// once the hand controller has accepted the target.
func (m *Mount) SlewEquatorial(raHours, dec float64) error {
	return m.sendCoordinates("slew ra/dec", 'r', raHours*15, dec)
}

// SlewHorizontal starts a slew to az and alt (degrees)
func (m *Mount) SlewHorizontal(az, alt float64) error {
	return m.sendCoordinates("slew az/alt", 'b', az, alt)
}

// Sync tells the mount it is pointing at ra (hours) and dec (degrees)
func (m *Mount) Sync(raHours, dec float64) error {
	return m.sendCoordinates("sync", 's', raHours*15, dec)
}

// IsSlewing reports whether a goto is in progress
func (m *Mount) IsSlewing() (bool, error) {
	resp, err := m.send([]byte{'L'}, 2)
	if err != nil {
		return false, fmt.Errorf("goto in progress: %w", err)
	}
	return resp[0] != '0', nil
}

func (m *Mount) readCoordinates(name string, op byte) (float64, float64, error) {
	resp, err := m.send([]byte{op}, angle.PairLen)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, err)
	}
	a, b, err := angle.ParsePair(resp)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, err)
	}
	return angle.FromRaw(a), angle.FromRaw(b), nil
}

// Equatorial reads the current ra (hours) and dec (degrees)
func (m *Mount) Equatorial() (raHours, dec float64, err error) {
	ra, d, err := m.readCoordinates("get ra/dec", 'e')
	if err != nil {
		return 0, 0, err
	}
	return ra / 15, angle.Fold(d), nil
}

// Horizontal reads the current az and alt (degrees, 0..360)
func (m *Mount) Horizontal() (az, alt float64, err error) {
	return m.readCoordinates("get az/alt", 'z')
}

// GotoEquatorial slews to ra/dec and waits until the mount stops. The goto
// succeeds when the position read back is within Options.Tolerance of the
// target. ctx cancels the wait, not the slew; call Abort to stop motion.
func (m *Mount) GotoEquatorial(ctx context.Context, raHours, dec float64) error {
	if err := m.SlewEquatorial(raHours, dec); err != nil {
		return err
	}
	if err := m.WaitSlew(ctx); err != nil {
		return err
	}

	ra, d, err := m.Equatorial()
	if err != nil {
		return err
	}
	if !m.within(ra*15, raHours*15) || !m.within(d, angle.Fold(dec)) {
		return &TargetMismatchError{Want: [2]float64{raHours, dec}, Got: [2]float64{ra, d}}
	}
	return nil
}

// GotoHorizontal slews to az/alt and waits until the mount stops
func (m *Mount) GotoHorizontal(ctx context.Context, az, alt float64) error {
	if err := m.SlewHorizontal(az, alt); err != nil {
		return err
	}
	if err := m.WaitSlew(ctx); err != nil {
		return err
	}

	a, b, err := m.Horizontal()
	if err != nil {
		return err
	}
	if !m.within(a, az) || !m.within(b, alt) {
		return &TargetMismatchError{Want: [2]float64{az, alt}, Got: [2]float64{a, b}}
	}
	return nil
}

// WaitSlew polls IsSlewing every PollInterval until the mount reports idle,
// ctx is done, or a poll fails
func (m *Mount) WaitSlew(ctx context.Context) error {
	interval := m.opts.PollInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 1; ; polls++ {
		slewing, err := m.IsSlewing()
		if err != nil {
			return err
		}
		if !slewing {
			glog.V(3).Infof("slew complete after %d polls", polls)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// within compares two angles in degrees on the circle
func (m *Mount) within(got, want float64) bool {
	return math.Abs(angle.Wrap180(got-want)) <= m.opts.Tolerance
}
