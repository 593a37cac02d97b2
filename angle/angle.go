// Package angle converts between decimal degrees and the NexStar native
// angle: an unsigned 32-bit fraction of a full turn.
//
// All conversions are total. Any input is reduced modulo 360 first, so no
// angle is ever rejected.
package angle

import (
	"fmt"
	"math"
	"strconv"
)

// turn is 2^32, one full revolution in raw units
const turn = 1 << 32

// Normalize reduces deg into [0, 360) using a floored modulo.
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg -= 360 * math.Floor(deg/360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// ToRaw encodes deg as a fraction of a turn scaled to 32 bits.
func ToRaw(deg float64) uint32 {
	raw := math.Round(Normalize(deg) / 360 * turn)
	// 359.99999999... rounds up to a full turn, which is 0
	return uint32(uint64(raw))
}

// FromRaw decodes a raw angle into [0, 360).
func FromRaw(raw uint32) float64 {
	return float64(raw) / turn * 360
}

// Fold maps the second coordinate reported by the mount (0..360) into
// signed declination range [-90, 90]. Values in (90, 270] are reflected
// to 180-a and values in (270, 360) are shifted to a-360.
func Fold(deg float64) float64 {
	deg = Normalize(deg)
	switch {
	case deg > 90 && deg <= 270:
		return 180 - deg
	case deg > 270:
		return deg - 360
	}
	return deg
}

// Wrap180 maps deg into (-180, 180].
func Wrap180(deg float64) float64 {
	deg = Normalize(deg)
	if deg > 180 {
		deg -= 360
	}
	return deg
}

// DMS is an angle split into whole degrees, minutes and seconds.
type DMS struct {
	Deg      int
	Min      int
	Sec      int
	Negative bool
}

// ToDMS splits deg into degrees, minutes and rounded seconds. A rounded
// second of 60 carries into minutes and a minute of 60 into degrees.
// Negative records the input sign so that angles under one degree keep it.
func ToDMS(deg float64) DMS {
	a := math.Abs(deg)
	d := int(a)
	m := int((a - float64(d)) * 60)
	s := int(math.RoundToEven(((a-float64(d))*60 - float64(m)) * 60))

	if s == 60 {
		s = 0
		m++
	}
	if m == 60 {
		m = 0
		d++
	}
	return DMS{Deg: d, Min: m, Sec: s, Negative: deg < 0}
}

// Sexagesimal returns the degree, minute and second components of deg. The
// sign is carried by the degree component only.
func Sexagesimal(deg float64) (d, m, s int) {
	v := ToDMS(deg)
	d = v.Deg
	if v.Negative {
		d = -d
	}
	return d, v.Min, v.Sec
}

// String formats the angle as [-]DDD°MM'SS".
func (v DMS) String() string {
	sign := ""
	if v.Negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%d°%02d'%02d\"", sign, v.Deg, v.Min, v.Sec)
}

// FormatPair renders two raw angles as the 8-hex-digit pair used by the
// goto and sync commands.
func FormatPair(a, b uint32) string {
	return fmt.Sprintf("%08X,%08X", a, b)
}

// PairLen is the length of a position response, "XXXXXXXX,YYYYYYYY#"
const PairLen = 18

// ParsePair decodes a position response of the form "XXXXXXXX,YYYYYYYY#".
func ParsePair(resp []byte) (a, b uint32, err error) {
	if len(resp) != PairLen || resp[8] != ',' || resp[17] != '#' {
		return 0, 0, fmt.Errorf("malformed position %q", resp)
	}
	x, err := strconv.ParseUint(string(resp[0:8]), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed position %q: %w", resp, err)
	}
	y, err := strconv.ParseUint(string(resp[9:17]), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed position %q: %w", resp, err)
	}
	return uint32(x), uint32(y), nil
}
