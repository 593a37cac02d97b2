package mount

import (
	"fmt"
	"strings"

	"nexstar/protocol"
)

// Direction is a manual motion or guiding direction
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case South:
		return "S"
	case East:
		return "E"
	case West:
		return "W"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses N, S, E, W or the full names, in any case
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "N", "NORTH":
		return North, nil
	case "S", "SOUTH":
		return South, nil
	case "E", "EAST":
		return East, nil
	case "W", "WEST":
		return West, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// Axis returns the motor that moves the mount in direction d
func (d Direction) Axis() protocol.Axis {
	if d == North || d == South {
		return protocol.AxisDEC
	}
	return protocol.AxisRA
}

// Positive reports whether d drives its motor in the positive sense
func (d Direction) Positive() bool {
	return d == North || d == West
}

// SlewRate is a manual motion rate, 1 (slowest) to 9 (fastest); 0 stops
type SlewRate uint8

const (
	RateStop SlewRate = 0
	RateMin  SlewRate = 1
	RateMax  SlewRate = 9
)

// TrackMode is the tracking mode byte reported by the hand controller.
// Values other than the named ones are passed through unchanged.
type TrackMode byte

const (
	TrackOff     TrackMode = 0
	TrackAltAz   TrackMode = 1
	TrackEQNorth TrackMode = 2
	TrackEQSouth TrackMode = 3
)

func (t TrackMode) String() string {
	switch t {
	case TrackOff:
		return "off"
	case TrackAltAz:
		return "alt-az"
	case TrackEQNorth:
		return "eq-north"
	case TrackEQSouth:
		return "eq-south"
	default:
		return fmt.Sprintf("mode(%d)", byte(t))
	}
}

// Variant identifies the hand controller family
type Variant byte

const (
	VariantNexStar   Variant = 0x11
	VariantStarSense Variant = 0x13
)

func (v Variant) String() string {
	switch v {
	case VariantNexStar:
		return "NexStar"
	case VariantStarSense:
		return "StarSense"
	default:
		return fmt.Sprintf("variant(0x%02X)", byte(v))
	}
}

// Version is a hand controller firmware version
type Version struct {
	Major uint8
	Minor uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%02d", v.Major, v.Minor)
}

// AtLeast reports whether v is major.minor or newer
func (v Version) AtLeast(major, minor uint8) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// Identity holds the facts read by Identify. Model is empty when the hand
// controller is too old to report it.
type Identity struct {
	Version     Version
	Variant     Variant
	ModelID     byte
	Model       string
	GEM         bool
	RAFirmware  string
	DECFirmware string
}

func (id Identity) String() string {
	model := id.Model
	if model == "" {
		model = ModelUnknown
	}
	geometry := "Fork"
	if id.GEM {
		geometry = "GEM"
	}
	return fmt.Sprintf("HC %s model %s %s %s mount, RA %s DEC %s",
		id.Version, model, id.Variant, geometry, id.RAFirmware, id.DECFirmware)
}
