// Package protocol implements the NexStar hand controller serial protocol:
// plain ASCII direct commands and the binary passthrough frames that the
// hand controller forwards to the motor controllers.
package protocol

import "time"

// Protocol constants
const (
	OpPassthrough       = 0x50 // Passthrough frame marker ('P')
	PassthroughFrameLen = 8    // Fixed passthrough frame size
	MaxPayloadLen       = 3    // Maximum passthrough payload
	MaxCommandLen       = 20   // Largest direct command ("r%08X,%08X" is 18)
	MaxResponseLen      = 20   // Largest response (position query is 18)

	// CommandTimeout bounds the wait for response bytes
	CommandTimeout = 5 * time.Second
)

// Axis identifies a motor controller addressed by a passthrough frame
type Axis byte

const (
	AxisRA  Axis = 0x10 // Azimuth / right ascension motor
	AxisDEC Axis = 0x11 // Altitude / declination motor
)

func (a Axis) String() string {
	switch a {
	case AxisRA:
		return "RA"
	case AxisDEC:
		return "DEC"
	default:
		return "axis(0x" + hexByte(byte(a)) + ")"
	}
}

// Motor controller sub-commands
const (
	MCMovePositive = 0x24
	MCMoveNegative = 0x25
	MCPulseGuide   = 0x26
	MCPulseStatus  = 0x27
	MCGetVersion   = 0xFE
)

const hexDigits = "0123456789ABCDEF"

func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}
