package protocol

import "io"

// Frame is a passthrough command forwarded by the hand controller to a
// motor controller.
//
// Wire layout (8 bytes):
//
//	[0x50][len(Payload)+1][Dest][Command][p0][p1][p2][ResponseLen]
type Frame struct {
	Dest        Axis
	Command     byte
	Payload     []byte
	ResponseLen byte
}

// Bytes returns the encoded frame.
func (f *Frame) Bytes() ([]byte, error) {
	if len(f.Payload) > MaxPayloadLen {
		return nil, ErrPayloadTooLong
	}
	b := make([]byte, PassthroughFrameLen)
	b[0] = OpPassthrough
	b[1] = byte(len(f.Payload) + 1)
	b[2] = byte(f.Dest)
	b[3] = f.Command
	copy(b[4:4+MaxPayloadLen], f.Payload)
	b[7] = f.ResponseLen
	return b, nil
}

// WriteTo writes the encoded frame.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	b, err := f.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// ParseFrame decodes an 8-byte passthrough frame.
func ParseFrame(b []byte) (*Frame, error) {
	if len(b) != PassthroughFrameLen || b[0] != OpPassthrough {
		return nil, &FramingError{Op: "parse passthrough", Want: PassthroughFrameLen, Got: len(b)}
	}
	n := int(b[1]) - 1
	if n < 0 || n > MaxPayloadLen {
		return nil, ErrPayloadTooLong
	}
	payload := make([]byte, n)
	copy(payload, b[4:4+n])
	return &Frame{
		Dest:        Axis(b[2]),
		Command:     b[3],
		Payload:     payload,
		ResponseLen: b[7],
	}, nil
}
