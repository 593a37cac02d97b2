// Package sim emulates a NexStar hand controller behind a serial port.
// Replies are produced synchronously when a complete command is written.
package sim

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	"nexstar/angle"
	"nexstar/protocol"
)

// Config describes the simulated hardware
type Config struct {
	Version     [2]byte
	Variant     byte
	Model       byte
	RAFirmware  []byte // one byte for major-only motor controllers
	DECFirmware []byte

	// SlewPolls is how many status polls a goto stays busy for
	SlewPolls int

	// PulsePolls is how many status polls a guiding pulse stays busy for
	PulsePolls int
}

// DefaultConfig is a StarSense hand controller on a CGEM DX
func DefaultConfig() Config {
	return Config{
		Version:     [2]byte{1, 19},
		Variant:     0x13,
		Model:       14,
		RAFirmware:  []byte{7, 11},
		DECFirmware: []byte{7, 11},
		SlewPolls:   3,
		PulsePolls:  2,
	}
}

type position struct {
	a, b uint32
}

// HandController implements serial.Port
type HandController struct {
	cfg Config

	mu     sync.Mutex
	in     []byte
	out    *protocol.FifoBuffer
	closed bool

	equatorial  position
	horizontal  position
	target      *position
	targetEQ    bool
	slewLeft    int
	track       byte
	aligned     bool
	location    [8]byte
	clock       [8]byte
	hibernating bool
	rates       map[protocol.Axis]int8
	pulseLeft   map[protocol.Axis]int
	lastPulse   map[protocol.Axis][2]byte

	silent     bool
	dropEchoes int
	truncate   map[byte]bool
	commands   [][]byte
}

// NewHandController creates a simulator at the home position
func NewHandController(cfg Config) *HandController {
	return &HandController{
		cfg:       cfg,
		out:       protocol.NewFifoBuffer(256),
		aligned:   true,
		track:     2,
		rates:     make(map[protocol.Axis]int8),
		pulseLeft: make(map[protocol.Axis]int),
		lastPulse: make(map[protocol.Axis][2]byte),
		truncate:  make(map[byte]bool),
	}
}

// commandLen returns the full length of the command starting with op, or 0
// for an unknown mnemonic
func commandLen(op byte) int {
	switch op {
	case 'V', 'v', 'm', 'e', 'z', 'L', 'M', 't', 'J':
		return 1
	case 'K', 'T', 'x', 'y':
		return 2
	case 'W', 'H':
		return 9
	case protocol.OpPassthrough:
		return protocol.PassthroughFrameLen
	case 'r', 'b', 's':
		return 18
	}
	return 0
}

// Write consumes command bytes and queues the replies
func (h *HandController) Write(b []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, io.ErrClosedPipe
	}

	h.in = append(h.in, b...)
	for len(h.in) > 0 {
		n := commandLen(h.in[0])
		if n == 0 {
			glog.V(2).Infof("sim: dropping unknown byte 0x%02X", h.in[0])
			h.in = h.in[1:]
			continue
		}
		if len(h.in) < n {
			break
		}
		cmd := append([]byte(nil), h.in[:n]...)
		h.in = h.in[n:]
		h.commands = append(h.commands, cmd)
		h.reply(cmd[0], h.handle(cmd))
	}
	return len(b), nil
}

func (h *HandController) reply(op byte, resp []byte) {
	if h.silent || resp == nil {
		return
	}
	if h.truncate[op] && len(resp) > 0 {
		resp = resp[:len(resp)-1]
	}
	if n := h.out.Write(resp); n < len(resp) {
		glog.Warningf("sim: reply queue full, dropped %d bytes", len(resp)-n)
	}
}

// Read returns queued reply bytes; it returns 0, nil when none are queued
func (h *HandController) Read(b []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, io.ErrClosedPipe
	}
	if h.out.Len() == 0 {
		return 0, nil
	}
	return h.out.Read(b), nil
}

// Pending returns the number of reply bytes not yet read
func (h *HandController) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.out.Len()
}

// Flush discards unread replies
func (h *HandController) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.out.Reset()
	return nil
}

// Close makes further reads and writes fail
func (h *HandController) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func coords(p position) []byte {
	return []byte(angle.FormatPair(p.a, p.b) + "#")
}

func parseCoords(cmd []byte) (position, bool) {
	resp := make([]byte, 0, angle.PairLen)
	resp = append(append(resp, cmd[1:]...), '#')
	a, b, err := angle.ParsePair(resp)
	return position{a, b}, err == nil
}

func (h *HandController) handle(cmd []byte) []byte {
	if h.hibernating && cmd[0] != 'y' {
		return nil
	}

	switch cmd[0] {
	case 'K':
		if h.dropEchoes > 0 {
			h.dropEchoes--
			return nil
		}
		return []byte{cmd[1], '#'}
	case 'V':
		return []byte{h.cfg.Version[0], h.cfg.Version[1], '#'}
	case 'v':
		return []byte{h.cfg.Variant, '#'}
	case 'm':
		return []byte{h.cfg.Model, '#'}
	case 'e':
		return coords(h.equatorial)
	case 'z':
		return coords(h.horizontal)
	case 'r', 'b':
		p, ok := parseCoords(cmd)
		if !ok {
			return nil
		}
		h.target = &p
		h.targetEQ = cmd[0] == 'r'
		h.slewLeft = h.cfg.SlewPolls
		return []byte{'#'}
	case 's':
		p, ok := parseCoords(cmd)
		if !ok {
			return nil
		}
		h.equatorial = p
		return []byte{'#'}
	case 'L':
		return []byte{h.pollSlew(), '#'}
	case 'M':
		h.target = nil
		h.slewLeft = 0
		return []byte{'#'}
	case 't':
		return []byte{h.track, '#'}
	case 'T':
		h.track = cmd[1]
		return []byte{'#'}
	case 'J':
		if h.aligned {
			return []byte{1, '#'}
		}
		return []byte{0, '#'}
	case 'W':
		copy(h.location[:], cmd[1:])
		return []byte{'#'}
	case 'H':
		copy(h.clock[:], cmd[1:])
		return []byte{'#'}
	case 'x':
		h.hibernating = true
		return []byte{'#'}
	case 'y':
		h.hibernating = false
		return []byte{'#'}
	case protocol.OpPassthrough:
		return h.passthrough(cmd)
	}
	return nil
}

func (h *HandController) pollSlew() byte {
	if h.target == nil {
		return '0'
	}
	if h.slewLeft > 0 {
		h.slewLeft--
		return '1'
	}
	if h.targetEQ {
		h.equatorial = *h.target
	} else {
		h.horizontal = *h.target
	}
	h.target = nil
	return '0'
}

func (h *HandController) passthrough(cmd []byte) []byte {
	f, err := protocol.ParseFrame(cmd)
	if err != nil {
		return nil
	}

	switch f.Command {
	case protocol.MCGetVersion:
		fw := h.cfg.RAFirmware
		if f.Dest == protocol.AxisDEC {
			fw = h.cfg.DECFirmware
		}
		return append(append([]byte(nil), fw...), '#')
	case protocol.MCMovePositive, protocol.MCMoveNegative:
		if len(f.Payload) != 1 {
			return nil
		}
		rate := int8(f.Payload[0])
		if f.Command == protocol.MCMoveNegative {
			rate = -rate
		}
		h.rates[f.Dest] = rate
		return []byte{'#'}
	case protocol.MCPulseGuide:
		if len(f.Payload) != 2 {
			return nil
		}
		h.lastPulse[f.Dest] = [2]byte{f.Payload[0], f.Payload[1]}
		h.pulseLeft[f.Dest] = h.cfg.PulsePolls
		return []byte{'#'}
	case protocol.MCPulseStatus:
		if h.pulseLeft[f.Dest] > 0 {
			h.pulseLeft[f.Dest]--
			return []byte{1, '#'}
		}
		return []byte{0, '#'}
	}
	return nil
}

// SetSilent makes the simulator stop answering
func (h *HandController) SetSilent(silent bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.silent = silent
}

// DropEchoes ignores the next n echo commands
func (h *HandController) DropEchoes(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropEchoes = n
}

// TruncateReplies cuts the last byte off every reply to op
func (h *HandController) TruncateReplies(op byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.truncate[op] = true
}

// SetAligned sets the alignment flag
func (h *HandController) SetAligned(aligned bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.aligned = aligned
}

// SetEquatorial places the mount at raw ra/dec
func (h *HandController) SetEquatorial(ra, dec uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.equatorial = position{ra, dec}
}

// Equatorial returns the raw ra/dec position
func (h *HandController) Equatorial() (uint32, uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.equatorial.a, h.equatorial.b
}

// Horizontal returns the raw az/alt position
func (h *HandController) Horizontal() (uint32, uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.horizontal.a, h.horizontal.b
}

// Rate returns the signed manual rate of an axis
func (h *HandController) Rate(axis protocol.Axis) int8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rates[axis]
}

// LastPulse returns the payload of the last guiding pulse on an axis
func (h *HandController) LastPulse(axis protocol.Axis) [2]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastPulse[axis]
}

// Location returns the bytes stored by the last location command
func (h *HandController) Location() [8]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

// Clock returns the bytes stored by the last time command
func (h *HandController) Clock() [8]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock
}

// Hibernating reports whether the simulator is hibernating
func (h *HandController) Hibernating() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hibernating
}

// Commands returns every command received so far
func (h *HandController) Commands() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]byte(nil), h.commands...)
}

// CountCommands returns how many commands started with op
func (h *HandController) CountCommands(op byte) int {
	n := 0
	for _, cmd := range h.Commands() {
		if cmd[0] == op {
			n++
		}
	}
	return n
}

func (h *HandController) String() string {
	return fmt.Sprintf("sim HC %d.%02d model %d", h.cfg.Version[0], h.cfg.Version[1], h.cfg.Model)
}
