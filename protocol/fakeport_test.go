package protocol

import (
	"bytes"
	"sync"
)

// fakePort is a scripted Port: every Write is answered by reply.
type fakePort struct {
	mu         sync.Mutex
	written    bytes.Buffer
	pending    []byte
	flushes    int
	reply      func(cmd []byte) []byte
	writeLimit int
	writeErr   error
	readErr    error
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	n := len(b)
	if p.writeLimit > 0 && n > p.writeLimit {
		n = p.writeLimit
	}
	p.written.Write(b[:n])
	if p.reply != nil && p.writeLimit == 0 {
		p.pending = append(p.pending, p.reply(b)...)
	}
	return n, nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr != nil {
		return 0, p.readErr
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *fakePort) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushes++
	p.pending = nil
	return nil
}

func (p *fakePort) inject(b ...byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, b...)
}

func (p *fakePort) writtenBytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.written.Bytes()...)
}
