package protocol

// ScratchOutput builds one outgoing command in a fixed buffer sized for the
// largest NexStar command
type ScratchOutput struct {
	buf [MaxCommandLen]byte
	pos int
}

// NewScratchOutput creates an empty ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

// Output appends data; nothing is written when data would overflow
func (s *ScratchOutput) Output(data ...byte) error {
	if len(data) > len(s.buf)-s.pos {
		return ErrCommandTooLong
	}
	s.pos += copy(s.buf[s.pos:], data)
	return nil
}

// Result returns a copy of the accumulated command
func (s *ScratchOutput) Result() []byte {
	return append([]byte(nil), s.buf[:s.pos]...)
}

// FifoBuffer is a bounded byte queue
type FifoBuffer struct {
	buf   []byte
	head  int
	count int
}

// NewFifoBuffer creates a FifoBuffer holding up to capacity bytes
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write queues as much of data as fits and returns the number of bytes stored
func (f *FifoBuffer) Write(data []byte) int {
	n := min(len(data), len(f.buf)-f.count)
	for i := 0; i < n; i++ {
		f.buf[(f.head+f.count+i)%len(f.buf)] = data[i]
	}
	f.count += n
	return n
}

// Read dequeues up to len(data) bytes
func (f *FifoBuffer) Read(data []byte) int {
	n := min(len(data), f.count)
	for i := 0; i < n; i++ {
		data[i] = f.buf[(f.head+i)%len(f.buf)]
	}
	f.head = (f.head + n) % len(f.buf)
	f.count -= n
	return n
}

// Len returns the number of queued bytes
func (f *FifoBuffer) Len() int {
	return f.count
}

// Reset discards everything queued
func (f *FifoBuffer) Reset() {
	f.head = 0
	f.count = 0
}
