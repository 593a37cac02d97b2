package protocol

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type eofPort struct {
	fakePort
	reads int
}

func (p *eofPort) Read(b []byte) (int, error) {
	p.reads++
	n, _ := p.fakePort.Read(b)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

type timeoutPort struct {
	fakePort
	timeouts []time.Duration
}

func (p *timeoutPort) SetReadTimeout(d time.Duration) error {
	p.timeouts = append(p.timeouts, d)
	return nil
}

func TestWriteAllLoopsOverShortWrites(t *testing.T) {
	port := &fakePort{writeLimit: 3}
	tr := NewTransport(port)

	n, err := tr.WriteAll([]byte("r12AB4000,12AB4000"))
	require.NoError(t, err)
	require.Equal(t, 18, n)
	require.Equal(t, []byte("r12AB4000,12AB4000"), port.writtenBytes())
}

func TestWriteAllReportsPartialWrite(t *testing.T) {
	port := &fakePort{writeErr: errors.New("device gone")}
	tr := NewTransport(port)

	n, err := tr.WriteAll([]byte("Kx"))
	require.EqualError(t, err, "device gone")
	require.Equal(t, 0, n)
}

func TestReadWithTimeout(t *testing.T) {
	port := &fakePort{}
	tr := NewTransport(port)

	port.inject('x', '#', 'z')
	b, err := tr.ReadWithTimeout(2, 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, []byte("x#"), b)

	// one byte left over, then silence
	start := time.Now()
	b, err = tr.ReadWithTimeout(2, 20*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, []byte("z"), b)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	require.Less(t, time.Since(start), time.Second)
}

func TestReadWithTimeoutZeroLength(t *testing.T) {
	port := &fakePort{}
	port.inject('#')
	b, err := NewTransport(port).ReadWithTimeout(0, time.Second)
	require.NoError(t, err)
	require.Empty(t, b)
}

func TestReadWithTimeoutNegativeLength(t *testing.T) {
	port := &fakePort{}
	port.inject('#')
	b, err := NewTransport(port).ReadWithTimeout(-1, time.Second)
	require.ErrorIs(t, err, ErrInvalidLength)
	require.Nil(t, b)
}

func TestReadWithTimeoutTreatsEOFAsNoData(t *testing.T) {
	port := &eofPort{}
	port.inject('1')
	b, err := NewTransport(port).ReadWithTimeout(2, 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, []byte("1"), b)
	require.Greater(t, port.reads, 1)
}

func TestReadWithTimeoutError(t *testing.T) {
	port := &fakePort{readErr: io.ErrClosedPipe}
	b, err := NewTransport(port).ReadWithTimeout(2, time.Second)
	require.ErrorIs(t, err, io.ErrClosedPipe)
	require.Empty(t, b)
}

func TestReadWithTimeoutSetsPortTimeout(t *testing.T) {
	port := &timeoutPort{}
	port.inject('0', '#')
	_, err := NewTransport(port).ReadWithTimeout(2, 3*time.Second)
	require.NoError(t, err)
	require.Equal(t, []time.Duration{3 * time.Second}, port.timeouts)
}
