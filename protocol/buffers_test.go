package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()
	require.Empty(t, scratch.Result())

	require.NoError(t, scratch.Output('K'))
	require.NoError(t, scratch.Output('x'))
	require.Equal(t, []byte("Kx"), scratch.Result())
}

func TestScratchOutputOverflow(t *testing.T) {
	scratch := NewScratchOutput()
	require.NoError(t, scratch.Output(make([]byte, MaxCommandLen-1)...))
	require.ErrorIs(t, scratch.Output(1, 2), ErrCommandTooLong)
	require.Len(t, scratch.Result(), MaxCommandLen-1)
	require.NoError(t, scratch.Output(1))
	require.ErrorIs(t, scratch.Output(1), ErrCommandTooLong)
	require.Len(t, scratch.Result(), MaxCommandLen)
}

func TestScratchOutputResultIsCopy(t *testing.T) {
	scratch := NewScratchOutput()
	require.NoError(t, scratch.Output(7))
	res := scratch.Result()
	res[0] = 8
	require.Equal(t, []byte{7}, scratch.Result())
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(8)
	require.Zero(t, fifo.Len())
	require.Zero(t, fifo.Read(make([]byte, 4)))

	require.Equal(t, 5, fifo.Write([]byte{1, 2, 3, 4, 5}))
	require.Equal(t, 5, fifo.Len())

	readBuf := make([]byte, 3)
	require.Equal(t, 3, fifo.Read(readBuf))
	require.Equal(t, []byte{1, 2, 3}, readBuf)
	require.Equal(t, 2, fifo.Len())

	// full capacity is usable
	fifo.Reset()
	require.Zero(t, fifo.Len())
	require.Equal(t, 8, fifo.Write(make([]byte, 12)))
	require.Zero(t, fifo.Write([]byte{1}))
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)
	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Read(make([]byte, 2))

	require.Equal(t, 3, fifo.Write([]byte{5, 6, 7, 8}))

	allData := make([]byte, 6)
	require.Equal(t, 5, fifo.Read(allData))
	require.Equal(t, []byte{3, 4, 5, 6, 7, 0}, allData)
	require.Zero(t, fifo.Len())
}
