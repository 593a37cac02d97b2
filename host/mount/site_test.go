package mount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nexstar/host/sim"
)

func TestSetLocation(t *testing.T) {
	m, hc := newTestMount(t, sim.DefaultConfig())

	require.NoError(t, m.SetLocation(237.66, 47.6))
	require.Equal(t, [8]byte{47, 36, 0, 0, 122, 20, 24, 1}, hc.Location())

	require.NoError(t, m.SetLocation(151.21, -33.8675))
	require.Equal(t, [8]byte{33, 52, 3, 1, 151, 12, 36, 0}, hc.Location())

	// under one degree south keeps its sign
	require.NoError(t, m.SetLocation(0, -0.5))
	require.Equal(t, [8]byte{0, 30, 0, 1, 0, 0, 0, 0}, hc.Location())
}

func TestSetTime(t *testing.T) {
	m, hc := newTestMount(t, sim.DefaultConfig())

	ts := time.Date(2026, time.October, 14, 21, 5, 30, 0, time.FixedZone("MST", -7*3600))
	require.NoError(t, m.SetTime(ts))
	require.Equal(t, [8]byte{21, 5, 30, 10, 14, 26, 0xF9, 0}, hc.Clock())

	ts = time.Date(2030, time.January, 2, 3, 4, 5, 0, time.FixedZone("JST", 9*3600))
	require.NoError(t, m.SetTime(ts))
	require.Equal(t, [8]byte{3, 4, 5, 1, 2, 30, 9, 0}, hc.Clock())
}

func TestIsAligned(t *testing.T) {
	m, hc := newTestMount(t, sim.DefaultConfig())

	aligned, err := m.IsAligned()
	require.NoError(t, err)
	require.True(t, aligned)

	hc.SetAligned(false)
	aligned, err = m.IsAligned()
	require.NoError(t, err)
	require.False(t, aligned)
}

func TestHibernateWakeup(t *testing.T) {
	m, hc := newTestMount(t, sim.DefaultConfig())

	require.NoError(t, m.Hibernate())
	require.True(t, hc.Hibernating())
	require.Error(t, m.Echo('x'))

	require.NoError(t, m.Wakeup())
	require.False(t, hc.Hibernating())
	require.NoError(t, m.Echo('x'))
}
