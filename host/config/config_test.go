package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nexstar/host/mount"
	"nexstar/host/serial"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte("device: /dev/ttyS1\n"))
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyS1", cfg.Device)
	require.Equal(t, "tarm", cfg.Driver)
	require.Equal(t, 9600, cfg.Baud)
	require.Equal(t, 500*time.Millisecond, cfg.ReadTimeout)
	require.Equal(t, 5*time.Second, cfg.CommandTimeout)
	require.Zero(t, cfg.Goto.Tolerance)
	require.Equal(t, time.Millisecond, cfg.Goto.PollInterval)
	require.Zero(t, cfg.Goto.Timeout)
	require.Nil(t, cfg.Site)

	require.Equal(t, cfg, Default("/dev/ttyS1"))
}

func TestLoadConfig(t *testing.T) {
	data := []byte(`
device: /dev/ttyUSB3
driver: bugst
command_timeout: 2s
simulate: true
goto:
  tolerance: 30
  poll_interval: 50ms
  timeout: 3m
site:
  longitude: -122.34
  latitude: 47.6
`)
	cfg, err := LoadConfig(data)
	require.NoError(t, err)
	require.Equal(t, "bugst", cfg.Driver)
	require.True(t, cfg.Simulate)
	require.Equal(t, 2*time.Second, cfg.CommandTimeout)
	require.Equal(t, 3*time.Minute, cfg.Goto.Timeout)
	require.Equal(t, &SiteConfig{Longitude: -122.34, Latitude: 47.6}, cfg.Site)

	sc := cfg.Serial()
	require.Equal(t, serial.DriverBugst, sc.Driver)
	require.Equal(t, "/dev/ttyUSB3", sc.Device)
	require.Equal(t, 9600, sc.Baud)

	opts := cfg.MountOptions()
	require.Equal(t, 2*time.Second, opts.CommandTimeout)
	require.Equal(t, 50*time.Millisecond, opts.PollInterval)
	require.InDelta(t, 30.0/3600, opts.Tolerance, 1e-12)
	require.Equal(t, 2, opts.EchoAttempts)
}

func TestExactToleranceByDefault(t *testing.T) {
	require.Zero(t, Default("").MountOptions().Tolerance)
	require.Equal(t, mount.DefaultOptions(), Default("").MountOptions())

	cfg, err := LoadConfig([]byte("goto:\n  tolerance: 1\n"))
	require.NoError(t, err)
	require.InDelta(t, mount.ArcSecond, cfg.MountOptions().Tolerance, 1e-15)
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"bad yaml", "device: [unterminated"},
		{"bad driver", "driver: usbip"},
		{"bad latitude", "site:\n  latitude: 91\n"},
		{"negative tolerance", "goto:\n  tolerance: -1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tc.data))
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexstar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baud: 19200\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 19200, cfg.Baud)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
