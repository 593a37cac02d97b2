package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"nexstar/host/config"
	"nexstar/host/mount"
	"nexstar/host/sim"
)

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

type shell struct {
	cfg   *config.Config
	mount *mount.Mount
	ish   *ishell.Shell
}

func newShell(cfg *config.Config) *shell {
	s := &shell{
		cfg:   cfg,
		mount: mount.NewMount(cfg.MountOptions()),
		ish:   ishell.New(),
	}
	s.ish.Set(shellKey, s)
	s.ish.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands() {
		s.ish.AddCmd(cmd)
	}
	return s
}

func shellFrom(c *ishell.Context) *shell {
	return c.Get(shellKey).(*shell)
}

func (s *shell) connect() error {
	var err error
	if s.cfg.Simulate {
		err = s.mount.ConnectPort("sim", sim.NewHandController(sim.DefaultConfig()))
	} else {
		err = s.mount.ConnectWithConfig(s.cfg.Serial())
	}
	if err != nil {
		return err
	}

	if site := s.cfg.Site; site != nil {
		if err := s.mount.SetLocation(site.Longitude, site.Latitude); err != nil {
			glog.Warningf("Failed to set site location: %v", err)
		}
	}

	name := s.cfg.Device
	if s.cfg.Simulate {
		name = "sim"
	}
	s.ish.SetPrompt(fmt.Sprintf("%s > ", name))
	return nil
}

func (s *shell) disconnect() {
	if err := s.mount.Disconnect(); err != nil {
		glog.Warningf("Disconnect: %v", err)
	}
	s.ish.SetPrompt(unconnectedPrompt)
}

// gotoContext bounds a goto by the configured timeout
func (s *shell) gotoContext() (context.Context, context.CancelFunc) {
	if s.cfg.Goto.Timeout > 0 {
		return context.WithTimeout(context.Background(), s.cfg.Goto.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (s *shell) run(args ...string) {
	if len(args) > 0 {
		if err := s.connect(); err != nil {
			glog.Exitf("connect %q failed: %v", s.cfg.Device, err)
		}
		if err := s.ish.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	s.ish.Println("NexStar host shell. Type 'connect' to open the mount, 'help' for commands.")
	s.ish.Run()
}

// mustBeConnected wraps a command that needs an open mount
func mustBeConnected(fn func(c *ishell.Context, m *mount.Mount) error) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		m := shellFrom(c).mount
		if !m.IsConnected() {
			c.Err(mount.ErrNotConnected)
			return
		}
		if err := fn(c, m); err != nil {
			c.Err(err)
		}
	}
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	vals := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseDirectionRate(args []string) (mount.Direction, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected direction and value")
	}
	dir, err := mount.ParseDirection(args[0])
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", args[1])
	}
	return dir, v, nil
}

func parseTrackMode(s string) (mount.TrackMode, error) {
	switch strings.ToLower(s) {
	case "off":
		return mount.TrackOff, nil
	case "altaz", "alt-az":
		return mount.TrackAltAz, nil
	case "eqn", "eq-north":
		return mount.TrackEQNorth, nil
	case "eqs", "eq-south":
		return mount.TrackEQSouth, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid tracking mode %q", s)
	}
	return mount.TrackMode(v), nil
}

func printOK(c *ishell.Context) {
	c.Println("OK")
}

func commands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "connect",
			Help: "open the configured mount",
			Func: func(c *ishell.Context) {
				if err := shellFrom(c).connect(); err != nil {
					c.Err(err)
					return
				}
				printOK(c)
			},
		},
		{
			Name: "disconnect",
			Help: "close the mount",
			Func: func(c *ishell.Context) {
				shellFrom(c).disconnect()
				printOK(c)
			},
		},
		{
			Name: "info",
			Help: "identify hand controller, model and motor firmware",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				id, err := m.Identify()
				if err != nil {
					return err
				}
				c.Println(id.String())
				return nil
			}),
		},
		{
			Name: "pos",
			Help: "print RA (hours) and DEC (degrees)",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				ra, dec, err := m.Equatorial()
				if err != nil {
					return err
				}
				c.Printf("RA %.6fh DEC %.6f\n", ra, dec)
				return nil
			}),
		},
		{
			Name: "altaz",
			Help: "print azimuth and altitude (degrees)",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				az, alt, err := m.Horizontal()
				if err != nil {
					return err
				}
				c.Printf("AZ %.6f ALT %.6f\n", az, alt)
				return nil
			}),
		},
		{
			Name: "goto",
			Help: "goto <ra-hours> <dec>: slew and wait for arrival",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				v, err := parseFloats(c.Args, 2)
				if err != nil {
					return err
				}
				ctx, cancel := shellFrom(c).gotoContext()
				defer cancel()
				if err := m.GotoEquatorial(ctx, v[0], v[1]); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "gotoaltaz",
			Help: "gotoaltaz <az> <alt>: slew and wait for arrival",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				v, err := parseFloats(c.Args, 2)
				if err != nil {
					return err
				}
				ctx, cancel := shellFrom(c).gotoContext()
				defer cancel()
				if err := m.GotoHorizontal(ctx, v[0], v[1]); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "slew",
			Help: "slew <ra-hours> <dec>: start a slew without waiting",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				v, err := parseFloats(c.Args, 2)
				if err != nil {
					return err
				}
				if err := m.SlewEquatorial(v[0], v[1]); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "sync",
			Help: "sync <ra-hours> <dec>: declare the current position",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				v, err := parseFloats(c.Args, 2)
				if err != nil {
					return err
				}
				if err := m.Sync(v[0], v[1]); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "move",
			Help: "move <N|S|E|W> <rate 1-9>",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				dir, rate, err := parseDirectionRate(c.Args)
				if err != nil {
					return err
				}
				if rate < 0 || rate > int(mount.RateMax) {
					return mount.ErrInvalidRate
				}
				if err := m.Move(dir, mount.SlewRate(rate)); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "stop",
			Help: "stop <N|S|E|W>: stop manual motion on that axis",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if len(c.Args) != 1 {
					return fmt.Errorf("expected direction")
				}
				dir, err := mount.ParseDirection(c.Args[0])
				if err != nil {
					return err
				}
				if err := m.Stop(dir); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "abort",
			Help: "cancel a goto in progress",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if err := m.Abort(); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "track",
			Help: "track [off|altaz|eqn|eqs|<n>]: show or set tracking mode",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if len(c.Args) == 0 {
					mode, err := m.TrackMode()
					if err != nil {
						return err
					}
					c.Println(mode.String())
					return nil
				}
				mode, err := parseTrackMode(c.Args[0])
				if err != nil {
					return err
				}
				if err := m.SetTrackMode(mode); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "pulse",
			Help: "pulse <N|S|E|W> <rate> <centiseconds>: guide pulse",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if len(c.Args) != 3 {
					return fmt.Errorf("expected direction, rate and duration")
				}
				dir, rate, err := parseDirectionRate(c.Args[:2])
				if err != nil {
					return err
				}
				csec, err := strconv.ParseUint(c.Args[2], 10, 8)
				if err != nil {
					return fmt.Errorf("invalid duration %q", c.Args[2])
				}
				if rate < -128 || rate > 127 {
					return fmt.Errorf("rate %d out of range", rate)
				}
				if err := m.SendPulse(dir, int8(rate), uint8(csec)); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "pulsestatus",
			Help: "pulsestatus <N|S|E|W>: report whether a guide pulse is active",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if len(c.Args) != 1 {
					return fmt.Errorf("expected direction")
				}
				dir, err := mount.ParseDirection(c.Args[0])
				if err != nil {
					return err
				}
				active, err := m.PulseStatus(dir)
				if err != nil {
					return err
				}
				c.Println(active)
				return nil
			}),
		},
		{
			Name: "location",
			Help: "location <longitude> <latitude>: set observing site",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				v, err := parseFloats(c.Args, 2)
				if err != nil {
					return err
				}
				if err := m.SetLocation(v[0], v[1]); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "time",
			Help: "send the local clock to the hand controller",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if err := m.SetTime(time.Now()); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "aligned",
			Help: "report whether alignment is complete",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				aligned, err := m.IsAligned()
				if err != nil {
					return err
				}
				c.Println(aligned)
				return nil
			}),
		},
		{
			Name: "hibernate",
			Help: "put the hand controller into hibernation",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if err := m.Hibernate(); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
		{
			Name: "wakeup",
			Help: "wake the hand controller from hibernation",
			Func: mustBeConnected(func(c *ishell.Context, m *mount.Mount) error {
				if err := m.Wakeup(); err != nil {
					return err
				}
				printOK(c)
				return nil
			}),
		},
	}
}
