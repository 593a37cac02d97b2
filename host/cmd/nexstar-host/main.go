package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"nexstar/host/config"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	driver     = flag.String("driver", "", "Serial backend: tarm or bugst (overrides config)")
	simulate   = flag.Bool("sim", false, "Talk to the built-in simulated hand controller")
)

func loadConfig() (*config.Config, error) {
	cfg := config.Default(*device)
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return nil, err
		}
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *simulate {
		cfg.Simulate = true
	}
	return cfg, cfg.Validate()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sh := newShell(cfg)
	defer sh.disconnect()
	sh.run(flag.Args()...)
}
