// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/warthog618/blinker"
	"github.com/warthog618/blinker/mem"
	"github.com/warthog618/config"
	"github.com/warthog618/config/cfgconv"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
)

// BCM GPIO 23 is tied to physical pin J8-16.
const defaultPin = "J8p16"

var defaultConfig = map[string]interface{}{
	"pin":      defaultPin,
	"interval": blinker.DefaultInterval.String(),
	"driver":   "mem",
	"chip":     "gpiochip0",
	"loglevel": "info",
}

func addFlags(flags *pflag.FlagSet) {
	flags.StringP("pin", "p", defaultPin, "the pin to drive")
	flags.DurationP("interval", "i", blinker.DefaultInterval, "the time spent at each level")
	flags.StringP("driver", "d", "mem", "the GPIO driver [mem|cdev|periph]")
	flags.StringP("chip", "c", "gpiochip0", "the GPIO chip used by the cdev driver")
	flags.StringP("log-level", "l", "info", "the log level [debug|info|warn|error]")
}

// loadConfig layers the flags that were set over the environment over the
// defaults.
func loadConfig(flags *pflag.FlagSet) *config.Config {
	def := dict.New(dict.WithMap(defaultConfig))
	fget := dict.New(dict.WithMap(setFlags(flags)))
	eget := env.New(env.WithEnvPrefix("BLINKER_"))
	// highest priority sources first - flags override environment
	cfg := config.New(config.NewStack(fget, eget), config.WithDefault(def))
	return cfg.GetConfig("", config.WithMust)
}

// interval returns the configured interval, which must be positive.
func interval(cfg *config.Config) (time.Duration, error) {
	v := cfg.MustGet("interval").Value()
	d, err := cfgconv.Duration(v)
	if err != nil {
		return 0, fmt.Errorf("can't parse interval '%v'", v)
	}
	if d <= 0 {
		return 0, fmt.Errorf("interval '%v' must be positive", v)
	}
	return d, nil
}

// setFlags returns the flags explicitly set on the command line, keyed by
// config key.
func setFlags(flags *pflag.FlagSet) map[string]interface{} {
	m := map[string]interface{}{}
	flags.Visit(func(f *pflag.Flag) {
		m[strings.ReplaceAll(f.Name, "-", "")] = f.Value.String()
	})
	return m
}

var pinNames = map[string]int{
	"J8P3":  mem.J8p3,
	"J8P03": mem.J8p3,
	"J8P5":  mem.J8p5,
	"J8P05": mem.J8p5,
	"J8P7":  mem.J8p7,
	"J8P07": mem.J8p7,
	"J8P8":  mem.J8p8,
	"J8P08": mem.J8p8,
	"J8P10": mem.J8p10,
	"J8P11": mem.J8p11,
	"J8P12": mem.J8p12,
	"J8P13": mem.J8p13,
	"J8P15": mem.J8p15,
	"J8P16": mem.J8p16,
	"J8P18": mem.J8p18,
	"J8P19": mem.J8p19,
	"J8P21": mem.J8p21,
	"J8P22": mem.J8p22,
	"J8P23": mem.J8p23,
	"J8P24": mem.J8p24,
	"J8P26": mem.J8p26,
	"J8P27": mem.J8p27,
	"J8P28": mem.J8p28,
	"J8P29": mem.J8p29,
	"J8P31": mem.J8p31,
	"J8P32": mem.J8p32,
	"J8P33": mem.J8p33,
	"J8P35": mem.J8p35,
	"J8P36": mem.J8p36,
	"J8P37": mem.J8p37,
	"J8P38": mem.J8p38,
	"J8P40": mem.J8p40,
}

// parsePin accepts either a J8 header name or a GPIO number.
// Range checking of numbers is left to the driver.
func parsePin(arg string) (int, error) {
	if o, ok := pinNames[strings.ToUpper(arg)]; ok {
		return o, nil
	}
	o, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("can't parse pin '%s'", arg)
	}
	return int(o), nil
}
