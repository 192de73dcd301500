// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux

// blinker toggles an LED on a GPIO pin until interrupted, then turns it off
// and restores the pin to its original mode.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warthog618/blinker"
)

var version = "undefined"

var extendedHelp = `
Pins:
  Pins may be identified by name (J8pXX) or BCM number (0-27).

Configuration:
  Each flag may also be set from the environment, e.g. BLINKER_PIN=J8p7
  or BLINKER_LOGLEVEL=debug.  Flags override the environment.

The pin is driven low and returned to its original mode on SIGINT or SIGTERM.
Do not run this on a board where the pin is externally driven.
`

func newRootCmd(stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blinker",
		Short: "blinker toggles a GPIO pin until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return blink(cmd, stderr)
		},
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	addFlags(cmd.Flags())
	cmd.SetHelpTemplate(cmd.HelpTemplate() + extendedHelp)
	cmd.SetErr(stderr)
	return cmd
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command line args and returns the process exit status.
func run(args []string, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func blink(cmd *cobra.Command, stderr io.Writer) error {
	cfg := loadConfig(cmd.Flags())
	log, err := newLogger(cfg.MustGet("loglevel").String(), stderr)
	if err != nil {
		return err
	}
	pin, err := parsePin(cfg.MustGet("pin").String())
	if err != nil {
		return err
	}
	period, err := interval(cfg)
	if err != nil {
		return err
	}
	driver := cfg.MustGet("driver").String()
	open, err := newOpener(driver, cfg.MustGet("chip").String())
	if err != nil {
		return err
	}

	log.Info().
		Str("driver", driver).
		Int("pin", pin).
		Dur("interval", period).
		Msg("blinking")
	err = blinker.WithOutputPin(open, pin, func(h *blinker.Handle) error {
		// Never uninstalled, so a repeated signal during release can't
		// kill the process before the pin is restored.
		var intent blinker.Intent
		blinker.Install(&intent, blinker.TerminationSignals...)
		l := blinker.NewLoop(h, &intent,
			blinker.WithInterval(period),
			blinker.WithLogger(log))
		return l.Run()
	})
	if err != nil {
		return err
	}
	log.Info().Int("pin", pin).Msg("pin released")
	return nil
}
