// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux

package main

import (
	"fmt"

	"github.com/warthog618/blinker"
	"github.com/warthog618/blinker/cdev"
	"github.com/warthog618/blinker/mem"
	"github.com/warthog618/blinker/periph"
)

// drivers maps a driver name to the Opener for a named chip.
// The chip is only meaningful to the cdev driver.
var drivers = map[string]func(chip string) blinker.Opener{
	"mem":    func(string) blinker.Opener { return mem.Opener },
	"cdev":   cdev.Opener,
	"periph": func(string) blinker.Opener { return periph.Opener },
}

func newOpener(driver, chip string) (blinker.Opener, error) {
	if d, ok := drivers[driver]; ok {
		return d(chip), nil
	}
	return nil, &blinker.Error{
		Kind: blinker.ErrPeripheralUnavailable,
		Err:  fmt.Errorf("unknown driver '%s'", driver),
	}
}
