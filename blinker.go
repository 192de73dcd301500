// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package blinker drives a single GPIO output in a periodic on/off pattern
// until a termination signal arrives, then leaves the pin low with its
// original mode restored.
//
// Example of use:
//
//	err := blinker.WithOutputPin(mem.Opener, 23, func(pin *blinker.Handle) error {
//		var intent blinker.Intent
//		blinker.Install(&intent, blinker.TerminationSignals...)
//		return blinker.NewLoop(pin, &intent).Run()
//	})
//
// The hardware is reached through a Peripheral, which hands out OutputPins.
// The mem, cdev and periph subpackages provide Peripherals for the
// /dev/gpiomem register block, the GPIO character device and periph.io
// respectively.
package blinker

// Level represents the high (true) or low (false) level of a pin.
type Level bool

// Level of pin, High / Low
const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// OutputPin is a single line claimed as an output by a Peripheral.
type OutputPin interface {
	// Pin returns the pin number.
	Pin() int
	// Level returns the last level written to the pin.
	Level() Level
	// Toggle inverts the level of the pin.
	Toggle() error
	// Write sets the level of the pin.
	Write(Level) error
	// Close restores the mode the pin had before it was claimed.
	Close() error
}

// Peripheral is an opened GPIO subsystem.
type Peripheral interface {
	// Claim configures the pin as an output.
	Claim(pin int) (OutputPin, error)
	// Close releases the subsystem.
	Close() error
}

// Opener opens a Peripheral.
type Opener func() (Peripheral, error)
