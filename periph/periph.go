// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package periph drives GPIO pins through the periph.io host drivers.
package periph

import (
	"fmt"

	"github.com/warthog618/blinker"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/host/v3"
)

// outPin is the subset of gpio.PinIO used by a Pin.
type outPin interface {
	Name() string
	Number() int
	In(pull gpio.Pull, edge gpio.Edge) error
	Out(l gpio.Level) error
}

// byName finds the pin registered as name.
var byName = func(name string) outPin {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil
	}
	return p
}

// Host is the initialised periph.io host.
type Host struct{}

// Open initialises the periph.io host drivers.
func Open() (*Host, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return &Host{}, nil
}

// Opener opens the host as a blinker.Peripheral.
func Opener() (blinker.Peripheral, error) {
	h, err := Open()
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Claim drives the pin GPIO<n> low, remembering its current function.
func (h *Host) Claim(n int) (blinker.OutputPin, error) {
	p := byName(fmt.Sprintf("GPIO%d", n))
	if p == nil {
		return nil, blinker.ErrInvalidPin
	}
	pp := &Pin{p: p, n: n}
	if pf, ok := p.(pin.PinFunc); ok {
		pp.orig = direction(pf.Func())
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, err
	}
	return pp, nil
}

// Close is a no-op; periph.io has no host teardown.
func (h *Host) Close() error {
	return nil
}

// Pin is a periph.io pin driven as an output.
type Pin struct {
	p      outPin
	n      int
	orig   pin.Func
	level  gpio.Level
	closed bool
}

// Pin returns the GPIO number.
func (p *Pin) Pin() int {
	return p.n
}

// Level returns the last level written to the pin.
func (p *Pin) Level() blinker.Level {
	return blinker.Level(p.level)
}

// Toggle inverts the pin level.
func (p *Pin) Toggle() error {
	return p.Write(blinker.Level(!p.level))
}

// Write sets the pin level.
func (p *Pin) Write(level blinker.Level) error {
	if p.closed {
		return blinker.ErrClosed
	}
	if err := p.p.Out(gpio.Level(level)); err != nil {
		return err
	}
	p.level = gpio.Level(level)
	return nil
}

// Close restores the function the pin had when claimed, or makes it an
// input if the function could not be determined.
// A pin that was an output is left driven low, and one that was an input
// keeps its current pull.
func (p *Pin) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	switch p.orig {
	case "", gpio.IN:
		return p.p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT:
		return p.p.Out(gpio.Low)
	}
	if pf, ok := p.p.(pin.PinFunc); ok {
		return pf.SetFunc(p.orig)
	}
	return p.p.In(gpio.PullNoChange, gpio.NoEdge)
}

// direction drops the level that drivers report alongside the IN and OUT
// functions, as SetFunc would otherwise map it to a pull or output level.
func direction(f pin.Func) pin.Func {
	switch f {
	case gpio.IN_LOW, gpio.IN_HIGH:
		return gpio.IN
	case gpio.OUT_LOW, gpio.OUT_HIGH:
		return gpio.OUT
	}
	return f
}
