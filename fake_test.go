// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blinker

import (
	"errors"
)

// Fake hardware shared by the package tests.

var errFake = errors.New("fake failure")

type fakePin struct {
	pin       int
	mode      string
	level     Level
	writes    []Level
	toggleErr error
	writeErr  error
	closes    int
	closeErr  error
	released  bool
}

func (p *fakePin) Pin() int {
	return p.pin
}

func (p *fakePin) Level() Level {
	return p.level
}

func (p *fakePin) Toggle() error {
	if p.released {
		return ErrClosed
	}
	if p.toggleErr != nil {
		return p.toggleErr
	}
	p.level = !p.level
	p.writes = append(p.writes, p.level)
	return nil
}

func (p *fakePin) Write(l Level) error {
	if p.released {
		return ErrClosed
	}
	if p.writeErr != nil {
		return p.writeErr
	}
	p.level = l
	p.writes = append(p.writes, l)
	return nil
}

func (p *fakePin) Close() error {
	p.closes++
	p.released = true
	return p.closeErr
}

type fakePeripheral struct {
	// modes of the pins before they were claimed
	modes    map[int]string
	pins     map[int]*fakePin
	claimErr error
	closes   int
}

func newFakePeripheral() *fakePeripheral {
	return &fakePeripheral{
		modes: map[int]string{23: "input", 4: "alt0"},
		pins:  map[int]*fakePin{},
	}
}

func (f *fakePeripheral) Claim(pin int) (OutputPin, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	if _, ok := f.modes[pin]; !ok {
		return nil, ErrInvalidPin
	}
	p := &fakePin{pin: pin, mode: "output"}
	f.pins[pin] = p
	return p, nil
}

func (f *fakePeripheral) Close() error {
	f.closes++
	return nil
}

// mode returns the current mode of the pin as seen by the peripheral.
func (f *fakePeripheral) mode(pin int) string {
	if p, ok := f.pins[pin]; ok && !p.released {
		return p.mode
	}
	return f.modes[pin]
}

func (f *fakePeripheral) opener(err error) Opener {
	return func() (Peripheral, error) {
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
