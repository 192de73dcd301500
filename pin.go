// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blinker

import (
	"errors"
	"sync"
)

// The claims registry enforces at most one Handle per pin in the process,
// regardless of which Peripheral the pin was claimed from.
var (
	claimsMu sync.Mutex
	claims   = map[int]bool{}
)

func reserve(pin int) error {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	if claims[pin] {
		return ErrPinClaimed
	}
	claims[pin] = true
	return nil
}

func unreserve(pin int) {
	claimsMu.Lock()
	delete(claims, pin)
	claimsMu.Unlock()
}

// Acquire opens the GPIO subsystem.
// Any failure is returned as an Error of kind ErrPeripheralUnavailable.
func Acquire(open Opener) (Peripheral, error) {
	p, err := open()
	if err != nil {
		return nil, &Error{Kind: ErrPeripheralUnavailable, Err: err}
	}
	return p, nil
}

// ClaimOutput claims the pin from the peripheral and configures it as an
// output.  The returned Handle must be released to restore the pin's
// original mode.
// Any failure is returned as an Error of kind ErrPinUnavailable, and leaves
// the pin untouched.
func ClaimOutput(p Peripheral, pin int) (*Handle, error) {
	if pin < 0 {
		return nil, &Error{Kind: ErrPinUnavailable, Pin: pin, Err: ErrInvalidPin}
	}
	if err := reserve(pin); err != nil {
		return nil, &Error{Kind: ErrPinUnavailable, Pin: pin, Err: err}
	}
	out, err := p.Claim(pin)
	if err != nil {
		unreserve(pin)
		return nil, &Error{Kind: ErrPinUnavailable, Pin: pin, Err: err}
	}
	return &Handle{out: out, pin: pin}, nil
}

// Handle is exclusive ownership of one pin configured as an output.
type Handle struct {
	out  OutputPin
	pin  int
	once sync.Once
	err  error
}

// Pin returns the pin number.
func (h *Handle) Pin() int {
	return h.pin
}

// Level returns the last level written to the pin.
func (h *Handle) Level() Level {
	return h.out.Level()
}

// Toggle inverts the level of the pin.
func (h *Handle) Toggle() error {
	return h.ioErr(h.out.Toggle())
}

// Write sets the level of the pin.
func (h *Handle) Write(level Level) error {
	return h.ioErr(h.out.Write(level))
}

// Low sets the pin Low.
func (h *Handle) Low() error {
	return h.Write(Low)
}

// Release restores the original mode of the pin and gives up the claim.
// Only the first call has any effect; later calls return its result.
func (h *Handle) Release() error {
	h.once.Do(func() {
		h.err = h.out.Close()
		unreserve(h.pin)
	})
	return h.err
}

func (h *Handle) ioErr(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrHardwareIO, Pin: h.pin, Err: err}
}

// WithOutputPin opens the peripheral, claims the pin as an output and calls
// fn with it.
// The pin is released, then the peripheral closed, on every path out of
// WithOutputPin, including a panic in fn.  Release failures are combined
// with any error returned by fn.
func WithOutputPin(open Opener, pin int, fn func(*Handle) error) (err error) {
	p, err := Acquire(open)
	if err != nil {
		return err
	}
	defer func() {
		err = combine(err, p.Close())
	}()
	h, err := ClaimOutput(p, pin)
	if err != nil {
		return err
	}
	defer func() {
		err = combine(err, h.Release())
	}()
	return fn(h)
}
