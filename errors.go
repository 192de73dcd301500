// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blinker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrPeripheralUnavailable indicates the GPIO subsystem could not be opened.
	ErrPeripheralUnavailable = errors.New("can't access GPIO peripheral")

	// ErrPinUnavailable indicates the pin could not be claimed as an output.
	ErrPinUnavailable = errors.New("can't access GPIO pin")

	// ErrHardwareIO indicates a write to a claimed pin failed.
	ErrHardwareIO = errors.New("GPIO write failed on pin")

	// ErrInvalidPin indicates the pin number is out of range.
	ErrInvalidPin = errors.New("pin out of range")

	// ErrPinClaimed indicates the pin is already claimed.
	ErrPinClaimed = errors.New("pin already claimed")

	// ErrClosed indicates the pin or peripheral has been released.
	ErrClosed = errors.New("closed")
)

// Error is a failed peripheral, pin or I/O operation.
//
// Kind is one of ErrPeripheralUnavailable, ErrPinUnavailable or
// ErrHardwareIO, so errors.Is(err, ErrPinUnavailable) identifies the class of
// failure while errors.Is(err, ErrPinClaimed) identifies the cause.
type Error struct {
	Kind error
	Pin  int
	Err  error
}

func (e *Error) Error() string {
	desc := e.Kind.Error()
	if e.Kind != ErrPeripheralUnavailable {
		desc = fmt.Sprintf("%s %d", desc, e.Pin)
	}
	if e.Err == nil {
		return desc
	}
	return fmt.Sprintf("%s (%s)", desc, e.Err)
}

// Is matches the Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// combine returns err with cerr appended, keeping single errors unwrapped.
func combine(err, cerr error) error {
	if cerr == nil {
		return err
	}
	if err == nil {
		return cerr
	}
	merr := multierror.Append(err, cerr)
	merr.ErrorFormat = joinErrors
	return merr
}

func joinErrors(errs []error) string {
	ss := make([]string, len(errs))
	for i, err := range errs {
		ss[i] = err.Error()
	}
	return strings.Join(ss, "; ")
}
