// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

// Package cdev drives GPIO lines through the Linux GPIO character device.
//
// Unlike the mem package this works on any platform with a GPIO chip driver,
// and the kernel refuses lines already requested by another process.
package cdev

import (
	"github.com/warthog618/blinker"
	"github.com/warthog618/go-gpiocdev"
)

// Consumer is the label the kernel reports for lines held by this package.
const Consumer = "blinker"

// line is the subset of gpiocdev.Line used by a Pin.
type line interface {
	SetValue(value int) error
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	Close() error
}

type chip interface {
	Lines() int
	LineInfo(offset int) (gpiocdev.LineInfo, error)
	RequestLine(offset int, options ...gpiocdev.LineReqOption) (line, error)
	Close() error
}

type cdevChip struct {
	*gpiocdev.Chip
}

func (c cdevChip) RequestLine(offset int, options ...gpiocdev.LineReqOption) (line, error) {
	l, err := c.Chip.RequestLine(offset, options...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Chip is an opened GPIO chip.
type Chip struct {
	c chip
}

// Open opens the named chip, e.g. "gpiochip0".
func Open(name string) (*Chip, error) {
	c, err := gpiocdev.NewChip(name, gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, err
	}
	return &Chip{c: cdevChip{c}}, nil
}

// Opener returns a blinker.Opener for the named chip.
func Opener(name string) blinker.Opener {
	return func() (blinker.Peripheral, error) {
		c, err := Open(name)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Claim requests the line as an output, initially low.
func (c *Chip) Claim(offset int) (blinker.OutputPin, error) {
	if offset < 0 || offset >= c.c.Lines() {
		return nil, blinker.ErrInvalidPin
	}
	info, err := c.c.LineInfo(offset)
	if err != nil {
		return nil, err
	}
	if info.Used {
		return nil, blinker.ErrPinClaimed
	}
	l, err := c.c.RequestLine(offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, err
	}
	return &Pin{
		l:      l,
		offset: offset,
		input:  info.Config.Direction == gpiocdev.LineDirectionInput,
	}, nil
}

// Close closes the chip.  Lines already requested remain valid.
func (c *Chip) Close() error {
	return c.c.Close()
}

// Pin is a line requested as an output.
type Pin struct {
	l      line
	offset int
	// the line was an input before it was requested.
	input  bool
	value  int
	closed bool
}

// Pin returns the line offset.
func (p *Pin) Pin() int {
	return p.offset
}

// Level returns the last level written to the line.
func (p *Pin) Level() blinker.Level {
	return p.value == 1
}

// Toggle inverts the line level.
func (p *Pin) Toggle() error {
	return p.set(p.value ^ 1)
}

// Write sets the line level.
func (p *Pin) Write(level blinker.Level) error {
	v := 0
	if level {
		v = 1
	}
	return p.set(v)
}

func (p *Pin) set(v int) error {
	if p.closed {
		return blinker.ErrClosed
	}
	if err := p.l.SetValue(v); err != nil {
		return err
	}
	p.value = v
	return nil
}

// Close reverts the line to an input, if it was one, and releases it.
func (p *Pin) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	var err error
	if p.input {
		err = p.l.Reconfigure(gpiocdev.AsInput)
	}
	if cerr := p.l.Close(); err == nil {
		err = cerr
	}
	return err
}
