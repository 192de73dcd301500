// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mem drives Raspberry Pi (rev 2 and later) GPIO pins through the
// BCM2835/BCM2711 registers mapped from /dev/gpiomem.
//
// Only output pins are supported.  A claimed pin remembers the function it
// had beforehand and restores it when closed.
//
// The package uses the raw BCM2835 pin numbers, not the ports as they are
// mapped on the J8 header.  A mapping from J8 to BCM is provided for those
// wanting to use the J8 numbering.
//
// See the datasheet for full details of the BCM2835 controller:
// http://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf
package mem

import (
	"errors"
	"sync"

	"github.com/warthog618/blinker"
)

// Mode defines the function of a pin, as held in the function select
// register.
type Mode int

const (
	memLength = 4096

	modeMask uint32 = 7 // pin mode is 3 bits wide
)

// Pin Mode, a pin can be set in Input or Output mode
const (
	Input Mode = iota
	Output
	Alt5
	Alt4
	Alt0
	Alt1
	Alt2
	Alt3
)

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

var modeNames = []string{"input", "output", "alt5", "alt4", "alt0", "alt1", "alt2", "alt3"}

// GPIO pins available on the J8 header.
const (
	GPIO0 = iota
	GPIO1
	GPIO2
	GPIO3
	GPIO4
	GPIO5
	GPIO6
	GPIO7
	GPIO8
	GPIO9
	GPIO10
	GPIO11
	GPIO12
	GPIO13
	GPIO14
	GPIO15
	GPIO16
	GPIO17
	GPIO18
	GPIO19
	GPIO20
	GPIO21
	GPIO22
	GPIO23
	GPIO24
	GPIO25
	GPIO26
	GPIO27
	MaxGPIOPin
)

// Convenience mapping from J8 pinouts to BCM pinouts.
const (
	J8p3  = GPIO2
	J8p5  = GPIO3
	J8p7  = GPIO4
	J8p8  = GPIO14
	J8p10 = GPIO15
	J8p11 = GPIO17
	J8p12 = GPIO18
	J8p13 = GPIO27
	J8p15 = GPIO22
	J8p16 = GPIO23
	J8p18 = GPIO24
	J8p19 = GPIO10
	J8p21 = GPIO9
	J8p22 = GPIO25
	J8p23 = GPIO11
	J8p24 = GPIO8
	J8p26 = GPIO7
	J8p27 = GPIO0
	J8p28 = GPIO1
	J8p29 = GPIO5
	J8p31 = GPIO6
	J8p32 = GPIO12
	J8p33 = GPIO13
	J8p35 = GPIO19
	J8p36 = GPIO16
	J8p37 = GPIO26
	J8p38 = GPIO20
	J8p40 = GPIO21
)

var (
	// ErrAlreadyOpen indicates the mem is already open.
	ErrAlreadyOpen = errors.New("already open")
)

// Chip is the mapped GPIO register block.
type Chip struct {
	// The mu covers read/modify/write access to the mem block, and the
	// mapping itself.
	// Individual register writes are assumed atomic.
	mu    sync.Mutex
	mem   []uint32
	unmap func() error
}

// newChip wraps a register block.
// unmap is called on Close, and may be nil.
func newChip(mem []uint32, unmap func() error) *Chip {
	return &Chip{mem: mem, unmap: unmap}
}

// Claim switches the pin to Output, remembering its current mode.
// The pin number provided is the BCM GPIO number.
func (c *Chip) Claim(pin int) (blinker.OutputPin, error) {
	if pin < 0 || pin >= MaxGPIOPin {
		return nil, blinker.ErrInvalidPin
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.mem) == 0 {
		return nil, blinker.ErrClosed
	}

	// Pre-calculate commonly used register addresses and bit masks.

	// This seems like overkill given the J8 pins are all on the first bank...
	bank := pin / 32

	p := &Pin{
		chip: c,
		pin:  pin,
		// Pin fsel register, 0 - 5 depending on pin
		fsel: pin / 10,
		mask: uint32(1 << uint(pin&0x1f)),
		// Input level register offset (13 / 14 depending on bank)
		levelReg: 13 + bank,
		// Clear register, 10 / 11 depending on bank
		clearReg: 10 + bank,
		// Set register, 7 / 8 depending on bank
		setReg: 7 + bank,
	}
	if c.mem[p.levelReg]&p.mask != 0 {
		p.shadow = blinker.High
	}
	p.orig = p.mode()
	p.setMode(Output)
	return p, nil
}

// Mode returns the mode of the pin in the Function Select register.
func (c *Chip) Mode(pin int) (Mode, error) {
	if pin < 0 || pin >= MaxGPIOPin {
		return Input, blinker.ErrInvalidPin
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.mem) == 0 {
		return Input, blinker.ErrClosed
	}
	p := Pin{chip: c, pin: pin, fsel: pin / 10}
	return p.mode(), nil
}

// Close unmaps the register block.
// Pins claimed from the Chip can no longer be driven or restored.
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.mem) == 0 {
		return nil
	}
	c.mem = nil
	if c.unmap == nil {
		return nil
	}
	return c.unmap()
}

// Pin is a GPIO pin claimed as an output.
type Pin struct {
	chip *Chip
	// Immutable fields
	pin      int
	fsel     int
	levelReg int
	clearReg int
	setReg   int
	mask     uint32
	orig     Mode
	// Mutable fields
	shadow blinker.Level
	closed bool
}

// Pin returns the pin number that this Pin represents.
func (p *Pin) Pin() int {
	return p.pin
}

// Level returns the value of the last write to the pin.
func (p *Pin) Level() blinker.Level {
	return p.shadow
}

// Original returns the mode the pin had when it was claimed.
func (p *Pin) Original() Mode {
	return p.orig
}

// Toggle pin state
func (p *Pin) Toggle() error {
	return p.Write(!p.shadow)
}

// Write sets the pin state (high/low).
func (p *Pin) Write(level blinker.Level) error {
	c := p.chip
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.closed || len(c.mem) == 0 {
		return blinker.ErrClosed
	}
	if level == blinker.Low {
		c.mem[p.clearReg] = p.mask
	} else {
		c.mem[p.setReg] = p.mask
	}
	p.shadow = level
	return nil
}

// Close restores the pin to the mode it had when claimed.
func (p *Pin) Close() error {
	c := p.chip
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.closed {
		return nil
	}
	if len(c.mem) == 0 {
		return blinker.ErrClosed
	}
	p.closed = true
	p.setMode(p.orig)
	return nil
}

// mode and setMode require the chip lock.
func (p *Pin) mode() Mode {
	// shift for pin mode field within fsel register.
	modeShift := uint(p.pin%10) * 3
	return Mode(p.chip.mem[p.fsel] >> modeShift & modeMask)
}

func (p *Pin) setMode(mode Mode) {
	modeShift := uint(p.pin%10) * 3
	mem := p.chip.mem
	mem[p.fsel] = mem[p.fsel]&^(modeMask<<modeShift) | uint32(mode)<<modeShift
}
