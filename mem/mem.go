// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package mem

import (
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/warthog618/blinker"
	"golang.org/x/sys/unix"
)

var (
	gpiomemPath = "/dev/gpiomem"

	// only one mapping of the registers may be open at a time.
	mapped atomic.Bool
)

// Open and memory map GPIO memory range from /dev/gpiomem.
func Open() (*Chip, error) {
	if !mapped.CompareAndSwap(false, true) {
		return nil, ErrAlreadyOpen
	}
	c, err := open()
	if err != nil {
		mapped.Store(false)
		return nil, err
	}
	return c, nil
}

func open() (*Chip, error) {
	file, err := os.OpenFile(gpiomemPath, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mem8, err := unix.Mmap(
		int(file.Fd()),
		0,
		memLength,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	// 32 bit view of the mapped bytes.
	mem := unsafe.Slice((*uint32)(unsafe.Pointer(&mem8[0])), len(mem8)/4)
	unmap := func() error {
		defer mapped.Store(false)
		return unix.Munmap(mem8)
	}
	return newChip(mem, unmap), nil
}

// Opener opens the register block as a blinker.Peripheral.
func Opener() (blinker.Peripheral, error) {
	c, err := Open()
	if err != nil {
		return nil, err
	}
	return c, nil
}
