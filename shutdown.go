// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blinker

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// TerminationSignals are the signals that request a shutdown.
var TerminationSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Intent records a request to shut down.
// It starts out clear and, once stopped, stays stopped.
// The zero value is ready to use.
type Intent struct {
	stop atomic.Bool
}

// Stop requests a shutdown.  It may be called any number of times from any
// goroutine.
func (i *Intent) Stop() {
	i.stop.Store(true)
}

// Stopped returns true once Stop has been called.
func (i *Intent) Stopped() bool {
	return i.stop.Load()
}

// Subscription is a registration of an Intent against a set of signals.
type Subscription struct {
	ch   chan os.Signal
	done chan struct{}
	once sync.Once
}

// Install stops the intent whenever one of the signals arrives.
//
// Delivery is handled by a single goroutine that does nothing but call
// intent.Stop, so the pin is never touched outside the main flow.
// The subscription is intended to live as long as the process; there is no
// need to Close it.
func Install(intent *Intent, sigs ...os.Signal) *Subscription {
	s := &Subscription{
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(s.ch, sigs...)
	go func() {
		defer close(s.done)
		for range s.ch {
			intent.Stop()
		}
	}()
	return s
}

// Close stops delivery of signals to the intent and waits for the
// forwarding goroutine to exit.
func (s *Subscription) Close() {
	s.once.Do(func() {
		signal.Stop(s.ch)
		close(s.ch)
	})
	<-s.done
}
