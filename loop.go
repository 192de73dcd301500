// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blinker

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the time spent at each level.
const DefaultInterval = 500 * time.Millisecond

// Toggler is the pin driven by a Loop.
type Toggler interface {
	Pin() int
	Toggle() error
	Write(Level) error
	Level() Level
}

// Stopper reports whether a shutdown has been requested.
type Stopper interface {
	Stopped() bool
}

// Loop toggles a pin at a fixed interval until stopped.
type Loop struct {
	pin      Toggler
	intent   Stopper
	interval time.Duration
	sleep    func(time.Duration)
	log      zerolog.Logger
	toggles  int
}

// LoopOption modifies the configuration of a Loop.
type LoopOption func(*Loop)

// WithInterval sets the time between toggles.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.interval = d
	}
}

// WithSleeper replaces time.Sleep as the means of waiting between toggles.
func WithSleeper(sleep func(time.Duration)) LoopOption {
	return func(l *Loop) {
		l.sleep = sleep
	}
}

// WithLogger sets the logger.  The default discards everything.
func WithLogger(log zerolog.Logger) LoopOption {
	return func(l *Loop) {
		l.log = log
	}
}

// NewLoop creates a Loop driving pin until intent is stopped.
func NewLoop(pin Toggler, intent Stopper, opts ...LoopOption) *Loop {
	l := &Loop{
		pin:      pin,
		intent:   intent,
		interval: DefaultInterval,
		sleep:    time.Sleep,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run toggles the pin, then sleeps, until the intent is stopped, and then
// drives the pin low.
//
// The intent is only checked before each toggle, so a stop that arrives
// during a sleep is noticed once that sleep completes.
//
// A failed toggle ends the loop immediately.  The pin is driven low on a
// best-effort basis and the toggle error returned.
func (l *Loop) Run() error {
	for !l.intent.Stopped() {
		if err := l.pin.Toggle(); err != nil {
			l.log.Error().Err(err).Int("pin", l.pin.Pin()).Msg("toggle failed")
			return combine(err, l.pin.Write(Low))
		}
		l.toggles++
		l.log.Debug().Int("pin", l.pin.Pin()).Stringer("value", l.pin.Level()).Msg("toggled")
		l.sleep(l.interval)
	}
	l.log.Info().Int("pin", l.pin.Pin()).Int("toggles", l.toggles).Msg("shutdown requested")
	return l.pin.Write(Low)
}

// Toggles returns the number of successful toggles performed by Run.
func (l *Loop) Toggles() int {
	return l.toggles
}
