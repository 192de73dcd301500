// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blinker

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sleeper records the sleeps requested by a Loop and runs a hook on each.
type sleeper struct {
	sleeps []time.Duration
	hook   func(n int)
}

func (s *sleeper) sleep(d time.Duration) {
	s.sleeps = append(s.sleeps, d)
	if s.hook != nil {
		s.hook(len(s.sleeps))
	}
}

func claimFake(t *testing.T, pin int) (*fakePeripheral, *Handle) {
	t.Helper()
	f := newFakePeripheral()
	h, err := ClaimOutput(f, pin)
	require.Nil(t, err)
	t.Cleanup(func() { h.Release() })
	return f, h
}

func TestLoopStopDuringSleep(t *testing.T) {
	f, h := claimFake(t, 23)
	var intent Intent
	s := sleeper{hook: func(n int) {
		if n == 1 {
			intent.Stop()
		}
	}}
	l := NewLoop(h, &intent, WithSleeper(s.sleep))
	assert.Nil(t, l.Run())

	// low -> high, sleep, stop noticed, forced low
	assert.Equal(t, []Level{High, Low}, f.pins[23].writes)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, s.sleeps)
	assert.Equal(t, 1, l.Toggles())
	assert.Equal(t, Low, h.Level())

	assert.Nil(t, h.Release())
	assert.Equal(t, "input", f.mode(23))
}

func TestLoopStopLatency(t *testing.T) {
	for _, stopAt := range []int{1, 2, 5, 10} {
		_, h := claimFake(t, 4)
		var intent Intent
		s := sleeper{hook: func(n int) {
			if n == stopAt {
				intent.Stop()
			}
		}}
		l := NewLoop(h, &intent, WithSleeper(s.sleep), WithInterval(time.Millisecond))
		assert.Nil(t, l.Run())
		// no further sleep once the stop has been set
		assert.Len(t, s.sleeps, stopAt)
		assert.Equal(t, stopAt, l.Toggles())
		assert.Equal(t, Low, h.Level())
		assert.Nil(t, h.Release())
	}
}

func TestLoopRepeatedStop(t *testing.T) {
	f, h := claimFake(t, 23)
	var intent Intent
	s := sleeper{hook: func(n int) {
		if n >= 2 {
			intent.Stop()
			intent.Stop()
			intent.Stop()
		}
	}}
	l := NewLoop(h, &intent, WithSleeper(s.sleep))
	assert.Nil(t, l.Run())
	assert.Equal(t, 2, l.Toggles())
	assert.Equal(t, []Level{High, Low, Low}, f.pins[23].writes)
}

func TestLoopStoppedBeforeStart(t *testing.T) {
	f, h := claimFake(t, 23)
	h.Write(High)
	var intent Intent
	intent.Stop()
	s := sleeper{}
	l := NewLoop(h, &intent, WithSleeper(s.sleep))
	assert.Nil(t, l.Run())
	assert.Zero(t, l.Toggles())
	assert.Empty(t, s.sleeps)
	assert.Equal(t, []Level{High, Low}, f.pins[23].writes)
}

func TestLoopToggleFailure(t *testing.T) {
	f, h := claimFake(t, 4)
	var intent Intent
	s := sleeper{hook: func(n int) {
		if n == 3 {
			f.pins[4].toggleErr = errFake
		}
	}}
	l := NewLoop(h, &intent, WithSleeper(s.sleep))
	err := l.Run()
	assert.ErrorIs(t, err, ErrHardwareIO)
	assert.ErrorIs(t, err, errFake)
	assert.Equal(t, 3, l.Toggles())
	// best-effort low after the failure
	assert.Equal(t, Low, h.Level())

	assert.Nil(t, h.Release())
	assert.Equal(t, "alt0", f.mode(4))
}

func TestLoopPersistentFailure(t *testing.T) {
	f, h := claimFake(t, 4)
	f.pins[4].toggleErr = errFake
	f.pins[4].writeErr = errFake
	var intent Intent
	s := sleeper{}
	l := NewLoop(h, &intent, WithSleeper(s.sleep))
	err := l.Run()
	assert.ErrorIs(t, err, ErrHardwareIO)
	assert.Empty(t, s.sleeps)
	assert.Equal(t,
		"GPIO write failed on pin 4 (fake failure); GPIO write failed on pin 4 (fake failure)",
		err.Error())

	// the mode is restored regardless
	assert.Nil(t, h.Release())
	assert.Equal(t, "alt0", f.mode(4))
}

func TestLoopStopFailure(t *testing.T) {
	f, h := claimFake(t, 23)
	var intent Intent
	s := sleeper{hook: func(n int) {
		f.pins[23].writeErr = errFake
		intent.Stop()
	}}
	l := NewLoop(h, &intent, WithSleeper(s.sleep))
	err := l.Run()
	assert.ErrorIs(t, err, ErrHardwareIO)
	assert.Equal(t, High, h.Level())
}

func TestLoopLogging(t *testing.T) {
	_, h := claimFake(t, 23)
	var intent Intent
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	s := sleeper{hook: func(n int) { intent.Stop() }}
	l := NewLoop(h, &intent, WithSleeper(s.sleep), WithLogger(log))
	require.Nil(t, l.Run())
	out := buf.String()
	assert.Contains(t, out, `"level":"debug","pin":23,"value":"high","message":"toggled"`)
	assert.Contains(t, out, `"toggles":1,"message":"shutdown requested"`)
}

func TestLoopRealSleep(t *testing.T) {
	_, h := claimFake(t, 23)
	var intent Intent
	l := NewLoop(h, &intent, WithInterval(time.Millisecond))
	done := make(chan error)
	go func() {
		done <- l.Run()
	}()
	time.Sleep(20 * time.Millisecond)
	intent.Stop()
	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.Equal(t, Low, h.Level())
}
