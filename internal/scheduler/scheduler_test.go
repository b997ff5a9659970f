/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package scheduler

import (
	"testing"
	"time"
)

// fakeClock advances only when the loop sleeps or a test action does work
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) SleepUntil(t time.Time) {
	if t.After(c.now) {
		c.now = t
	}
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestRun_FastAndSlowCadence(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(time.Millisecond, 100*time.Millisecond, clock)

	fastCalls, slowCalls := 0, 0
	s.Run(func() bool {
		fastCalls++
		return fastCalls < 1000
	}, func() {
		slowCalls++
	})

	if fastCalls != 1000 {
		t.Errorf("expected 1000 fast ticks, got %d", fastCalls)
	}
	if slowCalls != 9 {
		t.Errorf("expected 9 slow ticks in 999ms, got %d", slowCalls)
	}
}

func TestRun_SlowFastTickDoesNotShiftSlowTick(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(time.Millisecond, 100*time.Millisecond, clock)
	start := clock.Now()

	var slowAt []time.Duration
	fastCalls := 0
	s.Run(func() bool {
		fastCalls++
		// every tenth tick overruns its period
		if fastCalls%10 == 0 {
			clock.Advance(7 * time.Millisecond)
		}
		return clock.Now().Sub(start) < time.Second
	}, func() {
		slowAt = append(slowAt, clock.Now().Sub(start))
	})

	if len(slowAt) < 8 {
		t.Fatalf("expected slow ticks to keep firing, got %v", slowAt)
	}
	for i := 1; i < len(slowAt); i++ {
		gap := slowAt[i] - slowAt[i-1]
		if gap < 90*time.Millisecond || gap > 115*time.Millisecond {
			t.Errorf("slow tick %d fired %v after the previous one", i, gap)
		}
	}
}

func TestRun_StopsImmediately(t *testing.T) {
	clock := newFakeClock()
	s := NewWithClock(time.Millisecond, 100*time.Millisecond, clock)

	slowCalls := 0
	s.Run(func() bool { return false }, func() { slowCalls++ })

	if slowCalls != 0 {
		t.Errorf("expected no slow tick, got %d", slowCalls)
	}
	if !clock.Now().Equal(time.Unix(1700000000, 0)) {
		t.Error("expected the loop to return without sleeping")
	}
}
