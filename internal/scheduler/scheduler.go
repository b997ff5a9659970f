/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package scheduler runs a fast and a slow periodic action on one goroutine.
package scheduler

import "time"

// Clock is the monotonic time source of the loop.
type Clock interface {
	Now() time.Time
	SleepUntil(t time.Time)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) SleepUntil(t time.Time) {
	if d := time.Until(t); d > 0 {
		time.Sleep(d)
	}
}

// Scheduler gates two actions on their own periods. Each period is
// measured from that action's previous fire, so a late iteration delays
// only the action that was late.
type Scheduler struct {
	fast  time.Duration
	slow  time.Duration
	clock Clock
}

func New(fast, slow time.Duration) *Scheduler {
	return NewWithClock(fast, slow, systemClock{})
}

func NewWithClock(fast, slow time.Duration, clock Clock) *Scheduler {
	return &Scheduler{fast: fast, slow: slow, clock: clock}
}

// Run calls fast every fast period and slow every slow period until fast
// returns false. The fast action fires on the first iteration, the slow
// one only after a full slow period.
func (s *Scheduler) Run(fast func() bool, slow func()) {
	now := s.clock.Now()
	lastFast := now.Add(-s.fast)
	lastSlow := now

	for {
		now = s.clock.Now()

		if now.Sub(lastFast) >= s.fast {
			lastFast = now
			if !fast() {
				return
			}
		}

		if now.Sub(lastSlow) >= s.slow {
			lastSlow = now
			slow()
		}

		next := lastFast.Add(s.fast)
		if t := lastSlow.Add(s.slow); t.Before(next) {
			next = t
		}
		s.clock.SleepUntil(next)
	}
}
