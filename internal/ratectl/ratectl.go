/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package ratectl turns the speed dial into a bounded playback rate.
package ratectl

import (
	"varispeed/pkg/spec"

	"go.uber.org/zap"
)

// Params describe the dial dead zone and the rate bounds.
type Params struct {
	// Values strictly below Low slow down, strictly above High speed up.
	Low  uint8
	High uint8

	Step float64
	Min  float64
	Max  float64
}

// DefaultParams returns the factory calibration.
func DefaultParams() Params {
	return Params{
		Low:  spec.DefaultDialLow,
		High: spec.DefaultDialHigh,
		Step: spec.DefaultRateStep,
		Min:  spec.DefaultRateMin,
		Max:  spec.DefaultRateMax,
	}
}

// Direction is +1, -1 or 0 depending on which side of the dead zone the dial is.
func (p Params) Direction(analog uint8) int {
	switch {
	case analog > p.High:
		return 1
	case analog < p.Low:
		return -1
	default:
		return 0
	}
}

// Next moves current one step in the dial's direction, clamped to [Min, Max].
func (p Params) Next(analog uint8, current float64) float64 {
	return p.Clamp(current + float64(p.Direction(analog))*p.Step)
}

// Clamp bounds rate to [Min, Max].
func (p Params) Clamp(rate float64) float64 {
	if rate < p.Min {
		return p.Min
	}
	if rate > p.Max {
		return p.Max
	}
	return rate
}

// ShouldPush reports whether the engine needs a new rate.
func ShouldPush(current, lastPushed float64) bool {
	return current != lastPushed
}

// Setter applies a rate to the media engine.
type Setter interface {
	SetRate(rate float64) error
}

// Controller owns the playback rate. Update is called every fast tick,
// Push only on the slow tick.
type Controller struct {
	params     Params
	rate       float64
	lastPushed float64
	logger     *zap.SugaredLogger
}

// NewController starts at spec.DefaultRate, which the engine is assumed to
// already play at.
func NewController(params Params, logger *zap.SugaredLogger) *Controller {
	rate := params.Clamp(spec.DefaultRate)
	return &Controller{
		params:     params,
		rate:       rate,
		lastPushed: rate,
		logger:     logger.Named("ratectl"),
	}
}

// Update folds one dial reading into the rate and returns the new rate.
func (c *Controller) Update(analog uint8) float64 {
	c.rate = c.params.Next(analog, c.rate)
	return c.rate
}

// Current returns the accumulated rate.
func (c *Controller) Current() float64 {
	return c.rate
}

// Pushed returns the rate last accepted by the engine.
func (c *Controller) Pushed() float64 {
	return c.lastPushed
}

// Push sends the rate to s if it changed since the last successful push.
// It reports whether s was called.
func (c *Controller) Push(s Setter) bool {
	if !ShouldPush(c.rate, c.lastPushed) {
		return false
	}

	if err := s.SetRate(c.rate); err != nil {
		c.logger.Warnw("Failed to push playback rate", "rate", c.rate, "error", err)
		return true
	}

	c.logger.Debugw("Pushed playback rate", "rate", c.rate, "previous", c.lastPushed)
	c.lastPushed = c.rate
	return true
}

// MarkPushed records rate as applied by a path other than Push, such as a
// pipeline (re)start.
func (c *Controller) MarkPushed(rate float64) {
	c.lastPushed = rate
}
