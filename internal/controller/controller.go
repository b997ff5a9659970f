/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package controller sequences the playback lifecycle from panel input and
// pipeline events.
package controller

import (
	"errors"
	"fmt"
	"time"

	"varispeed/internal/panel"
	"varispeed/internal/ratectl"
	"varispeed/pkg/audioengine"

	"go.uber.org/zap"
)

var ErrEngineFailure = errors.New("controller: engine reported an error")

// Pipeline is the part of the media engine the controller drives.
type Pipeline interface {
	Start() error
	Pause() error
	Seek(pos time.Duration) error
	SetRate(rate float64) error
	Position() (time.Duration, bool)
	Duration() (time.Duration, bool)
	Seeking() (bool, time.Duration, time.Duration)
	PollEvent(timeout time.Duration) (audioengine.Event, bool)
}

type Sampler interface {
	Sample() (panel.Sample, error)
}

type Display interface {
	Update(pos, dur time.Duration, durKnown bool)
	Done()
}

// Runner drives the fast and slow ticks, see scheduler.Scheduler.
type Runner interface {
	Run(fast func() bool, slow func())
}

type Options struct {
	// PollTimeout bounds the event wait of a Running tick.
	PollTimeout time.Duration

	// ExitOnTerminate ends the loop after an end-of-stream instead of
	// returning to Idle. An engine error always ends the loop.
	ExitOnTerminate bool
}

// Controller owns the lifecycle state. It is not safe for concurrent use;
// every method runs on the scheduler goroutine.
type Controller struct {
	pipeline Pipeline
	sampler  Sampler
	rate     *ratectl.Controller
	display  Display
	opts     Options
	logger   *zap.SugaredLogger

	state State

	playRequested bool
	terminate     bool
	exitPending   bool

	// engine Error selalu mengakhiri loop, apa pun ExitOnTerminate
	fatal     bool
	engineErr string

	playing       bool
	seekProbed    bool
	seekEnabled   bool
	duration      time.Duration
	durationValid bool

	// previous button levels, for edge detection
	playLevel bool
	stopLevel bool

	inputFailures int

	trace func(from, to State)
}

func New(p Pipeline, s Sampler, rate *ratectl.Controller, d Display, opts Options, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		pipeline: p,
		sampler:  s,
		rate:     rate,
		display:  d,
		opts:     opts,
		logger:   logger.Named("controller"),
		state:    Init,
	}
}

func (c *Controller) State() State {
	return c.state
}

// SeekEnabled reports the result of the seek capability probe.
func (c *Controller) SeekEnabled() bool {
	return c.seekEnabled
}

// Run drives the loop until Exit. It returns an error wrapping
// ErrEngineFailure when the loop ended because of an engine error.
func (c *Controller) Run(r Runner) error {
	c.logger.Debugw("Control loop starting", "pollTimeout", c.opts.PollTimeout, "exitOnTerminate", c.opts.ExitOnTerminate)
	r.Run(c.FastTick, c.SlowTick)

	if c.engineErr != "" {
		return fmt.Errorf("%w: %s", ErrEngineFailure, c.engineErr)
	}
	return nil
}

// FastTick samples the panel, folds the dial into the rate and steps the
// state machine once. It returns false once Exit is reached.
func (c *Controller) FastTick() bool {
	smp, err := c.sampler.Sample()
	if err != nil {
		c.inputFailed(err)
		c.Step(nil)
	} else {
		c.inputRecovered()
		c.rate.Update(smp.Analog)
		c.Step(&smp)
	}
	return c.state != Exit
}

// SlowTick pushes the rate to the pipeline when it changed.
func (c *Controller) SlowTick() {
	c.rate.Push(c.pipeline)
}

// Step evaluates one transition. A nil sample means the panel could not be
// read this tick.
func (c *Controller) Step(smp *panel.Sample) {
	play, stop := c.presses(smp)

	switch c.state {
	case Init:
		c.playRequested = true
		c.transition(Idle)

	case Idle:
		if play {
			c.playRequested = true
		}
		if c.playRequested {
			c.playRequested = false
			c.transition(Starting)
		}

	case Starting:
		c.start()

	case Running:
		switch {
		case c.terminate:
			c.exitPending = true
			c.transition(Stopping)
		case stop:
			c.transition(Stopping)
		case play:
			c.transition(Pausing)
		default:
			c.poll()
		}

	case Pausing:
		if err := c.pipeline.Pause(); err != nil {
			c.logger.Warnw("Failed to pause pipeline", "error", err)
		}
		c.display.Done()
		c.transition(Idle)

	case Stopping:
		c.stop()

	case Exit:
	}
}

func (c *Controller) start() {
	rate := c.rate.Current()
	if err := c.pipeline.SetRate(rate); err != nil {
		c.logger.Warnw("Failed to apply playback rate", "rate", rate, "error", err)
	} else {
		c.rate.MarkPushed(rate)
	}

	if err := c.pipeline.Start(); err != nil {
		c.logger.Warnw("Unable to set the pipeline to the playing state", "error", err)
		c.transition(Idle)
		return
	}
	c.transition(Running)
}

func (c *Controller) stop() {
	if err := c.pipeline.Pause(); err != nil {
		c.logger.Warnw("Failed to pause pipeline", "error", err)
	}
	if err := c.pipeline.Seek(0); err != nil {
		c.logger.Warnw("Failed to rewind pipeline", "error", err)
	}
	c.display.Done()

	if c.fatal || (c.exitPending && c.opts.ExitOnTerminate) {
		c.transition(Exit)
		return
	}
	c.exitPending = false
	c.terminate = false
	c.transition(Idle)
}

// poll handles at most one pipeline event and refreshes the display while
// the pipeline is playing.
func (c *Controller) poll() {
	if ev, ok := c.pipeline.PollEvent(c.opts.PollTimeout); ok {
		c.handleEvent(ev)
		return
	}

	if c.playing {
		c.refresh()
	}
}

func (c *Controller) handleEvent(ev audioengine.Event) {
	switch ev.Kind {
	case audioengine.EventError:
		c.logger.Errorw("Error received from pipeline", "message", ev.Message)
		c.engineErr = ev.Message
		c.fatal = true
		c.terminate = true

	case audioengine.EventEndOfStream:
		c.logger.Info("End-Of-Stream reached")
		c.terminate = true

	case audioengine.EventDurationChanged:
		c.durationValid = false

	case audioengine.EventStateChanged:
		c.logger.Debugw("Pipeline state changed", "from", ev.Old, "to", ev.New)
		c.playing = ev.New == audioengine.StatePlaying
		if c.playing && !c.seekProbed {
			c.probeSeeking()
		}

	default:
		c.logger.Warnw("Unexpected message received", "event", ev)
	}
}

func (c *Controller) probeSeeking() {
	c.seekProbed = true

	enabled, start, end := c.pipeline.Seeking()
	c.seekEnabled = enabled
	if enabled {
		c.logger.Infow("Seeking is ENABLED", "from", start, "to", end)
	} else {
		c.logger.Info("Seeking is DISABLED for this stream")
	}
}

func (c *Controller) refresh() {
	pos, ok := c.pipeline.Position()
	if !ok {
		c.logger.Debug("Could not query current position")
		return
	}

	if !c.durationValid {
		if d, ok := c.pipeline.Duration(); ok {
			c.duration = d
			c.durationValid = true
		}
	}
	c.display.Update(pos, c.duration, c.durationValid)
}

// presses returns the rising edges of both buttons. A missing sample leaves
// the remembered levels untouched.
func (c *Controller) presses(smp *panel.Sample) (play, stop bool) {
	if smp == nil {
		return false, false
	}

	play = smp.PlayPressed && !c.playLevel
	stop = smp.StopPressed && !c.stopLevel
	c.playLevel = smp.PlayPressed
	c.stopLevel = smp.StopPressed
	return play, stop
}

func (c *Controller) transition(next State) {
	if !canTransition(c.state, next) {
		c.logger.DPanicw("Refusing invalid state transition", "from", c.state, "to", next)
		return
	}

	c.logger.Debugw("State transition", "from", c.state, "to", next)
	if c.trace != nil {
		c.trace(c.state, next)
	}
	c.state = next
}

func (c *Controller) inputFailed(err error) {
	c.inputFailures++
	if c.inputFailures == 1 {
		c.logger.Warnw("Panel read failed, skipping tick", "error", err)
		return
	}
	if c.inputFailures%1000 == 0 {
		c.logger.Debugw("Panel still unreadable", "failures", c.inputFailures, "error", err)
	}
}

func (c *Controller) inputRecovered() {
	if c.inputFailures > 0 {
		c.logger.Infow("Panel input recovered", "failedTicks", c.inputFailures)
		c.inputFailures = 0
	}
}
