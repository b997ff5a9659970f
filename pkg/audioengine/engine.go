/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package audioengine wraps a beep playback graph behind a small
// pipeline-style API: start, pause, seek, set-rate, position and duration
// queries, and a bus of events polled with a bounded wait.
package audioengine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"varispeed/pkg/spec"

	"github.com/faiface/beep"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFormat = errors.New("audioengine: unsupported format")
	ErrNotSeekable       = errors.New("audioengine: stream is not seekable")
	ErrClosed            = errors.New("audioengine: pipeline closed")
	ErrInvalidRate       = errors.New("audioengine: invalid playback rate")
)

const eventQueueDepth = 32

// Options configure Open. Zero values select the speaker and
// spec.DefaultSpeakerBuffer.
type Options struct {
	Sink   Sink
	Buffer time.Duration
	Logger *zap.SugaredLogger
}

// ======================================================
// Pipeline (engine handle)
// ======================================================

// Pipeline is the engine handle: decoder -> resampler (rate) -> ctrl
// (pause) -> end-of-stream callback -> sink. All methods except the
// end-of-stream callback run on the caller's goroutine.
type Pipeline struct {
	path   string
	sink   Sink
	logger *zap.SugaredLogger

	src    source
	seeker beep.StreamSeeker
	format beep.Format

	resampler *beep.Resampler
	ctrl      *beep.Ctrl
	rate      float64

	state  State
	events chan Event
	closed bool

	// guarded by the sink lock, written from the sink callback
	queued        bool
	torn          bool
	durationKnown bool

	dropped atomic.Int64

	// EOS atau Error yang tidak muat di antrean, dilaporkan lebih dulu
	latched atomic.Pointer[Event]
}

// Open decodes path and prepares a paused graph. Nothing plays until Start.
func Open(path string, opts Options) (*Pipeline, error) {
	if opts.Sink == nil {
		opts.Sink = SpeakerSink{}
	}
	if opts.Buffer <= 0 {
		opts.Buffer = spec.DefaultSpeakerBuffer
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	src, format, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("open pipeline: %w", err)
	}

	p, err := newPipeline(path, src, format, opts)
	if err != nil {
		src.Close()
		return nil, err
	}
	return p, nil
}

// newPipeline wraps an already decoded source. opts must be complete.
func newPipeline(path string, src source, format beep.Format, opts Options) (*Pipeline, error) {
	logger := opts.Logger.Named("engine")

	sr := format.SampleRate
	if err := opts.Sink.Init(sr, sr.N(opts.Buffer)); err != nil {
		return nil, fmt.Errorf("init audio sink: %w", err)
	}

	p := &Pipeline{
		path:   path,
		sink:   opts.Sink,
		logger: logger,
		src:    src,
		format: format,
		rate:   spec.DefaultRate,
		state:  StateNull,
		events: make(chan Event, eventQueueDepth),
	}
	if s, ok := src.(beep.StreamSeeker); ok {
		p.seeker = s
		p.durationKnown = true
	}

	logger.Debugw("Pipeline created",
		"file", filepath.Base(path),
		"sampleRate", int(sr),
		"channels", format.NumChannels,
		"seekable", p.seeker != nil)

	return p, nil
}

// Start moves the pipeline to PLAYING, emitting every intermediate state
// change.
func (p *Pipeline) Start() error {
	if p.closed {
		return ErrClosed
	}
	if p.state == StatePlaying {
		return nil
	}

	p.sink.Lock()
	if !p.queued {
		p.buildGraphLocked()
		p.queued = true
		p.sink.Unlock()

		// Play mengambil lock sink sendiri
		p.sink.Play(beep.Seq(p.ctrl, beep.Callback(p.onEnd)))
		p.sink.Lock()
	}
	p.ctrl.Paused = false
	p.sink.Unlock()

	for p.state < StatePlaying {
		p.setState(p.state + 1)
	}
	return nil
}

// Pause moves a started pipeline to PAUSED.
func (p *Pipeline) Pause() error {
	if p.closed {
		return ErrClosed
	}
	if p.state == StatePaused {
		return nil
	}

	p.sink.Lock()
	if p.ctrl != nil {
		p.ctrl.Paused = true
	}
	p.sink.Unlock()

	if p.state < StatePaused {
		for p.state < StatePaused {
			p.setState(p.state + 1)
		}
		return nil
	}
	p.setState(StatePaused)
	return nil
}

// Seek jumps to an absolute position. Buffered resampler data is
// discarded and decoders land on their nearest frame boundary.
func (p *Pipeline) Seek(pos time.Duration) error {
	if p.closed {
		return ErrClosed
	}
	if p.seeker == nil {
		return ErrNotSeekable
	}

	n := p.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}

	p.sink.Lock()
	defer p.sink.Unlock()

	if l := p.seeker.Len(); n > l {
		n = l
	}
	if err := p.seeker.Seek(n); err != nil {
		return fmt.Errorf("seek to %v: %w", pos, err)
	}

	// flush
	if p.queued {
		p.resampler = beep.ResampleRatio(spec.ResampleQuality, p.rate, p.src)
		p.ctrl.Streamer = p.resampler
	}
	return nil
}

// SetRate changes the playback speed; 1 is the native speed.
func (p *Pipeline) SetRate(rate float64) error {
	if p.closed {
		return ErrClosed
	}
	if !validRate(rate) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	p.sink.Lock()
	p.rate = rate
	if p.resampler != nil {
		p.resampler.SetRatio(rate)
	}
	p.sink.Unlock()
	return nil
}

// Rate returns the last rate accepted by SetRate.
func (p *Pipeline) Rate() float64 {
	return p.rate
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	return p.state
}

// Position returns the stream position in media time.
func (p *Pipeline) Position() (time.Duration, bool) {
	if p.closed {
		return 0, false
	}

	p.sink.Lock()
	pos := p.src.Position()
	p.sink.Unlock()
	return p.format.SampleRate.D(pos), true
}

// Duration returns the media length, when it is known.
func (p *Pipeline) Duration() (time.Duration, bool) {
	if p.closed {
		return 0, false
	}

	p.sink.Lock()
	defer p.sink.Unlock()

	switch {
	case p.seeker != nil:
		return p.format.SampleRate.D(p.seeker.Len()), true
	case p.durationKnown:
		return p.format.SampleRate.D(p.src.Position()), true
	default:
		return 0, false
	}
}

// Seeking reports whether the stream can seek and the seekable range.
func (p *Pipeline) Seeking() (bool, time.Duration, time.Duration) {
	if p.closed || p.seeker == nil {
		return false, 0, 0
	}

	p.sink.Lock()
	end := p.format.SampleRate.D(p.seeker.Len())
	p.sink.Unlock()
	return true, 0, end
}

// PollEvent waits at most timeout for the next bus event. A zero timeout
// never blocks.
func (p *Pipeline) PollEvent(timeout time.Duration) (Event, bool) {
	if ev := p.latched.Swap(nil); ev != nil {
		return *ev, true
	}

	select {
	case ev := <-p.events:
		return ev, true
	default:
	}
	if timeout <= 0 {
		return Event{}, false
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case ev := <-p.events:
		return ev, true
	case <-t.C:
		return Event{}, false
	}
}

// Close tears the graph down and releases the decoder. It is safe to call
// more than once.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}

	p.sink.Lock()
	p.torn = true
	p.queued = false
	if p.ctrl != nil {
		p.ctrl.Paused = true
	}
	p.sink.Unlock()
	p.sink.Clear()

	if err := p.src.Close(); err != nil {
		p.logger.Debugw("Failed to close decoder", "error", err)
	}

	p.state = StateNull
	p.closed = true
	p.logger.Debugw("Pipeline closed", "file", filepath.Base(p.path), "droppedEvents", p.dropped.Load())
}

// ======================================================
// Internals
// ======================================================

// buildGraphLocked must be called with the sink lock held.
func (p *Pipeline) buildGraphLocked() {
	p.resampler = beep.ResampleRatio(spec.ResampleQuality, p.rate, p.src)
	p.ctrl = &beep.Ctrl{Streamer: p.resampler, Paused: true}
}

func (p *Pipeline) setState(next State) {
	old := p.state
	p.state = next
	p.post(Event{Kind: EventStateChanged, Old: old, New: next})
}

// onEnd runs on the sink goroutine with the sink lock held.
func (p *Pipeline) onEnd() {
	if p.torn {
		return
	}
	p.queued = false

	if err := p.src.Err(); err != nil {
		p.post(Event{Kind: EventError, Message: err.Error()})
		return
	}
	if !p.durationKnown {
		p.durationKnown = true
		p.post(Event{Kind: EventDurationChanged})
	}
	p.post(Event{Kind: EventEndOfStream})
}

// post never blocks; it may be called with the sink lock held. A terminal
// event that finds the queue full is latched instead of dropped.
func (p *Pipeline) post(ev Event) {
	select {
	case p.events <- ev:
		return
	default:
	}

	if ev.Kind == EventEndOfStream || ev.Kind == EventError {
		if p.latched.CompareAndSwap(nil, &ev) {
			p.logger.Warnw("Event queue full, latching terminal event", "event", ev)
			return
		}
	}
	p.dropped.Add(1)
	p.logger.Debugw("Event queue full, dropping event", "event", ev, "dropped", p.dropped.Load())
}
