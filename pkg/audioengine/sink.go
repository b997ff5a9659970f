/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Sink is the audio output. Streamers passed to Play are pulled from the
// sink's own goroutine while its lock is held; Lock/Unlock guard any
// mutation of a playing graph.
type Sink interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Clear()
}

// SpeakerSink plays through the default audio device.
type SpeakerSink struct{}

func (SpeakerSink) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (SpeakerSink) Play(s beep.Streamer) { speaker.Play(s) }
func (SpeakerSink) Lock()                { speaker.Lock() }
func (SpeakerSink) Unlock()              { speaker.Unlock() }
func (SpeakerSink) Clear()               { speaker.Clear() }
