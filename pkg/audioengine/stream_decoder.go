/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/hraban/opus"
)

// Ogg Opus selalu didecode ke 48kHz stereo
const (
	opusSampleRate = 48000
	opusChannels   = 2
	opusMaxFrame   = 5760
)

// source is a decoded stream. Sources that also implement
// beep.StreamSeeker can be seeked and report their length.
type source interface {
	beep.Streamer
	Position() int
	Close() error
}

// decodeFile opens path and picks a decoder from its extension.
func decodeFile(path string) (source, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".wav", ".flac", ".ogg", ".opus":
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".mp3":
		s, format, err = mp3.Decode(f)
	case ".wav":
		s, format, err = wav.Decode(f)
	case ".flac":
		s, format, err = flac.Decode(f)
	case ".ogg":
		s, format, err = vorbis.Decode(f)
	case ".opus":
		return newOpusSource(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return s, format, nil
}

// opusSource streams an Ogg Opus file. It cannot seek and only learns its
// length once the stream is exhausted.
type opusSource struct {
	file     *os.File
	stream   *opus.Stream
	pcm      []int16
	buffer   [][2]float64
	position int
	done     bool
	err      error
}

func newOpusSource(f *os.File) (source, beep.Format, error) {
	stream, err := opus.NewStream(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(f.Name()), err)
	}

	format := beep.Format{
		SampleRate:  opusSampleRate,
		NumChannels: opusChannels,
		Precision:   2,
	}
	return &opusSource{
		file:   f,
		stream: stream,
		pcm:    make([]int16, opusMaxFrame*opusChannels),
	}, format, nil
}

func (o *opusSource) Stream(samples [][2]float64) (int, bool) {
	filled := 0

	for filled < len(samples) {
		if len(o.buffer) == 0 {
			if o.done {
				break
			}

			n, err := o.stream.Read(o.pcm)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					o.err = err
				}
				o.done = true
				break
			}
			o.buffer = appendStereo(o.buffer[:0], o.pcm, n)
		}

		n := copy(samples[filled:], o.buffer)
		o.buffer = o.buffer[n:]
		filled += n
	}

	o.position += filled
	return filled, filled > 0
}

func (o *opusSource) Err() error { return o.err }

func (o *opusSource) Position() int { return o.position }

func (o *opusSource) Close() error {
	err := o.stream.Close()
	// stream.Close bisa sudah menutup file
	o.file.Close()
	return err
}
