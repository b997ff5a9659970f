/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Info is what can be learned about a source before the pipeline is built.
type Info struct {
	Path   string
	Ext    string
	Title  string
	Artist string
	Album  string

	SampleRate int
	Channels   int
	Duration   time.Duration
}

// Probe membaca metadata file audio tanpa membangun pipeline
func Probe(path string) (Info, error) {
	info := Info{
		Path: path,
		Ext:  strings.ToLower(filepath.Ext(path)),
	}
	switch info.Ext {
	case ".mp3", ".wav", ".flac", ".ogg", ".opus":
	default:
		return info, fmt.Errorf("%w: %q", ErrUnsupportedFormat, info.Ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	if info.Ext == ".wav" {
		return probeWav(f, info)
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return info, nil
		}
		return info, fmt.Errorf("read tags: %w", err)
	}

	info.Title = m.Title()
	info.Artist = m.Artist()
	info.Album = m.Album()
	return info, nil
}

func probeWav(f *os.File, info Info) (Info, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return info, fmt.Errorf("%s: invalid wav header", filepath.Base(info.Path))
	}

	d, err := dec.Duration()
	if err != nil {
		return info, fmt.Errorf("wav duration: %w", err)
	}
	info.Duration = d
	info.SampleRate, info.Channels = formatOf(dec.Format())

	if info.Title == "" {
		info.Title = strings.TrimSuffix(filepath.Base(info.Path), filepath.Ext(info.Path))
	}
	return info, nil
}

func formatOf(f *audio.Format) (int, int) {
	if f == nil {
		return 0, 0
	}
	return f.SampleRate, f.NumChannels
}
