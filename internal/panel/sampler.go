/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package panel reads the control panel (play button, stop button and speed
// dial) from an I2C peripheral.
package panel

import (
	"errors"
	"fmt"

	"varispeed/pkg/spec"

	"go.uber.org/zap"
)

var (
	ErrDeviceUnavailable = errors.New("panel: input device unavailable")
	ErrBusAccessDenied   = errors.New("panel: bus access denied")
	ErrShortRead         = errors.New("panel: short transfer")
)

// Sample is one decoded status frame.
type Sample struct {
	PlayPressed bool
	StopPressed bool
	Analog      uint8
}

// Device is an open handle on an I2C adapter.
type Device interface {
	SetAddress(addr uint16) error
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	Close() error
}

// Opener opens the adapter at path.
type Opener func(path string) (Device, error)

// Sampler acquires the device for the duration of a single frame read.
type Sampler struct {
	path   string
	addr   uint16
	open   Opener
	logger *zap.SugaredLogger
}

// NewSampler creates a sampler for the peripheral at addr on the adapter at path.
func NewSampler(path string, addr uint16, logger *zap.SugaredLogger) *Sampler {
	return newSampler(path, addr, openI2C, logger)
}

func newSampler(path string, addr uint16, open Opener, logger *zap.SugaredLogger) *Sampler {
	return &Sampler{
		path:   path,
		addr:   addr,
		open:   open,
		logger: logger.Named("panel"),
	}
}

// Sample opens the device, selects the peripheral, writes the register
// selector and reads one frame. The device is closed on every path.
func (s *Sampler) Sample() (Sample, error) {
	dev, err := s.open(s.path)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: open %s: %w", ErrDeviceUnavailable, s.path, err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			s.logger.Debugw("Failed to close input device", "path", s.path, "error", err)
		}
	}()

	if err := dev.SetAddress(s.addr); err != nil {
		return Sample{}, fmt.Errorf("%w: address 0x%02x: %w", ErrBusAccessDenied, s.addr, err)
	}

	n, err := dev.Write([]byte{spec.RegisterSelector})
	if err != nil {
		return Sample{}, fmt.Errorf("%w: write selector: %w", ErrShortRead, err)
	}
	if n != 1 {
		return Sample{}, fmt.Errorf("%w: wrote %d of 1 bytes", ErrShortRead, n)
	}

	frame := make([]byte, spec.FrameSize)
	n, err = dev.Read(frame)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: read frame: %w", ErrShortRead, err)
	}

	return Decode(frame[:n])
}

// Probe reads one frame and reports whether the panel answers at all.
func (s *Sampler) Probe() error {
	smp, err := s.Sample()
	if err != nil {
		return err
	}

	s.logger.Infow("Panel online",
		"path", s.path,
		"address", fmt.Sprintf("0x%02x", s.addr),
		"analog", smp.Analog)
	return nil
}

// Decode maps a raw frame to a Sample. Frames shorter than spec.FrameSize
// are rejected.
func Decode(frame []byte) (Sample, error) {
	if len(frame) < spec.FrameSize {
		return Sample{}, fmt.Errorf("%w: read %d of %d bytes", ErrShortRead, len(frame), spec.FrameSize)
	}

	return Sample{
		PlayPressed: frame[spec.OffsetPlay] == 1,
		StopPressed: frame[spec.OffsetStop] == 1,
		Analog:      frame[spec.OffsetAnalog],
	}, nil
}
