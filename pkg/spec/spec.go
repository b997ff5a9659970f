/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package spec

import "time"

const (
	// === IDENTITY & VERSIONING ===
	AppName      = "HDX-Varispeed"
	VersionMajor = 1
	VersionMinor = 0

	// === PANEL (I2C) ===
	DefaultInputDevice  = "/dev/i2c-1"
	DefaultInputAddress = 0x08

	// Register selector yang ditulis sebelum membaca frame
	RegisterSelector = 0x00

	FrameSize    = 6
	OffsetAnalog = 2
	OffsetPlay   = 4
	OffsetStop   = 5

	// === RATE CONTROL ===
	DefaultDialLow  = 110
	DefaultDialHigh = 150
	DefaultRateStep = 0.001
	DefaultRateMin  = 0.92
	DefaultRateMax  = 1.08
	DefaultRate     = 1.0

	// === SCHEDULER ===
	DefaultFastTick    = time.Millisecond
	DefaultSlowTick    = 100 * time.Millisecond
	DefaultPollTimeout = 500 * time.Microsecond

	// === ENGINE ===
	ResampleQuality      = 4
	DefaultSpeakerBuffer = 100 * time.Millisecond
)
