/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package config

import (
	"testing"
	"time"

	"varispeed/internal/ratectl"
	"varispeed/pkg/spec"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func load(t *testing.T) (*Config, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	c := New(zap.New(core).Sugar())
	c.Load()
	return c, logs
}

func TestLoad_Defaults(t *testing.T) {
	c, logs := load(t)

	if c.InputDevice != spec.DefaultInputDevice || c.InputAddress != spec.DefaultInputAddress {
		t.Errorf("unexpected bus settings %s 0x%02x", c.InputDevice, c.InputAddress)
	}
	if c.FastTick != time.Millisecond || c.SlowTick != 100*time.Millisecond {
		t.Errorf("unexpected ticks %v / %v", c.FastTick, c.SlowTick)
	}
	if c.PollTimeout != spec.DefaultPollTimeout {
		t.Errorf("unexpected poll timeout %v", c.PollTimeout)
	}
	if c.Rate != ratectl.DefaultParams() {
		t.Errorf("unexpected rate params %+v", c.Rate)
	}
	if !c.ExitOnTerminate || c.Verbose {
		t.Errorf("unexpected flags exit=%v verbose=%v", c.ExitOnTerminate, c.Verbose)
	}
	if c.Buffer != spec.DefaultSpeakerBuffer {
		t.Errorf("unexpected buffer %v", c.Buffer)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %d", logs.Len())
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("VARISPEED_INPUT_DEVICE", "/dev/i2c-3")
	t.Setenv("VARISPEED_INPUT_ADDRESS", "0x10")
	t.Setenv("VARISPEED_FAST_TICK", "2ms")
	t.Setenv("VARISPEED_SLOW_TICK", "250ms")
	t.Setenv("VARISPEED_POLL_TIMEOUT", "1ms")
	t.Setenv("VARISPEED_DIAL_LOW", "100")
	t.Setenv("VARISPEED_DIAL_HIGH", "160")
	t.Setenv("VARISPEED_RATE_STEP", "0.002")
	t.Setenv("VARISPEED_RATE_MIN", "0.5")
	t.Setenv("VARISPEED_RATE_MAX", "2")
	t.Setenv("VARISPEED_EXIT_ON_TERMINATE", "false")
	t.Setenv("VARISPEED_VERBOSE", "true")
	t.Setenv("VARISPEED_BUFFER", "50ms")

	c, logs := load(t)

	if c.InputDevice != "/dev/i2c-3" || c.InputAddress != 0x10 {
		t.Errorf("unexpected bus settings %s 0x%02x", c.InputDevice, c.InputAddress)
	}
	if c.FastTick != 2*time.Millisecond || c.SlowTick != 250*time.Millisecond || c.PollTimeout != time.Millisecond {
		t.Errorf("unexpected timing %v %v %v", c.FastTick, c.SlowTick, c.PollTimeout)
	}
	want := ratectl.Params{Low: 100, High: 160, Step: 0.002, Min: 0.5, Max: 2}
	if c.Rate != want {
		t.Errorf("expected %+v, got %+v", want, c.Rate)
	}
	if c.ExitOnTerminate || !c.Verbose {
		t.Errorf("unexpected flags exit=%v verbose=%v", c.ExitOnTerminate, c.Verbose)
	}
	if c.Buffer != 50*time.Millisecond {
		t.Errorf("unexpected buffer %v", c.Buffer)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %v", logs.All())
	}
	if !Verbose() {
		t.Error("expected Verbose to read the environment")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("VARISPEED_INPUT_ADDRESS", "0x90")
	t.Setenv("VARISPEED_FAST_TICK", "-1ms")
	t.Setenv("VARISPEED_DIAL_LOW", "200")
	t.Setenv("VARISPEED_DIAL_HIGH", "100")
	t.Setenv("VARISPEED_RATE_MIN", "1.1")
	t.Setenv("VARISPEED_RATE_MAX", "1.2")
	t.Setenv("VARISPEED_BUFFER", "0s")

	c, logs := load(t)

	if c.InputAddress != spec.DefaultInputAddress {
		t.Errorf("expected default address, got 0x%02x", c.InputAddress)
	}
	if c.FastTick != spec.DefaultFastTick {
		t.Errorf("expected default fast tick, got %v", c.FastTick)
	}
	if c.Rate != ratectl.DefaultParams() {
		t.Errorf("expected default rate params, got %+v", c.Rate)
	}
	if c.Buffer != spec.DefaultSpeakerBuffer {
		t.Errorf("expected default buffer, got %v", c.Buffer)
	}
	if logs.Len() != 5 {
		t.Errorf("expected 5 warnings, got %d: %v", logs.Len(), logs.All())
	}
}

func TestLoad_PollTimeoutClampedToFastTick(t *testing.T) {
	t.Setenv("VARISPEED_POLL_TIMEOUT", "20ms")

	c, logs := load(t)

	if c.PollTimeout != c.FastTick {
		t.Errorf("expected poll timeout clamped to %v, got %v", c.FastTick, c.PollTimeout)
	}
	if logs.FilterMessage("Poll timeout exceeds fast tick, clamping").Len() != 1 {
		t.Errorf("expected a clamp warning, got %v", logs.All())
	}
}

func TestLoad_SlowTickNotShorterThanFastTick(t *testing.T) {
	t.Setenv("VARISPEED_FAST_TICK", "200ms")
	t.Setenv("VARISPEED_SLOW_TICK", "10ms")

	c, _ := load(t)

	if c.SlowTick != 200*time.Millisecond {
		t.Errorf("expected slow tick raised to the fast tick, got %v", c.SlowTick)
	}
}
