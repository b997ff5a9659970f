/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package config loads runtime settings from VARISPEED_* environment
// variables. There is no config file.
package config

import (
	"strings"
	"time"

	"varispeed/internal/ratectl"
	"varispeed/pkg/spec"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix = "VARISPEED"

	configKeyInputDevice     = "input_device"
	configKeyInputAddress    = "input_address"
	configKeyFastTick        = "fast_tick"
	configKeySlowTick        = "slow_tick"
	configKeyPollTimeout     = "poll_timeout"
	configKeyDialLow         = "dial_low"
	configKeyDialHigh        = "dial_high"
	configKeyRateStep        = "rate_step"
	configKeyRateMin         = "rate_min"
	configKeyRateMax         = "rate_max"
	configKeyExitOnTerminate = "exit_on_terminate"
	configKeyVerbose         = "verbose"
	configKeyBuffer          = "buffer"

	// rentang alamat 7-bit yang tidak direservasi
	minBusAddress = 0x03
	maxBusAddress = 0x77
)

// Config is the resolved runtime configuration.
type Config struct {
	InputDevice  string
	InputAddress uint16

	FastTick    time.Duration
	SlowTick    time.Duration
	PollTimeout time.Duration

	Rate ratectl.Params

	ExitOnTerminate bool
	Verbose         bool
	Buffer          time.Duration

	logger *zap.SugaredLogger
	v      *viper.Viper
}

// New prepares a viper instance with every default and the environment
// binding. Call Load to resolve the values.
func New(logger *zap.SugaredLogger) *Config {
	c := &Config{
		logger: logger.Named("config"),
		v:      newViper(),
	}

	c.logger.Debug("Created config instance")
	return c
}

// Verbose reports VARISPEED_VERBOSE before a logger exists.
func Verbose() bool {
	return newViper().GetBool(configKeyVerbose)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(configKeyInputDevice, spec.DefaultInputDevice)
	v.SetDefault(configKeyInputAddress, spec.DefaultInputAddress)
	v.SetDefault(configKeyFastTick, spec.DefaultFastTick)
	v.SetDefault(configKeySlowTick, spec.DefaultSlowTick)
	v.SetDefault(configKeyPollTimeout, spec.DefaultPollTimeout)
	v.SetDefault(configKeyDialLow, spec.DefaultDialLow)
	v.SetDefault(configKeyDialHigh, spec.DefaultDialHigh)
	v.SetDefault(configKeyRateStep, spec.DefaultRateStep)
	v.SetDefault(configKeyRateMin, spec.DefaultRateMin)
	v.SetDefault(configKeyRateMax, spec.DefaultRateMax)
	v.SetDefault(configKeyExitOnTerminate, true)
	v.SetDefault(configKeyVerbose, false)
	v.SetDefault(configKeyBuffer, spec.DefaultSpeakerBuffer)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// Load resolves every key. Invalid values fall back to their default with
// a warning; Load itself never fails.
func (c *Config) Load() {
	c.logger.Debugw("Loading config", "envPrefix", envPrefix)

	c.InputDevice = strings.TrimSpace(c.v.GetString(configKeyInputDevice))
	if c.InputDevice == "" {
		c.invalid(configKeyInputDevice, c.InputDevice, spec.DefaultInputDevice)
		c.InputDevice = spec.DefaultInputDevice
	}

	addr := c.v.GetInt(configKeyInputAddress)
	if addr < minBusAddress || addr > maxBusAddress {
		c.invalid(configKeyInputAddress, addr, spec.DefaultInputAddress)
		addr = spec.DefaultInputAddress
	}
	c.InputAddress = uint16(addr)

	c.populateTicks()
	c.populateRate()

	c.ExitOnTerminate = c.v.GetBool(configKeyExitOnTerminate)
	c.Verbose = c.v.GetBool(configKeyVerbose)

	c.Buffer = c.v.GetDuration(configKeyBuffer)
	if c.Buffer <= 0 {
		c.invalid(configKeyBuffer, c.Buffer, spec.DefaultSpeakerBuffer)
		c.Buffer = spec.DefaultSpeakerBuffer
	}

	c.logger.Info("Loaded config successfully")
	c.logger.Infow("Config values",
		"inputDevice", c.InputDevice,
		"inputAddress", c.InputAddress,
		"fastTick", c.FastTick,
		"slowTick", c.SlowTick,
		"pollTimeout", c.PollTimeout,
		"rate", c.Rate,
		"exitOnTerminate", c.ExitOnTerminate,
		"buffer", c.Buffer)
}

func (c *Config) populateTicks() {
	c.FastTick = c.v.GetDuration(configKeyFastTick)
	if c.FastTick <= 0 {
		c.invalid(configKeyFastTick, c.FastTick, spec.DefaultFastTick)
		c.FastTick = spec.DefaultFastTick
	}

	c.SlowTick = c.v.GetDuration(configKeySlowTick)
	if c.SlowTick < c.FastTick {
		def := spec.DefaultSlowTick
		if def < c.FastTick {
			def = c.FastTick
		}
		c.invalid(configKeySlowTick, c.SlowTick, def)
		c.SlowTick = def
	}

	c.PollTimeout = c.v.GetDuration(configKeyPollTimeout)
	if c.PollTimeout < 0 {
		c.invalid(configKeyPollTimeout, c.PollTimeout, spec.DefaultPollTimeout)
		c.PollTimeout = spec.DefaultPollTimeout
	}

	// poll tidak boleh lebih lama dari satu fast tick
	if c.PollTimeout > c.FastTick {
		c.logger.Warnw("Poll timeout exceeds fast tick, clamping",
			"key", configKeyPollTimeout,
			"value", c.PollTimeout,
			"clampedTo", c.FastTick)
		c.PollTimeout = c.FastTick
	}
}

func (c *Config) populateRate() {
	def := ratectl.DefaultParams()

	low := c.v.GetInt(configKeyDialLow)
	high := c.v.GetInt(configKeyDialHigh)
	if low < 0 || high > 255 || low > high {
		c.logger.Warnw("Invalid dial thresholds specified, using default values",
			"keys", []string{configKeyDialLow, configKeyDialHigh},
			"invalidValue", []int{low, high},
			"defaultValue", []uint8{def.Low, def.High})
		low, high = int(def.Low), int(def.High)
	}

	rmin := c.v.GetFloat64(configKeyRateMin)
	rmax := c.v.GetFloat64(configKeyRateMax)
	if rmin <= 0 || rmax < rmin || spec.DefaultRate < rmin || spec.DefaultRate > rmax {
		c.logger.Warnw("Invalid rate bounds specified, using default values",
			"keys", []string{configKeyRateMin, configKeyRateMax},
			"invalidValue", []float64{rmin, rmax},
			"defaultValue", []float64{def.Min, def.Max})
		rmin, rmax = def.Min, def.Max
	}

	step := c.v.GetFloat64(configKeyRateStep)
	if step <= 0 || step > rmax-rmin {
		c.invalid(configKeyRateStep, step, def.Step)
		step = def.Step
	}

	c.Rate = ratectl.Params{
		Low:  uint8(low),
		High: uint8(high),
		Step: step,
		Min:  rmin,
		Max:  rmax,
	}
}

func (c *Config) invalid(key string, value, fallback interface{}) {
	c.logger.Warnw("Invalid value specified, using default value",
		"key", key,
		"invalidValue", value,
		"defaultValue", fallback)
}
