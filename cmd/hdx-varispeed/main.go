/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"varispeed/internal/config"
	"varispeed/internal/controller"
	"varispeed/internal/display"
	"varispeed/internal/panel"
	"varispeed/internal/ratectl"
	"varispeed/internal/scheduler"
	"varispeed/pkg/audioengine"
	"varispeed/pkg/spec"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	general_usage = "Usage: ./hdx-varispeed <audio file>"

	exit_ok      = 0
	exit_failure = 1
	exit_usage   = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fmt.Println("========================================")
	fmt.Printf("%s version %d.%d\n", spec.AppName, spec.VersionMajor, spec.VersionMinor)
	fmt.Println("========================================")

	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "\n%s\n", general_usage)
		return exit_usage
	}
	path := args[0]

	logger, err := newLogger(config.Verbose())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[!] Failed to create logger: %v\n", err)
		return exit_failure
	}
	defer logger.Sync()

	logger = logger.With("session", uuid.NewString())

	cfg := config.New(logger)
	cfg.Load()

	// === MEDIA ===
	if info, err := audioengine.Probe(path); err != nil {
		logger.Warnw("Failed to probe media", "file", filepath.Base(path), "error", err)
	} else {
		logger.Infow("Media info",
			"title", info.Title,
			"artist", info.Artist,
			"album", info.Album,
			"format", info.Ext,
			"sampleRate", info.SampleRate,
			"channels", info.Channels,
			"duration", info.Duration)
	}

	pipeline, err := audioengine.Open(path, audioengine.Options{
		Buffer: cfg.Buffer,
		Logger: logger,
	})
	if err != nil {
		logger.Errorw("Failed to create pipeline", "file", path, "error", err)
		return exit_failure
	}
	defer pipeline.Close()

	// === PANEL ===
	sampler := panel.NewSampler(cfg.InputDevice, cfg.InputAddress, logger)
	if err := sampler.Probe(); err != nil {
		logger.Errorw("Control panel unavailable",
			"device", cfg.InputDevice,
			"address", fmt.Sprintf("0x%02x", cfg.InputAddress),
			"error", err)
		return exit_failure
	}

	// === CONTROL LOOP ===
	rate := ratectl.NewController(cfg.Rate, logger)
	position := display.NewPosition(os.Stdout)
	ctl := controller.New(pipeline, sampler, rate, position, controller.Options{
		PollTimeout:     cfg.PollTimeout,
		ExitOnTerminate: cfg.ExitOnTerminate,
	}, logger)

	logger.Infow("Playing", "file", filepath.Base(path))
	err = ctl.Run(scheduler.New(cfg.FastTick, cfg.SlowTick))
	position.Done()

	if errors.Is(err, controller.ErrEngineFailure) {
		logger.Errorw("Playback ended with an engine error", "error", err)
		return exit_failure
	}

	logger.Info("Playback finished")
	return exit_ok
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.Sugar().Named(spec.AppName), nil
}
