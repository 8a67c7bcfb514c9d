// Package main implements the main entry point for a CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/chip8emu/internal/cli"
	"github.com/retroenv/chip8emu/internal/config"
	"github.com/retroenv/chip8emu/internal/loader"
	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/chip8emu/internal/runner"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	config.PrintBanner(logger, opts, version, commit, date)

	if err := run(ctx, logger, opts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Execution cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	machine, err := loader.LoadFile(opts.Input, config.MachineOptions(opts))
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	if !opts.Quiet {
		logger.Info("Loaded program",
			log.String("file", opts.Input),
			log.Int("bytes", machine.ProgramLength()),
		)
	}

	drv, err := config.CreateDriver(opts)
	if err != nil {
		return fmt.Errorf("creating driver: %w", err)
	}
	defer func() {
		_ = drv.Close()
	}()

	return runner.New(logger, machine, drv, opts).Run(ctx)
}
