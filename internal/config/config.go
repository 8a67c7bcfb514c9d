// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/driver"
	"github.com/retroenv/chip8emu/internal/driver/sdl"
	"github.com/retroenv/chip8emu/internal/driver/terminal"
	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateDriver creates the peripheral driver selected by the program options.
func CreateDriver(opts options.Program) (driver.Driver, error) {
	switch opts.Driver {
	case "sdl":
		return sdl.New(opts.Scale)

	case "terminal":
		return terminal.New()

	case "none":
		return &driver.Headless{}, nil

	default:
		return nil, fmt.Errorf("unsupported driver '%s'", opts.Driver)
	}
}

// MachineOptions translates program options into machine options.
func MachineOptions(opts options.Program) chip8.Options {
	machineOpts := chip8.DefaultOptions()
	machineOpts.AddIOverflowFlag = !opts.NoAddressOverflowFlag
	return machineOpts
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("chip8emu", log.String("version", buildinfo.Version(version, commit, date)))
}
