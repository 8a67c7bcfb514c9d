// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/chip8emu/internal/options"
)

// ParseFlags parses command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chip8emu [options] <ROM file to execute>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Driver = strings.ToLower(opts.Driver)

	validDrivers := []string{"sdl", "terminal", "none"}
	valid := false
	for _, driver := range validDrivers {
		if opts.Driver == driver {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported driver: %s. Valid options: %s",
			opts.Driver, strings.Join(validDrivers, ", "))
	}

	if opts.Scale < 1 {
		return fmt.Errorf("invalid scale factor: %d", opts.Scale)
	}
	if opts.InstructionsPerSecond < 0 {
		return fmt.Errorf("invalid instructions per second: %d", opts.InstructionsPerSecond)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Driver, "d", "sdl", "peripheral driver to use (sdl/terminal/none)")
	flags.IntVar(&opts.Scale, "scale", 20, "window scale factor for the sdl driver")
	flags.IntVar(&opts.InstructionsPerSecond, "ips", 700, "instructions executed per second, 0 for unthrottled")
	flags.BoolVar(&opts.NoAddressOverflowFlag, "no-overflow-flag", false, "do not set VF when an add to the address register overflows")
	flags.BoolVar(&opts.Trace, "trace", false, "disassemble each executed instruction to the debug log")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
