// Package runner implements the host loop that drives the execution engine.
// It steps the machine, feeds pad key state between steps, presents frames
// when the engine reports the buffer dirty, forwards the sound timer state
// and paces execution. The engine itself never blocks and never spawns work.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/driver"
	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Runner drives a machine against a peripheral driver.
type Runner struct {
	logger  *log.Logger
	machine *chip8.Machine
	driver  driver.Driver

	instructionsPerSecond int
	trace                 bool
}

// New creates a runner for the given machine and peripheral driver.
func New(logger *log.Logger, machine *chip8.Machine, drv driver.Driver,
	opts options.Program) *Runner {

	return &Runner{
		logger:                logger,
		machine:               machine,
		driver:                drv,
		instructionsPerSecond: opts.InstructionsPerSecond,
		trace:                 opts.Trace,
	}
}

// Run executes the machine until the program is exhausted, the driver
// requests termination or the context is cancelled. Fatal machine errors are
// returned to the caller.
func (r *Runner) Run(ctx context.Context) error {
	var throttle *time.Ticker
	if r.instructionsPerSecond > 0 {
		throttle = time.NewTicker(time.Second / time.Duration(r.instructionsPerSecond))
		defer throttle.Stop()
	}

	for {
		quit, err := r.driver.Poll(&r.machine.Keys)
		if err != nil {
			return fmt.Errorf("polling input: %w", err)
		}
		if quit {
			r.logger.Info("Termination requested")
			return nil
		}

		if r.trace {
			r.traceInstruction()
		}

		resume, err := r.machine.Step()
		if err != nil {
			return fmt.Errorf("stepping machine: %w", err)
		}

		if r.machine.Dirty {
			if err := r.driver.Render(&r.machine.Display); err != nil {
				return fmt.Errorf("rendering frame: %w", err)
			}
			r.machine.Dirty = false
		}

		r.driver.SetToneActive(r.machine.SoundActive())

		if !resume {
			r.logger.Info("Program execution complete")
			return nil
		}

		if throttle != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-throttle.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// traceInstruction logs the disassembly of the instruction about to execute.
func (r *Runner) traceInstruction() {
	pc := r.machine.PC
	if int(pc) >= chip8.ProgramStart+r.machine.ProgramLength() {
		return
	}

	word := uint16(r.machine.Memory[pc])<<8 | uint16(r.machine.Memory[pc+1])
	r.logger.Debug(chip8.Disassemble(word), log.Hex("address", pc))
}
