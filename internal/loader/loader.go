// Package loader handles program image loading.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/chip8emu/internal/chip8"
)

// LoadFile reads a program image from disk and creates a machine with it
// loaded at the program start address. Loading fails when the image exceeds
// the available memory.
func LoadFile(path string, opts chip8.Options) (*chip8.Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	machine, err := chip8.New(data, opts)
	if err != nil {
		return nil, fmt.Errorf("loading program into memory: %w", err)
	}
	return machine, nil
}
