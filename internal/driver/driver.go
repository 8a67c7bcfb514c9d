// Package driver defines the peripheral collaborator interfaces of the
// emulator: presenting the frame buffer, translating host input events into
// pad key states and emitting the sound timer tone. The execution engine
// never calls these itself, the host loop does between steps.
package driver

import (
	"github.com/retroenv/chip8emu/internal/chip8"
)

// Renderer consumes the frame buffer. It is called only when the engine
// reports the frame dirty, never on every step.
type Renderer interface {
	Render(frame *chip8.Frame) error
}

// Input writes pressed/released state per pad key between steps.
// It reports true when the host requests termination.
type Input interface {
	Poll(keys *chip8.KeyState) (quit bool, err error)
}

// Tone emits a tone while the sound timer is active.
type Tone interface {
	SetToneActive(active bool)
}

// Driver bundles the peripheral collaborators of one host backend.
type Driver interface {
	Renderer
	Input
	Tone

	Close() error
}
