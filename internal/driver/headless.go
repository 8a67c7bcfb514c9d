package driver

import (
	"github.com/retroenv/chip8emu/internal/chip8"
)

// Compile-time check to ensure Headless implements Driver.
var _ Driver = (*Headless)(nil)

// Headless is a no-op driver without display, input or sound, used for tests
// and unattended runs.
type Headless struct {
	Frames int // number of frames consumed
}

// Render consumes a frame without presenting it.
func (h *Headless) Render(_ *chip8.Frame) error {
	h.Frames++
	return nil
}

// Poll never reports key or quit events.
func (h *Headless) Poll(_ *chip8.KeyState) (bool, error) {
	return false, nil
}

// SetToneActive discards the tone state.
func (h *Headless) SetToneActive(_ bool) {}

// Close implements the Driver interface.
func (h *Headless) Close() error {
	return nil
}
