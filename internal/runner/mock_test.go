package runner

import (
	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/driver"
)

// mockDriver records peripheral interactions for test assertions.
type mockDriver struct {
	polls      int
	renders    int
	toneActive bool
	closed     bool

	quitAfter int // request termination on this poll, 0 to never quit
	pollErr   error
	keys      chip8.KeyState
}

var _ driver.Driver = (*mockDriver)(nil)

func (m *mockDriver) Render(*chip8.Frame) error {
	m.renders++
	return nil
}

func (m *mockDriver) Poll(keys *chip8.KeyState) (bool, error) {
	m.polls++
	if m.pollErr != nil {
		return false, m.pollErr
	}
	*keys = m.keys
	return m.quitAfter > 0 && m.polls >= m.quitAfter, nil
}

func (m *mockDriver) SetToneActive(active bool) {
	m.toneActive = active
}

func (m *mockDriver) Close() error {
	m.closed = true
	return nil
}
