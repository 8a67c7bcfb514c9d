package chip8

import (
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

// step advances the machine once and asserts that execution may continue.
func step(t *testing.T, m *Machine) {
	t.Helper()

	resume, err := m.Step()
	assert.NoError(t, err)
	assert.True(t, resume)
}

func TestStepCompletion(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0x60, 0x05}) // ld V0, $05

	step(t, m)
	assert.Equal(t, byte(5), m.V[0])

	// the program counter passed the end of the program
	resume, err := m.Step()
	assert.NoError(t, err)
	assert.False(t, resume)
}

// Loading `6005 1200` and stepping leaves V0 = 5 and the program counter on
// the jump instruction indefinitely: the program never completes by
// exhaustion, only by external cancellation.
func TestStepSelfJumpNeverCompletes(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0x60, 0x05, 0x12, 0x00})

	step(t, m)
	assert.Equal(t, byte(5), m.V[0])
	assert.Equal(t, uint16(0x202), m.PC)

	for i := 0; i < 10; i++ {
		step(t, m)
		assert.Equal(t, uint16(0x200), m.PC)
		step(t, m)
		assert.Equal(t, uint16(0x202), m.PC)
	}
}

func TestStepUnknownOpcode(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
	}{
		{"sys instruction", []byte{0x01, 0x23}},
		{"key class selector", []byte{0xE0, 0x00}},
		{"alu selector", []byte{0x80, 0x08}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.program)

			resume, err := m.Step()
			assert.False(t, resume)

			var unknown *UnknownOpcodeError
			assert.True(t, errors.As(err, &unknown))
			assert.Equal(t, uint16(0x200), unknown.Address)
			assert.Equal(t, uint16(tt.program[0])<<8|uint16(tt.program[1]), unknown.Word)
		})
	}
}

func TestSkipInstructions(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		setup   func(m *Machine)
		skipped bool
	}{
		{"se byte taken", []byte{0x30, 0x05}, func(m *Machine) { m.V[0] = 5 }, true},
		{"se byte not taken", []byte{0x30, 0x05}, func(m *Machine) { m.V[0] = 6 }, false},
		{"sne byte taken", []byte{0x40, 0x05}, func(m *Machine) { m.V[0] = 6 }, true},
		{"sne byte not taken", []byte{0x40, 0x05}, func(m *Machine) { m.V[0] = 5 }, false},
		{"se registers taken", []byte{0x50, 0x10}, func(m *Machine) { m.V[0], m.V[1] = 7, 7 }, true},
		{"se registers not taken", []byte{0x50, 0x10}, func(m *Machine) { m.V[0], m.V[1] = 7, 8 }, false},
		{"sne registers taken", []byte{0x90, 0x10}, func(m *Machine) { m.V[0], m.V[1] = 7, 8 }, true},
		{"sne registers not taken", []byte{0x90, 0x10}, func(m *Machine) { m.V[0], m.V[1] = 7, 7 }, false},
		{"skp taken", []byte{0xE0, 0x9E}, func(m *Machine) { m.V[0] = 4; m.SetKey(4, true) }, true},
		{"skp not taken", []byte{0xE0, 0x9E}, func(m *Machine) { m.V[0] = 4 }, false},
		{"sknp taken", []byte{0xE0, 0xA1}, func(m *Machine) { m.V[0] = 4 }, true},
		{"sknp not taken", []byte{0xE0, 0xA1}, func(m *Machine) { m.V[0] = 4; m.SetKey(4, true) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.program)
			tt.setup(m)

			step(t, m)

			expected := uint16(0x202)
			if tt.skipped {
				expected = 0x204
			}
			assert.Equal(t, expected, m.PC)
		})
	}
}

func TestALUOperations(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		v0, v1  byte

		expected     byte
		expectedFlag byte
	}{
		{"ld Vx, Vy", []byte{0x80, 0x10}, 1, 9, 9, 0},
		{"or", []byte{0x80, 0x11}, 0x0F, 0xF0, 0xFF, 0},
		{"and", []byte{0x80, 0x12}, 0x0F, 0xFF, 0x0F, 0},
		{"xor", []byte{0x80, 0x13}, 0xFF, 0x0F, 0xF0, 0},
		{"add no carry", []byte{0x80, 0x14}, 100, 100, 200, 0},
		{"add carry wraps", []byte{0x80, 0x14}, 200, 100, 44, 1},
		{"sub no borrow", []byte{0x80, 0x15}, 10, 5, 5, 1},
		{"sub equal no borrow", []byte{0x80, 0x15}, 5, 5, 0, 1},
		{"sub borrow wraps", []byte{0x80, 0x15}, 5, 10, 251, 0},
		{"subn no borrow", []byte{0x80, 0x17}, 5, 10, 5, 1},
		{"subn borrow wraps", []byte{0x80, 0x17}, 10, 5, 251, 0},
		{"shr even", []byte{0x80, 0x16}, 0x04, 0, 0x02, 0},
		{"shr odd", []byte{0x80, 0x16}, 0x05, 0, 0x02, 1},
		{"shl low", []byte{0x80, 0x1E}, 0x41, 0, 0x82, 0},
		{"shl high wraps", []byte{0x80, 0x1E}, 0x81, 0, 0x02, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, tt.program)
			m.V[0] = tt.v0
			m.V[1] = tt.v1

			step(t, m)

			assert.Equal(t, tt.expected, m.V[0])
			assert.Equal(t, tt.expectedFlag, m.V[0xF])
		})
	}
}

func TestAddImmediateWrapsWithoutFlag(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0x70, 0x02}) // add V0, $02
	m.V[0] = 0xFF
	m.V[0xF] = 0xAA

	step(t, m)

	assert.Equal(t, byte(1), m.V[0])
	// no flag side effect
	assert.Equal(t, byte(0xAA), m.V[0xF])
}

func TestLoadAndJumpInstructions(t *testing.T) {
	t.Run("ld I, addr", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xA3, 0x00})
		step(t, m)
		assert.Equal(t, uint16(0x300), m.I)
	})

	t.Run("jp V0, addr", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xB3, 0x00})
		m.V[0] = 4
		step(t, m)
		assert.Equal(t, uint16(0x304), m.PC)
	})

	t.Run("rnd Vx, byte", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xC0, 0xF0}) // rand fixed to 0xAB
		step(t, m)
		assert.Equal(t, byte(0xA0), m.V[0])
	})
}

func TestTimerInstructions(t *testing.T) {
	t.Run("ld Vx, DT", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xF0, 0x07})
		m.DelayTimer = 42
		step(t, m)
		assert.Equal(t, byte(42), m.V[0])
	})

	t.Run("ld DT, Vx", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xF0, 0x15})
		m.V[0] = 42
		step(t, m)
		assert.Equal(t, byte(42), m.DelayTimer)
	})

	t.Run("ld ST, Vx", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xF0, 0x18})
		m.V[0] = 42
		step(t, m)
		assert.Equal(t, byte(42), m.SoundTimer)
		assert.True(t, m.SoundActive())
	})
}

// Timers decrement once per 60 Hz tick and saturate at zero.
func TestTimerTickPolicy(t *testing.T) {
	program := []byte{0x60, 0x05, 0x60, 0x05, 0x60, 0x05, 0x60, 0x05}
	m, clock := newTestMachine(t, program)
	m.DelayTimer = 1
	m.SoundTimer = 2

	// no tick without elapsed time
	step(t, m)
	assert.Equal(t, byte(1), m.DelayTimer)
	assert.Equal(t, byte(2), m.SoundTimer)

	clock.advance(17 * time.Millisecond)
	step(t, m)
	assert.Equal(t, byte(0), m.DelayTimer)
	assert.Equal(t, byte(1), m.SoundTimer)

	// delay timer saturates at zero instead of wrapping
	clock.advance(17 * time.Millisecond)
	step(t, m)
	assert.Equal(t, byte(0), m.DelayTimer)
	assert.Equal(t, byte(0), m.SoundTimer)

	// only one decrement per tick regardless of instruction rate
	clock.advance(17 * time.Millisecond)
	m.DelayTimer = 10
	step(t, m)
	assert.Equal(t, byte(9), m.DelayTimer)
}

func TestWaitForKey(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0xF0, 0x0A}) // ld V0, K

	// the program counter holds while no key is pressed
	for i := 0; i < 5; i++ {
		step(t, m)
		assert.Equal(t, uint16(0x200), m.PC)
	}

	// lowest pressed key index wins
	m.SetKey(0x5, true)
	m.SetKey(0x3, true)
	step(t, m)

	assert.Equal(t, byte(0x3), m.V[0])
	assert.Equal(t, uint16(0x202), m.PC)
}

func TestCallReturn(t *testing.T) {
	// call $204, then return past the call
	program := []byte{0x22, 0x04, 0x00, 0x00, 0x00, 0xEE}
	m, _ := newTestMachine(t, program)

	step(t, m)
	assert.Equal(t, uint16(0x204), m.PC)
	assert.Equal(t, 1, m.SP)
	assert.Equal(t, uint16(0x200), m.Stack[0])

	step(t, m)
	assert.Equal(t, uint16(0x202), m.PC)
	assert.Equal(t, 0, m.SP)
}

// 16 nested calls succeed, the 17th overflows the stack.
func TestStackOverflow(t *testing.T) {
	program := make([]byte, 0, 17*2)
	for i := 0; i < 17; i++ {
		target := uint16(ProgramStart + (i+1)*2)
		program = append(program, 0x20|byte(target>>8), byte(target))
	}
	m, _ := newTestMachine(t, program)

	for i := 0; i < 16; i++ {
		step(t, m)
	}
	assert.Equal(t, 16, m.SP)

	resume, err := m.Step()
	assert.False(t, resume)
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestStackUnderflow(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0x00, 0xEE}) // ret with empty stack

	resume, err := m.Step()
	assert.False(t, resume)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestClearScreen(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0x00, 0xE0})
	m.Display[5][5] = true
	m.Dirty = false

	step(t, m)

	assert.True(t, m.Dirty)
	for y := 0; y < DisplayHeight; y++ {
		for x := 0; x < DisplayWidth; x++ {
			assert.False(t, m.Display[y][x])
		}
	}
}

// Drawing the same sprite twice at the same location reports no collision on
// the first draw and a collision on the second, which erases the pixels.
func TestDrawSpriteCollision(t *testing.T) {
	program := []byte{0xD0, 0x11, 0xD0, 0x11} // drw V0, V1, $1 twice
	m, _ := newTestMachine(t, program)
	m.I = 0x400
	m.Memory[0x400] = 0xFF

	step(t, m)
	assert.Equal(t, byte(0), m.V[0xF])
	assert.True(t, m.Dirty)
	for x := 0; x < 8; x++ {
		assert.True(t, m.Display[0][x])
	}

	m.Dirty = false
	step(t, m)
	assert.Equal(t, byte(1), m.V[0xF])
	assert.True(t, m.Dirty)
	for x := 0; x < 8; x++ {
		assert.False(t, m.Display[0][x])
	}
}

func TestDrawSpriteWraparound(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0xD0, 0x12}) // drw V0, V1, $2
	m.I = 0x400
	m.Memory[0x400] = 0xFF
	m.Memory[0x401] = 0xFF
	m.V[0] = 60 // wraps on the x axis
	m.V[1] = 31 // wraps on the y axis

	step(t, m)

	for _, y := range []int{31, 0} {
		for _, x := range []int{60, 61, 62, 63, 0, 1, 2, 3} {
			assert.True(t, m.Display[y][x], "pixel (%d,%d) not set", x, y)
		}
	}
	assert.Equal(t, byte(0), m.V[0xF])
}

func TestAddAddress(t *testing.T) {
	t.Run("no overflow", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xF0, 0x1E})
		m.I = 0x100
		m.V[0] = 0x20
		m.V[0xF] = 1

		step(t, m)

		assert.Equal(t, uint16(0x120), m.I)
		assert.Equal(t, byte(0), m.V[0xF])
	})

	t.Run("overflow sets flag", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xF0, 0x1E})
		m.I = 0xFFF
		m.V[0] = 1

		step(t, m)

		assert.Equal(t, uint16(0), m.I)
		assert.Equal(t, byte(1), m.V[0xF])
	})

	t.Run("overflow flag disabled", func(t *testing.T) {
		opts := DefaultOptions()
		opts.AddIOverflowFlag = false
		m, err := New([]byte{0xF0, 0x1E}, opts)
		assert.NoError(t, err)
		m.I = 0xFFF
		m.V[0] = 1

		resume, err := m.Step()
		assert.NoError(t, err)
		assert.True(t, resume)

		assert.Equal(t, uint16(0), m.I)
		assert.Equal(t, byte(0), m.V[0xF])
	})
}

func TestLoadFontAddress(t *testing.T) {
	m, _ := newTestMachine(t, []byte{0xF0, 0x29})
	m.V[0] = 0xA

	step(t, m)

	assert.Equal(t, uint16(0xA*FontGlyphSize), m.I)
	// the glyph bytes at the resulting address belong to digit A
	assert.Equal(t, fontSet[0xA*FontGlyphSize], m.Memory[m.I])
}

func TestStoreBCD(t *testing.T) {
	tests := []struct {
		value  byte
		digits [3]byte
	}{
		{0, [3]byte{0, 0, 0}},
		{7, [3]byte{0, 0, 7}},
		{42, [3]byte{0, 4, 2}},
		{234, [3]byte{2, 3, 4}},
		{255, [3]byte{2, 5, 5}},
	}

	for _, tt := range tests {
		m, _ := newTestMachine(t, []byte{0xF0, 0x33})
		m.I = 0x300
		m.V[0] = tt.value

		step(t, m)

		assert.Equal(t, tt.digits[0], m.Memory[0x300])
		assert.Equal(t, tt.digits[1], m.Memory[0x301])
		assert.Equal(t, tt.digits[2], m.Memory[0x302])
	}
}

// Bulk register transfers include Vx itself.
func TestStoreLoadRegisters(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xF2, 0x55}) // ld [I], V2
		m.I = 0x300
		m.V[0], m.V[1], m.V[2], m.V[3] = 10, 11, 12, 13

		step(t, m)

		assert.Equal(t, byte(10), m.Memory[0x300])
		assert.Equal(t, byte(11), m.Memory[0x301])
		assert.Equal(t, byte(12), m.Memory[0x302])
		// V3 is beyond the inclusive range
		assert.Equal(t, byte(0), m.Memory[0x303])
	})

	t.Run("load", func(t *testing.T) {
		m, _ := newTestMachine(t, []byte{0xF2, 0x65}) // ld V2, [I]
		m.I = 0x300
		m.Memory[0x300], m.Memory[0x301], m.Memory[0x302], m.Memory[0x303] = 10, 11, 12, 13

		step(t, m)

		assert.Equal(t, byte(10), m.V[0])
		assert.Equal(t, byte(11), m.V[1])
		assert.Equal(t, byte(12), m.V[2])
		assert.Equal(t, byte(0), m.V[3])
	})
}
