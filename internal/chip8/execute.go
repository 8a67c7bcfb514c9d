package chip8

import (
	"fmt"
)

// Step advances the machine by exactly one fetch-decode-execute cycle plus
// timer bookkeeping. It returns false once the program counter has passed the
// end of the loaded program, the terminal state. Fatal conditions (unknown
// opcode, stack overflow or underflow) are returned as errors, the machine
// state must not be stepped further after one.
func (m *Machine) Step() (bool, error) {
	if int(m.PC) >= ProgramStart+m.programLength {
		return false, nil
	}

	word := uint16(m.readMemory(m.PC))<<8 | uint16(m.readMemory(m.PC+1))
	op, ok := Lookup(word)
	if !ok {
		return false, &UnknownOpcodeError{Word: word, Address: m.PC}
	}

	if err := m.execute(op, Decode(word)); err != nil {
		return false, fmt.Errorf("executing %s at address %03X: %w", Disassemble(word), m.PC, err)
	}

	m.tickTimers()
	return true, nil
}

// execute runs a single decoded instruction against the machine state.
// Every handler advances the program counter by one instruction afterwards,
// except jump, call, return and indexed jump which set it absolutely, and
// wait-for-key which holds it while no key is pressed so the instruction
// re-executes on the next step.
func (m *Machine) execute(op Op, in Instruction) error {
	switch op {
	case OpClearScreen:
		m.Display = Frame{}
		m.Dirty = true

	case OpReturn:
		if m.SP == 0 {
			return ErrStackUnderflow
		}
		m.SP--
		m.PC = m.Stack[m.SP] + instructionSize
		return nil

	case OpJump:
		m.PC = in.NNN
		return nil

	case OpCall:
		if m.SP == StackSize {
			return ErrStackOverflow
		}
		m.Stack[m.SP] = m.PC
		m.SP++
		m.PC = in.NNN
		return nil

	case OpSkipEqual:
		if m.V[in.X] == in.KK {
			m.PC += instructionSize
		}

	case OpSkipNotEqual:
		if m.V[in.X] != in.KK {
			m.PC += instructionSize
		}

	case OpSkipRegistersEqual:
		if m.V[in.X] == m.V[in.Y] {
			m.PC += instructionSize
		}

	case OpSkipRegistersNotEqual:
		if m.V[in.X] != m.V[in.Y] {
			m.PC += instructionSize
		}

	case OpLoadImmediate:
		m.V[in.X] = in.KK

	case OpAddImmediate:
		m.V[in.X] += in.KK // wraps, no flag

	case OpCopyRegister:
		m.V[in.X] = m.V[in.Y]

	case OpOr:
		m.V[in.X] |= m.V[in.Y]

	case OpAnd:
		m.V[in.X] &= m.V[in.Y]

	case OpXor:
		m.V[in.X] ^= m.V[in.Y]

	case OpAddRegister:
		sum := uint16(m.V[in.X]) + uint16(m.V[in.Y])
		m.V[in.X] = byte(sum)
		m.V[flagRegister] = byte(sum >> 8)

	case OpSubRegister:
		var noBorrow byte
		if m.V[in.X] >= m.V[in.Y] {
			noBorrow = 1
		}
		m.V[in.X] -= m.V[in.Y]
		m.V[flagRegister] = noBorrow

	case OpSubReverse:
		var noBorrow byte
		if m.V[in.Y] >= m.V[in.X] {
			noBorrow = 1
		}
		m.V[in.X] = m.V[in.Y] - m.V[in.X]
		m.V[flagRegister] = noBorrow

	case OpShiftRight:
		bit := m.V[in.X] & 0x01
		m.V[in.X] >>= 1
		m.V[flagRegister] = bit

	case OpShiftLeft:
		bit := m.V[in.X] >> 7
		m.V[in.X] <<= 1
		m.V[flagRegister] = bit

	case OpLoadAddress:
		m.I = in.NNN

	case OpJumpIndexed:
		m.PC = in.NNN + uint16(m.V[0])
		return nil

	case OpRandom:
		m.V[in.X] = m.rand() & in.KK

	case OpDraw:
		m.drawSprite(in.X, in.Y, in.N)

	case OpSkipKeyPressed:
		if m.Keys[m.V[in.X]&0x0F] {
			m.PC += instructionSize
		}

	case OpSkipKeyNotPressed:
		if !m.Keys[m.V[in.X]&0x0F] {
			m.PC += instructionSize
		}

	case OpLoadDelayTimer:
		m.V[in.X] = m.DelayTimer

	case OpWaitKey:
		key, pressed := m.lowestPressedKey()
		if !pressed {
			return nil // hold the PC, re-execute on the next step
		}
		m.V[in.X] = key

	case OpSetDelayTimer:
		m.DelayTimer = m.V[in.X]

	case OpSetSoundTimer:
		m.SoundTimer = m.V[in.X]

	case OpAddAddress:
		sum := m.I + uint16(m.V[in.X])
		if m.addIOverflow {
			if sum > 0x0FFF {
				m.V[flagRegister] = 1
			} else {
				m.V[flagRegister] = 0
			}
		}
		m.I = sum & 0x0FFF

	case OpLoadFontAddress:
		m.I = FontStart + uint16(m.V[in.X]&0x0F)*FontGlyphSize

	case OpStoreBCD:
		value := m.V[in.X]
		m.writeMemory(m.I, value/100)
		m.writeMemory(m.I+1, value/10%10)
		m.writeMemory(m.I+2, value%10)

	case OpStoreRegisters:
		for i := byte(0); i <= in.X; i++ {
			m.writeMemory(m.I+uint16(i), m.V[i])
		}

	case OpLoadRegisters:
		for i := byte(0); i <= in.X; i++ {
			m.V[i] = m.readMemory(m.I + uint16(i))
		}
	}

	m.PC += instructionSize
	return nil
}

// drawSprite XORs an n-byte sprite read from the address register onto the
// frame buffer at (Vx, Vy), wrapping around both axes. VF is set to 1 if any
// pixel was turned off by the draw, 0 otherwise.
func (m *Machine) drawSprite(x, y, n byte) {
	m.V[flagRegister] = 0
	originX := int(m.V[x]) % DisplayWidth
	originY := int(m.V[y]) % DisplayHeight

	for row := 0; row < int(n); row++ {
		bits := m.readMemory(m.I + uint16(row))
		py := (originY + row) % DisplayHeight

		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (originX + col) % DisplayWidth
			if m.Display[py][px] {
				m.V[flagRegister] = 1
			}
			m.Display[py][px] = !m.Display[py][px]
		}
	}

	m.Dirty = true
}

// lowestPressedKey returns the lowest pad key index observed pressed.
func (m *Machine) lowestPressedKey() (byte, bool) {
	for key := 0; key < NumKeys; key++ {
		if m.Keys[key] {
			return byte(key), true
		}
	}
	return 0, false
}

// tickTimers decrements the delay and sound timers by one, floored at zero,
// whenever at least 1/60 second passed since the last tick. The tick
// timestamp is part of the machine state so execution stays a function of
// state, elapsed time and inputs.
func (m *Machine) tickTimers() {
	now := m.now()
	if now.Sub(m.lastTimerTick) < timerInterval {
		return
	}

	if m.DelayTimer > 0 {
		m.DelayTimer--
	}
	if m.SoundTimer > 0 {
		m.SoundTimer--
	}
	m.lastTimerTick = now
}
