package chip8

import (
	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op enumerates the operations of the CHIP-8 instruction set. Keeping the set
// closed lets the execution engine switch exhaustively over it, so a missing
// handler is a compile-time hole instead of a silent fallthrough.
type Op byte

const (
	OpClearScreen Op = iota // 00E0: clear the display
	OpReturn                // 00EE: return from subroutine
	OpJump                  // 1nnn: jump to address
	OpCall                  // 2nnn: call subroutine
	OpSkipEqual             // 3xkk: skip next instruction if Vx == kk
	OpSkipNotEqual          // 4xkk: skip next instruction if Vx != kk
	OpSkipRegistersEqual    // 5xy0: skip next instruction if Vx == Vy
	OpLoadImmediate         // 6xkk: Vx = kk
	OpAddImmediate          // 7xkk: Vx += kk, no flag
	OpCopyRegister          // 8xy0: Vx = Vy
	OpOr                    // 8xy1: Vx |= Vy
	OpAnd                   // 8xy2: Vx &= Vy
	OpXor                   // 8xy3: Vx ^= Vy
	OpAddRegister           // 8xy4: Vx += Vy, VF = carry
	OpSubRegister           // 8xy5: Vx -= Vy, VF = no borrow
	OpShiftRight            // 8xy6: Vx >>= 1, VF = shifted out bit
	OpSubReverse            // 8xy7: Vx = Vy - Vx, VF = no borrow
	OpShiftLeft             // 8xyE: Vx <<= 1, VF = shifted out bit
	OpSkipRegistersNotEqual // 9xy0: skip next instruction if Vx != Vy
	OpLoadAddress           // Annn: I = nnn
	OpJumpIndexed           // Bnnn: jump to nnn + V0
	OpRandom                // Cxkk: Vx = random byte AND kk
	OpDraw                  // Dxyn: draw n-byte sprite at (Vx, Vy), VF = collision
	OpSkipKeyPressed        // Ex9E: skip next instruction if key Vx is pressed
	OpSkipKeyNotPressed     // ExA1: skip next instruction if key Vx is not pressed
	OpLoadDelayTimer        // Fx07: Vx = delay timer
	OpWaitKey               // Fx0A: wait for a key press, Vx = key
	OpSetDelayTimer         // Fx15: delay timer = Vx
	OpSetSoundTimer         // Fx18: sound timer = Vx
	OpAddAddress            // Fx1E: I += Vx
	OpLoadFontAddress       // Fx29: I = address of font glyph for digit Vx
	OpStoreBCD              // Fx33: memory[I..I+2] = decimal digits of Vx
	OpStoreRegisters        // Fx55: memory[I..] = V0..Vx
	OpLoadRegisters         // Fx65: V0..Vx = memory[I..]
)

// Lookup maps a raw instruction word to its operation. The top nibble selects
// the opcode class, the classes 0x0, 0x8, 0xE and 0xF need a secondary
// selector. Words matching no entry report an unknown opcode.
func Lookup(word uint16) (Op, bool) {
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			return OpClearScreen, true
		case 0x00EE:
			return OpReturn, true
		}
	case 0x1:
		return OpJump, true
	case 0x2:
		return OpCall, true
	case 0x3:
		return OpSkipEqual, true
	case 0x4:
		return OpSkipNotEqual, true
	case 0x5:
		if word&0x000F == 0 {
			return OpSkipRegistersEqual, true
		}
	case 0x6:
		return OpLoadImmediate, true
	case 0x7:
		return OpAddImmediate, true
	case 0x8:
		switch word & 0x000F {
		case 0x0:
			return OpCopyRegister, true
		case 0x1:
			return OpOr, true
		case 0x2:
			return OpAnd, true
		case 0x3:
			return OpXor, true
		case 0x4:
			return OpAddRegister, true
		case 0x5:
			return OpSubRegister, true
		case 0x6:
			return OpShiftRight, true
		case 0x7:
			return OpSubReverse, true
		case 0xE:
			return OpShiftLeft, true
		}
	case 0x9:
		if word&0x000F == 0 {
			return OpSkipRegistersNotEqual, true
		}
	case 0xA:
		return OpLoadAddress, true
	case 0xB:
		return OpJumpIndexed, true
	case 0xC:
		return OpRandom, true
	case 0xD:
		return OpDraw, true
	case 0xE:
		switch word & 0x00FF {
		case 0x9E:
			return OpSkipKeyPressed, true
		case 0xA1:
			return OpSkipKeyNotPressed, true
		}
	case 0xF:
		switch word & 0x00FF {
		case 0x07:
			return OpLoadDelayTimer, true
		case 0x0A:
			return OpWaitKey, true
		case 0x15:
			return OpSetDelayTimer, true
		case 0x18:
			return OpSetSoundTimer, true
		case 0x1E:
			return OpAddAddress, true
		case 0x29:
			return OpLoadFontAddress, true
		case 0x33:
			return OpStoreBCD, true
		case 0x55:
			return OpStoreRegisters, true
		case 0x65:
			return OpLoadRegisters, true
		}
	}
	return 0, false
}

// Mnemonic returns the assembler mnemonic of an instruction word, looked up
// in the retrogolib opcode table. It is used for diagnostics only, never for
// execution semantics. Returns an empty string for unknown instructions.
func Mnemonic(word uint16) string {
	firstNibble := int(word >> 12)
	for _, op := range cpu.Opcodes[firstNibble] {
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}
