// Package chip8 implements the CHIP-8 virtual machine core: the machine
// state, instruction decoding, opcode dispatch and the execution engine.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter and font data (512 bytes)
//	0x200-0xFFE: User program space
//
// The display buffer (64x32 pixels), call stack and key pad state are
// maintained separately from the main memory address space.
package chip8

import (
	"math/rand"
	"time"
)

const (
	// MemorySize is the number of addressable bytes of system memory.
	MemorySize = 0xFFF

	// ProgramStart is the memory address where CHIP-8 programs begin execution.
	ProgramStart = 0x200

	// StackSize is the maximum number of nested calls.
	StackSize = 16

	// NumRegisters is the number of general purpose data registers V0-VF.
	NumRegisters = 16

	// NumKeys is the number of keys of the hex key pad.
	NumKeys = 16

	// DisplayWidth and DisplayHeight define the monochrome display resolution.
	DisplayWidth  = 64
	DisplayHeight = 32

	// FontStart is the memory address of the built-in font sprites.
	FontStart = 0x000

	// FontGlyphSize is the number of bytes per built-in font glyph.
	FontGlyphSize = 5

	// instructionSize is the size of every CHIP-8 instruction in bytes.
	instructionSize = 2

	// timerInterval is the tick interval of the delay and sound timers (60 Hz).
	timerInterval = time.Second / 60

	// flagRegister doubles as carry, borrow and sprite collision flag.
	flagRegister = 0xF
)

// fontSet contains the built-in hexadecimal digit sprites, 5 bytes per glyph,
// copied to FontStart when a machine is created.
var fontSet = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Frame is the monochrome display buffer, one boolean per pixel.
// Pixels are only ever toggled via XOR during sprite drawing.
type Frame [DisplayHeight][DisplayWidth]bool

// KeyState holds the pressed state of the 16 pad keys. It is written by the
// input collaborator between steps and only read by instruction handlers.
type KeyState [NumKeys]bool

// Options configure machine behavior where community CHIP-8 implementations
// disagree, and allow injecting the randomness and time sources for tests.
type Options struct {
	// AddIOverflowFlag sets VF to 1 when an add to the address register
	// overflows past MemorySize. Not all interpreters implement this.
	AddIOverflowFlag bool

	// Rand returns a random byte for the rnd instruction.
	// Defaults to math/rand if nil.
	Rand func() byte

	// Now returns the current time for the 60 Hz timer policy.
	// Defaults to time.Now if nil.
	Now func() time.Time
}

// DefaultOptions returns the default machine options.
func DefaultOptions() Options {
	return Options{
		AddIOverflowFlag: true,
	}
}

// Machine holds the complete state of the virtual machine. It is created once
// from a program image, mutated in place by the execution engine and must not
// be stepped concurrently from more than one caller.
type Machine struct {
	// Memory is the main system memory. The font sprites occupy the low
	// region, programs are loaded at ProgramStart.
	Memory [MemorySize]byte

	// V holds the data registers V0-VF. VF doubles as the carry, borrow and
	// collision flag output of arithmetic and drawing instructions.
	V [NumRegisters]byte

	// I is the address register used for memory indirect instructions,
	// constrained to 12 usable bits.
	I uint16

	// DelayTimer and SoundTimer count down at 60 Hz and saturate at zero.
	DelayTimer byte
	SoundTimer byte

	// PC is the program counter, the address of the next instruction.
	PC uint16

	// Stack holds return addresses of nested calls, SP counts its entries.
	Stack [StackSize]uint16
	SP    int

	// Display is the frame buffer, Dirty marks that it changed since the
	// renderer collaborator last consumed it.
	Display Frame
	Dirty   bool

	// Keys is the pad key state fed by the input collaborator.
	Keys KeyState

	programLength int
	lastTimerTick time.Time
	rand          func() byte
	now           func() time.Time
	addIOverflow  bool
}

// New creates a machine with the font sprites installed and the given program
// image loaded at ProgramStart. It fails with a ProgramTooLargeError when the
// image exceeds the available memory.
func New(program []byte, opts Options) (*Machine, error) {
	if len(program) > MemorySize-ProgramStart {
		return nil, &ProgramTooLargeError{
			Size:     len(program),
			Capacity: MemorySize - ProgramStart,
		}
	}

	m := &Machine{
		PC:            ProgramStart,
		programLength: len(program),
		rand:          opts.Rand,
		now:           opts.Now,
		addIOverflow:  opts.AddIOverflowFlag,
	}
	if m.rand == nil {
		m.rand = func() byte { return byte(rand.Intn(256)) }
	}
	if m.now == nil {
		m.now = time.Now
	}

	copy(m.Memory[FontStart:], fontSet[:])
	copy(m.Memory[ProgramStart:], program)
	m.lastTimerTick = m.now()
	return m, nil
}

// ProgramLength returns the size of the loaded program image in bytes.
func (m *Machine) ProgramLength() int {
	return m.programLength
}

// SoundActive returns whether the tone generator collaborator should emit a
// tone. The engine does not manage audio timing beyond the sound timer.
func (m *Machine) SoundActive() bool {
	return m.SoundTimer > 0
}

// SetKey records the pressed state of a pad key, to be called by the input
// collaborator between steps. Key indexes outside the pad are ignored.
func (m *Machine) SetKey(key byte, pressed bool) {
	if int(key) < NumKeys {
		m.Keys[key] = pressed
	}
}

// readMemory reads a byte from memory, bounding the address to the
// addressable range.
func (m *Machine) readMemory(address uint16) byte {
	return m.Memory[address%MemorySize]
}

// writeMemory writes a byte to memory, bounding the address to the
// addressable range.
func (m *Machine) writeMemory(address uint16, value byte) {
	m.Memory[address%MemorySize] = value
}
