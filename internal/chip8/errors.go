package chip8

import (
	"errors"
	"fmt"
)

// ErrStackOverflow is returned when a call instruction exceeds the stack capacity.
var ErrStackOverflow = errors.New("stack overflow")

// ErrStackUnderflow is returned when a return instruction finds an empty stack.
var ErrStackUnderflow = errors.New("stack underflow")

// ProgramTooLargeError is returned when a program image does not fit into the
// memory available beyond the program start address.
type ProgramTooLargeError struct {
	Size     int
	Capacity int
}

func (e *ProgramTooLargeError) Error() string {
	return fmt.Sprintf("program of %d bytes exceeds available memory of %d bytes", e.Size, e.Capacity)
}

// UnknownOpcodeError is returned when a fetched instruction matches no
// dispatch entry. There is no agreed no-op semantic for unknown CHIP-8
// instructions, so execution stops instead of corrupting state.
type UnknownOpcodeError struct {
	Word    uint16
	Address uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode %04X at address %03X", e.Word, e.Address)
}
