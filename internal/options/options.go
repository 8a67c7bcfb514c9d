// Package options contains the program options.
package options

// Program options of the emulator.
type Program struct {
	Input string // ROM file to execute

	Driver string // peripheral driver: sdl, terminal or none
	Scale  int    // display scale factor for the sdl driver

	InstructionsPerSecond int  // execution throttle, 0 for unthrottled
	NoAddressOverflowFlag bool // disable VF on add-to-address overflow

	Trace bool // disassemble each executed instruction
	Debug bool // enable debug logging
	Quiet bool // only log errors
}
