package chip8

// Instruction holds the typed argument fields extracted from a raw 16-bit
// instruction word. Extraction is pure and total: it succeeds for any input,
// validity of the opcode itself is decided by the dispatch lookup. Which
// fields carry meaning depends on the opcode class.
type Instruction struct {
	// Word is the raw instruction as fetched from memory.
	Word uint16
	// X is the first register index, bits 8-11.
	X byte
	// Y is the second register index, bits 4-7.
	Y byte
	// N is the 4-bit immediate, bits 0-3.
	N byte
	// KK is the 8-bit immediate, bits 0-7.
	KK byte
	// NNN is the 12-bit address, bits 0-11.
	NNN uint16
}

// Decode extracts the argument fields of a raw instruction word by fixed bit
// masks.
func Decode(word uint16) Instruction {
	return Instruction{
		Word: word,
		X:    byte(word >> 8 & 0x0F),
		Y:    byte(word >> 4 & 0x0F),
		N:    byte(word & 0x0F),
		KK:   byte(word & 0xFF),
		NNN:  word & 0x0FFF,
	}
}
