package chip8

import (
	"fmt"

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Disassemble formats an instruction word as assembler code, for trace
// logging and error diagnostics. Unknown instructions are rendered as a data
// byte directive.
func Disassemble(word uint16) string {
	name := Mnemonic(word)
	if name == "" {
		return fmt.Sprintf(".byte $%02X, $%02X", word>>8, word&0xFF)
	}
	if params := formatParams(name, word); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// formatParams formats the parameters of an instruction word.
func formatParams(name string, word uint16) string {
	in := Decode(word)

	switch name {
	case cpu.ClsInst.Name, cpu.RetInst.Name:
		return ""
	case cpu.JpInst.Name:
		if word>>12 == 0xB {
			return fmt.Sprintf("V0, $%03X", in.NNN)
		}
		return fmt.Sprintf("$%03X", in.NNN)
	case cpu.CallInst.Name:
		return fmt.Sprintf("$%03X", in.NNN)
	case cpu.SeInst.Name, cpu.SneInst.Name:
		if word>>12 == 0x5 || word>>12 == 0x9 {
			return fmt.Sprintf("V%X, V%X", in.X, in.Y)
		}
		return fmt.Sprintf("V%X, $%02X", in.X, in.KK)
	case cpu.LdInst.Name:
		return formatLoadParams(in)
	case cpu.AddInst.Name:
		switch word >> 12 {
		case 0x7:
			return fmt.Sprintf("V%X, $%02X", in.X, in.KK)
		case 0x8:
			return fmt.Sprintf("V%X, V%X", in.X, in.Y)
		default: // Fx1E
			return fmt.Sprintf("I, V%X", in.X)
		}
	case cpu.OrInst.Name, cpu.AndInst.Name, cpu.XorInst.Name, cpu.SubInst.Name, cpu.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case cpu.ShrInst.Name, cpu.ShlInst.Name:
		return fmt.Sprintf("V%X", in.X)
	case cpu.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", in.X, in.KK)
	case cpu.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	case cpu.SkpInst.Name, cpu.SknpInst.Name:
		return fmt.Sprintf("V%X", in.X)
	}
	return ""
}

// formatLoadParams formats the parameters of the ld instruction family, which
// spans register, address register, timer, key, font and memory transfers.
func formatLoadParams(in Instruction) string {
	switch in.Word >> 12 {
	case 0x6:
		return fmt.Sprintf("V%X, $%02X", in.X, in.KK)
	case 0x8:
		return fmt.Sprintf("V%X, V%X", in.X, in.Y)
	case 0xA:
		return fmt.Sprintf("I, $%03X", in.NNN)
	case 0xF:
		switch in.KK {
		case 0x07:
			return fmt.Sprintf("V%X, DT", in.X)
		case 0x0A:
			return fmt.Sprintf("V%X, K", in.X)
		case 0x15:
			return fmt.Sprintf("DT, V%X", in.X)
		case 0x18:
			return fmt.Sprintf("ST, V%X", in.X)
		case 0x29:
			return fmt.Sprintf("F, V%X", in.X)
		case 0x33:
			return fmt.Sprintf("B, V%X", in.X)
		case 0x55:
			return fmt.Sprintf("[I], V%X", in.X)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", in.X)
		}
	}
	return ""
}
