package cpu

import "fmt"

// Disassemble decodes the single instruction at addr into its
// assembly-source text and reports how many bytes it occupies. It
// reads the same opcodeTable Step dispatches through, so disassembly
// can never drift out of sync with execution semantics. An opcode
// with no table entry disassembles as "???" and is reported as one
// byte wide, so a caller scanning a region can always make progress.
//
// This is not part of the core's execution contract -- spec.md never
// calls for it -- but spec.md §8 asserts an assemble/disassemble
// round-trip as a testable property, and every sibling 6502 core in
// the reference set ships one, so it is supplemented here as a pure
// function over Mem.
func Disassemble(m *Mem, addr uint16) (text string, size uint16) {
	opcode := m.Read(addr)
	info := opcodeTable[opcode]
	if info.run == nil {
		return "???", 1
	}

	switch info.mode {
	case ModeImp:
		return info.mnemonic, 1
	case ModeImm:
		v := m.Read(addr + 1)
		return fmt.Sprintf("%s #$%02X", info.mnemonic, v), 2
	case ModeZP:
		v := m.Read(addr + 1)
		return fmt.Sprintf("%s $%02X", info.mnemonic, v), 2
	case ModeAbs:
		v := m.Read16(addr + 1)
		return fmt.Sprintf("%s $%04X", info.mnemonic, v), 3
	case ModeRel:
		raw := m.Read(addr + 1)
		offset := int16(int8(raw))
		target := uint16(int32(addr) + 2 + int32(offset))
		return fmt.Sprintf("%s $%04X", info.mnemonic, target), 2
	default:
		return "???", 1
	}
}
