package cpu

// Mode tags an addressing mode. The spec supports exactly five:
// everything indexed, indirect, indexed-indirect or indirect-indexed
// is out of scope.
type Mode int

const (
	// ModeNone marks an unused opcode table slot.
	ModeNone Mode = iota
	ModeImp       // implied: no operand bytes
	ModeImm       // immediate: one operand byte, used as a value
	ModeZP        // zero page: one operand byte, used as an address
	ModeAbs       // absolute: two operand bytes (little-endian), used as an address
	ModeRel       // relative: one operand byte, a signed branch offset
)

// handler implements an instruction's semantics. operand carries
// whatever the addressing mode produced: a fetched value for
// imm/zp(load)/abs(load), an effective address for zp/abs store,
// jump and JSR, or a signed offset for rel.
type handler func(c *CPU, operand uint16)

// opcodeInfo binds one opcode byte to everything dispatch needs: its
// mnemonic (for disassembly and error messages), its addressing mode
// (which drives operand fetch), its base cycle cost and its handler.
//
// addrOperand distinguishes the two things ModeZP/ModeAbs can produce:
// false means Step hands the handler the value read through the
// address (loads, logic, arithmetic, compare, BIT); true means Step
// hands it the address itself (stores, JMP, JSR).
type opcodeInfo struct {
	mnemonic    string
	mode        Mode
	cycles      int
	addrOperand bool
	run         handler
}

// opcodeTable is the dense 256-entry dispatch table. Unused slots keep
// the zero value (mode ModeNone, run nil), which Step treats as an
// unknown opcode.
var opcodeTable [256]opcodeInfo

func def(op byte, mnemonic string, mode Mode, cycles int, run handler) {
	opcodeTable[op] = opcodeInfo{mnemonic: mnemonic, mode: mode, cycles: cycles, run: run}
}

// defAddr is like def but marks the opcode as wanting the effective
// address as its operand rather than the value stored there.
func defAddr(op byte, mnemonic string, mode Mode, cycles int, run handler) {
	opcodeTable[op] = opcodeInfo{mnemonic: mnemonic, mode: mode, cycles: cycles, addrOperand: true, run: run}
}

func init() {
	// Loads.
	def(0xA9, "LDA", ModeImm, 2, opLDA)
	def(0xA5, "LDA", ModeZP, 3, opLDA)
	def(0xAD, "LDA", ModeAbs, 4, opLDA)
	def(0xA2, "LDX", ModeImm, 2, opLDX)
	def(0xA6, "LDX", ModeZP, 3, opLDX)
	def(0xAE, "LDX", ModeAbs, 4, opLDX)
	def(0xA0, "LDY", ModeImm, 2, opLDY)
	def(0xA4, "LDY", ModeZP, 3, opLDY)
	def(0xAC, "LDY", ModeAbs, 4, opLDY)

	// Stores.
	defAddr(0x85, "STA", ModeZP, 3, opSTA)
	defAddr(0x8D, "STA", ModeAbs, 4, opSTA)
	defAddr(0x86, "STX", ModeZP, 3, opSTX)
	defAddr(0x8E, "STX", ModeAbs, 4, opSTX)
	defAddr(0x84, "STY", ModeZP, 3, opSTY)
	defAddr(0x8C, "STY", ModeAbs, 4, opSTY)

	// Transfers.
	def(0xAA, "TAX", ModeImp, 2, opTAX)
	def(0xA8, "TAY", ModeImp, 2, opTAY)
	def(0x8A, "TXA", ModeImp, 2, opTXA)
	def(0x98, "TYA", ModeImp, 2, opTYA)

	// Stack.
	def(0x48, "PHA", ModeImp, 3, opPHA)
	def(0x68, "PLA", ModeImp, 4, opPLA)
	def(0x08, "PHP", ModeImp, 3, opPHP)
	def(0x28, "PLP", ModeImp, 4, opPLP)

	// Logic.
	def(0x29, "AND", ModeImm, 2, opAND)
	def(0x25, "AND", ModeZP, 3, opAND)
	def(0x2D, "AND", ModeAbs, 4, opAND)
	def(0x09, "ORA", ModeImm, 2, opORA)
	def(0x05, "ORA", ModeZP, 3, opORA)
	def(0x0D, "ORA", ModeAbs, 4, opORA)
	def(0x49, "EOR", ModeImm, 2, opEOR)
	def(0x45, "EOR", ModeZP, 3, opEOR)
	def(0x4D, "EOR", ModeAbs, 4, opEOR)
	def(0x24, "BIT", ModeZP, 3, opBIT)
	def(0x2C, "BIT", ModeAbs, 4, opBIT)

	// Arithmetic.
	def(0x69, "ADC", ModeImm, 2, opADC)
	def(0x65, "ADC", ModeZP, 3, opADC)
	def(0x6D, "ADC", ModeAbs, 4, opADC)
	def(0xE9, "SBC", ModeImm, 2, opSBC)
	def(0xE5, "SBC", ModeZP, 3, opSBC)
	def(0xED, "SBC", ModeAbs, 4, opSBC)

	// Inc/dec.
	def(0xE8, "INX", ModeImp, 2, opINX)
	def(0xC8, "INY", ModeImp, 2, opINY)
	def(0xCA, "DEX", ModeImp, 2, opDEX)
	def(0x88, "DEY", ModeImp, 2, opDEY)

	// Compare.
	def(0xC9, "CMP", ModeImm, 2, opCMP)
	def(0xC5, "CMP", ModeZP, 3, opCMP)
	def(0xCD, "CMP", ModeAbs, 4, opCMP)
	def(0xE0, "CPX", ModeImm, 2, opCPX)
	def(0xE4, "CPX", ModeZP, 3, opCPX)
	def(0xC0, "CPY", ModeImm, 2, opCPY)
	def(0xC4, "CPY", ModeZP, 3, opCPY)

	// Branches.
	def(0xF0, "BEQ", ModeRel, 2, opBEQ)
	def(0xD0, "BNE", ModeRel, 2, opBNE)
	def(0x90, "BCC", ModeRel, 2, opBCC)
	def(0xB0, "BCS", ModeRel, 2, opBCS)
	def(0x30, "BMI", ModeRel, 2, opBMI)
	def(0x10, "BPL", ModeRel, 2, opBPL)
	def(0x50, "BVC", ModeRel, 2, opBVC)
	def(0x70, "BVS", ModeRel, 2, opBVS)

	// Jumps.
	defAddr(0x4C, "JMP", ModeAbs, 3, opJMP)
	defAddr(0x20, "JSR", ModeAbs, 6, opJSR)
	def(0x60, "RTS", ModeImp, 6, opRTS)

	// Flag control.
	def(0x18, "CLC", ModeImp, 2, opCLC)
	def(0x38, "SEC", ModeImp, 2, opSEC)
	def(0xB8, "CLV", ModeImp, 2, opCLV)
	def(0x78, "SEI", ModeImp, 2, opSEI)
	def(0x58, "CLI", ModeImp, 2, opCLI)

	// Utility.
	def(0xEA, "NOP", ModeImp, 2, opNOP)
	def(0x00, "BRK", ModeImp, 7, opBRK)
}
