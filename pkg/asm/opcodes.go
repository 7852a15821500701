package asm

import "github.com/mos6502/core/pkg/cpu"

// mnemonics binds a mnemonic to every addressing mode it supports and the
// opcode byte for each. It deliberately mirrors pkg/cpu's opcode
// table one mnemonic at a time rather than importing it directly: the
// CPU table is keyed by opcode byte (dispatch direction), this one is
// keyed by mnemonic+mode (emission direction), and the two must agree
// on byte values by construction, which opcodes_test.go checks.
type modeTable map[cpu.Mode]byte

var mnemonics = map[string]modeTable{
	"LDA": {cpu.ModeImm: 0xA9, cpu.ModeZP: 0xA5, cpu.ModeAbs: 0xAD},
	"LDX": {cpu.ModeImm: 0xA2, cpu.ModeZP: 0xA6, cpu.ModeAbs: 0xAE},
	"LDY": {cpu.ModeImm: 0xA0, cpu.ModeZP: 0xA4, cpu.ModeAbs: 0xAC},

	"STA": {cpu.ModeZP: 0x85, cpu.ModeAbs: 0x8D},
	"STX": {cpu.ModeZP: 0x86, cpu.ModeAbs: 0x8E},
	"STY": {cpu.ModeZP: 0x84, cpu.ModeAbs: 0x8C},

	"TAX": {cpu.ModeImp: 0xAA},
	"TAY": {cpu.ModeImp: 0xA8},
	"TXA": {cpu.ModeImp: 0x8A},
	"TYA": {cpu.ModeImp: 0x98},

	"PHA": {cpu.ModeImp: 0x48},
	"PLA": {cpu.ModeImp: 0x68},
	"PHP": {cpu.ModeImp: 0x08},
	"PLP": {cpu.ModeImp: 0x28},

	"AND": {cpu.ModeImm: 0x29, cpu.ModeZP: 0x25, cpu.ModeAbs: 0x2D},
	"ORA": {cpu.ModeImm: 0x09, cpu.ModeZP: 0x05, cpu.ModeAbs: 0x0D},
	"EOR": {cpu.ModeImm: 0x49, cpu.ModeZP: 0x45, cpu.ModeAbs: 0x4D},
	"BIT": {cpu.ModeZP: 0x24, cpu.ModeAbs: 0x2C},

	"ADC": {cpu.ModeImm: 0x69, cpu.ModeZP: 0x65, cpu.ModeAbs: 0x6D},
	"SBC": {cpu.ModeImm: 0xE9, cpu.ModeZP: 0xE5, cpu.ModeAbs: 0xED},

	"INX": {cpu.ModeImp: 0xE8},
	"INY": {cpu.ModeImp: 0xC8},
	"DEX": {cpu.ModeImp: 0xCA},
	"DEY": {cpu.ModeImp: 0x88},

	"CMP": {cpu.ModeImm: 0xC9, cpu.ModeZP: 0xC5, cpu.ModeAbs: 0xCD},
	"CPX": {cpu.ModeImm: 0xE0, cpu.ModeZP: 0xE4},
	"CPY": {cpu.ModeImm: 0xC0, cpu.ModeZP: 0xC4},

	"BEQ": {cpu.ModeRel: 0xF0},
	"BNE": {cpu.ModeRel: 0xD0},
	"BCC": {cpu.ModeRel: 0x90},
	"BCS": {cpu.ModeRel: 0xB0},
	"BMI": {cpu.ModeRel: 0x30},
	"BPL": {cpu.ModeRel: 0x10},
	"BVC": {cpu.ModeRel: 0x50},
	"BVS": {cpu.ModeRel: 0x70},

	"JMP": {cpu.ModeAbs: 0x4C},
	"JSR": {cpu.ModeAbs: 0x20},
	"RTS": {cpu.ModeImp: 0x60},

	"CLC": {cpu.ModeImp: 0x18},
	"SEC": {cpu.ModeImp: 0x38},
	"CLV": {cpu.ModeImp: 0xB8},
	"SEI": {cpu.ModeImp: 0x78},
	"CLI": {cpu.ModeImp: 0x58},

	"NOP": {cpu.ModeImp: 0xEA},
	"BRK": {cpu.ModeImp: 0x00},
}

// branchMnemonics is used to tell a bare-identifier operand apart
// for JMP/JSR (which want an abs-mode label reference) versus a
// branch (which wants a rel-mode one).
var branchMnemonics = map[string]bool{
	"BEQ": true, "BNE": true, "BCC": true, "BCS": true,
	"BMI": true, "BPL": true, "BVC": true, "BVS": true,
}

// instructionSize returns how many bytes an instruction encodes to in mode.
func instructionSize(mode cpu.Mode) int {
	switch mode {
	case cpu.ModeImp:
		return 1
	case cpu.ModeImm, cpu.ModeZP, cpu.ModeRel:
		return 2
	case cpu.ModeAbs:
		return 3
	default:
		return 0
	}
}
