package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mos6502/core/pkg/cpu"
)

// classify determines the addressing mode an operand's syntax
// implies, the way spec.md §4.1's table does. It does not require the
// label table: bare identifiers are classified purely from the
// mnemonic's class (JMP/JSR want abs, branches want rel), exactly as
// Pass 1 needs before any label is known to exist.
//
// value is meaningful only for imm and zp/abs literals; it is 0 and
// ignored for imp, rel and label-abs, whose actual value depends on
// the label table and is resolved separately by emit.
func classify(mnemonic, operand string) (mode cpu.Mode, value uint32, err error) {
	switch {
	case operand == "":
		return cpu.ModeImp, 0, nil

	case strings.HasPrefix(operand, "#$"):
		v, err := strconv.ParseUint(operand[2:], 16, 32)
		if err != nil {
			return cpu.ModeNone, 0, fmt.Errorf("%w: bad immediate %q", ErrInvalidOperand, operand)
		}
		return cpu.ModeImm, uint32(v), nil

	case strings.HasPrefix(operand, "$"):
		v, err := strconv.ParseUint(operand[1:], 16, 32)
		if err != nil {
			return cpu.ModeNone, 0, fmt.Errorf("%w: bad literal %q", ErrInvalidOperand, operand)
		}
		if v > 0xFFFF {
			return cpu.ModeNone, 0, fmt.Errorf("%w: literal %q does not fit in 16 bits", ErrInvalidOperand, operand)
		}
		if v <= 0xFF && supportsMode(mnemonic, cpu.ModeZP) {
			return cpu.ModeZP, uint32(v), nil
		}
		return cpu.ModeAbs, uint32(v), nil

	case isIdentifier(operand):
		if mnemonic == "JMP" || mnemonic == "JSR" {
			return cpu.ModeAbs, 0, nil
		}
		if branchMnemonics[mnemonic] {
			return cpu.ModeRel, 0, nil
		}
		return cpu.ModeNone, 0, fmt.Errorf("%w: %s cannot take a label operand", ErrInvalidOperand, mnemonic)

	default:
		return cpu.ModeNone, 0, fmt.Errorf("%w: %q", ErrInvalidOperand, operand)
	}
}

// supportsMode reports whether mnemonic has an opcode defined for mode.
func supportsMode(mnemonic string, mode cpu.Mode) bool {
	modes, ok := mnemonics[mnemonic]
	if !ok {
		return false
	}
	_, ok = modes[mode]
	return ok
}

// isIdentifier reports whether operand looks like a bare label
// reference: neither empty, nor "#$..." nor "$...".
func isIdentifier(operand string) bool {
	if operand == "" || strings.HasPrefix(operand, "#") || strings.HasPrefix(operand, "$") {
		return false
	}
	for _, r := range operand {
		if r == ' ' || r == '\t' {
			return false
		}
	}
	return true
}
