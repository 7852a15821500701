// Package asm is the two-pass symbolic assembler for the supported
// subset of MOS 6502 mnemonics: loads, stores, transfers, stack ops,
// logic, arithmetic, inc/dec, compares, branches, jumps, flag control
// and NOP/BRK. See spec.md §4.1 for the full mnemonic/opcode table;
// pkg/asm/opcodes.go holds it in code.
//
// Assemble is deterministic and does no I/O: it takes source text and
// returns a byte vector plus a fixed start address, or a typed error
// identifying the offending mnemonic or operand. The label table it
// builds along the way is local to one call -- this package keeps no
// state between calls.
//
// Lexical layer: source is split on newlines; each line has
// everything from the first ';' onward stripped as a comment, then is
// trimmed. Lines empty after that are discarded. A line whose trimmed
// text ends in ':' is a label definition. Every other surviving line
// is an instruction: its first whitespace-separated token is the
// mnemonic (case-folded upper), the rest is the operand.
//
// Addressing-mode detection from operand syntax:
//
//	absent                                   -> implied
//	"#$" + hex                               -> immediate
//	"$" + hex, value <= 0xFF, zp form exists -> zero page
//	"$" + hex, otherwise                     -> absolute
//	bare identifier, JMP/JSR                 -> absolute (label address)
//	bare identifier, branch mnemonic         -> relative (signed offset)
//
// Pass 1 assigns addresses by walking lines in source order starting
// at StartAddress, recording each label's address and advancing by
// each instruction's encoded size -- computed from operand syntax
// alone, without resolving any label. Pass 2 walks the lines again
// from StartAddress, this time resolving labels and emitting bytes.
package asm

import (
	"fmt"

	"github.com/mos6502/core/pkg/cpu"
)

// StartAddress is the fixed address assembled programs load at.
const StartAddress uint16 = 0x0600

// Assemble translates source into a byte vector ready to load at
// StartAddress. It fails with one of the sentinel errors in errors.go
// on the first problem encountered; there is no partial result on
// failure.
func Assemble(source string) ([]byte, uint16, error) {
	lines := lex(source)

	labels, err := pass1(lines)
	if err != nil {
		return nil, 0, err
	}

	bytes, err := pass2(lines, labels)
	if err != nil {
		return nil, 0, err
	}

	return bytes, StartAddress, nil
}

// pass1 assigns every label its address and validates that every
// instruction line's operand syntax is classifiable, without
// resolving any label reference yet.
func pass1(lines []sourceLine) (map[string]uint16, error) {
	labels := make(map[string]uint16)
	current := StartAddress

	for _, ln := range lines {
		if ln.label != "" {
			if _, dup := labels[ln.label]; dup {
				return nil, fmt.Errorf("%w: %q on line %d", ErrDuplicateLabel, ln.label, ln.lineno)
			}
			labels[ln.label] = current
			continue
		}

		mode, _, err := classify(ln.mnemonic, ln.operand)
		if err != nil {
			return nil, lineErr(ln, err)
		}
		current += uint16(instructionSize(mode))
	}

	return labels, nil
}

// pass2 walks the lines again, this time resolving labels and
// emitting the machine code bytes in source order.
func pass2(lines []sourceLine, labels map[string]uint16) ([]byte, error) {
	var out []byte
	current := StartAddress

	for _, ln := range lines {
		if ln.label != "" {
			continue
		}

		emitted, err := emit(ln, current, labels)
		if err != nil {
			return nil, err
		}
		out = append(out, emitted...)
		current += uint16(len(emitted))
	}

	return out, nil
}

// emit encodes a single instruction line at address current (the
// address the opcode byte itself will occupy).
func emit(ln sourceLine, current uint16, labels map[string]uint16) ([]byte, error) {
	modes, ok := mnemonics[ln.mnemonic]
	if !ok {
		return nil, lineErr(ln, fmt.Errorf("%w: %q", ErrUnknownInstruction, ln.mnemonic))
	}

	mode, value, err := classify(ln.mnemonic, ln.operand)
	if err != nil {
		return nil, lineErr(ln, err)
	}

	switch mode {
	case cpu.ModeImp:
		op, ok := modes[cpu.ModeImp]
		if !ok {
			return nil, lineErr(ln, fmt.Errorf("%w: %s takes no operand", ErrInvalidMode, ln.mnemonic))
		}
		return []byte{op}, nil

	case cpu.ModeImm:
		op, ok := modes[cpu.ModeImm]
		if !ok {
			return nil, lineErr(ln, fmt.Errorf("%w: %s does not support #$.. ", ErrInvalidMode, ln.mnemonic))
		}
		if value > 0xFF {
			return nil, lineErr(ln, fmt.Errorf("%w: immediate %#x does not fit in a byte", ErrInvalidOperand, value))
		}
		return []byte{op, byte(value)}, nil

	case cpu.ModeZP:
		op, ok := modes[cpu.ModeZP]
		if !ok {
			return nil, lineErr(ln, fmt.Errorf("%w: %s has no zero-page form", ErrInvalidMode, ln.mnemonic))
		}
		return []byte{op, byte(value)}, nil

	case cpu.ModeAbs:
		// A label reference resolves through labels; a literal $nnnn
		// was already parsed into value by classify.
		addr := uint16(value)
		if isIdentifier(ln.operand) {
			resolved, found := labels[ln.operand]
			if !found {
				return nil, lineErr(ln, fmt.Errorf("%w: undefined label %q", ErrInvalidOperand, ln.operand))
			}
			addr = resolved
		}
		op, ok := modes[cpu.ModeAbs]
		if !ok {
			return nil, lineErr(ln, fmt.Errorf("%w: %s has no absolute form", ErrInvalidMode, ln.mnemonic))
		}
		return []byte{op, byte(addr), byte(addr >> 8)}, nil

	case cpu.ModeRel:
		op, ok := modes[cpu.ModeRel]
		if !ok {
			return nil, lineErr(ln, fmt.Errorf("%w: %s is not a branch", ErrInvalidMode, ln.mnemonic))
		}
		target, found := labels[ln.operand]
		if !found {
			return nil, lineErr(ln, fmt.Errorf("%w: undefined label %q", ErrInvalidOperand, ln.operand))
		}
		offset := int32(target) - int32(current+2)
		if offset < -128 || offset > 127 {
			return nil, lineErr(ln, fmt.Errorf("%w: %q is %d bytes away", ErrBranchRange, ln.operand, offset))
		}
		return []byte{op, byte(int8(offset))}, nil

	default:
		return nil, lineErr(ln, fmt.Errorf("%w: operand %q", ErrInvalidOperand, ln.operand))
	}
}

func lineErr(ln sourceLine, err error) error {
	return fmt.Errorf("line %d (%s %s): %w", ln.lineno, ln.mnemonic, ln.operand, err)
}
