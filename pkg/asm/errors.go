package asm

import "errors"

// The following sentinel errors are the assembly-time failure modes
// defined by spec.md §7. Callers identify which one occurred with
// errors.Is; every returned error wraps one of these with
// fmt.Errorf("%w: ...") so the message also carries line and operand
// context, the idiom of the teacher's ErrCannotEncode/ErrOutOfRange.
var (
	// ErrUnknownInstruction means the mnemonic isn't in the opcode table.
	ErrUnknownInstruction = errors.New("asm: unknown instruction")

	// ErrInvalidMode means the mnemonic doesn't support the operand's
	// implied addressing mode (e.g. STA #$42).
	ErrInvalidMode = errors.New("asm: invalid addressing mode")

	// ErrInvalidOperand means the operand matches none of the
	// recognized forms, including an unresolved identifier.
	ErrInvalidOperand = errors.New("asm: invalid operand")

	// ErrBranchRange means a relative branch target falls outside
	// -128..+127 bytes of the instruction following the branch.
	ErrBranchRange = errors.New("asm: branch target out of range")

	// ErrDuplicateLabel means the same label was defined twice.
	ErrDuplicateLabel = errors.New("asm: duplicate label")
)
