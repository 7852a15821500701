// Package cpu implements the register file, flat 64 KiB memory, and
// cycle-counted fetch/decode/execute loop for a subset of the MOS
// 6502 instruction set: immediate, zero-page, absolute, implied and
// relative addressing only. Decimal mode, page-crossing cycle
// penalties, hardware interrupts and illegal opcodes are not modeled.
package cpu

// MaxSteps bounds a single Run call: it is a safety net against
// unterminated loops in assembled programs, not a resource limit a
// caller can raise or lower.
const MaxSteps = 10000

// OpcodeFault records the offending byte and address the one time
// Step hits an opcode with no table entry. The core never logs this
// itself -- per spec, only the host layer reports it -- but keeps it
// here so a host can.
type OpcodeFault struct {
	Opcode uint8
	Addr   uint16
}

// CPU is a single 6502 core: the register file, the 64 KiB memory it
// executes against, and the bookkeeping the interpreter contract
// requires (running/assembled/cycles). It is not safe for concurrent
// use; the host owns exactly one goroutine driving it at a time.
type CPU struct {
	Regs
	Mem

	running   bool
	assembled bool
	limited   bool // true once Run has halted on the step-limit safety net
	halted    bool // true once Step has halted on BRK or an unknown opcode
	cycles    uint64

	Fault *OpcodeFault
}

// New returns a freshly reset CPU: registers at their power-up
// values, running and assembled both false. Memory is left as the
// zero value (all zero bytes).
func New() *CPU {
	c := &CPU{}
	c.Regs.reset()
	return c
}

// Reset restores the register file to its power-up values and marks
// the CPU running=false, assembled=false. It does not touch memory;
// only the assembler's load step clears memory.
func (c *CPU) Reset() {
	c.Regs.reset()
	c.running = false
	c.assembled = false
	c.limited = false
	c.halted = false
	c.cycles = 0
	c.Fault = nil
}

// Load clears memory, copies bytes starting at start, sets PC=start
// and marks the CPU assembled. It is the bridge between the
// assembler's output and the interpreter.
func (c *CPU) Load(bytes []byte, start uint16) {
	c.Mem.Clear()
	c.Mem.Load(start, bytes)
	c.PC = start
	c.assembled = true
	c.running = false
	c.limited = false
	c.halted = false
	c.Fault = nil
}

// Running reports whether the CPU is between the start of Run and its
// first halting event.
func (c *CPU) Running() bool { return c.running }

// Resume enters the running state without looping to completion the
// way Run does, so a caller can drive the CPU one Step at a time (the
// monitor's STEP command does this). It has no effect if the CPU isn't
// assembled, or has already halted -- on a prior step-limit, on BRK, or
// on an unknown opcode -- without an intervening Load or Reset: none of
// those halts are meant to be resumable by anything short of starting
// over. It returns the resulting Running value.
func (c *CPU) Resume() bool {
	if c.assembled && !c.limited && !c.halted {
		c.running = true
	}
	return c.running
}

// Assembled reports whether a program has been successfully loaded
// since the last Reset.
func (c *CPU) Assembled() bool { return c.assembled }

// Limited reports whether the CPU halted by hitting Run's MaxSteps
// safety net rather than BRK, an unknown opcode, or never having run.
func (c *CPU) Limited() bool { return c.limited }

// Cycles returns the cumulative cycle count since the last Reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Step fetches, decodes and executes one instruction. It returns
// false without side effect if the CPU isn't both running and
// assembled. If the fetched opcode has no table entry, it halts
// (running=false), records Fault, and returns false -- this is not an
// error return, matching the spec's bool contract.
func (c *CPU) Step() bool {
	if !c.running || !c.assembled {
		return false
	}

	faultAddr := c.PC
	opcode := c.Mem.Read(c.PC)
	c.PC++

	info := opcodeTable[opcode]
	if info.run == nil {
		c.running = false
		c.halted = true
		c.Fault = &OpcodeFault{Opcode: opcode, Addr: faultAddr}
		return false
	}

	var operand uint16
	switch info.mode {
	case ModeImp:
		// no operand bytes
	case ModeImm:
		operand = uint16(c.Mem.Read(c.PC))
		c.PC++
	case ModeZP:
		addr := uint16(c.Mem.Read(c.PC))
		c.PC++
		if info.addrOperand {
			operand = addr
		} else {
			operand = uint16(c.Mem.Read(addr))
		}
	case ModeAbs:
		addr := c.Mem.Read16(c.PC)
		c.PC += 2
		if info.addrOperand {
			operand = addr
		} else {
			operand = uint16(c.Mem.Read(addr))
		}
	case ModeRel:
		operand = uint16(c.Mem.Read(c.PC))
		c.PC++
	}

	info.run(c, operand)
	c.cycles += uint64(info.cycles)
	if !c.running {
		c.halted = true // e.g. BRK, the only handler that halts mid-step
	}
	return true
}

// Run sets running=true and steps until Step returns false or
// MaxSteps iterations have executed, whichever comes first. If the
// CPU is currently halted on a prior step-limit (and hasn't been
// Reset or reloaded by Load since), Run does nothing: the spec leaves continuing across
// Run calls after a step-limit halt undefined, and this core requires
// an explicit Reset before resuming.
func (c *CPU) Run() {
	c.run(nil)
}

// RunTraced behaves exactly like Run, but invokes trace after every
// instruction Step executes, including a BRK that halts the CPU; a
// Step that returns false (an unknown opcode) is not traced. A host that wants per-step visibility -- e.g. a verbose
// CLI flag -- uses this instead of hand-rolling its own Step loop, so
// the step-limit halt bookkeeping (running/limited) stays identical
// regardless of whether anyone is watching.
func (c *CPU) RunTraced(trace func(Snapshot)) {
	c.run(trace)
}

func (c *CPU) run(trace func(Snapshot)) {
	if c.limited {
		return
	}
	c.running = true
	for i := 0; i < MaxSteps; i++ {
		if !c.Step() {
			return
		}
		if trace != nil {
			trace(c.Snapshot())
		}
	}
	c.running = false
	c.limited = true
}

// push writes v at the live stack address then decrements SP,
// wrapping mod 256.
func (c *CPU) push(v uint8) {
	c.Mem.Write(0x0100+uint16(c.SP), v)
	c.SP--
}

// pull increments SP first, wrapping mod 256, then reads the live
// stack address -- the exact inverse of push.
func (c *CPU) pull() uint8 {
	c.SP++
	return c.Mem.Read(0x0100 + uint16(c.SP))
}

// Snapshot is the observable register/status view a host polls after
// step/run, matching the external snapshot contract in spec §6.
type Snapshot struct {
	A, X, Y, SP, P uint8
	PC             uint16
	Cycles         uint64
	Running        bool
	Assembled      bool
}

// Snapshot returns the current observable state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P, PC: c.PC,
		Cycles:    c.cycles,
		Running:   c.running,
		Assembled: c.assembled,
	}
}
