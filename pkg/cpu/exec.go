package cpu

// This file holds the semantic handler for every supported mnemonic.
// Each handler receives the operand Step already resolved through the
// instruction's addressing mode: a fetched value for loads/logic/
// arithmetic/compare/BIT, an effective address for stores/JMP/JSR, or
// a raw (unsigned, 1-byte) offset for branches.

func opLDA(c *CPU, v uint16) { c.A = uint8(v); c.setZN(c.A) }
func opLDX(c *CPU, v uint16) { c.X = uint8(v); c.setZN(c.X) }
func opLDY(c *CPU, v uint16) { c.Y = uint8(v); c.setZN(c.Y) }

func opSTA(c *CPU, addr uint16) { c.Mem.Write(addr, c.A) }
func opSTX(c *CPU, addr uint16) { c.Mem.Write(addr, c.X) }
func opSTY(c *CPU, addr uint16) { c.Mem.Write(addr, c.Y) }

func opTAX(c *CPU, _ uint16) { c.X = c.A; c.setZN(c.X) }
func opTAY(c *CPU, _ uint16) { c.Y = c.A; c.setZN(c.Y) }
func opTXA(c *CPU, _ uint16) { c.A = c.X; c.setZN(c.A) }
func opTYA(c *CPU, _ uint16) { c.A = c.Y; c.setZN(c.A) }

func opPHA(c *CPU, _ uint16) { c.push(c.A) }
func opPLA(c *CPU, _ uint16) { c.A = c.pull(); c.setZN(c.A) }

// opPHP pushes P with the Break bit forced on in the pushed copy
// only; the live P is untouched.
func opPHP(c *CPU, _ uint16) { c.push(c.P | FlagBreak) }

// opPLP pulls P, then clears Break and forces Unused in the live
// register -- the pulled Break bit never sticks around as live state.
func opPLP(c *CPU, _ uint16) {
	c.P = c.pull()
	c.P = (c.P &^ FlagBreak) | FlagUnused
}

func opAND(c *CPU, v uint16) { c.A &= uint8(v); c.setZN(c.A) }
func opORA(c *CPU, v uint16) { c.A |= uint8(v); c.setZN(c.A) }
func opEOR(c *CPU, v uint16) { c.A ^= uint8(v); c.setZN(c.A) }

func opBIT(c *CPU, v uint16) {
	b := uint8(v)
	c.SetFlag(FlagZero, c.A&b == 0)
	c.SetFlag(FlagNegative, b&0x80 != 0)
	c.SetFlag(FlagOverflow, b&0x40 != 0)
}

func opADC(c *CPU, v uint16) {
	a := c.A
	operand := uint8(v)
	carryIn := uint16(0)
	if c.GetFlag(FlagCarry) {
		carryIn = 1
	}
	sum := uint16(a) + uint16(operand) + carryIn
	res := uint8(sum)
	c.A = res
	c.setZN(res)
	c.SetFlag(FlagCarry, sum > 0xFF)
	c.SetFlag(FlagOverflow, (a^res)&(operand^res)&0x80 != 0)
}

// opSBC uses the canonical signed-overflow formula
// ((A^operand)&(A^result)&0x80)!=0; it is the same expression as the
// source's ((A^result)&((A^operand)&0x80))!=0 up to associativity of
// &, so there is no behavioral divergence between the two (see
// DESIGN.md).
func opSBC(c *CPU, v uint16) {
	a := c.A
	operand := uint8(v)
	borrow := int16(1)
	if c.GetFlag(FlagCarry) {
		borrow = 0
	}
	diff := int16(a) - int16(operand) - borrow
	res := uint8(diff)
	c.A = res
	c.setZN(res)
	c.SetFlag(FlagCarry, diff >= 0)
	c.SetFlag(FlagOverflow, (a^operand)&(a^res)&0x80 != 0)
}

func opINX(c *CPU, _ uint16) { c.X++; c.setZN(c.X) }
func opINY(c *CPU, _ uint16) { c.Y++; c.setZN(c.Y) }
func opDEX(c *CPU, _ uint16) { c.X--; c.setZN(c.X) }
func opDEY(c *CPU, _ uint16) { c.Y--; c.setZN(c.Y) }

func opCMP(c *CPU, v uint16) { compare(c, c.A, v) }
func opCPX(c *CPU, v uint16) { compare(c, c.X, v) }
func opCPY(c *CPU, v uint16) { compare(c, c.Y, v) }

func compare(c *CPU, reg uint8, v uint16) {
	operand := uint8(v)
	c.SetFlag(FlagCarry, reg >= operand)
	c.setZN(reg - operand)
}

func opJMP(c *CPU, addr uint16) { c.PC = addr }

// opJSR pushes the return address (the last byte of the JSR
// instruction, i.e. PC-1 at this point since PC already advanced past
// the two address bytes) high byte first, then low byte, before
// jumping.
func opJSR(c *CPU, addr uint16) {
	ret := c.PC - 1
	c.push(uint8(ret >> 8))
	c.push(uint8(ret))
	c.PC = addr
}

// opRTS pulls low then high (the inverse order of JSR's pushes) and
// resumes one byte past the pulled return address.
func opRTS(c *CPU, _ uint16) {
	lo := c.pull()
	hi := c.pull()
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.PC++
}

// branch tests cond; if true it applies the signed 8-bit offset
// already fetched into raw to PC. PC has already been advanced past
// the offset byte by Step in both the taken and not-taken cases.
func branch(c *CPU, cond bool, raw uint16) {
	if !cond {
		return
	}
	offset := int16(int8(uint8(raw)))
	c.PC = uint16(int32(c.PC) + int32(offset))
}

func opBEQ(c *CPU, raw uint16) { branch(c, c.GetFlag(FlagZero), raw) }
func opBNE(c *CPU, raw uint16) { branch(c, !c.GetFlag(FlagZero), raw) }
func opBCC(c *CPU, raw uint16) { branch(c, !c.GetFlag(FlagCarry), raw) }
func opBCS(c *CPU, raw uint16) { branch(c, c.GetFlag(FlagCarry), raw) }
func opBMI(c *CPU, raw uint16) { branch(c, c.GetFlag(FlagNegative), raw) }
func opBPL(c *CPU, raw uint16) { branch(c, !c.GetFlag(FlagNegative), raw) }
func opBVC(c *CPU, raw uint16) { branch(c, !c.GetFlag(FlagOverflow), raw) }
func opBVS(c *CPU, raw uint16) { branch(c, c.GetFlag(FlagOverflow), raw) }

func opCLC(c *CPU, _ uint16) { c.SetFlag(FlagCarry, false) }
func opSEC(c *CPU, _ uint16) { c.SetFlag(FlagCarry, true) }
func opCLV(c *CPU, _ uint16) { c.SetFlag(FlagOverflow, false) }
func opSEI(c *CPU, _ uint16) { c.SetFlag(FlagInterrupt, true) }
func opCLI(c *CPU, _ uint16) { c.SetFlag(FlagInterrupt, false) }

func opNOP(c *CPU, _ uint16) {}

func opBRK(c *CPU, _ uint16) {
	c.SetFlag(FlagBreak, true)
	c.running = false
}
