package cpu

// Operation handlers implement the official 6502 instruction set plus the
// documented unofficial NOP family (see buildLookup). Each returns 1 if it
// can contribute a page-crossing extra cycle.

func (c *CPU) branch(taken bool) uint8 {
	if !taken {
		return 0
	}
	target := c.PC + c.addrRel
	extra := uint8(0)
	if target&0xFF00 != c.PC&0xFF00 {
		extra = 1
	}
	c.PC = target
	return extra
}

func (c *CPU) adc() uint8 {
	m := c.fetch()
	carry := uint16(0)
	if c.getFlag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(m) + carry
	c.setFlag(FlagCarry, sum > 0xFF)
	result := uint8(sum)
	c.setFlag(FlagOverflow, (c.A^m)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
	return 1
}

func (c *CPU) sbc() uint8 {
	m := c.fetch() ^ 0xFF
	carry := uint16(0)
	if c.getFlag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(m) + carry
	c.setFlag(FlagCarry, sum > 0xFF)
	result := uint8(sum)
	c.setFlag(FlagOverflow, (c.A^m)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
	return 1
}

func (c *CPU) and() uint8 { c.A &= c.fetch(); c.setZN(c.A); return 1 }
func (c *CPU) ora() uint8 { c.A |= c.fetch(); c.setZN(c.A); return 1 }
func (c *CPU) eor() uint8 { c.A ^= c.fetch(); c.setZN(c.A); return 1 }

func (c *CPU) asl() uint8 {
	m := c.fetch()
	c.setFlag(FlagCarry, m&0x80 != 0)
	result := m << 1
	c.storeResult(result)
	c.setZN(result)
	return 0
}

func (c *CPU) lsr() uint8 {
	m := c.fetch()
	c.setFlag(FlagCarry, m&0x01 != 0)
	result := m >> 1
	c.storeResult(result)
	c.setZN(result)
	return 0
}

func (c *CPU) rol() uint8 {
	m := c.fetch()
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 1
	}
	c.setFlag(FlagCarry, m&0x80 != 0)
	result := (m << 1) | carryIn
	c.storeResult(result)
	c.setZN(result)
	return 0
}

func (c *CPU) ror() uint8 {
	m := c.fetch()
	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 0x80
	}
	c.setFlag(FlagCarry, m&0x01 != 0)
	result := (m >> 1) | carryIn
	c.storeResult(result)
	c.setZN(result)
	return 0
}

// storeResult writes a read-modify-write result back to the accumulator or
// memory, depending on which addressing mode fetched the operand.
func (c *CPU) storeResult(v uint8) {
	if c.accumulatorMode {
		c.A = v
	} else {
		c.write(c.addrAbs, v)
	}
}

func (c *CPU) bit() uint8 {
	m := c.fetch()
	c.setFlag(FlagZero, c.A&m == 0)
	c.setFlag(FlagOverflow, m&0x40 != 0)
	c.setFlag(FlagNegative, m&0x80 != 0)
	return 0
}

func (c *CPU) compare(reg uint8) uint8 {
	m := c.fetch()
	result := reg - m
	c.setFlag(FlagCarry, reg >= m)
	c.setZN(result)
	return 1
}

func (c *CPU) cmp() uint8 { return c.compare(c.A) }
func (c *CPU) cpx() uint8 { return c.compare(c.X) }
func (c *CPU) cpy() uint8 { return c.compare(c.Y) }

func (c *CPU) inc() uint8 { v := c.fetch() + 1; c.write(c.addrAbs, v); c.setZN(v); return 0 }
func (c *CPU) dec() uint8 { v := c.fetch() - 1; c.write(c.addrAbs, v); c.setZN(v); return 0 }
func (c *CPU) inx() uint8 { c.X++; c.setZN(c.X); return 0 }
func (c *CPU) iny() uint8 { c.Y++; c.setZN(c.Y); return 0 }
func (c *CPU) dex() uint8 { c.X--; c.setZN(c.X); return 0 }
func (c *CPU) dey() uint8 { c.Y--; c.setZN(c.Y); return 0 }

func (c *CPU) lda() uint8 { c.A = c.fetch(); c.setZN(c.A); return 1 }
func (c *CPU) ldx() uint8 { c.X = c.fetch(); c.setZN(c.X); return 1 }
func (c *CPU) ldy() uint8 { c.Y = c.fetch(); c.setZN(c.Y); return 1 }

func (c *CPU) sta() uint8 { c.write(c.addrAbs, c.A); return 0 }
func (c *CPU) stx() uint8 { c.write(c.addrAbs, c.X); return 0 }
func (c *CPU) sty() uint8 { c.write(c.addrAbs, c.Y); return 0 }

func (c *CPU) tax() uint8 { c.X = c.A; c.setZN(c.X); return 0 }
func (c *CPU) tay() uint8 { c.Y = c.A; c.setZN(c.Y); return 0 }
func (c *CPU) txa() uint8 { c.A = c.X; c.setZN(c.A); return 0 }
func (c *CPU) tya() uint8 { c.A = c.Y; c.setZN(c.A); return 0 }
func (c *CPU) tsx() uint8 { c.X = c.SP; c.setZN(c.X); return 0 }
func (c *CPU) txs() uint8 { c.SP = c.X; return 0 }

func (c *CPU) pha() uint8 { c.push(c.A); return 0 }
func (c *CPU) php() uint8 { c.push(c.P | FlagBreak | FlagUnused); return 0 }
func (c *CPU) pla() uint8 { c.A = c.pop(); c.setZN(c.A); return 0 }
func (c *CPU) plp() uint8 {
	c.P = c.pop()
	c.P |= FlagUnused
	c.P &^= FlagBreak
	return 0
}

func (c *CPU) jmp() uint8 { c.PC = c.addrAbs; return 0 }
func (c *CPU) jsr() uint8 {
	c.PC--
	c.push16(c.PC)
	c.PC = c.addrAbs
	return 0
}
func (c *CPU) rts() uint8 { c.PC = c.pop16() + 1; return 0 }

func (c *CPU) brk() uint8 {
	c.PC++
	c.push16(c.PC)
	c.push(c.P | FlagBreak | FlagUnused)
	c.P |= FlagInterrupt
	c.PC = c.read16(0xFFFE)
	return 0
}

func (c *CPU) rti() uint8 {
	c.P = c.pop()
	c.P |= FlagUnused
	c.P &^= FlagBreak
	c.PC = c.pop16()
	return 0
}

func (c *CPU) bcc() uint8 { return c.branch(!c.getFlag(FlagCarry)) }
func (c *CPU) bcs() uint8 { return c.branch(c.getFlag(FlagCarry)) }
func (c *CPU) beq() uint8 { return c.branch(c.getFlag(FlagZero)) }
func (c *CPU) bne() uint8 { return c.branch(!c.getFlag(FlagZero)) }
func (c *CPU) bmi() uint8 { return c.branch(c.getFlag(FlagNegative)) }
func (c *CPU) bpl() uint8 { return c.branch(!c.getFlag(FlagNegative)) }
func (c *CPU) bvc() uint8 { return c.branch(!c.getFlag(FlagOverflow)) }
func (c *CPU) bvs() uint8 { return c.branch(c.getFlag(FlagOverflow)) }

func (c *CPU) clc() uint8 { c.setFlag(FlagCarry, false); return 0 }
func (c *CPU) sec() uint8 { c.setFlag(FlagCarry, true); return 0 }
func (c *CPU) cld() uint8 { c.setFlag(FlagDecimal, false); return 0 }
func (c *CPU) sed() uint8 { c.setFlag(FlagDecimal, true); return 0 }
func (c *CPU) cli() uint8 { c.setFlag(FlagInterrupt, false); return 0 }
func (c *CPU) sei() uint8 { c.setFlag(FlagInterrupt, true); return 0 }
func (c *CPU) clv() uint8 { c.setFlag(FlagOverflow, false); return 0 }

func (c *CPU) nop() uint8 { return 1 }
