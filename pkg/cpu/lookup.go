package cpu

// buildLookup fills the 256-entry opcode table: the official instruction set
// plus the documented unofficial NOP family. Every other byte value is left
// as the zero value (operate == nil), which Clock treats as "halt and keep
// ticking" per the CPU envelope's error-handling contract.
func (c *CPU) buildLookup() {
	type row struct {
		op     uint8
		name   string
		mode   func(*CPU) uint8
		op8    func(*CPU) uint8
		cycles uint8
	}

	rows := []row{
		{0x00, "BRK", (*CPU).imp, (*CPU).brk, 7},
		{0x01, "ORA", (*CPU).izx, (*CPU).ora, 6},
		{0x04, "NOP", (*CPU).zp0, (*CPU).nop, 3},
		{0x05, "ORA", (*CPU).zp0, (*CPU).ora, 3},
		{0x06, "ASL", (*CPU).zp0, (*CPU).asl, 5},
		{0x08, "PHP", (*CPU).imp, (*CPU).php, 3},
		{0x09, "ORA", (*CPU).imm, (*CPU).ora, 2},
		{0x0A, "ASL", (*CPU).acc, (*CPU).asl, 2},
		{0x0C, "NOP", (*CPU).abs, (*CPU).nop, 4},
		{0x0D, "ORA", (*CPU).abs, (*CPU).ora, 4},
		{0x0E, "ASL", (*CPU).abs, (*CPU).asl, 6},

		{0x10, "BPL", (*CPU).rel, (*CPU).bpl, 2},
		{0x11, "ORA", (*CPU).izy, (*CPU).ora, 5},
		{0x14, "NOP", (*CPU).zpx, (*CPU).nop, 4},
		{0x15, "ORA", (*CPU).zpx, (*CPU).ora, 4},
		{0x16, "ASL", (*CPU).zpx, (*CPU).asl, 6},
		{0x18, "CLC", (*CPU).imp, (*CPU).clc, 2},
		{0x19, "ORA", (*CPU).aby, (*CPU).ora, 4},
		{0x1A, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0x1C, "NOP", (*CPU).abx, (*CPU).nop, 4},
		{0x1D, "ORA", (*CPU).abx, (*CPU).ora, 4},
		{0x1E, "ASL", (*CPU).abx, (*CPU).asl, 7},

		{0x20, "JSR", (*CPU).abs, (*CPU).jsr, 6},
		{0x21, "AND", (*CPU).izx, (*CPU).and, 6},
		{0x24, "BIT", (*CPU).zp0, (*CPU).bit, 3},
		{0x25, "AND", (*CPU).zp0, (*CPU).and, 3},
		{0x26, "ROL", (*CPU).zp0, (*CPU).rol, 5},
		{0x28, "PLP", (*CPU).imp, (*CPU).plp, 4},
		{0x29, "AND", (*CPU).imm, (*CPU).and, 2},
		{0x2A, "ROL", (*CPU).acc, (*CPU).rol, 2},
		{0x2C, "BIT", (*CPU).abs, (*CPU).bit, 4},
		{0x2D, "AND", (*CPU).abs, (*CPU).and, 4},
		{0x2E, "ROL", (*CPU).abs, (*CPU).rol, 6},

		{0x30, "BMI", (*CPU).rel, (*CPU).bmi, 2},
		{0x31, "AND", (*CPU).izy, (*CPU).and, 5},
		{0x34, "NOP", (*CPU).zpx, (*CPU).nop, 4},
		{0x35, "AND", (*CPU).zpx, (*CPU).and, 4},
		{0x36, "ROL", (*CPU).zpx, (*CPU).rol, 6},
		{0x38, "SEC", (*CPU).imp, (*CPU).sec, 2},
		{0x39, "AND", (*CPU).aby, (*CPU).and, 4},
		{0x3A, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0x3C, "NOP", (*CPU).abx, (*CPU).nop, 4},
		{0x3D, "AND", (*CPU).abx, (*CPU).and, 4},
		{0x3E, "ROL", (*CPU).abx, (*CPU).rol, 7},

		{0x40, "RTI", (*CPU).imp, (*CPU).rti, 6},
		{0x41, "EOR", (*CPU).izx, (*CPU).eor, 6},
		{0x44, "NOP", (*CPU).zp0, (*CPU).nop, 3},
		{0x45, "EOR", (*CPU).zp0, (*CPU).eor, 3},
		{0x46, "LSR", (*CPU).zp0, (*CPU).lsr, 5},
		{0x48, "PHA", (*CPU).imp, (*CPU).pha, 3},
		{0x49, "EOR", (*CPU).imm, (*CPU).eor, 2},
		{0x4A, "LSR", (*CPU).acc, (*CPU).lsr, 2},
		{0x4C, "JMP", (*CPU).abs, (*CPU).jmp, 3},
		{0x4D, "EOR", (*CPU).abs, (*CPU).eor, 4},
		{0x4E, "LSR", (*CPU).abs, (*CPU).lsr, 6},

		{0x50, "BVC", (*CPU).rel, (*CPU).bvc, 2},
		{0x51, "EOR", (*CPU).izy, (*CPU).eor, 5},
		{0x54, "NOP", (*CPU).zpx, (*CPU).nop, 4},
		{0x55, "EOR", (*CPU).zpx, (*CPU).eor, 4},
		{0x56, "LSR", (*CPU).zpx, (*CPU).lsr, 6},
		{0x58, "CLI", (*CPU).imp, (*CPU).cli, 2},
		{0x59, "EOR", (*CPU).aby, (*CPU).eor, 4},
		{0x5A, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0x5C, "NOP", (*CPU).abx, (*CPU).nop, 4},
		{0x5D, "EOR", (*CPU).abx, (*CPU).eor, 4},
		{0x5E, "LSR", (*CPU).abx, (*CPU).lsr, 7},

		{0x60, "RTS", (*CPU).imp, (*CPU).rts, 6},
		{0x61, "ADC", (*CPU).izx, (*CPU).adc, 6},
		{0x64, "NOP", (*CPU).zp0, (*CPU).nop, 3},
		{0x65, "ADC", (*CPU).zp0, (*CPU).adc, 3},
		{0x66, "ROR", (*CPU).zp0, (*CPU).ror, 5},
		{0x68, "PLA", (*CPU).imp, (*CPU).pla, 4},
		{0x69, "ADC", (*CPU).imm, (*CPU).adc, 2},
		{0x6A, "ROR", (*CPU).acc, (*CPU).ror, 2},
		{0x6C, "JMP", (*CPU).ind, (*CPU).jmp, 5},
		{0x6D, "ADC", (*CPU).abs, (*CPU).adc, 4},
		{0x6E, "ROR", (*CPU).abs, (*CPU).ror, 6},

		{0x70, "BVS", (*CPU).rel, (*CPU).bvs, 2},
		{0x71, "ADC", (*CPU).izy, (*CPU).adc, 5},
		{0x74, "NOP", (*CPU).zpx, (*CPU).nop, 4},
		{0x75, "ADC", (*CPU).zpx, (*CPU).adc, 4},
		{0x76, "ROR", (*CPU).zpx, (*CPU).ror, 6},
		{0x78, "SEI", (*CPU).imp, (*CPU).sei, 2},
		{0x79, "ADC", (*CPU).aby, (*CPU).adc, 4},
		{0x7A, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0x7C, "NOP", (*CPU).abx, (*CPU).nop, 4},
		{0x7D, "ADC", (*CPU).abx, (*CPU).adc, 4},
		{0x7E, "ROR", (*CPU).abx, (*CPU).ror, 7},

		{0x80, "NOP", (*CPU).imm, (*CPU).nop, 2},
		{0x81, "STA", (*CPU).izx, (*CPU).sta, 6},
		{0x82, "NOP", (*CPU).imm, (*CPU).nop, 2},
		{0x84, "STY", (*CPU).zp0, (*CPU).sty, 3},
		{0x85, "STA", (*CPU).zp0, (*CPU).sta, 3},
		{0x86, "STX", (*CPU).zp0, (*CPU).stx, 3},
		{0x88, "DEY", (*CPU).imp, (*CPU).dey, 2},
		{0x89, "NOP", (*CPU).imm, (*CPU).nop, 2},
		{0x8A, "TXA", (*CPU).imp, (*CPU).txa, 2},
		{0x8C, "STY", (*CPU).abs, (*CPU).sty, 4},
		{0x8D, "STA", (*CPU).abs, (*CPU).sta, 4},
		{0x8E, "STX", (*CPU).abs, (*CPU).stx, 4},

		{0x90, "BCC", (*CPU).rel, (*CPU).bcc, 2},
		{0x91, "STA", (*CPU).izy, (*CPU).sta, 6},
		{0x94, "STY", (*CPU).zpx, (*CPU).sty, 4},
		{0x95, "STA", (*CPU).zpx, (*CPU).sta, 4},
		{0x96, "STX", (*CPU).zpy, (*CPU).stx, 4},
		{0x98, "TYA", (*CPU).imp, (*CPU).tya, 2},
		{0x99, "STA", (*CPU).aby, (*CPU).sta, 5},
		{0x9A, "TXS", (*CPU).imp, (*CPU).txs, 2},
		{0x9D, "STA", (*CPU).abx, (*CPU).sta, 5},

		{0xA0, "LDY", (*CPU).imm, (*CPU).ldy, 2},
		{0xA1, "LDA", (*CPU).izx, (*CPU).lda, 6},
		{0xA2, "LDX", (*CPU).imm, (*CPU).ldx, 2},
		{0xA4, "LDY", (*CPU).zp0, (*CPU).ldy, 3},
		{0xA5, "LDA", (*CPU).zp0, (*CPU).lda, 3},
		{0xA6, "LDX", (*CPU).zp0, (*CPU).ldx, 3},
		{0xA8, "TAY", (*CPU).imp, (*CPU).tay, 2},
		{0xA9, "LDA", (*CPU).imm, (*CPU).lda, 2},
		{0xAA, "TAX", (*CPU).imp, (*CPU).tax, 2},
		{0xAC, "LDY", (*CPU).abs, (*CPU).ldy, 4},
		{0xAD, "LDA", (*CPU).abs, (*CPU).lda, 4},
		{0xAE, "LDX", (*CPU).abs, (*CPU).ldx, 4},

		{0xB0, "BCS", (*CPU).rel, (*CPU).bcs, 2},
		{0xB1, "LDA", (*CPU).izy, (*CPU).lda, 5},
		{0xB4, "LDY", (*CPU).zpx, (*CPU).ldy, 4},
		{0xB5, "LDA", (*CPU).zpx, (*CPU).lda, 4},
		{0xB6, "LDX", (*CPU).zpy, (*CPU).ldx, 4},
		{0xB8, "CLV", (*CPU).imp, (*CPU).clv, 2},
		{0xB9, "LDA", (*CPU).aby, (*CPU).lda, 4},
		{0xBA, "TSX", (*CPU).imp, (*CPU).tsx, 2},
		{0xBC, "LDY", (*CPU).abx, (*CPU).ldy, 4},
		{0xBD, "LDA", (*CPU).abx, (*CPU).lda, 4},
		{0xBE, "LDX", (*CPU).aby, (*CPU).ldx, 4},

		{0xC0, "CPY", (*CPU).imm, (*CPU).cpy, 2},
		{0xC1, "CMP", (*CPU).izx, (*CPU).cmp, 6},
		{0xC2, "NOP", (*CPU).imm, (*CPU).nop, 2},
		{0xC4, "CPY", (*CPU).zp0, (*CPU).cpy, 3},
		{0xC5, "CMP", (*CPU).zp0, (*CPU).cmp, 3},
		{0xC6, "DEC", (*CPU).zp0, (*CPU).dec, 5},
		{0xC8, "INY", (*CPU).imp, (*CPU).iny, 2},
		{0xC9, "CMP", (*CPU).imm, (*CPU).cmp, 2},
		{0xCA, "DEX", (*CPU).imp, (*CPU).dex, 2},
		{0xCC, "CPY", (*CPU).abs, (*CPU).cpy, 4},
		{0xCD, "CMP", (*CPU).abs, (*CPU).cmp, 4},
		{0xCE, "DEC", (*CPU).abs, (*CPU).dec, 6},

		{0xD0, "BNE", (*CPU).rel, (*CPU).bne, 2},
		{0xD1, "CMP", (*CPU).izy, (*CPU).cmp, 5},
		{0xD4, "NOP", (*CPU).zpx, (*CPU).nop, 4},
		{0xD5, "CMP", (*CPU).zpx, (*CPU).cmp, 4},
		{0xD6, "DEC", (*CPU).zpx, (*CPU).dec, 6},
		{0xD8, "CLD", (*CPU).imp, (*CPU).cld, 2},
		{0xD9, "CMP", (*CPU).aby, (*CPU).cmp, 4},
		{0xDA, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0xDC, "NOP", (*CPU).abx, (*CPU).nop, 4},
		{0xDD, "CMP", (*CPU).abx, (*CPU).cmp, 4},
		{0xDE, "DEC", (*CPU).abx, (*CPU).dec, 7},

		{0xE0, "CPX", (*CPU).imm, (*CPU).cpx, 2},
		{0xE1, "SBC", (*CPU).izx, (*CPU).sbc, 6},
		{0xE2, "NOP", (*CPU).imm, (*CPU).nop, 2},
		{0xE4, "CPX", (*CPU).zp0, (*CPU).cpx, 3},
		{0xE5, "SBC", (*CPU).zp0, (*CPU).sbc, 3},
		{0xE6, "INC", (*CPU).zp0, (*CPU).inc, 5},
		{0xE8, "INX", (*CPU).imp, (*CPU).inx, 2},
		{0xE9, "SBC", (*CPU).imm, (*CPU).sbc, 2},
		{0xEA, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0xEC, "CPX", (*CPU).abs, (*CPU).cpx, 4},
		{0xED, "SBC", (*CPU).abs, (*CPU).sbc, 4},
		{0xEE, "INC", (*CPU).abs, (*CPU).inc, 6},

		{0xF0, "BEQ", (*CPU).rel, (*CPU).beq, 2},
		{0xF1, "SBC", (*CPU).izy, (*CPU).sbc, 5},
		{0xF4, "NOP", (*CPU).zpx, (*CPU).nop, 4},
		{0xF5, "SBC", (*CPU).zpx, (*CPU).sbc, 4},
		{0xF6, "INC", (*CPU).zpx, (*CPU).inc, 6},
		{0xF8, "SED", (*CPU).imp, (*CPU).sed, 2},
		{0xF9, "SBC", (*CPU).aby, (*CPU).sbc, 4},
		{0xFA, "NOP", (*CPU).imp, (*CPU).nop, 2},
		{0xFC, "NOP", (*CPU).abx, (*CPU).nop, 4},
		{0xFD, "SBC", (*CPU).abx, (*CPU).sbc, 4},
		{0xFE, "INC", (*CPU).abx, (*CPU).inc, 7},
	}

	for _, r := range rows {
		c.lookup[r.op] = instruction{name: r.name, mode: r.mode, operate: r.op8, cycles: r.cycles}
	}
}
