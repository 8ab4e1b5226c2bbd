package cpu

import (
	"bytes"
	"encoding/binary"
)

// SaveState encodes every register and micro-cycle field that determines
// the CPU's future behavior. The bus it's wired to, and the opcode lookup
// table (rebuilt by New), are not part of the blob.
func (c *CPU) SaveState() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, c.A)
	binary.Write(&buf, binary.LittleEndian, c.X)
	binary.Write(&buf, binary.LittleEndian, c.Y)
	binary.Write(&buf, binary.LittleEndian, c.SP)
	binary.Write(&buf, binary.LittleEndian, c.PC)
	binary.Write(&buf, binary.LittleEndian, c.P)
	binary.Write(&buf, binary.LittleEndian, c.nmiPending)
	binary.Write(&buf, binary.LittleEndian, c.irqLine)
	binary.Write(&buf, binary.LittleEndian, c.rdy)
	binary.Write(&buf, binary.LittleEndian, c.halted)
	binary.Write(&buf, binary.LittleEndian, c.opcode)
	binary.Write(&buf, binary.LittleEndian, c.addrAbs)
	binary.Write(&buf, binary.LittleEndian, c.addrRel)
	binary.Write(&buf, binary.LittleEndian, c.fetched)
	binary.Write(&buf, binary.LittleEndian, c.accumulatorMode)
	binary.Write(&buf, binary.LittleEndian, c.cycles)
	binary.Write(&buf, binary.LittleEndian, c.instrCycles)
	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (c *CPU) LoadState(data []byte) {
	r := bytes.NewReader(data)
	binary.Read(r, binary.LittleEndian, &c.A)
	binary.Read(r, binary.LittleEndian, &c.X)
	binary.Read(r, binary.LittleEndian, &c.Y)
	binary.Read(r, binary.LittleEndian, &c.SP)
	binary.Read(r, binary.LittleEndian, &c.PC)
	binary.Read(r, binary.LittleEndian, &c.P)
	binary.Read(r, binary.LittleEndian, &c.nmiPending)
	binary.Read(r, binary.LittleEndian, &c.irqLine)
	binary.Read(r, binary.LittleEndian, &c.rdy)
	binary.Read(r, binary.LittleEndian, &c.halted)
	binary.Read(r, binary.LittleEndian, &c.opcode)
	binary.Read(r, binary.LittleEndian, &c.addrAbs)
	binary.Read(r, binary.LittleEndian, &c.addrRel)
	binary.Read(r, binary.LittleEndian, &c.fetched)
	binary.Read(r, binary.LittleEndian, &c.accumulatorMode)
	binary.Read(r, binary.LittleEndian, &c.cycles)
	binary.Read(r, binary.LittleEndian, &c.instrCycles)
}
