package bus

import (
	"bytes"
	"encoding/binary"
)

func writeBlock(buf *bytes.Buffer, data []byte) {
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
}

func readBlock(r *bytes.Reader) []byte {
	var n uint32
	binary.Read(r, binary.LittleEndian, &n)
	data := make([]byte, n)
	r.Read(data)
	return data
}

// SaveState encodes the bus's own state - CPU RAM, the open-bus latch, and
// in-flight DMA bookkeeping - plus the CPU, PPU, APU, and controller
// sub-states. The cartridge (mapper banking, IRQ state) is saved
// separately by the caller, since it assumes the same ROM is reloaded.
func (b *NESBus) SaveState() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, b.cpuRAM)
	binary.Write(&buf, binary.LittleEndian, b.cpuCycles)
	binary.Write(&buf, binary.LittleEndian, b.lastBus)
	binary.Write(&buf, binary.LittleEndian, b.oamActive)
	binary.Write(&buf, binary.LittleEndian, b.oamPage)
	binary.Write(&buf, binary.LittleEndian, b.oamIndex)
	binary.Write(&buf, binary.LittleEndian, b.oamAlign)
	binary.Write(&buf, binary.LittleEndian, b.oamReadByte)
	binary.Write(&buf, binary.LittleEndian, b.dmcActive)
	binary.Write(&buf, binary.LittleEndian, b.dmcStall)

	writeBlock(&buf, b.cpu.SaveState())
	writeBlock(&buf, b.ppu.SaveState())
	writeBlock(&buf, b.apu.SaveState())
	writeBlock(&buf, b.controller1.SaveState())
	writeBlock(&buf, b.controller2.SaveState())

	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (b *NESBus) LoadState(data []byte) {
	r := bytes.NewReader(data)
	binary.Read(r, binary.LittleEndian, &b.cpuRAM)
	binary.Read(r, binary.LittleEndian, &b.cpuCycles)
	binary.Read(r, binary.LittleEndian, &b.lastBus)
	binary.Read(r, binary.LittleEndian, &b.oamActive)
	binary.Read(r, binary.LittleEndian, &b.oamPage)
	binary.Read(r, binary.LittleEndian, &b.oamIndex)
	binary.Read(r, binary.LittleEndian, &b.oamAlign)
	binary.Read(r, binary.LittleEndian, &b.oamReadByte)
	binary.Read(r, binary.LittleEndian, &b.dmcActive)
	binary.Read(r, binary.LittleEndian, &b.dmcStall)

	b.cpu.LoadState(readBlock(r))
	b.ppu.LoadState(readBlock(r))
	b.apu.LoadState(readBlock(r))
	b.controller1.LoadState(readBlock(r))
	b.controller2.LoadState(readBlock(r))
}
