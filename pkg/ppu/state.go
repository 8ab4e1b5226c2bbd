package ppu

import (
	"bytes"
	"encoding/binary"
)

func writeAll(buf *bytes.Buffer, fields ...any) {
	for _, f := range fields {
		binary.Write(buf, binary.LittleEndian, f)
	}
}

func readAll(r *bytes.Reader, fields ...any) {
	for _, f := range fields {
		binary.Read(r, binary.LittleEndian, f)
	}
}

// SaveState encodes every field that determines the PPU's future
// behavior: memory banks, register file, Loopy scroll registers, shifter
// pipeline, sprite evaluation state, and the open-bus decay counters. The
// cartridge mapper (CHR storage) is saved separately by the cartridge.
func (p *PPU) SaveState() []byte {
	var buf bytes.Buffer
	writeAll(&buf,
		p.nametable, p.paletteRAM, p.oam, p.oamAddress,
		p.control.register, p.mask.register, p.status.register,
		p.oamData, p.ppuScroll, p.ppuAddr, p.ppuData,
		p.vramAddress.register, p.tempVRAMAddress.register, p.fineX,
		p.writeLatch, p.readBuffer,
		p.scanline, p.cycle, p.frame, p.oddFrame, p.frameComplete,
		p.bgNextTileID, p.bgNextTileAttrib, p.bgNextTileLSB, p.bgNextTileMSB,
		p.bgShifterPatternLo, p.bgShifterPatternHi,
		p.bgShifterAttribLo, p.bgShifterAttribHi,
		p.secondaryOAM, p.spriteCount, p.sprite0Present,
		p.spriteShifterPatternLo, p.spriteShifterPatternHi,
		p.spriteAttributes, p.spritePositions,
		p.oamEvalStart, p.oamEvalIndex, p.oamEvalDone,
		p.mirroringMode, p.nmiOutput, p.nmiSuppressed,
		p.openBus, p.openBusDecay,
		p.pendingMask, p.pendingMaskSet, p.renderMask, p.nextRenderMask,
		p.lastBusAddress,
	)
	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (p *PPU) LoadState(data []byte) {
	r := bytes.NewReader(data)
	readAll(r,
		&p.nametable, &p.paletteRAM, &p.oam, &p.oamAddress,
		&p.control.register, &p.mask.register, &p.status.register,
		&p.oamData, &p.ppuScroll, &p.ppuAddr, &p.ppuData,
		&p.vramAddress.register, &p.tempVRAMAddress.register, &p.fineX,
		&p.writeLatch, &p.readBuffer,
		&p.scanline, &p.cycle, &p.frame, &p.oddFrame, &p.frameComplete,
		&p.bgNextTileID, &p.bgNextTileAttrib, &p.bgNextTileLSB, &p.bgNextTileMSB,
		&p.bgShifterPatternLo, &p.bgShifterPatternHi,
		&p.bgShifterAttribLo, &p.bgShifterAttribHi,
		&p.secondaryOAM, &p.spriteCount, &p.sprite0Present,
		&p.spriteShifterPatternLo, &p.spriteShifterPatternHi,
		&p.spriteAttributes, &p.spritePositions,
		&p.oamEvalStart, &p.oamEvalIndex, &p.oamEvalDone,
		&p.mirroringMode, &p.nmiOutput, &p.nmiSuppressed,
		&p.openBus, &p.openBusDecay,
		&p.pendingMask, &p.pendingMaskSet, &p.renderMask, &p.nextRenderMask,
		&p.lastBusAddress,
	)
}
