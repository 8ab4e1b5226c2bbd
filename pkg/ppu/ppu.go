// Package ppu implements the NES Picture Processing Unit (2C02).
//
// The PPU is the graphics processor for the NES. It generates video signals
// at 256x240 resolution by rendering background tiles and sprites.
//
// Hardware Specifications:
//   - Clock speed: ~5.37 MHz (NTSC) / ~5.32 MHz (PAL)
//   - Runs 3x faster than CPU (~1.79 MHz)
//   - 341 PPU cycles per scanline
//   - 262 scanlines per frame (NTSC) / 312 (PAL)
//   - Output: 256 pixels wide x 240 pixels tall
//
// Memory Map:
//   - $0000-$0FFF: Pattern Table 0 (4KB, CHR-ROM/RAM)
//   - $1000-$1FFF: Pattern Table 1 (4KB, CHR-ROM/RAM)
//   - $2000-$23FF: Nametable 0 (1KB)
//   - $2400-$27FF: Nametable 1 (1KB)
//   - $2800-$2BFF: Nametable 2 (1KB)
//   - $2C00-$2FFF: Nametable 3 (1KB)
//   - $3000-$3EFF: Mirrors of $2000-$2EFF
//   - $3F00-$3F1F: Palette RAM (32 bytes)
//   - $3F20-$3FFF: Mirrors of $3F00-$3F1F
package ppu

import "github.com/andrewthecodertx/nescore/pkg/cartridge"

// Mirroring modes for nametables
const (
	MirrorHorizontal = 0 // Vertical arrangement
	MirrorVertical   = 1 // Horizontal arrangement
	MirrorSingleLow  = 2 // All nametables map to lower bank
	MirrorSingleHigh = 3 // All nametables map to upper bank
	MirrorFourScreen = 4 // Four separate nametables (requires extra RAM on cartridge)
)

// Screen dimensions
const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// Timing constants (NTSC)
const (
	CyclesPerScanline = 341
	ScanlinesPerFrame = 262
	VisibleScanlines  = 240
)

// PPU represents the NES Picture Processing Unit (2C02)
type PPU struct {
	// ========================================================================
	// Memory Banks
	// ========================================================================

	// Nametable RAM
	// The NES has 2KB of internal VRAM for nametables (two 1KB tables). The
	// full 4KB nametable space ($2000-$2FFF) is mapped onto it using the
	// mirroring modes. The array is 4KB: the first 2KB serve the common
	// mirroring modes, and the rest is headroom so four-screen carts (which wire their own extra 2KB of
	// cartridge-side VRAM into $2800-$2FFF) can be modeled without a
	// separate storage path.
	nametable [4096]uint8

	// Palette RAM (32 bytes)
	// $3F00-$3F0F: Background palettes (4 palettes x 4 colors)
	// $3F10-$3F1F: Sprite palettes (4 palettes x 4 colors)
	// Note: $3F10, $3F14, $3F18, $3F1C are mirrored to $3F00, $3F04, $3F08, $3F0C
	paletteRAM [32]uint8

	// Object Attribute Memory (256 bytes)
	// Contains sprite data for 64 sprites (4 bytes each):
	//   Byte 0: Y position (top of sprite)
	//   Byte 1: Tile index
	//   Byte 2: Attributes (palette, priority, flip flags)
	//   Byte 3: X position (left of sprite)
	oam [256]uint8

	// OAM Address register ($2003)
	// Points to current position in OAM for CPU read/write
	oamAddress uint8

	// ========================================================================
	// PPU Registers (CPU-visible at $2000-$2007)
	// ========================================================================

	control  PPUControl  // PPUCTRL ($2000) - Control Register
	mask     PPUMask     // PPUMASK ($2001) - Mask Register
	status   PPUStatus   // PPUSTATUS ($2002) - Status Register
	oamData  uint8       // OAMDATA ($2004) - OAM Data Port
	ppuScroll uint8      // PPUSCROLL ($2005) - Scroll Position Register (write x2)
	ppuAddr  uint8       // PPUADDR ($2006) - PPU Address Register (write x2)
	ppuData  uint8       // PPUDATA ($2007) - PPU Data Port

	// A $2001 write arms pendingMask/pendingMaskSet. The non-render bits
	// of mask.register take effect the following dot; the two RENDER bits
	// (background/sprite enable, 0x18) are staged one dot further behind
	// via nextRenderMask/renderMask.
	pendingMask    uint8
	pendingMaskSet bool
	renderMask     uint8
	nextRenderMask uint8

	// ========================================================================
	// Internal Registers (Loopy Registers)
	// ========================================================================

	// VRAM Address Register (current address the PPU will read/write)
	// Also known as "v" in Loopy's documentation
	vramAddress LoopyRegister

	// Temporary VRAM Address Register
	// Also used for scroll position. Known as "t" in Loopy's documentation
	tempVRAMAddress LoopyRegister

	// Fine X scroll (3 bits: 0-7)
	fineX uint8

	// Write latch/toggle (first or second write to $2005/$2006)
	writeLatch bool

	// Internal read buffer for PPUDATA reads
	// Reads from PPUDATA are buffered (delayed by one read)
	readBuffer uint8

	// ========================================================================
	// Rendering State
	// ========================================================================

	// Current scanline (-1 pre-render, 0-239 visible, 240 post-render,
	// 241-260 vblank)
	scanline int16

	// Current cycle within scanline (0-340)
	cycle uint16

	// Frame counter
	frame uint64

	// Odd/even frame (affects timing on odd frames)
	oddFrame bool

	// Frame complete flag
	frameComplete bool

	// ========================================================================
	// Background Rendering State
	// ========================================================================

	// Next background tile ID from nametable
	bgNextTileID uint8

	// Next background tile attribute (palette selection, 2 bits)
	bgNextTileAttrib uint8

	// Next background tile pattern low byte
	bgNextTileLSB uint8

	// Next background tile pattern high byte
	bgNextTileMSB uint8

	// Background pattern shifters (16-bit)
	// Top 8 bits = current 8 pixels, bottom 8 bits = next 8 pixels
	// Shifts left by 1 each cycle to output one pixel
	bgShifterPatternLo uint16
	bgShifterPatternHi uint16

	// Background attribute shifters (16-bit)
	// Holds palette selection for 16 pixels
	bgShifterAttribLo uint16
	bgShifterAttribHi uint16

	// ========================================================================
	// Sprite Rendering State
	// ========================================================================

	// Secondary OAM - holds sprites for current scanline (8 sprites max)
	// During sprite evaluation, the PPU scans primary OAM and copies
	// sprites that are visible on the next scanline to secondary OAM
	secondaryOAM [32]uint8 // 8 sprites * 4 bytes each

	// Sprite count for current scanline (0-8)
	spriteCount uint8

	// Sprite 0 present on current scanline (for sprite 0 hit detection)
	sprite0Present bool

	// Sprite shifters - hold pattern data for up to 8 sprites
	spriteShifterPatternLo [8]uint8
	spriteShifterPatternHi [8]uint8

	// Sprite attributes for current scanline
	spriteAttributes [8]uint8

	// Sprite X positions for current scanline
	spritePositions [8]uint8

	// Sprite evaluation cursor: the scan over primary OAM (dots 65-256)
	// starts at oamAddress rather than index 0 and wraps mod 64.
	oamEvalStart uint8
	oamEvalIndex uint8
	oamEvalDone  bool

	// ========================================================================
	// Cartridge Interface
	// ========================================================================

	// Cartridge mapper for CHR-ROM/CHR-RAM access
	mapper cartridge.Mapper

	// Nametable mirroring mode
	mirroringMode uint8

	// ========================================================================
	// Output
	// ========================================================================

	// Frame buffer (256x240 pixels), each entry a packed color_out word:
	// 6-bit NES color in bits 0-5, emphasis R/G/B in bits 7-9.
	frameBuffer [ScreenWidth * ScreenHeight]uint16

	// Last address the PPU drove onto its external bus via a pattern-table
	// or nametable fetch - palette RAM accesses never touch this, since
	// they're internal to the PPU chip and never reach the cartridge edge
	// connector. Mappers that watch address line A12 (MMC3) read this.
	lastBusAddress uint16

	// NMI output signal (triggers CPU interrupt)
	nmiOutput bool

	// A STATUS read landing on scanline 241 dot 0 - one dot before the
	// vblank flag sets - suppresses the NMI for that frame.
	nmiSuppressed bool

	// Open-bus byte: the last value driven on the CPU-visible register
	// bus, with a per-bit decay counter. A bit decays to 0 after
	// openBusDecayTicks pre-render scanlines (~600ms at 60Hz) without a
	// refresh.
	openBus      uint8
	openBusDecay [8]uint8
}

// openBusDecayTicks is the number of pre-render-scanline ticks an
// unrefreshed open-bus bit survives before decaying to 0.
const openBusDecayTicks = 36

// refreshOpenBus drives every bit of the open-bus byte from value, as a
// full-byte register access (e.g. a $2007 read/write) does.
func (p *PPU) refreshOpenBus(value uint8) {
	p.openBus = value
	for i := range p.openBusDecay {
		p.openBusDecay[i] = 0
	}
}

// refreshOpenBusMask refreshes only the bits set in mask, leaving the rest
// of the open-bus byte (and their decay timers) untouched - used by
// $2002, which only drives its top three bits.
func (p *PPU) refreshOpenBusMask(value, mask uint8) {
	for i := 0; i < 8; i++ {
		bit := uint8(1) << i
		if mask&bit == 0 {
			continue
		}
		if value&bit != 0 {
			p.openBus |= bit
		} else {
			p.openBus &^= bit
		}
		p.openBusDecay[i] = 0
	}
}

// decayOpenBus ages every bit's decay counter by one tick, zeroing bits
// that have gone openBusDecayTicks ticks without a refresh. Called once
// per pre-render scanline.
func (p *PPU) decayOpenBus() {
	for i := 0; i < 8; i++ {
		if p.openBusDecay[i] < openBusDecayTicks {
			p.openBusDecay[i]++
			if p.openBusDecay[i] >= openBusDecayTicks {
				p.openBus &^= 1 << i
			}
		}
	}
}

// NewPPU creates and initializes a new PPU
func NewPPU() *PPU {
	ppu := &PPU{
		scanline: 0,
		cycle:    0,
		frame:    0,
	}

	// Initialize palette RAM to default values
	for i := range ppu.paletteRAM {
		ppu.paletteRAM[i] = 0x00
	}

	return ppu
}

// SetMapper connects a cartridge mapper to the PPU for CHR-ROM/RAM access
func (p *PPU) SetMapper(mapper cartridge.Mapper) {
	p.mapper = mapper
}

// SetMirroring sets the nametable mirroring mode
func (p *PPU) SetMirroring(mode uint8) {
	p.mirroringMode = mode
}

// Clock advances the PPU by one cycle
// The PPU runs at 3x the CPU speed, so this should be called 3 times per CPU cycle
func (p *PPU) Clock() {
	p.applyPendingMask()

	// ====================================================================
	// Pixel Rendering - happens BEFORE shifter updates and fetching
	// ====================================================================
	if p.scanline >= 0 && p.scanline < 240 && p.cycle >= 1 && p.cycle <= 256 {
		p.renderPixel()
	}

	// ====================================================================
	// Pre-render and Visible Scanlines (-1, 0-239)
	// ====================================================================
	if p.scanline >= -1 && p.scanline < 240 {

		// Clear flags at start of pre-render scanline
		if p.scanline == -1 && p.cycle == 1 {
			p.status.SetVBlank(false)
			p.status.SetSprite0Hit(false)
			p.status.SetSpriteOverflow(false)
			p.frameComplete = false
			p.nmiSuppressed = false
			p.decayOpenBus()
		}

		// Background rendering cycles
		if (p.cycle >= 2 && p.cycle < 258) || (p.cycle >= 321 && p.cycle < 338) {

			// Update shifters every cycle
			p.updateShifters()

			// 8-cycle fetching pattern
			switch (p.cycle - 1) % 8 {
			case 0:
				// Load shifters with data from previous fetch
				p.loadBackgroundShifters()

				// Fetch next tile ID from nametable
				p.bgNextTileID = p.ppuRead(0x2000 | (p.vramAddress.Get() & 0x0FFF))

			case 2:
				// Fetch attribute byte
				address := uint16(0x23C0) |
					(p.vramAddress.NametableY() << 11) |
					(p.vramAddress.NametableX() << 10) |
					((p.vramAddress.CoarseY() >> 2) << 3) |
					(p.vramAddress.CoarseX() >> 2)

				p.bgNextTileAttrib = p.ppuRead(address)

				// Extract the 2 bits for this 2x2 tile quadrant
				if p.vramAddress.CoarseY()&0x02 != 0 {
					p.bgNextTileAttrib >>= 4
				}
				if p.vramAddress.CoarseX()&0x02 != 0 {
					p.bgNextTileAttrib >>= 2
				}
				p.bgNextTileAttrib &= 0x03

			case 4:
				// Fetch tile pattern low byte
				table := p.control.BackgroundPatternTable()
				tileID := uint16(p.bgNextTileID)
				fineY := p.vramAddress.FineY()
				address := table | (tileID << 4) | fineY
				p.bgNextTileLSB = p.ppuRead(address)

			case 6:
				// Fetch tile pattern high byte (same as low + 8)
				table := p.control.BackgroundPatternTable()
				tileID := uint16(p.bgNextTileID)
				fineY := p.vramAddress.FineY()
				address := table | (tileID << 4) | fineY
				p.bgNextTileMSB = p.ppuRead(address + 8)

			case 7:
				// Increment horizontal scroll
				if p.mask.IsRenderingEnabled() {
					p.vramAddress.IncrementX()
				}
			}
		}

		// End of visible scanline: increment vertical scroll
		if p.cycle == 256 {
			if p.mask.IsRenderingEnabled() {
				p.vramAddress.IncrementY()
			}
		}

		// Reset horizontal position at the start of sprite fetching
		if p.cycle == 257 {
			p.loadBackgroundShifters()
			if p.mask.IsRenderingEnabled() {
				p.vramAddress.TransferX(&p.tempVRAMAddress)
			}
		}

		// Sprite evaluation (dots 1-256) and pattern fetching (dots
		// 257-320) for the next scanline - dot-driven rather than two
		// single-shot batches, per the timing in sprites.go's doc comment.
		p.clockSpriteEvaluation()
		p.clockSpriteFetch()

		// Superfluous nametable fetches at end of scanline
		if p.cycle == 338 || p.cycle == 340 {
			p.bgNextTileID = p.ppuRead(0x2000 | (p.vramAddress.Get() & 0x0FFF))
		}

		// Pre-render scanline: restore vertical position
		if p.scanline == -1 && p.cycle >= 280 && p.cycle < 305 {
			if p.mask.IsRenderingEnabled() {
				p.vramAddress.TransferY(&p.tempVRAMAddress)
			}
		}
	}

	// ====================================================================
	// Post-render Scanline (240)
	// ====================================================================
	// Idle - PPU does nothing

	// ====================================================================
	// VBlank Scanlines (241-260)
	// ====================================================================
	if p.scanline == 241 && p.cycle == 1 {
		// Set VBlank flag
		p.status.SetVBlank(true)

		// Trigger NMI if enabled, unless a STATUS read on the previous dot
		// already won the race for this frame.
		if p.control.EnableNMI() && !p.nmiSuppressed {
			p.nmiOutput = true
		}
	}

	// ====================================================================
	// Advance Timing
	// ====================================================================
	p.cycle++

	// End of scanline
	if p.cycle >= CyclesPerScanline {
		p.cycle = 0
		p.scanline++

		// Odd frame skip: On odd frames, when rendering is enabled,
		// cycle 0 of scanline 0 is skipped
		if p.scanline == 0 && (p.frame&1) == 1 && p.mask.IsRenderingEnabled() {
			p.cycle = 1
		}

		// End of frame: scanline 261 is represented as -1 (pre-render)
		if p.scanline >= ScanlinesPerFrame-1 {
			p.scanline = -1
			p.frameComplete = true
			p.frame++
			p.oddFrame = !p.oddFrame
		}
	}
}

// GetNMI returns and clears the NMI output signal
func (p *PPU) GetNMI() bool {
	nmi := p.nmiOutput
	p.nmiOutput = false
	return nmi
}

// Scanline returns the current scanline (-1..239 pre-render/visible, 240
// post-render, 241-260 vblank).
func (p *PPU) Scanline() int16 { return p.scanline }

// Dot returns the current dot within the scanline (0-340).
func (p *PPU) Dot() uint16 { return p.cycle }

// Frame returns the total number of frames completed.
func (p *PPU) Frame() uint64 { return p.frame }

// BusAddress returns the last address the PPU drove onto its external bus
// via a pattern-table or nametable fetch, used by mappers that watch
// address line A12 for IRQ generation (MMC3).
func (p *PPU) BusAddress() uint16 { return p.lastBusAddress }

// applyPendingMask advances the two-stage PPUMASK write pipeline by one
// dot. Called once at the top of every Clock(): first it promotes the
// previously-latched render bits into the live mask (completing their
// extra dot of delay), then - if a write landed last dot - folds the
// non-render bits in immediately and latches the new render bits for
// promotion next dot.
func (p *PPU) applyPendingMask() {
	p.renderMask = p.nextRenderMask
	p.mask.SetRenderBits(p.renderMask)

	if p.pendingMaskSet {
		p.mask.SetExceptRenderBits(p.pendingMask)
		p.nextRenderMask = p.pendingMask & renderEnableBits
		p.pendingMaskSet = false
	}
}

// PeekVRAM reads PPU memory space ($0000-$3FFF) without any CPU-visible
// side effects, for debug/instrumentation use (ReadMemory at the system
// boundary).
func (p *PPU) PeekVRAM(addr uint16) uint8 {
	saved := p.lastBusAddress
	value := p.ppuRead(addr)
	p.lastBusAddress = saved
	return value
}

// WriteOAMByte writes a single byte through the OAMDATA port, honoring the
// auto-increment of oamAddress exactly as a CPU-driven $2004 write would.
// OAM-DMA uses this rather than duplicating the increment logic.
func (p *PPU) WriteOAMByte(value uint8) {
	p.WriteCPURegister(0x2004, value)
}

// GetFrameBuffer returns a pointer to the current frame buffer of packed
// color_out words (6-bit color index plus emphasis bits).
func (p *PPU) GetFrameBuffer() *[ScreenWidth * ScreenHeight]uint16 {
	return &p.frameBuffer
}

// IsFrameComplete returns true if a frame has been fully rendered
func (p *PPU) IsFrameComplete() bool {
	return p.frameComplete
}

// ClearFrameComplete resets the frame complete flag
func (p *PPU) ClearFrameComplete() {
	p.frameComplete = false
}

// Reset initializes the PPU to power-on state
func (p *PPU) Reset() {
	p.control.Set(0)
	p.mask.Set(0)
	p.status.Set(0)
	p.oamAddress = 0
	p.writeLatch = false
	p.vramAddress.Set(0)
	p.tempVRAMAddress.Set(0)
	p.fineX = 0
	p.readBuffer = 0
	p.scanline = 0
	p.cycle = 0
	p.nmiOutput = false
	p.nmiSuppressed = false
	p.pendingMask = 0
	p.pendingMaskSet = false
	p.renderMask = 0
	p.nextRenderMask = 0
	p.lastBusAddress = 0
}

// ========================================================================
// CPU Register Interface ($2000-$2007)
// ========================================================================

// WriteCPURegister handles writes from the CPU to PPU registers ($2000-$2007)
func (p *PPU) WriteCPURegister(addr uint16, value uint8) {
	p.refreshOpenBus(value)

	switch addr {
	case 0x2000: // PPUCTRL
		prevNMI := p.control.EnableNMI()
		p.control.Set(value)
		// t: ...GH.. ........ <- d: ......GH
		p.tempVRAMAddress.SetNametableX(uint16(p.control.NametableX()))
		p.tempVRAMAddress.SetNametableY(uint16(p.control.NametableY()))

		// Enabling NMI generation while the vblank flag is already set
		// fires the NMI immediately (rising edge of vblank AND enable).
		if !prevNMI && p.control.EnableNMI() && p.status.VBlank() {
			p.nmiOutput = true
		}

	case 0x2001: // PPUMASK
		// Staged, not applied immediately: see applyPendingMask.
		p.pendingMask = value
		p.pendingMaskSet = true

	case 0x2003: // OAMADDR
		p.oamAddress = value

	case 0x2004: // OAMDATA
		// Byte 2 of each sprite is the attribute byte; its unused middle
		// bits don't exist in the OAM cells and always read back 0.
		if p.oamAddress&0x03 == 0x02 {
			value &= 0xE3
		}
		p.oam[p.oamAddress] = value
		p.oamAddress++ // Wraps around

	case 0x2005: // PPUSCROLL
		if !p.writeLatch {
			// First write (X scroll)
			// t: ....... ...ABCDE <- d: ABCDE...
			// x:              FGH <- d: .....FGH
			p.tempVRAMAddress.SetCoarseX(uint16(value >> 3))
			p.fineX = value & 0x07
			p.writeLatch = true
		} else {
			// Second write (Y scroll)
			// t: FGH..AB CDE..... <- d: ABCDEFGH
			p.tempVRAMAddress.SetFineY(uint16(value & 0x07))
			p.tempVRAMAddress.SetCoarseY(uint16(value >> 3))
			p.writeLatch = false
		}

	case 0x2006: // PPUADDR
		if !p.writeLatch {
			// First write (high byte)
			// t: .CDEFGH ........ <- d: ..CDEFGH
			// t: X...... ........ <- 0
			p.tempVRAMAddress.Set((p.tempVRAMAddress.Get() & 0x00FF) | ((uint16(value) & 0x3F) << 8))
			p.writeLatch = true
		} else {
			// Second write (low byte)
			// t: ....... ABCDEFGH <- d: ABCDEFGH
			// v: <...all bits...> <- t: <...all bits...>
			p.tempVRAMAddress.Set((p.tempVRAMAddress.Get() & 0xFF00) | uint16(value))
			p.vramAddress.Set(p.tempVRAMAddress.Get())
			p.writeLatch = false
		}

	case 0x2007: // PPUDATA
		p.ppuWrite(p.vramAddress.Get(), value)
		p.incrementVRAMAddress()
	}
}

// ReadCPURegister handles reads from the CPU to PPU registers ($2000-$2007)
func (p *PPU) ReadCPURegister(addr uint16) uint8 {
	var value uint8

	switch addr {
	case 0x2002: // PPUSTATUS
		// Top 3 bits are live flags; bottom 5 are open-bus.
		value = (p.status.Get() & 0xE0) | (p.openBus & 0x1F)
		p.refreshOpenBusMask(p.status.Get(), 0xE0)
		// A read landing one dot before the vblank flag sets wins the
		// race: the flag reads back 0 and the NMI is lost for this frame.
		if p.scanline == 241 && p.cycle == 0 {
			p.nmiSuppressed = true
		}
		// Reading PPUSTATUS clears VBlank flag and write latch
		p.status.SetVBlank(false)
		p.writeLatch = false

	case 0x2004: // OAMDATA
		value = p.oam[p.oamAddress]
		p.refreshOpenBus(value)

	case 0x2007: // PPUDATA
		value = p.readBuffer
		if addr := p.vramAddress.Get(); addr >= 0x3F00 {
			// Palette reads bypass the buffer, merging with the open-bus
			// top bits since the palette only drives 6; the buffer still
			// refreshes from the nametable underneath the palette window.
			value = (p.ppuRead(addr) & 0x3F) | (p.openBus & 0xC0)
			p.readBuffer = p.ppuRead(addr - 0x1000)
		} else {
			p.readBuffer = p.ppuRead(addr)
		}

		p.incrementVRAMAddress()
		p.refreshOpenBus(value)

	default:
		// Write-only registers ($2000/$2001/$2003/$2005/$2006) read back
		// as pure open bus.
		value = p.openBus
	}

	return value
}

// incrementVRAMAddress advances v after a $2007 access: by 1 or 32 outside
// rendering, or via the paired coarse-x and fine-y increments when
// rendering is active and the address lines are in use by the fetch
// pipeline.
func (p *PPU) incrementVRAMAddress() {
	if p.mask.IsRenderingEnabled() && p.scanline < 240 {
		p.vramAddress.IncrementX()
		p.vramAddress.IncrementY()
		return
	}
	p.vramAddress.Set(p.vramAddress.Get() + p.control.IncrementMode())
}

// ========================================================================
// Internal PPU Memory Access
// ========================================================================

// ppuRead reads from PPU memory space ($0000-$3FFF)
func (p *PPU) ppuRead(addr uint16) uint8 {
	addr &= 0x3FFF // 14-bit address space

	switch {
	case addr < 0x2000:
		// Pattern tables (CHR-ROM/RAM) - reaches the cartridge edge
		// connector, so A12 of this address is live for mapper IRQ logic.
		p.lastBusAddress = addr
		if p.mapper != nil {
			return p.mapper.ReadCHR(addr)
		}
		return 0

	case addr < 0x3F00:
		// Nametables - also driven out to the cartridge connector.
		p.lastBusAddress = addr
		return p.nametable[p.mirrorNametableAddress(addr)]

	case addr < 0x4000:
		// Palette RAM - internal to the PPU chip, never reaches A12.
		addr = p.mirrorPaletteAddress(addr)
		return p.paletteRAM[addr]
	}

	return 0
}

// ppuWrite writes to PPU memory space ($0000-$3FFF)
func (p *PPU) ppuWrite(addr uint16, value uint8) {
	addr &= 0x3FFF // 14-bit address space

	switch {
	case addr < 0x2000:
		// Pattern tables (CHR-ROM/RAM)
		p.lastBusAddress = addr
		if p.mapper != nil {
			p.mapper.WriteCHR(addr, value)
		}

	case addr < 0x3F00:
		// Nametables
		p.lastBusAddress = addr
		p.nametable[p.mirrorNametableAddress(addr)] = value

	case addr < 0x4000:
		// Palette RAM - internal to the PPU chip, never reaches A12.
		addr = p.mirrorPaletteAddress(addr)
		p.paletteRAM[addr] = value
	}
}

// mirrorNametableAddress applies nametable mirroring to get actual RAM
// address. The live mode comes from the mapper when one is attached, since
// several mappers (MMC1, AxROM, MMC3, 71) retarget mirroring at runtime.
func (p *PPU) mirrorNametableAddress(addr uint16) uint16 {
	mode := p.mirroringMode
	if p.mapper != nil {
		mode = p.mapper.GetMirroring()
	}
	addr = (addr - 0x2000) % 0x1000
	table := addr / 0x0400
	offset := addr % 0x0400
	switch mode {
	case MirrorVertical:
		return addr % 0x0800
	case MirrorHorizontal:
		return (table/2)*0x0400 + offset
	case MirrorSingleLow:
		return offset
	case MirrorSingleHigh:
		return 0x0400 + offset
	case MirrorFourScreen:
		return addr
	}
	return 0
}

// mirrorPaletteAddress applies palette mirroring ($3F00-$3F1F)
func (p *PPU) mirrorPaletteAddress(addr uint16) uint16 {
	addr = (addr - 0x3F00) % 32

	// Mirror $3F10, $3F14, $3F18, $3F1C to $3F00, $3F04, $3F08, $3F0C
	if addr >= 16 && addr%4 == 0 {
		addr -= 16
	}

	return addr
}
