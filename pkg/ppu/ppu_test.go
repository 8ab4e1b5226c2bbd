package ppu

import (
	"testing"

	"github.com/andrewthecodertx/nescore/pkg/cartridge"
)

func TestOpenBusDecaysAfterThirtySixPreRenderTicks(t *testing.T) {
	p := NewPPU()
	p.refreshOpenBus(0xFF)

	if p.openBus != 0xFF {
		t.Fatalf("openBus = %#02x after refresh, want 0xff", p.openBus)
	}

	for i := 0; i < openBusDecayTicks-1; i++ {
		p.decayOpenBus()
	}
	if p.openBus != 0xFF {
		t.Fatalf("openBus decayed early at tick %d: %#02x", openBusDecayTicks-1, p.openBus)
	}

	p.decayOpenBus()
	if p.openBus != 0x00 {
		t.Fatalf("openBus = %#02x after %d ticks, want 0x00", p.openBus, openBusDecayTicks)
	}
}

func TestOpenBusRefreshResetsDecayTimer(t *testing.T) {
	p := NewPPU()
	p.refreshOpenBus(0xFF)

	for i := 0; i < openBusDecayTicks-1; i++ {
		p.decayOpenBus()
	}
	p.refreshOpenBus(0xFF) // refresh just before it would decay

	for i := 0; i < openBusDecayTicks-1; i++ {
		p.decayOpenBus()
	}
	if p.openBus != 0xFF {
		t.Fatalf("openBus decayed despite refresh: %#02x", p.openBus)
	}
}

func TestStatusReadLowBitsReflectOpenBus(t *testing.T) {
	p := NewPPU()
	p.refreshOpenBus(0x1F)

	got := p.ReadCPURegister(0x2002) & 0x1F
	if got != 0x1F {
		t.Fatalf("status low bits = %#02x, want 0x1f", got)
	}
}

// clockTo runs the PPU until it sits at the given scanline and dot,
// starting from the power-on position (scanline 0, dot 0).
func clockTo(p *PPU, scanline int16, dot uint16) {
	for p.scanline != scanline || p.cycle != dot {
		p.Clock()
	}
}

func TestEnablingNMIDuringVBlankFiresImmediately(t *testing.T) {
	p := NewPPU()
	clockTo(p, 241, 2) // vblank flag set at dot 1
	p.GetNMI()         // drain; NMI generation was disabled, so none expected

	p.WriteCPURegister(0x2000, 0x80)
	if !p.GetNMI() {
		t.Error("enabling NMI with vblank already set should fire the NMI immediately")
	}
}

func TestStatusReadOneDotBeforeVBlankSuppressesNMI(t *testing.T) {
	p := NewPPU()
	p.WriteCPURegister(0x2000, 0x80) // enable NMI generation
	clockTo(p, 241, 0)

	p.ReadCPURegister(0x2002) // wins the race against the vblank flag
	p.Clock()                 // dot 0
	p.Clock()                 // dot 1: vblank sets, NMI must stay low
	if p.GetNMI() {
		t.Error("STATUS read one dot before vblank should suppress the NMI for the frame")
	}
}

func TestMaskRenderBitStaging(t *testing.T) {
	var m PPUMask
	m.SetExceptRenderBits(0xFF)
	if m.Get() != 0xFF&^renderEnableBits {
		t.Errorf("mask = %#02x after staged write, render bits must lag", m.Get())
	}
	if m.IsRenderingEnabled() {
		t.Error("rendering must stay disabled until the render bits promote")
	}
	m.SetRenderBits(0xFF)
	if m.Get() != 0xFF {
		t.Errorf("mask = %#02x after promotion, want 0xff", m.Get())
	}
}

func TestMapperDrivenMirroringChange(t *testing.T) {
	m := cartridge.NewMapper7(make([]uint8, 32768), nil, cartridge.MirrorSingleLow)
	p := NewPPU()
	p.SetMapper(m)
	p.SetMirroring(m.GetMirroring())

	p.ppuWrite(0x2000, 0xAB) // lands in the lower nametable
	m.WritePRG(0x8000, 0x10) // switch to single-screen upper
	if got := p.ppuRead(0x2000); got == 0xAB {
		t.Error("read after mirroring switch should resolve to the other nametable")
	}
	m.WritePRG(0x8000, 0x00) // back to single-screen lower
	if got := p.ppuRead(0x2000); got != 0xAB {
		t.Errorf("read after switching back = %#02x, want 0xab", got)
	}
}

func TestPaletteWriteReadRoundTrip(t *testing.T) {
	p := NewPPU()
	p.WriteCPURegister(0x2006, 0x3F) // high byte
	p.WriteCPURegister(0x2006, 0x00) // low byte -> $3F00
	p.WriteCPURegister(0x2007, 0x16)

	p.WriteCPURegister(0x2006, 0x3F)
	p.WriteCPURegister(0x2006, 0x00)
	got := p.ReadCPURegister(0x2007) & 0x3F
	if got != 0x16 {
		t.Fatalf("palette readback = %#02x, want 0x16", got)
	}
}
