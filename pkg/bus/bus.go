// Package bus implements the NES system bus: the per-master-cycle tick
// ordering, CPU memory-map decoding, and the OAM-DMA/DMC-DMA arbitration
// that steals cycles from the CPU.
package bus

import (
	"github.com/andrewthecodertx/nescore/pkg/apu"
	"github.com/andrewthecodertx/nescore/pkg/cartridge"
	"github.com/andrewthecodertx/nescore/pkg/controller"
	"github.com/andrewthecodertx/nescore/pkg/cpu"
	"github.com/andrewthecodertx/nescore/pkg/instrument"
	"github.com/andrewthecodertx/nescore/pkg/ppu"
)

// oamDMATransferCycles is the number of transfer cycles in an OAM-DMA
// (alignment not included): 256 bytes, one read cycle and one write cycle
// each.
const oamDMATransferCycles = 512

// VideoFrame is delivered to the host's video callback once per completed
// frame: the visible 256x224 window, offset 2 pixels right and 8
// scanlines down from the PPU's full 256x240 framebuffer.
type VideoFrame struct {
	Pixels   []uint16 // 256*224 packed color_out words
	OddFrame bool
}

// NESBus implements the cpu.Bus interface for the NES system
//
// CPU Memory Map:
//
//	$0000-$07FF: 2KB internal RAM
//	$0800-$1FFF: Mirrors of $0000-$07FF
//	$2000-$2007: PPU registers
//	$2008-$3FFF: Mirrors of $2000-$2007
//	$4000-$4013,$4015,$4017: APU registers
//	$4014: OAM-DMA trigger
//	$4016/$4017: controller ports
//	$4020-$FFFF: Cartridge space (PRG-ROM, PRG-RAM, mapper registers)
type NESBus struct {
	cpuRAM [2048]uint8

	cpu         *cpu.CPU
	ppu         *ppu.PPU
	apu         *apu.APU
	mapper      cartridge.Mapper
	controller1 *controller.Controller
	controller2 *controller.Controller
	instruments *instrument.Chain

	cpuCycles uint64
	lastBus   uint8 // last byte driven on the CPU bus, for open-bus reads

	// OAM-DMA state
	oamActive   bool
	oamPage     uint8
	oamIndex    uint16 // 0..oamDMATransferCycles-1
	oamAlign    uint8  // dummy alignment cycles remaining before transfer
	oamReadByte uint8

	// DMC-DMA state
	dmcActive bool
	dmcStall  uint8

	VideoCallback func(VideoFrame)
	AudioCallback func([]int16)
}

// NewNESBus creates a new NES system bus. Call SetCPU once the CPU has
// been constructed with this bus as its Bus interface - the two must be
// wired to each other, so construction happens in two steps.
func NewNESBus(ppuUnit *ppu.PPU, apuUnit *apu.APU, mapper cartridge.Mapper, observers *instrument.Chain) *NESBus {
	return &NESBus{
		ppu:         ppuUnit,
		apu:         apuUnit,
		mapper:      mapper,
		controller1: controller.NewController(),
		controller2: controller.NewController(),
		instruments: observers,
	}
}

// SetCPU completes the bus<->CPU wiring.
func (b *NESBus) SetCPU(c *cpu.CPU) { b.cpu = c }

// FillRAM sets every byte of internal RAM to value, modeling a power-up
// RAM pattern chosen by the host.
func (b *NESBus) FillRAM(value uint8) {
	for i := range b.cpuRAM {
		b.cpuRAM[i] = value
	}
}

// Ensure NESBus implements cpu.Bus
var _ cpu.Bus = (*NESBus)(nil)

func (b *NESBus) rawRead(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.cpuRAM[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadCPURegister(0x2000 + (addr & 0x0007))
	case addr == 0x4015:
		return b.apu.ReadRegister(addr)
	case addr == 0x4016:
		return b.controller1.Read()
	case addr == 0x4017:
		return b.controller2.Read()
	case addr >= 0x4020:
		return b.mapper.ReadPRG(addr)
	}
	return b.lastBus
}

// Read implements cpu.Bus.Read
func (b *NESBus) Read(addr uint16) uint8 {
	data := b.rawRead(addr)
	b.lastBus = data
	b.instruments.Memory(instrument.MemCPU, instrument.OpRead, addr, &data)
	return data
}

// readForDMA performs a read on behalf of an in-flight DMA, tagging the
// instrumentation event as READ_DMA rather than an ordinary CPU read.
func (b *NESBus) readForDMA(addr uint16) uint8 {
	data := b.rawRead(addr)
	b.lastBus = data
	b.instruments.Memory(instrument.MemCPU, instrument.OpReadDMA, addr, &data)
	return data
}

// Write implements cpu.Bus.Write
func (b *NESBus) Write(addr uint16, data uint8) {
	b.instruments.Memory(instrument.MemCPU, instrument.OpWrite, addr, &data)
	b.lastBus = data

	switch {
	case addr < 0x2000:
		b.cpuRAM[addr&0x07FF] = data

	case addr < 0x4000:
		b.ppu.WriteCPURegister(0x2000+(addr&0x0007), data)

	case addr == 0x4014:
		b.startOAMDMA(data)

	case addr == 0x4016:
		// Controller strobe: writing 1 then 0 latches both ports' button
		// states for sequential reads.
		b.controller1.Write(data)
		b.controller2.Write(data)

	case addr >= 0x4000 && addr <= 0x4017:
		b.apu.WriteRegister(addr, data)

	case addr >= 0x4020:
		b.mapper.WritePRG(addr, data)
	}
}

func (b *NESBus) startOAMDMA(page uint8) {
	b.oamPage = page
	b.oamIndex = 0
	b.oamActive = true
	if b.cpuCycles%2 != 0 {
		b.oamAlign = 2
	} else {
		b.oamAlign = 1
	}
}

func (b *NESBus) stepOAMDMA() {
	if b.oamAlign > 0 {
		b.oamAlign--
		return
	}

	if b.oamIndex%2 == 0 {
		addr := uint16(b.oamPage)<<8 | (b.oamIndex / 2)
		b.oamReadByte = b.readForDMA(addr)
	} else {
		b.ppu.WriteOAMByte(b.oamReadByte)
		b.instruments.Memory(instrument.MemOAM, instrument.OpWrite, b.oamIndex/2, &b.oamReadByte)
	}

	b.oamIndex++
	if b.oamIndex >= oamDMATransferCycles {
		b.oamActive = false
	}
}

// oamCyclesRemaining reports how many more master cycles the in-flight
// OAM-DMA needs, including any pending alignment cycle.
func (b *NESBus) oamCyclesRemaining() int {
	return int(b.oamAlign) + (oamDMATransferCycles - int(b.oamIndex))
}

// startDMCDMA arms a DMC sample fetch. Interrupting an OAM-DMA near its
// end steals fewer cycles than a standalone fetch.
func (b *NESBus) startDMCDMA() {
	b.dmcActive = true
	if b.oamActive {
		switch remaining := b.oamCyclesRemaining(); {
		case remaining <= 1:
			b.dmcStall = 1
		case remaining == 2:
			b.dmcStall = 3
		default:
			b.dmcStall = 2
		}
	} else {
		b.dmcStall = 4
	}
}

func (b *NESBus) stepDMCDMA() {
	// A $4015 write clearing the channel mid-stall cancels the fetch: the
	// DMA releases the bus without completing.
	if !b.apu.NeedsDMCDMA() {
		b.dmcActive = false
		return
	}
	b.dmcStall--
	if b.dmcStall == 0 {
		addr := b.apu.DMCDMAAddress()
		data := b.readForDMA(addr)
		// Only the DMC sample address is read. The CPU's pending address
		// is not re-read, so a DMC-DMA never repeats a CPU access to
		// $4015/$4016/$4017 (no bus-conflict aliasing onto those
		// registers).
		b.apu.DMCDMALoad(data)
		b.dmcActive = false
	}
}

// Tick advances the system by exactly one master (CPU) cycle: three PPU
// dots, one APU cycle, a mapper tick per PPU dot (for A12 edge detection),
// then exactly one of {DMC-DMA step, OAM-DMA step, CPU step}.
func (b *NESBus) Tick() {
	for i := 0; i < 3; i++ {
		b.ppu.Clock()
		b.mapper.Tick(b.cpuCycles, b.ppu.BusAddress())
		b.instruments.PPU(instrument.PPUSnapshot{
			Scanline: b.ppu.Scanline(),
			Dot:      b.ppu.Dot(),
			Frame:    b.ppu.Frame(),
		})
	}

	if b.ppu.GetNMI() {
		b.cpu.SetNMI()
	}

	// The frame is complete once the PPU enters the post-render scanline.
	// Each master tick advances three dots, so the first batch of a
	// scanline lands somewhere in dots 0-2 - exactly once per scanline.
	if b.ppu.Scanline() == 240 && b.ppu.Dot() < 3 && b.VideoCallback != nil {
		b.VideoCallback(b.cropVideoFrame())
	}

	b.apu.Clock()
	b.instruments.APU(instrument.APUSnapshot{Cycles: b.cpuCycles, SampleCount: b.apu.SampleCount()})
	if b.apu.SampleCount() >= 4000 && b.AudioCallback != nil {
		b.AudioCallback(b.apu.DrainSamples())
	}

	if !b.dmcActive && b.apu.NeedsDMCDMA() {
		b.startDMCDMA()
	}

	irq := b.apu.IRQLine() || b.mapper.IRQPending()
	b.cpu.SetIRQ(irq)
	b.cpu.SetRDY(!b.dmcActive && !b.oamActive)

	switch {
	case b.dmcActive:
		b.stepDMCDMA()
	case b.oamActive:
		b.stepOAMDMA()
	default:
		b.cpu.Clock()
		snapshot := instrument.CPUSnapshot{
			PC: b.cpu.PC, A: b.cpu.A, X: b.cpu.X, Y: b.cpu.Y,
			SP: b.cpu.SP, P: b.cpu.P, Cycles: b.cpu.Cycles(), Halted: b.cpu.Halted(),
		}
		b.instruments.CPUCycle(snapshot)
		if b.cpu.AtInstructionBoundary() {
			b.instruments.CPU(snapshot)
		}
	}

	b.cpuCycles++
}

// cropVideoFrame extracts the visible 256x224 window from the PPU's full
// 256x240 framebuffer, offset 2 pixels right and 8 scanlines down.
func (b *NESBus) cropVideoFrame() VideoFrame {
	fb := b.ppu.GetFrameBuffer()
	const (
		srcW, srcH = ppu.ScreenWidth, ppu.ScreenHeight
		dstW, dstH = 256, 224
		offX, offY = 2, 8
	)
	pixels := make([]uint16, dstW*dstH)
	for y := 0; y < dstH; y++ {
		srcY := y + offY
		if srcY >= srcH {
			continue
		}
		copy(pixels[y*dstW:(y+1)*dstW], fb[srcY*srcW+offX:srcY*srcW+offX+dstW])
	}
	return VideoFrame{Pixels: pixels, OddFrame: b.ppu.Frame()%2 != 0}
}

// GetPPU returns a pointer to the PPU
func (b *NESBus) GetPPU() *ppu.PPU {
	return b.ppu
}

// GetAPU returns a pointer to the APU
func (b *NESBus) GetAPU() *apu.APU {
	return b.apu
}

// CPUHalted reports whether a DMA is currently holding the CPU's RDY line
// low - the only externally observable signal that a DMA is in flight.
func (b *NESBus) CPUHalted() bool {
	return b.oamActive || b.dmcActive
}

// GetController returns a pointer to the specified controller (0 or 1)
func (b *NESBus) GetController(num int) *controller.Controller {
	if num == 0 {
		return b.controller1
	}
	return b.controller2
}

// CPUCycles returns the number of master cycles ticked so far.
func (b *NESBus) CPUCycles() uint64 { return b.cpuCycles }
