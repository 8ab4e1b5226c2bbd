// Package nes wires the CPU, PPU, APU, cartridge, and bus into a complete
// NES system and exposes the public entry points: create, reset, tick,
// frame, and save/load state.
package nes

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/andrewthecodertx/nescore/pkg/apu"
	"github.com/andrewthecodertx/nescore/pkg/bus"
	"github.com/andrewthecodertx/nescore/pkg/cartridge"
	"github.com/andrewthecodertx/nescore/pkg/controller"
	"github.com/andrewthecodertx/nescore/pkg/cpu"
	"github.com/andrewthecodertx/nescore/pkg/instrument"
	"github.com/andrewthecodertx/nescore/pkg/ppu"
)

// TicksPerFrame is the number of master (CPU) cycles in one NTSC frame.
const TicksPerFrame = 29781

// ResetKind selects between a cold power-up and a warm reset.
type ResetKind uint8

const (
	PowerUp ResetKind = iota
	Reset
)

// ControllerState is the button snapshot an InputCallback returns for one
// controller port, sampled once per $4016 strobe.
type ControllerState struct {
	A, B, Select, Start   bool
	Up, Down, Left, Right bool
}

// Config configures a new System.
type Config struct {
	// Exactly one of ROMPath, ROMData, or Cartridge should be set.
	ROMPath   string
	ROMData   []byte
	Cartridge *cartridge.Cartridge

	// Observers is the head of the instrumentation chain; may be nil.
	Observers *instrument.Chain

	// InputCallback samples one controller's buttons; controllerID is 0 or 1.
	InputCallback func(controllerID int) ControllerState
	VideoCallback func(bus.VideoFrame)
	AudioCallback func([]int16)

	// PowerOnFill is the byte internal RAM is filled with at power-up.
	// Real hardware leaves RAM indeterminate; which pattern to pretend it
	// had is a host policy, zero by default.
	PowerOnFill uint8
}

// System is the complete NES emulator: CPU, PPU, APU, cartridge, and bus.
type System struct {
	cpu       *cpu.CPU
	ppuUnit   *ppu.PPU
	apuUnit   *apu.APU
	bus       *bus.NESBus
	cartridge *cartridge.Cartridge
	observers *instrument.Chain
	input     func(controllerID int) ControllerState

	powerOnFill uint8
	ticks       uint64
}

// Create builds a new System from the given configuration. Load-time
// errors (bad ROM, unsupported mapper, truncated file) are the only
// errors surfaced at this boundary; once running, the core is a closed
// deterministic machine.
func Create(cfg Config) (*System, error) {
	cart := cfg.Cartridge
	if cart == nil {
		var err error
		switch {
		case cfg.ROMPath != "":
			cart, err = cartridge.LoadFromFile(cfg.ROMPath)
		case cfg.ROMData != nil:
			cart, err = cartridge.LoadFromBytes(cfg.ROMData)
		default:
			return nil, fmt.Errorf("nes: no ROM source given")
		}
		if err != nil {
			return nil, fmt.Errorf("nes: failed to load ROM: %w", err)
		}
	}

	observers := cfg.Observers
	if observers == nil {
		observers = instrument.NewChain()
	}

	ppuUnit := ppu.NewPPU()
	ppuUnit.SetMapper(cart.GetMapper())
	ppuUnit.SetMirroring(cart.GetMirroring())

	apuUnit := apu.New()

	nesBus := bus.NewNESBus(ppuUnit, apuUnit, cart.GetMapper(), observers)
	nesBus.VideoCallback = cfg.VideoCallback
	nesBus.AudioCallback = cfg.AudioCallback

	cpuCore := cpu.New(nesBus)
	nesBus.SetCPU(cpuCore)

	sys := &System{
		cpu:         cpuCore,
		ppuUnit:     ppuUnit,
		apuUnit:     apuUnit,
		bus:         nesBus,
		cartridge:   cart,
		observers:   observers,
		input:       cfg.InputCallback,
		powerOnFill: cfg.PowerOnFill,
	}

	if sys.input != nil {
		// Appended after any host-supplied observers, so a replay layer
		// that rewrites the strobe byte in-flight is honored before the
		// latch samples the buttons.
		strobeHigh := false
		observers.Add(instrument.Observer{
			OnMemory: func(memType instrument.MemoryType, op instrument.MemoryOp, address uint16, data *uint8) {
				if memType != instrument.MemCPU || op != instrument.OpWrite || address != 0x4016 {
					return
				}
				// Falling edge of the strobe bit latches the buttons for
				// the upcoming sequential reads.
				wasHigh := strobeHigh
				strobeHigh = *data&0x01 != 0
				if wasHigh && !strobeHigh {
					sys.latchControllers()
				}
			},
		})
	}

	sys.Reset(PowerUp)
	return sys, nil
}

func (s *System) latchControllers() {
	apply := func(c *controller.Controller, cs ControllerState) {
		c.SetButton(controller.ButtonA, cs.A)
		c.SetButton(controller.ButtonB, cs.B)
		c.SetButton(controller.ButtonSelect, cs.Select)
		c.SetButton(controller.ButtonStart, cs.Start)
		c.SetButton(controller.ButtonUp, cs.Up)
		c.SetButton(controller.ButtonDown, cs.Down)
		c.SetButton(controller.ButtonLeft, cs.Left)
		c.SetButton(controller.ButtonRight, cs.Right)
	}
	apply(s.bus.GetController(0), s.input(0))
	apply(s.bus.GetController(1), s.input(1))
}

// Reset performs a power-up or warm reset. A power-up refills RAM with
// the configured fill byte and reinitializes the APU; a warm reset
// preserves both, as pressing the console's reset button does.
func (s *System) Reset(kind ResetKind) {
	s.ppuUnit.Reset()
	if kind == PowerUp {
		s.bus.FillRAM(s.powerOnFill)
		s.apuUnit.Reset()
		s.cpu.PowerOn()
	} else {
		s.cpu.Reset()
	}
}

// Tick advances the system by exactly one master cycle.
func (s *System) Tick() {
	s.bus.Tick()
	s.ticks++
}

// Frame runs the system for exactly one NTSC frame (TicksPerFrame master
// cycles).
func (s *System) Frame() {
	for i := 0; i < TicksPerFrame; i++ {
		s.Tick()
	}
}

// GetPPU returns the PPU for direct host access (framebuffer, etc).
func (s *System) GetPPU() *ppu.PPU { return s.ppuUnit }

// GetAPU returns the APU for direct host access.
func (s *System) GetAPU() *apu.APU { return s.apuUnit }

// GetBus returns the system bus.
func (s *System) GetBus() *bus.NESBus { return s.bus }

// GetCartridge returns the loaded cartridge.
func (s *System) GetCartridge() *cartridge.Cartridge { return s.cartridge }

// Ticks reports the total number of master cycles ticked so far.
func (s *System) Ticks() uint64 { return s.ticks }

// SetPC forces the CPU's program counter, for headless test harnesses
// that enter a ROM at a fixed address instead of its reset vector.
func (s *System) SetPC(addr uint16) { s.cpu.PC = addr }

// MemoryType selects which address space ReadMemory reads from.
type MemoryType uint8

const (
	MemCPUSpace MemoryType = iota
	MemPPUSpace
)

// ReadMemory reads size bytes starting at address from the given memory
// space into buffer, for debug/tooling use. CPU-space reads go through
// the normal bus decode (and so share its side effects, e.g. clearing
// vblank on a $2002 read); PPU-space reads are side-effect-free peeks.
func (s *System) ReadMemory(memType MemoryType, address uint16, buffer []uint8) {
	for i := range buffer {
		addr := address + uint16(i)
		if memType == MemPPUSpace {
			buffer[i] = s.ppuUnit.PeekVRAM(addr)
		} else {
			buffer[i] = s.bus.Read(addr)
		}
	}
}

// GetStateSize returns the number of bytes SaveState produces for the
// currently loaded cartridge.
func (s *System) GetStateSize() int {
	return len(s.SaveState())
}

// SaveState encodes the complete runtime state: the bus (CPU/PPU/APU/
// controllers) followed by the cartridge's mapper-local state.
func (s *System) SaveState() []byte {
	var buf bytes.Buffer
	busState := s.bus.SaveState()
	binary.Write(&buf, binary.LittleEndian, uint32(len(busState)))
	buf.Write(busState)

	cartState := s.cartridge.SaveState()
	binary.Write(&buf, binary.LittleEndian, uint32(len(cartState)))
	buf.Write(cartState)

	binary.Write(&buf, binary.LittleEndian, s.ticks)
	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState. The caller
// must have created this System from the same ROM.
func (s *System) LoadState(data []byte) error {
	r := bytes.NewReader(data)

	var busLen uint32
	if err := binary.Read(r, binary.LittleEndian, &busLen); err != nil {
		return fmt.Errorf("nes: load state: %w", err)
	}
	busState := make([]byte, busLen)
	if _, err := r.Read(busState); err != nil && busLen > 0 {
		return fmt.Errorf("nes: load state: %w", err)
	}
	s.bus.LoadState(busState)

	var cartLen uint32
	if err := binary.Read(r, binary.LittleEndian, &cartLen); err != nil {
		return fmt.Errorf("nes: load state: %w", err)
	}
	cartState := make([]byte, cartLen)
	if _, err := r.Read(cartState); err != nil && cartLen > 0 {
		return fmt.Errorf("nes: load state: %w", err)
	}
	if err := s.cartridge.LoadState(cartState); err != nil {
		return fmt.Errorf("nes: load state: %w", err)
	}

	binary.Read(r, binary.LittleEndian, &s.ticks)
	return nil
}
