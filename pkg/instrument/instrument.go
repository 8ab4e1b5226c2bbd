// Package instrument implements the core's observer chain: an
// insertion-ordered list of hooks the bus fans memory accesses, CPU
// cycles, CPU instruction boundaries, PPU ticks, and APU ticks out to.
//
// Observers are configured once, before ticking starts, and never inserted
// or removed mid-run - the chain is a plain slice walked in order. A
// write's Data field is passed by pointer and observers may overwrite it
// in place before the bus completes the write; this is how a replay layer
// injects recorded bytes ahead of the real write landing.
package instrument

// MemoryType identifies which bus an access observed happened on.
type MemoryType uint8

const (
	MemCPU MemoryType = iota
	MemPPU
	MemOAM
)

// MemoryOp distinguishes ordinary CPU-driven accesses from DMA reads,
// which steal the bus while the CPU's RDY line is held low.
type MemoryOp uint8

const (
	OpRead MemoryOp = iota
	OpWrite
	OpReadDMA
)

// CPUSnapshot is the minimal CPU-facing view instrumentation hooks receive.
// It is intentionally narrow - observers read register state, they do not
// drive the CPU.
type CPUSnapshot struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	P       uint8
	Cycles  uint64
	Halted  bool
}

// PPUSnapshot is the PPU-facing view instrumentation hooks receive.
type PPUSnapshot struct {
	Scanline int16
	Dot      uint16
	Frame    uint64
}

// APUSnapshot is the APU-facing view instrumentation hooks receive.
type APUSnapshot struct {
	Cycles      uint64
	SampleCount int
}

// Observer is a record of optional hooks. Nil hooks are skipped. A single
// Observer need only populate the hooks it cares about.
type Observer struct {
	OnMemory   func(memType MemoryType, op MemoryOp, address uint16, data *uint8)
	OnCPU      func(cpu CPUSnapshot)
	OnCPUCycle func(cpu CPUSnapshot)
	OnPPU      func(ppu PPUSnapshot)
	OnAPU      func(apu APUSnapshot)
}

// Chain is the insertion-ordered list of Observers the bus dispatches to.
// The zero value is a usable empty chain.
type Chain struct {
	observers []Observer
}

// NewChain builds a chain from zero or more observers, preserving the
// order given - configuration-time only, never mutated during ticking.
func NewChain(observers ...Observer) *Chain {
	return &Chain{observers: append([]Observer(nil), observers...)}
}

// Add appends an observer to the end of the chain.
func (c *Chain) Add(o Observer) {
	c.observers = append(c.observers, o)
}

// Memory fans a memory access out to every observer in order. data is
// passed by pointer so write observers (e.g. a replay layer) can override
// the byte before the bus completes the access.
func (c *Chain) Memory(memType MemoryType, op MemoryOp, address uint16, data *uint8) {
	if c == nil {
		return
	}
	for _, o := range c.observers {
		if o.OnMemory != nil {
			o.OnMemory(memType, op, address, data)
		}
	}
}

// CPU fans an instruction-boundary snapshot out to every observer.
func (c *Chain) CPU(cpu CPUSnapshot) {
	if c == nil {
		return
	}
	for _, o := range c.observers {
		if o.OnCPU != nil {
			o.OnCPU(cpu)
		}
	}
}

// CPUCycle fans a per-cycle CPU snapshot out to every observer.
func (c *Chain) CPUCycle(cpu CPUSnapshot) {
	if c == nil {
		return
	}
	for _, o := range c.observers {
		if o.OnCPUCycle != nil {
			o.OnCPUCycle(cpu)
		}
	}
}

// PPU fans a per-tick PPU snapshot out to every observer.
func (c *Chain) PPU(ppu PPUSnapshot) {
	if c == nil {
		return
	}
	for _, o := range c.observers {
		if o.OnPPU != nil {
			o.OnPPU(ppu)
		}
	}
}

// APU fans a per-tick APU snapshot out to every observer.
func (c *Chain) APU(apu APUSnapshot) {
	if c == nil {
		return
	}
	for _, o := range c.observers {
		if o.OnAPU != nil {
			o.OnAPU(apu)
		}
	}
}
