// Package apu implements the NES Audio Processing Unit (2A03 sound section).
//
// The APU owns two pulse channels, a triangle channel, a noise channel, and
// a delta-modulation (DMC) sample channel, all driven by a shared frame
// sequencer that clocks envelopes, sweep units, and length counters. Mixed
// 16-bit PCM samples are appended to a fixed-capacity ring once per CPU
// cycle; the bus drains the ring to the host audio callback.
package apu

// SampleRate is the CPU clock rate in Hz - every CPU cycle produces exactly
// one mixed sample, so the nominal sample rate equals the master clock.
const SampleRate = 1789773

// sampleRingCapacity bounds the mixed-sample ring; the bus drains it to
// the host audio callback as soon as it is full.
const sampleRingCapacity = 4000

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// dmcRateTable is the NTSC DMC rate-to-timer-period lookup (in CPU cycles).
var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 72, 54,
}

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// EnvelopeGenerator implements the volume envelope shared by the two pulse
// channels and the noise channel.
type EnvelopeGenerator struct {
	Start    bool
	Loop     bool
	Constant bool
	Volume   uint8
	Divider  uint8
	Counter  uint8
}

func (e *EnvelopeGenerator) clock() {
	if e.Start {
		e.Start = false
		e.Counter = 15
		e.Divider = e.Volume + 1
		return
	}
	if e.Divider == 0 {
		e.Divider = e.Volume + 1
		if e.Counter > 0 {
			e.Counter--
		} else if e.Loop {
			e.Counter = 15
		}
	} else {
		e.Divider--
	}
}

func (e *EnvelopeGenerator) output() uint8 {
	if e.Constant {
		return e.Volume
	}
	return e.Counter
}

// LengthCounter gates a channel's output to silence once it reaches zero.
type LengthCounter struct {
	Halt  bool
	Value uint8
}

func (l *LengthCounter) clock() {
	if !l.Halt && l.Value > 0 {
		l.Value--
	}
}

func (l *LengthCounter) load(index uint8) {
	l.Value = lengthTable[index&0x1F]
}

// SweepUnit retunes a pulse channel's timer period up or down each
// half-frame clock.
type SweepUnit struct {
	Enabled bool
	Period  uint8
	Negate  bool
	Shift   uint8
	Reload  bool
	divider uint8
}

// targetPeriod computes the sweep's target period for the given timer.
// The two pulse channels negate differently: pulse 1's adder carries
// one's-complement negation (onesComplement == true), pulse 2's
// two's-complement.
func (s *SweepUnit) targetPeriod(timer uint16, onesComplement bool) uint16 {
	change := timer >> s.Shift
	if !s.Negate {
		return timer + change
	}
	if onesComplement {
		return timer - change - 1
	}
	return timer - change
}

func (s *SweepUnit) muting(timer, target uint16) bool {
	return timer < 8 || target > 0x7FF
}

func (s *SweepUnit) clock(timer *uint16, onesComplement bool) {
	target := s.targetPeriod(*timer, onesComplement)
	if s.divider == 0 && s.Enabled && s.Shift != 0 && !s.muting(*timer, target) {
		*timer = target
	}
	if s.divider == 0 || s.Reload {
		s.divider = s.Period + 1
		s.Reload = false
	} else {
		s.divider--
	}
}

// PulseChannel is one of the APU's two square-wave channels.
type PulseChannel struct {
	Enabled        bool
	onesComplement bool // true for pulse 1's sweep negation

	DutyCycle uint8
	Sweep     SweepUnit
	Length    LengthCounter
	Envelope  EnvelopeGenerator

	Timer     uint16
	timerVal  uint16
	sequencer uint8
}

func (p *PulseChannel) clockTimer() {
	if p.timerVal == 0 {
		p.timerVal = p.Timer
		p.sequencer = (p.sequencer - 1) & 7
	} else {
		p.timerVal--
	}
}

func (p *PulseChannel) output() uint8 {
	if !p.Enabled || p.Length.Value == 0 || p.Timer < 8 {
		return 0
	}
	target := p.Sweep.targetPeriod(p.Timer, p.onesComplement)
	if p.Sweep.muting(p.Timer, target) {
		return 0
	}
	if dutyTable[p.DutyCycle&3][p.sequencer] == 0 {
		return 0
	}
	return p.Envelope.output()
}

// TriangleChannel is the APU's single triangle-wave channel.
type TriangleChannel struct {
	Enabled bool

	LinearReload uint8
	ControlFlag  bool
	linearCount  uint8
	reloadFlag   bool

	Length LengthCounter

	Timer     uint16
	timerVal  uint16
	sequencer uint8
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

func (t *TriangleChannel) clockLinear() {
	if t.reloadFlag {
		t.linearCount = t.LinearReload
	} else if t.linearCount > 0 {
		t.linearCount--
	}
	if !t.ControlFlag {
		t.reloadFlag = false
	}
}

func (t *TriangleChannel) clockTimer() {
	if t.Length.Value == 0 || t.linearCount == 0 {
		return
	}
	if t.timerVal == 0 {
		t.timerVal = t.Timer
		// A timer period under 2 would produce ultrasonic noise; real
		// hardware still advances the sequencer, but emulators
		// conventionally keep it silent below this to avoid clicks.
		t.sequencer = (t.sequencer + 1) & 31
	} else {
		t.timerVal--
	}
}

func (t *TriangleChannel) output() uint8 {
	if !t.Enabled || t.Timer < 2 {
		return 0
	}
	return triangleSequence[t.sequencer]
}

// NoiseChannel is the APU's pseudo-random noise channel.
type NoiseChannel struct {
	Enabled bool

	Mode     bool
	Length   LengthCounter
	Envelope EnvelopeGenerator

	Timer    uint16
	timerVal uint16
	shiftReg uint16
}

func (n *NoiseChannel) clockTimer() {
	if n.timerVal == 0 {
		n.timerVal = n.Timer
		var tapBit uint16
		if n.Mode {
			tapBit = (n.shiftReg >> 6) & 1
		} else {
			tapBit = (n.shiftReg >> 1) & 1
		}
		feedback := (n.shiftReg & 1) ^ tapBit
		n.shiftReg >>= 1
		n.shiftReg |= feedback << 14
	} else {
		n.timerVal--
	}
}

func (n *NoiseChannel) output() uint8 {
	if !n.Enabled || n.Length.Value == 0 || n.shiftReg&1 != 0 {
		return 0
	}
	return n.Envelope.output()
}

// DMCChannel is the delta-modulation sample-playback channel.
type DMCChannel struct {
	IRQEnabled bool
	Interrupt  bool
	Loop       bool
	RateIndex  uint8

	SampleAddress uint16
	SampleLength  uint16

	CurrentAddress uint16
	BytesRemaining uint16

	SampleBuffer uint8
	BufferLoaded bool

	shiftReg      uint8
	bitsRemaining uint8
	Silence       bool
	Output        uint8

	timerVal uint16
}

func (d *DMCChannel) restart() {
	d.CurrentAddress = d.SampleAddress
	d.BytesRemaining = d.SampleLength
}

// NeedsDMA reports whether the channel wants the bus to perform a DMC-DMA
// fetch this cycle.
func (d *DMCChannel) NeedsDMA() bool {
	return !d.BufferLoaded && d.BytesRemaining > 0
}

// LoadByte is called by the bus after a DMC-DMA fetch completes.
func (d *DMCChannel) LoadByte(b uint8) {
	d.SampleBuffer = b
	d.BufferLoaded = true
	d.CurrentAddress++
	if d.CurrentAddress == 0 {
		d.CurrentAddress = 0x8000
	}
	d.BytesRemaining--
	if d.BytesRemaining == 0 {
		if d.Loop {
			d.restart()
		} else if d.IRQEnabled {
			d.Interrupt = true
		}
	}
}

func (d *DMCChannel) clockTimer() {
	if d.timerVal == 0 {
		d.timerVal = dmcRateTable[d.RateIndex&0x0F]

		if !d.Silence {
			if d.shiftReg&1 != 0 {
				if d.Output <= 125 {
					d.Output += 2
				}
			} else {
				if d.Output >= 2 {
					d.Output -= 2
				}
			}
		}
		d.shiftReg >>= 1
		if d.bitsRemaining > 0 {
			d.bitsRemaining--
		}
		if d.bitsRemaining == 0 {
			d.bitsRemaining = 8
			if d.BufferLoaded {
				d.Silence = false
				d.shiftReg = d.SampleBuffer
				d.BufferLoaded = false
			} else {
				d.Silence = true
			}
		}
	} else {
		d.timerVal--
	}
}

// Frame sequencer step timestamps, measured in APU cycles (one per CPU
// cycle).
const (
	seqMode0Step1 = 7457
	seqMode0Step2 = 14913
	seqMode0Step3 = 22371
	seqMode0Step4 = 29829
	seqMode0Wrap  = 29830

	seqMode1Step1 = 7457
	seqMode1Step2 = 14913
	seqMode1Step3 = 22371
	seqMode1Step4 = 37281
	seqMode1Wrap  = 37282
)

// APU is the complete NES 2A03 audio unit.
type APU struct {
	Pulse1   PulseChannel
	Pulse2   PulseChannel
	Triangle TriangleChannel
	Noise    NoiseChannel
	DMC      DMCChannel

	sequencerMode  uint8 // 0 = 4-step, 1 = 5-step
	inhibitIRQ     bool
	FrameInterrupt bool

	seqCycle uint32

	resetPending bool
	resetDelay   int8
	cycles       uint64

	samples    []int16
	sampleDrop int
}

// New creates an APU with channel 1 configured for one's-complement sweep
// negation (pulse 1) and channel 2 for two's-complement (pulse 2).
func New() *APU {
	a := &APU{samples: make([]int16, 0, sampleRingCapacity)}
	a.Pulse1.onesComplement = true
	a.Noise.shiftReg = 1
	return a
}

// Reset returns the APU to its power-on state.
func (a *APU) Reset() {
	*a = APU{samples: make([]int16, 0, sampleRingCapacity)}
	a.Pulse1.onesComplement = true
	a.Noise.shiftReg = 1
}

// Clock advances the APU by exactly one CPU cycle: frame sequencer, then
// channel timers (triangle every cycle, the rest on odd cycles), then mix
// and emit a sample. Register reads and writes are handled out-of-band
// through ReadRegister/WriteRegister, which the bus calls before/after
// this as appropriate.
func (a *APU) Clock() {
	a.cycles++

	a.clockFrameSequencer()

	a.Triangle.clockTimer()
	if a.cycles&1 == 1 {
		a.Pulse1.clockTimer()
		a.Pulse2.clockTimer()
		a.Noise.clockTimer()
		a.DMC.clockTimer()
	}

	a.emitSample()
}

func (a *APU) clockFrameSequencer() {
	if a.resetPending {
		a.resetDelay--
		if a.resetDelay <= 0 {
			a.resetPending = false
			a.seqCycle = 0
			if a.sequencerMode == 1 {
				a.quarterFrame()
				a.halfFrame()
			}
			return
		}
	}

	a.seqCycle++

	if a.sequencerMode == 0 {
		switch a.seqCycle {
		case seqMode0Step1:
			a.quarterFrame()
		case seqMode0Step2:
			a.quarterFrame()
			a.halfFrame()
		case seqMode0Step3:
			a.quarterFrame()
		case seqMode0Step4 - 1, seqMode0Step4, seqMode0Step4 + 1:
			// The frame interrupt latches on all three cycles around the
			// final step, not just the step cycle itself.
			if !a.inhibitIRQ {
				a.FrameInterrupt = true
			}
			if a.seqCycle == seqMode0Step4 {
				a.quarterFrame()
				a.halfFrame()
			}
		}
		if a.seqCycle >= seqMode0Wrap {
			a.seqCycle = 0
		}
	} else {
		switch a.seqCycle {
		case seqMode1Step1:
			a.quarterFrame()
		case seqMode1Step2:
			a.quarterFrame()
			a.halfFrame()
		case seqMode1Step3:
			a.quarterFrame()
		case seqMode1Step4:
			a.quarterFrame()
			a.halfFrame()
		}
		if a.seqCycle >= seqMode1Wrap {
			a.seqCycle = 0
		}
	}
}

func (a *APU) quarterFrame() {
	a.Pulse1.Envelope.clock()
	a.Pulse2.Envelope.clock()
	a.Noise.Envelope.clock()
	a.Triangle.clockLinear()
}

func (a *APU) halfFrame() {
	a.Pulse1.Length.clock()
	a.Pulse2.Length.clock()
	a.Triangle.Length.clock()
	a.Noise.Length.clock()
	a.Pulse1.Sweep.clock(&a.Pulse1.Timer, true)
	a.Pulse2.Sweep.clock(&a.Pulse2.Timer, false)
}

func (a *APU) mix() int16 {
	p1 := float64(a.Pulse1.output())
	p2 := float64(a.Pulse2.output())
	tr := float64(a.Triangle.output())
	ns := float64(a.Noise.output())
	dm := float64(a.DMC.Output)

	var square float64
	if p1+p2 > 0 {
		square = 95.88 / (8128/(p1+p2) + 100)
	}

	var tnd float64
	denom := tr/8227 + ns/12241 + dm/22638
	if denom > 0 {
		tnd = 159.79 / (1/denom + 100)
	}

	sample := (square + tnd) * 32767
	if sample > 32767 {
		sample = 32767
	}
	if sample < -32768 {
		sample = -32768
	}
	return int16(sample)
}

func (a *APU) emitSample() {
	s := a.mix()
	if len(a.samples) >= sampleRingCapacity {
		a.sampleDrop++
		return
	}
	a.samples = append(a.samples, s)
}

// DrainSamples removes and returns all buffered samples, for the host audio
// callback to consume.
func (a *APU) DrainSamples() []int16 {
	out := a.samples
	a.samples = make([]int16, 0, sampleRingCapacity)
	return out
}

// SampleCount reports how many mixed samples are currently buffered.
func (a *APU) SampleCount() int { return len(a.samples) }

// NeedsDMCDMA reports whether the DMC channel wants a DMA fetch this cycle.
func (a *APU) NeedsDMCDMA() bool { return a.DMC.NeedsDMA() }

// DMCDMAAddress returns the address the bus should fetch for the DMC.
func (a *APU) DMCDMAAddress() uint16 { return a.DMC.CurrentAddress }

// DMCDMALoad delivers a fetched byte to the DMC channel.
func (a *APU) DMCDMALoad(b uint8) { a.DMC.LoadByte(b) }

// IRQLine reports the combined frame + DMC interrupt line the bus ORs into
// the CPU's IRQ input.
func (a *APU) IRQLine() bool { return a.FrameInterrupt || a.DMC.Interrupt }
