package apu

import (
	"bytes"
	"encoding/binary"
)

func writeFields(buf *bytes.Buffer, fields ...any) {
	for _, f := range fields {
		binary.Write(buf, binary.LittleEndian, f)
	}
}

func readFields(r *bytes.Reader, fields ...any) {
	for _, f := range fields {
		binary.Read(r, binary.LittleEndian, f)
	}
}

// SaveState encodes every field that determines the APU's future behavior.
// The mixed-sample ring is excluded: it is a drained output queue, not
// state the replay oracle depends on.
func (a *APU) SaveState() []byte {
	var buf bytes.Buffer
	writeFields(&buf,
		a.Pulse1.Enabled, a.Pulse1.DutyCycle, a.Pulse1.Length,
		a.Pulse1.Envelope, a.Pulse1.Timer, a.Pulse1.timerVal, a.Pulse1.sequencer,
		a.Pulse1.Sweep.Enabled, a.Pulse1.Sweep.Period, a.Pulse1.Sweep.Negate,
		a.Pulse1.Sweep.Shift, a.Pulse1.Sweep.Reload, a.Pulse1.Sweep.divider,

		a.Pulse2.Enabled, a.Pulse2.DutyCycle, a.Pulse2.Length,
		a.Pulse2.Envelope, a.Pulse2.Timer, a.Pulse2.timerVal, a.Pulse2.sequencer,
		a.Pulse2.Sweep.Enabled, a.Pulse2.Sweep.Period, a.Pulse2.Sweep.Negate,
		a.Pulse2.Sweep.Shift, a.Pulse2.Sweep.Reload, a.Pulse2.Sweep.divider,

		a.Triangle.Enabled, a.Triangle.LinearReload, a.Triangle.ControlFlag,
		a.Triangle.linearCount, a.Triangle.reloadFlag, a.Triangle.Length,
		a.Triangle.Timer, a.Triangle.timerVal, a.Triangle.sequencer,

		a.Noise.Enabled, a.Noise.Mode, a.Noise.Length, a.Noise.Envelope,
		a.Noise.Timer, a.Noise.timerVal, a.Noise.shiftReg,

		a.DMC.IRQEnabled, a.DMC.Interrupt, a.DMC.Loop, a.DMC.RateIndex,
		a.DMC.SampleAddress, a.DMC.SampleLength, a.DMC.CurrentAddress,
		a.DMC.BytesRemaining, a.DMC.SampleBuffer, a.DMC.BufferLoaded,
		a.DMC.shiftReg, a.DMC.bitsRemaining, a.DMC.Silence, a.DMC.Output,
		a.DMC.timerVal,

		a.sequencerMode, a.inhibitIRQ, a.FrameInterrupt, a.seqCycle,
		a.resetPending, a.resetDelay, a.cycles,
	)
	return buf.Bytes()
}

// LoadState restores state previously produced by SaveState.
func (a *APU) LoadState(data []byte) {
	r := bytes.NewReader(data)
	readFields(r,
		&a.Pulse1.Enabled, &a.Pulse1.DutyCycle, &a.Pulse1.Length,
		&a.Pulse1.Envelope, &a.Pulse1.Timer, &a.Pulse1.timerVal, &a.Pulse1.sequencer,
		&a.Pulse1.Sweep.Enabled, &a.Pulse1.Sweep.Period, &a.Pulse1.Sweep.Negate,
		&a.Pulse1.Sweep.Shift, &a.Pulse1.Sweep.Reload, &a.Pulse1.Sweep.divider,

		&a.Pulse2.Enabled, &a.Pulse2.DutyCycle, &a.Pulse2.Length,
		&a.Pulse2.Envelope, &a.Pulse2.Timer, &a.Pulse2.timerVal, &a.Pulse2.sequencer,
		&a.Pulse2.Sweep.Enabled, &a.Pulse2.Sweep.Period, &a.Pulse2.Sweep.Negate,
		&a.Pulse2.Sweep.Shift, &a.Pulse2.Sweep.Reload, &a.Pulse2.Sweep.divider,

		&a.Triangle.Enabled, &a.Triangle.LinearReload, &a.Triangle.ControlFlag,
		&a.Triangle.linearCount, &a.Triangle.reloadFlag, &a.Triangle.Length,
		&a.Triangle.Timer, &a.Triangle.timerVal, &a.Triangle.sequencer,

		&a.Noise.Enabled, &a.Noise.Mode, &a.Noise.Length, &a.Noise.Envelope,
		&a.Noise.Timer, &a.Noise.timerVal, &a.Noise.shiftReg,

		&a.DMC.IRQEnabled, &a.DMC.Interrupt, &a.DMC.Loop, &a.DMC.RateIndex,
		&a.DMC.SampleAddress, &a.DMC.SampleLength, &a.DMC.CurrentAddress,
		&a.DMC.BytesRemaining, &a.DMC.SampleBuffer, &a.DMC.BufferLoaded,
		&a.DMC.shiftReg, &a.DMC.bitsRemaining, &a.DMC.Silence, &a.DMC.Output,
		&a.DMC.timerVal,

		&a.sequencerMode, &a.inhibitIRQ, &a.FrameInterrupt, &a.seqCycle,
		&a.resetPending, &a.resetDelay, &a.cycles,
	)
	a.Pulse1.onesComplement = true
	if a.samples == nil {
		a.samples = make([]int16, 0, sampleRingCapacity)
	}
}
