package apu

// EnvelopeState, SweepState, PulseState, TriangleState, NoiseState and
// DMCState mirror the channel structs with exported fields so State
// round-trips through JSON; the live structs stay unexported since
// nothing outside the package touches them during normal playback.
type EnvelopeState struct {
	Start    bool
	Divider  uint8
	Decay    uint8
	Loop     bool
	Constant bool
	Volume   uint8
}

type SweepState struct {
	Enabled bool
	Period  uint8
	Negate  bool
	Shift   uint8
	Divider uint8
	Reload  bool
}

type PulseState struct {
	Enabled     bool
	Duty        uint8
	DutyPos     uint8
	Timer       uint16
	TimerPeriod uint16
	LengthCount uint8
	LengthHalt  bool
	Env         EnvelopeState
	Sweep       SweepState
	OnChannel2  bool
}

type TriangleState struct {
	Enabled          bool
	Timer            uint16
	TimerPeriod      uint16
	SequencePos      uint8
	LengthCount      uint8
	LengthHalt       bool
	LinearCount      uint8
	LinearReload     uint8
	LinearReloadFlag bool
}

type NoiseState struct {
	Enabled     bool
	Mode        bool
	Timer       uint16
	TimerPeriod uint16
	Shift       uint16
	LengthCount uint8
	LengthHalt  bool
	Env         EnvelopeState
}

type DMCState struct {
	Enabled        bool
	IRQEnabled     bool
	Loop           bool
	Rate           uint16
	Timer          uint16
	SampleAddr     uint16
	SampleLength   uint16
	CurrentAddr    uint16
	BytesRemaining uint16
	ShiftReg       uint8
	BitsRemaining  uint8
	Output         uint8
	Silence        bool
	SampleBuffer   uint8
	HasSample      bool
	IRQPending     bool
	DMARequest     bool
}

func envelopeToState(e envelope) EnvelopeState {
	return EnvelopeState{e.start, e.divider, e.decay, e.loop, e.constant, e.volume}
}

func stateToEnvelope(s EnvelopeState) envelope {
	return envelope{start: s.Start, divider: s.Divider, decay: s.Decay, loop: s.Loop, constant: s.Constant, volume: s.Volume}
}

func sweepToState(s sweep) SweepState {
	return SweepState{s.enabled, s.period, s.negate, s.shift, s.divider, s.reload}
}

func stateToSweep(s SweepState) sweep {
	return sweep{enabled: s.Enabled, period: s.Period, negate: s.Negate, shift: s.Shift, divider: s.Divider, reload: s.Reload}
}

func pulseToState(p pulseChannel) PulseState {
	return PulseState{
		Enabled: p.enabled, Duty: p.duty, DutyPos: p.dutyPos,
		Timer: p.timer, TimerPeriod: p.timerPeriod,
		LengthCount: p.lengthCount, LengthHalt: p.lengthHalt,
		Env: envelopeToState(p.env), Sweep: sweepToState(p.sweep),
		OnChannel2: p.onChannel2,
	}
}

func stateToPulse(s PulseState) pulseChannel {
	return pulseChannel{
		enabled: s.Enabled, duty: s.Duty, dutyPos: s.DutyPos,
		timer: s.Timer, timerPeriod: s.TimerPeriod,
		lengthCount: s.LengthCount, lengthHalt: s.LengthHalt,
		env: stateToEnvelope(s.Env), sweep: stateToSweep(s.Sweep),
		onChannel2: s.OnChannel2,
	}
}

func triangleToState(t triangleChannel) TriangleState {
	return TriangleState{
		Enabled: t.enabled, Timer: t.timer, TimerPeriod: t.timerPeriod,
		SequencePos: t.sequencePos, LengthCount: t.lengthCount, LengthHalt: t.lengthHalt,
		LinearCount: t.linearCount, LinearReload: t.linearReload, LinearReloadFlag: t.linearReloadFlag,
	}
}

func stateToTriangle(s TriangleState) triangleChannel {
	return triangleChannel{
		enabled: s.Enabled, timer: s.Timer, timerPeriod: s.TimerPeriod,
		sequencePos: s.SequencePos, lengthCount: s.LengthCount, lengthHalt: s.LengthHalt,
		linearCount: s.LinearCount, linearReload: s.LinearReload, linearReloadFlag: s.LinearReloadFlag,
	}
}

func noiseToState(n noiseChannel) NoiseState {
	return NoiseState{
		Enabled: n.enabled, Mode: n.mode, Timer: n.timer, TimerPeriod: n.timerPeriod,
		Shift: n.shift, LengthCount: n.lengthCount, LengthHalt: n.lengthHalt,
		Env: envelopeToState(n.env),
	}
}

func stateToNoise(s NoiseState) noiseChannel {
	return noiseChannel{
		enabled: s.Enabled, mode: s.Mode, timer: s.Timer, timerPeriod: s.TimerPeriod,
		shift: s.Shift, lengthCount: s.LengthCount, lengthHalt: s.LengthHalt,
		env: stateToEnvelope(s.Env),
	}
}

func dmcToState(d dmcChannel) DMCState {
	return DMCState{
		Enabled: d.enabled, IRQEnabled: d.irqEnabled, Loop: d.loop, Rate: d.rate,
		Timer: d.timer, SampleAddr: d.sampleAddr, SampleLength: d.sampleLength,
		CurrentAddr: d.currentAddr, BytesRemaining: d.bytesRemaining,
		ShiftReg: d.shiftReg, BitsRemaining: d.bitsRemaining, Output: d.output,
		Silence: d.silence, SampleBuffer: d.sampleBuffer, HasSample: d.hasSample,
		IRQPending: d.irqPending, DMARequest: d.dmaRequest,
	}
}

func stateToDMC(s DMCState) dmcChannel {
	return dmcChannel{
		enabled: s.Enabled, irqEnabled: s.IRQEnabled, loop: s.Loop, rate: s.Rate,
		timer: s.Timer, sampleAddr: s.SampleAddr, sampleLength: s.SampleLength,
		currentAddr: s.CurrentAddr, bytesRemaining: s.BytesRemaining,
		shiftReg: s.ShiftReg, bitsRemaining: s.BitsRemaining, output: s.Output,
		silence: s.Silence, sampleBuffer: s.SampleBuffer, hasSample: s.HasSample,
		irqPending: s.IRQPending, dmaRequest: s.DMARequest,
	}
}

// State is the APU's full internal state, serialized by internal/snapshot.
// The sample-rate conversion accumulator (SampleAccum) is included so a
// restored APU keeps emitting samples on the same schedule; the sink
// callback and region/clock-rate configuration are not part of the
// snapshot since they are supplied again by the collaborator that
// restores it.
type State struct {
	Pulse1, Pulse2 PulseState
	Triangle       TriangleState
	Noise          NoiseState
	DMC            DMCState

	FrameMode5Step  bool
	FrameIRQInhibit bool
	FrameIRQPending bool
	FrameCounter    int
	Cycle           uint64

	SampleAccum float64
}

// Snapshot captures the APU's full state.
func (a *APU) Snapshot() State {
	return State{
		Pulse1:   pulseToState(a.pulse1),
		Pulse2:   pulseToState(a.pulse2),
		Triangle: triangleToState(a.triangle),
		Noise:    noiseToState(*a.noise),
		DMC:      dmcToState(a.dmc),

		FrameMode5Step:  a.frameMode5Step,
		FrameIRQInhibit: a.frameIRQInhibit,
		FrameIRQPending: a.frameIRQPending,
		FrameCounter:    a.frameCounter,
		Cycle:           a.cycle,

		SampleAccum: a.sampleAccum,
	}
}

// Restore replaces the APU's state with a previously captured Snapshot,
// keeping the currently wired sample sink and clock configuration.
func (a *APU) Restore(s State) {
	a.pulse1 = stateToPulse(s.Pulse1)
	a.pulse2 = stateToPulse(s.Pulse2)
	a.triangle = stateToTriangle(s.Triangle)
	*a.noise = stateToNoise(s.Noise)
	a.dmc = stateToDMC(s.DMC)

	a.frameMode5Step = s.FrameMode5Step
	a.frameIRQInhibit = s.FrameIRQInhibit
	a.frameIRQPending = s.FrameIRQPending
	a.frameCounter = s.FrameCounter
	a.cycle = s.Cycle

	a.sampleAccum = s.SampleAccum
}
