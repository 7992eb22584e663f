// Package apu implements the NES audio processing unit: two pulse
// channels, triangle, noise, the delta-modulation channel, the frame
// sequencer that clocks their envelope/sweep/length units, and the
// two-table mixer that turns all four/five channels into one sample
// stream.
package apu

import "nescore/internal/config"

// The DMC channel only raises DMARequest/exposes DMCAddress; the actual
// sample fetch (and the CPU stall it causes) is the Bus's job, since
// only the Bus can issue a real bus cycle and account for its timing.

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

var triangleSeq = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

var noisePeriodTableNTSC = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

var dmcRateTableNTSC = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

func buildMixerTables() (pulse [31]float32, tnd [203]float32) {
	for i := range pulse {
		if i == 0 {
			continue
		}
		pulse[i] = 95.52 / (8128.0/float32(i) + 100)
	}
	for i := range tnd {
		if i == 0 {
			continue
		}
		tnd[i] = 163.67 / (24329.0/float32(i) + 100)
	}
	return
}

var pulseTable, tndTable = buildMixerTables()

type envelope struct {
	start      bool
	divider    uint8
	decay      uint8
	loop       bool
	constant   bool
	volume     uint8
}

func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.volume
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.volume
	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *envelope) output() uint8 {
	if e.constant {
		return e.volume
	}
	return e.decay
}

type sweep struct {
	enabled  bool
	period   uint8
	negate   bool
	shift    uint8
	divider  uint8
	reload   bool
}

type pulseChannel struct {
	enabled     bool
	duty        uint8
	dutyPos     uint8
	timer       uint16
	timerPeriod uint16
	lengthCount uint8
	lengthHalt  bool
	env         envelope
	sweep       sweep
	onChannel2  bool // true for pulse 2, whose sweep adder doesn't add the extra 1
}

func (p *pulseChannel) sweepTarget() uint16 {
	change := p.timerPeriod >> p.sweep.shift
	if p.sweep.negate {
		if p.onChannel2 {
			return p.timerPeriod - change
		}
		return p.timerPeriod - change - 1
	}
	return p.timerPeriod + change
}

func (p *pulseChannel) muted() bool {
	return p.timerPeriod < 8 || p.sweepTarget() > 0x7FF
}

func (p *pulseChannel) clockTimer() {
	if p.timer == 0 {
		p.timer = p.timerPeriod
		p.dutyPos = (p.dutyPos + 1) % 8
	} else {
		p.timer--
	}
}

func (p *pulseChannel) clockSweep() {
	if p.sweep.divider == 0 && p.sweep.enabled && !p.muted() {
		p.timerPeriod = p.sweepTarget()
	}
	if p.sweep.divider == 0 || p.sweep.reload {
		p.sweep.divider = p.sweep.period
		p.sweep.reload = false
	} else {
		p.sweep.divider--
	}
}

func (p *pulseChannel) clockLength() {
	if !p.lengthHalt && p.lengthCount > 0 {
		p.lengthCount--
	}
}

func (p *pulseChannel) output() uint8 {
	if !p.enabled || p.lengthCount == 0 || p.muted() {
		return 0
	}
	if dutyTable[p.duty][p.dutyPos] == 0 {
		return 0
	}
	return p.env.output()
}

type triangleChannel struct {
	enabled       bool
	timer         uint16
	timerPeriod   uint16
	sequencePos   uint8
	lengthCount   uint8
	lengthHalt    bool
	linearCount   uint8
	linearReload  uint8
	linearReloadFlag bool
}

func (tc *triangleChannel) clockTimer() {
	if tc.timer == 0 {
		tc.timer = tc.timerPeriod
		if tc.lengthCount > 0 && tc.linearCount > 0 {
			tc.sequencePos = (tc.sequencePos + 1) % 32
		}
	} else {
		tc.timer--
	}
}

func (tc *triangleChannel) clockLinear() {
	if tc.linearReloadFlag {
		tc.linearCount = tc.linearReload
	} else if tc.linearCount > 0 {
		tc.linearCount--
	}
	if !tc.lengthHalt {
		tc.linearReloadFlag = false
	}
}

func (tc *triangleChannel) clockLength() {
	if !tc.lengthHalt && tc.lengthCount > 0 {
		tc.lengthCount--
	}
}

// output returns the current sequencer step regardless of mute state.
// Real hardware leaves the triangle's sequencer running even when
// disabled by length/linear counters or $4015, producing an ultrasonic
// tone rather than silence when clocked fast enough to matter; this core
// doesn't special-case that muting, matching the documented DC-offset
// quirk instead of silencing the channel outright.
func (tc *triangleChannel) output() uint8 {
	return triangleSeq[tc.sequencePos]
}

type noiseChannel struct {
	enabled     bool
	mode        bool
	timer       uint16
	timerPeriod uint16
	shift       uint16
	lengthCount uint8
	lengthHalt  bool
	env         envelope
}

func newNoiseChannel() *noiseChannel { return &noiseChannel{shift: 1} }

func (n *noiseChannel) clockTimer() {
	if n.timer == 0 {
		n.timer = n.timerPeriod
		tapBit := 1
		if n.mode {
			tapBit = 6
		}
		feedback := (n.shift & 1) ^ ((n.shift >> tapBit) & 1)
		n.shift >>= 1
		n.shift |= feedback << 14
	} else {
		n.timer--
	}
}

func (n *noiseChannel) clockLength() {
	if !n.lengthHalt && n.lengthCount > 0 {
		n.lengthCount--
	}
}

func (n *noiseChannel) output() uint8 {
	if !n.enabled || n.lengthCount == 0 || n.shift&1 != 0 {
		return 0
	}
	return n.env.output()
}

type dmcChannel struct {
	enabled       bool
	irqEnabled    bool
	loop          bool
	rate          uint16
	timer         uint16
	sampleAddr    uint16
	sampleLength  uint16
	currentAddr   uint16
	bytesRemaining uint16
	shiftReg      uint8
	bitsRemaining uint8
	output        uint8
	silence       bool
	sampleBuffer  uint8
	hasSample     bool
	irqPending    bool
	dmaRequest    bool
}

func (d *dmcChannel) restart() {
	d.currentAddr = d.sampleAddr
	d.bytesRemaining = d.sampleLength
}

func (d *dmcChannel) clockTimer() {
	if d.timer == 0 {
		d.timer = d.rate
		d.clockOutput()
	} else {
		d.timer--
	}
}

func (d *dmcChannel) clockOutput() {
	if !d.hasSample && d.bytesRemaining > 0 {
		d.dmaRequest = true
	}
	if d.bitsRemaining == 0 {
		d.bitsRemaining = 8
		if d.hasSample {
			d.shiftReg = d.sampleBuffer
			d.hasSample = false
			d.silence = false
		} else {
			d.silence = true
		}
	}
	if !d.silence {
		if d.shiftReg&1 != 0 && d.output <= 125 {
			d.output += 2
		} else if d.shiftReg&1 == 0 && d.output >= 2 {
			d.output -= 2
		}
	}
	d.shiftReg >>= 1
	d.bitsRemaining--
}

// deliverSample feeds a DMA-fetched byte back into the channel,
// advancing the sample address/length and wrapping/looping/IRQing as
// the real hardware does when the sample region is exhausted.
func (d *dmcChannel) deliverSample(v uint8) {
	d.dmaRequest = false
	d.sampleBuffer = v
	d.hasSample = true
	d.currentAddr++
	if d.currentAddr == 0 {
		d.currentAddr = 0x8000
	}
	d.bytesRemaining--
	if d.bytesRemaining == 0 {
		if d.loop {
			d.restart()
		} else if d.irqEnabled {
			d.irqPending = true
		}
	}
}

// APU is the audio processing unit.
type APU struct {
	region config.Region

	pulse1, pulse2 pulseChannel
	triangle       triangleChannel
	noise          *noiseChannel
	dmc            dmcChannel

	frameMode5Step  bool
	frameIRQInhibit bool
	frameIRQPending bool
	frameCounter    int
	cycle           uint64

	sampleSink func(int16)
	sampleAccum float64
	sampleDivisor float64
}

// New builds an APU for region, emitting samples to sink at the rate
// implied by sampleDivisor CPU cycles per sample (e.g. 1789773/44100 for
// NTSC 44.1kHz output).
func New(region config.Region, sink func(int16), cpuClockHz, sampleRateHz float64) *APU {
	a := &APU{region: region, noise: newNoiseChannel(), sampleSink: sink}
	a.pulse2.onChannel2 = true
	a.sampleDivisor = cpuClockHz / sampleRateHz
	return a
}

// SetSampleSink replaces the push callback used to deliver PCM output.
func (a *APU) SetSampleSink(sink func(int16)) { a.sampleSink = sink }

func (a *APU) dmcIRQ() bool   { return a.dmc.irqPending }
func (a *APU) frameIRQ() bool { return a.frameIRQPending }

// IRQLine reports the OR of the frame counter and DMC IRQ flags.
func (a *APU) IRQLine() bool { return a.frameIRQ() || a.dmcIRQ() }

// DMARequest reports whether the DMC channel needs a sample byte fetched
// via ReadDMCSample right now.
func (a *APU) DMARequest() bool      { return a.dmc.dmaRequest }
func (a *APU) DMCAddress() uint16    { return a.dmc.currentAddr }
func (a *APU) DeliverDMCByte(v uint8) { a.dmc.deliverSample(v) }

// Step advances the APU by one CPU cycle: the triangle and DMC timers
// clock every cycle, pulse/noise every other (APU runs at half the CPU
// rate internally for those), and the frame sequencer clocks quarter-
// and half-frame events on its documented schedule.
func (a *APU) Step() {
	a.cycle++
	a.triangle.clockTimer()
	if a.cycle%2 == 0 {
		a.pulse1.clockTimer()
		a.pulse2.clockTimer()
		a.noise.clockTimer()
	}
	a.dmc.clockTimer()

	a.clockFrameSequencer()

	a.sampleAccum++
	if a.sampleAccum >= a.sampleDivisor {
		a.sampleAccum -= a.sampleDivisor
		a.emitSample()
	}
}

func (a *APU) emitSample() {
	p1 := a.pulse1.output()
	p2 := a.pulse2.output()
	t := a.triangle.output()
	n := a.noise.output()
	d := a.dmc.output

	pulseOut := pulseTable[p1+p2]
	tndOut := tndTable[3*uint16(t)+2*uint16(n)+uint16(d)]
	sample := pulseOut + tndOut

	if a.sampleSink != nil {
		a.sampleSink(int16((sample - 0.5) * 2 * 32767))
	}
}

// clockFrameSequencer implements the 4-step/240Hz (or 5-step) frame
// counter: quarter frames clock envelopes/linear counter, half frames
// additionally clock length counters and sweep units.
func (a *APU) clockFrameSequencer() {
	// NTSC frame sequencer steps land at CPU cycles 3729, 7457, 11186,
	// 14915 (4-step, which also raises /IRQ and resets) or with a fifth
	// step at 18641 in 5-step mode (never raises IRQ).
	const (
		step1 = 3729
		step2 = 7457
		step3 = 11186
		step4 = 14915
		step5 = 18641
	)

	a.frameCounter++
	var quarter, half, irq bool
	if a.frameMode5Step {
		switch a.frameCounter {
		case step1, step3:
			quarter = true
		case step2:
			quarter, half = true, true
		case step5:
			quarter, half = true, true
			a.frameCounter = 0
		}
	} else {
		switch a.frameCounter {
		case step1:
			quarter = true
		case step2:
			quarter, half = true, true
		case step3:
			quarter = true
		case step4:
			quarter, half, irq = true, true, true
			a.frameCounter = 0
		}
	}

	if quarter {
		a.pulse1.env.clock()
		a.pulse2.env.clock()
		a.noise.env.clock()
		a.triangle.clockLinear()
	}
	if half {
		a.pulse1.clockLength()
		a.pulse2.clockLength()
		a.noise.clockLength()
		a.triangle.clockLength()
		a.pulse1.clockSweep()
		a.pulse2.clockSweep()
	}
	if irq && !a.frameIRQInhibit {
		a.frameIRQPending = true
	}
}

// Reset returns the APU to its power-on state.
func (a *APU) Reset() {
	*a = APU{region: a.region, noise: newNoiseChannel(), sampleSink: a.sampleSink, sampleDivisor: a.sampleDivisor}
	a.pulse2.onChannel2 = true
}
