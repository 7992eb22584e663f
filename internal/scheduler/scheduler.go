// Package scheduler drives the CPU instruction loop and exposes the
// coarser run_until/run_frame operations the rest of the system
// (savestate, rewind, the demo frontend) actually calls.
package scheduler

import (
	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/config"
	"nescore/internal/cpu"
	"nescore/internal/memory"
)

// Frame is one completed picture: Pixels holds NES palette indices in
// row-major order, Number is the running frame counter since power-on.
type Frame struct {
	Pixels *[256 * 240]uint8
	Number uint64
}

// Scheduler owns the CPU/Bus pair and the master-cycle accounting that
// ties run_until to real elapsed time.
type Scheduler struct {
	cpu *cpu.CPU
	bus *bus.Bus
	opts config.Options

	masterCycles uint64
}

// New builds a Scheduler around a freshly inserted cartridge, ready to
// Reset and run. sampleSink receives synthesized PCM samples as they're
// produced; pass nil to run headless (savestate diffing, testing).
func New(opts config.Options, cart *cartridge.Cartridge, sampleSink func(int16)) *Scheduler {
	if err := opts.Validate(); err != nil {
		panic(err) // collaborator is expected to validate before constructing
	}
	ram := memory.NewRAM(opts.RAMState)
	b := bus.New(opts, ram, cart, sampleSink, float64(cpu_NTSCHz(opts.Region)), 44100)
	s := &Scheduler{bus: b, opts: opts}
	s.cpu = cpu.New(b)
	s.cpu.SetUndocumented(opts.CPUUndocumented)
	return s
}

func cpu_NTSCHz(r config.Region) float64 {
	switch r {
	case config.PAL:
		return 1662607
	case config.Dendy:
		return 1773448
	default:
		return 1789773
	}
}

// Reset runs the CPU/Bus power-on-equivalent reset sequence.
func (s *Scheduler) Reset() {
	s.bus.Reset()
	s.cpu.Reset()
}

// Bus exposes the wired Bus for the savestate/snapshot layer and tests.
func (s *Scheduler) Bus() *bus.Bus { return s.bus }
func (s *Scheduler) CPU() *cpu.CPU { return s.cpu }

// RunUntil executes whole CPU instructions until at least masterCycles
// total master-clock cycles have elapsed since the Scheduler was
// created (coarser than cycle-exact since an instruction can't be
// interrupted mid-flight, matching spec-level run_until semantics).
func (s *Scheduler) RunUntil(masterCycles uint64) {
	divisor := s.opts.Region.CPUDivisor()
	for s.masterCycles < masterCycles {
		consumed := s.cpu.Step()
		s.masterCycles += consumed * divisor
	}
}

// RunFrame runs the CPU until the PPU completes one full frame and
// returns it.
func (s *Scheduler) RunFrame() Frame {
	for !s.bus.PPU().FrameReady() {
		consumed := s.cpu.Step()
		s.masterCycles += consumed * s.opts.Region.CPUDivisor()
	}
	return Frame{Pixels: s.bus.PPU().Frame(), Number: s.bus.PPU().FrameNumber()}
}

// MasterCycles reports the total elapsed master-clock cycles.
func (s *Scheduler) MasterCycles() uint64 { return s.masterCycles }

// SetMasterCycles overwrites the elapsed master-clock counter; used by
// internal/snapshot when restoring a captured run.
func (s *Scheduler) SetMasterCycles(cycles uint64) { s.masterCycles = cycles }

// Region reports the console timing variant this Scheduler was built
// for, for internal/snapshot to validate against a loaded save state.
func (s *Scheduler) Region() config.Region { return s.opts.Region }

// SetButtons feeds one frame's controller state for the given physical
// port (0 or 1); use SetFourPlayerButtons for the Four Score's extra pair.
func (s *Scheduler) SetButtons(port int, state uint8) {
	s.bus.Pads().Ports[port].SetButtons(state)
}

// SetFourPlayerButtons feeds the second pair of controllers exposed
// through the Four Score adapter.
func (s *Scheduler) SetFourPlayerButtons(port int, state uint8) {
	s.bus.Pads().Ports[port+2].SetButtons(state)
}
