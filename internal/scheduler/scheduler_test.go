package scheduler

import (
	"testing"

	"nescore/internal/cartridge"
	"nescore/internal/config"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	prg := make([]uint8, 0x4000)
	// A tight infinite loop at the reset vector: JMP $8000.
	prg[0] = 0x4C
	prg[1] = 0x00
	prg[2] = 0x80
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80
	chr := make([]uint8, 0x2000)
	cart, err := cartridge.New(cartridge.Header{Mapper: 0, PRGROMSize: len(prg), CHRROMSize: len(chr)}, prg, chr)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	s := New(config.Default(), cart, nil)
	s.Reset()
	return s
}

func TestResetEntersResetVector(t *testing.T) {
	s := newTestScheduler(t)
	if s.CPU().PC != 0x8000 {
		t.Fatalf("PC = %04X, want 8000", s.CPU().PC)
	}
}

func TestRunUntilAdvancesMasterClock(t *testing.T) {
	s := newTestScheduler(t)
	s.RunUntil(1000)
	if s.MasterCycles() < 1000 {
		t.Fatalf("MasterCycles() = %d, want >= 1000", s.MasterCycles())
	}
}

func TestRunFrameProducesIncrementingFrameNumbers(t *testing.T) {
	s := newTestScheduler(t)
	f1 := s.RunFrame()
	f2 := s.RunFrame()
	if f2.Number != f1.Number+1 {
		t.Fatalf("frame numbers = %d, %d; want consecutive", f1.Number, f2.Number)
	}
}
