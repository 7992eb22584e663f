package snapshot

import (
	"testing"

	"nescore/internal/cartridge"
	"nescore/internal/config"
	"nescore/internal/scheduler"
)

func newTestScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	prg := make([]uint8, 0x4000)
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
	s := scheduler.New(config.Default(), cart, nil)
	s.Reset()
	return s
}

func TestCaptureRestoreRoundTripsCPUState(t *testing.T) {
	s := newTestScheduler(t)
	s.RunUntil(5000)

	st := Capture(s)

	s.RunUntil(s.MasterCycles() + 5000)
	if err := Restore(s, st); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if s.MasterCycles() != st.MasterCycles {
		t.Fatalf("MasterCycles() = %d, want %d", s.MasterCycles(), st.MasterCycles)
	}
	if s.CPU().PC != st.CPU.PC {
		t.Fatalf("PC = %04X, want %04X", s.CPU().PC, st.CPU.PC)
	}
}

func TestMarshalUnmarshalRoundTrips(t *testing.T) {
	s := newTestScheduler(t)
	s.RunUntil(2000)
	st := Capture(s)

	data, err := Marshal(st)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.CPU.PC != st.CPU.PC || got.MasterCycles != st.MasterCycles {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got.CPU, st.CPU)
	}
}

func TestRestoreRejectsMapperMismatch(t *testing.T) {
	s := newTestScheduler(t)
	st := Capture(s)
	st.MapperID = 99

	if err := Restore(s, st); err == nil {
		t.Fatal("Restore: want error for mismatched mapper id, got nil")
	}
}
