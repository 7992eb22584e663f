package rewind

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

func TestPushTracksLength(t *testing.T) {
	b := NewBuffer(4)
	s := newTestScheduler(t)
	for i := 0; i < 3; i++ {
		b.Push(s)
	}
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
}

func TestPushEvictsOldestAtCapacity(t *testing.T) {
	b := NewBuffer(2)
	s := newTestScheduler(t)
	for i := 0; i < 5; i++ {
		b.Push(s)
	}
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (capped)", b.Len())
	}
}

func TestRewindRestoresEarlierState(t *testing.T) {
	b := NewBuffer(10)
	s := newTestScheduler(t)

	b.Push(s) // snapshot at cycle 0
	s.RunUntil(1000)
	b.Push(s) // snapshot at cycle >= 1000
	s.RunUntil(2000)
	b.Push(s) // snapshot at cycle >= 2000

	if err := b.Rewind(s, 2); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	if s.MasterCycles() >= 1000 {
		t.Fatalf("MasterCycles() = %d, want < 1000 after rewinding to the first snapshot", s.MasterCycles())
	}
}

func TestRewindRejectsDistanceExceedingHistory(t *testing.T) {
	b := NewBuffer(10)
	s := newTestScheduler(t)
	b.Push(s)
	b.Push(s)

	if err := b.Rewind(s, 5); err == nil {
		t.Fatal("Rewind: want error when n exceeds buffered history, got nil")
	}
}

func TestClearResetsLength(t *testing.T) {
	b := NewBuffer(4)
	s := newTestScheduler(t)
	b.Push(s)
	b.Push(s)
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after Clear", b.Len())
	}
}
