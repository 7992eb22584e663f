package savestate

import (
	"os"
	"path/filepath"
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

func writeTestROM(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("fake rom bytes"), 0o644); err != nil {
		t.Fatalf("writing test rom: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.nes")
	writeTestROM(t, romPath)

	mgr, err := NewManager(filepath.Join(dir, "states"), 4)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	s := newTestScheduler(t)
	s.RunUntil(3000)
	if err := mgr.Save(s, 0, romPath, "test slot"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s.RunUntil(s.MasterCycles() + 3000)
	if err := mgr.Load(s, 0, romPath); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.MasterCycles() < 3000 {
		t.Fatalf("MasterCycles() = %d, want >= 3000", s.MasterCycles())
	}

	slots := mgr.Slots(romPath)
	if !slots[0].Used || slots[0].Description != "test slot" {
		t.Fatalf("Slots()[0] = %+v, want used slot with description", slots[0])
	}
}

func TestLoadRejectsMismatchedROM(t *testing.T) {
	dir := t.TempDir()
	romA := filepath.Join(dir, "a.nes")
	romB := filepath.Join(dir, "b.nes")
	writeTestROM(t, romA)
	if err := os.WriteFile(romB, []byte("different bytes entirely"), 0o644); err != nil {
		t.Fatalf("writing romB: %v", err)
	}

	mgr, err := NewManager(filepath.Join(dir, "states"), 4)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	s := newTestScheduler(t)
	if err := mgr.Save(s, 0, romA, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// slotPath keys off the base filename, not content, so copy the saved
	// file under romB's slot name to simulate a renamed-but-different ROM.
	src := mgr.slotPath(0, romA)
	dst := mgr.slotPath(0, romB)
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("reading saved slot: %v", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatalf("writing slot under romB name: %v", err)
	}

	if err := mgr.Load(s, 0, romB); err == nil {
		t.Fatal("Load: want error for mismatched rom checksum, got nil")
	}
}

func TestDeleteRemovesSlot(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.nes")
	writeTestROM(t, romPath)

	mgr, err := NewManager(filepath.Join(dir, "states"), 4)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	s := newTestScheduler(t)
	if err := mgr.Save(s, 1, romPath, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mgr.Delete(1, romPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mgr.Slots(romPath)[1].Used {
		t.Fatal("slot 1 still reports used after Delete")
	}
}

func TestCheckSlotRejectsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(filepath.Join(dir, "states"), 2)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	s := newTestScheduler(t)
	if err := mgr.Save(s, 5, filepath.Join(dir, "x.nes"), ""); err == nil {
		t.Fatal("Save: want error for out-of-range slot, got nil")
	}
}
