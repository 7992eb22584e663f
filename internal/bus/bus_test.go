package bus

import (
	"testing"

	"nescore/internal/cartridge"
	"nescore/internal/config"
	"nescore/internal/memory"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	prg := make([]uint8, 0x4000)
	chr := make([]uint8, 0x2000)
	cart, err := cartridge.New(cartridge.Header{Mapper: 0, PRGROMSize: len(prg), CHRROMSize: len(chr)}, prg, chr)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	ram := memory.NewRAM(config.RAMState{Kind: config.AllZeros})
	return New(config.Default(), ram, cart, nil, 1789773, 44100)
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0000, 0x42)
	if v := b.Read(0x0800); v != 0x42 {
		t.Fatalf("RAM mirror at $0800 = %02X, want 42", v)
	}
	if v := b.Read(0x1800); v != 0x42 {
		t.Fatalf("RAM mirror at $1800 = %02X, want 42", v)
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x2000, 0x80)
	if ctrl := b.ppu.Snapshot().Ctrl; ctrl != 0x80 {
		t.Fatalf("PPUCTRL = %02X, want 80", ctrl)
	}
	b.Write(0x2008, 0x00) // mirrors $2000
	if ctrl := b.ppu.Snapshot().Ctrl; ctrl != 0x00 {
		t.Fatalf("write to mirrored $2008 should hit PPUCTRL, got %02X", ctrl)
	}
}

func TestOAMDMATakes513Or514Cycles(t *testing.T) {
	b := newTestBus(t)
	b.totalCPUCycles = 0 // force even alignment -> 513
	before := b.totalCPUCycles
	b.performOAMDMA(0x02)
	if got := b.totalCPUCycles - before; got != 513 {
		t.Fatalf("OAM DMA cycles = %d, want 513 on even alignment", got)
	}
}

func TestCartridgeReadThroughMapper(t *testing.T) {
	b := newTestBus(t)
	if v := b.Read(0x8000); v != 0 {
		t.Fatalf("blank PRG-ROM read = %02X, want 0", v)
	}
}

func TestSnapshotRestoreRoundTrips(t *testing.T) {
	b := newTestBus(t)
	b.openBus = 0x42
	b.totalCPUCycles = 1234

	st := b.Snapshot()

	b2 := newTestBus(t)
	b2.Restore(st)

	if b2.openBus != b.openBus || b2.totalCPUCycles != b.totalCPUCycles {
		t.Fatalf("restored state = %+v, want openBus=%02X totalCPUCycles=%d", b2, b.openBus, b.totalCPUCycles)
	}
}
