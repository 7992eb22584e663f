package ppu

import (
	"testing"

	"nescore/internal/config"
)

type fakeCart struct {
	chr      [0x2000]uint8
	mirror   MirrorMode
	a12Edges int
}

func (c *fakeCart) ReadCHR(addr uint16) uint8         { return c.chr[addr%0x2000] }
func (c *fakeCart) WriteCHR(addr uint16, v uint8)     { c.chr[addr%0x2000] = v }
func (c *fakeCart) Mirroring() MirrorMode             { return c.mirror }
func (c *fakeCart) OnA12Change(level bool) {
	if level {
		c.a12Edges++
	}
}

func TestLoopyCoarseXWrapFlipsNametable(t *testing.T) {
	var l loopy
	l.data = 31 // coarseX maxed
	l.incrementCoarseX()
	if l.coarseX() != 0 {
		t.Fatalf("coarseX after wrap = %d, want 0", l.coarseX())
	}
	if l.nametable()&1 == 0 {
		t.Fatal("horizontal nametable bit should flip on coarseX wrap")
	}
}

func TestLoopyFineYWrapIncrementsCoarseY(t *testing.T) {
	var l loopy
	l.data = 7 << 12 // fineY maxed, coarseY 0
	l.incrementFineY()
	if l.fineY() != 0 || l.coarseY() != 1 {
		t.Fatalf("after fineY wrap: fineY=%d coarseY=%d, want 0,1", l.fineY(), l.coarseY())
	}
}

func TestPaletteMirroring(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	p.writePalette(0x3F00, 0x10)
	if got := p.readPalette(0x3F10); got != 0x10 {
		t.Fatalf("backdrop mirror $3F10 = %02X, want 10", got)
	}
}

func TestPPUCTRLSetsNametableBitsInT(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	p.WriteRegister(0, 0x02) // select nametable 2
	if p.t.nametable() != 2 {
		t.Fatalf("t.nametable() = %d, want 2", p.t.nametable())
	}
}

func TestVBlankSetAtScanline241Dot1(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	p.WriteRegister(0, 0x80) // enable NMI output
	for p.scanline != screenHeight+1 || p.dot != 1 {
		p.Step()
	}
	p.Step()
	if p.status&0x80 == 0 {
		t.Fatal("VBlank flag not set at scanline 241 dot 1")
	}
	if !p.NMILine() {
		t.Fatal("NMI line should be asserted once VBlank + ctrl bit 7 both set")
	}
}

func TestReadingStatusClearsVBlankAndLatch(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	p.status = 0x80
	p.writeLatch = true
	v := p.ReadRegister(2, 0)
	if v&0x80 == 0 {
		t.Fatal("status read should return the VBlank bit that was set")
	}
	if p.status&0x80 != 0 {
		t.Fatal("reading PPUSTATUS should clear VBlank")
	}
	if p.writeLatch {
		t.Fatal("reading PPUSTATUS should clear the write latch")
	}
}

func TestMirrorNametableVertical(t *testing.T) {
	cart := &fakeCart{mirror: MirrorVertical}
	p := New(config.NTSC, cart)
	a := p.mirrorNametable(0x2000)
	b := p.mirrorNametable(0x2800)
	if a != b {
		t.Fatalf("vertical mirroring: nametable 0 and 2 should alias, got %d vs %d", a, b)
	}
}

func TestSnapshotRestoreRoundTripsScrollAndSprites(t *testing.T) {
	cart := &fakeCart{mirror: MirrorVertical}
	p := New(config.NTSC, cart)
	p.WriteRegister(0x2006, 0x21)
	p.WriteRegister(0x2006, 0x08)
	p.oam[0] = 0x40
	p.sprites[0] = spriteUnit{patternLo: 0xAA, patternHi: 0x55, attr: 0x03, x: 0x10, isSprite0: true}

	st := p.Snapshot()

	p2 := New(config.NTSC, cart)
	p2.Restore(st)

	if p2.v.data != p.v.data {
		t.Fatalf("restored v = %04X, want %04X", p2.v.data, p.v.data)
	}
	if p2.sprites[0] != p.sprites[0] {
		t.Fatalf("restored sprites[0] = %+v, want %+v", p2.sprites[0], p.sprites[0])
	}
}

func TestWriteOnlyRegisterReadReturnsOpenBus(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	for _, reg := range []uint16{0, 1, 3, 5, 6} {
		if got := p.ReadRegister(reg, 0x5A); got != 0x5A {
			t.Fatalf("reading write-only register %d = %02X, want open-bus byte 5A", reg, got)
		}
	}
}

func TestPPUSTATUSMergesOpenBusIntoLowBits(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	p.status = 0x80
	got := p.ReadRegister(2, 0x1F)
	if got != 0x9F {
		t.Fatalf("PPUSTATUS read = %02X, want 9F (vblank bit + merged open-bus low bits)", got)
	}
}

func TestOAMDATAReadsFFDuringEvalClearWindow(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	p.WriteRegister(1, 0x18) // enable background+sprite rendering
	p.oam[0] = 0x42
	p.oamAddr = 0
	p.scanline, p.dot = 10, 30
	if got := p.ReadRegister(4, 0); got != 0xFF {
		t.Fatalf("OAMDATA during eval-clear window = %02X, want FF", got)
	}
	p.dot = 100
	if got := p.ReadRegister(4, 0); got != 0x42 {
		t.Fatalf("OAMDATA outside eval-clear window = %02X, want 42", got)
	}
}
