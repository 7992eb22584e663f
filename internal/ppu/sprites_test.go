package ppu

import (
	"testing"

	"nescore/internal/config"
)

func setSpriteY(p *PPU, n int, y uint8) { p.oam[n*4] = y }

func TestEvaluateSpritesSetsOverflowOnNinthInRangeSprite(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	for n := 0; n < 9; n++ {
		setSpriteY(p, n, 50)
	}
	p.scanline = 49 // evaluating for the next scanline, 50
	p.evaluateSprites()
	if p.status&0x20 == 0 {
		t.Fatal("overflow flag should be set when a 9th sprite is genuinely in range")
	}
	if p.spriteCount != 8 {
		t.Fatalf("spriteCount = %d, want 8 (secondary OAM caps at 8)", p.spriteCount)
	}
}

func TestEvaluateSpritesBuggyDiagonalScanCanFalsePositive(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	for n := 0; n < 8; n++ {
		setSpriteY(p, n, 50)
	}
	// Sprite 8 is not in range. The diagonal scan then walks n and m
	// together (n=9,m=1 checks sprite 9's tile byte; n=10,m=2 checks
	// sprite 10's attribute byte), so setting sprite 10's attribute byte
	// to 50 produces a false-positive overflow with no 9th in-range
	// sprite anywhere in OAM.
	p.oam[8*4+0] = 200  // sprite 8's Y: out of range
	p.oam[10*4+2] = 50  // sprite 10's attribute byte, misread as Y
	p.scanline = 49
	p.evaluateSprites()
	if p.status&0x20 == 0 {
		t.Fatal("documented diagonal-scan bug should have set overflow from a non-Y byte match")
	}
}

func TestEvaluateSpritesNoOverflowWithEightOrFewer(t *testing.T) {
	cart := &fakeCart{}
	p := New(config.NTSC, cart)
	for n := 0; n < 8; n++ {
		setSpriteY(p, n, 50)
	}
	p.scanline = 49
	p.evaluateSprites()
	if p.status&0x20 != 0 {
		t.Fatal("overflow flag should not be set with exactly 8 in-range sprites")
	}
	if p.spriteCount != 8 {
		t.Fatalf("spriteCount = %d, want 8", p.spriteCount)
	}
}
