// Package ppu implements the NES picture processing unit: the
// background/sprite fetch pipeline, loopy scroll registers, OAM and
// palette RAM, and the per-dot timing (VBlank/NMI, sprite-0 hit, sprite
// overflow) that the rest of the system synchronizes against.
package ppu

import "nescore/internal/config"

// CartBus is what the PPU needs from the inserted cartridge: pattern
// table storage and the mirroring it applies to nametable addresses.
// OnA12Change lets MMC3-style mappers clock their scanline IRQ counter
// off the same address line the PPU drives during pattern fetches.
type CartBus interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	Mirroring() MirrorMode
	OnA12Change(level bool)
}

// MirrorMode mirrors cartridge.MirrorMode's values without importing the
// cartridge package, keeping ppu free of a dependency on cartridge internals.
type MirrorMode int

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreenA
	MirrorSingleScreenB
	MirrorFourScreen
)

const (
	screenWidth  = 256
	screenHeight = 240
)

type spriteUnit struct {
	patternLo, patternHi uint8
	attr                 uint8
	x                    uint8
	isSprite0            bool
}

// PPU is the picture processing unit. Pixels are produced as NES
// palette indices (0x00-0x3F), not RGB — the frontend owns the
// index-to-color lookup.
type PPU struct {
	cart   CartBus
	region config.Region

	// CPU-visible registers.
	ctrl, mask, status uint8
	oamAddr            uint8

	v, t loopy
	fineX uint8
	writeLatch bool
	readBuffer uint8

	oam          [256]uint8
	secondaryOAM [32]uint8
	spriteCount  int
	sprites      [8]spriteUnit
	spriteZeroInSecondary bool

	nametables [0x800]uint8
	palette    [32]uint8

	bgShiftLo, bgShiftHi         uint16
	bgAttrShiftLo, bgAttrShiftHi uint16
	ntByte, atByte               uint8
	ptLo, ptHi                   uint8

	scanline int // -1 (pre-render) .. region.ScanlinesPerFrame()-2
	dot      int // 0..340
	frameOdd bool

	a12Level bool

	nmiLine     bool
	suppressVBlankNMI bool

	frame       [screenWidth * screenHeight]uint8
	frameReady  bool
	frameNumber uint64
}

// New creates a PPU for the given region, wired to the inserted cartridge.
func New(region config.Region, cart CartBus) *PPU {
	p := &PPU{cart: cart, region: region}
	p.scanline = -1
	return p
}

func (p *PPU) renderingEnabled() bool { return p.mask&0x18 != 0 }

// NMILine reports the PPU's current NMI output level for the CPU to edge-detect.
func (p *PPU) NMILine() bool { return p.nmiLine }

// Frame returns the last completed frame's index buffer and consumes the
// ready flag; FrameReady reports whether a new frame is waiting.
func (p *PPU) FrameReady() bool                { return p.frameReady }
func (p *PPU) Frame() *[screenWidth * screenHeight]uint8 {
	p.frameReady = false
	return &p.frame
}
func (p *PPU) FrameNumber() uint64 { return p.frameNumber }

// ReadRegister services a CPU read of $2000-$2007 (already demirrored by
// the bus to its canonical $2000-$2007 address). openBus is the CPU data
// bus's current latch value, which write-only registers read back
// unchanged and PPUSTATUS merges into its five undefined low bits.
func (p *PPU) ReadRegister(reg uint16, openBus uint8) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		v := (p.status & 0xE0) | (openBus & 0x1F)
		p.status &^= 0x80
		p.writeLatch = false
		if p.scanline == 241 && p.dot == 1 {
			p.suppressVBlankNMI = true
		}
		return v
	case 4: // OAMDATA
		if p.oamEvalClearActive() {
			return 0xFF
		}
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		addr := p.v.data & 0x3FFF
		var v uint8
		if addr >= 0x3F00 {
			v = p.readPalette(addr)
			p.readBuffer = p.readNametable(addr - 0x1000)
		} else {
			v = p.readBuffer
			p.readBuffer = p.readPPUMemory(addr)
		}
		p.incrementVRAMAddr()
		return v
	default: // PPUCTRL, PPUMASK, OAMADDR, PPUSCROLL, PPUADDR: write-only
		return openBus
	}
}

// oamEvalClearActive reports whether the current dot falls in the
// secondary-OAM-clear window (dots 1-64 of a visible or pre-render
// scanline with rendering enabled), during which OAMDATA reads as $FF
// regardless of OAMADDR.
func (p *PPU) oamEvalClearActive() bool {
	if !p.renderingEnabled() {
		return false
	}
	if p.scanline < -1 || p.scanline >= screenHeight {
		return false
	}
	return p.dot >= 1 && p.dot <= 64
}

// WriteRegister services a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(reg uint16, value uint8) {
	switch reg & 7 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t.data = (p.t.data &^ 0x0C00) | (uint16(value&0x03) << 10)
		p.updateNMILine()
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.writeLatch {
			p.fineX = value & 0x07
			p.t.data = (p.t.data &^ 0x001F) | uint16(value>>3)
		} else {
			p.t.data = (p.t.data &^ 0x7000) | (uint16(value&0x07) << 12)
			p.t.data = (p.t.data &^ 0x03E0) | (uint16(value>>3) << 5)
		}
		p.writeLatch = !p.writeLatch
	case 6: // PPUADDR
		if !p.writeLatch {
			p.t.data = (p.t.data &^ 0x7F00) | (uint16(value&0x3F) << 8)
		} else {
			p.t.data = (p.t.data &^ 0x00FF) | uint16(value)
			p.v = p.t
		}
		p.writeLatch = !p.writeLatch
	case 7: // PPUDATA
		p.writePPUMemory(p.v.data&0x3FFF, value)
		p.incrementVRAMAddr()
	}
}

func (p *PPU) incrementVRAMAddr() {
	if p.ctrl&0x04 != 0 {
		p.v.data += 32
	} else {
		p.v.data++
	}
}

// WriteOAMDMAByte services one byte of the CPU's $4014 OAM DMA transfer.
func (p *PPU) WriteOAMDMAByte(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

func (p *PPU) updateNMILine() {
	p.nmiLine = p.ctrl&0x80 != 0 && p.status&0x80 != 0
}

func (p *PPU) readPPUMemory(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return p.cart.ReadCHR(addr)
	case addr < 0x3F00:
		return p.readNametable(addr)
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) writePPUMemory(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		p.cart.WriteCHR(addr, value)
	case addr < 0x3F00:
		p.nametables[p.mirrorNametable(addr)] = value
	default:
		p.writePalette(addr, value)
	}
}

func (p *PPU) readNametable(addr uint16) uint8 { return p.nametables[p.mirrorNametable(addr)] }

func (p *PPU) mirrorNametable(addr uint16) uint16 {
	addr &= 0x0FFF
	table := addr / 0x0400
	offset := addr % 0x0400
	switch p.cart.Mirroring() {
	case MirrorVertical:
		return (table%2)*0x0400 + offset
	case MirrorHorizontal:
		return (table/2)*0x0400 + offset
	case MirrorSingleScreenA:
		return offset
	case MirrorSingleScreenB:
		return 0x0400 + offset
	default: // four-screen: treat as flat 4x1KiB (caller must size backing store)
		return addr % uint16(len(p.nametables))
	}
}

// paletteIndex resolves the well-known mirroring of the backdrop color
// entries ($3F10/$3F14/$3F18/$3F1C alias $3F00/$3F04/$3F08/$3F0C).
func paletteIndex(addr uint16) uint16 {
	a := addr & 0x1F
	if a >= 0x10 && a%4 == 0 {
		a -= 0x10
	}
	return a
}

func (p *PPU) readPalette(addr uint16) uint8  { return p.palette[paletteIndex(addr)] }
func (p *PPU) writePalette(addr uint16, v uint8) { p.palette[paletteIndex(addr)] = v & 0x3F }

// Reset returns the PPU to its power-on state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t = loopy{}, loopy{}
	p.fineX = 0
	p.writeLatch = false
	p.scanline, p.dot = -1, 0
	p.frameOdd = false
	p.nmiLine = false
}
