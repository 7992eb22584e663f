package ppu

// Step advances the PPU by exactly one dot. Callers (internal/bus) must
// invoke this three times per CPU cycle on NTSC/Dendy and 3.2 times on
// average on PAL (the bus carries the fractional dot over) so that every cartridge-visible pattern-table fetch — and the A12 edge
// it may carry — lands before the CPU bus access it precedes.
func (p *PPU) Step() {
	preRender := p.scanline == -1
	visible := p.scanline >= 0 && p.scanline < screenHeight
	lastScanline := p.region.ScanlinesPerFrame() - 2 // last vblank line before the wrap to -1

	if visible || preRender {
		p.renderDot(preRender)
	}

	if p.scanline == screenHeight+1 && p.dot == 1 {
		if !p.suppressVBlankNMI {
			p.status |= 0x80
			p.updateNMILine()
		}
		p.suppressVBlankNMI = false
	}
	if preRender && p.dot == 1 {
		p.status &^= 0xE0 // clear VBlank, sprite-0 hit, sprite overflow
		p.updateNMILine()
	}

	p.dot++
	if preRender && p.dot == 340 && p.frameOdd && p.region.OddFrameSkip() && p.renderingEnabled() {
		p.dot++ // skip the idle dot on odd frames
	}
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > lastScanline {
			p.scanline = -1
			p.frameOdd = !p.frameOdd
			p.frameReady = true
			p.frameNumber++
		}
	}
}

func (p *PPU) renderDot(preRender bool) {
	if !p.renderingEnabled() {
		return
	}

	fetchPhase := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if fetchPhase {
		p.backgroundFetchCycle()
	}

	if p.dot >= 1 && p.dot <= 256 && !preRender {
		p.outputPixel()
	}

	if p.dot == 256 {
		p.v.incrementFineY()
	}
	if p.dot == 257 {
		p.v.copyHorizontal(p.t)
		p.evaluateSprites()
	}
	if preRender && p.dot >= 280 && p.dot <= 304 {
		p.v.copyVertical(p.t)
	}
	if p.dot >= 257 && p.dot <= 320 {
		p.loadSpritePattern((p.dot - 257) / 8)
	}

	// Pattern-table fetches toggle A12 between nametable/attribute
	// fetches (low, A12=0 since they live in $2000-$2FFF... actually
	// nametable space isn't pattern space) and the background/sprite
	// pattern fetches, which is what MMC3-class mappers watch.
	if fetchPhase && (p.dot%8 == 5 || p.dot%8 == 7) {
		p.setA12(p.dot%8 == 5 && p.spritePatternAddr()>>12&1 == 1 || p.backgroundPatternAddr()>>12&1 == 1)
	}
}

func (p *PPU) setA12(level bool) {
	if level == p.a12Level {
		return
	}
	p.a12Level = level
	p.cart.OnA12Change(level)
}

func (p *PPU) backgroundPatternAddr() uint16 {
	base := uint16(0)
	if p.ctrl&0x10 != 0 {
		base = 0x1000
	}
	return base
}

func (p *PPU) spritePatternAddr() uint16 {
	base := uint16(0)
	if p.ctrl&0x08 != 0 {
		base = 0x1000
	}
	return base
}

// backgroundFetchCycle performs the classic 8-dot NT/AT/PT-lo/PT-hi
// fetch sequence and reloads the shift registers every 8th dot.
func (p *PPU) backgroundFetchCycle() {
	switch p.dot % 8 {
	case 1:
		p.reloadShiftRegisters()
		p.ntByte = p.readNametable(p.v.nametableAddr() - 0x2000)
	case 3:
		p.atByte = p.readNametable(p.v.attributeAddr() - 0x2000)
	case 5:
		addr := p.backgroundPatternAddr() + uint16(p.ntByte)*16 + p.v.fineY()
		p.ptLo = p.cart.ReadCHR(addr)
	case 7:
		addr := p.backgroundPatternAddr() + uint16(p.ntByte)*16 + p.v.fineY() + 8
		p.ptHi = p.cart.ReadCHR(addr)
	case 0:
		p.v.incrementCoarseX()
	}
}

func (p *PPU) reloadShiftRegisters() {
	p.bgShiftLo = (p.bgShiftLo &^ 0x00FF) | uint16(p.ptLo)
	p.bgShiftHi = (p.bgShiftHi &^ 0x00FF) | uint16(p.ptHi)

	quadrant := ((p.v.coarseY()&2)<<1 | (p.v.coarseX() & 2)) >> 1
	attrBits := (p.atByte >> (quadrant * 2)) & 0x03
	lo, hi := uint16(0), uint16(0)
	if attrBits&1 != 0 {
		lo = 0x00FF
	}
	if attrBits&2 != 0 {
		hi = 0x00FF
	}
	p.bgAttrShiftLo = (p.bgAttrShiftLo &^ 0x00FF) | lo
	p.bgAttrShiftHi = (p.bgAttrShiftHi &^ 0x00FF) | hi
}

func (p *PPU) outputPixel() {
	x := p.dot - 1

	bgPixel, bgOpaque := p.backgroundPixel()
	sprPixel, sprOpaque, sprPriority, isSpriteZero := p.spritePixel(x)

	var paletteAddr uint16
	switch {
	case !bgOpaque && !sprOpaque:
		paletteAddr = 0x3F00
	case !bgOpaque && sprOpaque:
		paletteAddr = 0x3F10 + uint16(sprPixel)
	case bgOpaque && !sprOpaque:
		paletteAddr = 0x3F00 + uint16(bgPixel)
	default:
		if isSpriteZero && x != 255 {
			p.status |= 0x40 // sprite 0 hit
		}
		if sprPriority {
			paletteAddr = 0x3F10 + uint16(sprPixel)
		} else {
			paletteAddr = 0x3F00 + uint16(bgPixel)
		}
	}

	p.frame[p.scanline*screenWidth+x] = p.readPalette(paletteAddr)

	p.bgShiftLo <<= 1
	p.bgShiftHi <<= 1
	p.bgAttrShiftLo <<= 1
	p.bgAttrShiftHi <<= 1
}

func (p *PPU) backgroundPixel() (uint8, bool) {
	if p.mask&0x08 == 0 {
		return 0, false
	}
	bit := uint16(0x8000) >> p.fineX
	lo := uint8(0)
	if p.bgShiftLo&bit != 0 {
		lo = 1
	}
	hi := uint8(0)
	if p.bgShiftHi&bit != 0 {
		hi = 1
	}
	palLo := uint8(0)
	if p.bgAttrShiftLo&bit != 0 {
		palLo = 1
	}
	palHi := uint8(0)
	if p.bgAttrShiftHi&bit != 0 {
		palHi = 1
	}
	pixel := hi<<1 | lo
	return palHi<<3 | palLo<<2 | pixel, pixel != 0
}
