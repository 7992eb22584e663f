package ppu

func (p *PPU) spriteHeight() int {
	if p.ctrl&0x20 != 0 {
		return 16
	}
	return 8
}

// evaluateSprites runs the OAM scan for the next scanline: it collects up
// to 8 in-range sprites into secondary OAM, then switches to the
// documented buggy diagonal scan to decide whether sprite overflow gets
// set. Real hardware only resets its Y-comparison latch to the start of a
// sprite's four bytes while fewer than 8 sprites have been found; once
// secondary OAM fills, the comparison hardware keeps incrementing both the
// sprite index and the in-sprite byte offset together, so it ends up
// comparing attribute/X bytes against the scanline range instead of
// restarting at each sprite's Y byte. That diagonal walk is what produces
// the well-known false positives and false negatives in the overflow flag.
func (p *PPU) evaluateSprites() {
	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	p.spriteCount = 0
	p.spriteZeroInSecondary = false

	targetLine := p.scanline + 1
	height := p.spriteHeight()

	n, m := 0, 0
	for n < 64 {
		if p.spriteCount < 8 {
			y := int(p.oam[n*4])
			if targetLine >= y && targetLine < y+height {
				copy(p.secondaryOAM[p.spriteCount*4:], p.oam[n*4:n*4+4])
				if n == 0 {
					p.spriteZeroInSecondary = true
					p.sprites[p.spriteCount].isSprite0 = true
				} else {
					p.sprites[p.spriteCount].isSprite0 = false
				}
				p.spriteCount++
			}
			n++
			continue
		}
		// Secondary OAM is full. Real hardware keeps the evaluation
		// address incrementing but stops resetting the in-sprite byte
		// offset back to 0 (the Y byte) for each new candidate, so this
		// comparison drifts across Y/tile/attribute/X bytes instead.
		y := int(p.oam[n*4+m])
		if targetLine >= y && targetLine < y+height {
			p.status |= 0x20
			return
		}
		n++
		m = (m + 1) % 4
	}
}

// loadSpritePattern fetches sprite i's pattern bytes once its 8-dot
// fetch window (dots 257..320) completes; Bus/PPU call this every dot in
// that range, so the guard keeps the actual fetch to one shot per sprite.
func (p *PPU) loadSpritePattern(i int) {
	if i >= 8 || (p.dot-257)%8 != 7 {
		return
	}
	if i >= p.spriteCount {
		p.sprites[i] = spriteUnit{}
		return
	}

	y := p.secondaryOAM[i*4]
	tile := p.secondaryOAM[i*4+1]
	attr := p.secondaryOAM[i*4+2]
	x := p.secondaryOAM[i*4+3]

	height := p.spriteHeight()
	row := (p.scanline + 1) - int(y)
	flipV := attr&0x80 != 0
	flipH := attr&0x40 != 0
	if flipV {
		row = height - 1 - row
	}

	var base uint16
	var lo, hi uint8
	if height == 16 {
		table := uint16(tile&1) * 0x1000
		tileIndex := uint16(tile &^ 1)
		if row >= 8 {
			tileIndex++
			row -= 8
		}
		base = table + tileIndex*16
	} else {
		base = p.spritePatternAddr() + uint16(tile)*16
	}
	lo = p.cart.ReadCHR(base + uint16(row))
	hi = p.cart.ReadCHR(base + uint16(row) + 8)

	if flipH {
		lo = reverseBits(lo)
		hi = reverseBits(hi)
	}

	p.sprites[i] = spriteUnit{
		patternLo: lo,
		patternHi: hi,
		attr:      attr,
		x:         x,
		isSprite0: i == 0 && p.spriteZeroInSecondary,
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// spritePixel returns the pixel color index, whether it's opaque, its
// priority bit (true = in front of background) and whether it came from
// sprite 0, for the given output column.
func (p *PPU) spritePixel(x int) (uint8, bool, bool, bool) {
	if p.mask&0x10 == 0 {
		return 0, false, false, false
	}
	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		offset := x - int(s.x)
		if offset < 0 || offset > 7 {
			continue
		}
		bit := uint(7 - offset)
		lo := (s.patternLo >> bit) & 1
		hi := (s.patternHi >> bit) & 1
		pixel := hi<<1 | lo
		if pixel == 0 {
			continue
		}
		palette := (s.attr & 0x03) << 2
		priority := s.attr&0x20 == 0
		return palette | pixel, true, priority, s.isSprite0
	}
	return 0, false, false, false
}
