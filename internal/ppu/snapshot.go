package ppu

// SpriteState mirrors spriteUnit with exported fields so it survives
// JSON encoding; spriteUnit itself stays unexported since nothing
// outside the package touches it during normal rendering.
type SpriteState struct {
	PatternLo, PatternHi uint8
	Attr                 uint8
	X                    uint8
	IsSprite0            bool
}

// State is the PPU's full internal state, serialized by internal/snapshot.
// V/T are stored as the raw loopy bit pattern rather than the unexported
// loopy type so they round-trip through JSON. frame/frameReady are
// intentionally excluded: a restored PPU resumes mid-scanline and
// produces its next complete frame the normal way.
type State struct {
	Ctrl, Mask, Status uint8
	OAMAddr            uint8

	V, T  uint16
	FineX uint8

	WriteLatch bool
	ReadBuffer uint8

	OAM                   [256]uint8
	SecondaryOAM          [32]uint8
	SpriteCount           int
	Sprites               [8]SpriteState
	SpriteZeroInSecondary bool

	Nametables [0x800]uint8
	Palette    [32]uint8

	BGShiftLo, BGShiftHi         uint16
	BGAttrShiftLo, BGAttrShiftHi uint16
	NTByte, ATByte               uint8
	PTLo, PTHi                   uint8

	Scanline int
	Dot      int
	FrameOdd bool

	A12Level          bool
	NMILine           bool
	SuppressVBlankNMI bool

	FrameNumber uint64
}

// Snapshot captures the PPU's full state.
func (p *PPU) Snapshot() State {
	var sprites [8]SpriteState
	for i, sp := range p.sprites {
		sprites[i] = SpriteState{
			PatternLo: sp.patternLo, PatternHi: sp.patternHi,
			Attr: sp.attr, X: sp.x, IsSprite0: sp.isSprite0,
		}
	}

	return State{
		Ctrl: p.ctrl, Mask: p.mask, Status: p.status,
		OAMAddr:    p.oamAddr,
		V:          p.v.data,
		T:          p.t.data,
		FineX:      p.fineX,
		WriteLatch: p.writeLatch,
		ReadBuffer: p.readBuffer,

		OAM:                   p.oam,
		SecondaryOAM:          p.secondaryOAM,
		SpriteCount:           p.spriteCount,
		Sprites:               sprites,
		SpriteZeroInSecondary: p.spriteZeroInSecondary,

		Nametables: p.nametables,
		Palette:    p.palette,

		BGShiftLo: p.bgShiftLo, BGShiftHi: p.bgShiftHi,
		BGAttrShiftLo: p.bgAttrShiftLo, BGAttrShiftHi: p.bgAttrShiftHi,
		NTByte: p.ntByte, ATByte: p.atByte,
		PTLo: p.ptLo, PTHi: p.ptHi,

		Scanline: p.scanline, Dot: p.dot, FrameOdd: p.frameOdd,

		A12Level:          p.a12Level,
		NMILine:           p.nmiLine,
		SuppressVBlankNMI: p.suppressVBlankNMI,

		FrameNumber: p.frameNumber,
	}
}

// Restore replaces the PPU's state with a previously captured Snapshot.
// The current (possibly in-progress) frame buffer is discarded.
func (p *PPU) Restore(s State) {
	p.ctrl, p.mask, p.status = s.Ctrl, s.Mask, s.Status
	p.oamAddr = s.OAMAddr
	p.v.data, p.t.data = s.V, s.T
	p.fineX = s.FineX
	p.writeLatch = s.WriteLatch
	p.readBuffer = s.ReadBuffer

	p.oam = s.OAM
	p.secondaryOAM = s.SecondaryOAM
	p.spriteCount = s.SpriteCount
	for i, sp := range s.Sprites {
		p.sprites[i] = spriteUnit{
			patternLo: sp.PatternLo, patternHi: sp.PatternHi,
			attr: sp.Attr, x: sp.X, isSprite0: sp.IsSprite0,
		}
	}
	p.spriteZeroInSecondary = s.SpriteZeroInSecondary

	p.nametables = s.Nametables
	p.palette = s.Palette

	p.bgShiftLo, p.bgShiftHi = s.BGShiftLo, s.BGShiftHi
	p.bgAttrShiftLo, p.bgAttrShiftHi = s.BGAttrShiftLo, s.BGAttrShiftHi
	p.ntByte, p.atByte = s.NTByte, s.ATByte
	p.ptLo, p.ptHi = s.PTLo, s.PTHi

	p.scanline, p.dot, p.frameOdd = s.Scanline, s.Dot, s.FrameOdd

	p.a12Level = s.A12Level
	p.nmiLine = s.NMILine
	p.suppressVBlankNMI = s.SuppressVBlankNMI

	p.frameNumber = s.FrameNumber
	p.frameReady = false
}
