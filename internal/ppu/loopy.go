package ppu

// loopy packs the PPU's internal v/t scroll registers: a 15-bit value
// laid out as fine-Y(3) | nametable(2) | coarse-Y(5) | coarse-X(5),
// exactly mirroring the real PPU's internal addressing counter.
type loopy struct {
	data uint16
}

func (l *loopy) coarseX() uint16    { return l.data & 0x001F }
func (l *loopy) coarseY() uint16    { return (l.data & 0x03E0) >> 5 }
func (l *loopy) nametable() uint16  { return (l.data & 0x0C00) >> 10 }
func (l *loopy) fineY() uint16      { return (l.data & 0x7000) >> 12 }
func (l *loopy) nametableAddr() uint16 {
	return 0x2000 | (l.data & 0x0FFF)
}
func (l *loopy) attributeAddr() uint16 {
	return 0x23C0 | (l.data & 0x0C00) | ((l.coarseY() >> 2) << 3) | (l.coarseX() >> 2)
}

func (l *loopy) incrementCoarseX() {
	if l.coarseX() == 31 {
		l.data &^= 0x001F
		l.data ^= 0x0400 // flip horizontal nametable bit
		return
	}
	l.data++
}

func (l *loopy) incrementFineY() {
	if l.fineY() < 7 {
		l.data += 0x1000
		return
	}
	l.data &^= 0x7000
	y := l.coarseY()
	switch y {
	case 29:
		l.data &^= 0x03E0
		l.data ^= 0x0800 // flip vertical nametable bit
	case 31:
		l.data &^= 0x03E0
	default:
		l.data = (l.data &^ 0x03E0) | ((y + 1) << 5)
	}
}

func (l *loopy) copyHorizontal(t loopy) {
	l.data = (l.data &^ 0x041F) | (t.data & 0x041F)
}

func (l *loopy) copyVertical(t loopy) {
	l.data = (l.data &^ 0x7BE0) | (t.data & 0x7BE0)
}
