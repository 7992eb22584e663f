package cartridge

import "encoding/json"

// mmc2mmc4 implements mappers 009 (MMC2, Punch-Out!!) and 010 (MMC4,
// Fire Emblem / Famicom Wars): CHR bank selection is driven by a pair of
// FD/FE latches that flip whenever the PPU fetches a tile at one of four
// fixed trigger addresses in pattern-table space, rather than by a CPU
// register write. MMC2 fixes PRG to one switchable 8KiB bank plus three
// fixed 8KiB banks; MMC4 instead switches a 16KiB bank plus fixes the
// last 16KiB, matching MMC1's PRG shape.
type mmc2mmc4 struct {
	c    *Cartridge
	isM4 bool // true: MMC4's 16KiB PRG shape; false: MMC2's 8KiB shape

	prgBank uint8

	chrBank [2][2]uint8 // [left/right half][FD=0,FE=1 latch value]
	latch   [2]uint8    // current latch state per half: 0=FD,1=FE

	mirroring uint8 // 0=vertical,1=horizontal
}

func newMMC2(c *Cartridge) *mmc2mmc4 { return &mmc2mmc4{c: c, isM4: false, latch: [2]uint8{1, 1}} }
func newMMC4(c *Cartridge) *mmc2mmc4 { return &mmc2mmc4{c: c, isM4: true, latch: [2]uint8{1, 1}} }

func (m *mmc2mmc4) ReadPRG(addr uint16) uint8 {
	prgBanks8k := len(m.c.prgROM) / 0x2000
	switch {
	case addr >= 0x8000:
		if m.isM4 {
			// MMC4: 16KiB switchable at $8000, 16KiB fixed last at $C000.
			if addr < 0xC000 {
				off := bankOffset(int(m.prgBank), 0x4000, len(m.c.prgROM))
				return m.c.prgROM[off+int(addr-0x8000)]
			}
			off := bankOffset(len(m.c.prgROM)/0x4000-1, 0x4000, len(m.c.prgROM))
			return m.c.prgROM[off+int(addr-0xC000)]
		}
		// MMC2: 8KiB switchable at $8000, three 8KiB banks fixed at the
		// top of PRG-ROM for $A000-$FFFF.
		if addr < 0xA000 {
			off := bankOffset(int(m.prgBank), 0x2000, len(m.c.prgROM))
			return m.c.prgROM[off+int(addr-0x8000)]
		}
		fixedBank := prgBanks8k - 3 + int((addr-0xA000)/0x2000)
		off := bankOffset(fixedBank, 0x2000, len(m.c.prgROM))
		return m.c.prgROM[off+int((addr-0xA000)%0x2000)]
	case addr >= 0x6000:
		return m.c.prgRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *mmc2mmc4) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.c.prgRAM[addr-0x6000] = value
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = value & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.chrBank[0][0] = value & 0x1F // left half, FD
	case addr >= 0xC000 && addr < 0xD000:
		m.chrBank[0][1] = value & 0x1F // left half, FE
	case addr >= 0xD000 && addr < 0xE000:
		m.chrBank[1][0] = value & 0x1F // right half, FD
	case addr >= 0xE000 && addr < 0xF000:
		m.chrBank[1][1] = value & 0x1F // right half, FE
	case addr >= 0xF000:
		m.mirroring = value & 1
	}
}

func (m *mmc2mmc4) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	idx := m.chrIndex(addr, len(storage))
	value := uint8(0)
	if idx < len(storage) {
		value = storage[idx]
	}
	m.updateLatch(addr)
	return value
}

func (m *mmc2mmc4) WriteCHR(addr uint16, value uint8) {
	storage, writable := m.c.chrStorage()
	if writable {
		idx := m.chrIndex(addr, len(storage))
		if idx < len(storage) {
			storage[idx] = value
		}
	}
	m.updateLatch(addr)
}

// updateLatch flips the FD/FE state for whichever 4KiB half addr falls
// in, if addr falls in one of the four documented trigger tiles ($0FD8,
// $0FE8, $1FD8, $1FE8).
func (m *mmc2mmc4) updateLatch(addr uint16) {
	tile := addr & 0x0FF8
	half := 0
	if addr >= 0x1000 {
		half = 1
	}
	switch tile {
	case 0x0FD8:
		m.latch[half] = 0
	case 0x0FE8:
		m.latch[half] = 1
	}
}

func (m *mmc2mmc4) chrIndex(addr uint16, storageLen int) int {
	half := 0
	offsetInHalf := addr
	if addr >= 0x1000 {
		half = 1
		offsetInHalf = addr - 0x1000
	}
	bank := m.chrBank[half][m.latch[half]]
	off := bankOffset(int(bank), 0x1000, storageLen)
	return off + int(offsetInHalf)
}

func (m *mmc2mmc4) Mirroring() MirrorMode {
	if m.mirroring == 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}

func (m *mmc2mmc4) OnA12Change(bool) {}
func (m *mmc2mmc4) OnCPUCycle()      {}
func (m *mmc2mmc4) IRQLine() bool    { return false }

func (m *mmc2mmc4) Reset() {
	m.prgBank = 0
	m.chrBank = [2][2]uint8{}
	m.latch = [2]uint8{1, 1}
}

type mmc2mmc4State struct {
	PRGBank   uint8       `json:"prg_bank"`
	CHRBank   [2][2]uint8 `json:"chr_bank"`
	Latch     [2]uint8    `json:"latch"`
	Mirroring uint8       `json:"mirroring"`
}

func (m *mmc2mmc4) SaveState() []uint8 {
	data, _ := json.Marshal(mmc2mmc4State{
		PRGBank:   m.prgBank,
		CHRBank:   m.chrBank,
		Latch:     m.latch,
		Mirroring: m.mirroring,
	})
	return data
}

func (m *mmc2mmc4) LoadState(data []uint8) {
	var s mmc2mmc4State
	if json.Unmarshal(data, &s) != nil {
		return
	}
	m.prgBank = s.PRGBank
	m.chrBank = s.CHRBank
	m.latch = s.Latch
	m.mirroring = s.Mirroring
}
