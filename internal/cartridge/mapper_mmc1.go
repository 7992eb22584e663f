package cartridge

import "encoding/json"

// mmc1 implements mapper 001 (MMC1 / SxROM): a 5-bit serial shift
// register feeds four internal registers (control, CHR bank 0, CHR bank
// 1, PRG bank) written one bit per $8000-$FFFF access. Two consecutive
// writes on back-to-back cycles are only possible via read-modify-write
// instructions targeting the register; the real chip ignores the second
// of those, which this implementation models by tracking the CPU cycle
// of the last write and dropping writes that land on the very next one.
type mmc1 struct {
	c *Cartridge

	shift      uint8
	shiftCount uint8

	control uint8 // mirroring(2) | prgMode(2) | chrMode(1)
	chrBank [2]uint8
	prgBank uint8

	lastWriteCycle int64
	cpuCycle       int64
}

func newMMC1(c *Cartridge) *mmc1 {
	m := &mmc1{c: c, lastWriteCycle: -2}
	m.control = 0x0C // power-on: PRG mode 3 (fix last bank at $C000)
	return m
}

func (m *mmc1) chrModeIs8K() bool { return m.control&0x10 == 0 }
func (m *mmc1) prgMode() uint8    { return (m.control >> 2) & 0x03 }

func (m *mmc1) Mirroring() MirrorMode {
	switch m.control & 0x03 {
	case 0:
		return MirrorSingleScreenA
	case 1:
		return MirrorSingleScreenB
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (m *mmc1) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		bank := m.prgBankFor(addr)
		off := bankOffset(bank, 0x4000, len(m.c.prgROM))
		return m.c.prgROM[off+int((addr-0x8000)&0x3FFF)]
	case addr >= 0x6000:
		return m.c.prgRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *mmc1) prgBankFor(addr uint16) int {
	switch m.prgMode() {
	case 0, 1:
		// 32KiB mode: ignore bit 0, addr selects low/high half.
		base := int(m.prgBank &^ 1)
		if addr >= 0xC000 {
			return base + 1
		}
		return base
	case 2:
		if addr < 0xC000 {
			return 0
		}
		return int(m.prgBank)
	default: // 3: fix last bank at $C000
		if addr < 0xC000 {
			return int(m.prgBank)
		}
		return len(m.c.prgROM)/0x4000 - 1
	}
}

func (m *mmc1) WritePRG(addr uint16, value uint8) {
	if addr < 0x6000 {
		return
	}
	if addr < 0x8000 {
		m.c.prgRAM[addr-0x6000] = value
		return
	}

	// The real chip ignores the second of two writes landing on
	// consecutive CPU cycles (as happens on the write-back cycle of a
	// read-modify-write instruction targeting $8000-$FFFF).
	consecutive := m.cpuCycle-m.lastWriteCycle <= 1
	m.lastWriteCycle = m.cpuCycle
	if consecutive {
		return
	}

	if value&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		return
	}

	m.shift |= (value & 1) << m.shiftCount
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}

	result := m.shift
	m.shift = 0
	m.shiftCount = 0

	switch {
	case addr < 0xA000:
		m.control = result
	case addr < 0xC000:
		m.chrBank[0] = result
	case addr < 0xE000:
		m.chrBank[1] = result
	default:
		m.prgBank = result & 0x0F
	}
}

func (m *mmc1) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	idx := m.chrIndex(addr, len(storage))
	if idx < len(storage) {
		return storage[idx]
	}
	return 0
}

func (m *mmc1) WriteCHR(addr uint16, value uint8) {
	storage, writable := m.c.chrStorage()
	if !writable {
		return
	}
	idx := m.chrIndex(addr, len(storage))
	if idx < len(storage) {
		storage[idx] = value
	}
}

func (m *mmc1) chrIndex(addr uint16, storageLen int) int {
	if m.chrModeIs8K() {
		off := bankOffset(int(m.chrBank[0]>>1), 0x2000, storageLen)
		return off + int(addr)
	}
	if addr < 0x1000 {
		off := bankOffset(int(m.chrBank[0]), 0x1000, storageLen)
		return off + int(addr)
	}
	off := bankOffset(int(m.chrBank[1]), 0x1000, storageLen)
	return off + int(addr-0x1000)
}

func (m *mmc1) OnA12Change(bool) {}

// OnCPUCycle tracks the cycle counter used to drop a shift-register write
// that lands on the same or the next CPU cycle as the previous one (the
// documented MMC1 consecutive-write
// quirk); Bus calls this once per CPU cycle before dispatching writes.
func (m *mmc1) OnCPUCycle() {
	m.cpuCycle++
}

func (m *mmc1) IRQLine() bool { return false }

func (m *mmc1) Reset() {
	m.shift = 0
	m.shiftCount = 0
	m.control |= 0x0C
}

type mmc1State struct {
	Shift          uint8   `json:"shift"`
	ShiftCount     uint8   `json:"shift_count"`
	Control        uint8   `json:"control"`
	CHRBank        [2]uint8 `json:"chr_bank"`
	PRGBank        uint8   `json:"prg_bank"`
	LastWriteCycle int64   `json:"last_write_cycle"`
	CPUCycle       int64   `json:"cpu_cycle"`
}

func (m *mmc1) SaveState() []uint8 {
	data, _ := json.Marshal(mmc1State{
		Shift:          m.shift,
		ShiftCount:     m.shiftCount,
		Control:        m.control,
		CHRBank:        m.chrBank,
		PRGBank:        m.prgBank,
		LastWriteCycle: m.lastWriteCycle,
		CPUCycle:       m.cpuCycle,
	})
	return data
}

func (m *mmc1) LoadState(data []uint8) {
	var s mmc1State
	if json.Unmarshal(data, &s) != nil {
		return
	}
	m.shift = s.Shift
	m.shiftCount = s.ShiftCount
	m.control = s.Control
	m.chrBank = s.CHRBank
	m.prgBank = s.PRGBank
	m.lastWriteCycle = s.LastWriteCycle
	m.cpuCycle = s.CPUCycle
}
