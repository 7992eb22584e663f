package cartridge

import "encoding/json"

// mmc3 implements mapper 004 (MMC3/TxROM): two 8KiB switchable PRG
// windows plus one fixed to the second-to-last bank (or vice versa), six
// CHR bank registers forming two 2KiB + four 1KiB windows (or the mirror
// image when the CHR-A12-inversion bit is set), PRG-RAM enable/protect,
// and a scanline IRQ counter clocked by PPU address line A12 rising
// edges, filtered so that a transition must be preceded by A12 staying
// low for at least the documented 2 CPU cycles. The filtering happens
// here, in OnA12Change: the PPU reports every A12 level change and this
// mapper drops the rises that follow too short a low period.
type mmc3 struct {
	c *Cartridge

	bankSelect uint8 // which of R0-R7 the next bank-data write targets
	prgMode    uint8 // bit 6 of bank select
	chrInvert  uint8 // bit 7 of bank select
	regs       [8]uint8

	mirroring uint8 // 0=vertical,1=horizontal

	ramEnabled      bool
	ramWriteProtect bool

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool

	a12Low       int // consecutive low CPU-cycle count since a12 dropped
	a12Level     bool
	filterCycles int
}

func newMMC3(c *Cartridge) *mmc3 {
	return &mmc3{c: c, ramEnabled: true, filterCycles: 2}
}

func (m *mmc3) prgBankCount() int { return len(m.c.prgROM) / 0x2000 }

func (m *mmc3) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		bank := m.prgBankFor(addr)
		off := bankOffset(bank, 0x2000, len(m.c.prgROM))
		return m.c.prgROM[off+int(addr&0x1FFF)]
	case addr >= 0x6000:
		if !m.ramEnabled {
			return 0
		}
		return m.c.prgRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *mmc3) prgBankFor(addr uint16) int {
	last := m.prgBankCount() - 1
	secondLast := last - 1
	switch {
	case addr < 0xA000:
		if m.prgMode == 0 {
			return int(m.regs[6])
		}
		return secondLast
	case addr < 0xC000:
		return int(m.regs[7])
	case addr < 0xE000:
		if m.prgMode == 0 {
			return secondLast
		}
		return int(m.regs[6])
	default:
		return last
	}
}

func (m *mmc3) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramEnabled && !m.ramWriteProtect {
			m.c.prgRAM[addr-0x6000] = value
		}
	case addr >= 0x8000 && addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = value & 0x07
			m.prgMode = (value >> 6) & 1
			m.chrInvert = (value >> 7) & 1
		} else {
			m.regs[m.bankSelect] = value
		}
	case addr >= 0xA000 && addr < 0xC000:
		if addr&1 == 0 {
			m.mirroring = value & 1
		} else {
			m.ramWriteProtect = value&0x40 != 0
			m.ramEnabled = value&0x80 != 0
		}
	case addr >= 0xC000 && addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = value
		} else {
			m.irqReload = true
		}
	case addr >= 0xE000:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	idx := m.chrIndex(addr, len(storage))
	if idx < len(storage) {
		return storage[idx]
	}
	return 0
}

func (m *mmc3) WriteCHR(addr uint16, value uint8) {
	storage, writable := m.c.chrStorage()
	if !writable {
		return
	}
	idx := m.chrIndex(addr, len(storage))
	if idx < len(storage) {
		storage[idx] = value
	}
}

func (m *mmc3) chrIndex(addr uint16, storageLen int) int {
	// Eight 1KiB windows 0..7: windows 0-3 come from the two 2KiB banks
	// (R0, R1) and windows 4-7 from the four 1KiB banks (R2-R5). chrInvert
	// swaps the two 4KiB halves by flipping window bit 2.
	window := addr / 0x0400
	if m.chrInvert == 1 {
		window ^= 4
	}
	var bank int
	switch window {
	case 0:
		bank = int(m.regs[0] &^ 1)
	case 1:
		bank = int(m.regs[0] | 1)
	case 2:
		bank = int(m.regs[1] &^ 1)
	case 3:
		bank = int(m.regs[1] | 1)
	case 4:
		bank = int(m.regs[2])
	case 5:
		bank = int(m.regs[3])
	case 6:
		bank = int(m.regs[4])
	default:
		bank = int(m.regs[5])
	}
	off := bankOffset(bank, 0x0400, storageLen)
	return off + int(addr&0x03FF)
}

func (m *mmc3) Mirroring() MirrorMode {
	if m.c.header.FourScreen {
		return MirrorFourScreen
	}
	if m.mirroring == 0 {
		return MirrorVertical
	}
	return MirrorHorizontal
}

// OnA12Change clocks the scanline counter on a rising edge that was
// preceded by A12 low for the documented filter window (real hardware:
// roughly one full scanline of low time for background fetches, but at
// least a handful of CPU cycles; this core uses the commonly-cited
// "low for >= filterCycles CPU cycles" approximation).
func (m *mmc3) OnA12Change(level bool) {
	if level == m.a12Level {
		return
	}
	m.a12Level = level
	if !level {
		m.a12Low = 0
		return
	}
	if m.a12Low < m.filterCycles {
		return
	}
	m.clockIRQCounter()
}

func (m *mmc3) OnCPUCycle() {
	if !m.a12Level {
		m.a12Low++
	}
}

func (m *mmc3) clockIRQCounter() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

func (m *mmc3) IRQLine() bool { return m.irqPending }

func (m *mmc3) Reset() {
	m.bankSelect, m.prgMode, m.chrInvert = 0, 0, 0
	m.regs = [8]uint8{}
	m.irqLatch, m.irqCounter = 0, 0
	m.irqReload, m.irqEnabled, m.irqPending = false, false, false
	m.a12Low, m.a12Level = 0, false
}

type mmc3State struct {
	BankSelect      uint8    `json:"bank_select"`
	PRGMode         uint8    `json:"prg_mode"`
	CHRInvert       uint8    `json:"chr_invert"`
	Regs            [8]uint8 `json:"regs"`
	Mirroring       uint8    `json:"mirroring"`
	RAMEnabled      bool     `json:"ram_enabled"`
	RAMWriteProtect bool     `json:"ram_write_protect"`
	IRQLatch        uint8    `json:"irq_latch"`
	IRQCounter      uint8    `json:"irq_counter"`
	IRQReload       bool     `json:"irq_reload"`
	IRQEnabled      bool     `json:"irq_enabled"`
	IRQPending      bool     `json:"irq_pending"`
	A12Low          int      `json:"a12_low"`
	A12Level        bool     `json:"a12_level"`
}

func (m *mmc3) SaveState() []uint8 {
	data, _ := json.Marshal(mmc3State{
		BankSelect:      m.bankSelect,
		PRGMode:         m.prgMode,
		CHRInvert:       m.chrInvert,
		Regs:            m.regs,
		Mirroring:       m.mirroring,
		RAMEnabled:      m.ramEnabled,
		RAMWriteProtect: m.ramWriteProtect,
		IRQLatch:        m.irqLatch,
		IRQCounter:      m.irqCounter,
		IRQReload:       m.irqReload,
		IRQEnabled:      m.irqEnabled,
		IRQPending:      m.irqPending,
		A12Low:          m.a12Low,
		A12Level:        m.a12Level,
	})
	return data
}

func (m *mmc3) LoadState(data []uint8) {
	var s mmc3State
	if json.Unmarshal(data, &s) != nil {
		return
	}
	m.bankSelect = s.BankSelect
	m.prgMode = s.PRGMode
	m.chrInvert = s.CHRInvert
	m.regs = s.Regs
	m.mirroring = s.Mirroring
	m.ramEnabled = s.RAMEnabled
	m.ramWriteProtect = s.RAMWriteProtect
	m.irqLatch = s.IRQLatch
	m.irqCounter = s.IRQCounter
	m.irqReload = s.IRQReload
	m.irqEnabled = s.IRQEnabled
	m.irqPending = s.IRQPending
	m.a12Low = s.A12Low
	m.a12Level = s.A12Level
}
