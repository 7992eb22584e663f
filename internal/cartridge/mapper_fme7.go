package cartridge

import "encoding/json"

// fme7 implements mapper 069 (Sunsoft FME-7): an address/data register
// pair at $8000/$A000 selects one of sixteen internal registers, giving
// eight 1KiB CHR banks, three independently switchable 8KiB PRG windows
// plus one fixed to the last bank, a mirroring select, PRG-RAM enable at
// $6000, and a 16-bit down-counter IRQ clocked once per CPU cycle. The
// 5B-compatible three-channel expansion audio this board also carries is
// out of scope for this core (see DESIGN.md) — only banking and the IRQ
// counter are implemented.
type fme7 struct {
	c *Cartridge

	addr uint8 // last value written to $8000-$9FFF (register select)

	chrBank [8]uint8
	prgBank [4]uint8 // index 3 ($E000) is never written but always reads as last bank
	ramSelect8k bool
	ramEnabled  bool

	mirroring uint8 // 0=vertical 1=horizontal 2=singleA 3=singleB

	irqEnabled bool
	irqCounterEnabled bool
	irqCounter uint16
	irqPending bool
}

func newFME7(c *Cartridge) *fme7 {
	f := &fme7{c: c}
	f.prgBank[3] = uint8(len(c.prgROM)/0x2000 - 1)
	return f
}

func (m *fme7) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramSelect8k && m.ramEnabled {
			return m.c.prgRAM[addr-0x6000]
		}
		// Bank 0 falls back to ROM when RAM isn't selected for this
		// window, matching the documented FME-7 $6000 behavior.
		off := bankOffset(int(m.prgBank[0]), 0x2000, len(m.c.prgROM))
		return m.c.prgROM[off+int(addr-0x6000)]
	case addr >= 0x8000:
		window := int((addr - 0x8000) / 0x2000)
		off := bankOffset(int(m.prgBank[window]), 0x2000, len(m.c.prgROM))
		return m.c.prgROM[off+int(addr&0x1FFF)]
	default:
		return 0
	}
}

func (m *fme7) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramSelect8k && m.ramEnabled {
			m.c.prgRAM[addr-0x6000] = value
		}
	case addr >= 0x8000 && addr < 0xA000:
		m.addr = value & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		m.writeRegister(value)
	}
}

func (m *fme7) writeRegister(value uint8) {
	switch {
	case m.addr <= 0x07:
		m.chrBank[m.addr] = value
	case m.addr <= 0x0A:
		m.prgBank[m.addr-0x08] = value & 0x3F
	case m.addr == 0x0B:
		m.mirroring = value & 0x03
	case m.addr == 0x0C:
		m.ramSelect8k = value&0x40 != 0
		m.ramEnabled = value&0x80 != 0
	case m.addr == 0x0D:
		m.irqEnabled = value&0x01 != 0
		m.irqCounterEnabled = value&0x80 != 0
		m.irqPending = false
	case m.addr == 0x0E:
		m.irqCounter = (m.irqCounter & 0xFF00) | uint16(value)
	case m.addr == 0x0F:
		m.irqCounter = (m.irqCounter & 0x00FF) | uint16(value)<<8
	}
}

func (m *fme7) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	bank := int(m.chrBank[addr/0x0400])
	off := bankOffset(bank, 0x0400, len(storage))
	idx := off + int(addr&0x03FF)
	if idx < len(storage) {
		return storage[idx]
	}
	return 0
}

func (m *fme7) WriteCHR(addr uint16, value uint8) {
	storage, writable := m.c.chrStorage()
	if !writable {
		return
	}
	bank := int(m.chrBank[addr/0x0400])
	off := bankOffset(bank, 0x0400, len(storage))
	idx := off + int(addr&0x03FF)
	if idx < len(storage) {
		storage[idx] = value
	}
}

func (m *fme7) Mirroring() MirrorMode {
	switch m.mirroring {
	case 0:
		return MirrorVertical
	case 1:
		return MirrorHorizontal
	case 2:
		return MirrorSingleScreenA
	default:
		return MirrorSingleScreenB
	}
}

func (m *fme7) OnA12Change(bool) {}

// OnCPUCycle clocks the 16-bit IRQ counter once per CPU cycle when
// enabled; it asserts IRQ on underflow from 0, matching the documented
// FME-7 behavior (unlike MMC3, this counter is CPU-clocked, not tied to
// PPU A12).
func (m *fme7) OnCPUCycle() {
	if !m.irqCounterEnabled {
		return
	}
	if m.irqCounter == 0 {
		if m.irqEnabled {
			m.irqPending = true
		}
		m.irqCounter = 0xFFFF
		return
	}
	m.irqCounter--
}

func (m *fme7) IRQLine() bool { return m.irqPending }

func (m *fme7) Reset() {
	m.addr = 0
	m.chrBank = [8]uint8{}
	m.prgBank = [4]uint8{0, 0, 0, uint8(len(m.c.prgROM)/0x2000 - 1)}
	m.ramSelect8k, m.ramEnabled = false, false
	m.mirroring = 0
	m.irqEnabled, m.irqCounterEnabled, m.irqPending = false, false, false
	m.irqCounter = 0
}

type fme7State struct {
	Addr              uint8    `json:"addr"`
	CHRBank           [8]uint8 `json:"chr_bank"`
	PRGBank           [4]uint8 `json:"prg_bank"`
	RAMSelect8K       bool     `json:"ram_select_8k"`
	RAMEnabled        bool     `json:"ram_enabled"`
	Mirroring         uint8    `json:"mirroring"`
	IRQEnabled        bool     `json:"irq_enabled"`
	IRQCounterEnabled bool     `json:"irq_counter_enabled"`
	IRQCounter        uint16   `json:"irq_counter"`
	IRQPending        bool     `json:"irq_pending"`
}

func (m *fme7) SaveState() []uint8 {
	data, _ := json.Marshal(fme7State{
		Addr:              m.addr,
		CHRBank:           m.chrBank,
		PRGBank:           m.prgBank,
		RAMSelect8K:       m.ramSelect8k,
		RAMEnabled:        m.ramEnabled,
		Mirroring:         m.mirroring,
		IRQEnabled:        m.irqEnabled,
		IRQCounterEnabled: m.irqCounterEnabled,
		IRQCounter:        m.irqCounter,
		IRQPending:        m.irqPending,
	})
	return data
}

func (m *fme7) LoadState(data []uint8) {
	var s fme7State
	if json.Unmarshal(data, &s) != nil {
		return
	}
	m.addr = s.Addr
	m.chrBank = s.CHRBank
	m.prgBank = s.PRGBank
	m.ramSelect8k = s.RAMSelect8K
	m.ramEnabled = s.RAMEnabled
	m.mirroring = s.Mirroring
	m.irqEnabled = s.IRQEnabled
	m.irqCounterEnabled = s.IRQCounterEnabled
	m.irqCounter = s.IRQCounter
	m.irqPending = s.IRQPending
}
