package cartridge

import "encoding/json"

// uxrom implements mapper 002 (UxROM): a switchable 16KiB PRG bank at
// $8000 and the last 16KiB bank fixed at $C000. CHR is always 8KiB RAM.
// Bus conflicts (the write ANDing with the value already on the ROM bus)
// are not modeled; most UxROM boards used by commercial titles avoid
// them by writing $FF.
type uxrom struct {
	c       *Cartridge
	prgBank uint8
}

func newUxROM(c *Cartridge) *uxrom { return &uxrom{c: c} }

func (m *uxrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0xC000:
		off := bankOffset(len(m.c.prgROM)/0x4000-1, 0x4000, len(m.c.prgROM))
		return m.c.prgROM[off+int(addr-0xC000)]
	case addr >= 0x8000:
		off := bankOffset(int(m.prgBank), 0x4000, len(m.c.prgROM))
		return m.c.prgROM[off+int(addr-0x8000)]
	case addr >= 0x6000:
		return m.c.prgRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *uxrom) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		m.prgBank = value
	case addr >= 0x6000:
		m.c.prgRAM[addr-0x6000] = value
	}
}

func (m *uxrom) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	if int(addr) < len(storage) {
		return storage[addr]
	}
	return 0
}

func (m *uxrom) WriteCHR(addr uint16, value uint8) {
	storage, writable := m.c.chrStorage()
	if writable && int(addr) < len(storage) {
		storage[addr] = value
	}
}

func (m *uxrom) OnA12Change(bool)      {}
func (m *uxrom) OnCPUCycle()           {}
func (m *uxrom) IRQLine() bool         { return false }
func (m *uxrom) Reset()                { m.prgBank = 0 }
func (m *uxrom) Mirroring() MirrorMode { return m.c.header.Mirroring }

type uxromState struct {
	PRGBank uint8 `json:"prg_bank"`
}

func (m *uxrom) SaveState() []uint8 {
	data, _ := json.Marshal(uxromState{PRGBank: m.prgBank})
	return data
}

func (m *uxrom) LoadState(data []uint8) {
	var s uxromState
	if json.Unmarshal(data, &s) == nil {
		m.prgBank = s.PRGBank
	}
}
