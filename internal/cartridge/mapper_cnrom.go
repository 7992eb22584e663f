package cartridge

import "encoding/json"

// cnrom implements mapper 003 (CNROM): fixed 16/32KiB PRG-ROM, a single
// switchable 8KiB CHR-ROM bank.
type cnrom struct {
	c       *Cartridge
	chrBank uint8
}

func newCNROM(c *Cartridge) *cnrom { return &cnrom{c: c} }

func (m *cnrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		off := int(addr-0x8000) % len(m.c.prgROM)
		return m.c.prgROM[off]
	case addr >= 0x6000:
		return m.c.prgRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *cnrom) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		m.chrBank = value
	case addr >= 0x6000:
		m.c.prgRAM[addr-0x6000] = value
	}
}

func (m *cnrom) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	off := bankOffset(int(m.chrBank), 0x2000, len(storage))
	idx := off + int(addr)
	if idx < len(storage) {
		return storage[idx]
	}
	return 0
}

func (m *cnrom) WriteCHR(addr uint16, value uint8) {
	storage, writable := m.c.chrStorage()
	if !writable {
		return
	}
	off := bankOffset(int(m.chrBank), 0x2000, len(storage))
	idx := off + int(addr)
	if idx < len(storage) {
		storage[idx] = value
	}
}

func (m *cnrom) OnA12Change(bool)      {}
func (m *cnrom) OnCPUCycle()           {}
func (m *cnrom) IRQLine() bool         { return false }
func (m *cnrom) Reset()                { m.chrBank = 0 }
func (m *cnrom) Mirroring() MirrorMode { return m.c.header.Mirroring }

type cnromState struct {
	CHRBank uint8 `json:"chr_bank"`
}

func (m *cnrom) SaveState() []uint8 {
	data, _ := json.Marshal(cnromState{CHRBank: m.chrBank})
	return data
}

func (m *cnrom) LoadState(data []uint8) {
	var s cnromState
	if json.Unmarshal(data, &s) == nil {
		m.chrBank = s.CHRBank
	}
}
