package cartridge

import "encoding/json"

// gxrom implements mapper 066 (GxROM): one register at $8000-$FFFF packs
// a 32KiB PRG bank select in bits 4-5 and an 8KiB CHR bank select in bits
// 0-1.
type gxrom struct {
	c       *Cartridge
	prgBank uint8
	chrBank uint8
}

func newGxROM(c *Cartridge) *gxrom { return &gxrom{c: c} }

func (m *gxrom) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	off := bankOffset(int(m.prgBank), 0x8000, len(m.c.prgROM))
	return m.c.prgROM[off+int(addr-0x8000)]
}

func (m *gxrom) WritePRG(addr uint16, value uint8) {
	if addr >= 0x8000 {
		m.chrBank = value & 0x03
		m.prgBank = (value >> 4) & 0x03
	}
}

func (m *gxrom) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	off := bankOffset(int(m.chrBank), 0x2000, len(storage))
	idx := off + int(addr)
	if idx < len(storage) {
		return storage[idx]
	}
	return 0
}

func (m *gxrom) WriteCHR(addr uint16, value uint8) {
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

func (m *gxrom) OnA12Change(bool)      {}
func (m *gxrom) OnCPUCycle()           {}
func (m *gxrom) IRQLine() bool         { return false }
func (m *gxrom) Reset()                { m.prgBank, m.chrBank = 0, 0 }
func (m *gxrom) Mirroring() MirrorMode { return m.c.header.Mirroring }

type gxromState struct {
	PRGBank uint8 `json:"prg_bank"`
	CHRBank uint8 `json:"chr_bank"`
}

func (m *gxrom) SaveState() []uint8 {
	data, _ := json.Marshal(gxromState{PRGBank: m.prgBank, CHRBank: m.chrBank})
	return data
}

func (m *gxrom) LoadState(data []uint8) {
	var s gxromState
	if json.Unmarshal(data, &s) == nil {
		m.prgBank = s.PRGBank
		m.chrBank = s.CHRBank
	}
}
