package cartridge

import "encoding/json"

// axrom implements mapper 007 (AxROM): a switchable 32KiB PRG bank and a
// single-screen mirroring select bit. CHR is always 8KiB RAM.
type axrom struct {
	c        *Cartridge
	prgBank  uint8
	mirrorHi bool
}

func newAxROM(c *Cartridge) *axrom { return &axrom{c: c} }

func (m *axrom) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		if addr >= 0x6000 {
			return m.c.prgRAM[addr-0x6000]
		}
		return 0
	}
	off := bankOffset(int(m.prgBank), 0x8000, len(m.c.prgROM))
	return m.c.prgROM[off+int(addr-0x8000)]
}

func (m *axrom) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		m.prgBank = value & 0x07
		m.mirrorHi = value&0x10 != 0
	case addr >= 0x6000:
		m.c.prgRAM[addr-0x6000] = value
	}
}

func (m *axrom) ReadCHR(addr uint16) uint8 {
	storage, _ := m.c.chrStorage()
	if int(addr) < len(storage) {
		return storage[addr]
	}
	return 0
}

func (m *axrom) WriteCHR(addr uint16, value uint8) {
	storage, writable := m.c.chrStorage()
	if writable && int(addr) < len(storage) {
		storage[addr] = value
	}
}

func (m *axrom) OnA12Change(bool) {}
func (m *axrom) OnCPUCycle()      {}
func (m *axrom) IRQLine() bool    { return false }
func (m *axrom) Reset()           { m.prgBank = 0; m.mirrorHi = false }

func (m *axrom) Mirroring() MirrorMode {
	if m.mirrorHi {
		return MirrorSingleScreenB
	}
	return MirrorSingleScreenA
}

type axromState struct {
	PRGBank  uint8 `json:"prg_bank"`
	MirrorHi bool  `json:"mirror_hi"`
}

func (m *axrom) SaveState() []uint8 {
	data, _ := json.Marshal(axromState{PRGBank: m.prgBank, MirrorHi: m.mirrorHi})
	return data
}

func (m *axrom) LoadState(data []uint8) {
	var s axromState
	if json.Unmarshal(data, &s) == nil {
		m.prgBank = s.PRGBank
		m.mirrorHi = s.MirrorHi
	}
}
