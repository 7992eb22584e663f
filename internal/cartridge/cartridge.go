package cartridge

import (
	"fmt"

	"nescore/internal/neserr"
)

// Header is the immutable cartridge header the collaborator (internal/rom)
// hands to New. The core never parses ROM bytes itself — see spec.md §6.
type Header struct {
	Mapper     uint16 // 0-4095, NES 2.0 extends beyond the iNES 8-bit id
	Submapper  uint8
	Mirroring  MirrorMode
	Battery    bool
	FourScreen bool

	PRGROMSize int // bytes
	CHRROMSize int // bytes; 0 means CHR-RAM
	PRGRAMSize int // bytes of battery or work PRG-RAM, 0 if mapper default
	CHRRAMSize int // bytes; only meaningful when CHRROMSize == 0

	NES20 bool
}

// Cartridge is the immutable-header, mutable-RAM entity of spec.md §3: a
// header plus PRG/CHR storage plus a mapper bound to it. It is created
// once at load and never mutated except through its RAM regions.
type Cartridge struct {
	header Header

	prgROM []uint8
	chrROM []uint8 // nil/len==0 when CHR-RAM is in use
	chrRAM []uint8
	prgRAM []uint8 // battery or work RAM at $6000-$7FFF

	mapper Mapper
}

// New builds a Cartridge from an already-parsed header and ROM bytes,
// and attaches the mapper named by header.Mapper. It is the only
// fallible entry point in this package; every other operation on a
// constructed Cartridge is total.
func New(header Header, prgROM, chrROM []uint8) (*Cartridge, error) {
	c := &Cartridge{header: header}
	c.prgROM = append([]uint8(nil), prgROM...)
	if len(chrROM) > 0 {
		c.chrROM = append([]uint8(nil), chrROM...)
	} else {
		ramSize := header.CHRRAMSize
		if ramSize == 0 {
			ramSize = 8192
		}
		c.chrRAM = make([]uint8, ramSize)
	}
	ramSize := header.PRGRAMSize
	if ramSize == 0 {
		ramSize = 8192
	}
	c.prgRAM = make([]uint8, ramSize)

	mapper, err := newMapper(header.Mapper, c)
	if err != nil {
		return nil, err
	}
	c.mapper = mapper
	return c, nil
}

// Header returns the cartridge's immutable header.
func (c *Cartridge) Header() Header { return c.header }

// Mapper returns the mapper bound to this cartridge.
func (c *Cartridge) Mapper() Mapper { return c.mapper }

// chrStorage returns whichever of chrROM/chrRAM backs PPU pattern-table
// space, and whether it is writable.
func (c *Cartridge) chrStorage() ([]uint8, bool) {
	if len(c.chrROM) > 0 {
		return c.chrROM, false
	}
	return c.chrRAM, true
}

// BatterySRAM exposes the mutable PRG-RAM region for a collaborator to
// persist to disk when header.Battery is set. The returned slice aliases
// the cartridge's live storage; it is not a copy.
func (c *Cartridge) BatterySRAM() []uint8 { return c.prgRAM }

// LoadBatterySRAM restores a previously-persisted PRG-RAM image. The
// collaborator is responsible for validating the image (size, checksum)
// before calling this; a short image is zero-padded, a long one
// truncated.
func (c *Cartridge) LoadBatterySRAM(data []uint8) {
	n := copy(c.prgRAM, data)
	for i := n; i < len(c.prgRAM); i++ {
		c.prgRAM[i] = 0
	}
}

// CHRRAM exposes the mutable CHR-RAM region for internal/snapshot; it is
// nil when the cartridge uses CHR-ROM. The returned slice aliases the
// cartridge's live storage, not a copy.
func (c *Cartridge) CHRRAM() []uint8 { return c.chrRAM }

// LoadCHRRAM restores a previously-captured CHR-RAM image, sized the
// same way LoadBatterySRAM is.
func (c *Cartridge) LoadCHRRAM(data []uint8) {
	n := copy(c.chrRAM, data)
	for i := n; i < len(c.chrRAM); i++ {
		c.chrRAM[i] = 0
	}
}

func newMapper(id uint16, c *Cartridge) (Mapper, error) {
	switch id {
	case 0:
		return newNROM(c), nil
	case 1:
		return newMMC1(c), nil
	case 2:
		return newUxROM(c), nil
	case 3:
		return newCNROM(c), nil
	case 4:
		return newMMC3(c), nil
	case 7:
		return newAxROM(c), nil
	case 9:
		return newMMC2(c), nil
	case 10:
		return newMMC4(c), nil
	case 11:
		return newColorDreams(c), nil
	case 66:
		return newGxROM(c), nil
	case 69:
		return newFME7(c), nil
	default:
		return nil, neserr.New(neserr.UnsupportedMapper, fmt.Sprintf("mapper %d not implemented", id))
	}
}
