// Package cartridge implements the cartridge record and the per-mapper
// address translation, bank switching and IRQ logic described in
// spec.md §4.5. The collaborator that decodes an iNES/NES 2.0 file lives
// in internal/rom; this package only ever consumes an already-parsed
// Header plus raw PRG/CHR bytes.
package cartridge

// MirrorMode selects how the PPU's four logical 1KiB nametables are
// mapped onto the 2KiB of physical nametable RAM (or, for FourScreen,
// onto cartridge-supplied extra RAM).
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreenA
	MirrorSingleScreenB
	MirrorFourScreen
)

// Mapper is the capability set spec.md §4.5 requires of every cartridge
// variant. The Bus dispatches $4020-$FFFF CPU accesses and $0000-$1FFF
// PPU (pattern table) accesses through it; $2000-$3EFF PPU accesses are
// routed by the PPU itself using Mirroring().
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)

	// OnA12Change is called by the Bus on every PPU-bus address change
	// that flips address line 12, with the new level. MMC3-class
	// mappers clock their scanline IRQ counter from this.
	OnA12Change(level bool)

	// OnCPUCycle is called once per CPU cycle; mappers with CPU-clocked
	// IRQ counters (FME-7) use it instead of/in addition to A12 edges.
	OnCPUCycle()

	// IRQLine reports whether this mapper currently asserts the shared
	// IRQ line.
	IRQLine() bool

	// Reset restores bank-select/IRQ state to its power-on default. It
	// does not clear PRG-RAM.
	Reset()

	// Mirroring reports the mapper's current nametable mirroring mode.
	// Mappers that never change mirroring return the cartridge header's
	// fixed mode; mappers with mirroring control registers (MMC1, MMC3,
	// AxROM, GxROM...) return their current setting.
	Mirroring() MirrorMode

	// SaveState/LoadState (de)serialize the mapper's bank-select and IRQ
	// registers for internal/snapshot. PRG-RAM/CHR-RAM are snapshotted by
	// the Cartridge directly, not through here.
	SaveState() []uint8
	LoadState(data []uint8)
}

// bankOffset computes the byte offset of the given bank-relative address
// into a ROM region of the given bank size, wrapping the bank index to
// the number of banks present. Shared by every windowed mapper below.
func bankOffset(bank int, bankSize int, romLen int) int {
	if romLen == 0 {
		return 0
	}
	banks := romLen / bankSize
	if banks == 0 {
		banks = 1
	}
	bank %= banks
	if bank < 0 {
		bank += banks
	}
	return bank * bankSize
}
