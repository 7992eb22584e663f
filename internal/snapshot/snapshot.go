// Package snapshot composes the bit-exact state of every subsystem
// (CPU, PPU, APU, Bus arbitration, controllers, RAM, cartridge RAM and
// mapper registers) into one value that can be captured and restored
// without replaying a single cycle. internal/savestate and
// internal/rewind are both built on top of this package; neither
// touches subsystem internals directly.
package snapshot

import (
	"encoding/json"

	"nescore/internal/apu"
	"nescore/internal/bus"
	"nescore/internal/config"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/neserr"
	"nescore/internal/ppu"
	"nescore/internal/scheduler"
)

// formatVersion guards against loading a state captured by an
// incompatible build; it is bumped whenever a subsystem's State shape
// changes in a way that would silently misinterpret old bytes.
const formatVersion = 1

// State is the full, self-contained snapshot of a running Scheduler.
type State struct {
	Version  int           `json:"version"`
	Region   config.Region `json:"region"`
	MapperID uint16        `json:"mapper_id"`

	CPU  cpu.State   `json:"cpu"`
	PPU  ppu.State   `json:"ppu"`
	APU  apu.State   `json:"apu"`
	Bus  bus.State   `json:"bus"`
	Pads input.State `json:"pads"`

	RAM    []uint8 `json:"ram"`
	PRGRAM []uint8 `json:"prg_ram"`
	CHRRAM []uint8 `json:"chr_ram,omitempty"`
	Mapper []uint8 `json:"mapper"`

	MasterCycles uint64 `json:"master_cycles"`
}

// Capture freezes every piece of s's state into a State value. s keeps
// running; the returned State is an independent copy.
func Capture(s *scheduler.Scheduler) State {
	b := s.Bus()
	cart := b.Cartridge()

	return State{
		Version:  formatVersion,
		Region:   s.Region(),
		MapperID: cart.Header().Mapper,

		CPU:  s.CPU().Snapshot(),
		PPU:  b.PPU().Snapshot(),
		APU:  b.APU().Snapshot(),
		Bus:  b.Snapshot(),
		Pads: b.Pads().Snapshot(),

		RAM:    b.RAM().Bytes(),
		PRGRAM: append([]uint8(nil), cart.BatterySRAM()...),
		CHRRAM: append([]uint8(nil), cart.CHRRAM()...),
		Mapper: cart.Mapper().SaveState(),

		MasterCycles: s.MasterCycles(),
	}
}

// Restore replaces every piece of s's live state with st. It returns
// InvalidSaveState if st was captured against a different core build or
// a different cartridge (mapper id mismatch) than the one currently
// loaded into s, since applying foreign bank-select bytes to the wrong
// mapper would corrupt PRG/CHR addressing silently instead of failing.
func Restore(s *scheduler.Scheduler, st State) error {
	b := s.Bus()
	cart := b.Cartridge()

	if st.Version != formatVersion {
		return neserr.New(neserr.InvalidSaveState, "save state format version mismatch")
	}
	if st.MapperID != cart.Header().Mapper {
		return neserr.New(neserr.InvalidSaveState, "save state mapper id does not match loaded cartridge")
	}

	s.CPU().Restore(st.CPU)
	b.PPU().Restore(st.PPU)
	b.APU().Restore(st.APU)
	b.Restore(st.Bus)
	b.Pads().Restore(st.Pads)

	b.RAM().LoadBytes(st.RAM)
	cart.LoadBatterySRAM(st.PRGRAM)
	if len(st.CHRRAM) > 0 {
		cart.LoadCHRRAM(st.CHRRAM)
	}
	cart.Mapper().LoadState(st.Mapper)

	s.SetMasterCycles(st.MasterCycles)
	return nil
}

// Marshal encodes a State as JSON, matching the save-file format
// internal/savestate frames to disk.
func Marshal(st State) ([]uint8, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, neserr.Wrap(neserr.InvalidSaveState, "encoding save state", err)
	}
	return data, nil
}

// Unmarshal decodes a State previously produced by Marshal.
func Unmarshal(data []uint8) (State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, neserr.Wrap(neserr.InvalidSaveState, "decoding save state", err)
	}
	return st, nil
}
