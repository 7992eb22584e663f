// Package memory implements the NES's internal RAM region. The open-bus
// data latch lives in internal/bus, not here.
package memory

import "nescore/internal/config"

// Size is the amount of physical internal RAM; it is mirrored across
// $0000-$1FFF.
const Size = 0x800

// RAM is the NES's 2KiB of internal work RAM, addressed $0000-$1FFF with
// every access masked to the low 11 bits.
type RAM struct {
	data [Size]uint8
}

// NewRAM builds internal RAM seeded per the given power-up policy.
func NewRAM(state config.RAMState) *RAM {
	r := &RAM{}
	r.powerOn(state)
	return r
}

// powerOn seeds the array according to the configured RAM state policy.
// Real hardware RAM does not power up all-zero; callers that need exact
// reproduction of a particular board's pattern use Custom.
func (r *RAM) powerOn(state config.RAMState) {
	switch state.Kind {
	case config.AllZeros:
		for i := range r.data {
			r.data[i] = 0x00
		}
	case config.AllOnes:
		for i := range r.data {
			r.data[i] = 0xFF
		}
	case config.Custom:
		copy(r.data[:], state.Bytes)
	case config.Random:
		x := state.Seed
		if x == 0 {
			x = 1
		}
		for i := range r.data {
			// xorshift64, deterministic given the seed so a fixed
			// config reproduces byte-identical runs per spec.md §5.
			x ^= x << 13
			x ^= x >> 7
			x ^= x << 17
			r.data[i] = uint8(x)
		}
	}
}

// Read returns the byte at address, mirrored every 0x800 bytes.
func (r *RAM) Read(address uint16) uint8 {
	return r.data[address&0x07FF]
}

// Write stores value at address, mirrored every 0x800 bytes.
func (r *RAM) Write(address uint16, value uint8) {
	r.data[address&0x07FF] = value
}

// Reset re-seeds RAM per state, as a full power cycle would. Bus.Reset
// does not call it: a soft reset does not clear RAM on real hardware.
func (r *RAM) Reset(state config.RAMState) {
	r.powerOn(state)
}

// Bytes returns a copy of the raw 2KiB backing array for internal/snapshot.
func (r *RAM) Bytes() []uint8 {
	out := make([]uint8, Size)
	copy(out, r.data[:])
	return out
}

// LoadBytes restores the raw backing array from a snapshot. data shorter
// than Size leaves the remaining bytes untouched; longer data is truncated.
func (r *RAM) LoadBytes(data []uint8) {
	copy(r.data[:], data)
}
