// Package bus wires the CPU, PPU, APU, cartridge, RAM and controller
// ports into the single shared address space and master-clock
// relationship real NES hardware implements. Every CPU-visible bus
// access advances the PPU and APU by the correct fractional amount
// before the access completes, which is how mappers observe PPU
// address-line edges and DMA stalls land on the correct cycle.
package bus

import (
	"nescore/internal/apu"
	"nescore/internal/cartridge"
	"nescore/internal/config"
	"nescore/internal/input"
	"nescore/internal/memory"
	"nescore/internal/ppu"
)

// Bus is the central arbitration point. It implements cpu.Bus without
// importing internal/cpu, avoiding an import cycle.
type Bus struct {
	ram  *memory.RAM
	ppu  *ppu.PPU
	apu  *apu.APU
	cart *cartridge.Cartridge
	pads input.FourScoreAdapter

	openBus uint8

	ppuDotsPerCPUCycle float64
	ppuAccum           float64
	totalCPUCycles     uint64

	dmcServicing bool
}

// New builds a Bus for the given region, RAM, cartridge and APU sample
// sink, wiring a PPU internally since the PPU has no meaningful
// existence apart from the Bus that feeds it cartridge CHR access.
func New(opts config.Options, ram *memory.RAM, cart *cartridge.Cartridge, sampleSink func(int16), cpuClockHz, sampleRateHz float64) *Bus {
	b := &Bus{
		ram:  ram,
		cart: cart,
	}
	b.ppu = ppu.New(opts.Region, cartPPUAdapter{cart})
	b.apu = apu.New(opts.Region, sampleSink, cpuClockHz, sampleRateHz)
	b.ppuDotsPerCPUCycle = float64(opts.Region.CPUDivisor()) / float64(opts.Region.PPUDivisor())
	b.pads.Enabled = opts.FourPlayer != config.NoFourPlayer
	return b
}

// cartPPUAdapter adapts cartridge.Mapper to ppu.CartBus's local
// MirrorMode type so the ppu package stays free of a cartridge import.
type cartPPUAdapter struct{ c *cartridge.Cartridge }

func (a cartPPUAdapter) ReadCHR(addr uint16) uint8     { return a.c.Mapper().ReadCHR(addr) }
func (a cartPPUAdapter) WriteCHR(addr uint16, v uint8)  { a.c.Mapper().WriteCHR(addr, v) }
func (a cartPPUAdapter) OnA12Change(level bool)         { a.c.Mapper().OnA12Change(level) }
func (a cartPPUAdapter) Mirroring() ppu.MirrorMode {
	switch a.c.Mapper().Mirroring() {
	case cartridge.MirrorVertical:
		return ppu.MirrorVertical
	case cartridge.MirrorSingleScreenA:
		return ppu.MirrorSingleScreenA
	case cartridge.MirrorSingleScreenB:
		return ppu.MirrorSingleScreenB
	case cartridge.MirrorFourScreen:
		return ppu.MirrorFourScreen
	default:
		return ppu.MirrorHorizontal
	}
}

// PPU and APU expose the subsystems for the scheduler/snapshot layers.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }
func (b *Bus) APU() *apu.APU { return b.apu }

// Pads returns the Four Score adapter; with FourPlayer disabled only
// Ports[0]/Ports[1] are ever read.
func (b *Bus) Pads() *input.FourScoreAdapter { return &b.pads }

// tick advances every cartridge/PPU/APU-side clock by exactly one CPU
// cycle's worth of work.
func (b *Bus) tick() {
	b.ppuAccum += b.ppuDotsPerCPUCycle
	for b.ppuAccum >= 1.0 {
		b.ppu.Step()
		b.ppuAccum -= 1.0
	}
	b.apu.Step()
	b.cart.Mapper().OnCPUCycle()
	b.totalCPUCycles++
}

// serviceDMCIfNeeded performs the DMC channel's sample-byte DMA fetch,
// stalling an extra 3-4 cycles per the documented (simplified) constant
// model: real hardware's stall length depends on exactly which CPU cycle
// the halt lands on; this core always charges 4 cycles, or 3 when the
// current total-cycle parity matches the common "aligned" case.
func (b *Bus) serviceDMCIfNeeded() {
	if b.dmcServicing || !b.apu.DMARequest() {
		return
	}
	b.dmcServicing = true
	stall := 4
	if b.totalCPUCycles%2 == 0 {
		stall = 3
	}
	for i := 0; i < stall-1; i++ {
		b.tick()
	}
	addr := b.apu.DMCAddress()
	v := b.readInternal(addr)
	b.openBus = v
	b.tick()
	b.apu.DeliverDMCByte(v)
	b.dmcServicing = false
}

func (b *Bus) advance() {
	b.tick()
	b.serviceDMCIfNeeded()
}

// Read performs a CPU-visible bus read.
func (b *Bus) Read(addr uint16) uint8 {
	b.advance()
	v := b.readInternal(addr)
	b.openBus = v
	return v
}

// Write performs a CPU-visible bus write.
func (b *Bus) Write(addr uint16, value uint8) {
	b.advance()
	b.writeInternal(addr, value)
	b.openBus = value
}

func (b *Bus) readInternal(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram.Read(addr)
	case addr < 0x4000:
		return b.ppu.ReadRegister(0x2000+(addr&7), b.openBus)
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr == 0x4016:
		return b.readPad(0)
	case addr == 0x4017:
		return b.readPad(1)
	case addr < 0x4020:
		return b.openBus
	default:
		return b.cart.Mapper().ReadPRG(addr)
	}
}

func (b *Bus) readPad(physicalPort int) uint8 {
	bit := b.pads.Read(physicalPort)
	return (b.openBus & 0xE0) | bit
}

func (b *Bus) writeInternal(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram.Write(addr, value)
	case addr < 0x4000:
		b.ppu.WriteRegister(0x2000+(addr&7), value)
	case addr == 0x4014:
		b.performOAMDMA(value)
	case addr == 0x4016:
		b.pads.Write(value)
	case addr < 0x4018:
		b.apu.WriteRegister(addr, value)
	case addr < 0x4020:
		// APU/IO test-mode registers, not implemented.
	default:
		b.cart.Mapper().WritePRG(addr, value)
	}
}

// performOAMDMA copies 256 bytes from page*$100 into OAM, stalling the
// CPU 513 or 514 cycles depending on whether the transfer starts on an
// even or odd CPU cycle.
func (b *Bus) performOAMDMA(page uint8) {
	odd := b.totalCPUCycles%2 == 1
	b.tick()
	if odd {
		b.tick()
	}
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v := b.Read(base + uint16(i))
		b.tick()
		b.ppu.WriteOAMDMAByte(v)
	}
}

// NMILine implements cpu.Bus.
func (b *Bus) NMILine() bool { return b.ppu.NMILine() }

// IRQLine implements cpu.Bus: the OR of the mapper, APU frame counter
// and APU DMC IRQ sources.
func (b *Bus) IRQLine() bool {
	return b.cart.Mapper().IRQLine() || b.apu.IRQLine()
}

// Reset returns RAM-independent bus state (PPU/APU/mapper) to power-on.
func (b *Bus) Reset() {
	b.ppu.Reset()
	b.apu.Reset()
	b.cart.Mapper().Reset()
	b.ppuAccum = 0
}

// State is the Bus's own arbitration state (everything not already owned
// by the PPU/APU/CPU/cartridge snapshot structs), serialized by
// internal/snapshot alongside those.
type State struct {
	OpenBus        uint8
	PPUAccum       float64
	TotalCPUCycles uint64
	DMCServicing   bool
}

// Snapshot captures the Bus's own arbitration state. PPU, APU, RAM,
// mapper and controller state are captured separately through their own
// Snapshot methods since internal/snapshot composes all of them.
func (b *Bus) Snapshot() State {
	return State{
		OpenBus:        b.openBus,
		PPUAccum:       b.ppuAccum,
		TotalCPUCycles: b.totalCPUCycles,
		DMCServicing:   b.dmcServicing,
	}
}

// Restore replaces the Bus's own arbitration state with a previously
// captured Snapshot.
func (b *Bus) Restore(s State) {
	b.openBus = s.OpenBus
	b.ppuAccum = s.PPUAccum
	b.totalCPUCycles = s.TotalCPUCycles
	b.dmcServicing = s.DMCServicing
}

// RAM exposes internal RAM for internal/snapshot.
func (b *Bus) RAM() *memory.RAM { return b.ram }

// Cartridge exposes the inserted cartridge for internal/snapshot.
func (b *Bus) Cartridge() *cartridge.Cartridge { return b.cart }
