// Package cpu implements the NMOS 6502 (Ricoh 2A03/2A07) CPU core:
// instruction decode/execute, interrupt polling, cycle accounting and the
// dummy-read/double-write bus traffic real software and mappers observe.
// Decimal mode is permanently disabled, matching the 2A03/2A07.
package cpu

// Bus is everything the CPU needs from the rest of the system. Every
// Read/Write is a real bus cycle: the caller (internal/bus.Bus) is
// responsible for advancing the PPU and APU by the correct amount before
// the access completes, and for updating the open-bus latch — the CPU
// itself holds no bus state beyond what flows through this interface.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)

	// NMILine reports the current level of the PPU's NMI output.
	NMILine() bool

	// IRQLine reports the OR of every level-sensitive IRQ source
	// (mapper IRQ counters, APU frame counter, APU DMC).
	IRQLine() bool
}

// AddressingMode enumerates the 6502's addressing modes.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	flagN = 0x80
	flagV = 0x40
	flagU = 0x20 // unused, always read as 1
	flagB = 0x10
	flagD = 0x08
	flagI = 0x04
	flagZ = 0x02
	flagC = 0x01

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// CPU holds the full 6502 programmer-visible state plus the internal
// edge/level latches spec.md §3 names.
type CPU struct {
	A, X, Y, SP uint8
	PC          uint16

	N, V, D, I, Z, C bool // B is synthesized at push time, never stored

	bus Bus

	cycles uint64

	nmiLinePrev bool
	nmiPending  bool

	// undocumented gates the chip's genuinely unstable opcodes (XAA, LAS,
	// SHA, TAS, SHX, SHY); false leaves them as no-ops beyond their
	// already-consumed addressing-mode bus cycles.
	undocumented bool
}

// New creates a CPU wired to bus. Reset must be called before Step.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, SP: 0xFD}
}

// SetUndocumented toggles whether the unstable opcode set runs its
// documented "typical" behavior, per config.Options.CPUUndocumented.
func (cpu *CPU) SetUndocumented(enabled bool) { cpu.undocumented = enabled }

// Reset runs the documented 7-cycle reset sequence: three stack
// "writes" that don't actually write (SP decrements without touching
// memory the real way, here modeled as SP -= 3 directly) followed by
// the vector fetch, with I forced set.
func (cpu *CPU) Reset() {
	cpu.SP -= 3
	cpu.I = true
	for i := 0; i < 5; i++ {
		cpu.bus.Read(0x0100 + uint16(cpu.SP) + uint16(i%3))
	}
	lo := uint16(cpu.bus.Read(resetVector))
	hi := uint16(cpu.bus.Read(resetVector + 1))
	cpu.PC = (hi << 8) | lo
	cpu.cycles += 7
	cpu.nmiLinePrev = cpu.bus.NMILine()
}

// Cycles returns the running CPU-cycle count since construction.
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// Status returns the packed processor status byte with the given B bit,
// bit 5 always set.
func (cpu *CPU) Status(bFlag bool) uint8 {
	var s uint8
	if cpu.N {
		s |= flagN
	}
	if cpu.V {
		s |= flagV
	}
	s |= flagU
	if bFlag {
		s |= flagB
	}
	if cpu.D {
		s |= flagD
	}
	if cpu.I {
		s |= flagI
	}
	if cpu.Z {
		s |= flagZ
	}
	if cpu.C {
		s |= flagC
	}
	return s
}

// SetStatus unpacks a status byte into the flag fields; bits 4/5 (B and
// the unused bit) are not stored anywhere — they only ever exist in the
// packed byte form pushed to the stack or supplied by PLP/RTI.
func (cpu *CPU) SetStatus(s uint8) {
	cpu.N = s&flagN != 0
	cpu.V = s&flagV != 0
	cpu.D = s&flagD != 0
	cpu.I = s&flagI != 0
	cpu.Z = s&flagZ != 0
	cpu.C = s&flagC != 0
}

func (cpu *CPU) push(v uint8) {
	cpu.bus.Write(stackBase+uint16(cpu.SP), v)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.bus.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(v uint16) {
	cpu.push(uint8(v >> 8))
	cpu.push(uint8(v))
}

func (cpu *CPU) popWord() uint16 {
	lo := uint16(cpu.pop())
	hi := uint16(cpu.pop())
	return hi<<8 | lo
}

func (cpu *CPU) setZN(v uint8) {
	cpu.Z = v == 0
	cpu.N = v&0x80 != 0
}

// sampleNMI latches a rising edge of the NMI line. It must be called at
// every opportunity the real CPU would observe the line, which this core
// approximates at each instruction boundary.
func (cpu *CPU) sampleNMI() {
	level := cpu.bus.NMILine()
	if level && !cpu.nmiLinePrev {
		cpu.nmiPending = true
	}
	cpu.nmiLinePrev = level
}

// Step executes either one pending NMI/IRQ sequence or one instruction,
// never both, and returns the number of CPU cycles consumed. Dummy reads, double writes on read-modify-write instructions,
// and the page-cross cycle penalty are all issued as real bus accesses so
// mappers observe the same traffic the hardware would produce.
func (cpu *CPU) Step() uint64 {
	start := cpu.cycles
	cpu.sampleNMI()

	if cpu.nmiPending {
		cpu.serviceInterrupt(false)
		return cpu.cycles - start
	}
	if cpu.I == false && cpu.bus.IRQLine() {
		cpu.serviceInterrupt(false)
		return cpu.cycles - start
	}

	opcode := cpu.bus.Read(cpu.PC)
	info := opcodeTable[opcode]
	cpu.PC++
	cpu.cycles += uint64(info.cycles)

	operand := cpu.resolveOperand(info)
	if info.unstable && !cpu.undocumented {
		// Addressing-mode bus traffic and cycle count already happened in
		// resolveOperand; skip only the opcode's register/memory effect.
		return cpu.cycles - start
	}
	info.exec(cpu, operand, info.mode)

	return cpu.cycles - start
}

// TriggerNMI is exposed for tests and for the Bus to force an immediate
// NMI edge outside the normal polling point (e.g. right after a PPU
// register write that raises the line).
func (cpu *CPU) TriggerNMI() { cpu.nmiPending = true }

// serviceInterrupt runs the shared 7-cycle push/vector-fetch sequence for
// BRK, IRQ and NMI. brk selects the B=1 software-interrupt form; hardware
// NMI/IRQ always push B=0. NMI hijacking — an NMI asserting after BRK's
// opcode fetch but before its vector fetch steals the vector — is
// modeled by re-checking the NMI line immediately before the vector read.
func (cpu *CPU) serviceInterrupt(brk bool) {
	if brk {
		cpu.PC++ // BRK's padding byte
	}
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.Status(brk))
	cpu.I = true

	vector := uint16(irqVector)
	// Hijack: resample the NMI line now that BRK's own push cycles have
	// run, since a rising edge during those bus accesses would otherwise
	// go unobserved until the following Step() call, after the IRQ vector
	// has already been fetched.
	if brk {
		cpu.sampleNMI()
	}
	if cpu.nmiPending {
		cpu.nmiPending = false
		vector = nmiVector
	}

	lo := uint16(cpu.bus.Read(vector))
	hi := uint16(cpu.bus.Read(vector + 1))
	cpu.PC = hi<<8 | lo
	cpu.cycles += 7
}

// State is the CPU's full programmer-visible and interrupt-edge state,
// serialized by internal/snapshot.
type State struct {
	A, X, Y, SP      uint8
	PC               uint16
	N, V, D, I, Z, C bool
	Cycles           uint64
	NMILinePrev      bool
	NMIPending       bool
}

// Snapshot captures the CPU's full state for internal/snapshot.
func (cpu *CPU) Snapshot() State {
	return State{
		A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, PC: cpu.PC,
		N: cpu.N, V: cpu.V, D: cpu.D, I: cpu.I, Z: cpu.Z, C: cpu.C,
		Cycles:      cpu.cycles,
		NMILinePrev: cpu.nmiLinePrev,
		NMIPending:  cpu.nmiPending,
	}
}

// Restore replaces the CPU's state with a previously captured Snapshot.
func (cpu *CPU) Restore(s State) {
	cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.PC = s.A, s.X, s.Y, s.SP, s.PC
	cpu.N, cpu.V, cpu.D, cpu.I, cpu.Z, cpu.C = s.N, s.V, s.D, s.I, s.Z, s.C
	cpu.cycles = s.Cycles
	cpu.nmiLinePrev = s.NMILinePrev
	cpu.nmiPending = s.NMIPending
}
