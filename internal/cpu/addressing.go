package cpu

// accumulatorAddr is the sentinel operand address used for instructions
// that target the accumulator directly instead of a memory location.
const accumulatorAddr = 0xFFFF

// resolveOperand computes the effective address for info's addressing
// mode, issuing every bus access (including operand bytes, pointer
// fetches and dummy reads) the real 6502 would issue. Implied and
// Accumulator modes return accumulatorAddr without touching the bus.
func (cpu *CPU) resolveOperand(info instrInfo) uint16 {
	switch info.mode {
	case Implied:
		return 0

	case Accumulator:
		return accumulatorAddr

	case Immediate:
		addr := cpu.PC
		cpu.PC++
		return addr

	case ZeroPage:
		addr := uint16(cpu.bus.Read(cpu.PC))
		cpu.PC++
		return addr

	case ZeroPageX:
		base := cpu.bus.Read(cpu.PC)
		cpu.PC++
		cpu.bus.Read(uint16(base)) // dummy read at unindexed address
		return uint16(base + cpu.X)

	case ZeroPageY:
		base := cpu.bus.Read(cpu.PC)
		cpu.PC++
		cpu.bus.Read(uint16(base))
		return uint16(base + cpu.Y)

	case Relative:
		offset := int8(cpu.bus.Read(cpu.PC))
		cpu.PC++
		return uint16(int32(cpu.PC) + int32(offset))

	case Absolute:
		addr := cpu.readWord(cpu.PC)
		cpu.PC += 2
		return addr

	case AbsoluteX:
		return cpu.indexedAbsolute(cpu.X, info)

	case AbsoluteY:
		return cpu.indexedAbsolute(cpu.Y, info)

	case Indirect:
		ptr := cpu.readWord(cpu.PC)
		cpu.PC += 2
		return cpu.readWordBuggy(ptr)

	case IndexedIndirect:
		base := cpu.bus.Read(cpu.PC)
		cpu.PC++
		cpu.bus.Read(uint16(base))
		ptr := base + cpu.X
		lo := uint16(cpu.bus.Read(uint16(ptr)))
		hi := uint16(cpu.bus.Read(uint16(ptr + 1)))
		return hi<<8 | lo

	case IndirectIndexed:
		ptr := cpu.bus.Read(cpu.PC)
		cpu.PC++
		lo := uint16(cpu.bus.Read(uint16(ptr)))
		hi := uint16(cpu.bus.Read(uint16(ptr + 1)))
		base := hi<<8 | lo
		final := base + uint16(cpu.Y)
		crossed := hi != final>>8
		if crossed || info.isStore || info.isRMW {
			wrong := (hi << 8) | (final & 0xFF)
			cpu.bus.Read(wrong)
			if crossed && !info.isStore && !info.isRMW {
				cpu.cycles++
			}
		}
		return final

	default:
		return 0
	}
}

func (cpu *CPU) indexedAbsolute(index uint8, info instrInfo) uint16 {
	base := cpu.readWord(cpu.PC)
	cpu.PC += 2
	final := base + uint16(index)
	crossed := base>>8 != final>>8
	if crossed || info.isStore || info.isRMW {
		wrong := (base & 0xFF00) | (final & 0xFF)
		cpu.bus.Read(wrong)
		if crossed && !info.isStore && !info.isRMW {
			cpu.cycles++
		}
	}
	return final
}

func (cpu *CPU) readWord(addr uint16) uint16 {
	lo := uint16(cpu.bus.Read(addr))
	hi := uint16(cpu.bus.Read(addr + 1))
	return hi<<8 | lo
}

// readWordBuggy reproduces JMP (ind)'s page-wrap bug: when the pointer
// sits at the end of a page, the high byte is fetched from the start of
// the same page instead of the next one.
func (cpu *CPU) readWordBuggy(addr uint16) uint16 {
	lo := uint16(cpu.bus.Read(addr))
	hiAddr := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	hi := uint16(cpu.bus.Read(hiAddr))
	return hi<<8 | lo
}

// load returns the operand's value, reading memory unless the
// instruction targets the accumulator.
func (cpu *CPU) load(addr uint16, mode AddressingMode) uint8 {
	if mode == Accumulator {
		return cpu.A
	}
	return cpu.bus.Read(addr)
}

// store writes v to the operand's location (memory, or the accumulator).
func (cpu *CPU) store(addr uint16, mode AddressingMode, v uint8) {
	if mode == Accumulator {
		cpu.A = v
		return
	}
	cpu.bus.Write(addr, v)
}
