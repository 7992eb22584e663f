package cpu

// instrInfo describes one decoded opcode. isStore and isRMW tell the
// addressing-mode resolver when an indexed operand must always take the
// dummy-read/extra-cycle penalty rather than only on a page cross.
type instrInfo struct {
	name      string
	mode      AddressingMode
	cycles    uint8
	exec      execFunc
	isStore   bool
	isRMW     bool
	unstable  bool // XAA/LAS/SHA/TAS/SHX/SHY: gated by config.Options.CPUUndocumented
}

func i(name string, mode AddressingMode, cycles uint8, exec execFunc) instrInfo {
	return instrInfo{name: name, mode: mode, cycles: cycles, exec: exec}
}
func st(name string, mode AddressingMode, cycles uint8, exec execFunc) instrInfo {
	return instrInfo{name: name, mode: mode, cycles: cycles, exec: exec, isStore: true}
}
func rw(name string, mode AddressingMode, cycles uint8, exec execFunc) instrInfo {
	return instrInfo{name: name, mode: mode, cycles: cycles, exec: exec, isRMW: true}
}

var opcodeTable = [256]instrInfo{
	0x00: i("BRK", Implied, 7, opBRK),
	0x01: i("ORA", IndexedIndirect, 6, opORA),
	0x02: i("KIL", Implied, 2, opKIL),
	0x03: rw("SLO", IndexedIndirect, 8, opSLO),
	0x04: i("NOP", ZeroPage, 3, opNOP),
	0x05: i("ORA", ZeroPage, 3, opORA),
	0x06: rw("ASL", ZeroPage, 5, opASL),
	0x07: rw("SLO", ZeroPage, 5, opSLO),
	0x08: i("PHP", Implied, 3, opPHP),
	0x09: i("ORA", Immediate, 2, opORA),
	0x0A: i("ASL", Accumulator, 2, opASL),
	0x0B: i("ANC", Immediate, 2, opANC),
	0x0C: i("NOP", Absolute, 4, opNOP),
	0x0D: i("ORA", Absolute, 4, opORA),
	0x0E: rw("ASL", Absolute, 6, opASL),
	0x0F: rw("SLO", Absolute, 6, opSLO),

	0x10: i("BPL", Relative, 2, branchIf(false)),
	0x11: i("ORA", IndirectIndexed, 5, opORA),
	0x12: i("KIL", Implied, 2, opKIL),
	0x13: rw("SLO", IndirectIndexed, 8, opSLO),
	0x14: i("NOP", ZeroPageX, 4, opNOP),
	0x15: i("ORA", ZeroPageX, 4, opORA),
	0x16: rw("ASL", ZeroPageX, 6, opASL),
	0x17: rw("SLO", ZeroPageX, 6, opSLO),
	0x18: i("CLC", Implied, 2, opCLC),
	0x19: i("ORA", AbsoluteY, 4, opORA),
	0x1A: i("NOP", Implied, 2, opNOP),
	0x1B: rw("SLO", AbsoluteY, 7, opSLO),
	0x1C: i("NOP", AbsoluteX, 4, opNOP),
	0x1D: i("ORA", AbsoluteX, 4, opORA),
	0x1E: rw("ASL", AbsoluteX, 7, opASL),
	0x1F: rw("SLO", AbsoluteX, 7, opSLO),

	0x20: i("JSR", Absolute, 6, opJSR),
	0x21: i("AND", IndexedIndirect, 6, opAND),
	0x22: i("KIL", Implied, 2, opKIL),
	0x23: rw("RLA", IndexedIndirect, 8, opRLA),
	0x24: i("BIT", ZeroPage, 3, opBIT),
	0x25: i("AND", ZeroPage, 3, opAND),
	0x26: rw("ROL", ZeroPage, 5, opROL),
	0x27: rw("RLA", ZeroPage, 5, opRLA),
	0x28: i("PLP", Implied, 4, opPLP),
	0x29: i("AND", Immediate, 2, opAND),
	0x2A: i("ROL", Accumulator, 2, opROL),
	0x2B: i("ANC", Immediate, 2, opANC),
	0x2C: i("BIT", Absolute, 4, opBIT),
	0x2D: i("AND", Absolute, 4, opAND),
	0x2E: rw("ROL", Absolute, 6, opROL),
	0x2F: rw("RLA", Absolute, 6, opRLA),

	0x30: i("BMI", Relative, 2, branchIf(false)),
	0x31: i("AND", IndirectIndexed, 5, opAND),
	0x32: i("KIL", Implied, 2, opKIL),
	0x33: rw("RLA", IndirectIndexed, 8, opRLA),
	0x34: i("NOP", ZeroPageX, 4, opNOP),
	0x35: i("AND", ZeroPageX, 4, opAND),
	0x36: rw("ROL", ZeroPageX, 6, opROL),
	0x37: rw("RLA", ZeroPageX, 6, opRLA),
	0x38: i("SEC", Implied, 2, opSEC),
	0x39: i("AND", AbsoluteY, 4, opAND),
	0x3A: i("NOP", Implied, 2, opNOP),
	0x3B: rw("RLA", AbsoluteY, 7, opRLA),
	0x3C: i("NOP", AbsoluteX, 4, opNOP),
	0x3D: i("AND", AbsoluteX, 4, opAND),
	0x3E: rw("ROL", AbsoluteX, 7, opROL),
	0x3F: rw("RLA", AbsoluteX, 7, opRLA),

	0x40: i("RTI", Implied, 6, opRTI),
	0x41: i("EOR", IndexedIndirect, 6, opEOR),
	0x42: i("KIL", Implied, 2, opKIL),
	0x43: rw("SRE", IndexedIndirect, 8, opSRE),
	0x44: i("NOP", ZeroPage, 3, opNOP),
	0x45: i("EOR", ZeroPage, 3, opEOR),
	0x46: rw("LSR", ZeroPage, 5, opLSR),
	0x47: rw("SRE", ZeroPage, 5, opSRE),
	0x48: i("PHA", Implied, 3, opPHA),
	0x49: i("EOR", Immediate, 2, opEOR),
	0x4A: i("LSR", Accumulator, 2, opLSR),
	0x4B: i("ALR", Immediate, 2, opALR),
	0x4C: i("JMP", Absolute, 3, opJMP),
	0x4D: i("EOR", Absolute, 4, opEOR),
	0x4E: rw("LSR", Absolute, 6, opLSR),
	0x4F: rw("SRE", Absolute, 6, opSRE),

	0x50: i("BVC", Relative, 2, branchIf(false)),
	0x51: i("EOR", IndirectIndexed, 5, opEOR),
	0x52: i("KIL", Implied, 2, opKIL),
	0x53: rw("SRE", IndirectIndexed, 8, opSRE),
	0x54: i("NOP", ZeroPageX, 4, opNOP),
	0x55: i("EOR", ZeroPageX, 4, opEOR),
	0x56: rw("LSR", ZeroPageX, 6, opLSR),
	0x57: rw("SRE", ZeroPageX, 6, opSRE),
	0x58: i("CLI", Implied, 2, opCLI),
	0x59: i("EOR", AbsoluteY, 4, opEOR),
	0x5A: i("NOP", Implied, 2, opNOP),
	0x5B: rw("SRE", AbsoluteY, 7, opSRE),
	0x5C: i("NOP", AbsoluteX, 4, opNOP),
	0x5D: i("EOR", AbsoluteX, 4, opEOR),
	0x5E: rw("LSR", AbsoluteX, 7, opLSR),
	0x5F: rw("SRE", AbsoluteX, 7, opSRE),

	0x60: i("RTS", Implied, 6, opRTS),
	0x61: i("ADC", IndexedIndirect, 6, opADC),
	0x62: i("KIL", Implied, 2, opKIL),
	0x63: rw("RRA", IndexedIndirect, 8, opRRA),
	0x64: i("NOP", ZeroPage, 3, opNOP),
	0x65: i("ADC", ZeroPage, 3, opADC),
	0x66: rw("ROR", ZeroPage, 5, opROR),
	0x67: rw("RRA", ZeroPage, 5, opRRA),
	0x68: i("PLA", Implied, 4, opPLA),
	0x69: i("ADC", Immediate, 2, opADC),
	0x6A: i("ROR", Accumulator, 2, opROR),
	0x6B: i("ARR", Immediate, 2, opARR),
	0x6C: i("JMP", Indirect, 5, opJMP),
	0x6D: i("ADC", Absolute, 4, opADC),
	0x6E: rw("ROR", Absolute, 6, opROR),
	0x6F: rw("RRA", Absolute, 6, opRRA),

	0x70: i("BVS", Relative, 2, branchIf(false)),
	0x71: i("ADC", IndirectIndexed, 5, opADC),
	0x72: i("KIL", Implied, 2, opKIL),
	0x73: rw("RRA", IndirectIndexed, 8, opRRA),
	0x74: i("NOP", ZeroPageX, 4, opNOP),
	0x75: i("ADC", ZeroPageX, 4, opADC),
	0x76: rw("ROR", ZeroPageX, 6, opROR),
	0x77: rw("RRA", ZeroPageX, 6, opRRA),
	0x78: i("SEI", Implied, 2, opSEI),
	0x79: i("ADC", AbsoluteY, 4, opADC),
	0x7A: i("NOP", Implied, 2, opNOP),
	0x7B: rw("RRA", AbsoluteY, 7, opRRA),
	0x7C: i("NOP", AbsoluteX, 4, opNOP),
	0x7D: i("ADC", AbsoluteX, 4, opADC),
	0x7E: rw("ROR", AbsoluteX, 7, opROR),
	0x7F: rw("RRA", AbsoluteX, 7, opRRA),

	0x80: i("NOP", Immediate, 2, opNOP),
	0x81: st("STA", IndexedIndirect, 6, opSTA),
	0x82: i("NOP", Immediate, 2, opNOP),
	0x83: st("SAX", IndexedIndirect, 6, opSAX),
	0x84: st("STY", ZeroPage, 3, opSTY),
	0x85: st("STA", ZeroPage, 3, opSTA),
	0x86: st("STX", ZeroPage, 3, opSTX),
	0x87: st("SAX", ZeroPage, 3, opSAX),
	0x88: i("DEY", Implied, 2, opDEY),
	0x89: i("NOP", Immediate, 2, opNOP),
	0x8A: i("TXA", Implied, 2, opTXA),
	0x8B: i("XAA", Immediate, 2, opXAA),
	0x8C: st("STY", Absolute, 4, opSTY),
	0x8D: st("STA", Absolute, 4, opSTA),
	0x8E: st("STX", Absolute, 4, opSTX),
	0x8F: st("SAX", Absolute, 4, opSAX),

	0x90: i("BCC", Relative, 2, branchIf(false)),
	0x91: st("STA", IndirectIndexed, 6, opSTA),
	0x92: i("KIL", Implied, 2, opKIL),
	0x93: st("SHA", IndirectIndexed, 6, opSHA),
	0x94: st("STY", ZeroPageX, 4, opSTY),
	0x95: st("STA", ZeroPageX, 4, opSTA),
	0x96: st("STX", ZeroPageY, 4, opSTX),
	0x97: st("SAX", ZeroPageY, 4, opSAX),
	0x98: i("TYA", Implied, 2, opTYA),
	0x99: st("STA", AbsoluteY, 5, opSTA),
	0x9A: i("TXS", Implied, 2, opTXS),
	0x9B: st("TAS", AbsoluteY, 5, opTAS),
	0x9C: st("SHY", AbsoluteX, 5, opSHY),
	0x9D: st("STA", AbsoluteX, 5, opSTA),
	0x9E: st("SHX", AbsoluteY, 5, opSHX),
	0x9F: st("SHA", AbsoluteY, 5, opSHA),

	0xA0: i("LDY", Immediate, 2, opLDY),
	0xA1: i("LDA", IndexedIndirect, 6, opLDA),
	0xA2: i("LDX", Immediate, 2, opLDX),
	0xA3: i("LAX", IndexedIndirect, 6, opLAX),
	0xA4: i("LDY", ZeroPage, 3, opLDY),
	0xA5: i("LDA", ZeroPage, 3, opLDA),
	0xA6: i("LDX", ZeroPage, 3, opLDX),
	0xA7: i("LAX", ZeroPage, 3, opLAX),
	0xA8: i("TAY", Implied, 2, opTAY),
	0xA9: i("LDA", Immediate, 2, opLDA),
	0xAA: i("TAX", Implied, 2, opTAX),
	0xAB: i("LAX", Immediate, 2, opLAX),
	0xAC: i("LDY", Absolute, 4, opLDY),
	0xAD: i("LDA", Absolute, 4, opLDA),
	0xAE: i("LDX", Absolute, 4, opLDX),
	0xAF: i("LAX", Absolute, 4, opLAX),

	0xB0: i("BCS", Relative, 2, branchIf(false)),
	0xB1: i("LDA", IndirectIndexed, 5, opLDA),
	0xB2: i("KIL", Implied, 2, opKIL),
	0xB3: i("LAX", IndirectIndexed, 5, opLAX),
	0xB4: i("LDY", ZeroPageX, 4, opLDY),
	0xB5: i("LDA", ZeroPageX, 4, opLDA),
	0xB6: i("LDX", ZeroPageY, 4, opLDX),
	0xB7: i("LAX", ZeroPageY, 4, opLAX),
	0xB8: i("CLV", Implied, 2, opCLV),
	0xB9: i("LDA", AbsoluteY, 4, opLDA),
	0xBA: i("TSX", Implied, 2, opTSX),
	0xBB: i("LAS", AbsoluteY, 4, opLAS),
	0xBC: i("LDY", AbsoluteX, 4, opLDY),
	0xBD: i("LDA", AbsoluteX, 4, opLDA),
	0xBE: i("LDX", AbsoluteY, 4, opLDX),
	0xBF: i("LAX", AbsoluteY, 4, opLAX),

	0xC0: i("CPY", Immediate, 2, opCPY),
	0xC1: i("CMP", IndexedIndirect, 6, opCMP),
	0xC2: i("NOP", Immediate, 2, opNOP),
	0xC3: rw("DCP", IndexedIndirect, 8, opDCP),
	0xC4: i("CPY", ZeroPage, 3, opCPY),
	0xC5: i("CMP", ZeroPage, 3, opCMP),
	0xC6: rw("DEC", ZeroPage, 5, opDEC),
	0xC7: rw("DCP", ZeroPage, 5, opDCP),
	0xC8: i("INY", Implied, 2, opINY),
	0xC9: i("CMP", Immediate, 2, opCMP),
	0xCA: i("DEX", Implied, 2, opDEX),
	0xCB: i("AXS", Immediate, 2, opAXS),
	0xCC: i("CPY", Absolute, 4, opCPY),
	0xCD: i("CMP", Absolute, 4, opCMP),
	0xCE: rw("DEC", Absolute, 6, opDEC),
	0xCF: rw("DCP", Absolute, 6, opDCP),

	0xD0: i("BNE", Relative, 2, branchIf(false)),
	0xD1: i("CMP", IndirectIndexed, 5, opCMP),
	0xD2: i("KIL", Implied, 2, opKIL),
	0xD3: rw("DCP", IndirectIndexed, 8, opDCP),
	0xD4: i("NOP", ZeroPageX, 4, opNOP),
	0xD5: i("CMP", ZeroPageX, 4, opCMP),
	0xD6: rw("DEC", ZeroPageX, 6, opDEC),
	0xD7: rw("DCP", ZeroPageX, 6, opDCP),
	0xD8: i("CLD", Implied, 2, opCLD),
	0xD9: i("CMP", AbsoluteY, 4, opCMP),
	0xDA: i("NOP", Implied, 2, opNOP),
	0xDB: rw("DCP", AbsoluteY, 7, opDCP),
	0xDC: i("NOP", AbsoluteX, 4, opNOP),
	0xDD: i("CMP", AbsoluteX, 4, opCMP),
	0xDE: rw("DEC", AbsoluteX, 7, opDEC),
	0xDF: rw("DCP", AbsoluteX, 7, opDCP),

	0xE0: i("CPX", Immediate, 2, opCPX),
	0xE1: i("SBC", IndexedIndirect, 6, opSBC),
	0xE2: i("NOP", Immediate, 2, opNOP),
	0xE3: rw("ISB", IndexedIndirect, 8, opISB),
	0xE4: i("CPX", ZeroPage, 3, opCPX),
	0xE5: i("SBC", ZeroPage, 3, opSBC),
	0xE6: rw("INC", ZeroPage, 5, opINC),
	0xE7: rw("ISB", ZeroPage, 5, opISB),
	0xE8: i("INX", Implied, 2, opINX),
	0xE9: i("SBC", Immediate, 2, opSBC),
	0xEA: i("NOP", Implied, 2, opNOP),
	0xEB: i("SBC", Immediate, 2, opSBC),
	0xEC: i("CPX", Absolute, 4, opCPX),
	0xED: i("SBC", Absolute, 4, opSBC),
	0xEE: rw("INC", Absolute, 6, opINC),
	0xEF: rw("ISB", Absolute, 6, opISB),

	0xF0: i("BEQ", Relative, 2, branchIf(false)),
	0xF1: i("SBC", IndirectIndexed, 5, opSBC),
	0xF2: i("KIL", Implied, 2, opKIL),
	0xF3: rw("ISB", IndirectIndexed, 8, opISB),
	0xF4: i("NOP", ZeroPageX, 4, opNOP),
	0xF5: i("SBC", ZeroPageX, 4, opSBC),
	0xF6: rw("INC", ZeroPageX, 6, opINC),
	0xF7: rw("ISB", ZeroPageX, 6, opISB),
	0xF8: i("SED", Implied, 2, opSED),
	0xF9: i("SBC", AbsoluteY, 4, opSBC),
	0xFA: i("NOP", Implied, 2, opNOP),
	0xFB: rw("ISB", AbsoluteY, 7, opISB),
	0xFC: i("NOP", AbsoluteX, 4, opNOP),
	0xFD: i("SBC", AbsoluteX, 4, opSBC),
	0xFE: rw("INC", AbsoluteX, 7, opINC),
	0xFF: rw("ISB", AbsoluteX, 7, opISB),
}

func init() {
	// Branches share one exec pointer (their condition is selected below,
	// not baked into branchIf at table-construction time, since Go can't
	// reference cpu flags before a CPU exists) — wire the real conditions
	// here so the table above stays readable as a flat literal.
	opcodeTable[0x10].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(!cpu.N)(cpu, addr, m) }
	opcodeTable[0x30].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(cpu.N)(cpu, addr, m) }
	opcodeTable[0x50].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(!cpu.V)(cpu, addr, m) }
	opcodeTable[0x70].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(cpu.V)(cpu, addr, m) }
	opcodeTable[0x90].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(!cpu.C)(cpu, addr, m) }
	opcodeTable[0xB0].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(cpu.C)(cpu, addr, m) }
	opcodeTable[0xD0].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(!cpu.Z)(cpu, addr, m) }
	opcodeTable[0xF0].exec = func(cpu *CPU, addr uint16, m AddressingMode) { branchIf(cpu.Z)(cpu, addr, m) }

	// These seven opcode bytes (six instructions; SHA has two addressing
	// modes) are the chip's genuinely unstable opcodes; CPUUndocumented
	// gates whether they run their documented "typical" behavior at all.
	for _, op := range [...]uint8{0x8B, 0x93, 0x9B, 0x9C, 0x9E, 0x9F, 0xBB} {
		opcodeTable[op].unstable = true
	}
}
