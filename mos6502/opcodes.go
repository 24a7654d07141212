package mos6502

// opFunc executes one instruction body. mode tells it how to resolve its
// operand; branch/flag-only instructions ignore it.
type opFunc func(c *CPU, mode addrMode)

// opcodeDef is one row of the 256-entry dispatch table: everything needed
// to decode and execute a single opcode byte.
type opcodeDef struct {
	name               string
	mode               addrMode
	operandBytes       uint8 // bytes following the opcode byte
	cycles             uint8 // base cycle cost
	pageCrossSensitive bool  // +1 cycle if operand resolution crossed a page
	exec               opFunc
}

// opcodeTable is indexed directly by opcode byte. Slots not assigned a real
// instruction below decode as a one-byte, two-cycle no-op, matching the
// documented "treat unofficial opcodes as no-ops" behavior; the handful of
// undocumented NOP encodings the 2A03 actually executes without crashing
// (0x1A, 0x3A, ..., 0x80, 0x04, 0x0C, ...) are filled in explicitly so
// their operand byte counts and cycle costs match silicon.
var opcodeTable [256]opcodeDef

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeDef{name: "NOP", mode: modeIMP, operandBytes: 0, cycles: 2, exec: opNOP}
	}

	def := func(opc uint8, name string, mode addrMode, operandBytes, cycles uint8, pageCross bool, fn opFunc) {
		opcodeTable[opc] = opcodeDef{name: name, mode: mode, operandBytes: operandBytes, cycles: cycles, pageCrossSensitive: pageCross, exec: fn}
	}

	// ADC
	def(0x69, "ADC", modeIMM, 1, 2, false, opADC)
	def(0x65, "ADC", modeZPG, 1, 3, false, opADC)
	def(0x75, "ADC", modeZPX, 1, 4, false, opADC)
	def(0x6D, "ADC", modeABS, 2, 4, false, opADC)
	def(0x7D, "ADC", modeABX, 2, 4, true, opADC)
	def(0x79, "ADC", modeABY, 2, 4, true, opADC)
	def(0x61, "ADC", modeIZX, 1, 6, false, opADC)
	def(0x71, "ADC", modeIZY, 1, 5, true, opADC)

	// AND
	def(0x29, "AND", modeIMM, 1, 2, false, opAND)
	def(0x25, "AND", modeZPG, 1, 3, false, opAND)
	def(0x35, "AND", modeZPX, 1, 4, false, opAND)
	def(0x2D, "AND", modeABS, 2, 4, false, opAND)
	def(0x3D, "AND", modeABX, 2, 4, true, opAND)
	def(0x39, "AND", modeABY, 2, 4, true, opAND)
	def(0x21, "AND", modeIZX, 1, 6, false, opAND)
	def(0x31, "AND", modeIZY, 1, 5, true, opAND)

	// ASL
	def(0x0A, "ASL", modeACC, 0, 2, false, opASL)
	def(0x06, "ASL", modeZPG, 1, 5, false, opASL)
	def(0x16, "ASL", modeZPX, 1, 6, false, opASL)
	def(0x0E, "ASL", modeABS, 2, 6, false, opASL)
	def(0x1E, "ASL", modeABX, 2, 7, false, opASL)

	// Branches
	def(0x90, "BCC", modeREL, 1, 2, false, opBCC)
	def(0xB0, "BCS", modeREL, 1, 2, false, opBCS)
	def(0xF0, "BEQ", modeREL, 1, 2, false, opBEQ)
	def(0x30, "BMI", modeREL, 1, 2, false, opBMI)
	def(0xD0, "BNE", modeREL, 1, 2, false, opBNE)
	def(0x10, "BPL", modeREL, 1, 2, false, opBPL)
	def(0x50, "BVC", modeREL, 1, 2, false, opBVC)
	def(0x70, "BVS", modeREL, 1, 2, false, opBVS)

	// BIT
	def(0x24, "BIT", modeZPG, 1, 3, false, opBIT)
	def(0x2C, "BIT", modeABS, 2, 4, false, opBIT)

	// BRK
	def(0x00, "BRK", modeIMP, 1, 7, false, opBRK)

	// Flag clear/set
	def(0x18, "CLC", modeIMP, 0, 2, false, opCLC)
	def(0xD8, "CLD", modeIMP, 0, 2, false, opCLD)
	def(0x58, "CLI", modeIMP, 0, 2, false, opCLI)
	def(0xB8, "CLV", modeIMP, 0, 2, false, opCLV)
	def(0x38, "SEC", modeIMP, 0, 2, false, opSEC)
	def(0xF8, "SED", modeIMP, 0, 2, false, opSED)
	def(0x78, "SEI", modeIMP, 0, 2, false, opSEI)

	// CMP
	def(0xC9, "CMP", modeIMM, 1, 2, false, opCMP)
	def(0xC5, "CMP", modeZPG, 1, 3, false, opCMP)
	def(0xD5, "CMP", modeZPX, 1, 4, false, opCMP)
	def(0xCD, "CMP", modeABS, 2, 4, false, opCMP)
	def(0xDD, "CMP", modeABX, 2, 4, true, opCMP)
	def(0xD9, "CMP", modeABY, 2, 4, true, opCMP)
	def(0xC1, "CMP", modeIZX, 1, 6, false, opCMP)
	def(0xD1, "CMP", modeIZY, 1, 5, true, opCMP)

	// CPX / CPY
	def(0xE0, "CPX", modeIMM, 1, 2, false, opCPX)
	def(0xE4, "CPX", modeZPG, 1, 3, false, opCPX)
	def(0xEC, "CPX", modeABS, 2, 4, false, opCPX)
	def(0xC0, "CPY", modeIMM, 1, 2, false, opCPY)
	def(0xC4, "CPY", modeZPG, 1, 3, false, opCPY)
	def(0xCC, "CPY", modeABS, 2, 4, false, opCPY)

	// DEC / DEX / DEY
	def(0xC6, "DEC", modeZPG, 1, 5, false, opDEC)
	def(0xD6, "DEC", modeZPX, 1, 6, false, opDEC)
	def(0xCE, "DEC", modeABS, 2, 6, false, opDEC)
	def(0xDE, "DEC", modeABX, 2, 7, false, opDEC)
	def(0xCA, "DEX", modeIMP, 0, 2, false, opDEX)
	def(0x88, "DEY", modeIMP, 0, 2, false, opDEY)

	// EOR
	def(0x49, "EOR", modeIMM, 1, 2, false, opEOR)
	def(0x45, "EOR", modeZPG, 1, 3, false, opEOR)
	def(0x55, "EOR", modeZPX, 1, 4, false, opEOR)
	def(0x4D, "EOR", modeABS, 2, 4, false, opEOR)
	def(0x5D, "EOR", modeABX, 2, 4, true, opEOR)
	def(0x59, "EOR", modeABY, 2, 4, true, opEOR)
	def(0x41, "EOR", modeIZX, 1, 6, false, opEOR)
	def(0x51, "EOR", modeIZY, 1, 5, true, opEOR)

	// INC / INX / INY
	def(0xE6, "INC", modeZPG, 1, 5, false, opINC)
	def(0xF6, "INC", modeZPX, 1, 6, false, opINC)
	def(0xEE, "INC", modeABS, 2, 6, false, opINC)
	def(0xFE, "INC", modeABX, 2, 7, false, opINC)
	def(0xE8, "INX", modeIMP, 0, 2, false, opINX)
	def(0xC8, "INY", modeIMP, 0, 2, false, opINY)

	// JMP / JSR
	def(0x4C, "JMP", modeABS, 2, 3, false, opJMP)
	def(0x6C, "JMP", modeIND, 2, 5, false, opJMP)
	def(0x20, "JSR", modeABS, 2, 6, false, opJSR)

	// LDA / LDX / LDY
	def(0xA9, "LDA", modeIMM, 1, 2, false, opLDA)
	def(0xA5, "LDA", modeZPG, 1, 3, false, opLDA)
	def(0xB5, "LDA", modeZPX, 1, 4, false, opLDA)
	def(0xAD, "LDA", modeABS, 2, 4, false, opLDA)
	def(0xBD, "LDA", modeABX, 2, 4, true, opLDA)
	def(0xB9, "LDA", modeABY, 2, 4, true, opLDA)
	def(0xA1, "LDA", modeIZX, 1, 6, false, opLDA)
	def(0xB1, "LDA", modeIZY, 1, 5, true, opLDA)
	def(0xA2, "LDX", modeIMM, 1, 2, false, opLDX)
	def(0xA6, "LDX", modeZPG, 1, 3, false, opLDX)
	def(0xB6, "LDX", modeZPY, 1, 4, false, opLDX)
	def(0xAE, "LDX", modeABS, 2, 4, false, opLDX)
	def(0xBE, "LDX", modeABY, 2, 4, true, opLDX)
	def(0xA0, "LDY", modeIMM, 1, 2, false, opLDY)
	def(0xA4, "LDY", modeZPG, 1, 3, false, opLDY)
	def(0xB4, "LDY", modeZPX, 1, 4, false, opLDY)
	def(0xAC, "LDY", modeABS, 2, 4, false, opLDY)
	def(0xBC, "LDY", modeABX, 2, 4, true, opLDY)

	// LSR
	def(0x4A, "LSR", modeACC, 0, 2, false, opLSR)
	def(0x46, "LSR", modeZPG, 1, 5, false, opLSR)
	def(0x56, "LSR", modeZPX, 1, 6, false, opLSR)
	def(0x4E, "LSR", modeABS, 2, 6, false, opLSR)
	def(0x5E, "LSR", modeABX, 2, 7, false, opLSR)

	// NOP (documented + the undocumented encodings that genuinely execute
	// as no-ops on a 2A03 rather than locking the bus)
	def(0xEA, "NOP", modeIMP, 0, 2, false, opNOP)
	for _, opc := range []uint8{0x1A, 0x3A, 0x5A, 0xDA, 0xFA} {
		def(opc, "NOP", modeIMP, 0, 2, false, opNOP)
	}
	def(0x80, "NOP", modeIMM, 1, 2, false, opNOP)
	for _, opc := range []uint8{0x04, 0x44, 0x64} {
		def(opc, "NOP", modeZPG, 1, 3, false, opNOP)
	}
	for _, opc := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		def(opc, "NOP", modeZPX, 1, 4, false, opNOP)
	}
	def(0x0C, "NOP", modeABS, 2, 4, false, opNOP)
	for _, opc := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		def(opc, "NOP", modeABX, 2, 4, true, opNOP)
	}

	// ORA
	def(0x09, "ORA", modeIMM, 1, 2, false, opORA)
	def(0x05, "ORA", modeZPG, 1, 3, false, opORA)
	def(0x15, "ORA", modeZPX, 1, 4, false, opORA)
	def(0x0D, "ORA", modeABS, 2, 4, false, opORA)
	def(0x1D, "ORA", modeABX, 2, 4, true, opORA)
	def(0x19, "ORA", modeABY, 2, 4, true, opORA)
	def(0x01, "ORA", modeIZX, 1, 6, false, opORA)
	def(0x11, "ORA", modeIZY, 1, 5, true, opORA)

	// Stack ops
	def(0x48, "PHA", modeIMP, 0, 3, false, opPHA)
	def(0x08, "PHP", modeIMP, 0, 3, false, opPHP)
	def(0x68, "PLA", modeIMP, 0, 4, false, opPLA)
	def(0x28, "PLP", modeIMP, 0, 4, false, opPLP)

	// ROL / ROR
	def(0x2A, "ROL", modeACC, 0, 2, false, opROL)
	def(0x26, "ROL", modeZPG, 1, 5, false, opROL)
	def(0x36, "ROL", modeZPX, 1, 6, false, opROL)
	def(0x2E, "ROL", modeABS, 2, 6, false, opROL)
	def(0x3E, "ROL", modeABX, 2, 7, false, opROL)
	def(0x6A, "ROR", modeACC, 0, 2, false, opROR)
	def(0x66, "ROR", modeZPG, 1, 5, false, opROR)
	def(0x76, "ROR", modeZPX, 1, 6, false, opROR)
	def(0x6E, "ROR", modeABS, 2, 6, false, opROR)
	def(0x7E, "ROR", modeABX, 2, 7, false, opROR)

	// RTI / RTS
	def(0x40, "RTI", modeIMP, 0, 6, false, opRTI)
	def(0x60, "RTS", modeIMP, 0, 6, false, opRTS)

	// SBC
	def(0xE9, "SBC", modeIMM, 1, 2, false, opSBC)
	def(0xE5, "SBC", modeZPG, 1, 3, false, opSBC)
	def(0xF5, "SBC", modeZPX, 1, 4, false, opSBC)
	def(0xED, "SBC", modeABS, 2, 4, false, opSBC)
	def(0xFD, "SBC", modeABX, 2, 4, true, opSBC)
	def(0xF9, "SBC", modeABY, 2, 4, true, opSBC)
	def(0xE1, "SBC", modeIZX, 1, 6, false, opSBC)
	def(0xF1, "SBC", modeIZY, 1, 5, true, opSBC)

	// STA / STX / STY
	def(0x85, "STA", modeZPG, 1, 3, false, opSTA)
	def(0x95, "STA", modeZPX, 1, 4, false, opSTA)
	def(0x8D, "STA", modeABS, 2, 4, false, opSTA)
	def(0x9D, "STA", modeABX, 2, 5, false, opSTA)
	def(0x99, "STA", modeABY, 2, 5, false, opSTA)
	def(0x81, "STA", modeIZX, 1, 6, false, opSTA)
	def(0x91, "STA", modeIZY, 1, 6, false, opSTA)
	def(0x86, "STX", modeZPG, 1, 3, false, opSTX)
	def(0x96, "STX", modeZPY, 1, 4, false, opSTX)
	def(0x8E, "STX", modeABS, 2, 4, false, opSTX)
	def(0x84, "STY", modeZPG, 1, 3, false, opSTY)
	def(0x94, "STY", modeZPX, 1, 4, false, opSTY)
	def(0x8C, "STY", modeABS, 2, 4, false, opSTY)

	// Register transfers
	def(0xAA, "TAX", modeIMP, 0, 2, false, opTAX)
	def(0xA8, "TAY", modeIMP, 0, 2, false, opTAY)
	def(0xBA, "TSX", modeIMP, 0, 2, false, opTSX)
	def(0x8A, "TXA", modeIMP, 0, 2, false, opTXA)
	def(0x9A, "TXS", modeIMP, 0, 2, false, opTXS)
	def(0x98, "TYA", modeIMP, 0, 2, false, opTYA)
}

// addWithCarry performs the shared ADC/SBC add: SBC feeds in ^operand so
// the same carry/overflow rules apply to both.
func addWithCarry(a, operand uint8, carryIn bool) (result uint8, carryOut, overflow bool) {
	sum := uint16(a) + uint16(operand)
	if carryIn {
		sum++
	}
	result = uint8(sum)
	carryOut = sum > 0xFF
	overflow = (a^operand)&0x80 == 0 && (a^result)&0x80 != 0
	return
}

func opADC(c *CPU, mode addrMode) {
	operand := c.read(c.operandAddr(mode))
	result, carry, overflow := addWithCarry(c.a, operand, c.Flag(FlagCarry))
	c.a = result
	c.setFlag(FlagCarry, carry)
	c.setFlag(FlagOverflow, overflow)
	c.setZN(c.a)
}

func opSBC(c *CPU, mode addrMode) {
	operand := c.read(c.operandAddr(mode))
	result, carry, overflow := addWithCarry(c.a, ^operand, c.Flag(FlagCarry))
	c.a = result
	c.setFlag(FlagCarry, carry)
	c.setFlag(FlagOverflow, overflow)
	c.setZN(c.a)
}

func opAND(c *CPU, mode addrMode) {
	c.a &= c.read(c.operandAddr(mode))
	c.setZN(c.a)
}

func opEOR(c *CPU, mode addrMode) {
	c.a ^= c.read(c.operandAddr(mode))
	c.setZN(c.a)
}

func opORA(c *CPU, mode addrMode) {
	c.a |= c.read(c.operandAddr(mode))
	c.setZN(c.a)
}

func opASL(c *CPU, mode addrMode) {
	if mode == modeACC {
		c.setFlag(FlagCarry, c.a&0x80 != 0)
		c.a <<= 1
		c.setZN(c.a)
		return
	}
	addr := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.write(addr, v)
	c.setZN(v)
}

func opLSR(c *CPU, mode addrMode) {
	if mode == modeACC {
		c.setFlag(FlagCarry, c.a&0x01 != 0)
		c.a >>= 1
		c.setZN(c.a)
		return
	}
	addr := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.write(addr, v)
	c.setZN(v)
}

func opROL(c *CPU, mode addrMode) {
	carryIn := uint8(0)
	if c.Flag(FlagCarry) {
		carryIn = 1
	}
	if mode == modeACC {
		c.setFlag(FlagCarry, c.a&0x80 != 0)
		c.a = c.a<<1 | carryIn
		c.setZN(c.a)
		return
	}
	addr := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x80 != 0)
	v = v<<1 | carryIn
	c.write(addr, v)
	c.setZN(v)
}

func opROR(c *CPU, mode addrMode) {
	carryIn := uint8(0)
	if c.Flag(FlagCarry) {
		carryIn = 0x80
	}
	if mode == modeACC {
		c.setFlag(FlagCarry, c.a&0x01 != 0)
		c.a = c.a>>1 | carryIn
		c.setZN(c.a)
		return
	}
	addr := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x01 != 0)
	v = v>>1 | carryIn
	c.write(addr, v)
	c.setZN(v)
}

func opBIT(c *CPU, mode addrMode) {
	v := c.read(c.operandAddr(mode))
	c.setFlag(FlagZero, c.a&v == 0)
	c.setFlag(FlagOverflow, v&0x40 != 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// branch evaluates a relative-addressing branch: the operand is always
// consumed (advancing PC past it) whether or not the branch is taken, and
// extra cycles are charged only when taken (+1) and again if the jump
// lands in a different page (+1 more).
func (c *CPU) branch(taken bool) {
	target := c.operandAddr(modeREL)
	if !taken {
		return
	}
	if pageCrossedAddr(c.pc, target) {
		c.extra++
	}
	c.extra++
	c.pc = target
}

func opBCC(c *CPU, _ addrMode) { c.branch(!c.Flag(FlagCarry)) }
func opBCS(c *CPU, _ addrMode) { c.branch(c.Flag(FlagCarry)) }
func opBEQ(c *CPU, _ addrMode) { c.branch(c.Flag(FlagZero)) }
func opBNE(c *CPU, _ addrMode) { c.branch(!c.Flag(FlagZero)) }
func opBMI(c *CPU, _ addrMode) { c.branch(c.Flag(FlagNegative)) }
func opBPL(c *CPU, _ addrMode) { c.branch(!c.Flag(FlagNegative)) }
func opBVC(c *CPU, _ addrMode) { c.branch(!c.Flag(FlagOverflow)) }
func opBVS(c *CPU, _ addrMode) { c.branch(c.Flag(FlagOverflow)) }

// opBRK implements the software interrupt: push PC+2 (the return address
// skips BRK's padding byte), push SR with B set, disable further IRQs, and
// jump through the IRQ/BRK vector.
func opBRK(c *CPU, _ addrMode) {
	c.pc++ // the padding byte after the BRK opcode
	c.pushAddr(c.pc)
	c.pushStack(c.sr | FlagUnused | FlagBreak)
	c.sr |= FlagIRQ
	c.pc = c.read16(vectorIRQ)
}

func opCLC(c *CPU, _ addrMode) { c.setFlag(FlagCarry, false) }
func opCLD(c *CPU, _ addrMode) { c.setFlag(FlagDecimal, false) }
func opCLI(c *CPU, _ addrMode) { c.setFlag(FlagIRQ, false) }
func opCLV(c *CPU, _ addrMode) { c.setFlag(FlagOverflow, false) }
func opSEC(c *CPU, _ addrMode) { c.setFlag(FlagCarry, true) }
func opSED(c *CPU, _ addrMode) { c.setFlag(FlagDecimal, true) }
func opSEI(c *CPU, _ addrMode) { c.setFlag(FlagIRQ, true) }

func compare(c *CPU, reg uint8, mode addrMode) {
	operand := c.read(c.operandAddr(mode))
	diff := reg - operand
	c.setFlag(FlagCarry, reg >= operand)
	c.setZN(diff)
}

func opCMP(c *CPU, mode addrMode) { compare(c, c.a, mode) }
func opCPX(c *CPU, mode addrMode) { compare(c, c.x, mode) }
func opCPY(c *CPU, mode addrMode) { compare(c, c.y, mode) }

func opDEC(c *CPU, mode addrMode) {
	addr := c.operandAddr(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setZN(v)
}

func opINC(c *CPU, mode addrMode) {
	addr := c.operandAddr(mode)
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setZN(v)
}

func opDEX(c *CPU, _ addrMode) { c.x--; c.setZN(c.x) }
func opDEY(c *CPU, _ addrMode) { c.y--; c.setZN(c.y) }
func opINX(c *CPU, _ addrMode) { c.x++; c.setZN(c.x) }
func opINY(c *CPU, _ addrMode) { c.y++; c.setZN(c.y) }

func opJMP(c *CPU, mode addrMode) {
	c.pc = c.operandAddr(mode)
}

func opJSR(c *CPU, mode addrMode) {
	addr := c.operandAddr(mode)
	c.pushAddr(c.pc - 1)
	c.pc = addr
}

func opRTS(c *CPU, _ addrMode) {
	c.pc = c.popAddr() + 1
}

func opRTI(c *CPU, _ addrMode) {
	c.sr = (c.popStack() | FlagUnused) &^ FlagBreak
	c.pc = c.popAddr()
}

func opLDA(c *CPU, mode addrMode) { c.a = c.read(c.operandAddr(mode)); c.setZN(c.a) }
func opLDX(c *CPU, mode addrMode) { c.x = c.read(c.operandAddr(mode)); c.setZN(c.x) }
func opLDY(c *CPU, mode addrMode) { c.y = c.read(c.operandAddr(mode)); c.setZN(c.y) }

func opSTA(c *CPU, mode addrMode) { c.write(c.operandAddr(mode), c.a) }
func opSTX(c *CPU, mode addrMode) { c.write(c.operandAddr(mode), c.x) }
func opSTY(c *CPU, mode addrMode) { c.write(c.operandAddr(mode), c.y) }

func opPHA(c *CPU, _ addrMode) { c.pushStack(c.a) }
func opPHP(c *CPU, _ addrMode) { c.pushStack(c.sr | FlagUnused | FlagBreak) }
func opPLA(c *CPU, _ addrMode) { c.a = c.popStack(); c.setZN(c.a) }
func opPLP(c *CPU, _ addrMode) { c.sr = (c.popStack() | FlagUnused) &^ FlagBreak }

func opTAX(c *CPU, _ addrMode) { c.x = c.a; c.setZN(c.x) }
func opTAY(c *CPU, _ addrMode) { c.y = c.a; c.setZN(c.y) }
func opTSX(c *CPU, _ addrMode) { c.x = c.sp; c.setZN(c.x) }
func opTXA(c *CPU, _ addrMode) { c.a = c.x; c.setZN(c.a) }
func opTXS(c *CPU, _ addrMode) { c.sp = c.x }
func opTYA(c *CPU, _ addrMode) { c.a = c.y; c.setZN(c.a) }

// opNOP consumes whatever operand bytes the addressing mode implies
// (operandAddr advances PC past them; step adds op.operandBytes only when
// an instruction leaves PC untouched) and does nothing else, covering both the documented NOP and the undocumented
// encodings that behave identically on a 2A03.
func opNOP(c *CPU, mode addrMode) {
	if mode != modeIMP && mode != modeACC {
		c.operandAddr(mode)
	}
}
