// Package mos6502 implements the MOS Technology 6502 processor as used by
// the NES (the decimal-mode flag is tracked but never honored by the ALU,
// matching the 2A03's hardwired omission of BCD).
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import (
	"fmt"

	"github.com/bdwalton/gintendo/savestate"
)

// 6502 interrupt vectors.
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// Processor status flags.
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	FlagCarry    = 1 << 0 // C
	FlagZero     = 1 << 1 // Z
	FlagIRQ      = 1 << 2 // I - interrupt disable
	FlagDecimal  = 1 << 3 // D - decoded, never honored by the ALU
	FlagBreak    = 1 << 4 // B
	FlagUnused   = 1 << 5 // always 1 when pushed
	FlagOverflow = 1 << 6 // V
	FlagNegative = 1 << 7 // N
)

const stackPage = 0x0100

// Bus is the narrow interface the CPU uses to reach memory. All reads and
// writes go through it; the CPU never touches RAM, PPU registers, or
// cartridge space directly.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// CPU holds all 6502 register and timing state. It reads and writes memory
// exclusively through the Bus given to New.
type CPU struct {
	bus Bus

	a, x, y uint8
	sp      uint8
	sr      uint8
	pc      uint16

	remaining uint8 // cycles left before the next instruction may be decoded
	extra     uint8 // accumulated extra cycles for the instruction in flight

	pageCrossed bool // transient: set by operand resolution, read by dispatch

	nmiPending bool // latched NMI edge, serviced at the next instruction boundary

	totalCycles uint64
}

// New constructs a CPU wired to bus and brings it to power-up state: PC is
// loaded from the reset vector and SP starts at 0xFD with I/U/B set in SR.
func New(bus Bus) *CPU {
	c := &CPU{
		bus: bus,
		sp:  0xFD,
		sr:  FlagUnused | FlagBreak | FlagIRQ,
	}
	c.pc = c.read16(vectorReset)
	return c
}

// Reset restores the reset-vector PC and re-asserts I, per §4.1: SP -= 3, I
// is set, other registers are preserved, and the CPU spends 8 cycles before
// fetching its first post-reset instruction.
func (c *CPU) Reset() {
	c.sp -= 3
	c.sr |= FlagIRQ
	c.pc = c.read16(vectorReset)
	c.remaining = 8
	c.extra = 0
}

// PC, A, X, Y, SP, SR expose CPU state for debugging and serialization.
func (c *CPU) PC() uint16      { return c.pc }
func (c *CPU) A() uint8        { return c.a }
func (c *CPU) X() uint8        { return c.x }
func (c *CPU) Y() uint8        { return c.y }
func (c *CPU) SP() uint8       { return c.sp }
func (c *CPU) SR() uint8       { return c.sr }
func (c *CPU) SetPC(pc uint16) { c.pc = pc }

// Flag reports whether every bit in mask is set in the status register.
func (c *CPU) Flag(mask uint8) bool {
	return c.sr&mask == mask
}

// ExecuteCycle advances the CPU by one cycle. If an instruction is still in
// flight, it only decrements the remaining-cycle counter. Otherwise it
// services a pending interrupt or decodes and executes the next
// instruction atomically, then arms remaining with the rest of that
// instruction's cycles.
func (c *CPU) ExecuteCycle() {
	c.totalCycles++

	if c.remaining == 0 {
		if c.nmiPending {
			c.nmiPending = false
			c.serviceInterrupt(vectorNMI)
		} else {
			c.step()
		}
	}

	c.remaining--
}

// step decodes and executes exactly one instruction, arming c.remaining
// with its total cycle cost (base + page-cross/branch extras).
func (c *CPU) step() {
	c.extra = 0
	c.pageCrossed = false

	opcode := c.read(c.pc)
	op := opcodeTable[opcode]
	c.pc++

	startPC := c.pc
	op.exec(c, op.mode)

	if c.pc == startPC {
		c.pc += uint16(op.operandBytes)
	}

	if op.pageCrossSensitive && c.pageCrossed {
		c.extra++
	}

	c.remaining = op.cycles + c.extra
}

// AtInstructionBoundary reports whether the next ExecuteCycle call will
// decode a fresh instruction rather than continue one already in flight.
// Debuggers use this to single-step a whole instruction at a time.
func (c *CPU) AtInstructionBoundary() bool {
	return c.remaining == 0
}

// IRQ requests a maskable interrupt. It only takes effect at an instruction
// boundary and only if the I flag is clear; it reports whether it actually
// fired so the bus knows the line was serviced this tick.
func (c *CPU) IRQ() bool {
	if c.remaining != 0 || c.sr&FlagIRQ != 0 {
		return false
	}
	c.serviceInterrupt(vectorIRQ)
	return true
}

// NMI latches a non-maskable interrupt request. Real hardware samples the
// NMI line continuously but only acts on the edge at the next instruction
// boundary, however many cycles away that is, so the request must survive
// until then even if the CPU is mid-instruction right now.
func (c *CPU) NMI() {
	c.nmiPending = true
}

// serviceInterrupt pushes PC then SR (B=0, U=1), jumps through vector, and
// arms the 7-cycle interrupt sequence. Shared tail of IRQ and NMI delivery.
func (c *CPU) serviceInterrupt(vector uint16) {
	c.pushAddr(c.pc)
	c.pushStack((c.sr | FlagUnused) &^ FlagBreak)
	c.sr |= FlagIRQ
	c.pc = c.read16(vector)
	c.remaining = 7
}

func (c *CPU) read(addr uint16) uint8     { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v uint8) { c.bus.Write(addr, v) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) stackAddr() uint16 {
	return stackPage + uint16(c.sp)
}

func (c *CPU) pushStack(v uint8) {
	c.write(c.stackAddr(), v)
	c.sp--
}

func (c *CPU) popStack() uint8 {
	c.sp++
	return c.read(c.stackAddr())
}

// pushAddr pushes a 16-bit address high byte first, matching JSR/BRK/IRQ/NMI.
func (c *CPU) pushAddr(addr uint16) {
	c.pushStack(uint8(addr >> 8))
	c.pushStack(uint8(addr & 0xFF))
}

func (c *CPU) popAddr() uint16 {
	lo := uint16(c.popStack())
	hi := uint16(c.popStack())
	return hi<<8 | lo
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.sr |= mask
	} else {
		c.sr &^= mask
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// addrMode enumerates the thirteen 6502 addressing modes (§4.1).
type addrMode uint8

const (
	modeACC addrMode = iota
	modeIMM
	modeIMP
	modeZPG
	modeZPX
	modeZPY
	modeABS
	modeABX
	modeABY
	modeIND
	modeIZX
	modeIZY
	modeREL
)

var modeNames = map[addrMode]string{
	modeACC: "ACC", modeIMM: "IMM", modeIMP: "IMP", modeZPG: "ZPG",
	modeZPX: "ZPX", modeZPY: "ZPY", modeABS: "ABS", modeABX: "ABX",
	modeABY: "ABY", modeIND: "IND", modeIZX: "IZX", modeIZY: "IZY",
	modeREL: "REL",
}

// pageCrossedAddr reports whether addr1 and addr2 fall in different
// 256-byte pages.
func pageCrossedAddr(addr1, addr2 uint16) bool {
	return addr1&0xFF00 != addr2&0xFF00
}

// operandAddr resolves the effective address for mode, reading whatever
// operand bytes follow the opcode at c.pc (the caller must not have
// advanced pc past them yet). It sets c.pageCrossed for ABX/ABY/IZY so the
// dispatcher can decide whether this instruction's cycle count grows.
func (c *CPU) operandAddr(mode addrMode) uint16 {
	switch mode {
	case modeIMM:
		addr := c.pc
		c.pc++
		return addr
	case modeZPG:
		addr := uint16(c.read(c.pc))
		c.pc++
		return addr
	case modeZPX:
		addr := uint16(c.read(c.pc) + c.x)
		c.pc++
		return addr
	case modeZPY:
		addr := uint16(c.read(c.pc) + c.y)
		c.pc++
		return addr
	case modeABS:
		addr := c.read16(c.pc)
		c.pc += 2
		return addr
	case modeABX:
		base := c.read16(c.pc)
		c.pc += 2
		addr := base + uint16(c.x)
		c.pageCrossed = pageCrossedAddr(base, addr)
		return addr
	case modeABY:
		base := c.read16(c.pc)
		c.pc += 2
		addr := base + uint16(c.y)
		c.pageCrossed = pageCrossedAddr(base, addr)
		return addr
	case modeIND:
		ptr := c.read16(c.pc)
		c.pc += 2
		return c.read16Bugged(ptr)
	case modeIZX:
		zp := uint16(c.read(c.pc)+c.x) & 0xFF
		c.pc++
		return c.read16ZeroPage(zp)
	case modeIZY:
		zp := uint16(c.read(c.pc))
		c.pc++
		base := c.read16ZeroPage(zp)
		addr := base + uint16(c.y)
		c.pageCrossed = pageCrossedAddr(base, addr)
		return addr
	case modeREL:
		offset := int8(c.read(c.pc))
		c.pc++
		return uint16(int32(c.pc) + int32(offset))
	default:
		// ACC and IMP never resolve an address; every instruction that
		// uses them branches before calling operandAddr.
		return 0
	}
}

// read16Bugged reproduces the documented IND page-wrap bug: if the low
// byte of ptr is 0xFF, the high byte is fetched from the start of the same
// page rather than the next one.
func (c *CPU) read16Bugged(ptr uint16) uint16 {
	lo := uint16(c.read(ptr))
	hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
	hi := uint16(c.read(hiAddr))
	return hi<<8 | lo
}

// read16ZeroPage reads a 16-bit pointer stored at consecutive zero-page
// addresses, wrapping within the zero page.
func (c *CPU) read16ZeroPage(zp uint16) uint16 {
	lo := uint16(c.read(zp & 0xFF))
	hi := uint16(c.read((zp + 1) & 0xFF))
	return hi<<8 | lo
}

// OpcodeAt returns the mnemonic and addressing mode name for the byte
// currently stored at addr, without otherwise affecting CPU state.
func (c *CPU) OpcodeAt(addr uint16) (mnemonic string, mode string) {
	op := opcodeTable[c.read(addr)]
	return op.name, modeNames[op.mode]
}

// Disassemble renders a single instruction starting at addr in a
// nestest.log-compatible style and returns its encoded length in bytes.
func (c *CPU) Disassemble(addr uint16) (string, int) {
	opcode := c.read(addr)
	op := opcodeTable[opcode]
	length := 1 + int(op.operandBytes)

	switch op.mode {
	case modeACC:
		return fmt.Sprintf("%s A", op.name), length
	case modeIMP:
		return op.name, length
	case modeIMM:
		return fmt.Sprintf("%s #$%02X", op.name, c.read(addr+1)), length
	case modeZPG:
		return fmt.Sprintf("%s $%02X", op.name, c.read(addr+1)), length
	case modeZPX:
		return fmt.Sprintf("%s $%02X,X", op.name, c.read(addr+1)), length
	case modeZPY:
		return fmt.Sprintf("%s $%02X,Y", op.name, c.read(addr+1)), length
	case modeABS:
		return fmt.Sprintf("%s $%04X", op.name, c.peek16(addr+1)), length
	case modeABX:
		return fmt.Sprintf("%s $%04X,X", op.name, c.peek16(addr+1)), length
	case modeABY:
		return fmt.Sprintf("%s $%04X,Y", op.name, c.peek16(addr+1)), length
	case modeIND:
		return fmt.Sprintf("%s ($%04X)", op.name, c.peek16(addr+1)), length
	case modeIZX:
		return fmt.Sprintf("%s ($%02X,X)", op.name, c.read(addr+1)), length
	case modeIZY:
		return fmt.Sprintf("%s ($%02X),Y", op.name, c.read(addr+1)), length
	case modeREL:
		offset := int8(c.read(addr + 1))
		target := uint16(int32(addr+2) + int32(offset))
		return fmt.Sprintf("%s $%04X", op.name, target), length
	default:
		return op.name, length
	}
}

// peek16 reads a little-endian 16-bit value for disassembly purposes.
func (c *CPU) peek16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

// Serialize writes CPU state: A, X, Y, SP, SR, PC, then the in-flight
// cycle counters and the latched NMI edge.
func (c *CPU) Serialize(w *savestate.Writer) {
	w.WriteUint8(c.a)
	w.WriteUint8(c.x)
	w.WriteUint8(c.y)
	w.WriteUint8(c.sp)
	w.WriteUint8(c.sr)
	w.WriteUint16(c.pc)
	w.WriteUint8(c.remaining)
	w.WriteUint8(c.extra)
	w.WriteBool(c.nmiPending)
	w.WriteUint64(c.totalCycles)
}

// Deserialize restores CPU state written by Serialize.
func (c *CPU) Deserialize(r *savestate.Reader) error {
	var err error
	if c.a, err = r.ReadUint8(); err != nil {
		return err
	}
	if c.x, err = r.ReadUint8(); err != nil {
		return err
	}
	if c.y, err = r.ReadUint8(); err != nil {
		return err
	}
	if c.sp, err = r.ReadUint8(); err != nil {
		return err
	}
	if c.sr, err = r.ReadUint8(); err != nil {
		return err
	}
	if c.pc, err = r.ReadUint16(); err != nil {
		return err
	}
	if c.remaining, err = r.ReadUint8(); err != nil {
		return err
	}
	if c.extra, err = r.ReadUint8(); err != nil {
		return err
	}
	if c.nmiPending, err = r.ReadBool(); err != nil {
		return err
	}
	if c.totalCycles, err = r.ReadUint64(); err != nil {
		return err
	}
	return nil
}
