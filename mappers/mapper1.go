package mappers

import (
	"github.com/bdwalton/gintendo/nesrom"
	"github.com/bdwalton/gintendo/savestate"
)

func init() {
	RegisterMapper(1, func() Mapper { return &mapper1{baseMapper: newBaseMapper(1, "MMC1")} })
}

// mapper1 is MMC1 (SxROM): every CPU write in $8000-$FFFF feeds a single
// bit into a 5-bit shift register, LSB first. On the fifth write the
// accumulated value latches into one of four internal registers selected
// by the address of that fifth write (control, CHR bank 0, CHR bank 1, PRG
// bank); writing with bit 7 set resets the shift register and forces the
// control register's PRG mode back to 3, independent of the write's
// address. PRG-RAM occupies $6000-$7FFF and can be disabled by software.
type mapper1 struct {
	baseMapper

	shift    uint8
	shiftPos uint8

	control uint8 // bit0-1 mirroring, bit2-3 PRG mode, bit4 CHR mode
	chr0    uint8
	chr1    uint8
	prg     uint8 // bit0-3 PRG bank; the PRG register's bit4 (PRG-RAM disable) is kept in prgRAMEnable

	prgRAM       []uint8
	prgRAMEnable bool

	chrRAM []uint8 // used when the cartridge has no CHR ROM
}

func (m *mapper1) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prgRAM = make([]uint8, 0x2000)
	if r.ChrIsRAM() {
		m.chrRAM = make([]uint8, 0x2000)
	}
	m.Reset()
}

func (m *mapper1) Reset() {
	m.shift = 0
	m.shiftPos = 0
	m.control = 0x0C // power-on: PRG mode 3 (fix last bank high, switch low)
	m.chr0, m.chr1, m.prg = 0, 0, 0
	m.prgRAMEnable = true
}

func (m *mapper1) usesChrRAM() bool { return m.chrRAM != nil }

func (m *mapper1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *mapper1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mapper1) PrgRead(addr uint16) uint8 {
	if addr < 0x6000 {
		return 0
	}
	if addr < 0x8000 {
		if !m.prgRAMEnable {
			return 0
		}
		return m.prgRAM[addr-0x6000]
	}

	banks16k := uint16(m.rom.PrgSize() / 0x4000)
	bank := uint16(m.prg & 0x0F)

	switch m.prgMode() {
	case 0, 1: // 32KB switch, ignoring low bit of bank number
		b32 := uint16(m.prg&0x0E) >> 1
		return m.rom.PrgRead(b32*0x8000 + (addr - 0x8000))
	case 2: // fix first bank at $8000, switch $C000
		if addr < 0xC000 {
			return m.rom.PrgRead(addr - 0x8000)
		}
		return m.rom.PrgRead(bank*0x4000 + (addr - 0xC000))
	default: // 3: switch $8000, fix last bank at $C000
		if addr < 0xC000 {
			return m.rom.PrgRead(bank*0x4000 + (addr - 0x8000))
		}
		return m.rom.PrgRead((banks16k-1)*0x4000 + (addr - 0xC000))
	}
}

func (m *mapper1) ViewPrg(addr uint16) uint8 { return m.PrgRead(addr) }

func (m *mapper1) PrgWrite(addr uint16, val uint8) {
	if addr < 0x6000 {
		return
	}
	if addr < 0x8000 {
		if m.prgRAMEnable {
			m.prgRAM[addr-0x6000] = val
		}
		return
	}

	if val&0x80 != 0 {
		m.shift = 0
		m.shiftPos = 0
		m.control |= 0x0C
		return
	}

	m.shift |= (val & 0x01) << m.shiftPos
	m.shiftPos++
	if m.shiftPos < 5 {
		return
	}

	value := m.shift
	m.shift = 0
	m.shiftPos = 0

	switch {
	case addr < 0xA000:
		m.control = value
	case addr < 0xC000:
		m.chr0 = value
	case addr < 0xE000:
		m.chr1 = value
	default:
		m.prg = value & 0x0F
		m.prgRAMEnable = value&0x10 == 0
	}
}

func (m *mapper1) chrBankOffset(addr uint16) uint16 {
	if m.chrMode() == 0 {
		// single switchable 8KB bank, ignoring low bit of the selector
		return uint16(m.chr0&0x1E)/2*0x2000 + addr
	}
	if addr < 0x1000 {
		return uint16(m.chr0) * 0x1000 + addr
	}
	return uint16(m.chr1)*0x1000 + (addr - 0x1000)
}

func (m *mapper1) ChrRead(addr uint16) uint8 {
	if m.usesChrRAM() {
		return m.chrRAM[addr&0x1FFF]
	}
	return m.rom.ChrRead(m.chrBankOffset(addr))
}

func (m *mapper1) ChrWrite(addr uint16, val uint8) {
	if m.usesChrRAM() {
		m.chrRAM[addr&0x1FFF] = val
	}
}

func (m *mapper1) ViewChr(addr uint16) uint8 {
	if m.usesChrRAM() {
		return m.chrRAM[addr&0x1FFF]
	}
	return m.rom.ChrRead(m.chrBankOffset(addr))
}

func (m *mapper1) MirrorMode() Mirror {
	switch m.control & 0x03 {
	case 0:
		return MirrorOneScreenLower
	case 1:
		return MirrorOneScreenUpper
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (m *mapper1) Serialize(w *savestate.Writer) {
	w.WriteUint8(m.shift)
	w.WriteUint8(m.shiftPos)
	w.WriteUint8(m.control)
	w.WriteUint8(m.chr0)
	w.WriteUint8(m.chr1)
	w.WriteUint8(m.prg)
	w.WriteBool(m.prgRAMEnable)
	w.WriteBytes(m.prgRAM)
	if m.usesChrRAM() {
		w.WriteBytes(m.chrRAM)
	}
}

func (m *mapper1) Deserialize(r *savestate.Reader) error {
	var err error
	if m.shift, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.shiftPos, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.control, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chr0, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chr1, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.prg, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.prgRAMEnable, err = r.ReadBool(); err != nil {
		return err
	}
	if m.prgRAM, err = r.ReadBytes(); err != nil {
		return err
	}
	if m.usesChrRAM() {
		if m.chrRAM, err = r.ReadBytes(); err != nil {
			return err
		}
	}
	return nil
}
