package mappers

import (
	"github.com/bdwalton/gintendo/nesrom"
	"github.com/bdwalton/gintendo/savestate"
)

func init() {
	RegisterMapper(2, func() Mapper { return &mapper2{baseMapper: newBaseMapper(2, "UxROM")} })
}

// mapper2 is UxROM: a single switchable 16KB PRG bank at $8000-$BFFF and a
// fixed 16KB bank (the last one in the ROM) at $C000-$FFFF. CHR is always
// RAM (8KB, not bank switched).
type mapper2 struct {
	baseMapper
	prgBank uint8
	chrRAM  []uint8
}

func (m *mapper2) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.chrRAM = make([]uint8, 0x2000)
}

func (m *mapper2) Reset() { m.prgBank = 0 }

func (m *mapper2) lastBankOffset() uint16 {
	return uint16(m.rom.PrgSize()/0x4000-1) * 0x4000
}

func (m *mapper2) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	if addr < 0xC000 {
		return m.rom.PrgRead(uint16(m.prgBank)*0x4000 + (addr - 0x8000))
	}
	return m.rom.PrgRead(m.lastBankOffset() + (addr - 0xC000))
}

func (m *mapper2) ViewPrg(addr uint16) uint8 { return m.PrgRead(addr) }

func (m *mapper2) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.prgBank = val & 0x0F
	}
}

func (m *mapper2) ChrRead(addr uint16) uint8      { return m.chrRAM[addr&0x1FFF] }
func (m *mapper2) ChrWrite(addr uint16, val uint8) { m.chrRAM[addr&0x1FFF] = val }
func (m *mapper2) ViewChr(addr uint16) uint8       { return m.chrRAM[addr&0x1FFF] }

func (m *mapper2) MirrorMode() Mirror { return m.headerMirrorMode() }

func (m *mapper2) Serialize(w *savestate.Writer) {
	w.WriteUint8(m.prgBank)
	w.WriteBytes(m.chrRAM)
}

func (m *mapper2) Deserialize(r *savestate.Reader) error {
	var err error
	if m.prgBank, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chrRAM, err = r.ReadBytes(); err != nil {
		return err
	}
	return nil
}
