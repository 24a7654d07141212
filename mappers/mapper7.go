package mappers

import (
	"github.com/bdwalton/gintendo/nesrom"
	"github.com/bdwalton/gintendo/savestate"
)

func init() {
	RegisterMapper(7, func() Mapper { return &mapper7{baseMapper: newBaseMapper(7, "AxROM")} })
}

// mapper7 is AxROM: a single write anywhere in $8000-$FFFF selects the
// current 32KB PRG bank (bits 0-2) and which physical CIRAM bank every
// nametable aliases to (bit 4), giving the board one-screen mirroring
// that software can flip at runtime. CHR is always RAM.
type mapper7 struct {
	baseMapper
	prgBank uint8
	oneScreenUpper bool
	chrRAM []uint8
}

func (m *mapper7) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.chrRAM = make([]uint8, 0x2000)
}

func (m *mapper7) Reset() { m.prgBank, m.oneScreenUpper = 0, false }

func (m *mapper7) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.rom.PrgRead(uint16(m.prgBank)*0x8000 + (addr - 0x8000))
}
func (m *mapper7) ViewPrg(addr uint16) uint8 { return m.PrgRead(addr) }
func (m *mapper7) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = val & 0x07
	m.oneScreenUpper = val&0x10 != 0
}

func (m *mapper7) ChrRead(addr uint16) uint8      { return m.chrRAM[addr&0x1FFF] }
func (m *mapper7) ChrWrite(addr uint16, val uint8) { m.chrRAM[addr&0x1FFF] = val }
func (m *mapper7) ViewChr(addr uint16) uint8       { return m.chrRAM[addr&0x1FFF] }

func (m *mapper7) MirrorMode() Mirror {
	if m.oneScreenUpper {
		return MirrorOneScreenUpper
	}
	return MirrorOneScreenLower
}

func (m *mapper7) Serialize(w *savestate.Writer) {
	w.WriteUint8(m.prgBank)
	w.WriteBool(m.oneScreenUpper)
	w.WriteBytes(m.chrRAM)
}
func (m *mapper7) Deserialize(r *savestate.Reader) error {
	var err error
	if m.prgBank, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.oneScreenUpper, err = r.ReadBool(); err != nil {
		return err
	}
	if m.chrRAM, err = r.ReadBytes(); err != nil {
		return err
	}
	return nil
}
