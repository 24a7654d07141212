package mappers

import "github.com/bdwalton/gintendo/savestate"

func init() {
	RegisterMapper(66, func() Mapper { return &mapper66{baseMapper: newBaseMapper(66, "GxROM")} })
}

// mapper66 is GxROM: a single write anywhere in $8000-$FFFF sets both the
// current 32KB PRG bank (bits 4-5) and the current 8KB CHR bank (bits
// 0-1). Both PRG and CHR are read-only ROM.
type mapper66 struct {
	baseMapper
	prgBank uint8
	chrBank uint8
}

func (m *mapper66) Reset() { m.prgBank, m.chrBank = 0, 0 }

func (m *mapper66) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.rom.PrgRead(uint16(m.prgBank)*0x8000 + (addr - 0x8000))
}
func (m *mapper66) ViewPrg(addr uint16) uint8 { return m.PrgRead(addr) }
func (m *mapper66) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.prgBank = (val >> 4) & 0x03
		m.chrBank = val & 0x03
	}
}

func (m *mapper66) ChrRead(addr uint16) uint8 {
	return m.rom.ChrRead(uint16(m.chrBank)*0x2000 + addr)
}
func (m *mapper66) ChrWrite(addr uint16, val uint8) {}
func (m *mapper66) ViewChr(addr uint16) uint8       { return m.ChrRead(addr) }

func (m *mapper66) MirrorMode() Mirror { return m.headerMirrorMode() }

func (m *mapper66) Serialize(w *savestate.Writer) {
	w.WriteUint8(m.prgBank)
	w.WriteUint8(m.chrBank)
}
func (m *mapper66) Deserialize(r *savestate.Reader) error {
	var err error
	if m.prgBank, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chrBank, err = r.ReadUint8(); err != nil {
		return err
	}
	return nil
}
