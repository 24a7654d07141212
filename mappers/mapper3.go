package mappers

import "github.com/bdwalton/gintendo/savestate"

func init() {
	RegisterMapper(3, func() Mapper { return &mapper3{baseMapper: newBaseMapper(3, "CNROM")} })
}

// mapper3 is CNROM: fixed PRG (16KB mirrored or 32KB, same as NROM) and a
// single switchable 8KB CHR bank. Real boards latch only 2 bits and
// suffer a bus conflict on the select write; bus-conflict emulation is
// out of scope here, so the low 2 bits of the written value select the
// bank without being combined with the ROM byte at that address.
type mapper3 struct {
	baseMapper
	chrBank uint8
}

func (m *mapper3) Reset() { m.chrBank = 0 }

func (m *mapper3) prgOffset(addr uint16) uint16 {
	off := addr - 0x8000
	if m.rom.PrgSize() <= 0x4000 {
		off %= 0x4000
	}
	return off
}

func (m *mapper3) PrgRead(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return m.rom.PrgRead(m.prgOffset(addr))
}
func (m *mapper3) ViewPrg(addr uint16) uint8     { return m.PrgRead(addr) }
func (m *mapper3) PrgWrite(addr uint16, val uint8) {
	if addr >= 0x8000 {
		m.chrBank = val & 0x03
	}
}

func (m *mapper3) ChrRead(addr uint16) uint8 {
	return m.rom.ChrRead(uint16(m.chrBank)*0x2000 + addr)
}
func (m *mapper3) ChrWrite(addr uint16, val uint8) {}
func (m *mapper3) ViewChr(addr uint16) uint8       { return m.ChrRead(addr) }

func (m *mapper3) MirrorMode() Mirror { return m.headerMirrorMode() }

func (m *mapper3) Serialize(w *savestate.Writer)           { w.WriteUint8(m.chrBank) }
func (m *mapper3) Deserialize(r *savestate.Reader) error {
	v, err := r.ReadUint8()
	if err != nil {
		return err
	}
	m.chrBank = v
	return nil
}
