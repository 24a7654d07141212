package mappers

import (
	"github.com/bdwalton/gintendo/savestate"
)

func init() {
	RegisterMapper(0, func() Mapper {
		return &mapper0{baseMapper: newBaseMapper(0, "NROM"), prgRAM: make([]uint8, 0x2000)}
	})
}

// mapper0 is NROM: no bank switching at all. PRG is 16KB (mirrored into
// both halves of $8000-$FFFF) or 32KB; CHR is a single fixed 8KB bank,
// ROM or RAM depending on the header.
type mapper0 struct {
	baseMapper
	prgRAM []uint8
}

func (m *mapper0) Reset() {}

func (m *mapper0) PrgRead(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return m.prgRAM[addr-0x6000]
	default:
		return m.rom.PrgRead(m.prgOffset(addr))
	}
}

func (m *mapper0) PrgWrite(addr uint16, val uint8) {
	if addr < 0x8000 {
		m.prgRAM[addr-0x6000] = val
	}
	// PRG ROM is not writable on NROM.
}

func (m *mapper0) ViewPrg(addr uint16) uint8 {
	if addr < 0x8000 {
		return m.prgRAM[addr-0x6000]
	}
	return m.rom.PrgRead(m.prgOffset(addr))
}

// prgOffset folds $8000-$FFFF onto the ROM's PRG bytes, mirroring a 16KB
// image across both halves of the window.
func (m *mapper0) prgOffset(addr uint16) uint16 {
	off := addr - 0x8000
	if m.rom.PrgSize() <= 0x4000 {
		off %= 0x4000
	}
	return off
}

func (m *mapper0) ChrRead(addr uint16) uint8      { return m.rom.ChrRead(addr) }
func (m *mapper0) ChrWrite(addr uint16, val uint8) { m.rom.ChrWrite(addr, val) }
func (m *mapper0) ViewChr(addr uint16) uint8       { return m.rom.ChrRead(addr) }

func (m *mapper0) MirrorMode() Mirror { return m.headerMirrorMode() }

func (m *mapper0) Serialize(w *savestate.Writer) {
	w.WriteBytes(m.prgRAM)
}

func (m *mapper0) Deserialize(r *savestate.Reader) error {
	ram, err := r.ReadBytes()
	if err != nil {
		return err
	}
	m.prgRAM = ram
	return nil
}
