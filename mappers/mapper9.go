package mappers

import "github.com/bdwalton/gintendo/savestate"

func init() {
	RegisterMapper(9, func() Mapper { return &mapper9{baseMapper: newBaseMapper(9, "MMC2")} })
}

// mapper9 is MMC2 (used by Punch-Out!!): one switchable 8KB PRG bank at
// $8000-$9FFF plus three fixed 8KB banks filling the rest of the PRG
// window, and two independent CHR latch pairs. Each latch flips between
// its two banks when the PPU fetches the tile conventionally named $FD or
// $FE in the corresponding CHR half, which is how the board swaps in the
// alternate status-bar pattern mid-frame without CPU intervention.
type mapper9 struct {
	baseMapper

	prgBankSelect uint8 // 4 bits, selects the $8000-$9FFF 8KB window

	chrBank1Select [2]uint8 // indexed by latch1 (0 = "FD" bank, 1 = "FE" bank)
	chrBank2Select [2]uint8
	latch1, latch2 uint8 // 0 or 1, current selection for each half

	vertical bool
}

func (m *mapper9) Reset() {
	m.prgBankSelect = 0
	m.chrBank1Select = [2]uint8{}
	m.chrBank2Select = [2]uint8{}
	m.latch1, m.latch2 = 0, 0
}

func (m *mapper9) PrgRead(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return 0
	case addr < 0xA000:
		return m.rom.PrgRead(uint16(m.prgBankSelect)*0x2000 + (addr - 0x8000))
	default:
		banks := m.rom.PrgSize() / 0x2000
		fixedIndex := uint16(addr-0xA000) / 0x2000 // 0,1,2 for A000/C000/E000
		bank := uint16(banks) - 3 + fixedIndex
		return m.rom.PrgRead(bank*0x2000 + (addr-0xA000)%0x2000)
	}
}
func (m *mapper9) ViewPrg(addr uint16) uint8 { return m.PrgRead(addr) }

func (m *mapper9) PrgWrite(addr uint16, val uint8) {
	switch {
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBankSelect = val & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.chrBank1Select[0] = val & 0x1F
	case addr >= 0xC000 && addr < 0xD000:
		m.chrBank1Select[1] = val & 0x1F
	case addr >= 0xD000 && addr < 0xE000:
		m.chrBank2Select[0] = val & 0x1F
	case addr >= 0xE000 && addr < 0xF000:
		m.chrBank2Select[1] = val & 0x1F
	case addr >= 0xF000:
		m.vertical = val&0x01 != 0
	}
}

func (m *mapper9) ChrRead(addr uint16) uint8 {
	v := m.chrReadRaw(addr)
	m.updateLatches(addr)
	return v
}

func (m *mapper9) ViewChr(addr uint16) uint8 { return m.chrReadRaw(addr) }

func (m *mapper9) chrReadRaw(addr uint16) uint8 {
	if addr < 0x1000 {
		return m.rom.ChrRead(uint16(m.chrBank1Select[m.latch1])*0x1000 + addr)
	}
	return m.rom.ChrRead(uint16(m.chrBank2Select[m.latch2])*0x1000 + (addr - 0x1000))
}

// updateLatches flips latch1/latch2 when the PPU fetches the pattern
// bytes of the magic $FD/$FE tiles in either CHR half.
func (m *mapper9) updateLatches(addr uint16) {
	switch {
	case addr >= 0x0FD8 && addr <= 0x0FDF:
		m.latch1 = 0
	case addr >= 0x0FE8 && addr <= 0x0FEF:
		m.latch1 = 1
	case addr >= 0x1FD8 && addr <= 0x1FDF:
		m.latch2 = 0
	case addr >= 0x1FE8 && addr <= 0x1FEF:
		m.latch2 = 1
	}
}

func (m *mapper9) ChrWrite(addr uint16, val uint8) {} // CHR is ROM on MMC2

func (m *mapper9) MirrorMode() Mirror {
	if m.vertical {
		return MirrorVertical
	}
	return MirrorHorizontal
}

func (m *mapper9) Serialize(w *savestate.Writer) {
	w.WriteUint8(m.prgBankSelect)
	w.WriteUint8(m.chrBank1Select[0])
	w.WriteUint8(m.chrBank1Select[1])
	w.WriteUint8(m.chrBank2Select[0])
	w.WriteUint8(m.chrBank2Select[1])
	w.WriteUint8(m.latch1)
	w.WriteUint8(m.latch2)
	w.WriteBool(m.vertical)
}

func (m *mapper9) Deserialize(r *savestate.Reader) error {
	var err error
	if m.prgBankSelect, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chrBank1Select[0], err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chrBank1Select[1], err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chrBank2Select[0], err = r.ReadUint8(); err != nil {
		return err
	}
	if m.chrBank2Select[1], err = r.ReadUint8(); err != nil {
		return err
	}
	if m.latch1, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.latch2, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.vertical, err = r.ReadBool(); err != nil {
		return err
	}
	return nil
}
