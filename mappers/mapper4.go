package mappers

import (
	"github.com/bdwalton/gintendo/nesrom"
	"github.com/bdwalton/gintendo/savestate"
)

func init() {
	RegisterMapper(4, func() Mapper { return &mapper4{baseMapper: newBaseMapper(4, "MMC3")} })
}

// mapper4 is MMC3 (TxROM): an even/odd pair of registers at $8000/$8001
// selects which of 8 banking registers the next data write targets and in
// which of two PRG/CHR layouts the fixed and switchable windows sit; a
// second even/odd pair at $A000/$A001 controls mirroring and PRG-RAM
// protection. A down counter clocked once per scanline by the PPU (via
// OnScanlineEnd) drives a one-shot IRQ used for split-screen and status-bar
// effects; real boards clock it from PPU A12 toggling, which lands once
// per visible scanline under normal rendering.
type mapper4 struct {
	baseMapper

	bankSelect uint8 // bit0-2 target register, bit6 PRG mode, bit7 CHR mode
	bankData   [8]uint8

	mirrorVertical bool
	prgRAMEnable   bool
	prgRAMWriteProtect bool

	irqReloadValue   uint8
	irqCounter       uint8
	irqReloadPending bool
	irqEnabled       bool
	irqRequest       bool

	prgRAM []uint8
	chrRAM []uint8
}

func (m *mapper4) Init(r *nesrom.ROM) {
	m.baseMapper.Init(r)
	m.prgRAM = make([]uint8, 0x2000)
	if r.ChrIsRAM() {
		m.chrRAM = make([]uint8, 0x2000)
	}
	m.Reset()
}

func (m *mapper4) Reset() {
	m.bankSelect = 0
	m.bankData = [8]uint8{}
	m.mirrorVertical = false
	m.prgRAMEnable = true
	m.prgRAMWriteProtect = false
	m.irqReloadValue, m.irqCounter = 0, 0
	m.irqReloadPending, m.irqEnabled, m.irqRequest = false, false, false
}

func (m *mapper4) usesChrRAM() bool { return m.chrRAM != nil }

func (m *mapper4) prgBanks8k() uint16 { return uint16(m.rom.PrgSize() / 0x2000) }

// prgBankFor resolves which of the 4 8KB PRG windows a CPU address falls
// in to a bank index, honoring bankSelect bit6 (PRG mode).
func (m *mapper4) prgBankFor(addr uint16) uint16 {
	banks := m.prgBanks8k()
	secondLast := banks - 2
	last := banks - 1

	window := (addr - 0x8000) / 0x2000 // 0,1,2,3
	swapMode := m.bankSelect&0x40 != 0

	switch window {
	case 0:
		if swapMode {
			return secondLast
		}
		return uint16(m.bankData[6])
	case 1:
		return uint16(m.bankData[7])
	case 2:
		if swapMode {
			return uint16(m.bankData[6])
		}
		return secondLast
	default:
		return last
	}
}

func (m *mapper4) PrgRead(addr uint16) uint8 {
	if addr < 0x6000 {
		return 0
	}
	if addr < 0x8000 {
		if !m.prgRAMEnable {
			return 0
		}
		return m.prgRAM[addr-0x6000]
	}
	bank := m.prgBankFor(addr)
	return m.rom.PrgRead(bank*0x2000 + (addr-0x8000)%0x2000)
}

func (m *mapper4) ViewPrg(addr uint16) uint8 { return m.PrgRead(addr) }

func (m *mapper4) PrgWrite(addr uint16, val uint8) {
	if addr < 0x6000 {
		return
	}
	if addr < 0x8000 {
		if m.prgRAMEnable && !m.prgRAMWriteProtect {
			m.prgRAM[addr-0x6000] = val
		}
		return
	}

	even := addr%2 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.bankSelect = val
		} else {
			m.bankData[m.bankSelect&0x07] = val
		}
	case addr < 0xC000:
		if even {
			m.mirrorVertical = val&0x01 == 0
		} else {
			m.prgRAMEnable = val&0x80 != 0
			m.prgRAMWriteProtect = val&0x40 != 0
		}
	case addr < 0xE000:
		if even {
			m.irqReloadValue = val
		} else {
			m.irqCounter = 0
			m.irqReloadPending = true
		}
	default:
		if even {
			m.irqEnabled = false
			m.irqRequest = false
		} else {
			m.irqEnabled = true
		}
	}
}

// chrBankFor resolves a PPU address to a CHR bank/offset pair honoring
// bankSelect bit7 (CHR mode), which swaps which half holds the two 2KB
// banks versus the four 1KB banks.
func (m *mapper4) chrBankFor(addr uint16) uint16 {
	inverted := m.bankSelect&0x80 != 0
	region := addr / 0x0400 // 0..7, each 1KB
	if inverted {
		region ^= 0x04
	}

	switch region {
	case 0:
		return uint16(m.bankData[0]&0xFE)*0x0400 + addr%0x0800
	case 1:
		return uint16(m.bankData[0]|0x01)*0x0400 + (addr-0x0400)%0x0800
	case 2:
		return uint16(m.bankData[1]&0xFE)*0x0400 + (addr-0x0800)%0x0800
	case 3:
		return uint16(m.bankData[1]|0x01)*0x0400 + (addr-0x0C00)%0x0800
	case 4:
		return uint16(m.bankData[2])*0x0400 + addr%0x0400
	case 5:
		return uint16(m.bankData[3])*0x0400 + addr%0x0400
	case 6:
		return uint16(m.bankData[4])*0x0400 + addr%0x0400
	default:
		return uint16(m.bankData[5])*0x0400 + addr%0x0400
	}
}

func (m *mapper4) ChrRead(addr uint16) uint8 {
	if m.usesChrRAM() {
		return m.chrRAM[addr&0x1FFF]
	}
	return m.rom.ChrRead(m.chrBankFor(addr))
}

func (m *mapper4) ChrWrite(addr uint16, val uint8) {
	if m.usesChrRAM() {
		m.chrRAM[addr&0x1FFF] = val
	}
}

func (m *mapper4) ViewChr(addr uint16) uint8 {
	if m.usesChrRAM() {
		return m.chrRAM[addr&0x1FFF]
	}
	return m.rom.ChrRead(m.chrBankFor(addr))
}

func (m *mapper4) MirrorMode() Mirror {
	if m.mirrorVertical {
		return MirrorVertical
	}
	return MirrorHorizontal
}

// OnScanlineEnd clocks the scanline IRQ counter once per visible scanline
// and reports whether the IRQ request is asserted. The request is raised
// when the counter reaches zero with the IRQ enabled and stays raised
// until a write to $E000 acknowledges it.
func (m *mapper4) OnScanlineEnd() bool {
	if m.irqCounter == 0 || m.irqReloadPending {
		m.irqCounter = m.irqReloadValue
		m.irqReloadPending = false
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irqRequest = true
	}
	return m.irqRequest
}

func (m *mapper4) Serialize(w *savestate.Writer) {
	w.WriteUint8(m.bankSelect)
	w.WriteRaw(m.bankData[:])
	w.WriteBool(m.mirrorVertical)
	w.WriteBool(m.prgRAMEnable)
	w.WriteBool(m.prgRAMWriteProtect)
	w.WriteUint8(m.irqReloadValue)
	w.WriteUint8(m.irqCounter)
	w.WriteBool(m.irqReloadPending)
	w.WriteBool(m.irqEnabled)
	w.WriteBool(m.irqRequest)
	w.WriteBytes(m.prgRAM)
	if m.usesChrRAM() {
		w.WriteBytes(m.chrRAM)
	}
}

func (m *mapper4) Deserialize(r *savestate.Reader) error {
	var err error
	if m.bankSelect, err = r.ReadUint8(); err != nil {
		return err
	}
	if err = r.ReadBytesInto(m.bankData[:]); err != nil {
		return err
	}
	if m.mirrorVertical, err = r.ReadBool(); err != nil {
		return err
	}
	if m.prgRAMEnable, err = r.ReadBool(); err != nil {
		return err
	}
	if m.prgRAMWriteProtect, err = r.ReadBool(); err != nil {
		return err
	}
	if m.irqReloadValue, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.irqCounter, err = r.ReadUint8(); err != nil {
		return err
	}
	if m.irqReloadPending, err = r.ReadBool(); err != nil {
		return err
	}
	if m.irqEnabled, err = r.ReadBool(); err != nil {
		return err
	}
	if m.irqRequest, err = r.ReadBool(); err != nil {
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
