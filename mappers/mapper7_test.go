package mappers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newMapper7(t *testing.T, prg32kBanks uint8) *mapper7 {
	t.Helper()
	rom := buildROM(t, 7, prg32kBanks*2, 0, 0) // header counts PRG in 16KB units
	m := &mapper7{baseMapper: newBaseMapper(7, "AxROM")}
	m.Init(rom)
	return m
}

func TestMapper7SelectsWholeBank(t *testing.T) {
	m := newMapper7(t, 4) // 4 * 32KB

	m.PrgWrite(0x8000, 0x00)
	bank0 := m.PrgRead(0x8000)

	m.PrgWrite(0x8000, 0x02)
	bank2 := m.PrgRead(0x8000)

	require.NotEqual(t, bank0, bank2, "switching the bank select must change what's visible at $8000")
	require.EqualValues(t, m.rom.PrgRead(uint16(2)*0x8000), bank2)
}

func TestMapper7OneScreenMirrorFollowsSelectBit(t *testing.T) {
	m := newMapper7(t, 1)

	m.PrgWrite(0x8000, 0x00)
	require.Equal(t, MirrorOneScreenLower, m.MirrorMode())

	m.PrgWrite(0x8000, 0x10)
	require.Equal(t, MirrorOneScreenUpper, m.MirrorMode())
}

func TestMapper7ChrIsRAM(t *testing.T) {
	m := newMapper7(t, 1)

	m.ChrWrite(0x0000, 0x42)
	require.EqualValues(t, 0x42, m.ChrRead(0x0000))
}

func TestMapper7ResetClearsBankAndMirror(t *testing.T) {
	m := newMapper7(t, 2)
	m.PrgWrite(0x8000, 0x13)

	m.Reset()

	require.EqualValues(t, 0, m.prgBank)
	require.Equal(t, MirrorOneScreenLower, m.MirrorMode())
}
