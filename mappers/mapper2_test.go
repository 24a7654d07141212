package mappers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newMapper2(t *testing.T, prgBanks uint8) *mapper2 {
	t.Helper()
	rom := buildROM(t, 2, prgBanks, 0, 0)
	m := &mapper2{baseMapper: newBaseMapper(2, "UxROM")}
	m.Init(rom)
	return m
}

func TestMapper2SwitchesLowBankFixesLast(t *testing.T) {
	m := newMapper2(t, 4)

	m.PrgWrite(0x8000, 0x02)

	require.EqualValues(t, 2, m.PrgRead(0x8000), "switchable $8000 window tracks the last write")
	require.EqualValues(t, 3, m.PrgRead(0xC000), "fixed $C000 window always shows the last bank")
}

func TestMapper2ChrIsAlwaysRAM(t *testing.T) {
	m := newMapper2(t, 2)

	m.ChrWrite(0x0100, 0x55)
	require.EqualValues(t, 0x55, m.ChrRead(0x0100))
	require.EqualValues(t, 0x55, m.ViewChr(0x0100))
}

func TestMapper2ResetClearsBankSelect(t *testing.T) {
	m := newMapper2(t, 4)
	m.PrgWrite(0x8000, 0x03)

	m.Reset()

	require.EqualValues(t, 0, m.PrgRead(0x8000))
}
