package mappers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newMapper3(t *testing.T, prgBanks, chrBanks uint8) *mapper3 {
	t.Helper()
	rom := buildROM(t, 3, prgBanks, chrBanks, 0)
	m := &mapper3{baseMapper: newBaseMapper(3, "CNROM")}
	m.Init(rom)
	return m
}

func TestMapper3SwitchesCHRBank(t *testing.T) {
	m := newMapper3(t, 2, 4)

	m.PrgWrite(0x8000, 0x02)

	require.EqualValues(t, 2, m.ChrRead(0x0000))
	require.EqualValues(t, 2, m.ViewChr(0x0000))
}

func TestMapper3CHRBankSelectMasksToTwoBits(t *testing.T) {
	m := newMapper3(t, 2, 4)

	m.PrgWrite(0x8000, 0xFF) // only the low 2 bits should stick

	require.EqualValues(t, 3, m.ChrRead(0x0000))
}

func TestMapper3PrgIsReadOnly(t *testing.T) {
	m := newMapper3(t, 2, 1)

	before := m.PrgRead(0x8000)
	m.PrgWrite(0x9000, 0xFF) // any $8000-$FFFF write only moves the CHR bank
	after := m.PrgRead(0x8000)

	require.Equal(t, before, after)
}

func TestMapper3ResetClearsCHRBank(t *testing.T) {
	m := newMapper3(t, 2, 4)
	m.PrgWrite(0x8000, 0x03)

	m.Reset()

	require.EqualValues(t, 0, m.ChrRead(0x0000))
}
