package mappers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapper0MirrorsA16KBImageAcrossBothHalves(t *testing.T) {
	rom := buildROM(t, 0, 1, 1, 0)
	m := &mapper0{baseMapper: newBaseMapper(0, "NROM"), prgRAM: make([]uint8, 0x2000)}
	m.Init(rom)

	require.Equal(t, m.PrgRead(0x8000), m.PrgRead(0xC000))
	require.Equal(t, m.PrgRead(0xBFFF), m.PrgRead(0xFFFF))
}

func TestMapper0DoesNotMirror32KBImage(t *testing.T) {
	rom := buildROM(t, 0, 2, 1, 0)
	m := &mapper0{baseMapper: newBaseMapper(0, "NROM"), prgRAM: make([]uint8, 0x2000)}
	m.Init(rom)

	require.EqualValues(t, 0, m.PrgRead(0x8000))
	require.EqualValues(t, 1, m.PrgRead(0xC000))
}

func TestMapper0PrgRAMReadWrite(t *testing.T) {
	rom := buildROM(t, 0, 1, 1, 0)
	m := &mapper0{baseMapper: newBaseMapper(0, "NROM"), prgRAM: make([]uint8, 0x2000)}
	m.Init(rom)

	m.PrgWrite(0x6000, 0x42)
	require.EqualValues(t, 0x42, m.PrgRead(0x6000))
	require.EqualValues(t, 0x42, m.ViewPrg(0x6000))
}

func TestMapper0ResetIsANoOp(t *testing.T) {
	rom := buildROM(t, 0, 1, 1, 0)
	m := &mapper0{baseMapper: newBaseMapper(0, "NROM"), prgRAM: make([]uint8, 0x2000)}
	m.Init(rom)
	m.PrgWrite(0x6000, 0x99)

	m.Reset()

	require.EqualValues(t, 0x99, m.PrgRead(0x6000), "NROM has no bank state to reset")
}
