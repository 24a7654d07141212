package mappers

import (
	"os"
	"testing"

	"github.com/bdwalton/gintendo/nesrom"
)

// buildROM writes a minimal but valid iNES file to a temp path and parses
// it with nesrom.New, since that's the only supported way to obtain a
// *nesrom.ROM. prgBanks/chrBanks are in 16KB/8KB units, and flags6Extra
// is ORed into header byte 6. Every PRG and CHR byte is set to the index
// of the bank it sits in, so bank-switch tests can tell banks apart by
// fingerprinting the byte under the cursor, not just by address.
func buildROM(t *testing.T, mapperNum uint8, prgBanks, chrBanks uint8, flags6Extra uint8) *nesrom.ROM {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "mappertest-*.nes")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := f.Name()
	t.Cleanup(func() { os.Remove(path) })

	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = prgBanks
	header[5] = chrBanks
	header[6] = (mapperNum&0x0F)<<4 | flags6Extra
	header[7] = mapperNum & 0xF0

	if _, err := f.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}

	prg := make([]byte, 16384*int(prgBanks))
	for i := range prg {
		// Each 16KB bank's bytes start with its own bank index, so a
		// test can confirm which bank landed at a given CPU address.
		prg[i] = byte(i / 16384)
	}
	if _, err := f.Write(prg); err != nil {
		t.Fatalf("write prg: %v", err)
	}

	if chrBanks > 0 {
		chr := make([]byte, 8192*int(chrBanks))
		for i := range chr {
			chr[i] = byte(i / 8192)
		}
		if _, err := f.Write(chr); err != nil {
			t.Fatalf("write chr: %v", err)
		}
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rom, err := nesrom.New(path)
	if err != nil {
		t.Fatalf("nesrom.New(%q): %v", path, err)
	}
	return rom
}

// buildROM8kPRG is buildROM's sibling for mappers whose PRG windows are
// 8KB rather than 16KB (MMC3, MMC2): it fingerprints every 8KB chunk
// independently so adjacent sub-16KB banks are still distinguishable.
func buildROM8kPRG(t *testing.T, mapperNum uint8, prgBanks16k, chrBanks uint8) *nesrom.ROM {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "mappertest8k-*.nes")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := f.Name()
	t.Cleanup(func() { os.Remove(path) })

	header := make([]byte, 16)
	copy(header[0:4], "NES\x1A")
	header[4] = prgBanks16k
	header[5] = chrBanks
	header[6] = (mapperNum & 0x0F) << 4
	header[7] = mapperNum & 0xF0

	if _, err := f.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}

	prg := make([]byte, 16384*int(prgBanks16k))
	for i := range prg {
		prg[i] = byte(i / 8192)
	}
	if _, err := f.Write(prg); err != nil {
		t.Fatalf("write prg: %v", err)
	}

	if chrBanks > 0 {
		chr := make([]byte, 8192*int(chrBanks))
		if _, err := f.Write(chr); err != nil {
			t.Fatalf("write chr: %v", err)
		}
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rom, err := nesrom.New(path)
	if err != nil {
		t.Fatalf("nesrom.New(%q): %v", path, err)
	}
	return rom
}
