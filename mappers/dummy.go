package mappers

import (
	"math"

	"github.com/bdwalton/gintendo/nesrom"
	"github.com/bdwalton/gintendo/savestate"
)

// dummyMapper is a flat 64KB memory used by bus/cpu/ppu tests that need a
// Mapper but don't care about real bank-switching semantics.
type dummyMapper struct {
	memory []uint8
	mirror Mirror // tests can set as needed
}

func NewDummy() Mapper {
	return &dummyMapper{memory: make([]uint8, math.MaxUint16+1)}
}

func (dm *dummyMapper) ID() uint8    { return 0xFF }
func (dm *dummyMapper) Name() string { return "dummy mapper" }

func (dm *dummyMapper) Init(r *nesrom.ROM) {}
func (dm *dummyMapper) Reset()             {}

func (dm *dummyMapper) PrgRead(addr uint16) uint8      { return dm.memory[addr] }
func (dm *dummyMapper) PrgWrite(addr uint16, val uint8) { dm.memory[addr] = val }
func (dm *dummyMapper) ViewPrg(addr uint16) uint8      { return dm.memory[addr] }

func (dm *dummyMapper) ChrRead(addr uint16) uint8      { return dm.memory[addr] }
func (dm *dummyMapper) ChrWrite(addr uint16, val uint8) { dm.memory[addr] = val }
func (dm *dummyMapper) ViewChr(addr uint16) uint8      { return dm.memory[addr] }

func (dm *dummyMapper) MirrorMode() Mirror     { return dm.mirror }
func (dm *dummyMapper) SetMirror(m Mirror)     { dm.mirror = m }
func (dm *dummyMapper) HasSaveRAM() bool       { return true }
func (dm *dummyMapper) OnScanlineEnd() bool    { return false }

func (dm *dummyMapper) Serialize(w *savestate.Writer) { w.WriteBytes(dm.memory) }
func (dm *dummyMapper) Deserialize(r *savestate.Reader) error {
	mem, err := r.ReadBytes()
	if err != nil {
		return err
	}
	dm.memory = mem
	return nil
}

// Dummy is a ready-to-use instance for tests that just need a Mapper and
// don't care about per-test isolation.
var Dummy Mapper = NewDummy()
