// Package console wires the CPU, PPU, APU, and cartridge mapper
// together into a running NES: it owns system RAM, decodes the CPU
// address space, and drives the master-clock tick that keeps every
// chip in lockstep.
package console

import (
	"math"

	"github.com/bdwalton/gintendo/apu"
	"github.com/bdwalton/gintendo/mappers"
	"github.com/bdwalton/gintendo/mos6502"
	"github.com/bdwalton/gintendo/ppu"
	"github.com/bdwalton/gintendo/savestate"
)

const (
	ramSize = 0x0800 // 2KB built-in RAM, mirrored through $1FFF

	maxAddress = math.MaxUint16

	oamDMARegister = 0x4014
	ctrl1Register  = 0x4016
	ctrl2Register  = 0x4017
	apuStatus      = 0x4015

	// cpuClockHz is the NTSC CPU (and master tick) rate; PAL timing is a
	// documented non-goal.
	cpuClockHz    = 1789773
	audioSampleHz = 44100
	// audioSampleInterval is ceil(cpuClockHz/audioSampleHz) master ticks
	// between pushed samples.
	audioSampleInterval = (cpuClockHz + audioSampleHz - 1) / audioSampleHz
)

// dmaKind identifies which DMA state machine, if any, currently owns
// the bus instead of the CPU.
type dmaKind uint8

const (
	dmaNone dmaKind = iota
	dmaOAM
	dmaDMC
)

type Bus struct {
	cpu    *mos6502.CPU
	ppu    *ppu.PPU
	apu    *apu.APU
	mapper mappers.Mapper
	ram    []uint8

	controllers [2]controller

	dmaActive      dmaKind
	cpuCycleCount  uint64
	oamSrcBase     uint16
	oamBytesLeft   int
	oamReadPending bool
	oamLatch       uint8
	oamDummyLeft   int
	dmcCyclesLeft  int
	dmcPendingAddr uint16
	dmcQueuedAddr  uint16
	dmcQueued      bool

	audio        sampleQueue
	audioCounter int
}

// New constructs a Bus around m and brings the CPU up from the reset
// vector. m is expected to already have been produced by mappers.Get,
// which calls Init for you.
func New(m mappers.Mapper) *Bus {
	b := &Bus{mapper: m, ram: make([]uint8, ramSize)}
	b.cpu = mos6502.New(b)
	b.ppu = ppu.New(m)
	b.apu = apu.New(b)
	return b
}

// Reset returns every component to its power-up/reset state, as spec'd
// for a driver calling bus.reset() between frames: the CPU jumps back to
// the reset vector, the PPU and APU clear their latches, and the mapper
// board resets its bank-select state. System RAM is left untouched,
// matching real hardware.
func (b *Bus) Reset() {
	b.dmaActive = dmaNone
	b.cpuCycleCount = 0
	b.oamSrcBase = 0
	b.oamBytesLeft = 0
	b.oamReadPending = false
	b.oamLatch = 0
	b.oamDummyLeft = 0
	b.dmcCyclesLeft = 0
	b.dmcPendingAddr = 0
	b.dmcQueuedAddr = 0
	b.dmcQueued = false
	b.audio.Erase()
	b.audioCounter = 0

	b.mapper.Reset()
	b.ppu.Reset()
	b.apu.Reset()
	b.cpu.Reset()
}

// SetButtons latches controller n's (0 or 1) held buttons for the
// current frame; see the Button* constants in controller.go.
func (b *Bus) SetButtons(n int, state uint8) {
	b.controllers[n].SetButtons(state)
}

// Frame returns the PPU's frame buffer and its resolution, for the
// frontend to blit.
func (b *Bus) Frame() ([]byte, int, int) {
	px := b.ppu.GetPixels()
	w, h := b.ppu.GetResolution()
	out := make([]byte, 0, w*h*4)
	for _, c := range px {
		out = append(out, c...)
	}
	return out, w, h
}

func (b *Bus) Read(addr uint16) uint8 {
	// https://www.nesdev.org/wiki/CPU_memory_map
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadReg(0x2000 + addr&0x0007)
	case addr == apuStatus:
		return b.apu.ReadStatus()
	case addr == ctrl1Register:
		return b.controllers[0].read()
	case addr == ctrl2Register:
		return b.controllers[1].read()
	case addr < 0x4018:
		return 0 // remaining APU registers are write-only
	case addr < 0x4020:
		return 0 // open bus / APU test space
	default:
		return b.mapper.PrgRead(addr)
	}
}

func (b *Bus) Write(addr uint16, val uint8) {
	// https://www.nesdev.org/wiki/CPU_memory_map
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = val
	case addr < 0x4000:
		b.ppu.WriteReg(0x2000+addr&0x0007, val)
	case addr == oamDMARegister:
		b.triggerOAMDMA(val)
	case addr == ctrl1Register:
		// Writing $4016 strobes both controller shift registers at once;
		// $4017's low bit instead belongs to the APU frame counter.
		b.controllers[0].write(val)
		b.controllers[1].write(val)
	case addr < 0x4018:
		b.apu.WriteRegister(addr, val)
	case addr < 0x4020:
		// open bus / APU test space
	default:
		b.mapper.PrgWrite(addr, val)
	}
}

// RequestDMCDMA implements apu.DMARequester. If OAM DMA is in progress
// the request is queued rather than interleaved with it.
func (b *Bus) RequestDMCDMA(addr uint16) {
	if b.dmaActive == dmaOAM {
		b.dmcQueuedAddr = addr
		b.dmcQueued = true
		return
	}
	b.startDMCDMA(addr)
}

func (b *Bus) startDMCDMA(addr uint16) {
	b.dmaActive = dmaDMC
	b.dmcCyclesLeft = 4
	b.dmcPendingAddr = addr
}

func (b *Bus) triggerOAMDMA(page uint8) {
	b.oamSrcBase = uint16(page) << 8
	b.oamBytesLeft = 256
	b.oamReadPending = true
	b.oamDummyLeft = 1
	if b.cpuCycleCount%2 == 1 {
		b.oamDummyLeft++
	}
	b.dmaActive = dmaOAM
}

func (b *Bus) stepOAMDMA() {
	if b.oamDummyLeft > 0 {
		b.oamDummyLeft--
		return
	}
	if b.oamReadPending {
		b.oamLatch = b.Read(b.oamSrcBase + uint16(256-b.oamBytesLeft))
		b.oamReadPending = false
		return
	}
	b.ppu.WriteOAMByte(b.oamLatch)
	b.oamReadPending = true
	b.oamBytesLeft--
	if b.oamBytesLeft == 0 {
		b.dmaActive = dmaNone
		b.maybeStartQueuedDMC()
	}
}

func (b *Bus) stepDMCDMA() {
	b.dmcCyclesLeft--
	if b.dmcCyclesLeft == 0 {
		val := b.Read(b.dmcPendingAddr)
		b.apu.ReceiveDMCSample(val)
		b.dmaActive = dmaNone
		b.maybeStartQueuedDMC()
	}
}

func (b *Bus) maybeStartQueuedDMC() {
	if b.dmaActive == dmaNone && b.dmcQueued {
		b.dmcQueued = false
		b.startDMCDMA(b.dmcQueuedAddr)
	}
}

func (b *Bus) stepDMA() {
	switch b.dmaActive {
	case dmaOAM:
		b.stepOAMDMA()
	case dmaDMC:
		b.stepDMCDMA()
	}
}

// harvestInterrupts delivers whatever interrupt lines the PPU, mapper
// and APU have asserted this tick to the CPU. The PPU's NMI line is
// edge-triggered (ConsumeNMI clears it on read); IRQ is level-triggered
// and keeps firing until the source that raised it is acknowledged.
func (b *Bus) harvestInterrupts() {
	if b.ppu.ConsumeNMI() {
		b.cpu.NMI()
	}
	if b.ppu.PendingIRQ() || b.apu.IRQ() {
		b.cpu.IRQ()
	}
}

// Tick advances every chip by one master tick: three PPU dots, then
// either a CPU cycle or a step of whichever DMA is stalling it, then
// an APU half-step, then interrupt delivery.
func (b *Bus) Tick() {
	for i := 0; i < 3; i++ {
		b.ppu.Step()
	}

	if b.dmaActive != dmaNone {
		b.stepDMA()
	} else {
		b.cpu.ExecuteCycle()
	}

	b.apu.HalfStep()
	b.cpuCycleCount++
	b.harvestInterrupts()

	b.audioCounter++
	if b.audioCounter >= audioSampleInterval {
		b.audioCounter = 0
		b.audio.ForcePush(b.apu.Output())
	}
}

// PullSamples drains up to len(dst) queued audio samples into dst,
// returning how many were written. The audio sink calls this on its own
// schedule; if it falls behind, the queue has already dropped the
// oldest samples rather than stalling the master clock.
func (b *Bus) PullSamples(dst []float32) int {
	n := 0
	for n < len(dst) && b.audio.Size() > 0 {
		dst[n] = b.audio.Pop()
		n++
	}
	return n
}

// StepInstruction ticks the bus until the CPU has consumed a full
// instruction (including any DMA stall it lands inside of), for use by
// an interactive debugger.
func (b *Bus) StepInstruction() {
	b.Tick()
	for !b.cpu.AtInstructionBoundary() {
		b.Tick()
	}
}

// Serialize writes the entire console's state in Bus -> CPU -> PPU ->
// APU -> Mapper order.
func (b *Bus) Serialize(w *savestate.Writer) {
	w.WriteRaw(b.ram)
	w.WriteUint8(uint8(b.dmaActive))
	w.WriteUint64(b.cpuCycleCount)
	w.WriteUint16(b.oamSrcBase)
	w.WriteUint16(uint16(b.oamBytesLeft))
	w.WriteBool(b.oamReadPending)
	w.WriteUint8(b.oamLatch)
	w.WriteUint16(uint16(b.oamDummyLeft))
	w.WriteUint16(uint16(b.dmcCyclesLeft))
	w.WriteUint16(b.dmcPendingAddr)
	w.WriteUint16(b.dmcQueuedAddr)
	w.WriteBool(b.dmcQueued)

	b.cpu.Serialize(w)
	b.ppu.Serialize(w)
	b.apu.Serialize(w)
	b.mapper.Serialize(w)
}

// Deserialize restores state written by Serialize, in the same order.
func (b *Bus) Deserialize(r *savestate.Reader) error {
	if err := r.ReadBytesInto(b.ram); err != nil {
		return err
	}
	dmaKindByte, err := r.ReadUint8()
	if err != nil {
		return err
	}
	b.dmaActive = dmaKind(dmaKindByte)
	if b.cpuCycleCount, err = r.ReadUint64(); err != nil {
		return err
	}
	if b.oamSrcBase, err = r.ReadUint16(); err != nil {
		return err
	}
	oamBytesLeft, err := r.ReadUint16()
	if err != nil {
		return err
	}
	b.oamBytesLeft = int(oamBytesLeft)
	if b.oamReadPending, err = r.ReadBool(); err != nil {
		return err
	}
	if b.oamLatch, err = r.ReadUint8(); err != nil {
		return err
	}
	oamDummyLeft, err := r.ReadUint16()
	if err != nil {
		return err
	}
	b.oamDummyLeft = int(oamDummyLeft)
	dmcCyclesLeft, err := r.ReadUint16()
	if err != nil {
		return err
	}
	b.dmcCyclesLeft = int(dmcCyclesLeft)
	if b.dmcPendingAddr, err = r.ReadUint16(); err != nil {
		return err
	}
	if b.dmcQueuedAddr, err = r.ReadUint16(); err != nil {
		return err
	}
	if b.dmcQueued, err = r.ReadBool(); err != nil {
		return err
	}

	if err := b.cpu.Deserialize(r); err != nil {
		return err
	}
	if err := b.ppu.Deserialize(r); err != nil {
		return err
	}
	if err := b.apu.Deserialize(r); err != nil {
		return err
	}
	return b.mapper.Deserialize(r)
}
