package apu

import (
	"testing"

	"github.com/bdwalton/gintendo/savestate"
	"github.com/stretchr/testify/require"
)

type testBus struct {
	requested []uint16
}

func (b *testBus) RequestDMCDMA(addr uint16) { b.requested = append(b.requested, addr) }

func TestPulseTimerGatesOutput(t *testing.T) {
	a := New(&testBus{})
	a.WriteRegister(0x4000, 0b10_11_1111) // duty 2, halt, constant volume 15
	a.WriteRegister(0x4002, 0x00)
	a.WriteRegister(0x4003, 0x00) // timer < 8: channel must be silent
	a.WriteRegister(0x4015, StatusPulse1)

	require.Zero(t, a.pulse1.output(), "timer under 8 should mute the pulse channel")
}

func TestStatusWriteClearsLengthWhenDisabled(t *testing.T) {
	a := New(&testBus{})
	a.WriteRegister(0x4000, 0b10_00_1111)
	a.WriteRegister(0x4002, 0xFF)
	a.WriteRegister(0x4003, 0x07) // loads a nonzero length counter
	a.WriteRegister(0x4015, StatusPulse1)
	require.NotZero(t, a.pulse1.lengthCounter)

	a.WriteRegister(0x4015, 0x00)
	require.Zero(t, a.pulse1.lengthCounter)
}

func TestReadStatusReportsLengthCounters(t *testing.T) {
	a := New(&testBus{})
	a.WriteRegister(0x4000, 0b10_00_1111)
	a.WriteRegister(0x4002, 0xFF)
	a.WriteRegister(0x4003, 0x07)
	a.WriteRegister(0x4015, StatusPulse1)

	require.Equal(t, uint8(StatusPulse1), a.ReadStatus())
}

func TestFrameIRQFiresOnFourStepMode(t *testing.T) {
	a := New(&testBus{})
	a.writeFrameCounter(0x00) // 4-step mode, IRQ enabled

	for i := 0; i < 14915; i++ {
		a.step()
	}
	require.True(t, a.frameIRQFlag)
	require.True(t, a.IRQ())

	a.ReadStatus()
	require.False(t, a.frameIRQFlag, "reading $4015 should clear the frame IRQ flag")
}

func TestFrameCounterInhibitSuppressesIRQ(t *testing.T) {
	a := New(&testBus{})
	a.writeFrameCounter(0x40) // IRQ inhibit set

	for i := 0; i < 14915; i++ {
		a.step()
	}
	require.False(t, a.frameIRQFlag)
	require.False(t, a.IRQ())
}

func TestFiveStepModeClocksImmediatelyAndSkipsIRQ(t *testing.T) {
	a := New(&testBus{})
	a.WriteRegister(0x4000, 0b10_00_1111)
	a.WriteRegister(0x4002, 0xFF)
	a.WriteRegister(0x4003, 0x07)
	a.WriteRegister(0x4015, StatusPulse1)
	before := a.pulse1.lengthCounter

	a.writeFrameCounter(0x80) // 5-step mode clocks length/envelope immediately

	require.Less(t, a.pulse1.lengthCounter, before)
	require.False(t, a.frameIRQFlag, "5-step mode never raises the frame IRQ")
}

func TestHalfStepDividesCPURate(t *testing.T) {
	a := New(&testBus{})
	a.WriteRegister(0x4000, 0b00_00_1111)
	a.WriteRegister(0x4002, 0xFF)
	a.WriteRegister(0x4003, 0x07)
	a.WriteRegister(0x4015, StatusPulse1)

	before := a.pulse1.timerCounter
	a.HalfStep()
	require.Equal(t, before, a.pulse1.timerCounter, "odd half-step should not advance internal state")
	a.HalfStep()
	require.NotEqual(t, before, a.pulse1.timerCounter, "even half-step should advance internal state")
}

func TestDMCRequestsSampleAsSoonAsEnabled(t *testing.T) {
	bus := &testBus{}
	a := New(bus)
	a.WriteRegister(0x4012, 0x00) // sample address $C000
	a.WriteRegister(0x4013, 0x00) // sample length 1
	a.WriteRegister(0x4015, StatusDMC)

	require.Equal(t, []uint16{0xC000}, bus.requested, "enabling DMC with an empty buffer should immediately fetch the first sample")
}

func TestDMCRequestsNextSampleOnceShiftRegisterRunsDry(t *testing.T) {
	bus := &testBus{}
	a := New(bus)
	a.WriteRegister(0x4012, 0x00)
	a.WriteRegister(0x4013, 0xFF) // long sample, so the second fetch isn't end-of-sample
	a.WriteRegister(0x4015, StatusDMC)
	a.ReceiveDMCSample(0xAA)
	require.Len(t, bus.requested, 1)

	for i := 0; i < int(dmcRateTable[0])*9; i++ {
		a.stepDMC()
	}
	require.Len(t, bus.requested, 2, "DMC should request the next sample once the shift register empties")
	require.Equal(t, uint16(0xC001), bus.requested[1])
}

func TestDMCSampleAdvancesAddressAndSignalsIRQAtEnd(t *testing.T) {
	a := New(&testBus{})
	a.WriteRegister(0x4010, 0x80) // IRQ enable, rate 0, no loop
	a.WriteRegister(0x4012, 0x00)
	a.WriteRegister(0x4013, 0x00) // length 1: exactly one sample
	a.WriteRegister(0x4015, StatusDMC)

	a.ReceiveDMCSample(0xAA)
	require.Zero(t, a.dmcBytesRemaining)
	require.True(t, a.dmcIRQFlag)
	require.True(t, a.IRQ())
}

func TestSerializeDeserializeRoundTrips(t *testing.T) {
	a := New(&testBus{})
	a.WriteRegister(0x4000, 0b10_01_1100)
	a.WriteRegister(0x4001, 0b1_011_1_010)
	a.WriteRegister(0x4002, 0xAB)
	a.WriteRegister(0x4003, 0x05)
	a.WriteRegister(0x4015, StatusPulse1|StatusPulse2)
	a.writeFrameCounter(0x80)

	w := savestate.NewWriter()
	a.Serialize(w)

	r, err := savestate.NewReader(w.Bytes())
	require.NoError(t, err)

	got := New(&testBus{})
	require.NoError(t, got.Deserialize(r))
	require.Equal(t, a.pulse1, got.pulse1)
	require.Equal(t, a.frameMode, got.frameMode)
	require.Equal(t, a.dmcSampleLength, got.dmcSampleLength)
}
