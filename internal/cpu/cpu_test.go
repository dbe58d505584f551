package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBus is a flat 64KB address space satisfying the cpu.Bus interface,
// standing in for internal/bus in unit tests that only need correct CPU
// semantics, not real memory-map routing.
type fakeBus struct {
	mem   [0x10000]byte
	ie    byte
	ifReg byte
	ticks int
}

func newFakeBus(program ...byte) *fakeBus {
	b := &fakeBus{}
	copy(b.mem[0x0100:], program)
	return b
}

func (b *fakeBus) Read(addr uint16) byte     { return b.mem[addr] }
func (b *fakeBus) Write(addr uint16, v byte) { b.mem[addr] = v }
func (b *fakeBus) Tick(mCycles int)          { b.ticks += mCycles }
func (b *fakeBus) IE() byte                  { return b.ie }
func (b *fakeBus) IF() byte                  { return b.ifReg }
func (b *fakeBus) SetIF(v byte)              { b.ifReg = v & 0x1F }

func newCPU(program ...byte) (*CPU, *fakeBus) {
	b := newFakeBus(program...)
	return New(b), b
}

func TestNopAdvancesPCByOneAndCosts4TCycles(t *testing.T) {
	c, _ := newCPU(0x00) // NOP
	cyc, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, 1, cyc) // 1 M-cycle == 4 T-cycles
	require.Equal(t, uint16(0x0101), c.Registers().PC)
}

func TestLoadImmediateThenXorClearsAAndSetsZero(t *testing.T) {
	c, _ := newCPU(0x3E, 0x12, 0xAF) // LD A,0x12; XOR A
	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, byte(0x12), c.Registers().A)

	_, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, byte(0x00), c.Registers().A)
	require.NotZero(t, c.Registers().F&flagZ)
	require.Zero(t, c.Registers().F&(flagN|flagH|flagC))
}

func TestMemoryLoadRoundTripThroughAbsoluteAddress(t *testing.T) {
	prog := []byte{
		0x3E, 0x77, // LD A,0x77
		0xEA, 0x00, 0xC0, // LD (0xC000),A
		0x3E, 0x00, // LD A,0x00
		0xFA, 0x00, 0xC0, // LD A,(0xC000)
	}
	c, b := newCPU(prog...)
	for range prog {
		// step once per opcode boundary isn't exact, so just run enough steps
	}
	for i := 0; i < 4; i++ {
		_, err := c.Step()
		require.NoError(t, err)
	}
	require.Equal(t, byte(0x77), b.Read(0xC000))
	require.Equal(t, byte(0x77), c.Registers().A)
}

func TestJpAndJrBranch(t *testing.T) {
	b := newFakeBus()
	b.mem[0x0100] = 0xC3 // JP 0x0010
	b.mem[0x0101] = 0x10
	b.mem[0x0102] = 0x00
	b.mem[0x0010] = 0x18 // JR -2 (infinite self-loop)
	b.mem[0x0011] = 0xFE
	c := New(b)

	cyc, err := c.Step() // JP
	require.NoError(t, err)
	require.Equal(t, 4, cyc) // 16 T-cycles
	require.Equal(t, uint16(0x0010), c.Registers().PC)

	_, err = c.Step() // JR -2
	require.NoError(t, err)
	require.Equal(t, uint16(0x0010), c.Registers().PC)
}

func TestIncBFlagsAndHalfCarry(t *testing.T) {
	c, _ := newCPU(0x04, 0x04) // INC B twice
	c.Registers().B = 0x0F
	c.Registers().F = flagC

	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, byte(0x10), c.Registers().B)
	require.NotZero(t, c.Registers().F&flagH)
	require.NotZero(t, c.Registers().F&flagC, "INC must preserve C")

	c.Registers().B = 0xFF
	_, err = c.Step()
	require.NoError(t, err)
	require.Equal(t, byte(0x00), c.Registers().B)
	require.NotZero(t, c.Registers().F&flagZ)
}

func TestCallAndRetRoundTrip(t *testing.T) {
	b := newFakeBus()
	b.mem[0x0100] = 0xCD // CALL 0x0105
	b.mem[0x0101] = 0x05
	b.mem[0x0102] = 0x01
	b.mem[0x0105] = 0xC9 // RET
	c := New(b)

	_, err := c.Step() // CALL
	require.NoError(t, err)
	require.Equal(t, uint16(0x0105), c.Registers().PC)

	cyc, err := c.Step() // RET
	require.NoError(t, err)
	require.Equal(t, uint16(0x0103), c.Registers().PC)
	require.Equal(t, 4, cyc) // 16 T-cycles
}

func TestPushPopAFMasksLowNibble(t *testing.T) {
	c, _ := newCPU(0xF5, 0xC1) // PUSH AF; POP BC
	c.Registers().A = 0xAB
	c.Registers().F = 0xFF // garbage low nibble, real flags would never set these

	_, err := c.Step() // PUSH AF
	require.NoError(t, err)
	_, err = c.Step() // POP BC
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), c.Registers().B)
	require.Equal(t, byte(0xF0), c.Registers().C, "low nibble of F must read back as zero")
}

func TestStackRoundTripViaPushWordPopWord(t *testing.T) {
	c, b := newCPU()
	c.Registers().SP = 0xFFFE
	c.pushWord(0x1234)
	require.Equal(t, uint16(0xFFFC), c.Registers().SP)
	require.Equal(t, byte(0x34), b.Read(0xFFFC))
	require.Equal(t, byte(0x12), b.Read(0xFFFD))

	got := c.popWord()
	require.Equal(t, uint16(0x1234), got)
	require.Equal(t, uint16(0xFFFE), c.Registers().SP)
}

func TestInterruptDispatchClearsIFAndPushesPC(t *testing.T) {
	c, b := newCPU(0x00) // any opcode; interrupt fires before fetch
	c.Registers().SP = 0xFFFE
	c.Registers().PC = 0x0100
	c.intr.ime = true
	b.ie = IntVBlank
	b.ifReg = IntVBlank

	_, err := c.Step()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0040), c.Registers().PC, "dispatched to VBlank vector")
	require.False(t, c.intr.ime, "IME cleared on dispatch")
	require.Zero(t, b.ifReg&IntVBlank, "IF bit cleared on dispatch")

	poppedPC := uint16(b.Read(0xFFFC)) | uint16(b.Read(0xFFFD))<<8
	require.Equal(t, uint16(0x0100), poppedPC, "return address pushed is the pre-interrupt PC")
}

func TestHaltWakesOnPendingInterruptWithoutIME(t *testing.T) {
	c, b := newCPU(0x76) // HALT
	_, err := c.Step()
	require.NoError(t, err)
	require.True(t, c.IsHalted())

	b.ie = IntTimer
	b.ifReg = IntTimer
	_, err = c.Step()
	require.NoError(t, err)
	require.False(t, c.IsHalted(), "a pending unmasked interrupt wakes HALT even with IME clear")
}

func TestHaltBugDoubleFetchesTheFollowingByteWhenInterruptAlreadyPending(t *testing.T) {
	c, b := newCPU(0x76, 0x00) // HALT; NOP
	b.ie = IntTimer
	b.ifReg = IntTimer // already pending, but IME is clear (default post-Reset)

	_, err := c.Step() // HALT itself: hits the bug, never actually halts
	require.NoError(t, err)
	require.False(t, c.IsHalted(), "IME clear + pending IE&IF means HALT doesn't actually halt")
	require.Equal(t, uint16(0x0101), c.Registers().PC)

	_, err = c.Step() // the byte after HALT (the NOP) executes, but PC fails to advance past it
	require.NoError(t, err)
	require.Equal(t, uint16(0x0101), c.Registers().PC, "PC doesn't advance: the halt bug re-reads this byte next step")

	_, err = c.Step() // same NOP byte fetched again, this time advancing normally
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), c.Registers().PC, "second fetch of the same byte advances PC as usual")
}

func TestHaltWithoutPendingInterruptHaltsNormally(t *testing.T) {
	c, _ := newCPU(0x76, 0x00) // HALT; NOP — nothing pending, so no halt bug
	_, err := c.Step()
	require.NoError(t, err)
	require.True(t, c.IsHalted(), "HALT actually parks the CPU when no interrupt is already pending")
	require.Equal(t, uint16(0x0101), c.Registers().PC)
}

func TestEITakesEffectOnlyAfterTheFollowingInstruction(t *testing.T) {
	c, b := newCPU(0xFB, 0x00, 0x00) // EI; NOP; NOP
	b.ie = IntVBlank
	b.ifReg = IntVBlank // pending throughout, to observe exactly when it dispatches

	_, err := c.Step() // EI itself: only schedules the enable, IME stays clear
	require.NoError(t, err)
	require.False(t, c.intr.ime, "IME must still read false immediately after EI executes")
	require.Equal(t, uint16(0x0101), c.Registers().PC, "no dispatch yet: EI's own fetch already advanced PC past it")

	_, err = c.Step() // the instruction right after EI: IME flips true once this one completes
	require.NoError(t, err)
	require.True(t, c.intr.ime, "IME becomes true only once the instruction following EI has run")

	_, err = c.Step() // now that IME is true, the pending interrupt dispatches on the next Step
	require.NoError(t, err)
	require.Equal(t, uint16(0x0040), c.Registers().PC, "pending interrupt dispatches now that IME is set")
}

func TestInvalidOpcodeLocksCPU(t *testing.T) {
	c, _ := newCPU(0xD3) // undefined opcode
	_, err := c.Step()
	require.Error(t, err)

	locked, lockErr := c.Locked()
	require.True(t, locked)
	require.Equal(t, err, lockErr)

	_, err = c.Step()
	require.Error(t, err, "a locked CPU refuses further steps")
}

func TestRegisterPairRoundTrip(t *testing.T) {
	var r Registers
	r.Set16(RegHL, 0xBEEF)
	require.Equal(t, uint16(0xBEEF), r.Get16(RegHL))
	require.Equal(t, byte(0xBE), r.H)
	require.Equal(t, byte(0xEF), r.L)
}

func TestSetAFAlwaysMasksLowNibble(t *testing.T) {
	var r Registers
	r.Set16(RegAF, 0x12FF)
	require.Equal(t, byte(0xF0), r.F, "AF writes always clear F's low nibble")
	require.Equal(t, uint16(0x12F0), r.Get16(RegAF))
}
