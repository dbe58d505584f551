package apu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPowerOffRejectsWritesToChannelRegisters(t *testing.T) {
	a := New()
	a.CPUWrite(0xFF26, 0x00) // power off (default already off, explicit for clarity)
	a.CPUWrite(0xFF11, 0xAA)
	require.Equal(t, byte(0x3F), a.CPURead(0xFF11), "write dropped while powered off, only unused-bit mask reads back")
}

func TestPowerOnAllowsChannelRegisterWrites(t *testing.T) {
	a := New()
	a.CPUWrite(0xFF26, 0x80) // power on
	a.CPUWrite(0xFF11, 0xAA)
	require.Equal(t, byte(0xAA|0x3F), a.CPURead(0xFF11))
}

func TestPoweringOffDoesNotClearAlreadyStoredRegisters(t *testing.T) {
	a := New()
	a.CPUWrite(0xFF26, 0x80)
	a.CPUWrite(0xFF11, 0xAA)
	a.CPUWrite(0xFF26, 0x00) // power off again
	require.Equal(t, byte(0xAA|0x3F), a.CPURead(0xFF11), "existing register contents survive a power-off")
}

func TestNR52ReadReflectsPowerBit(t *testing.T) {
	a := New()
	require.Equal(t, byte(0x70), a.CPURead(0xFF26), "powered off reads 0 in bit7 plus the always-set mask bits")

	a.CPUWrite(0xFF26, 0x80)
	require.Equal(t, byte(0xF0), a.CPURead(0xFF26))
}

func TestWaveRAMPassesThroughRegardlessOfPower(t *testing.T) {
	a := New()
	a.CPUWrite(0xFF30, 0x5A) // wave RAM writable even while powered off
	require.Equal(t, byte(0x5A), a.CPURead(0xFF30))
}

func TestUnmappedAddressReadsOpenBus(t *testing.T) {
	a := New()
	require.Equal(t, byte(0xFF), a.CPURead(0xFF00))
}

func TestTickIsANoOp(t *testing.T) {
	a := New()
	a.CPUWrite(0xFF26, 0x80)
	a.CPUWrite(0xFF11, 0x12)
	before := a.CPURead(0xFF11)
	a.Tick(1_000_000)
	require.Equal(t, before, a.CPURead(0xFF11))
}
