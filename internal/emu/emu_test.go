package emu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStepFrameAdvancesPPUThroughAFullFrame drives the PPU only through
// Machine.Step -> cpu.CPU.tick -> bus.Bus.Tick, the real path a front end
// uses, rather than poking ppu.PPU.Tick or bus.Bus.Tick directly with a
// hand-picked dot count. It guards against Bus.Tick feeding the PPU M-cycles
// where it expects dots (1 M-cycle == 4 dots): with that scaling missing,
// one frame's cyclesPerFrame M-cycle budget only advances the PPU a quarter
// of the way through the 154-line frame instead of wrapping it back to LY=0.
func TestStepFrameAdvancesPPUThroughAFullFrame(t *testing.T) {
	rom := make([]byte, 0x8000) // all 0x00 == NOP, one M-cycle each
	m := New(Config{})
	require.NoError(t, m.LoadCartridge(rom, nil))
	m.ResetPostBoot()
	m.bus.Write(0xFF40, 0x80) // LCD on

	m.StepFrameNoRender()

	ppu := m.bus.PPU()
	require.Equal(t, byte(0x00), ppu.CPURead(0xFF44),
		"one frame's worth of M-cycles (cyclesPerFrame == 70224 dots / 4) should land LY back at 0, not 4x short")
}
