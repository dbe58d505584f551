// Package apu exposes the DMG sound registers (NR10-NR52 and wave RAM) as a
// plain byte-addressable surface. Audio synthesis is an explicit non-goal of
// this core; software that probes or writes these registers (as many test
// ROMs and bootstrap routines do) still observes the real register layout
// and read-only-bit masking, it just never hears anything.
package apu

// registerBase is NR10's address; registers are stored contiguously through
// NR52 in that order, exactly as they're laid out in hardware.
const registerBase = 0xFF10
const registerCount = 0xFF26 - 0xFF10 + 1

// APU stores the raw sound register bytes and wave RAM. No channel is
// clocked, mixed, or sampled.
type APU struct {
	regs [registerCount]byte
	wave [0x10]byte
	on   bool
}

func New() *APU { return &APU{} }

// readMasks mirrors which bits of each register read back as 1 regardless of
// what was last written — the same unused-bit masking a real APU enforces,
// grounded on the teacher's per-register CPURead cases.
var readMasks = map[uint16]byte{
	0xFF10: 0x80, 0xFF11: 0x3F, 0xFF12: 0x00, 0xFF13: 0xFF, 0xFF14: 0xBF,
	0xFF16: 0x3F, 0xFF17: 0x00, 0xFF18: 0xFF, 0xFF19: 0xBF,
	0xFF1A: 0x7F, 0xFF1B: 0xFF, 0xFF1C: 0x9F, 0xFF1D: 0xFF, 0xFF1E: 0xBF,
	0xFF20: 0xFF, 0xFF21: 0x00, 0xFF22: 0x00, 0xFF23: 0xBF,
	0xFF24: 0x00, 0xFF25: 0x00, 0xFF26: 0x70,
}

// CPURead returns a register byte, OR-ing in the always-1 bits real hardware
// reports for write-only/unused fields.
func (a *APU) CPURead(addr uint16) byte {
	if addr >= 0xFF30 && addr <= 0xFF3F {
		return a.wave[addr-0xFF30]
	}
	if addr < registerBase || addr > 0xFF26 {
		return 0xFF
	}
	v := a.regs[addr-registerBase]
	if addr == 0xFF26 {
		return (v & 0x8F) | readMasks[addr]
	}
	return v | readMasks[addr]
}

// CPUWrite stores a register byte. Writing NR52 (0xFF26) toggles master
// power; while powered off, writes to any other register are ignored, per
// documented DMG behavior.
func (a *APU) CPUWrite(addr uint16, v byte) {
	if addr >= 0xFF30 && addr <= 0xFF3F {
		a.wave[addr-0xFF30] = v
		return
	}
	if addr < registerBase || addr > 0xFF26 {
		return
	}
	if addr == 0xFF26 {
		a.on = v&0x80 != 0
		a.regs[addr-registerBase] = v & 0x80
		return
	}
	if !a.on {
		return
	}
	a.regs[addr-registerBase] = v
}

// Tick is a no-op: no channel timers, envelopes, or samples exist to advance.
// Kept so APU satisfies the same "peripheral with a Tick" shape as timer and
// ppu, for a uniform bus wiring story.
func (a *APU) Tick(mCycles int) {}
