// Package emu assembles the bus, cartridge, and CPU into the control surface
// a front end (the windowed UI, a headless CLI runner, or a test) drives:
// load a ROM, step whole frames, read back a framebuffer and battery RAM.
package emu

import (
	"fmt"
	"io"
	"os"

	"github.com/sm83core/gbcore/internal/bus"
	"github.com/sm83core/gbcore/internal/cart"
	"github.com/sm83core/gbcore/internal/cpu"
	"github.com/sm83core/gbcore/internal/joypad"
)

// cyclesPerFrame is the DMG's machine-cycle count for one 70224 T-cycle
// frame (59.7275 Hz), derived the same way the teacher's UI pacing loop
// derives its frame rate.
const cyclesPerFrame = 70224 / 4

// Buttons is a front-end-facing view of joypad state, decoupled from the
// joypad package's bitmask so callers don't need to import it.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) mask() byte {
	var m byte
	if b.Right {
		m |= joypad.Right
	}
	if b.Left {
		m |= joypad.Left
	}
	if b.Up {
		m |= joypad.Up
	}
	if b.Down {
		m |= joypad.Down
	}
	if b.A {
		m |= joypad.A
	}
	if b.B {
		m |= joypad.B
	}
	if b.Select {
		m |= joypad.SelectBtn
	}
	if b.Start {
		m |= joypad.Start
	}
	return m
}

// Machine owns one emulated DMG: a Bus, its Cartridge, and the CPU driving
// it, plus the rendered framebuffer a front end reads after each frame.
type Machine struct {
	cfg Config
	log Logger

	bus *bus.Bus
	cpu *cpu.CPU

	fb      []byte // RGBA 160x144*4
	romPath string
}

// New constructs a Machine with no cartridge loaded; LoadCartridge or
// LoadROMFromFile must be called before stepping produces anything useful.
func New(cfg Config) *Machine {
	log := Logger(noopLogger{})
	if cfg.Trace {
		log = NewZapLogger()
	}
	m := &Machine{
		cfg: cfg,
		log: log,
		fb:  make([]byte, 160*144*4),
	}
	m.bus = bus.New(nil)
	m.cpu = cpu.New(m.bus)
	return m
}

// LoadCartridge resets the Machine around a new cartridge built from rom's
// header, optionally mapping boot as the boot ROM at 0x0000.
func (m *Machine) LoadCartridge(rom []byte, boot []byte) error {
	if _, err := cart.ParseHeader(rom); err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	m.bus = bus.New(rom)
	if len(boot) >= 0x100 {
		m.bus.SetBootROM(boot)
	}
	m.cpu = cpu.New(m.bus)
	if len(boot) >= 0x100 {
		m.cpu.ResetWithBoot()
	}
	return nil
}

// LoadROMFromFile reads romPath and loads it as the current cartridge,
// recording the path for SaveBattery/title-bar consumers.
func (m *Machine) LoadROMFromFile(romPath string) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}
	if err := m.LoadCartridge(rom, nil); err != nil {
		return err
	}
	m.romPath = romPath
	return nil
}

// SetBootROM maps a boot ROM and restarts the CPU from 0x0000 to run it.
func (m *Machine) SetBootROM(data []byte) {
	m.bus.SetBootROM(data)
	if len(data) >= 0x100 {
		m.cpu.ResetWithBoot()
	}
}

// SetSerialWriter attaches a sink for bytes written out over the serial
// port, used by test-ROM harnesses that report pass/fail over serial.
func (m *Machine) SetSerialWriter(w io.Writer) { m.bus.SetSerialWriter(w) }

// SetButtons applies the given button state for the next Step/StepFrame call.
func (m *Machine) SetButtons(b Buttons) { m.bus.SetJoypadState(b.mask()) }

// ResetPostBoot resets the CPU to DMG post-boot-ROM register values,
// leaving the currently loaded cartridge and RAM contents untouched.
func (m *Machine) ResetPostBoot() { m.cpu.Reset() }

// ResetWithBoot restarts execution at 0x0000, as if a boot ROM is mapped.
func (m *Machine) ResetWithBoot() { m.cpu.ResetWithBoot() }

// Registers exposes the CPU register file for inspection (tracing, tests).
func (m *Machine) Registers() *cpu.Registers { return m.cpu.Registers() }

// ROMPath returns the path LoadROMFromFile last loaded, or "".
func (m *Machine) ROMPath() string { return m.romPath }

// Framebuffer returns the RGBA 160x144 pixel buffer from the most recent
// StepFrame call.
func (m *Machine) Framebuffer() []byte { return m.fb }

// SaveBattery returns a copy of the cartridge's battery-backed RAM, if any.
func (m *Machine) SaveBattery() ([]byte, bool) {
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return nil, false
	}
	data := bb.SaveRAM()
	return data, data != nil
}

// LoadBattery restores previously saved battery RAM into the cartridge.
func (m *Machine) LoadBattery(data []byte) bool {
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return false
	}
	bb.LoadRAM(data)
	return true
}

// Step executes exactly one CPU instruction (or interrupt dispatch, or
// halted tick) and returns the M-cycles it consumed.
func (m *Machine) Step() (int, error) {
	c, err := m.cpu.Step()
	if m.cfg.Trace {
		r := m.cpu.Registers()
		m.log.Tracef(LevelTrace, "PC=%04X A=%02X F=%02X SP=%04X cyc=%d", r.PC, r.A, r.F, r.SP, c)
	}
	return c, err
}

// StepFrame runs approximately one video frame's worth of CPU cycles and
// rasterizes the result into Framebuffer(). A locked CPU (invalid opcode)
// stops stepping early; the error is logged, not returned, matching the
// teacher's "keep the UI loop alive" behavior.
func (m *Machine) StepFrame() {
	m.StepFrameNoRender()
	renderFrame(m.bus.PPU(), m.fb)
}

// StepFrameNoRender runs one frame's worth of cycles without touching the
// framebuffer, for headless test-ROM harnesses that only care about serial
// output.
func (m *Machine) StepFrameNoRender() {
	total := 0
	for total < cyclesPerFrame {
		c, err := m.Step()
		if err != nil {
			m.log.Tracef(LevelError, "cpu locked: %v", err)
			return
		}
		if c == 0 {
			c = 1
		}
		total += c
	}
}
