// Package bus implements the DMG's 16-bit address space: region routing
// between cartridge, work RAM, high RAM, and the PPU/APU/timer/joypad
// peripherals, plus IE/IF interrupt-register storage every peripheral raises
// interrupts into directly.
package bus

import (
	"io"

	"github.com/sm83core/gbcore/internal/apu"
	"github.com/sm83core/gbcore/internal/cart"
	"github.com/sm83core/gbcore/internal/joypad"
	"github.com/sm83core/gbcore/internal/ppu"
	"github.com/sm83core/gbcore/internal/timer"
)

// Interrupt bits, duplicated from internal/cpu's IntVBlank/IntSerial so this
// package doesn't need to import it just for two constants (internal/cpu
// defines its own Bus interface and does not import this package).
const (
	intVBlank byte = 1 << 0
	intSerial byte = 1 << 3
)

// Bus wires CPU-visible address space to its peripherals. A single value
// owns every piece of DMG memory-mapped state; there is no global state.
type Bus struct {
	cart cart.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ppu   *ppu.PPU
	apu   *apu.APU
	timer *timer.Timer
	pad   *joypad.Pad

	ie    byte // 0xFFFF
	ifReg byte // 0xFF0F, lower 5 bits used

	sb byte      // 0xFF01 serial data
	sc byte      // 0xFF02 serial control
	sw io.Writer // optional sink for transferred serial bytes

	dma       byte // 0xFF46
	dmaActive bool
	dmaSrc    uint16
	dmaIndex  int

	bootROM     []byte
	bootEnabled bool
}

// New constructs a Bus with a cartridge built from rom's header.
func New(rom []byte) *Bus {
	return NewWithCartridge(cart.NewCartridge(rom))
}

// NewWithCartridge wires a provided cartridge implementation, useful for
// tests that want a bare ROMOnly or a synthetic Cartridge double.
func NewWithCartridge(c cart.Cartridge) *Bus {
	b := &Bus{cart: c}
	b.ppu = ppu.New(func(bit byte) { b.ifReg |= bit })
	b.apu = apu.New()
	b.timer = timer.New(func(bit byte) { b.ifReg |= bit })
	b.pad = joypad.New(func(bit byte) { b.ifReg |= bit })
	return b
}

// PPU exposes the PPU so a renderer can sample its VRAM/OAM/registers
// (internal/emu's renderFrame uses it to build the framebuffer).
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Cart exposes the cartridge for battery-RAM persistence.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// SetBootROM maps 256 bytes at 0x0000-0x00FF until a nonzero write to 0xFF50 unmaps it.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) >= 0x100 {
		b.bootROM = make([]byte, 0x100)
		copy(b.bootROM, data[:0x100])
		b.bootEnabled = true
	}
}

// SetJoypadState updates which buttons are pressed; bits are joypad.* masks.
func (b *Bus) SetJoypadState(mask byte) { b.pad.SetState(mask) }

// SetSerialWriter sets a sink that receives bytes written out over the
// serial port — used by test-ROM harnesses that capture pass/fail text.
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

// IE/IF satisfy cpu.Bus.
func (b *Bus) IE() byte     { return b.ie }
func (b *Bus) SetIE(v byte) { b.ie = v }
func (b *Bus) IF() byte     { return b.ifReg }
func (b *Bus) SetIF(v byte) { b.ifReg = v & 0x1F }

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 && len(b.bootROM) >= 0x100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if b.dmaActive {
			return 0xFF
		}
		return b.ppu.CPURead(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF // prohibited region
	case addr == 0xFF00:
		return b.pad.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr == 0xFF04:
		return b.timer.DIV()
	case addr == 0xFF05:
		return b.timer.TIMA()
	case addr == 0xFF06:
		return b.timer.TMA()
	case addr == 0xFF07:
		return b.timer.TAC()
	case addr == 0xFF0F:
		return 0xE0 | (b.ifReg & 0x1F)
	case addr >= 0xFF10 && addr <= 0xFF26:
		return b.apu.CPURead(addr)
	case addr >= 0xFF30 && addr <= 0xFF3F:
		return b.apu.CPURead(addr)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	case addr == 0xFF46:
		return b.dma
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	default:
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, v byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, v)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, v)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, v)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = v
	case addr >= 0xE000 && addr <= 0xFDFF:
		// Echo RAM writes through to the underlying WRAM cell, per spec.
		b.wram[addr-0x2000-0xC000] = v
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if !b.dmaActive {
			b.ppu.CPUWrite(addr, v)
		}
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// Prohibited region: writes are discarded.
	case addr == 0xFF00:
		b.pad.WriteSelect(v)
	case addr == 0xFF01:
		b.sb = v
	case addr == 0xFF02:
		b.sc = v & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.ifReg |= intSerial
			b.sc &^= 0x80
		}
	case addr == 0xFF04:
		b.timer.WriteDIV()
	case addr == 0xFF05:
		b.timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.timer.WriteTMA(v)
	case addr == 0xFF07:
		b.timer.WriteTAC(v)
	case addr == 0xFF0F:
		b.ifReg = v & 0x1F
	case addr >= 0xFF10 && addr <= 0xFF26:
		b.apu.CPUWrite(addr, v)
	case addr >= 0xFF30 && addr <= 0xFF3F:
		b.apu.CPUWrite(addr, v)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, v)
	case addr == 0xFF46:
		b.dma = v
		b.dmaActive = true
		b.dmaSrc = uint16(v) << 8
		b.dmaIndex = 0
	case addr == 0xFF50:
		if v != 0x00 {
			b.bootEnabled = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.ie = v
	}
}

// Tick advances every bus-attached peripheral by mCycles machine cycles,
// including stepping one byte of an in-progress OAM DMA transfer per cycle.
func (b *Bus) Tick(mCycles int) {
	if mCycles <= 0 {
		return
	}
	b.timer.Tick(mCycles)
	b.ppu.Tick(mCycles * 4) // PPU counts dots (T-cycles); 1 M-cycle == 4 dots.
	b.apu.Tick(mCycles)

	for i := 0; i < mCycles && b.dmaActive; i++ {
		v := b.Read(b.dmaSrc + uint16(b.dmaIndex))
		b.ppu.CPUWrite(0xFE00+uint16(b.dmaIndex), v)
		b.dmaIndex++
		if b.dmaIndex >= 0xA0 {
			b.dmaActive = false
		}
	}
}
