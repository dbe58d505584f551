// Package joypad implements the DMG JOYP register: two active-low 4-bit
// button groups (d-pad, face buttons) selected by P14/P15, with a joypad
// interrupt raised on any 1->0 transition of the selected nibble.
package joypad

// Button bitmasks for SetState. A set bit means "pressed".
const (
	Right     = 1 << 0
	Left      = 1 << 1
	Up        = 1 << 2
	Down      = 1 << 3
	A         = 1 << 4
	B         = 1 << 5
	SelectBtn = 1 << 6
	Start     = 1 << 7
)

// InterruptRequester raises the joypad interrupt bit (IntJoypad, bit 4 of IF).
type InterruptRequester func(bit byte)

const interruptBit = 1 << 4

// Pad holds the current button state and the P14/P15 selection bits.
type Pad struct {
	selectLine byte // bits 5-4 of JOYP, as last written
	buttons    byte // Button* bitmask, set = pressed
	lastLow4   byte // last computed active-low nibble, for edge detection
	req        InterruptRequester
}

func New(req InterruptRequester) *Pad {
	return &Pad{req: req}
}

// Read returns the JOYP byte: bits 7-6 always 1, bits 5-4 reflect the last
// selection write, bits 3-0 the active-low state of whichever group(s) are
// selected.
func (p *Pad) Read() byte {
	return 0xC0 | (p.selectLine & 0x30) | p.lowNibble()
}

// WriteSelect updates P14/P15 (bits 5-4 of a JOYP write) and re-evaluates the
// interrupt edge, since changing which group is selected can itself look
// like a falling edge on the newly-selected nibble.
func (p *Pad) WriteSelect(v byte) {
	p.selectLine = v & 0x30
	p.refreshEdge()
}

// SetState replaces the full button mask (bit set = pressed) and checks for
// a resulting interrupt edge.
func (p *Pad) SetState(mask byte) {
	p.buttons = mask
	p.refreshEdge()
}

func (p *Pad) lowNibble() byte {
	res := byte(0x0F)
	if p.selectLine&0x10 == 0 { // P14 low selects d-pad
		if p.buttons&Right != 0 {
			res &^= 0x01
		}
		if p.buttons&Left != 0 {
			res &^= 0x02
		}
		if p.buttons&Up != 0 {
			res &^= 0x04
		}
		if p.buttons&Down != 0 {
			res &^= 0x08
		}
	}
	if p.selectLine&0x20 == 0 { // P15 low selects face buttons
		if p.buttons&A != 0 {
			res &^= 0x01
		}
		if p.buttons&B != 0 {
			res &^= 0x02
		}
		if p.buttons&SelectBtn != 0 {
			res &^= 0x04
		}
		if p.buttons&Start != 0 {
			res &^= 0x08
		}
	}
	return res
}

func (p *Pad) refreshEdge() {
	newLow := p.lowNibble()
	falling := p.lastLow4 &^ newLow
	if falling != 0 && p.req != nil {
		p.req(interruptBit)
	}
	p.lastLow4 = newLow
}
