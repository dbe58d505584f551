package emu

import "github.com/sm83core/gbcore/internal/ppu"

// dmgShades maps a 2-bit DMG color index to an RGBA quad, lightest to
// darkest, the classic four-shade DMG palette.
var dmgShades = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

// renderFrame rasterizes the whole 160x144 screen from the current PPU
// state into dst (RGBA, len 160*144*4). It is not scanline/dot accurate —
// pixel-perfect PPU timing is an explicit non-goal — it samples VRAM and OAM
// once per frame, the same "render after the fact" approach several of the
// pack's simpler emulators use for their headless/test framebuffers.
func renderFrame(p *ppu.PPU, dst []byte) {
	lcdc := p.LCDC()
	if lcdc&0x80 == 0 {
		for i := range dst {
			dst[i] = 0xFF
		}
		return
	}

	bgEnable := lcdc&0x01 != 0
	winEnable := lcdc&0x20 != 0
	objEnable := lcdc&0x02 != 0
	tileDataUnsigned := lcdc&0x10 != 0
	bgMapBase := 0x1800
	if lcdc&0x08 != 0 {
		bgMapBase = 0x1C00
	}
	winMapBase := 0x1800
	if lcdc&0x40 != 0 {
		winMapBase = 0x1C00
	}
	objTall := lcdc&0x04 != 0

	scy, scx := p.SCY(), p.SCX()
	wy, wx := p.WY(), p.WX()
	bgp, obp0, obp1 := p.BGP(), p.OBP0(), p.OBP1()

	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			idx, pal := byte(0), bgp
			if bgEnable {
				srcY := byte(y) + scy
				srcX := byte(x) + scx
				idx = bgPixel(p, bgMapBase, tileDataUnsigned, srcX, srcY)
			}
			if winEnable && byte(y) >= wy && int(x) >= int(wx)-7 {
				wxPix := x - (int(wx) - 7)
				if wxPix >= 0 {
					idx = bgPixel(p, winMapBase, tileDataUnsigned, byte(wxPix), byte(y)-wy)
				}
			}
			shade := dmgShades[(pal>>(idx*2))&0x03]

			if objEnable {
				if sIdx, sPal, ok := spritePixel(p, objTall, x, y); ok {
					objPal := obp0
					if sPal {
						objPal = obp1
					}
					shade = dmgShades[(objPal>>(sIdx*2))&0x03]
				}
			}

			o := (y*160 + x) * 4
			copy(dst[o:o+4], shade[:])
		}
	}
}

// bgPixel returns the 2-bit color index for a background/window pixel at
// tile-space coordinates (x, y) within a given tile map.
func bgPixel(p *ppu.PPU, mapBase int, tileDataUnsigned bool, x, y byte) byte {
	tileX, tileY := int(x/8), int(y/8)
	mapOffset := mapBase + tileY*32 + tileX
	tileNum := p.VRAMByte(mapOffset)

	var tileAddr int
	if tileDataUnsigned {
		tileAddr = int(tileNum) * 16
	} else {
		tileAddr = 0x1000 + int(int8(tileNum))*16
	}

	row := int(y % 8)
	lo := p.VRAMByte(tileAddr + row*2)
	hi := p.VRAMByte(tileAddr + row*2 + 1)
	bit := 7 - (x % 8)
	return ((hi>>bit)&1)<<1 | (lo>>bit)&1
}

// spritePixel scans OAM for a sprite covering screen pixel (x, y), returning
// its 2-bit color index and whether it uses OBP1. Transparent (index 0)
// sprite pixels report ok=false so the background shows through.
func spritePixel(p *ppu.PPU, tall bool, x, y int) (byte, bool, bool) {
	height := 8
	if tall {
		height = 16
	}
	for i := 0; i < 40; i++ {
		base := i * 4
		spriteY := int(p.OAMByte(base)) - 16
		spriteX := int(p.OAMByte(base+1)) - 8
		if y < spriteY || y >= spriteY+height {
			continue
		}
		if x < spriteX || x >= spriteX+8 {
			continue
		}
		tileNum := p.OAMByte(base + 2)
		attrs := p.OAMByte(base + 3)
		flipX := attrs&0x20 != 0
		flipY := attrs&0x40 != 0
		usePal1 := attrs&0x10 != 0

		row := y - spriteY
		if flipY {
			row = height - 1 - row
		}
		if tall {
			tileNum &^= 0x01
			if row >= 8 {
				tileNum |= 0x01
				row -= 8
			}
		}
		col := x - spriteX
		if flipX {
			col = 7 - col
		}
		tileAddr := int(tileNum) * 16
		loByte := p.VRAMByte(tileAddr + row*2)
		hiByte := p.VRAMByte(tileAddr + row*2 + 1)
		bit := 7 - col
		colorIdx := ((hiByte>>bit)&1)<<1 | (loByte>>bit)&1
		if colorIdx == 0 {
			continue // transparent
		}
		return colorIdx, usePal1, true
	}
	return 0, false, false
}
