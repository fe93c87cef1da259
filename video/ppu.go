// Package video implements the DMG picture processing unit: the 4-mode
// scanline state machine and the background/window/sprite renderer that
// together produce one 160x144 BGRA8888 frame every 70224 T-cycles.
package video

import (
	"log/slog"

	"github.com/Coolman4128/EducationBoy/addr"
	"github.com/Coolman4128/EducationBoy/bit"
	"github.com/Coolman4128/EducationBoy/memory"
)

// Mode is the PPU's current rendering stage; it matches STAT bits 1-0.
type Mode int

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeVRAM   Mode = 3
)

const (
	oamCycles    = 80
	vramCycles   = 172
	hblankCycles = 204
	lineCycles   = oamCycles + vramCycles + hblankCycles // 456
	framesCycles = lineCycles * 154                      // 70224
)

// PPU renders one DMG frame at a time into a FrameBuffer, driven by T-cycle
// ticks from the owning clock.
type PPU struct {
	mmu *memory.MMU
	fb  *FrameBuffer

	// bgPixelBuffer keeps the raw (pre-palette) 0-3 color index drawn by the
	// background/window layer, so sprite BG-over-OBJ priority can consult it
	// without re-deriving tile data.
	bgPixelBuffer []byte
	spritePriority SpritePriorityBuffer

	mode Mode
	line int

	cycles         int
	vblankAux      int
	vblankLine     int
	scanlineDrawn  bool
	windowLine     int

	// FrameReady, if set, is called once per frame at the instant the PPU
	// enters mode 1 (VBlank) with the just-completed frame.
	FrameReady func(*FrameBuffer)
}

func New(mmu *memory.MMU) *PPU {
	p := &PPU{
		mmu:           mmu,
		fb:            NewFrameBuffer(),
		bgPixelBuffer: make([]byte, FrameSize),
		mode:          ModeVBlank,
		line:          144,
	}
	slog.Debug("PPU initialized", "LCDC", mmu.Read(addr.LCDC))
	return p
}

func (p *PPU) FrameBuffer() *FrameBuffer { return p.fb }

// Tick advances the PPU state machine by cycles T-cycles, running the mode
// transitions 2 (OAM) -> 3 (VRAM) -> 0 (HBlank) per visible scanline and the
// 10-line VBlank period, firing STAT/VBlank interrupts on each transition a
// caller's STAT configuration enables.
func (p *PPU) Tick(cycles int) {
	p.cycles += cycles

	switch p.mode {
	case ModeHBlank:
		if p.cycles < hblankCycles {
			break
		}
		p.cycles -= hblankCycles
		p.setMode(ModeOAM)
		p.setLY(p.line + 1)

		if p.line == 144 {
			p.setMode(ModeVBlank)
			p.vblankLine = 0
			p.vblankAux = p.cycles
			p.windowLine = 0

			p.mmu.RequestInterrupt(addr.VBlankInterrupt)
			if p.mmu.ReadBit(uint8(statVBlankIRQ), addr.STAT) {
				p.mmu.RequestInterrupt(addr.LCDSTATInterrupt)
			}
			if p.FrameReady != nil {
				p.FrameReady(p.fb)
			}
		} else if p.mmu.ReadBit(uint8(statOAMIRQ), addr.STAT) {
			p.mmu.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	case ModeVBlank:
		p.vblankAux += cycles

		if p.vblankAux >= lineCycles {
			p.vblankAux -= lineCycles
			p.vblankLine++
			if p.vblankLine <= 9 {
				p.setLY(p.line + 1)
			}
		}

		if p.cycles >= 4104 && p.vblankAux >= 4 && p.line == 153 {
			p.setLY(0)
		}

		if p.cycles >= 4560 {
			p.cycles -= 4560
			p.setMode(ModeOAM)
			if p.mmu.ReadBit(uint8(statOAMIRQ), addr.STAT) {
				p.mmu.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		}
	case ModeOAM:
		if p.cycles >= oamCycles {
			p.cycles -= oamCycles
			p.setMode(ModeVRAM)
			p.scanlineDrawn = false
		}
	case ModeVRAM:
		if !p.scanlineDrawn {
			if p.lcdcBit(lcdDisplayEnable) {
				p.drawScanline()
			}
			p.scanlineDrawn = true
		}

		if p.cycles >= vramCycles {
			p.cycles -= vramCycles
			p.setMode(ModeHBlank)
			if p.mmu.ReadBit(uint8(statHBlankIRQ), addr.STAT) {
				p.mmu.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		}
	}

	if p.cycles >= framesCycles {
		p.cycles -= framesCycles
	}
}

func (p *PPU) drawScanline() {
	if !p.lcdcBit(lcdDisplayEnable) {
		lineStart := p.line * FrameWidth
		for i := 0; i < FrameWidth; i++ {
			p.fb.buffer[lineStart+i] = uint32(WhiteColor)
		}
		return
	}

	p.drawBackground()
	p.drawWindow()
	p.drawSprites()
}

func (p *PPU) drawBackground() {
	lineStart := p.line * FrameWidth

	if !p.lcdcBit(bgDisplay) {
		palette := p.mmu.Read(addr.BGP)
		color := uint32(ShadeToColor(palette & 0x03))
		for i := 0; i < FrameWidth; i++ {
			p.fb.buffer[lineStart+i] = color
			p.bgPixelBuffer[lineStart+i] = 0
		}
		return
	}

	signedTiles := !p.lcdcBit(bgWindowTileData)
	tilesBase := addr.TileData0
	if signedTiles {
		tilesBase = addr.TileData2
	}

	tileMapBase := addr.TileMap1
	if !p.lcdcBit(bgTileMap) {
		tileMapBase = addr.TileMap0
	}

	scx := p.mmu.Read(addr.SCX)
	scy := p.mmu.Read(addr.SCY)
	scrolledY := (p.line + int(scy)) & 0xFF
	tileRow32 := (scrolledY / 8) * 32
	tilePixelY2 := (scrolledY % 8) * 2

	for screenX := 0; screenX < FrameWidth; screenX++ {
		mapX := (screenX + int(scx)) & 0xFF
		tileCol := mapX / 8
		tileXOffset := mapX % 8

		tileNumber := p.mmu.Read(tileMapBase + uint16(tileRow32+tileCol))
		tileAddr := p.resolveTileAddr(tilesBase, signedTiles, tileNumber, tilePixelY2)

		low := p.mmu.Read(tileAddr)
		high := p.mmu.Read(tileAddr + 1)

		color2bit := pixelColorIndex(low, high, uint8(7-tileXOffset))
		pos := lineStart + screenX

		palette := p.mmu.Read(addr.BGP)
		shade := (palette >> (color2bit * 2)) & 0x03
		p.fb.buffer[pos] = uint32(ShadeToColor(shade))
		p.bgPixelBuffer[pos] = color2bit
	}
}

func (p *PPU) drawWindow() {
	if p.windowLine > 143 {
		return
	}
	if !p.lcdcBit(windowDisplay) {
		return
	}

	wx := int(p.mmu.Read(addr.WX)) - 7
	wy := p.mmu.Read(addr.WY)

	if wx > 159 || int(wy) > p.line {
		return
	}

	signedTiles := !p.lcdcBit(bgWindowTileData)
	tilesBase := addr.TileData0
	if signedTiles {
		tilesBase = addr.TileData2
	}

	tileMapBase := addr.TileMap1
	if !p.lcdcBit(windowTileMap) {
		tileMapBase = addr.TileMap0
	}

	tileRow32 := (p.windowLine / 8) * 32
	tilePixelY2 := (p.windowLine % 8) * 2
	lineStart := p.line * FrameWidth

	endTileX := (FrameWidth - wx + 7) / 8
	if endTileX > 32 {
		endTileX = 32
	}

	for tx := 0; tx < endTileX; tx++ {
		tileNumber := p.mmu.Read(tileMapBase + uint16(tileRow32+tx))
		tileAddr := p.resolveTileAddr(tilesBase, signedTiles, tileNumber, tilePixelY2)
		low := p.mmu.Read(tileAddr)
		high := p.mmu.Read(tileAddr + 1)

		for px := 0; px < 8; px++ {
			bufferX := tx*8 + px + wx
			if bufferX < 0 || bufferX >= FrameWidth {
				continue
			}

			color2bit := pixelColorIndex(low, high, uint8(7-px))
			pos := lineStart + bufferX
			palette := p.mmu.Read(addr.BGP)
			shade := (palette >> (color2bit * 2)) & 0x03
			p.fb.buffer[pos] = uint32(ShadeToColor(shade))
			p.bgPixelBuffer[pos] = color2bit
		}
	}

	p.windowLine++
}

func (p *PPU) drawSprites() {
	if !p.lcdcBit(spriteDisplay) {
		return
	}

	spriteHeight := 8
	if p.lcdcBit(spriteSize) {
		spriteHeight = 16
	}

	lineStart := p.line * FrameWidth

	var visible []int
	for sprite := 0; sprite < 40; sprite++ {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(p.mmu.Read(oamAddr)) - 16
		if spriteY > p.line || spriteY+spriteHeight <= p.line {
			continue
		}
		visible = append(visible, sprite)
		if len(visible) >= 10 {
			break
		}
	}

	p.spritePriority.Clear()
	for _, sprite := range visible {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteX := int(p.mmu.Read(oamAddr+1)) - 8
		for px := 0; px < 8; px++ {
			p.spritePriority.TryClaimPixel(spriteX+px, sprite, spriteX)
		}
	}

	for _, sprite := range visible {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(p.mmu.Read(oamAddr)) - 16
		spriteX := int(p.mmu.Read(oamAddr+1)) - 8
		tileIndex := p.mmu.Read(oamAddr + 2)
		flags := p.mmu.Read(oamAddr + 3)

		owned := false
		for x := 0; x < 8; x++ {
			if p.spritePriority.GetOwner(spriteX+x) == sprite {
				owned = true
				break
			}
		}
		if !owned {
			continue
		}

		tileMask := 0xFF
		if spriteHeight == 16 {
			tileMask = 0xFE
		}
		tile16 := (int(tileIndex) & tileMask) * 16

		objPalette := addr.OBP0
		if bit.IsSet(4, flags) {
			objPalette = addr.OBP1
		}
		flipX := bit.IsSet(5, flags)
		flipY := bit.IsSet(6, flags)
		aboveBG := !bit.IsSet(7, flags)

		pixelY := p.line - spriteY
		if flipY {
			pixelY = spriteHeight - 1 - pixelY
		}

		rowOffset := 0
		rowWithinTile := pixelY * 2
		if spriteHeight == 16 && pixelY >= 8 {
			rowWithinTile = (pixelY - 8) * 2
			rowOffset = 16
		}

		tileAddr := addr.TileData0 + uint16(tile16+rowWithinTile+rowOffset)
		low := p.mmu.Read(tileAddr)
		high := p.mmu.Read(tileAddr + 1)

		for px := 0; px < 8; px++ {
			bufferX := spriteX + px
			if p.spritePriority.GetOwner(bufferX) != sprite {
				continue
			}

			bitIndex := uint8(7 - px)
			if flipX {
				bitIndex = uint8(px)
			}
			color2bit := pixelColorIndex(low, high, bitIndex)
			if color2bit == 0 {
				continue
			}

			pos := lineStart + bufferX
			if !aboveBG && p.bgPixelBuffer[pos] != 0 {
				continue
			}

			palette := p.mmu.Read(objPalette)
			shade := (palette >> (color2bit * 2)) & 0x03
			p.fb.buffer[pos] = uint32(ShadeToColor(shade))
		}
	}
}

func (p *PPU) resolveTileAddr(tilesBase uint16, signed bool, tileNumber byte, rowOffset2 int) uint16 {
	if signed {
		offset := int(int8(tileNumber)) * 16
		return uint16(int(tilesBase) + offset + rowOffset2)
	}
	return tilesBase + uint16(int(tileNumber)*16) + uint16(rowOffset2)
}

func pixelColorIndex(low, high byte, bitIndex uint8) byte {
	var c byte
	if bit.IsSet(bitIndex, low) {
		c |= 1
	}
	if bit.IsSet(bitIndex, high) {
		c |= 2
	}
	return c
}

type statBit uint8

const (
	statLYCIRQ    statBit = 6
	statOAMIRQ    statBit = 5
	statVBlankIRQ statBit = 4
	statHBlankIRQ statBit = 3
	statLYCEqual  statBit = 2
)

type lcdcBit uint8

const (
	lcdDisplayEnable lcdcBit = 7
	windowTileMap    lcdcBit = 6
	windowDisplay    lcdcBit = 5
	bgWindowTileData lcdcBit = 4
	bgTileMap        lcdcBit = 3
	spriteSize       lcdcBit = 2
	spriteDisplay    lcdcBit = 1
	bgDisplay        lcdcBit = 0
)

func (p *PPU) lcdcBit(b lcdcBit) bool {
	return bit.IsSet(uint8(b), p.mmu.Read(addr.LCDC))
}

func (p *PPU) compareLYToLYC() {
	ly := p.mmu.Read(addr.LY)
	lyc := p.mmu.Read(addr.LYC)
	stat := p.mmu.Read(addr.STAT)

	if ly == lyc {
		stat = bit.Set(uint8(statLYCEqual), stat)
		if bit.IsSet(uint8(statLYCIRQ), stat) {
			p.mmu.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	} else {
		stat = bit.Reset(uint8(statLYCEqual), stat)
	}

	p.mmu.Write(addr.STAT, stat)
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode
	stat := p.mmu.Read(addr.STAT)
	p.mmu.Write(addr.STAT, stat&0xFC|byte(mode))
}

func (p *PPU) setLY(line int) {
	p.line = line
	p.mmu.Write(addr.LY, byte(p.line))
	p.compareLYToLYC()
}
