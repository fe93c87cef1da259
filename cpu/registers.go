package cpu

import "github.com/Coolman4128/EducationBoy/bit"

// Flag is one of the 4 flags held in the high nibble of F; the low nibble
// is always zero (spec §4.2 CPU registers).
type Flag uint8

const (
	flagZ Flag = 0x80
	flagN Flag = 0x40
	flagH Flag = 0x20
	flagC Flag = 0x10
)

func (c *CPU) setFlag(f Flag) {
	c.f |= uint8(f)
}

func (c *CPU) resetFlag(f Flag) {
	c.f &^= uint8(f)
}

func (c *CPU) setFlagTo(f Flag, cond bool) {
	if cond {
		c.setFlag(f)
	} else {
		c.resetFlag(f)
	}
}

func (c *CPU) isSet(f Flag) bool {
	return c.f&uint8(f) != 0
}

func (c *CPU) flagBit(f Flag) uint8 {
	if c.isSet(f) {
		return 1
	}
	return 0
}

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f) }
func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }

func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	c.f = bit.Low(v) & 0xF0
}

func (c *CPU) setBC(v uint16) {
	c.b = bit.High(v)
	c.c = bit.Low(v)
}

func (c *CPU) setDE(v uint16) {
	c.d = bit.High(v)
	c.e = bit.Low(v)
}

func (c *CPU) setHL(v uint16) {
	c.h = bit.High(v)
	c.l = bit.Low(v)
}

// reg8 identifies one of the eight operand positions used by the regular
// LD r,r' / ALU r / CB r instruction grids, in opcode-encoding order.
type reg8 uint8

const (
	regB reg8 = iota
	regC
	regD
	regE
	regH
	regL
	regHLInd
	regA
)

// getReg8 reads one of the 8 grid operand positions. regHLInd is not valid
// here; callers handle the (HL) indirect case themselves since it requires
// a memory access and extra cycles.
func (c *CPU) getReg8(r reg8) uint8 {
	switch r {
	case regB:
		return c.b
	case regC:
		return c.c
	case regD:
		return c.d
	case regE:
		return c.e
	case regH:
		return c.h
	case regL:
		return c.l
	case regA:
		return c.a
	default:
		panic("cpu: getReg8 called with regHLInd")
	}
}

func (c *CPU) setReg8(r reg8, value uint8) {
	switch r {
	case regB:
		c.b = value
	case regC:
		c.c = value
	case regD:
		c.d = value
	case regE:
		c.e = value
	case regH:
		c.h = value
	case regL:
		c.l = value
	case regA:
		c.a = value
	default:
		panic("cpu: setReg8 called with regHLInd")
	}
}
