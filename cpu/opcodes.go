package cpu

// opcodeFunc executes one decoded instruction and returns the T-cycles it
// consumed.
type opcodeFunc func(c *CPU) int

var opcodeTable [256]opcodeFunc

// readR8 reads one of the 8 grid operand positions, resolving regHLInd
// through a memory read.
func (c *CPU) readR8(r reg8) uint8 {
	if r == regHLInd {
		return c.mmu.Read(c.getHL())
	}
	return c.getReg8(r)
}

func (c *CPU) writeR8(r reg8, v uint8) {
	if r == regHLInd {
		c.mmu.Write(c.getHL(), v)
		return
	}
	c.setReg8(r, v)
}

func (c *CPU) jr(offset int8) {
	c.pc = uint16(int32(c.pc) + int32(offset))
}

func (c *CPU) rst(vector uint8) {
	c.push16(c.pc)
	c.pc = uint16(vector)
}

func init() {
	t := &opcodeTable

	t[0x00] = func(c *CPU) int { return 4 }
	t[0x01] = func(c *CPU) int { c.setBC(c.fetch16()); return 12 }
	t[0x02] = func(c *CPU) int { c.mmu.Write(c.getBC(), c.a); return 8 }
	t[0x03] = func(c *CPU) int { c.setBC(c.getBC() + 1); return 8 }
	t[0x04] = func(c *CPU) int { c.inc8(&c.b); return 4 }
	t[0x05] = func(c *CPU) int { c.dec8(&c.b); return 4 }
	t[0x06] = func(c *CPU) int { c.b = c.fetch8(); return 8 }
	t[0x07] = func(c *CPU) int { c.rlc(&c.a); c.resetFlag(flagZ); return 4 }
	t[0x08] = func(c *CPU) int {
		addr16 := c.fetch16()
		c.mmu.Write(addr16, uint8(c.sp))
		c.mmu.Write(addr16+1, uint8(c.sp>>8))
		return 20
	}
	t[0x09] = func(c *CPU) int { c.addToHL(c.getBC()); return 8 }
	t[0x0A] = func(c *CPU) int { c.a = c.mmu.Read(c.getBC()); return 8 }
	t[0x0B] = func(c *CPU) int { c.setBC(c.getBC() - 1); return 8 }
	t[0x0C] = func(c *CPU) int { c.inc8(&c.c); return 4 }
	t[0x0D] = func(c *CPU) int { c.dec8(&c.c); return 4 }
	t[0x0E] = func(c *CPU) int { c.c = c.fetch8(); return 8 }
	t[0x0F] = func(c *CPU) int { c.rrc(&c.a); c.resetFlag(flagZ); return 4 }

	t[0x10] = func(c *CPU) int { c.fetch8(); c.stopped = true; return 4 }
	t[0x11] = func(c *CPU) int { c.setDE(c.fetch16()); return 12 }
	t[0x12] = func(c *CPU) int { c.mmu.Write(c.getDE(), c.a); return 8 }
	t[0x13] = func(c *CPU) int { c.setDE(c.getDE() + 1); return 8 }
	t[0x14] = func(c *CPU) int { c.inc8(&c.d); return 4 }
	t[0x15] = func(c *CPU) int { c.dec8(&c.d); return 4 }
	t[0x16] = func(c *CPU) int { c.d = c.fetch8(); return 8 }
	t[0x17] = func(c *CPU) int { c.rl(&c.a); c.resetFlag(flagZ); return 4 }
	t[0x18] = func(c *CPU) int { c.jr(int8(c.fetch8())); return 12 }
	t[0x19] = func(c *CPU) int { c.addToHL(c.getDE()); return 8 }
	t[0x1A] = func(c *CPU) int { c.a = c.mmu.Read(c.getDE()); return 8 }
	t[0x1B] = func(c *CPU) int { c.setDE(c.getDE() - 1); return 8 }
	t[0x1C] = func(c *CPU) int { c.inc8(&c.e); return 4 }
	t[0x1D] = func(c *CPU) int { c.dec8(&c.e); return 4 }
	t[0x1E] = func(c *CPU) int { c.e = c.fetch8(); return 8 }
	t[0x1F] = func(c *CPU) int { c.rr(&c.a); c.resetFlag(flagZ); return 4 }

	t[0x20] = func(c *CPU) int {
		offset := int8(c.fetch8())
		if !c.isSet(flagZ) {
			c.jr(offset)
			return 12
		}
		return 8
	}
	t[0x21] = func(c *CPU) int { c.setHL(c.fetch16()); return 12 }
	t[0x22] = func(c *CPU) int { c.mmu.Write(c.getHL(), c.a); c.setHL(c.getHL() + 1); return 8 }
	t[0x23] = func(c *CPU) int { c.setHL(c.getHL() + 1); return 8 }
	t[0x24] = func(c *CPU) int { c.inc8(&c.h); return 4 }
	t[0x25] = func(c *CPU) int { c.dec8(&c.h); return 4 }
	t[0x26] = func(c *CPU) int { c.h = c.fetch8(); return 8 }
	t[0x27] = func(c *CPU) int { c.daa(); return 4 }
	t[0x28] = func(c *CPU) int {
		offset := int8(c.fetch8())
		if c.isSet(flagZ) {
			c.jr(offset)
			return 12
		}
		return 8
	}
	t[0x29] = func(c *CPU) int { c.addToHL(c.getHL()); return 8 }
	t[0x2A] = func(c *CPU) int { c.a = c.mmu.Read(c.getHL()); c.setHL(c.getHL() + 1); return 8 }
	t[0x2B] = func(c *CPU) int { c.setHL(c.getHL() - 1); return 8 }
	t[0x2C] = func(c *CPU) int { c.inc8(&c.l); return 4 }
	t[0x2D] = func(c *CPU) int { c.dec8(&c.l); return 4 }
	t[0x2E] = func(c *CPU) int { c.l = c.fetch8(); return 8 }
	t[0x2F] = func(c *CPU) int {
		c.a = ^c.a
		c.setFlag(flagN)
		c.setFlag(flagH)
		return 4
	}

	t[0x30] = func(c *CPU) int {
		offset := int8(c.fetch8())
		if !c.isSet(flagC) {
			c.jr(offset)
			return 12
		}
		return 8
	}
	t[0x31] = func(c *CPU) int { c.sp = c.fetch16(); return 12 }
	t[0x32] = func(c *CPU) int { c.mmu.Write(c.getHL(), c.a); c.setHL(c.getHL() - 1); return 8 }
	t[0x33] = func(c *CPU) int { c.sp++; return 8 }
	t[0x34] = func(c *CPU) int {
		v := c.mmu.Read(c.getHL())
		c.inc8(&v)
		c.mmu.Write(c.getHL(), v)
		return 12
	}
	t[0x35] = func(c *CPU) int {
		v := c.mmu.Read(c.getHL())
		c.dec8(&v)
		c.mmu.Write(c.getHL(), v)
		return 12
	}
	t[0x36] = func(c *CPU) int { c.mmu.Write(c.getHL(), c.fetch8()); return 12 }
	t[0x37] = func(c *CPU) int {
		c.resetFlag(flagN)
		c.resetFlag(flagH)
		c.setFlag(flagC)
		return 4
	}
	t[0x38] = func(c *CPU) int {
		offset := int8(c.fetch8())
		if c.isSet(flagC) {
			c.jr(offset)
			return 12
		}
		return 8
	}
	t[0x39] = func(c *CPU) int { c.addToHL(c.sp); return 8 }
	t[0x3A] = func(c *CPU) int { c.a = c.mmu.Read(c.getHL()); c.setHL(c.getHL() - 1); return 8 }
	t[0x3B] = func(c *CPU) int { c.sp--; return 8 }
	t[0x3C] = func(c *CPU) int { c.inc8(&c.a); return 4 }
	t[0x3D] = func(c *CPU) int { c.dec8(&c.a); return 4 }
	t[0x3E] = func(c *CPU) int { c.a = c.fetch8(); return 8 }
	t[0x3F] = func(c *CPU) int {
		c.resetFlag(flagN)
		c.resetFlag(flagH)
		c.setFlagTo(flagC, !c.isSet(flagC))
		return 4
	}

	// 0x40-0x7F: LD r,r' grid, 0x76 is HALT.
	for dst := reg8(0); dst < 8; dst++ {
		for src := reg8(0); src < 8; src++ {
			opcode := 0x40 + int(dst)*8 + int(src)
			if opcode == 0x76 {
				continue
			}
			dst, src := dst, src
			cycles := 4
			if dst == regHLInd || src == regHLInd {
				cycles = 8
			}
			t[opcode] = func(c *CPU) int {
				c.writeR8(dst, c.readR8(src))
				return cycles
			}
		}
	}
	t[0x76] = func(c *CPU) int {
		if !c.ime && c.pendingInterrupts() != 0 {
			c.haltBug = true
		} else {
			c.halted = true
		}
		return 4
	}

	// 0x80-0xBF: ALU A,r grid.
	aluOps := [8]func(c *CPU, v uint8){
		func(c *CPU, v uint8) { c.addToA(v) },
		func(c *CPU, v uint8) { c.adcToA(v) },
		func(c *CPU, v uint8) { c.subFromA(v) },
		func(c *CPU, v uint8) { c.sbcFromA(v) },
		func(c *CPU, v uint8) { c.andA(v) },
		func(c *CPU, v uint8) { c.xorA(v) },
		func(c *CPU, v uint8) { c.orA(v) },
		func(c *CPU, v uint8) { c.cpA(v) },
	}
	for op := 0; op < 8; op++ {
		for src := reg8(0); src < 8; src++ {
			opcode := 0x80 + op*8 + int(src)
			op, src := op, src
			cycles := 4
			if src == regHLInd {
				cycles = 8
			}
			t[opcode] = func(c *CPU) int {
				aluOps[op](c, c.readR8(src))
				return cycles
			}
		}
	}

	t[0xC0] = func(c *CPU) int {
		if !c.isSet(flagZ) {
			c.pc = c.pop16()
			return 20
		}
		return 8
	}
	t[0xC1] = func(c *CPU) int { c.setBC(c.pop16()); return 12 }
	t[0xC2] = func(c *CPU) int {
		target := c.fetch16()
		if !c.isSet(flagZ) {
			c.pc = target
			return 16
		}
		return 12
	}
	t[0xC3] = func(c *CPU) int { c.pc = c.fetch16(); return 16 }
	t[0xC4] = func(c *CPU) int {
		target := c.fetch16()
		if !c.isSet(flagZ) {
			c.push16(c.pc)
			c.pc = target
			return 24
		}
		return 12
	}
	t[0xC5] = func(c *CPU) int { c.push16(c.getBC()); return 16 }
	t[0xC6] = func(c *CPU) int { c.addToA(c.fetch8()); return 8 }
	t[0xC7] = func(c *CPU) int { c.rst(0x00); return 16 }
	t[0xC8] = func(c *CPU) int {
		if c.isSet(flagZ) {
			c.pc = c.pop16()
			return 20
		}
		return 8
	}
	t[0xC9] = func(c *CPU) int { c.pc = c.pop16(); return 16 }
	t[0xCA] = func(c *CPU) int {
		target := c.fetch16()
		if c.isSet(flagZ) {
			c.pc = target
			return 16
		}
		return 12
	}
	// 0xCB is the CB prefix. Step() dispatches it directly; this entry does
	// the same prefixed dispatch for callers indexing the table.
	t[0xCB] = func(c *CPU) int { return opcodeCBTable[c.fetch8()](c) }
	t[0xCC] = func(c *CPU) int {
		target := c.fetch16()
		if c.isSet(flagZ) {
			c.push16(c.pc)
			c.pc = target
			return 24
		}
		return 12
	}
	t[0xCD] = func(c *CPU) int {
		target := c.fetch16()
		c.push16(c.pc)
		c.pc = target
		return 24
	}
	t[0xCE] = func(c *CPU) int { c.adcToA(c.fetch8()); return 8 }
	t[0xCF] = func(c *CPU) int { c.rst(0x08); return 16 }

	t[0xD0] = func(c *CPU) int {
		if !c.isSet(flagC) {
			c.pc = c.pop16()
			return 20
		}
		return 8
	}
	t[0xD1] = func(c *CPU) int { c.setDE(c.pop16()); return 12 }
	t[0xD2] = func(c *CPU) int {
		target := c.fetch16()
		if !c.isSet(flagC) {
			c.pc = target
			return 16
		}
		return 12
	}
	t[0xD3] = illegalOpcode
	t[0xD4] = func(c *CPU) int {
		target := c.fetch16()
		if !c.isSet(flagC) {
			c.push16(c.pc)
			c.pc = target
			return 24
		}
		return 12
	}
	t[0xD5] = func(c *CPU) int { c.push16(c.getDE()); return 16 }
	t[0xD6] = func(c *CPU) int { c.subFromA(c.fetch8()); return 8 }
	t[0xD7] = func(c *CPU) int { c.rst(0x10); return 16 }
	t[0xD8] = func(c *CPU) int {
		if c.isSet(flagC) {
			c.pc = c.pop16()
			return 20
		}
		return 8
	}
	t[0xD9] = func(c *CPU) int { c.pc = c.pop16(); c.ime = true; return 16 }
	t[0xDA] = func(c *CPU) int {
		target := c.fetch16()
		if c.isSet(flagC) {
			c.pc = target
			return 16
		}
		return 12
	}
	t[0xDB] = illegalOpcode
	t[0xDC] = func(c *CPU) int {
		target := c.fetch16()
		if c.isSet(flagC) {
			c.push16(c.pc)
			c.pc = target
			return 24
		}
		return 12
	}
	t[0xDD] = illegalOpcode
	t[0xDE] = func(c *CPU) int { c.sbcFromA(c.fetch8()); return 8 }
	t[0xDF] = func(c *CPU) int { c.rst(0x18); return 16 }

	t[0xE0] = func(c *CPU) int { c.mmu.Write(0xFF00+uint16(c.fetch8()), c.a); return 12 }
	t[0xE1] = func(c *CPU) int { c.setHL(c.pop16()); return 12 }
	t[0xE2] = func(c *CPU) int { c.mmu.Write(0xFF00+uint16(c.c), c.a); return 8 }
	t[0xE3] = illegalOpcode
	t[0xE4] = illegalOpcode
	t[0xE5] = func(c *CPU) int { c.push16(c.getHL()); return 16 }
	t[0xE6] = func(c *CPU) int { c.andA(c.fetch8()); return 8 }
	t[0xE7] = func(c *CPU) int { c.rst(0x20); return 16 }
	t[0xE8] = func(c *CPU) int { c.sp = c.addSPSigned(int8(c.fetch8())); return 16 }
	t[0xE9] = func(c *CPU) int { c.pc = c.getHL(); return 4 }
	t[0xEA] = func(c *CPU) int { c.mmu.Write(c.fetch16(), c.a); return 16 }
	t[0xEB] = illegalOpcode
	t[0xEC] = illegalOpcode
	t[0xED] = illegalOpcode
	t[0xEE] = func(c *CPU) int { c.xorA(c.fetch8()); return 8 }
	t[0xEF] = func(c *CPU) int { c.rst(0x28); return 16 }

	t[0xF0] = func(c *CPU) int { c.a = c.mmu.Read(0xFF00 + uint16(c.fetch8())); return 12 }
	t[0xF1] = func(c *CPU) int { c.setAF(c.pop16()); return 12 }
	t[0xF2] = func(c *CPU) int { c.a = c.mmu.Read(0xFF00 + uint16(c.c)); return 8 }
	t[0xF3] = func(c *CPU) int { c.ime = false; c.imePending = false; return 4 }
	t[0xF4] = illegalOpcode
	t[0xF5] = func(c *CPU) int { c.push16(c.getAF()); return 16 }
	t[0xF6] = func(c *CPU) int { c.orA(c.fetch8()); return 8 }
	t[0xF7] = func(c *CPU) int { c.rst(0x30); return 16 }
	t[0xF8] = func(c *CPU) int { c.setHL(c.addSPSigned(int8(c.fetch8()))); return 12 }
	t[0xF9] = func(c *CPU) int { c.sp = c.getHL(); return 8 }
	t[0xFA] = func(c *CPU) int { c.a = c.mmu.Read(c.fetch16()); return 16 }
	t[0xFB] = func(c *CPU) int { c.imePending = true; return 4 }
	t[0xFC] = illegalOpcode
	t[0xFD] = illegalOpcode
	t[0xFE] = func(c *CPU) int { c.cpA(c.fetch8()); return 8 }
	t[0xFF] = func(c *CPU) int { c.rst(0x38); return 16 }
}

// illegalOpcode covers the 11 undefined opcodes; real hardware locks up,
// this treats them as a 4-cycle no-op.
func illegalOpcode(c *CPU) int { return 4 }
