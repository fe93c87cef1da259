package cpu

var opcodeCBTable [256]opcodeFunc

func init() {
	t := &opcodeCBTable

	shiftOps := [8]func(c *CPU, r reg8) uint8{
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.rlc(&v); c.writeR8(r, v); return v },
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.rrc(&v); c.writeR8(r, v); return v },
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.rl(&v); c.writeR8(r, v); return v },
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.rr(&v); c.writeR8(r, v); return v },
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.sla(&v); c.writeR8(r, v); return v },
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.sra(&v); c.writeR8(r, v); return v },
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.swap(&v); c.writeR8(r, v); return v },
		func(c *CPU, r reg8) uint8 { v := c.readR8(r); c.srl(&v); c.writeR8(r, v); return v },
	}

	// 0x00-0x3F: RLC/RRC/RL/RR/SLA/SRA/SWAP/SRL r
	for op := 0; op < 8; op++ {
		for r := reg8(0); r < 8; r++ {
			opcode := op*8 + int(r)
			op, r := op, r
			cycles := 8
			if r == regHLInd {
				cycles = 16
			}
			t[opcode] = func(c *CPU) int {
				v := shiftOps[op](c, r)
				c.finishShift(v)
				return cycles
			}
		}
	}

	// 0x40-0x7F: BIT b,r
	for b := uint8(0); b < 8; b++ {
		for r := reg8(0); r < 8; r++ {
			opcode := 0x40 + int(b)*8 + int(r)
			b, r := b, r
			cycles := 8
			if r == regHLInd {
				cycles = 12
			}
			t[opcode] = func(c *CPU) int {
				c.bit(b, c.readR8(r))
				return cycles
			}
		}
	}

	// 0x80-0xBF: RES b,r
	for b := uint8(0); b < 8; b++ {
		for r := reg8(0); r < 8; r++ {
			opcode := 0x80 + int(b)*8 + int(r)
			b, r := b, r
			cycles := 8
			if r == regHLInd {
				cycles = 16
			}
			t[opcode] = func(c *CPU) int {
				v := c.readR8(r) &^ (1 << b)
				c.writeR8(r, v)
				return cycles
			}
		}
	}

	// 0xC0-0xFF: SET b,r
	for b := uint8(0); b < 8; b++ {
		for r := reg8(0); r < 8; r++ {
			opcode := 0xC0 + int(b)*8 + int(r)
			b, r := b, r
			cycles := 8
			if r == regHLInd {
				cycles = 16
			}
			t[opcode] = func(c *CPU) int {
				v := c.readR8(r) | (1 << b)
				c.writeR8(r, v)
				return cycles
			}
		}
	}
}
