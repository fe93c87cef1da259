// Package cpu implements the Sharp LR35902 instruction set: 8-bit and
// 16-bit register files, the full unprefixed and CB-prefixed opcode tables,
// and the fetch/interrupt-dispatch loop (spec §4.2 CPU).
package cpu

import (
	"github.com/Coolman4128/EducationBoy/addr"
	"github.com/Coolman4128/EducationBoy/memory"
)

// CPU holds the Sharp LR35902 register file and stepping state.
type CPU struct {
	a, b, c, d, e, h, l uint8
	f                   uint8 // low nibble always reads 0
	sp, pc              uint16

	ime        bool
	imePending bool // EI delays enabling IME by one instruction
	halted     bool
	stopped    bool
	haltBug    bool // PC fails to advance once after a buggy HALT

	mmu *memory.MMU
}

// New creates a CPU wired to mmu, with registers at their documented
// post-boot-ROM values (DMG, no boot ROM executed).
func New(mmu *memory.MMU) *CPU {
	c := &CPU{mmu: mmu}
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// PC exposes the program counter, mainly for debuggers/snapshots.
func (c *CPU) PC() uint16 { return c.pc }

// SP exposes the stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

func (c *CPU) fetch8() uint8 {
	v := c.mmu.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.sp--
	c.mmu.Write(c.sp, uint8(v>>8))
	c.sp--
	c.mmu.Write(c.sp, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.mmu.Read(c.sp)
	c.sp++
	hi := c.mmu.Read(c.sp)
	c.sp++
	return uint16(hi)<<8 | uint16(lo)
}

// pendingInterrupts is the set of requested-and-enabled interrupt bits.
func (c *CPU) pendingInterrupts() uint8 {
	return c.mmu.Read(addr.IF) & c.mmu.Read(addr.IE) & 0x1F
}

// Step executes exactly one instruction (or one interrupt dispatch, or one
// halted no-op) and returns the number of T-cycles it consumed: service an
// interrupt if one is both pending and enabled, otherwise fetch/decode/
// execute. An EI executed by the previous step sets IME only after this
// step's instruction has run, so the interrupt check here still sees the
// old IME.
func (c *CPU) Step() int {
	eiDelayed := c.imePending

	if pending := c.pendingInterrupts(); pending != 0 {
		if c.halted {
			c.halted = false
		}
		if c.ime {
			return c.dispatchInterrupt(pending)
		}
	}

	if c.halted {
		return 4
	}

	opcode := c.fetch8()
	if c.haltBug {
		c.haltBug = false
		c.pc--
	}

	var cycles int
	if opcode == 0xCB {
		sub := c.fetch8()
		cycles = opcodeCBTable[sub](c)
	} else {
		cycles = opcodeTable[opcode](c)
	}

	// DI clears imePending, cancelling an EI that has not taken effect yet.
	if eiDelayed && c.imePending {
		c.imePending = false
		c.ime = true
	}
	return cycles
}

// dispatchInterrupt services the highest-priority pending interrupt:
// clears IME and the corresponding IF bit, pushes PC, and jumps to the
// interrupt's fixed vector. Costs 20 T-cycles (5 M-cycles).
func (c *CPU) dispatchInterrupt(pending uint8) int {
	var which addr.Interrupt
	switch {
	case pending&uint8(addr.VBlankInterrupt) != 0:
		which = addr.VBlankInterrupt
	case pending&uint8(addr.LCDSTATInterrupt) != 0:
		which = addr.LCDSTATInterrupt
	case pending&uint8(addr.TimerInterrupt) != 0:
		which = addr.TimerInterrupt
	case pending&uint8(addr.SerialInterrupt) != 0:
		which = addr.SerialInterrupt
	case pending&uint8(addr.JoypadInterrupt) != 0:
		which = addr.JoypadInterrupt
	}

	c.ime = false
	c.imePending = false
	c.mmu.Write(addr.IF, c.mmu.Read(addr.IF)&^uint8(which))
	c.push16(c.pc)
	c.pc = addr.VectorFor(which)
	return 20
}
