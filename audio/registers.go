package audio

import (
	"github.com/Coolman4128/EducationBoy/addr"
	"github.com/Coolman4128/EducationBoy/bit"
)

// ReadRegister returns a register's value with write-only/unused bits
// forced to 1, matching real hardware's open-bus behavior.
func (a *APU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.NR10:
		return a.NR10 | 0b1000_0000
	case addr.NR11:
		return a.NR11 | 0b0011_1111
	case addr.NR12:
		return a.NR12
	case addr.NR13:
		return 0xFF
	case addr.NR14:
		return a.NR14 | 0b1011_1111
	case addr.NR21:
		return a.NR21 | 0b0011_1111
	case addr.NR22:
		return a.NR22
	case addr.NR23:
		return 0xFF
	case addr.NR24:
		return a.NR24 | 0b1011_1111
	case addr.NR30:
		return a.NR30 | 0b0111_1111
	case addr.NR31:
		return 0xFF
	case addr.NR32:
		return a.NR32 | 0b1001_1111
	case addr.NR33:
		return 0xFF
	case addr.NR34:
		return a.NR34 | 0b1011_1111
	case addr.NR41:
		return 0xFF
	case addr.NR42:
		return a.NR42
	case addr.NR43:
		return a.NR43
	case addr.NR44:
		return a.NR44 | 0b1011_1111
	case addr.NR50:
		return a.NR50
	case addr.NR51:
		return a.NR51
	case addr.NR52:
		status := uint8(0b0111_0000)
		if a.enabled {
			status = bit.Set(7, status)
		}
		for i := range a.ch {
			if a.ch[i].enabled {
				status = bit.Set(uint8(i), status)
			}
		}
		return status
	}
	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		if a.waveRAMLocked() {
			return a.ch[2].waveSample
		}
		return a.waveRAM[address-addr.WaveRAMStart]
	}
	return 0xFF
}

// WriteRegister stores a register write and re-derives channel state from
// the raw register bytes.
func (a *APU) WriteRegister(address uint16, value uint8) {
	isWaveRAM := address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd

	if !a.enabled && address != addr.NR52 && !isWaveRAM {
		return
	}

	switch address {
	case addr.NR10:
		a.NR10 = value
	case addr.NR11:
		a.NR11 = value
		a.ch[0].length = 64 - uint16(bit.ExtractBits(value, 5, 0))
	case addr.NR12:
		a.NR12 = value
		a.reloadEnvelopeCounter(&a.ch[0], value)
	case addr.NR13:
		a.NR13 = value
	case addr.NR14:
		a.NR14 = value
	case addr.NR21:
		a.NR21 = value
		a.ch[1].length = 64 - uint16(bit.ExtractBits(value, 5, 0))
	case addr.NR22:
		a.NR22 = value
		a.reloadEnvelopeCounter(&a.ch[1], value)
	case addr.NR23:
		a.NR23 = value
	case addr.NR24:
		a.NR24 = value
	case addr.NR30:
		a.NR30 = value
	case addr.NR31:
		a.NR31 = value
		a.ch[2].length = 256 - uint16(value)
	case addr.NR32:
		a.NR32 = value
	case addr.NR33:
		a.NR33 = value
	case addr.NR34:
		a.NR34 = value
	case addr.NR41:
		a.NR41 = value
		a.ch[3].length = 64 - uint16(bit.ExtractBits(value, 5, 0))
	case addr.NR42:
		a.NR42 = value
		a.reloadEnvelopeCounter(&a.ch[3], value)
	case addr.NR43:
		a.NR43 = value
	case addr.NR44:
		a.NR44 = value
	case addr.NR50:
		a.NR50 = value
	case addr.NR51:
		a.NR51 = value
	case addr.NR52:
		a.NR52 = value
	}

	if isWaveRAM {
		offset := address - addr.WaveRAMStart
		if a.waveRAMLocked() {
			idx := a.ch[2].waveIndex >> 1
			a.waveRAM[idx] = value
			a.ch[2].waveSample = value
		} else {
			a.waveRAM[offset] = value
		}
	}

	a.mapRegistersToState()
}

func (a *APU) reloadEnvelopeCounter(ch *channel, nrX2 uint8) {
	pace := bit.ExtractBits(nrX2, 2, 0)
	if pace == 0 {
		ch.envelopeCounter = 8
	} else {
		ch.envelopeCounter = pace
	}
	ch.envelopeLatched = false
}

// handleLengthEnableTransition implements the length-enable/trigger
// interactions documented as "obscure behavior" on Pan Docs: enabling
// length on an odd sequencer step clocks it once immediately, and a
// trigger reloads a zeroed length counter before that clock is applied.
func (a *APU) handleLengthEnableTransition(prevEnabled bool, lengthBefore uint16, triggered bool, maxLength uint16, chIdx int) {
	ch := &a.ch[chIdx]
	lengthWasZero := lengthBefore == 0
	clockOnEnable := !prevEnabled && ch.lengthEnable && a.step%2 == 1 && lengthBefore > 0

	if triggered && (lengthWasZero || (clockOnEnable && lengthBefore == 1)) {
		ch.length = maxLength
	}

	if !ch.lengthEnable {
		return
	}

	forceClock := lengthWasZero && triggered && ch.length > 0
	if !forceClock && prevEnabled {
		return
	}

	if a.step%2 == 1 && ch.length > 0 {
		ch.length--
		if ch.length == 0 {
			ch.enabled = false
		}
	}
}

func (a *APU) mapRegistersToState() {
	a.enabled = bit.IsSet(7, a.NR52)
	if !a.enabled {
		a.NR10, a.NR11, a.NR12, a.NR13, a.NR14 = 0, 0, 0, 0, 0
		a.NR21, a.NR22, a.NR23, a.NR24 = 0, 0, 0, 0
		a.NR30, a.NR31, a.NR32, a.NR33, a.NR34 = 0, 0, 0, 0, 0
		a.NR41, a.NR42, a.NR43, a.NR44 = 0, 0, 0, 0
		a.NR50, a.NR51 = 0, 0
		for i := range a.ch {
			a.ch[i].enabled = false
		}
	}

	for i := range a.ch {
		a.ch[i].right = bit.IsSet(uint8(i), a.NR51)
		a.ch[i].left = bit.IsSet(uint8(i+4), a.NR51)
	}

	a.vinLeft, a.vinRight = bit.IsSet(7, a.NR50), bit.IsSet(3, a.NR50)
	a.volLeft, a.volRight = bit.ExtractBits(a.NR50, 6, 4), bit.ExtractBits(a.NR50, 2, 0)

	a.mapSquareChannel(0, a.NR10, a.NR11, a.NR12, a.NR13, a.NR14, true)
	a.mapSquareChannel(1, 0, a.NR21, a.NR22, a.NR23, a.NR24, false)
	a.mapWaveChannel()
	a.mapNoiseChannel()

	for i := range a.ch {
		if !a.ch[i].dacEnabled {
			a.ch[i].enabled = false
		}
	}
}

func (a *APU) mapSquareChannel(idx int, nrX0, nrX1, nrX2, nrX3, nrX4 uint8, hasSweep bool) {
	ch := &a.ch[idx]

	if hasSweep {
		prevSweepDown := ch.sweepDown
		ch.sweepPeriod = bit.ExtractBits(nrX0, 6, 4)
		ch.sweepDown = bit.IsSet(3, nrX0)
		ch.sweepStep = bit.ExtractBits(nrX0, 2, 0)
		if !ch.sweepDown && prevSweepDown && ch.sweepNegUsed && (ch.sweepPeriod > 0 || ch.sweepStep > 0) {
			ch.enabled = false
		}
	}

	ch.duty = bit.ExtractBits(nrX1, 7, 6)
	ch.timer = bit.ExtractBits(nrX1, 5, 0)

	ch.volume = bit.ExtractBits(nrX2, 7, 4)
	ch.envelopeUp = bit.IsSet(3, nrX2)
	ch.envelopePace = bit.ExtractBits(nrX2, 2, 0)
	ch.dacEnabled = ch.volume > 0 || ch.envelopeUp

	ch.period = bit.Combine(nrX4&0b111, nrX3)

	prevLenEnable := ch.lengthEnable
	lengthBefore := ch.length
	triggered := bit.IsSet(7, nrX4)
	ch.lengthEnable = bit.IsSet(6, nrX4)
	ch.trigger = triggered

	if triggered {
		if ch.dacEnabled {
			ch.enabled = true
		}
		ch.envelopeLatched = false
		if ch.envelopePace == 0 {
			ch.envelopeCounter = 8
		} else {
			ch.envelopeCounter = ch.envelopePace
		}
		ch.dutyStep = 0
		ch.freqTimer = a.squarePeriodCycles(ch)

		if hasSweep {
			ch.sweepEnabled = ch.sweepPeriod > 0 || ch.sweepStep > 0
			ch.sweepTimer = ch.sweepPeriod
			if ch.sweepTimer == 0 {
				ch.sweepTimer = 8
			}
			ch.shadowFreq = ch.period
			ch.sweepNegUsed = false
			if ch.sweepStep != 0 {
				if ch.sweepDown {
					ch.sweepNegUsed = true
				}
				if _, overflow := ch.calculateSweepFrequency(); overflow {
					ch.enabled = false
				}
			}
		}

		if idx == 0 {
			a.NR14 = bit.Reset(7, a.NR14)
		} else {
			a.NR24 = bit.Reset(7, a.NR24)
		}
		ch.trigger = false
	}

	a.handleLengthEnableTransition(prevLenEnable, lengthBefore, triggered, 64, idx)
}

func (a *APU) mapWaveChannel() {
	ch := &a.ch[2]

	ch.dacEnabled = bit.IsSet(7, a.NR30)
	ch.timer = a.NR31
	ch.volume = bit.ExtractBits(a.NR32, 6, 5)
	ch.period = bit.Combine(a.NR34&0b111, a.NR33)

	prevLenEnable := ch.lengthEnable
	lengthBefore := ch.length
	triggered := bit.IsSet(7, a.NR34)
	ch.lengthEnable = bit.IsSet(6, a.NR34)
	ch.trigger = triggered

	if triggered {
		if ch.dacEnabled {
			ch.enabled = true
		}
		ch.freqTimer = a.wavePeriodCycles(ch)
		ch.waveIndex = 0
		ch.waveSample = a.waveRAM[0]
		a.NR34 = bit.Reset(7, a.NR34)
		ch.trigger = false
	}

	a.handleLengthEnableTransition(prevLenEnable, lengthBefore, triggered, 256, 2)
}

func (a *APU) mapNoiseChannel() {
	ch := &a.ch[3]

	ch.timer = bit.ExtractBits(a.NR41, 5, 0)
	ch.volume = bit.ExtractBits(a.NR42, 7, 4)
	ch.envelopeUp = bit.IsSet(3, a.NR42)
	ch.envelopePace = bit.ExtractBits(a.NR42, 2, 0)

	ch.shift = bit.ExtractBits(a.NR43, 7, 4)
	ch.use7bitLFSR = bit.IsSet(3, a.NR43)
	ch.divider = bit.ExtractBits(a.NR43, 2, 0)

	ch.dacEnabled = ch.volume > 0 || ch.envelopeUp

	prevLenEnable := ch.lengthEnable
	lengthBefore := ch.length
	triggered := bit.IsSet(7, a.NR44)
	ch.lengthEnable = bit.IsSet(6, a.NR44)
	ch.trigger = triggered

	if triggered {
		if ch.dacEnabled {
			ch.enabled = true
		}
		ch.envelopeLatched = false
		if ch.envelopePace == 0 {
			ch.envelopeCounter = 8
		} else {
			ch.envelopeCounter = ch.envelopePace
		}
		ch.lfsr = 0x7FFF
		ch.noiseTimer = a.noisePeriodCycles(ch)
		a.NR44 = bit.Reset(7, a.NR44)
		ch.trigger = false
	}

	a.handleLengthEnableTransition(prevLenEnable, lengthBefore, triggered, 64, 3)
}

// GetSamples drains the pull-based debug buffer (Provider interface).
func (a *APU) GetSamples(count int) []int16 {
	if count <= 0 {
		return nil
	}

	needed := count * 2
	available := len(a.debugBuffer) - a.debugCursor
	if available <= 0 {
		return make([]int16, needed)
	}

	out := make([]int16, needed)
	toCopy := available
	if toCopy > needed {
		toCopy = needed
	}
	copy(out, a.debugBuffer[a.debugCursor:a.debugCursor+toCopy])
	a.debugCursor += toCopy

	if a.debugCursor >= len(a.debugBuffer) {
		a.debugBuffer = a.debugBuffer[:0]
		a.debugCursor = 0
	}

	return out
}

// ToggleChannel mutes/unmutes a single channel for debugging.
func (a *APU) ToggleChannel(idx int) {
	if idx < 0 || idx >= len(a.ch) {
		return
	}
	a.ch[idx].muted = !a.ch[idx].muted
}

// SoloChannel mutes every channel except idx; calling it again with the same
// index un-mutes everything.
func (a *APU) SoloChannel(idx int) {
	if idx < 0 || idx >= len(a.ch) {
		return
	}

	soloed := !a.ch[idx].muted
	for i := range a.ch {
		if i != idx && !a.ch[i].muted {
			soloed = false
		}
	}
	if soloed {
		for i := range a.ch {
			a.ch[i].muted = false
		}
		return
	}

	for i := range a.ch {
		a.ch[i].muted = i != idx
	}
}

// GetChannelStatus reports whether each channel is currently producing
// sound (DAC+length+sweep enabled), not whether it's muted for debugging.
func (a *APU) GetChannelStatus() (bool, bool, bool, bool) {
	return a.ch[0].enabled, a.ch[1].enabled, a.ch[2].enabled, a.ch[3].enabled
}

// GetChannelVolumes returns each channel's current envelope volume.
func (a *APU) GetChannelVolumes() (ch1, ch2, ch3, ch4 uint8) {
	return a.ch[0].volume, a.ch[1].volume, a.ch[2].volume, a.ch[3].volume
}
