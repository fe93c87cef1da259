package audio

import (
	"github.com/Coolman4128/EducationBoy/bit"
	"github.com/Coolman4128/EducationBoy/timing"
)

// APU is the DMG Audio Processing Unit: two square channels with duty/
// envelope/sweep, one wave channel backed by 32 4-bit samples, and one
// noise channel driven by a 15-bit LFSR, mixed to stereo per NR50/NR51
// (spec §4.4 APU).
type APU struct {
	enabled           bool
	ch                [4]channel
	vinLeft, vinRight bool
	volLeft, volRight uint8

	mixLeftAcc     int64
	mixRightAcc    int64
	mixAccumCycles int

	sink               Sink
	sampleRate         int
	cyclesPerSample    float64
	sampleCycleAcc     float64
	debugBuffer        []int16
	debugCursor        int

	step   int // frame sequencer step, 0-7
	cycles int // cycles accumulated since the last sequencer tick

	NR10, NR11, NR12, NR13, NR14 uint8
	NR21, NR22, NR23, NR24       uint8
	NR30, NR31, NR32, NR33, NR34 uint8
	NR41, NR42, NR43, NR44       uint8
	NR50, NR51, NR52             uint8
	waveRAM                      [waveRAMSize]uint8
}

// channel holds the running state of one of the four sound-generating
// channels; which fields apply depends on the channel's type.
type channel struct {
	enabled     bool
	left, right bool

	duty   uint8
	timer  uint8
	length uint16
	volume uint8

	sweepPeriod  uint8
	sweepDown    bool
	sweepStep    uint8
	sweepEnabled bool
	sweepTimer   uint8
	shadowFreq   uint16
	sweepNegUsed bool

	envelopePace    uint8
	envelopeUp      bool
	envelopeCounter uint8
	envelopeLatched bool

	period       uint16
	trigger      bool
	lengthEnable bool
	freqTimer    int
	dutyStep     uint8
	waveIndex    uint8
	waveSample   uint8
	noiseTimer   int

	lfsr        uint16
	use7bitLFSR bool
	shift       uint8
	divider     uint8

	dacEnabled bool
	muted      bool
}

// New creates an APU that pushes mixed stereo samples to sink at sampleRate.
// A nil sink disables push output; GetSamples remains available regardless.
func New(sampleRate int, sink Sink) *APU {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	a := &APU{sampleRate: sampleRate, sink: sink}
	a.cyclesPerSample = float64(timing.CPUFrequency) / float64(a.sampleRate)
	return a
}

// SetSink replaces the push-based sample destination.
func (a *APU) SetSink(sink Sink) {
	a.sink = sink
}

// Tick advances the APU by the given number of T-cycles.
func (a *APU) Tick(cycles int) {
	if !a.enabled {
		return
	}

	a.tickGenerators(cycles)

	a.cycles += cycles
	for a.cycles >= cyclesPerStep {
		a.cycles -= cyclesPerStep
		a.tickSequence()
	}
}

func (a *APU) tickGenerators(cycles int) {
	if cycles <= 0 {
		return
	}

	var leftLevel, rightLevel int64
	for i := range a.ch {
		ch := &a.ch[i]
		if !ch.enabled || !ch.dacEnabled || ch.muted {
			continue
		}

		var level int64
		switch i {
		case 0, 1:
			level = a.stepSquare(ch, cycles)
		case 2:
			level = a.stepWave(ch, cycles)
		case 3:
			// noise is attenuated by half relative to the tonal channels,
			// since its broadband energy otherwise dominates the mix.
			level = a.stepNoise(ch, cycles) / 2
		}
		if level == 0 {
			continue
		}

		if ch.left {
			leftLevel += level
		}
		if ch.right {
			rightLevel += level
		}
	}

	a.mixLeftAcc += leftLevel * int64(cycles)
	a.mixRightAcc += rightLevel * int64(cycles)
	a.mixAccumCycles += cycles
	a.flushMix(cycles)
}

func (a *APU) flushMix(cycles int) {
	if a.cyclesPerSample == 0 {
		return
	}

	a.sampleCycleAcc += float64(cycles)
	for a.sampleCycleAcc >= a.cyclesPerSample {
		a.sampleCycleAcc -= a.cyclesPerSample
		left, right := a.exportMixedSample()
		a.pushSample(left, right)
	}
}

func (a *APU) pushSample(left, right int16) {
	a.debugBuffer = append(a.debugBuffer, left, right)
	if a.sink != nil {
		a.sink.PushSample(float32(left)/32768.0, float32(right)/32768.0)
	}
}

func (a *APU) exportMixedSample() (int16, int16) {
	if a.mixAccumCycles == 0 {
		return 0, 0
	}

	leftAvg := float64(a.mixLeftAcc) / float64(a.mixAccumCycles)
	rightAvg := float64(a.mixRightAcc) / float64(a.mixAccumCycles)

	left, right := scaleToPCM(leftAvg, a.volLeft), scaleToPCM(rightAvg, a.volRight)

	a.mixLeftAcc = 0
	a.mixRightAcc = 0
	a.mixAccumCycles = 0

	return left, right
}

func (a *APU) stepSquare(ch *channel, cycles int) int64 {
	period := a.squarePeriodCycles(ch)
	if period == 0 {
		return 0
	}
	if ch.freqTimer <= 0 {
		ch.freqTimer = period
	}

	ch.freqTimer -= cycles
	for ch.freqTimer <= 0 {
		ch.freqTimer += period
		ch.dutyStep = (ch.dutyStep + 1) & 0x7
	}

	if ch.volume == 0 {
		return 0
	}
	pattern := dutyPatterns[ch.duty&0x3][ch.dutyStep]
	level := int64(ch.volume)
	if pattern == 0 {
		return -level
	}
	return level
}

func (a *APU) stepWave(ch *channel, cycles int) int64 {
	period := a.wavePeriodCycles(ch)
	if period == 0 {
		return 0
	}
	if ch.freqTimer <= 0 {
		ch.freqTimer = period
	}

	ch.freqTimer -= cycles
	for ch.freqTimer <= 0 {
		ch.freqTimer += period
		ch.waveIndex = (ch.waveIndex + 1) & 0x1F
	}

	sample := int64(a.readWaveSample(ch.waveIndex)) - 8
	switch ch.volume & 0b11 {
	case 0:
		return 0
	case 1:
		return sample
	case 2:
		return sample / 2
	case 3:
		return sample / 4
	default:
		return sample
	}
}

func (a *APU) stepNoise(ch *channel, cycles int) int64 {
	period := a.noisePeriodCycles(ch)
	if period == 0 {
		return 0
	}
	if ch.lfsr == 0 {
		ch.lfsr = 0x7FFF
	}
	if ch.noiseTimer <= 0 {
		ch.noiseTimer = period
	}

	ch.noiseTimer -= cycles
	for ch.noiseTimer <= 0 {
		ch.noiseTimer += period
		feedback := (ch.lfsr & 1) ^ ((ch.lfsr >> 1) & 1)
		ch.lfsr = (ch.lfsr >> 1) | (feedback << 14)
		if ch.use7bitLFSR {
			ch.lfsr = (ch.lfsr &^ (1 << 6)) | (feedback << 6)
		}
	}

	if ch.volume == 0 {
		return 0
	}
	level := int64(ch.volume)
	if bit.IsSet(0, uint8(ch.lfsr)) {
		return -level
	}
	return level
}

func (a *APU) squarePeriodCycles(ch *channel) int {
	period := 2048 - int(ch.period&0x7FF)
	if period <= 0 {
		return 0
	}
	return period * 4
}

func (a *APU) wavePeriodCycles(ch *channel) int {
	period := 2048 - int(ch.period&0x7FF)
	if period <= 0 {
		return 0
	}
	return period * 2
}

func (a *APU) noisePeriodCycles(ch *channel) int {
	div := noiseDividers[ch.divider&0x7]
	period := div << ch.shift
	if period <= 0 {
		return 0
	}
	return period
}

func (a *APU) readWaveSample(index uint8) uint8 {
	byteIdx := index >> 1
	value := a.waveRAM[byteIdx]
	a.ch[2].waveSample = value
	if index&1 == 0 {
		return value >> 4
	}
	return value & 0x0F
}

func (a *APU) waveRAMLocked() bool {
	return a.enabled && a.ch[2].enabled && a.ch[2].dacEnabled
}

const sampleScale = 32767.0 / 15.0

// masterGain caps overall output at 25% of full scale, the headroom needed
// so up to 4 simultaneously active channels summed together never clip.
const masterGain = 0.25

func scaleToPCM(avg float64, masterVol uint8) int16 {
	gain := float64(masterVol+1) / 8.0 * masterGain
	value := avg * gain * sampleScale
	if value > 32767 {
		value = 32767
	} else if value < -32768 {
		value = -32768
	}
	return int16(value)
}

// tickSequence advances the 512Hz frame sequencer by one step:
//
//	Step | Length (256Hz) | Sweep (128Hz) | Envelope (64Hz)
//	0    | yes            | -             | -
//	1    | -              | -             | -
//	2    | yes            | yes           | -
//	3    | -              | -             | -
//	4    | yes            | -             | -
//	5    | -              | -             | -
//	6    | yes            | yes           | -
//	7    | -              | -             | yes
func (a *APU) tickSequence() {
	switch a.step {
	case 0, 4:
		a.tickLength()
	case 2, 6:
		a.tickLength()
		a.tickSweep()
	case 7:
		a.tickEnvelope()
	}

	a.step = (a.step + 1) % 8
}

func (a *APU) tickLength() {
	for i := range a.ch {
		if a.ch[i].lengthEnable && a.ch[i].length > 0 {
			a.ch[i].length--
			if a.ch[i].length == 0 {
				a.ch[i].enabled = false
			}
		}
	}
}

func (a *APU) tickSweep() {
	ch := &a.ch[0]
	if !ch.sweepEnabled {
		return
	}

	ch.sweepTimer--
	if ch.sweepTimer > 0 {
		return
	}

	ch.sweepTimer = ch.sweepPeriod
	if ch.sweepTimer == 0 {
		ch.sweepTimer = 8
	}

	if ch.sweepPeriod == 0 {
		return
	}

	newFrequency, overflow := ch.checkSweepOverflow()
	if overflow {
		ch.enabled = false
		return
	}
	if ch.sweepDown {
		ch.sweepNegUsed = true
	}
	if ch.sweepStep == 0 {
		return
	}

	ch.shadowFreq = newFrequency
	ch.period = newFrequency
	a.NR14 = (a.NR14 & 0b1111_1000) | uint8((newFrequency>>8)&0b111)
	a.NR13 = uint8(newFrequency)

	if _, overflow := ch.checkSweepOverflow(); overflow {
		ch.enabled = false
	}
}

func (a *APU) tickEnvelope() {
	for _, idx := range [3]int{0, 1, 3} {
		ch := &a.ch[idx]
		if !ch.dacEnabled || ch.envelopeLatched {
			continue
		}

		pace := ch.envelopePace
		if pace == 0 {
			pace = 8
		}

		if ch.envelopeCounter == 0 {
			ch.envelopeCounter = pace
		}
		ch.envelopeCounter--
		if ch.envelopeCounter > 0 {
			continue
		}

		if ch.envelopeUp {
			if ch.volume < 15 {
				ch.volume++
				ch.envelopeCounter = pace
			} else {
				ch.envelopeLatched = true
				ch.envelopeCounter = 0
			}
		} else {
			if ch.volume > 0 {
				ch.volume--
				ch.envelopeCounter = pace
			} else {
				ch.envelopeLatched = true
				ch.envelopeCounter = 0
			}
		}
	}
}

// calculateSweepFrequency performs the one-shot sweep calculation used at
// trigger time.
func (ch *channel) calculateSweepFrequency() (newFreq uint16, overflow bool) {
	if ch.sweepStep == 0 {
		return ch.shadowFreq, false
	}
	return ch.checkSweepOverflow()
}

// checkSweepOverflow computes the sweep target without mutating state, used
// both by the periodic tick and the trigger-time dummy calculation.
func (ch *channel) checkSweepOverflow() (newFreq uint16, overflow bool) {
	delta := ch.shadowFreq >> ch.sweepStep
	if ch.sweepDown {
		if delta > ch.shadowFreq {
			newFreq = 0
		} else {
			newFreq = ch.shadowFreq - delta
		}
	} else {
		newFreq = ch.shadowFreq + delta
	}
	return newFreq, newFreq > 2047
}
