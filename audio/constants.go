package audio

// cyclesPerStep is the number of T-cycles per frame sequencer tick. The
// frame sequencer runs at 512 Hz: 4194304 Hz / 512 Hz = 8192 T-cycles.
const cyclesPerStep = 8192

// waveRAMSize is the size of wave pattern RAM in bytes (16 bytes = 32 nibbles).
const waveRAMSize = 16

var noiseDividers = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

var dutyPatterns = [4][8]int64{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}
