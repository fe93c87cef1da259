package audio

// Sink receives mixed stereo samples as they are produced, normalized to
// [-1.0, 1.0]. Implementations must not block; the core pushes samples from
// its own worker goroutine and a slow sink would stall emulation (spec §6
// audio_sink).
type Sink interface {
	PushSample(left, right float32)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(left, right float32)

func (f SinkFunc) PushSample(left, right float32) {
	f(left, right)
}

// Provider is the pull-based debug/tooling surface kept alongside the
// push-based Sink: a UI can sample recent channel state without having to
// consume the push stream.
type Provider interface {
	GetSamples(count int) []int16

	ToggleChannel(channel int)
	SoloChannel(channel int)
	GetChannelStatus() (ch1, ch2, ch3, ch4 bool)
	GetChannelVolumes() (ch1, ch2, ch3, ch4 uint8)
}

var _ Provider = (*APU)(nil)
