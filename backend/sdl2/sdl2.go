//go:build sdl2

// Package sdl2 is a window+audio-device frontend built on go-sdl2. It is
// gated behind the "sdl2" build tag (mirroring the teacher's split) so that
// the default build never requires the SDL2 development headers or CGO.
package sdl2

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Coolman4128/EducationBoy/audio"
	"github.com/Coolman4128/EducationBoy/backend"
	"github.com/Coolman4128/EducationBoy/memory"
	"github.com/Coolman4128/EducationBoy/video"
)

var _ audio.Sink = (*Backend)(nil)

const (
	baseScale = 3
)

// Backend is a window/audio-device frontend: it blits the BGRA8888
// framebuffer to an sdl.Texture every Update and queues audio_sink samples
// to an sdl.AudioDeviceID as they arrive.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	audioDevice sdl.AudioDeviceID
	config      backend.Config
}

func New() *Backend { return &Backend{} }

func (s *Backend) Init(cfg backend.Config) error {
	s.config = cfg
	scale := cfg.Scale
	if scale <= 0 {
		scale = baseScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}

	window, err := sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(video.FrameWidth*scale), int32(video.FrameHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_BGRA8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(video.FrameWidth), int32(video.FrameHeight),
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create texture: %w", err)
	}
	s.texture = texture

	if !cfg.Mute {
		if err := s.initAudio(); err != nil {
			slog.Warn("sdl2: audio device unavailable", "error", err)
		}
	}

	slog.Info("sdl2 backend initialized", "scale", scale)
	return nil
}

func (s *Backend) initAudio() error {
	want := &sdl.AudioSpec{
		Freq:     44100,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 2,
		Samples:  1024,
	}
	device, err := sdl.OpenAudioDevice("", false, want, nil, 0)
	if err != nil {
		return err
	}
	s.audioDevice = device
	sdl.PauseAudioDevice(device, false)
	return nil
}

// PushSample implements audio.Sink, queuing interleaved stereo float32
// samples to the open SDL audio device as they arrive from the APU.
func (s *Backend) PushSample(left, right float32) {
	if s.audioDevice == 0 {
		return
	}
	_ = sdl.QueueAudio(s.audioDevice, float32sToBytes([]float32{left, right}))
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.ButtonEvent, bool, error) {
	var events []backend.ButtonEvent
	quit := false

	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			if button, ok := keyToButton[ev.Keysym.Sym]; ok {
				events = append(events, backend.ButtonEvent{
					Button:  button,
					Pressed: ev.Type == sdl.KEYDOWN,
				})
			}
		}
	}

	if err := s.texture.Update(nil, frame.Bytes(), video.FrameWidth*4); err != nil {
		return events, quit, fmt.Errorf("sdl2: update texture: %w", err)
	}
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return events, quit, nil
}

func (s *Backend) Cleanup() error {
	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

var keyToButton = map[sdl.Keycode]memory.Button{
	sdl.K_UP:     memory.ButtonUp,
	sdl.K_DOWN:   memory.ButtonDown,
	sdl.K_LEFT:   memory.ButtonLeft,
	sdl.K_RIGHT:  memory.ButtonRight,
	sdl.K_RETURN: memory.ButtonStart,
	sdl.K_TAB:    memory.ButtonSelect,
	sdl.K_z:      memory.ButtonA,
	sdl.K_x:      memory.ButtonB,
}

func float32sToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}
