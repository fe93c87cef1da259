//go:build !sdl2

// Package sdl2 is a stub implementation used when the "sdl2" build tag is
// not set, so the rest of the module builds without SDL2 installed.
package sdl2

import (
	"errors"

	"github.com/Coolman4128/EducationBoy/backend"
	"github.com/Coolman4128/EducationBoy/video"
)

var errUnavailable = errors.New("sdl2 backend not available: build with -tags sdl2")

// Backend is a no-op stand-in; every method reports errUnavailable.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (s *Backend) Init(cfg backend.Config) error { return errUnavailable }

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.ButtonEvent, bool, error) {
	return nil, true, errUnavailable
}

func (s *Backend) Cleanup() error { return nil }

// PushSample is a no-op so Backend still satisfies audio.Sink when built
// without the "sdl2" tag.
func (s *Backend) PushSample(left, right float32) {}
