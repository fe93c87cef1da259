// Package backend defines the thin frontend boundary the core emulator is
// driven through: render a frame, collect button events, report a quit
// request. Concrete backends (headless, terminal, sdl2) implement it.
package backend

import (
	"github.com/Coolman4128/EducationBoy/memory"
	"github.com/Coolman4128/EducationBoy/video"
)

// ButtonEvent is one joypad transition collected during Update.
type ButtonEvent struct {
	Button  memory.Button
	Pressed bool
}

// Config holds the platform-facing knobs a backend may use.
type Config struct {
	Title string
	Scale int
	Mute  bool
}

// Backend is a complete emulator frontend: it renders frames, reads input,
// and reports when the user wants to quit.
type Backend interface {
	// Init configures the backend. Must be called before Update.
	Init(cfg Config) error

	// Update renders frame and polls input, returning any button events
	// that occurred and whether the frontend wants to quit.
	Update(frame *video.FrameBuffer) (events []ButtonEvent, quit bool, err error)

	// Cleanup releases backend resources (windows, audio devices, files).
	Cleanup() error
}
