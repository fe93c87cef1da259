// Package headless runs the emulator for a fixed number of frames with no
// window, optionally dumping PNG snapshots of the framebuffer every K
// frames. Used for smoke tests and scripted ROM runs.
package headless

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Coolman4128/EducationBoy/backend"
	"github.com/Coolman4128/EducationBoy/video"
)

// SnapshotConfig controls periodic PNG dumps of the framebuffer.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int
	Directory string
	ROMName   string
}

// NewSnapshotConfig builds a SnapshotConfig, creating Directory (or a temp
// dir, if empty) when Interval > 0.
func NewSnapshotConfig(interval int, directory, romName string) (SnapshotConfig, error) {
	cfg := SnapshotConfig{Enabled: interval > 0, Interval: interval, ROMName: romName}
	if !cfg.Enabled {
		return cfg, nil
	}

	if directory == "" {
		dir, err := os.MkdirTemp("", "dmgcore-snapshots-*")
		if err != nil {
			return cfg, fmt.Errorf("headless: create snapshot dir: %w", err)
		}
		cfg.Directory = dir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return cfg, fmt.Errorf("headless: create snapshot dir: %w", err)
		}
		cfg.Directory = directory
	}

	return cfg, nil
}

// Backend implements backend.Backend by running a fixed frame budget with
// no window, reporting quit once MaxFrames is reached.
type Backend struct {
	MaxFrames int
	Snapshot  SnapshotConfig

	config     backend.Config
	frameCount int
}

func New(maxFrames int, snapshot SnapshotConfig) *Backend {
	return &Backend{MaxFrames: maxFrames, Snapshot: snapshot}
}

func (h *Backend) Init(cfg backend.Config) error {
	h.config = cfg
	slog.Info("running headless", "frames", h.MaxFrames, "snapshot_interval", h.Snapshot.Interval)
	return nil
}

func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.ButtonEvent, bool, error) {
	h.frameCount++

	if h.Snapshot.Enabled && h.frameCount%h.Snapshot.Interval == 0 {
		if err := h.saveSnapshot(frame); err != nil {
			slog.Error("failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		}
	}

	if h.frameCount%60 == 0 {
		slog.Info("frame progress", "completed", h.frameCount, "total", h.MaxFrames)
	}

	if h.frameCount >= h.MaxFrames {
		if h.Snapshot.Enabled && h.frameCount%h.Snapshot.Interval != 0 {
			if err := h.saveSnapshot(frame); err != nil {
				slog.Error("failed to save final PNG snapshot", "error", err)
			}
		}
		slog.Info("headless run completed", "frames", h.MaxFrames)
		return nil, true, nil
	}

	return nil, false, nil
}

func (h *Backend) Cleanup() error { return nil }

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) error {
	img := image.NewNRGBA(image.Rect(0, 0, video.FrameWidth, video.FrameHeight))
	for y := 0; y < video.FrameHeight; y++ {
		for x := 0; x < video.FrameWidth; x++ {
			px := frame.GetPixel(x, y)
			b := byte(px)
			g := byte(px >> 8)
			r := byte(px >> 16)
			a := byte(px >> 24)
			img.Set(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}

	name := fmt.Sprintf("%s_frame_%d.png", h.Snapshot.ROMName, h.frameCount)
	path := filepath.Join(h.Snapshot.Directory, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
