// Command dmgcore runs the emulator core against a ROM file, either
// interactively in a terminal or headless for a fixed number of frames.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli"

	dmgcore "github.com/Coolman4128/EducationBoy"
	"github.com/Coolman4128/EducationBoy/backend"
	"github.com/Coolman4128/EducationBoy/backend/headless"
	"github.com/Coolman4128/EducationBoy/backend/sdl2"
	"github.com/Coolman4128/EducationBoy/backend/terminal"
	"github.com/Coolman4128/EducationBoy/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) emulator core"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a window, for a fixed number of frames",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a PNG snapshot every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save PNG snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "sdl2",
			Usage: "Use the SDL2 window backend instead of the terminal (requires building with -tags sdl2)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the SDL2 backend",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "mute",
			Usage: "Disable audio output",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("dmgcore: read ROM: %w", err)
	}

	emu := dmgcore.New(nil)
	if err := emu.LoadROM(rom); err != nil {
		return err
	}

	var fe backend.Backend
	isHeadless := c.Bool("headless")
	if isHeadless {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}

		snapshotCfg, err := headless.NewSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romBaseName(romPath))
		if err != nil {
			return err
		}
		fe = headless.New(frames, snapshotCfg)
	} else if c.Bool("sdl2") {
		fe = sdl2.New()
	} else {
		fe = terminal.New()
	}

	cfg := backend.Config{
		Title: fmt.Sprintf("dmgcore - %s", filepath.Base(romPath)),
		Scale: c.Int("scale"),
		Mute:  c.Bool("mute"),
	}
	if err := fe.Init(cfg); err != nil {
		return err
	}
	defer fe.Cleanup()

	if sink, ok := fe.(interface {
		PushSample(left, right float32)
	}); ok && !cfg.Mute {
		emu.MMU().APU.SetSink(sink)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	limiter := timing.Limiter(timing.NewNoOpLimiter())
	if !isHeadless {
		limiter = timing.NewAdaptiveLimiter()
	}

	return runLoop(ctx, emu, fe, limiter)
}

// runLoop drives RunFrame/Update back to back. Headless runs use a no-op
// limiter to finish as fast as possible; interactive backends pace frames
// to the real hardware rate so input and rendering feel right.
func runLoop(ctx context.Context, emu *dmgcore.Emulator, fe backend.Backend, limiter timing.Limiter) error {
	limiter.Reset()
	for {
		select {
		case <-ctx.Done():
			slog.Info("received shutdown signal")
			return nil
		default:
		}

		emu.RunFrame()

		events, quit, err := fe.Update(emu.FrameBuffer())
		if err != nil {
			return err
		}
		for _, ev := range events {
			emu.SetButton(ev.Button, ev.Pressed)
		}
		if quit {
			return nil
		}

		limiter.WaitForNextFrame()
	}
}

func romBaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
