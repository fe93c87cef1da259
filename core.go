// Package dmgcore wires the CPU, MMU, PPU and APU into a runnable DMG
// emulator: a cycle-accurate single frame step, and a goroutine-driven Clock
// that paces those frames to the real hardware rate.
package dmgcore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Coolman4128/EducationBoy/audio"
	"github.com/Coolman4128/EducationBoy/cpu"
	"github.com/Coolman4128/EducationBoy/memory"
	"github.com/Coolman4128/EducationBoy/timing"
	"github.com/Coolman4128/EducationBoy/video"
)

// Emulator owns one full DMG core instance: CPU, MMU (with cartridge, timer,
// joypad, serial, DMA and APU), and PPU.
type Emulator struct {
	cpu *cpu.CPU
	mmu *memory.MMU
	ppu *video.PPU

	stateMutex sync.Mutex
	volume     float32

	frameCount uint64
}

// New creates an emulator with no cartridge loaded (ROM space reads 0xFF).
// audioSink receives normalized [-1,1] stereo samples as the APU generates
// them, scaled by the current SetVolume setting; audioSink may be nil to
// discard audio.
func New(audioSink audio.Sink) *Emulator {
	e := &Emulator{volume: 1.0}
	mmu := memory.New(&volumeSink{emu: e, inner: audioSink})
	e.mmu = mmu
	e.cpu = cpu.New(mmu)
	e.ppu = video.New(mmu)
	return e
}

// volumeSink sits between the APU and the frontend-supplied audio.Sink,
// scaling every sample by the emulator's current master volume.
type volumeSink struct {
	emu   *Emulator
	inner audio.Sink
}

func (v *volumeSink) PushSample(left, right float32) {
	if v.inner == nil {
		return
	}
	v.emu.stateMutex.Lock()
	vol := v.emu.volume
	v.emu.stateMutex.Unlock()
	v.inner.PushSample(left*vol, right*vol)
}

// LoadROM parses and installs a cartridge image, replacing any previously
// loaded one.
func (e *Emulator) LoadROM(rom []byte) error {
	if err := e.mmu.LoadROM(rom); err != nil {
		return fmt.Errorf("dmgcore: load ROM: %w", err)
	}
	e.cpu = cpu.New(e.mmu)
	return nil
}

// FrameBuffer returns the PPU's current (possibly mid-render) frame buffer.
func (e *Emulator) FrameBuffer() *video.FrameBuffer {
	return e.ppu.FrameBuffer()
}

// MMU exposes the memory bus, mainly for debuggers/tests.
func (e *Emulator) MMU() *memory.MMU { return e.mmu }

// SetFrameReadyCallback wires fn to the PPU's own VBlank-entry signal, so it
// runs synchronously the instant a frame finishes rendering rather than
// being polled for after RunFrame returns.
func (e *Emulator) SetFrameReadyCallback(fn func(*video.FrameBuffer)) {
	e.ppu.FrameReady = fn
}

// CPU exposes the CPU, mainly for debuggers/tests.
func (e *Emulator) CPU() *cpu.CPU { return e.cpu }

// SetButton updates one joypad button's pressed state. Safe to call from a
// frontend goroutine concurrently with a running Clock.
func (e *Emulator) SetButton(button memory.Button, pressed bool) {
	e.stateMutex.Lock()
	defer e.stateMutex.Unlock()
	e.mmu.Joypad.Set(button, pressed)
}

// SetVolume sets the master output volume applied before samples reach the
// configured audio sink, in [0,1].
func (e *Emulator) SetVolume(volume float32) {
	e.stateMutex.Lock()
	defer e.stateMutex.Unlock()
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	e.volume = volume
}

// RunFrame executes instructions until at least one frame's worth of
// T-cycles (70224, timing.CyclesPerFrame) has elapsed, ticking the MMU
// (timer/serial/DMA), PPU and APU in lockstep with each instruction's cost.
// The last instruction may run past the frame boundary; that excess is not
// carried into the next frame.
func (e *Emulator) RunFrame() {
	total := 0
	for total < timing.CyclesPerFrame {
		cycles := e.cpu.Step()
		e.mmu.Tick(cycles)
		e.ppu.Tick(cycles)
		e.mmu.APU.Tick(cycles)
		total += cycles
	}
	e.frameCount++

	if e.frameCount%60 == 0 {
		slog.Debug("frame completed", "frame", e.frameCount, "pc", fmt.Sprintf("0x%04X", e.cpu.PC()))
	}
}

// FrameCount returns the number of frames RunFrame has completed.
func (e *Emulator) FrameCount() uint64 { return e.frameCount }

// Clock drives an Emulator's RunFrame loop on its own goroutine, paced by a
// timing.Limiter, until stopped or its context is cancelled.
type Clock struct {
	emu     *Emulator
	limiter timing.Limiter

	cancel context.CancelFunc
	done   chan struct{}
}

// NewClock creates a Clock with the AdaptiveLimiter as its default pacing
// strategy, per spec: "paces itself using a host monotonic timer." onFrame
// is wired directly to the PPU's VBlank-entry signal (spec §2 data-flow
// step 3: "on entering mode 1 (VBlank)"), not polled after RunFrame returns.
func NewClock(emu *Emulator, onFrame func(*video.FrameBuffer)) *Clock {
	emu.SetFrameReadyCallback(onFrame)
	return &Clock{
		emu:     emu,
		limiter: timing.NewAdaptiveLimiter(),
	}
}

// SetLimiter overrides the pacing strategy, e.g. to timing.NewNoOpLimiter()
// for headless/benchmark runs that must not block on wall-clock time.
func (c *Clock) SetLimiter(limiter timing.Limiter) {
	c.limiter = limiter
}

// Start launches the worker goroutine. It runs frames back to back, until
// ctx is cancelled or Stop is called; it always finishes the in-flight
// frame before exiting. onFrame (wired in NewClock) fires mid-RunFrame, the
// instant the PPU enters VBlank, not after this loop observes RunFrame
// return.
func (c *Clock) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		c.limiter.Reset()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			c.emu.RunFrame()
			c.limiter.WaitForNextFrame()
		}
	}()
}

// Stop cancels the worker goroutine and blocks until it has exited.
func (c *Clock) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
}
