package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter paces frames using the host monotonic clock: it sleeps for
// the bulk of the remaining frame budget and busy-waits the last couple of
// milliseconds for accuracy, with periodic drift correction. This is the
// Clock's default limiter (spec §4.5: "paces itself ... using a host
// monotonic timer").
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
}

// NewAdaptiveLimiter creates a limiter targeting the DMG frame duration.
func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	switch {
	case sleepTime > 2*time.Millisecond:
		time.Sleep(sleepTime - time.Millisecond)
		for time.Now().Before(a.nextFrameTime) {
		}
	case sleepTime > 0:
		for time.Now().Before(a.nextFrameTime) {
		}
	case sleepTime < -a.targetFrameTime:
		// More than a frame behind: drop the backlog instead of catching up.
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		drift := time.Now().Sub(a.nextFrameTime)
		if drift > 10*time.Millisecond || drift < -10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("frame timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = time.Now()
	a.frameCounter = 0
}
