package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent frame timing. Less
// accurate than AdaptiveLimiter under load but simpler and good enough for
// most frontends.
type TickerLimiter struct {
	ticker *time.Ticker
	ch     <-chan time.Time
}

// NewTickerLimiter creates a ticker-based limiter at the DMG frame rate.
func NewTickerLimiter() *TickerLimiter {
	ticker := time.NewTicker(FrameDuration())
	return &TickerLimiter{ticker: ticker, ch: ticker.C}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ch
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
}

// Stop releases the underlying ticker. Not part of the Limiter interface
// since most limiters don't own OS resources.
func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
