// Package stats tracks frame timing for the viewer.
package stats

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/carousel/internal/logger"
)

// Counter measures frames per second over a fixed window.
type Counter struct {
	window time.Duration
	start  time.Time
	frames int
	fps    float64
	total  uint64
	log    *zap.Logger
}

// NewCounter returns a counter that reports once per window.
func NewCounter(window time.Duration) *Counter {
	if window <= 0 {
		window = time.Second
	}
	return &Counter{window: window, log: logger.Named("stats")}
}

// Frame records a frame finished at now. It returns true when a window
// closed and FPS was refreshed.
func (c *Counter) Frame(now time.Time) bool {
	c.total++
	if c.start.IsZero() {
		c.start = now
		return false
	}
	c.frames++
	elapsed := now.Sub(c.start)
	if elapsed < c.window {
		return false
	}
	c.fps = float64(c.frames) / elapsed.Seconds()
	c.log.Debug("fps",
		zap.Float64("fps", c.fps),
		zap.Uint64("frames", c.total))
	c.frames = 0
	c.start = now
	return true
}

// FPS returns the rate measured over the last complete window.
func (c *Counter) FPS() float64 {
	return c.fps
}

// Total returns the number of frames recorded.
func (c *Counter) Total() uint64 {
	return c.total
}

// FrameBudget returns the minimum frame duration for a frame rate cap;
// zero means uncapped.
func FrameBudget(limit int) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(limit)
}
