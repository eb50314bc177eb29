package platform

import (
	"time"

	"audiocode-go/services/audio"
)

// monoClock derives µs ticks from the runtime's monotonic clock. The
// uint32 truncation is fine: consumers compare ticks through wraparound
// arithmetic only.
type monoClock struct {
	base time.Time
}

func NewClock() audio.Clock { return &monoClock{base: time.Now()} }

func (c *monoClock) TicksUs() uint32 {
	return uint32(time.Since(c.base).Microseconds())
}

func (c *monoClock) SleepMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
