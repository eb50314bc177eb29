package timex

import (
	"time"

	"audiocode-go/x/mathx"
)

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// 32-bit microsecond tick arithmetic. Tick counters wrap; all comparisons
// must go through TicksDiff, never through < or >.

// TicksAdd advances a tick value by d microseconds, wrapping modulo 2^32.
func TicksAdd(t, d uint32) uint32 { return t + d }

// TicksDiff returns the signed distance a-b in ticks. Valid while the real
// separation is under 2^31 µs (~35 minutes), far beyond any sample period.
func TicksDiff(a, b uint32) int32 { return int32(a - b) }

// PeriodUs returns the sample period in microseconds for a sample rate,
// rounded to the nearest microsecond, never less than 1.
func PeriodUs(rateHz uint32) uint32 {
	if rateHz == 0 {
		rateHz = 1
	}
	return mathx.Max(mathx.RoundDiv(uint32(1_000_000), rateHz), 1)
}
