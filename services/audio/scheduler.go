package audio

import "audiocode-go/x/timex"

// playbackLoop is the real-time half of the player. It owns the chunk
// buffer and the source stream until it exits; the controller only touches
// them again after alive goes false.
//
// Deadlines accumulate from the start tick in fixed period steps rather
// than from "now", so loop overhead never drifts the output rate. The wait
// is a spin on the tick counter: sample periods can be well under a
// millisecond, finer than any sleep primitive on this hardware class.
func (p *Player) playbackLoop() {
	period := timex.PeriodUs(p.cfg.SampleRateHz)
	next := timex.TicksAdd(p.clk.TicksUs(), period)

	for !p.stopReq.Load() {
		if p.buf.exhausted() {
			if !p.buf.refill(p.src) {
				break
			}
		}
		sample := p.fmt.decode(p.buf)
		p.pwm.SetDuty(p.fmt.duty(sample, p.Volume()))

		for timex.TicksDiff(next, p.clk.TicksUs()) > 0 {
		}
		next = timex.TicksAdd(next, period)
	}

	// Drain: silence the output and hand state back to the controller.
	// alive must clear last; Stop polls it to detect the handoff.
	p.pwm.SetDuty(0)
	p.playing.Store(false)
	p.stopReq.Store(false)
	p.alive.Store(false)
}
