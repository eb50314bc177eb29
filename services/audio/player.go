package audio

import (
	"math"
	"sync/atomic"

	"audiocode-go/errcode"
	"audiocode-go/x/mathx"
)

// stopPollMs is the join polling interval in Stop.
const stopPollMs = 5

// Player streams raw PCM clips to a PWM output, one duty-cycle update per
// sample. Play/Stop/SetVolume are foreground calls; each active session
// runs exactly one background goroutine (the scheduler).
type Player struct {
	cfg   Config
	fmt   format
	buf   *chunkBuffer
	pwm   PWMOut
	store Storage
	clk   Clock

	src File // non-nil only while a session is active or mid-shutdown

	gainBits atomic.Uint32 // float32 bit pattern, clamped to [0,1]
	playing  atomic.Bool
	stopReq  atomic.Bool
	alive    atomic.Bool // scheduler goroutine handle
}

// New validates cfg, configures the PWM pin and returns an idle player with
// the output silenced.
func New(cfg Config, pwm PWMOut, store Storage, clk Clock) (*Player, error) {
	cfg = cfg.withDefaults()
	f, err := newFormat(cfg.SampleBits, cfg.Signed, cfg.BigEndian)
	if err != nil {
		return nil, err
	}
	cfg.ChunkSize = normalizeChunk(cfg.ChunkSize, f.bytesPerSample)

	if err := pwm.Configure(cfg.Pin, cfg.PWMFreqHz); err != nil {
		return nil, &errcode.E{C: errcode.ConfigInvalid, Op: "pwm", Err: err}
	}
	pwm.SetDuty(0)

	p := &Player{
		cfg:   cfg,
		fmt:   f,
		buf:   newChunkBuffer(cfg.ChunkSize, f.bytesPerSample),
		pwm:   pwm,
		store: store,
		clk:   clk,
	}
	p.SetVolume(1.0)
	return p, nil
}

// Config returns the resolved configuration (defaults applied, chunk size
// normalized).
func (p *Player) Config() Config { return p.cfg }

// SetVolume stores the gain, clamped to [0,1]. Safe to call during playback.
func (p *Player) SetVolume(gain float32) {
	p.gainBits.Store(math.Float32bits(mathx.Clamp(gain, 0, 1)))
}

func (p *Player) Volume() float32 {
	return math.Float32frombits(p.gainBits.Load())
}

func (p *Player) IsPlaying() bool { return p.playing.Load() }

// Play stops any current session, opens path and starts playback. It
// returns false when the clip cannot be opened or holds no complete sample.
func (p *Player) Play(path string) bool {
	p.Stop()

	f, err := p.store.Open(path)
	if err != nil {
		return false
	}
	p.src = f
	p.buf.reset()
	p.stopReq.Store(false)
	p.playing.Store(true)

	// Prime synchronously so an empty or undersized clip fails before any
	// goroutine starts.
	if !p.buf.refill(p.src) {
		p.Stop()
		return false
	}

	p.alive.Store(true)
	go p.playbackLoop()
	return true
}

// Stop requests shutdown, joins the scheduler, closes the source and
// silences the output. Idempotent; a no-op when nothing is playing.
func (p *Player) Stop() {
	p.stopReq.Store(true)
	p.playing.Store(false)
	for p.alive.Load() {
		p.clk.SleepMs(stopPollMs)
	}
	if p.src != nil {
		// Best effort; a failed close still resets playback state.
		_ = p.src.Close()
		p.src = nil
	}
	p.buf.reset()
	p.pwm.SetDuty(0)
}
