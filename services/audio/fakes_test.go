package audio

import (
	"io"
	"sync"
	"time"

	"audiocode-go/errcode"
)

// fakeClock is a virtual µs tick source. Every TicksUs call advances the
// clock by step, simulating per-iteration processing delay; SleepMs advances
// it by the slept amount (plus a tiny real yield so join loops make progress).
type fakeClock struct {
	mu   sync.Mutex
	now  uint32
	step uint32
}

func newFakeClock(step uint32) *fakeClock { return &fakeClock{step: step} }

func (c *fakeClock) TicksUs() uint32 {
	c.mu.Lock()
	t := c.now
	c.now += c.step
	c.mu.Unlock()
	return t
}

func (c *fakeClock) SleepMs(ms uint32) {
	c.mu.Lock()
	c.now += ms * 1000
	c.mu.Unlock()
	time.Sleep(50 * time.Microsecond)
}

// peek reads the clock without advancing it.
func (c *fakeClock) peek() uint32 {
	c.mu.Lock()
	t := c.now
	c.mu.Unlock()
	return t
}

// fakePWM records every duty write with the virtual tick it happened at.
type dutyWrite struct {
	level uint16
	at    uint32
}

type fakePWM struct {
	mu      sync.Mutex
	clk     *fakeClock
	pin     int
	freqHz  uint64
	confErr error
	writes  []dutyWrite
}

func (p *fakePWM) Configure(pin int, freqHz uint64) error {
	p.mu.Lock()
	p.pin, p.freqHz = pin, freqHz
	p.mu.Unlock()
	return p.confErr
}

func (p *fakePWM) SetDuty(level uint16) {
	var at uint32
	if p.clk != nil {
		at = p.clk.peek()
	}
	p.mu.Lock()
	p.writes = append(p.writes, dutyWrite{level: level, at: at})
	p.mu.Unlock()
}

func (p *fakePWM) pinUsed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pin
}

func (p *fakePWM) duties() []uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uint16, len(p.writes))
	for i, w := range p.writes {
		out[i] = w.level
	}
	return out
}

func (p *fakePWM) log() []dutyWrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dutyWrite(nil), p.writes...)
}

func (p *fakePWM) resetLog() {
	p.mu.Lock()
	p.writes = nil
	p.mu.Unlock()
}

// memStorage serves clips from memory and journals open/close order.
type memStorage struct {
	mu       sync.Mutex
	files    map[string][]byte
	endless  map[string]byte // path -> byte the stream repeats forever
	maxRead  int             // cap per Read call, 0 = no cap
	closeErr error
	journal  []string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}, endless: map[string]byte{}}
}

func (s *memStorage) Open(path string) (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.endless[path]; ok {
		s.journal = append(s.journal, "open:"+path)
		return &endlessFile{store: s, path: path, fill: b}, nil
	}
	data, ok := s.files[path]
	if !ok {
		return nil, errcode.SourceUnavailable
	}
	s.journal = append(s.journal, "open:"+path)
	return &memFile{store: s, path: path, data: data, maxRead: s.maxRead}, nil
}

func (s *memStorage) closed(path string, err error) error {
	s.mu.Lock()
	s.journal = append(s.journal, "close:"+path)
	s.mu.Unlock()
	return err
}

func (s *memStorage) events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.journal...)
}

type memFile struct {
	store   *memStorage
	path    string
	data    []byte
	pos     int
	maxRead int
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.pos >= len(f.data) {
		return 0, io.EOF
	}
	n := len(f.data) - f.pos
	if n > len(p) {
		n = len(p)
	}
	if f.maxRead > 0 && n > f.maxRead {
		n = f.maxRead
	}
	copy(p, f.data[f.pos:f.pos+n])
	f.pos += n
	return n, nil
}

func (f *memFile) Close() error { return f.store.closed(f.path, f.store.closeErr) }

// endlessFile never reports end-of-stream.
type endlessFile struct {
	store *memStorage
	path  string
	fill  byte
}

func (f *endlessFile) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = f.fill
	}
	return len(p), nil
}

func (f *endlessFile) Close() error { return f.store.closed(f.path, f.store.closeErr) }

// newTestPlayer wires a player to fresh fakes and clears the construction
// duty writes so tests see only playback traffic.
func newTestPlayer(t interface{ Fatalf(string, ...any) }, cfg Config, store *memStorage, step uint32) (*Player, *fakePWM, *fakeClock) {
	clk := newFakeClock(step)
	pwm := &fakePWM{clk: clk}
	p, err := New(cfg, pwm, store, clk)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pwm.resetLog()
	return p, pwm, clk
}

// waitIdle blocks until the player reports not playing, or fails the test.
func waitIdle(t interface{ Fatalf(string, ...any) }, p *Player) {
	deadline := time.Now().Add(2 * time.Second)
	for p.IsPlaying() {
		if time.Now().After(deadline) {
			t.Fatalf("player did not reach idle")
		}
		time.Sleep(time.Millisecond)
	}
}
