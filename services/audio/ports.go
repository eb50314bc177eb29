package audio

// Ports the playback engine consumes. Platform providers implement these;
// tests inject fakes.

// PWMOut drives a single PWM channel at a fixed carrier frequency.
// Duty is a logical 0..65535 level regardless of the hardware counter width.
type PWMOut interface {
	Configure(pin int, freqHz uint64) error
	SetDuty(level uint16)
}

// Storage opens PCM clips by path.
type Storage interface {
	Open(path string) (File, error)
}

// File is a byte stream over one clip. Read may return fewer bytes than
// requested; zero bytes means the stream is exhausted.
type File interface {
	Read(p []byte) (int, error)
	Close() error
}

// Clock is a monotonic microsecond tick source. TicksUs wraps modulo 2^32;
// compare tick values only through timex.TicksDiff.
type Clock interface {
	TicksUs() uint32
	SleepMs(ms uint32)
}
