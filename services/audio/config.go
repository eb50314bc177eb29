package audio

import "audiocode-go/x/mathx"

// Defaults match the reference hardware: GPIO 2, 20 kHz carrier, 8 kHz
// mono PCM, 1 KiB chunks.
const (
	DefaultPin          = 2
	DefaultPWMFreqHz    = 20_000
	DefaultSampleRateHz = 8_000
	DefaultChunkSize    = 1024
	DefaultSampleBits   = 8

	minChunkSize = 128
)

// Config is the immutable playback configuration. Zero fields are filled
// with the defaults above at construction.
type Config struct {
	Pin          int
	PWMFreqHz    uint64
	SampleRateHz uint32
	ChunkSize    int
	SampleBits   int
	Signed       *bool // nil: unsigned for 8-bit, signed for 16-bit
	BigEndian    bool  // byte order of 16-bit samples
}

func DefaultConfig() Config {
	return Config{
		Pin:          DefaultPin,
		PWMFreqHz:    DefaultPWMFreqHz,
		SampleRateHz: DefaultSampleRateHz,
		ChunkSize:    DefaultChunkSize,
		SampleBits:   DefaultSampleBits,
	}
}

func (c Config) withDefaults() Config {
	if c.PWMFreqHz == 0 {
		c.PWMFreqHz = DefaultPWMFreqHz
	}
	if c.SampleRateHz == 0 {
		c.SampleRateHz = DefaultSampleRateHz
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.SampleBits == 0 {
		c.SampleBits = DefaultSampleBits
	}
	return c
}

// normalizeChunk enforces the chunk invariants: at least minChunkSize, at
// least one sample, and a whole number of samples.
func normalizeChunk(size, bytesPerSample int) int {
	size = mathx.Max(size, minChunkSize)
	size = mathx.RoundUpMultiple(size, bytesPerSample)
	return mathx.Max(size, bytesPerSample)
}
