package audio

// chunkBuffer holds the most recently read block of file bytes and exposes
// sequential sample-aligned access. Refills overwrite the block in place;
// nothing allocates on the playback path.
type chunkBuffer struct {
	data []byte
	pos  int // read cursor
	n    int // valid length, always a multiple of bytesPerSample
	bps  int
}

func newChunkBuffer(size, bytesPerSample int) *chunkBuffer {
	return &chunkBuffer{data: make([]byte, size), bps: bytesPerSample}
}

func (b *chunkBuffer) exhausted() bool { return b.pos >= b.n }

func (b *chunkBuffer) reset() {
	b.pos = 0
	b.n = 0
}

// refill reads the next block from src. It returns false when the stream is
// exhausted: no bytes at all, or only a trailing partial sample. A read
// error mid-stream is treated the same way; playback just ends early.
func (b *chunkBuffer) refill(src File) bool {
	if src == nil {
		return false
	}
	n, err := src.Read(b.data)
	if n <= 0 {
		_ = err
		return false
	}
	// Drop a trailing partial sample.
	n -= n % b.bps
	if n <= 0 {
		return false
	}
	b.n = n
	b.pos = 0
	return true
}
