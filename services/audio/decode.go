package audio

// decode consumes one sample's worth of bytes at the buffer cursor and
// returns the signed sample value. The caller guarantees the buffer holds a
// complete sample (the scheduler refills before decoding).
func (f format) decode(b *chunkBuffer) int32 {
	if f.bytesPerSample == 1 {
		v := int32(b.data[b.pos])
		b.pos++
		if f.signed && v >= 128 {
			v -= 256
		}
		return v
	}

	b0 := uint32(b.data[b.pos])
	b1 := uint32(b.data[b.pos+1])
	b.pos += 2
	var v uint32
	if f.bigEndian {
		v = b0<<8 | b1
	} else {
		v = b0 | b1<<8
	}
	if f.signed && v&0x8000 != 0 {
		return int32(v) - 0x10000
	}
	return int32(v)
}
