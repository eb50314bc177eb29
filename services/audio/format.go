package audio

import "audiocode-go/errcode"

// format holds the constants derived from the configured sample layout.
// Computed once at construction, never mutated.
type format struct {
	bytesPerSample int
	signed         bool
	bigEndian      bool
	maxValue       int32  // 2^bits - 1
	midpoint       int32  // 2^(bits-1)
	dutyScale      uint32 // spreads the sample range over the 16-bit duty range
}

// newFormat resolves the sample layout. When signedness is unspecified,
// 8-bit defaults to unsigned and 16-bit to signed, matching the common raw
// PCM conventions for each width.
func newFormat(bits int, signed *bool, bigEndian bool) (format, error) {
	if bits != 8 && bits != 16 {
		return format{}, &errcode.E{C: errcode.ConfigInvalid, Op: "format", Msg: "sample_bits must be 8 or 16"}
	}
	f := format{
		bytesPerSample: bits / 8,
		bigEndian:      bigEndian,
		maxValue:       int32(1<<bits - 1),
		midpoint:       int32(1 << (bits - 1)),
	}
	if signed == nil {
		f.signed = bits != 8
	} else {
		f.signed = *signed
	}
	// 8-bit samples span 0..255; 257 stretches that to exactly 0..65535.
	if bits == 8 {
		f.dutyScale = 257
	} else {
		f.dutyScale = 1
	}
	return f, nil
}
