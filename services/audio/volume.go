package audio

import "audiocode-go/x/mathx"

// duty maps a decoded sample and a gain in [0,1] to a hardware duty level.
// Unsigned samples are centred on the midpoint first so that gain 0 lands
// on silence (midpoint duty), not on the bottom rail. Rounding is half away
// from zero.
func (f format) duty(sample int32, gain float32) uint16 {
	var centered float32
	if f.signed {
		centered = float32(sample) * gain
	} else {
		centered = float32(sample-f.midpoint) * gain
	}

	var r int32
	if centered >= 0 {
		r = int32(centered + 0.5)
	} else {
		r = int32(centered - 0.5)
	}

	value := mathx.Clamp(r+f.midpoint, 0, f.maxValue)
	return uint16(uint32(value) * f.dutyScale)
}
