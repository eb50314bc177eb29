package types

// ------------------------
// Audio service payloads
// ------------------------

// AudioConfig is the bus-facing playback configuration, published retained on
// config/audio. Zero fields fall back to the service defaults.
type AudioConfig struct {
	Pin          int    `json:"pin"`
	PWMFreqHz    uint64 `json:"pwm_freq_hz"`
	SampleRateHz uint32 `json:"sample_rate_hz"`
	ChunkSize    int    `json:"chunk_size"`
	SampleBits   int    `json:"sample_bits"` // 8 or 16
	Signed       *bool  `json:"signed"`      // nil: 8-bit unsigned, 16-bit signed
	BigEndian    bool   `json:"big_endian"`  // 16-bit byte order
}

// AudioState is retained on audio/state.
type AudioState struct {
	Level  string `json:"level"` // "idle", "ready", "playing"
	Path   string `json:"path,omitempty"`
	Volume uint8  `json:"volume"` // percent 0..100
	TSms   int64  `json:"ts_ms"`
}

// PlayRequest is the payload of audio/control/play.
type PlayRequest struct {
	Path string `json:"path"`
}

// VolumeSet is the payload of audio/control/volume.
type VolumeSet struct {
	Percent int `json:"percent"` // clamped to 0..100
}

// TrackEvent is published non-retained on audio/event/{started,finished,error}.
type TrackEvent struct {
	Path string `json:"path"`
	Err  string `json:"err,omitempty"` // short code, empty on success
	TSms int64  `json:"ts_ms"`
}
