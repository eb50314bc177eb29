package config

// Per-device embedded configs. The top-level keys become config/<key>
// topics; the audio section mirrors types.AudioConfig.
var embeddedConfigs = map[string][]byte{
	// Pico with the speaker driver on GPIO 2, clips on the onboard
	// LittleFS partition: 8 kHz unsigned 8-bit mono.
	"picoplayer": []byte(`{
		"audio": {
			"pin": 2,
			"pwm_freq_hz": 20000,
			"sample_rate_hz": 8000,
			"chunk_size": 1024,
			"sample_bits": 8
		},
		"console": {
			"echo": true
		}
	}`),

	// Variant wired for 16-bit signed little-endian clips from SD card.
	"picoplayer-sd": []byte(`{
		"audio": {
			"pin": 2,
			"pwm_freq_hz": 20000,
			"sample_rate_hz": 16000,
			"chunk_size": 2048,
			"sample_bits": 16,
			"signed": true,
			"big_endian": false
		},
		"console": {
			"echo": true
		}
	}`),
}
