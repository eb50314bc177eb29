//go:build !rp2040

// hostplay runs the playback engine on a development machine against a
// stand-in PWM output. Useful for checking clip decode and pacing
// without flashing a board.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"audiocode-go/platform"
	"audiocode-go/services/audio"
)

func main() {
	var (
		rate   = flag.Uint("rate", audio.DefaultSampleRateHz, "sample rate in Hz")
		bits   = flag.Int("bits", audio.DefaultSampleBits, "sample width in bits (8 or 16)")
		signed = flag.String("signed", "", "sample signedness: true or false (default depends on width)")
		be     = flag.Bool("be", false, "16-bit samples are big-endian")
		vol    = flag.Float64("vol", 1.0, "gain, 0..1")
		root   = flag.String("root", "", "directory clip paths are resolved under")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hostplay [flags] <clip.pcm>")
		os.Exit(2)
	}

	cfg := audio.DefaultConfig()
	cfg.SampleRateHz = uint32(*rate)
	cfg.SampleBits = *bits
	cfg.BigEndian = *be
	switch *signed {
	case "true":
		v := true
		cfg.Signed = &v
	case "false":
		v := false
		cfg.Signed = &v
	}

	player, err := audio.New(cfg, platform.NewPWM(), platform.NewStorage(*root), platform.NewClock())
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	player.SetVolume(float32(*vol))

	path := flag.Arg(0)
	if !player.Play(path) {
		fmt.Fprintln(os.Stderr, "cannot play", path)
		os.Exit(1)
	}
	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	player.Stop()
	fmt.Println("done")
}
