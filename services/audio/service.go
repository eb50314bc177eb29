package audio

import (
	"context"
	"time"

	"audiocode-go/bus"
	"audiocode-go/errcode"
	"audiocode-go/types"
	"audiocode-go/x/mathx"
	"audiocode-go/x/timex"
)

// Bus surface:
//
//	config/audio                     retained AudioConfig (or JSON map)
//	audio/control/play               PlayRequest
//	audio/control/stop               (no payload)
//	audio/control/volume             VolumeSet
//	audio/state                      retained AudioState
//	audio/event/{started,finished,error}  TrackEvent

var (
	topicConfig  = bus.T("config", "audio")
	topicControl = bus.T("audio", "control", "+")
	topicState   = bus.T("audio", "state")
)

func topicEvent(name string) bus.Topic { return bus.T("audio", "event", name) }

// statePollMs is how often the service checks for natural end-of-stream.
const statePollMs = 50

// Ports bundles the platform handles the service builds players from.
type Ports struct {
	PWM     PWMOut
	Storage Storage
	Clock   Clock
}

// Run hosts the audio service until ctx is cancelled. Configuration arrives
// over the bus; control before configuration is answered with a not_ready
// error event.
func Run(ctx context.Context, conn *bus.Connection, ports Ports) {
	s := &service{conn: conn, ports: ports}
	s.loop(ctx)
}

type service struct {
	conn  *bus.Connection
	ports Ports

	player  *Player
	path    string
	wasBusy bool // playing as of the last poll
}

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(topicConfig)
	ctrlSub := s.conn.Subscribe(topicControl)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)

	s.publishState("idle")

	tick := time.NewTicker(statePollMs * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.player != nil {
				s.player.Stop()
			}
			return
		case msg := <-cfgSub.Channel():
			s.handleConfig(msg.Payload)
		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)
		case <-tick.C:
			s.pollPlayback()
		}
	}
}

func (s *service) handleConfig(payload any) {
	cfg, ok := parseConfig(payload)
	if !ok {
		s.publishEvent("error", "", errcode.InvalidPayload)
		return
	}
	if s.player != nil {
		s.player.Stop()
		s.wasBusy = false
		s.path = ""
	}
	p, err := New(cfg, s.ports.PWM, s.ports.Storage, s.ports.Clock)
	if err != nil {
		s.player = nil
		s.publishEvent("error", "", errcode.Of(err))
		s.publishState("idle")
		return
	}
	s.player = p
	s.publishState("ready")
}

func (s *service) handleControl(msg *bus.Message) {
	verb := msg.Topic[len(msg.Topic)-1]
	if s.player == nil {
		s.publishEvent("error", "", errcode.NotReady)
		return
	}
	switch verb {
	case "play":
		path, ok := playPath(msg.Payload)
		if !ok {
			s.publishEvent("error", "", errcode.InvalidPayload)
			return
		}
		if !s.player.Play(path) {
			s.publishEvent("error", path, errcode.SourceUnavailable)
			return
		}
		s.path = path
		s.wasBusy = true
		s.publishEvent("started", path, errcode.OK)
		s.publishState("playing")

	case "stop":
		s.player.Stop()
		s.wasBusy = false
		s.path = ""
		s.publishState("ready")

	case "volume":
		pct, ok := volumePercent(msg.Payload)
		if !ok {
			s.publishEvent("error", "", errcode.InvalidPayload)
			return
		}
		s.player.SetVolume(float32(mathx.Clamp(pct, 0, 100)) / 100)
		s.publishState(s.level())

	default:
		s.publishEvent("error", "", errcode.Unsupported)
	}
}

// pollPlayback detects natural end-of-stream: the scheduler has drained on
// its own and the session still holds the open file.
func (s *service) pollPlayback() {
	if s.player == nil || !s.wasBusy || s.player.IsPlaying() {
		return
	}
	s.player.Stop() // releases the source stream
	path := s.path
	s.wasBusy = false
	s.path = ""
	s.publishEvent("finished", path, errcode.OK)
	s.publishState("ready")
}

func (s *service) level() string {
	switch {
	case s.player == nil:
		return "idle"
	case s.player.IsPlaying():
		return "playing"
	default:
		return "ready"
	}
}

func (s *service) publishState(level string) {
	var vol uint8
	if s.player != nil {
		vol = uint8(s.player.Volume()*100 + 0.5)
	}
	s.conn.Publish(&bus.Message{
		Topic: topicState,
		Payload: types.AudioState{
			Level:  level,
			Path:   s.path,
			Volume: vol,
			TSms:   timex.NowMs(),
		},
		Retained: true,
	})
}

func (s *service) publishEvent(name, path string, code errcode.Code) {
	ev := types.TrackEvent{Path: path, TSms: timex.NowMs()}
	if code != errcode.OK {
		ev.Err = string(code)
	}
	s.conn.Publish(&bus.Message{Topic: topicEvent(name), Payload: ev})
}

// ---- payload coercion -------------------------------------------------------
// Payloads arrive typed from in-process callers and as map[string]any from
// the JSON config service.

func parseConfig(payload any) (Config, bool) {
	switch v := payload.(type) {
	case types.AudioConfig:
		return Config{
			Pin:          v.Pin,
			PWMFreqHz:    v.PWMFreqHz,
			SampleRateHz: v.SampleRateHz,
			ChunkSize:    v.ChunkSize,
			SampleBits:   v.SampleBits,
			Signed:       v.Signed,
			BigEndian:    v.BigEndian,
		}, true
	case map[string]any:
		cfg := DefaultConfig()
		if n, ok := num(v["pin"]); ok {
			cfg.Pin = int(n)
		}
		if n, ok := num(v["pwm_freq_hz"]); ok {
			cfg.PWMFreqHz = uint64(n)
		}
		if n, ok := num(v["sample_rate_hz"]); ok {
			cfg.SampleRateHz = uint32(n)
		}
		if n, ok := num(v["chunk_size"]); ok {
			cfg.ChunkSize = int(n)
		}
		if n, ok := num(v["sample_bits"]); ok {
			cfg.SampleBits = int(n)
		}
		if b, ok := v["signed"].(bool); ok {
			signed := b
			cfg.Signed = &signed
		}
		if b, ok := v["big_endian"].(bool); ok {
			cfg.BigEndian = b
		}
		return cfg, true
	}
	return Config{}, false
}

func playPath(payload any) (string, bool) {
	switch v := payload.(type) {
	case types.PlayRequest:
		return v.Path, v.Path != ""
	case string:
		return v, v != ""
	case map[string]any:
		p, ok := v["path"].(string)
		return p, ok && p != ""
	}
	return "", false
}

func volumePercent(payload any) (int, bool) {
	switch v := payload.(type) {
	case types.VolumeSet:
		return v.Percent, true
	case int:
		return v, true
	case map[string]any:
		if n, ok := num(v["percent"]); ok {
			return int(n), true
		}
	}
	return 0, false
}

func num(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
