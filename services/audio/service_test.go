package audio

import (
	"context"
	"testing"
	"time"

	"audiocode-go/bus"
	"audiocode-go/types"
)

type serviceHarness struct {
	bus   *bus.Bus
	conn  *bus.Connection // test-side connection
	store *memStorage
	clk   *fakeClock
	pwm   *fakePWM
}

func startService(t *testing.T) (*serviceHarness, context.CancelFunc) {
	t.Helper()
	b := bus.NewBus(16)
	h := &serviceHarness{
		bus:   b,
		conn:  b.NewConnection("test"),
		store: newMemStorage(),
		clk:   newFakeClock(25),
	}
	h.pwm = &fakePWM{clk: h.clk}
	ctx, cancel := context.WithCancel(context.Background())
	go Run(ctx, b.NewConnection("audio"), Ports{PWM: h.pwm, Storage: h.store, Clock: h.clk})
	return h, cancel
}

func (h *serviceHarness) control(verb string, payload any) {
	h.conn.Publish(&bus.Message{Topic: bus.T("audio", "control", verb), Payload: payload})
}

func (h *serviceHarness) configure(cfg any) {
	h.conn.Publish(&bus.Message{Topic: bus.T("config", "audio"), Payload: cfg, Retained: true})
}

func waitState(t *testing.T, sub *bus.Subscription, level string) types.AudioState {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-sub.Channel():
			st, ok := m.Payload.(types.AudioState)
			if !ok {
				t.Fatalf("state payload %T", m.Payload)
			}
			if st.Level == level {
				return st
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %q", level)
		}
	}
}

func waitEvent(t *testing.T, sub *bus.Subscription, name string) types.TrackEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-sub.Channel():
			if m.Topic[len(m.Topic)-1] != name {
				continue
			}
			ev, ok := m.Payload.(types.TrackEvent)
			if !ok {
				t.Fatalf("event payload %T", m.Payload)
			}
			return ev
		case <-deadline:
			t.Fatalf("timed out waiting for event %q", name)
		}
	}
}

func TestServicePlayLifecycle(t *testing.T) {
	h, cancel := startService(t)
	defer cancel()
	h.store.files["clip.pcm"] = []byte{10, 20, 30, 40}

	stateSub := h.conn.Subscribe(bus.T("audio", "state"))
	eventSub := h.conn.Subscribe(bus.T("audio", "event", "+"))

	waitState(t, stateSub, "idle")
	h.configure(types.AudioConfig{Pin: 2, SampleBits: 8})
	waitState(t, stateSub, "ready")

	h.control("play", types.PlayRequest{Path: "clip.pcm"})
	if ev := waitEvent(t, eventSub, "started"); ev.Path != "clip.pcm" || ev.Err != "" {
		t.Fatalf("started event: %+v", ev)
	}
	st := waitState(t, stateSub, "playing")
	if st.Path != "clip.pcm" {
		t.Fatalf("playing state path = %q", st.Path)
	}

	// The clip is four samples; the service notices the drained scheduler
	// and releases the stream.
	if ev := waitEvent(t, eventSub, "finished"); ev.Path != "clip.pcm" {
		t.Fatalf("finished event: %+v", ev)
	}
	waitState(t, stateSub, "ready")
	ev := h.store.events()
	if len(ev) != 2 || ev[1] != "close:clip.pcm" {
		t.Fatalf("storage events: %v", ev)
	}
}

func TestServiceControlBeforeConfig(t *testing.T) {
	h, cancel := startService(t)
	defer cancel()

	stateSub := h.conn.Subscribe(bus.T("audio", "state"))
	eventSub := h.conn.Subscribe(bus.T("audio", "event", "error"))
	waitState(t, stateSub, "idle") // service is up
	h.control("play", types.PlayRequest{Path: "x"})
	if ev := waitEvent(t, eventSub, "error"); ev.Err != "not_ready" {
		t.Fatalf("error event: %+v", ev)
	}
}

func TestServicePlayMissingClip(t *testing.T) {
	h, cancel := startService(t)
	defer cancel()

	stateSub := h.conn.Subscribe(bus.T("audio", "state"))
	eventSub := h.conn.Subscribe(bus.T("audio", "event", "error"))
	h.configure(types.AudioConfig{Pin: 2})
	waitState(t, stateSub, "ready")

	h.control("play", types.PlayRequest{Path: "ghost.pcm"})
	ev := waitEvent(t, eventSub, "error")
	if ev.Err != "source_unavailable" || ev.Path != "ghost.pcm" {
		t.Fatalf("error event: %+v", ev)
	}
}

func TestServiceVolumeClampOverBus(t *testing.T) {
	h, cancel := startService(t)
	defer cancel()

	stateSub := h.conn.Subscribe(bus.T("audio", "state"))
	h.configure(types.AudioConfig{Pin: 2})
	waitState(t, stateSub, "ready")

	waitVolume := func(want uint8) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case m := <-stateSub.Channel():
				if st, ok := m.Payload.(types.AudioState); ok && st.Volume == want {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for volume %d", want)
			}
		}
	}

	h.control("volume", types.VolumeSet{Percent: 60})
	waitVolume(60)
	h.control("volume", types.VolumeSet{Percent: 150})
	waitVolume(100)
	h.control("volume", types.VolumeSet{Percent: -20})
	waitVolume(0)
}

func TestServiceConfigFromJSONMap(t *testing.T) {
	h, cancel := startService(t)
	defer cancel()

	stateSub := h.conn.Subscribe(bus.T("audio", "state"))
	// The config service publishes tinyjson maps, not typed structs.
	h.configure(map[string]any{
		"pin":            float64(3),
		"sample_rate_hz": float64(16000),
		"sample_bits":    float64(16),
		"signed":         true,
		"big_endian":     true,
	})
	waitState(t, stateSub, "ready")
	if h.pwm.pinUsed() != 3 {
		t.Fatalf("pwm pin = %d, want 3", h.pwm.pinUsed())
	}
}

func TestServiceStopControl(t *testing.T) {
	h, cancel := startService(t)
	defer cancel()
	h.store.endless["tone"] = 0x80

	stateSub := h.conn.Subscribe(bus.T("audio", "state"))
	h.configure(types.AudioConfig{Pin: 2})
	waitState(t, stateSub, "ready")

	h.control("play", types.PlayRequest{Path: "tone"})
	waitState(t, stateSub, "playing")
	h.control("stop", nil)
	waitState(t, stateSub, "ready")

	ev := h.store.events()
	if len(ev) != 2 || ev[1] != "close:tone" {
		t.Fatalf("storage events: %v", ev)
	}
}

func TestServiceInvalidConfigRejected(t *testing.T) {
	h, cancel := startService(t)
	defer cancel()

	eventSub := h.conn.Subscribe(bus.T("audio", "event", "error"))
	h.configure(map[string]any{"sample_bits": float64(12)})
	if ev := waitEvent(t, eventSub, "error"); ev.Err != "config_invalid" {
		t.Fatalf("error event: %+v", ev)
	}
}
