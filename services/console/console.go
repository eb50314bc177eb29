package console

import (
	"context"
	"io"

	"github.com/google/shlex"

	"audiocode-go/bus"
	"audiocode-go/types"
	"audiocode-go/x/conv"
	"audiocode-go/x/mathx"
	"audiocode-go/x/strconvx"
)

// Line-oriented control console, typically served over a UART. Commands:
//
//	play <path>   start a clip (quote paths with spaces)
//	stop          stop playback
//	vol <0..100>  set volume percent
//	stat          report the cached audio state
//	help          list commands
//
// The console only talks to the bus; it never touches the player directly.

const maxLine = 128

var (
	topicPlay   = bus.T("audio", "control", "play")
	topicStop   = bus.T("audio", "control", "stop")
	topicVolume = bus.T("audio", "control", "volume")
	topicState  = bus.T("audio", "state")
)

// Run serves the console until ctx is cancelled or the reader fails.
func Run(ctx context.Context, conn *bus.Connection, r io.Reader, w io.Writer) {
	s := &session{conn: conn, w: w}

	stateSub := conn.Subscribe(topicState)
	defer conn.Unsubscribe(stateSub)

	lines := make(chan string, 4)
	go readLines(r, lines)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-stateSub.Channel():
			if st, ok := msg.Payload.(types.AudioState); ok {
				s.state = st
				s.haveState = true
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			s.handle(line)
		}
	}
}

// readLines splits the byte stream on newlines, dropping carriage returns
// and truncating oversized lines. It exits (closing out) on read error.
func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	buf := make([]byte, 64)
	line := make([]byte, 0, maxLine)
	for {
		n, err := r.Read(buf)
		for _, c := range buf[:n] {
			switch c {
			case '\r':
			case '\n':
				out <- string(line)
				line = line[:0]
			default:
				if len(line) < maxLine {
					line = append(line, c)
				}
			}
		}
		if err != nil {
			return
		}
	}
}

type session struct {
	conn      *bus.Connection
	w         io.Writer
	state     types.AudioState
	haveState bool
}

func (s *session) handle(line string) {
	tokens, err := shlex.Split(line)
	if err != nil {
		s.reply("err bad quoting")
		return
	}
	if len(tokens) == 0 {
		return
	}
	switch tokens[0] {
	case "play":
		if len(tokens) != 2 || tokens[1] == "" {
			s.reply("err usage: play <path>")
			return
		}
		s.conn.Publish(&bus.Message{Topic: topicPlay, Payload: types.PlayRequest{Path: tokens[1]}})
		s.reply("ok")

	case "stop":
		s.conn.Publish(&bus.Message{Topic: topicStop})
		s.reply("ok")

	case "vol":
		if len(tokens) != 2 {
			s.reply("err usage: vol <0..100>")
			return
		}
		pct, err := strconvx.Atoi(tokens[1])
		if err != nil {
			s.reply("err usage: vol <0..100>")
			return
		}
		pct = mathx.Clamp(pct, 0, 100)
		s.conn.Publish(&bus.Message{Topic: topicVolume, Payload: types.VolumeSet{Percent: pct}})
		s.reply("ok")

	case "stat":
		s.replyStat()

	case "help":
		s.reply("commands: play <path> | stop | vol <0..100> | stat | help")

	default:
		s.reply("err unknown command (try help)")
	}
}

func (s *session) replyStat() {
	if !s.haveState {
		s.reply("state unknown")
		return
	}
	var num [8]byte
	out := make([]byte, 0, 64)
	out = append(out, "state "...)
	out = append(out, s.state.Level...)
	out = append(out, " vol="...)
	out = append(out, conv.Itoa(num[:], int64(s.state.Volume))...)
	if s.state.Path != "" {
		out = append(out, " path="...)
		out = append(out, s.state.Path...)
	}
	s.reply(string(out))
}

func (s *session) reply(msg string) {
	_, _ = s.w.Write([]byte(msg))
	_, _ = s.w.Write([]byte("\r\n"))
}
