//go:build !rp2040

package platform

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"audiocode-go/services/audio"
)

// hostStorage serves clips straight from the filesystem, optionally
// rooted under a directory.
type hostStorage struct {
	root string
}

func NewStorage(root string) audio.Storage { return &hostStorage{root: root} }

func (s *hostStorage) Open(path string) (audio.File, error) {
	if s.root != "" {
		path = filepath.Join(s.root, path)
	}
	return os.Open(path)
}

// hostPWM is the development stand-in for the PWM slice. It only
// remembers what was last written so a harness can inspect it.
type hostPWM struct {
	pin    int
	freqHz uint64
	duty   atomic.Uint32
}

func NewPWM() audio.PWMOut { return &hostPWM{} }

func (p *hostPWM) Configure(pin int, freqHz uint64) error {
	p.pin = pin
	p.freqHz = freqHz
	return nil
}

func (p *hostPWM) SetDuty(level uint16) {
	p.duty.Store(uint32(level))
}

// Duty reports the most recent level written.
func (p *hostPWM) Duty() uint16 { return uint16(p.duty.Load()) }
