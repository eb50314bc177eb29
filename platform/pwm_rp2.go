//go:build rp2040

package platform

import (
	"machine"
	"time"

	"audiocode-go/errcode"
	"audiocode-go/services/audio"
)

// pwmCtrl abstracts the machine PWM slice controllers (PWM0..PWM7)
// behind the subset of methods we use.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

func periodFromHz(hz uint64) uint64 {
	return uint64(time.Second) / hz
}

// rp2PWM drives one channel of an RP2040 PWM slice. Duty levels arrive
// in the logical 0..65535 range and are scaled to the hardware top the
// carrier frequency allows.
type rp2PWM struct {
	ctrl  pwmCtrl
	chIdx uint8 // channel within slice: 0 => A, 1 => B
	hwTop uint32
}

func NewPWM() audio.PWMOut { return &rp2PWM{} }

func (p *rp2PWM) Configure(pin int, freqHz uint64) error {
	if freqHz == 0 {
		return errcode.InvalidParams
	}
	sliceNum, err := machine.PWMPeripheral(machine.Pin(pin))
	if err != nil {
		return errcode.Unsupported
	}
	ctrl := pwmGroupBySlice(sliceNum)
	if err := ctrl.Configure(machine.PWMConfig{Period: periodFromHz(freqHz)}); err != nil {
		return err
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinPWM})

	p.ctrl = ctrl
	// Channel within the slice: even pin => A(0), odd pin => B(1).
	p.chIdx = uint8(pin & 1)
	p.hwTop = ctrl.Top()
	p.ctrl.Set(p.chIdx, 0)
	return nil
}

func (p *rp2PWM) SetDuty(level uint16) {
	if p.ctrl == nil || p.hwTop == 0 {
		return
	}
	// Scale from logical [0..65535] to hardware [0..hwTop].
	p.ctrl.Set(p.chIdx, (uint32(level)*p.hwTop)/65535)
}
