//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"audiocode-go/bus"
	"audiocode-go/platform"
	"audiocode-go/services/audio"
	"audiocode-go/services/config"
	"audiocode-go/services/console"
)

const deviceID = "picoplayer"

func main() {
	// Give USB CDC a moment to enumerate so boot diagnostics are visible.
	time.Sleep(2 * time.Second)
	println("[main] boot, device:", deviceID)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)
	b := bus.NewBus(8)

	store, err := platform.NewFlashStorage()
	if err != nil {
		println("[main] flash mount failed:", err.Error())
		return
	}
	println("[main] clip storage mounted")

	go audio.Run(ctx, b.NewConnection("audio"), audio.Ports{
		PWM:     platform.NewPWM(),
		Storage: store,
		Clock:   platform.NewClock(),
	})

	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	go console.Run(ctx, b.NewConnection("console"), platform.NewUARTReader(ctx, uart), uart)

	println("[main] publishing embedded config …")
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	for {
		time.Sleep(time.Minute)
	}
}
