//go:build rp2040

package platform

import (
	"context"
	"io"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// uartReader adapts uartx's context-aware receive to io.Reader so the
// console's line splitter can block instead of polling an empty FIFO.
type uartReader struct {
	ctx context.Context
	u   *uartx.UART
}

func NewUARTReader(ctx context.Context, u *uartx.UART) io.Reader {
	return &uartReader{ctx: ctx, u: u}
}

func (r *uartReader) Read(p []byte) (int, error) {
	return r.u.RecvSomeContext(r.ctx, p)
}
