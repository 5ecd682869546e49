//go:build rp2040

package uart

import (
	"context"
	"errors"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"esphal-go/driver"
	"esphal-go/gpio"
)

// rp2Driver adapts the on-chip uartx ports to driver.UART for bring-up on
// RP2040 boards. The uartx layer owns its own rings, so the install sizes are
// accepted as-is, and the transmitter drains synchronously once buffered.
type rp2Driver struct {
	muxes [2]PinMux
}

// NewRP2Driver returns a driver.UART backed by the hardware ports. The muxes
// select which pads each port is routed to.
func NewRP2Driver(mux0, mux1 PinMux) driver.UART {
	return &rp2Driver{muxes: [2]PinMux{mux0, mux1}}
}

func (d *rp2Driver) hw(port uint8) *uartx.UART {
	if port == 0 {
		return uartx.UART0
	}
	return uartx.UART1
}

func (d *rp2Driver) ParamConfig(port uint8, p driver.UARTParams) driver.Status {
	if port > 1 {
		return driver.StatusInvalidArg
	}
	mux := d.muxes[port]
	hw := d.hw(port)
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: p.BaudRate,
		TX:       machinePin(mux.TX),
		RX:       machinePin(mux.RX),
	}); err != nil {
		return driver.StatusFail
	}
	var par uartx.UARTParity
	switch p.Parity {
	case driver.ParityEven:
		par = uartx.ParityEven
	case driver.ParityOdd:
		par = uartx.ParityOdd
	default:
		par = uartx.ParityNone
	}
	if err := hw.SetFormat(p.DataBits, p.StopBits, par); err != nil {
		return driver.StatusInvalidArg
	}
	return driver.StatusOK
}

func (d *rp2Driver) Install(port uint8, rxSize, txSize int) driver.Status {
	if port > 1 {
		return driver.StatusInvalidArg
	}
	return driver.StatusOK
}

func (d *rp2Driver) WriteBytes(port uint8, p []byte) (int, driver.Status) {
	n, err := d.hw(port).Write(p)
	if err != nil {
		return n, driver.StatusFail
	}
	return n, driver.StatusOK
}

func (d *rp2Driver) WaitTxDone(port uint8, timeout time.Duration) driver.Status {
	// Writes block until buffered and the FIFO drains in the background;
	// nothing observable is pending by the time Write returns.
	return driver.StatusOK
}

func (d *rp2Driver) ReadBytes(port uint8, p []byte, timeout time.Duration) (int, driver.Status) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	n, err := d.hw(port).RecvSomeContext(ctx, p)
	switch {
	case err == nil:
		return n, driver.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return n, driver.StatusTimeout
	default:
		return n, driver.StatusFail
	}
}

func (d *rp2Driver) Delete(port uint8) driver.Status {
	if port > 1 {
		return driver.StatusInvalidArg
	}
	return driver.StatusOK
}

func machinePin(id gpio.PinID) machine.Pin {
	if id == gpio.NC {
		return machine.NoPin
	}
	return machine.Pin(id)
}
