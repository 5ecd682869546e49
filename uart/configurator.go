package uart

import (
	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.uber.org/zap"

	"esphal-go/driver"
	"esphal-go/errcode"
	"esphal-go/pinclaim"
	"esphal-go/x/mathx"
)

// Parity selects the frame parity bit.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) toRaw() driver.Parity {
	switch p {
	case ParityEven:
		return driver.ParityEven
	case ParityOdd:
		return driver.ParityOdd
	default:
		return driver.ParityNone
	}
}

// FlowControl selects which hardware flow-control lines the port honours.
type FlowControl uint8

const (
	FlowNone FlowControl = iota
	FlowRTS
	FlowCTS
	FlowCTSRTS
)

func (f FlowControl) toRaw() driver.FlowControl {
	switch f {
	case FlowRTS:
		return driver.FlowRTS
	case FlowCTS:
		return driver.FlowCTS
	case FlowCTSRTS:
		return driver.FlowCTSRTS
	default:
		return driver.FlowNone
	}
}

// Baud rate limits the line timing hardware can hit.
const (
	MinBaudRate = 300
	MaxBaudRate = 608000
)

// MinBufferSize is the smallest driver ring the install call accepts. A TX
// ring of zero means blocking writes straight into the FIFO.
const MinBufferSize = 256

// Configurator accumulates the line configuration draft for one port. The
// first invalid call poisons the draft; chaining continues and the error
// surfaces at Install. Capability checks fail closed: a setter that needs a
// line the mux does not wire poisons with capability_missing.
type Configurator struct {
	port    *Port
	params  driver.UARTParams
	rxSize  int
	txSize  int
	pending error
}

// NewConfigurator starts a draft for a port token with the conventional
// 115200 8N1 line and a 256-byte receive ring on receive-capable ports. The
// token is consumed only when Install succeeds.
func NewConfigurator(port *Port) *Configurator {
	c := &Configurator{
		port: port,
		params: driver.UARTParams{
			BaudRate: 115200,
			DataBits: 8,
			StopBits: 1,
			Parity:   driver.ParityNone,
		},
	}
	if port.SupportsRx() {
		c.rxSize = MinBufferSize
	}
	return c
}

func (c *Configurator) poison(code errcode.Code, op string) *Configurator {
	if c.pending == nil {
		c.pending = errcode.Wrap(code, op, nil)
	}
	return c
}

// SetBaudRate sets the line rate, 300 to 608000 baud.
func (c *Configurator) SetBaudRate(baud uint32) *Configurator {
	if !mathx.Between(baud, MinBaudRate, MaxBaudRate) {
		return c.poison(errcode.InvalidBaudRate, "uart.set_baud_rate")
	}
	c.params.BaudRate = baud
	return c
}

// SetDataBits sets the frame payload width, 5 to 8 bits.
func (c *Configurator) SetDataBits(bits uint8) *Configurator {
	if !mathx.Between(bits, 5, 8) {
		return c.poison(errcode.InvalidDataBits, "uart.set_data_bits")
	}
	c.params.DataBits = bits
	return c
}

// SetStopBits sets the stop-bit count, 1 or 2.
func (c *Configurator) SetStopBits(bits uint8) *Configurator {
	if !mathx.Between(bits, 1, 2) {
		return c.poison(errcode.InvalidStopBits, "uart.set_stop_bits")
	}
	c.params.StopBits = bits
	return c
}

// SetParity selects the parity bit.
func (c *Configurator) SetParity(p Parity) *Configurator {
	if p > ParityOdd {
		return c.poison(errcode.InvalidParity, "uart.set_parity")
	}
	c.params.Parity = p.toRaw()
	return c
}

// SetHardwareFlowControl enables RTS/CTS handling. The port must have both
// flow-control lines wired.
func (c *Configurator) SetHardwareFlowControl(flow FlowControl, rxThreshold uint8) *Configurator {
	if flow != FlowNone && !c.port.SupportsFlowControl() {
		return c.poison(errcode.CapabilityMissing, "uart.set_hardware_flow_control")
	}
	c.params.FlowControl = flow.toRaw()
	c.params.RxFlowThreshold = rxThreshold
	return c
}

// SetRxBufferSize sets the receive ring, at least 256 bytes. Only offered on
// receive-capable ports.
func (c *Configurator) SetRxBufferSize(size int) *Configurator {
	if !c.port.SupportsRx() {
		return c.poison(errcode.CapabilityMissing, "uart.set_rx_buffer_size")
	}
	if size < MinBufferSize {
		return c.poison(errcode.InvalidRxBufferSize, "uart.set_rx_buffer_size")
	}
	c.rxSize = size
	return c
}

// SetTxBufferSize sets the transmit ring, zero (blocking writes) or at least
// 256 bytes.
func (c *Configurator) SetTxBufferSize(size int) *Configurator {
	if size != 0 && size < MinBufferSize {
		return c.poison(errcode.InvalidTxBufferSize, "uart.set_tx_buffer_size")
	}
	c.txSize = size
	return c
}

// Err exposes the pending draft error, if any.
func (c *Configurator) Err() error { return c.pending }

// Install validates the draft, takes ownership of the port and its wired
// lines, and commits the configuration to the driver. On any failure every
// capture and consumption made during this attempt is undone, so the caller
// keeps the configurator and the token and may retry.
func (c *Configurator) Install(drv driver.UART, claims *pinclaim.Tracker, clk clock.Clock, logger golog.Logger) (*RunningPort, error) {
	if c.pending != nil {
		return nil, c.pending
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if err := c.port.Consume(); err != nil {
		return nil, err
	}
	pins := c.port.wiredPins()
	if err := claims.CaptureAll(pins, c.port.Holder()); err != nil {
		c.port.Release()
		return nil, err
	}
	undo := func() {
		claims.ReleaseAll(pins)
		c.port.Release()
	}

	raw := uint8(c.port.id)
	if s := drv.ParamConfig(raw, c.params); !s.OK() {
		undo()
		return nil, errcode.Wrap(errcode.Driver, "uart.param_config", s)
	}
	if s := drv.Install(raw, c.rxSize, c.txSize); !s.OK() {
		undo()
		return nil, errcode.Wrap(errcode.Driver, "uart.install", s)
	}

	logger.Debugw("uart installed",
		"port", c.port.id,
		"baud", c.params.BaudRate,
		"rx_buffer", c.rxSize,
		"tx_buffer", c.txSize,
	)
	return &RunningPort{port: c.port, drv: drv, claims: claims, clk: clk, log: logger}, nil
}
