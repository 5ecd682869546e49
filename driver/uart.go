package driver

import "time"

// Parity is the raw frame parity selector.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// FlowControl is the raw hardware flow-control selector.
type FlowControl uint8

const (
	FlowNone FlowControl = iota
	FlowRTS
	FlowCTS
	FlowCTSRTS
)

// UARTParams is the committed line configuration (uart_param_config shaped).
type UARTParams struct {
	BaudRate        uint32
	DataBits        uint8
	StopBits        uint8
	Parity          Parity
	FlowControl     FlowControl
	RxFlowThreshold uint8
}

// UART is the port-level driver surface. Timeout and generic failure are the
// only surfaced IO outcomes.
type UART interface {
	ParamConfig(port uint8, p UARTParams) Status
	Install(port uint8, rxSize, txSize int) Status
	WriteBytes(port uint8, p []byte) (int, Status)
	WaitTxDone(port uint8, timeout time.Duration) Status
	ReadBytes(port uint8, p []byte, timeout time.Duration) (int, Status)
	Delete(port uint8) Status
}
