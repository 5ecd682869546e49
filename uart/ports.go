// Package uart exposes the two serial ports: single-use port tokens carrying
// their pin mux, a capability-checked line-configuration draft, and the
// installed-port lifecycle with bounded IO waits. Ports borrow their lines
// from the GPIO bank through the claim tracker for as long as they run.
package uart

import (
	"esphal-go/errcode"
	"esphal-go/gpio"
	"esphal-go/peripherals"
)

// PortID identifies a hardware UART.
type PortID uint8

const (
	Port0 PortID = 0
	Port1 PortID = 1
)

// PinMux is the set of GPIO lines a port drives. Unwired lines are gpio.NC.
type PinMux struct {
	TX  gpio.PinID
	RX  gpio.PinID
	DTR gpio.PinID
	CTS gpio.PinID
	DSR gpio.PinID
	RTS gpio.PinID
}

var (
	muxUART0    = PinMux{TX: 1, RX: 3, DTR: 12, CTS: 13, DSR: 14, RTS: 15}
	muxUART0Alt = PinMux{TX: 15, RX: 13, DTR: 12, CTS: gpio.NC, DSR: 14, RTS: gpio.NC}
	muxUART1    = PinMux{TX: 2, RX: gpio.NC, DTR: gpio.NC, CTS: gpio.NC, DSR: gpio.NC, RTS: gpio.NC}
)

// Port is a single-use token for one UART. Its capability set derives from
// the pin mux: a port without a wired RX cannot receive, a port without both
// CTS and RTS has no hardware flow control.
type Port struct {
	id    PortID
	mux   PinMux
	alt   bool
	spent bool
}

// ID returns the port number.
func (p *Port) ID() PortID { return p.id }

// Mux returns the port's pin mux.
func (p *Port) Mux() PinMux { return p.mux }

// SupportsRx reports whether the port can receive.
func (p *Port) SupportsRx() bool { return p.mux.RX != gpio.NC }

// SupportsTx reports whether the port can transmit.
func (p *Port) SupportsTx() bool { return p.mux.TX != gpio.NC }

// SupportsFlowControl reports whether both flow-control lines are wired.
func (p *Port) SupportsFlowControl() bool {
	return p.mux.CTS != gpio.NC && p.mux.RTS != gpio.NC
}

// Holder is the claim-tracker identity the port captures its lines under.
func (p *Port) Holder() string {
	if p.id == Port0 {
		return "uart0"
	}
	return "uart1"
}

func (p *Port) wiredPins() []gpio.PinID {
	all := []gpio.PinID{p.mux.TX, p.mux.RX, p.mux.DTR, p.mux.CTS, p.mux.DSR, p.mux.RTS}
	wired := all[:0]
	for _, pin := range all {
		if pin != gpio.NC {
			wired = append(wired, pin)
		}
	}
	return wired
}

// Consume marks the token spent; used by Install and ToAlternativeMode.
func (p *Port) Consume() error {
	if p == nil || p.spent {
		return errcode.Wrap(errcode.PeripheralConsumed, "uart.consume", nil)
	}
	p.spent = true
	return nil
}

// Release makes the token usable again; used by the stop transition.
func (p *Port) Release() {
	if p != nil {
		p.spent = false
	}
}

// ToAlternativeMode swaps UART0 onto its alternative pin mux (TX on 15, RX
// on 13, no flow-control lines), consuming the original token.
func (p *Port) ToAlternativeMode() (*Port, error) {
	if p.id != Port0 || p.alt {
		return nil, errcode.Wrap(errcode.InvalidArgument, "uart.to_alternative_mode", nil)
	}
	if err := p.Consume(); err != nil {
		return nil, err
	}
	return &Port{id: Port0, mux: muxUART0Alt, alt: true}, nil
}

// Bank holds both port tokens, created exactly once from the bank-level
// peripheral token.
type Bank struct {
	UART0 *Port
	UART1 *Port
}

// NewBank consumes the bank token and mints the port tokens.
func NewBank(tok *peripherals.UARTBankToken) (*Bank, error) {
	if err := tok.Consume(); err != nil {
		return nil, err
	}
	return &Bank{
		UART0: &Port{id: Port0, mux: muxUART0},
		UART1: &Port{id: Port1, mux: muxUART1},
	}, nil
}
