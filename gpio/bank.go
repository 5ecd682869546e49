package gpio

import (
	"esphal-go/errcode"
	"esphal-go/peripherals"
)

// Pin is a single-use token for one pad. It is minted by NewBank (or NCPin)
// and consumed when moved into a builder or another peripheral; after
// consumption the token refuses further use until the owning subsystem
// releases it again.
type Pin struct {
	id    PinID
	spent bool
}

// ID returns the pad identity.
func (p *Pin) ID() PinID { return p.id }

// Caps returns the pad's capability set.
func (p *Pin) Caps() CapabilitySet { return CapsOf(p.id) }

// Consume marks the token spent. It is called by the subsystem taking
// ownership (pin initializer, PWM channel table); NC is always consumable.
func (p *Pin) Consume() error {
	if p == nil {
		return errcode.Wrap(errcode.UnknownPin, "gpio.consume", nil)
	}
	if p.id == NC {
		return nil
	}
	if p.spent {
		return errcode.Wrap(errcode.PinConsumed, "gpio.consume", nil)
	}
	p.spent = true
	return nil
}

// Release makes the token usable again. As with the claim tracker, the
// releaser is not checked against the current owner.
func (p *Pin) Release() {
	if p != nil {
		p.spent = false
	}
}

// NCPin mints a not-connected placeholder token. It never spends.
func NCPin() *Pin { return &Pin{id: NC} }

// Bank is the exploded GPIO bank: one token per pad, created exactly once
// from the bank-level peripheral token.
type Bank struct {
	Gpio0  *Pin
	Gpio1  *Pin
	Gpio2  *Pin
	Gpio3  *Pin
	Gpio4  *Pin
	Gpio5  *Pin
	Gpio12 *Pin
	Gpio13 *Pin
	Gpio14 *Pin
	Gpio15 *Pin
	Gpio16 *Pin
}

// NewBank consumes the bank token and mints the per-pad tokens.
func NewBank(tok *peripherals.GPIOBankToken) (*Bank, error) {
	if err := tok.Consume(); err != nil {
		return nil, err
	}
	return &Bank{
		Gpio0:  &Pin{id: 0},
		Gpio1:  &Pin{id: 1},
		Gpio2:  &Pin{id: 2},
		Gpio3:  &Pin{id: 3},
		Gpio4:  &Pin{id: 4},
		Gpio5:  &Pin{id: 5},
		Gpio12: &Pin{id: 12},
		Gpio13: &Pin{id: 13},
		Gpio14: &Pin{id: 14},
		Gpio15: &Pin{id: 15},
		Gpio16: &Pin{id: 16},
	}, nil
}

// ByID returns the token for a pad id, or nil if the pad does not exist.
func (b *Bank) ByID(id PinID) *Pin {
	switch id {
	case 0:
		return b.Gpio0
	case 1:
		return b.Gpio1
	case 2:
		return b.Gpio2
	case 3:
		return b.Gpio3
	case 4:
		return b.Gpio4
	case 5:
		return b.Gpio5
	case 12:
		return b.Gpio12
	case 13:
		return b.Gpio13
	case 14:
		return b.Gpio14
	case 15:
		return b.Gpio15
	case 16:
		return b.Gpio16
	}
	return nil
}
