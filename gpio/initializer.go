package gpio

import (
	"github.com/pkg/errors"

	"esphal-go/driver"
	"esphal-go/errcode"
)

// InterruptMode selects the pad interrupt trigger.
type InterruptMode uint8

const (
	IntrDisabled InterruptMode = iota
	IntrPositiveEdge
	IntrNegativeEdge
	IntrAnyEdge
	IntrLowLevel
	IntrHighLevel
)

func (m InterruptMode) toRaw() driver.InterruptType {
	switch m {
	case IntrPositiveEdge:
		return driver.IntrPosEdge
	case IntrNegativeEdge:
		return driver.IntrNegEdge
	case IntrAnyEdge:
		return driver.IntrAnyEdge
	case IntrLowLevel:
		return driver.IntrLowLevel
	case IntrHighLevel:
		return driver.IntrHighLevel
	default:
		return driver.IntrDisable
	}
}

// PinInitializer accumulates a pad configuration draft. Every setter is
// checked against the pad's capability set; the first violation poisons the
// draft and is surfaced at Init. Later valid calls keep chaining but cannot
// clear the recorded error.
type PinInitializer struct {
	pin     *Pin
	cfg     driver.PinConfig
	pending error
}

// NewPinInitializer starts a draft for the given pad token. The token is not
// consumed until Init succeeds, so a failed or abandoned draft strands
// nothing.
func NewPinInitializer(pin *Pin) *PinInitializer {
	return &PinInitializer{
		pin: pin,
		cfg: driver.PinConfig{
			PinMask: pin.ID().Mask(),
			Mode:    driver.PinModeDisable,
		},
	}
}

func (b *PinInitializer) poison(c errcode.Code, op string) {
	if b.pending == nil {
		b.pending = errcode.Wrap(c, op, nil)
	}
}

func (b *PinInitializer) gate(cap CapabilitySet, op string) bool {
	if CapsOf(b.pin.ID()).Has(cap) {
		return true
	}
	b.poison(errcode.CapabilityMissing, op)
	return false
}

// ConfigureAsInput selects input direction.
func (b *PinInitializer) ConfigureAsInput() *PinInitializer {
	if b.gate(CapInput, "gpio.configure_as_input") {
		b.cfg.Mode = driver.PinModeInput
	}
	return b
}

// ConfigureAsOutput selects push-pull output direction.
func (b *PinInitializer) ConfigureAsOutput() *PinInitializer {
	if b.gate(CapOutput, "gpio.configure_as_output") {
		b.cfg.Mode = driver.PinModeOutput
	}
	return b
}

// ConfigureAsOpenDrain selects open-drain output direction.
func (b *PinInitializer) ConfigureAsOpenDrain() *PinInitializer {
	if b.gate(CapOpenDrain, "gpio.configure_as_open_drain") {
		b.cfg.Mode = driver.PinModeOutputOpenDrain
	}
	return b
}

// EnablePullUp requests the internal pull-up resistor.
func (b *PinInitializer) EnablePullUp() *PinInitializer {
	if b.gate(CapPullUp, "gpio.enable_pull_up") {
		b.cfg.PullUp = true
	}
	return b
}

// EnablePullDown requests the internal pull-down resistor.
func (b *PinInitializer) EnablePullDown() *PinInitializer {
	if b.gate(CapPullDown, "gpio.enable_pull_down") {
		b.cfg.PullDown = true
	}
	return b
}

// SetInterruptMode selects the interrupt trigger.
func (b *PinInitializer) SetInterruptMode(mode InterruptMode) *PinInitializer {
	if b.gate(CapInterrupt, "gpio.set_interrupt_mode") {
		b.cfg.Interrupt = mode.toRaw()
	}
	return b
}

// Err exposes the pending draft error, if any.
func (b *PinInitializer) Err() error { return b.pending }

// Init surfaces the pending error, consumes the pad token and commits the
// whole configuration to the driver. On driver rejection the token is
// released again so the caller can retry or relinquish it.
func (b *PinInitializer) Init(drv driver.Pin) (*InitializedPin, error) {
	if b.pending != nil {
		return nil, b.pending
	}
	if err := b.pin.Consume(); err != nil {
		return nil, err
	}
	if b.pin.ID() != NC {
		if s := drv.Commit(b.cfg); !s.OK() {
			b.pin.Release()
			return nil, errcode.Wrap(errcode.Driver, "gpio.init", errors.Wrapf(s, "pin %d", b.pin.ID()))
		}
	}
	return &InitializedPin{pin: b.pin, drv: drv}, nil
}
