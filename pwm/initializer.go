// Package pwm drives the soft-PWM unit: a validated channel-table draft,
// followed by the configured/running lifecycle over the vendor driver. The
// unit borrows its output pads from the GPIO bank through the claim tracker
// and hands every one of them back on deinitialization.
package pwm

import (
	"esphal-go/driver"
	"esphal-go/errcode"
	"esphal-go/gpio"
	"esphal-go/peripherals"
	"esphal-go/pinclaim"
)

// Holder is the claim-tracker identity under which the unit captures pads.
const Holder = "pwm"

// MinPeriod is the shortest programmable period, in ticks.
const MinPeriod = 10

type channel struct {
	pin  *gpio.Pin
	duty uint32
}

// Initializer accumulates the channel table draft. The first invalid call
// poisons the draft; chaining continues but the error is remembered and
// surfaced at Initialize.
type Initializer struct {
	tok       *peripherals.PWMToken
	channels  []channel
	period    uint32
	periodSet bool
	pending   error
}

// NewInitializer starts a draft for the PWM unit token. The token and the
// channel pins are consumed only when Initialize succeeds.
func NewInitializer(tok *peripherals.PWMToken) *Initializer {
	return &Initializer{tok: tok}
}

func (b *Initializer) poison(c errcode.Code, op string) {
	if b.pending == nil {
		b.pending = errcode.Wrap(c, op, nil)
	}
}

// AddChannel appends one (pad, duty) pair. The pad must be PWM-capable; at
// most 8 channels fit the unit.
func (b *Initializer) AddChannel(pin *gpio.Pin, duty uint32) *Initializer {
	switch {
	case len(b.channels) >= driver.MaxPWMChannels:
		b.poison(errcode.TooManyChannels, "pwm.add_channel")
	case !pin.Caps().PWM():
		b.poison(errcode.CapabilityMissing, "pwm.add_channel")
	default:
		b.channels = append(b.channels, channel{pin: pin, duty: duty})
	}
	return b
}

// SetPeriod sets the unit period in ticks (minimum 10).
func (b *Initializer) SetPeriod(period uint32) *Initializer {
	if period < MinPeriod {
		b.poison(errcode.TooShortPeriod, "pwm.set_period")
	} else {
		b.period = period
		b.periodSet = true
	}
	return b
}

// Err exposes the pending draft error, if any.
func (b *Initializer) Err() error { return b.pending }

// Initialize validates the draft, takes ownership of the unit and its pads,
// and programs the driver. On any failure every capture and consumption made
// during this attempt is undone, so the caller keeps the builder and all
// tokens and may retry.
func (b *Initializer) Initialize(drv driver.PWM, claims *pinclaim.Tracker) (*PWM, error) {
	if b.pending != nil {
		return nil, b.pending
	}
	if !b.periodSet {
		return nil, errcode.Wrap(errcode.PeriodNotSet, "pwm.initialize", nil)
	}
	for _, ch := range b.channels {
		if ch.duty > b.period {
			return nil, errcode.Wrap(errcode.DutyExceedsPeriod, "pwm.initialize", nil)
		}
	}

	if err := b.tok.Consume(); err != nil {
		return nil, err
	}

	consumed := make([]*gpio.Pin, 0, len(b.channels))
	undo := func() {
		for _, p := range consumed {
			p.Release()
		}
		b.tok.Release()
	}
	for _, ch := range b.channels {
		if err := ch.pin.Consume(); err != nil {
			undo()
			return nil, err
		}
		consumed = append(consumed, ch.pin)
	}

	pinIDs := make([]gpio.PinID, len(b.channels))
	duties := make([]uint32, len(b.channels))
	rawPins := make([]uint32, len(b.channels))
	for i, ch := range b.channels {
		pinIDs[i] = ch.pin.ID()
		duties[i] = ch.duty
		rawPins[i] = uint32(ch.pin.ID())
	}

	if err := claims.CaptureAll(pinIDs, Holder); err != nil {
		undo()
		return nil, err
	}

	if s := drv.Init(b.period, duties, uint8(len(b.channels)), rawPins); !s.OK() {
		claims.ReleaseAll(pinIDs)
		undo()
		return nil, errcode.Wrap(errcode.Driver, "pwm.initialize", s)
	}

	return &PWM{
		drv:    drv,
		claims: claims,
		tok:    b.tok,
		pins:   consumed,
		pinIDs: pinIDs,
		cfg: Configuration{
			drv:          drv,
			channelCount: uint8(len(b.channels)),
			period:       b.period,
		},
	}, nil
}
