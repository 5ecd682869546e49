package pwm

import (
	"esphal-go/driver"
	"esphal-go/errcode"
	"esphal-go/gpio"
	"esphal-go/peripherals"
	"esphal-go/pinclaim"
	"esphal-go/x/mathx"
)

// Configuration is the channel-level reconfiguration surface of an
// initialized unit. It is only reachable through PWM.Configure, which scopes
// mutation to one closure at a time.
type Configuration struct {
	drv          driver.PWM
	channelCount uint8
	period       uint32
	stopMask     uint32
}

func (c *Configuration) assertChannel(channel uint8, op string) error {
	if channel >= c.channelCount {
		return errcode.Wrap(errcode.InvalidChannel, op, nil)
	}
	return nil
}

// SetStopLevel selects the level a channel parks at when the unit stops.
func (c *Configuration) SetStopLevel(channel uint8, level bool) error {
	if err := c.assertChannel(channel, "pwm.set_stop_level"); err != nil {
		return err
	}
	bit := uint32(1) << channel
	if level {
		c.stopMask |= bit
	} else {
		c.stopMask &^= bit
	}
	return nil
}

// SetInverted toggles output inversion for a channel.
func (c *Configuration) SetInverted(channel uint8, inverted bool) error {
	if err := c.assertChannel(channel, "pwm.set_inverted"); err != nil {
		return err
	}
	mask := uint16(1) << channel
	var s driver.Status
	if inverted {
		s = c.drv.SetChannelInvert(mask)
	} else {
		s = c.drv.ClearChannelInvert(mask)
	}
	if !s.OK() {
		return errcode.Wrap(errcode.Driver, "pwm.set_inverted", s)
	}
	return nil
}

// SetPeriod reprograms the unit period. The driver rejects periods it cannot
// time; that rejection surfaces as too_short_period.
func (c *Configuration) SetPeriod(period uint32) error {
	if s := c.drv.SetPeriod(period); !s.OK() {
		return errcode.Wrap(errcode.TooShortPeriod, "pwm.set_period", s)
	}
	c.period = period
	return nil
}

// SetDuty reprograms one channel's duty. Duty may never exceed the period.
func (c *Configuration) SetDuty(channel uint8, duty uint32) error {
	if duty > c.period {
		return errcode.Wrap(errcode.DutyExceedsPeriod, "pwm.set_duty", nil)
	}
	if s := c.drv.SetDuty(channel, duty); !s.OK() {
		return errcode.Wrap(errcode.InvalidChannel, "pwm.set_duty", s)
	}
	return nil
}

// SetPhase shifts one channel's phase, in degrees within [-180, 180].
func (c *Configuration) SetPhase(channel uint8, phase int16) error {
	if !mathx.Between(phase, -180, 180) {
		return errcode.Wrap(errcode.InvalidPhase, "pwm.set_phase", nil)
	}
	if s := c.drv.SetPhase(channel, phase); !s.OK() {
		return errcode.Wrap(errcode.InvalidChannel, "pwm.set_phase", s)
	}
	return nil
}

// ChannelCount returns the committed number of channels.
func (c *Configuration) ChannelCount() uint8 { return c.channelCount }

// PWM is the initialized unit. It owns its channel pads (captured in the
// claim tracker) until Deinitialize hands everything back; after that every
// call on the old handle fails closed.
type PWM struct {
	drv      driver.PWM
	claims   *pinclaim.Tracker
	tok      *peripherals.PWMToken
	pins     []*gpio.Pin
	pinIDs   []gpio.PinID
	cfg      Configuration
	running  bool
	deinited bool
}

func (p *PWM) guard(op string) error {
	if p.deinited {
		return errcode.Wrap(errcode.NotInitialized, op, nil)
	}
	return nil
}

// Configure applies a reconfiguration closure against the unit.
func (p *PWM) Configure(fn func(*Configuration) error) error {
	if err := p.guard("pwm.configure"); err != nil {
		return err
	}
	return fn(&p.cfg)
}

// Start commits the configuration to hardware. Failure leaves the unit
// configured; the caller may retry.
func (p *PWM) Start() error {
	if err := p.guard("pwm.start"); err != nil {
		return err
	}
	switch s := p.drv.Start(); s {
	case driver.StatusOK:
		p.running = true
		return nil
	case driver.StatusNoMem:
		return errcode.Wrap(errcode.NoMemory, "pwm.start", s)
	case driver.StatusInvalidArg:
		return errcode.Wrap(errcode.InvalidArgument, "pwm.start", s)
	default:
		return errcode.Wrap(errcode.Driver, "pwm.start", s)
	}
}

// Stop parks every channel at its stop level. The vendor documents stop as
// unconditionally successful. Idempotent with respect to an already-stopped
// or deinitialized unit.
func (p *PWM) Stop() {
	if p.deinited {
		return
	}
	driver.MustOK("pwm.stop", p.drv.Stop(p.cfg.stopMask))
	p.running = false
}

// Running reports whether Start has committed since the last Stop.
func (p *PWM) Running() bool { return p.running }

// Deinitialize stops the unit, tears the driver state down, releases every
// captured pad back to ordinary GPIO use and returns the unit token.
// Idempotent on an already deinitialized handle.
func (p *PWM) Deinitialize() *peripherals.PWMToken {
	if p.deinited {
		return p.tok
	}
	p.Stop()
	driver.MustOK("pwm.deinit", p.drv.Deinit())
	p.claims.ReleaseAll(p.pinIDs)
	for _, pin := range p.pins {
		pin.Release()
	}
	p.tok.Release()
	p.deinited = true
	return p.tok
}
