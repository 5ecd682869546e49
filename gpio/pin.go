package gpio

import (
	"esphal-go/driver"
	"esphal-go/errcode"
)

// InitializedPin is a pad that has been committed to the driver. The same
// capability checks that gate the draft gate the post-init operations, now
// as explicit runtime checks that fail closed. NC pins no-op every call.
// Deinit downgrades the handle; after that every call fails closed.
type InitializedPin struct {
	pin      *Pin
	drv      driver.Pin
	deinited bool
}

// ID returns the pad identity.
func (p *InitializedPin) ID() PinID { return p.pin.ID() }

func (p *InitializedPin) nc() bool { return p.pin.ID() == NC }

func (p *InitializedPin) gated(cap CapabilitySet, op string, call func() driver.Status) error {
	if p.deinited {
		return errcode.Wrap(errcode.NotInitialized, op, nil)
	}
	if !CapsOf(p.pin.ID()).Has(cap) {
		return errcode.Wrap(errcode.CapabilityMissing, op, nil)
	}
	if p.nc() {
		return nil
	}
	if s := call(); !s.OK() {
		return errcode.Wrap(errcode.Driver, op, s)
	}
	return nil
}

func (p *InitializedPin) EnablePullUp() error {
	return p.gated(CapPullUp, "gpio.enable_pull_up", func() driver.Status {
		return p.drv.SetPullUp(uint8(p.pin.ID()), true)
	})
}

func (p *InitializedPin) DisablePullUp() error {
	return p.gated(CapPullUp, "gpio.disable_pull_up", func() driver.Status {
		return p.drv.SetPullUp(uint8(p.pin.ID()), false)
	})
}

func (p *InitializedPin) EnablePullDown() error {
	return p.gated(CapPullDown, "gpio.enable_pull_down", func() driver.Status {
		return p.drv.SetPullDown(uint8(p.pin.ID()), true)
	})
}

func (p *InitializedPin) DisablePullDown() error {
	return p.gated(CapPullDown, "gpio.disable_pull_down", func() driver.Status {
		return p.drv.SetPullDown(uint8(p.pin.ID()), false)
	})
}

func (p *InitializedPin) ConfigureAsInput() error {
	return p.gated(CapInput, "gpio.configure_as_input", func() driver.Status {
		return p.drv.SetDirection(uint8(p.pin.ID()), driver.PinModeInput)
	})
}

func (p *InitializedPin) ConfigureAsOutput() error {
	return p.gated(CapOutput, "gpio.configure_as_output", func() driver.Status {
		return p.drv.SetDirection(uint8(p.pin.ID()), driver.PinModeOutput)
	})
}

func (p *InitializedPin) ConfigureAsOpenDrain() error {
	return p.gated(CapOpenDrain, "gpio.configure_as_open_drain", func() driver.Status {
		return p.drv.SetDirection(uint8(p.pin.ID()), driver.PinModeOutputOpenDrain)
	})
}

func (p *InitializedPin) SetInterruptMode(mode InterruptMode) error {
	return p.gated(CapInterrupt, "gpio.set_interrupt_mode", func() driver.Status {
		return p.drv.SetInterruptType(uint8(p.pin.ID()), mode.toRaw())
	})
}

// Level reads the pad. Requires input capability; NC reads as low.
func (p *InitializedPin) Level() (bool, error) {
	if p.deinited {
		return false, errcode.Wrap(errcode.NotInitialized, "gpio.level", nil)
	}
	if !CapsOf(p.pin.ID()).Input() {
		return false, errcode.Wrap(errcode.CapabilityMissing, "gpio.level", nil)
	}
	if p.nc() {
		return false, nil
	}
	return p.drv.Level(uint8(p.pin.ID())), nil
}

// SetLevel drives the pad. Requires output capability.
func (p *InitializedPin) SetLevel(high bool) error {
	return p.gated(CapOutput, "gpio.set_level", func() driver.Status {
		return p.drv.SetLevel(uint8(p.pin.ID()), high)
	})
}

// Deinit hands the pad token back so it can be re-initialized or moved to
// another peripheral. Idempotent on an already deinitialized handle.
func (p *InitializedPin) Deinit() *Pin {
	if p.deinited {
		return p.pin
	}
	p.deinited = true
	p.pin.Release()
	return p.pin
}
