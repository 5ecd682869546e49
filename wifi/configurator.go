package wifi

import (
	"esphal-go/driver"
	"esphal-go/errcode"
)

// Configurator stages committed AP and STA configurations against an
// initialized radio. Start derives the mode from which configurations are
// present and commits everything to the driver. A successful Start (or
// ReleaseHardware) consumes the configurator; a fresh one comes from
// Hardware.Configurator.
type Configurator struct {
	adapter *WiFi
	spent   bool
}

// SetApConfig stages the access-point configuration.
func (c *Configurator) SetApConfig(cfg *ApConfiguration) *Configurator {
	c.adapter.ap = cfg
	return c
}

// SetStaConfig stages the station configuration.
func (c *Configurator) SetStaConfig(cfg *StaConfiguration) *Configurator {
	c.adapter.sta = cfg
	return c
}

// ReleaseHardware abandons the staged configurations and returns the
// initialized hardware, typically on the way to a graceful shutdown. It
// consumes the configurator; on an already consumed one it returns nil.
func (c *Configurator) ReleaseHardware() *Hardware {
	if c.spent {
		return nil
	}
	c.spent = true
	return c.adapter.hw
}

// Start selects the mode implied by the staged configurations, commits them
// and starts the radio. With neither configuration staged there is nothing to
// run, which is configuration_not_set. Failure leaves the configurator
// intact; the caller may restage and retry.
func (c *Configurator) Start() (*WiFi, error) {
	if c.spent {
		return nil, errcode.Wrap(errcode.AlreadyInitialized, "wifi.start", nil)
	}
	a := c.adapter
	if a.ap == nil && a.sta == nil {
		return nil, errcode.Wrap(errcode.ConfigurationNotSet, "wifi.start", nil)
	}

	if s := a.hw.drv.SetMode(a.deriveMode()); !s.OK() {
		return nil, errcode.Wrap(errcode.Driver, "wifi.set_mode", s)
	}
	if a.ap != nil {
		if s := a.hw.drv.SetAPConfig(a.ap.raw); !s.OK() {
			return nil, configCommitError("wifi.set_ap_config", s)
		}
	}
	if a.sta != nil {
		if s := a.hw.drv.SetSTAConfig(a.sta.raw); !s.OK() {
			return nil, configCommitError("wifi.set_sta_config", s)
		}
	}
	if err := startError("wifi.start", a.hw.drv.Start()); err != nil {
		return nil, err
	}
	c.spent = true

	a.hw.log.Debugw("wifi started", "mode", a.deriveMode())
	return a, nil
}

// configCommitError maps config-commit statuses onto the domain taxonomy.
func configCommitError(op string, s driver.Status) error {
	switch s {
	case driver.StatusWiFiPassword:
		return errcode.Wrap(errcode.InvalidPassword, op, s)
	case driver.StatusWiFiNVS:
		return errcode.Wrap(errcode.InternalStoreError, op, s)
	default:
		return errcode.Wrap(errcode.Driver, op, s)
	}
}

// startError maps start/connect statuses onto the domain taxonomy.
func startError(op string, s driver.Status) error {
	switch s {
	case driver.StatusOK:
		return nil
	case driver.StatusNoMem:
		return errcode.Wrap(errcode.NoMemory, op, s)
	case driver.StatusInvalidArg:
		return errcode.Wrap(errcode.InvalidArgument, op, s)
	case driver.StatusWiFiConn:
		return errcode.Wrap(errcode.ConnectionFailed, op, s)
	default:
		return errcode.Wrap(errcode.Driver, op, s)
	}
}
