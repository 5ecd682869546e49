package wifi

import (
	"esphal-go/driver"
	"esphal-go/errcode"
)

// Mode is the running role of the adapter, derived from which configurations
// were staged at start.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeSta
	ModeAp
	ModeApSta
)

func (m Mode) String() string {
	switch m {
	case ModeSta:
		return "sta"
	case ModeAp:
		return "ap"
	case ModeApSta:
		return "ap+sta"
	default:
		return "none"
	}
}

// WiFi is the started adapter. Stop downgrades it back to Hardware for
// reconfiguration or shutdown; after that every radio operation on the old
// handle fails closed.
type WiFi struct {
	hw      *Hardware
	ap      *ApConfiguration
	sta     *StaConfiguration
	stopped bool
}

func (w *WiFi) guard(op string) error {
	if w.stopped {
		return errcode.Wrap(errcode.NotInitialized, op, nil)
	}
	return nil
}

func (w *WiFi) deriveMode() driver.Mode {
	switch {
	case w.ap != nil && w.sta != nil:
		return driver.ModeAPSTA
	case w.ap != nil:
		return driver.ModeAP
	case w.sta != nil:
		return driver.ModeSTA
	default:
		return driver.ModeNull
	}
}

// Mode reports the adapter's running role.
func (w *WiFi) Mode() Mode {
	switch {
	case w.ap != nil && w.sta != nil:
		return ModeApSta
	case w.ap != nil:
		return ModeAp
	case w.sta != nil:
		return ModeSta
	default:
		return ModeNone
	}
}

// Connect associates the station with its configured network. Only offered
// when a station configuration is running.
func (w *WiFi) Connect() error {
	if err := w.guard("wifi.connect"); err != nil {
		return err
	}
	if w.sta == nil {
		return errcode.Wrap(errcode.ConfigurationNotSet, "wifi.connect", nil)
	}
	return startError("wifi.connect", w.hw.drv.Connect())
}

// Disconnect drops the station association.
func (w *WiFi) Disconnect() error {
	if err := w.guard("wifi.disconnect"); err != nil {
		return err
	}
	if w.sta == nil {
		return errcode.Wrap(errcode.ConfigurationNotSet, "wifi.disconnect", nil)
	}
	if s := w.hw.drv.Disconnect(); !s.OK() {
		return errcode.Wrap(errcode.Driver, "wifi.disconnect", s)
	}
	return nil
}

// SetProtocol selects the 802.11 protocol set for one interface.
func (w *WiFi) SetProtocol(iface driver.Interface, protocols uint8) error {
	if err := w.guard("wifi.set_protocol"); err != nil {
		return err
	}
	if s := w.hw.drv.SetProtocol(iface, protocols); !s.OK() {
		return errcode.Wrap(errcode.Driver, "wifi.set_protocol", s)
	}
	return nil
}

// Stop halts both roles and downgrades to the initialized hardware. The
// vendor documents stop as unconditionally successful on a started radio.
// Idempotent on an already stopped handle.
func (w *WiFi) Stop() *Hardware {
	if w.stopped {
		return w.hw
	}
	driver.MustOK("wifi.stop", w.hw.drv.Stop())
	w.ap = nil
	w.sta = nil
	w.stopped = true
	w.hw.log.Debugw("wifi stopped")
	return w.hw
}
