// Package wifi drives the radio through its lifecycle: hardware token →
// initialized configurator → started adapter, and back down. AP and STA
// parameter drafts validate incrementally; the adapter's mode is derived from
// which committed configurations are present at start.
package wifi

import (
	"esphal-go/driver"
	"esphal-go/errcode"
	"esphal-go/x/mathx"
)

// AuthMode selects the authentication scheme of a network.
type AuthMode uint8

const (
	AuthOpenNetwork AuthMode = iota
	AuthWep
	AuthWpaPsk
	AuthWpa2Psk
	AuthWpaWpa2Psk
	AuthWpa2Enterprise
)

func (a AuthMode) toRaw() driver.AuthMode {
	switch a {
	case AuthWep:
		return driver.AuthWEP
	case AuthWpaPsk:
		return driver.AuthWPAPSK
	case AuthWpa2Psk:
		return driver.AuthWPA2PSK
	case AuthWpaWpa2Psk:
		return driver.AuthWPAWPA2PSK
	case AuthWpa2Enterprise:
		return driver.AuthWPA2Enterprise
	default:
		return driver.AuthOpen
	}
}

// ApConfiguration is a committed access-point parameter set, produced by
// ApConfigurationBuilder and consumed by one start transition.
type ApConfiguration struct {
	raw driver.APConfig
}

// ApConfigurationBuilder accumulates the access-point draft. The first
// invalid call poisons the draft; chaining continues and the error surfaces
// at Build.
type ApConfigurationBuilder struct {
	ssid        [32]byte
	ssidLen     uint8
	ssidSet     bool
	password    [64]byte
	passwordSet bool
	channel     uint8
	authMode    AuthMode
	authSet     bool
	hidden      bool
	maxConn     uint8
	beacon      uint16
	pending     error
}

// NewApConfigurationBuilder starts an AP draft with channel 1, up to 4
// stations and a 100 ms beacon.
func NewApConfigurationBuilder() *ApConfigurationBuilder {
	return &ApConfigurationBuilder{channel: 1, maxConn: 4, beacon: 100}
}

func (b *ApConfigurationBuilder) poison(code errcode.Code, op string) *ApConfigurationBuilder {
	if b.pending == nil {
		b.pending = errcode.Wrap(code, op, nil)
	}
	return b
}

// SetSsid names the network. At most 32 bytes, not characters.
func (b *ApConfigurationBuilder) SetSsid(ssid string) *ApConfigurationBuilder {
	if len(ssid) > 32 {
		return b.poison(errcode.TooLongSsid, "wifi.ap.set_ssid")
	}
	copy(b.ssid[:], ssid)
	b.ssidLen = uint8(len(ssid))
	b.ssidSet = true
	return b
}

// SetPassword sets the network key. At most 63 bytes, the frame carries a
// mandatory terminator byte.
func (b *ApConfigurationBuilder) SetPassword(password string) *ApConfigurationBuilder {
	if len(password)+1 > 64 {
		return b.poison(errcode.TooLongPassword, "wifi.ap.set_password")
	}
	copy(b.password[:], password)
	b.passwordSet = true
	return b
}

// SetAuthMode selects the authentication scheme. WEP is not available for
// the access-point role.
func (b *ApConfigurationBuilder) SetAuthMode(mode AuthMode) *ApConfigurationBuilder {
	if mode == AuthWep {
		return b.poison(errcode.AuthModeNotSupported, "wifi.ap.set_auth_mode")
	}
	if mode > AuthWpa2Enterprise {
		return b.poison(errcode.AuthModeNotSupported, "wifi.ap.set_auth_mode")
	}
	b.authMode = mode
	b.authSet = true
	return b
}

// SetChannel pins the radio channel, 1 to 14.
func (b *ApConfigurationBuilder) SetChannel(channel uint8) *ApConfigurationBuilder {
	if channel == 0 || channel > 14 {
		return b.poison(errcode.InvalidWiFiChannel, "wifi.ap.set_channel")
	}
	b.channel = channel
	return b
}

// SetHidden suppresses SSID broadcast.
func (b *ApConfigurationBuilder) SetHidden(hidden bool) *ApConfigurationBuilder {
	b.hidden = hidden
	return b
}

// SetMaxConnections bounds the station count, 1 to 4.
func (b *ApConfigurationBuilder) SetMaxConnections(n uint8) *ApConfigurationBuilder {
	if !mathx.Between(n, 1, 4) {
		return b.poison(errcode.InvalidMaxConnections, "wifi.ap.set_max_connections")
	}
	b.maxConn = n
	return b
}

// SetBeaconInterval sets the beacon period in milliseconds, 100 to 60000.
func (b *ApConfigurationBuilder) SetBeaconInterval(ms uint16) *ApConfigurationBuilder {
	if !mathx.Between(ms, 100, 60000) {
		return b.poison(errcode.InvalidBeaconInterval, "wifi.ap.set_beacon_interval")
	}
	b.beacon = ms
	return b
}

// Err exposes the pending draft error, if any.
func (b *ApConfigurationBuilder) Err() error { return b.pending }

// Build surfaces the pending error, runs the cross-field checks and snapshots
// the committed configuration.
func (b *ApConfigurationBuilder) Build() (*ApConfiguration, error) {
	if b.pending != nil {
		return nil, b.pending
	}
	if !b.ssidSet && !b.hidden {
		return nil, errcode.Wrap(errcode.SsidNotSet, "wifi.ap.build", nil)
	}
	if !b.authSet {
		return nil, errcode.Wrap(errcode.AuthModeNotSet, "wifi.ap.build", nil)
	}
	if !b.passwordSet && b.authMode != AuthOpenNetwork {
		return nil, errcode.Wrap(errcode.PasswordNotSet, "wifi.ap.build", nil)
	}
	return &ApConfiguration{raw: driver.APConfig{
		SSID:           b.ssid,
		Password:       b.password,
		SSIDLen:        b.ssidLen,
		Channel:        b.channel,
		AuthMode:       b.authMode.toRaw(),
		Hidden:         b.hidden,
		MaxConnections: b.maxConn,
		BeaconInterval: b.beacon,
	}}, nil
}
