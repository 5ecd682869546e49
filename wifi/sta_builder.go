package wifi

import (
	"esphal-go/driver"
	"esphal-go/errcode"
)

// ScanMethod selects how the station hunts for its target network: stop at
// the first match, or sweep every channel and pick the best candidate.
type ScanMethod uint8

const (
	ScanFast ScanMethod = iota
	ScanAllChannel
)

func (m ScanMethod) toRaw() driver.ScanMethod {
	return driver.ScanMethod(m)
}

// SortMethod orders candidate access points when an all-channel scan finds
// several matches.
type SortMethod uint8

const (
	SortBySignal SortMethod = iota
	SortBySecurity
)

func (m SortMethod) toRaw() driver.SortMethod {
	return driver.SortMethod(m)
}

// StaConfiguration is a committed station parameter set, produced by
// StaConfigurationBuilder and consumed by one start transition.
type StaConfiguration struct {
	raw driver.STAConfig
}

// StaConfigurationBuilder accumulates the station draft, poisoned on the
// first invalid call like the AP builder.
type StaConfigurationBuilder struct {
	ssid        [32]byte
	ssidSet     bool
	password    [64]byte
	passwordSet bool
	bssid       [6]byte
	bssidSet    bool
	channel     uint8
	listen      uint16
	scan        ScanMethod
	sort        SortMethod
	threshold   AuthMode
	pending     error
}

// NewStaConfigurationBuilder starts a station draft targeting any channel
// with an open-network auth threshold.
func NewStaConfigurationBuilder() *StaConfigurationBuilder {
	return &StaConfigurationBuilder{}
}

func (b *StaConfigurationBuilder) poison(code errcode.Code, op string) *StaConfigurationBuilder {
	if b.pending == nil {
		b.pending = errcode.Wrap(code, op, nil)
	}
	return b
}

// SetSsid names the target network. At most 32 bytes.
func (b *StaConfigurationBuilder) SetSsid(ssid string) *StaConfigurationBuilder {
	if len(ssid) > 32 {
		return b.poison(errcode.TooLongSsid, "wifi.sta.set_ssid")
	}
	copy(b.ssid[:], ssid)
	b.ssidSet = true
	return b
}

// SetPassword sets the network key. At most 63 bytes plus the terminator.
func (b *StaConfigurationBuilder) SetPassword(password string) *StaConfigurationBuilder {
	if len(password)+1 > 64 {
		return b.poison(errcode.TooLongPassword, "wifi.sta.set_password")
	}
	copy(b.password[:], password)
	b.passwordSet = true
	return b
}

// SetBssid pins the exact access point to associate with.
func (b *StaConfigurationBuilder) SetBssid(bssid [6]byte) *StaConfigurationBuilder {
	b.bssid = bssid
	b.bssidSet = true
	return b
}

// SetChannel pins the scan channel, 1 to 14.
func (b *StaConfigurationBuilder) SetChannel(channel uint8) *StaConfigurationBuilder {
	if channel == 0 || channel > 14 {
		return b.poison(errcode.InvalidWiFiChannel, "wifi.sta.set_channel")
	}
	b.channel = channel
	return b
}

// SetListenInterval sets the DTIM listen interval in beacon periods; it must
// be positive.
func (b *StaConfigurationBuilder) SetListenInterval(interval uint16) *StaConfigurationBuilder {
	if interval == 0 {
		return b.poison(errcode.InvalidListenInterval, "wifi.sta.set_listen_interval")
	}
	b.listen = interval
	return b
}

// SetScanMethod selects the scan strategy. Passed through to the driver
// unchanged.
func (b *StaConfigurationBuilder) SetScanMethod(method ScanMethod) *StaConfigurationBuilder {
	if method > ScanAllChannel {
		return b.poison(errcode.InvalidScanMethod, "wifi.sta.set_scan_method")
	}
	b.scan = method
	return b
}

// SetSortMethod selects how all-channel scan candidates are ranked. Passed
// through to the driver unchanged.
func (b *StaConfigurationBuilder) SetSortMethod(method SortMethod) *StaConfigurationBuilder {
	if method > SortBySecurity {
		return b.poison(errcode.InvalidSortMethod, "wifi.sta.set_sort_method")
	}
	b.sort = method
	return b
}

// SetAuthThreshold sets the weakest auth mode the station accepts from the
// target network.
func (b *StaConfigurationBuilder) SetAuthThreshold(mode AuthMode) *StaConfigurationBuilder {
	if mode > AuthWpa2Enterprise {
		return b.poison(errcode.AuthModeNotSupported, "wifi.sta.set_auth_threshold")
	}
	b.threshold = mode
	return b
}

// Err exposes the pending draft error, if any.
func (b *StaConfigurationBuilder) Err() error { return b.pending }

// Build surfaces the pending error, then requires a target (SSID or BSSID)
// and a password whenever the auth threshold is not open.
func (b *StaConfigurationBuilder) Build() (*StaConfiguration, error) {
	if b.pending != nil {
		return nil, b.pending
	}
	if !b.ssidSet && !b.bssidSet {
		return nil, errcode.Wrap(errcode.SsidNotSet, "wifi.sta.build", nil)
	}
	if !b.passwordSet && b.threshold != AuthOpenNetwork {
		return nil, errcode.Wrap(errcode.PasswordNotSet, "wifi.sta.build", nil)
	}
	cfg := driver.STAConfig{
		SSID:           b.ssid,
		Password:       b.password,
		BSSIDSet:       b.bssidSet,
		BSSID:          b.bssid,
		Channel:        b.channel,
		ListenInterval: b.listen,
		ScanMethod:     b.scan.toRaw(),
		SortMethod:     b.sort.toRaw(),
	}
	cfg.Threshold.AuthMode = b.threshold.toRaw()
	return &StaConfiguration{raw: cfg}, nil
}
