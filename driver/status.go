// Package driver declares the vendor driver entry points the HAL calls into
// during state transitions, and the raw status codes they report. The HAL
// never interprets hardware registers itself; everything below this surface
// belongs to the platform port (see the build-tagged backends and
// driver/fake).
package driver

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status is the raw result of a vendor driver call (esp_err_t shaped).
type Status int32

const (
	StatusOK   Status = 0
	StatusFail Status = -1

	StatusNoMem        Status = 0x101
	StatusInvalidArg   Status = 0x102
	StatusInvalidState Status = 0x103
	StatusNotFound     Status = 0x105
	StatusTimeout      Status = 0x107

	// Flash-backed store
	statusNVSBase            Status = 0x1100
	StatusNVSNotFound        Status = statusNVSBase + 0x02
	StatusNVSNoFreePages     Status = statusNVSBase + 0x0d
	StatusNVSNewVersionFound Status = statusNVSBase + 0x10

	// WiFi
	statusWiFiBase      Status = 0x3000
	StatusWiFiNotInit   Status = statusWiFiBase + 0x01
	StatusWiFiIf        Status = statusWiFiBase + 0x04
	StatusWiFiMode      Status = statusWiFiBase + 0x05
	StatusWiFiConn      Status = statusWiFiBase + 0x07
	StatusWiFiSSID      Status = statusWiFiBase + 0x0a
	StatusWiFiPassword  Status = statusWiFiBase + 0x0b
	StatusWiFiNVS       Status = statusWiFiBase + 0x10
)

// OK reports a successful call.
func (s Status) OK() bool { return s == StatusOK }

// Status doubles as the opaque cause inside wrapped HAL errors.
func (s Status) Error() string { return s.String() }

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return fmt.Sprintf("driver status 0x%x", int32(s))
}

// MustOK asserts a call the vendor documents as unconditionally successful
// (stop/deinit class). A failure here is a collaborator contract breach, not
// a caller error, and aborts.
func MustOK(op string, s Status) {
	if !s.OK() {
		panic(errors.Wrap(s, op))
	}
}
