package wifi

import (
	"github.com/edaniels/golog"
	"go.uber.org/zap"

	"esphal-go/driver"
	"esphal-go/errcode"
	"esphal-go/peripherals"
)

// Hardware is the lowest rung of the radio lifecycle: it owns the peripheral
// token and nothing else. Initialize brings the driver up and yields the
// configurator; Deinitialize hands the token back.
type Hardware struct {
	tok         *peripherals.WiFiToken
	drv         driver.WiFi
	log         golog.Logger
	initialized bool
}

// NewHardware consumes the radio token.
func NewHardware(tok *peripherals.WiFiToken, drv driver.WiFi, logger golog.Logger) (*Hardware, error) {
	if err := tok.Consume(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Hardware{tok: tok, drv: drv, log: logger}, nil
}

// Initialize brings the driver up with its defaults. On failure the hardware
// stays usable, so the caller may retry or deinitialize to reclaim the token.
func (h *Hardware) Initialize() (*Configurator, error) {
	if h.initialized {
		return nil, errcode.Wrap(errcode.AlreadyInitialized, "wifi.initialize", nil)
	}
	if s := h.drv.Init(); !s.OK() {
		return nil, errcode.Wrap(errcode.Driver, "wifi.initialize", s)
	}
	h.initialized = true
	h.log.Debugw("wifi initialized")
	return &Configurator{adapter: &WiFi{hw: h}}, nil
}

// Configurator returns a fresh configurator for an initialized radio; this
// is the reconfiguration path after a stop.
func (h *Hardware) Configurator() (*Configurator, error) {
	if !h.initialized {
		return nil, errcode.Wrap(errcode.NotInitialized, "wifi.configurator", nil)
	}
	return &Configurator{adapter: &WiFi{hw: h}}, nil
}

// Deinitialize tears the driver down and returns the token. The vendor
// documents deinit as unconditionally successful on an initialized radio.
func (h *Hardware) Deinitialize() *peripherals.WiFiToken {
	if h.initialized {
		driver.MustOK("wifi.deinitialize", h.drv.Deinit())
		h.initialized = false
	}
	h.tok.Release()
	return h.tok
}
