// Package peripherals hands out the top-level peripheral tokens exactly once
// per registry. A token represents exclusive, transferable ownership of one
// hardware unit; subsystem constructors consume it, and downgrade/stop
// transitions hand it back.
//
// The registry is an explicit object threaded through to whatever needs it.
// Take is intended for single-threaded startup; it is not safe under
// concurrent first calls and does not pretend to be.
package peripherals

import "esphal-go/errcode"

// token is the shared consume-once guard. Go has no move semantics, so the
// "moved, cannot be reused" contract of the tokens is enforced as a runtime
// check that fails closed.
type token struct {
	spent bool
}

func (t *token) consume(op string) error {
	if t == nil || t.spent {
		return errcode.Wrap(errcode.PeripheralConsumed, op, nil)
	}
	t.spent = true
	return nil
}

func (t *token) release() {
	if t != nil {
		t.spent = false
	}
}

// WiFiToken owns the WiFi adapter.
type WiFiToken struct{ token }

// Consume marks the token spent; used by wifi.NewHardware.
func (t *WiFiToken) Consume() error { return t.consume("peripherals.wifi") }

// Release makes the token usable again; used by the owning subsystem's
// downgrade transition when it returns the token.
func (t *WiFiToken) Release() { t.release() }

// GPIOBankToken owns the GPIO bank as a whole.
type GPIOBankToken struct{ token }

func (t *GPIOBankToken) Consume() error { return t.consume("peripherals.gpio") }
func (t *GPIOBankToken) Release()       { t.release() }

// UARTBankToken owns both UART ports.
type UARTBankToken struct{ token }

func (t *UARTBankToken) Consume() error { return t.consume("peripherals.uart") }
func (t *UARTBankToken) Release()       { t.release() }

// PWMToken owns the soft-PWM unit.
type PWMToken struct{ token }

func (t *PWMToken) Consume() error { return t.consume("peripherals.pwm") }
func (t *PWMToken) Release()       { t.release() }

// NVSToken owns the flash-backed store.
type NVSToken struct{ token }

func (t *NVSToken) Consume() error { return t.consume("peripherals.nvs") }
func (t *NVSToken) Release()       { t.release() }

// Peripherals is the full set of top-level tokens.
type Peripherals struct {
	WiFi *WiFiToken
	GPIO *GPIOBankToken
	UART *UARTBankToken
	PWM  *PWMToken
	NVS  *NVSToken
}

// Registry distributes the peripheral set once for its lifetime. There is no
// way to return tokens to the registry; finer-grained sharing happens at the
// pinclaim tracker.
type Registry struct {
	set *Peripherals
}

// NewRegistry builds a registry holding a fresh peripheral set. Construct it
// once at process start and pass it down explicitly.
func NewRegistry() *Registry {
	return &Registry{set: &Peripherals{
		WiFi: &WiFiToken{},
		GPIO: &GPIOBankToken{},
		UART: &UARTBankToken{},
		PWM:  &PWMToken{},
		NVS:  &NVSToken{},
	}}
}

// Take returns the full peripheral set on the first call and (nil, false)
// on every later call.
func (r *Registry) Take() (*Peripherals, bool) {
	if r.set == nil {
		return nil, false
	}
	p := r.set
	r.set = nil
	return p, true
}
