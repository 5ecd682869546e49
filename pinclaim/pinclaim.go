// Package pinclaim tracks which logical peripheral currently holds a shared
// pad. It is the protocol by which a UART port or the PWM unit borrows GPIO
// lines that nominally belong to the GPIO bank.
package pinclaim

import (
	"esphal-go/errcode"
	"esphal-go/gpio"
)

// Tracker maps shared pads to their current holder. At most one holder per
// pad at any time. Construct one tracker at startup and thread it through to
// the peripherals that capture pins.
type Tracker struct {
	holders map[gpio.PinID]string
}

func NewTracker() *Tracker {
	return &Tracker{holders: make(map[gpio.PinID]string)}
}

// Capture records holder as the owner of pin. It fails with pin_in_use when
// any record exists. The NC placeholder always succeeds and never produces a
// visible holder.
func (t *Tracker) Capture(pin gpio.PinID, holder string) error {
	if pin == gpio.NC {
		return nil
	}
	if h, ok := t.holders[pin]; ok {
		return &errcode.E{C: errcode.PinInUse, Op: "pinclaim.capture", Msg: "held by " + h}
	}
	t.holders[pin] = holder
	return nil
}

// Release clears the record for pin. Idempotent; the releaser is not checked
// against the current holder.
func (t *Tracker) Release(pin gpio.PinID) {
	delete(t.holders, pin)
}

// Holder reports the current holder of pin, if any.
func (t *Tracker) Holder(pin gpio.PinID) (string, bool) {
	h, ok := t.holders[pin]
	return h, ok
}

// CaptureAll captures every pin for holder, or captures none: on the first
// conflict it releases the pins taken during this call and returns the
// conflict.
func (t *Tracker) CaptureAll(pins []gpio.PinID, holder string) error {
	for i, pin := range pins {
		if err := t.Capture(pin, holder); err != nil {
			for _, p := range pins[:i] {
				t.Release(p)
			}
			return err
		}
	}
	return nil
}

// ReleaseAll releases every pin. Idempotent like Release.
func (t *Tracker) ReleaseAll(pins []gpio.PinID) {
	for _, pin := range pins {
		t.Release(pin)
	}
}
