package pinclaim

import (
	"errors"
	"testing"

	"esphal-go/errcode"
	"esphal-go/gpio"
)

func TestCaptureConflict(t *testing.T) {
	tr := NewTracker()

	if err := tr.Capture(13, "uart0"); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if err := tr.Capture(13, "pwm"); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("second capture: got %v, want pin_in_use", err)
	}
	// Recapture by the same holder is a conflict too: a record exists.
	if err := tr.Capture(13, "uart0"); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("recapture by holder: got %v, want pin_in_use", err)
	}

	if h, ok := tr.Holder(13); !ok || h != "uart0" {
		t.Fatalf("holder: %q, %v", h, ok)
	}
}

func TestReleaseThenRecapture(t *testing.T) {
	tr := NewTracker()

	if err := tr.Capture(4, "pwm"); err != nil {
		t.Fatalf("capture: %v", err)
	}
	tr.Release(4)
	if _, ok := tr.Holder(4); ok {
		t.Fatal("holder remains after release")
	}
	if err := tr.Capture(4, "uart0"); err != nil {
		t.Fatalf("recapture after release: %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	tr := NewTracker()
	tr.Release(7) // free pad, no-op
	tr.Release(7)
}

func TestNCNeverHeld(t *testing.T) {
	tr := NewTracker()
	if err := tr.Capture(gpio.NC, "uart0"); err != nil {
		t.Fatalf("NC capture: %v", err)
	}
	if err := tr.Capture(gpio.NC, "uart1"); err != nil {
		t.Fatalf("NC capture again: %v", err)
	}
	if _, ok := tr.Holder(gpio.NC); ok {
		t.Fatal("NC must never show a holder")
	}
}

func TestCaptureAllUnwindsOnConflict(t *testing.T) {
	tr := NewTracker()
	if err := tr.Capture(14, "pwm"); err != nil {
		t.Fatalf("seed capture: %v", err)
	}

	err := tr.CaptureAll([]gpio.PinID{1, 3, 14, 15}, "uart0")
	if !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("got %v, want pin_in_use", err)
	}
	// Nothing from the failed attempt is left outstanding.
	for _, pin := range []gpio.PinID{1, 3, 15} {
		if h, ok := tr.Holder(pin); ok {
			t.Fatalf("pin %d still held by %q after unwind", pin, h)
		}
	}
	// The pre-existing capture survives.
	if h, _ := tr.Holder(14); h != "pwm" {
		t.Fatalf("pin 14 holder %q, want pwm", h)
	}
}
