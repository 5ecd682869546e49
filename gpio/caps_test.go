package gpio

import "testing"

func TestCapsTable(t *testing.T) {
	for _, id := range Pins() {
		caps := CapsOf(id)
		if !caps.Input() || !caps.Output() {
			t.Errorf("pin %d: every pad supports basic IO, got %016b", id, caps)
		}
		if id == 16 {
			if !caps.PullDown() {
				t.Errorf("pin 16: pull-down missing")
			}
			if caps.PullUp() || caps.OpenDrain() || caps.Interrupt() || caps.PWM() {
				t.Errorf("pin 16: unexpected capabilities %016b", caps)
			}
			continue
		}
		if caps.PullDown() {
			t.Errorf("pin %d: pull-down supported, want pin 16 only", id)
		}
		if !caps.PullUp() || !caps.OpenDrain() || !caps.Interrupt() || !caps.PWM() {
			t.Errorf("pin %d: missing standard capabilities %016b", id, caps)
		}
	}
}

func TestCapsOfUnknownFailsClosed(t *testing.T) {
	for _, id := range []PinID{6, 7, 8, 9, 10, 11, 17, 200} {
		if caps := CapsOf(id); caps != 0 {
			t.Errorf("pin %d: got %016b, want empty set", id, caps)
		}
	}
}

func TestCapsOfNC(t *testing.T) {
	caps := CapsOf(NC)
	for _, want := range []CapabilitySet{CapInput, CapOutput, CapOpenDrain, CapPullUp, CapPullDown, CapInterrupt, CapPWM} {
		if !caps.Has(want) {
			t.Fatalf("NC missing capability %b; gating must never reject the placeholder", want)
		}
	}
}

func TestPinsOrdered(t *testing.T) {
	ids := Pins()
	if len(ids) != 11 {
		t.Fatalf("got %d pads, want 11", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("pads not ascending: %v", ids)
		}
	}
}

func TestMask(t *testing.T) {
	if got := PinID(4).Mask(); got != 1<<4 {
		t.Fatalf("mask of pin 4: got %#x", got)
	}
}
