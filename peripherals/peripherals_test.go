package peripherals

import "testing"

func TestTakeOnce(t *testing.T) {
	r := NewRegistry()

	p, ok := r.Take()
	if !ok || p == nil {
		t.Fatalf("first Take: got %v, %v; want full set", p, ok)
	}
	if p.WiFi == nil || p.GPIO == nil || p.UART == nil || p.PWM == nil || p.NVS == nil {
		t.Fatalf("first Take returned an incomplete set: %+v", p)
	}

	for i := 0; i < 3; i++ {
		if p2, ok := r.Take(); ok || p2 != nil {
			t.Fatalf("Take #%d: got %v, %v; want nil, false", i+2, p2, ok)
		}
	}
}

func TestTokenConsumeOnce(t *testing.T) {
	p, _ := NewRegistry().Take()

	if err := p.WiFi.Consume(); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := p.WiFi.Consume(); err == nil {
		t.Fatal("second consume succeeded; want peripheral_consumed")
	}

	p.WiFi.Release()
	if err := p.WiFi.Consume(); err != nil {
		t.Fatalf("consume after release: %v", err)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	if _, ok := a.Take(); !ok {
		t.Fatal("registry a: first take failed")
	}
	if _, ok := b.Take(); !ok {
		t.Fatal("registry b: first take failed")
	}
}
