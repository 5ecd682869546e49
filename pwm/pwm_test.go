package pwm

import (
	"errors"
	"testing"

	"esphal-go/driver"
	"esphal-go/driver/fake"
	"esphal-go/errcode"
	"esphal-go/gpio"
	"esphal-go/peripherals"
	"esphal-go/pinclaim"
)

type fixture struct {
	bank   *gpio.Bank
	tok    *peripherals.PWMToken
	drv    *fake.PWM
	claims *pinclaim.Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p, ok := peripherals.NewRegistry().Take()
	if !ok {
		t.Fatal("registry take failed")
	}
	bank, err := gpio.NewBank(p.GPIO)
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	return &fixture{bank: bank, tok: p.PWM, drv: fake.NewPWM(), claims: pinclaim.NewTracker()}
}

func TestTooManyChannels(t *testing.T) {
	f := newFixture(t)
	b := NewInitializer(f.tok).SetPeriod(1000)
	pins := []*gpio.Pin{
		f.bank.Gpio0, f.bank.Gpio1, f.bank.Gpio2, f.bank.Gpio3,
		f.bank.Gpio4, f.bank.Gpio5, f.bank.Gpio12, f.bank.Gpio13,
		f.bank.Gpio14, // ninth channel
	}
	for _, pin := range pins {
		b.AddChannel(pin, 100)
	}
	if _, err := b.Initialize(f.drv, f.claims); !errors.Is(err, errcode.TooManyChannels) {
		t.Fatalf("got %v, want too_many_channels", err)
	}
}

func TestTooShortPeriod(t *testing.T) {
	f := newFixture(t)
	b := NewInitializer(f.tok).SetPeriod(5).AddChannel(f.bank.Gpio4, 1)
	if _, err := b.Initialize(f.drv, f.claims); !errors.Is(err, errcode.TooShortPeriod) {
		t.Fatalf("got %v, want too_short_period", err)
	}
}

func TestPeriodNotSet(t *testing.T) {
	f := newFixture(t)
	b := NewInitializer(f.tok).AddChannel(f.bank.Gpio4, 100)
	if _, err := b.Initialize(f.drv, f.claims); !errors.Is(err, errcode.PeriodNotSet) {
		t.Fatalf("got %v, want period_not_set", err)
	}
}

func TestDutyExceedsPeriodAtInitialize(t *testing.T) {
	f := newFixture(t)
	b := NewInitializer(f.tok).SetPeriod(100).AddChannel(f.bank.Gpio4, 500)
	if _, err := b.Initialize(f.drv, f.claims); !errors.Is(err, errcode.DutyExceedsPeriod) {
		t.Fatalf("got %v, want duty_exceeds_period", err)
	}
	// Nothing was captured by the failed attempt.
	if _, held := f.claims.Holder(4); held {
		t.Fatal("pin 4 left captured")
	}
}

func TestNonPWMPinRejected(t *testing.T) {
	f := newFixture(t)
	b := NewInitializer(f.tok).SetPeriod(1000).AddChannel(f.bank.Gpio16, 10)
	if _, err := b.Initialize(f.drv, f.claims); !errors.Is(err, errcode.CapabilityMissing) {
		t.Fatalf("got %v, want capability_missing", err)
	}
}

func TestInitializeProgramsDriverAndCaptures(t *testing.T) {
	f := newFixture(t)
	unit, err := NewInitializer(f.tok).
		SetPeriod(1000).
		AddChannel(f.bank.Gpio4, 250).
		AddChannel(f.bank.Gpio5, 750).
		Initialize(f.drv, f.claims)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if f.drv.Period != 1000 || f.drv.Channels != 2 {
		t.Fatalf("driver table: period %d channels %d", f.drv.Period, f.drv.Channels)
	}
	if f.drv.Duties[0] != 250 || f.drv.Duties[1] != 750 {
		t.Fatalf("duties %v", f.drv.Duties)
	}
	if f.drv.Pins[0] != 4 || f.drv.Pins[1] != 5 {
		t.Fatalf("pins %v", f.drv.Pins)
	}
	for _, pin := range []gpio.PinID{4, 5} {
		if h, ok := f.claims.Holder(pin); !ok || h != Holder {
			t.Fatalf("pin %d holder %q, %v", pin, h, ok)
		}
	}
	if unit.cfg.ChannelCount() != 2 {
		t.Fatalf("channel count %d", unit.cfg.ChannelCount())
	}
}

func TestInitializeCaptureConflictUnwinds(t *testing.T) {
	f := newFixture(t)
	if err := f.claims.Capture(5, "uart0"); err != nil {
		t.Fatalf("seed capture: %v", err)
	}

	b := NewInitializer(f.tok).SetPeriod(1000).
		AddChannel(f.bank.Gpio4, 10).
		AddChannel(f.bank.Gpio5, 10)
	if _, err := b.Initialize(f.drv, f.claims); !errors.Is(err, errcode.PinInUse) {
		t.Fatalf("got %v, want pin_in_use", err)
	}
	if _, held := f.claims.Holder(4); held {
		t.Fatal("pin 4 left captured after unwind")
	}
	// Retry succeeds once the conflicting hold is gone; tokens survived the
	// failed attempt.
	f.claims.Release(5)
	if _, err := b.Initialize(f.drv, f.claims); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestInitializeDriverRejectionUnwinds(t *testing.T) {
	f := newFixture(t)
	f.drv.InitStatuses = append(f.drv.InitStatuses, driver.StatusNoMem)

	b := NewInitializer(f.tok).SetPeriod(1000).AddChannel(f.bank.Gpio4, 10)
	if _, err := b.Initialize(f.drv, f.claims); !errors.Is(err, errcode.Driver) {
		t.Fatalf("got %v, want driver_error", err)
	}
	if _, held := f.claims.Holder(4); held {
		t.Fatal("pin 4 left captured after driver rejection")
	}
	if _, err := b.Initialize(f.drv, f.claims); err != nil {
		t.Fatalf("retry after transient driver failure: %v", err)
	}
}

func newUnit(t *testing.T, f *fixture) *PWM {
	t.Helper()
	unit, err := NewInitializer(f.tok).
		SetPeriod(1000).
		AddChannel(f.bank.Gpio4, 250).
		AddChannel(f.bank.Gpio5, 750).
		Initialize(f.drv, f.claims)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return unit
}

func TestConfigureValidation(t *testing.T) {
	f := newFixture(t)
	unit := newUnit(t, f)

	err := unit.Configure(func(c *Configuration) error {
		if err := c.SetDuty(0, 500); err != nil {
			return err
		}
		return c.SetStopLevel(1, true)
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if f.drv.Duties[0] != 500 {
		t.Fatalf("duty not reprogrammed: %v", f.drv.Duties)
	}

	cases := []struct {
		name string
		fn   func(c *Configuration) error
		want errcode.Code
	}{
		{"duty exceeds period", func(c *Configuration) error { return c.SetDuty(0, 2000) }, errcode.DutyExceedsPeriod},
		{"invalid channel duty", func(c *Configuration) error { return c.SetDuty(5, 10) }, errcode.InvalidChannel},
		{"invalid channel stop level", func(c *Configuration) error { return c.SetStopLevel(7, true) }, errcode.InvalidChannel},
		{"invalid phase low", func(c *Configuration) error { return c.SetPhase(0, -181) }, errcode.InvalidPhase},
		{"invalid phase high", func(c *Configuration) error { return c.SetPhase(0, 181) }, errcode.InvalidPhase},
	}
	for _, tc := range cases {
		if err := unit.Configure(tc.fn); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %s", tc.name, err, tc.want)
		}
	}

	if err := unit.Configure(func(c *Configuration) error { return c.SetPhase(1, 90) }); err != nil {
		t.Fatalf("valid phase: %v", err)
	}
	if err := unit.Configure(func(c *Configuration) error { return c.SetInverted(1, true) }); err != nil {
		t.Fatalf("invert: %v", err)
	}
	if f.drv.InvertMask != 1<<1 {
		t.Fatalf("invert mask %#x", f.drv.InvertMask)
	}
}

func TestStartStopDeinitialize(t *testing.T) {
	f := newFixture(t)
	unit := newUnit(t, f)

	if err := unit.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !f.drv.Started || !unit.Running() {
		t.Fatal("unit not running after start")
	}

	if err := unit.Configure(func(c *Configuration) error { return c.SetStopLevel(0, true) }); err != nil {
		t.Fatalf("stop level: %v", err)
	}
	unit.Stop()
	if f.drv.Started {
		t.Fatal("driver still started after stop")
	}
	if f.drv.StopMask != 1 {
		t.Fatalf("stop mask %#x, want 0x1", f.drv.StopMask)
	}

	tok := unit.Deinitialize()
	if !f.drv.Deinited {
		t.Fatal("driver not deinitialized")
	}
	for _, pin := range []gpio.PinID{4, 5} {
		if _, held := f.claims.Holder(pin); held {
			t.Fatalf("pin %d still captured after deinitialize", pin)
		}
	}
	// Pads and the unit token are reusable again.
	if err := f.bank.Gpio4.Consume(); err != nil {
		t.Fatalf("pin 4 not released: %v", err)
	}
	f.bank.Gpio4.Release()
	if err := tok.Consume(); err != nil {
		t.Fatalf("unit token not released: %v", err)
	}
}

func TestDeinitializedUnitFailsClosed(t *testing.T) {
	f := newFixture(t)
	unit := newUnit(t, f)

	tok := unit.Deinitialize()
	if err := unit.Start(); !errors.Is(err, errcode.NotInitialized) {
		t.Fatalf("start after deinitialize: got %v, want not_initialized", err)
	}
	if f.drv.Started {
		t.Fatal("deinitialized handle reached the driver")
	}
	err := unit.Configure(func(c *Configuration) error { return c.SetDuty(0, 100) })
	if !errors.Is(err, errcode.NotInitialized) {
		t.Fatalf("configure after deinitialize: got %v, want not_initialized", err)
	}
	unit.Stop() // no-op, must not panic on a torn-down driver
	// A second deinitialize is a no-op that still yields the token.
	if unit.Deinitialize() != tok {
		t.Fatal("repeated deinitialize returned a different token")
	}
}

func TestStartFailureKeepsConfiguredState(t *testing.T) {
	f := newFixture(t)
	unit := newUnit(t, f)
	f.drv.StartStatuses = append(f.drv.StartStatuses, driver.StatusNoMem)

	if err := unit.Start(); !errors.Is(err, errcode.NoMemory) {
		t.Fatalf("got %v, want no_memory", err)
	}
	if unit.Running() {
		t.Fatal("unit claims to run after failed start")
	}
	// Retry works.
	if err := unit.Start(); err != nil {
		t.Fatalf("retry start: %v", err)
	}
}
