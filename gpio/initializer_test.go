package gpio

import (
	"errors"
	"testing"

	"esphal-go/driver"
	"esphal-go/driver/fake"
	"esphal-go/errcode"
	"esphal-go/peripherals"
)

func testBank(t *testing.T) *Bank {
	t.Helper()
	p, ok := peripherals.NewRegistry().Take()
	if !ok {
		t.Fatal("registry take failed")
	}
	bank, err := NewBank(p.GPIO)
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	return bank
}

func TestBankTokenConsumedOnce(t *testing.T) {
	p, _ := peripherals.NewRegistry().Take()
	if _, err := NewBank(p.GPIO); err != nil {
		t.Fatalf("first NewBank: %v", err)
	}
	if _, err := NewBank(p.GPIO); !errors.Is(err, errcode.PeripheralConsumed) {
		t.Fatalf("second NewBank: got %v, want peripheral_consumed", err)
	}
}

func TestInitCommitsWholeConfig(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()

	pin, err := NewPinInitializer(bank.Gpio4).
		ConfigureAsOutput().
		EnablePullUp().
		SetInterruptMode(IntrNegativeEdge).
		Init(drv)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(drv.Committed) != 1 {
		t.Fatalf("got %d commits, want 1", len(drv.Committed))
	}
	cfg := drv.Committed[0]
	if cfg.PinMask != 1<<4 || cfg.Mode != driver.PinModeOutput || !cfg.PullUp || cfg.PullDown {
		t.Fatalf("committed config %+v", cfg)
	}
	if cfg.Interrupt != driver.IntrNegEdge {
		t.Fatalf("interrupt type %v", cfg.Interrupt)
	}
	if pin.ID() != 4 {
		t.Fatalf("pin id %d", pin.ID())
	}
}

func TestPullDownGating(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()

	// The one pad with pull-down capability accepts it.
	if _, err := NewPinInitializer(bank.Gpio16).ConfigureAsInput().EnablePullDown().Init(drv); err != nil {
		t.Fatalf("gpio16 pull-down: %v", err)
	}

	// Every other pad rejects it, and the rejection is remembered at Init.
	for _, tok := range []*Pin{bank.Gpio0, bank.Gpio5, bank.Gpio15} {
		_, err := NewPinInitializer(tok).ConfigureAsInput().EnablePullDown().Init(drv)
		if !errors.Is(err, errcode.CapabilityMissing) {
			t.Fatalf("gpio%d pull-down: got %v, want capability_missing", tok.ID(), err)
		}
	}
}

func TestPoisonedDraftKeepsFirstError(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()

	// Pull-down on gpio0 poisons the draft; the later valid pull-up call
	// chains fine but cannot clear it.
	b := NewPinInitializer(bank.Gpio0).EnablePullDown().EnablePullUp().ConfigureAsInput()
	if _, err := b.Init(drv); !errors.Is(err, errcode.CapabilityMissing) {
		t.Fatalf("got %v, want capability_missing", err)
	}
	if len(drv.Committed) != 0 {
		t.Fatal("poisoned draft must not reach the driver")
	}
	// The token was not consumed by the failed draft.
	if _, err := NewPinInitializer(bank.Gpio0).ConfigureAsInput().Init(drv); err != nil {
		t.Fatalf("retry with fresh draft: %v", err)
	}
}

func TestInitConsumesToken(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()

	if _, err := NewPinInitializer(bank.Gpio2).ConfigureAsOutput().Init(drv); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := NewPinInitializer(bank.Gpio2).ConfigureAsOutput().Init(drv); !errors.Is(err, errcode.PinConsumed) {
		t.Fatalf("second init: got %v, want pin_consumed", err)
	}
}

func TestInitDriverRejectionReleasesToken(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()
	drv.CommitStatuses = append(drv.CommitStatuses, driver.StatusInvalidArg)

	_, err := NewPinInitializer(bank.Gpio3).ConfigureAsInput().Init(drv)
	if !errors.Is(err, errcode.Driver) {
		t.Fatalf("got %v, want driver_error", err)
	}
	// Retry succeeds once the driver cooperates.
	if _, err := NewPinInitializer(bank.Gpio3).ConfigureAsInput().Init(drv); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestNCPinNoOps(t *testing.T) {
	drv := fake.NewPin()

	pin, err := NewPinInitializer(NCPin()).
		ConfigureAsOutput().
		EnablePullUp().
		EnablePullDown().
		SetInterruptMode(IntrAnyEdge).
		Init(drv)
	if err != nil {
		t.Fatalf("NC init: %v", err)
	}
	if len(drv.Committed) != 0 {
		t.Fatal("NC must never reach the driver")
	}
	if err := pin.SetLevel(true); err != nil {
		t.Fatalf("NC set level: %v", err)
	}
	lvl, err := pin.Level()
	if err != nil || lvl {
		t.Fatalf("NC level: %v, %v", lvl, err)
	}
	// NC tokens are reusable indefinitely.
	if _, err := NewPinInitializer(NCPin()).ConfigureAsInput().Init(drv); err != nil {
		t.Fatalf("second NC init: %v", err)
	}
}

func TestInitializedPinOperations(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()

	pin, err := NewPinInitializer(bank.Gpio5).ConfigureAsOutput().Init(drv)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := pin.SetLevel(true); err != nil {
		t.Fatalf("set level: %v", err)
	}
	if !drv.Levels[5] {
		t.Fatal("driver did not record level")
	}
	if err := pin.EnablePullUp(); err != nil {
		t.Fatalf("pull-up: %v", err)
	}
	if !drv.PullUps[5] {
		t.Fatal("driver did not record pull-up")
	}
	if err := pin.EnablePullDown(); !errors.Is(err, errcode.CapabilityMissing) {
		t.Fatalf("pull-down on gpio5: got %v, want capability_missing", err)
	}
	if err := pin.SetInterruptMode(IntrHighLevel); err != nil {
		t.Fatalf("interrupt mode: %v", err)
	}
	if drv.Intrs[5] != driver.IntrHighLevel {
		t.Fatalf("interrupt type %v", drv.Intrs[5])
	}
}

func TestDeinitReturnsReusableToken(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()

	pin, err := NewPinInitializer(bank.Gpio12).ConfigureAsInput().Init(drv)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	tok := pin.Deinit()
	if tok.ID() != 12 {
		t.Fatalf("deinit returned pin %d", tok.ID())
	}
	if _, err := NewPinInitializer(tok).ConfigureAsOutput().Init(drv); err != nil {
		t.Fatalf("re-init after deinit: %v", err)
	}
}

func TestDeinitializedPinFailsClosed(t *testing.T) {
	bank := testBank(t)
	drv := fake.NewPin()

	pin, err := NewPinInitializer(bank.Gpio13).ConfigureAsOutput().Init(drv)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	tok := pin.Deinit()
	if err := pin.SetLevel(true); !errors.Is(err, errcode.NotInitialized) {
		t.Fatalf("set level after deinit: got %v, want not_initialized", err)
	}
	if drv.Levels[13] {
		t.Fatal("deinitialized handle drove the pad")
	}
	if _, err := pin.Level(); !errors.Is(err, errcode.NotInitialized) {
		t.Fatalf("level after deinit: got %v, want not_initialized", err)
	}
	if err := pin.EnablePullUp(); !errors.Is(err, errcode.NotInitialized) {
		t.Fatalf("pull-up after deinit: got %v, want not_initialized", err)
	}
	// A second deinit is a no-op that still yields the token.
	if pin.Deinit() != tok {
		t.Fatal("repeated deinit returned a different token")
	}
}
