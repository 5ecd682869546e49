package uart

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.uber.org/multierr"

	"esphal-go/driver"
	"esphal-go/errcode"
	"esphal-go/pinclaim"
)

// txPollSlice bounds each blocking driver wait so the deadline check gets a
// regular chance to run.
const txPollSlice = 250 * time.Millisecond

// stopFlushTimeout is the drain budget Stop grants the transmitter before
// tearing the driver down.
const stopFlushTimeout = 100 * time.Millisecond

// RunningPort is an installed port. It holds its wired lines in the claim
// tracker until Stop hands everything back; after that every IO call on the
// old handle fails closed.
type RunningPort struct {
	port    *Port
	drv     driver.UART
	claims  *pinclaim.Tracker
	clk     clock.Clock
	log     golog.Logger
	stopped bool
}

func (r *RunningPort) guard(op string) error {
	if r.stopped {
		return errcode.Wrap(errcode.NotInitialized, op, nil)
	}
	return nil
}

// ID returns the port number.
func (r *RunningPort) ID() PortID { return r.port.id }

// Write queues bytes for transmission. The port must have a wired TX line.
func (r *RunningPort) Write(p []byte) (int, error) {
	if err := r.guard("uart.write"); err != nil {
		return 0, err
	}
	if !r.port.SupportsTx() {
		return 0, errcode.Wrap(errcode.CapabilityMissing, "uart.write", nil)
	}
	n, s := r.drv.WriteBytes(uint8(r.port.id), p)
	if !s.OK() {
		return n, errcode.Wrap(errcode.Driver, "uart.write", s)
	}
	return n, nil
}

// WaitTxDone blocks until the transmit FIFO drains or the timeout elapses.
// The driver wait is sliced so a stuck transmitter cannot overshoot the
// caller's deadline by more than one slice.
func (r *RunningPort) WaitTxDone(timeout time.Duration) error {
	if err := r.guard("uart.wait_tx_done"); err != nil {
		return err
	}
	if !r.port.SupportsTx() {
		return errcode.Wrap(errcode.CapabilityMissing, "uart.wait_tx_done", nil)
	}
	deadline := r.clk.Now().Add(timeout)
	for {
		remaining := deadline.Sub(r.clk.Now())
		if remaining <= 0 {
			return errcode.Wrap(errcode.Timeout, "uart.wait_tx_done", nil)
		}
		if remaining > txPollSlice {
			remaining = txPollSlice
		}
		switch s := r.drv.WaitTxDone(uint8(r.port.id), remaining); s {
		case driver.StatusOK:
			return nil
		case driver.StatusTimeout:
			// keep polling until the deadline
		default:
			return errcode.Wrap(errcode.Driver, "uart.wait_tx_done", s)
		}
	}
}

// Read fills p from the receive ring, waiting up to timeout for the first
// byte. The port must have a wired RX line.
func (r *RunningPort) Read(p []byte, timeout time.Duration) (int, error) {
	if err := r.guard("uart.read"); err != nil {
		return 0, err
	}
	if !r.port.SupportsRx() {
		return 0, errcode.Wrap(errcode.CapabilityMissing, "uart.read", nil)
	}
	n, s := r.drv.ReadBytes(uint8(r.port.id), p, timeout)
	switch s {
	case driver.StatusOK:
		return n, nil
	case driver.StatusTimeout:
		return n, errcode.Wrap(errcode.Timeout, "uart.read", nil)
	default:
		return n, errcode.Wrap(errcode.Driver, "uart.read", s)
	}
}

// Stop drains the transmitter, deletes the driver instance and releases every
// captured line. The port token comes back usable even when the teardown
// reports errors; those are aggregated and returned alongside it. Idempotent
// on an already stopped handle.
func (r *RunningPort) Stop() (*Port, error) {
	if r.stopped {
		return r.port, nil
	}
	var errs error
	if r.port.SupportsTx() {
		if err := r.WaitTxDone(stopFlushTimeout); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if s := r.drv.Delete(uint8(r.port.id)); !s.OK() {
		errs = multierr.Append(errs, errcode.Wrap(errcode.Driver, "uart.delete", s))
	}
	r.claims.ReleaseAll(r.port.wiredPins())
	r.port.Release()
	r.stopped = true
	r.log.Debugw("uart stopped", "port", r.port.id)
	return r.port, errs
}
