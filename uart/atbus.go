package uart

import (
	"time"

	"tinygo.org/x/drivers"

	"esphal-go/errcode"
)

// ATBus adapts a running port to the tinygo drivers.UART contract, so
// AT-command modem drivers (ESP-AT radios and friends) can sit directly on a
// port. Reads poll the receive ring with a short bounded wait; one small
// lookahead buffer backs Buffered and ReadByte.
type ATBus struct {
	run     *RunningPort
	poll    time.Duration
	pending []byte
}

// Ensure compile-time conformance with drivers.UART
var _ drivers.UART = (*ATBus)(nil)

// NewATBus wraps a running port. poll bounds each receive wait; zero selects
// a 10 ms default.
func NewATBus(run *RunningPort, poll time.Duration) *ATBus {
	if poll <= 0 {
		poll = 10 * time.Millisecond
	}
	return &ATBus{run: run, poll: poll}
}

func (b *ATBus) Write(p []byte) (int, error) { return b.run.Write(p) }

func (b *ATBus) Read(p []byte) (int, error) {
	if len(b.pending) > 0 {
		n := copy(p, b.pending)
		b.pending = b.pending[n:]
		return n, nil
	}
	return b.run.Read(p, b.poll)
}

// Buffered reports whether bytes are ready, pulling at most one byte of
// lookahead from the ring.
func (b *ATBus) Buffered() int {
	if len(b.pending) == 0 {
		var one [1]byte
		if n, err := b.run.Read(one[:], b.poll); err == nil && n == 1 {
			b.pending = append(b.pending, one[0])
		}
	}
	return len(b.pending)
}

func (b *ATBus) ReadByte() (byte, error) {
	if b.Buffered() == 0 {
		return 0, errcode.Wrap(errcode.Timeout, "uart.read_byte", nil)
	}
	c := b.pending[0]
	b.pending = b.pending[1:]
	return c, nil
}
