// Package gpio models the chip's pads: per-pin capability classification,
// single-use pin tokens, and the capability-checked configuration path from
// raw pad to initialized pin and back.
package gpio

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PinID identifies one physical pad.
type PinID uint8

// NC is the designated not-connected placeholder. Every operation on NC is a
// guaranteed no-op success; it is used where a logical line (CTS, RTS, ...)
// is not wired.
const NC PinID = 0xff

// Mask returns the pad's bit position for multi-pin commits.
func (id PinID) Mask() uint32 { return 1 << uint32(id) }

// CapabilitySet is the fixed set of configuration abilities a pad supports.
// It derives purely from the pad's physical identity and never changes at
// runtime.
type CapabilitySet uint16

const (
	CapInput CapabilitySet = 1 << iota
	CapOutput
	CapOpenDrain
	CapPullUp
	CapPullDown
	CapInterrupt
	CapPWM
)

func (c CapabilitySet) Has(want CapabilitySet) bool { return c&want == want }

func (c CapabilitySet) Input() bool     { return c.Has(CapInput) }
func (c CapabilitySet) Output() bool    { return c.Has(CapOutput) }
func (c CapabilitySet) OpenDrain() bool { return c.Has(CapOpenDrain) }
func (c CapabilitySet) PullUp() bool    { return c.Has(CapPullUp) }
func (c CapabilitySet) PullDown() bool  { return c.Has(CapPullDown) }
func (c CapabilitySet) Interrupt() bool { return c.Has(CapInterrupt) }
func (c CapabilitySet) PWM() bool       { return c.Has(CapPWM) }

const (
	capsBasic CapabilitySet = CapInput | CapOutput
	capsFull  CapabilitySet = capsBasic | CapOpenDrain | CapPullUp | CapInterrupt | CapPWM
)

// pinCaps is the one canonical (pin, capability-set) table. Pads 0-5 and
// 12-15 share the full set; pad 16 sits on the RTC domain and only does
// basic IO plus the chip's sole pull-down.
var pinCaps = func() map[PinID]CapabilitySet {
	m := make(map[PinID]CapabilitySet)
	for _, id := range []PinID{0, 1, 2, 3, 4, 5, 12, 13, 14, 15} {
		m[id] = capsFull
	}
	m[16] = capsBasic | CapPullDown
	return m
}()

// CapsOf returns the capability set for a pad identity. Pure and total:
// unknown ids report the empty set (so every gated operation fails closed),
// and NC reports everything (so gating never rejects the placeholder).
func CapsOf(id PinID) CapabilitySet {
	if id == NC {
		return capsFull | CapPullDown
	}
	return pinCaps[id]
}

// Pins lists the real pads in ascending order.
func Pins() []PinID {
	ids := maps.Keys(pinCaps)
	slices.Sort(ids)
	return ids
}
