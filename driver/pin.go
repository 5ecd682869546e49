package driver

// PinMode is the raw pad direction.
type PinMode uint8

const (
	PinModeDisable PinMode = iota
	PinModeInput
	PinModeOutput
	PinModeOutputOpenDrain
)

// InterruptType is the raw pad interrupt trigger.
type InterruptType uint8

const (
	IntrDisable InterruptType = iota
	IntrPosEdge
	IntrNegEdge
	IntrAnyEdge
	IntrLowLevel
	IntrHighLevel
)

// PinConfig is the whole-pad configuration committed in one call
// (gpio_config shaped; PinMask selects the pads).
type PinConfig struct {
	PinMask   uint32
	Mode      PinMode
	PullUp    bool
	PullDown  bool
	Interrupt InterruptType
}

// Pin is the pad-level driver surface.
type Pin interface {
	Commit(cfg PinConfig) Status
	SetDirection(pin uint8, mode PinMode) Status
	SetPullUp(pin uint8, enable bool) Status
	SetPullDown(pin uint8, enable bool) Status
	SetInterruptType(pin uint8, t InterruptType) Status
	SetLevel(pin uint8, high bool) Status
	Level(pin uint8) bool
}
