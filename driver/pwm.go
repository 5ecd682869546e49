package driver

// MaxPWMChannels is the unit-wide channel limit.
const MaxPWMChannels = 8

// PWM is the soft-PWM unit driver surface. Init programs the whole channel
// table at once; duties and pins must both hold exactly channels entries.
type PWM interface {
	Init(period uint32, duties []uint32, channels uint8, pins []uint32) Status
	SetPeriod(period uint32) Status
	SetDuty(channel uint8, duty uint32) Status
	SetPhase(channel uint8, phase int16) Status
	SetChannelInvert(mask uint16) Status
	ClearChannelInvert(mask uint16) Status
	Start() Status
	Stop(stopMask uint32) Status
	Deinit() Status
}
