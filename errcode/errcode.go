package errcode

// Code is a stable error identifier for the HAL control plane.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Resource distribution / ownership
	PeripheralConsumed Code = "peripheral_consumed"
	PinConsumed        Code = "pin_consumed"
	PinInUse           Code = "pin_in_use"
	UnknownPin         Code = "unknown_pin"

	// Capability gating
	CapabilityMissing Code = "capability_missing"

	// PWM draft/configuration
	TooManyChannels   Code = "too_many_channels"
	TooShortPeriod    Code = "too_short_period"
	DutyExceedsPeriod Code = "duty_exceeds_period"
	PeriodNotSet      Code = "period_not_set"
	InvalidChannel    Code = "invalid_channel"
	InvalidPhase      Code = "invalid_phase"

	// UART draft
	InvalidBaudRate     Code = "invalid_baud_rate"
	InvalidDataBits     Code = "invalid_data_bits"
	InvalidStopBits     Code = "invalid_stop_bits"
	InvalidParity       Code = "invalid_parity"
	InvalidRxBufferSize Code = "invalid_rx_buffer_size"
	InvalidTxBufferSize Code = "invalid_tx_buffer_size"

	// WiFi drafts
	SsidNotSet            Code = "ssid_not_set"
	PasswordNotSet        Code = "password_not_set"
	AuthModeNotSet        Code = "auth_mode_not_set"
	AuthModeNotSupported  Code = "auth_mode_not_supported"
	TooLongSsid           Code = "too_long_ssid"
	TooLongPassword       Code = "too_long_password"
	InvalidWiFiChannel    Code = "invalid_wifi_channel"
	InvalidBeaconInterval Code = "invalid_beacon_interval"
	InvalidMaxConnections Code = "invalid_max_connections"
	InvalidListenInterval Code = "invalid_listen_interval"
	InvalidScanMethod     Code = "invalid_scan_method"
	InvalidSortMethod     Code = "invalid_sort_method"
	ConfigurationNotSet   Code = "configuration_not_set"

	// Lifecycle / commit
	AlreadyInitialized Code = "already_initialized"
	NotInitialized     Code = "not_initialized"
	InvalidPassword    Code = "invalid_password"
	InternalStoreError Code = "internal_store_error"
	NoMemory           Code = "no_memory"
	InvalidArgument    Code = "invalid_argument"
	ConnectionFailed   Code = "connection_failed"
	Timeout            Code = "timeout"

	// Flash-backed store
	InvalidPartitionID Code = "invalid_partition_id"
	PartitionCorrupted Code = "partition_corrupted"
	PartitionNotFound  Code = "partition_not_found"

	Driver Code = "driver_error" // opaque driver status passthrough
	Error  Code = "error"        // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is match an E against its bare Code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an E carrying op context and an optional cause.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
