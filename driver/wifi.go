package driver

// Mode is the raw adapter mode.
type Mode uint8

const (
	ModeNull Mode = iota
	ModeSTA
	ModeAP
	ModeAPSTA
)

// Interface selects which logical interface a config commit targets.
type Interface uint8

const (
	InterfaceSTA Interface = iota
	InterfaceAP
)

// AuthMode is the raw authentication mode.
type AuthMode uint8

const (
	AuthOpen AuthMode = iota
	AuthWEP
	AuthWPAPSK
	AuthWPA2PSK
	AuthWPAWPA2PSK
	AuthWPA2Enterprise
)

// ScanMethod selects how the station scans for its target network
// (wifi_scan_method_t shaped).
type ScanMethod uint8

const (
	ScanFast ScanMethod = iota
	ScanAllChannel
)

// SortMethod orders candidate access points when several match
// (wifi_sort_method_t shaped).
type SortMethod uint8

const (
	SortBySignal SortMethod = iota
	SortBySecurity
)

// 802.11 protocol bitmap for SetProtocol.
const (
	Protocol11B uint8 = 1 << iota
	Protocol11G
	Protocol11N
)

// APConfig is the raw access-point configuration (wifi_ap_config_t shaped).
// SSID and Password are fixed byte arrays; Password carries a mandatory NUL
// terminator inside the 64 bytes.
type APConfig struct {
	SSID           [32]byte
	Password       [64]byte
	SSIDLen        uint8
	Channel        uint8
	AuthMode       AuthMode
	Hidden         bool
	MaxConnections uint8
	BeaconInterval uint16
}

// STAConfig is the raw station configuration (wifi_sta_config_t shaped).
type STAConfig struct {
	SSID           [32]byte
	Password       [64]byte
	BSSIDSet       bool
	BSSID          [6]byte
	Channel        uint8
	ListenInterval uint16
	ScanMethod     ScanMethod
	SortMethod     SortMethod
	Threshold      struct {
		RSSI     int8
		AuthMode AuthMode
	}
}

// WiFi is the adapter driver surface. Every status is mapped 1:1 by the HAL
// into a domain error or an opaque passthrough.
type WiFi interface {
	Init() Status
	Deinit() Status
	SetMode(m Mode) Status
	SetAPConfig(cfg APConfig) Status
	SetSTAConfig(cfg STAConfig) Status
	Start() Status
	Stop() Status
	Connect() Status
	Disconnect() Status
	SetProtocol(iface Interface, protocolBitmap uint8) Status
}
