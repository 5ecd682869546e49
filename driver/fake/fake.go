// Package fake provides inert, recordable driver backends for host-side
// tests and demos. Each fake answers StatusOK unless a scripted status is
// queued for the corresponding entry point.
package fake

import (
	"sync"
	"time"

	"esphal-go/driver"
)

// statusQueue pops scripted statuses in FIFO order, defaulting to OK.
type statusQueue []driver.Status

func (q *statusQueue) pop() driver.Status {
	if len(*q) == 0 {
		return driver.StatusOK
	}
	s := (*q)[0]
	*q = (*q)[1:]
	return s
}

// ----------------------------- GPIO ------------------------------------------

// Pin implements driver.Pin, recording every pad operation.
type Pin struct {
	mu sync.Mutex

	Committed []driver.PinConfig
	Dirs      map[uint8]driver.PinMode
	PullUps   map[uint8]bool
	PullDowns map[uint8]bool
	Intrs     map[uint8]driver.InterruptType
	Levels    map[uint8]bool

	CommitStatuses statusQueue
}

func NewPin() *Pin {
	return &Pin{
		Dirs:      map[uint8]driver.PinMode{},
		PullUps:   map[uint8]bool{},
		PullDowns: map[uint8]bool{},
		Intrs:     map[uint8]driver.InterruptType{},
		Levels:    map[uint8]bool{},
	}
}

func (f *Pin) Commit(cfg driver.PinConfig) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.CommitStatuses.pop(); !s.OK() {
		return s
	}
	f.Committed = append(f.Committed, cfg)
	return driver.StatusOK
}

func (f *Pin) SetDirection(pin uint8, mode driver.PinMode) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Dirs[pin] = mode
	return driver.StatusOK
}

func (f *Pin) SetPullUp(pin uint8, enable bool) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PullUps[pin] = enable
	return driver.StatusOK
}

func (f *Pin) SetPullDown(pin uint8, enable bool) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PullDowns[pin] = enable
	return driver.StatusOK
}

func (f *Pin) SetInterruptType(pin uint8, t driver.InterruptType) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Intrs[pin] = t
	return driver.StatusOK
}

func (f *Pin) SetLevel(pin uint8, high bool) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Levels[pin] = high
	return driver.StatusOK
}

func (f *Pin) Level(pin uint8) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Levels[pin]
}

// ----------------------------- PWM -------------------------------------------

// PWM implements driver.PWM, recording the programmed channel table.
type PWM struct {
	mu sync.Mutex

	Period   uint32
	Duties   []uint32
	Pins     []uint32
	Channels uint8

	InvertMask uint16
	Started    bool
	StopMask   uint32
	Deinited   bool

	InitStatuses    statusQueue
	SetDutyStatuses statusQueue
	StartStatuses   statusQueue
}

func NewPWM() *PWM { return &PWM{} }

func (f *PWM) Init(period uint32, duties []uint32, channels uint8, pins []uint32) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.InitStatuses.pop(); !s.OK() {
		return s
	}
	f.Period = period
	f.Duties = append([]uint32(nil), duties...)
	f.Pins = append([]uint32(nil), pins...)
	f.Channels = channels
	f.Deinited = false
	return driver.StatusOK
}

func (f *PWM) SetPeriod(period uint32) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Period = period
	return driver.StatusOK
}

func (f *PWM) SetDuty(channel uint8, duty uint32) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.SetDutyStatuses.pop(); !s.OK() {
		return s
	}
	if int(channel) >= len(f.Duties) {
		return driver.StatusInvalidArg
	}
	f.Duties[channel] = duty
	return driver.StatusOK
}

func (f *PWM) SetPhase(channel uint8, phase int16) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if int(channel) >= int(f.Channels) {
		return driver.StatusInvalidArg
	}
	return driver.StatusOK
}

func (f *PWM) SetChannelInvert(mask uint16) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InvertMask |= mask
	return driver.StatusOK
}

func (f *PWM) ClearChannelInvert(mask uint16) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InvertMask &^= mask
	return driver.StatusOK
}

func (f *PWM) Start() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.StartStatuses.pop(); !s.OK() {
		return s
	}
	f.Started = true
	return driver.StatusOK
}

func (f *PWM) Stop(stopMask uint32) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Started = false
	f.StopMask = stopMask
	return driver.StatusOK
}

func (f *PWM) Deinit() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deinited = true
	return driver.StatusOK
}

// ----------------------------- UART ------------------------------------------

// UART implements driver.UART for up to two ports. RX data is served from a
// scripted queue; WaitTxDone reports timeout for TxBusyPolls calls before
// draining.
type UART struct {
	mu sync.Mutex

	Params    map[uint8]driver.UARTParams
	Installed map[uint8][2]int // rx, tx sizes
	TX        map[uint8][]byte
	RX        map[uint8][]byte

	TxBusyPolls int // WaitTxDone calls that report timeout before OK

	ParamStatuses   statusQueue
	InstallStatuses statusQueue
	DeleteStatuses  statusQueue
}

func NewUART() *UART {
	return &UART{
		Params:    map[uint8]driver.UARTParams{},
		Installed: map[uint8][2]int{},
		TX:        map[uint8][]byte{},
		RX:        map[uint8][]byte{},
	}
}

func (f *UART) ParamConfig(port uint8, p driver.UARTParams) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.ParamStatuses.pop(); !s.OK() {
		return s
	}
	f.Params[port] = p
	return driver.StatusOK
}

func (f *UART) Install(port uint8, rxSize, txSize int) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.InstallStatuses.pop(); !s.OK() {
		return s
	}
	f.Installed[port] = [2]int{rxSize, txSize}
	return driver.StatusOK
}

func (f *UART) WriteBytes(port uint8, p []byte) (int, driver.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TX[port] = append(f.TX[port], p...)
	return len(p), driver.StatusOK
}

func (f *UART) WaitTxDone(port uint8, timeout time.Duration) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TxBusyPolls > 0 {
		f.TxBusyPolls--
		return driver.StatusTimeout
	}
	return driver.StatusOK
}

func (f *UART) ReadBytes(port uint8, p []byte, timeout time.Duration) (int, driver.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := f.RX[port]
	if len(buf) == 0 {
		return 0, driver.StatusTimeout
	}
	n := copy(p, buf)
	f.RX[port] = buf[n:]
	return n, driver.StatusOK
}

func (f *UART) Delete(port uint8) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.DeleteStatuses.pop(); !s.OK() {
		return s
	}
	delete(f.Installed, port)
	return driver.StatusOK
}

// ----------------------------- WiFi ------------------------------------------

// WiFi implements driver.WiFi, recording mode and config commits.
type WiFi struct {
	mu sync.Mutex

	Inited    bool
	Mode      driver.Mode
	AP        *driver.APConfig
	STA       *driver.STAConfig
	Started   bool
	Connected bool
	Protocols map[driver.Interface]uint8

	InitStatuses    statusQueue
	SetModeStatuses statusQueue
	SetAPStatuses   statusQueue
	SetSTAStatuses  statusQueue
	StartStatuses   statusQueue
	ConnectStatuses statusQueue
}

func NewWiFi() *WiFi {
	return &WiFi{Protocols: map[driver.Interface]uint8{}}
}

func (f *WiFi) Init() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.InitStatuses.pop(); !s.OK() {
		return s
	}
	f.Inited = true
	return driver.StatusOK
}

func (f *WiFi) Deinit() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Inited = false
	return driver.StatusOK
}

func (f *WiFi) SetMode(m driver.Mode) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.SetModeStatuses.pop(); !s.OK() {
		return s
	}
	f.Mode = m
	return driver.StatusOK
}

func (f *WiFi) SetAPConfig(cfg driver.APConfig) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.SetAPStatuses.pop(); !s.OK() {
		return s
	}
	c := cfg
	f.AP = &c
	return driver.StatusOK
}

func (f *WiFi) SetSTAConfig(cfg driver.STAConfig) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.SetSTAStatuses.pop(); !s.OK() {
		return s
	}
	c := cfg
	f.STA = &c
	return driver.StatusOK
}

func (f *WiFi) Start() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.StartStatuses.pop(); !s.OK() {
		return s
	}
	f.Started = true
	return driver.StatusOK
}

func (f *WiFi) Stop() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Started = false
	f.Connected = false
	return driver.StatusOK
}

func (f *WiFi) Connect() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.ConnectStatuses.pop(); !s.OK() {
		return s
	}
	f.Connected = true
	return driver.StatusOK
}

func (f *WiFi) Disconnect() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Connected = false
	return driver.StatusOK
}

func (f *WiFi) SetProtocol(iface driver.Interface, protocolBitmap uint8) driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Protocols[iface] = protocolBitmap
	return driver.StatusOK
}

// ----------------------------- Storage ---------------------------------------

// Storage implements driver.Storage with scripted init outcomes.
type Storage struct {
	mu sync.Mutex

	Inits  int
	Erases int

	InitStatuses  statusQueue
	EraseStatuses statusQueue
}

func NewStorage() *Storage { return &Storage{} }

func (f *Storage) FlashInit() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Inits++
	return f.InitStatuses.pop()
}

func (f *Storage) FlashErase() driver.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Erases++
	return f.EraseStatuses.pop()
}
