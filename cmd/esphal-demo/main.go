// esphal-demo walks the whole peripheral lifecycle against the recording
// fakes, driven by a YAML bring-up plan. It is a host-side smoke tool: the
// same call sequence a firmware image would make at boot, minus the silicon.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"gopkg.in/yaml.v3"

	"esphal-go/driver/fake"
	"esphal-go/gpio"
	"esphal-go/nvs"
	"esphal-go/peripherals"
	"esphal-go/pinclaim"
	"esphal-go/pwm"
	"esphal-go/uart"
	"esphal-go/wifi"
)

type plan struct {
	GPIO []struct {
		Pin    uint8  `yaml:"pin"`
		Mode   string `yaml:"mode"` // input, output, open_drain
		PullUp bool   `yaml:"pull_up"`
		Level  bool   `yaml:"level"`
	} `yaml:"gpio"`

	PWM *struct {
		Period   uint32 `yaml:"period"`
		Channels []struct {
			Pin  uint8  `yaml:"pin"`
			Duty uint32 `yaml:"duty"`
		} `yaml:"channels"`
	} `yaml:"pwm"`

	UART *struct {
		Baud     uint32 `yaml:"baud"`
		DataBits uint8  `yaml:"data_bits"`
		StopBits uint8  `yaml:"stop_bits"`
		Send     string `yaml:"send"`
	} `yaml:"uart"`

	WiFi *struct {
		Ssid     string `yaml:"ssid"`
		Password string `yaml:"password"`
		Channel  uint8  `yaml:"channel"`
	} `yaml:"wifi"`
}

func main() {
	planPath := flag.String("plan", "plan.yaml", "bring-up plan")
	flag.Parse()
	logger := golog.NewDevelopmentLogger("esphal-demo")

	var p plan
	raw, err := os.ReadFile(*planPath)
	if err != nil {
		logger.Fatalw("read plan", "error", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		logger.Fatalw("parse plan", "error", err)
	}

	set, ok := peripherals.NewRegistry().Take()
	if !ok {
		logger.Fatal("peripherals already taken")
	}
	claims := pinclaim.NewTracker()

	bank, err := gpio.NewBank(set.GPIO)
	if err != nil {
		logger.Fatalw("gpio bank", "error", err)
	}

	pinDrv := fake.NewPin()
	for _, g := range p.GPIO {
		pad := bank.ByID(gpio.PinID(g.Pin))
		if pad == nil {
			logger.Fatalw("unknown pin in plan", "pin", g.Pin)
		}
		b := gpio.NewPinInitializer(pad)
		switch g.Mode {
		case "input":
			b.ConfigureAsInput()
		case "open_drain":
			b.ConfigureAsOpenDrain()
		default:
			b.ConfigureAsOutput()
		}
		if g.PullUp {
			b.EnablePullUp()
		}
		ip, err := b.Init(pinDrv)
		if err != nil {
			logger.Fatalw("gpio init", "pin", g.Pin, "error", err)
		}
		if g.Mode != "input" {
			if err := ip.SetLevel(g.Level); err != nil {
				logger.Fatalw("gpio level", "pin", g.Pin, "error", err)
			}
		}
		logger.Infow("gpio configured", "pin", g.Pin, "mode", g.Mode)
	}

	if p.PWM != nil {
		b := pwm.NewInitializer(set.PWM).SetPeriod(p.PWM.Period)
		for _, ch := range p.PWM.Channels {
			b.AddChannel(bank.ByID(gpio.PinID(ch.Pin)), ch.Duty)
		}
		unit, err := b.Initialize(fake.NewPWM(), claims)
		if err != nil {
			logger.Fatalw("pwm initialize", "error", err)
		}
		if err := unit.Start(); err != nil {
			logger.Fatalw("pwm start", "error", err)
		}
		logger.Infow("pwm running", "period", p.PWM.Period, "channels", len(p.PWM.Channels))
		unit.Stop()
		set.PWM = unit.Deinitialize()
	}

	if p.UART != nil {
		ubank, err := uart.NewBank(set.UART)
		if err != nil {
			logger.Fatalw("uart bank", "error", err)
		}
		c := uart.NewConfigurator(ubank.UART0)
		if p.UART.Baud != 0 {
			c.SetBaudRate(p.UART.Baud)
		}
		if p.UART.DataBits != 0 {
			c.SetDataBits(p.UART.DataBits)
		}
		if p.UART.StopBits != 0 {
			c.SetStopBits(p.UART.StopBits)
		}
		run, err := c.Install(fake.NewUART(), claims, clock.New(), logger)
		if err != nil {
			logger.Fatalw("uart install", "error", err)
		}
		if p.UART.Send != "" {
			if _, err := run.Write([]byte(p.UART.Send)); err != nil {
				logger.Fatalw("uart write", "error", err)
			}
			if err := run.WaitTxDone(time.Second); err != nil {
				logger.Fatalw("uart drain", "error", err)
			}
		}
		if _, err := run.Stop(); err != nil {
			logger.Fatalw("uart stop", "error", err)
		}
		logger.Infow("uart cycled", "baud", p.UART.Baud)
	}

	if p.WiFi != nil {
		store, err := nvs.NewStore(set.NVS, fake.NewStorage(), logger)
		if err != nil {
			logger.Fatalw("nvs store", "error", err)
		}
		part, err := store.RecoverPartition(nvs.DefaultPartition())
		if err != nil {
			logger.Fatalw("nvs partition", "error", err)
		}

		hw, err := wifi.NewHardware(set.WiFi, fake.NewWiFi(), logger)
		if err != nil {
			logger.Fatalw("wifi hardware", "error", err)
		}
		cfg, err := hw.Initialize()
		if err != nil {
			logger.Fatalw("wifi initialize", "error", err)
		}
		ab := wifi.NewApConfigurationBuilder().
			SetSsid(p.WiFi.Ssid).
			SetAuthMode(wifi.AuthWpa2Psk).
			SetPassword(p.WiFi.Password)
		if p.WiFi.Channel != 0 {
			ab.SetChannel(p.WiFi.Channel)
		}
		ap, err := ab.Build()
		if err != nil {
			logger.Fatalw("wifi ap draft", "error", err)
		}
		adapter, err := cfg.SetApConfig(ap).Start()
		if err != nil {
			logger.Fatalw("wifi start", "error", err)
		}
		logger.Infow("wifi up", "mode", adapter.Mode().String(), "ssid", p.WiFi.Ssid)

		hw = adapter.Stop()
		hw.Deinitialize()
		store.DeinitPartition(part)
	}

	logger.Info("bring-up plan complete")
}
