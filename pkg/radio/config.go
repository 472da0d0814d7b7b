package radio

import (
	"flag"
	"os"
	"strconv"

	"github.com/robotalks/rfsend/pkg/gpio"
	"github.com/robotalks/rfsend/pkg/rf"
	"github.com/robotalks/rfsend/pkg/sched"
)

// Config defines the radio hardware and default transmission parameters.
type Config struct {
	GPIO gpio.Config

	Pin         int
	PulseLength int
	BitLength   int
	Repeat      int

	// ReceivePin is the BCM GPIO number of the receiver data line.
	ReceivePin int
	// ReceiveDriver watches edges on ReceivePin.
	ReceiveDriver string
}

var defaultConfig = Config{
	GPIO: gpio.Config{
		Driver: "rpio",
		Chip:   "gpiochip0",
	},
	Pin:           rf.DefaultPin,
	PulseLength:   rf.DefaultPulseLength,
	BitLength:     rf.DefaultBitLength,
	Repeat:        rf.DefaultRepeat,
	ReceivePin:    27,
	ReceiveDriver: "gpiocdev",
}

func init() {
	if val := os.Getenv("RFSEND_GPIO"); val != "" {
		defaultConfig.GPIO.Driver = val
	}
	if val := os.Getenv("RFSEND_GPIO_CHIP"); val != "" {
		defaultConfig.GPIO.Chip = val
	}
	envInt("RFSEND_PIN", &defaultConfig.Pin)
	envInt("RFSEND_PULSE_LENGTH", &defaultConfig.PulseLength)
	envInt("RFSEND_BIT_LENGTH", &defaultConfig.BitLength)
	envInt("RFSEND_REPEAT", &defaultConfig.Repeat)
	envInt("RFSEND_RX_PIN", &defaultConfig.ReceivePin)
	if val := os.Getenv("RFSEND_RX_GPIO"); val != "" {
		defaultConfig.ReceiveDriver = val
	}
}

func envInt(name string, v *int) {
	if val := os.Getenv(name); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*v = n
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.GPIO.Driver, "gpio", defaultConfig.GPIO.Driver, "GPIO driver: rpio, gpiocdev, periph or null.")
	flag.StringVar(&defaultConfig.GPIO.Chip, "chip", defaultConfig.GPIO.Chip, "GPIO chip used by gpiocdev.")
	flag.IntVar(&defaultConfig.Pin, "pin", defaultConfig.Pin, "Transmitter BCM GPIO number.")
	flag.IntVar(&defaultConfig.PulseLength, "pulse", defaultConfig.PulseLength, "Pulse length in microseconds.")
	flag.IntVar(&defaultConfig.BitLength, "bits", defaultConfig.BitLength, "Bit length of codes.")
	flag.IntVar(&defaultConfig.Repeat, "repeat", defaultConfig.Repeat, "Times the code list is sent.")
	flag.IntVar(&defaultConfig.ReceivePin, "rx-pin", defaultConfig.ReceivePin, "Receiver BCM GPIO number.")
	flag.StringVar(&defaultConfig.ReceiveDriver, "rx-gpio", defaultConfig.ReceiveDriver, "GPIO driver watching the receiver, only gpiocdev supports it.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Request creates a Request of codes with configured parameters.
func (c *Config) Request(codes ...rf.Code) rf.Request {
	return rf.Request{
		Codes:       codes,
		Repeat:      c.Repeat,
		Pin:         c.Pin,
		PulseLength: c.PulseLength,
		BitLength:   c.BitLength,
	}
}

// NewTransmitter creates a Transmitter on the configured driver.
func (c *Config) NewTransmitter() (*Transmitter, error) {
	drv, err := c.GPIO.NewDriver()
	if err != nil {
		return nil, err
	}
	return NewTransmitter(drv, sched.NewGuard()), nil
}

// NewReceiver creates a Receiver on the receive driver.
func (c *Config) NewReceiver() (*Receiver, error) {
	gpioConf := c.GPIO
	if c.ReceiveDriver != "" {
		gpioConf.Driver = c.ReceiveDriver
	}
	drv, err := gpioConf.NewDriver()
	if err != nil {
		return nil, err
	}
	return NewReceiver(drv, c.ReceivePin), nil
}
