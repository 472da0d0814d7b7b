package gpio

import (
	"fmt"
	"io"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// RPIODriver accesses the BCM2835 family registers through /dev/gpiomem.
type RPIODriver struct {
	lock  sync.Mutex
	users int
}

// maxRPIOPin is the last BCM GPIO of the register banks.
const maxRPIOPin = 53

type rpioPin struct {
	drv *RPIODriver
	pin rpio.Pin
}

func init() {
	Register("rpio", func(Config) (Driver, error) { return &RPIODriver{}, nil })
}

// Name implements Driver.
func (d *RPIODriver) Name() string { return "rpio" }

// OpenOutput implements Driver. The register mapping is held while any pin
// is open.
func (d *RPIODriver) OpenOutput(pin int) (Pin, error) {
	if pin < 0 || pin > maxRPIOPin {
		return nil, fmt.Errorf("%w: GPIO%d not within [0, %d]", ErrInvalidPin, pin, maxRPIOPin)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.users == 0 {
		if err := rpio.Open(); err != nil {
			return nil, err
		}
	}
	d.users++
	p := rpio.Pin(pin)
	p.Output()
	p.Low()
	return &rpioPin{drv: d, pin: p}, nil
}

// Watch implements Driver.
func (d *RPIODriver) Watch(int, func(Edge)) (io.Closer, error) {
	return nil, ErrWatchNotSupported
}

func (p *rpioPin) Set(high bool) error {
	if high {
		p.pin.High()
	} else {
		p.pin.Low()
	}
	return nil
}

func (p *rpioPin) Close() error {
	p.pin.Low()
	d := p.drv
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.users--; d.users == 0 {
		return rpio.Close()
	}
	return nil
}
