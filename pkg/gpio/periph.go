package gpio

import (
	"fmt"
	"io"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphDriver uses the periph.io host drivers.
type PeriphDriver struct{}

type periphPin struct {
	pin pgpio.PinIO
}

func init() {
	Register("periph", func(Config) (Driver, error) {
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		return PeriphDriver{}, nil
	})
}

// Name implements Driver.
func (PeriphDriver) Name() string { return "periph" }

// OpenOutput implements Driver.
func (PeriphDriver) OpenOutput(pin int) (Pin, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, fmt.Errorf("GPIO%d not found", pin)
	}
	if err := p.Out(pgpio.Low); err != nil {
		return nil, err
	}
	return &periphPin{pin: p}, nil
}

// Watch implements Driver.
func (PeriphDriver) Watch(int, func(Edge)) (io.Closer, error) {
	return nil, ErrWatchNotSupported
}

func (p *periphPin) Set(high bool) error {
	return p.pin.Out(pgpio.Level(high))
}

func (p *periphPin) Close() error {
	return p.pin.Out(pgpio.Low)
}
