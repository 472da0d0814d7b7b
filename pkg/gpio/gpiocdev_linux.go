//go:build linux
// +build linux

package gpio

import (
	"io"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "rfsend"

// CdevDriver uses the GPIO character device of the kernel.
type CdevDriver struct {
	Chip string
}

type cdevPin struct {
	line *gpiocdev.Line
}

func init() {
	Register("gpiocdev", func(c Config) (Driver, error) {
		chip := c.Chip
		if chip == "" {
			chip = "gpiochip0"
		}
		return &CdevDriver{Chip: chip}, nil
	})
}

// Name implements Driver.
func (d *CdevDriver) Name() string { return "gpiocdev" }

// OpenOutput implements Driver.
func (d *CdevDriver) OpenOutput(pin int) (Pin, error) {
	l, err := gpiocdev.RequestLine(d.Chip, pin, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, err
	}
	return &cdevPin{line: l}, nil
}

// Watch implements Driver.
func (d *CdevDriver) Watch(pin int, fn func(Edge)) (io.Closer, error) {
	handler := func(evt gpiocdev.LineEvent) {
		fn(Edge{Timestamp: evt.Timestamp, Rising: evt.Type == gpiocdev.LineEventRisingEdge})
	}
	l, err := gpiocdev.RequestLine(d.Chip, pin,
		gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithConsumer(consumer),
		gpiocdev.WithEventHandler(handler))
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (p *cdevPin) Set(high bool) error {
	v := 0
	if high {
		v = 1
	}
	return p.line.SetValue(v)
}

func (p *cdevPin) Close() error {
	p.line.SetValue(0)
	// revert to input so the transmitter is not left driven.
	p.line.Reconfigure(gpiocdev.AsInput)
	return p.line.Close()
}
