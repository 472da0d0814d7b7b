package gpio

import (
	"io"
	"sync"

	"github.com/golang/glog"
)

// NullDriver drives no hardware and records what it was asked to do.
type NullDriver struct {
	lock  sync.Mutex
	opens map[int]int
}

// NullPin is the Pin of NullDriver.
type NullPin struct {
	Pin     int
	Changes int
	High    bool
	Closed  bool
}

func init() {
	Register("null", func(Config) (Driver, error) { return &NullDriver{}, nil })
}

// Name implements Driver.
func (d *NullDriver) Name() string { return "null" }

// OpenOutput implements Driver.
func (d *NullDriver) OpenOutput(pin int) (Pin, error) {
	d.lock.Lock()
	if d.opens == nil {
		d.opens = make(map[int]int)
	}
	d.opens[pin]++
	d.lock.Unlock()
	glog.V(2).Infof("null GPIO%d opened", pin)
	return &NullPin{Pin: pin}, nil
}

// Opens returns the number of times the pin was opened.
func (d *NullDriver) Opens(pin int) int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.opens[pin]
}

// Watch implements Driver.
func (d *NullDriver) Watch(int, func(Edge)) (io.Closer, error) {
	return nil, ErrWatchNotSupported
}

// Set implements Pin.
func (p *NullPin) Set(high bool) error {
	if p.High != high {
		p.Changes++
	}
	p.High = high
	return nil
}

// Close implements Pin.
func (p *NullPin) Close() error {
	p.Closed = true
	glog.V(2).Infof("null GPIO%d closed after %d changes", p.Pin, p.Changes)
	return nil
}
