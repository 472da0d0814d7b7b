// Package radio transmits and receives codes on GPIO attached 433MHz modules.
package radio

import (
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rfsend/pkg/framework"
	"github.com/robotalks/rfsend/pkg/gpio"
	"github.com/robotalks/rfsend/pkg/rf"
	"github.com/robotalks/rfsend/pkg/sched"
)

// Sender sends a transmission request.
type Sender interface {
	Send(rf.Request) (sched.Elevation, error)
}

// Transmitter bit-bangs waveforms on a GPIO pin under realtime priority.
type Transmitter struct {
	Driver   gpio.Driver
	Guard    *sched.Guard
	Protocol rf.Protocol
	// Delay holds the line for a pulse duration.
	Delay func(time.Duration)

	lock sync.Mutex
}

// NewTransmitter creates a Transmitter using protocol 1.
func NewTransmitter(drv gpio.Driver, guard *sched.Guard) *Transmitter {
	return &Transmitter{
		Driver:   drv,
		Guard:    guard,
		Protocol: rf.Protocol1,
		Delay:    gpio.Delay,
	}
}

// Send implements Sender. Requests are transmitted one at a time.
func (t *Transmitter) Send(req rf.Request) (sched.Elevation, error) {
	if err := req.Validate(); err != nil {
		return sched.NotAttempted, err
	}
	waveform := req.Waveform(t.Protocol)
	t.lock.Lock()
	defer t.lock.Unlock()
	start := time.Now()
	elevation, err := t.Guard.Run(func() error {
		return t.transmit(req.Pin, waveform)
	})
	if err == nil {
		glog.V(2).Infof("sent %v on GPIO%d in %v (%s)", req.Codes, req.Pin, time.Since(start), elevation)
	}
	return elevation, err
}

// transmit acquires the pin for the duration of one waveform.
func (t *Transmitter) transmit(pin int, waveform []rf.Pulse) (err error) {
	p, err := t.Driver.OpenOutput(pin)
	if err != nil {
		return err
	}
	defer func() {
		var errs fx.AggregatedError
		err = errs.Add(err, p.Set(false), p.Close()).Aggregate()
	}()
	delay := t.Delay
	if delay == nil {
		delay = gpio.Delay
	}
	for _, pulse := range waveform {
		if err := p.Set(pulse.High); err != nil {
			return err
		}
		delay(pulse.Duration)
	}
	return nil
}
