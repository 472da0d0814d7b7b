package radio

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/rfsend/pkg/gpio"
	"github.com/robotalks/rfsend/pkg/rf"
)

// Receiver decodes codes from a receiver module.
type Receiver struct {
	Driver  gpio.Driver
	Pin     int
	Decoder *rf.Decoder
}

// NewReceiver creates a Receiver decoding protocol 1.
func NewReceiver(drv gpio.Driver, pin int) *Receiver {
	return &Receiver{Driver: drv, Pin: pin, Decoder: rf.NewDecoder()}
}

// Run reports decoded codes until ctx is done.
func (r *Receiver) Run(ctx context.Context, fn func(rf.Received)) error {
	edges := make(chan gpio.Edge, 256)
	watcher, err := r.Driver.Watch(r.Pin, func(e gpio.Edge) {
		select {
		case edges <- e:
		default:
			glog.Warning("edge dropped")
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()
	var last gpio.Edge
	var started bool
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-edges:
			if started {
				if rcv, ok := r.Decoder.Feed(e.Timestamp - last.Timestamp); ok {
					fn(rcv)
				}
			}
			last, started = e, true
		}
	}
}
