// Package toggle alternately sends on and off codes to measure how
// reliably a receiver follows.
package toggle

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/robotalks/rfsend/pkg/rf"
)

// DefaultDelay is the wait before every transmission.
const DefaultDelay = 500 * time.Millisecond

// Default test codes.
const (
	DefaultOnCode  rf.Code = 12345
	DefaultOffCode rf.Code = 54321
)

// SendFunc transmits a list of codes.
type SendFunc func([]rf.Code) error

// Toggler runs the on/off cycle.
type Toggler struct {
	On    []rf.Code
	Off   []rf.Code
	Send  SendFunc
	Delay time.Duration
	// Count is the number of cycles, 0 runs until canceled.
	Count int
	// Out receives progress messages.
	Out io.Writer
	// Sleep waits for d unless ctx is done first.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Toggler with the default delay running indefinitely.
func New(on, off []rf.Code, send SendFunc) *Toggler {
	return &Toggler{
		On:    on,
		Off:   off,
		Send:  send,
		Delay: DefaultDelay,
		Out:   ioutil.Discard,
		Sleep: Sleep,
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run toggles until Count cycles completed, ctx is canceled or a send
// fails. It returns the number of completed cycles. Cancellation is only
// observed while waiting, never in the middle of a transmission.
func (t *Toggler) Run(ctx context.Context) (int, error) {
	var completed int
	for t.Count <= 0 || completed < t.Count {
		if err := t.step(ctx, "Turning on...", t.On); err != nil {
			return completed, err
		}
		if err := t.step(ctx, "Turning off...", t.Off); err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

func (t *Toggler) step(ctx context.Context, msg string, codes []rf.Code) error {
	sleep := t.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	if err := sleep(ctx, t.Delay); err != nil {
		return err
	}
	if t.Out != nil {
		fmt.Fprintln(t.Out, msg)
	}
	return t.Send(codes)
}
