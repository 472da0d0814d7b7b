//go:build !linux
// +build !linux

package sched

type hostScheduler struct{}

// Host returns the Scheduler of the running host.
func Host() Scheduler {
	return hostScheduler{}
}

func (hostScheduler) MinPriority(Policy) (int, error) { return 0, ErrNotSupported }
func (hostScheduler) MaxPriority(Policy) (int, error) { return 0, ErrNotSupported }
func (hostScheduler) Current() (Policy, int, error)   { return PolicyOther, 0, ErrNotSupported }
func (hostScheduler) SetCurrent(Policy, int) error    { return ErrNotSupported }
func (hostScheduler) Yield() error                    { return ErrNotSupported }
