//go:build linux
// +build linux

package sched

import (
	"golang.org/x/sys/unix"
)

type hostScheduler struct{}

// Host returns the Scheduler of the running host.
func Host() Scheduler {
	return hostScheduler{}
}

func (hostScheduler) MinPriority(p Policy) (int, error) {
	r, _, errno := unix.RawSyscall(unix.SYS_SCHED_GET_PRIORITY_MIN, uintptr(p), 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return int(r), nil
}

func (hostScheduler) MaxPriority(p Policy) (int, error) {
	r, _, errno := unix.RawSyscall(unix.SYS_SCHED_GET_PRIORITY_MAX, uintptr(p), 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return int(r), nil
}

// Current reads the attributes of the calling thread.
func (hostScheduler) Current() (Policy, int, error) {
	attr, err := unix.SchedGetAttr(0, 0)
	if err != nil {
		return PolicyOther, 0, err
	}
	return Policy(attr.Policy), int(attr.Priority), nil
}

// SetCurrent keeps the nice value of the calling thread so restoring
// SCHED_OTHER doesn't reset it.
func (hostScheduler) SetCurrent(p Policy, priority int) error {
	attr, err := unix.SchedGetAttr(0, 0)
	if err != nil {
		return err
	}
	attr.Policy = uint32(p)
	attr.Priority = uint32(priority)
	attr.Flags = 0
	return unix.SchedSetAttr(0, attr, 0)
}

func (hostScheduler) Yield() error {
	_, _, errno := unix.Syscall(unix.SYS_SCHED_YIELD, 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
