package sched

import (
	"errors"
	"fmt"
	"os"
)

// Policy is a Linux scheduling policy.
type Policy int

// Scheduling policies, numbered as the kernel does.
const (
	PolicyOther Policy = 0
	PolicyFIFO  Policy = 1
	PolicyRR    Policy = 2
	PolicyBatch Policy = 3
	PolicyIdle  Policy = 5
)

// Policies lists all known policies in display order.
var Policies = []Policy{PolicyOther, PolicyBatch, PolicyIdle, PolicyRR, PolicyFIFO}

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case PolicyOther:
		return "SCHED_OTHER"
	case PolicyFIFO:
		return "SCHED_FIFO"
	case PolicyRR:
		return "SCHED_RR"
	case PolicyBatch:
		return "SCHED_BATCH"
	case PolicyIdle:
		return "SCHED_IDLE"
	}
	return fmt.Sprintf("SCHED(%d)", int(p))
}

// Scheduler is the host scheduling API the Guard relies on.
// All thread operations apply to the calling OS thread.
type Scheduler interface {
	// MinPriority returns the lowest priority valid for the policy.
	MinPriority(Policy) (int, error)
	// MaxPriority returns the highest priority valid for the policy.
	MaxPriority(Policy) (int, error)
	// Current returns the policy and priority of the calling thread.
	Current() (Policy, int, error)
	// SetCurrent changes the policy and priority of the calling thread.
	SetCurrent(Policy, int) error
	// Yield relinquishes the processor.
	Yield() error
}

// Elevation is the outcome of a priority elevation attempt.
type Elevation int

// Elevation outcomes.
const (
	// NotAttempted means the host has no scheduling API, or elevation
	// was never reached.
	NotAttempted Elevation = iota
	// Elevated means the realtime policy was in effect for the action.
	Elevated
	// DeniedPermission means the caller lacks CAP_SYS_NICE.
	DeniedPermission
)

// String implements fmt.Stringer.
func (e Elevation) String() string {
	switch e {
	case Elevated:
		return "elevated"
	case DeniedPermission:
		return "denied-permission"
	}
	return "not-attempted"
}

// ParseElevation parses the String form. Unknown names are NotAttempted.
func ParseElevation(s string) Elevation {
	switch s {
	case "elevated":
		return Elevated
	case "denied-permission":
		return DeniedPermission
	}
	return NotAttempted
}

var (
	// ErrNotSupported indicates the host lacks the scheduling API.
	ErrNotSupported = errors.New("scheduling API not supported")
)

// SchedulingError is an unexpected failure of the scheduling API.
type SchedulingError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *SchedulingError) Error() string {
	return "sched: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// IsPermissionDenied tells if err is the kernel refusing a policy change
// for lack of privilege.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, os.ErrPermission)
}

// PriorityRange is the valid priority range of a policy.
type PriorityRange struct {
	Policy Policy `json:"policy"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

// PriorityRanges queries the priority range of every known policy.
func PriorityRanges(s Scheduler) ([]PriorityRange, error) {
	ranges := make([]PriorityRange, 0, len(Policies))
	for _, p := range Policies {
		r := PriorityRange{Policy: p}
		var err error
		if r.Min, err = s.MinPriority(p); err != nil {
			return nil, err
		}
		if r.Max, err = s.MaxPriority(p); err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}
