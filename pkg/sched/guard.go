package sched

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/golang/glog"
)

// Logger receives the diagnostics of a Guard.
type Logger interface {
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

// GlogLogger adapts glog to Logger.
type GlogLogger struct{}

// Infof implements Logger.
func (GlogLogger) Infof(format string, args ...interface{}) {
	glog.Infof(format, args...)
}

// Warningf implements Logger.
func (GlogLogger) Warningf(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}

// Guard wraps actions with realtime scheduling elevation.
// A Guard is not safe for concurrent use; callers serialize Run.
type Guard struct {
	Scheduler Scheduler
	Policy    Policy
	Logger    Logger
	// Executable is named in the remediation hint when elevation is denied.
	Executable string
}

// NewGuard creates a Guard elevating to SCHED_RR on the host scheduler.
func NewGuard() *Guard {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	// setcap doesn't follow symlinks.
	if real, err := filepath.EvalSymlinks(exe); err == nil {
		exe = real
	}
	return &Guard{
		Scheduler:  Host(),
		Policy:     PolicyRR,
		Logger:     GlogLogger{},
		Executable: exe,
	}
}

type threadState struct {
	policy   Policy
	priority int
}

// Run runs action exactly once, elevated if the host allows it.
//
// Permission denial is logged and reported as DeniedPermission; a host
// without the scheduling API reports NotAttempted. Any other failure of the
// scheduling API is returned as *SchedulingError and action is not run.
// The error of action is returned as is.
func (g *Guard) Run(action func() error) (Elevation, error) {
	runtime.LockOSThread()
	prev, elevation, err := g.elevate()
	if elevation != Elevated {
		runtime.UnlockOSThread()
		if err != nil {
			return elevation, err
		}
		return elevation, action()
	}
	defer g.release(prev)
	return elevation, action()
}

func (g *Guard) elevate() (prev threadState, elevation Elevation, err error) {
	policy := g.Policy
	if policy == PolicyOther {
		policy = PolicyRR
	}
	priority, err := g.Scheduler.MaxPriority(policy)
	if err == ErrNotSupported {
		return prev, NotAttempted, nil
	}
	if err != nil {
		return prev, NotAttempted, &SchedulingError{Op: "get max priority of " + policy.String(), Err: err}
	}
	if prev.policy, prev.priority, err = g.Scheduler.Current(); err != nil {
		if err == ErrNotSupported {
			return prev, NotAttempted, nil
		}
		return prev, NotAttempted, &SchedulingError{Op: "get current policy", Err: err}
	}
	err = g.Scheduler.SetCurrent(policy, priority)
	switch {
	case err == nil:
		return prev, Elevated, nil
	case err == ErrNotSupported:
		return prev, NotAttempted, nil
	case IsPermissionDenied(err):
		g.logger().Warningf("set %s priority %d: %v", policy, priority, err)
		g.logger().Infof("No scheduling capability, running at normal priority. "+
			"To allow realtime priority run `sudo setcap cap_sys_nice+ep %s`; "+
			"setcap does not work on symlinks, give the path of the actual executable.",
			g.executable())
		return prev, DeniedPermission, nil
	}
	return prev, NotAttempted, &SchedulingError{Op: "set " + policy.String(), Err: err}
}

// release yields once and restores the thread. The thread stays locked
// to the goroutine if it cannot be restored.
func (g *Guard) release(prev threadState) {
	if err := g.Scheduler.Yield(); err != nil {
		g.logger().Warningf("yield: %v", err)
	}
	if err := g.Scheduler.SetCurrent(prev.policy, prev.priority); err != nil {
		g.logger().Warningf("restore %s priority %d: %v", prev.policy, prev.priority, err)
		return
	}
	runtime.UnlockOSThread()
}

func (g *Guard) logger() Logger {
	if g.Logger == nil {
		return GlogLogger{}
	}
	return g.Logger
}

func (g *Guard) executable() string {
	if g.Executable == "" {
		return "/path/to/executable"
	}
	return g.Executable
}
