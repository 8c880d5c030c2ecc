package actuator

import (
	"github.com/golang/glog"

	"github.com/roverbotics/rover.go/pkg/hal"
)

// TriggerState is a snapshot of the trigger mechanism.
type TriggerState struct {
	Firing bool
	// LastFireMicros is the clock reading of the last successful fire
	// transition; meaningful only if HasFired.
	LastFireMicros uint64
	HasFired       bool
}

// Trigger controls the fire mechanism over an active-low output line.
//
// A minimum inter-fire interval (the lockout) is enforced from the
// last successful fire, not from request time. Fire requests inside
// the window are benign no-ops and never extend or reset the window.
type Trigger struct {
	pin           hal.Pin
	out           hal.Outputs
	clock         hal.Clock
	lockoutMicros uint64

	state TriggerState
}

// NewTrigger creates a trigger with the given lockout window in
// microseconds.
func NewTrigger(pin hal.Pin, lockoutMicros uint64, out hal.Outputs, clock hal.Clock) *Trigger {
	t := &Trigger{pin: pin, out: out, clock: clock, lockoutMicros: lockoutMicros}
	t.out.Write(pin, hal.High) // idle
	return t
}

// State returns a snapshot of the trigger.
func (t *Trigger) State() TriggerState { return t.state }

// Firing reports whether the trigger is currently engaged.
func (t *Trigger) Firing() bool { return t.state.Firing }

// Set engages (true) or releases (false) the trigger. It reports
// whether a physical fire transition happened.
func (t *Trigger) Set(on bool) bool {
	if !on {
		if t.state.Firing {
			t.state.Firing = false
			t.out.Write(t.pin, hal.High)
		}
		return false
	}
	if t.state.Firing {
		return false
	}
	now := t.clock.Micros()
	if t.state.HasFired && now-t.state.LastFireMicros < t.lockoutMicros {
		glog.V(2).Infof("trigger: fire request inside lockout (%dus left), skipped",
			t.lockoutMicros-(now-t.state.LastFireMicros))
		return false
	}
	t.state.Firing = true
	t.state.HasFired = true
	t.state.LastFireMicros = now
	t.out.Write(t.pin, hal.Low)
	return true
}
