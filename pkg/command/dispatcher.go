package command

import (
	"github.com/golang/glog"

	"github.com/roverbotics/rover.go/pkg/actuator"
)

// Observer is notified of executed commands. Purely observability;
// the telemetry reporter hangs off this.
type Observer interface {
	CommandExecuted(Command)
}

// ObserverFunc is the func form of Observer.
type ObserverFunc func(Command)

// CommandExecuted implements Observer.
func (f ObserverFunc) CommandExecuted(cmd Command) { f(cmd) }

// Dispatcher executes commands against the drive. It side-effects
// only through the actuator driver, and nothing it does is fatal to
// the control loop.
type Dispatcher struct {
	Drive    *actuator.Drive
	Observer Observer
}

// NewDispatcher creates a Dispatcher over drive.
func NewDispatcher(drive *actuator.Drive) *Dispatcher {
	return &Dispatcher{Drive: drive}
}

// Dispatch executes one command. Mode commands (SetRoam) have no
// actuator effect here; the motion arbiter consumes them upstream.
func (d *Dispatcher) Dispatch(cmd Command) {
	glog.V(1).Infof("dispatch: %s", cmd)
	switch c := cmd.(type) {
	case StopAll:
		d.Drive.StopAll()
	case SetTrigger:
		d.Drive.Trigger.Set(c.On)
	case SetVelocity:
		d.Drive.Motor(c.Motor == RightMotor).SetVelocity(c.Velocity)
	case PulseStep:
		// The driver never enables implicitly, so the jog sequence is
		// spelled out here: enable, latch direction, pulse.
		m := d.Drive.Motor(c.Motor == RightMotor)
		if !m.State().Enabled {
			m.SetEnabled(true)
		}
		m.SetDirection(c.Direction)
		m.StepPulse()
	case SetRoam:
		// mode change, owned by the arbiter
	}
	if d.Observer != nil {
		d.Observer.CommandExecuted(cmd)
	}
}
