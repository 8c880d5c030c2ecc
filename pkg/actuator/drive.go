package actuator

import (
	"github.com/golang/glog"
)

// Drive is the complete actuator set of the chassis.
type Drive struct {
	Left    *Motor
	Right   *Motor
	Trigger *Trigger
}

// NewDrive assembles a drive from its channels.
func NewDrive(left, right *Motor, trigger *Trigger) *Drive {
	return &Drive{Left: left, Right: right, Trigger: trigger}
}

// Motor selects a channel by side; true selects the right one.
func (d *Drive) Motor(right bool) *Motor {
	if right {
		return d.Right
	}
	return d.Left
}

// StopAll deterministically de-energizes every actuator, regardless
// of prior state. No partial stop is possible: both channels and the
// trigger are released unconditionally.
func (d *Drive) StopAll() {
	d.Left.Stop()
	d.Right.Stop()
	d.Trigger.Set(false)
	glog.V(1).Info("drive: stop all")
}

// Tick advances the continuous pulse trains of both channels.
func (d *Drive) Tick() {
	d.Left.Tick()
	d.Right.Tick()
}
