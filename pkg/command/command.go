// Package command defines the closed set of operations the robot
// accepts and executes them against the actuator drive. Binary wire
// frames and teleop console input both funnel through this one
// contract.
package command

import (
	"fmt"

	"github.com/roverbotics/rover.go/pkg/actuator"
)

// MotorSel selects a drive channel.
type MotorSel int

// Motor selectors.
const (
	LeftMotor MotorSel = iota
	RightMotor
)

func (s MotorSel) String() string {
	if s == RightMotor {
		return "right"
	}
	return "left"
}

// Command is one decoded operation.
type Command interface {
	isCommand()
	fmt.Stringer
}

// StopAll de-energizes every actuator including the trigger.
type StopAll struct{}

func (StopAll) isCommand()     {}
func (StopAll) String() string { return "stop-all" }

// SetTrigger engages or releases the trigger mechanism.
type SetTrigger struct {
	On bool
}

func (SetTrigger) isCommand() {}
func (c SetTrigger) String() string {
	if c.On {
		return "trigger on"
	}
	return "trigger off"
}

// SetVelocity latches a signed continuous velocity on one motor.
// Zero de-energizes the motor.
type SetVelocity struct {
	Motor    MotorSel
	Velocity int32
}

func (SetVelocity) isCommand() {}
func (c SetVelocity) String() string {
	return fmt.Sprintf("%s velocity %d", c.Motor, c.Velocity)
}

// PulseStep jogs one motor by a single step edge in a direction.
type PulseStep struct {
	Motor     MotorSel
	Direction actuator.Direction
}

func (PulseStep) isCommand() {}
func (c PulseStep) String() string {
	return fmt.Sprintf("pulse %s %s", c.Motor, c.Direction)
}

// SetRoam enables or disables autonomous roam mode.
type SetRoam struct {
	On bool
}

func (SetRoam) isCommand() {}
func (c SetRoam) String() string {
	if c.On {
		return "roam on"
	}
	return "roam off"
}
