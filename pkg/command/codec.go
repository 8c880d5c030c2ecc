package command

import (
	"github.com/roverbotics/rover.go/pkg/actuator"
	"github.com/roverbotics/rover.go/pkg/wire"
)

// Pulse selectors carried in the low two bits of the PulseStep
// parameter.
const (
	pulseLeftForward   = 0
	pulseLeftBackward  = 1
	pulseRightForward  = 2
	pulseRightBackward = 3
)

// Decode maps a wire frame to a Command. An unrecognized command id
// yields an UnknownCommandError and no actuator effect.
func Decode(f wire.Frame) (Command, error) {
	switch f.Command {
	case wire.CmdStopAll:
		return StopAll{}, nil
	case wire.CmdSetTrigger:
		return SetTrigger{On: f.Param != 0}, nil
	case wire.CmdSetLeftVelocity:
		return SetVelocity{Motor: LeftMotor, Velocity: f.Velocity()}, nil
	case wire.CmdSetRightVelocity:
		return SetVelocity{Motor: RightMotor, Velocity: f.Velocity()}, nil
	case wire.CmdPulseStep:
		return decodePulse(f.Param), nil
	case wire.CmdSetRoam:
		return SetRoam{On: f.Param != 0}, nil
	}
	return nil, &UnknownCommandError{ID: f.Command}
}

func decodePulse(param uint16) PulseStep {
	switch param & 0x03 {
	case pulseLeftBackward:
		return PulseStep{Motor: LeftMotor, Direction: actuator.Backward}
	case pulseRightForward:
		return PulseStep{Motor: RightMotor, Direction: actuator.Forward}
	case pulseRightBackward:
		return PulseStep{Motor: RightMotor, Direction: actuator.Backward}
	default:
		return PulseStep{Motor: LeftMotor, Direction: actuator.Forward}
	}
}

// Encode maps a Command to its wire frame. It is the host-side half
// of the protocol; Decode(Encode(c).Frame) reproduces c.
func Encode(cmd Command) wire.Frame {
	switch c := cmd.(type) {
	case StopAll:
		return wire.Frame{Command: wire.CmdStopAll}
	case SetTrigger:
		return wire.Frame{Command: wire.CmdSetTrigger, Param: boolParam(c.On)}
	case SetVelocity:
		id := wire.CmdSetLeftVelocity
		if c.Motor == RightMotor {
			id = wire.CmdSetRightVelocity
		}
		return wire.Frame{Command: id, Param: wire.VelocityParam(int16(c.Velocity))}
	case PulseStep:
		sel := uint16(pulseLeftForward)
		switch {
		case c.Motor == LeftMotor && c.Direction == actuator.Backward:
			sel = pulseLeftBackward
		case c.Motor == RightMotor && c.Direction == actuator.Forward:
			sel = pulseRightForward
		case c.Motor == RightMotor && c.Direction == actuator.Backward:
			sel = pulseRightBackward
		}
		return wire.Frame{Command: wire.CmdPulseStep, Param: sel}
	case SetRoam:
		return wire.Frame{Command: wire.CmdSetRoam, Param: boolParam(c.On)}
	}
	panic("unreachable: closed command set")
}

func boolParam(on bool) uint16 {
	if on {
		return 1
	}
	return 0
}
