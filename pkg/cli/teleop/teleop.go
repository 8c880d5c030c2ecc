// Package teleop provides the interactive operator console. Console
// commands encode the same wire frames the binary protocol carries,
// so teleoperation and programmatic control exercise one code path.
package teleop

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/roverbotics/rover.go/pkg/actuator"
	"github.com/roverbotics/rover.go/pkg/command"
	"github.com/roverbotics/rover.go/pkg/link"
	"github.com/roverbotics/rover.go/pkg/transport/serialport"
)

var (
	portName = flag.String("port", "/dev/ttyUSB0", "Serial device of the robot link.")
	baudRate = flag.Int("baud", 115200, "Baud rate of the robot link.")
	evalOnly = flag.Bool("e", false, "Evaluate the arguments, no interactive shell.")
)

// Shell is the ishell-backed operator console.
type Shell struct {
	Shell  *ishell.Shell
	Sender *link.Sender

	speed int32
}

// DefaultSpeed is the step rate used by the motion commands until
// changed with the speed command.
const DefaultSpeed int32 = 750

// New creates a console driving the given sender.
func New(sender *link.Sender) *Shell {
	s := &Shell{
		Shell:  ishell.New(),
		Sender: sender,
		speed:  DefaultSpeed,
	}
	s.Shell.SetPrompt("rover> ")
	s.addCmds()
	return s
}

func (s *Shell) send(c *ishell.Context, cmds ...command.Command) {
	for _, cmd := range cmds {
		if err := s.Sender.Send(cmd); err != nil {
			c.Err(err)
			return
		}
	}
}

func (s *Shell) drive(left, right int32) []command.Command {
	return []command.Command{
		command.SetVelocity{Motor: command.LeftMotor, Velocity: left},
		command.SetVelocity{Motor: command.RightMotor, Velocity: right},
	}
}

func (s *Shell) addCmds() {
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "forward", Aliases: []string{"w"},
		Help: "drive forward",
		Func: func(c *ishell.Context) { s.send(c, s.drive(s.speed, s.speed)...) },
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "back", Aliases: []string{"s"},
		Help: "drive backward",
		Func: func(c *ishell.Context) { s.send(c, s.drive(-s.speed, -s.speed)...) },
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "left", Aliases: []string{"a"},
		Help: "turn left in place",
		Func: func(c *ishell.Context) { s.send(c, s.drive(-s.speed, s.speed)...) },
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "right", Aliases: []string{"d"},
		Help: "turn right in place",
		Func: func(c *ishell.Context) { s.send(c, s.drive(s.speed, -s.speed)...) },
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "stop", Aliases: []string{"q"},
		Help: "stop everything",
		Func: func(c *ishell.Context) { s.send(c, command.StopAll{}) },
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "fire", Aliases: []string{"f"},
		Help: "fire [on|off]: engage the trigger (momentary by default)",
		Func: func(c *ishell.Context) {
			switch {
			case len(c.Args) == 0:
				s.send(c, command.SetTrigger{On: true}, command.SetTrigger{On: false})
			case c.Args[0] == "on":
				s.send(c, command.SetTrigger{On: true})
			case c.Args[0] == "off":
				s.send(c, command.SetTrigger{On: false})
			default:
				c.Err(fmt.Errorf("fire: want on or off, got %q", c.Args[0]))
			}
		},
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "roam", Aliases: []string{"r"},
		Help: "roam [on|off]: toggle autonomous roaming",
		Func: func(c *ishell.Context) {
			on := len(c.Args) == 0 || c.Args[0] == "on"
			s.send(c, command.SetRoam{On: on})
		},
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "jog",
		Help: "jog left|right [back]: single step pulse",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("jog: want left or right"))
				return
			}
			motor := command.LeftMotor
			if c.Args[0] == "right" {
				motor = command.RightMotor
			}
			dir := actuator.Forward
			if len(c.Args) > 1 && c.Args[1] == "back" {
				dir = actuator.Backward
			}
			s.send(c, command.PulseStep{Motor: motor, Direction: dir})
		},
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "speed",
		Help: "speed [rate]: show or set the drive step rate",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Printf("%d steps/s\n", s.speed)
				return
			}
			v, err := strconv.ParseInt(c.Args[0], 10, 16)
			if err != nil || v <= 0 {
				c.Err(fmt.Errorf("speed: want a positive rate, got %q", c.Args[0]))
				return
			}
			s.speed = int32(v)
		},
	})
	s.Shell.AddCmd(&ishell.Cmd{
		Name: "vel",
		Help: "vel left|right <signed rate>: set one motor velocity",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("vel: want motor and rate"))
				return
			}
			motor := command.LeftMotor
			if c.Args[0] == "right" {
				motor = command.RightMotor
			}
			v, err := strconv.ParseInt(c.Args[1], 10, 16)
			if err != nil {
				c.Err(fmt.Errorf("vel: bad rate %q", c.Args[1]))
				return
			}
			s.send(c, command.SetVelocity{Motor: motor, Velocity: int32(v)})
		},
	})
}

// Main is the roverctl entry point.
func Main() {
	flag.Parse()

	port, err := serialport.Open(*portName, *baudRate)
	if err != nil {
		fmt.Printf("open %s: %v\n", *portName, err)
		return
	}
	defer port.Close()

	sh := New(&link.Sender{W: port})
	if *evalOnly {
		sh.Shell.Process(flag.Args()...)
		return
	}
	sh.Shell.Printf("connected to %s\n", *portName)
	sh.Shell.Run()
}
