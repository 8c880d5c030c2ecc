// Package arbiter fuses manual commands and ranging snapshots into a
// single motion decision. It is the only writer of actuator state and
// runs on the command loop.
package arbiter

import (
	"github.com/golang/glog"

	"github.com/roverbotics/rover.go/pkg/command"
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/msgs"
	"github.com/roverbotics/rover.go/pkg/ranging"
)

// Mode of the arbiter state machine.
type Mode int

// Modes.
const (
	Stopped Mode = iota
	Manual
	Autonomous
)

func (m Mode) String() string {
	switch m {
	case Manual:
		return "manual"
	case Autonomous:
		return "autonomous"
	default:
		return "stopped"
	}
}

// Intent is the arbitrated motion direction.
type Intent int

// Intents.
const (
	IntentStop Intent = iota
	IntentForward
	IntentLeft
	IntentRight

	// intentNone forces re-actuation on the next decision.
	intentNone Intent = -1
)

func (i Intent) String() string {
	switch i {
	case IntentForward:
		return "forward"
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	case IntentStop:
		return "stop"
	default:
		return "none"
	}
}

// Params tunes autonomous roaming.
type Params struct {
	// WallLimitMicros: a center echo below this duration reads as a
	// wall ahead.
	WallLimitMicros uint32
	// CruiseRate is the step rate for straight runs, steps/second.
	CruiseRate int32
	// TurnRate is the step rate during differential turns.
	TurnRate int32
}

// DefaultParams matches the reference chassis.
var DefaultParams = Params{WallLimitMicros: 4000, CruiseRate: 750, TurnRate: 750}

// SnapshotSource provides the latest ranging snapshot without
// blocking.
type SnapshotSource interface {
	Latest() *ranging.Snapshot
}

// Observer is notified when the computed intent changes.
type Observer interface {
	IntentChanged(from, to Intent, mode Mode)
}

// Arbiter is the motion state machine. Manual input always preempts
// autonomous roaming: commands are consumed before any roam decision,
// so an in-flight autonomous intent can never overwrite motor state a
// newer manual command set in the same tick.
type Arbiter struct {
	dispatcher *command.Dispatcher
	source     SnapshotSource
	params     Params

	Observer Observer

	mode       Mode
	lastIntent Intent
}

// New creates an Arbiter in the Stopped state.
func New(dispatcher *command.Dispatcher, source SnapshotSource, params Params) *Arbiter {
	return &Arbiter{
		dispatcher: dispatcher,
		source:     source,
		params:     params,
		mode:       Stopped,
		lastIntent: intentNone,
	}
}

// AddToLoop implements LoopAdder.
func (a *Arbiter) AddToLoop(l *fx.Loop) {
	l.At(fx.StageControl, a)
}

// Mode returns the current mode.
func (a *Arbiter) Mode() Mode { return a.mode }

// LastIntent returns the last actuated intent.
func (a *Arbiter) LastIntent() Intent { return a.lastIntent }

// Control implements Controller. Messages are consumed first, so a
// manual command arriving in the same tick as a roam decision wins.
func (a *Arbiter) Control(cc fx.ControlContext) error {
	manual := false
	cc.Messages().Each(func(msg any) bool {
		cm, ok := msg.(msgs.CommandMsg)
		if !ok {
			return false
		}
		a.apply(cm.Cmd)
		if _, isRoam := cm.Cmd.(command.SetRoam); !isRoam {
			manual = true
		}
		return true
	})

	if a.mode == Autonomous && !manual {
		a.roamTick()
	}
	return nil
}

// apply executes one command and performs the mode transition it
// implies.
func (a *Arbiter) apply(cmd command.Command) {
	switch c := cmd.(type) {
	case command.StopAll:
		a.transition(Stopped)
		a.lastIntent = IntentStop
		a.dispatcher.Dispatch(cmd)
	case command.SetRoam:
		if c.On {
			a.transition(Autonomous)
			// Force the first roam decision to actuate.
			a.lastIntent = intentNone
		} else {
			a.transition(Stopped)
			a.lastIntent = IntentStop
			// Leaving roam must not leave a motor energized with a
			// stale direction.
			a.dispatcher.Dispatch(command.StopAll{})
		}
	default:
		a.transition(Manual)
		a.lastIntent = intentNone
		a.dispatcher.Dispatch(cmd)
	}
}

func (a *Arbiter) transition(to Mode) {
	if a.mode != to {
		glog.V(1).Infof("arbiter: %s -> %s", a.mode, to)
		a.mode = to
	}
}

// roamTick computes the autonomous intent from the latest ranging
// snapshot and re-actuates only when it changed since the previous
// tick.
func (a *Arbiter) roamTick() {
	intent := a.decide(a.source.Latest())
	if intent == a.lastIntent {
		return
	}
	from := a.lastIntent
	a.lastIntent = intent
	a.actuate(intent)
	if a.Observer != nil {
		a.Observer.IntentChanged(from, intent, a.mode)
	}
}

// Sensor geometry of the reference array: 0,1 on the left flank,
// 2 center, 3,4 on the right flank.
const (
	leftOuter   = 0
	leftInner   = 1
	centerFront = 2
	rightInner  = 3
	rightOuter  = 4
)

// decide picks the roam intent. A nil snapshot or a stale center slot
// reads as open space: Forward. A wall ahead turns away from the
// nearer flank; a tie turns right, deterministically.
func (a *Arbiter) decide(snap *ranging.Snapshot) Intent {
	center := uint64(snap.Duration(centerFront))
	if center >= uint64(a.params.WallLimitMicros) {
		return IntentForward
	}
	left := uint64(snap.Duration(leftOuter)) + uint64(snap.Duration(leftInner))/2
	right := uint64(snap.Duration(rightOuter)) + uint64(snap.Duration(rightInner))/2
	if left <= right {
		// Left flank is nearer (or equal): turn away from it.
		return IntentRight
	}
	return IntentLeft
}

// actuate issues the drive commands for an intent through the same
// dispatcher contract manual commands use.
func (a *Arbiter) actuate(intent Intent) {
	cruise, turn := a.params.CruiseRate, a.params.TurnRate
	switch intent {
	case IntentForward:
		a.dispatcher.Dispatch(command.SetVelocity{Motor: command.LeftMotor, Velocity: cruise})
		a.dispatcher.Dispatch(command.SetVelocity{Motor: command.RightMotor, Velocity: cruise})
	case IntentLeft:
		a.dispatcher.Dispatch(command.SetVelocity{Motor: command.LeftMotor, Velocity: -turn})
		a.dispatcher.Dispatch(command.SetVelocity{Motor: command.RightMotor, Velocity: turn})
	case IntentRight:
		a.dispatcher.Dispatch(command.SetVelocity{Motor: command.LeftMotor, Velocity: turn})
		a.dispatcher.Dispatch(command.SetVelocity{Motor: command.RightMotor, Velocity: -turn})
	case IntentStop:
		a.dispatcher.Dispatch(command.StopAll{})
	}
}
