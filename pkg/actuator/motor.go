// Package actuator drives the chassis outputs: two stepper channels
// and the trigger mechanism. All mutation happens on the command loop;
// nothing here is safe for concurrent use.
package actuator

import (
	"github.com/golang/glog"

	"github.com/roverbotics/rover.go/pkg/hal"
)

// Direction of motor rotation.
type Direction int

// Directions.
const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// MotorPins names the output lines of one stepper driver channel. The
// enable line is active-low, matching common step/dir driver modules.
type MotorPins struct {
	Enable    hal.Pin
	Direction hal.Pin
	Step      hal.Pin
}

// StepTiming holds the signal constraints of the step interface.
// These are hold/setup requirements of the driver hardware, not
// cosmetic delays: violating either risks lost steps.
type StepTiming struct {
	// DirSetupMicros is the minimum time the direction line must be
	// stable before a step edge.
	DirSetupMicros uint32
	// StepHoldMicros is the minimum width of the low phase of a step
	// pulse.
	StepHoldMicros uint32
}

// DefaultStepTiming matches the drivers on the reference chassis.
var DefaultStepTiming = StepTiming{DirSetupMicros: 5, StepHoldMicros: 3}

// MotorState is a snapshot of one motor channel.
type MotorState struct {
	Enabled   bool
	Direction Direction
	Pulsing   bool
	// StepRate is the latched continuous step rate in steps per
	// second; zero when not in velocity mode.
	StepRate uint32
}

// Motor drives one stepper channel.
//
// Enable and direction/step are independent axes: a disabled channel
// produces no physical motion, and the driver never enables a channel
// implicitly on a step call. Sequencing enable before stepping is the
// caller's responsibility (SetVelocity is the one exception, since a
// velocity is a complete motion request).
type Motor struct {
	name      string
	pins      MotorPins
	invertDir bool
	timing    StepTiming
	out       hal.Outputs
	clock     hal.Clock

	state      MotorState
	dirWriteAt uint64
	nextStepAt uint64
}

// NewMotor creates a motor channel over the given board capabilities.
// invertDir flips the direction line polarity for mirrored mounting.
func NewMotor(name string, pins MotorPins, invertDir bool, timing StepTiming, out hal.Outputs, clock hal.Clock) *Motor {
	m := &Motor{
		name:      name,
		pins:      pins,
		invertDir: invertDir,
		timing:    timing,
		out:       out,
		clock:     clock,
	}
	// Idle lines: channel disabled, step high (pulses are low-then-high).
	m.out.Write(pins.Enable, hal.High)
	m.out.Write(pins.Step, hal.High)
	m.writeDirection(Forward)
	return m
}

// Name returns the channel name.
func (m *Motor) Name() string { return m.name }

// State returns a snapshot of the channel.
func (m *Motor) State() MotorState { return m.state }

// SetEnabled energizes or releases the channel.
func (m *Motor) SetEnabled(on bool) {
	m.state.Enabled = on
	if on {
		m.out.Write(m.pins.Enable, hal.Low)
	} else {
		m.out.Write(m.pins.Enable, hal.High)
		m.state.Pulsing = false
		m.state.StepRate = 0
	}
}

// SetDirection latches the direction line. The setup time before the
// next step edge is enforced by StepPulse, not here.
func (m *Motor) SetDirection(d Direction) {
	if m.state.Direction == d {
		return
	}
	m.writeDirection(d)
}

func (m *Motor) writeDirection(d Direction) {
	lvl := hal.High
	if d == Backward {
		lvl = hal.Low
	}
	if m.invertDir {
		lvl = !lvl
	}
	m.out.Write(m.pins.Direction, lvl)
	m.state.Direction = d
	m.dirWriteAt = m.clock.Micros()
}

// StepPulse issues one step edge: a low-then-high transition on the
// step line, after making sure the direction line has been stable for
// the setup time. Pulsing a disabled channel is a no-op.
func (m *Motor) StepPulse() {
	if !m.state.Enabled {
		glog.V(3).Infof("motor %s: step while disabled, skipped", m.name)
		return
	}
	if settled := m.clock.Micros() - m.dirWriteAt; settled < uint64(m.timing.DirSetupMicros) {
		m.clock.DelayMicros(m.timing.DirSetupMicros - uint32(settled))
	}
	m.out.Write(m.pins.Step, hal.Low)
	m.clock.DelayMicros(m.timing.StepHoldMicros)
	m.out.Write(m.pins.Step, hal.High)
}

// SetVelocity latches a continuous step rate. The sign selects the
// direction and the magnitude the rate in steps per second. Zero
// de-energizes the channel immediately rather than stepping it.
func (m *Motor) SetVelocity(v int32) {
	if v == 0 {
		m.SetEnabled(false)
		return
	}
	if v > 0 {
		m.SetDirection(Forward)
		m.state.StepRate = uint32(v)
	} else {
		m.SetDirection(Backward)
		m.state.StepRate = uint32(-v)
	}
	m.SetEnabled(true)
	m.state.Pulsing = true
	m.nextStepAt = m.clock.Micros()
}

// maxStepsPerTick bounds the work done in one actuation tick so a
// stalled loop cannot burst an unbounded pulse train on recovery.
const maxStepsPerTick = 64

// Tick emits the step pulses due since the last tick for the latched
// velocity, if any.
func (m *Motor) Tick() {
	if !m.state.Pulsing || m.state.StepRate == 0 {
		return
	}
	period := uint64(1000000) / uint64(m.state.StepRate)
	if period == 0 {
		period = 1
	}
	now := m.clock.Micros()
	for i := 0; m.nextStepAt <= now && i < maxStepsPerTick; i++ {
		m.StepPulse()
		m.nextStepAt += period
		now = m.clock.Micros()
	}
	if m.nextStepAt <= now {
		// Behind by more than the burst budget; drop the backlog.
		m.nextStepAt = now + period
	}
}

// Stop de-energizes the channel.
func (m *Motor) Stop() {
	m.SetEnabled(false)
}
