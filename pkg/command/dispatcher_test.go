package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roverbotics/rover.go/pkg/actuator"
	"github.com/roverbotics/rover.go/pkg/hal"
	"github.com/roverbotics/rover.go/pkg/wire"
)

const (
	pinLeftEn    hal.Pin = 23
	pinLeftDir   hal.Pin = 4
	pinLeftStep  hal.Pin = 5
	pinRightEn   hal.Pin = 27
	pinRightDir  hal.Pin = 26
	pinRightStep hal.Pin = 25
	pinGun       hal.Pin = 33
)

func newTestDrive(board *hal.SimBoard) *actuator.Drive {
	left := actuator.NewMotor("left",
		actuator.MotorPins{Enable: pinLeftEn, Direction: pinLeftDir, Step: pinLeftStep},
		false, actuator.DefaultStepTiming, board, board)
	right := actuator.NewMotor("right",
		actuator.MotorPins{Enable: pinRightEn, Direction: pinRightDir, Step: pinRightStep},
		true, actuator.DefaultStepTiming, board, board)
	trigger := actuator.NewTrigger(pinGun, 1000000, board, board)
	return actuator.NewDrive(left, right, trigger)
}

func TestDispatchStopAll(t *testing.T) {
	board := hal.NewSimBoard()
	drive := newTestDrive(board)
	d := NewDispatcher(drive)

	d.Dispatch(SetVelocity{Motor: LeftMotor, Velocity: 750})
	d.Dispatch(SetVelocity{Motor: RightMotor, Velocity: -750})
	d.Dispatch(SetTrigger{On: true})

	d.Dispatch(StopAll{})

	for _, m := range []*actuator.Motor{drive.Left, drive.Right} {
		st := m.State()
		require.False(t, st.Enabled, "%s still enabled", m.Name())
		require.False(t, st.Pulsing)
		require.Zero(t, st.StepRate)
	}
	require.False(t, drive.Trigger.Firing())
	// Physical lines are back at idle too (active-low outputs).
	require.Equal(t, hal.High, board.Level(pinLeftEn))
	require.Equal(t, hal.High, board.Level(pinRightEn))
	require.Equal(t, hal.High, board.Level(pinGun))
}

func TestDispatchDecodedVelocity(t *testing.T) {
	board := hal.NewSimBoard()
	drive := newTestDrive(board)
	d := NewDispatcher(drive)

	f, err := wire.Decode([]byte{wire.CmdSetLeftVelocity, 0x80, 0x64, '\n'}) // param 32868
	require.NoError(t, err)
	cmd, err := Decode(f)
	require.NoError(t, err)
	require.Equal(t, SetVelocity{Motor: LeftMotor, Velocity: 100}, cmd)

	d.Dispatch(cmd)

	st := drive.Left.State()
	require.True(t, st.Enabled)
	require.True(t, st.Pulsing)
	require.Equal(t, actuator.Forward, st.Direction)
	require.Equal(t, uint32(100), st.StepRate)
	// Right channel untouched.
	require.False(t, drive.Right.State().Enabled)
}

func TestDispatchPulseStepEnables(t *testing.T) {
	board := hal.NewSimBoard()
	drive := newTestDrive(board)
	d := NewDispatcher(drive)

	require.False(t, drive.Right.State().Enabled)
	d.Dispatch(PulseStep{Motor: RightMotor, Direction: actuator.Backward})

	st := drive.Right.State()
	require.True(t, st.Enabled)
	require.Equal(t, actuator.Backward, st.Direction)
	require.False(t, st.Pulsing, "a jog must not latch a velocity")

	var lows int
	for _, tr := range board.Trace(pinRightStep) {
		if tr.Level == hal.Low {
			lows++
		}
	}
	require.Equal(t, 1, lows, "exactly one step edge")
}

func TestDispatchTrigger(t *testing.T) {
	board := hal.NewSimBoard()
	drive := newTestDrive(board)
	d := NewDispatcher(drive)

	d.Dispatch(SetTrigger{On: true})
	require.True(t, drive.Trigger.Firing())
	require.Equal(t, hal.Low, board.Level(pinGun))

	d.Dispatch(SetTrigger{On: false})
	require.False(t, drive.Trigger.Firing())
	require.Equal(t, hal.High, board.Level(pinGun))
}

func TestDispatchObserver(t *testing.T) {
	board := hal.NewSimBoard()
	d := NewDispatcher(newTestDrive(board))

	var seen []Command
	d.Observer = ObserverFunc(func(cmd Command) { seen = append(seen, cmd) })

	d.Dispatch(StopAll{})
	d.Dispatch(SetRoam{On: true})
	require.Equal(t, []Command{StopAll{}, SetRoam{On: true}}, seen)
}
