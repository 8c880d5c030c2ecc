package actuator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roverbotics/rover.go/pkg/hal"
)

const (
	gunPin        hal.Pin = 33
	lockoutMicros uint64  = 1000000
)

func TestTriggerFireAndRelease(t *testing.T) {
	board := hal.NewSimBoard()
	tr := NewTrigger(gunPin, lockoutMicros, board, board)

	require.True(t, tr.Set(true))
	require.True(t, tr.Firing())
	require.Equal(t, hal.Low, board.Level(gunPin))

	require.False(t, tr.Set(true), "already firing")

	require.False(t, tr.Set(false))
	require.False(t, tr.Firing())
	require.Equal(t, hal.High, board.Level(gunPin))
}

func TestTriggerLockout(t *testing.T) {
	board := hal.NewSimBoard()
	tr := NewTrigger(gunPin, lockoutMicros, board, board)

	require.True(t, tr.Set(true))
	tr.Set(false)

	// Second request inside the window: exactly one fire transition.
	board.Advance(lockoutMicros / 2)
	require.False(t, tr.Set(true))
	require.False(t, tr.Firing())

	// The denied request must not have reset the window: measured from
	// the first fire, the lockout expires at 1s, not 1.5s.
	board.Advance(lockoutMicros/2 + 1)
	require.True(t, tr.Set(true))
}

func TestStopAll(t *testing.T) {
	board := hal.NewSimBoard()
	left := NewMotor("left", MotorPins{Enable: 13, Direction: 12, Step: 14}, false, DefaultStepTiming, board, board)
	right := NewMotor("right", MotorPins{Enable: 27, Direction: 26, Step: 25}, true, DefaultStepTiming, board, board)
	drive := NewDrive(left, right, NewTrigger(gunPin, lockoutMicros, board, board))

	drive.Left.SetVelocity(500)
	drive.Right.SetVelocity(-500)
	drive.Trigger.Set(true)

	drive.StopAll()

	require.False(t, drive.Left.State().Enabled)
	require.False(t, drive.Left.State().Pulsing)
	require.False(t, drive.Right.State().Enabled)
	require.False(t, drive.Right.State().Pulsing)
	require.False(t, drive.Trigger.Firing())
}
