package arbiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roverbotics/rover.go/pkg/actuator"
	"github.com/roverbotics/rover.go/pkg/command"
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/hal"
	"github.com/roverbotics/rover.go/pkg/msgs"
	"github.com/roverbotics/rover.go/pkg/ranging"
)

type stubContext struct {
	msgs fx.Messages
}

func (c *stubContext) Context() context.Context { return context.Background() }
func (c *stubContext) Time() time.Time          { return time.Time{} }
func (c *stubContext) Messages() *fx.Messages   { return &c.msgs }
func (c *stubContext) Loop() *fx.Loop           { return nil }

type stubSource struct {
	snap *ranging.Snapshot
}

func (s *stubSource) Latest() *ranging.Snapshot { return s.snap }

func snapshot(durations ...uint32) *ranging.Snapshot {
	return &ranging.Snapshot{Cycle: 1, Durations: durations}
}

type harness struct {
	board  *hal.SimBoard
	drive  *actuator.Drive
	source *stubSource
	arb    *Arbiter

	dispatched []command.Command
}

func newHarness(t *testing.T) *harness {
	h := &harness{board: hal.NewSimBoard(), source: &stubSource{}}
	left := actuator.NewMotor("left",
		actuator.MotorPins{Enable: 23, Direction: 4, Step: 5},
		false, actuator.DefaultStepTiming, h.board, h.board)
	right := actuator.NewMotor("right",
		actuator.MotorPins{Enable: 27, Direction: 26, Step: 25},
		true, actuator.DefaultStepTiming, h.board, h.board)
	trigger := actuator.NewTrigger(33, 1000000, h.board, h.board)
	h.drive = actuator.NewDrive(left, right, trigger)
	d := command.NewDispatcher(h.drive)
	d.Observer = command.ObserverFunc(func(cmd command.Command) {
		h.dispatched = append(h.dispatched, cmd)
	})
	h.arb = New(d, h.source, DefaultParams)
	return h
}

// tick runs one control iteration carrying the given messages.
func (h *harness) tick(t *testing.T, messages ...any) {
	cc := &stubContext{}
	cc.msgs.Add(messages...)
	require.NoError(t, h.arb.Control(cc))
}

func TestManualCommand(t *testing.T) {
	h := newHarness(t)

	h.tick(t, msgs.CommandMsg{Cmd: command.SetVelocity{Motor: command.LeftMotor, Velocity: 500}, Source: "serial"})

	require.Equal(t, Manual, h.arb.Mode())
	st := h.drive.Left.State()
	require.True(t, st.Enabled)
	require.Equal(t, uint32(500), st.StepRate)
}

func TestStopAllEntersStopped(t *testing.T) {
	h := newHarness(t)

	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})
	require.Equal(t, Autonomous, h.arb.Mode())

	h.tick(t, msgs.CommandMsg{Cmd: command.StopAll{}, Source: "serial"})
	require.Equal(t, Stopped, h.arb.Mode())
	require.Equal(t, IntentStop, h.arb.LastIntent())
	require.False(t, h.drive.Left.State().Enabled)
	require.False(t, h.drive.Right.State().Enabled)
}

func TestRoamForwardWhenOpen(t *testing.T) {
	h := newHarness(t)
	h.source.snap = snapshot(9000, 9000, 8000, 9000, 9000)

	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})

	require.Equal(t, IntentForward, h.arb.LastIntent())
	require.Equal(t, uint32(DefaultParams.CruiseRate), h.drive.Left.State().StepRate)
	require.Equal(t, actuator.Forward, h.drive.Left.State().Direction)
	require.Equal(t, actuator.Forward, h.drive.Right.State().Direction)
}

func TestRoamWallNeverForward(t *testing.T) {
	h := newHarness(t)
	// Center echo below the wall limit.
	h.source.snap = snapshot(9000, 9000, DefaultParams.WallLimitMicros-1, 9000, 9000)

	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})

	require.NotEqual(t, IntentForward, h.arb.LastIntent())
	require.NotEqual(t, IntentStop, h.arb.LastIntent())
}

func TestRoamTurnDecision(t *testing.T) {
	testCases := []struct {
		name string
		snap *ranging.Snapshot
		want Intent
	}{
		// left = d0 + d1/2, right = d4 + d3/2
		{"left nearer", snapshot(1000, 1000, 100, 8000, 8000), IntentRight},
		{"right nearer", snapshot(8000, 8000, 100, 1000, 1000), IntentLeft},
		{"tie turns right", snapshot(2000, 2000, 100, 2000, 2000), IntentRight},
		{"inner weighted half", snapshot(3000, 4000, 100, 2000, 3000), IntentLeft},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.source.snap = tc.snap
			h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})
			require.Equal(t, tc.want, h.arb.LastIntent())
		})
	}
}

func TestRoamTurnActuation(t *testing.T) {
	h := newHarness(t)
	h.source.snap = snapshot(1000, 1000, 100, 8000, 8000) // turn right

	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})

	require.Equal(t, actuator.Forward, h.drive.Left.State().Direction)
	require.Equal(t, actuator.Backward, h.drive.Right.State().Direction)
	require.Equal(t, uint32(DefaultParams.TurnRate), h.drive.Left.State().StepRate)
	require.Equal(t, uint32(DefaultParams.TurnRate), h.drive.Right.State().StepRate)
}

func TestRoamEdgeTriggeredActuation(t *testing.T) {
	h := newHarness(t)
	h.source.snap = snapshot(9000, 9000, 8000, 9000, 9000)

	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})
	issued := len(h.dispatched)
	require.NotZero(t, issued)

	// Same reading, no intent change: no re-dispatch.
	h.tick(t)
	h.tick(t)
	require.Len(t, h.dispatched, issued)

	// Intent flips: exactly one new actuation burst.
	h.source.snap = snapshot(1000, 1000, 100, 8000, 8000)
	h.tick(t)
	require.Equal(t, IntentRight, h.arb.LastIntent())
	require.Greater(t, len(h.dispatched), issued)
}

func TestManualPreemptsRoamSameTick(t *testing.T) {
	h := newHarness(t)
	h.source.snap = snapshot(9000, 9000, 8000, 9000, 9000)
	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})
	require.Equal(t, Autonomous, h.arb.Mode())

	// A manual command in the batch suppresses the roam decision of
	// the same tick; no autonomous dispatch may run after it.
	h.tick(t, msgs.CommandMsg{Cmd: command.SetVelocity{Motor: command.LeftMotor, Velocity: -200}, Source: "serial"})

	require.Equal(t, Manual, h.arb.Mode())
	st := h.drive.Left.State()
	require.Equal(t, actuator.Backward, st.Direction)
	require.Equal(t, uint32(200), st.StepRate)
}

func TestRoamOffStopsDrive(t *testing.T) {
	h := newHarness(t)
	h.source.snap = snapshot(9000, 9000, 8000, 9000, 9000)
	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})
	require.True(t, h.drive.Left.State().Enabled)

	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: false}, Source: "serial"})

	require.Equal(t, Stopped, h.arb.Mode())
	require.False(t, h.drive.Left.State().Enabled)
	require.False(t, h.drive.Right.State().Enabled)
}

func TestNilSnapshotReadsOpen(t *testing.T) {
	h := newHarness(t)
	h.source.snap = nil

	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})

	// No snapshot yet: every slot reads NoEcho, which is open space.
	require.Equal(t, IntentForward, h.arb.LastIntent())
}

type recordedChange struct {
	from, to Intent
	mode     Mode
}

func TestIntentObserver(t *testing.T) {
	h := newHarness(t)
	var changes []recordedChange
	h.arb.Observer = observerFunc(func(from, to Intent, mode Mode) {
		changes = append(changes, recordedChange{from, to, mode})
	})

	h.source.snap = snapshot(9000, 9000, 8000, 9000, 9000)
	h.tick(t, msgs.CommandMsg{Cmd: command.SetRoam{On: true}, Source: "serial"})
	h.tick(t)

	require.Equal(t, []recordedChange{{intentNone, IntentForward, Autonomous}}, changes)
}

type observerFunc func(from, to Intent, mode Mode)

func (f observerFunc) IntentChanged(from, to Intent, mode Mode) { f(from, to, mode) }
