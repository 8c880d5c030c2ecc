package link

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roverbotics/rover.go/pkg/command"
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/msgs"
	"github.com/roverbotics/rover.go/pkg/wire"
)

type stubContext struct {
	msgs fx.Messages
}

func (c *stubContext) Context() context.Context { return context.Background() }
func (c *stubContext) Time() time.Time          { return time.Time{} }
func (c *stubContext) Messages() *fx.Messages   { return &c.msgs }
func (c *stubContext) Loop() *fx.Loop           { return nil }

func collect(m *fx.Messages) []msgs.CommandMsg {
	var out []msgs.CommandMsg
	m.Each(func(msg any) bool {
		out = append(out, msg.(msgs.CommandMsg))
		return true
	})
	return out
}

func TestControlDrainsAllPendingFrames(t *testing.T) {
	var buf wire.StreamBuffer
	ctl := NewController(&buf)

	buf.Write([]byte{wire.CmdStopAll, 0, 0, '\n'})
	buf.Write([]byte{wire.CmdSetLeftVelocity, 0x80, 0x64, '\n'})
	buf.Write([]byte{wire.CmdSetTrigger, 0, 1, '\n'})

	cc := &stubContext{}
	require.NoError(t, ctl.Control(cc))

	got := collect(cc.Messages())
	require.Len(t, got, 3)
	require.Equal(t, command.StopAll{}, got[0].Cmd)
	require.Equal(t, command.SetVelocity{Motor: command.LeftMotor, Velocity: 100}, got[1].Cmd)
	require.Equal(t, command.SetTrigger{On: true}, got[2].Cmd)
	for _, m := range got {
		require.Equal(t, "serial", m.Source)
	}
}

func TestControlPartialFrameWaits(t *testing.T) {
	var buf wire.StreamBuffer
	ctl := NewController(&buf)

	buf.Write([]byte{wire.CmdSetTrigger, 0, 1})

	cc := &stubContext{}
	require.NoError(t, ctl.Control(cc))
	require.Zero(t, cc.Messages().Len())
	require.Equal(t, 3, buf.Available(), "partial frame stays buffered")

	// Tail byte arrives: next tick completes the frame.
	buf.Write([]byte{'\n'})
	require.NoError(t, ctl.Control(cc))
	got := collect(cc.Messages())
	require.Len(t, got, 1)
	require.Equal(t, command.SetTrigger{On: true}, got[0].Cmd)
}

func TestControlDesyncRecovery(t *testing.T) {
	var buf wire.StreamBuffer
	ctl := NewController(&buf)

	var seenRaw []byte
	var seenTotal uint32
	ctl.Observer = desyncObserverFunc(func(raw []byte, total uint32) {
		seenRaw = append([]byte(nil), raw...)
		seenTotal = total
	})

	// One garbage frame, then a good one at the next boundary.
	buf.Write([]byte{0xde, 0xad, 0xbe, 0xef})
	buf.Write([]byte{wire.CmdStopAll, 0, 0, '\n'})

	cc := &stubContext{}
	require.NoError(t, ctl.Control(cc))

	require.Equal(t, uint32(1), ctl.Desyncs())
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, seenRaw)
	require.Equal(t, uint32(1), seenTotal)

	got := collect(cc.Messages())
	require.Len(t, got, 1)
	require.Equal(t, command.StopAll{}, got[0].Cmd)
}

func TestControlUnknownCommandIgnored(t *testing.T) {
	var buf wire.StreamBuffer
	ctl := NewController(&buf)

	buf.Write([]byte{0x7f, 0, 0, '\n'})
	buf.Write([]byte{wire.CmdStopAll, 0, 0, '\n'})

	cc := &stubContext{}
	require.NoError(t, ctl.Control(cc))

	// The unknown frame consumes its bytes but posts nothing; it is
	// not a desync.
	require.Zero(t, ctl.Desyncs())
	got := collect(cc.Messages())
	require.Len(t, got, 1)
	require.Equal(t, command.StopAll{}, got[0].Cmd)
}

type desyncObserverFunc func(raw []byte, total uint32)

func (f desyncObserverFunc) LinkDesynced(raw []byte, total uint32) { f(raw, total) }

func TestSenderRoundTrip(t *testing.T) {
	var out bytes.Buffer
	s := &Sender{W: &out}

	require.NoError(t, s.Send(command.SetVelocity{Motor: command.RightMotor, Velocity: -750}))
	require.NoError(t, s.Send(command.SetRoam{On: true}))

	var buf wire.StreamBuffer
	buf.Write(out.Bytes())
	ctl := NewController(&buf)
	cc := &stubContext{}
	require.NoError(t, ctl.Control(cc))

	got := collect(cc.Messages())
	require.Len(t, got, 2)
	require.Equal(t, command.SetVelocity{Motor: command.RightMotor, Velocity: -750}, got[0].Cmd)
	require.Equal(t, command.SetRoam{On: true}, got[1].Cmd)
}
