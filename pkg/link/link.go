// Package link moves commands across the serial wire: the robot side
// drains frames into the command loop, the host side encodes commands
// onto the stream.
package link

import (
	"io"

	"github.com/golang/glog"

	"github.com/roverbotics/rover.go/pkg/command"
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/msgs"
	"github.com/roverbotics/rover.go/pkg/wire"
)

// DesyncObserver is notified when the stream loses frame alignment.
type DesyncObserver interface {
	LinkDesynced(raw []byte, total uint32)
}

// Controller drains every complete frame pending on the link each
// tick and posts the decoded commands to the command loop. Reading is
// strictly non-blocking: with no full frame available the tick is
// skipped.
type Controller struct {
	Reader   *wire.Reader
	Observer DesyncObserver

	desyncs uint32
}

// NewController creates a Controller over a byte source.
func NewController(src wire.ByteSource) *Controller {
	return &Controller{Reader: wire.NewReader(src)}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.At(fx.StageSense, c)
}

// Desyncs returns the number of malformed frames seen so far.
func (c *Controller) Desyncs() uint32 { return c.desyncs }

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	for {
		f, err := c.Reader.ReadFrame()
		if err == wire.ErrInsufficientData {
			return nil
		}
		if err != nil {
			var mf *wire.MalformedFrameError
			if !wire.IsMalformed(err) {
				glog.Errorf("link read: %v", err)
				return nil
			}
			mf = err.(*wire.MalformedFrameError)
			c.desyncs++
			// Logged apart from command errors: the stream is now
			// misaligned and recovers only by continued reading.
			glog.Warningf("link desync #%d: %v", c.desyncs, err)
			if c.Observer != nil {
				c.Observer.LinkDesynced(mf.Raw[:], c.desyncs)
			}
			continue
		}
		cmd, err := command.Decode(*f)
		if err != nil {
			glog.Errorf("link: %v", err)
			continue
		}
		cc.Messages().Add(msgs.CommandMsg{Cmd: cmd, Source: "serial"})
	}
}

// Sender is the host-side half: it encodes commands onto the wire.
type Sender struct {
	W io.Writer
}

// Send encodes and writes one command.
func (s *Sender) Send(cmd command.Command) error {
	f := command.Encode(cmd)
	_, err := f.WriteTo(s.W)
	return err
}
