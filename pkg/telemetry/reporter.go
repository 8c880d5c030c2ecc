package telemetry

import (
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/roverbotics/rover.go/pkg/actuator"
	"github.com/roverbotics/rover.go/pkg/arbiter"
	"github.com/roverbotics/rover.go/pkg/command"
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/msgs"
)

// Reporter publishes command echoes, link desyncs and intent changes.
// It plugs into the dispatcher, the link controller and the arbiter
// through their observer hooks.
type Reporter struct {
	queue *Queue
	robot string
}

// NewReporter creates a Reporter publishing under robot/<id>/.
func NewReporter(queue *Queue, robot string) *Reporter {
	return &Reporter{queue: queue, robot: robot}
}

func (r *Reporter) publish(topic string, msg proto.Message) {
	payload, err := proto.Marshal(msg)
	if err != nil {
		glog.Errorf("telemetry marshal: %v", err)
		return
	}
	r.queue.Pub(r.robot+"/"+topic, payload)
}

// CommandExecuted implements command.Observer.
func (r *Reporter) CommandExecuted(cmd command.Command) {
	r.publish("event/command", &msgs.CommandEcho{Command: cmd.String()})
}

// LinkDesynced implements link.DesyncObserver.
func (r *Reporter) LinkDesynced(raw []byte, total uint32) {
	r.publish("event/desync", &msgs.LinkDesync{Raw: raw, Total: total})
}

// IntentChanged implements arbiter.Observer.
func (r *Reporter) IntentChanged(from, to arbiter.Intent, mode arbiter.Mode) {
	r.publish("event/intent", &msgs.IntentChange{
		From: from.String(),
		To:   to.String(),
		Mode: mode.String(),
	})
}

// StatusController publishes the robot status whenever it changes.
type StatusController struct {
	Reporter *Reporter
	Drive    *actuator.Drive
	Arbiter  *arbiter.Arbiter

	last *msgs.Status
}

// AddToLoop implements LoopAdder.
func (c *StatusController) AddToLoop(l *fx.Loop) {
	l.At(fx.StagePost, c)
}

// Control implements Controller.
func (c *StatusController) Control(cc fx.ControlContext) error {
	status := &msgs.Status{
		Robot:        c.Reporter.robot,
		Mode:         c.Arbiter.Mode().String(),
		LeftEnabled:  c.Drive.Left.State().Enabled,
		RightEnabled: c.Drive.Right.State().Enabled,
		Firing:       c.Drive.Trigger.Firing(),
	}
	if c.last != nil && *c.last == *status {
		return nil
	}
	c.last = status
	c.Reporter.publish("status", status)
	return nil
}
