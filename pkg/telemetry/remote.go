package telemetry

import (
	"github.com/golang/glog"

	"github.com/roverbotics/rover.go/pkg/command"
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/msgs"
	"github.com/roverbotics/rover.go/pkg/wire"
)

// CommandSource feeds remotely issued commands into the command loop.
// Each MQTT message under robot/<id>/cmd carries one encoded wire
// frame, so remote and serial senders speak the identical protocol.
type CommandSource struct {
	Queue *Queue
	Robot string
	Loop  *fx.Loop
}

// Start subscribes to the command topic.
func (s *CommandSource) Start() error {
	return s.Queue.Sub(s.Robot+"/cmd", func(_ string, payload []byte) {
		f, err := wire.Decode(payload)
		if err != nil {
			glog.Warningf("remote frame: %v", err)
			return
		}
		cmd, err := command.Decode(f)
		if err != nil {
			glog.Warningf("remote: %v", err)
			return
		}
		s.Loop.PostMessage(msgs.CommandMsg{Cmd: cmd, Source: "mqtt"})
		s.Loop.TriggerNext()
	})
}
