package ranging

import (
	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/msgs"
)

// Sampler drives an Array from the sensing loop: each tick it
// publishes a snapshot of the echoes completed so far, then fires the
// next measurement cycle. Snapshot consumers on the other loop read
// Latest and never block here.
type Sampler struct {
	Array *Array

	// Notify, when set, gets a SnapshotMsg and a wakeup after each
	// sample so the command loop can react before its next tick.
	Notify *fx.Loop
}

// AddToLoop implements LoopAdder.
func (s *Sampler) AddToLoop(l *fx.Loop) {
	l.At(fx.StageSense, s)
}

// Control implements Controller.
func (s *Sampler) Control(cc fx.ControlContext) error {
	snap := s.Array.Sample()
	s.Array.TriggerAll()
	if s.Notify != nil {
		s.Notify.PostMessage(msgs.SnapshotMsg{Cycle: snap.Cycle})
		s.Notify.TriggerNext()
	}
	return nil
}
