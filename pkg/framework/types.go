package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Stage identifies when a controller runs within one loop iteration.
// Stages execute in declaration order.
type Stage int

// Stages of one iteration.
const (
	// StageSense gathers inputs (link bytes, sensor snapshots).
	StageSense Stage = iota
	// StageControl makes decisions from the gathered inputs.
	StageControl
	// StageActuate applies decisions to the outputs.
	StageActuate
	// StagePost runs observability and cleanup work.
	StagePost

	numStages
)

// Controller defines the abstract controlling logic.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext provides the context of the current iteration.
type ControlContext interface {
	// Context retrieves the context.Context of the loop.
	Context() context.Context
	// Time is the start time of this iteration.
	Time() time.Time
	// Messages is the batch collected when this iteration started.
	Messages() *Messages
	// Loop exposes the owning loop for posting and wakeups.
	Loop() *Loop
}

// LoopAdder provides specific logic to add components to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// Messages is the batch of messages delivered to one iteration.
// Messages left untaken when the iteration ends are dropped.
type Messages struct {
	items []any
}

// Add appends messages to the batch, visible to controllers later in
// the same iteration. Sense-stage controllers use this to deliver
// inputs without a tick of latency; cross-goroutine producers use
// Loop.PostMessage instead.
func (m *Messages) Add(msgs ...any) {
	m.items = append(m.items, msgs...)
}

// Each visits every message not yet taken. fn returns true to take
// the message, removing it for controllers later in the iteration.
func (m *Messages) Each(fn func(msg any) (taken bool)) {
	if m == nil {
		return
	}
	kept := m.items[:0]
	for _, item := range m.items {
		if !fn(item) {
			kept = append(kept, item)
		}
	}
	m.items = kept
}

// Len returns the number of messages not yet taken.
func (m *Messages) Len() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}
