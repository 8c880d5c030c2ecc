package hal

import (
	"sync"
)

// Transition records one output write on a SimBoard.
type Transition struct {
	Pin   Pin
	Level Level
	At    uint64 // microseconds
}

// SimBoard is an in-memory Board for tests and dry runs. The clock
// only moves when DelayMicros or Advance is called, so pulse widths
// and setup delays are observable deterministically.
type SimBoard struct {
	lock     sync.Mutex
	now      uint64
	levels   map[Pin]Level
	trace    []Transition
	handlers map[Pin]func(Edge, uint64)
}

// NewSimBoard creates a SimBoard with all pins low at time zero.
func NewSimBoard() *SimBoard {
	return &SimBoard{
		levels:   make(map[Pin]Level),
		handlers: make(map[Pin]func(Edge, uint64)),
	}
}

// Write implements Outputs.
func (b *SimBoard) Write(pin Pin, lvl Level) {
	b.lock.Lock()
	b.levels[pin] = lvl
	b.trace = append(b.trace, Transition{Pin: pin, Level: lvl, At: b.now})
	b.lock.Unlock()
}

// Micros implements Clock.
func (b *SimBoard) Micros() uint64 {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.now
}

// DelayMicros implements Clock by advancing the simulated time.
func (b *SimBoard) DelayMicros(us uint32) {
	b.Advance(uint64(us))
}

// Advance moves the simulated clock forward.
func (b *SimBoard) Advance(us uint64) {
	b.lock.Lock()
	b.now += us
	b.lock.Unlock()
}

// OnEdge implements EdgeSource.
func (b *SimBoard) OnEdge(pin Pin, fn func(Edge, uint64)) error {
	b.lock.Lock()
	b.handlers[pin] = fn
	b.lock.Unlock()
	return nil
}

// InjectEdge delivers an edge to the handler registered on pin, as if
// the line transitioned at the current simulated time.
func (b *SimBoard) InjectEdge(pin Pin, edge Edge) {
	b.lock.Lock()
	fn := b.handlers[pin]
	now := b.now
	b.lock.Unlock()
	if fn != nil {
		fn(edge, now)
	}
}

// Level reports the last written level of pin.
func (b *SimBoard) Level(pin Pin) Level {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.levels[pin]
}

// Trace returns all writes observed on pin, in order.
func (b *SimBoard) Trace(pin Pin) []Transition {
	b.lock.Lock()
	defer b.lock.Unlock()
	var out []Transition
	for _, tr := range b.trace {
		if tr.Pin == pin {
			out = append(out, tr)
		}
	}
	return out
}

// Reset clears the recorded trace, keeping levels and handlers.
func (b *SimBoard) Reset() {
	b.lock.Lock()
	b.trace = nil
	b.lock.Unlock()
}
