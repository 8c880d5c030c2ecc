// Package hal abstracts the discrete-output, edge-input and timing
// capabilities the control core drives. Board bring-up (pin muxing,
// pull configuration, baud rates) happens in target-specific code
// which registers a Board here before the control loops start.
package hal

// Pin identifies a discrete I/O line by board-local number.
type Pin uint8

// Level is the logic level of a discrete line.
type Level bool

// Logic levels.
const (
	Low  Level = false
	High Level = true
)

// Edge is the kind of transition observed on an input line.
type Edge int

// Edge kinds.
const (
	Rising Edge = iota
	Falling
)

// Outputs writes discrete output lines.
type Outputs interface {
	// Write drives pin to lvl. Writing the current level is allowed
	// and has no effect on the line.
	Write(pin Pin, lvl Level)
}

// Clock provides the monotonic microsecond clock and short busy delays
// used for signal setup and hold times.
type Clock interface {
	// Micros returns microseconds since an arbitrary origin. It never
	// goes backwards.
	Micros() uint64
	// DelayMicros blocks the caller for at least us microseconds.
	DelayMicros(us uint32)
}

// EdgeSource delivers input transitions. Handlers run in interrupt
// context: they may preempt loop code at any point and must be bounded
// and allocation-free.
type EdgeSource interface {
	// OnEdge registers fn for both edge kinds on pin. At most one
	// handler per pin; registering again replaces the previous one.
	OnEdge(pin Pin, fn func(edge Edge, micros uint64)) error
}

// Board is the full capability set a target provides.
type Board interface {
	Outputs
	Clock
	EdgeSource
}

var board Board

// SetBoard is called by target-specific code to register its board
// implementation.
func SetBoard(b Board) {
	board = b
}

// RegisteredBoard returns the registered board, or nil if none.
func RegisteredBoard() Board {
	return board
}
