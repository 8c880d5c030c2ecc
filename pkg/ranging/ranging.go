// Package ranging samples an array of ultrasonic time-of-flight
// sensors. Echo edges arrive in interrupt context; readings are
// published to the control side as immutable snapshots.
package ranging

import (
	"fmt"
	"sync/atomic"

	"github.com/roverbotics/rover.go/pkg/hal"
)

// SensorPins names the trigger/echo lines of one sensor.
type SensorPins struct {
	Trig hal.Pin
	Echo hal.Pin
}

// NoEcho is the duration reported for slots that have never completed
// a rising-then-falling edge pair. It reads as "no obstacle", never as
// "obstacle at zero".
const NoEcho uint32 = ^uint32(0)

// TrigPulseMicros is the width of the measurement pulse sent to every
// sensor by TriggerAll.
const TrigPulseMicros = 10

// Each slot packs the trigger cycle and the echo duration into one
// 64-bit word so the edge handler can publish a reading with a single
// atomic store. A reader can never observe a torn (cycle, duration)
// pair, so a duration can never appear larger than what its cycle
// actually measured.
type slot struct {
	word atomic.Uint64

	// echoStart is touched only by the edge handler of this slot
	// (single writer, single reader, same context).
	echoStart uint64
}

func packReading(cycle, durMicros uint32) uint64 {
	return uint64(cycle)<<32 | uint64(durMicros)
}

func unpackReading(w uint64) (cycle, durMicros uint32) {
	return uint32(w >> 32), uint32(w)
}

// Array is a bank of ultrasonic sensors sharing a trigger cycle.
type Array struct {
	pins  []SensorPins
	out   hal.Outputs
	clock hal.Clock

	cycle  atomic.Uint32
	slots  []slot
	latest atomic.Pointer[Snapshot]
}

// NewArray creates an Array over the given sensors.
func NewArray(pins []SensorPins, out hal.Outputs, clock hal.Clock) *Array {
	a := &Array{
		pins:  pins,
		out:   out,
		clock: clock,
		slots: make([]slot, len(pins)),
	}
	for _, p := range pins {
		a.out.Write(p.Trig, hal.Low)
	}
	return a
}

// Len returns the number of sensors.
func (a *Array) Len() int { return len(a.pins) }

// Bind registers the echo edge handlers. Handlers are bounded and
// allocation-free; they write only their own slot.
func (a *Array) Bind(src hal.EdgeSource) error {
	for i := range a.pins {
		s := &a.slots[i]
		err := src.OnEdge(a.pins[i].Echo, func(edge hal.Edge, micros uint64) {
			switch edge {
			case hal.Rising:
				s.echoStart = micros
			case hal.Falling:
				dur := micros - s.echoStart
				if dur > uint64(NoEcho)-1 {
					dur = uint64(NoEcho) - 1
				}
				s.word.Store(packReading(a.cycle.Load(), uint32(dur)))
			}
		})
		if err != nil {
			return fmt.Errorf("bind echo pin %d: %w", a.pins[i].Echo, err)
		}
	}
	return nil
}

// TriggerAll fires one synchronized measurement pulse to every sensor
// and starts a new trigger cycle.
func (a *Array) TriggerAll() {
	a.cycle.Add(1)
	for _, p := range a.pins {
		a.out.Write(p.Trig, hal.High)
	}
	a.clock.DelayMicros(TrigPulseMicros)
	for _, p := range a.pins {
		a.out.Write(p.Trig, hal.Low)
	}
}

// Snapshot is one immutable view of the latest echo durations, taken
// without waiting: sensors that have not completed an echo yet keep
// their previous reading, and slots that never completed one report
// NoEcho.
type Snapshot struct {
	Cycle     uint32
	Durations []uint32
}

// Duration returns the reading of sensor i, or NoEcho when out of
// range.
func (s *Snapshot) Duration(i int) uint32 {
	if s == nil || i < 0 || i >= len(s.Durations) {
		return NoEcho
	}
	return s.Durations[i]
}

// Sample takes a snapshot of the current readings and publishes it as
// the latest one.
func (a *Array) Sample() *Snapshot {
	snap := &Snapshot{
		Cycle:     a.cycle.Load(),
		Durations: make([]uint32, len(a.slots)),
	}
	for i := range a.slots {
		cycle, dur := unpackReading(a.slots[i].word.Load())
		if cycle == 0 {
			// Never updated since power-on.
			snap.Durations[i] = NoEcho
			continue
		}
		snap.Durations[i] = dur
	}
	a.latest.Store(snap)
	return snap
}

// Latest returns the most recently published snapshot, or nil before
// the first sample. The snapshot is immutable; readers hold no lock.
func (a *Array) Latest() *Snapshot {
	return a.latest.Load()
}
