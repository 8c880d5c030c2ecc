package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Loop runs controllers in fixed stages at a tick interval. Two loops
// make up the control core: the command loop owns all actuator state,
// the sensing loop produces ranging snapshots. Controllers of one
// loop share no state with the other except through explicit
// snapshot hand-off.
type Loop struct {
	// Interval between iterations; DefaultInterval if zero.
	Interval time.Duration

	stages  [numStages][]Controller
	runners []Runnable

	lock    sync.Mutex
	pending []any

	wakeUpCh chan struct{}
}

// DefaultInterval is the tick interval used when none is configured.
const DefaultInterval = 10 * time.Millisecond

// NewLoop creates a Loop with the default interval.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// At registers controllers at a stage.
func (l *Loop) At(stage Stage, ctls ...Controller) *Loop {
	l.stages[stage] = append(l.stages[stage], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddRunnable adds background Runnables supervised with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// PostMessage enqueues a message for the next iteration.
func (l *Loop) PostMessage(msg any) {
	l.lock.Lock()
	l.pending = append(l.pending, msg)
	l.lock.Unlock()
}

// TriggerNext schedules an iteration immediately instead of waiting
// for the next tick.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable. Background runners registered on the loop
// are supervised alongside it.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.runIteration(ctx)
		case <-l.wakeUpCh:
			l.runIteration(ctx)
		}
	}
}

func (l *Loop) runIteration(ctx context.Context) {
	iter := &iteration{loop: l, ctx: ctx, time: time.Now()}
	l.lock.Lock()
	iter.messages.items, l.pending = l.pending, nil
	l.lock.Unlock()

	for stage := Stage(0); stage < numStages; stage++ {
		for _, ctl := range l.stages[stage] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if n := iter.messages.Len(); n > 0 {
		glog.V(3).Infof("%d message(s) left untaken", n)
	}
}

type iteration struct {
	loop     *Loop
	ctx      context.Context
	time     time.Time
	messages Messages
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }
func (t *iteration) Messages() *Messages      { return &t.messages }
func (t *iteration) Loop() *Loop              { return t.loop }
