package synthesis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrBusy is returned when a run is requested while another is in progress.
var ErrBusy = errors.New("synthesis already running")

// Notifier receives every phase the sequence enters, in order, ending with
// Idle.
type Notifier interface {
	Notify(st State)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(st State)

// Notify calls f.
func (f NotifierFunc) Notify(st State) { f(st) }

// Runner advances a Machine on a ticker.
type Runner struct {
	mu   sync.Mutex
	m    *Machine
	tick time.Duration
	now  func() time.Time
	log  *slog.Logger
}

// NewRunner creates a Runner with the default timing.
func NewRunner(log *slog.Logger) *Runner {
	return NewRunnerWithTiming(DefaultTiming, log)
}

// NewRunnerWithTiming creates a Runner with custom phase timing (useful for
// testing).
func NewRunnerWithTiming(t Timing, log *slog.Logger) *Runner {
	return &Runner{
		m:    NewMachine(t),
		tick: 50 * time.Millisecond,
		now:  time.Now,
		log:  log,
	}
}

// SetTickInterval overrides the default 50ms tick.
func (r *Runner) SetTickInterval(d time.Duration) {
	r.tick = d
}

// State returns the current display state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m.At(r.now())
}

// Run plays one sequence, blocking until it returns to idle or ctx is
// cancelled. A cancelled run resets the machine.
func (r *Runner) Run(ctx context.Context, n Notifier) error {
	r.mu.Lock()
	if !r.m.Start(r.now()) {
		r.mu.Unlock()
		return ErrBusy
	}
	r.mu.Unlock()
	r.log.Debug("synthesis started")

	last := Idle
	if r.advance(&last, n) {
		return nil
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.m.Reset()
			r.mu.Unlock()
			r.log.Debug("synthesis cancelled", "phase", last)
			return ctx.Err()
		case <-ticker.C:
			if r.advance(&last, n) {
				r.log.Debug("synthesis finished")
				return nil
			}
		}
	}
}

// advance notifies every phase entered since last and reports whether the
// sequence is back to idle. Phases skipped between ticks are reported with
// their entry state.
func (r *Runner) advance(last *Phase, n Notifier) bool {
	r.mu.Lock()
	st := r.m.At(r.now())
	r.mu.Unlock()

	end := st.Phase.index()
	if st.Phase == Idle {
		end = len(order)
	}
	for i := last.index() + 1; i < end; i++ {
		n.Notify(r.m.entry(order[i]))
	}

	if st.Phase == Idle {
		r.mu.Lock()
		r.m.Reset()
		r.mu.Unlock()
		n.Notify(st)
		return true
	}
	if st.Phase != *last {
		n.Notify(st)
		*last = st.Phase
	}
	return false
}
