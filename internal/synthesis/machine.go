// Package synthesis drives the scripted synthesis progress display: a fixed
// sequence of phases with interpolated progress that returns to idle on its
// own.
package synthesis

import "time"

// Phase is a step of the synthesis sequence.
type Phase string

// Phases in the order they run.
const (
	Idle         Phase = "idle"
	Scanning     Phase = "scanning"
	Detecting    Phase = "detecting"
	Synthesizing Phase = "synthesizing"
	Complete     Phase = "complete"
)

var order = []Phase{Idle, Scanning, Detecting, Synthesizing, Complete}

func (p Phase) index() int {
	for i, o := range order {
		if o == p {
			return i
		}
	}
	return 0
}

// State is what the display shows at an instant.
type State struct {
	Phase    Phase
	Progress int
	Detected int
}

// Timing holds phase durations and step intervals.
type Timing struct {
	Scan       time.Duration
	ScanStep   time.Duration
	Detect     time.Duration
	DetectStep time.Duration
	Synth      time.Duration
	SynthStep  time.Duration
	Hold       time.Duration
}

// DefaultTiming is the stock sequence: 1.5s scanning, 1.5s detecting, 2s
// synthesizing and a 3s completion pause.
var DefaultTiming = Timing{
	Scan:       1500 * time.Millisecond,
	ScanStep:   150 * time.Millisecond,
	Detect:     1500 * time.Millisecond,
	DetectStep: 250 * time.Millisecond,
	Synth:      2 * time.Second,
	SynthStep:  100 * time.Millisecond,
	Hold:       3 * time.Second,
}

// Total is the full length of a run.
func (t Timing) Total() time.Duration {
	return t.Scan + t.Detect + t.Synth + t.Hold
}

const (
	scanIncrement  = 10
	synthIncrement = 5
	maxDetected    = 6
)

// Machine computes the display state as a function of the time since Start.
// The zero value is not usable; call NewMachine.
type Machine struct {
	timing  Timing
	started time.Time
	running bool
}

// NewMachine returns an idle machine.
func NewMachine(t Timing) *Machine {
	return &Machine{timing: t}
}

// Start begins a run at now. It returns false and changes nothing while a
// run is in progress.
func (m *Machine) Start(now time.Time) bool {
	if m.At(now).Phase != Idle {
		return false
	}
	m.started = now
	m.running = true
	return true
}

// Reset returns the machine to idle immediately.
func (m *Machine) Reset() {
	m.running = false
	m.started = time.Time{}
}

// At returns the state at now.
func (m *Machine) At(now time.Time) State {
	if !m.running {
		return State{Phase: Idle}
	}
	t := m.timing
	e := now.Sub(m.started)
	if e < 0 {
		e = 0
	}

	switch {
	case e < t.Scan:
		return State{Phase: Scanning, Progress: steps(e, t.ScanStep, scanIncrement)}
	case e < t.Scan+t.Detect:
		n := int(stepCount(e-t.Scan, t.DetectStep))
		return State{Phase: Detecting, Detected: min(n, maxDetected)}
	case e < t.Scan+t.Detect+t.Synth:
		return State{
			Phase:    Synthesizing,
			Progress: steps(e-t.Scan-t.Detect, t.SynthStep, synthIncrement),
			Detected: detectedAtEnd(t),
		}
	case e < t.Total():
		return State{Phase: Complete, Progress: 100, Detected: detectedAtEnd(t)}
	default:
		return State{Phase: Idle}
	}
}

// entry is the state at the first instant of p.
func (m *Machine) entry(p Phase) State {
	switch p {
	case Synthesizing:
		return State{Phase: p, Detected: detectedAtEnd(m.timing)}
	case Complete:
		return State{Phase: p, Progress: 100, Detected: detectedAtEnd(m.timing)}
	default:
		return State{Phase: p}
	}
}

func stepCount(e, step time.Duration) int64 {
	if step <= 0 {
		return 0
	}
	return int64(e / step)
}

// steps converts elapsed time into a progress value capped at 100.
func steps(e, step time.Duration, inc int) int {
	return int(min(stepCount(e, step)*int64(inc), 100))
}

func detectedAtEnd(t Timing) int {
	return min(int(stepCount(t.Detect, t.DetectStep)), maxDetected)
}
