package synthesis

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMachineAt(t *testing.T) {
	t0 := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m := NewMachine(DefaultTiming)
	if !m.Start(t0) {
		t.Fatal("Start on idle machine returned false")
	}

	ms := time.Millisecond
	tests := []struct {
		at   time.Duration
		want State
	}{
		{at: 0, want: State{Phase: Scanning}},
		{at: 160 * ms, want: State{Phase: Scanning, Progress: 10}},
		{at: 1499 * ms, want: State{Phase: Scanning, Progress: 90}},
		{at: 1500 * ms, want: State{Phase: Detecting}},
		{at: 1760 * ms, want: State{Phase: Detecting, Detected: 1}},
		{at: 2999 * ms, want: State{Phase: Detecting, Detected: 5}},
		{at: 3000 * ms, want: State{Phase: Synthesizing, Detected: 6}},
		{at: 3950 * ms, want: State{Phase: Synthesizing, Progress: 45, Detected: 6}},
		{at: 4999 * ms, want: State{Phase: Synthesizing, Progress: 95, Detected: 6}},
		{at: 5000 * ms, want: State{Phase: Complete, Progress: 100, Detected: 6}},
		{at: 7999 * ms, want: State{Phase: Complete, Progress: 100, Detected: 6}},
		{at: 8000 * ms, want: State{Phase: Idle}},
	}

	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, m.At(t0.Add(tt.at))); diff != "" {
				t.Errorf("At() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMachineStartWhileRunning(t *testing.T) {
	t0 := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	m := NewMachine(DefaultTiming)

	if !m.Start(t0) {
		t.Fatal("first Start returned false")
	}
	if m.Start(t0.Add(2 * time.Second)) {
		t.Error("Start during a run returned true")
	}
	if got := m.At(t0.Add(2 * time.Second)).Phase; got != Detecting {
		t.Errorf("phase after rejected Start = %s, want detecting", got)
	}
	if !m.Start(t0.Add(DefaultTiming.Total())) {
		t.Error("Start after the run ended returned false")
	}

	m.Reset()
	if got := m.At(t0.Add(DefaultTiming.Total() + time.Second)); got != (State{Phase: Idle}) {
		t.Errorf("At after Reset = %+v, want idle", got)
	}
}

func TestDefaultTimingTotal(t *testing.T) {
	if got := DefaultTiming.Total(); got != 8*time.Second {
		t.Errorf("Total() = %v, want 8s", got)
	}
}
