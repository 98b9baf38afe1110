package view

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownWindow is returned for a date window token outside the fixed set.
var ErrUnknownWindow = errors.New("unknown date window")

// Window is a trailing date range. The zero value matches every timestamp.
type Window string

// Supported date windows.
const (
	WindowAll Window = ""
	Window24h Window = "24h"
	Window7d  Window = "7d"
	Window14d Window = "14d"
	Window30d Window = "30d"
	Window60d Window = "60d"
	Window90d Window = "90d"
)

var windowDays = map[Window]int64{
	Window7d:  7,
	Window14d: 14,
	Window30d: 30,
	Window60d: 60,
	Window90d: 90,
}

// ParseWindow validates a window token. "all" and the empty string both mean
// no window.
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case WindowAll, "all":
		return WindowAll, nil
	case Window24h:
		return w, nil
	default:
		if _, ok := windowDays[w]; ok {
			return w, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
}

// Contains reports whether ts falls inside the window ending at now. Elapsed
// time is floored to whole hours for 24h and to whole days otherwise, so a
// record exactly N days and some hours old still matches the N-day window.
func (w Window) Contains(ts, now time.Time) bool {
	elapsed := now.Sub(ts)
	switch w {
	case WindowAll:
		return true
	case Window24h:
		return floorUnits(elapsed, time.Hour) <= 24
	}
	days, ok := windowDays[w]
	if !ok {
		return true
	}
	return floorUnits(elapsed, 24*time.Hour) <= days
}
