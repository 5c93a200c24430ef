package debounce

import (
	"time"

	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/pkg"
)

// Window is the default time a raw level must stay changed before it is
// accepted as the new stable level.
const Window = 30 * time.Millisecond

// State is the debounce state of one switch.
type State uint8

// Debounce states.
const (
	StateStable     State = iota // Raw level matches the stable level
	StateDebouncing              // Raw level differs, waiting out the window
)

// String returns the state name.
func (s State) String() string {
	if s == StateDebouncing {
		return "debouncing"
	}
	return "stable"
}

// Switch is the debounce record of one line.
type Switch struct {
	Stable  input.Level // Last accepted level
	State   State       // Stable or debouncing
	Changed time.Time   // When the raw level was first seen differing
}

// Tracker converts noisy raw levels into press events, one state machine per
// switch. It is not safe for concurrent use.
type Tracker struct {
	window   time.Duration
	switches []Switch
}

// New creates a tracker seeded with the stable levels read at startup.
// A non-positive window selects [Window].
func New(levels []input.Level, window time.Duration) *Tracker {
	if window <= 0 {
		window = Window
	}
	t := &Tracker{
		window:   window,
		switches: make([]Switch, len(levels)),
	}
	for i, l := range levels {
		t.switches[i].Stable = l
	}
	return t
}

// Len returns the number of tracked switches.
func (t *Tracker) Len() int {
	return len(t.switches)
}

// Window returns the debounce window.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Switch returns a copy of the record for switch i.
func (t *Tracker) Switch(i int) Switch {
	return t.switches[i]
}

// Stable returns the accepted level of switch i.
func (t *Tracker) Stable(i int) input.Level {
	return t.switches[i].Stable
}

// Debouncing reports whether switch i is waiting out its window.
func (t *Tracker) Debouncing(i int) bool {
	return t.switches[i].State == StateDebouncing
}

// Update feeds the raw level of switch i observed at now. It returns true
// exactly when this observation commits a new stable level that is pressed.
// Releases commit silently.
func (t *Tracker) Update(i int, raw input.Level, now time.Time) bool {
	if i < 0 || i >= len(t.switches) {
		pkg.LogWarn(pkg.ComponentDebounce, "update for unknown switch",
			"switch", i,
			"error", pkg.ErrInvalidLine)
		return false
	}
	sw := &t.switches[i]

	if raw == sw.Stable {
		if sw.State == StateDebouncing {
			pkg.LogDebug(pkg.ComponentDebounce, "bounce rejected",
				"switch", i,
				"after", now.Sub(sw.Changed))
		}
		sw.State = StateStable
		return false
	}

	if sw.State == StateStable {
		sw.State = StateDebouncing
		sw.Changed = now
		return false
	}

	if now.Sub(sw.Changed) < t.window {
		return false
	}

	sw.State = StateStable
	sw.Stable = raw
	pkg.LogDebug(pkg.ComponentDebounce, "level committed",
		"switch", i,
		"level", raw)
	return raw.Pressed()
}
