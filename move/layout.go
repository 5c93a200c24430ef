package move

import (
	"time"

	"github.com/ardnew/movepad/hid"
)

// Layout binds the four stick directions to keyboard keys.
type Layout struct {
	Up, Down, Left, Right hid.Key
}

// Forward returns the key pointing toward the opponent.
func (l Layout) Forward(f Facing) hid.Key {
	if f == FacingLeft {
		return l.Left
	}
	return l.Right
}

// Backward returns the key pointing away from the opponent.
func (l Layout) Backward(f Facing) hid.Key {
	if f == FacingLeft {
		return l.Right
	}
	return l.Left
}

// Timing holds the step durations every script is built from.
type Timing struct {
	Step time.Duration // Hold time of one direction
	Tap  time.Duration // Hold time of an attack button
	Gap  time.Duration // Pause between steps
}

// HalfStep is the shortened direction hold.
func (t Timing) HalfStep() time.Duration { return t.Step / 2 }

// HalfGap is the shortened pause.
func (t Timing) HalfGap() time.Duration { return t.Gap / 2 }
