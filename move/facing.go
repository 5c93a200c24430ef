package move

// Facing is the side of the screen the opponent is on, which decides what
// "forward" and "backward" mean.
type Facing uint8

// Facing values. FacingRight is the power-on default.
const (
	FacingRight Facing = iota // Opponent to the right; forward is Right
	FacingLeft                // Opponent to the left; forward is Left
)

// Toggled returns the opposite facing.
func (f Facing) Toggled() Facing {
	if f == FacingLeft {
		return FacingRight
	}
	return FacingLeft
}

// String returns "right" or "left".
func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}
