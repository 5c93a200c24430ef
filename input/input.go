package input

// Level is the raw digital level of a switch line.
type Level uint8

// Line levels. Switches are wired active low against pull-ups, so Low means
// the switch is physically pressed.
const (
	High Level = 1
	Low  Level = 0
)

// Pressed reports whether the level means the switch is closed.
func (l Level) Pressed() bool {
	return l == Low
}

// String returns "high" or "low".
func (l Level) String() string {
	if l == Low {
		return "low"
	}
	return "high"
}

// LevelOf converts a raw line value (0 or non-zero) to a Level.
func LevelOf(v int) Level {
	if v == 0 {
		return Low
	}
	return High
}

// Reader samples the raw level of a fixed set of switch lines.
//
// Lines are addressed by switch index 0..Lines()-1, not by pin number; the
// backend owns the index-to-pin mapping. Read must not block.
type Reader interface {
	// Lines returns the number of switch lines.
	Lines() int

	// Read returns the current raw level of the line at index i.
	Read(i int) (Level, error)

	// Close releases the lines.
	Close() error
}

// ReadAll samples every line of r in index order. Lines that fail to read
// are reported as High (released).
func ReadAll(r Reader) []Level {
	levels := make([]Level, r.Lines())
	for i := range levels {
		l, err := r.Read(i)
		if err != nil {
			l = High
		}
		levels[i] = l
	}
	return levels
}
