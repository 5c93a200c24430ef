package input

import (
	"errors"
	"fmt"

	"github.com/ardnew/movepad/pkg"
)

// Line is one requested GPIO line.
type Line interface {
	// Value returns 0 for low and non-zero for high.
	Value() (int, error)
	Close() error
}

// LineSet is a Reader over individually requested lines, index i being
// lines[i].
type LineSet struct {
	lines  []Line
	closed bool
}

var _ Reader = (*LineSet)(nil)

// NewLineSet returns a reader over lines.
func NewLineSet(lines []Line) *LineSet {
	return &LineSet{lines: lines}
}

// Lines returns the number of lines.
func (s *LineSet) Lines() int {
	return len(s.lines)
}

// Read returns the level of line i.
func (s *LineSet) Read(i int) (Level, error) {
	if s.closed {
		return High, pkg.ErrClosed
	}
	if i < 0 || i >= len(s.lines) {
		return High, fmt.Errorf("line %d of %d: %w", i, len(s.lines), pkg.ErrInvalidLine)
	}
	v, err := s.lines[i].Value()
	if err != nil {
		return High, err
	}
	return LevelOf(v), nil
}

// Close releases every line and returns the joined errors.
func (s *LineSet) Close() error {
	if s.closed {
		return pkg.ErrClosed
	}
	s.closed = true
	var errs []error
	for _, l := range s.lines {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseLines closes lines requested so far, for use when a later request
// fails. It returns the joined close errors.
func CloseLines(lines []Line) error {
	var errs []error
	for _, l := range lines {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
