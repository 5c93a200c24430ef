package move

import (
	"time"

	"github.com/ardnew/movepad/hid"
)

// Dir is a set of stick directions relative to the facing.
type Dir uint8

// Directions. Forward and Backward are resolved against the facing when a
// script starts.
const (
	DirUp Dir = 1 << iota
	DirDown
	DirForward
	DirBackward

	DirDownForward  = DirDown | DirForward
	DirDownBackward = DirDown | DirBackward
)

// Op is a primitive script operation.
type Op uint8

// Script operations.
const (
	OpHold       Op = iota // Send Dirs as held keys, wait Span
	OpReleaseGap           // Release all keys, wait Span
	OpTap                  // Hold the attack for Span, release all, wait a full gap
	OpRelease              // Release all keys, no wait
)

// Span names a duration from [Timing].
type Span uint8

// Spans.
const (
	SpanNone Span = iota
	SpanStep
	SpanHalfStep
	SpanTap
	SpanGap
	SpanHalfGap
)

// Duration resolves s against t.
func (s Span) Duration(t Timing) time.Duration {
	switch s {
	case SpanStep:
		return t.Step
	case SpanHalfStep:
		return t.HalfStep()
	case SpanTap:
		return t.Tap
	case SpanGap:
		return t.Gap
	case SpanHalfGap:
		return t.HalfGap()
	default:
		return 0
	}
}

// Step is one primitive of a script.
type Step struct {
	Op   Op
	Dirs Dir
	Span Span
}

// Script is a fixed, named sequence of steps ending in an attack tap.
type Script struct {
	Name  string
	Steps []Step
}

func hold(d Dir, s Span) Step { return Step{Op: OpHold, Dirs: d, Span: s} }
func releaseGap(s Span) Step  { return Step{Op: OpReleaseGap, Span: s} }
func tap() Step               { return Step{Op: OpTap, Span: SpanTap} }
func release() Step           { return Step{Op: OpRelease} }

// Projectile is the quarter circle forward motion: down, down-forward,
// forward, attack.
var Projectile = Script{
	Name: "projectile",
	Steps: []Step{
		hold(DirDown, SpanStep),
		releaseGap(SpanGap),
		hold(DirDownForward, SpanStep),
		releaseGap(SpanGap),
		hold(DirForward, SpanHalfStep),
		tap(),
		release(),
	},
}

// AntiAir is the dragon punch motion: a short forward, down, down-forward,
// attack.
var AntiAir = Script{
	Name: "anti-air",
	Steps: []Step{
		hold(DirForward, SpanHalfStep),
		releaseGap(SpanHalfGap),
		hold(DirDown, SpanHalfStep),
		releaseGap(SpanHalfGap),
		hold(DirDownForward, SpanStep),
		tap(),
		release(),
	},
}

// SpinKick is the quarter circle back motion: down, down-back, back, attack.
var SpinKick = Script{
	Name: "spin-kick",
	Steps: []Step{
		hold(DirDown, SpanStep),
		releaseGap(SpanGap),
		hold(DirDownBackward, SpanStep),
		releaseGap(SpanGap),
		hold(DirBackward, SpanHalfStep),
		tap(),
		release(),
	},
}

// Duration returns the total blocking time of s under t.
func (s Script) Duration(t Timing) time.Duration {
	var d time.Duration
	for _, st := range s.Steps {
		d += st.Span.Duration(t)
		if st.Op == OpTap {
			d += t.Gap
		}
	}
	return d
}

// keys resolves d into concrete keys: vertical first, then horizontal.
func (d Dir) keys(l Layout, f Facing, buf []hid.Key) []hid.Key {
	buf = buf[:0]
	if d&DirUp != 0 {
		buf = append(buf, l.Up)
	}
	if d&DirDown != 0 {
		buf = append(buf, l.Down)
	}
	if d&DirForward != 0 {
		buf = append(buf, l.Forward(f))
	}
	if d&DirBackward != 0 {
		buf = append(buf, l.Backward(f))
	}
	return buf
}
