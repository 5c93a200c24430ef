package move

import (
	"time"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

// Keyboard is the held-key sink a Player drives. [hid.Keyboard] implements
// it.
type Keyboard interface {
	SendKeys(keys ...hid.Key)
	ReleaseAll()
}

// Clock provides the time source and blocking wait used by scripts.
// clockwork.Clock implements it.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Player executes scripts step by step, blocking for every hold and gap.
// A script cannot be interrupted once started.
//
// Steps are scheduled against deadlines measured from the start of the
// script, so time spent inside a send shortens the following wait instead of
// stretching the step.
type Player struct {
	kb      Keyboard
	clock   Clock
	layout  Layout
	timing  Timing
	keys    [hid.MaxKeys]hid.Key
	next    time.Time // Deadline of the current step
	playing bool
}

// NewPlayer creates a player sending to kb with the given key layout and
// step timing.
func NewPlayer(kb Keyboard, clock Clock, layout Layout, timing Timing) *Player {
	return &Player{
		kb:     kb,
		clock:  clock,
		layout: layout,
		timing: timing,
	}
}

// Timing returns the step timing.
func (p *Player) Timing() Timing {
	return p.timing
}

// Play runs s to completion with forward/backward resolved against facing
// and attack as the final tap. It returns the elapsed time.
func (p *Player) Play(s Script, facing Facing, attack hid.Key) time.Duration {
	start := p.clock.Now()
	p.next = start
	p.playing = true
	defer func() { p.playing = false }()
	pkg.LogDebug(pkg.ComponentScript, "script start",
		"script", s.Name,
		"facing", facing,
		"attack", attack)

	for _, st := range s.Steps {
		p.step(st, facing, attack)
	}

	elapsed := p.clock.Now().Sub(start)
	pkg.LogDebug(pkg.ComponentScript, "script done",
		"script", s.Name,
		"elapsed", elapsed)
	return elapsed
}

func (p *Player) step(st Step, facing Facing, attack hid.Key) {
	d := st.Span.Duration(p.timing)
	switch st.Op {
	case OpHold:
		p.Hold(d, st.Dirs.keys(p.layout, facing, p.keys[:])...)
	case OpReleaseGap:
		p.kb.ReleaseAll()
		p.wait(d)
	case OpTap:
		p.Tap(attack, d)
	case OpRelease:
		p.kb.ReleaseAll()
	}
}

// Hold sends exactly keys as the held set, then waits until d has passed
// since the previous step's deadline. Outside a script the wait is measured
// from the call.
func (p *Player) Hold(d time.Duration, keys ...hid.Key) {
	p.begin()
	p.kb.SendKeys(keys...)
	p.wait(d)
}

// Tap holds key for d, releases everything, then waits one gap.
func (p *Player) Tap(key hid.Key, d time.Duration) {
	p.begin()
	p.Hold(d, key)
	p.kb.ReleaseAll()
	p.wait(p.timing.Gap)
}

func (p *Player) begin() {
	if !p.playing {
		p.next = p.clock.Now()
	}
}

// wait advances the deadline by d and sleeps until it. A deadline already
// passed does not sleep.
func (p *Player) wait(d time.Duration) {
	p.next = p.next.Add(d)
	if rem := p.next.Sub(p.clock.Now()); rem > 0 {
		p.clock.Sleep(rem)
	}
}
