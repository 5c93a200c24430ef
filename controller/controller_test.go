package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/move"
)

var (
	testLayout = move.Layout{Up: hid.KeyW, Left: hid.KeyA, Down: hid.KeyS, Right: hid.KeyD}
	testTiming = move.Timing{Step: 28 * time.Millisecond, Tap: 22 * time.Millisecond, Gap: 16 * time.Millisecond}

	testBindings = []Binding{
		{Switch: 0, Action: ActionProjectile, Attack: hid.KeyJ},
		{Switch: 1, Action: ActionAntiAir, Attack: hid.KeyK},
		{Switch: 2, Action: ActionSpinKick, Attack: hid.KeyN},
		{Switch: 3, Action: ActionToggleFacing},
	}
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time        { return c.now }
func (c *stepClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// timeline drives every line from the clock: a line is low while the
// elapsed time since start is inside one of its windows.
type timeline struct {
	clock   *stepClock
	start   time.Time
	windows map[int][][2]time.Duration
	errs    map[int]error
	reads   int
	onRead  func()
}

func (tl *timeline) Lines() int { return 5 }

func (tl *timeline) Read(i int) (input.Level, error) {
	tl.reads++
	if tl.onRead != nil {
		tl.onRead()
	}
	if err := tl.errs[i]; err != nil {
		return input.High, err
	}
	t := tl.clock.now.Sub(tl.start)
	for _, w := range tl.windows[i] {
		if t >= w[0] && t < w[1] {
			return input.Low, nil
		}
	}
	return input.High, nil
}

func (tl *timeline) Close() error { return nil }

type sent struct {
	at   time.Duration
	keys []hid.Key
}

// keyboard records sends and drops them while not ready, like hid.Keyboard.
type keyboard struct {
	clock   *stepClock
	start   time.Time
	ready   bool
	checks  int    // Ready calls
	onReady func() // Runs inside Ready before the answer
	dropped int
	log     []sent
}

func (k *keyboard) Ready() bool {
	k.checks++
	if k.onReady != nil {
		k.onReady()
	}
	return k.ready
}

func (k *keyboard) SendKeys(keys ...hid.Key) {
	if !k.ready {
		k.dropped++
		return
	}
	k.log = append(k.log, sent{k.clock.now.Sub(k.start), append([]hid.Key{}, keys...)})
}

func (k *keyboard) ReleaseAll() {
	if !k.ready {
		k.dropped++
		return
	}
	k.log = append(k.log, sent{at: k.clock.now.Sub(k.start)})
}

type recorder struct {
	presses []int
	actions []Action
	elapsed []time.Duration
}

func (r *recorder) SwitchPressed(i int) { r.presses = append(r.presses, i) }

func (r *recorder) ActionDone(a Action, d time.Duration) {
	r.actions = append(r.actions, a)
	r.elapsed = append(r.elapsed, d)
}

type rig struct {
	clock *stepClock
	lines *timeline
	kb    *keyboard
	rec   *recorder
	ctl   *Controller
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func newRig(t *testing.T, windows map[int][][2]time.Duration) *rig {
	t.Helper()
	clock := &stepClock{now: time.Unix(1000, 0)}
	r := &rig{
		clock: clock,
		lines: &timeline{clock: clock, start: clock.now, windows: windows},
		kb:    &keyboard{clock: clock, start: clock.now, ready: true},
		rec:   &recorder{},
	}
	ctl, err := New(Config{
		Input:    r.lines,
		Player:   move.NewPlayer(r.kb, clock, testLayout, testTiming),
		Host:     r.kb,
		Clock:    clock,
		Bindings: testBindings,
		Recorder: r.rec,
	})
	require.NoError(t, err)
	r.ctl = ctl
	return r
}

// pollFor polls every millisecond until the clock passes d.
func (r *rig) pollFor(d time.Duration) {
	end := r.lines.start.Add(d)
	for r.clock.now.Before(end) {
		r.ctl.Poll()
		r.clock.Sleep(time.Millisecond)
	}
}

func TestProjectileEndToEnd(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{0: {{ms(5), ms(40)}}})

	r.pollFor(ms(400))

	want := []sent{
		{ms(35), []hid.Key{hid.KeyS}},
		{ms(63), nil},
		{ms(79), []hid.Key{hid.KeyS, hid.KeyD}},
		{ms(107), nil},
		{ms(123), []hid.Key{hid.KeyD}},
		{ms(137), []hid.Key{hid.KeyJ}},
		{ms(159), nil},
		{ms(175), nil},
	}
	assert.Equal(t, want, r.kb.log)
	assert.Equal(t, []int{0}, r.rec.presses)
	assert.Equal(t, []Action{ActionProjectile}, r.rec.actions)
	assert.False(t, r.ctl.Tracker().Debouncing(0))
	assert.Equal(t, input.High, r.ctl.Tracker().Stable(0), "release seen once polling resumed")
}

func TestGlitchDoesNotFire(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{0: {{ms(5), ms(15)}}})

	r.pollFor(ms(100))

	assert.Empty(t, r.kb.log)
	assert.Empty(t, r.rec.presses)
}

func TestToggleFacingFlipsNextScript(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{
		3: {{ms(1), ms(50)}},
		0: {{ms(100), ms(150)}},
	})

	r.pollFor(ms(400))

	assert.Equal(t, move.FacingLeft, r.ctl.Facing())
	assert.Equal(t, []Action{ActionToggleFacing, ActionProjectile}, r.rec.actions)
	require.Len(t, r.kb.log, 8, "toggle sends nothing")
	assert.Equal(t, []hid.Key{hid.KeyS, hid.KeyA}, r.kb.log[2].keys)
}

func TestToggleTwiceRestoresFacing(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{
		3: {{ms(1), ms(50)}, {ms(100), ms(150)}},
	})

	r.pollFor(ms(250))

	assert.Equal(t, []Action{ActionToggleFacing, ActionToggleFacing}, r.rec.actions)
	assert.Equal(t, move.FacingRight, r.ctl.Facing())
}

func TestPressDuringScriptIsLost(t *testing.T) {
	// Switch 1 is pressed and released entirely while the projectile plays.
	r := newRig(t, map[int][][2]time.Duration{
		0: {{ms(1), ms(40)}},
		1: {{ms(60), ms(120)}},
	})

	r.pollFor(ms(400))

	assert.Equal(t, []Action{ActionProjectile}, r.rec.actions)
}

func TestSimultaneousPressesRunInIndexOrder(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{
		2: {{ms(1), ms(500)}},
		0: {{ms(1), ms(500)}},
	})

	r.pollFor(ms(600))

	assert.Equal(t, []int{0, 2}, r.rec.presses)
	assert.Equal(t, []Action{ActionProjectile, ActionSpinKick}, r.rec.actions)
}

func TestUnboundSwitchOnlyCountsPress(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{4: {{ms(1), ms(50)}}})

	r.pollFor(ms(100))

	assert.Equal(t, []int{4}, r.rec.presses)
	assert.Empty(t, r.rec.actions)
	assert.Empty(t, r.kb.log)
}

func TestHeldAtStartupDoesNotFire(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{0: {{0, ms(1000)}}})

	r.pollFor(ms(200))

	assert.Equal(t, input.Low, r.ctl.Tracker().Stable(0))
	assert.Empty(t, r.rec.presses)
}

func TestReadErrorsSkipSwitch(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{1: {{ms(1), ms(100)}}})
	r.lines.errs = map[int]error{1: errors.New("line gone")}

	r.pollFor(ms(100))
	assert.Empty(t, r.rec.presses)

	r.lines.errs = nil
	r.lines.windows = map[int][][2]time.Duration{1: {{ms(100), ms(200)}}}
	r.pollFor(ms(300))
	assert.Equal(t, []int{1}, r.rec.presses)
}

func TestNewRejectsBadBinding(t *testing.T) {
	clock := &stepClock{}
	tl := &timeline{clock: clock}
	_, err := New(Config{
		Input:    tl,
		Player:   move.NewPlayer(&keyboard{clock: clock}, clock, testLayout, testTiming),
		Clock:    clock,
		Bindings: []Binding{{Switch: 7, Action: ActionAntiAir}},
	})
	require.Error(t, err)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRig(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	r.lines.onRead = func() {
		if r.lines.reads >= 50 {
			cancel()
		}
	}

	err := r.ctl.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, r.clock.now.Sub(r.lines.start), ms(9))
}

func TestWaitHostCanceled(t *testing.T) {
	r := newRig(t, nil)
	r.kb.ready = false
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.kb.onReady = func() {
		if r.kb.checks == 3 {
			cancel()
		}
	}

	assert.ErrorIs(t, r.ctl.WaitHost(ctx), context.Canceled)
	assert.Equal(t, 3, r.kb.checks)
	assert.Equal(t, 2*hostPollInterval, r.clock.now.Sub(r.lines.start))
}

func TestWaitHostBecomesReady(t *testing.T) {
	r := newRig(t, nil)
	r.kb.ready = false
	r.kb.onReady = func() {
		if r.kb.checks == 4 {
			r.kb.ready = true
		}
	}

	require.NoError(t, r.ctl.WaitHost(context.Background()))
	assert.Equal(t, 3*hostPollInterval, r.clock.now.Sub(r.lines.start))

	r.kb.onReady = nil
	require.NoError(t, r.ctl.WaitHost(context.Background()))
	assert.Equal(t, 5, r.kb.checks, "ready host answers at once")
}

func TestRunRefreshesHostWhileIdle(t *testing.T) {
	r := newRig(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	r.lines.onRead = func() {
		if r.lines.reads >= 250 {
			cancel()
		}
	}

	require.ErrorIs(t, r.ctl.Run(ctx), context.Canceled)

	// Canceled during the poll at 48ms: checks at 0, 10, 20, 30 and 40ms.
	assert.Equal(t, 5, r.kb.checks)
}

func TestScriptWithHostNotReady(t *testing.T) {
	r := newRig(t, map[int][][2]time.Duration{0: {{ms(5), ms(40)}}})
	r.kb.ready = false

	r.pollFor(ms(400))

	assert.Empty(t, r.kb.log)
	assert.Equal(t, 8, r.kb.dropped)
	assert.Equal(t, []Action{ActionProjectile}, r.rec.actions)
	assert.Equal(t, []time.Duration{ms(140)}, r.rec.elapsed)
	assert.Equal(t, move.FacingRight, r.ctl.Facing())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "projectile", ActionProjectile.String())
	assert.Equal(t, "anti-air", ActionAntiAir.String())
	assert.Equal(t, "spin-kick", ActionSpinKick.String())
	assert.Equal(t, "toggle-facing", ActionToggleFacing.String())
	assert.Equal(t, "none", ActionNone.String())
}
