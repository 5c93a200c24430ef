package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/ardnew/movepad/debounce"
	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/move"
	"github.com/ardnew/movepad/pkg"
)

// DefaultPollInterval is the pause between poll iterations in Run.
const DefaultPollInterval = time.Millisecond

// hostPollInterval is how often WaitHost checks readiness.
const hostPollInterval = 10 * time.Millisecond

// Host reports whether the USB host accepts reports. [hid.Keyboard]
// implements it.
type Host interface {
	Ready() bool
}

// Recorder receives controller events. The metrics package implements it.
type Recorder interface {
	SwitchPressed(i int)
	ActionDone(a Action, elapsed time.Duration)
}

// Config wires a Controller.
type Config struct {
	Input        input.Reader
	Player       *move.Player
	Host         Host
	Clock        move.Clock
	Bindings     []Binding
	Window       time.Duration // Debounce window; 0 selects debounce.Window
	PollInterval time.Duration // Pause between polls in Run; 0 selects DefaultPollInterval
	Facing       move.Facing   // Initial facing
	Recorder     Recorder      // Optional
}

// Controller is the poll-debounce-dispatch loop. It owns the facing state and
// runs every action on the calling goroutine; presses that settle while a
// script plays are not seen.
type Controller struct {
	input    input.Reader
	player   *move.Player
	host     Host
	clock    move.Clock
	tracker  *debounce.Tracker
	bindings []Binding // Indexed by switch
	facing   move.Facing
	interval time.Duration
	recorder Recorder
	failing  []bool    // Read failure already logged, per switch
	checked  time.Time // Last idle readiness check
}

// New creates a controller. The debounce tracker is seeded from a read of
// every switch line, so switches held at startup do not fire.
func New(cfg Config) (*Controller, error) {
	if cfg.Input == nil || cfg.Player == nil || cfg.Clock == nil {
		return nil, fmt.Errorf("controller: input, player and clock are required: %w", pkg.ErrInvalidParameter)
	}

	n := cfg.Input.Lines()
	bindings := make([]Binding, n)
	for i := range bindings {
		bindings[i].Switch = i
	}
	for _, b := range cfg.Bindings {
		if b.Switch < 0 || b.Switch >= n {
			return nil, fmt.Errorf("controller: binding for switch %d of %d: %w", b.Switch, n, pkg.ErrInvalidLine)
		}
		bindings[b.Switch] = b
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	c := &Controller{
		input:    cfg.Input,
		player:   cfg.Player,
		host:     cfg.Host,
		clock:    cfg.Clock,
		tracker:  debounce.New(input.ReadAll(cfg.Input), cfg.Window),
		bindings: bindings,
		facing:   cfg.Facing,
		interval: interval,
		recorder: cfg.Recorder,
		failing:  make([]bool, n),
	}

	for i, b := range bindings {
		pkg.LogDebug(pkg.ComponentDispatch, "switch bound",
			"switch", i,
			"level", c.tracker.Stable(i),
			"action", b.Action,
			"attack", b.Attack)
	}
	return c, nil
}

// Facing returns the current facing.
func (c *Controller) Facing() move.Facing {
	return c.facing
}

// Tracker exposes the debounce state for diagnostics.
func (c *Controller) Tracker() *debounce.Tracker {
	return c.tracker
}

// WaitHost blocks until the host is ready or ctx is done.
func (c *Controller) WaitHost(ctx context.Context) error {
	if c.host == nil {
		return nil
	}
	if c.host.Ready() {
		return nil
	}
	pkg.LogInfo(pkg.ComponentDispatch, "waiting for USB host")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.clock.Sleep(hostPollInterval)
		if c.host.Ready() {
			break
		}
	}
	pkg.LogInfo(pkg.ComponentDispatch, "USB host ready")
	return nil
}

// Run polls until ctx is done. Scripts that have started always finish
// before ctx is checked again.
func (c *Controller) Run(ctx context.Context) error {
	pkg.LogInfo(pkg.ComponentDispatch, "polling switches",
		"switches", c.tracker.Len(),
		"window", c.tracker.Window(),
		"interval", c.interval,
		"facing", c.facing)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.Poll()
		c.refreshHost()
		c.clock.Sleep(c.interval)
	}
}

// refreshHost asks the host for readiness at most every hostPollInterval
// while idle, so transports that cache the answer have it current when the
// next script starts.
func (c *Controller) refreshHost() {
	if c.host == nil {
		return
	}
	now := c.clock.Now()
	if !c.checked.IsZero() && now.Sub(c.checked) < hostPollInterval {
		return
	}
	c.checked = now
	c.host.Ready()
}

// Poll runs one iteration: every switch is sampled in index order against a
// single timestamp, and each press runs its action before the next switch is
// sampled.
func (c *Controller) Poll() {
	now := c.clock.Now()
	for i := 0; i < c.tracker.Len(); i++ {
		raw, err := c.input.Read(i)
		if err != nil {
			if !c.failing[i] {
				pkg.LogWarn(pkg.ComponentSwitch, "switch read failed",
					"switch", i,
					"error", err)
				c.failing[i] = true
			}
			continue
		}
		if c.failing[i] {
			pkg.LogInfo(pkg.ComponentSwitch, "switch read recovered", "switch", i)
			c.failing[i] = false
		}
		if c.tracker.Update(i, raw, now) {
			c.dispatch(i)
		}
	}
}

// dispatch runs the action bound to switch i to completion.
func (c *Controller) dispatch(i int) {
	b := c.bindings[i]
	pkg.LogInfo(pkg.ComponentDispatch, "switch pressed",
		"switch", i,
		"action", b.Action)
	if c.recorder != nil {
		c.recorder.SwitchPressed(i)
	}

	var elapsed time.Duration
	switch b.Action {
	case ActionNone:
		return
	case ActionToggleFacing:
		c.facing = c.facing.Toggled()
		pkg.LogInfo(pkg.ComponentDispatch, "facing toggled", "facing", c.facing)
	default:
		script, ok := b.Action.Script()
		if !ok {
			return
		}
		elapsed = c.player.Play(script, c.facing, b.Attack)
	}

	if c.recorder != nil {
		c.recorder.ActionDone(b.Action, elapsed)
	}
}

var _ Host = (*hid.Keyboard)(nil)
