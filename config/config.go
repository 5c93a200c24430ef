package config

import (
	"time"

	"github.com/ardnew/movepad/controller"
	"github.com/ardnew/movepad/debounce"
	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/move"
)

// SwitchCount is the number of switch lines.
const SwitchCount = 5

// pins are the switch line offsets on the GPIO chip, in switch index order.
var pins = [SwitchCount]int{13, 12, 11, 10, 9}

// Pins returns a copy of the switch line offsets in switch index order.
// Lines are active low with pull-ups enabled.
func Pins() []int {
	p := pins
	return p[:]
}

// DebounceWindow is how long a raw level must hold before it is committed.
const DebounceWindow = debounce.Window

// Step timing shared by every script.
const (
	StepTime = 28 * time.Millisecond
	TapTime  = 22 * time.Millisecond
	GapTime  = 16 * time.Millisecond
)

// Direction keys.
const (
	KeyUp    = hid.KeyW
	KeyLeft  = hid.KeyA
	KeyDown  = hid.KeyS
	KeyRight = hid.KeyD
)

// Attack buttons: light, medium and heavy punch and kick.
const (
	KeyLP = hid.KeyJ
	KeyMP = hid.KeyK
	KeyHP = hid.KeySemicolon
	KeyLK = hid.KeyN
	KeyMK = hid.KeyM
	KeyHK = hid.KeyComma
)

// Layout returns the direction key layout.
func Layout() move.Layout {
	return move.Layout{Up: KeyUp, Down: KeyDown, Left: KeyLeft, Right: KeyRight}
}

// Timing returns the script step timing.
func Timing() move.Timing {
	return move.Timing{Step: StepTime, Tap: TapTime, Gap: GapTime}
}

// Bindings returns the switch bindings. Switch 4 is wired but unbound.
func Bindings() []controller.Binding {
	return []controller.Binding{
		{Switch: 0, Action: controller.ActionProjectile, Attack: KeyLP},
		{Switch: 1, Action: controller.ActionAntiAir, Attack: KeyMP},
		{Switch: 2, Action: controller.ActionSpinKick, Attack: KeyLK},
		{Switch: 3, Action: controller.ActionToggleFacing},
	}
}
