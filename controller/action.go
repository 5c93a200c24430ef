package controller

import (
	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/move"
)

// Action is what a switch does when pressed.
type Action uint8

// Actions.
const (
	ActionNone Action = iota
	ActionProjectile
	ActionAntiAir
	ActionSpinKick
	ActionToggleFacing
)

// String returns the action name used in logs and metric labels.
func (a Action) String() string {
	switch a {
	case ActionProjectile:
		return move.Projectile.Name
	case ActionAntiAir:
		return move.AntiAir.Name
	case ActionSpinKick:
		return move.SpinKick.Name
	case ActionToggleFacing:
		return "toggle-facing"
	default:
		return "none"
	}
}

// Script returns the move script played by a, if any.
func (a Action) Script() (move.Script, bool) {
	switch a {
	case ActionProjectile:
		return move.Projectile, true
	case ActionAntiAir:
		return move.AntiAir, true
	case ActionSpinKick:
		return move.SpinKick, true
	default:
		return move.Script{}, false
	}
}

// Binding attaches an action to a switch index. Attack is the button tapped
// at the end of a script and is ignored by ActionToggleFacing.
type Binding struct {
	Switch int
	Action Action
	Attack hid.Key
}
