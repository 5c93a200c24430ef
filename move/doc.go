// Package move plays fighting-game special moves as timed keyboard reports.
//
// A [Script] is a fixed list of primitive steps: hold a set of directions,
// release and pause, tap the attack button. Directions are written relative
// to the opponent (forward, backward) and resolved to Left or Right from the
// [Facing] passed to [Player.Play], read once when the script starts.
//
// Three scripts are predefined:
//
//	Projectile  ↓ ↘ → + attack
//	AntiAir     → ↓ ↘ + attack   (short first forward)
//	SpinKick    ↓ ↙ ← + attack
//
// Every hold and pause blocks the caller on the player's [Clock]. Nothing
// else runs while a script plays. Step boundaries are deadlines counted from
// the start of the script, so a slow send shortens the wait that follows it
// rather than lengthening the step.
package move
