// Package debounce turns raw switch levels into clean press events.
//
// Every switch runs a two-state machine:
//
//	Stable --(raw != stable)--> Debouncing
//	Debouncing --(raw == stable)--> Stable            (noise, no event)
//	Debouncing --(raw != stable for >= window)--> Stable  (commit)
//
// The window is measured from the first observation that differed. A commit
// to the pressed level produces a press event; a commit to released does
// not. Callers feed every switch once per poll in index order, so two
// switches that settle in the same poll both fire in that poll, lowest
// index first.
package debounce
