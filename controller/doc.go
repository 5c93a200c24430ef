// Package controller runs movepad's single poll-debounce-dispatch loop.
//
// Each iteration reads one timestamp, samples every switch in index order,
// feeds the debounce tracker and, on a press, runs the bound [Action] on the
// calling goroutine. Move scripts block the loop for their whole duration,
// so presses during a script are lost rather than queued.
//
// The controller owns the facing direction. Only [ActionToggleFacing]
// changes it, and scripts read it once when they start.
//
//	c, _ := controller.New(controller.Config{
//	    Input:    lines,
//	    Player:   move.NewPlayer(kb, clock, config.Layout, config.Timing),
//	    Host:     kb,
//	    Clock:    clock,
//	    Bindings: config.Bindings,
//	})
//	c.WaitHost(ctx)
//	c.Run(ctx)
package controller
