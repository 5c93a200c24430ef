// Package cdev reads switch lines through the Linux GPIO character device.
//
// Each switch is requested as an input with the SoC's internal pull-up
// enabled, so a switch only has to short its line to ground. This is the
// preferred backend on any kernel new enough to support line bias (5.5+).
//
//	r, err := cdev.Open(cdev.Config{Chip: "gpiochip0", Offsets: config.Pins()})
package cdev
