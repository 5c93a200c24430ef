// Package input defines how movepad samples its switch lines.
//
// Each backend sub-package implements [Reader] for one kind of hardware:
//
//   - cdev: GPIO character device (/dev/gpiochipN) with internal pull-ups
//   - sysfs: legacy /sys/class/gpio lines
//   - term: terminal keys standing in for switches, for desktop runs
//
// Readers report raw levels. Debouncing is the job of the debounce package.
package input
