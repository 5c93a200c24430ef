// Package sysfs reads switch lines through the legacy /sys/class/gpio
// interface.
//
// The sysfs interface cannot enable internal pull-ups; each switch line needs
// an external pull-up resistor (or a device-tree bias setting). Use the cdev
// backend where the kernel supports it.
package sysfs
