// Package uinput implements a HID transport that injects key events into the
// local Linux input subsystem.
//
// It is meant for trying scripts on a desktop without a USB device
// controller: the controller and the game run on the same machine and the
// virtual keyboard appears as /dev/input/eventN.
//
// Reports are converted to key-down and key-up events by comparing the new
// held set against the previous one, so a key that stays held across
// reports produces no event. Each report ends with SYN_REPORT.
//
// Requires write access to /dev/uinput (modprobe uinput).
package uinput
