// Package ch9329 implements the HID transport for the WCH CH9329 UART to USB
// HID bridge.
//
// Boards without a USB device controller drive the keyboard through a CH9329
// wired to a UART. The chip enumerates as a USB keyboard on its own and
// accepts boot reports as serial command frames.
//
// # Frames
//
//	[0x57, 0xAB, addr, cmd, len, data..., sum]
//
// sum is the low byte of the sum of every preceding byte. The chip answers
// each command with a frame whose cmd has bit 7 set (0x80|cmd) on success or
// bits 7 and 6 set (0xC0|cmd) on failure, carrying a one-byte status.
//
// Commands used:
//
//	0x01 GET_INFO              reply: version, USB status, LED state, 5 reserved
//	0x02 SEND_KB_GENERAL_DATA  data: 8-byte boot keyboard report
//
// # Host Readiness
//
// GET_INFO reports whether the host has enumerated the chip. The answer is
// cached briefly and every accepted report renews it, so a running script
// never queries between reports.
//
// # Baud Rate
//
// Each report waits for its ack. At the factory rate of 9600 baud that round
// trip takes about 22ms, longer than a half step, so the chip must be set to
// 115200 baud ([DefaultBaud]) with the vendor configuration tool. Open logs a
// warning when the configured rate is too slow.
//
// # Usage
//
//	t, err := ch9329.Open(ch9329.Config{Port: "/dev/ttyS0", Baud: 115200})
//	if err != nil {
//	    return err
//	}
//	kb := hid.NewKeyboard(t)
package ch9329
