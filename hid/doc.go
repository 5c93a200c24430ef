// Package hid models the USB HID keyboard that movepad drives.
//
// A keyboard report describes every key the host should consider held. The
// package provides the report layout, the usage codes used by the key
// bindings, the report descriptor installed on USB gadgets, and the
// [Keyboard] adapter that move scripts talk to.
//
// # Reports
//
// Reports use the boot keyboard layout behind report ID 1:
//
//	[reportID, modifiers, reserved, key1, key2, key3, key4, key5, key6]
//
// [Report.Set] keeps at most [MaxKeys] keys; extra keys are dropped, first
// keys win. Backends that speak the bare boot layout use
// [Report.MarshalBootTo] instead of [Report.MarshalTo].
//
// # Transports
//
// [Transport] is implemented by the backend sub-packages:
//
//   - gadget: Linux USB gadget via configfs and /dev/hidgN
//   - ch9329: CH9329 UART-to-USB keyboard bridge over a serial port
//   - uinput: Linux virtual input device on the local machine
//   - fifo: named pipe for simulation and tests
//
// # Usage
//
//	t, _ := gadget.Open(gadget.Config{Device: "/dev/hidg0", UDC: "fe980000.usb"})
//	kb := hid.NewKeyboard(t)
//	defer kb.Close()
//
//	kb.SendKeys(hid.KeyS, hid.KeyD) // hold down-right
//	time.Sleep(28 * time.Millisecond)
//	kb.ReleaseAll()
//
// If the host is not ready, SendKeys and ReleaseAll do nothing. They never
// return errors and never wait for the host to become ready. A send blocks
// only for the transport's own write, which the move player absorbs into the
// step it starts.
package hid
