// Package fifo implements a simulation HID transport over a named pipe.
//
// The transport stands in for a USB host during development: the controller
// writes each keyboard report to a FIFO and a monitor process (cmd/hidmon)
// reads and prints them. No USB hardware is involved.
//
// # Layout
//
//	/tmp/movepad/        # Pipe directory shared with the monitor
//	└── reports          # Report messages (controller → monitor)
//
// Either side may create the directory and pipe; an existing pipe is reused so
// the monitor can start before or after the controller.
//
// # Messages
//
// Every report travels as [type, len_lo, len_hi, data...] with type 0x02 and
// data holding the report with its report ID prefix. Messages are smaller
// than PIPE_BUF and therefore written atomically.
//
// # Host Readiness
//
// The transport is ready while a reader holds the pipe open. Until then
// opening the write side fails with ENXIO and reports are dropped, which
// mirrors a keyboard plugged into a host that has not enumerated it.
//
// # Usage
//
//	t, _ := fifo.Open("/tmp/movepad")
//	kb := hid.NewKeyboard(t)
//
//	r, _ := fifo.OpenReader("/tmp/movepad")
//	var rep hid.Report
//	r.ReadReport(ctx, &rep)
package fifo
