// Package pkg provides shared utilities for the movepad controller.
//
// This package contains common functionality used by the switch input,
// debounce, script and HID packages, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Optional size-rotated log files for unattended boards
//   - Sentinel errors and the USB host state model
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with component context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentDispatch, "switch pressed", "switch", 0)
//
// Output goes to os.Stderr until [SetLogFile] routes it to a rotating file:
//
//	pkg.SetLogFile(pkg.LogFile{Path: "/var/log/movepad.log", MaxSizeMB: 5})
//	defer pkg.CloseLogFile()
//
// # Errors
//
// Common errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrNotReady) {
//	    // Host has not enumerated the keyboard yet
//	}
package pkg
