// Package config holds the fixed controller configuration and the startup
// options.
//
// Pins, timings, key layout and switch bindings are compile-time constants;
// there is no runtime reconfiguration. [Options] selects the hardware
// backends and output settings and is filled from command-line flags:
//
//	opts := config.DefaultOptions()
//	opts.RegisterFlags(flag.CommandLine)
//	flag.Parse()
//	if err := opts.Validate(); err != nil {
//	    // report and exit
//	}
package config
