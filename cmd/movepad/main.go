// Package main is the movepad controller.
//
// movepad polls five momentary switches, debounces them, and on a clean
// press plays a fighting-game special move as a timed sequence of USB HID
// keyboard reports.
//
// Usage:
//
//	movepad [options]
//
// Options:
//
//	-v                 Enable verbose (debug) logging
//	-json              Use JSON log format
//	-log-file path     Write logs to a rotating file instead of stderr
//	-input name        Switch source: cdev, sysfs or term (default: cdev)
//	-chip name         GPIO chip for the cdev input (default: gpiochip0)
//	-output name       HID transport: gadget, ch9329, uinput or fifo (default: gadget)
//	-hidg path         HID gadget node (default: /dev/hidg0)
//	-udc name          USB device controller (default: the only one present)
//	-configfs path     Create the HID gadget in this configfs directory
//	-serial path       Serial port of a CH9329 bridge
//	-baud N            CH9329 baud rate (default: 115200)
//	-fifo-dir path     Pipe directory for the fifo transport (default: /tmp/movepad)
//	-wait-host         Wait for the USB host before polling (default: true)
//	-poll duration     Pause between switch polls (default: 1ms)
//	-metrics-file path Write metrics to a node-exporter textfile
//
// Switch bindings:
//
//	0  Projectile   (light punch)
//	1  Anti-air     (medium punch)
//	2  Spin kick    (light kick)
//	3  Toggle facing
//	4  Unbound
//
// To try it on a desktop without hardware, run hidmon in one terminal and
// movepad with -input term -output fifo in another; keys 1 to 5 press the
// switches.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/ardnew/movepad/config"
	"github.com/ardnew/movepad/controller"
	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/hid/ch9329"
	"github.com/ardnew/movepad/hid/fifo"
	"github.com/ardnew/movepad/hid/gadget"
	"github.com/ardnew/movepad/hid/uinput"
	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/input/cdev"
	"github.com/ardnew/movepad/input/sysfs"
	"github.com/ardnew/movepad/input/term"
	"github.com/ardnew/movepad/metrics"
	"github.com/ardnew/movepad/move"
	"github.com/ardnew/movepad/pkg"
)

// component identifies this executable for structured logging.
const component = pkg.ComponentMain

func main() {
	opts := config.DefaultOptions()
	opts.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := setupLogging(&opts); err != nil {
		pkg.LogError(component, "failed to open log file", "path", opts.LogFile, "error", err)
		os.Exit(1)
	}
	defer pkg.CloseLogFile()

	if err := opts.Validate(); err != nil {
		pkg.LogError(component, "invalid options", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		pkg.LogInfo(component, "shutting down")
		cancel()
	}()

	if err := run(ctx, cancel, &opts); err != nil {
		pkg.LogError(component, "movepad stopped", "error", err)
		pkg.CloseLogFile()
		os.Exit(1)
	}
}

func setupLogging(opts *config.Options) error {
	pkg.SetLogLevel(slog.LevelInfo)
	if opts.Verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}
	if opts.JSON {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	}
	if opts.LogFile != "" {
		return pkg.SetLogFile(pkg.LogFile{
			Path:       opts.LogFile,
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		})
	}
	return nil
}

func run(ctx context.Context, cancel context.CancelFunc, opts *config.Options) error {
	clock := clockwork.NewRealClock()

	switches, err := openInput(opts, cancel)
	if err != nil {
		return err
	}
	defer switches.Close()

	transport, err := openOutput(opts, clock)
	if err != nil {
		return err
	}
	kb := hid.NewKeyboard(transport)
	defer kb.Close()

	m := metrics.New(opts.MetricsFile)
	kb.SetObserver(m)

	ctl, err := controller.New(controller.Config{
		Input:        switches,
		Player:       move.NewPlayer(kb, clock, config.Layout(), config.Timing()),
		Host:         kb,
		Clock:        clock,
		Bindings:     config.Bindings(),
		Window:       config.DebounceWindow,
		PollInterval: opts.Poll,
		Recorder:     m,
	})
	if err != nil {
		return err
	}

	pkg.LogInfo(component, "movepad starting",
		"input", opts.Input,
		"output", opts.Output,
		"switches", switches.Lines())

	if opts.WaitHost {
		if err := ctl.WaitHost(ctx); err != nil {
			return ignoreCanceled(err)
		}
	}
	return ignoreCanceled(ctl.Run(ctx))
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func openInput(opts *config.Options, cancel context.CancelFunc) (input.Reader, error) {
	switch opts.Input {
	case config.InputCDev:
		return cdev.Open(cdev.Config{Chip: opts.Chip, Offsets: config.Pins()})
	case config.InputSysfs:
		return sysfs.Open(config.Pins())
	case config.InputTerm:
		return term.Open(term.Config{OnInterrupt: cancel})
	}
	return nil, fmt.Errorf("input %q: %w", opts.Input, pkg.ErrNotSupported)
}

func openOutput(opts *config.Options, clock clockwork.Clock) (hid.Transport, error) {
	switch opts.Output {
	case config.OutputGadget:
		return gadget.Open(gadget.Config{
			Device:   opts.HIDG,
			UDC:      opts.UDC,
			Configfs: opts.Configfs,
			Clock:    clock,
		})
	case config.OutputCH9329:
		return ch9329.Open(ch9329.Config{
			Port:  opts.Serial,
			Baud:  opts.Baud,
			Clock: clock,
		})
	case config.OutputUinput:
		return uinput.Open("")
	case config.OutputFIFO:
		return fifo.Open(opts.FIFODir)
	}
	return nil, fmt.Errorf("output %q: %w", opts.Output, pkg.ErrNotSupported)
}
