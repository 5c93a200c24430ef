package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/ardnew/movepad/controller"
	"github.com/ardnew/movepad/hid/ch9329"
	"github.com/ardnew/movepad/pkg"
)

// InputBackend names a switch line source.
type InputBackend string

// Switch line sources.
const (
	InputCDev  InputBackend = "cdev"  // GPIO character device
	InputSysfs InputBackend = "sysfs" // Legacy /sys/class/gpio
	InputTerm  InputBackend = "term"  // Terminal keys 1-5 simulate the switches
)

// OutputBackend names a HID transport.
type OutputBackend string

// HID transports.
const (
	OutputGadget OutputBackend = "gadget" // Linux USB gadget /dev/hidgN
	OutputCH9329 OutputBackend = "ch9329" // CH9329 serial bridge
	OutputUinput OutputBackend = "uinput" // Local virtual keyboard
	OutputFIFO   OutputBackend = "fifo"   // Named pipe read by hidmon
)

// Options are the startup settings of the controller program.
type Options struct {
	Verbose     bool
	JSON        bool
	LogFile     string
	Input       InputBackend
	Chip        string
	Output      OutputBackend
	HIDG        string
	UDC         string
	Configfs    string
	Serial      string
	Baud        int
	FIFODir     string
	WaitHost    bool
	Poll        time.Duration
	MetricsFile string
}

// DefaultOptions returns the options used when no flag is given.
func DefaultOptions() Options {
	return Options{
		Input:    InputCDev,
		Chip:     "gpiochip0",
		Output:   OutputGadget,
		HIDG:     "/dev/hidg0",
		Baud:     ch9329.DefaultBaud,
		FIFODir:  "/tmp/movepad",
		WaitHost: true,
		Poll:     controller.DefaultPollInterval,
	}
}

// RegisterFlags binds every option to a flag on fs, using the current
// values as defaults.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&o.Verbose, "v", o.Verbose, "Enable verbose (debug) logging")
	fs.BoolVar(&o.JSON, "json", o.JSON, "Output logs in JSON format")
	fs.StringVar(&o.LogFile, "log-file", o.LogFile, "Write logs to a rotating file instead of stderr")
	fs.Func("input", "Switch source: cdev, sysfs or term (default "+string(o.Input)+")", func(s string) error {
		o.Input = InputBackend(s)
		return nil
	})
	fs.StringVar(&o.Chip, "chip", o.Chip, "GPIO chip for the cdev input")
	fs.Func("output", "HID transport: gadget, ch9329, uinput or fifo (default "+string(o.Output)+")", func(s string) error {
		o.Output = OutputBackend(s)
		return nil
	})
	fs.StringVar(&o.HIDG, "hidg", o.HIDG, "HID gadget device node")
	fs.StringVar(&o.UDC, "udc", o.UDC, "USB device controller name (empty selects the only one present)")
	fs.StringVar(&o.Configfs, "configfs", o.Configfs, "Gadget directory under configfs to create the HID function in")
	fs.StringVar(&o.Serial, "serial", o.Serial, "Serial port of the CH9329 bridge")
	fs.IntVar(&o.Baud, "baud", o.Baud, "Baud rate of the CH9329 bridge (the chip ships at 9600)")
	fs.StringVar(&o.FIFODir, "fifo-dir", o.FIFODir, "Directory holding the fifo transport pipe")
	fs.BoolVar(&o.WaitHost, "wait-host", o.WaitHost, "Wait for the USB host before polling switches")
	fs.DurationVar(&o.Poll, "poll", o.Poll, "Pause between switch polls")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write metrics to this node-exporter textfile")
}

// Validate reports the first option that cannot work.
func (o *Options) Validate() error {
	switch o.Input {
	case InputCDev:
		if o.Chip == "" {
			return invalid("cdev input requires -chip")
		}
	case InputSysfs, InputTerm:
	default:
		return invalid("unknown input %q", o.Input)
	}

	switch o.Output {
	case OutputGadget:
		if o.HIDG == "" {
			return invalid("gadget output requires -hidg")
		}
	case OutputCH9329:
		if o.Serial == "" {
			return invalid("ch9329 output requires -serial")
		}
		if o.Baud <= 0 {
			return invalid("baud rate %d", o.Baud)
		}
	case OutputFIFO:
		if o.FIFODir == "" {
			return invalid("fifo output requires -fifo-dir")
		}
	case OutputUinput:
	default:
		return invalid("unknown output %q", o.Output)
	}

	if o.Input == InputTerm && o.Output == OutputUinput {
		return invalid("term input with uinput output would read its own keys")
	}
	if o.Poll < 0 {
		return invalid("negative poll interval %v", o.Poll)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: "+format+": %w", append(args, pkg.ErrInvalidParameter)...)
}
