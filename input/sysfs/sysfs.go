package sysfs

import (
	"errors"
	"fmt"
	"os"

	"github.com/brian-armstrong/gpio"

	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/pkg"
)

// ClassDir is where the kernel exposes sysfs GPIO.
const ClassDir = "/sys/class/gpio"

// pinLine adapts a gpio.Pin to input.Line.
type pinLine struct {
	pin gpio.Pin
}

func (l pinLine) Value() (int, error) {
	v, err := l.pin.Read()
	return int(v), err
}

func (l pinLine) Close() error {
	l.pin.Close()
	return nil
}

// exportFunc exports one pin as an input.
type exportFunc func(pin uint) input.Line

func exportInput(pin uint) input.Line {
	return pinLine{pin: gpio.NewInput(pin)}
}

// Open exports every pin as an input, in switch index order. Each pin is
// read once so a pin that failed to export is reported here rather than on
// the first poll.
func Open(pins []int) (*input.LineSet, error) {
	if _, err := os.Stat(ClassDir); err != nil {
		return nil, fmt.Errorf("sysfs: %s: %w", ClassDir, pkg.ErrNotSupported)
	}
	return open(pins, exportInput)
}

func open(pins []int, export exportFunc) (*input.LineSet, error) {
	if len(pins) == 0 {
		return nil, fmt.Errorf("sysfs: no pins: %w", pkg.ErrInvalidParameter)
	}
	lines := make([]input.Line, 0, len(pins))
	for i, p := range pins {
		if p < 0 {
			err := fmt.Errorf("sysfs: pin %d: %w", p, pkg.ErrInvalidParameter)
			return nil, errors.Join(err, input.CloseLines(lines))
		}
		l := export(uint(p))
		lines = append(lines, l)
		if _, err := l.Value(); err != nil {
			err = fmt.Errorf("sysfs: gpio%d (switch %d): %w", p, i, err)
			return nil, errors.Join(err, input.CloseLines(lines))
		}
	}
	pkg.LogInfo(pkg.ComponentSwitch, "sysfs gpio exported",
		"pins", pins,
		"bias", "external")
	return input.NewLineSet(lines), nil
}
