package cdev

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/pkg"
)

// DefaultConsumer labels the requested lines in gpioinfo.
const DefaultConsumer = "movepad"

// Config selects the chip and line offsets. Offsets are in switch index
// order.
type Config struct {
	Chip     string
	Offsets  []int
	Consumer string
}

// requestFunc requests one input line.
type requestFunc func(chip string, offset int, consumer string) (input.Line, error)

// Open requests every offset as a pulled-up input.
func Open(cfg Config) (*input.LineSet, error) {
	return open(cfg, requestLine)
}

func requestLine(chip string, offset int, consumer string) (input.Line, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, err
	}
	return l, nil
}

func open(cfg Config, request requestFunc) (*input.LineSet, error) {
	if cfg.Chip == "" || len(cfg.Offsets) == 0 {
		return nil, fmt.Errorf("cdev: chip and offsets required: %w", pkg.ErrInvalidParameter)
	}
	if cfg.Consumer == "" {
		cfg.Consumer = DefaultConsumer
	}

	lines := make([]input.Line, 0, len(cfg.Offsets))
	for i, offset := range cfg.Offsets {
		l, err := request(cfg.Chip, offset, cfg.Consumer)
		if err != nil {
			err = fmt.Errorf("cdev: request %s line %d (switch %d): %w", cfg.Chip, offset, i, err)
			return nil, errors.Join(err, input.CloseLines(lines))
		}
		lines = append(lines, l)
	}

	pkg.LogInfo(pkg.ComponentSwitch, "gpio lines requested",
		"chip", cfg.Chip,
		"offsets", cfg.Offsets,
		"bias", "pull-up")
	return input.NewLineSet(lines), nil
}
