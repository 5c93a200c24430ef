package cdev

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/pkg"
)

type fakeLine struct {
	offset   int
	value    int
	closed   bool
	closeErr error
}

func (l *fakeLine) Value() (int, error) { return l.value, nil }
func (l *fakeLine) Close() error        { l.closed = true; return l.closeErr }

type fakeChip struct {
	name     string
	lines    map[int]*fakeLine
	fail     map[int]bool
	closeErr error // Returned by every requested line on Close
	consumer string
}

func (c *fakeChip) request(chip string, offset int, consumer string) (input.Line, error) {
	if chip != c.name {
		return nil, errors.New("no such chip")
	}
	if c.fail[offset] {
		return nil, errors.New("device or resource busy")
	}
	c.consumer = consumer
	l := &fakeLine{offset: offset, value: 1, closeErr: c.closeErr}
	c.lines[offset] = l
	return l, nil
}

func TestOpenOrdersLinesBySwitch(t *testing.T) {
	chip := &fakeChip{name: "gpiochip0", lines: map[int]*fakeLine{}}
	r, err := open(Config{Chip: "gpiochip0", Offsets: []int{13, 12, 11, 10, 9}}, chip.request)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 5, r.Lines())
	assert.Equal(t, DefaultConsumer, chip.consumer)

	chip.lines[11].value = 0
	l, err := r.Read(2)
	require.NoError(t, err)
	assert.Equal(t, input.Low, l)

	l, err = r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, input.High, l)
}

func TestOpenReleasesOnFailure(t *testing.T) {
	chip := &fakeChip{name: "gpiochip0", lines: map[int]*fakeLine{}, fail: map[int]bool{11: true}}
	_, err := open(Config{Chip: "gpiochip0", Offsets: []int{13, 12, 11}}, chip.request)
	require.Error(t, err)

	assert.True(t, chip.lines[13].closed)
	assert.True(t, chip.lines[12].closed)
}

func TestOpenReportsReleaseErrors(t *testing.T) {
	busy := errors.New("line still held")
	chip := &fakeChip{name: "gpiochip0", lines: map[int]*fakeLine{}, fail: map[int]bool{12: true}, closeErr: busy}
	_, err := open(Config{Chip: "gpiochip0", Offsets: []int{13, 12}}, chip.request)

	assert.ErrorContains(t, err, "device or resource busy")
	assert.ErrorIs(t, err, busy)
	assert.True(t, chip.lines[13].closed)
}

func TestOpenValidates(t *testing.T) {
	chip := &fakeChip{lines: map[int]*fakeLine{}}
	_, err := open(Config{Offsets: []int{1}}, chip.request)
	assert.ErrorIs(t, err, pkg.ErrInvalidParameter)
	_, err = open(Config{Chip: "gpiochip0"}, chip.request)
	assert.ErrorIs(t, err, pkg.ErrInvalidParameter)
}
