package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/movepad/controller"
	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/move"
	"github.com/ardnew/movepad/pkg"
)

func TestBindings(t *testing.T) {
	want := map[int]controller.Action{
		0: controller.ActionProjectile,
		1: controller.ActionAntiAir,
		2: controller.ActionSpinKick,
		3: controller.ActionToggleFacing,
	}
	got := make(map[int]controller.Action)
	for _, b := range Bindings() {
		got[b.Switch] = b.Action
		assert.Less(t, b.Switch, SwitchCount)
	}
	assert.Equal(t, want, got)
	assert.NotContains(t, got, 4)
}

func TestPinsReturnsCopy(t *testing.T) {
	p := Pins()
	p[0] = 99
	assert.Equal(t, 13, Pins()[0])
}

func TestConstants(t *testing.T) {
	assert.Equal(t, []int{13, 12, 11, 10, 9}, Pins())
	assert.Equal(t, 30*time.Millisecond, DebounceWindow)
	assert.Equal(t, 14*time.Millisecond, Timing().HalfStep())
	assert.Equal(t, 8*time.Millisecond, Timing().HalfGap())
	assert.Equal(t, hid.KeyA, Layout().Forward(move.FacingLeft))
}

func TestDefaultOptionsValid(t *testing.T) {
	o := DefaultOptions()
	require.NoError(t, o.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		ok     bool
	}{
		{"sysfs", func(o *Options) { o.Input = InputSysfs }, true},
		{"term fifo", func(o *Options) { o.Input, o.Output = InputTerm, OutputFIFO }, true},
		{"cdev no chip", func(o *Options) { o.Chip = "" }, false},
		{"unknown input", func(o *Options) { o.Input = "spi" }, false},
		{"unknown output", func(o *Options) { o.Output = "bluetooth" }, false},
		{"gadget no hidg", func(o *Options) { o.HIDG = "" }, false},
		{"ch9329", func(o *Options) { o.Output, o.Serial = OutputCH9329, "/dev/ttyS0" }, true},
		{"ch9329 no serial", func(o *Options) { o.Output = OutputCH9329 }, false},
		{"ch9329 zero baud", func(o *Options) { o.Output, o.Serial, o.Baud = OutputCH9329, "/dev/ttyS0", 0 }, false},
		{"fifo no dir", func(o *Options) { o.Output, o.FIFODir = OutputFIFO, "" }, false},
		{"uinput", func(o *Options) { o.Output = OutputUinput }, true},
		{"term uinput", func(o *Options) { o.Input, o.Output = InputTerm, OutputUinput }, false},
		{"negative poll", func(o *Options) { o.Poll = -time.Millisecond }, false},
		{"zero poll", func(o *Options) { o.Poll = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.modify(&o)
			err := o.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, pkg.ErrInvalidParameter)
			}
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	o := DefaultOptions()
	fs := flag.NewFlagSet("movepad", flag.ContinueOnError)
	o.RegisterFlags(fs)

	err := fs.Parse([]string{
		"-v", "-input", "term", "-output", "fifo",
		"-fifo-dir", "/run/movepad", "-poll", "2ms", "-wait-host=false",
	})
	require.NoError(t, err)

	assert.True(t, o.Verbose)
	assert.Equal(t, InputTerm, o.Input)
	assert.Equal(t, OutputFIFO, o.Output)
	assert.Equal(t, "/run/movepad", o.FIFODir)
	assert.Equal(t, 2*time.Millisecond, o.Poll)
	assert.False(t, o.WaitHost)
	assert.Equal(t, "/dev/hidg0", o.HIDG)
	require.NoError(t, o.Validate())
}
