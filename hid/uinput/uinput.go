package uinput

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

// DefaultPath is the uinput control node.
const DefaultPath = "/dev/uinput"

// DeviceName is the name the virtual keyboard registers with.
const DeviceName = "movepad virtual keyboard"

// uinput ioctl requests.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
)

// inputEvent is struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// userDev is the legacy struct uinput_user_dev.
type userDev struct {
	Name         [80]byte
	Bustype      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	AbsMax       [64]int32
	AbsMin       [64]int32
	AbsFuzz      [64]int32
	AbsFlat      [64]int32
}

// Transport implements hid.Transport with a uinput virtual keyboard.
type Transport struct {
	f      *os.File // Nil when built over a plain writer
	w      io.Writer
	held   map[uint16]bool
	next   map[uint16]bool
	events bytes.Buffer
	closed bool
}

var _ hid.Transport = (*Transport)(nil)

// Open creates the virtual keyboard through the uinput node at path (empty
// selects DefaultPath).
func Open(path string) (*Transport, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("uinput: open %s: %w", path, err)
	}
	if err := create(f); err != nil {
		return nil, errors.Join(err, f.Close())
	}
	pkg.LogInfo(pkg.ComponentHAL, "uinput keyboard created", "name", DeviceName)

	t := newTransport(f)
	t.f = f
	return t, nil
}

func newTransport(w io.Writer) *Transport {
	return &Transport{
		w:    w,
		held: make(map[uint16]bool),
		next: make(map[uint16]bool),
	}
}

// create enables every mapped key and registers the device.
func create(f *os.File) error {
	fd := int(f.Fd())
	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		return fmt.Errorf("uinput: enable EV_KEY: %w", err)
	}
	for _, code := range keymap {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			return fmt.Errorf("uinput: enable key %d: %w", code, err)
		}
	}
	for _, code := range modifiers {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			return fmt.Errorf("uinput: enable key %d: %w", code, err)
		}
	}

	dev := userDev{Bustype: busUSB, Vendor: 0x1d6b, Product: 0x0104, Version: 1}
	copy(dev.Name[:], DeviceName)
	if err := binary.Write(f, binary.LittleEndian, &dev); err != nil {
		return fmt.Errorf("uinput: device setup: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("uinput: create: %w", err)
	}
	return nil
}

// Ready always returns true: the local input subsystem accepts events as
// soon as the device exists.
func (t *Transport) Ready() bool {
	return !t.closed
}

// WriteReport emits key events for every key whose state differs from the
// previous report, followed by SYN_REPORT. Unmapped keys are skipped and
// reported with ErrUnmappedKey after the mapped events are written.
func (t *Transport) WriteReport(r *hid.Report) error {
	if t.closed {
		return pkg.ErrClosed
	}

	clear(t.next)
	var unmapped hid.Key
	for _, k := range r.Keys {
		if k == hid.KeyNone {
			continue
		}
		code, ok := keymap[k]
		if !ok {
			unmapped = k
			continue
		}
		t.next[code] = true
	}
	for bit, code := range modifiers {
		if r.Modifiers&(1<<bit) != 0 {
			t.next[code] = true
		}
	}

	t.events.Reset()
	for code := range t.held {
		if !t.next[code] {
			t.event(evKey, code, 0)
		}
	}
	for code := range t.next {
		if !t.held[code] {
			t.event(evKey, code, 1)
		}
	}
	t.event(evSyn, synReport, 0)

	if _, err := t.w.Write(t.events.Bytes()); err != nil {
		return fmt.Errorf("uinput: write: %w", err)
	}
	t.held, t.next = t.next, t.held

	if unmapped != hid.KeyNone {
		return fmt.Errorf("uinput: key %s: %w", unmapped, pkg.ErrUnmappedKey)
	}
	return nil
}

func (t *Transport) event(typ, code uint16, value int32) {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	binary.Write(&t.events, binary.LittleEndian, &ev)
}

// Close destroys the virtual keyboard. Held keys are released first so the
// desktop does not see a stuck key.
func (t *Transport) Close() error {
	if t.closed {
		return pkg.ErrClosed
	}
	var empty hid.Report
	errs := []error{t.WriteReport(&empty)}
	t.closed = true
	if t.f != nil {
		if err := unix.IoctlSetInt(int(t.f.Fd()), uiDevDestroy, 0); err != nil {
			errs = append(errs, fmt.Errorf("uinput: destroy: %w", err))
		}
		errs = append(errs, t.f.Close())
	}
	return errors.Join(errs...)
}
