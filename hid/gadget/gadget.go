package gadget

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sys/unix"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

// Defaults.
const (
	DefaultDevice  = "/dev/hidg0"
	DefaultUDCRoot = "/sys/class/udc"
)

// stateTTL is how long a read of the UDC state is trusted.
const stateTTL = 100 * time.Millisecond

// writeTimeout bounds a report write when the host stops polling the
// interrupt endpoint.
const writeTimeout = 20 * time.Millisecond

// Config configures the gadget transport.
type Config struct {
	Device   string          // HID gadget node; empty selects DefaultDevice
	UDC      string          // Device controller; empty selects the only one present
	UDCRoot  string          // UDC class directory; empty selects DefaultUDCRoot
	Configfs string          // Gadget directory to create with Install; empty skips setup
	Clock    clockwork.Clock // Time source for the state cache; nil selects the real clock
}

// Transport implements hid.Transport over /dev/hidgN.
type Transport struct {
	f         *os.File
	device    string
	udc       string
	statePath string
	clock     clockwork.Clock
	state     pkg.HostState
	checked   time.Time
	buf       [hid.ReportSize]byte
}

var _ hid.Transport = (*Transport)(nil)

// Open resolves the device controller, installs the gadget if cfg.Configfs
// is set, and opens the HID gadget node.
func Open(cfg Config) (*Transport, error) {
	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}
	if cfg.UDCRoot == "" {
		cfg.UDCRoot = DefaultUDCRoot
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	udc, err := ResolveUDC(cfg.UDCRoot, cfg.UDC)
	if err != nil {
		return nil, err
	}

	if cfg.Configfs != "" {
		if err := Install(cfg.Configfs, udc); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(cfg.Device, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("gadget: open %s: %w", cfg.Device, err)
	}

	pkg.LogInfo(pkg.ComponentHAL, "gadget transport opened",
		"device", cfg.Device,
		"udc", udc)

	return &Transport{
		f:         f,
		device:    cfg.Device,
		udc:       udc,
		statePath: filepath.Join(cfg.UDCRoot, udc, "state"),
		clock:     cfg.Clock,
	}, nil
}

// ResolveUDC returns name if it exists under root, or the only controller
// under root if name is empty.
func ResolveUDC(root, name string) (string, error) {
	if name != "" {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			return "", fmt.Errorf("gadget: udc %s: %w", name, pkg.ErrNoUDC)
		}
		return name, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil || len(entries) == 0 {
		return "", fmt.Errorf("gadget: %s: %w", root, pkg.ErrNoUDC)
	}
	if len(entries) > 1 {
		pkg.LogWarn(pkg.ComponentHAL, "several device controllers, using the first",
			"udc", entries[0].Name(),
			"count", len(entries))
	}
	return entries[0].Name(), nil
}

// UDC returns the device controller name.
func (t *Transport) UDC() string {
	return t.udc
}

// State returns the host state, reading sysfs if the cached value expired.
func (t *Transport) State() pkg.HostState {
	now := t.clock.Now()
	if !t.checked.IsZero() && now.Sub(t.checked) < stateTTL {
		return t.state
	}
	t.checked = now

	state := pkg.HostStateUnknown
	if data, err := os.ReadFile(t.statePath); err == nil {
		state = pkg.ParseHostState(strings.TrimSpace(string(data)))
	}
	if state != t.state {
		pkg.LogInfo(pkg.ComponentHAL, "host state changed",
			"udc", t.udc,
			"from", t.state,
			"to", state)
		t.state = state
	}
	return state
}

// Ready returns true if the host has configured the gadget.
func (t *Transport) Ready() bool {
	if t.f == nil {
		return false
	}
	return t.State().Error() == nil
}

// WriteReport writes one report with its report ID prefix.
func (t *Transport) WriteReport(r *hid.Report) error {
	if t.f == nil {
		return pkg.ErrClosed
	}
	n := r.MarshalTo(t.buf[:])

	// Not every node supports deadlines; a plain file simply ignores it.
	_ = t.f.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := t.f.Write(t.buf[:n]); err != nil {
		t.checked = time.Time{}
		if errors.Is(err, unix.ESHUTDOWN) {
			return fmt.Errorf("gadget: %s: %w", t.device, pkg.ErrNotReady)
		}
		return fmt.Errorf("gadget: write %s: %w", t.device, err)
	}
	return nil
}

// Close closes the gadget node. The configfs gadget stays bound.
func (t *Transport) Close() error {
	if t.f == nil {
		return pkg.ErrClosed
	}
	err := t.f.Close()
	t.f = nil
	return err
}
