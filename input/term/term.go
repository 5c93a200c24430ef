package term

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/term"

	"github.com/ardnew/movepad/input"
	"github.com/ardnew/movepad/pkg"
)

// Defaults.
const (
	DefaultDevice = "/dev/tty"
	DefaultKeys   = "12345"
	DefaultHold   = 60 * time.Millisecond
)

// readTimeout bounds each terminal read so Close is noticed.
const readTimeout = 100 * time.Millisecond

// Control keys.
const (
	keyInterrupt = 0x03 // Ctrl-C
	keyQuit      = 'q'
)

// Config configures the terminal reader.
type Config struct {
	Device      string          // Terminal node; empty selects DefaultDevice
	Keys        string          // Key per switch index; empty selects DefaultKeys
	Hold        time.Duration   // Low pulse per key; 0 selects DefaultHold
	Clock       clockwork.Clock // Nil selects the real clock
	OnInterrupt func()          // Called on Ctrl-C or q
}

// Reader implements input.Reader from terminal keys.
type Reader struct {
	keys        string
	hold        time.Duration
	clock       clockwork.Clock
	onInterrupt func()
	tty         *term.Term

	mu     sync.Mutex
	until  []time.Time // Line is low until this time
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

var _ input.Reader = (*Reader)(nil)

// Open puts the terminal in raw mode and starts reading keys.
func Open(cfg Config) (*Reader, error) {
	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}
	tty, err := term.Open(cfg.Device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("term: open %s: %w", cfg.Device, err)
	}
	if err := tty.SetReadTimeout(readTimeout); err != nil {
		tty.Restore()
		tty.Close()
		return nil, fmt.Errorf("term: read timeout: %w", err)
	}

	r := newReader(cfg)
	r.tty = tty
	r.start(tty, true)
	pkg.LogInfo(pkg.ComponentSwitch, "terminal switches ready",
		"device", cfg.Device,
		"keys", r.keys,
		"hold", r.hold)
	return r, nil
}

func newReader(cfg Config) *Reader {
	if cfg.Keys == "" {
		cfg.Keys = DefaultKeys
	}
	if cfg.Hold <= 0 {
		cfg.Hold = DefaultHold
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Reader{
		keys:        cfg.Keys,
		hold:        cfg.Hold,
		clock:       cfg.Clock,
		onInterrupt: cfg.OnInterrupt,
		until:       make([]time.Time, len(cfg.Keys)),
		done:        make(chan struct{}),
	}
}

// start runs the key loop over src. If eofIsTimeout is set, an empty read
// is a read timeout rather than the end of input.
func (r *Reader) start(src io.Reader, eofIsTimeout bool) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		var buf [16]byte
		for {
			select {
			case <-r.done:
				return
			default:
			}
			n, err := src.Read(buf[:])
			for _, b := range buf[:n] {
				r.key(b)
			}
			if err != nil {
				if errors.Is(err, io.EOF) && eofIsTimeout {
					continue
				}
				if !errors.Is(err, io.EOF) {
					pkg.LogWarn(pkg.ComponentSwitch, "terminal read failed", "error", err)
				}
				return
			}
		}
	}()
}

// key handles one typed byte.
func (r *Reader) key(b byte) {
	if b == keyInterrupt || b == keyQuit {
		pkg.LogInfo(pkg.ComponentSwitch, "terminal interrupt")
		if r.onInterrupt != nil {
			r.onInterrupt()
		}
		return
	}
	i := strings.IndexByte(r.keys, b)
	if i < 0 {
		return
	}
	r.mu.Lock()
	r.until[i] = r.clock.Now().Add(r.hold)
	r.mu.Unlock()
	pkg.LogDebug(pkg.ComponentSwitch, "terminal key", "switch", i, "key", string(b))
}

// Lines returns the number of simulated switches.
func (r *Reader) Lines() int {
	return len(r.keys)
}

// Read returns Low while switch i's key pulse lasts.
func (r *Reader) Read(i int) (input.Level, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return input.High, pkg.ErrClosed
	}
	if i < 0 || i >= len(r.until) {
		return input.High, fmt.Errorf("term: switch %d: %w", i, pkg.ErrInvalidLine)
	}
	if r.clock.Now().Before(r.until[i]) {
		return input.Low, nil
	}
	return input.High, nil
}

// Close stops the key loop and restores the terminal.
func (r *Reader) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return pkg.ErrClosed
	}
	r.closed = true
	r.mu.Unlock()

	close(r.done)
	r.wg.Wait()

	if r.tty == nil {
		return nil
	}
	restoreErr := r.tty.Restore()
	return errors.Join(restoreErr, r.tty.Close())
}
