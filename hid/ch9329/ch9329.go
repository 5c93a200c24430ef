package ch9329

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"go.bug.st/serial"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

// DefaultBaud is the UART rate movepad expects. The chip ships at 9600 baud,
// where one report and its ack take about 22ms, longer than a half step. Set
// the chip to 115200 with the vendor configuration tool before use.
const DefaultBaud = 115200

// FactoryBaud is the UART rate of an unconfigured CH9329.
const FactoryBaud = 9600

// replyTimeout bounds the wait for a reply frame. A 14-byte command and its
// 7-byte reply take about 2ms at 115200 baud and 22ms at 9600 baud.
const replyTimeout = 50 * time.Millisecond

// readyTTL is how long a GET_INFO answer is trusted.
const readyTTL = 250 * time.Millisecond

// Port is the serial link to the chip. serial.Port implements it.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Config configures the CH9329 transport.
type Config struct {
	Port  string          // Serial device, e.g. /dev/ttyS0
	Baud  int             // UART rate; 0 selects DefaultBaud
	Addr  byte            // Chip address
	Clock clockwork.Clock // Time source for the readiness cache; nil selects the real clock
}

// Transport implements hid.Transport over a CH9329.
type Transport struct {
	port    Port
	addr    byte
	clock   clockwork.Clock
	ready   bool
	checked time.Time
	closed  bool
	tx      [maxFrame]byte
	rx      [maxFrame]byte
	report  [hid.BootReportSize]byte
}

var _ hid.Transport = (*Transport)(nil)

// Open opens the serial port and returns a transport over it.
func Open(cfg Config) (*Transport, error) {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("ch9329: open %s: %w", cfg.Port, err)
	}
	t, err := New(p, cfg)
	if err != nil {
		p.Close()
		return nil, err
	}
	pkg.LogInfo(pkg.ComponentHAL, "ch9329 transport opened",
		"port", cfg.Port,
		"baud", cfg.Baud)
	if rt := RoundTrip(cfg.Baud); rt > slowRoundTrip {
		pkg.LogWarn(pkg.ComponentHAL, "ch9329 link too slow for step timing",
			"baud", cfg.Baud,
			"report_round_trip", rt)
	}
	return t, nil
}

// New returns a transport over an open port. cfg.Port and cfg.Baud are
// ignored.
func New(p Port, cfg Config) (*Transport, error) {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if err := p.SetReadTimeout(replyTimeout); err != nil {
		return nil, fmt.Errorf("ch9329: read timeout: %w", err)
	}
	return &Transport{port: p, addr: cfg.Addr, clock: cfg.Clock}, nil
}

// slowRoundTrip is the report round trip above which script steps lose
// their shape.
const slowRoundTrip = 5 * time.Millisecond

// RoundTrip returns the line time of one keyboard report frame and its ack
// at baud, with 10 bits per byte.
func RoundTrip(baud int) time.Duration {
	if baud <= 0 {
		return 0
	}
	const frameBytes = headerSize + hid.BootReportSize + 1 + headerSize + 1 + 1
	return time.Duration(frameBytes*10) * time.Second / time.Duration(baud)
}

// Info is the GET_INFO reply.
type Info struct {
	Version    byte
	Enumerated bool
	LEDs       byte
}

// GetInfo queries the chip version and USB state.
func (t *Transport) GetInfo() (Info, error) {
	f, err := t.command(CmdGetInfo, nil)
	if err != nil {
		return Info{}, err
	}
	if len(f.Data) < 3 {
		return Info{}, fmt.Errorf("ch9329: info length %d: %w", len(f.Data), pkg.ErrBadAck)
	}
	return Info{
		Version:    f.Data[0],
		Enumerated: f.Data[1] == usbEnumerated,
		LEDs:       f.Data[2],
	}, nil
}

// Ready returns true if the chip reports that the host enumerated it.
//
// An accepted report refreshes the cached answer, so a running script never
// queries the chip between reports. GET_INFO is sent only when the cache has
// expired, which happens while idle or after a failed send.
func (t *Transport) Ready() bool {
	if t.closed {
		return false
	}
	now := t.clock.Now()
	if !t.checked.IsZero() && now.Sub(t.checked) < readyTTL {
		return t.ready
	}
	t.checked = now

	ready := false
	info, err := t.GetInfo()
	if err != nil {
		pkg.LogDebug(pkg.ComponentHAL, "ch9329 info failed", "error", err)
	} else {
		ready = info.Enumerated
	}
	t.setReady(ready, "version", info.Version)
	return ready
}

func (t *Transport) setReady(ready bool, kv ...any) {
	if ready == t.ready {
		return
	}
	pkg.LogInfo(pkg.ComponentHAL, "ch9329 host state changed",
		append([]any{"enumerated", ready}, kv...)...)
	t.ready = ready
}

// WriteReport sends one boot report and waits for the chip to accept it.
func (t *Transport) WriteReport(r *hid.Report) error {
	if t.closed {
		return pkg.ErrClosed
	}
	n := r.MarshalBootTo(t.report[:])
	f, err := t.command(CmdSendKeyboard, t.report[:n])
	if err != nil {
		t.checked = time.Time{}
		return err
	}
	if len(f.Data) != 1 {
		t.checked = time.Time{}
		return fmt.Errorf("ch9329: ack length %d: %w", len(f.Data), pkg.ErrBadAck)
	}
	if err := statusError(CmdSendKeyboard, f.Data[0]); err != nil {
		t.checked = time.Time{}
		return err
	}
	t.checked = t.clock.Now()
	t.setReady(true)
	return nil
}

// Close closes the serial port.
func (t *Transport) Close() error {
	if t.closed {
		return pkg.ErrClosed
	}
	t.closed = true
	return t.port.Close()
}

// command sends cmd with data and returns the matching reply.
func (t *Transport) command(cmd byte, data []byte) (Frame, error) {
	n := MarshalFrame(t.tx[:], t.addr, cmd, data)
	if n == 0 {
		return Frame{}, fmt.Errorf("ch9329: command %#02x: %w", cmd, pkg.ErrInvalidParameter)
	}
	if err := t.port.ResetInputBuffer(); err != nil {
		return Frame{}, fmt.Errorf("ch9329: flush: %w", err)
	}
	if _, err := t.port.Write(t.tx[:n]); err != nil {
		return Frame{}, fmt.Errorf("ch9329: write: %w", err)
	}

	f, err := t.readFrame()
	if err != nil {
		return Frame{}, err
	}
	switch f.Cmd {
	case cmd | replyFlag:
		return f, nil
	case cmd | replyErrorFlag:
		status := byte(0xFF)
		if len(f.Data) > 0 {
			status = f.Data[0]
		}
		return Frame{}, statusError(cmd, status)
	default:
		return Frame{}, fmt.Errorf("ch9329: reply %#02x to command %#02x: %w", f.Cmd, cmd, pkg.ErrBadAck)
	}
}

// readFrame reads one reply, skipping any bytes before the header.
func (t *Transport) readFrame() (Frame, error) {
	buf := t.rx[:]
	if err := t.readFull(buf[:1]); err != nil {
		return Frame{}, err
	}
	for {
		if buf[0] != Head0 {
			if err := t.readFull(buf[:1]); err != nil {
				return Frame{}, err
			}
			continue
		}
		if err := t.readFull(buf[1:2]); err != nil {
			return Frame{}, err
		}
		if buf[1] == Head1 {
			break
		}
		buf[0] = buf[1]
	}
	if err := t.readFull(buf[2:headerSize]); err != nil {
		return Frame{}, err
	}
	length := int(buf[4])
	if length > maxData {
		return Frame{}, fmt.Errorf("ch9329: reply length %d: %w", length, pkg.ErrBadAck)
	}
	end := headerSize + length + 1
	if err := t.readFull(buf[headerSize:end]); err != nil {
		return Frame{}, err
	}
	return ParseFrame(buf[:end])
}

// readFull fills buf. A read returning no data means the port timed out.
func (t *Transport) readFull(buf []byte) error {
	for total := 0; total < len(buf); {
		n, err := t.port.Read(buf[total:])
		if err != nil {
			return fmt.Errorf("ch9329: read: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("ch9329: no reply: %w", os.ErrDeadlineExceeded)
		}
		total += n
	}
	return nil
}
