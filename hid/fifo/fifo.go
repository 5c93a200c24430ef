package fifo

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

// PipeName is the file name of the report pipe inside the pipe directory.
const PipeName = "reports"

// Message layout.
const (
	msgReport  = 0x02
	headerSize = 3 // type (1) + length (2)
	messageLen = headerSize + hid.ReportSize
)

// readPoll bounds each blocking read so ReadReport can observe its context.
const readPoll = 100 * time.Millisecond

// Transport implements hid.Transport over a named pipe.
type Transport struct {
	path   string
	w      *os.File // Nil until a reader is present
	closed bool
	buf    [messageLen]byte
}

var _ hid.Transport = (*Transport)(nil)

// Open creates the pipe directory and report pipe if needed. The transport
// is not ready until a reader opens the pipe.
func Open(dir string) (*Transport, error) {
	path, err := createFIFO(dir)
	if err != nil {
		return nil, err
	}
	pkg.LogInfo(pkg.ComponentHAL, "fifo transport created", "path", path)
	return &Transport{path: path}, nil
}

// Path returns the report pipe path.
func (t *Transport) Path() string {
	return t.path
}

// Ready returns true if a reader holds the pipe open.
func (t *Transport) Ready() bool {
	if t.closed {
		return false
	}
	if t.w != nil {
		return true
	}
	f, err := os.OpenFile(t.path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		if !errors.Is(err, unix.ENXIO) {
			pkg.LogDebug(pkg.ComponentHAL, "fifo open failed", "path", t.path, "error", err)
		}
		return false
	}
	t.w = f
	pkg.LogInfo(pkg.ComponentHAL, "fifo reader connected", "path", t.path)
	return true
}

// WriteReport writes one report message. If the reader has gone away the
// pipe is released and ErrNotReady is returned; the next Ready call waits
// for a new reader.
func (t *Transport) WriteReport(r *hid.Report) error {
	if t.closed {
		return pkg.ErrClosed
	}
	if t.w == nil {
		return pkg.ErrNotReady
	}

	n := r.MarshalTo(t.buf[headerSize:])
	t.buf[0] = msgReport
	binary.LittleEndian.PutUint16(t.buf[1:headerSize], uint16(n))

	if _, err := t.w.Write(t.buf[:headerSize+n]); err != nil {
		t.w.Close()
		t.w = nil
		if errors.Is(err, unix.EPIPE) {
			pkg.LogInfo(pkg.ComponentHAL, "fifo reader disconnected", "path", t.path)
			return fmt.Errorf("fifo: reader gone: %w", pkg.ErrNotReady)
		}
		return fmt.Errorf("fifo: write: %w", err)
	}
	return nil
}

// Close releases the write side. The pipe is left in place for the reader.
func (t *Transport) Close() error {
	if t.closed {
		return pkg.ErrClosed
	}
	t.closed = true
	if t.w != nil {
		err := t.w.Close()
		t.w = nil
		return err
	}
	return nil
}

// Reader reads report messages from the pipe.
type Reader struct {
	path string
	f    *os.File
	buf  [messageLen]byte
}

// OpenReader opens the read side of the report pipe, creating it if needed.
// The pipe is opened read-write so the reader never sees end-of-file when a
// controller exits; a restarted controller reconnects to the same reader.
func OpenReader(dir string) (*Reader, error) {
	path, err := createFIFO(dir)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("fifo: open %s: %w", path, err)
	}
	return &Reader{path: path, f: f}, nil
}

// Path returns the report pipe path.
func (r *Reader) Path() string {
	return r.path
}

// ReadReport blocks until a report arrives or ctx is done.
func (r *Reader) ReadReport(ctx context.Context, out *hid.Report) error {
	header := r.buf[:headerSize]
	if err := r.readFull(ctx, header); err != nil {
		return err
	}
	length := int(binary.LittleEndian.Uint16(header[1:headerSize]))
	if header[0] != msgReport {
		pkg.LogDebug(pkg.ComponentHAL, "fifo message type unknown",
			"type", header[0],
			"length", length)
		if err := r.discard(ctx, length); err != nil {
			return err
		}
		return fmt.Errorf("fifo: message type %#02x: %w", header[0], pkg.ErrProtocol)
	}
	if length > hid.ReportSize {
		if err := r.discard(ctx, length); err != nil {
			return err
		}
		return fmt.Errorf("fifo: message length %d: %w", length, pkg.ErrProtocol)
	}

	data := r.buf[headerSize : headerSize+length]
	if err := r.readFull(ctx, data); err != nil {
		return err
	}
	if !hid.ParseReport(data, out) {
		return fmt.Errorf("fifo: report length %d: %w", length, pkg.ErrProtocol)
	}
	return nil
}

// Close closes the read side.
func (r *Reader) Close() error {
	return r.f.Close()
}

// discard skips n payload bytes of a rejected message so the next read
// starts at a header.
func (r *Reader) discard(ctx context.Context, n int) error {
	for n > 0 {
		chunk := min(n, len(r.buf))
		if err := r.readFull(ctx, r.buf[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// readFull reads exactly len(buf) bytes, retrying on read deadlines so ctx
// is checked at least every readPoll.
func (r *Reader) readFull(ctx context.Context, buf []byte) error {
	total := 0
	for total < len(buf) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.f.SetReadDeadline(time.Now().Add(readPoll)); err != nil {
			return fmt.Errorf("fifo: read deadline: %w", err)
		}
		n, err := r.f.Read(buf[total:])
		total += n
		if err != nil {
			if os.IsTimeout(err) || errors.Is(err, io.EOF) {
				continue
			}
			return fmt.Errorf("fifo: read: %w", err)
		}
	}
	return nil
}

// createFIFO makes dir and the report pipe inside it. An existing pipe is
// kept; any other file at that path is replaced.
func createFIFO(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("fifo: create dir: %w", err)
	}
	path := filepath.Join(dir, PipeName)

	if fi, err := os.Stat(path); err == nil {
		if fi.Mode()&os.ModeNamedPipe != 0 {
			return path, nil
		}
		os.Remove(path)
	}
	if err := unix.Mkfifo(path, 0o666); err != nil && !errors.Is(err, unix.EEXIST) {
		return "", fmt.Errorf("fifo: mkfifo %s: %w", path, err)
	}
	return path, nil
}
