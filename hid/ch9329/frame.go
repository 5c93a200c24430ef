package ch9329

import (
	"fmt"

	"github.com/ardnew/movepad/pkg"
)

// Frame constants.
const (
	Head0       = 0x57
	Head1       = 0xAB
	DefaultAddr = 0x00

	headerSize = 5 // head (2) + addr + cmd + len
	maxData    = 64
	maxFrame   = headerSize + maxData + 1
)

// Commands.
const (
	CmdGetInfo       = 0x01
	CmdSendKeyboard  = 0x02
	replyFlag        = 0x80
	replyErrorFlag   = 0xC0
	replyCommandMask = 0x3F
)

// Status codes carried by replies.
const (
	StatusOK        = 0x00
	StatusTimeout   = 0xE1
	StatusHead      = 0xE2
	StatusCommand   = 0xE3
	StatusChecksum  = 0xE4
	StatusParameter = 0xE5
	StatusOperation = 0xE6
)

// USB status reported by GET_INFO.
const usbEnumerated = 0x01

// checksum returns the low byte of the sum of b.
func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}

// MarshalFrame writes a command frame to buf. Returns the number of bytes
// written, or 0 if buf is too small or data too long.
func MarshalFrame(buf []byte, addr, cmd byte, data []byte) int {
	n := headerSize + len(data) + 1
	if len(data) > maxData || len(buf) < n {
		return 0
	}
	buf[0] = Head0
	buf[1] = Head1
	buf[2] = addr
	buf[3] = cmd
	buf[4] = byte(len(data))
	copy(buf[headerSize:], data)
	buf[n-1] = checksum(buf[:n-1])
	return n
}

// Frame is a decoded frame.
type Frame struct {
	Addr byte
	Cmd  byte
	Data []byte
}

// ParseFrame decodes one complete frame. Data aliases b.
func ParseFrame(b []byte) (Frame, error) {
	if len(b) < headerSize+1 || b[0] != Head0 || b[1] != Head1 {
		return Frame{}, fmt.Errorf("ch9329: frame header: %w", pkg.ErrBadAck)
	}
	n := headerSize + int(b[4]) + 1
	if len(b) != n {
		return Frame{}, fmt.Errorf("ch9329: frame length %d, want %d: %w", len(b), n, pkg.ErrBadAck)
	}
	if sum := checksum(b[:n-1]); sum != b[n-1] {
		return Frame{}, fmt.Errorf("ch9329: sum %#02x, want %#02x: %w", b[n-1], sum, pkg.ErrChecksum)
	}
	return Frame{Addr: b[2], Cmd: b[3], Data: b[headerSize : n-1]}, nil
}

// statusError converts a reply status to an error.
func statusError(cmd, status byte) error {
	var reason string
	switch status {
	case StatusOK:
		return nil
	case StatusTimeout:
		reason = "receive timeout"
	case StatusHead:
		reason = "bad header"
	case StatusCommand:
		reason = "bad command"
	case StatusChecksum:
		reason = "bad checksum"
	case StatusParameter:
		reason = "bad parameter"
	case StatusOperation:
		reason = "operation failed"
	default:
		reason = fmt.Sprintf("status %#02x", status)
	}
	return fmt.Errorf("ch9329: command %#02x: %s: %w", cmd, reason, pkg.ErrBadAck)
}
