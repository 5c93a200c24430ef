package pkg

import "errors"

// Controller errors.
var (
	// ErrNotReady indicates the USB host has not enumerated the keyboard.
	ErrNotReady = errors.New("host not ready")

	// ErrTooManyKeys indicates more keys were requested than a report can hold.
	ErrTooManyKeys = errors.New("too many keys for one report")

	// ErrUnmappedKey indicates a HID usage has no backend equivalent.
	ErrUnmappedKey = errors.New("unmapped key")

	// ErrInvalidLine indicates a switch index outside the configured lines.
	ErrInvalidLine = errors.New("invalid switch line")

	// ErrClosed indicates the resource was already closed.
	ErrClosed = errors.New("closed")

	// ErrBadAck indicates the HID bridge rejected or garbled a command.
	ErrBadAck = errors.New("bad acknowledgement")

	// ErrProtocol indicates a malformed message on a simulation pipe.
	ErrProtocol = errors.New("protocol error")

	// ErrChecksum indicates a frame failed its checksum.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrNoUDC indicates no USB device controller is available for a gadget.
	ErrNoUDC = errors.New("no USB device controller")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotSupported indicates an unsupported operation or feature.
	ErrNotSupported = errors.New("not supported")
)

// HostState represents how far the USB host has progressed with the keyboard.
type HostState int

// Host state values.
const (
	HostStateUnknown    HostState = iota // Backend cannot tell
	HostStateDetached                    // No host or cable
	HostStateAttached                    // Powered, not yet enumerated
	HostStateConfigured                  // Enumerated and accepting reports
	HostStateSuspended                   // Bus suspended by the host
)

// String returns a string representation of the host state.
func (s HostState) String() string {
	switch s {
	case HostStateDetached:
		return "detached"
	case HostStateAttached:
		return "attached"
	case HostStateConfigured:
		return "configured"
	case HostStateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Error returns the error a send would observe in this host state.
func (s HostState) Error() error {
	if s == HostStateConfigured {
		return nil
	}
	return ErrNotReady
}

// ParseHostState maps a Linux UDC state string (/sys/class/udc/*/state) to a
// HostState.
func ParseHostState(s string) HostState {
	switch s {
	case "configured":
		return HostStateConfigured
	case "suspended":
		return HostStateSuspended
	case "not attached":
		return HostStateDetached
	case "attached", "powered", "reconnecting", "unauthenticated", "default", "addressed":
		return HostStateAttached
	default:
		return HostStateUnknown
	}
}
