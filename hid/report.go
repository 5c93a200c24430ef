package hid

import "strings"

// Report is one keyboard input report: the complete set of keys the host
// should consider held until the next report replaces it.
type Report struct {
	Modifiers uint8        // Modifier key state (always 0 for move scripts)
	Keys      [MaxKeys]Key // Held key codes, unused slots are KeyNone
}

// Set replaces the held keys with the first MaxKeys entries of keys and
// clears the modifiers. It returns the number of keys kept.
func (r *Report) Set(keys ...Key) int {
	r.Clear()
	n := min(len(keys), MaxKeys)
	copy(r.Keys[:], keys[:n])
	return n
}

// Clear resets the report to all keys released.
func (r *Report) Clear() {
	r.Modifiers = 0
	r.Keys = [MaxKeys]Key{}
}

// Held returns the non-empty key slots in order.
func (r *Report) Held() []Key {
	held := make([]Key, 0, MaxKeys)
	for _, k := range r.Keys {
		if k != KeyNone {
			held = append(held, k)
		}
	}
	return held
}

// Empty reports whether no key and no modifier is held.
func (r *Report) Empty() bool {
	return r.Modifiers == 0 && r.Keys == [MaxKeys]Key{}
}

// MarshalTo writes the report with its report ID prefix to buf.
// Returns the number of bytes written, or 0 if buf is too small.
func (r *Report) MarshalTo(buf []byte) int {
	if len(buf) < ReportSize {
		return 0
	}
	buf[0] = ReportID
	return 1 + r.MarshalBootTo(buf[1:])
}

// MarshalBootTo writes the 8-byte boot protocol layout to buf.
// Returns the number of bytes written, or 0 if buf is too small.
func (r *Report) MarshalBootTo(buf []byte) int {
	if len(buf) < BootReportSize {
		return 0
	}
	buf[0] = r.Modifiers
	buf[1] = 0 // Reserved
	for i, k := range r.Keys {
		buf[2+i] = byte(k)
	}
	return BootReportSize
}

// ParseReport parses a report with or without the report ID prefix.
// Returns false if data has neither length.
func ParseReport(data []byte, out *Report) bool {
	switch len(data) {
	case ReportSize:
		if data[0] != ReportID {
			return false
		}
		data = data[1:]
	case BootReportSize:
	default:
		return false
	}
	out.Modifiers = data[0]
	for i := range out.Keys {
		out.Keys[i] = Key(data[2+i])
	}
	return true
}

// String returns the held keys as "{a,b}".
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range r.Held() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
