package hid

// HID class codes used when describing the keyboard function to a USB gadget.
const (
	ClassHID         = 0x03 // Human Interface Device Class
	SubclassBoot     = 0x01 // Boot Interface Subclass
	ProtocolKeyboard = 0x01 // Keyboard boot protocol
)

// ReportID is the report ID carried by every keyboard report.
const ReportID = 0x01

// PollInterval is the interrupt IN polling interval requested from the host,
// in milliseconds.
const PollInterval = 2

// MaxKeys is the number of key slots in a boot keyboard report.
const MaxKeys = 6

// Report sizes in bytes.
const (
	BootReportSize = 2 + MaxKeys       // modifiers, reserved, keys
	ReportSize     = 1 + BootReportSize // report ID prefix
)

// Keyboard modifier bits.
const (
	ModLeftCtrl   = 1 << 0
	ModLeftShift  = 1 << 1
	ModLeftAlt    = 1 << 2
	ModLeftGUI    = 1 << 3
	ModRightCtrl  = 1 << 4
	ModRightShift = 1 << 5
	ModRightAlt   = 1 << 6
	ModRightGUI   = 1 << 7
)

// Key is a keyboard usage code (USB HID Usage Tables, page 0x07).
type Key uint8

// Keyboard usage codes.
const (
	KeyNone       Key = 0x00
	KeyA          Key = 0x04
	KeyB          Key = 0x05
	KeyC          Key = 0x06
	KeyD          Key = 0x07
	KeyE          Key = 0x08
	KeyF          Key = 0x09
	KeyG          Key = 0x0A
	KeyH          Key = 0x0B
	KeyI          Key = 0x0C
	KeyJ          Key = 0x0D
	KeyK          Key = 0x0E
	KeyL          Key = 0x0F
	KeyM          Key = 0x10
	KeyN          Key = 0x11
	KeyO          Key = 0x12
	KeyP          Key = 0x13
	KeyQ          Key = 0x14
	KeyR          Key = 0x15
	KeyS          Key = 0x16
	KeyT          Key = 0x17
	KeyU          Key = 0x18
	KeyV          Key = 0x19
	KeyW          Key = 0x1A
	KeyX          Key = 0x1B
	KeyY          Key = 0x1C
	KeyZ          Key = 0x1D
	Key1          Key = 0x1E
	Key2          Key = 0x1F
	Key3          Key = 0x20
	Key4          Key = 0x21
	Key5          Key = 0x22
	Key6          Key = 0x23
	Key7          Key = 0x24
	Key8          Key = 0x25
	Key9          Key = 0x26
	Key0          Key = 0x27
	KeyEnter      Key = 0x28
	KeyEscape     Key = 0x29
	KeyBackspace  Key = 0x2A
	KeyTab        Key = 0x2B
	KeySpace      Key = 0x2C
	KeyMinus      Key = 0x2D
	KeyEqual      Key = 0x2E
	KeyLeftBrace  Key = 0x2F
	KeyRightBrace Key = 0x30
	KeyBackslash  Key = 0x31
	KeySemicolon  Key = 0x33
	KeyQuote      Key = 0x34
	KeyGrave      Key = 0x35
	KeyComma      Key = 0x36
	KeyDot        Key = 0x37
	KeySlash      Key = 0x38
	KeyRight      Key = 0x4F
	KeyLeft       Key = 0x50
	KeyDown       Key = 0x51
	KeyUp         Key = 0x52
)

var keyNames = map[Key]string{
	KeyNone: "none", KeyEnter: "enter", KeyEscape: "esc", KeyBackspace: "backspace",
	KeyTab: "tab", KeySpace: "space", KeyMinus: "-", KeyEqual: "=",
	KeyLeftBrace: "[", KeyRightBrace: "]", KeyBackslash: `\`, KeySemicolon: ";",
	KeyQuote: "'", KeyGrave: "`", KeyComma: ",", KeyDot: ".", KeySlash: "/",
	KeyRight: "right", KeyLeft: "left", KeyDown: "down", KeyUp: "up",
}

// String returns a short printable name for the key.
func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('a' + (k - KeyA)))
	case k >= Key1 && k <= Key9:
		return string(rune('1' + (k - Key1)))
	case k == Key0:
		return "0"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "0x" + hexByte(uint8(k))
}

func hexByte(b uint8) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}

// ReportDescriptor is a boot-compatible keyboard report descriptor with
// report ID 1.
// Report format: [reportID, modifiers, reserved, key1, key2, key3, key4, key5, key6]
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xA1, 0x01, // Collection (Application)
	0x85, ReportID, //   Report ID (1)
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0xE0, //   Usage Minimum (Left Control)
	0x29, 0xE7, //   Usage Maximum (Right GUI)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data, Variable, Absolute) - Modifier byte
	0x95, 0x01, //   Report Count (1)
	0x75, 0x08, //   Report Size (8)
	0x81, 0x01, //   Input (Constant) - Reserved byte
	0x95, 0x05, //   Report Count (5)
	0x75, 0x01, //   Report Size (1)
	0x05, 0x08, //   Usage Page (LEDs)
	0x19, 0x01, //   Usage Minimum (Num Lock)
	0x29, 0x05, //   Usage Maximum (Kana)
	0x91, 0x02, //   Output (Data, Variable, Absolute) - LED report
	0x95, 0x01, //   Report Count (1)
	0x75, 0x03, //   Report Size (3)
	0x91, 0x01, //   Output (Constant) - Padding
	0x95, MaxKeys, //   Report Count (6)
	0x75, 0x08, //   Report Size (8)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, // Logical Maximum (255)
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0x00, //   Usage Minimum (0)
	0x2A, 0xFF, 0x00, // Usage Maximum (255)
	0x81, 0x00, //   Input (Data, Array) - Key array
	0xC0, // End Collection
}
