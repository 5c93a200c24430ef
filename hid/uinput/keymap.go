package uinput

import "github.com/ardnew/movepad/hid"

// Linux input event codes used by the virtual keyboard.
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0
	busUSB    = 0x03
)

// keymap maps HID usages to Linux KEY_* codes.
var keymap = map[hid.Key]uint16{
	hid.KeyEscape:     1,
	hid.Key1:          2,
	hid.Key2:          3,
	hid.Key3:          4,
	hid.Key4:          5,
	hid.Key5:          6,
	hid.Key6:          7,
	hid.Key7:          8,
	hid.Key8:          9,
	hid.Key9:          10,
	hid.Key0:          11,
	hid.KeyMinus:      12,
	hid.KeyEqual:      13,
	hid.KeyBackspace:  14,
	hid.KeyTab:        15,
	hid.KeyQ:          16,
	hid.KeyW:          17,
	hid.KeyE:          18,
	hid.KeyR:          19,
	hid.KeyT:          20,
	hid.KeyY:          21,
	hid.KeyU:          22,
	hid.KeyI:          23,
	hid.KeyO:          24,
	hid.KeyP:          25,
	hid.KeyLeftBrace:  26,
	hid.KeyRightBrace: 27,
	hid.KeyEnter:      28,
	hid.KeyA:          30,
	hid.KeyS:          31,
	hid.KeyD:          32,
	hid.KeyF:          33,
	hid.KeyG:          34,
	hid.KeyH:          35,
	hid.KeyJ:          36,
	hid.KeyK:          37,
	hid.KeyL:          38,
	hid.KeySemicolon:  39,
	hid.KeyQuote:      40,
	hid.KeyGrave:      41,
	hid.KeyBackslash:  43,
	hid.KeyZ:          44,
	hid.KeyX:          45,
	hid.KeyC:          46,
	hid.KeyV:          47,
	hid.KeyB:          48,
	hid.KeyN:          49,
	hid.KeyM:          50,
	hid.KeyComma:      51,
	hid.KeyDot:        52,
	hid.KeySlash:      53,
	hid.KeySpace:      57,
	hid.KeyUp:         103,
	hid.KeyLeft:       105,
	hid.KeyRight:      106,
	hid.KeyDown:       108,
}

// modifiers maps report modifier bits to Linux KEY_* codes, in bit order.
var modifiers = [8]uint16{
	29,  // ModLeftCtrl
	42,  // ModLeftShift
	56,  // ModLeftAlt
	125, // ModLeftGUI
	97,  // ModRightCtrl
	54,  // ModRightShift
	100, // ModRightAlt
	126, // ModRightGUI
}

// Code returns the Linux key code for a HID usage.
func Code(k hid.Key) (uint16, bool) {
	c, ok := keymap[k]
	return c, ok
}
