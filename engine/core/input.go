package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions. Letters and digits match their ASCII codes.
type KeyCode uint16

const (
	KEY_ESCAPE KeyCode = 0x1B
	KEY_SPACE  KeyCode = 0x20
	KEY_0      KeyCode = 0x30
	KEY_1      KeyCode = 0x31
	KEY_9      KeyCode = 0x39
	KEY_B      KeyCode = 0x42
	KEY_C      KeyCode = 0x43
	KEY_F      KeyCode = 0x46
	KEY_R      KeyCode = 0x52
)

// InputHandler receives window input already translated by the platform.
// Drag deltas are in pixels, scroll in wheel steps.
type InputHandler interface {
	OnDrag(button Button, dx, dy float64)
	OnScroll(dy float64)
	OnKey(key KeyCode)
	OnResize(width, height uint32)
}
