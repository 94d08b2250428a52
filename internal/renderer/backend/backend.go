// Package backend provides the terminal abstraction for the renderer.
package backend

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
	// EventClosed is returned by PollEvent after Shutdown.
	EventClosed
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int

	// Data carried by an interrupt posted with Interrupt.
	Data any
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF7
	KeyCtrlSpace
	KeyCtrlC
	KeyCtrlL
	KeyCtrlQ
	KeyCtrlS
	KeyCtrlT
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Color is a 24-bit color. The zero value is the terminal default.
type Color uint32

const (
	ColorDefault Color = 0
	colorIsRGB   Color = 1 << 24
)

// RGB returns a true color.
func RGB(r, g, b uint8) Color {
	return colorIsRGB | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool {
	return c&colorIsRGB == 0
}

// RGB returns the components of c.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Attr is a set of text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrReverse
	AttrUnderline
	// AttrCurly draws the underline as a wave where supported.
	AttrCurly
)

// Style is a foreground, background and attribute set. The zero value
// is the terminal default.
type Style struct {
	Fg, Bg Color
	Attrs  Attr
	// UnderlineColor colors the underline when AttrUnderline is set.
	UnderlineColor Color
}

// With returns s with attrs added.
func (s Style) With(attrs Attr) Style {
	s.Attrs |= attrs
	return s
}

// Backend draws cells and reports input events.
type Backend interface {
	// Init prepares the terminal. Must be called before any other method.
	Init() error

	// Shutdown restores the terminal. PollEvent then returns EventClosed.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell draws r at x, y. Positions outside the terminal are ignored.
	SetCell(x, y int, r rune, style Style)

	// Cell returns the rune and style at x, y.
	Cell(x, y int) (rune, Style)

	// Clear clears the screen with the default style.
	Clear()

	// Show flushes changes to the display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent waits for and returns the next event.
	PollEvent() Event

	// Interrupt wakes PollEvent with an EventInterrupt carrying data.
	Interrupt(data any)

	// Beep rings the bell.
	Beep()
}
