package renderer

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/keyspell/internal/renderer/backend"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine renders the bottom row: file and spelling state, or a
// message when one is set.
type StatusLine struct {
	filename   string
	modified   bool
	line       uint32 // 1-indexed
	col        uint32 // 1-indexed
	language   string
	enabled    bool
	misspelled int

	message     string
	messageType MessageType
}

// NewStatusLine creates a status line with spell checking shown as
// enabled.
func NewStatusLine() *StatusLine {
	return &StatusLine{enabled: true}
}

func (s *StatusLine) SetFilename(filename string) { s.filename = filename }
func (s *StatusLine) SetModified(modified bool)   { s.modified = modified }
func (s *StatusLine) SetLanguage(name string)     { s.language = name }
func (s *StatusLine) SetEnabled(enabled bool)     { s.enabled = enabled }
func (s *StatusLine) SetMisspelled(count int)     { s.misspelled = count }

// SetPosition updates the cursor position (1-indexed).
func (s *StatusLine) SetPosition(line, col uint32) {
	s.line = line
	s.col = col
}

// SetMessage displays a message instead of the status bar.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Render draws the status line on row using width cells.
func (s *StatusLine) Render(b backend.Backend, row, width int, theme Theme) {
	if s.message != "" {
		s.renderMessage(b, row, width, theme)
		return
	}

	fillRow(b, 0, row, width, theme.Status)

	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	if s.modified {
		name += " [+]"
	}

	right := s.formatRight()
	rightWidth := runewidth.StringWidth(right)

	// The file name yields to the right-hand info on narrow screens.
	leftMax := width - rightWidth - 2
	if leftMax < 0 {
		leftMax = 0
	}
	drawString(b, 1, row, runewidth.Truncate(name, leftMax, "…"), theme.Status, leftMax)

	if start := width - rightWidth - 1; start > 0 {
		drawString(b, start, row, right, theme.Status, rightWidth)
	}
}

func (s *StatusLine) renderMessage(b backend.Backend, row, width int, theme Theme) {
	var style backend.Style
	switch s.messageType {
	case MessageError:
		style = theme.StatusError
	case MessageWarning:
		style = theme.StatusWarn
	default:
		style = theme.Text
	}
	fillRow(b, 0, row, width, style)
	drawString(b, 0, row, s.message, style, width)
}

// formatRight formats "language | spelling state | Ln x, Col y".
func (s *StatusLine) formatRight() string {
	line, col := s.line, s.col
	if line == 0 {
		line = 1
	}
	if col == 0 {
		col = 1
	}

	spelling := "spelling off"
	if s.enabled {
		switch s.misspelled {
		case 0:
			spelling = "no misspellings"
		case 1:
			spelling = "1 misspelling"
		default:
			spelling = fmt.Sprintf("%d misspellings", s.misspelled)
		}
	}

	lang := s.language
	if lang == "" {
		lang = "-"
	}
	return fmt.Sprintf("%s | %s | Ln %d, Col %d", lang, spelling, line, col)
}
