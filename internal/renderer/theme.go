package renderer

import "github.com/dshills/keyspell/internal/renderer/backend"

// Theme holds the styles used to draw a frame.
type Theme struct {
	Text         backend.Style
	Misspelled   backend.Style
	Status       backend.Style
	StatusError  backend.Style
	StatusWarn   backend.Style
	Menu         backend.Style
	MenuSelected backend.Style
	MenuDisabled backend.Style
}

// DefaultTheme underlines misspellings with a red wave and draws the
// status line and menus in reverse video.
func DefaultTheme() Theme {
	red := backend.RGB(0xe0, 0x30, 0x30)
	return Theme{
		Text: backend.Style{},
		Misspelled: backend.Style{
			Attrs:          backend.AttrUnderline | backend.AttrCurly,
			UnderlineColor: red,
		},
		Status:       backend.Style{Attrs: backend.AttrReverse},
		StatusError:  backend.Style{Fg: red, Attrs: backend.AttrBold},
		StatusWarn:   backend.Style{Fg: backend.RGB(0xe0, 0xb0, 0x30)},
		Menu:         backend.Style{Attrs: backend.AttrReverse},
		MenuSelected: backend.Style{Attrs: backend.AttrBold},
		MenuDisabled: backend.Style{Attrs: backend.AttrReverse | backend.AttrDim},
	}
}
