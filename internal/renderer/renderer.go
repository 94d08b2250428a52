package renderer

import (
	"slices"
	"sort"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/keyspell/internal/engine"
	"github.com/dshills/keyspell/internal/engine/buffer"
	"github.com/dshills/keyspell/internal/renderer/backend"
)

// Frame is everything drawn by one Render call.
type Frame struct {
	// Engine supplies the text, scroll position and cursor.
	Engine *engine.Engine

	// Misspelled lists the byte ranges drawn with the misspelled style.
	Misspelled []buffer.Range

	// Status is drawn on the last row when set.
	Status *StatusLine

	// Popup is drawn over the text when set.
	Popup *Popup
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the styles used for drawing.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// Renderer paints frames onto a backend.
type Renderer struct {
	mu      sync.Mutex
	backend backend.Backend
	theme   Theme
}

// New creates a renderer drawing to b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{
		backend: b,
		theme:   DefaultTheme(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend returns the backend the renderer draws to.
func (r *Renderer) Backend() backend.Backend {
	return r.backend
}

// Theme returns the renderer's styles.
func (r *Renderer) Theme() Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// TextArea returns the size of the region lines are drawn in: the whole
// screen less the status row.
func (r *Renderer) TextArea() (width, height int) {
	width, height = r.backend.Size()
	if height > 0 {
		height--
	}
	return width, height
}

// Render draws f and flushes the backend. The engine is scrolled so the
// cursor stays visible.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width, height := r.backend.Size()
	textHeight := height
	if f.Status != nil && textHeight > 0 {
		textHeight--
	}

	r.backend.Clear()

	if e := f.Engine; e != nil {
		e.EnsureVisible(e.Cursor(), width, textHeight)
		top, left := e.ScrollPosition()
		spans := newSpanSet(f.Misspelled)

		for y := 0; y < textHeight; y++ {
			line := top + uint32(y)
			if line >= e.LineCount() {
				break
			}
			r.drawLine(e, line, y, left, width, spans)
		}

		p := e.CursorPoint()
		x := e.DisplayColumn(e.LineText(p.Line), int(p.Column)) - left
		y := int(p.Line) - int(top)
		if f.Popup == nil && x >= 0 && x < width && y >= 0 && y < textHeight {
			r.backend.ShowCursor(x, y)
		} else {
			r.backend.HideCursor()
		}
	}

	if f.Status != nil && height > 0 {
		f.Status.Render(r.backend, height-1, width, r.theme)
	}
	if f.Popup != nil {
		f.Popup.Render(r.backend, width, height, r.theme)
	}

	r.backend.Show()
}

// drawLine draws one buffer line on screen row y, scrolled left by left
// display cells.
func (r *Renderer) drawLine(e *engine.Engine, line uint32, y, left, width int, spans spanSet) {
	text := e.LineText(line)
	start := e.Buffer().LineStartOffset(line)
	tabWidth := e.TabWidth()

	col := 0
	for i, ch := range text {
		if col-left >= width {
			return
		}
		w := cellWidth(ch, col, tabWidth)
		style := r.theme.Text
		if spans.contains(start + buffer.ByteOffset(i)) {
			style = r.theme.Misspelled
		}

		x := col - left
		if ch == '\t' {
			for k := 0; k < w; k++ {
				if x+k >= 0 && x+k < width {
					r.backend.SetCell(x+k, y, ' ', style)
				}
			}
		} else if x >= 0 && x+w <= width {
			r.backend.SetCell(x, y, ch, style)
		}
		col += w
	}
}

// cellWidth returns how many cells ch occupies when drawn at col.
func cellWidth(ch rune, col, tabWidth int) int {
	if ch == '\t' {
		if tabWidth < 1 {
			tabWidth = 1
		}
		return tabWidth - col%tabWidth
	}
	if w := runewidth.RuneWidth(ch); w > 0 {
		return w
	}
	return 1
}

// drawString draws s from (x, y) using at most maxWidth cells and returns
// the number of cells used.
func drawString(b backend.Backend, x, y int, s string, style backend.Style, maxWidth int) int {
	used := 0
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			w = 1
		}
		if used+w > maxWidth {
			break
		}
		b.SetCell(x+used, y, ch, style)
		used += w
	}
	return used
}

// fillRow paints width cells of row y starting at x with style.
func fillRow(b backend.Backend, x, y, width int, style backend.Style) {
	for i := 0; i < width; i++ {
		b.SetCell(x+i, y, ' ', style)
	}
}

// spanSet answers membership queries over sorted ranges.
type spanSet []buffer.Range

func newSpanSet(ranges []buffer.Range) spanSet {
	s := slices.Clone(ranges)
	slices.SortFunc(s, func(a, b buffer.Range) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
	return spanSet(s)
}

func (s spanSet) contains(off buffer.ByteOffset) bool {
	// Ranges never overlap, so the first one ending after off is the only
	// candidate.
	i := sort.Search(len(s), func(i int) bool { return s[i].End > off })
	return i < len(s) && s[i].Start <= off
}
