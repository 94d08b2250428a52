package renderer

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/keyspell/internal/renderer/backend"
	"github.com/dshills/keyspell/internal/spell"
)

// Popup is a context menu drawn over the text. Opening a submenu pushes a
// level; Back pops it.
type Popup struct {
	x, y   int
	levels []popupLevel

	// Last drawn box, for hit testing.
	boxX, boxY, boxW, boxH int
}

type popupLevel struct {
	items    []spell.MenuItem
	selected int
}

// NewPopup opens menu anchored below the cell (x, y). The first enabled
// item is selected.
func NewPopup(menu *spell.Menu, x, y int) *Popup {
	p := &Popup{x: x, y: y}
	p.push(menu.Items)
	return p
}

func (p *Popup) push(items []spell.MenuItem) {
	lvl := popupLevel{items: items, selected: -1}
	for i, item := range items {
		if enabled(item) {
			lvl.selected = i
			break
		}
	}
	p.levels = append(p.levels, lvl)
}

func (p *Popup) current() *popupLevel {
	return &p.levels[len(p.levels)-1]
}

// enabled reports whether item can be chosen.
func enabled(item spell.MenuItem) bool {
	return item.Action != "" || len(item.Submenu) > 0
}

// Items returns the items of the open level.
func (p *Popup) Items() []spell.MenuItem { return p.current().items }

// Selected returns the index of the selected item, or -1.
func (p *Popup) Selected() int { return p.current().selected }

// Depth returns the number of open levels.
func (p *Popup) Depth() int { return len(p.levels) }

// MoveDown selects the next enabled item, wrapping around.
func (p *Popup) MoveDown() { p.move(1) }

// MoveUp selects the previous enabled item, wrapping around.
func (p *Popup) MoveUp() { p.move(-1) }

func (p *Popup) move(step int) {
	lvl := p.current()
	n := len(lvl.items)
	if n == 0 {
		return
	}
	i := lvl.selected
	for range n {
		i = (i + step + n) % n
		if enabled(lvl.items[i]) {
			lvl.selected = i
			return
		}
	}
}

// Select selects item i if it is enabled.
func (p *Popup) Select(i int) bool {
	lvl := p.current()
	if i < 0 || i >= len(lvl.items) || !enabled(lvl.items[i]) {
		return false
	}
	lvl.selected = i
	return true
}

// Enter chooses the selected item. A submenu is opened in place and
// false is returned; an action item is returned with true.
func (p *Popup) Enter() (spell.MenuItem, bool) {
	lvl := p.current()
	if lvl.selected < 0 {
		return spell.MenuItem{}, false
	}
	item := lvl.items[lvl.selected]
	if len(item.Submenu) > 0 {
		p.push(item.Submenu)
		return spell.MenuItem{}, false
	}
	return item, item.Action != ""
}

// Back closes the open submenu. It returns false at the top level, where
// the caller should close the popup.
func (p *Popup) Back() bool {
	if len(p.levels) == 1 {
		return false
	}
	p.levels = p.levels[:len(p.levels)-1]
	return true
}

// HitTest maps a screen cell to an item index of the open level, as last
// drawn.
func (p *Popup) HitTest(x, y int) (int, bool) {
	if x < p.boxX || x >= p.boxX+p.boxW || y < p.boxY || y >= p.boxY+p.boxH {
		return 0, false
	}
	return y - p.boxY, true
}

// Render draws the open level inside a screen of the given size, moving
// the box left or up when it would not fit.
func (p *Popup) Render(b backend.Backend, width, height int, theme Theme) {
	items := p.Items()

	w := 0
	for _, item := range items {
		w = max(w, runewidth.StringWidth(item.Label))
	}
	w += 4 // mark column and submenu arrow
	w = min(w, width)
	h := min(len(items), height)

	x, y := p.x, p.y+1
	if x+w > width {
		x = width - w
	}
	if y+h > height {
		y = p.y - h
	}
	x, y = max(x, 0), max(y, 0)
	p.boxX, p.boxY, p.boxW, p.boxH = x, y, w, h

	for i := 0; i < h; i++ {
		item := items[i]
		style := theme.Menu
		switch {
		case i == p.Selected():
			style = theme.MenuSelected
		case !enabled(item):
			style = theme.MenuDisabled
		}
		fillRow(b, x, y+i, w, style)
		if item.Checked {
			b.SetCell(x, y+i, '•', style)
		}
		drawString(b, x+2, y+i, item.Label, style, w-4)
		if len(item.Submenu) > 0 && w >= 2 {
			b.SetCell(x+w-1, y+i, '▸', style)
		}
	}
}
