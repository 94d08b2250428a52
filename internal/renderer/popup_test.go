package renderer

import (
	"testing"

	"github.com/dshills/keyspell/internal/spell"
)

func testMenu() *spell.Menu {
	return &spell.Menu{Items: []spell.MenuItem{
		{Label: "Suggestions", Submenu: []spell.MenuItem{
			{Label: "(no suggestions)"},
			{Label: "Add to Dictionary", Action: spell.ActionAddToDictionary, Target: "wrod"},
			{Label: "Ignore All", Action: spell.ActionIgnoreAll, Target: "wrod"},
		}},
		{Label: "Languages", Submenu: []spell.MenuItem{
			{Label: "English", Action: spell.ActionLanguage, Target: "en_US", Checked: true},
			{Label: "German", Action: spell.ActionLanguage, Target: "de_DE"},
		}},
	}}
}

func TestPopupNavigation(t *testing.T) {
	p := NewPopup(testMenu(), 0, 0)

	if p.Selected() != 0 {
		t.Fatalf("Selected() = %d", p.Selected())
	}
	if _, ok := p.Enter(); ok {
		t.Fatal("Enter() on submenu returned an action")
	}
	if p.Depth() != 2 {
		t.Fatalf("Depth() = %d", p.Depth())
	}

	// The disabled placeholder is skipped.
	if p.Selected() != 1 {
		t.Errorf("submenu Selected() = %d, want 1", p.Selected())
	}
	p.MoveDown()
	p.MoveDown()
	if p.Selected() != 1 {
		t.Errorf("after wrap Selected() = %d, want 1", p.Selected())
	}
	p.MoveUp()
	item, ok := p.Enter()
	if !ok || item.Action != spell.ActionIgnoreAll || item.Target != "wrod" {
		t.Errorf("Enter() = %+v, %v", item, ok)
	}

	if p.Select(0) {
		t.Error("Select() accepted a disabled item")
	}
	if !p.Back() || p.Depth() != 1 {
		t.Error("Back() did not close the submenu")
	}
	if p.Back() {
		t.Error("Back() at the top level returned true")
	}
}

func TestPopupRenderAndHitTest(t *testing.T) {
	r, term, _ := newTestRenderer(t, 20, 6)
	p := NewPopup(testMenu(), 15, 1)

	r.Render(Frame{Popup: p})

	// The box is moved left to fit the screen: "Suggestions" + 4 cells.
	if got := rowText(term, 2); got != "       Suggestions ▸" {
		t.Errorf("row 2 = %q", got)
	}
	if i, ok := p.HitTest(10, 3); !ok || i != 1 {
		t.Errorf("HitTest(10, 3) = %d, %v", i, ok)
	}
	if _, ok := p.HitTest(0, 0); ok {
		t.Error("HitTest outside the box succeeded")
	}

	p.Select(1)
	p.Enter()
	r.Render(Frame{Popup: p})
	if got := rowText(term, 2); got != "         • English" {
		t.Errorf("row 2 = %q", got)
	}
}
