package renderer

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyspell/internal/engine"
	"github.com/dshills/keyspell/internal/engine/buffer"
	"github.com/dshills/keyspell/internal/renderer/backend"
)

func newTestRenderer(t *testing.T, w, h int) (*Renderer, *backend.Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := backend.NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	sim.SetSize(w, h)
	t.Cleanup(term.Shutdown)
	return New(term), term, sim
}

// rowText returns row y of the backend with trailing blanks removed.
func rowText(b backend.Backend, y int) string {
	w, _ := b.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _ := b.Cell(x, y)
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestRenderText(t *testing.T) {
	r, term, sim := newTestRenderer(t, 20, 4)
	e := engine.New(engine.WithContent("a\tb\nsecond line"))
	e.SetCursor(4) // start of line 1

	r.Render(Frame{Engine: e})

	if got := rowText(term, 0); got != "a   b" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(term, 1); got != "second line" {
		t.Errorf("row 1 = %q", got)
	}
	if x, y, visible := sim.GetCursor(); x != 0 || y != 1 || !visible {
		t.Errorf("cursor = %d,%d visible=%v", x, y, visible)
	}
}

func TestRenderMisspelled(t *testing.T) {
	r, term, _ := newTestRenderer(t, 20, 3)
	e := engine.New(engine.WithContent("the wrod here"))

	r.Render(Frame{
		Engine:     e,
		Misspelled: []buffer.Range{{Start: 4, End: 8}},
	})

	theme := DefaultTheme()
	for x := 0; x < 13; x++ {
		_, style := term.Cell(x, 0)
		want := theme.Text
		if x >= 4 && x < 8 {
			want = theme.Misspelled
		}
		if style != want {
			t.Errorf("cell %d style = %+v, want %+v", x, style, want)
		}
	}
}

func TestRenderScrollsToCursor(t *testing.T) {
	r, term, sim := newTestRenderer(t, 10, 3)
	e := engine.New(engine.WithContent("l0\nl1\nl2\nl3\nl4"))
	e.SetCursor(e.Buffer().LineStartOffset(4))

	r.Render(Frame{Engine: e, Status: NewStatusLine()})

	// Two text rows above the status line.
	if got := rowText(term, 0); got != "l3" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(term, 1); got != "l4" {
		t.Errorf("row 1 = %q", got)
	}
	if _, y, _ := sim.GetCursor(); y != 1 {
		t.Errorf("cursor row = %d", y)
	}
}

func TestStatusLine(t *testing.T) {
	r, term, _ := newTestRenderer(t, 80, 2)
	status := NewStatusLine()
	status.SetFilename("notes.txt")
	status.SetModified(true)
	status.SetLanguage("English (United States)")
	status.SetMisspelled(2)
	status.SetPosition(3, 7)

	r.Render(Frame{Status: status})

	row := rowText(term, 1)
	for _, want := range []string{"notes.txt [+]", "English (United States)", "2 misspellings", "Ln 3, Col 7"} {
		if !strings.Contains(row, want) {
			t.Errorf("status %q missing %q", row, want)
		}
	}

	status.SetEnabled(false)
	r.Render(Frame{Status: status})
	if row := rowText(term, 1); !strings.Contains(row, "spelling off") {
		t.Errorf("status %q missing spelling off", row)
	}

	status.SetMessage("no dictionary", MessageError)
	r.Render(Frame{Status: status})
	if row := rowText(term, 1); row != "no dictionary" {
		t.Errorf("message row = %q", row)
	}
	if _, style := term.Cell(0, 1); style != DefaultTheme().StatusError {
		t.Errorf("message style = %+v", style)
	}
}

func TestCellWidth(t *testing.T) {
	tests := []struct {
		ch   rune
		col  int
		want int
	}{
		{'a', 0, 1},
		{'\t', 0, 4},
		{'\t', 3, 1},
		{'\t', 5, 3},
		{'世', 0, 2},
	}
	for _, tt := range tests {
		if got := cellWidth(tt.ch, tt.col, 4); got != tt.want {
			t.Errorf("cellWidth(%q, %d) = %d, want %d", tt.ch, tt.col, got, tt.want)
		}
	}
}
