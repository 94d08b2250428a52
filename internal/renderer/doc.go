// Package renderer draws the keyspell terminal front end.
//
// A Renderer paints one Frame per call: the visible lines of an engine
// with misspelled words underlined, the status line on the last row, and
// an optional context menu popup on top. Drawing goes through the
// backend abstraction, so tests render into a tcell simulation screen.
//
// Usage:
//
//	term := backend.NewTerminal()
//	r := renderer.New(term)
//	r.Render(renderer.Frame{
//		Engine:     eng,
//		Misspelled: checker.Misspellings(),
//		Status:     status,
//	})
package renderer
