package app

import (
	"errors"
	"runtime/debug"
	"unicode/utf8"

	"github.com/dshills/keyspell/internal/renderer"
	"github.com/dshills/keyspell/internal/renderer/backend"
	"github.com/dshills/keyspell/internal/spell"
)

// Interrupt payloads posted to the event loop from other goroutines.
type (
	quitRequest  struct{}
	configChange struct{ paths []string }
)

// wheelLines is how far one wheel step moves the cursor.
const wheelLines = 3

// eventLoop draws a frame after every event until the user quits or the
// backend closes.
func (app *Application) eventLoop() error {
	app.render()
	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventClosed {
			return nil
		}

		err := app.dispatch(ev)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			app.logComponentError("app", err)
			app.status.SetMessage(err.Error(), renderer.MessageError)
			app.backend.Beep()
		}
		app.render()
	}
}

// dispatch handles one event, turning a panic into an error so a bad
// event does not take the terminal down with it.
func (app *Application) dispatch(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()
	return app.handleBackendEvent(ev)
}

// handleBackendEvent routes a backend event. Resize needs no handling;
// the next frame uses the new size.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventInterrupt:
		return app.handleInterrupt(ev)
	default:
		return nil
	}
}

func (app *Application) handleInterrupt(ev backend.Event) error {
	switch data := ev.Data.(type) {
	case quitRequest:
		return ErrQuit
	case configChange:
		app.applyConfigChange(data.paths)
	}
	return nil
}

// handleKeyEvent edits the document or drives the open menu.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	app.status.ClearMessage()
	if app.popup != nil {
		return app.handlePopupKey(ev)
	}
	if ev.Key != backend.KeyCtrlQ && ev.Key != backend.KeyCtrlC {
		app.quitArmed = false
	}

	e := app.doc.Engine
	switch ev.Key {
	case backend.KeyCtrlQ, backend.KeyCtrlC:
		return app.requestQuit()
	case backend.KeyCtrlS:
		return app.Save()
	case backend.KeyF7, backend.KeyCtrlT:
		return app.ToggleSpelling()
	case backend.KeyCtrlL:
		return app.NextLanguage()
	case backend.KeyCtrlSpace:
		return app.openMenuAtCursor()

	case backend.KeyRune:
		return e.InsertAtCursor(string(ev.Rune))
	case backend.KeyEnter:
		return e.Newline()
	case backend.KeyTab:
		return e.InsertAtCursor("\t")
	case backend.KeyBackspace:
		return e.Backspace()
	case backend.KeyDelete:
		return e.DeleteForward()

	case backend.KeyLeft:
		e.MoveLeft()
	case backend.KeyRight:
		e.MoveRight()
	case backend.KeyUp:
		e.MoveUp()
	case backend.KeyDown:
		e.MoveDown()
	case backend.KeyHome:
		e.MoveLineStart()
	case backend.KeyEnd:
		e.MoveLineEnd()
	case backend.KeyPageUp:
		_, h := app.renderer.TextArea()
		for range max(h-1, 1) {
			e.MoveUp()
		}
	case backend.KeyPageDown:
		_, h := app.renderer.TextArea()
		for range max(h-1, 1) {
			e.MoveDown()
		}
	}
	return nil
}

// handlePopupKey navigates the context menu.
func (app *Application) handlePopupKey(ev backend.Event) error {
	p := app.popup
	switch ev.Key {
	case backend.KeyUp:
		p.MoveUp()
	case backend.KeyDown, backend.KeyTab:
		p.MoveDown()
	case backend.KeyEnter:
		return app.choose()
	case backend.KeyLeft:
		p.Back()
	case backend.KeyEscape:
		if !p.Back() {
			app.popup = nil
		}
	}
	return nil
}

// handleMouseEvent moves the cursor on a left click, opens the context
// menu on a right click and scrolls on the wheel.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	e := app.doc.Engine
	switch ev.MouseButton {
	case backend.MouseLeft:
		if app.popup != nil {
			if i, ok := app.popup.HitTest(ev.MouseX, ev.MouseY); ok {
				if app.popup.Select(i) {
					return app.choose()
				}
				return nil
			}
			app.popup = nil
			return nil
		}
		if _, h := app.renderer.TextArea(); ev.MouseY < h {
			e.SetCursor(e.OffsetAtLocation(ev.MouseX, ev.MouseY))
		}
	case backend.MouseRight:
		return app.OpenMenu(ev.MouseX, ev.MouseY)
	case backend.MouseWheelUp:
		for range wheelLines {
			e.MoveUp()
		}
	case backend.MouseWheelDown:
		for range wheelLines {
			e.MoveDown()
		}
	}
	return nil
}

// OpenMenu opens the context menu for window cell (x, y).
func (app *Application) OpenMenu(x, y int) error {
	menu, err := app.checker.Controller().ContextMenu(x, y)
	if err != nil {
		return err
	}
	app.popup = renderer.NewPopup(menu, x, y)
	return nil
}

// openMenuAtCursor opens the context menu for the word at the cursor.
func (app *Application) openMenuAtCursor() error {
	e := app.doc.Engine
	p := e.CursorPoint()
	top, left := e.ScrollPosition()
	x := e.DisplayColumn(e.LineText(p.Line), int(p.Column)) - left
	y := int(p.Line) - int(top)
	return app.OpenMenu(x, y)
}

// choose runs the selected menu item, or opens its submenu.
func (app *Application) choose() error {
	item, ok := app.popup.Enter()
	if !ok {
		return nil
	}
	app.popup = nil
	return app.Activate(item)
}

// Activate runs a menu item's action and reports it on the status line.
func (app *Application) Activate(item spell.MenuItem) error {
	if err := app.checker.Controller().Activate(item.Action, item.Target); err != nil {
		return err
	}
	switch item.Action {
	case spell.ActionAddToDictionary:
		app.status.SetMessage("added \""+item.Target+"\" to the dictionary", renderer.MessageInfo)
	case spell.ActionIgnoreAll:
		app.status.SetMessage("ignoring \""+item.Target+"\"", renderer.MessageInfo)
	}
	return nil
}

// render draws the current state.
func (app *Application) render() {
	app.updateStatus()
	app.renderer.Render(renderer.Frame{
		Engine:     app.doc.Engine,
		Misspelled: app.checker.Misspellings(),
		Status:     app.status,
		Popup:      app.popup,
	})
}

// updateStatus copies document and checker state to the status line.
func (app *Application) updateStatus() {
	e := app.doc.Engine
	p := e.CursorPoint()
	col := utf8.RuneCountInString(e.LineText(p.Line)[:p.Column])

	s := app.status
	s.SetFilename(app.doc.Name)
	s.SetModified(app.doc.IsModified())
	s.SetPosition(p.Line+1, uint32(col)+1)
	s.SetLanguage(spell.LanguageName(app.checker.Language()))
	s.SetEnabled(app.checker.Enabled())
	s.SetMisspelled(len(app.checker.Misspellings()))
}
