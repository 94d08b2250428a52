package app

import (
	"slices"

	"github.com/dshills/keyspell/internal/renderer"
	"github.com/dshills/keyspell/internal/spell"
)

// Save writes the document to disk.
func (app *Application) Save() error {
	if err := app.doc.Save(); err != nil {
		return err
	}
	app.status.SetMessage("wrote "+app.doc.Path, renderer.MessageInfo)
	return nil
}

// requestQuit returns ErrQuit, unless the document has unsaved changes
// and this is the first request.
func (app *Application) requestQuit() error {
	if app.doc.IsModified() && !app.quitArmed {
		app.quitArmed = true
		app.status.SetMessage(ErrUnsavedChanges.Error()+"; press Ctrl-Q again to quit", renderer.MessageWarning)
		return nil
	}
	return ErrQuit
}

// ToggleSpelling switches checking on or off.
func (app *Application) ToggleSpelling() error {
	return app.checker.SetEnabled(!app.checker.Enabled())
}

// NextLanguage switches to the installed language after the current one,
// in display name order.
func (app *Application) NextLanguage() error {
	langs := app.checker.Languages()
	if len(langs) < 2 {
		return nil
	}
	i := slices.IndexFunc(langs, func(l spell.Language) bool {
		return l.Code == app.checker.Language()
	})
	next := langs[(i+1)%len(langs)]
	if err := app.checker.SetLanguage(next.Code); err != nil {
		return err
	}
	app.status.SetMessage("language: "+next.Name, renderer.MessageInfo)
	return nil
}
