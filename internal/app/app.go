// Package app provides the main application structure and coordination
// for keyspell. It wires configuration, the dictionary broker, the
// document engine, the spell checker and the init script together, and
// runs the terminal event loop.
package app

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/keyspell/internal/config"
	"github.com/dshills/keyspell/internal/plugin"
	"github.com/dshills/keyspell/internal/renderer"
	"github.com/dshills/keyspell/internal/renderer/backend"
	"github.com/dshills/keyspell/internal/spell"
	"github.com/dshills/keyspell/internal/spell/wordlist"
)

// Application is the central coordinator for all keyspell components.
type Application struct {
	mu sync.Mutex

	// Core infrastructure
	config    *config.Config
	logger    *Logger
	logCloser io.Closer

	// Spell checking
	broker  *wordlist.Broker
	doc     *Document
	view    spell.View
	checker *spell.Checker
	script  *plugin.Host
	subs    []spell.Subscription

	// Filters and ignore tags applied from the [spell] section.
	filters    []filterKey
	ignoreTags []string

	cancelConfig func()

	// Terminal front end
	backend  backend.Backend
	renderer *renderer.Renderer
	status   *renderer.StatusLine
	popup    *renderer.Popup

	// quitArmed is set after a quit request was refused for unsaved
	// changes; the next request quits.
	quitArmed bool

	running atomic.Bool
	closed  bool

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigFile is an explicit user config file.
	ConfigFile string

	// ProjectDir holds the project config file.
	ProjectDir string

	// File is the file to open. Empty opens a scratch buffer.
	File string

	// Content is the text of the scratch buffer when File is empty.
	Content string

	// Language overrides the configured language.
	Language string

	// LogLevel overrides the configured log level.
	LogLevel string

	// LogOutput receives log output instead of the configured file.
	LogOutput io.Writer

	// ConfigOptions are passed to config.New after the options above.
	ConfigOptions []config.Option

	// BrokerOptions are passed to wordlist.NewBroker.
	BrokerOptions []wordlist.Option
}

// New creates an application and initializes every component. Missing
// dictionaries are fatal; config and script errors are logged.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:   opts,
		status: renderer.NewStatusLine(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetBackend sets the terminal backend. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.backend = b
	return nil
}

// Run initializes the backend and processes events until the user
// quits. The backend is shut down on return.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b == nil {
		return ErrNoBackend
	}

	if err := b.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}
	defer b.Shutdown()

	app.renderer = renderer.New(b)
	return app.eventLoop()
}

// Quit stops a running event loop from another goroutine.
func (app *Application) Quit() {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()
	if b != nil && app.running.Load() {
		b.Interrupt(quitRequest{})
	}
}

// Close releases every component in reverse initialization order. It is
// safe to call more than once.
func (app *Application) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return nil
	}
	app.closed = true

	var errs []error
	if app.cancelConfig != nil {
		app.cancelConfig()
	}
	for _, sub := range app.subs {
		sub.Cancel()
	}
	app.subs = nil
	if app.script != nil {
		errs = append(errs, app.script.Close())
	}
	if app.view != nil {
		spell.Detach(app.view)
	}
	if app.broker != nil {
		errs = append(errs, app.broker.Close())
	}
	if app.config != nil {
		app.config.Close()
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
	}
	return errors.Join(errs...)
}

// IsRunning returns true while the event loop runs.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Broker returns the dictionary broker.
func (app *Application) Broker() *wordlist.Broker {
	return app.broker
}

// Document returns the edited document.
func (app *Application) Document() *Document {
	return app.doc
}

// Checker returns the document's spell checker.
func (app *Application) Checker() *spell.Checker {
	return app.checker
}

// Script returns the init script host, or nil when no script is
// configured.
func (app *Application) Script() *plugin.Host {
	return app.script
}

// Status returns the status line.
func (app *Application) Status() *renderer.StatusLine {
	return app.status
}

// Popup returns the open context menu, or nil.
func (app *Application) Popup() *renderer.Popup {
	return app.popup
}
