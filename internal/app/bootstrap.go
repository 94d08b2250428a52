package app

import (
	"context"

	"github.com/dshills/keyspell/internal/config"
	"github.com/dshills/keyspell/internal/engine"
	"github.com/dshills/keyspell/internal/plugin"
	"github.com/dshills/keyspell/internal/plugin/api"
	"github.com/dshills/keyspell/internal/spell"
	"github.com/dshills/keyspell/internal/spell/wordlist"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string

	configErr error
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 6),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initBroker,
		b.initDocument,
		b.initChecker,
		b.initScript,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}

	b.app.cancelConfig = b.app.config.OnChange(b.app.configChanged)
	return nil
}

// initConfig loads the layered configuration. Load errors are reported
// once the logger exists; the defaults stay usable.
func (b *bootstrapper) initConfig() error {
	configOpts := []config.Option{
		config.WithErrorHandler(func(err error) {
			b.app.Logger().WithComponent("config").Warn("%v", err)
		}),
	}
	if b.opts.ConfigFile != "" {
		configOpts = append(configOpts, config.WithConfigFile(b.opts.ConfigFile))
	}
	if b.opts.ProjectDir != "" {
		configOpts = append(configOpts, config.WithProjectDir(b.opts.ProjectDir))
	}
	configOpts = append(configOpts, b.opts.ConfigOptions...)

	b.app.config = config.New(configOpts...)
	b.configErr = b.app.config.Load(context.Background())
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogger creates the application logger from the [logging] section.
func (b *bootstrapper) initLogger() error {
	lc := b.app.config.Logging()
	if b.opts.LogLevel != "" {
		lc.Level = b.opts.LogLevel
	}

	if b.opts.LogOutput != nil {
		b.app.logger = NewLogger(LoggerConfig{
			Level:  ParseLogLevel(lc.Level),
			Output: b.opts.LogOutput,
			Prefix: "keyspell",
		})
	} else {
		logger, closer, err := OpenLogger(lc)
		if err != nil {
			return NewComponentError("logging", "open", err)
		}
		b.app.logger = logger
		b.app.logCloser = closer
	}
	b.initOrder = append(b.initOrder, "logger")

	log := b.app.logger.WithComponent("config")
	if b.configErr != nil {
		log.Warn("load: %v", b.configErr)
	}
	for _, f := range b.app.config.Files() {
		log.Debug("loaded %s", f)
	}
	return nil
}

// initBroker scans the dictionary directories.
func (b *bootstrapper) initBroker() error {
	brokerOpts := append([]wordlist.Option{
		wordlist.WithLogger(b.app.logger.WithComponent("wordlist")),
	}, b.opts.BrokerOptions...)

	broker, err := wordlist.NewBroker(brokerOpts...)
	if err != nil {
		return NewComponentError("wordlist", "open broker", err)
	}
	b.app.broker = broker
	b.initOrder = append(b.initOrder, "broker")
	return nil
}

// initDocument opens the file to edit, or a scratch buffer.
func (b *bootstrapper) initDocument() error {
	engineOpts := []engine.Option{
		engine.WithTabWidth(b.app.config.Editor().TabWidth),
	}

	if b.opts.File == "" {
		b.app.doc = NewScratchDocument(b.opts.Content, engineOpts...)
	} else {
		doc, err := OpenDocument(b.opts.File, engineOpts...)
		if err != nil {
			return err
		}
		b.app.doc = doc
	}
	b.initOrder = append(b.initOrder, "document")
	return nil
}

// initChecker attaches a spell checker to the document and applies the
// [spell] section.
func (b *bootstrapper) initChecker() error {
	app := b.app
	sc := app.config.Spell()

	view := spell.EngineView(app.doc.Engine)
	checker, err := spell.Attach(view, app.broker, app.checkerOptions(sc)...)
	if err != nil {
		return NewComponentError("spell", "attach", err)
	}
	app.view = view
	app.checker = checker
	b.initOrder = append(b.initOrder, "checker")

	app.applySpellConfig(sc)
	app.reportConfigErrors()
	return nil
}

// initScript runs the configured init script. Script failures are logged
// and leave the application running without it.
func (b *bootstrapper) initScript() error {
	app := b.app
	path := app.config.Spell().InitScript
	if path == "" {
		return nil
	}
	log := app.logger.WithComponent("script")

	host, err := plugin.NewHost(&api.Context{
		Spell:  app.checker,
		Logger: log,
	})
	if err != nil {
		log.Error("create host: %v", err)
		return nil
	}

	ctx := context.Background()
	if err := host.Load(ctx, path); err != nil {
		log.Error("%v", err)
		_ = host.Close()
		return nil
	}
	app.script = host
	b.initOrder = append(b.initOrder, "script")

	app.subs = append(app.subs,
		app.checker.OnLanguageChanged(func(code string) {
			app.notifyScript(plugin.HookLanguageChanged, code)
		}),
		app.checker.OnEnabledChanged(func(enabled bool) {
			app.notifyScript(plugin.HookEnabledChanged, enabled)
		}),
	)

	if err := host.Activate(ctx, app.scriptConfig()); err != nil {
		log.Error("setup: %v", err)
	}
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
	b.initOrder = b.initOrder[:0]
}

// cleanupComponent releases a single component.
func (b *bootstrapper) cleanupComponent(name string) {
	app := b.app
	switch name {
	case "config":
		app.config.Close()
		app.config = nil
	case "logger":
		if app.logCloser != nil {
			_ = app.logCloser.Close()
			app.logCloser = nil
		}
	case "broker":
		_ = app.broker.Close()
		app.broker = nil
	case "document":
		app.doc = nil
	case "checker":
		spell.Detach(app.view)
		app.checker = nil
		app.view = nil
	case "script":
		for _, sub := range app.subs {
			sub.Cancel()
		}
		app.subs = nil
		_ = app.script.Close()
		app.script = nil
	}
}
