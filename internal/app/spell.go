package app

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/keyspell/internal/config"
	"github.com/dshills/keyspell/internal/renderer"
	"github.com/dshills/keyspell/internal/spell"
)

// maxReportSuggestions limits the suggestions printed per misspelling.
const maxReportSuggestions = 5

// filterKey identifies a filter pattern applied from the configuration.
type filterKey struct {
	pattern string
	scope   spell.FilterScope
}

// checkerOptions converts the [spell] section into checker options.
// Filters and the enabled state are applied after attaching so a bad
// pattern is logged instead of failing startup.
func (app *Application) checkerOptions(sc config.SpellConfig) []spell.Option {
	opts := []spell.Option{
		spell.WithPrefix(sc.Prefix),
		spell.WithCollapseSuggestions(sc.CollapseSuggestions),
		spell.WithBackendParams(sc.Backend),
		spell.WithIgnoreTags(sc.IgnoreTags...),
		spell.WithLogger(app.logger.WithComponent("spell")),
		spell.WithErrorHandler(app.spellError),
	}
	if lang := app.language(sc); lang != "" {
		opts = append(opts, spell.WithLanguage(lang))
	}
	return opts
}

// language returns the requested language: the command line override,
// else the configured one.
func (app *Application) language(sc config.SpellConfig) string {
	if app.opts.Language != "" {
		return app.opts.Language
	}
	return sc.Language
}

// applySpellConfig brings filters, ignore tags and the enabled state in
// line with sc, rechecking when the exemptions changed.
func (app *Application) applySpellConfig(sc config.SpellConfig) {
	c := app.checker
	changed := app.syncFilters(sc.Filters)
	if app.syncIgnoreTags(sc.IgnoreTags) {
		changed = true
	}

	wasEnabled := c.Enabled()
	if err := c.SetEnabled(sc.Enabled); err != nil {
		app.spellError(err)
	}
	if changed && wasEnabled && c.Enabled() {
		if err := c.RecheckAll(); err != nil {
			app.spellError(err)
		}
	}
}

// syncFilters replaces the filters applied from an earlier configuration
// with want. It reports whether the filter set changed.
func (app *Application) syncFilters(want []config.FilterConfig) bool {
	log := app.logger.WithComponent("spell")

	var keys []filterKey
	for _, f := range want {
		name := f.Scope
		if name == "" {
			name = spell.FilterWord.String()
		}
		scope, err := spell.ParseFilterScope(name)
		if err != nil {
			log.Warn("filter %q: %v", f.Pattern, err)
			continue
		}
		keys = append(keys, filterKey{pattern: f.Pattern, scope: scope})
	}

	changed := false
	for _, old := range app.filters {
		if slices.Contains(keys, old) {
			continue
		}
		// A script may already have removed it.
		if err := app.checker.RemoveFilter(old.pattern, old.scope); err != nil && !errors.Is(err, spell.ErrFilterNotFound) {
			log.Warn("remove filter %q: %v", old.pattern, err)
		}
		changed = true
	}

	applied := make([]filterKey, 0, len(keys))
	for _, k := range keys {
		if slices.Contains(app.filters, k) {
			applied = append(applied, k)
			continue
		}
		if err := app.checker.AppendFilter(k.pattern, k.scope); err != nil {
			log.Warn("filter %q: %v", k.pattern, err)
			continue
		}
		applied = append(applied, k)
		changed = true
	}
	app.filters = applied
	return changed
}

// syncIgnoreTags replaces the ignore tags applied from an earlier
// configuration with want. It reports whether the list changed.
func (app *Application) syncIgnoreTags(want []string) bool {
	changed := false
	for _, name := range app.ignoreTags {
		if !slices.Contains(want, name) {
			_ = app.checker.RemoveIgnoreTag(name)
			changed = true
		}
	}
	for _, name := range want {
		if !slices.Contains(app.ignoreTags, name) {
			app.checker.AppendIgnoreTag(name)
			changed = true
		}
	}
	app.ignoreTags = slices.Clone(want)
	return changed
}

// configChanged receives change notifications from the config system.
// While the event loop runs, the change is applied on its goroutine.
func (app *Application) configChanged(changed []string) {
	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()

	if b != nil && app.running.Load() {
		b.Interrupt(configChange{paths: changed})
		return
	}
	app.applyConfigChange(changed)
}

// applyConfigChange applies changed config paths to the running
// components.
func (app *Application) applyConfigChange(changed []string) {
	log := app.logger.WithComponent("config")
	log.Info("changed: %s", strings.Join(changed, ", "))

	var spellChanged, languageChanged bool
	for _, path := range changed {
		switch {
		case path == "spell.language":
			languageChanged = true
		case strings.HasPrefix(path, "spell.backend"),
			path == "spell.prefix",
			path == "spell.collapse_suggestions",
			path == "spell.init_script":
			log.Info("%s takes effect on restart", path)
		case strings.HasPrefix(path, "spell."):
			spellChanged = true
		case path == "logging.level":
			app.logger.SetLevel(ParseLogLevel(app.config.Logging().Level))
		}
	}

	sc := app.config.Spell()
	if lang := app.language(sc); languageChanged && lang != "" && lang != app.checker.Language() {
		if err := app.checker.SetLanguage(lang); err != nil {
			app.spellError(err)
		}
	}
	if spellChanged {
		app.applySpellConfig(sc)
	}
	app.reportConfigErrors()
	app.status.SetMessage("configuration reloaded", renderer.MessageInfo)
}

// reportConfigErrors logs values that failed to convert and forgets them.
func (app *Application) reportConfigErrors() {
	log := app.logger.WithComponent("config")
	errs := app.config.ConfigErrors()
	for _, path := range app.config.ConfigErrorPaths() {
		log.Warn("%s: %v", path, errs[path])
	}
	app.config.ClearConfigErrors()
}

// spellError reports an error raised while checking.
func (app *Application) spellError(err error) {
	if err == nil {
		return
	}
	app.logComponentError("spell", err)
	app.status.SetMessage(err.Error(), renderer.MessageError)
}

// notifyScript calls a script hook, logging failures.
func (app *Application) notifyScript(hook string, args ...any) {
	if app.script == nil {
		return
	}
	if err := app.script.Notify(hook, args...); err != nil {
		app.logComponentError("script", fmt.Errorf("%s: %w", hook, err))
	}
}

// scriptConfig is the table passed to the script's setup hook.
func (app *Application) scriptConfig() map[string]any {
	return map[string]any{
		"file":        app.doc.Path,
		"language":    app.checker.Language(),
		"enabled":     app.checker.Enabled(),
		"ignore_tags": app.checker.IgnoreTags(),
	}
}

// Misspelling is one misspelled word of the document.
type Misspelling struct {
	// Line and Column are 1-indexed; Column counts characters.
	Line   int
	Column int

	Word        string
	Suggestions []string
}

// Misspellings lists the highlighted words in document order with their
// suggestions.
func (app *Application) Misspellings() ([]Misspelling, error) {
	buf := app.doc.Engine.Buffer()

	var out []Misspelling
	for _, r := range app.checker.Misspellings() {
		p := buf.OffsetToPoint(r.Start)
		line := buf.LineText(p.Line)
		word := buf.TextRange(r.Start, r.End)

		suggestions, err := app.checker.Suggest(word)
		if err != nil {
			return nil, err
		}
		out = append(out, Misspelling{
			Line:        int(p.Line) + 1,
			Column:      utf8.RuneCountInString(line[:p.Column]) + 1,
			Word:        word,
			Suggestions: suggestions,
		})
	}
	return out, nil
}

// Report writes one line per misspelling to w in the form
// "name:line:column: word (suggestion, ...)" and returns the count.
func (app *Application) Report(w io.Writer) (int, error) {
	list, err := app.Misspellings()
	if err != nil {
		return 0, err
	}

	for _, m := range list {
		suggestions := m.Suggestions
		if len(suggestions) > maxReportSuggestions {
			suggestions = suggestions[:maxReportSuggestions]
		}
		line := fmt.Sprintf("%s:%d:%d: %s", app.doc.Name, m.Line, m.Column, m.Word)
		if len(suggestions) > 0 {
			line += " (" + strings.Join(suggestions, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return 0, err
		}
	}
	return len(list), nil
}
