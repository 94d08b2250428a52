package spell

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/dshills/keyspell/internal/engine/buffer"
)

// NoSpellCheckTag is the tag name that always exempts text from checking.
const NoSpellCheckTag = "no-spell-check"

// Checker highlights misspelled words in a view's buffer and keeps the
// highlighting current as the text changes.
//
// A Checker is driven synchronously by buffer notifications and is not
// safe for concurrent use; all calls must come from the goroutine that
// edits the buffer.
type Checker struct {
	view     View
	buf      Buffer
	broker   Broker
	dict     Dictionary
	langs    LanguageList
	language string

	prefix   string
	collapse bool
	enabled  bool
	deferred bool
	checking bool
	closed   bool

	filters    *FilterSet
	ignoreTags []string // added with AppendIgnoreTag
	autoIgnore []string // tags defined with the NoSpellCheck property

	controller  *Controller
	unsubscribe func()
	unwatchView func()
	logger      Logger
	onError     func(error)

	localeDefault string

	languageObservers observers[LanguageChangedFunc]
	enabledObservers  observers[EnabledChangedFunc]
}

// New attaches a spell checker to view using dictionaries from broker.
//
// The language is the requested one if installed, otherwise the locale
// default, en_GB, en_US, en or the first installed language, in that
// order. New fails with ErrNoDictionariesFound when the broker has no
// languages. The whole buffer is checked before New returns.
func New(view View, broker Broker, opts ...Option) (*Checker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	for _, key := range slices.Sorted(maps.Keys(o.params)) {
		if err := broker.SetParam(key, o.params[key]); err != nil {
			return nil, fmt.Errorf("set backend param %s: %w", key, err)
		}
	}

	c := &Checker{
		view:       view,
		broker:     broker,
		prefix:     o.prefix,
		collapse:   o.collapse,
		enabled:    true,
		filters:    DefaultFilterSet(),
		ignoreTags: slices.Clone(o.ignoreTags),
		logger:     o.logger,
		onError:    o.onError,
	}
	c.controller = &Controller{c: c}

	for _, f := range o.filters {
		if err := c.filters.Append(f.pattern, f.scope); err != nil {
			return nil, err
		}
	}

	if o.localeDefault != nil {
		c.localeDefault = *o.localeDefault
	} else {
		c.localeDefault = systemLanguage()
	}

	c.langs = NewLanguageList(broker.ListLanguages())
	lang, err := chooseLanguage(c.langs, o.language, c.localeDefault, c.logger)
	if err != nil {
		return nil, err
	}
	dict, err := broker.RequestDictionary(lang)
	if err != nil {
		return nil, backendError("request", lang, err)
	}
	c.language = lang
	c.dict = dict

	if err := c.BufferInitialize(); err != nil {
		c.Close()
		return nil, err
	}
	c.unwatchView = view.OnBufferChanged(func() {
		if err := c.BufferInitialize(); err != nil {
			c.reportError(err)
		}
	})
	return c, nil
}

// Names of the checker's tag and marks.
func (c *Checker) misspelledTag() string   { return c.prefix + "-misspelled" }
func (c *Checker) insertStartMark() string { return c.prefix + "-insert-start" }
func (c *Checker) insertEndMark() string   { return c.prefix + "-insert-end" }
func (c *Checker) clickMark() string       { return c.prefix + "-click" }

// MisspelledTag returns the name of the tag marking misspelled words.
func (c *Checker) MisspelledTag() string {
	return c.misspelledTag()
}

// BufferInitialize binds the checker to the buffer the view currently
// shows: it creates the checker's marks and tag, collects tags that opt
// out of checking, subscribes to notifications and checks the whole text.
// It runs automatically when the view switches buffers.
func (c *Checker) BufferInitialize() error {
	if c.closed {
		return ErrClosed
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}

	buf := c.view.Buffer()
	c.buf = buf
	c.deferred = false

	if buf.LookupTag(c.misspelledTag()) == nil {
		if _, err := buf.CreateTag(c.misspelledTag(), buffer.WithUnderline(buffer.UnderlineError)); err != nil {
			return fmt.Errorf("create misspelled tag: %w", err)
		}
	}
	for _, name := range []string{c.insertStartMark(), c.insertEndMark(), c.clickMark()} {
		buf.CreateMark(name, 0, true)
	}

	c.autoIgnore = c.autoIgnore[:0]
	for _, tag := range buf.Tags() {
		c.tagAdded(tag)
	}
	if buf.LookupTag(NoSpellCheckTag) == nil {
		if _, err := buf.CreateTag(NoSpellCheckTag); err != nil {
			return fmt.Errorf("create %s tag: %w", NoSpellCheckTag, err)
		}
	}

	c.unsubscribe = buf.Subscribe(c.controller)
	return c.RecheckAll()
}

// Close detaches the checker from its view and buffer. Highlighting
// already applied stays in place.
func (c *Checker) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.unwatchView != nil {
		c.unwatchView()
		c.unwatchView = nil
	}
}

// Buffer returns the buffer being checked.
func (c *Checker) Buffer() Buffer {
	return c.buf
}

// Controller returns the notification and menu handler bound to the
// buffer.
func (c *Checker) Controller() *Controller {
	return c.controller
}

// Languages returns the installed languages.
func (c *Checker) Languages() LanguageList {
	return c.langs
}

// Language returns the current dictionary language.
func (c *Checker) Language() string {
	return c.language
}

// SetLanguage switches dictionaries and rechecks the document. Setting the
// current language does nothing; a language that is not installed leaves
// the checker unchanged and returns ErrUnsupportedLanguage.
func (c *Checker) SetLanguage(code string) error {
	if code == c.language {
		return nil
	}
	if !c.langs.Exists(code) {
		c.logger.Warn("Language %s not available", code)
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, code)
	}
	dict, err := c.broker.RequestDictionary(code)
	if err != nil {
		return backendError("request", code, err)
	}
	c.language = code
	c.dict = dict
	err = c.RecheckAll()
	c.languageObservers.each(func(fn LanguageChangedFunc) { fn(code) })
	return err
}

// Enabled reports whether checking is on.
func (c *Checker) Enabled() bool {
	return c.enabled
}

// SetEnabled calls Enable or Disable when the state changes.
func (c *Checker) SetEnabled(enabled bool) error {
	switch {
	case enabled && !c.enabled:
		return c.Enable()
	case !enabled && c.enabled:
		c.Disable()
	}
	return nil
}

// Enable turns checking on and rechecks the whole document.
func (c *Checker) Enable() error {
	changed := !c.enabled
	c.enabled = true
	err := c.RecheckAll()
	if changed {
		c.enabledObservers.each(func(fn EnabledChangedFunc) { fn(true) })
	}
	return err
}

// Disable turns checking off and removes all highlighting.
func (c *Checker) Disable() {
	changed := c.enabled
	c.enabled = false
	c.deferred = false
	c.buf.RemoveTag(c.misspelledTag(), 0, c.buf.Len())
	if changed {
		c.enabledObservers.each(func(fn EnabledChangedFunc) { fn(false) })
	}
}

// DeferredCheckPending reports whether the word under the cursor was
// skipped and still awaits checking.
func (c *Checker) DeferredCheckPending() bool {
	return c.deferred
}

// Filters returns the checker's filter set.
func (c *Checker) Filters() *FilterSet {
	return c.filters
}

// AppendFilter adds an exclusion pattern. Text already checked is not
// rechecked; call RecheckAll for that.
func (c *Checker) AppendFilter(pattern string, scope FilterScope) error {
	return c.filters.Append(pattern, scope)
}

// RemoveFilter removes an exclusion pattern without rechecking.
func (c *Checker) RemoveFilter(pattern string, scope FilterScope) error {
	return c.filters.Remove(pattern, scope)
}

// AppendIgnoreTag exempts text carrying the named tag. The tag does not
// have to exist yet.
func (c *Checker) AppendIgnoreTag(name string) {
	if !slices.Contains(c.ignoreTags, name) {
		c.ignoreTags = append(c.ignoreTags, name)
	}
}

// RemoveIgnoreTag stops exempting text carrying the named tag.
func (c *Checker) RemoveIgnoreTag(name string) error {
	found := false
	if i := slices.Index(c.ignoreTags, name); i >= 0 {
		c.ignoreTags = slices.Delete(c.ignoreTags, i, i+1)
		found = true
	}
	if i := slices.Index(c.autoIgnore, name); i >= 0 {
		c.autoIgnore = slices.Delete(c.autoIgnore, i, i+1)
		found = true
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrIgnoreTagNotFound, name)
	}
	return nil
}

// IgnoreTags returns the names of all tags whose text is exempt.
func (c *Checker) IgnoreTags() []string {
	out := slices.Clone(c.ignoreTags)
	for _, name := range c.autoIgnore {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// tagAdded starts ignoring tags defined with the NoSpellCheck property.
func (c *Checker) tagAdded(tag *buffer.Tag) {
	if tag.NoSpellCheck && !slices.Contains(c.autoIgnore, tag.Name) {
		c.autoIgnore = append(c.autoIgnore, tag.Name)
	}
}

// tagRemoved forgets a tag that left the buffer's tag table.
func (c *Checker) tagRemoved(tag *buffer.Tag) {
	_ = c.RemoveIgnoreTag(tag.Name)
}

// Check reports whether word is spelled correctly in the current
// language.
func (c *Checker) Check(word string) (bool, error) {
	ok, err := c.dict.Check(word)
	return ok, backendError("check", word, err)
}

// Suggest returns corrections for word in the current language.
func (c *Checker) Suggest(word string) ([]string, error) {
	s, err := c.dict.Suggest(word)
	return s, backendError("suggest", word, err)
}

// AddToDictionary stores word in the personal dictionary and rechecks the
// document, since any occurrence may be affected.
func (c *Checker) AddToDictionary(word string) error {
	if err := c.dict.AddToPersonal(word); err != nil {
		return backendError("add", word, err)
	}
	return c.RecheckAll()
}

// IgnoreAll accepts word for the rest of the session and rechecks the
// document.
func (c *Checker) IgnoreAll(word string) error {
	if err := c.dict.AddToSession(word); err != nil {
		return backendError("ignore", word, err)
	}
	return c.RecheckAll()
}

// Misspellings returns the ranges currently marked as misspelled.
func (c *Checker) Misspellings() []buffer.Range {
	return c.buf.TagRanges(c.misspelledTag())
}

// RecheckAll checks the whole document, including the word under the
// cursor.
func (c *Checker) RecheckAll() error {
	return c.CheckRange(0, c.buf.Len(), true)
}

// CheckRange rechecks the words touching [start, end).
//
// The range is widened to whole words first and its highlighting is
// cleared. Unless forceAll is set, the word under the cursor is skipped
// when it was not already highlighted, so a word is not flagged while it
// is still being typed; it is checked once the cursor leaves it.
//
// A dictionary failure stops the scan and is returned as a *BackendError.
// Words after the failing one keep no highlighting until the next check.
func (c *Checker) CheckRange(start, end int64, forceAll bool) error {
	if !c.enabled || c.closed {
		return nil
	}
	if c.checking {
		return ErrReentrantCheck
	}
	c.checking = true
	defer func() { c.checking = false }()

	buf := c.buf
	if start > end {
		start, end = end, start
	}
	if buf.InsideWord(end) {
		end, _ = ForwardWordEnd(buf, end)
	}
	if IsBetweenMiddleAndEndOfWord(buf, start) {
		start, _ = BackwardWordStart(buf, start)
	}
	tag := c.misspelledTag()
	buf.RemoveTag(tag, start, end)

	cursor, _ := buf.MarkOffset(buffer.InsertMark)
	highlight := buf.HasTag(tag, cursor)
	if _, size := buf.RuneBefore(cursor); size > 0 {
		highlight = highlight || buf.HasTag(tag, cursor-int64(size))
	}

	wordStart, ok := nextWordStart(buf, start)
	if !ok {
		return nil
	}
	for wordStart < end {
		wordEnd, _ := ForwardWordEnd(buf, wordStart)
		inWord := wordStart < cursor && cursor <= wordEnd
		if inWord && !forceAll {
			if highlight {
				if err := c.checkWord(wordStart, wordEnd); err != nil {
					return err
				}
			} else {
				c.deferred = true
			}
		} else {
			if err := c.checkWord(wordStart, wordEnd); err != nil {
				return err
			}
			c.deferred = false
		}

		next, _ := ForwardWordEnd(buf, wordEnd)
		next, _ = BackwardWordStart(buf, next)
		if next <= wordStart {
			break
		}
		wordStart = next
	}
	return nil
}

// checkDeferredRange rechecks the text between the insert marks, where
// the last skipped word lies.
func (c *Checker) checkDeferredRange(forceAll bool) error {
	start, _ := c.buf.MarkOffset(c.insertStartMark())
	end, _ := c.buf.MarkOffset(c.insertEndMark())
	return c.CheckRange(start, end, forceAll)
}

// checkWord checks the text in [start, end) and highlights it when the
// dictionary rejects it. Surrounding whitespace is not part of the word.
func (c *Checker) checkWord(start, end int64) error {
	buf := c.buf
	raw := buf.TextRange(start, end)
	word := strings.TrimSpace(raw)
	if word == "" {
		return nil
	}
	start += int64(len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace)))
	end = start + int64(len(word))

	if buf.HasTag(NoSpellCheckTag, start) {
		return nil
	}
	for _, name := range c.ignoreTags {
		if buf.HasTag(name, start) {
			return nil
		}
	}
	for _, name := range c.autoIgnore {
		if buf.HasTag(name, start) {
			return nil
		}
	}

	if c.filters.WordIsFiltered(word) {
		return nil
	}

	tag := c.misspelledTag()
	line := buf.LineAt(start)
	lineStart := buf.LineStartOffset(line)
	lineText := buf.TextRange(lineStart, buf.LineEndOffset(line))
	if ms, me, ok := c.filters.LineFilteredSpan(lineText, int(start-lineStart)); ok {
		buf.RemoveTag(tag, lineStart+int64(ms), lineStart+int64(me))
		return nil
	}
	if c.filters.regex(FilterText) != nil {
		if ms, me, ok := c.filters.TextFilteredSpan(buf.Text(), int(start)); ok {
			buf.RemoveTag(tag, int64(ms), int64(me))
			return nil
		}
	}

	ok, err := c.dict.Check(word)
	if err != nil {
		return backendError("check", word, err)
	}
	if !ok {
		buf.ApplyTag(tag, start, end)
	}
	return nil
}

// reportError hands errors from notification handlers to the error
// handler and the log.
func (c *Checker) reportError(err error) {
	if err == nil {
		return
	}
	c.logger.Error("spell check failed: %v", err)
	if c.onError != nil {
		c.onError(err)
	}
}
