package spell

import (
	"errors"
	"slices"
	"testing"

	"github.com/dshills/keyspell/internal/engine/buffer"
)

func TestNewChecksWholeBuffer(t *testing.T) {
	c, _, _ := newTestChecker(t, "helo wrld the")

	want := []buffer.Range{{Start: 0, End: 4}, {Start: 5, End: 9}}
	if got := c.Misspellings(); !rangesEqual(got, want) {
		t.Errorf("Misspellings() = %v, want %v", got, want)
	}
	if c.Language() != "en_US" || !c.Enabled() {
		t.Errorf("language %q enabled %v", c.Language(), c.Enabled())
	}
}

func TestRecheckAllIsIdempotent(t *testing.T) {
	c, _, _ := newTestChecker(t, "helo wrld\nthe qick fox")

	if err := c.RecheckAll(); err != nil {
		t.Fatal(err)
	}
	first := c.Misspellings()
	if err := c.RecheckAll(); err != nil {
		t.Fatal(err)
	}
	if second := c.Misspellings(); !rangesEqual(first, second) {
		t.Errorf("coverage changed: %v then %v", first, second)
	}
}

func TestApostropheWords(t *testing.T) {
	c, _, _ := newTestChecker(t, "I don't knwo it's donn't")

	want := []buffer.Range{{Start: 8, End: 12}, {Start: 18, End: 24}}
	if got := c.Misspellings(); !rangesEqual(got, want) {
		t.Errorf("Misspellings() = %v, want %v", got, want)
	}
}

func TestDeferredCheckWhileTyping(t *testing.T) {
	c, e, _ := newTestChecker(t, "")

	for _, ch := range []string{"h", "e", "l", "o"} {
		if err := e.InsertAtCursor(ch); err != nil {
			t.Fatal(err)
		}
		if got := c.Misspellings(); len(got) != 0 {
			t.Fatalf("after typing %q: flagged %v", e.Text(), got)
		}
		if !c.DeferredCheckPending() {
			t.Fatalf("after typing %q: no deferred check", e.Text())
		}
	}

	e.SetCursor(0)

	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 0, End: 4}}) {
		t.Errorf("after leaving the word: %v", got)
	}
	if c.DeferredCheckPending() {
		t.Error("deferred check still pending")
	}
}

func TestTypingCorrectWordIsNotFlagged(t *testing.T) {
	c, e, _ := newTestChecker(t, "")

	for _, ch := range []string{"h", "e", "l", "l", "o", " "} {
		if err := e.InsertAtCursor(ch); err != nil {
			t.Fatal(err)
		}
	}
	e.SetCursor(0)
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("flagged %v", got)
	}
}

func TestEditsRecheckTouchedWords(t *testing.T) {
	c, e, _ := newTestChecker(t, "hello wrld")

	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 6, End: 10}}) {
		t.Fatalf("initial: %v", got)
	}

	// The cursor stays at 0, so nothing is deferred.
	if _, err := e.Insert(7, "o"); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("after fixing: %v", got)
	}

	if err := e.Delete(7, 8); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 6, End: 10}}) {
		t.Errorf("after breaking again: %v", got)
	}
}

func TestPunctuationBeforeWord(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int64
		insert string
	}{
		{"paren before word", "hello world", 6, "("},
		{"quoted paste", "hello ", 6, `"world"`},
		{"paren paste at start", "world", 0, "(hello) "},
		{"apostrophe before word", "hello world", 6, "'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, e, _ := newTestChecker(t, tt.text)

			// The cursor stays at 0, so nothing is deferred.
			if _, err := e.Insert(tt.offset, tt.insert); err != nil {
				t.Fatal(err)
			}
			incremental := c.Misspellings()
			if len(incremental) != 0 {
				t.Errorf("%q: flagged %v", e.Text(), incremental)
			}
			if err := c.RecheckAll(); err != nil {
				t.Fatal(err)
			}
			if full := c.Misspellings(); !rangesEqual(incremental, full) {
				t.Errorf("%q: incremental %v, full recheck %v", e.Text(), incremental, full)
			}
		})
	}
}

func TestPunctuationBeforeMisspelledWord(t *testing.T) {
	c, e, _ := newTestChecker(t, "hello wrld")

	if _, err := e.Insert(6, "["); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 7, End: 11}}) {
		t.Errorf("Misspellings() = %v, want the word without the bracket", got)
	}
}

func TestWordFilterPrecedence(t *testing.T) {
	c, _, _ := newTestChecker(t, "call 2024 now")

	if got := c.Misspellings(); len(got) != 0 {
		t.Fatalf("flagged %v", got)
	}

	if err := c.RemoveFilter(DefaultWordFilters[0], FilterWord); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("filter change must not recheck, flagged %v", got)
	}
	if err := c.RecheckAll(); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 5, End: 9}}) {
		t.Errorf("without filter: %v", got)
	}
}

func TestLineFilterSkipsURLs(t *testing.T) {
	c, _, _ := newTestChecker(t, "visit https://exmaple.com/pth today\nmail bob@exmaple.com")

	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 36, End: 40}}) {
		t.Errorf("Misspellings() = %v", got)
	}
}

func TestTextFilter(t *testing.T) {
	c, _, _ := newTestChecker(t, "ok <<wrng\nbd>> ok wrng",
		WithFilter(`(?s)<<.*?>>`, FilterText))

	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 18, End: 22}}) {
		t.Errorf("Misspellings() = %v", got)
	}
}

func TestInvalidFilterFailsConstruction(t *testing.T) {
	b := newFakeBroker()
	_, err := New(EngineView(newEngine("x")), b, WithFilter(`(`, FilterLine))
	if !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("err = %v", err)
	}
}

func TestIgnoreTag(t *testing.T) {
	c, _, _ := newTestChecker(t, "see wrld now")
	buf := c.Buffer()
	if _, err := buf.CreateTag("code"); err != nil {
		t.Fatal(err)
	}
	buf.ApplyTag("code", 4, 8)

	c.AppendIgnoreTag("code")
	if err := c.RecheckAll(); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("ignored text flagged: %v", got)
	}

	if err := c.RemoveIgnoreTag("code"); err != nil {
		t.Fatal(err)
	}
	if err := c.RecheckAll(); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 4, End: 8}}) {
		t.Errorf("after removing ignore: %v", got)
	}
	if err := c.RemoveIgnoreTag("code"); !errors.Is(err, ErrIgnoreTagNotFound) {
		t.Errorf("second remove err = %v", err)
	}
}

func TestNoSpellCheckTags(t *testing.T) {
	c, _, _ := newTestChecker(t, "wrld qick")
	buf := c.Buffer()

	if buf.LookupTag(NoSpellCheckTag) == nil {
		t.Fatal("no-spell-check tag not created")
	}
	buf.ApplyTag(NoSpellCheckTag, 0, 4)

	if _, err := buf.CreateTag("verbatim", buffer.WithNoSpellCheck()); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(c.IgnoreTags(), "verbatim") {
		t.Fatalf("IgnoreTags() = %v", c.IgnoreTags())
	}
	buf.ApplyTag("verbatim", 5, 9)

	if err := c.RecheckAll(); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("flagged %v", got)
	}

	if err := buf.(*buffer.Buffer).DeleteTag("verbatim"); err != nil {
		t.Fatal(err)
	}
	if slices.Contains(c.IgnoreTags(), "verbatim") {
		t.Error("deleted tag still ignored")
	}
}

func TestLanguageSwitch(t *testing.T) {
	c, _, _ := newTestChecker(t, "hello bonjour")

	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 6, End: 13}}) {
		t.Fatalf("english: %v", got)
	}

	var changes []string
	sub := c.OnLanguageChanged(func(code string) { changes = append(changes, code) })

	if err := c.SetLanguage("fr_FR"); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 0, End: 5}}) {
		t.Errorf("french: %v", got)
	}
	if err := c.SetLanguage("fr_FR"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLanguage("nl"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("unsupported err = %v", err)
	}
	if c.Language() != "fr_FR" {
		t.Errorf("language = %q", c.Language())
	}

	sub.Cancel()
	_ = c.SetLanguage("en_US")
	if !slices.Equal(changes, []string{"fr_FR"}) {
		t.Errorf("observer calls = %v", changes)
	}
	if sub.ID().String() == "" {
		t.Error("subscription has no ID")
	}
}

func TestDisableEnableRoundTrip(t *testing.T) {
	c, _, _ := newTestChecker(t, "helo wrld\nthe qick fox")
	before := c.Misspellings()

	var states []bool
	c.OnEnabledChanged(func(enabled bool) { states = append(states, enabled) })

	c.Disable()
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("disabled checker left %v", got)
	}
	if err := c.CheckRange(0, c.Buffer().Len(), true); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("disabled checker checked: %v", got)
	}

	if err := c.SetEnabled(true); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); !rangesEqual(got, before) {
		t.Errorf("after enable %v, want %v", got, before)
	}
	if err := c.SetEnabled(true); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(states, []bool{false, true}) {
		t.Errorf("observer calls = %v", states)
	}
}

func TestAddToDictionaryAndIgnoreAll(t *testing.T) {
	c, _, b := newTestChecker(t, "keyspell wrld keyspell")

	if err := c.AddToDictionary("keyspell"); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 9, End: 13}}) {
		t.Errorf("after add: %v", got)
	}
	if !slices.Equal(b.personal, []string{"keyspell"}) {
		t.Errorf("personal list = %v", b.personal)
	}

	if err := c.IgnoreAll("wrld"); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("after ignore: %v", got)
	}
}

func TestBackendErrorPropagates(t *testing.T) {
	var handled []error
	c, e, b := newTestChecker(t, "hello", WithErrorHandler(func(err error) { handled = append(handled, err) }))

	boom := errors.New("backend down")
	b.fail = boom

	err := c.RecheckAll()
	var be *BackendError
	if !errors.As(err, &be) || be.Op != "check" || be.Word != "hello" {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("BackendError should unwrap to the backend error")
	}

	if _, err := e.Insert(0, "x "); err != nil {
		t.Fatal(err)
	}
	if len(handled) == 0 || !errors.Is(handled[0], boom) {
		t.Errorf("handler got %v", handled)
	}
}

func TestCheckRangeRejectsReentry(t *testing.T) {
	c, _, b := newTestChecker(t, "hello")

	var inner error
	b.onCheck = func(string) {
		b.onCheck = nil
		inner = c.CheckRange(0, 5, true)
	}
	if err := c.RecheckAll(); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(inner, ErrReentrantCheck) {
		t.Errorf("inner err = %v", inner)
	}
}

func TestNoDictionaries(t *testing.T) {
	b := newFakeBroker()
	b.words = map[string][]string{}
	_, err := New(EngineView(newEngine("text")), b)
	if !errors.Is(err, ErrNoDictionariesFound) {
		t.Errorf("err = %v", err)
	}
}

func TestFallbackLanguage(t *testing.T) {
	c, _, _ := newTestChecker(t, "hallo", WithLanguage("nl"), WithDefaultLocale("de"))
	if c.Language() != "de" {
		t.Errorf("language = %q, want de", c.Language())
	}
}

func TestBackendParams(t *testing.T) {
	_, _, b := newTestChecker(t, "", WithBackendParams(map[string]string{"wordlist.dictionary.path": "/usr/share/dict"}))
	if b.params["wordlist.dictionary.path"] != "/usr/share/dict" {
		t.Errorf("params = %v", b.params)
	}
}

func TestCustomPrefix(t *testing.T) {
	c, _, _ := newTestChecker(t, "wrld", WithPrefix("mine"))
	buf := c.Buffer()
	if c.MisspelledTag() != "mine-misspelled" || buf.LookupTag("mine-misspelled") == nil {
		t.Errorf("tag = %q", c.MisspelledTag())
	}
	for _, mark := range []string{"mine-insert-start", "mine-insert-end", "mine-click"} {
		if _, ok := buf.MarkOffset(mark); !ok {
			t.Errorf("mark %s missing", mark)
		}
	}
}

func TestBufferRebind(t *testing.T) {
	c, e, _ := newTestChecker(t, "hello")
	old := e.Buffer()

	e.SetBuffer(e.NewBuffer("wrld ok"))
	if c.Buffer() != e.Buffer() {
		t.Fatal("checker did not follow the view")
	}
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 0, End: 4}}) {
		t.Errorf("new buffer: %v", got)
	}

	if _, err := old.Insert(5, " wrld"); err != nil {
		t.Fatal(err)
	}
	if got := old.TagRanges(c.MisspelledTag()); len(got) != 0 {
		t.Errorf("old buffer still checked: %v", got)
	}

	e.SetBuffer(old)
	if got := c.Misspellings(); !rangesEqual(got, []buffer.Range{{Start: 6, End: 10}}) {
		t.Errorf("back on old buffer: %v", got)
	}
}

func TestClose(t *testing.T) {
	c, e, _ := newTestChecker(t, "hello")
	c.Close()

	if _, err := e.Insert(5, " wrld"); err != nil {
		t.Fatal(err)
	}
	if got := c.Misspellings(); len(got) != 0 {
		t.Errorf("closed checker still checks: %v", got)
	}
	if err := c.BufferInitialize(); !errors.Is(err, ErrClosed) {
		t.Errorf("BufferInitialize after Close err = %v", err)
	}
}
