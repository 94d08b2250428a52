package spell

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// FilterScope selects what a filter pattern is matched against.
type FilterScope uint8

const (
	// FilterWord patterns must match a whole segmented word.
	FilterWord FilterScope = iota
	// FilterLine patterns are matched within the line holding the word.
	FilterLine
	// FilterText patterns are matched against the whole document in
	// multi-line mode and may span lines.
	FilterText

	numScopes
)

// String returns the scope name used in configuration files.
func (s FilterScope) String() string {
	switch s {
	case FilterWord:
		return "word"
	case FilterLine:
		return "line"
	case FilterText:
		return "text"
	}
	return fmt.Sprintf("scope(%d)", uint8(s))
}

// ParseFilterScope converts "word", "line" or "text" to a FilterScope.
func ParseFilterScope(s string) (FilterScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "word":
		return FilterWord, nil
	case "line":
		return FilterLine, nil
	case "text":
		return FilterText, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScope, s)
}

// Default filter patterns.
var (
	DefaultWordFilters = []string{`[0-9.,]+`}
	DefaultLineFilters = []string{
		`(https?|ftp|file):((//)|(\\\\))+[\w\d:#@%/;$()~_?+-=\\.&]+`,
		`[\w\d]+@[\w\d.]+`,
	}
)

// FilterSet holds the exclusion patterns of each scope. Patterns of a
// scope are combined into one alternation that is recompiled on every
// change.
type FilterSet struct {
	mu       sync.RWMutex
	patterns [numScopes][]string
	regexes  [numScopes]*regexp.Regexp
}

// NewFilterSet returns an empty filter set.
func NewFilterSet() *FilterSet {
	return &FilterSet{}
}

// DefaultFilterSet returns a filter set that exempts numbers, URLs and
// email addresses.
func DefaultFilterSet() *FilterSet {
	f := NewFilterSet()
	for _, p := range DefaultWordFilters {
		_ = f.Append(p, FilterWord)
	}
	for _, p := range DefaultLineFilters {
		_ = f.Append(p, FilterLine)
	}
	return f
}

// Append adds a pattern to a scope. A pattern that does not compile is
// rejected with a *FilterError and the set is left unchanged.
func (f *FilterSet) Append(pattern string, scope FilterScope) error {
	if scope >= numScopes {
		return fmt.Errorf("%w: %v", ErrUnknownScope, scope)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return &FilterError{Pattern: pattern, Scope: scope, Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	patterns := append(slices.Clone(f.patterns[scope]), pattern)
	re, err := compileScope(patterns, scope)
	if err != nil {
		return &FilterError{Pattern: pattern, Scope: scope, Err: err}
	}
	f.patterns[scope] = patterns
	f.regexes[scope] = re
	return nil
}

// Remove deletes the first occurrence of pattern from a scope.
func (f *FilterSet) Remove(pattern string, scope FilterScope) error {
	if scope >= numScopes {
		return fmt.Errorf("%w: %v", ErrUnknownScope, scope)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.Index(f.patterns[scope], pattern)
	if i < 0 {
		return fmt.Errorf("%w: %s %q", ErrFilterNotFound, scope, pattern)
	}
	patterns := slices.Delete(slices.Clone(f.patterns[scope]), i, i+1)
	re, err := compileScope(patterns, scope)
	if err != nil {
		return &FilterError{Pattern: pattern, Scope: scope, Err: err}
	}
	f.patterns[scope] = patterns
	f.regexes[scope] = re
	return nil
}

// Patterns returns the patterns of a scope in the order they were added.
func (f *FilterSet) Patterns(scope FilterScope) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if scope >= numScopes {
		return nil
	}
	return slices.Clone(f.patterns[scope])
}

// WordIsFiltered reports whether a word-scope pattern matches all of word.
func (f *FilterSet) WordIsFiltered(word string) bool {
	re := f.regex(FilterWord)
	return re != nil && re.MatchString(word)
}

// LineFilteredSpan returns the span of the first line-scope match that
// covers column col of line. Both ends of a match count as covered.
func (f *FilterSet) LineFilteredSpan(line string, col int) (start, end int, ok bool) {
	return coveringMatch(f.regex(FilterLine), line, col)
}

// TextFilteredSpan returns the span of the first text-scope match that
// covers offset in text.
func (f *FilterSet) TextFilteredSpan(text string, offset int) (start, end int, ok bool) {
	return coveringMatch(f.regex(FilterText), text, offset)
}

func (f *FilterSet) regex(scope FilterScope) *regexp.Regexp {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.regexes[scope]
}

func coveringMatch(re *regexp.Regexp, s string, pos int) (int, int, bool) {
	if re == nil {
		return 0, 0, false
	}
	for _, m := range re.FindAllStringIndex(s, -1) {
		if m[0] <= pos && pos <= m[1] {
			return m[0], m[1], true
		}
		if m[0] > pos {
			break
		}
	}
	return 0, 0, false
}

// compileScope builds the combined matcher of a scope. An empty list has
// no matcher.
func compileScope(patterns []string, scope FilterScope) (*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	alts := make([]string, len(patterns))
	for i, p := range patterns {
		alts[i] = "(?:" + p + ")"
	}
	expr := strings.Join(alts, "|")
	switch scope {
	case FilterWord:
		expr = `^(?:` + expr + `)$`
	case FilterText:
		expr = `(?m)` + expr
	}
	return regexp.Compile(expr)
}
