package wordlist

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dictionary checks words against a word list plus the personal and
// session lists of its language. It implements spell.Dictionary.
type Dictionary struct {
	broker   *Broker
	code     string
	tag      language.Tag
	base     *wordSet
	personal *wordSet
	session  *wordSet
}

func newDictionary(b *Broker, code string, base, personal *wordSet) *Dictionary {
	return &Dictionary{
		broker:   b,
		code:     code,
		tag:      language.Make(code),
		base:     base,
		personal: personal,
		session:  newWordSet(nil),
	}
}

// Language returns the language code the dictionary was opened for.
func (d *Dictionary) Language() string {
	return d.code
}

// Check reports whether word is known. A capitalized or all caps word also
// matches its lower case entry, and an all caps word matches a
// capitalized entry such as a proper name.
func (d *Dictionary) Check(word string) (bool, error) {
	if err := validWord(word); err != nil {
		return false, err
	}
	for _, form := range d.forms(word) {
		if d.known(form) {
			return true, nil
		}
	}
	return false, nil
}

// Suggest returns up to MaxSuggestions known words close to word, with the
// capitalization of word applied.
func (d *Dictionary) Suggest(word string) ([]string, error) {
	if err := validWord(word); err != nil {
		return nil, err
	}
	r := newRanker(d.lower(normalizeApostrophe(word)))
	for _, s := range []*wordSet{d.base, d.personal, d.session} {
		s.each(func(w string) bool {
			r.consider(w, d.lower(w))
			return true
		})
	}

	var out []string
	seen := make(map[string]bool)
	for _, w := range r.best(MaxSuggestions) {
		w = d.matchCase(word, w)
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out, nil
}

// AddToPersonal accepts word permanently and saves it to the personal list.
func (d *Dictionary) AddToPersonal(word string) error {
	if err := validWord(word); err != nil {
		return err
	}
	return d.broker.addPersonal(d.code, word, d.personal)
}

// AddToSession accepts word for the lifetime of this dictionary.
func (d *Dictionary) AddToSession(word string) error {
	if err := validWord(word); err != nil {
		return err
	}
	d.session.add(word)
	return nil
}

func (d *Dictionary) known(word string) bool {
	return d.base.has(word) || d.personal.has(word) || d.session.has(word)
}

// forms lists the spellings to look up for word, most specific first.
func (d *Dictionary) forms(word string) []string {
	word = normalizeApostrophe(word)
	forms := []string{word}
	lower := d.lower(word)
	if lower == word {
		return forms
	}
	upper := cases.Upper(d.tag).String(word)
	title := cases.Title(d.tag).String(lower)
	switch word {
	case title:
		forms = append(forms, lower)
	case upper:
		forms = append(forms, lower, title)
	}
	return forms
}

func (d *Dictionary) lower(s string) string {
	return cases.Lower(d.tag).String(s)
}

// matchCase gives suggestion the capitalization pattern of word.
func (d *Dictionary) matchCase(word, suggestion string) string {
	lower := d.lower(word)
	if lower == word {
		return suggestion
	}
	if cases.Upper(d.tag).String(word) == word {
		return cases.Upper(d.tag).String(suggestion)
	}
	if cases.Title(d.tag).String(lower) == word && d.lower(suggestion) == suggestion {
		return cases.Title(d.tag).String(suggestion)
	}
	return suggestion
}

func normalizeApostrophe(word string) string {
	return strings.ReplaceAll(word, "’", "'")
}

func validWord(word string) error {
	if strings.TrimSpace(word) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidWord)
	}
	if strings.ContainsAny(word, "\r\n") {
		return fmt.Errorf("%w: %q spans lines", ErrInvalidWord, word)
	}
	return nil
}
