// Package i18n is the resource bundle for user visible strings.
//
// The bundle is process wide. It is built on first use, for the language
// chosen with Select or, failing that, the user's locale, and never
// changes afterwards.
package i18n

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyLanguages       = "Languages"
	KeySuggestions     = "Suggestions"
	KeyNoSuggestions   = "(no suggestions)"
	KeyAddToDictionary = "Add to Dictionary"
	KeyIgnoreAll       = "Ignore All"
	KeyUnknown         = "Unknown"
)

var translations = map[language.Tag]map[string]string{
	language.German: {
		KeyLanguages:       "Sprachen",
		KeySuggestions:     "Vorschläge",
		KeyNoSuggestions:   "(keine Vorschläge)",
		KeyAddToDictionary: "Zum Wörterbuch hinzufügen",
		KeyIgnoreAll:       "Alle ignorieren",
		KeyUnknown:         "Unbekannt",
	},
	language.French: {
		KeyLanguages:       "Langues",
		KeySuggestions:     "Suggestions",
		KeyNoSuggestions:   "(aucune suggestion)",
		KeyAddToDictionary: "Ajouter au dictionnaire",
		KeyIgnoreAll:       "Tout ignorer",
		KeyUnknown:         "Inconnu",
	},
	language.Spanish: {
		KeyLanguages:       "Idiomas",
		KeySuggestions:     "Sugerencias",
		KeyNoSuggestions:   "(sin sugerencias)",
		KeyAddToDictionary: "Añadir al diccionario",
		KeyIgnoreAll:       "Ignorar todo",
		KeyUnknown:         "Desconocido",
	},
}

type bundle struct {
	tag     language.Tag
	printer *message.Printer
}

var (
	mu        sync.Mutex
	requested string
	once      sync.Once
	active    *bundle
)

// Select chooses the bundle language, e.g. "de" or "fr_FR". It only has an
// effect before the first Translate call and reports whether it did.
func Select(code string) bool {
	mu.Lock()
	defer mu.Unlock()
	if active != nil {
		return false
	}
	requested = code
	return true
}

// Translate returns the message for key in the bundle language. Keys
// without a translation are returned unchanged.
func Translate(key string) string {
	return get().printer.Sprintf(key)
}

// Tag returns the bundle language.
func Tag() language.Tag {
	return get().tag
}

func get() *bundle {
	once.Do(func() {
		mu.Lock()
		code := requested
		mu.Unlock()
		if code == "" {
			if loc, err := locale.GetLocale(); err == nil {
				code = loc
			}
		}
		b := build(code)
		mu.Lock()
		active = b
		mu.Unlock()
	})
	return active
}

func build(code string) *bundle {
	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	supported := []language.Tag{language.English}
	for tag, msgs := range translations {
		supported = append(supported, tag)
		for key, msg := range msgs {
			_ = cat.SetString(tag, key, msg)
		}
	}

	tag := language.English
	if want, err := language.Parse(normalize(code)); err == nil {
		matcher := language.NewMatcher(supported)
		_, idx, conf := matcher.Match(want)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &bundle{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

func normalize(code string) string {
	for i, c := range code {
		if c == '.' || c == '@' {
			code = code[:i]
			break
		}
	}
	b := []byte(code)
	for i, c := range b {
		if c == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}
