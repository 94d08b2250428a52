package spell

import (
	"slices"
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/dshills/keyspell/internal/i18n"
)

// fallbackLanguages are tried in order when neither the requested
// language nor the locale default has a dictionary.
var fallbackLanguages = []string{"en_GB", "en_US", "en"}

// Language is an installed dictionary language.
type Language struct {
	Code string // backend code, e.g. "en_US"
	Name string // display name, e.g. "English (United States)"
}

// LanguageList is the set of installed languages sorted by display name.
type LanguageList []Language

// NewLanguageList names each code and sorts the result by name.
func NewLanguageList(codes []string) LanguageList {
	list := make(LanguageList, 0, len(codes))
	for _, code := range codes {
		list = append(list, Language{Code: code, Name: LanguageName(code)})
	}
	slices.SortStableFunc(list, func(a, b Language) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Code, b.Code)
	})
	return list
}

// Exists reports whether code is in the list.
func (l LanguageList) Exists(code string) bool {
	return slices.ContainsFunc(l, func(lang Language) bool { return lang.Code == code })
}

// Name returns the display name of code, or "" when it is not listed.
func (l LanguageList) Name(code string) string {
	for _, lang := range l {
		if lang.Code == code {
			return lang.Name
		}
	}
	return ""
}

// Codes returns the language codes in list order.
func (l LanguageList) Codes() []string {
	codes := make([]string, len(l))
	for i, lang := range l {
		codes[i] = lang.Code
	}
	return codes
}

// LanguageName returns a display name for a dictionary code in the user
// interface language: "English (United States)" for "en_US". Codes that
// cannot be named come back as "Unknown (code)".
func LanguageName(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return unknownLanguage(code)
	}

	ui := i18n.Tag()
	langs := display.Languages(ui)
	regions := display.Regions(ui)
	if langs == nil || regions == nil {
		langs = display.English.Languages()
		regions = display.English.Regions()
	}

	base, conf := tag.Base()
	if conf == language.No {
		return unknownLanguage(code)
	}
	name := langs.Name(base)
	if name == "" {
		return unknownLanguage(code)
	}

	if region, conf := tag.Region(); conf == language.Exact {
		rname := regions.Name(region)
		if rname == "" {
			return unknownLanguage(code)
		}
		name += " (" + rname + ")"
	}
	return name
}

func unknownLanguage(code string) string {
	return i18n.Translate("Unknown") + " (" + code + ")"
}

// chooseLanguage picks the dictionary language: the requested one, then
// the locale default, then the fixed fallbacks, then the first installed
// language.
func chooseLanguage(list LanguageList, requested, localeDefault string, log Logger) (string, error) {
	if len(list) == 0 {
		log.Error("No dictionaries found")
		return "", ErrNoDictionariesFound
	}
	if list.Exists(requested) {
		return requested, nil
	}
	if requested != "" {
		log.Warn("Language %s not available", requested)
	}
	if list.Exists(localeDefault) {
		log.Info("Defaulting to locale default language %q", localeDefault)
		return localeDefault, nil
	}
	for _, code := range fallbackLanguages {
		if list.Exists(code) {
			log.Info("Defaulting to %q", code)
			return code, nil
		}
	}
	first := list[0].Code
	log.Info("Defaulting to first language in language list (%q)", first)
	return first, nil
}

// systemLanguage returns the user's locale as a dictionary code such as
// "en_US", or "" when it cannot be determined.
func systemLanguage() string {
	loc, err := locale.GetLocale()
	if err != nil || loc == "" {
		return ""
	}
	return NormalizeLanguageCode(loc)
}

// NormalizeLanguageCode converts a BCP 47 or POSIX locale name to the
// underscore form dictionaries use: "en-us", "en_US.UTF-8" and "en-US"
// all become "en_US".
func NormalizeLanguageCode(code string) string {
	if i := strings.IndexAny(code, ".@"); i >= 0 {
		code = code[:i]
	}
	code = strings.ReplaceAll(code, "-", "_")
	parts := strings.Split(code, "_")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		if len(parts[i]) == 2 {
			parts[i] = strings.ToUpper(parts[i])
		}
	}
	return strings.Join(parts, "_")
}
