package spell

import (
	"errors"
	"slices"
	"testing"
)

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"en_US", "English (United States)"},
		{"en_GB", "English (United Kingdom)"},
		{"de", "German"},
		{"fr_FR", "French (France)"},
		{"xx_YY", "Unknown (xx_YY)"},
	}
	for _, tt := range tests {
		if got := LanguageName(tt.code); got != tt.want {
			t.Errorf("LanguageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestNewLanguageListSortsByName(t *testing.T) {
	list := NewLanguageList([]string{"fr_FR", "en_US", "de"})

	want := []string{"de", "en_US", "fr_FR"}
	if !slices.Equal(list.Codes(), want) {
		t.Errorf("Codes() = %v, want %v", list.Codes(), want)
	}
	if !list.Exists("en_US") || list.Exists("en_GB") {
		t.Error("Exists mismatch")
	}
	if list.Name("de") != "German" || list.Name("nl") != "" {
		t.Errorf("Name mismatch: %q %q", list.Name("de"), list.Name("nl"))
	}
}

func TestChooseLanguage(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		requested string
		locale    string
		want      string
	}{
		{"requested", []string{"de", "en_US"}, "de", "en_US", "de"},
		{"locale default", []string{"de", "en_US"}, "nl", "en_US", "en_US"},
		{"no request uses locale", []string{"de", "fr_FR"}, "", "fr_FR", "fr_FR"},
		{"en_GB first", []string{"en", "en_US", "en_GB", "de"}, "nl", "pt_BR", "en_GB"},
		{"en_US before en", []string{"en", "en_US", "de"}, "", "", "en_US"},
		{"plain en", []string{"en", "de"}, "", "", "en"},
		{"first in list", []string{"fr_FR", "de"}, "", "", "de"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chooseLanguage(NewLanguageList(tt.installed), tt.requested, tt.locale, nopLogger{})
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("chooseLanguage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChooseLanguageEmpty(t *testing.T) {
	_, err := chooseLanguage(nil, "en_US", "en_US", nopLogger{})
	if !errors.Is(err, ErrNoDictionariesFound) {
		t.Errorf("err = %v", err)
	}
}

func TestNormalizeLanguageCode(t *testing.T) {
	tests := map[string]string{
		"en-US":       "en_US",
		"en_us":       "en_US",
		"EN":          "en",
		"de_DE.UTF-8": "de_DE",
		"sr_RS@latin": "sr_RS",
		"zh-Hant-TW":  "zh_Hant_TW",
	}
	for in, want := range tests {
		if got := NormalizeLanguageCode(in); got != want {
			t.Errorf("NormalizeLanguageCode(%q) = %q, want %q", in, got, want)
		}
	}
}
