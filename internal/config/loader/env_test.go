package loader

import (
	"testing"

	"github.com/dshills/keyspell/internal/config/layer"
)

func newTestEnvLoader(env ...string) *EnvLoader {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string { return env }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := newTestEnvLoader(
		"KEYSPELL_LANGUAGE=fr_FR",
		"KEYSPELL_LOG_LEVEL=debug",
		"KEYSPELL_DICT_PATH=/usr/share/hunspell:/opt/dicts",
		"KEYSPELL_SPELL_COLLAPSE_SUGGESTIONS=false",
		"KEYSPELL_SPELL_IGNORE_TAGS=[\"code\",\"pre\"]",
		"KEYSPELL_SPELL_PREFIX=ks",
		"KEYSPELL_BOGUS=1",
		"HOME=/home/u",
	)

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"spell.language", "fr_FR"},
		{"logging.level", "debug"},
		{"spell.collapse_suggestions", false},
		{"spell.prefix", "ks"},
	}
	for _, tt := range tests {
		if got, ok := layer.GetByPath(config, tt.path); !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}

	backend, _ := layer.GetByPath(config, "spell.backend")
	params, ok := backend.(map[string]any)
	if !ok || params["wordlist.dictionary.path"] != "/usr/share/hunspell:/opt/dicts" {
		t.Errorf("spell.backend = %#v", backend)
	}

	tags, _ := layer.GetByPath(config, "spell.ignore_tags")
	if list, ok := tags.([]any); !ok || len(list) != 2 {
		t.Errorf("spell.ignore_tags = %#v", tags)
	}

	if _, ok := config["bogus"]; ok {
		t.Error("a variable without a key should be skipped")
	}
	if _, ok := config["home"]; ok {
		t.Error("unprefixed variables should be ignored")
	}
}

func TestEnvLoader_MappedKeepsString(t *testing.T) {
	config, _ := newTestEnvLoader("KEYSPELL_LANGUAGE=1").Load()
	if v, _ := layer.GetByPath(config, "spell.language"); v != "1" {
		t.Errorf("mapped values should not be parsed, got %v (%T)", v, v)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := newTestEnvLoader("KEYSPELL_LANG=de")
	l.AddMapping("KEYSPELL_LANG", "spell.language")

	config, _ := l.Load()
	if v, _ := layer.GetByPath(config, "spell.language"); v != "de" {
		t.Errorf("spell.language = %v, want de", v)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	tests := []struct {
		env  string
		want string
	}{
		{"KEYSPELL_SPELL_LANGUAGE", "spell.language"},
		{"KEYSPELL_SPELL_COLLAPSE_SUGGESTIONS", "spell.collapse_suggestions"},
		{"KEYSPELL_LOGGING_FILE", "logging.file"},
		{"KEYSPELL_SPELL", ""},
		{"KEYSPELL_", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"en_US", "en_US"},
		{"{not json", "{not json"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}
