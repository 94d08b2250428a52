package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of environment variables read by EnvLoader.
const EnvPrefix = "KEYSPELL_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // env var -> config path
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix, which
// should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, DefaultEnvMapping())
}

// NewEnvLoaderWithMapping creates a loader with explicit variable to path
// mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// DefaultEnvMapping returns the short variable names that do not follow the
// KEYSPELL_SECTION_KEY scheme.
func DefaultEnvMapping() map[string]string {
	return map[string]string{
		"KEYSPELL_LANGUAGE":      "spell.language",
		"KEYSPELL_LOG_LEVEL":     "logging.level",
		"KEYSPELL_LOG_FILE":      "logging.file",
		"KEYSPELL_DICT_PATH":     "spell.backend.wordlist.dictionary.path",
		"KEYSPELL_PERSONAL_DICT": "spell.backend.wordlist.personal.path",
		"KEYSPELL_INIT_SCRIPT":   "spell.init_script",
	}
}

// Load reads the environment. Empty values count as set. Mapped variables
// keep their string value; others are parsed into bools, numbers or JSON
// when they look like one.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if path, mapped := l.mapping[name]; mapped {
			setEnvPath(config, path, value)
			continue
		}
		if path := l.envToPath(name); path != "" {
			setEnvPath(config, path, parseValue(value))
		}
	}
	return config, nil
}

// AddMapping maps an environment variable to a config path.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts KEYSPELL_SPELL_COLLAPSE_SUGGESTIONS to
// spell.collapse_suggestions. The first word is the section.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return section + "." + key
}

// setEnvPath stores value under path. Backend parameter names contain dots
// themselves, so everything after spell.backend is one key.
func setEnvPath(config map[string]any, path string, value any) {
	const backend = "spell.backend."
	if param, ok := strings.CutPrefix(path, backend); ok {
		spell, _ := config["spell"].(map[string]any)
		if spell == nil {
			spell = make(map[string]any)
			config["spell"] = spell
		}
		params, _ := spell["backend"].(map[string]any)
		if params == nil {
			params = make(map[string]any)
			spell["backend"] = params
		}
		params[param] = value
		return
	}

	parts := strings.Split(path, ".")
	current := config
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// parseValue converts s into a bool, int64, float64 or JSON value when it
// parses as one.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}
