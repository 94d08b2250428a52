package config

import (
	"errors"
	"fmt"
	"maps"
	"sort"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// SpellConfig holds the settings applied to every spell checker.
type SpellConfig struct {
	// Language is the requested language code. Empty selects from the
	// locale.
	Language string

	// Prefix names the tags and marks the checker creates.
	Prefix string

	// CollapseSuggestions puts suggestions in a submenu.
	CollapseSuggestions bool

	// Enabled reports whether checking starts enabled.
	Enabled bool

	// IgnoreTags are tags whose text is never checked.
	IgnoreTags []string

	// InitScript is a Lua file run once at startup.
	InitScript string

	// Filters are regular expressions excluded from checking.
	Filters []FilterConfig

	// Backend holds parameters passed to the dictionary broker.
	Backend map[string]string
}

// FilterConfig is one [[spell.filters]] entry.
type FilterConfig struct {
	Pattern string
	// Scope is "word", "line" or "text".
	Scope string
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// File receives log output. Empty disables logging.
	File string
}

// EditorConfig holds settings for the interactive editor.
type EditorConfig struct {
	// TabWidth is the number of cells a tab occupies.
	TabWidth int
}

// Spell returns the spell checking settings.
func (c *Config) Spell() SpellConfig {
	return SpellConfig{
		Language:            c.getStringOr("spell.language", ""),
		Prefix:              c.getStringOr("spell.prefix", "keyspell"),
		CollapseSuggestions: c.getBoolOr("spell.collapse_suggestions", true),
		Enabled:             c.getBoolOr("spell.enabled", true),
		IgnoreTags:          c.getStringSliceOr("spell.ignore_tags", nil),
		InitScript:          c.getStringOr("spell.init_script", ""),
		Filters:             c.filters(),
		Backend:             c.getStringMapOr("spell.backend", map[string]string{}),
	}
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Editor returns the editor settings.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		TabWidth: c.getIntOr("editor.tab_width", 4),
	}
}

// filters reads spell.filters. Entries may be tables with pattern and
// scope keys or bare strings, which use the word scope.
func (c *Config) filters() []FilterConfig {
	const path = "spell.filters"
	v, ok := c.Get(path)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		c.recordConfigError(path, &TypeError{Path: path, Expected: "[]any", Actual: typeName(v)})
		return nil
	}

	var result []FilterConfig
	for i, item := range items {
		switch val := item.(type) {
		case string:
			result = append(result, FilterConfig{Pattern: val, Scope: "word"})
		case map[string]any:
			pattern, _ := val["pattern"].(string)
			if pattern == "" {
				c.recordConfigError(fmt.Sprintf("%s.%d", path, i), errors.New("filter has no pattern"))
				continue
			}
			scope, _ := val["scope"].(string)
			if scope == "" {
				scope = "word"
			}
			result = append(result, FilterConfig{Pattern: pattern, Scope: scope})
		default:
			c.recordConfigError(fmt.Sprintf("%s.%d", path, i), &TypeError{Path: path, Expected: "table", Actual: typeName(item)})
		}
	}
	return result
}

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.recordAccessError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.recordAccessError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.recordAccessError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		c.recordAccessError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getStringMapOr(path string, defaultValue map[string]string) map[string]string {
	v, err := c.GetStringMap(path)
	if err != nil {
		c.recordAccessError(path, err)
		return defaultValue
	}
	return v
}

// recordAccessError keeps type problems. Missing settings just fall back
// to their default.
func (c *Config) recordAccessError(path string, err error) {
	if errors.Is(err, ErrSettingNotFound) {
		return
	}
	c.recordConfigError(path, err)
}

func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	// First error wins so the original cause is preserved.
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns the problems found by section accessors.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	return maps.Clone(c.configErrors)
}

// ConfigErrorPaths returns the paths in ConfigErrors sorted.
func (c *Config) ConfigErrorPaths() []string {
	errs := c.ConfigErrors()
	paths := make([]string, 0, len(errs))
	for p := range errs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ClearConfigErrors forgets recorded errors.
func (c *Config) ClearConfigErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configErrors = nil
}
