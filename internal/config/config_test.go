package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

// staticEnv is a Loader returning fixed values.
type staticEnv map[string]any

func (s staticEnv) Load() (map[string]any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return s, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithUserConfigDir(t.TempDir()),
		WithWatcher(false),
		WithEnvLoader(staticEnv(nil)),
	}
	c := New(append(base, opts...)...)
	t.Cleanup(c.Close)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestConfig_Defaults(t *testing.T) {
	c := newTestConfig(t)

	prefix, err := c.GetString("spell.prefix")
	if err != nil || prefix != "keyspell" {
		t.Errorf("spell.prefix = %q, %v; want keyspell", prefix, err)
	}
	enabled, err := c.GetBool("spell.enabled")
	if err != nil || !enabled {
		t.Errorf("spell.enabled = %v, %v; want true", enabled, err)
	}
	if got := c.Which("spell.prefix"); got != LayerDefaults {
		t.Errorf("Which(spell.prefix) = %q, want %q", got, LayerDefaults)
	}
	if files := c.Files(); len(files) != 0 {
		t.Errorf("Files() = %v, want none", files)
	}
}

func TestConfig_LoadUserTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), `
[spell]
language = "de_DE"
collapse_suggestions = false

[editor]
tab_width = 8
`)
	c := newTestConfig(t, WithUserConfigDir(dir))

	lang, _ := c.GetString("spell.language")
	if lang != "de_DE" {
		t.Errorf("spell.language = %q, want de_DE", lang)
	}
	width, err := c.GetInt("editor.tab_width")
	if err != nil || width != 8 {
		t.Errorf("editor.tab_width = %d, %v; want 8", width, err)
	}
	if got := c.Which("spell.language"); got != LayerUser {
		t.Errorf("Which(spell.language) = %q, want %q", got, LayerUser)
	}
	if files := c.Files(); len(files) != 1 || files[0] != filepath.Join(dir, "config.toml") {
		t.Errorf("Files() = %v", files)
	}
}

func TestConfig_LoadUserYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "spell:\n  language: fr\n  ignore_tags: [code, url]\n")
	c := newTestConfig(t, WithUserConfigDir(dir))

	tags, err := c.GetStringSlice("spell.ignore_tags")
	if err != nil {
		t.Fatalf("GetStringSlice error = %v", err)
	}
	if !slices.Equal(tags, []string{"code", "url"}) {
		t.Errorf("ignore_tags = %v", tags)
	}
}

func TestConfig_ExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[logging]\nlevel = \"debug\"\n")
	c := newTestConfig(t, WithConfigFile(path))

	if got := c.Logging().Level; got != "debug" {
		t.Errorf("logging.level = %q, want debug", got)
	}
}

func TestConfig_LayerPrecedence(t *testing.T) {
	user := t.TempDir()
	project := t.TempDir()
	writeFile(t, filepath.Join(user, "config.toml"), "[spell]\nlanguage = \"en_GB\"\nprefix = \"user\"\n")
	writeFile(t, filepath.Join(project, ".keyspell.toml"), "[spell]\nlanguage = \"en_US\"\n")

	c := newTestConfig(t,
		WithUserConfigDir(user),
		WithProjectDir(project),
		WithEnvLoader(staticEnv{"logging": map[string]any{"level": "warn"}}),
		WithFlags(map[string]any{"logging.level": "error"}),
	)

	tests := []struct {
		path  string
		want  string
		layer string
	}{
		{"spell.language", "en_US", LayerProject},
		{"spell.prefix", "user", LayerUser},
		{"logging.level", "error", LayerFlags},
	}
	for _, tt := range tests {
		got, _ := c.GetString(tt.path)
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.path, got, tt.want)
		}
		if which := c.Which(tt.path); which != tt.layer {
			t.Errorf("Which(%s) = %q, want %q", tt.path, which, tt.layer)
		}
	}

	if err := c.Set("spell.language", "nl"); err != nil {
		t.Fatal(err)
	}
	if got := c.Which("spell.language"); got != LayerSession {
		t.Errorf("after Set, Which = %q, want %q", got, LayerSession)
	}
}

func TestConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), "[spell\nlanguage = ")

	c := New(WithUserConfigDir(dir), WithWatcher(false), WithEnvLoader(staticEnv(nil)))
	defer c.Close()
	if err := c.Load(context.Background()); err == nil {
		t.Error("Load() with invalid TOML should fail")
	}
}

func TestConfig_TypeErrors(t *testing.T) {
	c := newTestConfig(t)

	if _, err := c.GetString("missing.value"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("missing: err = %v, want ErrSettingNotFound", err)
	}
	if _, err := c.GetInt("spell.prefix"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt(string): err = %v, want ErrTypeMismatch", err)
	}
	var te *TypeError
	if _, err := c.GetBool("spell.prefix"); !errors.As(err, &te) || te.Expected != "bool" {
		t.Errorf("GetBool(string): err = %v", err)
	}
	if err := c.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(\"\"): err = %v, want ErrInvalidPath", err)
	}
	if err := c.Set("spell.", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(spell.): err = %v, want ErrInvalidPath", err)
	}
}

func TestConfig_GetStringMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), `
[spell.backend]
"wordlist.dictionary.path" = "/opt/dicts"
retries = 3
`)
	c := newTestConfig(t, WithUserConfigDir(dir))

	m, err := c.GetStringMap("spell.backend")
	if err != nil {
		t.Fatal(err)
	}
	if m["wordlist.dictionary.path"] != "/opt/dicts" || m["retries"] != "3" {
		t.Errorf("backend = %v", m)
	}
}

func TestConfig_SetNotifies(t *testing.T) {
	c := newTestConfig(t)

	var got [][]string
	cancel := c.OnChange(func(changed []string) {
		got = append(got, changed)
	})

	if err := c.Set("spell.language", "de"); err != nil {
		t.Fatal(err)
	}
	// Same value again changes nothing.
	if err := c.Set("spell.language", "de"); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := c.Set("spell.language", "fr"); err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	if !slices.Equal(got[0], []string{"spell.language"}) {
		t.Errorf("changed = %v", got[0])
	}
}

func TestConfig_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[spell]\nlanguage = \"en\"\n")
	c := newTestConfig(t, WithUserConfigDir(dir))

	var changed []string
	c.OnChange(func(paths []string) { changed = paths })

	writeFile(t, path, "[spell]\nlanguage = \"en\"\nenabled = false\n")
	if err := c.Reload(); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(changed, []string{"spell.enabled"}) {
		t.Errorf("changed = %v", changed)
	}
	if c.Spell().Enabled {
		t.Error("Spell().Enabled = true after reload")
	}

	// Removing the file drops the user layer.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := c.Reload(); err != nil {
		t.Fatal(err)
	}
	if !c.Spell().Enabled {
		t.Error("Spell().Enabled = false after removing file")
	}
}

func TestConfig_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[spell]\nlanguage = \"en\"\n")

	c := New(WithUserConfigDir(dir), WithEnvLoader(staticEnv(nil)))
	defer c.Close()
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var changed []string
	c.OnChange(func(paths []string) {
		mu.Lock()
		changed = paths
		mu.Unlock()
	})

	writeFile(t, path, "[spell]\nlanguage = \"pt_BR\"\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		done := slices.Contains(changed, "spell.language")
		mu.Unlock()
		if done {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if lang, _ := c.GetString("spell.language"); lang != "pt_BR" {
		t.Errorf("spell.language = %q after file change, want pt_BR", lang)
	}
}

func TestDefaultUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultUserConfigDir(); got != filepath.Join("/tmp/xdg", "keyspell") {
		t.Errorf("DefaultUserConfigDir() = %q", got)
	}
}
