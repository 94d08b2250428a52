package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keyspell/internal/config/layer"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func get(t *testing.T, m map[string]any, path string) any {
	t.Helper()
	v, ok := layer.GetByPath(m, path)
	if !ok {
		t.Fatalf("%s not set in %v", path, m)
	}
	return v
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[spell]
language = "en_US"
collapse_suggestions = false
ignore_tags = ["code", "pre"]

[[spell.filters]]
pattern = "^#.*"
scope = "line"

[spell.backend]
"wordlist.personal.path" = "/tmp/personal"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v := get(t, config, "spell.language"); v != "en_US" {
		t.Errorf("spell.language = %v", v)
	}
	if v := get(t, config, "spell.collapse_suggestions"); v != false {
		t.Errorf("spell.collapse_suggestions = %v", v)
	}
	filters, ok := get(t, config, "spell.filters").([]any)
	if !ok || len(filters) != 1 {
		t.Fatalf("spell.filters = %#v", get(t, config, "spell.filters"))
	}
	backend := get(t, config, "spell.backend").(map[string]any)
	if backend["wordlist.personal.path"] != "/tmp/personal" {
		t.Errorf("backend = %v", backend)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "[spell\nlanguage = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if parseErr.Path != "/invalid.toml" {
		t.Errorf("Path = %q, want /invalid.toml", parseErr.Path)
	}
	if parseErr.Line < 1 {
		t.Errorf("Line = %d, want the position of the error", parseErr.Line)
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := (&TOMLLoader{}).LoadFromReader(strings.NewReader("prefix = \"ks\"\ncount = 12\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config["prefix"] != "ks" {
		t.Errorf("prefix = %v", config["prefix"])
	}
	if config["count"] != int64(12) {
		t.Errorf("count = %v (%T), want int64 12", config["count"], config["count"])
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
spell:
  language: de
  enabled: false
  ignore_tags: [code]
  filters:
    - pattern: "TODO"
      scope: word
logging:
  level: debug
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v := get(t, config, "spell.language"); v != "de" {
		t.Errorf("spell.language = %v", v)
	}
	if v := get(t, config, "spell.enabled"); v != false {
		t.Errorf("spell.enabled = %v", v)
	}
	filters := get(t, config, "spell.filters").([]any)
	f, ok := filters[0].(map[string]any)
	if !ok || f["scope"] != "word" {
		t.Errorf("filters[0] = %#v", filters[0])
	}
	if v := get(t, config, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v", v)
	}
}

func TestYAMLLoader_Empty(t *testing.T) {
	config, err := (&YAMLLoader{}).LoadFromReader(strings.NewReader("# nothing\n"))
	if err != nil {
		t.Fatal(err)
	}
	if config == nil || len(config) != 0 {
		t.Errorf("empty document = %v, want empty map", config)
	}
}

func TestYAMLLoader_Invalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yml", "spell: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yml").Load()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestNormalizeNonStringKeys(t *testing.T) {
	config, err := (&YAMLLoader{}).LoadFromReader(strings.NewReader("ports:\n  1: a\n  2: b\n"))
	if err != nil {
		t.Fatal(err)
	}
	ports, ok := config["ports"].(map[string]any)
	if !ok || ports["1"] != "a" {
		t.Errorf("ports = %#v", config["ports"])
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"/a/config.toml", false},
		{"/a/config.TOML", false},
		{"/a/config.yaml", false},
		{"/a/config.yml", false},
		{"/a/config.json", true},
		{"/a/config", true},
	}
	for _, tt := range tests {
		_, err := ForPath(NewMemFS(), tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ForPath(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
		}
	}
}

func TestLoadFile_Includes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/config.toml", `
"@include" = ["base.yaml", "/shared/filters.toml"]

[spell]
language = "en_GB"
`)
	memfs.AddFile("/cfg/base.yaml", `
spell:
  language: en_US
  prefix: base
logging:
  level: warn
`)
	memfs.AddFile("/shared/filters.toml", `
[spell]
prefix = "shared"
`)

	config, err := LoadFile(memfs, "/cfg/config.toml")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if _, ok := config[IncludeKey]; ok {
		t.Error("@include should be removed from the result")
	}
	if v := get(t, config, "spell.language"); v != "en_GB" {
		t.Errorf("spell.language = %v, the including file should win", v)
	}
	if v := get(t, config, "spell.prefix"); v != "shared" {
		t.Errorf("spell.prefix = %v, later includes should win", v)
	}
	if v := get(t, config, "logging.level"); v != "warn" {
		t.Errorf("logging.level = %v", v)
	}
}

func TestLoadFile_IncludeErrors(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/loop.toml", `"@include" = "loop.toml"`)
	memfs.AddFile("/bad.toml", `"@include" = 3`)

	if _, err := LoadFile(memfs, "/loop.toml"); !errors.Is(err, ErrIncludeDepthExceeded) {
		t.Errorf("self include error = %v, want ErrIncludeDepthExceeded", err)
	}
	if _, err := LoadFile(memfs, "/bad.toml"); err == nil {
		t.Error("non-string include should fail")
	}
	if config, err := LoadFile(memfs, "/missing.toml"); err != nil || config != nil {
		t.Errorf("missing file = %v, %v, want nil, nil", config, err)
	}
}
