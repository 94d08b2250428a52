package config

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/keyspell/internal/config/layer"
	"github.com/dshills/keyspell/internal/config/loader"
	"github.com/dshills/keyspell/internal/config/watcher"
)

// Layer names.
const (
	LayerDefaults = "defaults"
	LayerUser     = "user"
	LayerProject  = "project"
	LayerEnv      = "environment"
	LayerFlags    = "flags"
	LayerSession  = "session"
)

// userFileNames are tried in order in the user config directory.
var userFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// projectFileNames are tried in order in the project directory.
var projectFileNames = []string{".keyspell.toml", ".keyspell.yaml", ".keyspell.yml"}

// ChangeHandler receives the sorted dot paths whose effective values
// changed.
type ChangeHandler func(changed []string)

// Config provides merged access to all configuration layers.
type Config struct {
	mu sync.RWMutex

	layers *layer.Manager
	fs     loader.FileSystem
	env    loader.Loader

	userConfigDir string
	configFile    string
	projectDir    string
	flags         map[string]any

	// files backing the user and project layers
	userFile    string
	projectFile string

	enableWatcher bool
	watcher       *watcher.Watcher
	onError       func(error)

	handlers  map[int]ChangeHandler
	nextID    int
	handlerMu sync.Mutex

	// configErrors records type problems found by section accessors.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the directory searched for config.toml or
// config.yaml.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithConfigFile uses path as the user config file instead of searching
// the user config directory.
func WithConfigFile(path string) Option {
	return func(c *Config) {
		c.configFile = path
	}
}

// WithProjectDir sets the directory searched for a .keyspell file.
func WithProjectDir(dir string) Option {
	return func(c *Config) {
		c.projectDir = dir
	}
}

// WithFlags adds values from the command line, keyed by dot path.
func WithFlags(values map[string]any) Option {
	return func(c *Config) {
		for path, v := range values {
			layer.SetByPath(c.flags, path, v)
		}
	}
}

// WithWatcher enables reloading files when they change.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithFS sets the file system files are read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvLoader replaces the KEYSPELL_ environment loader.
func WithEnvLoader(l loader.Loader) Option {
	return func(c *Config) {
		c.env = l
	}
}

// WithErrorHandler receives errors from background reloads.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.onError = fn
	}
}

// New creates a Config. Nothing is read until Load.
func New(opts ...Option) *Config {
	c := &Config{
		layers:        layer.NewManager(),
		fs:            loader.DefaultFS(),
		env:           loader.NewEnvLoader(loader.EnvPrefix),
		flags:         make(map[string]any),
		enableWatcher: true,
		handlers:      make(map[int]ChangeHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.userConfigDir == "" {
		c.userConfigDir = DefaultUserConfigDir()
	}
	return c
}

// Load reads every layer and, if enabled, starts watching the files.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	c.layers.Put(layer.New(LayerDefaults, layer.SourceBuiltin, defaultConfig()))
	c.layers.Put(layer.New(LayerSession, layer.SourceSession, nil))
	if len(c.flags) > 0 {
		c.layers.Put(layer.New(LayerFlags, layer.SourceFlags, c.flags))
	}
	err := c.loadFilesLocked()
	if err == nil {
		err = c.loadEnvironmentLocked()
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if c.enableWatcher {
		return c.startWatcher()
	}
	return nil
}

// Reload rereads the user and project files and the environment, then
// notifies change handlers.
func (c *Config) Reload() error {
	c.mu.Lock()
	before := c.layers.Merge()
	err := c.loadFilesLocked()
	if err == nil {
		err = c.loadEnvironmentLocked()
	}
	after := c.layers.Merge()
	c.mu.Unlock()

	if changed := layer.DiffMaps(before, after); len(changed) > 0 {
		c.notify(changed)
	}
	return err
}

// Close stops the file watcher.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}

// Files returns the files currently loaded, user file first.
func (c *Config) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var files []string
	for _, f := range []string{c.userFile, c.projectFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// OnChange registers a handler called after Set or a reload changes
// effective values. It returns a function that removes the handler.
func (c *Config) OnChange(h ChangeHandler) func() {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	id := c.nextID
	c.nextID++
	c.handlers[id] = h
	return func() {
		c.handlerMu.Lock()
		delete(c.handlers, id)
		c.handlerMu.Unlock()
	}
}

func (c *Config) notify(changed []string) {
	c.handlerMu.Lock()
	ids := slices.Sorted(maps.Keys(c.handlers))
	handlers := make([]ChangeHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, c.handlers[id])
	}
	c.handlerMu.Unlock()

	for _, h := range handlers {
		h(changed)
	}
}

// Get returns the effective value at a dot path.
func (c *Config) Get(path string) (any, bool) {
	return c.layers.Get(path)
}

// Which returns the layer that provides the value at path.
func (c *Config) Which(path string) string {
	return c.layers.Which(path)
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	return c.layers.Merge()
}

// GetString returns a string value.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetStringSlice returns a list of strings. A single string is returned
// as a one element list.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return slices.Clone(val), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// GetStringMap returns a table whose values are rendered as strings.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "map", Actual: typeName(v)}
	}
	result := make(map[string]string, len(m))
	for k, val := range m {
		switch val.(type) {
		case map[string]any, []any:
			return nil, &TypeError{Path: path + "." + k, Expected: "scalar", Actual: typeName(val)}
		}
		result[k] = fmt.Sprint(val)
	}
	return result, nil
}

// Set stores value in the session layer and notifies change handlers if
// the effective value changed.
func (c *Config) Set(path string, value any) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") {
		return ErrInvalidPath
	}

	c.mu.Lock()
	if c.layers.Layer(LayerSession) == nil {
		c.layers.Put(layer.New(LayerSession, layer.SourceSession, nil))
	}
	before := c.layers.Merge()
	err := c.layers.Set(LayerSession, path, value)
	after := c.layers.Merge()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if changed := layer.DiffMaps(before, after); len(changed) > 0 {
		c.notify(changed)
	}
	return nil
}

// loadFilesLocked replaces the user and project layers.
func (c *Config) loadFilesLocked() error {
	userFile := c.configFile
	if userFile == "" {
		userFile = c.findFile(c.userConfigDir, userFileNames)
	}
	data, err := c.loadFile(userFile)
	if err != nil {
		return err
	}
	c.putFileLayer(LayerUser, layer.SourceUser, userFile, data)
	c.userFile = ""
	if data != nil {
		c.userFile = userFile
	}

	c.projectFile = ""
	if c.projectDir == "" {
		c.layers.Remove(LayerProject)
		return nil
	}
	projectFile := c.findFile(c.projectDir, projectFileNames)
	data, err = c.loadFile(projectFile)
	if err != nil {
		return err
	}
	c.putFileLayer(LayerProject, layer.SourceProject, projectFile, data)
	if data != nil {
		c.projectFile = projectFile
	}
	return nil
}

func (c *Config) loadFile(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := loader.LoadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return data, nil
}

func (c *Config) putFileLayer(name string, source layer.Source, path string, data map[string]any) {
	if data == nil {
		c.layers.Remove(name)
		return
	}
	l := layer.New(name, source, data)
	l.Path = path
	c.layers.Put(l)
}

// findFile returns the first existing candidate in dir, or the first
// candidate so that its creation can be watched.
func (c *Config) findFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		p := filepath.Join(dir, name)
		if _, err := c.fs.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(dir, names[0])
}

func (c *Config) loadEnvironmentLocked() error {
	if c.env == nil {
		return nil
	}
	data, err := c.env.Load()
	if err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	if len(data) == 0 {
		c.layers.Remove(LayerEnv)
		return nil
	}
	c.layers.Put(layer.New(LayerEnv, layer.SourceEnv, data))
	return nil
}

func (c *Config) startWatcher() error {
	w, err := watcher.New(watcher.WithErrorHandler(c.reportError))
	if err != nil {
		return err
	}

	c.mu.Lock()
	var paths []string
	if c.configFile != "" {
		paths = append(paths, c.configFile)
	} else if c.userConfigDir != "" {
		for _, name := range userFileNames {
			paths = append(paths, filepath.Join(c.userConfigDir, name))
		}
	}
	if c.projectDir != "" {
		for _, name := range projectFileNames {
			paths = append(paths, filepath.Join(c.projectDir, name))
		}
	}
	c.watcher = w
	c.mu.Unlock()

	for _, p := range paths {
		// A missing directory just means there is nothing to reload.
		_ = w.Watch(p)
	}
	w.OnChange(c.handleFileChange)
	w.Start()
	return nil
}

func (c *Config) handleFileChange(watcher.Event) {
	if err := c.Reload(); err != nil {
		c.reportError(err)
	}
}

func (c *Config) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

// DefaultUserConfigDir returns $XDG_CONFIG_HOME/keyspell or the OS user
// config directory.
func DefaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "keyspell")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keyspell")
}

// defaultConfig returns the built-in values.
func defaultConfig() map[string]any {
	return map[string]any{
		"spell": map[string]any{
			"language":             "",
			"prefix":               "keyspell",
			"collapse_suggestions": true,
			"enabled":              true,
			"ignore_tags":          []any{},
			"init_script":          "",
			"filters":              []any{},
			"backend":              map[string]any{},
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"editor": map[string]any{
			"tab_width": 4,
		},
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
