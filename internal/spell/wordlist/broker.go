package wordlist

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/keyspell/internal/spell"
)

// Parameters understood by Broker.SetParam.
const (
	// ParamDictionaryPath replaces the dictionary search path. The value is
	// a list of directories joined with the OS path list separator.
	ParamDictionaryPath = "wordlist.dictionary.path"

	// ParamPersonalPath sets the directory holding personal word lists.
	ParamPersonalPath = "wordlist.personal.path"
)

const personalExt = ".pwl"

// DefaultDictionaryPaths are searched when no path is configured.
var DefaultDictionaryPaths = []string{
	"/usr/share/hunspell",
	"/usr/share/myspell",
	"/usr/share/myspell/dicts",
}

// DefaultPersonalDir returns the per-user directory for personal word
// lists, or "" when the OS has no config directory.
func DefaultPersonalDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keyspell", "personal")
}

// Broker opens word list dictionaries. It implements spell.Broker.
type Broker struct {
	mu sync.Mutex

	paths       []string
	personalDir string
	watch       bool
	logger      spell.Logger

	// language code -> word list file
	index map[string]string

	base     map[string]*wordSet
	personal map[string]*wordSet

	watcher  *fsnotify.Watcher
	watching string
	closed   bool
	closeCh  chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Broker.
type Option func(*Broker)

// WithDictionaryPaths sets the directories searched for word lists. Earlier
// directories win when a language appears twice.
func WithDictionaryPaths(paths ...string) Option {
	return func(b *Broker) {
		b.paths = slices.Clone(paths)
	}
}

// WithPersonalDir sets the personal word list directory. An empty dir keeps
// personal words in memory only.
func WithPersonalDir(dir string) Option {
	return func(b *Broker) {
		b.personalDir = dir
	}
}

// WithWatch enables or disables reloading personal lists on change.
// Watching is on by default.
func WithWatch(enabled bool) Option {
	return func(b *Broker) {
		b.watch = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l spell.Logger) Option {
	return func(b *Broker) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBroker scans the dictionary paths and starts watching the personal
// directory.
func NewBroker(opts ...Option) (*Broker, error) {
	b := &Broker{
		paths:       slices.Clone(DefaultDictionaryPaths),
		personalDir: DefaultPersonalDir(),
		watch:       true,
		logger:      nopLogger{},
		base:        make(map[string]*wordSet),
		personal:    make(map[string]*wordSet),
		closeCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("personal word list watcher: %w", err)
		}
		b.watcher = w
		b.wg.Add(1)
		go b.processLoop()
	}

	b.mu.Lock()
	b.scanLocked()
	b.watchPersonalLocked()
	b.mu.Unlock()
	return b, nil
}

// ListLanguages returns the language codes of all word lists found.
func (b *Broker) ListLanguages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	codes := make([]string, 0, len(b.index))
	for code := range b.index {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Path returns the word list file backing code.
func (b *Broker) Path(code string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.index[code]
	return p, ok
}

// RequestDictionary opens the dictionary for code. Word lists are loaded
// once and shared by every dictionary of the same language. Each
// dictionary gets its own session list.
func (b *Broker) RequestDictionary(code string) (spell.Dictionary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}
	path, ok := b.index[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", spell.ErrUnsupportedLanguage, code)
	}

	base := b.base[code]
	if base == nil {
		words, err := readWordList(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		base = newWordSet(words)
		b.base[code] = base
		b.logger.Debug("loaded %d words for %s from %s", len(words), code, path)
	}

	personal, err := b.personalLocked(code)
	if err != nil {
		return nil, err
	}
	return newDictionary(b, code, base, personal), nil
}

// SetParam implements spell.Broker. See ParamDictionaryPath and
// ParamPersonalPath.
func (b *Broker) SetParam(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}
	switch key {
	case ParamDictionaryPath:
		b.paths = filepath.SplitList(value)
		b.base = make(map[string]*wordSet)
		b.scanLocked()
	case ParamPersonalPath:
		b.personalDir = value
		b.personal = make(map[string]*wordSet)
		b.watchPersonalLocked()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, key)
	}
	return nil
}

// Close stops watching personal lists. Dictionaries already handed out
// keep working.
func (b *Broker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.closeCh)
	b.mu.Unlock()

	b.wg.Wait()
	if b.watcher != nil {
		return b.watcher.Close()
	}
	return nil
}

func (b *Broker) scanLocked() {
	b.index = make(map[string]string)
	for _, dir := range b.paths {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			b.logger.Debug("skip dictionary dir %s: %v", dir, err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			code, ok := dictionaryCode(e.Name())
			if !ok {
				continue
			}
			if _, dup := b.index[code]; dup {
				continue
			}
			b.index[code] = filepath.Join(dir, e.Name())
		}
	}
}

// dictionaryCode maps a file name such as "en_US.dic" to its language code.
func dictionaryCode(name string) (string, bool) {
	ext := filepath.Ext(name)
	if ext != ".dic" && ext != ".txt" {
		return "", false
	}
	if strings.HasPrefix(name, "hyph_") || strings.HasPrefix(name, "th_") || strings.HasPrefix(name, ".") {
		return "", false
	}
	code := strings.TrimSuffix(name, ext)
	return code, code != ""
}

func (b *Broker) personalPath(code string) string {
	if b.personalDir == "" {
		return ""
	}
	return filepath.Join(b.personalDir, code+personalExt)
}

func (b *Broker) personalLocked(code string) (*wordSet, error) {
	if s := b.personal[code]; s != nil {
		return s, nil
	}
	var words []string
	if path := b.personalPath(code); path != "" {
		var err error
		if words, err = readPersonalList(path); err != nil {
			return nil, fmt.Errorf("load personal list %s: %w", path, err)
		}
	}
	s := newWordSet(words)
	b.personal[code] = s
	return s, nil
}

// addPersonal records word for code and appends it to the personal file.
func (b *Broker) addPersonal(code, word string, set *wordSet) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if set.has(word) {
		return nil
	}
	if path := b.personalPath(code); path != "" {
		if err := appendWord(path, word); err != nil {
			return fmt.Errorf("save personal word: %w", err)
		}
		b.watchPersonalLocked()
	}
	set.add(word)
	return nil
}

// watchPersonalLocked points the watcher at the current personal
// directory. A directory that does not exist yet is picked up by the first
// AddToPersonal.
func (b *Broker) watchPersonalLocked() {
	if b.watcher == nil || b.closed || b.watching == b.personalDir {
		return
	}
	if b.watching != "" {
		_ = b.watcher.Remove(b.watching)
		b.watching = ""
	}
	if b.personalDir == "" {
		return
	}
	if _, err := os.Stat(b.personalDir); err != nil {
		return
	}
	if err := b.watcher.Add(b.personalDir); err != nil {
		b.logger.Warn("watch personal dir %s: %v", b.personalDir, err)
		return
	}
	b.watching = b.personalDir
}

func (b *Broker) processLoop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.closeCh:
			return

		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Chmod) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			b.reloadPersonal(ev.Name)

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.logger.Warn("personal word list watcher: %v", err)
		}
	}
}

// reloadPersonal rereads a changed personal file if its language is loaded.
func (b *Broker) reloadPersonal(path string) {
	if filepath.Ext(path) != personalExt {
		return
	}
	code := strings.TrimSuffix(filepath.Base(path), personalExt)

	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.personal[code]
	if set == nil || filepath.Dir(path) != filepath.Clean(b.personalDir) {
		return
	}
	words, err := readPersonalList(path)
	if err != nil {
		b.logger.Warn("reload personal list %s: %v", path, err)
		return
	}
	set.replace(words)
	b.logger.Debug("reloaded %d personal words for %s", len(words), code)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
