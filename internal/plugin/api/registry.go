package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/keyspell/internal/plugin/lua"
)

// AggregateModule is the name scripts require to get every module.
const AggregateModule = "keyspell"

// APIVersion is exposed as keyspell.api_version.
const APIVersion = 1

// Module is a Lua API module.
type Module interface {
	// Name returns the module name, e.g. "spell".
	Name() string

	// Register builds the module table in L.
	Register(L *lua.LState) (*lua.LTable, error)
}

// Registry holds API modules.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the registered module names sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers every module into state as a global and as a field
// of the preloaded aggregate module.
func (r *Registry) InjectAll(state *plua.State) error {
	L := state.LuaState()
	aggregate := L.NewTable()

	for _, name := range r.List() {
		mod, _ := r.Get(name)
		tbl, err := mod.Register(L)
		if err != nil {
			return fmt.Errorf("register module %q: %w", name, err)
		}
		state.SetGlobal(name, tbl)
		L.SetField(aggregate, name, tbl)
	}
	L.SetField(aggregate, "api_version", lua.LNumber(APIVersion))

	state.PreloadModule(AggregateModule, func(L *lua.LState) int {
		L.Push(aggregate)
		return 1
	})
	return nil
}

// DefaultRegistry creates a registry with the spell and log modules.
func DefaultRegistry(ctx *Context) (*Registry, error) {
	r := NewRegistry()
	for _, mod := range []Module{
		NewSpellModule(ctx),
		NewLogModule(ctx),
	} {
		if err := r.Register(mod); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Context gives modules access to the host.
type Context struct {
	// Spell is the checker scripts control.
	Spell SpellProvider

	// Logger receives log module output.
	Logger Logger
}

// Logger is the leveled logger the log module writes to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
