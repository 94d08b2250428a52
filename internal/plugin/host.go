package plugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyspell/internal/plugin/api"
	plua "github.com/dshills/keyspell/internal/plugin/lua"
)

// Hook function names a script may define.
const (
	HookSetup           = "setup"
	HookTeardown        = "teardown"
	HookLanguageChanged = "on_language_changed"
	HookEnabledChanged  = "on_enabled_changed"
)

// Host runs one init script.
type Host struct {
	mu sync.Mutex

	apiCtx *api.Context
	state  *plua.State
	bridge *plua.Bridge

	path   string
	status State
	err    error

	executionTimeout time.Duration

	// Hooks raised while a script runs wait here.
	pendingMu sync.Mutex
	running   bool
	pending   []hookCall
}

type hookCall struct {
	name string
	args []any
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithExecutionTimeout sets the timeout for each script call.
func WithExecutionTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.executionTimeout = d
	}
}

// NewHost creates a Lua state with the api modules for ctx.
func NewHost(ctx *api.Context, opts ...HostOption) (*Host, error) {
	if ctx == nil {
		ctx = &api.Context{}
	}
	h := &Host{
		apiCtx:           ctx,
		executionTimeout: plua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	state, err := plua.NewState(
		plua.WithExecutionTimeout(h.executionTimeout),
		plua.WithPrint(h.print),
	)
	if err != nil {
		return nil, err
	}

	registry, err := api.DefaultRegistry(ctx)
	if err != nil {
		state.Close()
		return nil, err
	}
	if err := registry.InjectAll(state); err != nil {
		state.Close()
		return nil, err
	}

	h.state = state
	h.bridge = plua.NewBridge(state.LuaState())
	return h, nil
}

// print sends script output to the log.
func (h *Host) print(line string) {
	if h.apiCtx.Logger != nil {
		h.apiCtx.Logger.Info("script: %s", line)
	}
}

// Path returns the loaded script path.
func (h *Host) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.path
}

// State returns the lifecycle state.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Err returns the error that put the host in StateError.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Load runs the script at path. A leading ~ is expanded to the home
// directory.
func (h *Host) Load(_ context.Context, path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.status {
	case StateClosed:
		return ErrHostClosed
	case StateUnloaded:
	default:
		return ErrAlreadyLoaded
	}

	path, err := ExpandHome(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrScriptNotFound, path)
		}
		return err
	}

	h.path = path
	if err := h.runLocked(func() error { return h.state.DoFile(path) }); err != nil {
		return h.failLocked(fmt.Errorf("load %s: %w", path, err))
	}
	h.status = StateLoaded
	h.err = nil
	return nil
}

// DoString runs a chunk in the script's state.
func (h *Host) DoString(code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status == StateClosed {
		return ErrHostClosed
	}
	return h.runLocked(func() error { return h.state.DoString(code) })
}

// Activate calls setup(config) if the script defines it.
func (h *Host) Activate(_ context.Context, config map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status != StateLoaded {
		return ErrNotLoaded
	}
	// Hooks raised by setup itself are delivered once it returns.
	h.status = StateActive
	if err := h.callLocked(HookSetup, config); err != nil {
		return h.failLocked(fmt.Errorf("%s: %w", HookSetup, err))
	}
	return nil
}

// Notify calls the named hook if the script defines it. Calls made while
// the script is running are delivered after it returns.
func (h *Host) Notify(hook string, args ...any) error {
	h.pendingMu.Lock()
	if h.running {
		h.pending = append(h.pending, hookCall{name: hook, args: args})
		h.pendingMu.Unlock()
		return nil
	}
	h.pendingMu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != StateActive {
		return nil
	}
	return h.callLocked(hook, args...)
}

// Close calls teardown if the host is active and releases the Lua state.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status == StateClosed {
		return nil
	}
	var err error
	if h.status == StateActive {
		err = h.callLocked(HookTeardown)
	}
	h.status = StateClosed
	return errors.Join(err, h.state.Close())
}

func (h *Host) failLocked(err error) error {
	h.status = StateError
	h.err = err
	return err
}

// callLocked calls a global function if it exists.
func (h *Host) callLocked(name string, args ...any) error {
	if h.state.GetGlobal(name).Type() != lua.LTFunction {
		return nil
	}
	values := make([]lua.LValue, len(args))
	for i, arg := range args {
		values[i] = h.bridge.ToLuaValue(arg)
	}
	return h.runLocked(func() error {
		_, err := h.state.Call(name, values...)
		return err
	})
}

// runLocked runs fn and then delivers the hooks it raised.
func (h *Host) runLocked(fn func() error) error {
	h.pendingMu.Lock()
	nested := h.running
	h.running = true
	h.pendingMu.Unlock()
	if nested {
		return fn()
	}

	err := fn()

	for {
		h.pendingMu.Lock()
		calls := h.pending
		h.pending = nil
		if len(calls) == 0 || h.status != StateActive {
			h.running = false
			h.pending = nil
			h.pendingMu.Unlock()
			return err
		}
		h.pendingMu.Unlock()

		for _, call := range calls {
			if h.state.GetGlobal(call.name).Type() != lua.LTFunction {
				continue
			}
			values := make([]lua.LValue, len(call.args))
			for i, arg := range call.args {
				values[i] = h.bridge.ToLuaValue(arg)
			}
			if _, callErr := h.state.Call(call.name, values...); callErr != nil {
				err = errors.Join(err, fmt.Errorf("%s: %w", call.name, callErr))
			}
		}
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
