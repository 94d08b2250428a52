package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// builtinModules may always be required.
var builtinModules = []string{"string", "table", "math"}

// Sandbox restricts what scripts can reach.
type Sandbox struct {
	L *lua.LState

	print   func(string)
	allowed map[string]bool
}

// NewSandbox creates a sandbox for L. A nil print function discards
// output.
func NewSandbox(L *lua.LState, print func(string)) *Sandbox {
	s := &Sandbox{
		L:       L,
		print:   print,
		allowed: make(map[string]bool),
	}
	for _, name := range builtinModules {
		s.allowed[name] = true
	}
	return s
}

// Install removes file loading, redirects print and replaces require.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
	s.installRequire()
}

// Allow lets require load a preloaded module.
func (s *Sandbox) Allow(name string) {
	s.allowed[name] = true
}

// Allowed reports whether require may load name.
func (s *Sandbox) Allowed(name string) bool {
	return s.allowed[name]
}

func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if s.print != nil {
			s.print(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

// installRequire empties package.path and package.cpath and wraps
// require so only allowed modules load.
func (s *Sandbox) installRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	original := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !s.allowed[name] {
			L.RaiseError("%s: %q", ErrModuleNotAvailable, name)
			return 0
		}
		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
