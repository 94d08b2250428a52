package api

import (
	lua "github.com/yuin/gopher-lua"
)

// LogModule implements the log API module.
type LogModule struct {
	ctx *Context
}

// NewLogModule creates a new log module.
func NewLogModule(ctx *Context) *LogModule {
	return &LogModule{ctx: ctx}
}

// Name returns the module name.
func (m *LogModule) Name() string {
	return "log"
}

// Register builds the module table with debug, info, warn and error.
func (m *LogModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()
	for name, fn := range map[string]func(Logger, string){
		"debug": func(l Logger, msg string) { l.Debug("%s", msg) },
		"info":  func(l Logger, msg string) { l.Info("%s", msg) },
		"warn":  func(l Logger, msg string) { l.Warn("%s", msg) },
		"error": func(l Logger, msg string) { l.Error("%s", msg) },
	} {
		L.SetField(mod, name, L.NewFunction(m.logFunc(fn)))
	}
	return mod, nil
}

// logFunc joins the arguments with spaces like print does.
func (m *LogModule) logFunc(write func(Logger, string)) lua.LGFunction {
	return func(L *lua.LState) int {
		if m.ctx == nil || m.ctx.Logger == nil {
			return 0
		}
		msg := ""
		for i := 1; i <= L.GetTop(); i++ {
			if i > 1 {
				msg += " "
			}
			msg += L.ToStringMeta(L.Get(i)).String()
		}
		write(m.ctx.Logger, msg)
		return 0
	}
}
