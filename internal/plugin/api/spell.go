package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyspell/internal/engine/buffer"
	plua "github.com/dshills/keyspell/internal/plugin/lua"
	"github.com/dshills/keyspell/internal/spell"
)

// SpellProvider is the part of *spell.Checker scripts reach.
type SpellProvider interface {
	Language() string
	SetLanguage(code string) error
	Languages() spell.LanguageList
	Enabled() bool
	Enable() error
	Disable()
	RecheckAll() error
	AppendFilter(pattern string, scope spell.FilterScope) error
	RemoveFilter(pattern string, scope spell.FilterScope) error
	AppendIgnoreTag(name string)
	RemoveIgnoreTag(name string) error
	IgnoreTags() []string
	AddToDictionary(word string) error
	IgnoreAll(word string) error
	Check(word string) (bool, error)
	Suggest(word string) ([]string, error)
	Misspellings() []buffer.Range
}

var _ SpellProvider = (*spell.Checker)(nil)

// SpellModule implements the spell API module.
type SpellModule struct {
	ctx *Context
}

// NewSpellModule creates a new spell module.
func NewSpellModule(ctx *Context) *SpellModule {
	return &SpellModule{ctx: ctx}
}

// Name returns the module name.
func (m *SpellModule) Name() string {
	return "spell"
}

// Register builds the module table.
func (m *SpellModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()

	L.SetField(mod, "language", L.NewFunction(m.language))
	L.SetField(mod, "set_language", L.NewFunction(m.setLanguage))
	L.SetField(mod, "languages", L.NewFunction(m.languages))
	L.SetField(mod, "enabled", L.NewFunction(m.enabled))
	L.SetField(mod, "enable", L.NewFunction(m.enable))
	L.SetField(mod, "disable", L.NewFunction(m.disable))
	L.SetField(mod, "recheck", L.NewFunction(m.recheck))
	L.SetField(mod, "append_filter", L.NewFunction(m.appendFilter))
	L.SetField(mod, "remove_filter", L.NewFunction(m.removeFilter))
	L.SetField(mod, "append_ignore_tag", L.NewFunction(m.appendIgnoreTag))
	L.SetField(mod, "remove_ignore_tag", L.NewFunction(m.removeIgnoreTag))
	L.SetField(mod, "ignore_tags", L.NewFunction(m.ignoreTags))
	L.SetField(mod, "add_to_dictionary", L.NewFunction(m.addToDictionary))
	L.SetField(mod, "ignore_all", L.NewFunction(m.ignoreAll))
	L.SetField(mod, "check", L.NewFunction(m.check))
	L.SetField(mod, "suggest", L.NewFunction(m.suggest))
	L.SetField(mod, "misspellings", L.NewFunction(m.misspellings))

	return mod, nil
}

// checker returns the provider or raises an error when none is attached.
func (m *SpellModule) checker(L *lua.LState) SpellProvider {
	if m.ctx == nil || m.ctx.Spell == nil {
		L.RaiseError("spell: no checker attached")
		return nil
	}
	return m.ctx.Spell
}

// language() -> string
func (m *SpellModule) language(L *lua.LState) int {
	L.Push(lua.LString(m.checker(L).Language()))
	return 1
}

// set_language(code)
func (m *SpellModule) setLanguage(L *lua.LState) int {
	code := L.CheckString(1)
	if err := m.checker(L).SetLanguage(code); err != nil {
		L.RaiseError("set_language: %v", err)
	}
	return 0
}

// languages() -> {{code=, name=}, ...}
func (m *SpellModule) languages(L *lua.LState) int {
	langs := m.checker(L).Languages()
	tbl := L.CreateTable(len(langs), 0)
	for _, lang := range langs {
		entry := L.CreateTable(0, 2)
		entry.RawSetString("code", lua.LString(lang.Code))
		entry.RawSetString("name", lua.LString(lang.Name))
		tbl.Append(entry)
	}
	L.Push(tbl)
	return 1
}

// enabled() -> bool
func (m *SpellModule) enabled(L *lua.LState) int {
	L.Push(lua.LBool(m.checker(L).Enabled()))
	return 1
}

// enable()
func (m *SpellModule) enable(L *lua.LState) int {
	if err := m.checker(L).Enable(); err != nil {
		L.RaiseError("enable: %v", err)
	}
	return 0
}

// disable()
func (m *SpellModule) disable(L *lua.LState) int {
	m.checker(L).Disable()
	return 0
}

// recheck()
func (m *SpellModule) recheck(L *lua.LState) int {
	if err := m.checker(L).RecheckAll(); err != nil {
		L.RaiseError("recheck: %v", err)
	}
	return 0
}

// append_filter(pattern [, scope])
// Scope is "word" (default), "line" or "text".
func (m *SpellModule) appendFilter(L *lua.LState) int {
	pattern, scope := m.filterArgs(L)
	if err := m.checker(L).AppendFilter(pattern, scope); err != nil {
		L.RaiseError("append_filter: %v", err)
	}
	return 0
}

// remove_filter(pattern [, scope])
func (m *SpellModule) removeFilter(L *lua.LState) int {
	pattern, scope := m.filterArgs(L)
	if err := m.checker(L).RemoveFilter(pattern, scope); err != nil {
		L.RaiseError("remove_filter: %v", err)
	}
	return 0
}

func (m *SpellModule) filterArgs(L *lua.LState) (string, spell.FilterScope) {
	pattern := L.CheckString(1)
	scope, err := spell.ParseFilterScope(L.OptString(2, "word"))
	if err != nil {
		L.ArgError(2, err.Error())
	}
	return pattern, scope
}

// append_ignore_tag(name)
func (m *SpellModule) appendIgnoreTag(L *lua.LState) int {
	m.checker(L).AppendIgnoreTag(L.CheckString(1))
	return 0
}

// remove_ignore_tag(name)
func (m *SpellModule) removeIgnoreTag(L *lua.LState) int {
	if err := m.checker(L).RemoveIgnoreTag(L.CheckString(1)); err != nil {
		L.RaiseError("remove_ignore_tag: %v", err)
	}
	return 0
}

// ignore_tags() -> {name, ...}
func (m *SpellModule) ignoreTags(L *lua.LState) int {
	L.Push(plua.NewBridge(L).StringsToTable(m.checker(L).IgnoreTags()))
	return 1
}

// add_to_dictionary(word)
func (m *SpellModule) addToDictionary(L *lua.LState) int {
	if err := m.checker(L).AddToDictionary(L.CheckString(1)); err != nil {
		L.RaiseError("add_to_dictionary: %v", err)
	}
	return 0
}

// ignore_all(word)
func (m *SpellModule) ignoreAll(L *lua.LState) int {
	if err := m.checker(L).IgnoreAll(L.CheckString(1)); err != nil {
		L.RaiseError("ignore_all: %v", err)
	}
	return 0
}

// check(word) -> bool
func (m *SpellModule) check(L *lua.LState) int {
	ok, err := m.checker(L).Check(L.CheckString(1))
	if err != nil {
		L.RaiseError("check: %v", err)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// suggest(word) -> {word, ...}
func (m *SpellModule) suggest(L *lua.LState) int {
	words, err := m.checker(L).Suggest(L.CheckString(1))
	if err != nil {
		L.RaiseError("suggest: %v", err)
	}
	L.Push(plua.NewBridge(L).StringsToTable(words))
	return 1
}

// misspellings() -> {{start=, stop=}, ...}
// Offsets are 0-based byte offsets; stop is exclusive.
func (m *SpellModule) misspellings(L *lua.LState) int {
	ranges := m.checker(L).Misspellings()
	tbl := L.CreateTable(len(ranges), 0)
	for _, r := range ranges {
		entry := L.CreateTable(0, 2)
		entry.RawSetString("start", lua.LNumber(r.Start))
		entry.RawSetString("stop", lua.LNumber(r.End))
		tbl.Append(entry)
	}
	L.Push(tbl)
	return 1
}
