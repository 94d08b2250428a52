package lua

import (
	"reflect"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestBridgeToGoValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	if err := L.DoString(`
arr = {"a", "b"}
map = {name = "x", n = 2}
sparse = {[1] = "a", [3] = "c"}
`); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input glua.LValue
		want  any
	}{
		{"nil", glua.LNil, nil},
		{"bool", glua.LTrue, true},
		{"integer", glua.LNumber(42), int64(42)},
		{"float", glua.LNumber(2.5), 2.5},
		{"string", glua.LString("hello"), "hello"},
		{"array", L.GetGlobal("arr"), []any{"a", "b"}},
		{"map", L.GetGlobal("map"), map[string]any{"name": "x", "n": int64(2)}},
		{"sparse", L.GetGlobal("sparse"), map[string]any{"1": "a", "3": "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bridge.ToGoValue(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToGoValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBridgeCircularTable(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	if err := L.DoString(`t = {name = "loop"}; t.self = t`); err != nil {
		t.Fatal(err)
	}
	got, ok := bridge.ToGoValue(L.GetGlobal("t")).(map[string]any)
	if !ok || got["name"] != "loop" || got["self"] != nil {
		t.Errorf("ToGoValue(circular) = %#v", got)
	}
}

func TestBridgeRoundTripStrings(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	tbl := bridge.StringsToTable([]string{"en_US", "de"})
	got, err := bridge.TableStrings(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"en_US", "de"}) {
		t.Errorf("TableStrings() = %v", got)
	}

	mixed := L.NewTable()
	mixed.Append(glua.LString("a"))
	mixed.Append(glua.LNumber(1))
	if _, err := bridge.TableStrings(mixed); err == nil {
		t.Error("TableStrings() with a number should fail")
	}
}

func TestBridgeToLuaValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	v := bridge.ToLuaValue(map[string]any{"code": "en", "n": 3, "ok": true})
	tbl, ok := v.(*glua.LTable)
	if !ok {
		t.Fatalf("ToLuaValue(map) = %T", v)
	}
	if s, _ := bridge.GetTableString(tbl, "code"); s != "en" {
		t.Errorf("code = %q", s)
	}
	if tbl.RawGetString("n") != glua.LNumber(3) || tbl.RawGetString("ok") != glua.LTrue {
		t.Error("number or bool field mismatch")
	}
	if _, ok := bridge.ToLuaValue(struct{}{}).(*glua.LUserData); !ok {
		t.Error("unsupported type should become userdata")
	}
	if bridge.ToLuaValue(nil) != glua.LNil {
		t.Error("nil should become LNil")
	}
}
