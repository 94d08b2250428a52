// Package plugin runs the user's init script.
//
// A Host owns one sandboxed Lua state with the api modules injected. Load
// runs the script, Activate calls its optional setup(config) function with
// the spell settings, and Notify delivers hook calls such as
// on_language_changed(code) to functions the script defined:
//
//	host, err := plugin.NewHost(&api.Context{Spell: checker, Logger: log})
//	if err != nil {
//	    return err
//	}
//	defer host.Close()
//
//	if err := host.Load(ctx, "~/.config/keyspell/init.lua"); err != nil {
//	    return err
//	}
//	if err := host.Activate(ctx, map[string]any{"language": "en_US"}); err != nil {
//	    return err
//	}
//
// Hooks raised while the script itself is running are queued and
// delivered when it returns.
package plugin
