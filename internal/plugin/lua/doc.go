// Package lua wraps gopher-lua for running user scripts.
//
// A State opens only the base, package, table, string and math libraries.
// The sandbox removes dofile, loadfile, load and loadstring, empties the
// package search paths and limits require to built-in libraries and
// modules preloaded by the host. Each call runs under the execution
// timeout through the state's context.
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	state.PreloadModule("keyspell", loader)
//	if err := state.DoFile("init.lua"); err != nil {
//	    return err
//	}
//
// The Bridge converts values between Go and Lua.
package lua
