// Package api provides the Lua modules scripts use to drive the spell
// checker.
//
// Every module is a global named after the module and a field of the
// aggregate "keyspell" module:
//
//	spell.set_language("de_DE")
//	spell.append_filter("[A-Z]{2,}", "word")
//
//	local ks = require("keyspell")
//	ks.log.info("filters installed")
//
// Module functions raise Lua errors on failure, so scripts can use pcall.
package api
