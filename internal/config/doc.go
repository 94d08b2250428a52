// Package config loads keyspell settings.
//
// Configuration is organized in layers, higher overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Session (runtime Set)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Command line flags      │
//	├─────────────────────────────┤
//	│  3. Environment (KEYSPELL_) │
//	├─────────────────────────────┤
//	│  2. Project .keyspell.toml  │
//	├─────────────────────────────┤
//	│  1. User config file        │  ← ~/.config/keyspell/config.toml
//	├─────────────────────────────┤
//	│  0. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Files may be TOML or YAML. The loader sub-package parses them and the
// layer sub-package merges them. When watching is enabled the files are
// reloaded on change and OnChange handlers receive the dot paths that
// changed.
//
// A user config might look like:
//
//	[spell]
//	language = "en_GB"
//	collapse_suggestions = false
//	ignore_tags = ["code"]
//
//	[[spell.filters]]
//	pattern = '^\s*#'
//	scope = "line"
//
//	[spell.backend]
//	"wordlist.dictionary.path" = "/usr/share/hunspell"
//
// Typed snapshots of the sections are available through Spell, Logging
// and Editor.
package config
