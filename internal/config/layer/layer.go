// Package layer merges configuration sources by priority.
//
// Each source (built-in defaults, the user file, environment variables,
// command line flags) is a Layer holding a nested map. The Manager deep
// merges layers from lowest to highest priority, so a key set in the
// environment overrides the same key in the user file.
package layer

import "time"

// Layer is one configuration source.
type Layer struct {
	// Name identifies the layer, such as "defaults" or "user".
	Name string

	// Priority determines merge order. Higher overrides lower.
	Priority int

	// Source records where the data came from.
	Source Source

	// Path is the file the layer was loaded from, if any.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any

	// ModTime is when the layer was loaded.
	ModTime time.Time
}

// New creates a layer holding data. The priority is the default for
// source.
func New(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: source.Priority(),
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin is the compiled in defaults.
	SourceBuiltin Source = iota
	// SourceUser is the user config file.
	SourceUser
	// SourceProject is a .keyspell file in the working directory.
	SourceProject
	// SourceEnv is KEYSPELL_* environment variables.
	SourceEnv
	// SourceFlags is command line flags.
	SourceFlags
	// SourceSession is values set at runtime, for example from a script.
	SourceSession
)

// Standard priorities.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityProject = 200
	PriorityEnv     = 500
	PriorityFlags   = 600
	PrioritySession = 1000
)

// Priority returns the default priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceUser:
		return PriorityUser
	case SourceProject:
		return PriorityProject
	case SourceEnv:
		return PriorityEnv
	case SourceFlags:
		return PriorityFlags
	case SourceSession:
		return PrioritySession
	default:
		return PriorityBuiltin
	}
}

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceProject:
		return "project"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	case []string:
		return append([]string(nil), v...)
	default:
		return val
	}
}
