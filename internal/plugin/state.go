package plugin

// State is the lifecycle state of a script host.
type State int

// Host states.
const (
	// StateUnloaded means no script has been loaded.
	StateUnloaded State = iota

	// StateLoaded means the script ran but setup has not been called.
	StateLoaded

	// StateActive means setup finished and hooks are delivered.
	StateActive

	// StateError means loading or setup failed.
	StateError

	// StateClosed means the Lua state was released.
	StateClosed
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// IsUsable returns true if scripts can be called.
func (s State) IsUsable() bool {
	return s == StateLoaded || s == StateActive
}
