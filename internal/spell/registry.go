package spell

import (
	"reflect"
	"sync"
)

// The registry maps each view to at most one checker. Views are map keys,
// so their dynamic type must be comparable; pointers and small value
// adapters like EngineView are.
var registry = struct {
	sync.Mutex
	checkers map[View]*Checker
}{checkers: make(map[View]*Checker)}

// Attach returns the checker of view, creating one if the view has none.
// An existing checker is enabled again and opts are ignored. A view whose
// type is not comparable fails with ErrViewNotComparable; use New for
// those.
func Attach(view View, broker Broker, opts ...Option) (*Checker, error) {
	if !isComparable(view) {
		return nil, ErrViewNotComparable
	}
	registry.Lock()
	c, ok := registry.checkers[view]
	registry.Unlock()
	if ok {
		if err := c.Enable(); err != nil {
			return c, err
		}
		return c, nil
	}

	c, err := New(view, broker, opts...)
	if err != nil {
		return nil, err
	}

	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.checkers[view]; ok {
		c.Close()
		return nil, ErrAlreadyAttached
	}
	registry.checkers[view] = c
	return c, nil
}

// Lookup returns the checker attached to view.
func Lookup(view View) (*Checker, bool) {
	if !isComparable(view) {
		return nil, false
	}
	registry.Lock()
	defer registry.Unlock()
	c, ok := registry.checkers[view]
	return c, ok
}

// Detach disables and closes the checker of view, removing its
// highlighting. It reports whether a checker was attached.
func Detach(view View) bool {
	if !isComparable(view) {
		return false
	}
	registry.Lock()
	c, ok := registry.checkers[view]
	delete(registry.checkers, view)
	registry.Unlock()
	if !ok {
		return false
	}
	c.Disable()
	c.Close()
	return true
}

// isComparable reports whether view can be a map key. Interface fields
// holding uncomparable values are not detected.
func isComparable(view View) bool {
	t := reflect.TypeOf(view)
	return t != nil && t.Comparable()
}
