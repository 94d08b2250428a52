package layer

import (
	"fmt"
	"slices"
	"sync"
)

// Manager holds layers and caches their merged view.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer // ascending priority
	merged map[string]any
	dirty  bool
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// Put adds l, replacing any layer with the same name.
func (m *Manager) Put(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = slices.DeleteFunc(m.layers, func(x *Layer) bool { return x.Name == l.Name })
	m.layers = append(m.layers, l)
	slices.SortStableFunc(m.layers, func(a, b *Layer) int { return a.Priority - b.Priority })
	m.dirty = true
}

// Remove removes a layer by name and reports whether it existed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.layers)
	m.layers = slices.DeleteFunc(m.layers, func(x *Layer) bool { return x.Name == name })
	if len(m.layers) == n {
		return false
	}
	m.dirty = true
	return true
}

// Layer returns the named layer or nil.
func (m *Manager) Layer(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLocked(name)
}

// Layers returns the layers in ascending priority.
func (m *Manager) Layers() []*Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.layers)
}

// Merge returns a deep copy of all layers merged.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneMap(m.mergedLocked())
}

// Get returns the effective value at path.
func (m *Manager) Get(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := GetByPath(m.mergedLocked(), path)
	return cloneValue(v), ok
}

// Which returns the name of the highest priority layer setting path.
func (m *Manager) Which(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if _, ok := GetByPath(m.layers[i].Data, path); ok {
			return m.layers[i].Name
		}
	}
	return ""
}

// Set stores value at path in the named layer.
func (m *Manager) Set(name, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.findLocked(name)
	if l == nil {
		return fmt.Errorf("layer not found: %s", name)
	}
	SetByPath(l.Data, path, value)
	m.dirty = true
	return nil
}

func (m *Manager) mergedLocked() map[string]any {
	if m.dirty || m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
		m.dirty = false
	}
	return m.merged
}

func (m *Manager) findLocked(name string) *Layer {
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}
